package main

import (
	"image"
	"math"
)

// zoomEpsilon is the tolerance used to decide that a surface sits at its minimum scale
const zoomEpsilon = 1.1920929e-07

// Bitmap is anything with intrinsic pixel dimensions (image.Image, *ebiten.Image)
type Bitmap interface {
	Bounds() image.Rectangle
}

// ScrollObserver receives the viewport events of a ZoomableSurface.
// Every event is forwarded verbatim; scroll-to-top is never offered.
type ScrollObserver interface {
	SurfaceDidScroll(s *ZoomableSurface)
	SurfaceWillBeginDragging(s *ZoomableSurface)
	SurfaceDidEndDragging(s *ZoomableSurface)
	SurfaceWillBeginZooming(s *ZoomableSurface)
	SurfaceDidZoom(s *ZoomableSurface)
	SurfaceDidEndZooming(s *ZoomableSurface, scale float64)
	SurfaceDidChangeOrientation(s *ZoomableSurface)
}

type zoomAnimation struct {
	from, to float64
	frame    int
	frames   int
}

// ZoomableSurface owns the zoom and pan state of a single page.
// Offsets live in scaled content space; the captured resize point lives in
// unscaled image space.
type ZoomableSurface struct {
	imageSize Size
	viewport  Rect

	zoomScale    float64
	minZoomScale float64
	maxZoomScale float64

	contentOffset Point // scroll position
	contentOrigin Point // frame origin of the content inside the viewport

	pointToCenterAfterResize  Point
	scaleToRestoreAfterResize float64
	resizeFrom                Rect
	resizePending             bool

	anim       *zoomAnimation
	animFrames int
	dragging   bool

	observer ScrollObserver
}

// NewZoomableSurface creates an unconfigured surface.
// animFrames is the length of animated zoom changes; 0 disables animation.
func NewZoomableSurface(animFrames int) *ZoomableSurface {
	if animFrames < 0 {
		animFrames = 0
	}
	return &ZoomableSurface{
		zoomScale:                 1,
		minZoomScale:              1,
		maxZoomScale:              1,
		scaleToRestoreAfterResize: 1,
		animFrames:                animFrames,
	}
}

// SetObserver installs the event observer; nil removes it
func (s *ZoomableSurface) SetObserver(observer ScrollObserver) {
	s.observer = observer
}

func (s *ZoomableSurface) ZoomScale() float64     { return s.zoomScale }
func (s *ZoomableSurface) MinZoomScale() float64  { return s.minZoomScale }
func (s *ZoomableSurface) MaxZoomScale() float64  { return s.maxZoomScale }
func (s *ZoomableSurface) ContentOffset() Point   { return s.contentOffset }
func (s *ZoomableSurface) ContentOrigin() Point   { return s.contentOrigin }
func (s *ZoomableSurface) Viewport() Rect         { return s.viewport }
func (s *ZoomableSurface) ImageSize() Size        { return s.imageSize }
func (s *ZoomableSurface) IsAnimating() bool      { return s.anim != nil }
func (s *ZoomableSurface) ShouldScrollToTop() bool { return false }

// ContentSize returns the scaled size of the image
func (s *ZoomableSurface) ContentSize() Size {
	return s.imageSize.Scale(s.zoomScale)
}

// Configure displays img inside viewport at the minimum zoom scale
func (s *ZoomableSurface) Configure(img Bitmap, viewport Rect) {
	s.imageSize = sizeOf(img)
	s.viewport = viewport
	s.anim = nil
	s.resizePending = false

	s.updateZoomBounds()
	s.zoomScale = s.minZoomScale

	content := s.ContentSize()
	yOffset := 0.0
	if content.H >= viewport.Size.H {
		yOffset = (content.H - viewport.Size.H) / 2
	}
	s.contentOffset = Point{0, yOffset}

	s.Recenter()
}

// updateZoomBounds derives min/max zoom from the viewport width and image width
func (s *ZoomableSurface) updateZoomBounds() {
	if s.imageSize.IsEmpty() || s.viewport.IsEmpty() {
		s.minZoomScale, s.maxZoomScale = 1, 1
		return
	}

	minScale := s.viewport.Size.W / s.imageSize.W
	maxScale := (s.imageSize.W / s.viewport.Size.W) * minScale
	if minScale > maxScale {
		minScale, maxScale = maxScale, minScale
	}

	s.minZoomScale = sanitizeScale(minScale)
	s.maxZoomScale = sanitizeScale(maxScale)
	if s.minZoomScale > s.maxZoomScale {
		s.maxZoomScale = s.minZoomScale
	}
}

func sanitizeScale(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 1
	}
	return v
}

func (s *ZoomableSurface) clampScale(scale float64) float64 {
	return math.Min(s.maxZoomScale, math.Max(s.minZoomScale, scale))
}

// Recenter centers the content on every axis where it is smaller than the viewport
func (s *ZoomableSurface) Recenter() {
	content := s.ContentSize()
	bounds := s.viewport.Size

	if content.W < bounds.W {
		s.contentOrigin.X = (bounds.W - content.W) / 2
	} else {
		s.contentOrigin.X = 0
	}

	if content.H < bounds.H {
		s.contentOrigin.Y = (bounds.H - content.H) / 2
	} else {
		s.contentOrigin.Y = 0
	}
}

func (s *ZoomableSurface) maximumContentOffset() Point {
	content := s.ContentSize()
	return Point{content.W - s.viewport.Size.W, content.H - s.viewport.Size.H}
}

func (s *ZoomableSurface) minimumContentOffset() Point {
	return Point{}
}

// clampOffset keeps the offset inside [minimum, maximum]; the minimum wins
// when the content is smaller than the viewport
func (s *ZoomableSurface) clampOffset(offset Point) Point {
	maxOffset := s.maximumContentOffset()
	minOffset := s.minimumContentOffset()

	offset.X = math.Max(minOffset.X, math.Min(maxOffset.X, offset.X))
	offset.Y = math.Max(minOffset.Y, math.Min(maxOffset.Y, offset.Y))
	return offset
}

// contentPointAt converts a viewport-local point into unscaled image coordinates
func (s *ZoomableSurface) contentPointAt(local Point) Point {
	return s.contentOffset.Add(local).Sub(s.contentOrigin).Mul(1 / s.zoomScale)
}

func (s *ZoomableSurface) viewportCenterLocal() Point {
	return Point{s.viewport.Size.W / 2, s.viewport.Size.H / 2}
}

func (s *ZoomableSurface) canResize(newViewport Rect) bool {
	return newViewport != s.viewport &&
		!newViewport.IsEmpty() &&
		!s.imageSize.IsEmpty()
}

// WillResize captures the visible center and zoom scale before the viewport changes.
// A surface that never had a usable viewport is armed to fit the image center.
func (s *ZoomableSurface) WillResize(newViewport Rect) {
	if !s.canResize(newViewport) {
		return
	}

	if s.viewport.IsEmpty() {
		s.pointToCenterAfterResize = Point{s.imageSize.W / 2, s.imageSize.H / 2}
		s.scaleToRestoreAfterResize = 0
		s.resizeFrom = newViewport
		s.resizePending = true
		return
	}

	s.pointToCenterAfterResize = s.contentPointAt(s.viewportCenterLocal())

	s.scaleToRestoreAfterResize = s.zoomScale
	if s.scaleToRestoreAfterResize <= s.minZoomScale+zoomEpsilon {
		s.scaleToRestoreAfterResize = 0
	}

	s.resizeFrom = s.viewport
	s.resizePending = true
}

// DidResize applies newViewport and restores the scale and visible center
// captured by the preceding WillResize. Without one it does nothing.
func (s *ZoomableSurface) DidResize(newViewport Rect) {
	if !s.resizePending {
		return
	}
	s.resizePending = false
	if newViewport.IsEmpty() || s.imageSize.IsEmpty() {
		return
	}

	s.viewport = newViewport
	s.anim = nil
	s.updateZoomBounds()
	restore := math.Max(s.minZoomScale, s.scaleToRestoreAfterResize)
	s.applyZoomScale(math.Min(s.maxZoomScale, restore))

	boundsCenter := s.pointToCenterAfterResize.Mul(s.zoomScale).Add(s.contentOrigin)
	offset := boundsCenter.Sub(s.viewportCenterLocal())
	s.setContentOffset(s.clampOffset(offset))

	if s.resizeFrom.Size.IsLandscape() != newViewport.Size.IsLandscape() && s.observer != nil {
		s.observer.SurfaceDidChangeOrientation(s)
	}
}

// SetViewport applies a new viewport bracketed by WillResize and DidResize.
// Zero-area viewports are ignored so the state survives until the next valid size.
func (s *ZoomableSurface) SetViewport(viewport Rect) {
	if viewport.IsEmpty() {
		return
	}
	s.WillResize(viewport)
	s.DidResize(viewport)
	s.viewport = viewport
}

func (s *ZoomableSurface) applyZoomScale(scale float64) {
	s.zoomScale = s.clampScale(scale)
	s.Recenter()
	if s.observer != nil {
		s.observer.SurfaceDidZoom(s)
	}
}

func (s *ZoomableSurface) setContentOffset(offset Point) {
	if offset == s.contentOffset {
		return
	}
	s.contentOffset = offset
	if s.observer != nil {
		s.observer.SurfaceDidScroll(s)
	}
}

// zoomAbout changes the scale keeping the content under a viewport-local anchor fixed
func (s *ZoomableSurface) zoomAbout(scale float64, anchor Point) {
	p := s.contentPointAt(anchor)
	s.applyZoomScale(scale)
	offset := p.Mul(s.zoomScale).Add(s.contentOrigin).Sub(anchor)
	s.setContentOffset(s.clampOffset(offset))
}

// SetZoomScale zooms about the viewport center, clamped to [min, max]
func (s *ZoomableSurface) SetZoomScale(scale float64, animated bool) {
	if s.imageSize.IsEmpty() || s.viewport.IsEmpty() {
		return
	}
	target := s.clampScale(scale)

	if s.observer != nil {
		s.observer.SurfaceWillBeginZooming(s)
	}

	if animated && s.animFrames > 0 && target != s.zoomScale {
		s.anim = &zoomAnimation{from: s.zoomScale, to: target, frames: s.animFrames}
		return
	}

	s.anim = nil
	s.zoomAbout(target, s.viewportCenterLocal())
	if s.observer != nil {
		s.observer.SurfaceDidEndZooming(s, s.zoomScale)
	}
}

// ToggleZoom jumps to min when past the midpoint of the zoom range, else to max
func (s *ZoomableSurface) ToggleZoom() {
	zoomDelta := (s.maxZoomScale - s.minZoomScale) / 2
	if s.zoomScale > s.minZoomScale+zoomDelta {
		s.SetZoomScale(s.minZoomScale, true)
	} else {
		s.SetZoomScale(s.maxZoomScale, true)
	}
}

// ZoomBy multiplies the scale by factor, keeping the viewport-local anchor fixed
func (s *ZoomableSurface) ZoomBy(factor float64, anchor Point) {
	if s.imageSize.IsEmpty() || s.viewport.IsEmpty() || factor <= 0 {
		return
	}
	s.anim = nil
	if s.observer != nil {
		s.observer.SurfaceWillBeginZooming(s)
	}
	s.zoomAbout(s.zoomScale*factor, anchor)
	if s.observer != nil {
		s.observer.SurfaceDidEndZooming(s, s.zoomScale)
	}
}

// Step advances a running zoom animation by one frame.
// Returns true while an animation was in progress.
func (s *ZoomableSurface) Step() bool {
	if s.anim == nil {
		return false
	}

	a := s.anim
	a.frame++
	if a.frame >= a.frames {
		s.anim = nil
		s.zoomAbout(a.to, s.viewportCenterLocal())
		if s.observer != nil {
			s.observer.SurfaceDidEndZooming(s, s.zoomScale)
		}
		return true
	}

	t := easeInOut(float64(a.frame) / float64(a.frames))
	s.zoomAbout(a.from+(a.to-a.from)*t, s.viewportCenterLocal())
	return true
}

// BeginDrag marks the start of a pan gesture
func (s *ZoomableSurface) BeginDrag() {
	if s.dragging {
		return
	}
	s.dragging = true
	if s.observer != nil {
		s.observer.SurfaceWillBeginDragging(s)
	}
}

// PanBy moves the visible region by a screen delta, clamped to the content
func (s *ZoomableSurface) PanBy(dx, dy float64) {
	s.setContentOffset(s.clampOffset(s.contentOffset.Sub(Point{dx, dy})))
}

// EndDrag marks the end of a pan gesture
func (s *ZoomableSurface) EndDrag() {
	if !s.dragging {
		return
	}
	s.dragging = false
	if s.observer != nil {
		s.observer.SurfaceDidEndDragging(s)
	}
}

// CanScrollHorizontally reports whether the scaled content is wider than the viewport
func (s *ZoomableSurface) CanScrollHorizontally() bool {
	return s.ContentSize().W > s.viewport.Size.W+zoomEpsilon
}

// AtLeadingEdge and AtTrailingEdge report whether horizontal scrolling is exhausted
func (s *ZoomableSurface) AtLeadingEdge() bool {
	return s.contentOffset.X <= zoomEpsilon
}

func (s *ZoomableSurface) AtTrailingEdge() bool {
	return s.contentOffset.X >= s.maximumContentOffset().X-zoomEpsilon
}

// ImageRect returns where the scaled content lands on screen
func (s *ZoomableSurface) ImageRect() Rect {
	origin := s.viewport.Origin.Add(s.contentOrigin).Sub(s.contentOffset)
	return Rect{Origin: origin, Size: s.ContentSize()}
}

func easeInOut(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	return t * t * (3 - 2*t)
}
