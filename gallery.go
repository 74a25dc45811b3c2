package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"math"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

var ErrNoImages = errors.New("no images to present")

const (
	panStep           = 64.0
	zoomStepFactor    = 1.25
	closeButtonSize   = 36.0
	closeButtonMargin = 16.0
	rubberBandFactor  = 3.0
	errorImageWidth   = 480
)

// placeholderBounds is the intrinsic size of a page whose image failed to resolve
var placeholderBounds = image.Rect(0, 0, 400, 300)

// Page is one slot of the swipeable sequence
type Page struct {
	ID      PageID
	Index   int
	Source  Source
	Bounds  image.Rectangle // intrinsic pixel size
	Err     error
	Surface *ZoomableSurface

	decoded image.Image // held from presentation until the first texture upload

	configured bool
	loading    bool
}

// Failed reports whether the page renders as an error placeholder
func (p *Page) Failed() bool {
	return p.Err != nil
}

type pageLoad struct {
	page *Page
	img  image.Image
	err  error
}

// slideAnimation moves the pager from one page towards another.
// Progress runs from start to end; end == 0 snaps back to the from page.
type slideAnimation struct {
	from, to   int // to is -1 when there is no page to reveal
	direction  Direction
	start, end float64
	frame      int
	frames     int
	gesture    bool
}

func (s *slideAnimation) progress() float64 {
	if s.frames <= 0 {
		return s.end
	}
	t := easeInOut(float64(s.frame) / float64(s.frames))
	return s.start + (s.end-s.start)*t
}

type dragMode int

const (
	dragUndecided dragMode = iota
	dragPan
	dragSwipe
)

type dragState struct {
	pressed bool
	mode    dragMode
	start   Point
	last    Point
	rawDX   float64 // pointer travel
	dx      float64 // displayed page offset, damped at the ends
}

// Gallery is the full-screen viewer: it owns the pages, the navigator and
// the chrome, and runs as an ebiten.Game
type Gallery struct {
	config       Config
	configStatus ConfigLoadResult
	cache        *ImageCache
	textures     *TextureCache

	ctx    context.Context
	cancel context.CancelFunc

	pages     []*Page
	current   *IndexCell
	navigator *PagedNavigator
	preload   *PreloadManager
	displayed int

	// preloadSources is fixed at presentation and shared with the preload worker
	preloadSources []Source

	viewport  Rect
	visible   bool
	onDismiss func()

	slide       *slideAnimation
	drag        dragState
	cursor      Point
	cursorValid bool
	loads       chan pageLoad

	showHelp           bool
	showInfo           bool
	fullscreen         bool
	savedWinW          int
	savedWinH          int
	pageInputMode      bool
	pageInputBuffer    string
	overlayMessage     string
	overlayMessageTime time.Time

	keybindingManager   *KeybindingManager
	mousebindingManager *MousebindingManager
	inputHandler        *InputHandler
	renderer            *Renderer
	configUpdates       <-chan ConfigLoadResult
}

// NewGallery creates an empty, invisible gallery
func NewGallery(configResult ConfigLoadResult, cache *ImageCache) *Gallery {
	cfg := configResult.Config
	g := &Gallery{
		config:       cfg,
		configStatus: configResult,
		cache:        cache,
		textures:     NewTextureCache(cfg.TextureCacheSize),
		loads:        make(chan pageLoad, 64),
		fullscreen:   cfg.Fullscreen,
	}
	g.ctx, g.cancel = context.WithCancel(context.Background())
	g.keybindingManager = NewKeybindingManager(cfg.Keybindings)
	g.mousebindingManager = NewMousebindingManager(cfg.Mousebindings, cfg.MouseSettings)
	g.inputHandler = NewInputHandler(g, g, g.keybindingManager, g.mousebindingManager)
	g.renderer = NewRenderer(g)
	return g
}

// OnDismiss registers the callback run when the gallery is hidden
func (g *Gallery) OnDismiss(fn func()) {
	g.onDismiss = fn
}

// WatchConfig makes the gallery apply configs received on updates
func (g *Gallery) WatchConfig(updates <-chan ConfigLoadResult) {
	g.configUpdates = updates
}

// PresentGallery resolves identifiers and shows the page at initialIndex.
// Sources that fail to resolve are dropped unless reserve_failed_slots is set,
// so initialIndex is clamped to the resulting sequence.
func (g *Gallery) PresentGallery(ctx context.Context, identifiers []string, initialIndex int, visible bool) error {
	if len(identifiers) == 0 {
		return ErrNoImages
	}
	g.teardown()

	ctx, cancel := context.WithCancel(ctx)
	results := g.cache.FetchAll(ctx, identifiers)
	if !g.config.ReserveFailedSlots {
		results = successful(results)
	}
	if len(results) == 0 {
		cancel()
		return ErrNoImages
	}

	initial := min(max(initialIndex, 0), len(results)-1)
	pages := make([]*Page, len(results))
	ids := make([]PageID, len(results))
	preloadSources := make([]Source, len(results))
	for i, r := range results {
		p := &Page{
			ID:      NewPageID(),
			Index:   i,
			Source:  r.Source,
			Err:     r.Err,
			Surface: NewZoomableSurface(g.config.ZoomFrames),
		}
		if p.Source.Ref == "" {
			p.Source = Source{Ref: r.Ref}
		}
		if r.OK() {
			p.Bounds = r.Image.Bounds()
			preloadSources[i] = p.Source
			// The first visible page and its swipe neighbors skip the refetch
			if i >= initial-1 && i <= initial+1 {
				p.decoded = r.Image
			}
		} else {
			p.Bounds = placeholderBounds
			if p.Err == nil {
				p.Err = fmt.Errorf("%w: %s", ErrDecode, r.Ref)
			}
		}
		p.Surface.SetObserver(g)
		pages[i] = p
		ids[i] = p.ID
	}

	if dropped := len(identifiers) - len(results); dropped > 0 {
		log.Printf("Warning: %d of %d images could not be loaded", dropped, len(identifiers))
	}

	g.ctx, g.cancel = ctx, cancel
	g.pages = pages
	g.preloadSources = preloadSources
	g.displayed = initial
	g.current = NewIndexCell(g.displayed)
	g.navigator = NewPagedNavigator(ids, g.current, g)
	g.configurePages()

	if g.config.PreloadEnabled {
		g.preload = NewPreloadManager(ctx, g.cache, func() []Source { return preloadSources }, g.config.PreloadCount)
	}

	g.visible = visible
	g.navigator.Present()
	return nil
}

func (g *Gallery) teardown() {
	if g.cancel != nil {
		g.cancel()
	}
	if g.preload != nil {
		g.preload.Stop()
		g.preload = nil
	}
	g.textures.Purge()
	g.slide = nil
	g.drag = dragState{}
}

// SetVisible shows or hides the gallery. Hiding is the only way to dismiss it.
func (g *Gallery) SetVisible(visible bool) {
	if visible == g.visible {
		return
	}
	g.visible = visible
	if visible {
		return
	}

	debugLog("Gallery dismissed at %s", g.CounterText())
	g.teardown()
	if g.onDismiss != nil {
		g.onDismiss()
	}
}

// IsVisible reports whether the gallery is shown
func (g *Gallery) IsVisible() bool {
	return g.visible
}

// PageCount returns the number of pages
func (g *Gallery) PageCount() int {
	return len(g.pages)
}

// CurrentIndex returns the zero-based current page index
func (g *Gallery) CurrentIndex() int {
	if g.current == nil {
		return 0
	}
	return g.current.Get()
}

// CounterText returns the "i / N" page counter
func (g *Gallery) CounterText() string {
	if len(g.pages) == 0 {
		return "0 / 0"
	}
	return fmt.Sprintf("%d / %d", g.CurrentIndex()+1, len(g.pages))
}

func (g *Gallery) currentPage() *Page {
	if len(g.pages) == 0 {
		return nil
	}
	return g.pages[g.displayed]
}

// Layout implements ebiten.Game; every size change becomes a viewport resize
func (g *Gallery) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.setViewport(NewRect(0, 0, float64(outsideWidth), float64(outsideHeight)))
	return outsideWidth, outsideHeight
}

func (g *Gallery) setViewport(v Rect) {
	if v.IsEmpty() || v == g.viewport {
		return
	}
	g.viewport = v
	g.configurePages()
}

func (g *Gallery) configurePages() {
	if g.viewport.IsEmpty() {
		return
	}
	for _, p := range g.pages {
		if !p.configured {
			p.Surface.Configure(p.Bounds, g.viewport)
			p.configured = true
			continue
		}
		p.Surface.SetViewport(g.viewport)
	}
}

// Update implements ebiten.Game
func (g *Gallery) Update() error {
	if !g.visible {
		return ebiten.Termination
	}

	// A cancelled presentation context (e.g. interrupt) dismisses like the close button
	if g.ctx.Err() != nil {
		g.SetVisible(false)
		return ebiten.Termination
	}

	g.applyConfigUpdates()
	if g.navigator != nil {
		g.inputHandler.HandleInput()
		g.handlePointer()
	}
	g.tick()

	if !g.visible {
		return ebiten.Termination
	}
	return nil
}

// Draw implements ebiten.Game
func (g *Gallery) Draw(screen *ebiten.Image) {
	g.renderer.Draw(screen)
}

// tick advances everything that moves on its own by one frame
func (g *Gallery) tick() {
	g.drainLoads()
	if g.navigator == nil {
		return
	}

	g.navigator.Sync()
	g.stepSlide()
	for _, p := range g.pages {
		if p.Surface.IsAnimating() {
			p.Surface.Step()
		}
	}
}

func (g *Gallery) drainLoads() {
	for {
		select {
		case l := <-g.loads:
			l.page.loading = false
			if l.err != nil {
				log.Printf("Error: Failed to load image [%d/%d] %s: %v",
					l.page.Index+1, len(g.pages), l.page.Source.Ref, l.err)
				l.page.Err = l.err
			}
		default:
			return
		}
	}
}

func (g *Gallery) requestImage(p *Page) {
	if p.loading {
		return
	}
	p.loading = true
	ctx, loads := g.ctx, g.loads
	g.cache.FetchAsync(ctx, p.Source, func(img image.Image, err error) {
		select {
		case loads <- pageLoad{page: p, img: img, err: err}:
		case <-ctx.Done():
		}
	})
}

// ShowPage implements Pager
func (g *Gallery) ShowPage(t Transition) {
	if g.slide != nil {
		g.finishSlide()
	}
	if g.preload != nil {
		g.preload.StartPreload(t.To, navigationDirectionOf(t))
	}

	debugLog("Show page %d -> %d (%s, animated=%v)", t.From+1, t.To+1, t.Direction, t.Animated)
	if !t.Animated || t.From < 0 || g.config.TransitionFrames == 0 || g.viewport.IsEmpty() {
		g.setDisplayed(t.To)
		return
	}

	g.slide = &slideAnimation{
		from:      t.From,
		to:        t.To,
		direction: t.Direction,
		end:       1,
		frames:    g.config.TransitionFrames,
	}
}

func (g *Gallery) setDisplayed(i int) {
	if i == g.displayed {
		return
	}
	left := g.pages[g.displayed]
	g.displayed = i

	// Pages come back at fit zoom
	if s := left.Surface; s.ZoomScale() > s.MinZoomScale()+zoomEpsilon {
		s.SetZoomScale(s.MinZoomScale(), false)
	}
}

func (g *Gallery) stepSlide() {
	if g.slide == nil {
		return
	}
	g.slide.frame++
	if g.slide.frame >= g.slide.frames {
		g.finishSlide()
	}
}

func (g *Gallery) finishSlide() {
	s := g.slide
	g.slide = nil

	if s.end == 0 {
		if s.gesture {
			g.navigator.OnGestureTransitionCompleted(g.pages[s.to].ID, false)
		}
		return
	}

	g.setDisplayed(s.to)
	if !s.gesture {
		return
	}
	if t, ok := g.navigator.OnGestureTransitionCompleted(g.pages[s.to].ID, true); ok {
		debugLog("Swipe completed %d -> %d (%s)", t.From+1, t.To+1, t.Direction)
		if g.preload != nil {
			g.preload.StartPreload(t.To, navigationDirectionOf(t))
		}
	}
}

func (g *Gallery) gestureInFlight() bool {
	return g.drag.mode == dragSwipe || (g.slide != nil && g.slide.gesture)
}

// VisibleLayers returns the pages to draw this frame
func (g *Gallery) VisibleLayers() []PageLayer {
	if len(g.pages) == 0 {
		return nil
	}
	w := g.viewport.Size.W

	if s := g.slide; s != nil {
		p := s.progress()
		sign := 1.0
		if s.direction == DirectionReverse {
			sign = -1
		}
		layers := []PageLayer{{Page: g.pages[s.from], OffsetX: -sign * p * w}}
		if s.to >= 0 {
			layers = append(layers, PageLayer{Page: g.pages[s.to], OffsetX: sign * (1 - p) * w})
		}
		return layers
	}

	layers := []PageLayer{{Page: g.currentPage()}}
	if g.drag.mode != dragSwipe {
		return layers
	}
	layers[0].OffsetX = g.drag.dx
	if n, ok := g.swipeNeighbor(g.drag.rawDX); ok {
		off := w
		if g.drag.rawDX > 0 {
			off = -w
		}
		layers = append(layers, PageLayer{Page: n, OffsetX: g.drag.dx + off})
	}
	return layers
}

// swipeNeighbor returns the page a horizontal drag of dx reveals
func (g *Gallery) swipeNeighbor(dx float64) (*Page, bool) {
	if dx == 0 || g.navigator == nil {
		return nil, false
	}
	which := NeighborAfter
	if dx > 0 {
		which = NeighborBefore
	}
	id, ok := g.navigator.ResolveNeighbor(g.currentPage().ID, which)
	if !ok {
		return nil, false
	}
	i, ok := g.navigator.IndexOf(id)
	if !ok {
		return nil, false
	}
	return g.pages[i], true
}

func (g *Gallery) handlePointer() {
	x, y := ebiten.CursorPosition()
	pt := Point{float64(x), float64(y)}
	g.cursor, g.cursorValid = pt, g.viewport.Contains(pt)

	if !g.mousebindingManager.GetSettings().EnableMouse || g.showHelp || g.pageInputMode {
		return
	}

	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		g.pointerDown(pt)
	case inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft):
		g.pointerUp(pt)
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft):
		g.pointerMove(pt)
	}
}

func (g *Gallery) pointerDown(pt Point) {
	if g.slide != nil && g.slide.gesture {
		return
	}
	g.drag = dragState{pressed: true, start: pt, last: pt}
}

func (g *Gallery) pointerMove(pt Point) {
	if !g.drag.pressed || len(g.pages) == 0 {
		return
	}
	settings := g.mousebindingManager.GetSettings()
	surface := g.currentPage().Surface
	delta := pt.Sub(g.drag.last)
	total := pt.Sub(g.drag.start)
	g.drag.last = pt

	if g.drag.mode == dragUndecided {
		threshold := float64(settings.DragThreshold)
		if math.Abs(total.X) < threshold && math.Abs(total.Y) < threshold {
			return
		}
		switch {
		case surface.CanScrollHorizontally() || math.Abs(total.Y) > math.Abs(total.X) || !settings.EnableSwipe:
			if !settings.EnableDragPan {
				g.drag.pressed = false
				return
			}
			g.drag.mode = dragPan
			surface.BeginDrag()
			delta = total
		default:
			if g.slide != nil {
				g.finishSlide()
			}
			g.drag.mode = dragSwipe
		}
	}

	switch g.drag.mode {
	case dragPan:
		k := settings.DragSensitivity
		surface.PanBy(delta.X*k, delta.Y*k)
	case dragSwipe:
		g.drag.rawDX = total.X
		g.drag.dx = total.X
		if _, ok := g.swipeNeighbor(total.X); !ok {
			g.drag.dx = total.X / rubberBandFactor
		}
	}
}

func (g *Gallery) pointerUp(pt Point) {
	if !g.drag.pressed {
		return
	}
	d := g.drag
	g.drag = dragState{}

	switch d.mode {
	case dragUndecided:
		if g.CloseButtonRect().Contains(pt) {
			g.Close()
		}
	case dragPan:
		g.currentPage().Surface.EndDrag()
	case dragSwipe:
		g.finishSwipe(d)
	}
}

// finishSwipe completes the drag into a page change or snaps it back
func (g *Gallery) finishSwipe(d dragState) {
	w := g.viewport.Size.W
	if w <= 0 {
		return
	}

	progress := math.Min(1, math.Abs(d.dx)/w)
	s := &slideAnimation{
		from:      g.displayed,
		to:        -1,
		direction: DirectionForward,
		start:     progress,
	}
	if d.rawDX > 0 {
		s.direction = DirectionReverse
	}

	remaining := progress
	if n, ok := g.swipeNeighbor(d.rawDX); ok {
		s.to = n.Index
		s.gesture = true
		if math.Abs(d.rawDX) >= float64(g.config.SwipeThreshold) {
			s.end = 1
			remaining = 1 - progress
		}
	}

	s.frames = int(math.Ceil(float64(g.config.TransitionFrames) * remaining))
	g.slide = s
	if s.frames <= 0 {
		g.finishSlide()
	}
}

// CloseButtonRect is the hit area of the close button in the top right corner
func (g *Gallery) CloseButtonRect() Rect {
	return NewRect(g.viewport.Size.W-closeButtonSize-closeButtonMargin, closeButtonMargin, closeButtonSize, closeButtonSize)
}

func (g *Gallery) applyConfigUpdates() {
	if g.configUpdates == nil {
		return
	}
	select {
	case result := <-g.configUpdates:
		g.applyConfig(result)
	default:
	}
}

// applyConfig takes over the settings that can change while running
func (g *Gallery) applyConfig(result ConfigLoadResult) {
	g.configStatus = result
	if result.HasError {
		g.ShowOverlayMessage("Config error, keeping current settings")
		return
	}

	cfg := result.Config
	g.keybindingManager.UpdateKeybindings(cfg.Keybindings)
	g.mousebindingManager.UpdateMousebindings(cfg.Mousebindings)
	g.mousebindingManager.UpdateSettings(cfg.MouseSettings)
	g.config.Keybindings = cfg.Keybindings
	g.config.Mousebindings = cfg.Mousebindings
	g.config.MouseSettings = cfg.MouseSettings
	g.config.FontSize = cfg.FontSize
	g.config.ShowCounter = cfg.ShowCounter
	g.config.SwipeThreshold = cfg.SwipeThreshold
	g.config.TransitionFrames = cfg.TransitionFrames
	g.config.PreloadEnabled = cfg.PreloadEnabled
	if g.preload != nil {
		g.preload.SetEnabled(cfg.PreloadEnabled)
	}
	g.ShowOverlayMessage("Config reloaded")
}

// PageTexture returns the GPU texture of p, or nil while it is loading
func (g *Gallery) PageTexture(p *Page) *ebiten.Image {
	if tex, ok := g.textures.Get(p.ID); ok {
		return tex
	}

	if p.decoded != nil {
		img := p.decoded
		p.decoded = nil
		return g.textures.Texture(p.ID, img)
	}

	if p.Failed() {
		w, h := errorImageSize(p.Bounds)
		tex := CreateErrorImage(w, h, p.Source.Name(), p.Err.Error())
		g.textures.Put(p.ID, tex)
		return tex
	}

	if img, ok := g.cache.Peek(p.Source); ok {
		return g.textures.Texture(p.ID, img)
	}
	g.requestImage(p)
	return nil
}

// errorImageSize keeps the placeholder close to the aspect of the page it replaces
func errorImageSize(bounds image.Rectangle) (int, int) {
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return placeholderBounds.Dx(), placeholderBounds.Dy()
	}
	h := errorImageWidth * bounds.Dy() / bounds.Dx()
	return errorImageWidth, min(max(h, 120), 2*errorImageWidth)
}

// Pager chrome and overlays

func (g *Gallery) ShowCounter() bool          { return g.config.ShowCounter }
func (g *Gallery) IsShowingHelp() bool        { return g.showHelp }
func (g *Gallery) IsShowingInfo() bool        { return g.showInfo }
func (g *Gallery) IsInPageInputMode() bool    { return g.pageInputMode }
func (g *Gallery) GetPageInputBuffer() string { return g.pageInputBuffer }
func (g *Gallery) GetOverlayMessage() string  { return g.overlayMessage }
func (g *Gallery) GetFontSize() float64       { return g.config.FontSize }

func (g *Gallery) GetOverlayMessageTime() time.Time {
	return g.overlayMessageTime
}

func (g *Gallery) GetConfigStatus() ConfigLoadResult {
	return g.configStatus
}

func (g *Gallery) GetKeybindings() map[string][]string {
	return g.keybindingManager.GetKeybindings()
}

func (g *Gallery) GetMousebindings() map[string][]string {
	return g.mousebindingManager.GetMousebindings()
}

func (g *Gallery) GetTotalPagesCount() int {
	return len(g.pages)
}

func (g *Gallery) GetCurrentIndex() int {
	return g.CurrentIndex()
}

// InfoText describes the current page for the info display
func (g *Gallery) InfoText() string {
	p := g.currentPage()
	if p == nil {
		return ""
	}
	stats := g.cache.Stats()
	return fmt.Sprintf("%s  %dx%d  %.0f%%  |  %s  |  fetched %s, disk hits %s, textures %d",
		p.Source.Name(), p.Bounds.Dx(), p.Bounds.Dy(), p.Surface.ZoomScale()*100,
		g.CounterText(),
		humanize.Comma(int64(stats.Fetches)), humanize.Comma(int64(stats.DiskHits)), g.textures.Len())
}

// Input actions

func (g *Gallery) Close() {
	g.SetVisible(false)
}

func (g *Gallery) ToggleHelp() {
	g.showHelp = !g.showHelp
}

func (g *Gallery) ToggleInfo() {
	g.showInfo = !g.showInfo
}

func (g *Gallery) ToggleFullscreen() {
	g.fullscreen = !g.fullscreen
	if g.fullscreen {
		g.savedWinW, g.savedWinH = ebiten.WindowSize()
		ebiten.SetFullscreen(true)
		return
	}
	ebiten.SetFullscreen(false)
	if g.savedWinW > 0 && g.savedWinH > 0 {
		ebiten.SetWindowSize(g.savedWinW, g.savedWinH)
	}
}

// WindowSizeToSave returns the windowed size, also while in fullscreen
func (g *Gallery) WindowSizeToSave() (int, int) {
	if g.fullscreen {
		return g.savedWinW, g.savedWinH
	}
	return ebiten.WindowSize()
}

func (g *Gallery) EnterPageInputMode() {
	g.pageInputMode = true
	g.pageInputBuffer = ""
}

func (g *Gallery) ExitPageInputMode() {
	g.pageInputMode = false
	g.pageInputBuffer = ""
}

func (g *Gallery) UpdatePageInputBuffer(buffer string) {
	g.pageInputBuffer = buffer
}

func (g *Gallery) ProcessPageInput() {
	if g.pageInputBuffer == "" {
		return
	}
	page, err := strconv.Atoi(g.pageInputBuffer)
	if err != nil {
		g.ShowOverlayMessage("Invalid page number")
		return
	}
	g.JumpToPage(page)
}

func (g *Gallery) ShowOverlayMessage(message string) {
	g.overlayMessage = message
	g.overlayMessageTime = time.Now()
}

func (g *Gallery) NavigateNext() {
	g.moveTo(g.CurrentIndex() + 1)
}

func (g *Gallery) NavigatePrevious() {
	g.moveTo(g.CurrentIndex() - 1)
}

// JumpToPage moves to a one-based page number
func (g *Gallery) JumpToPage(page int) {
	if page < 1 || page > len(g.pages) {
		g.ShowOverlayMessage(fmt.Sprintf("Invalid page: %d (1-%d)", page, len(g.pages)))
		return
	}
	g.moveTo(page - 1)
}

// moveTo writes the host side of the index; the navigator picks it up on Sync
func (g *Gallery) moveTo(i int) {
	if g.current == nil || g.gestureInFlight() || i < 0 || i >= len(g.pages) {
		return
	}
	g.current.Set(i)
}

func (g *Gallery) zoomAnchor() Point {
	if g.cursorValid {
		return g.cursor.Sub(g.viewport.Origin)
	}
	return Point{g.viewport.Size.W / 2, g.viewport.Size.H / 2}
}

func (g *Gallery) ToggleZoom() {
	if p := g.currentPage(); p != nil {
		p.Surface.ToggleZoom()
	}
}

func (g *Gallery) ZoomIn() {
	if p := g.currentPage(); p != nil {
		p.Surface.ZoomBy(zoomStepFactor, g.zoomAnchor())
	}
}

func (g *Gallery) ZoomOut() {
	if p := g.currentPage(); p != nil {
		p.Surface.ZoomBy(1/zoomStepFactor, g.zoomAnchor())
	}
}

func (g *Gallery) ZoomFit() {
	if p := g.currentPage(); p != nil {
		p.Surface.SetZoomScale(p.Surface.MinZoomScale(), true)
	}
}

func (g *Gallery) PanUp() {
	if p := g.currentPage(); p != nil {
		p.Surface.PanBy(0, panStep)
	}
}

func (g *Gallery) PanDown() {
	if p := g.currentPage(); p != nil {
		p.Surface.PanBy(0, -panStep)
	}
}

// PanLeft scrolls a wide page and flips to the previous page at its edge
func (g *Gallery) PanLeft() {
	p := g.currentPage()
	if p == nil {
		return
	}
	if p.Surface.CanScrollHorizontally() && !p.Surface.AtLeadingEdge() {
		p.Surface.PanBy(panStep, 0)
		return
	}
	g.NavigatePrevious()
}

// PanRight scrolls a wide page and flips to the next page at its edge
func (g *Gallery) PanRight() {
	p := g.currentPage()
	if p == nil {
		return
	}
	if p.Surface.CanScrollHorizontally() && !p.Surface.AtTrailingEdge() {
		p.Surface.PanBy(-panStep, 0)
		return
	}
	g.NavigateNext()
}

// ScrollObserver

func (g *Gallery) SurfaceDidScroll(s *ZoomableSurface)         {}
func (g *Gallery) SurfaceWillBeginDragging(s *ZoomableSurface) {}
func (g *Gallery) SurfaceDidEndDragging(s *ZoomableSurface)    {}
func (g *Gallery) SurfaceWillBeginZooming(s *ZoomableSurface)  {}
func (g *Gallery) SurfaceDidZoom(s *ZoomableSurface)           {}

func (g *Gallery) SurfaceDidEndZooming(s *ZoomableSurface, scale float64) {
	if p := g.currentPage(); p != nil && p.Surface == s {
		g.ShowOverlayMessage(fmt.Sprintf("Zoom: %.0f%%", scale*100))
	}
}

func (g *Gallery) SurfaceDidChangeOrientation(s *ZoomableSurface) {
	if p := g.currentPage(); p != nil && p.Surface == s {
		debugLog("Orientation changed: viewport %.0fx%.0f", s.Viewport().Size.W, s.Viewport().Size.H)
	}
}
