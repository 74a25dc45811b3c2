package main

import (
	"fmt"
	"image/color"
	"log"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// Common colors used in rendering
var (
	colorWhite     = color.RGBA{255, 255, 255, 255}
	colorGray      = color.RGBA{180, 180, 180, 255}
	colorLightGray = color.RGBA{192, 192, 192, 255}
	colorYellow    = color.RGBA{255, 255, 100, 255}
	colorCyan      = color.RGBA{100, 255, 255, 255}
	colorLightBlue = color.RGBA{200, 200, 255, 255}
	colorGreen     = color.RGBA{100, 255, 100, 255}
	colorOrange    = color.RGBA{255, 200, 100, 255}
	colorLightRed  = color.RGBA{255, 150, 150, 255}

	// Background colors for semi-transparent overlays
	bgColorLight  = color.RGBA{0, 0, 0, 128}
	bgColorMedium = color.RGBA{0, 0, 0, 160}
	bgColorDark   = color.RGBA{0, 0, 0, 200}
)

const (
	helpPadding    = 40.0
	minHelpFont    = 12.0
	maxHelpWarning = 2
)

// Renderer handles all drawing operations
type Renderer struct {
	renderState RenderState
	fontSource  *text.GoTextFaceSource
}

// NewRenderer creates a new Renderer
func NewRenderer(renderState RenderState) *Renderer {
	s, err := newFontSource()
	if err != nil {
		log.Fatal(err)
	}

	return &Renderer{
		renderState: renderState,
		fontSource:  s,
	}
}

func (r *Renderer) face(size float64) *text.GoTextFace {
	return &text.GoTextFace{Source: r.fontSource, Size: size}
}

// Draw renders the entire screen
func (r *Renderer) Draw(screen *ebiten.Image) {
	screen.Clear()

	for _, layer := range r.renderState.VisibleLayers() {
		r.drawLayer(screen, layer)
	}

	if r.renderState.GetTotalPagesCount() == 0 {
		return
	}

	if r.renderState.ShowCounter() {
		r.drawCounter(screen)
	}
	r.drawCloseButton(screen)

	if r.renderState.IsShowingInfo() {
		r.drawInfoDisplay(screen)
	}

	if r.renderState.IsShowingHelp() {
		r.drawHelpOverlay(screen)
	}

	if r.renderState.IsInPageInputMode() {
		r.drawPageInputOverlay(screen)
	}

	if r.renderState.GetOverlayMessage() != "" && time.Since(r.renderState.GetOverlayMessageTime()) < overlayMessageDuration {
		r.drawOverlayMessage(screen)
	}
}

// drawLayer draws one page where its surface puts it, shifted by the pager offset
func (r *Renderer) drawLayer(screen *ebiten.Image, layer PageLayer) {
	p := layer.Page
	rect := p.Surface.ImageRect()
	rect.Origin.X += layer.OffsetX

	tex := r.renderState.PageTexture(p)
	if tex == nil {
		r.drawLoading(screen, p.Surface.Viewport(), layer.OffsetX)
		return
	}

	tw, th := float64(tex.Bounds().Dx()), float64(tex.Bounds().Dy())
	if tw == 0 || th == 0 || rect.IsEmpty() {
		return
	}

	op := &ebiten.DrawImageOptions{}
	op.Filter = ebiten.FilterLinear
	op.GeoM.Scale(rect.Size.W/tw, rect.Size.H/th)
	op.GeoM.Translate(rect.Origin.X, rect.Origin.Y)
	screen.DrawImage(tex, op)
}

func (r *Renderer) drawLoading(screen *ebiten.Image, viewport Rect, offsetX float64) {
	font := r.face(r.renderState.GetFontSize())
	msg := "Loading..."
	w, h := text.Measure(msg, font, 0)
	c := viewport.Center()
	DrawText(screen, msg, font, c.X+offsetX-w/2, c.Y-h/2, colorGray)
}

func (r *Renderer) drawCounter(screen *ebiten.Image) {
	font := r.face(r.renderState.GetFontSize())
	counter := r.renderState.CounterText()
	w, h := text.Measure(counter, font, 0)

	pad := 8.0
	x := float64(screen.Bounds().Dx())/2 - w/2
	y := closeButtonMargin + (closeButtonSize-h)/2
	DrawFilledRect(screen, x-pad, y-pad/2, w+pad*2, h+pad, bgColorLight)
	DrawText(screen, counter, font, x, y, colorWhite)
}

func (r *Renderer) drawCloseButton(screen *ebiten.Image) {
	rect := r.renderState.CloseButtonRect()
	DrawFilledCircle(screen, rect.Center(), rect.Size.W/2, bgColorMedium)
	DrawCross(screen, rect, rect.Size.W*0.3, 2, colorWhite)
}

// helpLine is one row of the bindings table
type helpLine struct {
	action      string
	keys        string
	mouse       string
	description string
}

// helpLines returns the bound actions sorted by name
func (r *Renderer) helpLines() []helpLine {
	keybindings := r.renderState.GetKeybindings()
	mousebindings := r.renderState.GetMousebindings()
	descriptions := actionDescriptions()

	actionSet := make(map[string]bool)
	for action := range keybindings {
		actionSet[action] = true
	}
	for action := range mousebindings {
		actionSet[action] = true
	}

	var lines []helpLine
	for action := range actionSet {
		keys, mouse := keybindings[action], mousebindings[action]
		if len(keys) == 0 && len(mouse) == 0 {
			continue
		}
		description := descriptions[action]
		if description == "" {
			description = "No description available"
		}
		lines = append(lines, helpLine{
			action:      action,
			keys:        strings.Join(keys, ", "),
			mouse:       strings.Join(mouse, ", "),
			description: description,
		})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].action < lines[j].action })
	return lines
}

func (l helpLine) input() string {
	switch {
	case l.keys != "" && l.mouse != "":
		return l.keys + " | " + l.mouse
	case l.keys != "":
		return l.keys
	default:
		return l.mouse
	}
}

// helpColumns measures the action and input columns at a font size
func helpColumns(lines []helpLine, font *text.GoTextFace) (actionW, inputW, descW float64) {
	for _, l := range lines {
		w, _ := text.Measure(l.action, font, 0)
		actionW = math.Max(actionW, w)
		w, _ = text.Measure(l.input(), font, 0)
		inputW = math.Max(inputW, w)
		w, _ = text.Measure(l.description, font, 0)
		descW = math.Max(descW, w)
	}
	return actionW, inputW, descW
}

func shortWarning(warning string) string {
	if len(warning) > 50 {
		return warning[:47] + "..."
	}
	return warning
}

func (r *Renderer) drawHelpOverlay(screen *ebiten.Image) {
	w, h := float64(screen.Bounds().Dx()), float64(screen.Bounds().Dy())
	lines := r.helpLines()

	fontSize, canFit := r.calculateOptimalFontSize(lines, w-helpPadding*2, h-helpPadding*2)
	if !canFit {
		r.drawMarginTooSmallMessage(screen)
		return
	}

	DrawFilledRect(screen, 0, 0, w, h, bgColorLight)
	DrawFilledRect(screen, helpPadding, helpPadding, w-helpPadding*2, h-helpPadding*2, bgColorMedium)

	font := r.face(fontSize)
	lineHeight := fontSize * 1.5

	titleY := helpPadding + 30
	DrawText(screen, "HELP:", font, helpPadding+20, titleY, colorWhite)

	y := titleY + fontSize*2
	DrawText(screen, "Controls (Keyboard | Mouse):", font, helpPadding+20, y, colorWhite)
	y += lineHeight * 1.5

	actionW, inputW, _ := helpColumns(lines, font)
	actionX := helpPadding + 40
	arrowX := actionX + actionW + 20
	inputX := arrowX + 30
	descX := inputX + inputW + 20

	for _, l := range lines {
		DrawText(screen, l.action, font, actionX, y, colorLightBlue)
		DrawText(screen, "→", font, arrowX, y, colorWhite)

		x := inputX
		if l.keys != "" {
			DrawText(screen, l.keys, font, x, y, colorYellow)
			kw, _ := text.Measure(l.keys, font, 0)
			x += kw
		}
		if l.keys != "" && l.mouse != "" {
			DrawText(screen, " | ", font, x, y, colorWhite)
			sw, _ := text.Measure(" | ", font, 0)
			x += sw
		}
		if l.mouse != "" {
			DrawText(screen, l.mouse, font, x, y, colorCyan)
		}

		DrawText(screen, l.description, font, descX, y, colorGray)
		y += lineHeight
	}

	y += lineHeight
	DrawText(screen, "System:", font, helpPadding+20, y, colorWhite)
	y += lineHeight

	status := r.renderState.GetConfigStatus()
	statusColor := colorGreen
	if status.Status == "Warning" || status.Status == "Error" {
		statusColor = colorOrange
	}
	DrawText(screen, fmt.Sprintf("Config Status: %s", status.Status), font, helpPadding+40, y, statusColor)
	y += lineHeight

	for i, warning := range status.Warnings {
		if i >= maxHelpWarning {
			break
		}
		DrawText(screen, "• "+shortWarning(warning), font, helpPadding+40, y, colorLightRed)
		y += lineHeight
	}
}

// calculateRequiredDimensions returns the size the help content needs at fontSize
func (r *Renderer) calculateRequiredDimensions(lines []helpLine, fontSize float64) (float64, float64) {
	font := r.face(fontSize)
	status := r.renderState.GetConfigStatus()
	lineHeight := fontSize * 1.5
	warnings := min(len(status.Warnings), maxHelpWarning)

	height := helpPadding*2 + fontSize*2 + lineHeight*1.5
	height += float64(len(lines)) * lineHeight
	height += lineHeight * 3 // spacing, "System:", status
	height += float64(warnings) * lineHeight

	actionW, inputW, descW := helpColumns(lines, font)
	width := 40 + actionW + 20 + 30 + 20 + inputW + 20 + descW + helpPadding

	for _, s := range []string{"HELP:", "Controls (Keyboard | Mouse):", "System:"} {
		sw, _ := text.Measure(s, font, 0)
		width = math.Max(width, sw+helpPadding*2+40)
	}

	indented := []string{fmt.Sprintf("Config Status: %s", status.Status)}
	for i := 0; i < warnings; i++ {
		indented = append(indented, "• "+shortWarning(status.Warnings[i]))
	}
	for _, s := range indented {
		sw, _ := text.Measure(s, font, 0)
		width = math.Max(width, sw+helpPadding*2+80)
	}

	return width, height
}

// calculateOptimalFontSize finds the largest font size that fits within the given dimensions
func (r *Renderer) calculateOptimalFontSize(lines []helpLine, availableWidth, availableHeight float64) (float64, bool) {
	fits := func(size float64) bool {
		w, h := r.calculateRequiredDimensions(lines, size)
		return w <= availableWidth && h <= availableHeight
	}

	maxFontSize := r.renderState.GetFontSize()
	if !fits(minHelpFont) {
		return minHelpFont, false
	}
	if fits(maxFontSize) {
		return maxFontSize, true
	}

	// Binary search between the bounds
	low, high, best := minHelpFont, maxFontSize, minHelpFont
	for high-low > 0.5 {
		mid := (low + high) / 2
		if fits(mid) {
			best, low = mid, mid
		} else {
			high = mid
		}
	}
	return best, true
}

// drawMarginTooSmallMessage displays Fermat's margin joke when help cannot fit
func (r *Renderer) drawMarginTooSmallMessage(screen *ebiten.Image) {
	w, h := float64(screen.Bounds().Dx()), float64(screen.Bounds().Dy())
	DrawFilledRect(screen, 0, 0, w, h, bgColorLight)

	font := r.face(16)
	message := "Hanc marginis exiguitas non caperet."
	subtitle := "(This margin is too small to contain it.)"

	mw, mh := text.Measure(message, font, 0)
	sw, _ := text.Measure(subtitle, font, 0)

	my := h/2 - mh/2
	DrawText(screen, message, font, w/2-mw/2, my, colorWhite)
	DrawText(screen, subtitle, font, w/2-sw/2, my+mh+10, colorGray)
}

func (r *Renderer) drawPageInputOverlay(screen *ebiten.Image) {
	w, h := float64(screen.Bounds().Dx()), float64(screen.Bounds().Dy())
	inputFont := r.face(r.renderState.GetFontSize())
	rangeFont := r.face(r.renderState.GetFontSize() * 0.8)

	inputText := fmt.Sprintf("Go to image: %s_", r.renderState.GetPageInputBuffer())
	rangeText := fmt.Sprintf("(1-%d)", r.renderState.GetTotalPagesCount())

	inputWidth, inputHeight := text.Measure(inputText, inputFont, 0)
	rangeWidth, rangeHeight := text.Measure(rangeText, rangeFont, 0)

	padding := 20.0
	boxWidth := math.Max(inputWidth, rangeWidth) + padding*2
	boxHeight := inputHeight + rangeHeight + 10 + padding*2
	boxX := (w - boxWidth) / 2
	boxY := (h - boxHeight) / 2

	DrawFilledRect(screen, boxX, boxY, boxWidth, boxHeight, bgColorDark)
	DrawText(screen, inputText, inputFont, boxX+(boxWidth-inputWidth)/2, boxY+padding, colorWhite)
	DrawText(screen, rangeText, rangeFont, boxX+(boxWidth-rangeWidth)/2, boxY+padding+inputHeight+10, colorLightGray)
}

func (r *Renderer) drawInfoDisplay(screen *ebiten.Image) {
	font := r.face(r.renderState.GetFontSize())
	infoText := r.renderState.InfoText()
	textWidth, textHeight := text.Measure(infoText, font, 0)

	// Bottom right corner
	padding, bgPadding := 10.0, 5.0
	textX := float64(screen.Bounds().Dx()) - textWidth - padding
	textY := float64(screen.Bounds().Dy()) - textHeight - padding

	DrawFilledRect(screen, textX-bgPadding, textY-bgPadding, textWidth+bgPadding*2, textHeight+bgPadding*2, bgColorLight)
	DrawText(screen, infoText, font, textX, textY, colorWhite)
}

func (r *Renderer) drawOverlayMessage(screen *ebiten.Image) {
	font := r.face(r.renderState.GetFontSize())
	message := r.renderState.GetOverlayMessage()
	textWidth, textHeight := text.Measure(message, font, 0)

	padding := 20.0
	boxWidth := textWidth + padding*2
	boxHeight := textHeight + padding*2
	boxX := (float64(screen.Bounds().Dx()) - boxWidth) / 2
	boxY := (float64(screen.Bounds().Dy()) - boxHeight) / 2

	DrawFilledRect(screen, boxX, boxY, boxWidth, boxHeight, bgColorDark)
	DrawText(screen, message, font, boxX+padding, boxY+padding, colorWhite)
}
