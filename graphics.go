package main

import (
	"bytes"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/goregular"
)

// Global font source for error image generation
var globalFontSource *text.GoTextFaceSource

func newFontSource() (*text.GoTextFaceSource, error) {
	return text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
}

// InitGraphics initializes the global font source for text rendering
func InitGraphics() error {
	s, err := newFontSource()
	if err != nil {
		return err
	}
	globalFontSource = s
	return nil
}

// DrawText draws text with specified position and color
func DrawText(screen *ebiten.Image, textString string, font *text.GoTextFace, x, y float64, textColor color.RGBA) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(textColor)
	text.Draw(screen, textString, font, op)
}

// DrawFilledRect draws filled rectangles with float64 coordinates
func DrawFilledRect(screen *ebiten.Image, x, y, w, h float64, bgColor color.RGBA) {
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(w), float32(h), bgColor, false)
}

// DrawFilledCircle draws an antialiased disc
func DrawFilledCircle(screen *ebiten.Image, center Point, radius float64, clr color.RGBA) {
	vector.DrawFilledCircle(screen, float32(center.X), float32(center.Y), float32(radius), clr, true)
}

// DrawCross draws an "x" of half-size arm centered in rect
func DrawCross(screen *ebiten.Image, rect Rect, arm, width float64, clr color.RGBA) {
	c := rect.Center()
	x0, y0 := float32(c.X-arm), float32(c.Y-arm)
	x1, y1 := float32(c.X+arm), float32(c.Y+arm)
	vector.StrokeLine(screen, x0, y0, x1, y1, float32(width), clr, true)
	vector.StrokeLine(screen, x0, y1, x1, y0, float32(width), clr, true)
}

func drawBorder(img *ebiten.Image, width, height int, clr color.RGBA) {
	w, h := float64(width), float64(height)
	DrawFilledRect(img, 0, 0, w, 3, clr)
	DrawFilledRect(img, 0, h-3, w, 3, clr)
	DrawFilledRect(img, 0, 0, 3, h, clr)
	DrawFilledRect(img, w-3, 0, 3, h, clr)
}

// truncateText shortens s to at most maxChars, marking the cut with "..."
func truncateText(s string, maxChars int) string {
	if maxChars < 4 || len(s) <= maxChars {
		return s
	}
	return s[:maxChars-3] + "..."
}

// CreateErrorImage creates the placeholder shown for a page whose image failed to load
func CreateErrorImage(width, height int, name, errorMsg string) *ebiten.Image {
	if width <= 0 || height <= 0 {
		width, height = placeholderBounds.Dx(), placeholderBounds.Dy()
	}

	errorImg := ebiten.NewImage(width, height)
	errorImg.Fill(color.RGBA{120, 30, 30, 255})
	drawBorder(errorImg, width, height, colorWhite)

	// Without a font only the frame is drawn
	if globalFontSource == nil {
		return errorImg
	}

	errorFont := &text.GoTextFace{
		Source: globalFontSource,
		Size:   20.0,
	}

	// Rough estimate: 10px per character
	maxChars := (width - 20) / 10
	DrawText(errorImg, "ERROR", errorFont, 10, 30, colorWhite)
	DrawText(errorImg, truncateText("Image: "+name, maxChars), errorFont, 10, 60, colorWhite)
	DrawText(errorImg, truncateText("Reason: "+errorMsg, maxChars), errorFont, 10, 90, colorWhite)

	return errorImg
}
