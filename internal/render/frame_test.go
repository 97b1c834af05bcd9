package render

import (
	"image/color"
	"testing"

	"forest-disease/internal/core"
)

func TestFrameScalesCells(t *testing.T) {
	palette := []color.RGBA{
		{R: 255, G: 255, B: 255, A: 255},
		{R: 0, G: 170, B: 0, A: 255},
	}
	cells := []uint8{0, 1, 1, 0, 0, 7}
	img := Frame(cells, core.Size{W: 3, H: 2}, palette, 2)

	if b := img.Bounds(); b.Dx() != 6 || b.Dy() != 4 {
		t.Fatalf("expected 6x4 image, got %v", b)
	}
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			if got := img.RGBAAt(2+x, y); got != palette[1] {
				t.Fatalf("pixel (%d,%d) = %v, expected %v", 2+x, y, got, palette[1])
			}
		}
	}
	if got := img.RGBAAt(0, 0); got != palette[0] {
		t.Fatalf("pixel (0,0) = %v, expected %v", got, palette[0])
	}
	if got := img.RGBAAt(5, 3); got != palette[1] {
		t.Fatalf("out of range value should clamp to last palette entry, got %v", got)
	}
}

func TestFillPaletteRGBAEmptyPaletteClears(t *testing.T) {
	buf := []byte{9, 9, 9, 9}
	fillPaletteRGBA(buf, []uint8{1}, nil)
	for i, v := range buf {
		if v != 0 {
			t.Fatalf("byte %d = %d, expected 0", i, v)
		}
	}
}
