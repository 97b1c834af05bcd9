package render

import (
	"image"
	"image/color"

	"forest-disease/internal/core"
)

// Frame renders a cell buffer into an RGBA image, drawing every cell as a
// scale×scale block. Row 0 of the grid ends up at the top of the image.
func Frame(cells []uint8, size core.Size, palette []color.RGBA, scale int) *image.RGBA {
	if scale <= 0 {
		scale = 1
	}
	img := image.NewRGBA(image.Rect(0, 0, size.W*scale, size.H*scale))
	if len(cells) != size.W*size.H {
		return img
	}
	small := make([]byte, 4*len(cells))
	fillPaletteRGBA(small, cells, palette)

	for y := 0; y < size.H; y++ {
		for x := 0; x < size.W; x++ {
			src := (y*size.W + x) * 4
			px := small[src : src+4]
			for sy := 0; sy < scale; sy++ {
				row := img.PixOffset(x*scale, y*scale+sy)
				for sx := 0; sx < scale; sx++ {
					copy(img.Pix[row+sx*4:row+sx*4+4], px)
				}
			}
		}
	}
	return img
}
