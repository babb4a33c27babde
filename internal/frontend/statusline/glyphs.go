package statusline

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/valerio/go-pcemu/pcemu"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// RenderGlyphStrip rasterizes Format(core)'s text into a fixed-height
// image using the stdlib bitmap font, for frontends that have no terminal
// cell grid to draw into (an SDL2 window overlay, a headless debug PNG).
// Grounded on the basicfont.Face7x13/font.Drawer usage in
// cmd/ssd1306/main.go's drawText, the one place in the retrieved pack that
// rasterizes text onto a raster image rather than a terminal screen.
func RenderGlyphStrip(core *pcemu.Core, width int) *image.RGBA {
	const height = 16
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)

	face := basicfont.Face7x13
	drawer := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.White),
		Face: face,
		Dot:  fixed.P(1, height-1-face.Descent),
	}
	drawer.DrawString(Format(core))
	return img
}
