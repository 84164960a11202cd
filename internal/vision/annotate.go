package vision

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	overlayAlpha   = 0.2
	outlineWidth   = 2
	labelPadding   = 5
)

var labelBackground = color.NRGBA{R: 250, G: 246, B: 245, A: 255}

// Annotate renders every object onto a copy of the image: a translucent
// color wash over the mask, the polygon outline, and a centered boxed
// label at the mask centroid. Objects with an empty mask get no label.
func Annotate(img image.Image, objects []Object) *image.NRGBA {
	out := toNRGBA(img)
	for _, obj := range objects {
		rgba, err := ParseHexColor(obj.Color)
		if err != nil {
			continue
		}
		tintMask(out, obj.Mask, rgba)
		drawOutline(out, obj.Polygon, rgba)
		if cx, cy, ok := obj.Mask.Centroid(); ok {
			drawLabel(out, obj.Label, cx, cy)
		}
	}
	return out
}

// tintMask adds alpha-weighted color to masked pixels, channel values
// saturating at 255 like a clipped weighted add.
func tintMask(img *image.NRGBA, mask Mask, c color.RGBA) {
	b := img.Bounds()
	for y := 0; y < mask.H && y < b.Dy(); y++ {
		for x := 0; x < mask.W && x < b.Dx(); x++ {
			if mask.Pix[y*mask.W+x] == 0 {
				continue
			}
			i := img.PixOffset(x, y)
			img.Pix[i] = clampAdd(img.Pix[i], c.R)
			img.Pix[i+1] = clampAdd(img.Pix[i+1], c.G)
			img.Pix[i+2] = clampAdd(img.Pix[i+2], c.B)
		}
	}
}

func clampAdd(base, add uint8) uint8 {
	v := int(base) + int(float64(add)*overlayAlpha)
	if v > 255 {
		return 255
	}
	return uint8(v)
}

func drawOutline(img *image.NRGBA, polygon [][2]int, c color.RGBA) {
	n := len(polygon)
	if n < 2 {
		return
	}
	for i := 0; i < n; i++ {
		p1 := polygon[i]
		p2 := polygon[(i+1)%n]
		drawLine(img, p1[0], p1[1], p2[0], p2[1], c)
	}
}

// drawLine rasterizes a segment with Bresenham stepping, thickened to
// outlineWidth by painting a small square at each step.
func drawLine(img *image.NRGBA, x1, y1, x2, y2 int, c color.RGBA) {
	dx := abs(x2 - x1)
	dy := -abs(y2 - y1)
	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}
	err := dx + dy
	for {
		for oy := 0; oy < outlineWidth; oy++ {
			for ox := 0; ox < outlineWidth; ox++ {
				setPixel(img, x1+ox, y1+oy, c)
			}
		}
		if x1 == x2 && y1 == y2 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x1 += sx
		}
		if e2 <= dx {
			err += dx
			y1 += sy
		}
	}
}

func setPixel(img *image.NRGBA, x, y int, c color.RGBA) {
	b := img.Bounds()
	if x < 0 || y < 0 || x >= b.Dx() || y >= b.Dy() {
		return
	}
	i := img.PixOffset(x, y)
	img.Pix[i] = c.R
	img.Pix[i+1] = c.G
	img.Pix[i+2] = c.B
	img.Pix[i+3] = 255
}

func drawLabel(img *image.NRGBA, text string, cx, cy int) {
	face := basicfont.Face7x13
	width := font.MeasureString(face, text).Ceil()
	height := face.Metrics().Height.Ceil()

	left := cx - width/2
	top := cy - height/2

	fillRect(img,
		left-labelPadding, top-labelPadding,
		left+width+labelPadding, top+height+labelPadding,
		labelBackground,
	)

	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.NRGBA{A: 255}),
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.I(left),
			Y: fixed.I(top + face.Metrics().Ascent.Ceil()),
		},
	}
	drawer.DrawString(text)
}

func fillRect(img *image.NRGBA, x1, y1, x2, y2 int, c color.NRGBA) {
	b := img.Bounds()
	if x1 < 0 {
		x1 = 0
	}
	if y1 < 0 {
		y1 = 0
	}
	if x2 > b.Dx() {
		x2 = b.Dx()
	}
	if y2 > b.Dy() {
		y2 = b.Dy()
	}
	for y := y1; y < y2; y++ {
		for x := x1; x < x2; x++ {
			i := img.PixOffset(x, y)
			img.Pix[i] = c.R
			img.Pix[i+1] = c.G
			img.Pix[i+2] = c.B
			img.Pix[i+3] = c.A
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
