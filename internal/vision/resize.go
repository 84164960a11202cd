package vision

import (
	"image"

	xdraw "golang.org/x/image/draw"
)

// Resize scales an image to the given size with bilinear interpolation.
func Resize(img image.Image, width, height int) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, width, height))
	xdraw.BiLinear.Scale(out, out.Bounds(), img, img.Bounds(), xdraw.Over, nil)
	return out
}

// ResizeNearest scales without interpolation, preserving hard edges.
func ResizeNearest(img image.Image, width, height int) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, width, height))
	xdraw.NearestNeighbor.Scale(out, out.Bounds(), img, img.Bounds(), xdraw.Over, nil)
	return out
}

// ResizeMask scales a mask to the given size, nearest-neighbor.
func ResizeMask(m Mask, width, height int) Mask {
	gray := image.NewGray(image.Rect(0, 0, width, height))
	xdraw.NearestNeighbor.Scale(gray, gray.Bounds(), m.ToImage(), image.Rect(0, 0, m.W, m.H), xdraw.Src, nil)
	return FromImage(gray)
}

func toNRGBA(img image.Image) *image.NRGBA {
	if nrgba, ok := img.(*image.NRGBA); ok {
		return nrgba
	}
	b := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(out, out.Bounds(), img, b.Min, xdraw.Src)
	return out
}
