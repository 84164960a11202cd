package vision

import "image"

// Mask is a single-channel binary mask with one byte per pixel, 0 or 1,
// row-major, matching the source image dimensions.
type Mask struct {
	W   int    `json:"w"`
	H   int    `json:"h"`
	Pix []byte `json:"pix"`
}

func NewMask(w, h int) Mask {
	return Mask{W: w, H: h, Pix: make([]byte, w*h)}
}

func (m Mask) At(x, y int) byte {
	if x < 0 || y < 0 || x >= m.W || y >= m.H {
		return 0
	}
	return m.Pix[y*m.W+x]
}

func (m Mask) Set(x, y int, v byte) {
	if x < 0 || y < 0 || x >= m.W || y >= m.H {
		return
	}
	m.Pix[y*m.W+x] = v
}

func (m Mask) Clone() Mask {
	out := Mask{W: m.W, H: m.H, Pix: make([]byte, len(m.Pix))}
	copy(out.Pix, m.Pix)
	return out
}

// Area counts set pixels.
func (m Mask) Area() int {
	area := 0
	for _, v := range m.Pix {
		if v != 0 {
			area++
		}
	}
	return area
}

// Or sets every pixel that is set in either mask. Both masks must share
// dimensions.
func (m Mask) Or(other Mask) Mask {
	out := m.Clone()
	for i, v := range other.Pix {
		if v != 0 {
			out.Pix[i] = 1
		}
	}
	return out
}

// Bounds returns the tight bounding box of set pixels as x1, y1, x2, y2
// (exclusive max). ok is false for an empty mask.
func (m Mask) Bounds() (x1, y1, x2, y2 int, ok bool) {
	x1, y1 = m.W, m.H
	for y := 0; y < m.H; y++ {
		row := m.Pix[y*m.W : (y+1)*m.W]
		for x, v := range row {
			if v == 0 {
				continue
			}
			ok = true
			if x < x1 {
				x1 = x
			}
			if x+1 > x2 {
				x2 = x + 1
			}
			if y < y1 {
				y1 = y
			}
			if y+1 > y2 {
				y2 = y + 1
			}
		}
	}
	if !ok {
		return 0, 0, 0, 0, false
	}
	return x1, y1, x2, y2, true
}

// Centroid returns the mean position of set pixels via raw moments.
// ok is false when the mask is empty.
func (m Mask) Centroid() (cx, cy int, ok bool) {
	var m00, m10, m01 int64
	for y := 0; y < m.H; y++ {
		row := m.Pix[y*m.W : (y+1)*m.W]
		for x, v := range row {
			if v == 0 {
				continue
			}
			m00++
			m10 += int64(x)
			m01 += int64(y)
		}
	}
	if m00 == 0 {
		return 0, 0, false
	}
	return int(m10 / m00), int(m01 / m00), true
}

// Dilate grows the mask with a kernel x kernel rectangular structuring
// element, repeated iterations times. The rectangle is separable, so
// each iteration runs one horizontal and one vertical max pass.
func (m Mask) Dilate(kernel, iterations int) Mask {
	if kernel <= 1 || iterations <= 0 {
		return m.Clone()
	}
	// Even kernels are anchored at the center like OpenCV anchors them:
	// a size-k window spans offsets [-(k-1)/2, k/2].
	lo := -(kernel - 1) / 2
	hi := kernel / 2

	cur := m.Clone()
	tmp := NewMask(m.W, m.H)
	for it := 0; it < iterations; it++ {
		// Horizontal pass.
		for y := 0; y < m.H; y++ {
			row := cur.Pix[y*m.W : (y+1)*m.W]
			out := tmp.Pix[y*m.W : (y+1)*m.W]
			for x := range out {
				out[x] = 0
			}
			for x, v := range row {
				if v == 0 {
					continue
				}
				start := x + lo
				if start < 0 {
					start = 0
				}
				end := x + hi
				if end >= m.W {
					end = m.W - 1
				}
				for i := start; i <= end; i++ {
					out[i] = 1
				}
			}
		}
		// Vertical pass.
		for i := range cur.Pix {
			cur.Pix[i] = 0
		}
		for y := 0; y < m.H; y++ {
			row := tmp.Pix[y*m.W : (y+1)*m.W]
			for x, v := range row {
				if v == 0 {
					continue
				}
				start := y + lo
				if start < 0 {
					start = 0
				}
				end := y + hi
				if end >= m.H {
					end = m.H - 1
				}
				for i := start; i <= end; i++ {
					cur.Pix[i*m.W+x] = 1
				}
			}
		}
	}
	return cur
}

// FillPolygon rasterizes a closed polygon into the mask using even-odd
// scanline filling. Vertices are x, y pairs in pixel coordinates.
func (m Mask) FillPolygon(polygon [][2]int) {
	n := len(polygon)
	if n < 3 {
		return
	}
	for y := 0; y < m.H; y++ {
		fy := float64(y) + 0.5
		var xs []float64
		j := n - 1
		for i := 0; i < n; i++ {
			yi := float64(polygon[i][1])
			yj := float64(polygon[j][1])
			if (yi <= fy && yj > fy) || (yj <= fy && yi > fy) {
				xi := float64(polygon[i][0])
				xj := float64(polygon[j][0])
				x := xi + (fy-yi)/(yj-yi)*(xj-xi)
				xs = append(xs, x)
			}
			j = i
		}
		if len(xs) < 2 {
			continue
		}
		sortFloats(xs)
		for k := 0; k+1 < len(xs); k += 2 {
			start := int(xs[k] + 0.5)
			end := int(xs[k+1] + 0.5)
			if start < 0 {
				start = 0
			}
			if end > m.W {
				end = m.W
			}
			for x := start; x < end; x++ {
				m.Pix[y*m.W+x] = 1
			}
		}
	}
}

func sortFloats(xs []float64) {
	for i := 1; i < len(xs); i++ {
		for j := i; j > 0 && xs[j] < xs[j-1]; j-- {
			xs[j], xs[j-1] = xs[j-1], xs[j]
		}
	}
}

// ToImage renders the mask as an 8-bit grayscale image, set pixels white.
func (m Mask) ToImage() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, m.W, m.H))
	for i, v := range m.Pix {
		if v != 0 {
			img.Pix[i] = 255
		}
	}
	return img
}

// FromImage rebuilds a mask from a grayscale image, any non-zero pixel set.
func FromImage(img *image.Gray) Mask {
	b := img.Bounds()
	m := NewMask(b.Dx(), b.Dy())
	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			if img.GrayAt(b.Min.X+x, b.Min.Y+y).Y != 0 {
				m.Pix[y*m.W+x] = 1
			}
		}
	}
	return m
}
