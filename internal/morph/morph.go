package morph

import (
	"github.com/ironsheep/linetrace/internal/imaging"
)

// Offset is a neighbour position relative to the pixel being computed.
type Offset struct {
	DX int
	DY int
}

// Element is a structuring element expressed as a set of offsets.
type Element []Offset

// Cross returns the 3x3 cross: the centre and its four edge-adjacent neighbours.
func Cross() Element {
	return Element{
		{0, -1},
		{-1, 0}, {0, 0}, {1, 0},
		{0, 1},
	}
}

// Square returns a size x size block. The anchor sits at size/2, so even sizes
// extend one pixel further up and left than down and right.
func Square(size int) Element {
	if size < 1 {
		size = 1
	}
	lo := -(size / 2)
	hi := lo + size - 1
	el := make(Element, 0, size*size)
	for dy := lo; dy <= hi; dy++ {
		for dx := lo; dx <= hi; dx++ {
			el = append(el, Offset{dx, dy})
		}
	}
	return el
}

// Erode keeps a pixel only if every in-bounds neighbour under el is foreground.
func Erode(m *imaging.Raster, el Element) *imaging.Raster {
	out := imaging.NewRaster(m.Width, m.Height)
	for y := 0; y < m.Height; y++ {
	pixels:
		for x := 0; x < m.Width; x++ {
			for _, o := range el {
				nx, ny := x+o.DX, y+o.DY
				if m.In(nx, ny) && m.At(nx, ny) == 0 {
					continue pixels
				}
			}
			out.Set(x, y, imaging.Foreground)
		}
	}
	return out
}

// Dilate sets a pixel if any in-bounds neighbour under el is foreground.
func Dilate(m *imaging.Raster, el Element) *imaging.Raster {
	out := imaging.NewRaster(m.Width, m.Height)
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			for _, o := range el {
				if m.IsSet(x+o.DX, y+o.DY) {
					out.Set(x, y, imaging.Foreground)
					break
				}
			}
		}
	}
	return out
}

// Subtract returns a - b per pixel, saturating at zero.
func Subtract(a, b *imaging.Raster) *imaging.Raster {
	out := imaging.NewRaster(a.Width, a.Height)
	for i, v := range a.Pix {
		if w := b.Pix[i]; v > w {
			out.Pix[i] = v - w
		}
	}
	return out
}

// Or returns the per-pixel bitwise or of a and b.
func Or(a, b *imaging.Raster) *imaging.Raster {
	out := imaging.NewRaster(a.Width, a.Height)
	for i, v := range a.Pix {
		out.Pix[i] = v | b.Pix[i]
	}
	return out
}

// Open is an erosion followed by a dilation. It removes foreground specks
// smaller than el.
func Open(m *imaging.Raster, el Element) *imaging.Raster {
	return Dilate(Erode(m, el), el)
}

// Close is a dilation followed by an erosion. It bridges gaps and fills holes
// smaller than el.
func Close(m *imaging.Raster, el Element) *imaging.Raster {
	return Erode(Dilate(m, el), el)
}

// Cleanup applies an opening and then a closing with a size x size square.
func Cleanup(m *imaging.Raster, size int) *imaging.Raster {
	el := Square(size)
	return Close(Open(m, el), el)
}
