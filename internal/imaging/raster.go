package imaging

import (
	"image"
	"image/color"
)

// Raster is a single-channel 8-bit image stored row-major.
//
// Every pipeline stage returns a new Raster rather than mutating its input, so a
// Raster handed to a stage can be treated as an immutable snapshot.
//
// A Raster whose pixels are restricted to {0, 255} is used as a binary mask:
// 255 is foreground, 0 is background.
type Raster struct {
	// Width is the horizontal extent in pixels.
	Width int

	// Height is the vertical extent in pixels.
	Height int

	// Pix holds Width*Height intensity values, row by row starting at the top.
	Pix []uint8
}

// Foreground and Background are the only two values of a binary mask.
const (
	Foreground uint8 = 255
	Background uint8 = 0
)

// NewRaster allocates an all-zero raster of the given size.
func NewRaster(width, height int) *Raster {
	return &Raster{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height),
	}
}

// In reports whether (x, y) lies inside the raster.
func (r *Raster) In(x, y int) bool {
	return x >= 0 && y >= 0 && x < r.Width && y < r.Height
}

// At returns the value at (x, y). No bounds checking is performed.
func (r *Raster) At(x, y int) uint8 {
	return r.Pix[y*r.Width+x]
}

// Set stores v at (x, y). No bounds checking is performed.
func (r *Raster) Set(x, y int, v uint8) {
	r.Pix[y*r.Width+x] = v
}

// IsSet reports whether (x, y) is inside the raster and non-zero.
func (r *Raster) IsSet(x, y int) bool {
	return r.In(x, y) && r.Pix[y*r.Width+x] != 0
}

// Clone returns an independent copy.
func (r *Raster) Clone() *Raster {
	out := &Raster{Width: r.Width, Height: r.Height, Pix: make([]uint8, len(r.Pix))}
	copy(out.Pix, r.Pix)
	return out
}

// CountNonZero returns the number of non-zero pixels.
func (r *Raster) CountNonZero() int {
	n := 0
	for _, v := range r.Pix {
		if v != 0 {
			n++
		}
	}
	return n
}

// Empty reports whether the raster has no pixels at all.
func (r *Raster) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Gray returns the raster as an *image.Gray sharing no memory with r.
func (r *Raster) Gray() *image.Gray {
	g := image.NewGray(image.Rect(0, 0, r.Width, r.Height))
	for y := 0; y < r.Height; y++ {
		copy(g.Pix[y*g.Stride:y*g.Stride+r.Width], r.Pix[y*r.Width:(y+1)*r.Width])
	}
	return g
}

// RasterFromImage reads the luminance of img into a new Raster.
//
// Images that are already greyscale (R == G == B, which is what the imaging and
// bild filters produce) are read straight from their red channel. Anything else
// goes through color.GrayModel.
func RasterFromImage(img image.Image) *Raster {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	out := NewRaster(width, height)

	switch src := img.(type) {
	case *image.Gray:
		for y := 0; y < height; y++ {
			row := src.Pix[y*src.Stride : y*src.Stride+width]
			copy(out.Pix[y*width:(y+1)*width], row)
		}
	case *image.NRGBA:
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				out.Pix[y*width+x] = src.Pix[y*src.Stride+x*4]
			}
		}
	case *image.RGBA:
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				out.Pix[y*width+x] = src.Pix[y*src.Stride+x*4]
			}
		}
	default:
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				g := color.GrayModel.Convert(img.At(x+bounds.Min.X, y+bounds.Min.Y)).(color.Gray)
				out.Pix[y*width+x] = g.Y
			}
		}
	}

	return out
}
