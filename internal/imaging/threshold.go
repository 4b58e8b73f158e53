package imaging

import (
	"github.com/anthonynsimon/bild/blur"
)

// DefaultThreshold is the global binarization cutoff applied to inverted
// intensities.
const DefaultThreshold uint8 = 127

// Binarize inverts r and applies a fixed global threshold.
//
// Dark strokes on a light background become foreground: a pixel is set to
// Foreground when its inverted intensity (255 - v) is strictly greater than
// cutoff, and to Background otherwise. With the default cutoff of 127 an
// inverted value of 127 is background and 128 is foreground.
//
// No adaptive or Otsu thresholding is performed.
func Binarize(r *Raster, cutoff uint8) *Raster {
	out := NewRaster(r.Width, r.Height)
	for i, v := range r.Pix {
		if 255-v > cutoff {
			out.Pix[i] = Foreground
		}
	}
	return out
}

// Blur applies a Gaussian smoothing pass of the given radius.
//
// A radius <= 0 returns an unmodified copy.
func Blur(r *Raster, radius float64) *Raster {
	if radius <= 0 {
		return r.Clone()
	}
	return RasterFromImage(blur.Gaussian(r.Gray(), radius))
}
