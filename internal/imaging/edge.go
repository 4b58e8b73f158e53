package imaging

import (
	"math"
)

// Default hysteresis thresholds for Canny.
const (
	DefaultCannyLow  = 50
	DefaultCannyHigh = 150
)

// Canny performs Canny-style edge detection and returns a binary edge mask.
//
// Parameters:
//   - r: Source raster (greyscale or a binary mask).
//   - thresholdLow: Low threshold (0-255). Gradient magnitudes below this are
//     discarded. Typical value: 50.
//   - thresholdHigh: High threshold (0-255). Magnitudes above this are always
//     kept. Typical value: 150.
//
// Returns a mask of the same size where edge pixels are Foreground.
//
// # Algorithm
//
//  1. Gaussian blur: 5x5 kernel to reduce noise
//
//  2. Gradient computation: Sobel operators for X and Y gradients
//     magnitude = sqrt(Gx² + Gy²)
//     direction = atan2(Gy, Gx)
//
//  3. Non-maximum suppression: Thin edges to 1-pixel width by keeping only
//     local maxima in the gradient direction
//
//  4. Hysteresis thresholding:
//     - Pixels above thresholdHigh are strong edges (always kept)
//     - Pixels between thresholdLow and thresholdHigh are weak edges
//     (kept only if 8-adjacent to a strong edge)
//     - Pixels below thresholdLow are discarded
//
// Intensities are normalized to [0, 1] before filtering, so the thresholds are
// expressed on the same 0-255 scale as the input.
func Canny(r *Raster, thresholdLow, thresholdHigh int) *Raster {
	width, height := r.Width, r.Height
	out := NewRaster(width, height)
	if r.Empty() {
		return out
	}

	gray := make([]float64, width*height)
	for i, v := range r.Pix {
		gray[i] = float64(v) / 255.0
	}

	blurred := gaussianBlur(gray, width, height)

	sobelX := [3][3]float64{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}
	sobelY := [3][3]float64{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}

	magnitude := make([]float64, width*height)
	direction := make([]float64, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var gx, gy float64
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					v := blurred[clamp(y+ky, 0, height-1)*width+clamp(x+kx, 0, width-1)]
					gx += v * sobelX[ky+1][kx+1]
					gy += v * sobelY[ky+1][kx+1]
				}
			}
			magnitude[y*width+x] = math.Sqrt(gx*gx + gy*gy)
			direction[y*width+x] = math.Atan2(gy, gx)
		}
	}

	// Non-maximum suppression
	suppressed := make([]float64, width*height)
	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			angle := direction[y*width+x]
			mag := magnitude[y*width+x]

			var n1, n2 float64
			switch {
			case (angle >= -math.Pi/8 && angle < math.Pi/8) || angle >= 7*math.Pi/8 || angle < -7*math.Pi/8:
				n1 = magnitude[y*width+x-1]
				n2 = magnitude[y*width+x+1]
			case (angle >= math.Pi/8 && angle < 3*math.Pi/8) || (angle >= -7*math.Pi/8 && angle < -5*math.Pi/8):
				n1 = magnitude[(y-1)*width+x+1]
				n2 = magnitude[(y+1)*width+x-1]
			case (angle >= 3*math.Pi/8 && angle < 5*math.Pi/8) || (angle >= -5*math.Pi/8 && angle < -3*math.Pi/8):
				n1 = magnitude[(y-1)*width+x]
				n2 = magnitude[(y+1)*width+x]
			default:
				n1 = magnitude[(y-1)*width+x-1]
				n2 = magnitude[(y+1)*width+x+1]
			}

			if mag >= n1 && mag >= n2 {
				suppressed[y*width+x] = mag
			}
		}
	}

	// Double threshold and edge tracking by hysteresis
	lowThresh := float64(thresholdLow) / 255.0
	highThresh := float64(thresholdHigh) / 255.0

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			val := suppressed[y*width+x]
			if val >= highThresh {
				out.Set(x, y, Foreground)
				continue
			}
			if val < lowThresh || val == 0 {
				continue
			}
			strong := false
			for ky := -1; ky <= 1 && !strong; ky++ {
				for kx := -1; kx <= 1 && !strong; kx++ {
					if suppressed[clamp(y+ky, 0, height-1)*width+clamp(x+kx, 0, width-1)] >= highThresh {
						strong = true
					}
				}
			}
			if strong {
				out.Set(x, y, Foreground)
			}
		}
	}

	return out
}

// gaussianBlur applies a 5x5 Gaussian blur to reduce noise before edge detection.
//
// Uses a standard 5x5 Gaussian kernel with sigma ≈ 1.4:
//
//	1  4  7  4  1
//	4 16 26 16  4
//	7 26 41 26  7
//	4 16 26 16  4
//	1  4  7  4  1
//
// Total kernel sum = 273, used for normalization.
// Border pixels use clamped (replicated) edge values.
func gaussianBlur(img []float64, width, height int) []float64 {
	kernel := [5][5]float64{
		{1, 4, 7, 4, 1},
		{4, 16, 26, 16, 4},
		{7, 26, 41, 26, 7},
		{4, 16, 26, 16, 4},
		{1, 4, 7, 4, 1},
	}
	const kernelSum = 273.0

	result := make([]float64, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var sum float64
			for ky := -2; ky <= 2; ky++ {
				for kx := -2; kx <= 2; kx++ {
					sum += img[clamp(y+ky, 0, height-1)*width+clamp(x+kx, 0, width-1)] * kernel[ky+2][kx+2]
				}
			}
			result[y*width+x] = sum / kernelSum
		}
	}
	return result
}

// clamp constrains an integer value to the range [min, max].
// Used for boundary handling in convolution operations.
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
