package imaging

import (
	"testing"
)

func TestCanny(t *testing.T) {
	// A filled square on an empty mask has four clear edges
	r := createSquareRaster(100, 100, 25, 75)

	edges := Canny(r, DefaultCannyLow, DefaultCannyHigh)

	if edges.Width != 100 || edges.Height != 100 {
		t.Errorf("dimensions: got %dx%d, want 100x100", edges.Width, edges.Height)
	}

	if edges.CountNonZero() == 0 {
		t.Fatal("expected edge pixels around the square")
	}

	// Deep inside and far outside the square there are no edges
	if edges.At(50, 50) != 0 {
		t.Error("center of the square should not be an edge")
	}
	if edges.At(5, 5) != 0 {
		t.Error("background corner should not be an edge")
	}

	for _, v := range edges.Pix {
		if v != Foreground && v != Background {
			t.Fatalf("edge mask contains non-binary value %d", v)
		}
	}
}

func TestCanny_DifferentThresholds(t *testing.T) {
	r := createSquareRaster(50, 50, 12, 38)

	tests := []struct {
		name      string
		low, high int
	}{
		{"low thresholds", 10, 50},
		{"medium thresholds", 50, 150},
		{"high thresholds", 100, 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			edges := Canny(r, tt.low, tt.high)
			if edges.CountNonZero() == 0 {
				t.Error("expected some edges")
			}
		})
	}
}

func TestCanny_UniformRaster(t *testing.T) {
	r := NewRaster(50, 50)
	for i := range r.Pix {
		r.Pix[i] = 128
	}

	edges := Canny(r, DefaultCannyLow, DefaultCannyHigh)
	if n := edges.CountNonZero(); n != 0 {
		t.Errorf("uniform raster should have no edges, got %d", n)
	}
}

func TestCanny_StrongEdge(t *testing.T) {
	r := NewRaster(100, 100)
	for y := 0; y < 100; y++ {
		for x := 50; x < 100; x++ {
			r.Set(x, y, 255)
		}
	}

	edges := Canny(r, DefaultCannyLow, DefaultCannyHigh)

	edgeFound := false
	for x := 47; x <= 52; x++ {
		if edges.At(x, 50) != 0 {
			edgeFound = true
			break
		}
	}
	if !edgeFound {
		t.Error("strong vertical edge was not detected")
	}
}

func TestCanny_SmallAndEmpty(t *testing.T) {
	edges := Canny(NewRaster(5, 5), 50, 150)
	if edges.Width != 5 || edges.Height != 5 {
		t.Errorf("dimensions: got %dx%d, want 5x5", edges.Width, edges.Height)
	}

	empty := Canny(NewRaster(0, 0), 50, 150)
	if !empty.Empty() {
		t.Error("expected empty output for empty input")
	}
}

func TestGaussianBlur(t *testing.T) {
	width, height := 10, 10
	img := make([]float64, width*height)
	for i := range img {
		img[i] = 0.5 // uniform gray
	}

	blurred := gaussianBlur(img, width, height)

	// Uniform image should remain uniform after blur
	for y := 2; y < height-2; y++ {
		for x := 2; x < width-2; x++ {
			if absFloat(blurred[y*width+x]-0.5) > 0.01 {
				t.Errorf("blurred[%d][%d]: got %.3f, want ~0.5", y, x, blurred[y*width+x])
			}
		}
	}
}

func TestGaussianBlur_WithSpot(t *testing.T) {
	width, height := 11, 11
	img := make([]float64, width*height)
	img[5*width+5] = 1.0 // bright spot in center

	blurred := gaussianBlur(img, width, height)

	if blurred[5*width+5] >= 1.0 {
		t.Error("bright spot should be reduced after blur")
	}

	if blurred[5*width+4] == 0 || blurred[5*width+6] == 0 || blurred[4*width+5] == 0 || blurred[6*width+5] == 0 {
		t.Error("neighbors should receive some brightness from blur")
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, min, max, want int
	}{
		{5, 0, 10, 5},   // within range
		{-1, 0, 10, 0},  // below min
		{15, 0, 10, 10}, // above max
		{0, 0, 10, 0},   // at min
		{10, 0, 10, 10}, // at max
	}

	for _, tt := range tests {
		got := clamp(tt.val, tt.min, tt.max)
		if got != tt.want {
			t.Errorf("clamp(%d, %d, %d): got %d, want %d",
				tt.val, tt.min, tt.max, got, tt.want)
		}
	}
}

// createSquareRaster returns a mask with a filled square covering [lo, hi) on both axes.
func createSquareRaster(width, height, lo, hi int) *Raster {
	r := NewRaster(width, height)
	for y := lo; y < hi; y++ {
		for x := lo; x < hi; x++ {
			r.Set(x, y, Foreground)
		}
	}
	return r
}

func absFloat(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
