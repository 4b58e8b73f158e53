package detection

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestArea(t *testing.T) {
	tests := []struct {
		name    string
		contour Contour
		want    float64
	}{
		{"rectangle", Contour{{2, 1}, {2, 3}, {6, 3}, {6, 1}}, 8},
		{"reversed orientation", Contour{{6, 1}, {6, 3}, {2, 3}, {2, 1}}, 8},
		{"triangle", Contour{{0, 0}, {4, 0}, {0, 3}}, 6},
		{"line", Contour{{0, 0}, {5, 0}}, 0},
		{"point", Contour{{3, 3}}, 0},
		{"empty", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Area(tt.contour); got != tt.want {
				t.Errorf("Area: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPerimeter(t *testing.T) {
	tests := []struct {
		name    string
		contour Contour
		want    float64
	}{
		{"rectangle", Contour{{2, 1}, {2, 3}, {6, 3}, {6, 1}}, 12},
		{"line counts both directions", Contour{{2, 2}, {7, 2}}, 10},
		{"right triangle", Contour{{0, 0}, {3, 0}, {0, 4}}, 12},
		{"point", Contour{{1, 1}}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Perimeter(tt.contour); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Perimeter: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBoundingRect(t *testing.T) {
	tests := []struct {
		name    string
		contour Contour
		want    Rect
	}{
		{"rectangle", Contour{{2, 1}, {2, 3}, {6, 3}, {6, 1}}, Rect{X: 2, Y: 1, Width: 5, Height: 3}},
		{"single pixel", Contour{{4, 7}}, Rect{X: 4, Y: 7, Width: 1, Height: 1}},
		{"horizontal line", Contour{{2, 2}, {7, 2}}, Rect{X: 2, Y: 2, Width: 6, Height: 1}},
		{"empty", nil, Rect{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, BoundingRect(tt.contour)); diff != "" {
				t.Errorf("BoundingRect mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// slantedStrip returns the lattice polygon (0,0) (a,0) (a+1,1) (0,1), whose
// perimeter is 2a + 2 + sqrt(2).
func slantedStrip(a int) Contour {
	return Contour{{0, 0}, {a, 0}, {a + 1, 1}, {0, 1}}
}

func TestFilterContours_PerimeterBoundary(t *testing.T) {
	short := slantedStrip(28) // perimeter ~59.41
	long := slantedStrip(29)  // perimeter ~61.41
	exact := Contour{{0, 0}, {0, 10}, {20, 10}, {20, 0}}

	if p := Perimeter(short); p >= DefaultMinPerimeter {
		t.Fatalf("short contour perimeter %v should be below %v", p, DefaultMinPerimeter)
	}
	if p := Perimeter(long); p <= DefaultMinPerimeter {
		t.Fatalf("long contour perimeter %v should be above %v", p, DefaultMinPerimeter)
	}

	got := FilterContours([]Contour{short, long, exact}, Filter{Kind: FilterPerimeter, Min: DefaultMinPerimeter})
	want := []Contour{long, exact}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FilterContours mismatch (-want +got):\n%s", diff)
	}
}

func TestFilterContours_Area(t *testing.T) {
	small := Contour{{0, 0}, {0, 3}, {3, 3}, {3, 0}}  // area 9
	atFloor := Contour{{0, 0}, {0, 2}, {5, 2}, {5, 0}} // area 10
	large := Contour{{0, 0}, {0, 8}, {8, 8}, {8, 0}}   // area 64

	got := FilterContours([]Contour{small, atFloor, large}, Filter{Kind: FilterArea, Min: DefaultMinArea})
	want := []Contour{atFloor, large}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FilterContours mismatch (-want +got):\n%s", diff)
	}
}

func TestFilterContours_None(t *testing.T) {
	in := []Contour{{{0, 0}}, slantedStrip(3)}

	for _, kind := range []FilterKind{FilterNone, ""} {
		got := FilterContours(in, Filter{Kind: kind, Min: 1000})
		if len(got) != len(in) {
			t.Errorf("kind %q: got %d contours, want %d", kind, len(got), len(in))
		}
	}
}

func TestParseFilterKind(t *testing.T) {
	tests := []struct {
		in      string
		want    FilterKind
		wantErr bool
	}{
		{"", FilterNone, false},
		{"none", FilterNone, false},
		{"area", FilterArea, false},
		{"perimeter", FilterPerimeter, false},
		{"volume", "", true},
	}

	for _, tt := range tests {
		got, err := ParseFilterKind(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFilterKind(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFilterKind(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestApproxPolygon_Rectangle(t *testing.T) {
	mask := parseMask(
		"..........",
		"..#####...",
		"..#####...",
		"..#####...",
		"..........",
	)
	corners := Contour{{2, 1}, {2, 3}, {6, 3}, {6, 1}}

	for _, approx := range []ChainApprox{ApproxSimple, ApproxNone} {
		contours := FindContours(mask, approx)
		if len(contours) != 1 {
			t.Fatalf("approx %d: got %d contours, want 1", approx, len(contours))
		}
		c := contours[0]

		poly := ApproxPolygon(c, DefaultEpsilonFactor*Perimeter(c))
		if diff := cmp.Diff(corners, poly); diff != "" {
			t.Errorf("approx %d: ApproxPolygon mismatch (-want +got):\n%s", approx, diff)
		}
		if !IsConvex(poly) {
			t.Errorf("approx %d: rectangle should be convex", approx)
		}
	}
}

func TestApproxPolygon_DropsNearCollinearPoints(t *testing.T) {
	// Square with a one-pixel bump on its top edge
	c := Contour{{0, 0}, {0, 40}, {40, 40}, {40, 0}, {21, 0}, {20, 1}, {19, 0}}

	poly := ApproxPolygon(c, DefaultEpsilonFactor*Perimeter(c))
	want := Contour{{0, 0}, {0, 40}, {40, 40}, {40, 0}}
	if diff := cmp.Diff(want, poly); diff != "" {
		t.Errorf("ApproxPolygon mismatch (-want +got):\n%s", diff)
	}

	// A tight tolerance keeps the bump
	if got := ApproxPolygon(c, 0.1); len(got) != len(c) {
		t.Errorf("epsilon 0.1: got %d vertices, want %d", len(got), len(c))
	}
}

func TestApproxPolygon_SmallInputs(t *testing.T) {
	tests := []Contour{
		nil,
		{{1, 1}},
		{{1, 1}, {5, 1}},
		{{0, 0}, {4, 0}, {0, 3}},
	}

	for _, c := range tests {
		got := ApproxPolygon(c, 10)
		if len(got) != len(c) {
			t.Errorf("ApproxPolygon(%v) = %v, want unchanged", c, got)
			continue
		}
		for i := range c {
			if got[i] != c[i] {
				t.Errorf("ApproxPolygon(%v) = %v, want unchanged", c, got)
				break
			}
		}
	}
}

func TestIsConvex(t *testing.T) {
	tests := []struct {
		name string
		poly Contour
		want bool
	}{
		{"square", Contour{{0, 0}, {0, 4}, {4, 4}, {4, 0}}, true},
		{"square reversed", Contour{{0, 0}, {4, 0}, {4, 4}, {0, 4}}, true},
		{"triangle", Contour{{0, 0}, {6, 0}, {3, 5}}, true},
		{"collinear vertex tolerated", Contour{{0, 0}, {2, 0}, {4, 0}, {4, 4}, {0, 4}}, true},
		{"L shape", Contour{{0, 0}, {0, 4}, {4, 4}, {4, 2}, {2, 2}, {2, 0}}, false},
		{"degenerate line", Contour{{0, 0}, {1, 0}, {2, 0}}, false},
		{"two points", Contour{{0, 0}, {3, 3}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsConvex(tt.poly); got != tt.want {
				t.Errorf("IsConvex(%v) = %v, want %v", tt.poly, got, tt.want)
			}
		})
	}
}
