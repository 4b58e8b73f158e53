package detection

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ironsheep/linetrace/internal/imaging"
)

// parseMask builds a mask from rows of '#' (foreground) and '.' (background).
func parseMask(rows ...string) *imaging.Raster {
	m := imaging.NewRaster(len(rows[0]), len(rows))
	for y, row := range rows {
		for x, c := range row {
			if c == '#' {
				m.Set(x, y, imaging.Foreground)
			}
		}
	}
	return m
}

func TestFindContours(t *testing.T) {
	tests := []struct {
		name string
		mask *imaging.Raster
		want []Contour
	}{
		{
			name: "filled rectangle compresses to corners",
			mask: parseMask(
				"..........",
				"..#####...",
				"..#####...",
				"..#####...",
				"..........",
			),
			want: []Contour{{{2, 1}, {2, 3}, {6, 3}, {6, 1}}},
		},
		{
			name: "single pixel",
			mask: parseMask(
				"...",
				".#.",
				"...",
			),
			want: []Contour{{{1, 1}}},
		},
		{
			name: "horizontal line",
			mask: parseMask(
				"..........",
				"..........",
				"..######..",
				"..........",
			),
			want: []Contour{{{2, 2}, {7, 2}}},
		},
		{
			name: "diagonal is one 8-connected component",
			mask: parseMask(
				".....",
				".#...",
				"..#..",
				"...#.",
				".....",
			),
			want: []Contour{{{1, 1}, {3, 3}}},
		},
		{
			name: "shape touching the frame",
			mask: parseMask(
				"###",
				"###",
				"###",
			),
			want: []Contour{{{0, 0}, {0, 2}, {2, 2}, {2, 0}}},
		},
		{
			name: "raster order of start pixels",
			mask: parseMask(
				"........",
				".....#..",
				"........",
				".#......",
				"........",
			),
			want: []Contour{{{5, 1}}, {{1, 3}}},
		},
		{
			name: "shape inside a hole is not traced",
			mask: parseMask(
				".........",
				".#######.",
				".#.....#.",
				".#.....#.",
				".#..#..#.",
				".#.....#.",
				".#.....#.",
				".#######.",
				".........",
			),
			want: []Contour{{{1, 1}, {1, 7}, {7, 7}, {7, 1}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindContours(tt.mask, ApproxSimple)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("FindContours mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFindContours_ApproxNone(t *testing.T) {
	mask := parseMask(
		".....",
		".###.",
		".....",
	)

	got := FindContours(mask, ApproxNone)
	want := []Contour{{{1, 1}, {2, 1}, {3, 1}, {2, 1}}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FindContours mismatch (-want +got):\n%s", diff)
	}
}

func TestFindContours_Empty(t *testing.T) {
	if got := FindContours(imaging.NewRaster(20, 20), ApproxSimple); len(got) != 0 {
		t.Errorf("all-background mask: got %d contours, want 0", len(got))
	}
	if got := FindContours(imaging.NewRaster(0, 0), ApproxSimple); len(got) != 0 {
		t.Errorf("empty mask: got %d contours, want 0", len(got))
	}
}

func TestFindContours_DenseMatchesCompressed(t *testing.T) {
	mask := parseMask(
		"..........",
		"...####...",
		"..######..",
		"..######..",
		"...####...",
		"..........",
	)

	dense := FindContours(mask, ApproxNone)
	simple := FindContours(mask, ApproxSimple)
	if len(dense) != 1 || len(simple) != 1 {
		t.Fatalf("contour counts: dense %d, simple %d", len(dense), len(simple))
	}

	// Every compressed vertex appears in the dense walk, in the same order
	j := 0
	for _, p := range dense[0] {
		if j < len(simple[0]) && p == simple[0][j] {
			j++
		}
	}
	if j != len(simple[0]) {
		t.Errorf("compressed contour %v is not a subsequence of %v", simple[0], dense[0])
	}
	if Area(dense[0]) != Area(simple[0]) {
		t.Errorf("area changed by compression: %v vs %v", Area(dense[0]), Area(simple[0]))
	}
}
