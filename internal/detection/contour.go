package detection

import (
	"github.com/ironsheep/linetrace/internal/imaging"
)

// Point represents a 2D coordinate in pixel space.
type Point struct {
	X int `json:"x"` // Horizontal position (0 = leftmost)
	Y int `json:"y"` // Vertical position (0 = topmost)
}

// Contour is a closed sequence of border points in walk order. The last point
// connects back to the first.
type Contour []Point

// ChainApprox selects which border pixels a traced contour keeps.
type ChainApprox int

const (
	// ApproxNone keeps every border pixel visited by the walk.
	ApproxNone ChainApprox = iota

	// ApproxSimple keeps only the points where the walk changes direction, so
	// straight horizontal, vertical and diagonal runs collapse to their ends.
	ApproxSimple
)

// Chain code offsets, counterclockwise on screen starting from east.
var (
	chainDX = [8]int{1, 1, 0, -1, -1, -1, 0, 1}
	chainDY = [8]int{0, -1, -1, -1, 0, 1, 1, 1}
)

// FindContours traces the outer border of every outermost foreground component
// in mask.
//
// Parameters:
//   - mask: Binary mask; any non-zero pixel is foreground.
//   - approx: ApproxSimple to compress straight runs, ApproxNone to keep every
//     border pixel.
//
// Returns the contours ordered by the raster position of their start pixel.
// An empty or all-background mask yields no contours.
//
// # Algorithm
//
//  1. Outer background: a 4-connected flood fill over background pixels,
//     starting from a virtual one-pixel frame around the image.
//  2. Components: foreground pixels are grouped with 8-connectivity. The first
//     pixel of each component in raster order is its start pixel.
//  3. Selection: a component is outermost when the background pixel to the left
//     of its start pixel belongs to the outer background. Components sitting in
//     holes of other shapes are skipped, and holes are never traced.
//  4. Border following (Suzuki-Abe): the walk keeps the interior on its right
//     and stops when it is about to re-enter the start pixel from the same
//     neighbour it first left through. An isolated pixel is a one-point contour.
func FindContours(mask *imaging.Raster, approx ChainApprox) []Contour {
	if mask.Empty() {
		return nil
	}

	width, height := mask.Width, mask.Height
	outer := outerBackground(mask)
	visited := make([]bool, width*height)

	var contours []Contour
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := y*width + x
			if mask.Pix[i] == 0 || visited[i] {
				continue
			}
			markComponent(mask, visited, x, y)

			// Left neighbour in padded coordinates is (x-1+1, y+1)
			if !outer[(y+1)*(width+2)+x] {
				continue
			}
			contours = append(contours, traceBorder(mask, Point{X: x, Y: y}, approx))
		}
	}
	return contours
}

// outerBackground flood fills the background reachable from outside the image.
// The result is indexed in a frame padded by one pixel on every side.
func outerBackground(mask *imaging.Raster) []bool {
	pw, ph := mask.Width+2, mask.Height+2
	isBackground := func(px, py int) bool {
		if px == 0 || py == 0 || px == pw-1 || py == ph-1 {
			return true
		}
		return mask.Pix[(py-1)*mask.Width+px-1] == 0
	}

	outer := make([]bool, pw*ph)
	outer[0] = true
	stack := []Point{{0, 0}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, d := range [4]Point{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
			nx, ny := p.X+d.X, p.Y+d.Y
			if nx < 0 || ny < 0 || nx >= pw || ny >= ph {
				continue
			}
			i := ny*pw + nx
			if outer[i] || !isBackground(nx, ny) {
				continue
			}
			outer[i] = true
			stack = append(stack, Point{nx, ny})
		}
	}
	return outer
}

// markComponent flags every pixel 8-connected to (x, y) as visited.
func markComponent(mask *imaging.Raster, visited []bool, x, y int) {
	width := mask.Width
	visited[y*width+x] = true
	stack := []Point{{x, y}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for d := 0; d < 8; d++ {
			nx, ny := p.X+chainDX[d], p.Y+chainDY[d]
			if !mask.IsSet(nx, ny) || visited[ny*width+nx] {
				continue
			}
			visited[ny*width+nx] = true
			stack = append(stack, Point{nx, ny})
		}
	}
}

// traceBorder follows the outer border of the component whose first raster
// pixel is start.
func traceBorder(mask *imaging.Raster, start Point, approx ChainApprox) Contour {
	step := func(p Point, d int) Point {
		return Point{X: p.X + chainDX[d], Y: p.Y + chainDY[d]}
	}

	// Clockwise from west for the neighbour the walk will finish on
	first := -1
	for k := 0; k < 8; k++ {
		d := (4 - k + 8) & 7
		n := step(start, d)
		if mask.IsSet(n.X, n.Y) {
			first = d
			break
		}
	}
	if first < 0 {
		return Contour{start}
	}
	last := step(start, first)

	var contour Contour
	cur := start
	back := first
	prev := (first + 4) & 7

	for {
		// Counterclockwise from the pixel we arrived from
		d := back
		for k := 1; k <= 8; k++ {
			d = (back + k) & 7
			n := step(cur, d)
			if mask.IsSet(n.X, n.Y) {
				break
			}
		}

		if approx == ApproxNone || d != prev {
			contour = append(contour, cur)
			prev = d
		}

		next := step(cur, d)
		if next == start && cur == last {
			break
		}
		cur = next
		back = (d + 4) & 7
	}
	return contour
}
