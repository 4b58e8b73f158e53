package morph

import (
	"github.com/ironsheep/linetrace/internal/imaging"
)

// SkeletonResult is the outcome of a thinning run.
type SkeletonResult struct {
	// Skeleton is the thinned mask, same size as the input.
	Skeleton *imaging.Raster

	// Iterations is the number of loop passes executed.
	Iterations int

	// Converged is false when the iteration ceiling stopped the loop before its
	// natural termination condition was reached.
	Converged bool
}

// IterationLimit is the hard ceiling applied to thinning loops: max(width, height).
func IterationLimit(m *imaging.Raster) int {
	return max(m.Width, m.Height)
}

// Skeletonize computes the morphological skeleton of mask.
//
// # Algorithm
//
// A working mask starts as a copy of the input and an accumulator starts empty.
// While the working mask has foreground pixels:
//
//  1. eroded = erode(working, cross)
//  2. opened = dilate(eroded, cross)
//  3. layer = working - opened
//  4. accumulator = accumulator OR layer
//  5. working = eroded
//
// The accumulator is the skeleton. An all-background mask returns an empty
// skeleton without entering the loop. The loop runs at most IterationLimit(mask)
// times; a mask that never erodes away (for example one that is foreground
// everywhere) stops there with Converged == false.
func Skeletonize(mask *imaging.Raster) *SkeletonResult {
	cross := Cross()
	limit := IterationLimit(mask)

	working := mask.Clone()
	acc := imaging.NewRaster(mask.Width, mask.Height)
	iterations := 0

	for working.CountNonZero() != 0 {
		if iterations >= limit {
			return &SkeletonResult{Skeleton: acc, Iterations: iterations, Converged: false}
		}

		eroded := Erode(working, cross)
		opened := Dilate(eroded, cross)
		acc = Or(acc, Subtract(working, opened))
		working = eroded
		iterations++
	}

	return &SkeletonResult{Skeleton: acc, Iterations: iterations, Converged: true}
}

// ZhangSuen thins mask with the Zhang-Suen algorithm.
//
// Each iteration runs two sub-passes that delete boundary pixels satisfying
// the neighbour-count (2 <= B <= 6), single-transition (A == 1) and
// directional conditions. Pixels on the image frame are never examined. The
// loop stops when a full iteration changes nothing, or at IterationLimit(mask).
func ZhangSuen(mask *imaging.Raster) *SkeletonResult {
	width, height := mask.Width, mask.Height
	limit := IterationLimit(mask)

	grid := make([]uint8, width*height)
	for i, v := range mask.Pix {
		if v != 0 {
			grid[i] = 1
		}
	}

	var toClear []int
	iterations := 0
	converged := false

	for iterations < limit {
		changed := false
		for step := 1; step <= 2; step++ {
			toClear = toClear[:0]
			for y := 1; y < height-1; y++ {
				for x := 1; x < width-1; x++ {
					if grid[y*width+x] == 1 && zhangSuenRemovable(grid, width, x, y, step) {
						toClear = append(toClear, y*width+x)
					}
				}
			}
			for _, i := range toClear {
				grid[i] = 0
			}
			if len(toClear) > 0 {
				changed = true
			}
		}
		iterations++
		if !changed {
			converged = true
			break
		}
	}

	out := imaging.NewRaster(width, height)
	for i, v := range grid {
		if v == 1 {
			out.Pix[i] = imaging.Foreground
		}
	}
	return &SkeletonResult{Skeleton: out, Iterations: iterations, Converged: converged}
}

// zhangSuenRemovable evaluates the deletion conditions for the pixel at (x, y).
//
// Neighbours are named clockwise from north:
//
//	p9 p2 p3
//	p8 p1 p4
//	p7 p6 p5
func zhangSuenRemovable(grid []uint8, width, x, y, step int) bool {
	at := func(dx, dy int) uint8 { return grid[(y+dy)*width+x+dx] }

	p2, p3, p4 := at(0, -1), at(1, -1), at(1, 0)
	p5, p6, p7 := at(1, 1), at(0, 1), at(-1, 1)
	p8, p9 := at(-1, 0), at(-1, -1)

	b := int(p2) + int(p3) + int(p4) + int(p5) + int(p6) + int(p7) + int(p8) + int(p9)
	if b < 2 || b > 6 {
		return false
	}

	ring := [9]uint8{p2, p3, p4, p5, p6, p7, p8, p9, p2}
	transitions := 0
	for i := 0; i < 8; i++ {
		if ring[i] == 0 && ring[i+1] == 1 {
			transitions++
		}
	}
	if transitions != 1 {
		return false
	}

	if step == 1 {
		return p2*p4*p6 == 0 && p4*p6*p8 == 0
	}
	return p2*p4*p8 == 0 && p2*p6*p8 == 0
}
