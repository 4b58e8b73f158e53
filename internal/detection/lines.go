package detection

import (
	"math"
	"math/rand/v2"

	"github.com/ironsheep/linetrace/internal/imaging"
)

// HoughParams configures HoughLinesP.
type HoughParams struct {
	// Rho is the distance resolution of the accumulator in pixels.
	Rho float64

	// Theta is the angle resolution of the accumulator in radians.
	Theta float64

	// Threshold is the minimum number of votes a line needs before a segment
	// is extracted along it.
	Threshold int

	// MinLength is the minimum extent of a segment along x or y.
	MinLength int

	// MaxGap is the longest run of background pixels bridged within one segment.
	MaxGap int

	// Seed fixes the pseudo-random point order so results are reproducible.
	Seed uint64
}

// DefaultHoughParams returns rho 1px, theta 1 degree, threshold 50,
// min length 30 and max gap 25.
func DefaultHoughParams() HoughParams {
	return HoughParams{
		Rho:       1,
		Theta:     math.Pi / 180,
		Threshold: 50,
		MinLength: 30,
		MaxGap:    25,
		Seed:      0xFFFFFFFF,
	}
}

// Segment is a detected line segment.
type Segment struct {
	Start Point `json:"start"`
	End   Point `json:"end"`
}

// Length returns the Euclidean length of the segment.
func (s Segment) Length() float64 {
	return distance(s.Start, s.End)
}

// houghShift is the fixed-point precision used when walking along a line.
const houghShift = 16

// HoughLinesP finds line segments in a binary edge mask with the progressive
// probabilistic Hough transform.
//
// Parameters:
//   - mask: Edge mask; any non-zero pixel is an edge point.
//   - p: Accumulator resolution, voting threshold and segment constraints.
//     Use DefaultHoughParams for the standard configuration.
//
// Returns segments in the order they were accepted. An empty mask yields none.
//
// # Algorithm
//
//  1. Collect all edge points and visit them in a seeded random order.
//  2. Each visited point votes for every (rho, theta) line through it. If the
//     strongest of its bins stays below Threshold, move on.
//  3. Otherwise walk from the point along that line in both directions using
//     fixed-point steps, bridging up to MaxGap background pixels, to find the
//     segment ends.
//  4. Every edge point on the walked span is removed from the pool. If the
//     segment spans at least MinLength along x or y, the removed points also
//     withdraw their votes and the segment is emitted.
func HoughLinesP(mask *imaging.Raster, p HoughParams) []Segment {
	width, height := mask.Width, mask.Height
	if mask.Empty() || p.Rho <= 0 || p.Theta <= 0 {
		return nil
	}

	irho := 1 / p.Rho
	numAngle := int(math.Round(math.Pi / p.Theta))
	numRho := int(math.Round(float64((width+height)*2+1) / p.Rho))
	rhoOffset := (numRho - 1) / 2

	trig := make([]float64, numAngle*2)
	for n := 0; n < numAngle; n++ {
		angle := float64(n) * p.Theta
		trig[n*2] = math.Cos(angle) * irho
		trig[n*2+1] = math.Sin(angle) * irho
	}

	accum := make([]int, numAngle*numRho)
	pending := make([]bool, width*height)
	points := make([]Point, 0)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if mask.Pix[y*width+x] != 0 {
				pending[y*width+x] = true
				points = append(points, Point{x, y})
			}
		}
	}

	vote := func(x, y, delta int) (maxVotes, maxN int) {
		maxVotes = -1
		for n := 0; n < numAngle; n++ {
			r := int(math.RoundToEven(float64(x)*trig[n*2]+float64(y)*trig[n*2+1])) + rhoOffset
			cell := &accum[n*numRho+r]
			*cell += delta
			if *cell > maxVotes {
				maxVotes = *cell
				maxN = n
			}
		}
		return maxVotes, maxN
	}

	rng := rand.New(rand.NewPCG(p.Seed, p.Seed^0x9E3779B97F4A7C15))
	var segments []Segment

	for count := len(points); count > 0; count-- {
		idx := rng.IntN(count)
		pt := points[idx]
		points[idx] = points[count-1]

		if !pending[pt.Y*width+pt.X] {
			continue
		}

		maxVotes, maxN := vote(pt.X, pt.Y, 1)
		if maxVotes < p.Threshold {
			continue
		}

		// Direction along the line is perpendicular to its normal (cos, sin)
		a := -trig[maxN*2+1]
		b := trig[maxN*2]
		x0, y0 := pt.X, pt.Y
		var dx0, dy0 int
		xMajor := math.Abs(a) > math.Abs(b)
		if xMajor {
			dx0 = sign(a)
			dy0 = int(math.RoundToEven(b * (1 << houghShift) / math.Abs(a)))
			y0 = (y0 << houghShift) + (1 << (houghShift - 1))
		} else {
			dy0 = sign(b)
			dx0 = int(math.RoundToEven(a * (1 << houghShift) / math.Abs(b)))
			x0 = (x0 << houghShift) + (1 << (houghShift - 1))
		}
		toPixel := func(x, y int) (int, int) {
			if xMajor {
				return x, y >> houghShift
			}
			return x >> houghShift, y
		}

		var ends [2]Point
		for k := 0; k < 2; k++ {
			dx, dy := dx0, dy0
			if k > 0 {
				dx, dy = -dx, -dy
			}
			gap := 0
			for x, y := x0, y0; ; x, y = x+dx, y+dy {
				px, py := toPixel(x, y)
				if px < 0 || px >= width || py < 0 || py >= height {
					break
				}
				if pending[py*width+px] {
					gap = 0
					ends[k] = Point{px, py}
				} else if gap++; gap > p.MaxGap {
					break
				}
			}
		}

		good := abs(ends[1].X-ends[0].X) >= p.MinLength || abs(ends[1].Y-ends[0].Y) >= p.MinLength

		for k := 0; k < 2; k++ {
			dx, dy := dx0, dy0
			if k > 0 {
				dx, dy = -dx, -dy
			}
			for x, y := x0, y0; ; x, y = x+dx, y+dy {
				px, py := toPixel(x, y)
				if pending[py*width+px] {
					if good {
						vote(px, py, -1)
					}
					pending[py*width+px] = false
				}
				if px == ends[k].X && py == ends[k].Y {
					break
				}
			}
		}

		if good {
			segments = append(segments, Segment{Start: ends[0], End: ends[1]})
		}
	}

	return segments
}

func sign(v float64) int {
	if v > 0 {
		return 1
	}
	return -1
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
