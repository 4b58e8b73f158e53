package detection

import (
	"fmt"
	"math"
)

// Default filter floors.
const (
	DefaultMinArea      = 10.0
	DefaultMinPerimeter = 60.0

	// DefaultEpsilonFactor scales a contour's perimeter into the Douglas-Peucker
	// tolerance used by ApproxPolygon.
	DefaultEpsilonFactor = 0.008
)

// Rect is an inclusive pixel bounding box: a single pixel has Width and Height 1.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// FilterKind names a contour filter.
type FilterKind string

const (
	FilterNone      FilterKind = "none"
	FilterArea      FilterKind = "area"
	FilterPerimeter FilterKind = "perimeter"
)

// ParseFilterKind validates a filter name. The empty string means FilterNone.
func ParseFilterKind(s string) (FilterKind, error) {
	switch FilterKind(s) {
	case "", FilterNone:
		return FilterNone, nil
	case FilterArea, FilterPerimeter:
		return FilterKind(s), nil
	}
	return "", fmt.Errorf("unknown contour filter %q", s)
}

// Filter drops contours whose measure falls below Min.
type Filter struct {
	Kind FilterKind
	Min  float64
}

// Area returns the enclosed area of a closed contour using the shoelace formula.
// Contours with fewer than three points have zero area.
func Area(c Contour) float64 {
	if len(c) < 3 {
		return 0
	}
	sum := 0
	for i, p := range c {
		q := c[(i+1)%len(c)]
		sum += p.X*q.Y - q.X*p.Y
	}
	return math.Abs(float64(sum)) / 2
}

// Perimeter returns the closed arc length of a contour, including the segment
// from the last point back to the first.
func Perimeter(c Contour) float64 {
	if len(c) < 2 {
		return 0
	}
	total := 0.0
	for i, p := range c {
		total += distance(p, c[(i+1)%len(c)])
	}
	return total
}

// BoundingRect returns the inclusive bounding box of the points in c.
// An empty contour yields the zero Rect.
func BoundingRect(c Contour) Rect {
	if len(c) == 0 {
		return Rect{}
	}
	minX, minY := c[0].X, c[0].Y
	maxX, maxY := minX, minY
	for _, p := range c[1:] {
		minX = min(minX, p.X)
		maxX = max(maxX, p.X)
		minY = min(minY, p.Y)
		maxY = max(maxY, p.Y)
	}
	return Rect{
		X:      minX,
		Y:      minY,
		Width:  maxX - minX + 1,
		Height: maxY - minY + 1,
	}
}

// FilterContours returns the contours that pass f, in their original order.
//
// FilterArea drops contours with Area < f.Min; FilterPerimeter drops contours
// with Perimeter < f.Min. A contour exactly at the floor is kept. FilterNone
// (or an empty Kind) keeps everything.
func FilterContours(contours []Contour, f Filter) []Contour {
	var measure func(Contour) float64
	switch f.Kind {
	case FilterArea:
		measure = Area
	case FilterPerimeter:
		measure = Perimeter
	default:
		return contours
	}

	kept := make([]Contour, 0, len(contours))
	for _, c := range contours {
		if measure(c) < f.Min {
			continue
		}
		kept = append(kept, c)
	}
	return kept
}

// ApproxPolygon simplifies a closed contour with the Douglas-Peucker algorithm.
//
// The contour is split at the point farthest from its first point, each half is
// simplified as an open polyline, and the halves are joined. Vertices keep their
// original walk order starting from the first point. Contours of three or fewer
// points are returned as a copy.
//
// A typical epsilon is DefaultEpsilonFactor * Perimeter(c).
func ApproxPolygon(c Contour, epsilon float64) Contour {
	if len(c) <= 3 {
		return append(Contour(nil), c...)
	}

	split := 0
	best := -1.0
	for i, p := range c {
		if d := distance(c[0], p); d > best {
			best = d
			split = i
		}
	}
	if split == 0 {
		// Every point coincides with the first
		return Contour{c[0]}
	}

	// Second half wraps around to the first point
	tail := make(Contour, 0, len(c)-split+1)
	tail = append(tail, c[split:]...)
	tail = append(tail, c[0])

	head := simplifyPolyline(c[:split+1], epsilon)
	rest := simplifyPolyline(tail, epsilon)

	// Drop the shared split point and the repeated first point
	out := append(Contour(nil), head...)
	out = append(out, rest[1:len(rest)-1]...)
	return out
}

// simplifyPolyline is open Douglas-Peucker: both end points are always kept.
func simplifyPolyline(points Contour, epsilon float64) Contour {
	if len(points) <= 2 {
		return append(Contour(nil), points...)
	}

	first, last := points[0], points[len(points)-1]

	dmax := 0.0
	index := 0
	for i := 1; i < len(points)-1; i++ {
		if d := segmentDistance(first, last, points[i]); d > dmax {
			index = i
			dmax = d
		}
	}

	if dmax <= epsilon {
		return Contour{first, last}
	}

	left := simplifyPolyline(points[:index+1], epsilon)
	right := simplifyPolyline(points[index:], epsilon)
	return append(left[:len(left)-1], right...)
}

// IsConvex reports whether a closed polygon is convex: every turn between
// consecutive edges bends the same way. Collinear vertices are tolerated.
// Polygons with fewer than three vertices are not convex.
func IsConvex(poly Contour) bool {
	n := len(poly)
	if n < 3 {
		return false
	}

	sign := 0
	for i := 0; i < n; i++ {
		a, b, c := poly[i], poly[(i+1)%n], poly[(i+2)%n]
		cross := (b.X-a.X)*(c.Y-b.Y) - (b.Y-a.Y)*(c.X-b.X)
		switch {
		case cross > 0:
			if sign < 0 {
				return false
			}
			sign = 1
		case cross < 0:
			if sign > 0 {
				return false
			}
			sign = -1
		}
	}
	return sign != 0
}

func distance(a, b Point) float64 {
	return math.Hypot(float64(b.X-a.X), float64(b.Y-a.Y))
}

// segmentDistance returns the distance from p to the segment a-b.
func segmentDistance(a, b, p Point) float64 {
	abx, aby := float64(b.X-a.X), float64(b.Y-a.Y)
	apx, apy := float64(p.X-a.X), float64(p.Y-a.Y)

	lengthSq := abx*abx + aby*aby
	if lengthSq == 0 {
		return math.Hypot(apx, apy)
	}

	t := (apx*abx + apy*aby) / lengthSq
	switch {
	case t <= 0:
		return math.Hypot(apx, apy)
	case t >= 1:
		return distance(b, p)
	}
	return math.Abs(apx*aby-apy*abx) / math.Sqrt(lengthSq)
}
