package vector

import (
	"strconv"
	"strings"

	"github.com/ironsheep/linetrace/internal/detection"
)

// BBox is an inclusive pixel bounding box.
type BBox struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Descriptor is one traced path in absolute image coordinates together with
// its bounding box. Encoders decide which coordinate frame to emit.
type Descriptor struct {
	Points []detection.Point
	BBox   BBox
	Closed bool
}

// NewDescriptor builds a descriptor for points, computing its bounding box.
func NewDescriptor(points []detection.Point, closed bool) Descriptor {
	r := detection.BoundingRect(points)
	return Descriptor{
		Points: points,
		BBox:   BBox{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height},
		Closed: closed,
	}
}

// FromSegment builds an open two-point descriptor for a line segment.
func FromSegment(s detection.Segment) Descriptor {
	return NewDescriptor([]detection.Point{s.Start, s.End}, false)
}

// Path renders the descriptor in absolute coordinates.
func (d Descriptor) Path() string {
	return PathString(d.Points, 0, 0, d.Closed)
}

// RelativePath renders the descriptor with coordinates relative to the top-left
// corner of its bounding box.
func (d Descriptor) RelativePath() string {
	return PathString(d.Points, d.BBox.X, d.BBox.Y, d.Closed)
}

// PathString renders points as SVG path commands, translated by (-originX,
// -originY).
//
// The first point is a move ("M10,20"), each following point a line (" L11,21"),
// and closed paths end with " Z". A single point renders as a zero-length line
// so it stays visible when stroked. No points renders as "".
func PathString(points []detection.Point, originX, originY int, closed bool) string {
	if len(points) == 0 {
		return ""
	}

	var sb strings.Builder
	writePoint := func(cmd byte, p detection.Point) {
		sb.WriteByte(cmd)
		sb.WriteString(strconv.Itoa(p.X - originX))
		sb.WriteByte(',')
		sb.WriteString(strconv.Itoa(p.Y - originY))
	}

	writePoint('M', points[0])
	rest := points[1:]
	if len(rest) == 0 {
		rest = points[:1]
	}
	for _, p := range rest {
		sb.WriteByte(' ')
		writePoint('L', p)
	}
	if closed {
		sb.WriteString(" Z")
	}
	return sb.String()
}

// PathJSON is the wire form of one descriptor: a bbox-relative path and its box.
type PathJSON struct {
	Path string `json:"path"`
	BBox BBox   `json:"bbox"`
}

// ToJSON converts descriptors to their bbox-relative wire form. The result is
// never nil, so an empty set marshals as [] rather than null.
func ToJSON(descs []Descriptor) []PathJSON {
	out := make([]PathJSON, 0, len(descs))
	for _, d := range descs {
		out = append(out, PathJSON{Path: d.RelativePath(), BBox: d.BBox})
	}
	return out
}
