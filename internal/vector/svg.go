package vector

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// Default stroke used when a caller leaves the stroke unset.
const (
	DefaultStrokeColor = "black"
	DefaultStrokeWidth = 2.0
)

// Stroke styles every path in an SVG document.
type Stroke struct {
	// Color is an SVG colour keyword ("black") or hex triplet ("#000", "#000000").
	Color string

	// Width is the stroke width in user units.
	Width float64
}

type svgDocument struct {
	XMLName     xml.Name  `xml:"svg"`
	Xmlns       string    `xml:"xmlns,attr"`
	Version     string    `xml:"version,attr"`
	BaseProfile string    `xml:"baseProfile,attr"`
	Width       string    `xml:"width,attr"`
	Height      string    `xml:"height,attr"`
	Paths       []svgPath `xml:"path"`
}

type svgPath struct {
	D           string `xml:"d,attr"`
	Fill        string `xml:"fill,attr"`
	Stroke      string `xml:"stroke,attr"`
	StrokeWidth string `xml:"stroke-width,attr"`
}

// ParseColor validates an SVG colour keyword or hex triplet and returns it as
// a lowercase "#rrggbb" string.
func ParseColor(s string) (string, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if rgba, ok := colornames.Map[name]; ok {
		c, _ := colorful.MakeColor(rgba)
		return c.Hex(), nil
	}
	if !strings.HasPrefix(name, "#") || (len(name) != 4 && len(name) != 7) {
		return "", fmt.Errorf("invalid stroke color %q", s)
	}
	c, err := colorful.Hex(name)
	if err != nil {
		return "", fmt.Errorf("invalid stroke color %q: %w", s, err)
	}
	return c.Hex(), nil
}

// EncodeSVG renders descriptors as a tiny-profile SVG document of the given
// pixel size. Each descriptor becomes one unfilled <path> in absolute
// coordinates. An empty descriptor list produces a document with no paths.
func EncodeSVG(width, height int, descs []Descriptor, stroke Stroke) ([]byte, error) {
	if stroke.Color == "" {
		stroke.Color = DefaultStrokeColor
	}
	if stroke.Width <= 0 {
		stroke.Width = DefaultStrokeWidth
	}
	strokeColor, err := ParseColor(stroke.Color)
	if err != nil {
		return nil, err
	}
	strokeWidth := formatNumber(stroke.Width)

	doc := svgDocument{
		Xmlns:       "http://www.w3.org/2000/svg",
		Version:     "1.2",
		BaseProfile: "tiny",
		Width:       strconv.Itoa(width) + "px",
		Height:      strconv.Itoa(height) + "px",
		Paths:       make([]svgPath, 0, len(descs)),
	}
	for _, d := range descs {
		doc.Paths = append(doc.Paths, svgPath{
			D:           d.Path(),
			Fill:        "none",
			Stroke:      strokeColor,
			StrokeWidth: strokeWidth,
		})
	}

	data, err := xml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal svg: %w", err)
	}
	return append([]byte(xml.Header), data...), nil
}

func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}
