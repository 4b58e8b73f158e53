package pipeline

import (
	"errors"
	"fmt"

	"github.com/ironsheep/linetrace/internal/detection"
	"github.com/ironsheep/linetrace/internal/imaging"
	"github.com/ironsheep/linetrace/internal/vector"
)

// Strategy selects how paths are extracted from the binary mask.
type Strategy string

const (
	// StrategySkeleton thins the mask with the morphological skeleton and traces
	// the outer contours of the result.
	StrategySkeleton Strategy = "skeleton"

	// StrategyZhangSuen thins the mask with Zhang-Suen and traces the outer
	// contours of the result.
	StrategyZhangSuen Strategy = "zhangsuen"

	// StrategyHough detects straight segments with the probabilistic Hough
	// transform.
	StrategyHough Strategy = "hough"

	// StrategyPolygon traces outer contours of the mask and simplifies each to
	// a polygon.
	StrategyPolygon Strategy = "polygon"
)

// Encoding selects the response format.
type Encoding string

const (
	EncodingSVG  Encoding = "svg"
	EncodingJSON Encoding = "json"
)

// Options configures a single run of the pipeline. Presets are named Options
// values; config files may override any field.
type Options struct {
	// Threshold is the binarization cutoff applied to the inverted grey value.
	Threshold int `mapstructure:"threshold" json:"threshold" yaml:"threshold"`

	// BlurRadius enables Gaussian smoothing before binarization when > 0.
	BlurRadius float64 `mapstructure:"blur_radius" json:"blur_radius" yaml:"blur_radius"`

	// Cleanup runs a morphological opening then closing on the mask.
	Cleanup bool `mapstructure:"cleanup" json:"cleanup" yaml:"cleanup"`

	// CleanupKernel is the side of the square structuring element used by Cleanup.
	CleanupKernel int `mapstructure:"cleanup_kernel" json:"cleanup_kernel" yaml:"cleanup_kernel"`

	// EdgeDetect runs Canny on the mask before extraction.
	EdgeDetect bool `mapstructure:"edge_detect" json:"edge_detect" yaml:"edge_detect"`
	CannyLow   int  `mapstructure:"canny_low" json:"canny_low" yaml:"canny_low"`
	CannyHigh  int  `mapstructure:"canny_high" json:"canny_high" yaml:"canny_high"`

	Strategy Strategy `mapstructure:"strategy" json:"strategy" yaml:"strategy"`

	// Filter drops small contours; MinArea and MinPerimeter are the floors for
	// the area and perimeter filters.
	Filter       detection.FilterKind `mapstructure:"filter" json:"filter" yaml:"filter"`
	MinArea      float64              `mapstructure:"min_area" json:"min_area" yaml:"min_area"`
	MinPerimeter float64              `mapstructure:"min_perimeter" json:"min_perimeter" yaml:"min_perimeter"`

	// Epsilon is the polygon simplification tolerance as a fraction of each
	// contour's perimeter.
	Epsilon float64 `mapstructure:"epsilon" json:"epsilon" yaml:"epsilon"`

	// Hough segment constraints.
	HoughThreshold int `mapstructure:"hough_threshold" json:"hough_threshold" yaml:"hough_threshold"`
	MinLineLength  int `mapstructure:"min_line_length" json:"min_line_length" yaml:"min_line_length"`
	MaxLineGap     int `mapstructure:"max_line_gap" json:"max_line_gap" yaml:"max_line_gap"`

	Encoding Encoding `mapstructure:"encoding" json:"encoding" yaml:"encoding"`

	// StrokeColor and StrokeWidth style SVG output.
	StrokeColor string  `mapstructure:"stroke_color" json:"stroke_color" yaml:"stroke_color"`
	StrokeWidth float64 `mapstructure:"stroke_width" json:"stroke_width" yaml:"stroke_width"`
}

// DefaultOptions returns the options of the original endpoint: threshold 127,
// no blur or cleanup, skeleton tracing, no filter, black 2px SVG strokes.
func DefaultOptions() Options {
	hough := detection.DefaultHoughParams()
	return Options{
		Threshold:      int(imaging.DefaultThreshold),
		CleanupKernel:  7,
		CannyLow:       imaging.DefaultCannyLow,
		CannyHigh:      imaging.DefaultCannyHigh,
		Strategy:       StrategySkeleton,
		Filter:         detection.FilterNone,
		MinArea:        detection.DefaultMinArea,
		MinPerimeter:   detection.DefaultMinPerimeter,
		Epsilon:        detection.DefaultEpsilonFactor,
		HoughThreshold: hough.Threshold,
		MinLineLength:  hough.MinLength,
		MaxLineGap:     hough.MaxGap,
		Encoding:       EncodingSVG,
		StrokeColor:    vector.DefaultStrokeColor,
		StrokeWidth:    vector.DefaultStrokeWidth,
	}
}

// Validate reports every problem with o, joined into one error.
func (o Options) Validate() error {
	var errs []error

	if o.Threshold < 0 || o.Threshold > 255 {
		errs = append(errs, fmt.Errorf("threshold %d out of range 0-255", o.Threshold))
	}
	if o.BlurRadius < 0 {
		errs = append(errs, fmt.Errorf("blur_radius must not be negative, got %v", o.BlurRadius))
	}
	if o.Cleanup && o.CleanupKernel < 1 {
		errs = append(errs, fmt.Errorf("cleanup_kernel must be at least 1, got %d", o.CleanupKernel))
	}
	if o.EdgeDetect && (o.CannyLow < 0 || o.CannyHigh < o.CannyLow) {
		errs = append(errs, fmt.Errorf("invalid canny thresholds %d/%d", o.CannyLow, o.CannyHigh))
	}

	switch o.Strategy {
	case StrategySkeleton, StrategyZhangSuen, StrategyPolygon:
	case StrategyHough:
		if o.HoughThreshold < 1 || o.MinLineLength < 0 || o.MaxLineGap < 0 {
			errs = append(errs, fmt.Errorf("invalid hough parameters threshold=%d min_line_length=%d max_line_gap=%d",
				o.HoughThreshold, o.MinLineLength, o.MaxLineGap))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown strategy %q", o.Strategy))
	}

	if _, err := detection.ParseFilterKind(string(o.Filter)); err != nil {
		errs = append(errs, err)
	}
	if o.Epsilon < 0 {
		errs = append(errs, fmt.Errorf("epsilon must not be negative, got %v", o.Epsilon))
	}

	switch o.Encoding {
	case EncodingJSON:
	case EncodingSVG:
		if _, err := vector.ParseColor(o.StrokeColor); err != nil {
			errs = append(errs, err)
		}
		if o.StrokeWidth <= 0 {
			errs = append(errs, fmt.Errorf("stroke_width must be positive, got %v", o.StrokeWidth))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown encoding %q", o.Encoding))
	}

	return errors.Join(errs...)
}

// filter returns the detection filter selected by o.
func (o Options) filter() detection.Filter {
	switch o.Filter {
	case detection.FilterArea:
		return detection.Filter{Kind: detection.FilterArea, Min: o.MinArea}
	case detection.FilterPerimeter:
		return detection.Filter{Kind: detection.FilterPerimeter, Min: o.MinPerimeter}
	}
	return detection.Filter{Kind: detection.FilterNone}
}

// houghParams returns the Hough configuration selected by o.
func (o Options) houghParams() detection.HoughParams {
	p := detection.DefaultHoughParams()
	p.Threshold = o.HoughThreshold
	p.MinLength = o.MinLineLength
	p.MaxGap = o.MaxLineGap
	return p
}
