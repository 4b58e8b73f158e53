package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	servertiming "github.com/mitchellh/go-server-timing"
	"go.uber.org/zap"

	"github.com/ironsheep/linetrace/internal/detection"
	"github.com/ironsheep/linetrace/internal/imaging"
	"github.com/ironsheep/linetrace/internal/logging"
	"github.com/ironsheep/linetrace/internal/morph"
	"github.com/ironsheep/linetrace/internal/vector"
)

// ErrTransform marks a failure inside the raster-to-vector transform itself,
// including invalid options and recovered panics.
var ErrTransform = errors.New("transform error")

// Result is the outcome of a successful run. Exactly one of Paths or SVG is
// populated, according to Encoding.
type Result struct {
	Encoding Encoding          `json:"encoding"`
	Paths    []vector.PathJSON `json:"paths,omitempty"`
	SVG      string            `json:"svg,omitempty"`
	Width    int               `json:"width"`
	Height   int               `json:"height"`

	// Iterations and Converged describe the thinning loop for the skeleton and
	// zhangsuen strategies.
	Iterations int  `json:"-"`
	Converged  bool `json:"-"`
}

// ContentType returns the MIME type of the encoded result.
func (r *Result) ContentType() string {
	if r.Encoding == EncodingSVG {
		return "image/svg+xml"
	}
	return "application/json"
}

// RunDataURL decodes a base64 data URL and runs the pipeline on it.
//
// Errors wrap imaging.ErrDecode, imaging.ErrInvalidImage or ErrTransform.
func RunDataURL(ctx context.Context, dataURL string, opts Options) (*Result, error) {
	t := newTracer(ctx)

	done := t.begin("decode")
	data, mimeType, err := imaging.DecodeDataURL(dataURL)
	if err != nil {
		done()
		return nil, err
	}
	img, info, err := imaging.Decode(data)
	done()
	if err != nil {
		return nil, err
	}

	logging.Logger.Debug("image decoded",
		zap.String("mime_type", mimeType),
		zap.String("format", info.Format),
		zap.Int("width", info.Width),
		zap.Int("height", info.Height),
		zap.Bool("has_alpha", info.HasAlpha),
		zap.Int("size_bytes", info.SizeBytes))

	return run(t, img, opts)
}

// Run converts img into vector paths according to opts.
//
// Parameters:
//   - ctx: Carries an optional Server-Timing header; each stage adds a metric.
//     The transform itself is not cancellable.
//   - img: Decoded image of any colour model. Transparent areas are treated as
//     white.
//   - opts: Pipeline options, usually a preset.
//
// Returns:
//   - *Result: SVG document or JSON descriptors.
//   - error: Wraps imaging.ErrInvalidImage for an empty image, or ErrTransform
//     for invalid options and any failure or panic inside a stage. No partial
//     result is returned with an error.
//
// # Stages
//
//  1. normalize: flatten alpha over white, convert to greyscale
//  2. blur: optional Gaussian smoothing
//  3. binarize: invert and threshold
//  4. cleanup: optional opening then closing
//  5. extract: strategy-specific path extraction
//  6. encode: SVG or JSON
func Run(ctx context.Context, img image.Image, opts Options) (*Result, error) {
	return run(newTracer(ctx), img, opts)
}

func run(t *tracer, img image.Image, opts Options) (res *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			logging.Logger.Error("pipeline stage panicked",
				zap.String("stage", t.stage),
				zap.Any("panic", r))
			res = nil
			err = fmt.Errorf("%w: %s stage failed: %v", ErrTransform, t.stage, r)
		}
	}()

	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransform, err)
	}

	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, fmt.Errorf("%w: image has zero dimension %dx%d", imaging.ErrInvalidImage, bounds.Dx(), bounds.Dy())
	}

	done := t.begin("normalize")
	gray := imaging.Normalize(img)
	done()

	if opts.BlurRadius > 0 {
		done = t.begin("blur")
		gray = imaging.Blur(gray, opts.BlurRadius)
		done()
	}

	done = t.begin("binarize")
	mask := imaging.Binarize(gray, uint8(opts.Threshold))
	done()

	if opts.Cleanup {
		done = t.begin("cleanup")
		mask = morph.Cleanup(mask, opts.CleanupKernel)
		done()
	}

	res = &Result{
		Encoding: opts.Encoding,
		Width:    mask.Width,
		Height:   mask.Height,
	}

	done = t.begin("extract")
	descs := extract(mask, opts, res)
	done()

	done = t.begin("encode")
	err = encode(descs, opts, res)
	done()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransform, err)
	}

	logging.Logger.Debug("pipeline complete",
		zap.String("strategy", string(opts.Strategy)),
		zap.String("encoding", string(opts.Encoding)),
		zap.Int("paths", len(descs)),
		zap.Int("iterations", res.Iterations),
		zap.Bool("converged", res.Converged))

	return res, nil
}

// extract runs the strategy selected by opts and returns descriptors in
// absolute coordinates. Thinning statistics are recorded on res.
func extract(mask *imaging.Raster, opts Options, res *Result) []vector.Descriptor {
	switch opts.Strategy {
	case StrategyHough:
		edges := mask
		if opts.EdgeDetect {
			edges = imaging.Canny(mask, opts.CannyLow, opts.CannyHigh)
		}
		segments := detection.HoughLinesP(edges, opts.houghParams())
		descs := make([]vector.Descriptor, 0, len(segments))
		for _, s := range segments {
			descs = append(descs, vector.FromSegment(s))
		}
		return descs

	case StrategyPolygon:
		if opts.EdgeDetect {
			mask = imaging.Canny(mask, opts.CannyLow, opts.CannyHigh)
		}
		contours := detection.FilterContours(detection.FindContours(mask, detection.ApproxSimple), opts.filter())
		descs := make([]vector.Descriptor, 0, len(contours))
		for _, c := range contours {
			poly := detection.ApproxPolygon(c, opts.Epsilon*detection.Perimeter(c))
			descs = append(descs, vector.NewDescriptor(poly, detection.IsConvex(poly)))
		}
		return descs
	}

	// Thinning strategies
	if opts.EdgeDetect {
		mask = imaging.Canny(mask, opts.CannyLow, opts.CannyHigh)
	}
	var thinned *morph.SkeletonResult
	if opts.Strategy == StrategyZhangSuen {
		thinned = morph.ZhangSuen(mask)
	} else {
		thinned = morph.Skeletonize(mask)
	}
	res.Iterations = thinned.Iterations
	res.Converged = thinned.Converged
	if !thinned.Converged {
		logging.Logger.Warn("thinning stopped at iteration ceiling",
			zap.String("strategy", string(opts.Strategy)),
			zap.Int("iterations", thinned.Iterations))
	}

	contours := detection.FilterContours(detection.FindContours(thinned.Skeleton, detection.ApproxSimple), opts.filter())
	descs := make([]vector.Descriptor, 0, len(contours))
	for _, c := range contours {
		descs = append(descs, vector.NewDescriptor(c, false))
	}
	return descs
}

func encode(descs []vector.Descriptor, opts Options, res *Result) error {
	if opts.Encoding == EncodingJSON {
		res.Paths = vector.ToJSON(descs)
		return nil
	}

	svg, err := vector.EncodeSVG(res.Width, res.Height, descs, vector.Stroke{
		Color: opts.StrokeColor,
		Width: opts.StrokeWidth,
	})
	if err != nil {
		return err
	}
	res.SVG = string(svg)
	return nil
}

// tracer times pipeline stages as Server-Timing metrics and debug log entries.
type tracer struct {
	timing *servertiming.Header
	stage  string
}

func newTracer(ctx context.Context) *tracer {
	return &tracer{timing: servertiming.FromContext(ctx), stage: "setup"}
}

// begin starts timing stage and returns the function that ends it.
func (t *tracer) begin(stage string) func() {
	t.stage = stage
	start := time.Now()

	var metric *servertiming.Metric
	if t.timing != nil {
		metric = t.timing.NewMetric(stage).Start()
	}

	return func() {
		if metric != nil {
			metric.Stop()
		}
		logging.Logger.Debug("stage finished",
			zap.String("stage", stage),
			zap.Duration("took", time.Since(start)))
	}
}
