// Package pipeline turns a decoded raster image into vector paths.
//
// A run is a fixed sequence of stages (normalize, blur, binarize, cleanup,
// extract, encode) whose behaviour is selected entirely by an Options value.
// The original service exposed one endpoint per variant; here each variant is a
// named preset:
//
//	presets, _ := pipeline.NewPresets("", nil)
//	opts, _ := presets.Lookup("polygon-json")
//	res, err := pipeline.Run(ctx, img, opts)
//
// # Error Handling
//
// Errors wrap one of three sentinels so callers can branch with errors.Is:
//   - imaging.ErrDecode: the data URL or image bytes could not be decoded
//   - imaging.ErrInvalidImage: the image decoded but has a zero dimension
//   - ErrTransform: invalid options, or a failure or panic inside a stage
//
// # Timing
//
// When the context carries a Server-Timing header (see
// github.com/mitchellh/go-server-timing), every stage records a metric with
// its duration. Stages are also logged at debug level.
//
// # Thread Safety
//
// Run holds no shared state and may be called concurrently.
package pipeline
