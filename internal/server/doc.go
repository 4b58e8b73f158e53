// Package server exposes the vectorization pipeline over HTTP.
//
// # Endpoints
//
//   - POST /: vectorize with the default preset
//   - POST /vectorize/:preset: vectorize with a named preset
//   - GET /presets: list presets and their options
//   - GET /health, GET /version: liveness and build information
//
// Vectorize requests carry a JSON body:
//
//	{"imageDataUrl": "data:image/png;base64,..."}
//
// SVG presets answer with an image/svg+xml document. JSON presets answer with
// an array of bbox-relative path descriptors:
//
//	[{"path": "M0,0 L39,0", "bbox": {"x": 5, "y": 10, "width": 40, "height": 1}}]
//
// Failures answer {"detail": "<message>"}; decode and transform errors use
// status 500.
//
// # Middleware
//
// Requests pass through gin's panic recovery, a zap request logger, a
// permissive CORS handler and a body size cap. The whole router is wrapped in
// a Server-Timing middleware, so pipeline stages show up as metrics in the
// response headers.
package server
