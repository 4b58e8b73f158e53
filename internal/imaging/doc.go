// Package imaging provides the raster front end of the vectorizer.
//
// This package turns an encoded image (usually delivered as a base64 data URL)
// into the single-channel Raster that the rest of the pipeline works on, and
// implements the pixel-level stages that precede shape extraction: Gaussian
// smoothing, inversion plus fixed-threshold binarization, and Canny edge
// detection. All operations use a coordinate system where (0,0) is at the
// top-left corner, X increases rightward, and Y increases downward.
//
// # Normalization
//
// Decoded images are composited over an opaque white background before they are
// reduced to greyscale, so transparent regions always binarize as background
// regardless of the colour stored under a zero alpha.
//
// # Binary Masks
//
// A binary mask is a Raster whose pixels are either Foreground (255) or
// Background (0). Binarize is the only producer of masks in this package; the
// morph and detection packages consume them.
//
// # Error Handling
//
// Decoding failures wrap ErrDecode and unusable images wrap ErrInvalidImage, so
// callers can classify errors with errors.Is without parsing messages.
//
// # Thread Safety
//
// Every function is stateless and returns freshly allocated rasters. Rasters are
// not synchronized; do not mutate a Raster that another goroutine reads.
package imaging
