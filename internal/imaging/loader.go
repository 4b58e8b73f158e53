package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

var (
	// ErrDecode marks input that could not be turned into pixels: a malformed data
	// URL, invalid base64, or bytes that no registered image codec understands.
	ErrDecode = errors.New("decode error")

	// ErrInvalidImage marks input that decoded but cannot be processed, such as an
	// image with a zero dimension.
	ErrInvalidImage = errors.New("invalid image")
)

// ImageInfo contains metadata about a decoded image.
//
// It is collected once per request and only used for logging and diagnostics;
// the pipeline itself works on the normalized Raster.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is the codec name reported by the decoder: "png", "jpeg", "gif",
	// "bmp", "tiff" or "webp".
	Format string `json:"format"`

	// MimeType is the media type declared in the data URL header, if any.
	MimeType string `json:"mime_type,omitempty"`

	// ColorDepth indicates the bit depth per channel: "8-bit" or "16-bit".
	ColorDepth string `json:"color_depth"`

	// HasAlpha indicates whether the decoded image contains any non-opaque pixel.
	HasAlpha bool `json:"has_alpha"`

	// SizeBytes is the size of the encoded image payload in bytes.
	SizeBytes int `json:"size_bytes"`
}

// DecodeDataURL extracts the binary payload of a base64 data URL.
//
// Parameters:
//   - dataURL: A string of the form "data:<mime>;base64,<payload>". Only the part
//     after the first comma is decoded, so a bare "<anything>,<payload>" is
//     accepted too.
//
// Returns:
//   - []byte: The decoded payload.
//   - string: The media type from the header, or "" if none was declared.
//   - error: Wraps ErrDecode if the separator is missing, the payload is empty,
//     or the payload is not valid base64.
//
// Payloads without trailing "=" padding are accepted.
func DecodeDataURL(dataURL string) ([]byte, string, error) {
	header, payload, ok := strings.Cut(strings.TrimSpace(dataURL), ",")
	if !ok {
		return nil, "", fmt.Errorf("%w: data URL has no ',' separator", ErrDecode)
	}

	mimeType := ""
	if rest, found := strings.CutPrefix(header, "data:"); found {
		mimeType, _, _ = strings.Cut(rest, ";")
	}

	payload = strings.TrimSpace(payload)
	if payload == "" {
		return nil, mimeType, fmt.Errorf("%w: data URL payload is empty", ErrDecode)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		var rawErr error
		data, rawErr = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		if rawErr != nil {
			return nil, mimeType, fmt.Errorf("%w: invalid base64 payload: %v", ErrDecode, err)
		}
	}

	return data, mimeType, nil
}

// Decode turns encoded image bytes into an image and its metadata.
//
// Supported formats are PNG, JPEG, GIF, BMP, TIFF and WebP. JPEG images carrying
// an EXIF orientation tag are rotated upright.
//
// # Errors
//
//   - Wraps ErrDecode if the bytes are not a supported image
//   - Wraps ErrInvalidImage if the image has a zero width or height
func Decode(data []byte) (image.Image, *ImageInfo, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: failed to read image header: %v", ErrDecode, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, nil, fmt.Errorf("%w: image has zero dimension (%dx%d)", ErrInvalidImage, cfg.Width, cfg.Height)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: failed to decode %s image: %v", ErrDecode, format, err)
	}

	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, nil, fmt.Errorf("%w: image has zero dimension (%dx%d)", ErrInvalidImage, bounds.Dx(), bounds.Dy())
	}

	colorDepth := "8-bit"
	switch img.(type) {
	case *image.RGBA64, *image.NRGBA64, *image.Gray16:
		colorDepth = "16-bit"
	}

	return img, &ImageInfo{
		Width:      bounds.Dx(),
		Height:     bounds.Dy(),
		Format:     format,
		ColorDepth: colorDepth,
		HasAlpha:   hasAlpha(img),
		SizeBytes:  len(data),
	}, nil
}

// Normalize flattens img onto an opaque white background and converts it to a
// greyscale Raster of the same size.
//
// Fully transparent pixels become pure white and fully opaque pixels keep their
// colour exactly, so the result for those pixels is identical to decoding the
// same picture pre-flattened to RGB on white. Partially transparent pixels are
// alpha-blended with white. Greyscale conversion uses the ITU-R BT.601 weights
// (0.299*R + 0.587*G + 0.114*B), rounded to the nearest integer.
func Normalize(img image.Image) *Raster {
	bounds := img.Bounds()
	background := imaging.New(bounds.Dx(), bounds.Dy(), color.White)
	flat := imaging.Overlay(background, img, image.Pt(0, 0), 1.0)
	return RasterFromImage(imaging.Grayscale(flat))
}

// hasAlpha reports whether any pixel of img is not fully opaque.
func hasAlpha(img image.Image) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return !o.Opaque()
	}
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a != 0xffff {
				return true
			}
		}
	}
	return false
}
