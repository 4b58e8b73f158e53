package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ironsheep/linetrace/internal/logging"
	"github.com/ironsheep/linetrace/internal/pipeline"
)

// VectorizeRequest is the body accepted by the vectorize endpoints.
type VectorizeRequest struct {
	// ImageDataURL is a base64 data URL, e.g. "data:image/png;base64,iVBOR...".
	ImageDataURL string `json:"imageDataUrl" binding:"required"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// PresetInfo describes one preset in the /presets listing.
type PresetInfo struct {
	Name    string           `json:"name"`
	Options pipeline.Options `json:"options"`
}

// PresetsResponse lists every preset in name order.
type PresetsResponse struct {
	Default string       `json:"default"`
	Presets []PresetInfo `json:"presets"`
}

// handleVectorize runs the pipeline for POST / (default preset) and
// POST /vectorize/:preset.
//
// Responses:
//   - 200 image/svg+xml: the SVG document, for svg presets
//   - 200 application/json: an array of {path, bbox}, for json presets
//   - 404 {"detail"}: unknown preset name
//   - 413 {"detail"}: body larger than server.max_body_bytes
//   - 500 {"detail"}: malformed body, missing imageDataUrl, or any decode or
//     transform error
func (s *Server) handleVectorize(c *gin.Context) {
	name := c.Param("preset")
	var opts pipeline.Options
	if name == "" {
		name, opts = s.presets.Default()
	} else {
		var ok bool
		opts, ok = s.presets.Lookup(name)
		if !ok {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Detail: fmt.Sprintf("unknown preset %q", name),
			})
			return
		}
	}

	var req VectorizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.fail(c, http.StatusRequestEntityTooLarge, name, err)
			return
		}
		s.fail(c, http.StatusInternalServerError, name, fmt.Errorf("invalid request body: %w", err))
		return
	}

	res, err := pipeline.RunDataURL(c.Request.Context(), req.ImageDataURL, opts)
	if err != nil {
		s.fail(c, http.StatusInternalServerError, name, err)
		return
	}

	logging.Logger.Debug("vectorized",
		zap.String("preset", name),
		zap.Int("width", res.Width),
		zap.Int("height", res.Height),
		zap.Int("iterations", res.Iterations))

	if res.Encoding == pipeline.EncodingSVG {
		c.Data(http.StatusOK, res.ContentType(), []byte(res.SVG))
		return
	}
	c.JSON(http.StatusOK, res.Paths)
}

// fail logs err and writes it as {"detail": ...}.
func (s *Server) fail(c *gin.Context, status int, preset string, err error) {
	logging.Logger.Error("vectorize failed",
		zap.String("preset", preset),
		zap.Int("status", status),
		zap.Error(err))
	c.JSON(status, ErrorResponse{Detail: err.Error()})
}

func (s *Server) handlePresets(c *gin.Context) {
	defaultName, _ := s.presets.Default()
	resp := PresetsResponse{Default: defaultName}
	for _, name := range s.presets.Names() {
		opts, _ := s.presets.Lookup(name)
		resp.Presets = append(resp.Presets, PresetInfo{Name: name, Options: opts})
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": s.build.Version,
	})
}

func (s *Server) handleVersion(c *gin.Context) {
	c.JSON(http.StatusOK, s.build)
}
