package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/linetrace/internal/pipeline"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.Mode)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 60*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, int64(20*1024*1024), cfg.Server.MaxBodyBytes)
	assert.Equal(t, pipeline.DefaultPreset, cfg.Vectorize.DefaultPreset)
	assert.Empty(t, cfg.Vectorize.Presets)
}

func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Port)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
server:
  port: ":9090"
  mode: release
  read_timeout: 5s
  max_body_bytes: 1024
vectorize:
  default_preset: thick-svg
  presets:
    skeleton-svg:
      stroke_color: red
    thick-svg:
      stroke_width: 4
      filter: perimeter
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 60*time.Second, cfg.Server.WriteTimeout, "unset keys keep defaults")
	assert.Equal(t, int64(1024), cfg.Server.MaxBodyBytes)

	require.Len(t, cfg.Vectorize.Presets, 2)

	overridden := cfg.Vectorize.Presets["skeleton-svg"]
	assert.Equal(t, "red", overridden.StrokeColor)
	assert.Equal(t, pipeline.StrategySkeleton, overridden.Strategy, "unlisted fields keep the built-in value")
	assert.Equal(t, 2.0, overridden.StrokeWidth)

	added := cfg.Vectorize.Presets["thick-svg"]
	assert.Equal(t, 4.0, added.StrokeWidth)
	assert.Equal(t, "perimeter", string(added.Filter))
	assert.Equal(t, 127, added.Threshold)

	presets, err := cfg.BuildPresets()
	require.NoError(t, err)
	name, opts := presets.Default()
	assert.Equal(t, "thick-svg", name)
	assert.Equal(t, 4.0, opts.StrokeWidth)
	assert.Len(t, presets.Names(), 7)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("LINETRACE_SERVER_PORT", ":7070")
	t.Setenv("LINETRACE_VECTORIZE_DEFAULT_PRESET", "polygon-json")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.Server.Port)
	assert.Equal(t, "polygon-json", cfg.Vectorize.DefaultPreset)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{
			name:    "unknown default preset",
			content: "vectorize:\n  default_preset: nope\n",
			wantMsg: "nope",
		},
		{
			name:    "bad mode",
			content: "server:\n  mode: turbo\n",
			wantMsg: "server.mode",
		},
		{
			name:    "invalid preset override",
			content: "vectorize:\n  presets:\n    skeleton-svg:\n      strategy: scribble\n",
			wantMsg: "scribble",
		},
		{
			name:    "malformed yaml",
			content: "server: [port\n",
			wantMsg: "failed to read config file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestPrint(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, cfg.Print(&buf))

	out := buf.String()
	assert.Contains(t, out, "server:")
	assert.Contains(t, out, "read_timeout: 30s")
	assert.Contains(t, out, "default_preset: skeleton-svg")
	assert.NotContains(t, out, "presets:")
}

func TestLoad_ExampleFile(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "config.example.yaml"))
	require.NoError(t, err)

	presets, err := cfg.BuildPresets()
	require.NoError(t, err)

	opts, ok := presets.Lookup("thick-polygon-svg")
	require.True(t, ok)
	assert.Equal(t, pipeline.StrategyPolygon, opts.Strategy)
	assert.Equal(t, 50.0, opts.MinArea)
	assert.Equal(t, pipeline.EncodingSVG, opts.Encoding)
}
