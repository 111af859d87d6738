package hcl

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/fractalgrid/internal/config"
	"github.com/vk/fractalgrid/internal/model"
	"github.com/vk/fractalgrid/internal/partition"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600), "failed to set up test file")
	return path
}

func TestLoad_AllBlocks(t *testing.T) {
	path := writeFile(t, t.TempDir(), "run.hcl", `
render {
  width          = 640
  height         = 480
  center         = [-0.75, 0.1]
  radius         = 0.05
  max_iterations = 1024
  contrast       = 2
}

engine {
  strategy     = "fanout"
  task_budget  = 64
  on_exhausted = "reject"
  strict       = true
}

output {
  png        = "out.png"
  serve_port = 8080
  hold       = true
}
`)

	m, err := NewLoader().Load(context.Background(), config.Default(), path)
	require.NoError(t, err)

	assert.Equal(t, model.Resolution{Width: 640, Height: 480}, m.Params.Resolution)
	assert.Equal(t, model.Viewport{CenterReal: -0.75, CenterImag: 0.1, Radius: 0.05}, m.Params.Viewport)
	assert.Equal(t, 1024, m.Params.MaxIterations)
	assert.Equal(t, 2, m.Params.Contrast)
	assert.Equal(t, partition.Fanout, m.Engine.Strategy)
	assert.Equal(t, 64, m.Engine.TaskBudget)
	assert.Equal(t, partition.Reject, m.Engine.OnExhausted)
	assert.True(t, m.Engine.Strict)
	assert.Equal(t, config.Output{PNGPath: "out.png", ServePort: 8080, Hold: true}, m.Output)
}

func TestLoad_MissingBlocksKeepBase(t *testing.T) {
	path := writeFile(t, t.TempDir(), "run.hcl", `
render {
  max_iterations = 64
}
`)
	base := config.Default()

	m, err := NewLoader().Load(context.Background(), base, path)
	require.NoError(t, err)

	want := config.Default()
	want.Params.MaxIterations = 64
	assert.Equal(t, want, m)
	assert.Equal(t, 512, base.Params.MaxIterations, "base must not be modified")
}

func TestLoad_Landmark(t *testing.T) {
	path := writeFile(t, t.TempDir(), "run.hcl", `
render {
  center = landmark.elephant_valley.center
  radius = landmark.elephant_valley.radius
}
`)

	m, err := NewLoader().Load(context.Background(), config.Default(), path)
	require.NoError(t, err)

	assert.Equal(t, model.Viewport{CenterReal: -1.8, CenterImag: -0.06, Radius: 0.05}, m.Params.Viewport)
}

func TestLoad_DirectoryFilesApplyInOrder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "10-base.hcl", `
render {
  width  = 100
  height = 100
}
`)
	writeFile(t, dir, "20-override.hcl", `
render {
  width = 200
}
`)
	writeFile(t, dir, "notes.txt", `not hcl`)

	m, err := NewLoader().Load(context.Background(), config.Default(), dir)
	require.NoError(t, err)

	assert.Equal(t, model.Resolution{Width: 200, Height: 100}, m.Params.Resolution)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errText string
	}{
		{"syntax error", "render {\n  width = \n", "failed to parse"},
		{"wrong type", "render {\n  width = \"wide\"\n}\n", "failed to decode"},
		{"short center", "render {\n  center = [1]\n}\n", "Invalid center"},
		{"non numeric center", "render {\n  center = [\"a\", \"b\"]\n}\n", "Invalid center"},
		{"unknown landmark", "render {\n  center = landmark.atlantis.center\n}\n", "invalid render block"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "run.hcl", tc.content)

			_, err := NewLoader().Load(context.Background(), config.Default(), path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errText)
		})
	}
}

func TestLoad_InvalidParams(t *testing.T) {
	path := writeFile(t, t.TempDir(), "run.hcl", "render {\n  height = 0\n}\n")

	_, err := NewLoader().Load(context.Background(), config.Default(), path)

	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrInvalidParams))
}

func TestLoad_MissingPath(t *testing.T) {
	_, err := NewLoader().Load(context.Background(), config.Default(), filepath.Join(t.TempDir(), "nope.hcl"))

	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
