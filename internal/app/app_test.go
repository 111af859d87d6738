package app

import (
	"context"
	"errors"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/fractalgrid/internal/config"
	"github.com/vk/fractalgrid/internal/partition"
)

// stubLoader returns a fixed model, or an error, and records the paths it saw.
type stubLoader struct {
	model *config.Model
	err   error
	paths []string
}

func (l *stubLoader) Load(_ context.Context, base *config.Model, paths ...string) (*config.Model, error) {
	l.paths = paths
	if l.err != nil {
		return nil, l.err
	}
	if l.model != nil {
		return l.model, nil
	}
	return base, nil
}

func smallFrame(out string) Override {
	return func(m *config.Model) {
		m.Params.Resolution.Width = 16
		m.Params.Resolution.Height = 12
		m.Params.MaxIterations = 64
		m.Output.PNGPath = out
	}
}

func TestApp_RunWritesPNGAndReport(t *testing.T) {
	// --- Arrange ---
	out := filepath.Join(t.TempDir(), "frame.png")
	testApp, logs := SetupAppTest(t, &Config{Overrides: []Override{smallFrame(out)}}, &stubLoader{})

	// --- Act ---
	err := testApp.Run(context.Background())

	// --- Assert ---
	require.NoError(t, err)

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 16, img.Bounds().Dx())
	assert.Equal(t, 12, img.Bounds().Dy())

	output := logs.String()
	assert.Contains(t, output, "Starting partitioned computation")
	assert.Contains(t, output, "Computation finished.")
	assert.Contains(t, output, "Timing report")
	assert.Contains(t, output, "potential_speedup")
}

func TestApp_RunEveryStrategy(t *testing.T) {
	for _, s := range []partition.Strategy{partition.Fanout, partition.Pool, partition.Sequential} {
		t.Run(string(s), func(t *testing.T) {
			out := filepath.Join(t.TempDir(), "frame.png")
			strategy := s
			cfg := &Config{Overrides: []Override{
				smallFrame(out),
				func(m *config.Model) { m.Engine.Strategy = strategy },
			}}
			testApp, _ := SetupAppTest(t, cfg, &stubLoader{})

			require.NoError(t, testApp.Run(context.Background()))
			assert.FileExists(t, out)
		})
	}
}

func TestApp_RunWithoutSinksWarns(t *testing.T) {
	testApp, logs := SetupAppTest(t, &Config{Overrides: []Override{smallFrame("")}}, &stubLoader{})

	require.NoError(t, testApp.Run(context.Background()))
	assert.Contains(t, logs.String(), "No output configured")
}

func TestApp_RunCancelled(t *testing.T) {
	testApp, _ := SetupAppTest(t, &Config{Overrides: []Override{smallFrame("")}}, &stubLoader{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := testApp.Run(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewApp_UsesLoaderOnlyWithPaths(t *testing.T) {
	loaded := config.Default()
	loaded.Params.MaxIterations = 99
	loader := &stubLoader{model: loaded}

	testApp, _ := SetupAppTest(t, &Config{ConfigPaths: []string{"a.hcl", "b"}}, loader)
	assert.Equal(t, []string{"a.hcl", "b"}, loader.paths)
	assert.Equal(t, 99, testApp.Model().Params.MaxIterations)

	loader = &stubLoader{model: loaded}
	testApp, _ = SetupAppTest(t, &Config{}, loader)
	assert.Nil(t, loader.paths)
	assert.Equal(t, config.Default().Params.MaxIterations, testApp.Model().Params.MaxIterations)
}

func TestNewApp_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		cfg     *Config
		loader  *stubLoader
		message string
	}{
		{
			name:    "loader failure",
			cfg:     &Config{ConfigPaths: []string{"x.hcl"}},
			loader:  &stubLoader{err: errors.New("boom")},
			message: "failed to load configuration",
		},
		{
			name: "invalid override",
			cfg: &Config{Overrides: []Override{func(m *config.Model) {
				m.Params.Resolution.Height = 0
			}}},
			loader:  &stubLoader{},
			message: "invalid configuration",
		},
		{
			name: "invalid engine",
			cfg: &Config{Overrides: []Override{func(m *config.Model) {
				m.Engine.Strategy = "swarm"
			}}},
			loader:  &stubLoader{},
			message: "invalid engine configuration",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewApp(&SafeBuffer{}, NewConfig(*tc.cfg), tc.loader)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.message)
		})
	}
}

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig(Config{})
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)

	cfg = NewConfig(Config{LogFormat: "json", LogLevel: "debug"})
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestReport(t *testing.T) {
	r := Report{Total: 10 * time.Second, Compute: 8 * time.Second}
	assert.InDelta(t, 0.8, r.ParallelFraction(), 1e-9)
	assert.InDelta(t, 5.0, r.PotentialSpeedup(), 1e-9)

	assert.True(t, math.IsInf(Report{Total: time.Second, Compute: time.Second}.PotentialSpeedup(), 1))
	assert.Zero(t, Report{}.ParallelFraction())
}

func TestNewLogger_Format(t *testing.T) {
	var buf SafeBuffer
	newLogger("warn", "json", &buf).Info("hidden")
	newLogger("warn", "json", &buf).Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
}
