package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/fractalgrid/internal/app"
	"github.com/vk/fractalgrid/internal/config"
	"github.com/vk/fractalgrid/internal/partition"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated AppConfig,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("fractalgrid", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
fractalgrid - A parallel row-partitioned Mandelbrot renderer.

Usage:
  fractalgrid [options] [CONFIG_PATH...]

Arguments:
  CONFIG_PATH
    Path to a single .hcl file or a directory containing .hcl files.
    Flags given explicitly override values from the files.

Options:
`)
		flagSet.PrintDefaults()
	}

	def := config.Default()
	configFlag := flagSet.String("config", "", "Path to a configuration file or directory.")
	widthFlag := flagSet.Int("width", def.Params.Resolution.Width, "Image width in pixels.")
	heightFlag := flagSet.Int("height", def.Params.Resolution.Height, "Image height in pixels.")
	centerReFlag := flagSet.Float64("center-re", def.Params.Viewport.CenterReal, "Real part of the viewport center.")
	centerImFlag := flagSet.Float64("center-im", def.Params.Viewport.CenterImag, "Imaginary part of the viewport center.")
	radiusFlag := flagSet.Float64("radius", def.Params.Viewport.Radius, "Half-width of the viewport in the complex plane.")
	iterationsFlag := flagSet.Int("iterations", def.Params.MaxIterations, "Maximum iterations per pixel.")
	contrastFlag := flagSet.Int("contrast", def.Params.Contrast, "Intensity multiplier applied to the escape count.")
	strategyFlag := flagSet.String("strategy", string(def.Engine.Strategy), "Partition strategy. Options: 'fanout', 'pool', 'sequential'.")
	workersFlag := flagSet.Int("workers", 0, "Number of pool workers. 0 means GOMAXPROCS.")
	budgetFlag := flagSet.Int("task-budget", 0, "Maximum live tasks for the fanout strategy. 0 is unbounded.")
	exhaustedFlag := flagSet.String("on-exhausted", string(def.Engine.OnExhausted), "Fanout budget policy. Options: 'degrade', 'reject'.")
	strictFlag := flagSet.Bool("strict", false, "Fail the pass on overlapping or out-of-bounds rows.")
	outFlag := flagSet.String("out", "", "Write the image to this PNG file.")
	serveFlag := flagSet.Int("serve", 0, "Port for the display server. 0 is disabled.")
	holdFlag := flagSet.Bool("hold", false, "Keep the display server running until interrupted.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	var paths []string
	if *configFlag != "" {
		paths = append(paths, *configFlag)
	}
	paths = append(paths, flagSet.Args()...)
	slog.Debug("Config paths determined.", "paths", paths)

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	strategy := partition.Strategy(strings.ToLower(*strategyFlag))
	switch strategy {
	case partition.Fanout, partition.Pool, partition.Sequential:
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid strategy: must be 'fanout', 'pool', or 'sequential'"}
	}

	policy := partition.ExhaustPolicy(strings.ToLower(*exhaustedFlag))
	if policy != partition.Degrade && policy != partition.Reject {
		return nil, false, &ExitError{Code: 2, Message: "invalid on-exhausted: must be 'degrade' or 'reject'"}
	}
	slog.Debug("CLI parameter validation complete.")

	// Only flags given on the command line override the configuration files.
	var overrides []app.Override
	flagSet.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "width":
			overrides = append(overrides, func(m *config.Model) { m.Params.Resolution.Width = *widthFlag })
		case "height":
			overrides = append(overrides, func(m *config.Model) { m.Params.Resolution.Height = *heightFlag })
		case "center-re":
			overrides = append(overrides, func(m *config.Model) { m.Params.Viewport.CenterReal = *centerReFlag })
		case "center-im":
			overrides = append(overrides, func(m *config.Model) { m.Params.Viewport.CenterImag = *centerImFlag })
		case "radius":
			overrides = append(overrides, func(m *config.Model) { m.Params.Viewport.Radius = *radiusFlag })
		case "iterations":
			overrides = append(overrides, func(m *config.Model) { m.Params.MaxIterations = *iterationsFlag })
		case "contrast":
			overrides = append(overrides, func(m *config.Model) { m.Params.Contrast = *contrastFlag })
		case "strategy":
			overrides = append(overrides, func(m *config.Model) { m.Engine.Strategy = strategy })
		case "workers":
			overrides = append(overrides, func(m *config.Model) { m.Engine.Workers = *workersFlag })
		case "task-budget":
			overrides = append(overrides, func(m *config.Model) { m.Engine.TaskBudget = *budgetFlag })
		case "on-exhausted":
			overrides = append(overrides, func(m *config.Model) { m.Engine.OnExhausted = policy })
		case "strict":
			overrides = append(overrides, func(m *config.Model) { m.Engine.Strict = *strictFlag })
		case "out":
			overrides = append(overrides, func(m *config.Model) { m.Output.PNGPath = *outFlag })
		case "serve":
			overrides = append(overrides, func(m *config.Model) { m.Output.ServePort = *serveFlag })
		case "hold":
			overrides = append(overrides, func(m *config.Model) { m.Output.Hold = *holdFlag })
		}
	})

	cfg := app.NewConfig(app.Config{
		ConfigPaths: paths,
		Overrides:   overrides,
		LogFormat:   logFormat,
		LogLevel:    logLevel,
	})

	slog.Debug("CLI parser finished successfully.", "paths", cfg.ConfigPaths, "overrides", len(overrides))
	return cfg, false, nil
}
