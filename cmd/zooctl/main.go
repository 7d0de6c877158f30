// Command zooctl runs zoo facade queries and mutations against the configured
// dataset and prints the result as JSON.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"zoocore/internal/config"
	"zoocore/internal/core"
)

var exitFunc = os.Exit

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

// usageError marks errors caused by bad invocation rather than by the
// operation itself.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func usagef(format string, args ...any) error {
	return usageError{err: fmt.Errorf(format, args...)}
}

func main() {
	code := cli(os.Args[1:], os.Stdout, os.Stderr)
	exitFunc(code)
}

func cli(args []string, stdout, stderr io.Writer) int {
	fs := pflag.NewFlagSet("zooctl", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.SetInterspersed(false)
	envFile := fs.String("env-file", ".env", "dotenv file loaded before the environment")
	pretty := fs.Bool("pretty", false, "indent JSON output")
	fs.Usage = func() {
		_, _ = fmt.Fprintf(stderr, "usage: zooctl [flags] <command> [args]\n\ncommands:\n  %s\n\nflags:\n", strings.Join(commandNames(), "\n  "))
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return exitUsage
	}
	name, rest := fs.Arg(0), fs.Args()[1:]
	cmd, ok := commands[name]
	if !ok {
		_, _ = fmt.Fprintf(stderr, "unknown command %q\n", name)
		fs.Usage()
		return exitUsage
	}

	cfg, err := config.Load(*envFile)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "config: %v\n", err)
		return exitUsage
	}
	logger, err := newLogger(cfg.Log, stderr)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "config: %v\n", err)
		return exitUsage
	}

	result, err := execute(context.Background(), cfg, logger, cmd, rest)
	if err != nil {
		var uerr usageError
		if errors.As(err, &uerr) {
			_, _ = fmt.Fprintf(stderr, "%s: %v\n", name, err)
			return exitUsage
		}
		logger.WithError(err).WithField("command", name).Error("command failed")
		return exitFailure
	}
	enc := json.NewEncoder(stdout)
	if *pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(result); err != nil {
		logger.WithError(err).Error("encode result")
		return exitFailure
	}
	return exitOK
}

func newLogger(cfg config.LogConfig, out io.Writer) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetLevel(level)
	if cfg.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	}
	return logger, nil
}

// execute loads the dataset, runs cmd, and flushes observability outputs.
func execute(ctx context.Context, cfg config.Config, logger *logrus.Logger, cmd command, args []string) (result any, err error) {
	opts := []core.ServiceOption{core.WithLogger(core.NewLogrusLogger(logger))}

	var flushMetrics func(string) error
	if cfg.MetricsOut != "" {
		rec, flush, merr := newMetrics(cfg.MetricsFormat)
		if merr != nil {
			return nil, merr
		}
		flushMetrics = flush
		opts = append(opts, core.WithMetricsRecorder(rec))
	}
	if cfg.TraceOut != "" {
		traceFile, ferr := os.Create(cfg.TraceOut)
		if ferr != nil {
			return nil, fmt.Errorf("create trace output: %w", ferr)
		}
		defer func() {
			if cerr := traceFile.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("close trace output: %w", cerr)
			}
		}()
		tracer, shutdown, terr := newTracer(cfg.TraceFormat, traceFile)
		if terr != nil {
			return nil, terr
		}
		defer func() {
			if serr := shutdown(context.WithoutCancel(ctx)); serr != nil && err == nil {
				err = fmt.Errorf("flush traces: %w", serr)
			}
		}()
		opts = append(opts, core.WithTracer(tracer))
	}

	ds, err := core.OpenDataset(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer func() { _ = ds.Close() }()
	svc, err := core.NewDatasetService(ctx, ds, opts...)
	if err != nil {
		return nil, err
	}
	logger.WithField("driver", ds.Driver).Debug("dataset loaded")

	result, err = cmd.run(ctx, &env{svc: svc, cfg: cfg}, args)
	if flushMetrics != nil {
		if werr := flushMetrics(cfg.MetricsOut); werr != nil && err == nil {
			err = werr
		}
	}
	return result, err
}
