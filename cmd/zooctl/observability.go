package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"zoocore/internal/config"
	"zoocore/internal/core"
)

// newMetrics builds the recorder for format and a function that writes what
// it collected to a file.
func newMetrics(format string) (core.MetricsRecorder, func(path string) error, error) {
	if format == config.MetricsExpvar {
		rec := core.NewExpvarMetricsRecorder("")
		return rec, func(path string) error { return writeExpvar(path, rec) }, nil
	}
	registry := prometheus.NewRegistry()
	rec, err := core.NewPrometheusMetricsRecorder(registry)
	if err != nil {
		return nil, nil, err
	}
	return rec, func(path string) error { return writePrometheus(path, registry) }, nil
}

// newTracer builds the tracer for format writing to w. The returned shutdown
// flushes pending spans and must run before w is closed.
func newTracer(format string, w io.Writer) (core.Tracer, func(context.Context) error, error) {
	if format != config.TraceOTel {
		return core.NewJSONTracer(w), func(context.Context) error { return nil }, nil
	}
	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		return nil, nil, fmt.Errorf("create otel exporter: %w", err)
	}
	provider := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	return core.NewOTelTracer(provider.Tracer("zoocore/cmd/zooctl")), provider.Shutdown, nil
}

func writePrometheus(path string, registry *prometheus.Registry) error {
	families, err := registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create metrics output: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(f, mf); err != nil {
			_ = f.Close()
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return f.Close()
}

func writeExpvar(path string, rec *core.ExpvarMetricsRecorder) error {
	data, err := json.MarshalIndent(rec.Snapshot(), "", "  ")
	if err != nil {
		return fmt.Errorf("encode metrics: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}
