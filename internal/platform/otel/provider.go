// Package otel decides where voidsheet spans go. The spans themselves come
// from the sheet service ("sheet.derive"); commands call Setup once at start.
package otel

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/louisbranch/voidsheet/internal/platform/config"
)

// Namespace groups every voidsheet command under one service namespace.
const Namespace = "voidsheet"

// Config selects the OTLP/HTTP exporter. Tags omit the VOIDSHEET_ prefix.
// Enabled is kept as text so an empty value reads as "not disabled".
type Config struct {
	Endpoint    string  `env:"OTEL_ENDPOINT"`
	Enabled     string  `env:"OTEL_ENABLED"`
	SampleRatio float64 `env:"OTEL_SAMPLE_RATIO" envDefault:"1"`
}

// Active reports whether spans should be exported.
func (c Config) Active() bool {
	return c.Endpoint != "" && !strings.EqualFold(strings.TrimSpace(c.Enabled), "false")
}

// LoadConfig reads Config from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := config.ParseEnvPrefixed(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.SampleRatio < 0 || cfg.SampleRatio > 1 {
		return Config{}, fmt.Errorf("otel sample ratio %v outside [0, 1]", cfg.SampleRatio)
	}
	return cfg, nil
}

// Setup registers a tracer provider for service from the environment. When
// tracing is inactive it registers nothing and returns a no-op shutdown.
func Setup(ctx context.Context, service string) (shutdown func(context.Context) error, err error) {
	cfg, err := LoadConfig()
	if err != nil {
		return noopShutdown, err
	}
	return SetupWithConfig(ctx, service, cfg)
}

// SetupWithConfig is Setup with an explicit Config. The returned shutdown
// flushes pending derive spans and should be deferred.
func SetupWithConfig(ctx context.Context, service string, cfg Config) (func(context.Context) error, error) {
	if !cfg.Active() {
		return noopShutdown, nil
	}

	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(cfg.Endpoint))
	if err != nil {
		return noopShutdown, fmt.Errorf("otlp exporter: %w", err)
	}
	res, err := resource.New(ctx, resource.WithAttributes(
		semconv.ServiceNamespace(Namespace),
		semconv.ServiceName(Namespace+"-"+service),
	))
	if err != nil {
		return noopShutdown, fmt.Errorf("otel resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	return tp.Shutdown, nil
}

func noopShutdown(context.Context) error { return nil }

// Tracer returns a tracer from the global provider; the no-op tracer until
// Setup registers one.
func Tracer(name string) trace.Tracer {
	return otel.Tracer(name)
}
