// Package telemetry sets up the OpenTelemetry providers and the process
// logger.
package telemetry

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/propagation"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

type Config struct {
	ServiceName    string
	ServiceVersion string

	// Endpoint of the OTLP/gRPC collector, e.g. "http://localhost:4317".
	// Empty disables export and logs go to Output as text.
	Endpoint string

	Level  slog.Level
	Output io.Writer
}

// Providers holds what Setup built. Shutdown flushes and stops exporters.
type Providers struct {
	Logger         *slog.Logger
	TracerProvider trace.TracerProvider
	MeterProvider  metric.MeterProvider

	shutdownFuncs []func(context.Context) error
}

// Setup builds the providers for cfg and installs them as the otel globals.
// On error everything started so far is shut down again.
func Setup(ctx context.Context, cfg Config) (*Providers, error) {
	p := &Providers{}

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	if cfg.Endpoint == "" {
		output := cfg.Output
		if output == nil {
			output = os.Stderr
		}
		p.Logger = slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{Level: cfg.Level}))
		p.TracerProvider = tracenoop.NewTracerProvider()
		p.MeterProvider = metricnoop.NewMeterProvider()
		return p, nil
	}

	// OTEL_RESOURCE_ATTRIBUTES and OTEL_SERVICE_NAME override cfg.
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.ServiceVersion),
		),
		resource.WithFromEnv(),
		resource.WithTelemetrySDK(),
	)
	if err != nil && !errors.Is(err, resource.ErrPartialResource) {
		return nil, err
	}

	traceExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithEndpointURL(cfg.Endpoint))
	if err != nil {
		return nil, p.fail(ctx, err)
	}
	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res),
	)
	p.shutdownFuncs = append(p.shutdownFuncs, tracerProvider.Shutdown)
	p.TracerProvider = tracerProvider

	metricExporter, err := otlpmetricgrpc.New(ctx, otlpmetricgrpc.WithEndpointURL(cfg.Endpoint))
	if err != nil {
		return nil, p.fail(ctx, err)
	}
	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter)),
		sdkmetric.WithResource(res),
	)
	p.shutdownFuncs = append(p.shutdownFuncs, meterProvider.Shutdown)
	p.MeterProvider = meterProvider

	logExporter, err := otlploggrpc.New(ctx, otlploggrpc.WithEndpointURL(cfg.Endpoint))
	if err != nil {
		return nil, p.fail(ctx, err)
	}
	loggerProvider := sdklog.NewLoggerProvider(
		sdklog.WithProcessor(sdklog.NewBatchProcessor(logExporter)),
		sdklog.WithResource(res),
	)
	p.shutdownFuncs = append(p.shutdownFuncs, loggerProvider.Shutdown)

	otel.SetTracerProvider(tracerProvider)
	otel.SetMeterProvider(meterProvider)
	global.SetLoggerProvider(loggerProvider)

	handler := otelslog.NewHandler(cfg.ServiceName, otelslog.WithLoggerProvider(loggerProvider))
	p.Logger = slog.New(&levelHandler{level: cfg.Level, Handler: handler})

	return p, nil
}

// Shutdown flushes and stops every provider, joining their errors.
func (p *Providers) Shutdown(ctx context.Context) error {
	var err error
	for _, fn := range p.shutdownFuncs {
		err = errors.Join(err, fn(ctx))
	}
	p.shutdownFuncs = nil
	return err
}

func (p *Providers) fail(ctx context.Context, err error) error {
	return errors.Join(err, p.Shutdown(ctx))
}

// ParseLevel maps "debug", "info", "warn" and "error" to a slog level.
// Anything else yields fallback.
func ParseLevel(s string, fallback slog.Level) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return fallback
	}
	return level
}

// levelHandler drops records below level before they reach the bridge.
type levelHandler struct {
	level slog.Leveler
	slog.Handler
}

func (h *levelHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.level.Level() && h.Handler.Enabled(ctx, level)
}

func (h *levelHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelHandler{level: h.level, Handler: h.Handler.WithAttrs(attrs)}
}

func (h *levelHandler) WithGroup(name string) slog.Handler {
	return &levelHandler{level: h.level, Handler: h.Handler.WithGroup(name)}
}
