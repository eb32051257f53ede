package http

import (
	"errors"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/freekieb7/pebble/http"

type instruments struct {
	tracer trace.Tracer

	requests metric.Int64Counter
	duration metric.Float64Histogram
	sent     metric.Int64Counter
	busy     metric.Int64UpDownCounter
}

func newInstruments(mp metric.MeterProvider, tp trace.TracerProvider) (*instruments, error) {
	meter := mp.Meter(instrumentationName)

	requests, err1 := meter.Int64Counter("pebble.server.requests",
		metric.WithDescription("Responses sent, by status code"),
		metric.WithUnit("{request}"))
	duration, err2 := meter.Float64Histogram("pebble.server.request.duration",
		metric.WithDescription("Time from handoff to connection close"),
		metric.WithUnit("s"))
	sent, err3 := meter.Int64Counter("pebble.server.response.size",
		metric.WithDescription("Bytes written to clients"),
		metric.WithUnit("By"))
	busy, err4 := meter.Int64UpDownCounter("pebble.server.workers.busy",
		metric.WithDescription("Workers currently holding a connection"),
		metric.WithUnit("{worker}"))
	if err := errors.Join(err1, err2, err3, err4); err != nil {
		return nil, err
	}

	return &instruments{
		tracer:   tp.Tracer(instrumentationName),
		requests: requests,
		duration: duration,
		sent:     sent,
		busy:     busy,
	}, nil
}
