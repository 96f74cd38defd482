// Package metrics holds the otel instruments of the engine. Instruments are
// created on the global meter provider; without telemetry enabled they are
// no-ops.
package metrics

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/keibacicd/jvdata-engine/log"
)

const meterName = "jvd"

type instruments struct {
	decoded     metric.Int64Counter
	markWrites  metric.Int64Counter
	betsWritten metric.Int64Counter
	loadTime    metric.Float64Histogram
}

var (
	once sync.Once
	inst instruments
)

func get() *instruments {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter(meterName)
		var err error
		if inst.decoded, err = meter.Int64Counter("jvd.odds.decoded",
			metric.WithDescription("Number of decoded odds files by status"),
			metric.WithUnit("{file}")); err != nil {
			logFailure("jvd.odds.decoded", err)
		}
		if inst.markWrites, err = meter.Int64Counter("jvd.mark.writes",
			metric.WithDescription("Number of mark file updates"),
			metric.WithUnit("{write}")); err != nil {
			logFailure("jvd.mark.writes", err)
		}
		if inst.betsWritten, err = meter.Int64Counter("jvd.bet.instructions",
			metric.WithDescription("Number of exported bet instructions"),
			metric.WithUnit("{bet}")); err != nil {
			logFailure("jvd.bet.instructions", err)
		}
		if inst.loadTime, err = meter.Float64Histogram("jvd.odds.load",
			metric.WithDescription("Loading of odds series"),
			metric.WithUnit("s")); err != nil {
			logFailure("jvd.odds.load", err)
		}
	})
	return &inst
}

func logFailure(name string, err error) {
	log.Error("failed to register metric", log.String("metric", name), log.ErrorField(err))
}

// Decoded counts one decoded snapshot file.
func Decoded(ctx context.Context, status string) {
	if c := get().decoded; c != nil {
		c.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
	}
}

// MarkWritten counts mark slot updates of a mark set.
func MarkWritten(ctx context.Context, set, n int) {
	if c := get().markWrites; c != nil {
		c.Add(ctx, int64(n), metric.WithAttributes(attribute.Int("set", set)))
	}
}

// BetsExported counts instructions written to a bet file of the given kind
// (ff or pd).
func BetsExported(ctx context.Context, kind string, n int) {
	if c := get().betsWritten; c != nil {
		c.Add(ctx, int64(n), metric.WithAttributes(attribute.String("file", kind)))
	}
}

// SeriesLoaded records the time needed to load and decode a race series.
func SeriesLoaded(ctx context.Context, seconds float64, files int) {
	if h := get().loadTime; h != nil {
		h.Record(ctx, seconds, metric.WithAttributes(attribute.Int("files", files)))
	}
}
