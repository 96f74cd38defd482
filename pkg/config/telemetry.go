package config

import (
	"context"
	"io"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/keibacicd/jvdata-engine/log"
)

type Telemetry struct {
	meter *sdkmetric.MeterProvider
}

type TelemetryOption func(*telemetryConfig)

type telemetryConfig struct {
	w        io.Writer
	interval time.Duration
}

// WithTelemetryWriter sets the destination of the metric dumps (default stderr)
func WithTelemetryWriter(w io.Writer) TelemetryOption {
	return func(c *telemetryConfig) {
		c.w = w
	}
}

func WithTelemetryInterval(d time.Duration) TelemetryOption {
	return func(c *telemetryConfig) {
		c.interval = d
	}
}

// SetupTelemetry installs a global meter provider which periodically dumps
// the collected metrics as JSON. The final state is written on Shutdown.
func SetupTelemetry(ctx context.Context, opts ...TelemetryOption) (*Telemetry, error) {
	cfg := &telemetryConfig{w: os.Stderr, interval: time.Minute}
	for _, opt := range opts {
		opt(cfg)
	}
	exp, err := stdoutmetric.New(
		stdoutmetric.WithWriter(cfg.w),
		stdoutmetric.WithPrettyPrint(),
	)
	if err != nil {
		return nil, err
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp,
			sdkmetric.WithInterval(cfg.interval))),
	)
	otel.SetMeterProvider(mp)
	return &Telemetry{meter: mp}, nil
}

func (t *Telemetry) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := t.meter.Shutdown(ctx); err != nil {
		log.Warn("could not shutdown meter provider", log.ErrorField(err))
	}
}
