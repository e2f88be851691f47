package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type Instrument struct {
	ReconcileCounter           metric.Int64Counter
	ReconcileDurationHistogram metric.Int64Histogram
	QueueDepthUpDownCounter    metric.Int64UpDownCounter
}

func NewInstrument(meter metric.Meter) (*Instrument, error) {
	reconcileCounter, err := meter.Int64Counter(
		"treewatch.reconcile.count",
		metric.WithDescription("Number of folder reconciliations by outcome"),
	)
	if err != nil {
		return nil, err
	}

	reconcileDurationHistogram, err := meter.Int64Histogram(
		"treewatch.reconcile.duration",
		metric.WithDescription("Duration of folder reconciliations including operator think time"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	queueDepthUpDownCounter, err := meter.Int64UpDownCounter(
		"treewatch.queue.depth",
		metric.WithDescription("Number of folder events waiting for reconciliation"),
	)
	if err != nil {
		return nil, err
	}

	return &Instrument{
		ReconcileCounter:           reconcileCounter,
		ReconcileDurationHistogram: reconcileDurationHistogram,
		QueueDepthUpDownCounter:    queueDepthUpDownCounter,
	}, nil
}

func (r *Instrument) ReconcileRecord(ctx context.Context, action string, duration int64) {
	if r == nil {
		return
	}
	attributes := metric.WithAttributes(attribute.String("action", action))
	r.ReconcileCounter.Add(ctx, 1, attributes)
	r.ReconcileDurationHistogram.Record(ctx, duration, attributes)
}

func (r *Instrument) QueueDepthAdd(ctx context.Context, delta int64) {
	if r == nil {
		return
	}
	r.QueueDepthUpDownCounter.Add(ctx, delta)
}
