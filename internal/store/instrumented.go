package store

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"student-enrollment/internal/common/metrics"
)

// Instrumented decorates a Store with prometheus counters/latency and spans.
type Instrumented struct {
	next    Store
	backend string
	tracer  trace.Tracer
}

func NewInstrumented(next Store, backend string, tracer trace.Tracer) *Instrumented {
	return &Instrumented{next: next, backend: backend, tracer: tracer}
}

func (i *Instrumented) observe(ctx context.Context, op, collection string, fn func(context.Context) error) {
	ctx, span := i.tracer.Start(ctx, "store."+op, trace.WithAttributes(
		attribute.String("store.backend", i.backend),
		attribute.String("store.collection", collection),
	))
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	metrics.StoreOperationDuration.WithLabelValues(i.backend, op).Observe(time.Since(start).Seconds())

	result := "ok"
	switch {
	case err == nil:
	case errors.Is(err, ErrNotFound):
		result = "not_found"
	case errors.Is(err, context.DeadlineExceeded):
		result = "timeout"
		span.SetStatus(codes.Error, err.Error())
	default:
		result = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	metrics.StoreOperationsTotal.WithLabelValues(i.backend, op, result).Inc()
}

func (i *Instrumented) Get(ctx context.Context, collection, key string) (*Document, error) {
	var doc *Document
	var err error
	i.observe(ctx, "get", collection, func(ctx context.Context) error {
		doc, err = i.next.Get(ctx, collection, key)
		return err
	})
	return doc, err
}

func (i *Instrumented) Set(ctx context.Context, collection, key string, doc Document) error {
	var err error
	i.observe(ctx, "set", collection, func(ctx context.Context) error {
		err = i.next.Set(ctx, collection, key, doc)
		return err
	})
	return err
}

func (i *Instrumented) List(ctx context.Context, collection string) ([]Document, error) {
	var docs []Document
	var err error
	i.observe(ctx, "list", collection, func(ctx context.Context) error {
		docs, err = i.next.List(ctx, collection)
		return err
	})
	return docs, err
}

func (i *Instrumented) ServerTime(ctx context.Context) (time.Time, error) {
	var now time.Time
	var err error
	i.observe(ctx, "server_time", "", func(ctx context.Context) error {
		now, err = i.next.ServerTime(ctx)
		return err
	})
	return now, err
}

// Ping forwards to the wrapped store when it supports liveness checks.
func (i *Instrumented) Ping(ctx context.Context) error {
	if p, ok := i.next.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}
