// Package otel bridges engine metrics into an OpenTelemetry meter via
// observable instruments. Snapshots are pulled at collection time; the hot
// path stays free of OTel calls.
package otel

import (
	"context"
	"errors"
	"fmt"

	labauth "github.com/labforge/labauth"
	"github.com/labforge/labauth/metrics/export/internaldefs"
	"go.opentelemetry.io/otel/metric"
)

var (
	ErrNilMeter  = errors.New("nil meter")
	ErrNilSource = errors.New("nil metrics source")
)

// Source supplies the snapshots the exporter observes. [labauth.Engine]
// satisfies it.
type Source interface {
	MetricsSnapshot() labauth.MetricsSnapshot
	AuditDropped() uint64
}

// OTelExporter registers one observable instrument per engine metric and
// unregisters them on Close. Histograms are flattened into per-bound
// cumulative-count gauges plus a total-count gauge, since the engine exposes
// fixed-bound bucket tallies rather than raw samples.
type OTelExporter struct {
	source       Source
	registration metric.Registration

	counters     map[labauth.MetricID]metric.Int64ObservableCounter
	bucketGauges map[labauth.MetricID][]metric.Int64ObservableGauge
	countGauges  map[labauth.MetricID]metric.Int64ObservableGauge
	auditDropped metric.Int64ObservableCounter
}

// NewOTelExporter builds the instruments on meter and registers the
// collection callback.
func NewOTelExporter(meter metric.Meter, source Source) (*OTelExporter, error) {
	if meter == nil {
		return nil, ErrNilMeter
	}
	if source == nil {
		return nil, ErrNilSource
	}

	e := &OTelExporter{
		source:       source,
		counters:     make(map[labauth.MetricID]metric.Int64ObservableCounter, len(internaldefs.CounterDefs)),
		bucketGauges: make(map[labauth.MetricID][]metric.Int64ObservableGauge, len(internaldefs.HistogramDefs)),
		countGauges:  make(map[labauth.MetricID]metric.Int64ObservableGauge, len(internaldefs.HistogramDefs)),
	}

	var observables []metric.Observable

	obs, err := e.buildCounters(meter)
	if err != nil {
		return nil, err
	}
	observables = append(observables, obs...)

	obs, err = e.buildHistograms(meter)
	if err != nil {
		return nil, err
	}
	observables = append(observables, obs...)

	e.auditDropped, err = meter.Int64ObservableCounter(
		"labauth_audit_dropped_total",
		metric.WithDescription("Dropped audit events due to dispatcher backpressure."),
	)
	if err != nil {
		return nil, fmt.Errorf("create audit dropped counter: %w", err)
	}
	observables = append(observables, e.auditDropped)

	e.registration, err = meter.RegisterCallback(e.collect, observables...)
	if err != nil {
		return nil, fmt.Errorf("register callback: %w", err)
	}

	return e, nil
}

func (e *OTelExporter) buildCounters(meter metric.Meter) ([]metric.Observable, error) {
	observables := make([]metric.Observable, 0, len(internaldefs.CounterDefs))
	for _, def := range internaldefs.CounterDefs {
		ins, err := meter.Int64ObservableCounter(def.Name, metric.WithDescription(def.Help))
		if err != nil {
			return nil, fmt.Errorf("create observable counter %s: %w", def.Name, err)
		}
		e.counters[def.ID] = ins
		observables = append(observables, ins)
	}
	return observables, nil
}

func (e *OTelExporter) buildHistograms(meter metric.Meter) ([]metric.Observable, error) {
	var observables []metric.Observable
	for _, def := range internaldefs.HistogramDefs {
		gauges := make([]metric.Int64ObservableGauge, 0, len(internaldefs.HistogramBoundSuffix))
		for _, suffix := range internaldefs.HistogramBoundSuffix {
			name := def.Name + "_bucket_le_" + suffix
			ins, err := meter.Int64ObservableGauge(name, metric.WithDescription("Cumulative histogram bucket count."))
			if err != nil {
				return nil, fmt.Errorf("create histogram bucket gauge %s: %w", name, err)
			}
			gauges = append(gauges, ins)
			observables = append(observables, ins)
		}
		e.bucketGauges[def.ID] = gauges

		count, err := meter.Int64ObservableGauge(def.Name+"_count", metric.WithDescription("Histogram total sample count."))
		if err != nil {
			return nil, fmt.Errorf("create histogram count gauge %s_count: %w", def.Name, err)
		}
		e.countGauges[def.ID] = count
		observables = append(observables, count)
	}
	return observables, nil
}

func (e *OTelExporter) collect(_ context.Context, observer metric.Observer) error {
	snapshot := e.source.MetricsSnapshot()

	for id, ins := range e.counters {
		observer.ObserveInt64(ins, int64(snapshot.Counters[id]))
	}

	for id, gauges := range e.bucketGauges {
		cumulative := internaldefs.CumulativeBuckets(internaldefs.NormalizeBuckets(snapshot.Histograms[id]))
		for i, ins := range gauges {
			observer.ObserveInt64(ins, int64(cumulative[i]))
		}
		observer.ObserveInt64(e.countGauges[id], int64(cumulative[len(cumulative)-1]))
	}

	observer.ObserveInt64(e.auditDropped, int64(e.source.AuditDropped()))
	return nil
}

// Close unregisters the collection callback.
func (e *OTelExporter) Close() error {
	if e == nil || e.registration == nil {
		return nil
	}
	return e.registration.Unregister()
}
