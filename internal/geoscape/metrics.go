package geoscape

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/ufoai/geoscape/pkg/core"
)

const instrumentationName = "github.com/ufoai/geoscape/internal/geoscape"

type metrics struct {
	spawned  metric.Int64Counter
	removed  metric.Int64Counter
	detected metric.Int64Counter
	live     metric.Int64ObservableGauge

	registration metric.Registration
}

func newMetrics(e *Engine) (*metrics, error) {
	m := otel.Meter(instrumentationName)
	out := &metrics{}

	var err error
	out.spawned, err = m.Int64Counter("geoscape.missions.spawned",
		metric.WithDescription("Missions created"))
	if err != nil {
		return nil, fmt.Errorf("creating spawned counter: %w", err)
	}
	out.removed, err = m.Int64Counter("geoscape.missions.removed",
		metric.WithDescription("Missions removed"))
	if err != nil {
		return nil, fmt.Errorf("creating removed counter: %w", err)
	}
	out.detected, err = m.Int64Counter("geoscape.missions.detected",
		metric.WithDescription("Missions revealed by radar"))
	if err != nil {
		return nil, fmt.Errorf("creating detected counter: %w", err)
	}
	out.live, err = m.Int64ObservableGauge("geoscape.missions.live",
		metric.WithDescription("Live missions per category"))
	if err != nil {
		return nil, fmt.Errorf("creating live gauge: %w", err)
	}
	// The callback runs on the exporter goroutine: it only reads the
	// registry, which is safe for concurrent readers.
	out.registration, err = m.RegisterCallback(
		func(ctx context.Context, o metric.Observer) error {
			var counts [core.CategoryMax]int64
			for _, ms := range e.missions.All() {
				if ms.Category.Valid() {
					counts[ms.Category]++
				}
			}
			for c := core.CategoryRecon; c < core.CategoryMax; c++ {
				o.ObserveInt64(out.live, counts[c], metric.WithAttributes(categoryAttr(c)))
			}
			return nil
		},
		out.live,
	)
	if err != nil {
		return nil, fmt.Errorf("registering live callback: %w", err)
	}
	return out, nil
}

func categoryAttr(c core.Category) attribute.KeyValue {
	return attribute.String("category", c.String())
}

func (m *metrics) missionSpawned(c core.Category) {
	m.spawned.Add(context.Background(), 1, metric.WithAttributes(categoryAttr(c)))
}

func (m *metrics) missionRemoved(c core.Category) {
	m.removed.Add(context.Background(), 1, metric.WithAttributes(categoryAttr(c)))
}

func (m *metrics) missionDetected(c core.Category) {
	m.detected.Add(context.Background(), 1, metric.WithAttributes(categoryAttr(c)))
}

func (m *metrics) close() error {
	if m.registration == nil {
		return nil
	}
	return m.registration.Unregister()
}
