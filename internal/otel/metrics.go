package otel

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/ufoai/geoscape/internal/geoscape"
)

// CampaignMetrics publishes the latest campaign status as observable gauges.
type CampaignMetrics struct {
	mu     sync.Mutex
	status geoscape.Status
	seen   bool

	reg metric.Registration
}

// NewCampaignMetrics registers the campaign instruments on meter.
func NewCampaignMetrics(meter metric.Meter) (*CampaignMetrics, error) {
	m := &CampaignMetrics{}

	day, err := meter.Int64ObservableGauge("geoscape.campaign.day",
		metric.WithDescription("Campaign day"))
	if err != nil {
		return nil, err
	}
	overall, err := meter.Int64ObservableGauge("geoscape.interest.overall",
		metric.WithDescription("Overall alien interest"))
	if err != nil {
		return nil, err
	}
	individual, err := meter.Int64ObservableGauge("geoscape.interest.category",
		metric.WithDescription("Alien interest per mission category"))
	if err != nil {
		return nil, err
	}
	missions, err := meter.Int64ObservableGauge("geoscape.missions",
		metric.WithDescription("Live missions per category"))
	if err != nil {
		return nil, err
	}
	onGeoscape, err := meter.Int64ObservableGauge("geoscape.missions.on_geoscape",
		metric.WithDescription("Missions visible to the player"))
	if err != nil {
		return nil, err
	}
	outcomes, err := meter.Int64ObservableCounter("geoscape.battles",
		metric.WithDescription("Resolved battles by outcome"))
	if err != nil {
		return nil, err
	}

	m.reg, err = meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		m.mu.Lock()
		defer m.mu.Unlock()
		if !m.seen {
			return nil
		}
		s := m.status
		o.ObserveInt64(day, int64(s.Date.Day))
		o.ObserveInt64(overall, int64(s.Interest.Overall))
		for c, v := range s.Interest.Individual {
			o.ObserveInt64(individual, int64(v), metric.WithAttributes(attribute.String("category", c)))
		}
		for c, n := range s.ByCategory {
			o.ObserveInt64(missions, int64(n), metric.WithAttributes(attribute.String("category", c)))
		}
		o.ObserveInt64(onGeoscape, int64(s.OnGeoscape))
		o.ObserveInt64(outcomes, int64(s.Stats.MissionsWon), metric.WithAttributes(attribute.String("outcome", "won")))
		o.ObserveInt64(outcomes, int64(s.Stats.MissionsLost), metric.WithAttributes(attribute.String("outcome", "lost")))
		return nil
	}, day, overall, individual, missions, onGeoscape, outcomes)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Update replaces the status reported on the next collection.
func (m *CampaignMetrics) Update(s geoscape.Status) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status = s
	m.seen = true
}

// Close unregisters the instruments.
func (m *CampaignMetrics) Close() error {
	return m.reg.Unregister()
}
