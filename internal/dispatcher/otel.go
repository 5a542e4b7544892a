package dispatcher

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// meter is resolved per console so a provider installed before
// campaign.New is picked up.
func meter() metric.Meter {
	return otel.Meter("github.com/ufoai/geoscape/internal/dispatcher")
}
