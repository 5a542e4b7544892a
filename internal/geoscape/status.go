package geoscape

import (
	"github.com/ufoai/geoscape/pkg/core"
)

// Status is a point-in-time view of the campaign for reporting sinks.
type Status struct {
	Date       core.Date       `json:"date"`
	Interest   InterestSummary `json:"interest"`
	Missions   int             `json:"missions"`
	Active     int             `json:"active"`
	OnGeoscape int             `json:"onGeoscape"`
	ByCategory map[string]int  `json:"byCategory"`
	Stats      Stats           `json:"stats"`
}

// Status reports the live mission counts and interest.
func (e *Engine) Status() Status {
	st := e.interest.Snapshot()
	s := Status{
		Date:       e.Now(),
		Interest:   InterestSummary{Overall: st.Overall, Individual: st.Individual},
		Missions:   e.missions.Count(),
		Active:     e.missions.CountActive(),
		OnGeoscape: e.missions.CountOnGeoscape(),
		ByCategory: make(map[string]int),
		Stats:      e.stats,
	}
	for _, m := range e.missions.All() {
		s.ByCategory[m.Category.String()]++
	}
	return s
}
