package geoscape

import (
	"fmt"

	"github.com/ufoai/geoscape/internal/mission"
	"github.com/ufoai/geoscape/pkg/core"
)

const (
	// DetectionInterval is the number of game seconds between two
	// detection sweeps.
	DetectionInterval = 1800

	// missionDetectionRate is the chance per second that radar spots a
	// mission it covers.
	missionDetectionRate = 0.000125
)

// MissionDetectionProbability is the chance per sweep that a detectable
// mission is revealed.
const MissionDetectionProbability = missionDetectionRate * DetectionInterval

// Classify tells whether the player can currently see m.
func (e *Engine) Classify(m *mission.Mission) core.DetectionStatus {
	if !m.PosAssigned {
		return core.CantBeDetected
	}
	if m.Crashed {
		return core.AlwaysDetected
	}
	if m.UFO != nil && m.UFO.Detected && m.UFO.Landed {
		return core.AlwaysDetected
	}
	if m.Category == core.CategoryRescue {
		return core.AlwaysDetected
	}

	switch m.Stage {
	case core.StageTerrorMission, core.StageBaseDiscovered:
		return core.AlwaysDetected
	case core.StageReconGround, core.StageSubvertGov, core.StageSpreadXVI, core.StageHarvest:
		if e.deps.Radar.Covers(m.Pos) {
			return core.MayBeDetected
		}
	}
	return core.CantBeDetected
}

// DetectNewMissions gives radar a chance to reveal every detectable mission
// that is not on the geoscape yet. It reports whether anything was found.
func (e *Engine) DetectNewMissions() bool {
	found := false
	e.missions.Each(func(m *mission.Mission) bool {
		if m.OnGeoscape || e.Classify(m) != core.MayBeDetected {
			return true
		}
		if e.rand.Float64() > MissionDetectionProbability {
			return true
		}
		e.AddToGeoscape(m, true)
		if m.UFO != nil {
			e.deps.UFOs.Spot(m.UFO)
		}
		e.metrics.missionDetected(m.Category)
		found = true
		return true
	})
	return found
}

// UpdateMissionVisibility drops missions that can no longer be seen and
// shows those that are always visible.
func (e *Engine) UpdateMissionVisibility() {
	e.missions.Each(func(m *mission.Mission) bool {
		switch status := e.Classify(m); {
		case m.OnGeoscape && status == core.CantBeDetected:
			e.RemoveFromGeoscape(m)
		case !m.OnGeoscape && status == core.AlwaysDetected:
			e.AddToGeoscape(m, true)
		}
		return true
	})
}

// Sweep runs one detection pass.
func (e *Engine) Sweep() bool {
	found := e.DetectNewMissions()
	e.UpdateMissionVisibility()
	return found
}

// AddToGeoscape shows m to the player and stops time. Missions that may be
// detected are only added when forced or when their UFO is tracked.
func (e *Engine) AddToGeoscape(m *mission.Mission, force bool) {
	if m.OnGeoscape {
		return
	}
	status := e.Classify(m)
	if status == core.CantBeDetected {
		return
	}
	if status == core.MayBeDetected && !force && (m.UFO == nil || !m.UFO.Detected) {
		return
	}

	m.OnGeoscape = true
	e.deps.Messages.Add("Notice", fmt.Sprintf("Alien activity has been detected in %s.", m.Location), m)
	e.deps.Clock.Stop()
}

// RemoveFromGeoscape hides m from the player.
func (e *Engine) RemoveFromGeoscape(m *mission.Mission) {
	if !m.OnGeoscape && m.Category != core.CategoryBaseAttack {
		return
	}
	e.detach(m)
}

func (e *Engine) detach(m *mission.Mission) {
	m.OnGeoscape = false
	e.notifyMissionRemoved(m)
	if m.Category == core.CategoryBaseAttack && m.Stage == core.StageBaseAttack {
		e.releaseAttackedBase(m)
	}
}
