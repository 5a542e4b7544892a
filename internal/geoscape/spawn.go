package geoscape

import (
	"github.com/ufoai/geoscape/internal/interest"
	"github.com/ufoai/geoscape/pkg/core"
)

const (
	// DelayBetweenMissionSpawning is the number of days between two spawn
	// cycles.
	DelayBetweenMissionSpawning = 8

	minMissionsPerCycle = 5
	maxMissionsPerCycle = 25

	baseNonOccurrence = 0.65
	// late game non-occurrence decays over this many interest points
	nonOccurrenceScale = 30.0

	supplyInterestPerAlienBase = 0.1
)

// NonOccurrenceProbability is the chance that one spawn attempt yields no
// mission. It drops quadratically once the overall interest reached the
// end-game value.
func NonOccurrenceProbability(overall int) float64 {
	if overall < interest.FinalOverall {
		return baseNonOccurrence
	}
	d := float64(overall-interest.FinalOverall)/nonOccurrenceScale + 1
	return baseNonOccurrence / (d * d)
}

// MissionsPerCycle is the number of spawn attempts in one cycle.
func MissionsPerCycle(overall int) int {
	o := min(max(overall, interest.InitialOverall), interest.FinalOverall)
	frac := float64(o-interest.FinalOverall) / float64(interest.InitialOverall-interest.FinalOverall)
	return int(maxMissionsPerCycle + (minMissionsPerCycle-maxMissionsPerCycle)*frac*frac)
}

// SelectNewMissionType draws a category weighted by the per-category
// interest. It returns core.CategoryMax when every category is at zero.
func (e *Engine) SelectNewMissionType() core.Category {
	values := e.interest.Values()
	sum := 0
	for _, v := range values {
		sum += v
	}

	budget := int(e.rand.Float64() * float64(sum))
	i := 0
	for ; i < len(values) && budget >= 0; i++ {
		budget -= values[i]
	}
	if budget >= 0 {
		return core.CategoryMax
	}
	return core.Category(i - 1)
}

// SpawnNewMissions runs once a day. Every DelayBetweenMissionSpawning days
// it rolls a batch of new missions and returns how many were created.
func (e *Engine) SpawnNewMissions() int {
	e.lastSpawnDelay++
	if e.lastSpawnDelay <= DelayBetweenMissionSpawning {
		return 0
	}

	// alien bases draw supply missions
	if n := e.deps.AlienBases.Count(); n > 0 {
		e.applyInterest([]interestChange{{core.CategorySupply, float64(n) * supplyInterestPerAlienBase}})
	}

	overall := e.interest.Overall()
	nonOccurrence := NonOccurrenceProbability(overall)
	attempts := MissionsPerCycle(overall)

	spawned := 0
	for range attempts {
		if e.rand.Float64() <= nonOccurrence {
			continue
		}
		c := e.SelectNewMissionType()
		if !c.Valid() {
			continue
		}
		if e.CreateMission(c, false) != nil {
			spawned++
		}
	}

	e.lastSpawnDelay -= DelayBetweenMissionSpawning
	e.log.Info("spawn cycle", "attempts", attempts, "spawned", spawned, "overallInterest", overall)
	return spawned
}

// InitializeSpawningDelay primes the spawn counter so the first cycle runs
// right away.
func (e *Engine) InitializeSpawningDelay() {
	e.lastSpawnDelay = DelayBetweenMissionSpawning
	e.SpawnNewMissions()
}
