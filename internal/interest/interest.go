// Package interest tracks how interested the aliens are in the player's
// planet, overall and per mission category.
package interest

import (
	"fmt"

	"github.com/ufoai/geoscape/pkg/core"
)

const (
	// InitialOverall is the overall interest at campaign start.
	InitialOverall = 20
	// FinalOverall is the overall interest considered end-game.
	FinalOverall = 1000
	// HoursPerPoint is the base number of hours between two overall increases.
	HoursPerPoint = 22

	// slowerIncreaseFraction is the share of a gain kept once a category's
	// interest has caught up with the overall interest.
	slowerIncreaseFraction = 0.5
)

// Tracker holds the interest scalars. It is owned by the campaign and must
// not be shared across goroutines.
type Tracker struct {
	overall    int
	individual [core.CategoryMax]int

	// hours since the last overall increase
	lastIncreaseDelay int
	difficulty        int
}

// NewTracker returns a tracker in its campaign-start state.
func NewTracker(difficulty int) *Tracker {
	t := &Tracker{difficulty: difficulty}
	t.Reset()
	return t
}

// Reset restores the campaign-start values.
func (t *Tracker) Reset() {
	t.overall = InitialOverall
	t.individual = [core.CategoryMax]int{}
	t.individual[core.CategoryRecon] = 20
	t.lastIncreaseDelay = 0
}

// Overall returns the overall interest.
func (t *Tracker) Overall() int {
	return t.overall
}

// Of returns the interest of category c. Out of range categories have none.
func (t *Tracker) Of(c core.Category) int {
	if c < 0 || c >= core.CategoryMax {
		return 0
	}
	return t.individual[c]
}

// Values returns a copy of the per-category interest.
func (t *Tracker) Values() [core.CategoryMax]int {
	return t.individual
}

// Hourly advances the overall interest by one point every
// HoursPerPoint-difficulty hours.
func (t *Tracker) Hourly() {
	delay := HoursPerPoint - t.difficulty
	if delay < 1 {
		delay = 1
	}
	t.lastIncreaseDelay++
	if t.lastIncreaseDelay > delay {
		t.overall++
		t.lastIncreaseDelay %= delay
	}
}

// ChangeIndividual moves category c by percentage of the overall interest.
// Gains slow down once the category exceeds the overall value; the result is
// never negative.
func (t *Tracker) ChangeIndividual(percentage float64, c core.Category) error {
	if c < 0 || c >= core.CategoryMax {
		return fmt.Errorf("change interest: invalid category %d", int(c))
	}

	if percentage > 0 {
		gain := int(percentage * float64(t.overall))
		diff := t.overall - t.individual[c]
		switch {
		case diff > gain:
			t.individual[c] += gain
		case diff > 0:
			t.individual[c] = t.overall + int(slowerIncreaseFraction*float64(gain-diff))
		default:
			t.individual[c] += int(slowerIncreaseFraction * float64(gain))
		}
		return nil
	}

	t.individual[c] += int(percentage * float64(t.overall))
	if t.individual[c] < 0 {
		t.individual[c] = 0
	}
	return nil
}

// State is the persisted form of a tracker.
type State struct {
	Overall           int            `json:"overall"`
	Individual        map[string]int `json:"individual"`
	LastIncreaseDelay int            `json:"lastIncreaseDelay"`
}

// Snapshot returns the persisted form of the tracker.
func (t *Tracker) Snapshot() State {
	s := State{
		Overall:           t.overall,
		Individual:        make(map[string]int, core.CategoryMax),
		LastIncreaseDelay: t.lastIncreaseDelay,
	}
	for c := core.CategoryNone; c < core.CategoryMax; c++ {
		if t.individual[c] != 0 {
			s.Individual[c.String()] = t.individual[c]
		}
	}
	return s
}

// Restore replaces the tracker values with a persisted state.
func (t *Tracker) Restore(s State) error {
	var individual [core.CategoryMax]int
	for name, v := range s.Individual {
		c, err := core.ParseCategory(name)
		if err != nil {
			return fmt.Errorf("restore interest: %w", err)
		}
		individual[c] = v
	}
	t.overall = s.Overall
	t.individual = individual
	t.lastIncreaseDelay = s.LastIncreaseDelay
	return nil
}

// SetOverall overrides the overall interest (debug commands and tests).
func (t *Tracker) SetOverall(v int) {
	t.overall = v
}

// Set overrides the interest of one category (debug commands and tests).
func (t *Tracker) Set(c core.Category, v int) {
	if c >= 0 && c < core.CategoryMax {
		t.individual[c] = v
	}
}
