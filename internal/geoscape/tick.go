package geoscape

import "github.com/ufoai/geoscape/pkg/core"

// Run advances the campaign by up to seconds of game time, one detection
// interval at a time. It stops early when something stopped the clock and
// returns the number of seconds actually played.
func (e *Engine) Run(seconds int) int {
	clock := e.deps.Clock
	played := 0
	for seconds > 0 && !clock.Stopped() {
		step := min(seconds, DetectionInterval-e.timer)
		before := clock.Now()
		now := clock.Advance(step)
		seconds -= step
		played += step

		e.timer += step
		sweep := e.timer >= DetectionInterval
		if sweep {
			e.timer = 0
		}
		e.periodic(step, sweep)

		for h := before.Seconds() / core.SecondsPerHour; h < now.Seconds()/core.SecondsPerHour; h++ {
			e.interest.Hourly()
		}
		for d := before.Day; d < now.Day; d++ {
			e.SpawnNewMissions()
		}

		e.CheckMissionEnd()
	}
	return played
}

func (e *Engine) periodic(dt int, sweep bool) {
	for _, u := range e.deps.UFOs.Run(dt) {
		e.UFOReachedDestination(u)
	}
	if sweep {
		e.Sweep()
	}
}
