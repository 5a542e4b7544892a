package world

import (
	"maps"

	"github.com/ufoai/geoscape/pkg/core"
)

// xviPerSpread is how much one spreading mission raises a nation's level.
const xviPerSpread = 1.0

// XVI tracks the infection level of every nation.
type XVI struct {
	geo    *Geography
	levels map[string]float64
}

func NewXVI(g *Geography) *XVI {
	return &XVI{geo: g, levels: map[string]float64{}}
}

// AverageRate is the mean infection level over all nations.
func (x *XVI) AverageRate() float64 {
	n := len(x.geo.nations)
	if n == 0 {
		return 0
	}
	var sum float64
	for _, v := range x.levels {
		sum += v
	}
	return sum / float64(n)
}

// Spread infects the nation under pos. Spreading over open ocean is lost.
func (x *XVI) Spread(pos core.Position) {
	if nation := x.geo.Nation(pos); nation != "" {
		x.levels[nation] += xviPerSpread
	}
}

func (x *XVI) Level(nation string) float64 {
	return x.levels[nation]
}

func (x *XVI) Levels() map[string]float64 {
	return maps.Clone(x.levels)
}

func (x *XVI) restore(levels map[string]float64) {
	x.levels = maps.Clone(levels)
	if x.levels == nil {
		x.levels = map[string]float64{}
	}
}
