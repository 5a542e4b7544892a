// Package selection picks what a mission spawns with: its UFO, its alien
// roster and equipment, its headcount and its battle map.
//
// All picks are uniform among the candidates the content tables allow for the
// mission's category and interest snapshot. An empty candidate set is a
// content error, never a silent skip.
package selection

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/ufoai/geoscape/internal/content"
	"github.com/ufoai/geoscape/internal/rng"
	"github.com/ufoai/geoscape/pkg/core"
)

var (
	ErrWrongCategory  = errors.New("wrong mission category")
	ErrNoUFOAvailable = errors.New("no UFO type available")
	ErrNoAlienTeam    = errors.New("no alien team available")
	ErrNoEquipment    = errors.New("no alien equipment available")
	ErrNoMap          = errors.New("no map available")
)

const (
	// typical average XVI rate for missions spreading from the ground
	xviParam             = 10.0
	minGroundProbability = 0.1

	minAliens = 4
)

// CanSpawnFromGround reports whether missions of category c may start
// without a UFO.
func CanSpawnFromGround(c core.Category) bool {
	switch c {
	case core.CategoryRecon, core.CategoryTerrorAttack, core.CategoryBaseAttack, core.CategoryXVI:
		return true
	}
	return false
}

// GroundProbability is the chance a ground-capable mission spawns without a
// UFO. It rises with the average XVI rate and stays within [0.1, 1].
func GroundProbability(xviRate float64) float64 {
	p := 1 - math.Exp(-xviRate/xviParam)
	return math.Min(1, math.Max(minGroundProbability, p))
}

// ChooseUFO returns the UFO type a mission arrives with, or "" when the
// mission spawns from the ground. One draw decides both.
func ChooseUFO(t *content.Tables, c core.Category, initialOverall int, xviRate float64, r rng.Source) (string, error) {
	if !c.Valid() || c == core.CategoryAlienBase || c == core.CategoryRescue {
		return "", fmt.Errorf("choose ufo: %w %s", ErrWrongCategory, c)
	}

	draw := r.Float64()

	ground := 0.0
	if CanSpawnFromGround(c) {
		ground = GroundProbability(xviRate)
		if draw < ground {
			return "", nil
		}
	}

	types := t.AvailableUFOs(c, initialOverall)
	if len(types) == 0 {
		return "", fmt.Errorf("choose ufo: %w for %s at interest %d", ErrNoUFOAvailable, c, initialOverall)
	}

	idx := int(float64(len(types)) * (draw - ground) / (1 - ground))
	if idx >= len(types) {
		idx = len(types) - 1
	}
	return types[idx], nil
}

// SetAlienTeamByInterest picks a team group among all groups of the alien
// categories fighting in missions of category c whose interest bracket
// contains the snapshot.
func SetAlienTeamByInterest(t *content.Tables, c core.Category, initialOverall int, r rng.Source) (*content.AlienTeamGroup, error) {
	var candidates []*content.AlienTeamGroup
	for ci := range t.AlienCategories {
		cat := &t.AlienCategories[ci]
		if !slices.Contains(cat.MissionCategories, c) {
			continue
		}
		for gi := range cat.Groups {
			g := &cat.Groups[gi]
			if initialOverall >= g.MinInterest && initialOverall < g.MaxInterest {
				candidates = append(candidates, g)
			}
		}
	}

	if len(candidates) == 0 {
		return nil, fmt.Errorf("alien team: %w for %s at interest %d", ErrNoAlienTeam, c, initialOverall)
	}
	return candidates[r.Intn(len(candidates))], nil
}

// SetAlienEquipmentByInterest picks an equipment pack for the team group.
func SetAlienEquipmentByInterest(t *content.Tables, group *content.AlienTeamGroup, initialOverall int, r rng.Source) (*content.EquipmentDef, error) {
	if group == nil || group.CategoryIdx < 0 || group.CategoryIdx >= len(t.AlienCategories) {
		return nil, fmt.Errorf("alien equipment: %w: no team group", ErrNoEquipment)
	}
	pack := t.AlienCategories[group.CategoryIdx].Equipment

	var candidates []*content.EquipmentDef
	for i := range t.Equipment {
		if t.Equipment[i].Selectable(initialOverall, pack) {
			candidates = append(candidates, &t.Equipment[i])
		}
	}

	if len(candidates) == 0 {
		return nil, fmt.Errorf("alien equipment: %w for pack %v at interest %d", ErrNoEquipment, pack, initialOverall)
	}
	return candidates[r.Intn(len(candidates))], nil
}

// CreateAlienTeam returns the number of aliens on the battlefield. A zero
// maxTeamSize means the UFO sets no limit.
func CreateAlienTeam(overall, maxTeamSize, mapMaxAliens int, r rng.Source) int {
	n := max(minAliens, minAliens+overall/50+r.Intn(3)-1)
	if maxTeamSize > 0 && n > maxTeamSize {
		n = maxTeamSize
	}
	if n > mapMaxAliens {
		n = mapMaxAliens
	}
	return n
}

// ChooseMap picks a battle map for category c. ufoType is the UFO that will
// sit on the battlefield, "" for none.
func ChooseMap(t *content.Tables, c core.Category, ufoType string, r rng.Source) (*content.MapDef, error) {
	var candidates []*content.MapDef
	for i := range t.Maps {
		if t.Maps[i].Usable(c, ufoType) {
			candidates = append(candidates, &t.Maps[i])
		}
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("choose map: %w for %s (ufo %q)", ErrNoMap, c, ufoType)
	}
	return candidates[r.Intn(len(candidates))], nil
}
