// Package content holds the read-only campaign tables: UFO types and where
// they may fly, alien teams, alien equipment and battle maps.
package content

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ufoai/geoscape/pkg/core"
)

// ErrInvalidContent is wrapped by every validation failure.
var ErrInvalidContent = errors.New("invalid campaign content")

//go:embed default.yaml
var defaultContent []byte

// UFODef describes a UFO type.
type UFODef struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	MaxTeamSize int    `yaml:"maxTeamSize"`
}

// Availability makes a UFO type legal for a mission category once the
// mission's interest snapshot reaches MinInterest.
type Availability struct {
	Category    core.Category `yaml:"category"`
	UFO         string        `yaml:"ufo"`
	MinInterest int           `yaml:"minInterest"`
}

// AlienTeamGroup is a roster usable while the interest is in
// [MinInterest, MaxInterest).
type AlienTeamGroup struct {
	Idx         int      `yaml:"-"`
	CategoryIdx int      `yaml:"-"`
	MinInterest int      `yaml:"minInterest"`
	MaxInterest int      `yaml:"maxInterest"`
	Teams       []string `yaml:"teams"`
}

// AlienTeamCategory groups rosters by the missions they fight in.
// Equipment lists id prefixes of the equipment packs the groups may carry.
type AlienTeamCategory struct {
	ID                string           `yaml:"id"`
	MissionCategories []core.Category  `yaml:"missionCategories"`
	Equipment         []string         `yaml:"equipment"`
	Groups            []AlienTeamGroup `yaml:"groups"`
}

// EquipmentDef is an alien equipment pack usable while the interest is in
// (MinInterest, MaxInterest].
type EquipmentDef struct {
	ID          string `yaml:"id"`
	MinInterest int    `yaml:"minInterest"`
	MaxInterest int    `yaml:"maxInterest"`
}

// MapDef is a tactical map. Empty Categories means any category; a non-empty
// UFOs list marks a map with a landed or crashed UFO of one of those types.
type MapDef struct {
	ID         string          `yaml:"id"`
	Map        string          `yaml:"map"`
	MaxAliens  int             `yaml:"maxAliens"`
	CivTeam    string          `yaml:"civTeam"`
	Categories []core.Category `yaml:"categories"`
	UFOs       []string        `yaml:"ufos"`
}

// Tables is the whole static content set.
type Tables struct {
	UFOs            []UFODef            `yaml:"ufos"`
	Availability    []Availability      `yaml:"availability"`
	AlienCategories []AlienTeamCategory `yaml:"alienCategories"`
	Equipment       []EquipmentDef      `yaml:"equipment"`
	Maps            []MapDef            `yaml:"maps"`
}

// Default returns the built-in content.
func Default() (*Tables, error) {
	return Parse(defaultContent)
}

// Load reads and validates a YAML content file.
func Load(path string) (*Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read content file %s: %w", path, err)
	}
	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return t, nil
}

// Parse decodes and validates YAML content.
func Parse(data []byte) (*Tables, error) {
	var t Tables
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidContent, err)
	}
	t.index()
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// index fills the back-references of team groups.
func (t *Tables) index() {
	idx := 0
	for ci := range t.AlienCategories {
		for gi := range t.AlienCategories[ci].Groups {
			t.AlienCategories[ci].Groups[gi].Idx = idx
			t.AlienCategories[ci].Groups[gi].CategoryIdx = ci
			idx++
		}
	}
}

// Validate reports every inconsistency in the tables.
func (t *Tables) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidContent}, args...)...))
	}

	seen := make(map[string]bool)
	for _, u := range t.UFOs {
		if u.ID == "" {
			fail("ufo without id")
		}
		if seen[u.ID] {
			fail("duplicate ufo %q", u.ID)
		}
		seen[u.ID] = true
	}
	for _, a := range t.Availability {
		if !a.Category.Valid() {
			fail("availability of %q has invalid category", a.UFO)
		}
		if !seen[a.UFO] {
			fail("availability references unknown ufo %q", a.UFO)
		}
	}
	for _, c := range t.AlienCategories {
		if len(c.Groups) == 0 {
			fail("alien category %q has no team groups", c.ID)
		}
		for _, g := range c.Groups {
			if g.MinInterest >= g.MaxInterest {
				fail("alien category %q has empty interest bracket [%d,%d)", c.ID, g.MinInterest, g.MaxInterest)
			}
			if len(g.Teams) == 0 {
				fail("alien category %q has a group without teams", c.ID)
			}
		}
	}
	for _, e := range t.Equipment {
		if e.MinInterest >= e.MaxInterest {
			fail("equipment %q has empty interest bracket (%d,%d]", e.ID, e.MinInterest, e.MaxInterest)
		}
	}
	mapIDs := make(map[string]bool)
	for _, m := range t.Maps {
		if mapIDs[m.ID] {
			fail("duplicate map %q", m.ID)
		}
		mapIDs[m.ID] = true
		if m.MaxAliens <= 0 {
			fail("map %q allows no aliens", m.ID)
		}
		for _, u := range m.UFOs {
			if !seen[u] {
				fail("map %q references unknown ufo %q", m.ID, u)
			}
		}
	}
	return errors.Join(errs...)
}

// UFO returns the UFO type with the given id.
func (t *Tables) UFO(id string) (*UFODef, bool) {
	for i := range t.UFOs {
		if t.UFOs[i].ID == id {
			return &t.UFOs[i], true
		}
	}
	return nil, false
}

// Map returns the map definition with the given id.
func (t *Tables) Map(id string) (*MapDef, bool) {
	for i := range t.Maps {
		if t.Maps[i].ID == id {
			return &t.Maps[i], true
		}
	}
	return nil, false
}

// AvailableUFOs lists the UFO types legal for category c at the given
// interest, in table order.
func (t *Tables) AvailableUFOs(c core.Category, interest int) []string {
	var out []string
	for _, a := range t.Availability {
		if a.Category == c && a.MinInterest <= interest && !slices.Contains(out, a.UFO) {
			out = append(out, a.UFO)
		}
	}
	return out
}

// Usable reports whether the map can host a battle of category c. ufoType is
// the landed or crashed UFO on the battlefield, or "" for none.
func (m *MapDef) Usable(c core.Category, ufoType string) bool {
	if len(m.Categories) > 0 && !slices.Contains(m.Categories, c) {
		return false
	}
	if ufoType == "" {
		return len(m.UFOs) == 0
	}
	return slices.Contains(m.UFOs, ufoType)
}

// Selectable reports whether the equipment can be used at the given interest
// by a team whose pack lists the given id prefixes.
func (e *EquipmentDef) Selectable(interest int, pack []string) bool {
	if interest <= e.MinInterest || interest > e.MaxInterest {
		return false
	}
	return slices.ContainsFunc(pack, func(prefix string) bool {
		return strings.HasPrefix(e.ID, prefix)
	})
}
