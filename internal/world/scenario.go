package world

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ufoai/geoscape/internal/geo"
)

//go:embed default_scenario.yaml
var defaultScenario []byte

// Scenario is the starting layout of a campaign.
type Scenario struct {
	Start         StartDef          `yaml:"start"`
	Nations       []NationDef       `yaml:"nations"`
	Bases         []BaseDef         `yaml:"bases"`
	Installations []InstallationDef `yaml:"installations"`
}

type StartDef struct {
	Day int `yaml:"day"`
	Sec int `yaml:"sec"`
}

type NationDef struct {
	ID        string      `yaml:"id"`
	Name      string      `yaml:"name"`
	Terrain   string      `yaml:"terrain"`
	Civilians int         `yaml:"civilians"`
	Area      [][]float64 `yaml:"area"`
}

// BaseDef places a base. Pos is "lon,lat".
type BaseDef struct {
	Name     string   `yaml:"name"`
	Pos      string   `yaml:"pos"`
	Radar    float64  `yaml:"radar"`
	Aircraft []string `yaml:"aircraft"`
}

type InstallationDef struct {
	Name  string  `yaml:"name"`
	Pos   string  `yaml:"pos"`
	HP    int     `yaml:"hp"`
	Radar float64 `yaml:"radar"`
}

// DefaultScenario returns the built-in scenario.
func DefaultScenario() (*Scenario, error) {
	return ParseScenario(defaultScenario)
}

// LoadScenario reads a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	s, err := ParseScenario(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func ParseScenario(data []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks that every position parses and every outline is a
// valid polygon.
func (s *Scenario) Validate() error {
	var errs []error
	if s.Start.Day < 1 {
		errs = append(errs, fmt.Errorf("start day must be at least 1, got %d", s.Start.Day))
	}
	seen := map[string]bool{}
	for _, n := range s.Nations {
		if n.ID == "" {
			errs = append(errs, errors.New("nation without id"))
			continue
		}
		if seen[n.ID] {
			errs = append(errs, fmt.Errorf("duplicate nation %s", n.ID))
		}
		seen[n.ID] = true
		if _, err := geo.PolygonFromPairs(n.Area); err != nil {
			errs = append(errs, fmt.Errorf("nation %s: %w", n.ID, err))
		}
	}
	for _, b := range s.Bases {
		if _, err := geo.PositionFromString(b.Pos); err != nil {
			errs = append(errs, fmt.Errorf("base %s: %w", b.Name, err))
		}
	}
	for _, i := range s.Installations {
		if _, err := geo.PositionFromString(i.Pos); err != nil {
			errs = append(errs, fmt.Errorf("installation %s: %w", i.Name, err))
		}
	}
	return errors.Join(errs...)
}
