// pkg/core/mission.go
package core

import "fmt"

// Category is the interest category of a mission.
type Category int

const (
	CategoryNone Category = iota
	CategoryRecon
	CategoryTerrorAttack
	CategoryBaseAttack
	CategoryBuilding
	CategorySupply
	CategoryXVI
	CategoryIntercept
	CategoryHarvest
	CategoryAlienBase
	CategoryRescue
	CategoryMax
)

var categoryNames = [...]string{
	CategoryNone:         "none",
	CategoryRecon:        "recon",
	CategoryTerrorAttack: "terror_attack",
	CategoryBaseAttack:   "base_attack",
	CategoryBuilding:     "building",
	CategorySupply:       "supply",
	CategoryXVI:          "xvi",
	CategoryIntercept:    "intercept",
	CategoryHarvest:      "harvest",
	CategoryAlienBase:    "alienbase",
	CategoryRescue:       "rescue",
}

// Valid reports whether c names a real mission category.
func (c Category) Valid() bool {
	return c > CategoryNone && c < CategoryMax
}

func (c Category) String() string {
	if c >= 0 && c < CategoryMax {
		return categoryNames[c]
	}
	return fmt.Sprintf("category(%d)", int(c))
}

// MarshalText encodes the category by its symbolic name.
func (c Category) MarshalText() ([]byte, error) {
	if c < 0 || c >= CategoryMax {
		return nil, fmt.Errorf("invalid category %d", int(c))
	}
	return []byte(categoryNames[c]), nil
}

// UnmarshalText decodes a symbolic category name.
func (c *Category) UnmarshalText(b []byte) error {
	parsed, err := ParseCategory(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseCategory returns the category with the given symbolic name.
func ParseCategory(name string) (Category, error) {
	for i, n := range categoryNames {
		if n == name {
			return Category(i), nil
		}
	}
	return CategoryMax, fmt.Errorf("unknown mission category %q", name)
}

// Stage is a mission state. The ordering is significant: resolution compares
// the current stage against a category's point of no return.
type Stage int

const (
	StageNotActive Stage = iota
	StageComeFromOrbit
	StageReconAir
	StageMissionGoto
	StageReconGround
	StageTerrorMission
	StageBuildBase
	StageBaseAttack
	StageSubvertGov
	StageSupply
	StageSpreadXVI
	StageIntercept
	StageBaseDiscovered
	StageHarvest
	StageReturnToOrbit
	StageOver
	stageCount
)

var stageNames = [...]string{
	StageNotActive:      "not_active",
	StageComeFromOrbit:  "come_from_orbit",
	StageReconAir:       "recon_air",
	StageMissionGoto:    "mission_goto",
	StageReconGround:    "recon_ground",
	StageTerrorMission:  "terror_mission",
	StageBuildBase:      "build_base",
	StageBaseAttack:     "base_attack",
	StageSubvertGov:     "subvert_gov",
	StageSupply:         "supply",
	StageSpreadXVI:      "spread_xvi",
	StageIntercept:      "intercept",
	StageBaseDiscovered: "base_discovered",
	StageHarvest:        "harvest",
	StageReturnToOrbit:  "return_to_orbit",
	StageOver:           "over",
}

func (s Stage) String() string {
	if s >= 0 && s < stageCount {
		return stageNames[s]
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// MarshalText encodes the stage by its symbolic name.
func (s Stage) MarshalText() ([]byte, error) {
	if s < 0 || s >= stageCount {
		return nil, fmt.Errorf("invalid stage %d", int(s))
	}
	return []byte(stageNames[s]), nil
}

// UnmarshalText decodes a symbolic stage name.
func (s *Stage) UnmarshalText(b []byte) error {
	parsed, err := ParseStage(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseStage returns the stage with the given symbolic name.
func ParseStage(name string) (Stage, error) {
	for i, n := range stageNames {
		if n == name {
			return Stage(i), nil
		}
	}
	return stageCount, fmt.Errorf("unknown mission stage %q", name)
}

// DetectionStatus classifies whether a mission can be seen by the player.
type DetectionStatus int

const (
	CantBeDetected DetectionStatus = iota
	AlwaysDetected
	MayBeDetected
)

func (d DetectionStatus) String() string {
	switch d {
	case AlwaysDetected:
		return "always"
	case MayBeDetected:
		return "may"
	default:
		return "cant"
	}
}
