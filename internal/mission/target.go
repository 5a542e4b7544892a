package mission

import (
	"errors"
	"fmt"

	"github.com/ufoai/geoscape/pkg/core"
)

// ErrTargetKind is returned when a payload does not fit the mission category.
var ErrTargetKind = errors.New("target kind does not match mission category")

// TargetKind tags the payload of a Target.
type TargetKind int

const (
	TargetNone TargetKind = iota
	TargetBase
	TargetInstallation
	TargetAlienBase
	TargetAircraft
)

func (k TargetKind) String() string {
	switch k {
	case TargetBase:
		return "base"
	case TargetInstallation:
		return "installation"
	case TargetAlienBase:
		return "alienbase"
	case TargetAircraft:
		return "aircraft"
	default:
		return "none"
	}
}

// TargetKindFor returns the payload kind missions of category c carry.
func TargetKindFor(c core.Category) TargetKind {
	switch c {
	case core.CategoryBaseAttack:
		return TargetBase
	case core.CategoryIntercept:
		return TargetInstallation
	case core.CategoryBuilding, core.CategorySupply, core.CategoryAlienBase:
		return TargetAlienBase
	case core.CategoryRescue:
		return TargetAircraft
	default:
		return TargetNone
	}
}

// Target is the category-specific payload of a mission: the player base
// under attack, the attacked installation, the alien base being built or
// supplied, or the crashed aircraft to rescue. The zero value carries nothing.
type Target struct {
	kind         TargetKind
	base         *core.Base
	installation *core.Installation
	alienBase    *core.AlienBase
	aircraft     *core.Aircraft
}

func BaseTarget(b *core.Base) Target {
	if b == nil {
		return Target{}
	}
	return Target{kind: TargetBase, base: b}
}

func InstallationTarget(i *core.Installation) Target {
	if i == nil {
		return Target{}
	}
	return Target{kind: TargetInstallation, installation: i}
}

func AlienBaseTarget(a *core.AlienBase) Target {
	if a == nil {
		return Target{}
	}
	return Target{kind: TargetAlienBase, alienBase: a}
}

func AircraftTarget(a *core.Aircraft) Target {
	if a == nil {
		return Target{}
	}
	return Target{kind: TargetAircraft, aircraft: a}
}

// Kind returns the payload tag.
func (t Target) Kind() TargetKind { return t.kind }

// IsZero reports whether the target carries nothing.
func (t Target) IsZero() bool { return t.kind == TargetNone }

func (t Target) Base() (*core.Base, bool) { return t.base, t.kind == TargetBase }

func (t Target) Installation() (*core.Installation, bool) {
	return t.installation, t.kind == TargetInstallation
}

func (t Target) AlienBase() (*core.AlienBase, bool) { return t.alienBase, t.kind == TargetAlienBase }

func (t Target) Aircraft() (*core.Aircraft, bool) { return t.aircraft, t.kind == TargetAircraft }

func (t Target) check(c core.Category) error {
	if t.kind == TargetNone {
		return nil
	}
	if want := TargetKindFor(c); want != t.kind {
		return fmt.Errorf("%w: %s mission cannot carry %s (wants %s)", ErrTargetKind, c, t.kind, want)
	}
	return nil
}
