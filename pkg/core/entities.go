package core

// The types below are owned by their collaborator registries (bases,
// installations, aircraft, alien bases, the UFO fleet). Missions only hold
// non-owning pointers to them and never free them.

// UFO is an alien craft on (or landed on) the geoscape.
type UFO struct {
	Idx         int      `json:"idx"`
	ID          string   `json:"id"`
	Type        string   `json:"type"`
	Pos         Position `json:"pos"`
	Destination Position `json:"destination"`
	Detected    bool     `json:"detected,omitempty"`
	Spotted     bool     `json:"spotted,omitempty"`
	Landed      bool     `json:"landed,omitempty"`
	OnGeoscape  bool     `json:"onGeoscape,omitempty"`
	MaxTeamSize int      `json:"maxTeamSize"`
}

// Base is a player base.
type Base struct {
	Idx         int      `json:"idx"`
	Name        string   `json:"name"`
	Pos         Position `json:"pos"`
	UnderAttack bool     `json:"underAttack,omitempty"`
}

// Installation is a player installation (radar tower, SAM site, ...).
type Installation struct {
	Idx  int      `json:"idx"`
	Name string   `json:"name"`
	Pos  Position `json:"pos"`
}

// AlienBase is an alien base built by a building mission.
type AlienBase struct {
	Idx        int      `json:"idx"`
	Pos        Position `json:"pos"`
	Supply     int      `json:"supply"`
	Discovered bool     `json:"discovered,omitempty"`
}

// Aircraft is a player aircraft. Crashed aircraft are the target of rescue
// missions.
type Aircraft struct {
	Idx      int      `json:"idx"`
	Name     string   `json:"name"`
	Pos      Position `json:"pos"`
	HomeBase *Base    `json:"-"`
	Crashed  bool     `json:"crashed,omitempty"`
}
