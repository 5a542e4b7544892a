package convert

import (
	"encoding/json"
	"fmt"
	"sort"

	geom "github.com/peterstace/simplefeatures/geom"

	"github.com/ufoai/geoscape/internal/geo"
	"github.com/ufoai/geoscape/internal/model"
	"github.com/ufoai/geoscape/internal/savegame"
	"github.com/ufoai/geoscape/pkg/core"
)

// pointToPosition converts a stored web mercator point back to a campaign
// position. Empty points are unplaced.
func pointToPosition(p geom.Point) (core.Position, bool) {
	if p.IsEmpty() {
		return core.Position{}, false
	}
	pos, err := geo.PositionFrom3857(p)
	if err != nil {
		return core.Position{}, false
	}
	return pos, true
}

// SaveToSnapshot converts stored rows back to a snapshot. Missions are
// returned in registry order.
func SaveToSnapshot(s model.CampaignSave) (*savegame.Snapshot, error) {
	snap := &savegame.Snapshot{
		ID:      s.ID,
		Version: s.Version,
		SavedAt: s.SavedAt,
		Date:    core.Date{Day: s.Day, Sec: s.Sec},
	}
	if err := json.Unmarshal(s.Interest, &snap.Interest); err != nil {
		return nil, fmt.Errorf("decode interest of save %s: %w", s.ID, err)
	}
	if err := json.Unmarshal(s.Engine, &snap.Engine); err != nil {
		return nil, fmt.Errorf("decode engine of save %s: %w", s.ID, err)
	}
	if err := json.Unmarshal(s.World, &snap.World); err != nil {
		return nil, fmt.Errorf("decode world of save %s: %w", s.ID, err)
	}

	rows := append([]model.MissionRecord(nil), s.Missions...)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Ordinal < rows[j].Ordinal })
	for _, row := range rows {
		rec, err := ModelToRecord(row)
		if err != nil {
			return nil, err
		}
		snap.Missions = append(snap.Missions, rec)
	}
	return snap, nil
}

// ModelToRecord decodes one mission row.
func ModelToRecord(m model.MissionRecord) (savegame.MissionRecord, error) {
	var rec savegame.MissionRecord
	if err := json.Unmarshal(m.Record, &rec); err != nil {
		return savegame.MissionRecord{}, fmt.Errorf("decode mission %s: %w", m.MissionID, err)
	}
	return rec, nil
}

// MissionPosition returns the position stored in the row's point column.
func MissionPosition(m model.MissionRecord) (core.Position, bool) {
	return pointToPosition(m.Point)
}
