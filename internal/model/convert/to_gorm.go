// Package convert provides functions to convert between GORM models and
// savegame snapshots
package convert

import (
	"encoding/json"
	"fmt"

	geom "github.com/peterstace/simplefeatures/geom"
	"gorm.io/datatypes"

	"github.com/ufoai/geoscape/internal/geo"
	"github.com/ufoai/geoscape/internal/geoscape"
	"github.com/ufoai/geoscape/internal/model"
	"github.com/ufoai/geoscape/internal/savegame"
)

// positionToPoint projects a campaign position to a web mercator point.
// Unplaced missions get an empty point.
func positionToPoint(rec savegame.MissionRecord) geom.Point {
	if rec.PosAssigned == nil || !*rec.PosAssigned {
		return geom.NewEmptyPoint(geom.DimXY)
	}
	pt, err := geo.Coords3857From4326(rec.Pos.Lon, rec.Pos.Lat)
	if err != nil {
		return geom.NewEmptyPoint(geom.DimXY)
	}
	return pt
}

func toJSON(v any) (datatypes.JSON, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(data), nil
}

// SnapshotToSave converts a snapshot to its GORM rows.
func SnapshotToSave(s *savegame.Snapshot) (model.CampaignSave, error) {
	interest, err := toJSON(s.Interest)
	if err != nil {
		return model.CampaignSave{}, fmt.Errorf("encode interest: %w", err)
	}
	engine, err := toJSON(s.Engine)
	if err != nil {
		return model.CampaignSave{}, fmt.Errorf("encode engine: %w", err)
	}
	world, err := toJSON(s.World)
	if err != nil {
		return model.CampaignSave{}, fmt.Errorf("encode world: %w", err)
	}

	save := model.CampaignSave{
		ID:       s.ID,
		SavedAt:  s.SavedAt,
		Version:  s.Version,
		Day:      s.Date.Day,
		Sec:      s.Date.Sec,
		Overall:  s.Interest.Overall,
		Interest: interest,
		Engine:   engine,
		World:    world,
		Missions: make([]model.MissionRecord, 0, len(s.Missions)),
	}
	for k, rec := range s.Missions {
		m, err := RecordToModel(s.ID, k, rec)
		if err != nil {
			return model.CampaignSave{}, err
		}
		save.Missions = append(save.Missions, m)
	}
	return save, nil
}

// RecordToModel converts one mission record. pos is its registry order.
func RecordToModel(saveID string, pos int, rec savegame.MissionRecord) (model.MissionRecord, error) {
	raw, err := toJSON(rec)
	if err != nil {
		return model.MissionRecord{}, fmt.Errorf("encode mission %s: %w", rec.ID, err)
	}
	return model.MissionRecord{
		SaveID:      saveID,
		Idx:         rec.Idx,
		Ordinal:     pos,
		MissionID:   rec.ID,
		Category:    rec.Category.String(),
		Stage:       rec.Stage.String(),
		MapID:       rec.Map,
		Location:    rec.Location,
		Point:       positionToPoint(rec),
		PosAssigned: rec.PosAssigned != nil && *rec.PosAssigned,
		OnGeoscape:  rec.OnGeoscape,
		Record:      raw,
	}, nil
}

// StatusToDay converts a campaign status to its daily row.
func StatusToDay(seed int64, s geoscape.Status) model.CampaignDay {
	interest, _ := toJSON(s.Interest.Individual)
	return model.CampaignDay{
		Seed:       seed,
		Day:        s.Date.Day,
		Overall:    s.Interest.Overall,
		Missions:   s.Missions,
		Active:     s.Active,
		OnGeoscape: s.OnGeoscape,
		Interest:   interest,
	}
}
