package model

import (
	"time"

	geom "github.com/peterstace/simplefeatures/geom"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

////////////////////////
// DATABASE STRUCTURES //
////////////////////////

// DatabaseModels is a list of all the structs exported here which represent tables in the database schema
var DatabaseModels = []interface{}{
	&GeoscapeInfo{},
	&CampaignSave{},
	&MissionRecord{},
	&CampaignDay{},
}

////////////////////////
// SYSTEM MODELS
////////////////////////

// GeoscapeInfo records the schema the database was created with
type GeoscapeInfo struct {
	gorm.Model
	SchemaVersion int    `json:"schemaVersion"`
	Application   string `json:"application" gorm:"size:64"`
}

func (*GeoscapeInfo) TableName() string {
	return "geoscape_infos"
}

////////////////////////
// CAMPAIGN MODELS
////////////////////////

// CampaignSave is one stored campaign snapshot. The engine, world and
// interest parts are kept as JSON documents; missions get their own rows so
// they can be queried.
type CampaignSave struct {
	ID        string         `json:"id" gorm:"primaryKey;size:36"`
	CreatedAt time.Time      `json:"createdAt"`
	DeletedAt gorm.DeletedAt `json:"deletedAt" gorm:"index"`
	SavedAt   time.Time      `json:"savedAt" gorm:"index:idx_campaign_save_saved_at"`
	Version   int            `json:"version"`
	Day       int            `json:"day" gorm:"index:idx_campaign_save_day"` // campaign date
	Sec       int            `json:"sec"`
	Overall   int            `json:"overall"` // overall alien interest
	Interest  datatypes.JSON `json:"interest"`
	Engine    datatypes.JSON `json:"engine"`
	World     datatypes.JSON `json:"world"`

	Missions []MissionRecord `json:"missions" gorm:"foreignKey:SaveID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (*CampaignSave) TableName() string {
	return "campaign_saves"
}

// MissionRecord is one mission of a stored snapshot.
type MissionRecord struct {
	SaveID      string     `json:"saveId" gorm:"primaryKey;size:36"`
	Idx         int        `json:"idx" gorm:"primaryKey;autoIncrement:false"`
	Ordinal     int        `json:"ordinal"` // order in the registry
	MissionID   string     `json:"missionId" gorm:"size:64;index:idx_mission_record_mission_id"`
	Category    string     `json:"category" gorm:"size:32;index:idx_mission_record_category"`
	Stage       string     `json:"stage" gorm:"size:32"`
	MapID       string     `json:"mapId" gorm:"size:64"`
	Location    string     `json:"location" gorm:"size:64"`
	Point       geom.Point `json:"point"` // EPSG:3857
	PosAssigned bool       `json:"posAssigned"`
	OnGeoscape  bool       `json:"onGeoscape"`
	// Record is the full mission record; the columns above are for queries.
	Record datatypes.JSON `json:"record"`
}

func (*MissionRecord) TableName() string {
	return "mission_records"
}

// CampaignDay is the once-a-day campaign status.
type CampaignDay struct {
	ID         uint           `json:"id" gorm:"primarykey"`
	Seed       int64          `json:"seed" gorm:"index:idx_campaign_day_seed"`
	Day        int            `json:"day"`
	Overall    int            `json:"overall"`
	Missions   int            `json:"missions"`
	Active     int            `json:"active"`
	OnGeoscape int            `json:"onGeoscape"`
	Interest   datatypes.JSON `json:"interest"`
}

func (*CampaignDay) TableName() string {
	return "campaign_days"
}
