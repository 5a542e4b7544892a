package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTableNames(t *testing.T) {
	tests := []struct {
		name     string
		model    interface{ TableName() string }
		expected string
	}{
		{"GeoscapeInfo", &GeoscapeInfo{}, "geoscape_infos"},
		{"CampaignSave", &CampaignSave{}, "campaign_saves"},
		{"MissionRecord", &MissionRecord{}, "mission_records"},
		{"CampaignDay", &CampaignDay{}, "campaign_days"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.model.TableName())
		})
	}
}

func TestDatabaseModels_AllTables(t *testing.T) {
	assert.Len(t, DatabaseModels, 4)
}
