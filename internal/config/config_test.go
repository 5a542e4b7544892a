package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(body), 0644))
	return dir
}

func TestLoad_WithValidConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := writeConfig(t, `{
		"logLevel": "debug",
		"campaign": { "seed": 1234, "days": 30 },
		"db": { "host": "10.0.0.1", "port": "5433" }
	}`)

	require.NoError(t, Load(dir))

	assert.Equal(t, "debug", viper.GetString("logLevel"))
	assert.Equal(t, "10.0.0.1", viper.GetString("db.host"))
	assert.Equal(t, "5433", viper.GetString("db.port"))

	cc := GetCampaignConfig()
	assert.Equal(t, int64(1234), cc.Seed)
	assert.Equal(t, 30, cc.Days)
	assert.Equal(t, 1800, cc.TickSeconds)
}

func TestLoad_DefaultValues(t *testing.T) {
	t.Cleanup(viper.Reset)

	require.NoError(t, Load(writeConfig(t, `{}`)))

	assert.Equal(t, "info", viper.GetString("logLevel"))
	assert.Equal(t, "./logs", viper.GetString("logsDir"))
	assert.Equal(t, "localhost", viper.GetString("db.host"))
	assert.Equal(t, "5432", viper.GetString("db.port"))
	assert.Equal(t, "geoscape", viper.GetString("db.database"))
	assert.Equal(t, false, viper.GetBool("graylog.enabled"))
	assert.Equal(t, "localhost:12201", viper.GetString("graylog.address"))

	cc := GetCampaignConfig()
	assert.Equal(t, int64(0), cc.Seed)
	assert.Equal(t, 0, cc.Difficulty)
	assert.Equal(t, "", cc.ContentFile)
	assert.Equal(t, 90, cc.Days)
	assert.Equal(t, 30, cc.AutosaveDays)

	ic := GetInfluxConfig()
	assert.False(t, ic.Enabled)
	assert.Equal(t, "http://localhost:8086", ic.URL())
	assert.Equal(t, "campaign", ic.Bucket)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	err := Load("/nonexistent/path")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoadOptional_MissingFileKeepsDefaults(t *testing.T) {
	t.Cleanup(viper.Reset)

	require.NoError(t, LoadOptional(t.TempDir()))
	assert.Equal(t, "memory", GetStorageConfig().Type)
}

func TestLoadOptional_BrokenFileFails(t *testing.T) {
	t.Cleanup(viper.Reset)

	assert.Error(t, LoadOptional(writeConfig(t, `{"logLevel": `)))
}

func TestLoad_EnvironmentOverride(t *testing.T) {
	t.Cleanup(viper.Reset)
	t.Setenv("GEOSCAPE_STORAGE_TYPE", "postgres")
	t.Setenv("GEOSCAPE_CAMPAIGN_DIFFICULTY", "3")

	require.NoError(t, Load(writeConfig(t, `{"storage": {"type": "sqlite"}}`)))

	assert.Equal(t, "postgres", GetStorageConfig().Type)
	assert.Equal(t, 3, GetCampaignConfig().Difficulty)
}

func TestGetString(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("testKey", "testValue")
	assert.Equal(t, "testValue", GetString("testKey"))
}

func TestGetInt(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("testInt", 42)
	assert.Equal(t, 42, GetInt("testInt"))
}

func TestGetBool(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("testBool", true)
	assert.Equal(t, true, GetBool("testBool"))
}

func TestGetStorageConfig_Defaults(t *testing.T) {
	t.Cleanup(viper.Reset)

	require.NoError(t, Load(writeConfig(t, `{}`)))

	cfg := GetStorageConfig()
	assert.Equal(t, "memory", cfg.Type)
	assert.Equal(t, "./saves", cfg.Memory.OutputDir)
	assert.Equal(t, true, cfg.Memory.CompressOutput)
	assert.Equal(t, 3*time.Minute, cfg.SQLite.DumpInterval)
	assert.Equal(t, "ws://localhost:5000/api/saves", cfg.WebSocket.URL)
}

func TestGetStorageConfig_Override(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := writeConfig(t, `{
		"storage": {
			"type": "sqlite",
			"memory": { "outputDir": "/tmp/out", "compressOutput": false },
			"sqlite": { "dumpInterval": "10m", "dumpPath": "/tmp/geoscape.db" },
			"websocket": { "url": "wss://example.org/saves", "secret": "s3cret" }
		}
	}`)
	require.NoError(t, Load(dir))

	sc := GetStorageConfig()
	assert.Equal(t, "sqlite", sc.Type)
	assert.Equal(t, "/tmp/out", sc.Memory.OutputDir)
	assert.Equal(t, false, sc.Memory.CompressOutput)
	assert.Equal(t, 10*time.Minute, sc.SQLite.DumpInterval)
	assert.Equal(t, "/tmp/geoscape.db", sc.SQLite.DumpPath)
	assert.Equal(t, "wss://example.org/saves", sc.WebSocket.URL)
	assert.Equal(t, "s3cret", sc.WebSocket.Secret)
}

func TestGetOTelConfig_Defaults(t *testing.T) {
	t.Cleanup(viper.Reset)

	require.NoError(t, Load(writeConfig(t, `{}`)))

	cfg := GetOTelConfig()
	assert.Equal(t, false, cfg.Enabled)
	assert.Equal(t, "geoscape", cfg.ServiceName)
	assert.Equal(t, 10*time.Second, cfg.Interval)
	assert.Equal(t, "", cfg.OutputFile)
}

func TestGetOTelConfig_Override(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := writeConfig(t, `{
		"otel": {
			"enabled": true,
			"serviceName": "my-service",
			"interval": "30s",
			"outputFile": "/tmp/metrics.jsonl"
		}
	}`)
	require.NoError(t, Load(dir))

	oc := GetOTelConfig()
	assert.Equal(t, true, oc.Enabled)
	assert.Equal(t, "my-service", oc.ServiceName)
	assert.Equal(t, 30*time.Second, oc.Interval)
	assert.Equal(t, "/tmp/metrics.jsonl", oc.OutputFile)
}
