package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// FileName is the config file looked up in the config directory.
const FileName = "geoscape.cfg.json"

// EnvPrefix prefixes environment overrides, e.g. GEOSCAPE_STORAGE_TYPE.
const EnvPrefix = "GEOSCAPE"

// MemoryConfig holds file based save storage settings
type MemoryConfig struct {
	OutputDir      string `json:"outputDir" mapstructure:"outputDir"`
	CompressOutput bool   `json:"compressOutput" mapstructure:"compressOutput"`
}

// SQLiteConfig holds the in-memory SQLite settings
type SQLiteConfig struct {
	DumpPath     string        `json:"dumpPath" mapstructure:"dumpPath"`
	DumpInterval time.Duration `json:"dumpInterval" mapstructure:"dumpInterval"`
}

// WebSocketConfig holds the save upload endpoint
type WebSocketConfig struct {
	URL    string `json:"url" mapstructure:"url"`
	Secret string `json:"secret" mapstructure:"secret"`
}

// StorageConfig selects and configures the save backend.
type StorageConfig struct {
	Type      string          `json:"type" mapstructure:"type"`
	Memory    MemoryConfig    `json:"memory" mapstructure:"memory"`
	SQLite    SQLiteConfig    `json:"sqlite" mapstructure:"sqlite"`
	WebSocket WebSocketConfig `json:"websocket" mapstructure:"websocket"`
}

// CampaignConfig holds the simulation settings.
type CampaignConfig struct {
	Seed         int64  `json:"seed" mapstructure:"seed"`
	Difficulty   int    `json:"difficulty" mapstructure:"difficulty"`
	ContentFile  string `json:"contentFile" mapstructure:"contentFile"`
	ScenarioFile string `json:"scenarioFile" mapstructure:"scenarioFile"`
	TickSeconds  int    `json:"tickSeconds" mapstructure:"tickSeconds"`
	Days         int    `json:"days" mapstructure:"days"`
	// AutosaveDays is the number of game days between two saves, 0 disables.
	AutosaveDays int `json:"autosaveDays" mapstructure:"autosaveDays"`
}

// OTelConfig holds the metrics exporter settings.
type OTelConfig struct {
	Enabled     bool          `json:"enabled" mapstructure:"enabled"`
	ServiceName string        `json:"serviceName" mapstructure:"serviceName"`
	Interval    time.Duration `json:"interval" mapstructure:"interval"`
	OutputFile  string        `json:"outputFile" mapstructure:"outputFile"`
}

// InfluxConfig holds the campaign telemetry sink settings.
type InfluxConfig struct {
	Enabled  bool   `json:"enabled" mapstructure:"enabled"`
	Host     string `json:"host" mapstructure:"host"`
	Port     string `json:"port" mapstructure:"port"`
	Protocol string `json:"protocol" mapstructure:"protocol"`
	Token    string `json:"token" mapstructure:"token"`
	Org      string `json:"org" mapstructure:"org"`
	Bucket   string `json:"bucket" mapstructure:"bucket"`
}

// URL returns the server address.
func (c InfluxConfig) URL() string {
	return fmt.Sprintf("%s://%s:%s", c.Protocol, c.Host, c.Port)
}

func setDefaults() {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./logs")

	viper.SetDefault("campaign.seed", 0)
	viper.SetDefault("campaign.difficulty", 0)
	viper.SetDefault("campaign.contentFile", "")
	viper.SetDefault("campaign.scenarioFile", "")
	viper.SetDefault("campaign.tickSeconds", 1800)
	viper.SetDefault("campaign.days", 90)
	viper.SetDefault("campaign.autosaveDays", 30)

	viper.SetDefault("storage.type", "memory")
	viper.SetDefault("storage.memory.outputDir", "./saves")
	viper.SetDefault("storage.memory.compressOutput", true)
	viper.SetDefault("storage.sqlite.dumpPath", "")
	viper.SetDefault("storage.sqlite.dumpInterval", "3m")
	viper.SetDefault("storage.websocket.url", "ws://localhost:5000/api/saves")
	viper.SetDefault("storage.websocket.secret", "")

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "geoscape")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "supersecrettoken")
	viper.SetDefault("influx.org", "geoscape")
	viper.SetDefault("influx.bucket", "campaign")

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.serviceName", "geoscape")
	viper.SetDefault("otel.interval", "10s")
	viper.SetDefault("otel.outputFile", "")

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}

// Load reads configuration from the JSON file in configDir and sets
// default values.
func Load(configDir string) error {
	setDefaults()

	viper.SetConfigName(FileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}
	return nil
}

// LoadOptional is Load, but a missing config file leaves the defaults in
// place.
func LoadOptional(configDir string) error {
	err := Load(configDir)
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		return nil
	}
	return err
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetStorageConfig returns the save backend settings.
func GetStorageConfig() StorageConfig {
	return StorageConfig{
		Type: viper.GetString("storage.type"),
		Memory: MemoryConfig{
			OutputDir:      viper.GetString("storage.memory.outputDir"),
			CompressOutput: viper.GetBool("storage.memory.compressOutput"),
		},
		SQLite: SQLiteConfig{
			DumpPath:     viper.GetString("storage.sqlite.dumpPath"),
			DumpInterval: viper.GetDuration("storage.sqlite.dumpInterval"),
		},
		WebSocket: WebSocketConfig{
			URL:    viper.GetString("storage.websocket.url"),
			Secret: viper.GetString("storage.websocket.secret"),
		},
	}
}

// GetCampaignConfig returns the simulation settings.
func GetCampaignConfig() CampaignConfig {
	return CampaignConfig{
		Seed:         viper.GetInt64("campaign.seed"),
		Difficulty:   viper.GetInt("campaign.difficulty"),
		ContentFile:  viper.GetString("campaign.contentFile"),
		ScenarioFile: viper.GetString("campaign.scenarioFile"),
		TickSeconds:  viper.GetInt("campaign.tickSeconds"),
		Days:         viper.GetInt("campaign.days"),
		AutosaveDays: viper.GetInt("campaign.autosaveDays"),
	}
}

// GetOTelConfig returns the metrics exporter settings.
func GetOTelConfig() OTelConfig {
	return OTelConfig{
		Enabled:     viper.GetBool("otel.enabled"),
		ServiceName: viper.GetString("otel.serviceName"),
		Interval:    viper.GetDuration("otel.interval"),
		OutputFile:  viper.GetString("otel.outputFile"),
	}
}

// GetInfluxConfig returns the telemetry sink settings.
func GetInfluxConfig() InfluxConfig {
	return InfluxConfig{
		Enabled:  viper.GetBool("influx.enabled"),
		Host:     viper.GetString("influx.host"),
		Port:     viper.GetString("influx.port"),
		Protocol: viper.GetString("influx.protocol"),
		Token:    viper.GetString("influx.token"),
		Org:      viper.GetString("influx.org"),
		Bucket:   viper.GetString("influx.bucket"),
	}
}
