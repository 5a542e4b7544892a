package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/Graylog2/go-gelf/gelf"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ufoai/geoscape/internal/config"
	"github.com/ufoai/geoscape/internal/logging"
	"github.com/ufoai/geoscape/pkg/core"
)

// AppName names log files, metrics and the GELF facility.
const AppName = "geoscape"

var (
	configDir string

	SessionStartTime = time.Now()

	// SlogManager owns the slog handler chain
	SlogManager = logging.NewSlogManager()
	// Logger is the application logger
	Logger = slog.Default()
	// ZLogger serves the zerolog based components: console, database, influx
	ZLogger = zerolog.Nop()

	LogFile       *os.File
	GraylogWriter *gelf.Writer

	// campaign date shown in every log record once a campaign runs
	campaignDate atomic.Pointer[core.Date]
)

var rootCmd = &cobra.Command{
	Use:           AppName,
	Short:         "Headless geoscape mission simulation",
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		teardown()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config", ".", "directory holding "+config.FileName)
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	_ = viper.BindPFlag("logLevel", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.AddCommand(simulateCmd, listCmd, inspectCmd, contentCheckCmd, migrateCmd)
}

// setup loads the configuration and builds the loggers.
func setup() error {
	if err := config.LoadOptional(configDir); err != nil {
		return err
	}

	logsDir := config.GetString("logsDir")
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return fmt.Errorf("create logs dir: %w", err)
	}
	logPath := logging.LogFilePath(logsDir, AppName, SessionStartTime)
	var err error
	LogFile, err = os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}

	var graylog logging.GelfWriter
	if config.GetBool("graylog.enabled") {
		GraylogWriter, err = logging.NewGraylogWriter(config.GetString("graylog.address"), AppName)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Graylog disabled:", err)
		} else {
			graylog = GraylogWriter
		}
	}

	SlogManager.SetDateSource(func() (core.Date, bool) {
		if d := campaignDate.Load(); d != nil {
			return *d, true
		}
		return core.Date{}, false
	})
	level := config.GetString("logLevel")
	SlogManager.Setup(LogFile, level, graylog)
	Logger = SlogManager.Logger()
	slog.SetDefault(Logger)

	ZLogger = newZerolog(LogFile, level)
	Logger.Info("Starting", "app", AppName, "log", logPath, "config", configDir)
	return nil
}

func newZerolog(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Str("app", AppName).Logger()
}

func teardown() {
	if GraylogWriter != nil {
		_ = GraylogWriter.Close()
	}
	if LogFile != nil {
		_ = LogFile.Close()
	}
}
