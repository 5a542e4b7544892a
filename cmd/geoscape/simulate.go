package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ufoai/geoscape/internal/campaign"
	"github.com/ufoai/geoscape/internal/config"
	"github.com/ufoai/geoscape/internal/content"
	"github.com/ufoai/geoscape/internal/dispatcher"
	"github.com/ufoai/geoscape/internal/geoscape"
	"github.com/ufoai/geoscape/internal/influx"
	"github.com/ufoai/geoscape/internal/logging"
	"github.com/ufoai/geoscape/internal/monitor"
	intOtel "github.com/ufoai/geoscape/internal/otel"
	"github.com/ufoai/geoscape/internal/storage"
	"github.com/ufoai/geoscape/internal/world"
	"github.com/ufoai/geoscape/pkg/core"
)

type simulateOptions struct {
	days      int
	seed      int64
	load      string
	exec      []string
	statusDir string
}

var simOpts simulateOptions

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a campaign and save it periodically",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		cc := config.GetCampaignConfig()
		if cmd.Flags().Changed("days") {
			cc.Days = simOpts.days
		}
		if cmd.Flags().Changed("seed") {
			cc.Seed = simOpts.seed
		}
		return runSimulation(ctx, cc, simOpts, cmd.OutOrStdout())
	},
}

func init() {
	f := simulateCmd.Flags()
	f.IntVar(&simOpts.days, "days", 0, "game days to play (default campaign.days)")
	f.Int64Var(&simOpts.seed, "seed", 0, "random seed, 0 picks one (default campaign.seed)")
	f.StringVar(&simOpts.load, "load", "", "id of a stored save to continue")
	f.StringArrayVar(&simOpts.exec, "exec", nil, "console command to run before playing, repeatable")
	f.StringVar(&simOpts.statusDir, "status-dir", "", "directory of the status file (default logsDir)")
}

// loadContent reads the configured content and scenario files; empty paths
// keep the built-in ones.
func loadContent(cc config.CampaignConfig) (*content.Tables, *world.Scenario, error) {
	var (
		tables *content.Tables
		scn    *world.Scenario
		err    error
	)
	if cc.ContentFile != "" {
		if tables, err = content.Load(cc.ContentFile); err != nil {
			return nil, nil, err
		}
	}
	if cc.ScenarioFile != "" {
		if scn, err = world.LoadScenario(cc.ScenarioFile); err != nil {
			return nil, nil, err
		}
	}
	return tables, scn, nil
}

func runSimulation(ctx context.Context, cc config.CampaignConfig, opts simulateOptions, out io.Writer) error {
	tables, scn, err := loadContent(cc)
	if err != nil {
		return err
	}

	// the global meter must be in place before the console is built
	provider, metricsFile, err := setupMetrics()
	if err != nil {
		return err
	}
	defer func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			Logger.Error("Failed to shut down metrics", "error", err)
		}
		if metricsFile != nil {
			_ = metricsFile.Close()
		}
	}()
	metrics, err := intOtel.NewCampaignMetrics(provider.Meter(AppName))
	if err != nil {
		return fmt.Errorf("register campaign metrics: %w", err)
	}
	defer metrics.Close()

	c, err := campaign.New(campaign.Options{
		Seed:          cc.Seed,
		Difficulty:    cc.Difficulty,
		Tables:        tables,
		Scenario:      scn,
		Logger:        Logger,
		ConsoleLogger: logging.NewConsoleLogger(ZLogger.With().Str("component", "console").Logger()),
	})
	if err != nil {
		return err
	}
	defer c.Close()
	Logger.Info("Campaign created", "seed", c.Seed, "difficulty", cc.Difficulty)

	backend, err := createStorageBackend(config.GetStorageConfig(), c.Seed)
	if err != nil {
		return err
	}
	if err := backend.Init(); err != nil {
		return fmt.Errorf("init storage: %w", err)
	}
	defer func() {
		if err := backend.Close(); err != nil {
			Logger.Error("Failed to close storage", "error", err)
		}
	}()

	if opts.load != "" {
		if err := loadSave(c, opts.load); err != nil {
			return err
		}
	} else {
		c.Engine.NewCampaign()
	}

	for _, line := range opts.exec {
		if err := runConsole(c.Console, line, out); err != nil {
			return err
		}
	}

	recorders, closeRecorders := statusRecorders(backend)
	defer closeRecorders()

	statusDir := opts.statusDir
	if statusDir == "" {
		statusDir = config.GetString("logsDir")
	}
	mon := monitor.NewService(monitor.Dependencies{Logger: Logger, OutputDir: statusDir, Seed: c.Seed})
	if err := mon.Start(); err != nil {
		return err
	}
	defer mon.Stop()

	sim := &simulation{
		campaign:  c,
		backend:   backend,
		recorders: recorders,
		onStatus: func(st geoscape.Status) {
			mon.Update(st)
			metrics.Update(st)
		},
		tick:     cc.TickSeconds,
		autosave: cc.AutosaveDays,
		out:      out,
	}
	return sim.run(ctx, cc.Days)
}

// loadSave restores the stored save id into c.
func loadSave(c *campaign.Campaign, id string) error {
	archiveBackend, archive, err := openArchive(config.GetStorageConfig())
	if err != nil {
		return err
	}
	defer archiveBackend.Close()

	snap, err := archive.Load(id)
	if err != nil {
		return fmt.Errorf("load %s: %w", id, err)
	}
	if err := c.Load(snap); err != nil {
		return err
	}
	Logger.Info("Save loaded", "id", snap.ID, "date", snap.Date.String(), "missions", len(snap.Missions))
	return nil
}

// simulation plays a campaign day by day.
type simulation struct {
	campaign  *campaign.Campaign
	backend   storage.Backend
	recorders []storage.StatusRecorder
	onStatus  func(geoscape.Status)
	tick      int
	autosave  int
	out       io.Writer
}

func (s *simulation) run(ctx context.Context, days int) error {
	if s.tick <= 0 || s.tick > core.SecondsPerDay {
		s.tick = core.SecondsPerDay
	}

	for day := 1; day <= days; day++ {
		if err := ctx.Err(); err != nil {
			Logger.Warn("Simulation interrupted", "day", day)
			break
		}
		for left := core.SecondsPerDay; left > 0; left -= s.tick {
			s.campaign.Play(min(s.tick, left))
		}
		now := s.campaign.Engine.Now()
		campaignDate.Store(&now)

		st := s.campaign.Engine.Status()
		if err := reportStatus(ctx, s.campaign.Seed, st, s.recorders); err != nil {
			Logger.Warn("Status not recorded everywhere", "error", err)
		}
		if s.onStatus != nil {
			s.onStatus(st)
		}

		if s.autosave > 0 && day%s.autosave == 0 {
			if err := s.save(); err != nil {
				return err
			}
		}
	}
	return s.save()
}

func (s *simulation) save() error {
	snap := s.campaign.Save()
	if err := s.backend.Save(snap); err != nil {
		return fmt.Errorf("save campaign: %w", err)
	}
	Logger.Info("Campaign saved", "id", snap.ID, "missions", len(snap.Missions))
	fmt.Fprintf(s.out, "saved %s at %s (%d missions)\n", snap.ID, snap.Date, len(snap.Missions))
	return nil
}

// reportStatus hands the status to every recorder concurrently.
func reportStatus(ctx context.Context, seed int64, st geoscape.Status, recorders []storage.StatusRecorder) error {
	g, _ := errgroup.WithContext(ctx)
	for _, r := range recorders {
		g.Go(func() error {
			return r.RecordStatus(seed, st)
		})
	}
	return g.Wait()
}

// statusRecorders collects the daily status sinks: the backend when it
// records status, and InfluxDB when enabled.
func statusRecorders(backend storage.Backend) ([]storage.StatusRecorder, func()) {
	var recorders []storage.StatusRecorder
	if r, ok := backend.(storage.StatusRecorder); ok {
		recorders = append(recorders, r)
	}

	influxCfg := config.GetInfluxConfig()
	if !influxCfg.Enabled {
		return recorders, func() {}
	}
	backupPath := logging.SessionFile(config.GetString("logsDir"), AppName, SessionStartTime, ".influx.lp.gz")
	im := influx.NewManager(influxCfg, ZLogger.With().Str("component", "influx").Logger(), backupPath)
	if err := im.Connect(); err != nil {
		Logger.Error("InfluxDB unavailable", "error", err)
		return recorders, func() {}
	}
	return append(recorders, im), func() {
		if err := im.Close(); err != nil {
			Logger.Error("Failed to close InfluxDB", "error", err)
		}
	}
}

// setupMetrics builds the metrics provider and makes it global.
func setupMetrics() (*intOtel.Provider, *os.File, error) {
	otelCfg := config.GetOTelConfig()
	if !otelCfg.Enabled {
		p, err := intOtel.New(intOtel.Config{})
		return p, nil, err
	}

	path := otelCfg.OutputFile
	if path == "" {
		path = logging.SessionFile(config.GetString("logsDir"), AppName, SessionStartTime, ".metrics.json")
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		return nil, nil, fmt.Errorf("open metrics file: %w", err)
	}
	p, err := intOtel.New(intOtel.Config{
		Enabled:     true,
		ServiceName: otelCfg.ServiceName,
		Interval:    otelCfg.Interval,
		Writer:      f,
	})
	if err != nil {
		_ = f.Close()
		return nil, nil, err
	}
	p.SetGlobal()
	Logger.Info("Metrics exported", "file", path)
	return p, f, nil
}

// runConsole executes one console command line and prints its result.
func runConsole(d *dispatcher.Dispatcher, line string, out io.Writer) error {
	e, err := dispatcher.ParseLine(line)
	if err != nil {
		return err
	}
	result, err := d.Dispatch(e)
	if err != nil {
		return fmt.Errorf("%s: %w", e.Command, err)
	}
	if result == nil {
		return nil
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
