// Package campaign assembles a playable campaign: the in-memory world, the
// mission engine and the debug console, plus save and load.
package campaign

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/ufoai/geoscape/internal/content"
	"github.com/ufoai/geoscape/internal/dispatcher"
	"github.com/ufoai/geoscape/internal/geoscape"
	"github.com/ufoai/geoscape/internal/interest"
	"github.com/ufoai/geoscape/internal/rng"
	"github.com/ufoai/geoscape/internal/savegame"
	"github.com/ufoai/geoscape/internal/world"
)

// CmdUFORecovery is the trigger a won battle with a UFO on the field runs.
const CmdUFORecovery = "cp_uforecovery_init"

// Options configure a new campaign. Zero values pick the built-in content
// and scenario and a crypto seed.
type Options struct {
	Seed          int64
	Difficulty    int
	Tables        *content.Tables
	Scenario      *world.Scenario
	Logger        *slog.Logger
	// ConsoleLogger logs console commands; Logger is used when nil.
	ConsoleLogger dispatcher.Logger
	Listeners     []geoscape.Notifier
}

// Recovery is a UFO the player gets to salvage.
type Recovery struct {
	UFO       string  `json:"ufo"`
	Condition float64 `json:"condition"`
}

// Campaign is one running game.
type Campaign struct {
	Seed    int64
	Tables  *content.Tables
	World   *world.World
	Engine  *geoscape.Engine
	Console *dispatcher.Dispatcher

	log *slog.Logger

	mu         sync.Mutex
	recoveries []Recovery
}

// New builds the world and the engine. Call Engine.NewCampaign or Load
// before running it.
func New(opts Options) (*Campaign, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	var err error
	tables := opts.Tables
	if tables == nil {
		if tables, err = content.Default(); err != nil {
			return nil, err
		}
	}
	scn := opts.Scenario
	if scn == nil {
		if scn, err = world.DefaultScenario(); err != nil {
			return nil, err
		}
	}
	seed := opts.Seed
	if seed == 0 {
		if seed, err = rng.NewSeed(); err != nil {
			return nil, err
		}
	}
	r := rng.New(seed)

	w, err := world.New(scn, tables, r, log)
	if err != nil {
		return nil, fmt.Errorf("build world: %w", err)
	}

	var consoleLog dispatcher.Logger = log
	if opts.ConsoleLogger != nil {
		consoleLog = opts.ConsoleLogger
	}
	console, err := dispatcher.New(consoleLog)
	if err != nil {
		return nil, fmt.Errorf("create console: %w", err)
	}

	c := &Campaign{Seed: seed, Tables: tables, World: w, Console: console, log: log}
	listeners := append([]geoscape.Notifier{w.Selection}, opts.Listeners...)
	c.Engine, err = geoscape.New(geoscape.Dependencies{
		Tables:        tables,
		Interest:      interest.NewTracker(opts.Difficulty),
		Rand:          r,
		Logger:        log,
		Clock:         w.Clock,
		Bases:         w.Bases,
		Installations: w.Installations,
		Aircraft:      w.Aircraft,
		AlienBases:    w.AlienBases,
		UFOs:          w.Fleet,
		Radar:         w.Radar,
		XVI:           w.XVI,
		Geography:     w.Geography,
		Messages:      w.Messages,
		Commands:      console,
		Listeners:     listeners,
	})
	if err != nil {
		return nil, err
	}

	c.Engine.RegisterCommands(console)
	console.Register(CmdUFORecovery, c.handleRecovery, dispatcher.Usage("<ufo> <condition>", 2), dispatcher.Logged())
	return c, nil
}

func (c *Campaign) handleRecovery(e dispatcher.Event) (any, error) {
	condition, err := strconv.ParseFloat(e.Args[1], 64)
	if err != nil {
		return nil, fmt.Errorf("invalid condition %q: %w", e.Args[1], err)
	}
	rec := Recovery{UFO: e.Args[0], Condition: condition}
	c.mu.Lock()
	c.recoveries = append(c.recoveries, rec)
	c.mu.Unlock()
	return rec, nil
}

// Recoveries lists the UFOs recovered so far.
func (c *Campaign) Recoveries() []Recovery {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Recovery(nil), c.recoveries...)
}

// Play runs up to seconds of game time. Events that stop the clock are
// acknowledged and play resumes, so the full span is always played.
func (c *Campaign) Play(seconds int) {
	for seconds > 0 {
		seconds -= c.Engine.Run(seconds)
		if c.World.Clock.Stopped() {
			c.World.Clock.Start()
		}
	}
}

// Save captures the engine and the world.
func (c *Campaign) Save() *savegame.Snapshot {
	snap := savegame.Save(c.Engine, c.World.Fleet)
	snap.World = c.World.State()
	return snap
}

// Load replaces the running game with snap. The saved world is rebuilt
// apart so missions can resolve their references against it; the running
// game is only replaced once the whole snapshot resolved.
func (c *Campaign) Load(snap *savegame.Snapshot) error {
	if snap == nil {
		return errors.New("load: nil snapshot")
	}
	staged, err := c.World.Stage(snap.World)
	if err != nil {
		return fmt.Errorf("restore world: %w", err)
	}
	loader := savegame.NewLoader(snap, c.Engine, c.log)
	if err := loader.Missions(staged.Lookup()); err != nil {
		return err
	}
	if err := loader.LinkUFOs(staged.Fleet()); err != nil {
		return err
	}

	c.Engine.DeleteAllMissions()
	staged.Apply()
	return loader.Commit(c.World.Clock)
}

// Close releases the engine.
func (c *Campaign) Close() error {
	return c.Engine.Shutdown()
}
