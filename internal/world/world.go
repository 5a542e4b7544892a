// Package world is an in-memory model of everything the mission engine
// talks to: the clock, player assets, alien bases, the UFO fleet, radar
// coverage, geography and the message log.
package world

import (
	"fmt"
	"log/slog"

	"github.com/ufoai/geoscape/internal/content"
	"github.com/ufoai/geoscape/internal/geo"
	"github.com/ufoai/geoscape/internal/rng"
	"github.com/ufoai/geoscape/pkg/core"
)

// World bundles the collaborators of one campaign.
type World struct {
	Clock         *Clock
	Geography     *Geography
	Radar         *Radar
	Bases         *Bases
	Installations *Installations
	Aircraft      *Aircraft
	AlienBases    *AlienBases
	Fleet         *Fleet
	XVI           *XVI
	Messages      *MessageLog
	Selection     *Selection
}

// New builds a world laid out by scn.
func New(scn *Scenario, tables *content.Tables, r rng.Source, log *slog.Logger) (*World, error) {
	nations := make([]*Nation, 0, len(scn.Nations))
	for _, def := range scn.Nations {
		area, err := geo.PolygonFromPairs(def.Area)
		if err != nil {
			return nil, fmt.Errorf("nation %s: %w", def.ID, err)
		}
		n, err := NewNation(def.ID, def.Name, def.Terrain, def.Civilians, area)
		if err != nil {
			return nil, err
		}
		nations = append(nations, n)
	}

	w := empty(core.NewDate(scn.Start.Day, scn.Start.Sec), nations, tables, r, log)

	for _, def := range scn.Bases {
		pos, err := geo.PositionFromString(def.Pos)
		if err != nil {
			return nil, fmt.Errorf("base %s: %w", def.Name, err)
		}
		b, err := w.Bases.Add(def.Name, pos, def.Radar)
		if err != nil {
			return nil, err
		}
		for _, name := range def.Aircraft {
			w.Aircraft.Add(name, b)
		}
	}
	for _, def := range scn.Installations {
		pos, err := geo.PositionFromString(def.Pos)
		if err != nil {
			return nil, fmt.Errorf("installation %s: %w", def.Name, err)
		}
		if _, err := w.Installations.Add(def.Name, pos, def.HP, def.Radar); err != nil {
			return nil, err
		}
	}
	return w, nil
}

func empty(start core.Date, nations []*Nation, tables *content.Tables, r rng.Source, log *slog.Logger) *World {
	g := NewGeography(nations...)
	radar := NewRadar()
	clock := NewClock(start)
	return &World{
		Clock:         clock,
		Geography:     g,
		Radar:         radar,
		Bases:         NewBases(radar),
		Installations: NewInstallations(radar),
		Aircraft:      NewAircraft(),
		AlienBases:    NewAlienBases(),
		Fleet:         NewFleet(tables, r, radar),
		XVI:           NewXVI(g),
		Messages:      NewMessageLog(clock, log),
		Selection:     NewSelection(),
	}
}
