package websocket

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ufoai/geoscape/internal/geoscape"
	"github.com/ufoai/geoscape/internal/savegame"
	"github.com/ufoai/geoscape/pkg/streaming"
)

// Config holds WebSocket backend configuration.
type Config struct {
	URL    string
	Secret string
	// Seed identifies the campaign in the hello message.
	Seed int64
}

// Backend streams campaign saves and daily status over WebSocket to a save
// server. It implements storage.Backend but not storage.Archive.
type Backend struct {
	link *link
	cfg  Config
}

// New creates a new WebSocket storage backend.
func New(cfg Config, logger *slog.Logger) *Backend {
	if logger == nil {
		logger = slog.Default()
	}
	return &Backend{
		link: newLink(logger.With("component", "storage", "backend", "websocket")),
		cfg:  cfg,
	}
}

// Init connects to the WebSocket server and introduces the campaign.
func (b *Backend) Init() error {
	if err := b.link.open(b.cfg.URL, b.cfg.Secret); err != nil {
		return err
	}

	data, err := marshalEnvelope(streaming.TypeHello, streaming.HelloPayload{
		Application: "geoscape",
		Seed:        b.cfg.Seed,
		Version:     savegame.Version,
	})
	if err != nil {
		return err
	}

	b.link.setHello(data)
	return b.link.request(data, streaming.TypeHello, "", ackTimeout)
}

// Close disconnects from the WebSocket server.
func (b *Backend) Close() error {
	return b.link.close()
}

// marshalEnvelope builds a JSON-encoded Envelope from a message type and payload.
func marshalEnvelope(msgType string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", msgType, err)
	}
	env := streaming.Envelope{Type: msgType, Payload: raw}
	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("marshal %s envelope: %w", msgType, err)
	}
	return data, nil
}

// Save sends the snapshot and waits until the server has stored it.
func (b *Backend) Save(s *savegame.Snapshot) error {
	if s == nil || s.ID == "" {
		return errors.New("websocket save: snapshot without id")
	}
	data, err := marshalEnvelope(streaming.TypeSave, s)
	if err != nil {
		return err
	}
	return b.link.request(data, streaming.TypeSave, s.ID, ackTimeout)
}

// RecordStatus sends the daily campaign status (fire-and-forget).
func (b *Backend) RecordStatus(seed int64, s geoscape.Status) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal status: %w", err)
	}
	data, err := marshalEnvelope(streaming.TypeStatus, streaming.StatusPayload{Seed: seed, Status: raw})
	if err != nil {
		return err
	}
	if !b.link.post(data) {
		return fmt.Errorf("status for day %d dropped: outbox full", s.Date.Day)
	}
	return nil
}
