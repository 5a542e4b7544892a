package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ufoai/geoscape/internal/dispatcher"
)

var _ dispatcher.Logger = (*ConsoleLogger)(nil)

func lastEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &entry), buf.String())
	return entry
}

func TestConsoleLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	l := NewConsoleLogger(zerolog.New(&buf).Level(zerolog.DebugLevel))

	l.Debug("handler called", "command", "debug_missionlist")
	assert.Equal(t, "debug", lastEntry(t, &buf)["level"])
	l.Info("handler called", "command", "debug_missionlist")
	assert.Equal(t, "info", lastEntry(t, &buf)["level"])
	l.Error("handler failed", "command", "debug_missionadd")

	e := lastEntry(t, &buf)
	assert.Equal(t, "error", e["level"])
	assert.Equal(t, "handler failed", e["message"])
	assert.Equal(t, "debug_missionadd", e["command"])
}

func TestConsoleLogger_FieldTypes(t *testing.T) {
	var buf bytes.Buffer
	l := NewConsoleLogger(zerolog.New(&buf))

	l.Info("done",
		"missions", 3,
		"args", []string{"recon", "1"},
		"error", errors.New("no map"),
		"ratio", 0.5,
		7, "numeric key",
	)

	e := lastEntry(t, &buf)
	assert.Equal(t, float64(3), e["missions"])
	assert.Equal(t, []any{"recon", "1"}, e["args"])
	assert.Equal(t, "no map", e["error"])
	assert.Equal(t, 0.5, e["ratio"])
	assert.Equal(t, "numeric key", e["7"])
}

func TestConsoleLogger_DanglingKey(t *testing.T) {
	var buf bytes.Buffer
	NewConsoleLogger(zerolog.New(&buf)).Info("odd", "command", "x", "orphan")

	e := lastEntry(t, &buf)
	assert.Equal(t, "x", e["command"])
	assert.Equal(t, "orphan", e["!BADKEY"])
}

func TestConsoleLogger_DisabledLevel(t *testing.T) {
	var buf bytes.Buffer
	NewConsoleLogger(zerolog.New(&buf).Level(zerolog.InfoLevel)).Debug("hidden")
	assert.Zero(t, buf.Len())
}
