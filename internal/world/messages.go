package world

import (
	"log/slog"

	"github.com/ufoai/geoscape/internal/mission"
	"github.com/ufoai/geoscape/internal/queue"
	"github.com/ufoai/geoscape/pkg/core"
)

// messageHistory bounds the player message log.
const messageHistory = 256

// Message is one entry of the player message log.
type Message struct {
	Date      core.Date `json:"date"`
	Title     string    `json:"title"`
	Text      string    `json:"text"`
	MissionID string    `json:"missionId,omitempty"`
}

// MessageLog keeps the most recent player messages.
type MessageLog struct {
	clock *Clock
	log   *slog.Logger
	q     *queue.Queue[Message]
}

func NewMessageLog(clock *Clock, log *slog.Logger) *MessageLog {
	if log == nil {
		log = slog.Default()
	}
	return &MessageLog{clock: clock, log: log, q: queue.NewBounded[Message](messageHistory)}
}

func (l *MessageLog) Add(title, text string, m *mission.Mission) {
	msg := Message{Date: l.clock.Now(), Title: title, Text: text}
	if m != nil {
		msg.MissionID = m.ID
	}
	l.q.Push(msg)
	l.log.Info("message", "title", title, "text", text, "mission", msg.MissionID, "date", msg.Date.String())
}

// Recent returns the log without consuming it.
func (l *MessageLog) Recent() []Message {
	return l.q.Items()
}

// Drain returns and clears the log.
func (l *MessageLog) Drain() []Message {
	return l.q.GetAndEmpty()
}

func (l *MessageLog) Len() int {
	return l.q.Len()
}
