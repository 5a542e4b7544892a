package logging

import (
	"context"
	"log/slog"

	"github.com/ufoai/geoscape/pkg/core"
)

// DateKey is the attribute carrying the campaign date.
const DateKey = "date"

// DateSource reports the current campaign date. ok is false until a campaign
// runs.
type DateSource func() (d core.Date, ok bool)

// dateHandler stamps records with the campaign date.
type dateHandler struct {
	next slog.Handler
	date DateSource
}

func (h dateHandler) Enabled(ctx context.Context, l slog.Level) bool {
	return h.next.Enabled(ctx, l)
}

func (h dateHandler) Handle(ctx context.Context, r slog.Record) error {
	if d, ok := h.date(); ok {
		r.AddAttrs(slog.String(DateKey, d.String()))
	}
	return h.next.Handle(ctx, r)
}

func (h dateHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return dateHandler{next: h.next.WithAttrs(attrs), date: h.date}
}

func (h dateHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return dateHandler{next: h.next.WithGroup(name), date: h.date}
}
