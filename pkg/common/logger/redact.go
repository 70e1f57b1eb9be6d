package logger

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/masq"
)

// PersonalFields are the attribute keys that carry employee PII. Their values
// never reach the log sink.
var PersonalFields = []string{"first_name", "last_name", "birth_date"}

func newRedactAttr() func([]string, slog.Attr) slog.Attr {
	opts := make([]masq.Option, 0, len(PersonalFields)+3)
	for _, name := range PersonalFields {
		opts = append(opts, masq.WithFieldName(name))
	}
	opts = append(opts,
		masq.WithFieldName("password"),
		masq.WithFieldName("dsn"),
		masq.WithFieldPrefix("secret"),
	)
	return masq.New(opts...)
}

// redactHandler applies redact to every attribute before delegating and
// drops records below level.
type redactHandler struct {
	handler slog.Handler
	redact  func([]string, slog.Attr) slog.Attr
	level   slog.Level
}

func (h *redactHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.level && h.handler.Enabled(ctx, level)
}

func (h *redactHandler) Handle(ctx context.Context, r slog.Record) error {
	clean := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		clean.AddAttrs(h.redact(nil, a))
		return true
	})
	return h.handler.Handle(ctx, clean)
}

func (h *redactHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clean := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		clean[i] = h.redact(nil, a)
	}
	return &redactHandler{handler: h.handler.WithAttrs(clean), redact: h.redact, level: h.level}
}

func (h *redactHandler) WithGroup(name string) slog.Handler {
	return &redactHandler{handler: h.handler.WithGroup(name), redact: h.redact, level: h.level}
}
