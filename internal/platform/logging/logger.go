package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/pscheid92/taskmaster/internal/platform/correlation"
	slogmulti "github.com/samber/slog-multi"
	slogjournal "github.com/systemd/slog-journal"
)

// ParseLevel maps "debug", "info", "warn", "error" to a slog.Level (defaults to info).
func ParseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewHandler builds the handler chain writing to w.
// format: "json" or "text" (defaults to "text")
// extra handlers are fanned out alongside the primary one.
func NewHandler(w io.Writer, level, format string, extra ...slog.Handler) slog.Handler {
	opts := &slog.HandlerOptions{
		Level: ParseLevel(level),
	}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	if len(extra) > 0 {
		handler = slogmulti.Fanout(append([]slog.Handler{handler}, extra...)...)
	}

	return correlation.NewHandler(handler)
}

// InitLogger installs the process-wide slog default with the specified level and format.
// With journal set, records are also sent to systemd-journald; if the journal
// socket is unavailable a warning is logged and stdout logging continues alone.
func InitLogger(level, format string, journal bool) {
	var extra []slog.Handler
	var journalErr error
	if journal {
		jh, err := slogjournal.NewHandler(&slogjournal.Options{
			Level:        ParseLevel(level),
			ReplaceGroup: journalKey,
			ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
				a.Key = journalKey(a.Key)
				return a
			},
		})
		if err != nil {
			journalErr = err
		} else {
			extra = append(extra, jh)
		}
	}

	slog.SetDefault(slog.New(NewHandler(os.Stdout, level, format, extra...)))

	if journalErr != nil {
		slog.Warn("systemd journal unavailable, logging to stdout only", "error", journalErr)
	}
}

// journalKey maps an attribute key onto journald's field alphabet [A-Z0-9_].
func journalKey(key string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			return r
		}
		return '_'
	}, strings.ToUpper(key))
}
