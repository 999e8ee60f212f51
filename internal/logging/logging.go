package logging

import (
	"io"
	"os"
	"strings"

	gokitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// New creates a logfmt logger on stdout filtered at the given level
func New(lvl string) gokitlog.Logger {
	return NewWithWriter(os.Stdout, lvl)
}

// NewWithWriter creates a logfmt logger writing to w with timestamp and caller
func NewWithWriter(w io.Writer, lvl string) gokitlog.Logger {
	logger := gokitlog.NewLogfmtLogger(gokitlog.NewSyncWriter(w))
	logger = level.NewFilter(logger, levelOption(lvl))
	return gokitlog.With(logger, "ts", gokitlog.DefaultTimestampUTC, "caller", gokitlog.DefaultCaller)
}

// LevelFor picks the log level for an environment unless one is set explicitly
func LevelFor(env, explicit string) string {
	if explicit != "" {
		return explicit
	}
	if env == "development" {
		return "debug"
	}
	return "info"
}

func levelOption(lvl string) level.Option {
	switch strings.ToLower(lvl) {
	case "debug":
		return level.AllowDebug()
	case "warn", "warning":
		return level.AllowWarn()
	case "error":
		return level.AllowError()
	case "none":
		return level.AllowNone()
	default:
		return level.AllowInfo()
	}
}

// Nop returns a logger that discards everything
func Nop() gokitlog.Logger {
	return gokitlog.NewNopLogger()
}
