package logger

import (
	"log/slog"
	"sort"
)

// Log format constants.
const (
	FormatJSON = "json"
	FormatText = "text"
)

// LoggingConfigSpec mirrors config.LoggingSpec without importing it.
type LoggingConfigSpec struct {
	DefaultLevel string
	Format       string
	CommonFields map[string]string
}

// Configure rebuilds DefaultLogger from cfg. A nil cfg leaves the logger untouched.
func Configure(cfg *LoggingConfigSpec) {
	if cfg == nil {
		return
	}

	level := slog.LevelInfo
	if cfg.DefaultLevel != "" {
		level = ParseLevel(cfg.DefaultLevel)
	}

	keys := make([]string, 0, len(cfg.CommonFields))
	for k := range cfg.CommonFields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	commonFields := make([]slog.Attr, 0, len(keys))
	for _, k := range keys {
		commonFields = append(commonFields, slog.String(k, cfg.CommonFields[k]))
	}

	opts := &slog.HandlerOptions{Level: level}
	var base slog.Handler
	if cfg.Format == FormatJSON {
		base = slog.NewJSONHandler(logOutput, opts)
	} else {
		base = slog.NewTextHandler(logOutput, opts)
	}

	DefaultLogger = slog.New(NewContextHandler(base, commonFields...))
}
