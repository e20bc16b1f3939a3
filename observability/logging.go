// Package observability carries the ambient structured-logging and
// metrics setup shared by the three supply_chain binaries.
package observability

import (
	"log/slog"
	"os"
	"strings"
)

// SetupLogging configures a JSON slog.Logger tagged with the
// component name ("processor", "ledgersync", "gateway") and installs it
// as the process default.
func SetupLogging(component string) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			if attr.Key == slog.TimeKey {
				return slog.Attr{Key: "timestamp", Value: attr.Value}
			}
			if attr.Key == slog.LevelKey {
				return slog.String("severity", strings.ToUpper(attr.Value.String()))
			}
			return attr
		},
	})
	logger := slog.New(handler).With(slog.String("component", component))
	slog.SetDefault(logger)
	return logger
}
