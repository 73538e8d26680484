// Package logging configures the application-wide zerolog logger. Output
// goes to stdout in JSON; when a logstash address is configured, entries are
// mirrored to its TCP input without ever blocking request handling.
package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

func New(service, env, logstashAddr string) zerolog.Logger {
	level := zerolog.InfoLevel
	if env == "development" {
		level = zerolog.DebugLevel
	}

	var out io.Writer = os.Stdout
	if logstashAddr != "" {
		if tcp, err := NewTCPWriter(logstashAddr); err == nil {
			out = io.MultiWriter(os.Stdout, tcp)
		}
	}

	return zerolog.New(out).
		Level(level).
		With().
		Str("service", service).
		Timestamp().
		Logger()
}
