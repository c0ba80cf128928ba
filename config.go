package main

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Config holds everything a Server needs besides its routes.
type Config struct {
	Addr string

	// MaxRequestSize bounds request line, headers and body together.
	// Larger requests are rejected with ErrRequestTooLarge.
	MaxRequestSize int

	// QueueSize is the capacity of the accepted-connection queue. When it
	// is full new connections are answered with 503 and closed.
	QueueSize int

	// Zero means no deadline: a silent client then holds its worker
	// until it disconnects.
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// LineEnding terminates every response line, CRLF or LF.
	LineEnding string

	// FailFast exits the process on the first worker or handler panic
	// instead of logging it and serving on.
	FailFast bool

	Logger zerolog.Logger
}

const defaultQueueSize = 64

func (c *Config) setDefaults() {
	if c.MaxRequestSize <= 0 {
		c.MaxRequestSize = DefaultMaxRequestSize
	}
	if c.QueueSize <= 0 {
		c.QueueSize = defaultQueueSize
	}
	if c.LineEnding == "" {
		c.LineEnding = CRLF
	}
}

// parseLineEnding maps the -eol flag value to a terminator.
func parseLineEnding(s string) (string, error) {
	switch s {
	case "crlf", "CRLF":
		return CRLF, nil
	case "lf", "LF":
		return LF, nil
	}
	return "", fmt.Errorf("unknown line ending %q, want crlf or lf", s)
}
