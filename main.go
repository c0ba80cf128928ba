package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/rs/zerolog"
)

var (
	host         = flag.String("host", "127.0.0.1", "address to bind")
	staticDir    = flag.String("static", "./static", "directory holding the demo pages")
	maxRequest   = flag.Int("max-request", DefaultMaxRequestSize, "maximum request size in bytes, headers and body included")
	queueSize    = flag.Int("queue", defaultQueueSize, "accepted connections waiting for a worker before new ones get 503")
	readTimeout  = flag.Duration("read-timeout", 0, "per-connection read deadline, 0 for none")
	writeTimeout = flag.Duration("write-timeout", 0, "per-connection write deadline, 0 for none")
	eol          = flag.String("eol", "crlf", "response line terminator: crlf or lf")
	failFast     = flag.Bool("fail-fast", false, "exit the process when a worker panics")
	pretty       = flag.Bool("pretty", false, "human readable logs")
	logLevel     = flag.String("log-level", "info", "log level")
)

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "[USAGE] %s [flags] <PORT> <THREAD_QTY>\n", os.Args[0])
	flag.PrintDefaults()
}

// parseArgs validates the two positional arguments.
func parseArgs(args []string) (port string, workers int, err error) {
	if len(args) != 2 {
		return "", 0, fmt.Errorf("expected 2 arguments, got %d", len(args))
	}
	p, err := strconv.ParseUint(args[0], 10, 16)
	if err != nil || p == 0 {
		return "", 0, fmt.Errorf("invalid port %q", args[0])
	}
	workers, err = strconv.Atoi(args[1])
	if err != nil || workers < 1 {
		return "", 0, fmt.Errorf("invalid thread quantity %q", args[1])
	}
	return args[0], workers, nil
}

func newLogger() (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(*logLevel)
	if err != nil {
		return zerolog.Logger{}, err
	}
	var logger zerolog.Logger
	if *pretty {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		logger = zerolog.New(os.Stderr)
	}
	return logger.Level(level).With().Timestamp().Logger(), nil
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, err)
	flag.Usage()
	os.Exit(2)
}

func main() {
	flag.Usage = usage
	flag.Parse()

	port, workers, err := parseArgs(flag.Args())
	if err != nil {
		fail(err)
	}
	lineEnding, err := parseLineEnding(*eol)
	if err != nil {
		fail(err)
	}
	logger, err := newLogger()
	if err != nil {
		fail(err)
	}

	s := NewServer(Config{
		Addr:           net.JoinHostPort(*host, port),
		MaxRequestSize: *maxRequest,
		QueueSize:      *queueSize,
		ReadTimeout:    *readTimeout,
		WriteTimeout:   *writeTimeout,
		LineEnding:     lineEnding,
		FailFast:       *failFast,
		Logger:         logger,
	})
	registerRoutes(s, *staticDir)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := s.Run(ctx, workers); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
	logger.Info().Msg("server stopped")
}
