package main

import (
	"flag"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var (
	addr        = flag.String("addr", "127.0.0.1:7878", "server address")
	concurrency = flag.Int("n", 10, "number of concurrent requests")
	id          = flag.String("id", "1", "value of the id query parameter")
	timeout     = flag.Duration("timeout", 5*time.Second, "per-request timeout")
)

func main() {
	flag.Parse()
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if *concurrency < 1 {
		logger.Fatal().Int("n", *concurrency).Msg("need at least one request")
	}

	target := "http://" + *addr + "/api/tests?id=" + url.QueryEscape(*id)
	client := &http.Client{Timeout: *timeout}

	start := time.Now()
	results := run(client, target, *concurrency)
	failed := 0
	for _, r := range results {
		if !r.OK() {
			failed++
			logger.Error().Int("request", r.ID).Int("status", r.Status).Err(r.Err).Msg("request failed")
			continue
		}
		logger.Info().Int("request", r.ID).Dur("elapsed", r.Elapsed).Str("body", r.Body).Msg("request successful")
	}
	logger.Info().
		Int("requests", len(results)).
		Int("failed", failed).
		Dur("total", time.Since(start)).
		Msg("done")
	if failed > 0 {
		os.Exit(1)
	}
}
