package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Server owns the listener, the route table and the worker pool.
type Server struct {
	cfg    Config
	router *Router
	logger zerolog.Logger
	exit   func(int)
}

func NewServer(cfg Config) *Server {
	cfg.setDefaults()
	router := NewRouter(cfg.Logger.With().Str("component", "router").Logger())
	router.repanic = cfg.FailFast
	return &Server{
		cfg:    cfg,
		router: router,
		logger: cfg.Logger,
		exit:   os.Exit,
	}
}

func (s *Server) Router() *Router {
	return s.router
}

// HandleFunc registers a callback. Must be called before Run.
func (s *Server) HandleFunc(pattern string, f func(*Request) *Response) {
	s.router.RegisterFunc(pattern, f)
}

// HandleFile registers a static file. Must be called before Run.
func (s *Server) HandleFile(pattern, name string) {
	s.router.RegisterFile(pattern, name)
}

// Run listens on the configured address and serves with n workers until
// ctx is cancelled.
func (s *Server) Run(ctx context.Context, n int) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln, n)
}

// Serve accepts on ln and hands connections to n workers through a bounded
// queue. It returns nil once ctx is cancelled and every worker has
// finished, or the accept error that stopped the listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener, n int) error {
	defer ln.Close()
	if n < 1 {
		return fmt.Errorf("need at least one worker, got %d", n)
	}
	s.router.freeze()

	conns := make(chan net.Conn, s.cfg.QueueSize)
	outcomes := make(chan Outcome, n)

	var wg sync.WaitGroup
	wg.Add(n)
	for id := 0; id < n; id++ {
		NewWorker(id, s, conns, outcomes).Start(ctx, &wg)
	}

	collected := make(chan struct{})
	go func() {
		defer close(collected)
		s.collect(outcomes)
	}()

	stop := context.AfterFunc(ctx, func() { ln.Close() })
	defer stop()

	s.logger.Info().
		Str("addr", ln.Addr().String()).
		Int("workers", n).
		Int("queue", cap(conns)).
		Msg("listening")

	err := s.acceptLoop(ctx, ln, conns)

	close(conns)
	wg.Wait()
	close(outcomes)
	<-collected
	return err
}

func (s *Server) acceptLoop(ctx context.Context, ln net.Listener, conns chan<- net.Conn) error {
	var tempDelay time.Duration
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return err
			}
			if tempDelay == 0 {
				tempDelay = 5 * time.Millisecond
			} else {
				tempDelay *= 2
			}
			if tempDelay > time.Second {
				tempDelay = time.Second
			}
			s.logger.Error().Err(err).Dur("retry_in", tempDelay).Msg("couldn't start client connection")
			select {
			case <-time.After(tempDelay):
			case <-ctx.Done():
				return nil
			}
			continue
		}
		tempDelay = 0

		select {
		case conns <- conn:
		default:
			s.shed(conn)
		}
	}
}

// shed answers 503 on a connection the queue has no room for.
func (s *Server) shed(conn net.Conn) {
	defer conn.Close()
	s.logger.Warn().Str("client", remoteAddr(conn)).Msg("accept queue full, rejecting connection")
	res := Unavailable()
	finalize(res)
	conn.SetWriteDeadline(time.Now().Add(time.Second))
	if err := WriteResponse(conn, res, s.cfg.LineEnding); err != nil {
		s.logger.Debug().Err(err).Msg("couldn't send 503")
	}
}

func (s *Server) collect(outcomes <-chan Outcome) {
	for o := range outcomes {
		s.report(o)
	}
}

func (s *Server) report(o Outcome) {
	if o.Err == nil {
		return
	}
	if errors.Is(o.Err, context.Canceled) {
		s.logger.Debug().Int("worker", o.Worker).Str("client", o.Client).Msg("connection dropped on shutdown")
		return
	}
	ev := s.logger.Error().Int("worker", o.Worker).Str("client", o.Client).Err(o.Err)
	var pe *PanicError
	if errors.As(o.Err, &pe) {
		ev = ev.Bytes("stack", pe.Stack)
		if s.cfg.FailFast {
			ev.Msg("worker panicked, ending server")
			s.exit(1)
			return
		}
		ev.Msg("worker panicked, connection dropped")
		return
	}
	ev.Msg("connection failed")
}
