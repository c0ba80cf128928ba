package main

import (
	"context"
	"fmt"
	"net"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// ServeError is a failed exchange with one client.
type ServeError struct {
	Client string
	Op     string
	Err    error
}

func (e *ServeError) Error() string {
	return fmt.Sprintf("couldn't %s %s: %v", e.Op, e.Client, e.Err)
}

func (e *ServeError) Unwrap() error { return e.Err }

// PanicError is a panic recovered while serving one connection.
type PanicError struct {
	Client string
	Value  interface{}
	Stack  []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic serving %s: %v", e.Client, e.Value)
}

// cycle is a single request/response exchange on an accepted connection.
type cycle struct {
	srv    *Server
	ctx    context.Context
	conn   net.Conn
	client string
	logger zerolog.Logger
	start  time.Time
	req    *Request
	res    *Response
	err    error
}

type stateFunc func(*cycle) stateFunc

// serveConn runs parse, route, cookie merge, write and log on conn, then
// closes it. A panic anywhere in the cycle is returned as a *PanicError.
func (s *Server) serveConn(ctx context.Context, workerID int, conn net.Conn) (err error) {
	c := &cycle{
		srv:    s,
		ctx:    ctx,
		conn:   conn,
		client: remoteAddr(conn),
		logger: s.logger.With().Int("worker", workerID).Logger(),
		start:  time.Now(),
	}
	defer func() {
		if v := recover(); v != nil {
			conn.Close()
			err = &PanicError{Client: c.client, Value: v, Stack: debug.Stack()}
		}
	}()

	for state := waitForRequest; state != nil; {
		state = state(c)
	}
	return c.err
}

func remoteAddr(conn net.Conn) string {
	if a := conn.RemoteAddr(); a != nil {
		return a.String()
	}
	return "unknown"
}

// finalize adds the framing headers for a one-shot connection.
func finalize(res *Response) {
	if _, ok := res.Headers.GetFold("Content-Length"); !ok {
		res.Headers.Set("Content-Length", strconv.Itoa(len(res.Body)))
	}
	res.Headers.Set("Connection", "close")
}

// state funcs

func waitForRequest(c *cycle) stateFunc {
	if d := c.srv.cfg.ReadTimeout; d > 0 {
		c.conn.SetReadDeadline(time.Now().Add(d))
	}
	r := NewRequestReader(c.conn, c.srv.cfg.MaxRequestSize)
	r.Start()
	select {
	case req := <-r.RequestReceived():
		c.req = req
		return route
	case err := <-r.ErrorOccurred():
		c.err = &ServeError{c.client, "read request from", err}
		return finishCycle
	case <-c.ctx.Done():
		c.err = &ServeError{c.client, "read request from", c.ctx.Err()}
		return finishCycle
	}
}

func route(c *cycle) stateFunc {
	if c.req.RawMethod != c.req.Method.String() {
		c.logger.Warn().
			Str("client", c.client).
			Str("method", c.req.RawMethod).
			Msg("unrecognized method in request, using GET")
	}
	c.res = c.srv.router.Handle(c.req)
	return mergeCookies
}

func mergeCookies(c *cycle) stateFunc {
	if v, ok := c.req.Headers.Get("Cookie"); ok {
		c.res.SetCookie(parseCookies(v))
	}
	return sendResponse
}

func sendResponse(c *cycle) stateFunc {
	finalize(c.res)
	if d := c.srv.cfg.WriteTimeout; d > 0 {
		c.conn.SetWriteDeadline(time.Now().Add(d))
	}
	if err := WriteResponse(c.conn, c.res, c.srv.cfg.LineEnding); err != nil {
		c.err = &ServeError{c.client, "write response to", err}
	}
	return finishCycle
}

func finishCycle(c *cycle) stateFunc {
	c.conn.Close()
	if c.err != nil {
		return nil
	}
	ua, ok := c.req.UserAgent()
	if !ok {
		ua = "None"
	}
	c.logger.Info().
		Str("client", c.client).
		Str("user_agent", ua).
		Stringer("method", c.req.Method).
		Str("path", c.req.Path.String()).
		Int("status", int(c.res.Status)).
		Dur("elapsed", time.Since(c.start)).
		Msg("served")
	return nil
}
