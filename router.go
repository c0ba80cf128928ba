package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// Handler turns a request into a response. Failures are expressed as
// error-status responses, never as returned errors.
type Handler interface {
	Handle(req *Request) *Response
}

type HandlerFunc func(req *Request) *Response

func (f HandlerFunc) Handle(req *Request) *Response {
	return f(req)
}

// FileHandler serves one file, read fresh on every request.
type FileHandler struct {
	Name string
}

func (h FileHandler) Handle(*Request) *Response {
	return FileResponse(h.Name)
}

// FileResponse returns 404 when name cannot be opened and 500 when it
// cannot be read to the end.
func FileResponse(name string) *Response {
	f, err := os.Open(name)
	if err != nil {
		return NotFound()
	}
	defer f.Close()
	body, err := io.ReadAll(f)
	if err != nil {
		return InternalError("Could not read file")
	}
	return &Response{
		Status:  StatusOK,
		Headers: Headers{{"Content-Type", mimeType(name)}},
		Body:    body,
	}
}

// Router maps exact paths to handlers. It is filled before serving starts
// and only read afterwards, so lookups need no locking.
type Router struct {
	handlers map[string]Handler
	frozen   atomic.Bool
	logger   zerolog.Logger

	// repanic lets handler panics escape Handle instead of becoming a 500.
	repanic bool
}

func NewRouter(logger zerolog.Logger) *Router {
	return &Router{
		handlers: make(map[string]Handler),
		logger:   logger,
	}
}

var errRouterFrozen = errors.New("router: register after serving started")

// Register inserts or replaces the handler for pattern. It panics once the
// server has started.
func (rt *Router) Register(pattern string, h Handler) {
	if rt.frozen.Load() {
		panic(fmt.Errorf("%w: %q", errRouterFrozen, pattern))
	}
	if h == nil {
		panic("router: nil handler for " + pattern)
	}
	rt.handlers[pattern] = h
}

func (rt *Router) RegisterFunc(pattern string, f func(*Request) *Response) {
	rt.Register(pattern, HandlerFunc(f))
}

func (rt *Router) RegisterFile(pattern, name string) {
	rt.Register(pattern, FileHandler{name})
}

func (rt *Router) freeze() {
	rt.frozen.Store(true)
}

func (rt *Router) RouteCount() int {
	return len(rt.handlers)
}

func (rt *Router) HasRoute(pattern string) bool {
	_, ok := rt.handlers[pattern]
	return ok
}

// Handle dispatches on the main path component. A panicking handler is
// answered with an internal error unless repanic is set.
func (rt *Router) Handle(req *Request) (res *Response) {
	h, ok := rt.handlers[req.Path.Main]
	if !ok {
		return NotFound()
	}
	defer func() {
		if v := recover(); v != nil {
			rt.logger.Error().
				Str("path", req.Path.String()).
				Interface("panic", v).
				Bytes("stack", debug.Stack()).
				Msg("handler panicked")
			if rt.repanic {
				panic(v)
			}
			res = InternalError("Internal server error\n")
		}
	}()
	res = h.Handle(req)
	if res == nil {
		return InternalError("Handler returned no response\n")
	}
	return res
}
