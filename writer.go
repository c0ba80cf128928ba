package main

import (
	"fmt"
	"io"
)

const (
	CRLF = "\r\n"
	LF   = "\n"
)

type WritePhase int

const (
	PhaseStatusLine WritePhase = iota
	PhaseHeaders
	PhaseSeparator
	PhaseBody
)

func (p WritePhase) String() string {
	switch p {
	case PhaseStatusLine:
		return "status line"
	case PhaseHeaders:
		return "headers"
	case PhaseSeparator:
		return "body separator"
	case PhaseBody:
		return "payload"
	}
	return "unknown"
}

// WriteError names the part of the response that could not be sent.
type WriteError struct {
	Phase WritePhase
	Err   error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed sending %s: %v", e.Phase, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// WriteResponse writes the status line, one line per header in order, a
// blank line and the body verbatim. eol terminates every line; an empty eol
// means CRLF.
func WriteResponse(w io.Writer, res *Response, eol string) error {
	if eol == "" {
		eol = CRLF
	}
	statusLine := fmt.Sprintf("HTTP/1.1 %d", int(res.Status))
	if reason := res.Status.Reason(); reason != "" {
		statusLine += " " + reason
	}
	if _, err := io.WriteString(w, statusLine+eol); err != nil {
		return &WriteError{PhaseStatusLine, err}
	}
	for _, h := range res.Headers {
		if _, err := fmt.Fprintf(w, "%s: %s%s", h.Key, h.Value, eol); err != nil {
			return &WriteError{PhaseHeaders, err}
		}
	}
	if _, err := io.WriteString(w, eol); err != nil {
		return &WriteError{PhaseSeparator, err}
	}
	if len(res.Body) == 0 {
		return nil
	}
	if _, err := w.Write(res.Body); err != nil {
		return &WriteError{PhaseBody, err}
	}
	return nil
}
