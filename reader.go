package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// DefaultMaxRequestSize bounds the request line, headers and body together.
const DefaultMaxRequestSize = 4096

var (
	ErrNoFirstLine          = errors.New("request has no first line")
	ErrMalformedRequestLine = errors.New("first line has no method or path")
	ErrHeaderNoColon        = errors.New("header has no ':' separator")
	ErrHeaderEmptyKey       = errors.New("header has an empty key")
	ErrRequestTooLarge      = errors.New("request exceeds size limit")
	ErrBadContentLength     = errors.New("invalid Content-Length")
)

// HeaderError reports the header line that stopped parsing.
type HeaderError struct {
	Line string
	Err  error
}

func (e *HeaderError) Error() string {
	return fmt.Sprintf("failed parsing headers: %v: %q", e.Err, e.Line)
}

func (e *HeaderError) Unwrap() error { return e.Err }

// ReadError wraps a failure of the underlying byte source.
type ReadError struct {
	Err error
}

func (e *ReadError) Error() string {
	return "could not receive request: " + e.Err.Error()
}

func (e *ReadError) Unwrap() error { return e.Err }

// ParseHeaderLine splits "Key: Value" on the first ':' and trims both sides.
func ParseHeaderLine(line string) (key, value string, err error) {
	k, v, ok := strings.Cut(line, ":")
	if !ok {
		return "", "", &HeaderError{line, ErrHeaderNoColon}
	}
	key = strings.TrimSpace(k)
	if key == "" {
		return "", "", &HeaderError{line, ErrHeaderEmptyKey}
	}
	return key, strings.TrimSpace(v), nil
}

type baseReader struct {
	r        *bufio.Reader
	limit    int
	consumed int
	errCh    chan error
}

func (r *baseReader) ErrorOccurred() <-chan error {
	return r.errCh
}

// readLine returns one line without its "\n" or "\r\n" terminator. Every byte
// read counts against the limit. A final line cut short by EOF is returned
// as is; io.EOF is only reported when nothing was read.
func (r *baseReader) readLine() (string, error) {
	var line []byte
	for {
		l, err := r.r.ReadSlice('\n')
		r.consumed += len(l)
		if r.consumed > r.limit {
			return "", ErrRequestTooLarge
		}
		line = append(line, l...)
		if err == bufio.ErrBufferFull {
			continue
		}
		if err == io.EOF && len(line) > 0 {
			break
		}
		if err != nil {
			return "", err
		}
		break
	}
	s := strings.TrimSuffix(string(line), "\n")
	s = strings.TrimSuffix(s, "\r")
	return strings.ToValidUTF8(s, "�"), nil
}

// readHeaders consumes lines up to the first blank one. The first malformed
// line aborts. EOF ends the header block.
func (r *baseReader) readHeaders() (Headers, error) {
	var headers Headers
	for {
		line, err := r.readLine()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(line) == "" {
			break
		}
		k, v, err := ParseHeaderLine(line)
		if err != nil {
			return nil, err
		}
		headers.Set(k, v)
	}
	return headers, nil
}

// RequestReader reads one HTTP/1.1 request, body included
type RequestReader struct {
	baseReader
	req   *Request
	reqCh chan *Request
}

func NewRequestReader(r io.Reader, limit int) *RequestReader {
	var br *bufio.Reader
	if casted, ok := r.(*bufio.Reader); ok {
		br = casted
	} else {
		br = bufio.NewReader(r)
	}
	if limit <= 0 {
		limit = DefaultMaxRequestSize
	}
	return &RequestReader{
		baseReader{br, limit, 0, make(chan error, 1)},
		&Request{},
		make(chan *Request, 1),
	}
}

// Start parses in the background and delivers exactly one value on either
// RequestReceived or ErrorOccurred. Both channels are buffered so the
// goroutine never outlives an abandoned reader.
func (r *RequestReader) Start() {
	go func() {
		req, err := r.Read()
		if err != nil {
			r.errCh <- err
			return
		}
		r.reqCh <- req
	}()
}

// Read parses synchronously.
func (r *RequestReader) Read() (*Request, error) {
	if err := r.readRequestLine(); err != nil {
		return nil, r.classify(err)
	}
	if err := r.readRequestHeaders(); err != nil {
		return nil, r.classify(err)
	}
	if err := r.readBody(); err != nil {
		return nil, r.classify(err)
	}
	return r.req, nil
}

func (r *RequestReader) RequestReceived() <-chan *Request {
	return r.reqCh
}

func (r *RequestReader) classify(err error) error {
	var he *HeaderError
	switch {
	case errors.As(err, &he),
		errors.Is(err, ErrNoFirstLine),
		errors.Is(err, ErrMalformedRequestLine),
		errors.Is(err, ErrRequestTooLarge),
		errors.Is(err, ErrBadContentLength):
		return err
	}
	var re *ReadError
	if errors.As(err, &re) {
		return err
	}
	return &ReadError{err}
}

func (r *RequestReader) readRequestLine() error {
	rl, err := r.readLine()
	if err == io.EOF {
		return ErrNoFirstLine
	}
	if err != nil {
		return err
	}
	fields := strings.Fields(rl)
	if len(fields) < 2 {
		return fmt.Errorf("%w: %q", ErrMalformedRequestLine, rl)
	}
	r.req.RawMethod = fields[0]
	r.req.Method, _ = ParseMethod(fields[0])
	r.req.Path = ParsePath(fields[1])
	if len(fields) > 2 {
		r.req.Version = fields[2]
	}
	return nil
}

func (r *RequestReader) readRequestHeaders() error {
	headers, err := r.readHeaders()
	if err == nil {
		r.req.Headers = headers
	}
	return err
}

// readBody reads exactly Content-Length bytes. Without the header the body
// is whatever already arrived after the blank line; that read never blocks.
func (r *RequestReader) readBody() error {
	cls, ok := r.req.Headers.GetFold("Content-Length")
	if !ok {
		return r.readBufferedBody()
	}
	cl, err := strconv.Atoi(strings.TrimSpace(cls))
	if err != nil || cl < 0 {
		return fmt.Errorf("%w: %q", ErrBadContentLength, cls)
	}
	if cl > r.limit-r.consumed {
		return fmt.Errorf("%w: body of %d bytes", ErrRequestTooLarge, cl)
	}
	body := make([]byte, cl)
	n, err := io.ReadFull(r.r, body)
	r.consumed += n
	if err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return &ReadError{err}
	}
	r.req.Body = strings.ToValidUTF8(string(body), "�")
	return nil
}

func (r *RequestReader) readBufferedBody() error {
	n := r.r.Buffered()
	if n == 0 {
		return nil
	}
	if n > r.limit-r.consumed {
		return fmt.Errorf("%w: body of %d bytes", ErrRequestTooLarge, n)
	}
	body, err := r.r.Peek(n)
	if err != nil {
		return &ReadError{err}
	}
	r.consumed += n
	r.req.Body = strings.ToValidUTF8(string(body), "�")
	r.r.Discard(n)
	return nil
}
