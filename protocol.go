package main

import "strings"

// Method is one of the request methods the server understands.
type Method int

const (
	MethodGet Method = iota
	MethodPost
	MethodPut
	MethodDelete
	MethodPatch
)

var methodNames = [...]string{"GET", "POST", "PUT", "DELETE", "PATCH"}

func (m Method) String() string {
	if m < 0 || int(m) >= len(methodNames) {
		return "GET"
	}
	return methodNames[m]
}

// ParseMethod maps a request-line token to a Method. Unknown tokens map to
// MethodGet and ok is false so the caller can warn about the fallback.
func ParseMethod(tok string) (m Method, ok bool) {
	for i, name := range methodNames {
		if tok == name {
			return Method(i), true
		}
	}
	return MethodGet, false
}

type StatusCode int

const (
	StatusOK                  StatusCode = 200
	StatusMovedPermanently    StatusCode = 301
	StatusNotFound            StatusCode = 404
	StatusInternalServerError StatusCode = 500
	StatusServiceUnavailable  StatusCode = 503
)

var statusReasons = map[StatusCode]string{
	StatusOK:                  "OK",
	StatusMovedPermanently:    "Moved Permanently",
	StatusNotFound:            "Not Found",
	StatusInternalServerError: "Internal Server Error",
	StatusServiceUnavailable:  "Service Unavailable",
}

// Reason returns the reason phrase, or "" for codes outside the table.
func (s StatusCode) Reason() string {
	return statusReasons[s]
}

type Header struct {
	Key   string
	Value string
}

// Headers keeps insertion order so serialized output is reproducible.
// Keys are compared exactly; see GetFold for the framing headers.
// Not map[string][]string, unlike http.Header
type Headers []Header

func (h Headers) Get(key string) (string, bool) {
	for _, kv := range h {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return "", false
}

// GetFold looks a key up ignoring ASCII case.
func (h Headers) GetFold(key string) (string, bool) {
	for _, kv := range h {
		if strings.EqualFold(kv.Key, key) {
			return kv.Value, true
		}
	}
	return "", false
}

// Set replaces the value of an existing key in place or appends a new entry.
func (h *Headers) Set(key, value string) {
	for i := range *h {
		if (*h)[i].Key == key {
			(*h)[i].Value = value
			return
		}
	}
	*h = append(*h, Header{key, value})
}

func (h Headers) Len() int {
	return len(h)
}

// Request is a parsed request. It is not modified after parsing.
type Request struct {
	Method    Method
	RawMethod string
	Path      Path
	Version   string
	Headers   Headers
	Body      string
}

func (r *Request) UserAgent() (string, bool) {
	return r.Headers.Get("User-Agent")
}

type Response struct {
	Status  StatusCode
	Headers Headers
	Body    []byte
}

func plainText(status StatusCode, body string) *Response {
	return &Response{
		Status:  status,
		Headers: Headers{{"Content-Type", "text/plain"}},
		Body:    []byte(body),
	}
}

func OK(body string) *Response {
	return plainText(StatusOK, body)
}

func NotFound() *Response {
	return plainText(StatusNotFound, "404\n")
}

func InternalError(body string) *Response {
	return plainText(StatusInternalServerError, body)
}

func Unavailable() *Response {
	return plainText(StatusServiceUnavailable, "503\n")
}

func Redirect(location string) *Response {
	res := plainText(StatusMovedPermanently, "")
	res.Headers.Set("Location", location)
	return res
}
