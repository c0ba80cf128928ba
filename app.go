package main

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// registerRoutes wires the demo login site.
func registerRoutes(s *Server, staticDir string) {
	s.HandleFile("/index.html", filepath.Join(staticDir, "index.html"))
	s.HandleFunc("/", func(*Request) *Response {
		return Redirect("/index.html")
	})
	s.HandleFile("/login", filepath.Join(staticDir, "login.html"))
	s.HandleFunc("/api/login", loginHandler)
	s.HandleFunc("/api/tests", testsHandler)
}

func loginHandler(req *Request) *Response {
	if req.Method != MethodPost {
		return InternalError("Only post requests are allowed")
	}
	body, err := ParseParams(req.Body)
	if err != nil {
		return InternalError("Couldn't parse body parameters")
	}
	email, ok := body["email"]
	if !ok {
		return InternalError("Missing email")
	}
	password, ok := body["password"]
	if !ok {
		return InternalError("Missing password")
	}
	return OK(fmt.Sprintf("Email: %s, Password: %s\n", email, password))
}

// testsHandler echoes the method and the merged query and body
// parameters, body winning on conflicts.
func testsHandler(req *Request) *Response {
	params, err := req.Path.Params()
	if err != nil {
		return InternalError("Couldn't parse query parameters")
	}
	body, err := ParseParams(req.Body)
	if err != nil {
		return InternalError("Couldn't parse body parameters")
	}
	for k, v := range body {
		params[k] = v
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	fmt.Fprintf(&b, "Method: %s\n", req.Method)
	for _, k := range keys {
		fmt.Fprintf(&b, "%s: %s\n", k, params[k])
	}
	return OK(b.String())
}
