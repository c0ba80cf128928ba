package main

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestLoginHandler(t *testing.T) {
	res := loginHandler(newTestRequest(MethodGet, "/api/login", ""))
	if res.Status != StatusInternalServerError {
		t.Errorf("got %d, want 500", res.Status)
	}
	ExpectEqual(t, "Only post requests are allowed", string(res.Body))

	res = loginHandler(newTestRequest(MethodPost, "/api/login", "email=a@b.com&password=x"))
	if res.Status != StatusOK {
		t.Errorf("got %d, want 200", res.Status)
	}
	ExpectEqual(t, "Email: a@b.com, Password: x\n", string(res.Body))

	cases := map[string]string{
		"email":                  "Couldn't parse body parameters",
		"password=x":             "Missing email",
		"email=post@example.com": "Missing password",
	}
	for body, want := range cases {
		res := loginHandler(newTestRequest(MethodPost, "/api/login", body))
		if res.Status != StatusInternalServerError {
			t.Errorf("%q: got %d, want 500", body, res.Status)
		}
		ExpectEqual(t, want, string(res.Body))
	}
}

func TestTestsHandler(t *testing.T) {
	res := testsHandler(newTestRequest(MethodPut, "/api/tests?id=7&b=query", "b=body&a=1"))
	if res.Status != StatusOK {
		t.Fatalf("got %d, want 200", res.Status)
	}
	ExpectEqual(t, "Method: PUT\na: 1\nb: body\nid: 7\n", string(res.Body))

	res = testsHandler(newTestRequest(MethodGet, "/api/tests?broken", ""))
	ExpectEqual(t, "Couldn't parse query parameters", string(res.Body))

	res = testsHandler(newTestRequest(MethodGet, "/api/tests", "broken"))
	ExpectEqual(t, "Couldn't parse body parameters", string(res.Body))
}

func TestRegisterRoutes(t *testing.T) {
	s := NewServer(Config{Logger: zerolog.Nop()})
	registerRoutes(s, "static")
	for _, p := range []string{"/", "/index.html", "/login", "/api/login", "/api/tests"} {
		if !s.Router().HasRoute(p) {
			t.Errorf("route %s missing", p)
		}
	}
	if n := s.Router().RouteCount(); n != 5 {
		t.Errorf("got %d routes, want 5", n)
	}
}
