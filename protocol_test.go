package main

import "testing"

func TestParseMethod(t *testing.T) {
	known := map[string]Method{
		"GET":    MethodGet,
		"POST":   MethodPost,
		"PUT":    MethodPut,
		"DELETE": MethodDelete,
		"PATCH":  MethodPatch,
	}
	for tok, want := range known {
		m, ok := ParseMethod(tok)
		if !ok || m != want {
			t.Errorf("%s: got %v, %v", tok, m, ok)
		}
		ExpectEqual(t, tok, m.String())
	}
	for _, tok := range []string{"UNKNOWN", "HEAD", "OPTIONS", ""} {
		m, ok := ParseMethod(tok)
		if ok || m != MethodGet {
			t.Errorf("%q: got %v, %v; want GET fallback", tok, m, ok)
		}
	}
}

func TestHeadersSetKeepsOrder(t *testing.T) {
	var h Headers
	h.Set("B", "1")
	h.Set("A", "2")
	h.Set("B", "3")
	if h.Len() != 2 {
		t.Fatalf("got %d entries, want 2", h.Len())
	}
	ExpectEqual(t, "B", h[0].Key)
	ExpectEqual(t, "3", h[0].Value)
	ExpectEqual(t, "A", h[1].Key)

	if _, ok := h.Get("b"); ok {
		t.Error("Get should be case-sensitive")
	}
	if v, ok := h.GetFold("b"); !ok || v != "3" {
		t.Errorf("GetFold: got %q, %v", v, ok)
	}
}

func TestHeadersGetIsCaseSensitive(t *testing.T) {
	h := Headers{{"User-Agent", "curl/8.0"}}
	if _, ok := h.Get("user-agent"); ok {
		t.Error("Get matched a differently cased key")
	}
	if v, ok := h.GetFold("user-agent"); !ok || v != "curl/8.0" {
		t.Errorf("GetFold: got %q, %v", v, ok)
	}
	req := &Request{Headers: Headers{{"user-agent", "curl/8.0"}}}
	if _, ok := req.UserAgent(); ok {
		t.Error("lower-case user-agent should not count as User-Agent")
	}
}

func TestResponseConstructors(t *testing.T) {
	res := OK("Hello, world!")
	if res.Status != StatusOK {
		t.Errorf("got %d, want 200", res.Status)
	}
	ExpectEqual(t, "text/plain", header(t, res.Headers, "Content-Type"))
	ExpectEqual(t, "Hello, world!", string(res.Body))

	res = NotFound()
	if res.Status != StatusNotFound {
		t.Errorf("got %d, want 404", res.Status)
	}
	ExpectEqual(t, "404\n", string(res.Body))

	res = InternalError("Server error")
	if res.Status != StatusInternalServerError {
		t.Errorf("got %d, want 500", res.Status)
	}
	ExpectEqual(t, "Server error", string(res.Body))

	res = Redirect("/new-path")
	if res.Status != StatusMovedPermanently {
		t.Errorf("got %d, want 301", res.Status)
	}
	ExpectEqual(t, "/new-path", header(t, res.Headers, "Location"))
	if len(res.Body) != 0 {
		t.Errorf("redirect body should be empty, got %q", res.Body)
	}
}

func TestStatusReason(t *testing.T) {
	ExpectEqual(t, "OK", StatusOK.Reason())
	ExpectEqual(t, "Service Unavailable", StatusServiceUnavailable.Reason())
	ExpectEqual(t, "", StatusCode(299).Reason())
}
