package main

import "strings"

type Cookie struct {
	Name  string
	Value string
}

// parseCookies reads a Cookie header value. Fragments are split on ';' and
// then on the first '='. Fragments without '=' are skipped; an empty name is
// kept as is. A repeated name keeps its first position and takes the last value.
func parseCookies(header string) []Cookie {
	var cookies []Cookie
	index := make(map[string]int)
	for _, frag := range strings.Split(header, ";") {
		name, value, ok := strings.Cut(frag, "=")
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		value = strings.TrimSpace(value)
		if i, seen := index[name]; seen {
			cookies[i].Value = value
			continue
		}
		index[name] = len(cookies)
		cookies = append(cookies, Cookie{name, value})
	}
	return cookies
}

// SetCookie folds cookies into a single Set-Cookie header, in order.
func (r *Response) SetCookie(cookies []Cookie) {
	if len(cookies) == 0 {
		return
	}
	pairs := make([]string, len(cookies))
	for i, c := range cookies {
		pairs[i] = c.Name + "=" + c.Value
	}
	r.Headers.Set("Set-Cookie", strings.Join(pairs, "; "))
}
