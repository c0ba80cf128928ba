package main

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidParam = errors.New("invalid parameter: no '='")

// Path is a request target split on its first '?'.
type Path struct {
	Main     string
	RawQuery string
	HasQuery bool
}

func ParsePath(s string) Path {
	main, query, found := strings.Cut(s, "?")
	return Path{Main: main, RawQuery: query, HasQuery: found}
}

func (p Path) String() string {
	if p.HasQuery {
		return p.Main + "?" + p.RawQuery
	}
	return p.Main
}

// Matches reports whether the main component equals pattern. The query
// never takes part in routing.
func (p Path) Matches(pattern string) bool {
	return p.Main == pattern
}

// Params decodes the query component. A path without a query yields an
// empty map.
func (p Path) Params() (map[string]string, error) {
	return ParseParams(p.RawQuery)
}

// ParseParams splits s on '&' and then each fragment on its first '='.
// A trailing '&' is ignored; any other fragment without '=' is an error.
// Later duplicates overwrite earlier ones. Values are not percent-decoded.
func ParseParams(s string) (map[string]string, error) {
	params := make(map[string]string)
	if s == "" {
		return params, nil
	}
	frags := strings.Split(s, "&")
	if frags[len(frags)-1] == "" {
		frags = frags[:len(frags)-1]
	}
	for _, frag := range frags {
		k, v, ok := strings.Cut(frag, "=")
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrInvalidParam, frag)
		}
		params[k] = v
	}
	return params, nil
}
