package bridge

import (
	"errors"
	"strings"

	"github.com/grafana/regexp"
)

// Pattern is a registered address pattern: either an exact address, or a
// fixed prefix with a single trailing '*' that captures exactly one path
// segment ('/transport/*' matches '/transport/play' but not
// '/transport/deep/play'). Patterns are compiled once at startup and are
// read-only afterwards.
type Pattern struct {
	str    string
	exact  bool
	regExp *regexp.Regexp
}

// NewPattern compiles a pattern string. A '*' is only allowed as the final
// path segment.
func NewPattern(str string) (*Pattern, error) {
	if !strings.HasPrefix(str, "/") {
		return nil, errors.New("pattern must start with a leading slash")
	}
	star := strings.IndexByte(str, '*')
	if star == -1 {
		return &Pattern{str: str, exact: true}, nil
	}
	if star != len(str)-1 || !strings.HasSuffix(str, "/*") {
		return nil, errors.New("wildcard must be the entire final segment")
	}
	prefix := str[:len(str)-1] // keep the trailing slash
	re, err := regexp.Compile("^" + regexp.QuoteMeta(prefix) + "([^/]+)$")
	if err != nil {
		return nil, err
	}
	return &Pattern{str: str, regExp: re}, nil
}

// Exact reports whether the pattern matches a single literal address.
func (p *Pattern) Exact() bool { return p.exact }

// Match compares an address to the pattern. For wildcard patterns the
// captured segment is returned; for exact patterns the last path segment
// of the pattern itself serves as the fixed key.
func (p *Pattern) Match(addr string) (string, bool) {
	if p.exact {
		if addr != p.str {
			return "", false
		}
		return lastSegment(p.str), true
	}
	m := p.regExp.FindStringSubmatch(addr)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// String returns the pattern's source string.
func (p *Pattern) String() string { return p.str }

func lastSegment(addr string) string {
	if i := strings.LastIndexByte(addr, '/'); i >= 0 {
		return addr[i+1:]
	}
	return addr
}
