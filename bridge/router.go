package bridge

import "fmt"

// Table identifies which mapping table a matched pattern feeds. The set is
// closed: a pattern is bound to one of these at startup or not at all.
type Table int

const (
	TableRawCC Table = iota
	TableTransport
	TableSlider
)

func (t Table) String() string {
	switch t {
	case TableRawCC:
		return "cc"
	case TableTransport:
		return "transport"
	case TableSlider:
		return "slider"
	}
	return "unknown"
}

// RouteHit is the result of a successful route: the table the pattern is
// bound to, the pattern itself, and the action key (captured wildcard
// segment, or the exact pattern's fixed key).
type RouteHit struct {
	Table   Table
	Pattern string
	Key     string
}

// Router matches decoded addresses against the registered pattern set.
// Registration happens once at startup; Route is pure and safe to call
// from any goroutine.
type Router struct {
	exact map[string]boundPattern
	wild  []boundPattern
}

type boundPattern struct {
	pattern *Pattern
	table   Table
}

// NewRouter returns an empty router.
func NewRouter() *Router {
	return &Router{exact: make(map[string]boundPattern)}
}

// Bind registers a pattern string against a mapping table.
func (r *Router) Bind(pattern string, table Table) error {
	p, err := NewPattern(pattern)
	if err != nil {
		return fmt.Errorf("bind %q: %w", pattern, err)
	}
	if p.Exact() {
		if _, ok := r.exact[pattern]; ok {
			return fmt.Errorf("bind %q: pattern already registered", pattern)
		}
		r.exact[pattern] = boundPattern{pattern: p, table: table}
		return nil
	}
	for _, w := range r.wild {
		if w.pattern.String() == pattern {
			return fmt.Errorf("bind %q: pattern already registered", pattern)
		}
	}
	r.wild = append(r.wild, boundPattern{pattern: p, table: table})
	return nil
}

// Route resolves an address to a RouteHit. Exact patterns win over
// wildcard patterns. The second return value is false when nothing
// matches; the caller treats that as informational, not an error.
func (r *Router) Route(addr string) (RouteHit, bool) {
	if b, ok := r.exact[addr]; ok {
		key, _ := b.pattern.Match(addr)
		return RouteHit{Table: b.table, Pattern: b.pattern.String(), Key: key}, true
	}
	for _, b := range r.wild {
		if key, ok := b.pattern.Match(addr); ok {
			return RouteHit{Table: b.table, Pattern: b.pattern.String(), Key: key}, true
		}
	}
	return RouteHit{}, false
}
