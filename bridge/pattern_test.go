package bridge

import "testing"

func TestNewPattern(t *testing.T) {
	tests := []struct {
		name        string
		pattern     string
		shouldError bool
	}{
		{
			name:        "exact address",
			pattern:     "/midi/cc",
			shouldError: false,
		},
		{
			name:        "trailing wildcard segment",
			pattern:     "/transport/*",
			shouldError: false,
		},
		{
			name:        "missing leading slash",
			pattern:     "transport/*",
			shouldError: true,
		},
		{
			name:        "wildcard in the middle",
			pattern:     "/a/*/b",
			shouldError: true,
		},
		{
			name:        "wildcard glued to a segment",
			pattern:     "/transport/pl*",
			shouldError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPattern(tt.pattern)
			if (err != nil) != tt.shouldError {
				t.Errorf("NewPattern(%q) error = %v, shouldError %v", tt.pattern, err, tt.shouldError)
			}
		})
	}
}

func TestPattern_Match(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		addr    string
		wantKey string
		wantOK  bool
	}{
		{
			name:    "wildcard captures one segment",
			pattern: "/transport/*",
			addr:    "/transport/play",
			wantKey: "play",
			wantOK:  true,
		},
		{
			name:    "wildcard rejects nested segments",
			pattern: "/transport/*",
			addr:    "/transport/deep/play",
			wantOK:  false,
		},
		{
			name:    "wildcard rejects empty segment",
			pattern: "/transport/*",
			addr:    "/transport/",
			wantOK:  false,
		},
		{
			name:    "wildcard rejects bare prefix",
			pattern: "/transport/*",
			addr:    "/transport",
			wantOK:  false,
		},
		{
			name:    "exact match returns fixed key",
			pattern: "/midi/cc",
			addr:    "/midi/cc",
			wantKey: "cc",
			wantOK:  true,
		},
		{
			name:    "exact rejects different address",
			pattern: "/midi/cc",
			addr:    "/midi/cc2",
			wantOK:  false,
		},
		{
			name:    "slider id capture",
			pattern: "/slider/*",
			addr:    "/slider/10",
			wantKey: "10",
			wantOK:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewPattern(tt.pattern)
			if err != nil {
				t.Fatalf("NewPattern(%q) error = %v", tt.pattern, err)
			}
			key, ok := p.Match(tt.addr)
			if ok != tt.wantOK {
				t.Fatalf("Match(%q) ok = %v, want %v", tt.addr, ok, tt.wantOK)
			}
			if ok && key != tt.wantKey {
				t.Errorf("Match(%q) key = %q, want %q", tt.addr, key, tt.wantKey)
			}
		})
	}
}

func TestRouter_ExactBeatsWildcard(t *testing.T) {
	r := NewRouter()
	if err := r.Bind("/transport/*", TableTransport); err != nil {
		t.Fatal(err)
	}
	if err := r.Bind("/transport/stop", TableRawCC); err != nil {
		t.Fatal(err)
	}

	hit, ok := r.Route("/transport/stop")
	if !ok {
		t.Fatal("Route(/transport/stop) missed")
	}
	if hit.Table != TableRawCC {
		t.Errorf("Route(/transport/stop) table = %v, want exact binding to win", hit.Table)
	}

	hit, ok = r.Route("/transport/play")
	if !ok || hit.Table != TableTransport || hit.Key != "play" {
		t.Errorf("Route(/transport/play) = %+v, %v; want transport hit with key play", hit, ok)
	}
}

func TestRouter_Miss(t *testing.T) {
	r := NewRouter()
	if err := r.Bind("/transport/*", TableTransport); err != nil {
		t.Fatal(err)
	}
	if _, ok := r.Route("/foo/bar"); ok {
		t.Error("Route(/foo/bar) matched, want miss")
	}
}

func TestRouter_DuplicateBind(t *testing.T) {
	r := NewRouter()
	if err := r.Bind("/midi/cc", TableRawCC); err != nil {
		t.Fatal(err)
	}
	if err := r.Bind("/midi/cc", TableRawCC); err == nil {
		t.Error("Bind accepted a duplicate pattern")
	}
}
