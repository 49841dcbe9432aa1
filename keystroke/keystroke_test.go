package keystroke

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/marcojking/logicpro-midi-controller/bridge"
)

func TestInjector_Script(t *testing.T) {
	k := New("")

	tests := []struct {
		name        string
		key         string
		withCommand bool
		want        []string
	}{
		{
			name: "plain key",
			key:  "r",
			want: []string{`tell application "Logic Pro" to activate`, `keystroke "r"`},
		},
		{
			name: "space uses key code",
			key:  "space",
			want: []string{"key code 49"},
		},
		{
			name:        "command modifier",
			key:         "z",
			withCommand: true,
			want:        []string{`keystroke "z" using command down`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			script := k.Script(tt.key, tt.withCommand)
			for _, frag := range tt.want {
				if !strings.Contains(script, frag) {
					t.Errorf("Script(%q, %v) = %q, missing %q", tt.key, tt.withCommand, script, frag)
				}
			}
		})
	}
}

func TestInjector_CustomApp(t *testing.T) {
	k := New("Ableton Live")
	if got := k.Script("r", false); !strings.Contains(got, `"Ableton Live"`) {
		t.Errorf("Script() = %q, want custom app name", got)
	}
}

func TestInjector_Apply(t *testing.T) {
	var gotScript string
	k := New("")
	k.run = func(ctx context.Context, script string) error {
		gotScript = script
		return nil
	}

	if err := k.Apply(bridge.Keystroke("s", true)); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if !strings.Contains(gotScript, `keystroke "s" using command down`) {
		t.Errorf("Apply() ran script %q, want cmd+s", gotScript)
	}
}

func TestInjector_ApplyFailureIsWrapped(t *testing.T) {
	wantErr := errors.New("automation denied")
	k := New("")
	k.run = func(ctx context.Context, script string) error { return wantErr }

	err := k.Apply(bridge.Keystroke("r", false))
	if !errors.Is(err, wantErr) {
		t.Errorf("Apply() error = %v, want wrapped %v", err, wantErr)
	}
}

func TestInjector_RejectsControlChange(t *testing.T) {
	k := New("")
	k.run = func(ctx context.Context, script string) error {
		t.Fatal("run called for a control-change effect")
		return nil
	}
	if err := k.Apply(bridge.ControlChange(0, 116, 127)); err == nil {
		t.Error("Apply() accepted a control-change effect")
	}
}
