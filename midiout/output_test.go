package midiout

import (
	"errors"
	"testing"
)

func TestPickOutput(t *testing.T) {
	ports := []string{"Midi Through Port-0", "IAC Driver Bus 1", "Launchkey Mini"}

	tests := []struct {
		name     string
		names    []string
		override string
		want     string
		wantErr  bool
	}{
		{
			name:  "prefers IAC",
			names: ports,
			want:  "IAC Driver Bus 1",
		},
		{
			name:  "IAC match is case-insensitive",
			names: []string{"Launchkey Mini", "iac driver bus 2"},
			want:  "iac driver bus 2",
		},
		{
			name:  "falls back to first output",
			names: []string{"Launchkey Mini", "Midi Through Port-0"},
			want:  "Launchkey Mini",
		},
		{
			name:     "override exact match",
			names:    ports,
			override: "Launchkey Mini",
			want:     "Launchkey Mini",
		},
		{
			name:     "override substring match",
			names:    ports,
			override: "launchkey",
			want:     "Launchkey Mini",
		},
		{
			name:     "override not found",
			names:    ports,
			override: "Moog",
			wantErr:  true,
		},
		{
			name:    "no outputs at all",
			names:   nil,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PickOutput(tt.names, tt.override)
			if (err != nil) != tt.wantErr {
				t.Fatalf("PickOutput() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("PickOutput() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPickOutput_NoOutputsError(t *testing.T) {
	if _, err := PickOutput(nil, ""); !errors.Is(err, ErrNoOutputs) {
		t.Errorf("PickOutput(nil) error = %v, want ErrNoOutputs", err)
	}
}
