package model

import (
	"testing"
	"time"
)

func TestRunWindowValidate(t *testing.T) {
	cases := []struct {
		name    string
		window  RunWindow
		wantErr bool
	}{
		{"single day", RunWindow{Days: 1}, false},
		{"week", RunWindow{Days: 7}, false},
		{"zero days", RunWindow{Days: 0}, true},
		{"negative days", RunWindow{Days: -1}, true},
		{"partial single day", RunWindow{Days: 1, Partial: true}, false},
		{"partial multi day", RunWindow{Days: 3, Partial: true}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.window.Validate()
			if tc.wantErr && err == nil {
				t.Fatal("expected an error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if err != nil && !IsConfigurationError(err) {
				t.Fatalf("expected a ConfigurationError, got %T", err)
			}
		})
	}
}

func TestRunWindowCutoff(t *testing.T) {
	loc := time.FixedZone("PDT", -7*3600)
	now := time.Date(2025, 5, 19, 14, 30, 0, 0, loc)

	cutoff := RunWindow{Days: 1, Partial: true}.Cutoff(now)

	want := time.Date(2025, 5, 19, 9, 0, 0, 0, loc)
	if !cutoff.Equal(want) {
		t.Fatalf("cutoff = %v, want %v", cutoff, want)
	}
	if cutoff.Location() != loc {
		t.Fatalf("cutoff location = %v, want %v", cutoff.Location(), loc)
	}
}

func TestRunWindowSince(t *testing.T) {
	now := time.Date(2025, 5, 19, 14, 30, 0, 0, time.UTC)

	since := RunWindow{Days: 7}.Since(now)

	want := time.Date(2025, 5, 12, 14, 30, 0, 0, time.UTC)
	if !since.Equal(want) {
		t.Fatalf("since = %v, want %v", since, want)
	}
}
