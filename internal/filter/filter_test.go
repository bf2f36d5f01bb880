package filter

import (
	"testing"

	"github.com/jameskyle/email-summarizer/internal/model"
)

func msg(address string) model.Message {
	return model.Message{Address: address, From: address}
}

func TestApplyEmptyNameKeepsEverything(t *testing.T) {
	msgs := []model.Message{msg("a@x.example"), msg("b@y.example")}

	kept, err := Apply(msgs, "", nil)
	if err != nil {
		t.Fatalf("applying identity filter: %v", err)
	}
	if len(kept) != 2 {
		t.Fatalf("kept %d messages, want 2", len(kept))
	}
}

func TestApplyUnknownGroup(t *testing.T) {
	groups := map[string][]string{"family": {"mom@example.com"}}

	_, err := Apply(nil, "fam", groups)
	if err == nil {
		t.Fatal("expected an error for an unknown group")
	}
	if !model.IsConfigurationError(err) {
		t.Fatalf("expected a ConfigurationError, got %T", err)
	}
}

func TestApplySelectsMatchingSenders(t *testing.T) {
	groups := map[string][]string{
		"family": {"mom@example.com", "example.org"},
	}
	msgs := []model.Message{
		msg("mom@example.com"),
		msg("ads@shopping.example"),
		msg("news@example.org"),
	}

	kept, err := Apply(msgs, "family", groups)
	if err != nil {
		t.Fatalf("applying filter: %v", err)
	}
	if len(kept) != 2 {
		t.Fatalf("kept %d messages, want 2", len(kept))
	}
	if kept[0].Address != "mom@example.com" || kept[1].Address != "news@example.org" {
		t.Fatalf("kept the wrong messages: %v", kept)
	}
}

func TestResolveGroupNameCase(t *testing.T) {
	groups := map[string][]string{"family": {"mom@example.com"}}

	patterns, err := Resolve("Family", groups)
	if err != nil {
		t.Fatalf("resolving group: %v", err)
	}
	if len(patterns) != 1 {
		t.Fatalf("got %d patterns, want 1", len(patterns))
	}
}

func TestMatchesAny(t *testing.T) {
	cases := []struct {
		name     string
		address  string
		patterns []string
		want     bool
	}{
		{"exact address", "mom@example.com", []string{"mom@example.com"}, true},
		{"exact address no suffix match", "grandmom@example.com", []string{"mom@example.com"}, false},
		{"case insensitive", "Mom@Example.COM", []string{"mom@example.com"}, true},
		{"domain suffix", "alerts@bank.example.com", []string{"example.com"}, true},
		{"at-prefixed domain", "user@example.com", []string{"@example.com"}, true},
		{"domain mismatch", "user@example.org", []string{"example.com"}, false},
		{"blank pattern ignored", "user@example.com", []string{"  "}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := matchesAny(tc.address, tc.patterns)
			if got != tc.want {
				t.Fatalf("matchesAny(%q, %v) = %v, want %v", tc.address, tc.patterns, got, tc.want)
			}
		})
	}
}
