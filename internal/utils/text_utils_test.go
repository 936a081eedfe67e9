package utils

import (
	"strings"
	"testing"
	"unicode/utf8"

	"go.uber.org/zap"
)

func TestNormalizeName(t *testing.T) {
	tp := NewTextProcessor(zap.NewNop(), 0)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Plastic bottle", "Plastic bottle"},
		{"collapses whitespace", "  Old\t\tpaint \n can ", "Old paint can"},
		{"control characters", "Bat\x00teries", "Bat teries"},
		{"invalid bytes", "Gla\xffss", "Glass"},
		{"decomposed accent", "Cafe\u0301 cup", "Caf\u00e9 cup"},
		{"empty", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tp.NormalizeName(tt.in); got != tt.want {
				t.Errorf("NormalizeName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeName_Truncates(t *testing.T) {
	tp := NewTextProcessor(zap.NewNop(), 10)

	got := tp.NormalizeName(strings.Repeat("é", 20))
	if len(got) > 10 {
		t.Errorf("len = %d, want at most 10", len(got))
	}
	if !utf8.ValidString(got) {
		t.Errorf("truncated name is not valid UTF-8: %q", got)
	}
}

func TestTruncateText(t *testing.T) {
	tp := NewTextProcessor(zap.NewNop(), 0)

	if got := tp.TruncateText("short", 100); got != "short" {
		t.Errorf("TruncateText kept = %q", got)
	}
	if got := tp.TruncateText("abcdef", 3); got != "abc" {
		t.Errorf("TruncateText = %q, want abc", got)
	}
	if got := tp.TruncateText("日本語", 4); got != "日" {
		t.Errorf("TruncateText split a rune: %q", got)
	}
}

func TestTitle(t *testing.T) {
	tp := NewTextProcessor(zap.NewNop(), 0)

	if got := tp.Title("  plastic   bottle "); got != "Plastic Bottle" {
		t.Errorf("Title = %q, want %q", got, "Plastic Bottle")
	}
}
