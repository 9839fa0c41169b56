package ticket

import (
	"regexp"
	"strings"
	"testing"
)

var safeName = regexp.MustCompile(`^[a-z0-9-]{0,80}$`)

func TestSafeChannelName(t *testing.T) {
	cases := []struct{ in, want string }{
		{"compra-João!", "compra-jo-o-"},
		{"Suporte Urgente", "suporte-urgente"},
		{"ABC123", "abc123"},
		{"___", "-"},
		{"a--b", "a-b"},
		{"já-ok", "j-ok"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := SafeChannelName(tc.in); got != tc.want {
			t.Errorf("SafeChannelName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSafeChannelNameBounds(t *testing.T) {
	inputs := []string{
		"compra-João!",
		strings.Repeat("x", 200),
		strings.Repeat("é", 200),
		"🛒🛒🛒 compra",
		"ticket:123:compra",
	}
	for _, in := range inputs {
		got := SafeChannelName(in)
		if !safeName.MatchString(got) {
			t.Errorf("SafeChannelName(%q) = %q, outside [a-z0-9-]{0,80}", in, got)
		}
		if again := SafeChannelName(got); again != got {
			t.Errorf("SafeChannelName not idempotent: %q -> %q -> %q", in, got, again)
		}
	}
}
