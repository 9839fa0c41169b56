package ticket

import "testing"

func TestTagRoundTrip(t *testing.T) {
	tag := Tag("123456", "compra")
	if tag != "ticket:123456:compra" {
		t.Fatalf("tag = %q", tag)
	}
	owner, cat, ok := ParseTag(tag)
	if !ok || owner != "123456" || cat != "compra" {
		t.Fatalf("ParseTag(%q) = %q, %q, %v", tag, owner, cat, ok)
	}
}

func TestParseTag(t *testing.T) {
	cases := []struct {
		descriptor string
		owner, cat string
		ok         bool
	}{
		{"ticket:123:compra", "123", "compra", true},
		{"ticket:123:suporte", "123", "suporte", true},
		// Category ids with colons keep everything after the first split.
		{"ticket:123:a:b", "123", "a:b", true},
		{"ticket:123", "", "", false},
		{"ticket::compra", "", "", false},
		{"ticket:123:", "", "", false},
		{"ticket:", "", "", false},
		{"", "", "", false},
		{"canal de boas-vindas", "", "", false},
		{"TICKET:123:compra", "", "", false},
	}
	for _, tc := range cases {
		owner, cat, ok := ParseTag(tc.descriptor)
		if owner != tc.owner || cat != tc.cat || ok != tc.ok {
			t.Errorf("ParseTag(%q) = %q, %q, %v; want %q, %q, %v",
				tc.descriptor, owner, cat, ok, tc.owner, tc.cat, tc.ok)
		}
	}
}

func TestIsTicketDescriptor(t *testing.T) {
	if !IsTicketDescriptor("ticket:123:compra") {
		t.Fatal("full tag must be a ticket descriptor")
	}
	// Malformed tokens still count: the prefix alone marks the channel.
	if !IsTicketDescriptor("ticket:garbage") {
		t.Fatal("prefixed descriptor must count even when malformed")
	}
	if IsTicketDescriptor("canal de boas-vindas") || IsTicketDescriptor("") {
		t.Fatal("non-prefixed descriptors must not count")
	}
}
