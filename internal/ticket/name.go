package ticket

import "strings"

const maxChannelName = 80

// SafeChannelName lowercases, replaces everything outside [a-z0-9-] with
// "-", collapses runs of "-" and truncates to 80 characters. Idempotent:
// sanitizing a sanitized name is a no-op.
func SafeChannelName(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	lastDash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	name := b.String()
	if len(name) > maxChannelName {
		name = name[:maxChannelName]
	}
	return name
}
