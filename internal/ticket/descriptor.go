package ticket

import "strings"

// TagPrefix marks a channel descriptor as a ticket channel. The full
// grammar is "ticket:<ownerId>:<categoryId>"; anything without the prefix
// is not a ticket channel at all.
const TagPrefix = "ticket:"

// Tag serializes ticket identity into the channel descriptor.
func Tag(ownerID, categoryID string) string {
	return TagPrefix + ownerID + ":" + categoryID
}

// IsTicketDescriptor reports whether the descriptor carries the ticket
// prefix, regardless of whether the rest parses.
func IsTicketDescriptor(descriptor string) bool {
	return strings.HasPrefix(descriptor, TagPrefix)
}

// ParseTag recovers (ownerID, categoryID) from a descriptor. ok is false
// when the prefix is present but the tokens are malformed; callers then
// take the degraded path (staff-side effects only, no owner grant edits).
func ParseTag(descriptor string) (ownerID, categoryID string, ok bool) {
	rest, found := strings.CutPrefix(descriptor, TagPrefix)
	if !found {
		return "", "", false
	}
	parts := strings.SplitN(rest, ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}
