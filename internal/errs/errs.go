package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrCategoryNotFound — the selected category id is not in the registry.
	ErrCategoryNotFound = errors.New("category not found")

	// ErrTicketNotFound — no ticket record for the given id/channel.
	ErrTicketNotFound = errors.New("ticket not found")

	// ErrProductNotFound — no catalog row with the given id.
	ErrProductNotFound = errors.New("product not found")

	// ErrPermissionDenied — actor is not allowed to perform the transition.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrNotTicketChannel — the channel descriptor carries no ticket tag.
	ErrNotTicketChannel = errors.New("not a ticket channel")
)

// ValidationError — a required form field was left empty.
type ValidationError struct {
	Field string
	Label string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required field %q", e.Field)
}

// DuplicateTicketError — an existing channel is already bound to (owner, category).
type DuplicateTicketError struct {
	ChannelID string
}

func (e *DuplicateTicketError) Error() string {
	return fmt.Sprintf("ticket already exists in channel %s", e.ChannelID)
}

// TransportError wraps a failed platform call (create/post/permission edit).
// Reported to the user, never retried automatically.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("platform %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
