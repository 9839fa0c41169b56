package ticket

import (
	"github.com/storedesk/ticketbot/internal/form"
	"github.com/storedesk/ticketbot/internal/platform"
)

// Control ids attached to ticket messages. The transport round-trips them
// verbatim in button presses.
const (
	ControlSendProof = "ticket_send_proof"
	ControlClose     = "ticket_close"
	ControlReopen    = "ticket_reopen"
)

// Actor is the identity behind an incoming action, as resolved by the
// transport: id, display name, role membership and whether the platform
// already grants channel management.
type Actor struct {
	ID                string
	Username          string
	Roles             []string
	CanManageChannels bool
}

// HasRole reports membership in any of the given role ids.
func (a Actor) HasRole(roleIDs ...string) bool {
	for _, want := range roleIDs {
		if want == "" {
			continue
		}
		for _, have := range a.Roles {
			if have == want {
				return true
			}
		}
	}
	return false
}

// Action is the closed set of inbound user actions the engine consumes.
// The transport adapter is the only constructor; Handle switches over the
// concrete types exhaustively.
type Action interface{ isAction() }

// MenuSelection — the user picked a category from the panel menu.
type MenuSelection struct {
	Actor      Actor
	CategoryID string
}

// FormSubmission — the user submitted a category form.
type FormSubmission struct {
	Actor      Actor
	CategoryID string
	Values     map[string]string
}

// ButtonPress — a persistent control on a ticket message was pressed.
type ButtonPress struct {
	Actor   Actor
	Channel platform.ChannelRef
	Control string
}

// ProofSubmission — free text submitted through the proof form inside an
// open ticket channel.
type ProofSubmission struct {
	Actor   Actor
	Channel platform.ChannelRef
	Text    string
}

func (MenuSelection) isAction()   {}
func (FormSubmission) isAction()  {}
func (ButtonPress) isAction()     {}
func (ProofSubmission) isAction() {}

// Outcome is what the transport renders back to the acting user.
type Outcome interface{ isOutcome() }

// ShowForm — open the category form for the user.
type ShowForm struct{ Spec form.Spec }

// ShowProofForm — open the proof text form.
type ShowProofForm struct{}

// Notice — a short user-visible reply (delivered ephemerally on Discord).
type Notice struct{ Text string }

// TicketCreated — a fully provisioned channel with its announcement.
type TicketCreated struct{ Channel platform.ChannelRef }

func (ShowForm) isOutcome()      {}
func (ShowProofForm) isOutcome() {}
func (Notice) isOutcome()        {}
func (TicketCreated) isOutcome() {}
