package ticket

import (
	"context"
	"time"

	"github.com/storedesk/ticketbot/internal/errs"
	"github.com/storedesk/ticketbot/internal/model"
	"github.com/storedesk/ticketbot/internal/platform"
)

// maxProofLength caps the free text of a proof submission.
const maxProofLength = 4000

// isStaff reports whether the actor holds lifecycle staff rights: a
// configured staff role, channel management on the platform, or the
// configured superuser identity.
func (e *Engine) isStaff(actor Actor) bool {
	if actor.HasRole(e.settings.StaffRoleIDs...) {
		return true
	}
	if actor.CanManageChannels {
		return true
	}
	return e.settings.SuperuserID != "" && actor.ID == e.settings.SuperuserID
}

// close transitions Open→Closed. Authorized: owner or staff. The owner is
// recovered from the descriptor tag; a malformed tag skips owner-specific
// grant edits but keeps the rest of the transition.
func (e *Engine) close(ctx context.Context, a ButtonPress) (Outcome, error) {
	if !IsTicketDescriptor(a.Channel.Descriptor) {
		return nil, errs.ErrNotTicketChannel
	}
	ownerID, categoryID, parsed := ParseTag(a.Channel.Descriptor)

	isOwner := parsed && a.Actor.ID == ownerID
	if !isOwner && !e.isStaff(a.Actor) {
		return nil, errs.ErrPermissionDenied
	}

	if parsed {
		err := e.platform.SetPermission(ctx, a.Channel.ID, platform.Overwrite{
			Principal: platform.Principal{Kind: platform.PrincipalMember, ID: ownerID},
			Deny:      []platform.Permission{platform.PermView},
		})
		if err != nil {
			return nil, &errs.TransportError{Op: "revoke owner view", Err: err}
		}
	}
	// Redundant with the creation-time deny, re-asserted so a closed
	// ticket stays hidden even if the everyone overwrite was edited.
	err := e.platform.SetPermission(ctx, a.Channel.ID, platform.Overwrite{
		Principal: platform.Principal{Kind: platform.PrincipalEveryone},
		Deny:      []platform.Permission{platform.PermView},
	})
	if err != nil {
		return nil, &errs.TransportError{Op: "deny everyone view", Err: err}
	}

	notice := platform.Message{
		Title:    "🔒 Ticket fechado",
		Tone:     platform.ToneWarning,
		Body:     "Se precisar reabrir, clique no botão abaixo.",
		Controls: []platform.Control{{ID: ControlReopen, Label: "🔓 Reabrir"}},
	}
	if err := e.platform.PostMessage(ctx, a.Channel.ID, notice); err != nil {
		return nil, &errs.TransportError{Op: "post closed notice", Err: err}
	}

	e.index.SetStatus(a.Channel.ID, model.TicketStatusClosed)
	e.record(ctx, func(r Recorder) error {
		return r.RecordStatus(ctx, a.Channel.ID, model.TicketStatusClosed)
	})
	e.emit(ctx, EventClosed, a.Channel.ID, a.Actor.ID, categoryID)
	return Notice{Text: "Ticket fechado 🔒"}, nil
}

// reopen transitions Closed→Open. Staff only — the owner cannot reopen
// their own ticket. Restores the owner's original full grant set.
func (e *Engine) reopen(ctx context.Context, a ButtonPress) (Outcome, error) {
	if !IsTicketDescriptor(a.Channel.Descriptor) {
		return nil, errs.ErrNotTicketChannel
	}
	if !e.isStaff(a.Actor) {
		return nil, errs.ErrPermissionDenied
	}

	ownerID, categoryID, parsed := ParseTag(a.Channel.Descriptor)
	if parsed {
		err := e.platform.SetPermission(ctx, a.Channel.ID, platform.Overwrite{
			Principal: platform.Principal{Kind: platform.PrincipalMember, ID: ownerID},
			Allow:     ownerGrants,
		})
		if err != nil {
			return nil, &errs.TransportError{Op: "restore owner grants", Err: err}
		}
	}

	e.index.SetStatus(a.Channel.ID, model.TicketStatusOpen)
	e.record(ctx, func(r Recorder) error {
		return r.RecordStatus(ctx, a.Channel.ID, model.TicketStatusOpen)
	})
	e.emit(ctx, EventReopened, a.Channel.ID, a.Actor.ID, categoryID)
	return Notice{Text: "Ticket reaberto 🔓"}, nil
}

// handleProof appends a proof record to the channel. No state change.
func (e *Engine) handleProof(ctx context.Context, a ProofSubmission) (Outcome, error) {
	text := a.Text
	if len(text) > maxProofLength {
		text = text[:maxProofLength]
	}
	msg := platform.Message{
		Title:  "📎 Comprovante enviado",
		Tone:   platform.ToneSuccess,
		Body:   text,
		Footer: "Enviado por " + a.Actor.Username + " • " + time.Now().UTC().Format(time.RFC3339),
	}
	if err := e.platform.PostMessage(ctx, a.Channel.ID, msg); err != nil {
		return nil, &errs.TransportError{Op: "post proof", Err: err}
	}
	_, categoryID, _ := ParseTag(a.Channel.Descriptor)
	e.emit(ctx, EventProof, a.Channel.ID, a.Actor.ID, categoryID)
	return Notice{Text: "Comprovante enviado ✅"}, nil
}
