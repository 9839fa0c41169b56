package ticket

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/storedesk/ticketbot/internal/errs"
	"github.com/storedesk/ticketbot/internal/model"
	"github.com/storedesk/ticketbot/internal/platform"
)

func press(e *Engine, actor Actor, ch platform.ChannelRef, control string) (Outcome, error) {
	return e.Handle(context.Background(), ButtonPress{Actor: actor, Channel: ch, Control: control})
}

func TestCloseByOwner(t *testing.T) {
	fp := newFakePlatform()
	e, rec, sink := newTestEngine(fp)
	owner := buyer()
	ch := openTicket(t, e, owner, "compra", map[string]string{"produto": "X", "valor": "10"})

	outcome, err := press(e, owner, ch, ControlClose)
	if err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, ok := outcome.(Notice); !ok {
		t.Fatalf("outcome = %T, want Notice", outcome)
	}

	// Owner's view is revoked, the everyone deny re-asserted.
	ov, ok := fp.overwrite(ch.ID, platform.Principal{Kind: platform.PrincipalMember, ID: owner.ID})
	if !ok || len(ov.Allow) != 0 || !reflect.DeepEqual(ov.Deny, []platform.Permission{platform.PermView}) {
		t.Fatalf("owner overwrite after close = %+v", ov)
	}
	everyone, _ := fp.overwrite(ch.ID, platform.Principal{Kind: platform.PrincipalEveryone})
	if !reflect.DeepEqual(everyone.Deny, []platform.Permission{platform.PermView}) {
		t.Fatalf("everyone overwrite after close = %+v", everyone)
	}

	// A closed notice with the reopen control was posted.
	msgs := fp.messages[ch.ID]
	last := msgs[len(msgs)-1]
	if len(last.Controls) != 1 || last.Controls[0].ID != ControlReopen {
		t.Fatalf("closed notice controls = %+v", last.Controls)
	}

	if st, _ := e.Index().Get(ch.ID); st.Status != model.TicketStatusClosed {
		t.Fatalf("index status = %q, want closed", st.Status)
	}
	if rec.statuses[ch.ID] != model.TicketStatusClosed {
		t.Fatal("mirror did not record the close")
	}
	if sink.events[len(sink.events)-1] != EventClosed {
		t.Fatalf("events = %v", sink.events)
	}
}

// Close is idempotent: closing a closed ticket repeats the same permission
// writes and posts another notice, but converges to the same state.
func TestCloseIdempotent(t *testing.T) {
	fp := newFakePlatform()
	e, _, _ := newTestEngine(fp)
	owner := buyer()
	ch := openTicket(t, e, owner, "compra", map[string]string{"produto": "X", "valor": "10"})

	if _, err := press(e, owner, ch, ControlClose); err != nil {
		t.Fatalf("first close: %v", err)
	}
	before, _ := fp.overwrite(ch.ID, platform.Principal{Kind: platform.PrincipalMember, ID: owner.ID})
	if _, err := press(e, owner, ch, ControlClose); err != nil {
		t.Fatalf("second close: %v", err)
	}
	after, _ := fp.overwrite(ch.ID, platform.Principal{Kind: platform.PrincipalMember, ID: owner.ID})
	if !reflect.DeepEqual(before, after) {
		t.Fatalf("owner overwrite changed on repeat close: %+v vs %+v", before, after)
	}
	if st, _ := e.Index().Get(ch.ID); st.Status != model.TicketStatusClosed {
		t.Fatal("status must stay closed")
	}
}

func TestCloseUnauthorized(t *testing.T) {
	fp := newFakePlatform()
	e, _, _ := newTestEngine(fp)
	ch := openTicket(t, e, buyer(), "compra", map[string]string{"produto": "X", "valor": "10"})

	stranger := Actor{ID: "user-2", Username: "other"}
	if _, err := press(e, stranger, ch, ControlClose); !errors.Is(err, errs.ErrPermissionDenied) {
		t.Fatalf("err = %v, want ErrPermissionDenied", err)
	}
	if st, _ := e.Index().Get(ch.ID); st.Status != model.TicketStatusOpen {
		t.Fatal("ticket must stay open after rejected close")
	}
}

func TestReopenRestoresOwnerGrants(t *testing.T) {
	fp := newFakePlatform()
	e, rec, _ := newTestEngine(fp)
	owner := buyer()
	ch := openTicket(t, e, owner, "compra", map[string]string{"produto": "X", "valor": "10"})
	original, _ := fp.overwrite(ch.ID, platform.Principal{Kind: platform.PrincipalMember, ID: owner.ID})

	if _, err := press(e, owner, ch, ControlClose); err != nil {
		t.Fatalf("close: %v", err)
	}
	staff := Actor{ID: "staff-1", Username: "staff", Roles: []string{testStaffRole}}
	if _, err := press(e, staff, ch, ControlReopen); err != nil {
		t.Fatalf("reopen: %v", err)
	}

	restored, _ := fp.overwrite(ch.ID, platform.Principal{Kind: platform.PrincipalMember, ID: owner.ID})
	if !reflect.DeepEqual(restored.Allow, original.Allow) {
		t.Fatalf("restored grants %v, want original %v", restored.Allow, original.Allow)
	}
	if st, _ := e.Index().Get(ch.ID); st.Status != model.TicketStatusOpen {
		t.Fatal("index must show open after reopen")
	}
	if rec.statuses[ch.ID] != model.TicketStatusOpen {
		t.Fatal("mirror did not record the reopen")
	}
}

// The owner cannot reopen their own ticket; on rejection the permission
// table is untouched.
func TestReopenDeniedForOwner(t *testing.T) {
	fp := newFakePlatform()
	e, _, _ := newTestEngine(fp)
	owner := buyer()
	ch := openTicket(t, e, owner, "compra", map[string]string{"produto": "X", "valor": "10"})
	if _, err := press(e, owner, ch, ControlClose); err != nil {
		t.Fatalf("close: %v", err)
	}
	closed, _ := fp.overwrite(ch.ID, platform.Principal{Kind: platform.PrincipalMember, ID: owner.ID})

	if _, err := press(e, owner, ch, ControlReopen); !errors.Is(err, errs.ErrPermissionDenied) {
		t.Fatalf("err = %v, want ErrPermissionDenied", err)
	}
	after, _ := fp.overwrite(ch.ID, platform.Principal{Kind: platform.PrincipalMember, ID: owner.ID})
	if !reflect.DeepEqual(closed, after) {
		t.Fatal("rejected reopen must not touch the permission table")
	}
	if st, _ := e.Index().Get(ch.ID); st.Status != model.TicketStatusClosed {
		t.Fatal("ticket must stay closed")
	}
}

func TestReopenBySuperuserAndChannelManager(t *testing.T) {
	fp := newFakePlatform()
	e, _, _ := newTestEngine(fp)
	owner := buyer()
	ch := openTicket(t, e, owner, "compra", map[string]string{"produto": "X", "valor": "10"})
	if _, err := press(e, owner, ch, ControlClose); err != nil {
		t.Fatalf("close: %v", err)
	}

	super := Actor{ID: testAdmin, Username: "boss"}
	if _, err := press(e, super, ch, ControlReopen); err != nil {
		t.Fatalf("superuser reopen: %v", err)
	}
	if _, err := press(e, owner, ch, ControlClose); err != nil {
		t.Fatalf("re-close: %v", err)
	}
	manager := Actor{ID: "mod-1", Username: "mod", CanManageChannels: true}
	if _, err := press(e, manager, ch, ControlReopen); err != nil {
		t.Fatalf("channel-manager reopen: %v", err)
	}
}

func TestLifecycleOnNonTicketChannel(t *testing.T) {
	e, _, _ := newTestEngine(newFakePlatform())
	plain := platform.ChannelRef{ID: "chan-x", Name: "geral", Descriptor: "canal de boas-vindas"}
	staff := Actor{ID: "staff-1", Roles: []string{testStaffRole}}

	if _, err := press(e, staff, plain, ControlClose); !errors.Is(err, errs.ErrNotTicketChannel) {
		t.Fatalf("close err = %v, want ErrNotTicketChannel", err)
	}
	if _, err := press(e, staff, plain, ControlReopen); !errors.Is(err, errs.ErrNotTicketChannel) {
		t.Fatalf("reopen err = %v, want ErrNotTicketChannel", err)
	}
}

// A tagged descriptor with malformed tokens still transitions, but skips
// the owner-specific grant edits it cannot resolve.
func TestCloseWithMalformedDescriptor(t *testing.T) {
	fp := newFakePlatform()
	e, _, _ := newTestEngine(fp)
	fp.channels["chan-odd"] = platform.ChannelRef{ID: "chan-odd", Name: "odd", Descriptor: "ticket:no-category"}
	fp.perms["chan-odd"] = make(map[string]platform.Overwrite)
	ch := fp.channels["chan-odd"]

	staff := Actor{ID: "staff-1", Roles: []string{testStaffRole}}
	if _, err := press(e, staff, ch, ControlClose); err != nil {
		t.Fatalf("close: %v", err)
	}

	// Only the everyone deny was written; no member edit was attempted.
	perms := fp.perms["chan-odd"]
	if len(perms) != 1 {
		t.Fatalf("overwrites = %+v, want only everyone", perms)
	}
	if _, ok := fp.overwrite("chan-odd", platform.Principal{Kind: platform.PrincipalEveryone}); !ok {
		t.Fatal("everyone deny missing")
	}
}

func TestProofSubmission(t *testing.T) {
	fp := newFakePlatform()
	e, _, sink := newTestEngine(fp)
	owner := buyer()
	ch := openTicket(t, e, owner, "compra", map[string]string{"produto": "X", "valor": "10"})

	long := strings.Repeat("x", maxProofLength+100)
	outcome, err := e.Handle(context.Background(), ProofSubmission{Actor: owner, Channel: ch, Text: long})
	if err != nil {
		t.Fatalf("proof: %v", err)
	}
	if _, ok := outcome.(Notice); !ok {
		t.Fatalf("outcome = %T, want Notice", outcome)
	}

	msgs := fp.messages[ch.ID]
	proof := msgs[len(msgs)-1]
	if len(proof.Body) != maxProofLength {
		t.Fatalf("proof body length = %d, want %d", len(proof.Body), maxProofLength)
	}
	if !strings.Contains(proof.Footer, owner.Username) {
		t.Fatalf("proof footer %q must attribute the submitter", proof.Footer)
	}
	if sink.events[len(sink.events)-1] != EventProof {
		t.Fatalf("events = %v", sink.events)
	}

	// Proof never changes lifecycle state.
	if st, _ := e.Index().Get(ch.ID); st.Status != model.TicketStatusOpen {
		t.Fatal("proof must not change status")
	}
}

func TestSendProofButtonShowsForm(t *testing.T) {
	fp := newFakePlatform()
	e, _, _ := newTestEngine(fp)
	ch := openTicket(t, e, buyer(), "compra", map[string]string{"produto": "X", "valor": "10"})
	outcome, err := press(e, buyer(), ch, ControlSendProof)
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if _, ok := outcome.(ShowProofForm); !ok {
		t.Fatalf("outcome = %T, want ShowProofForm", outcome)
	}
}
