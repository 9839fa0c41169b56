// Package ticket implements the request-intake and lifecycle engine:
// category menu → form → private channel with permission overwrites,
// tracked through open → closed → reopened transitions. The engine is
// platform-agnostic; internal/discord adapts it to Discord.
package ticket

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/storedesk/ticketbot/internal/category"
	"github.com/storedesk/ticketbot/internal/errs"
	"github.com/storedesk/ticketbot/internal/form"
	"github.com/storedesk/ticketbot/internal/model"
	"github.com/storedesk/ticketbot/internal/platform"
)

// Recorder mirrors ticket state into durable storage. Calls are
// best-effort: the engine logs failures and keeps going.
type Recorder interface {
	RecordOpened(ctx context.Context, rec *model.TicketRecord) error
	RecordStatus(ctx context.Context, channelID string, status model.TicketStatus) error
	Statuses(ctx context.Context) (map[string]model.TicketStatus, error)
}

// EventSink receives lifecycle events (opened/closed/reopened/proof).
// Implemented by the kafka producer; a nil sink disables events.
type EventSink interface {
	ProduceTicketEvent(ctx context.Context, event string, payload map[string]interface{})
}

// Lifecycle event names emitted to the sink.
const (
	EventOpened   = "ticket.opened"
	EventClosed   = "ticket.closed"
	EventReopened = "ticket.reopened"
	EventProof    = "ticket.proof"
)

// Settings is the immutable engine configuration.
type Settings struct {
	SpaceID string
	// SuperuserID — optional identity with full lifecycle rights. Empty
	// disables the superuser path (strict, unlike the panel admin check).
	SuperuserID string
	// StaffRoleIDs gate close/reopen in addition to per-category ACLs.
	StaffRoleIDs []string
	// ParentID — optional platform grouping for created channels.
	ParentID    string
	PixKey      string
	PixDeadline string
}

type Engine struct {
	settings Settings
	registry *category.Registry
	platform platform.Client
	index    *Index
	locks    *pairLocks
	store    Recorder
	events   EventSink
}

func NewEngine(settings Settings, registry *category.Registry, client platform.Client, store Recorder, events EventSink) *Engine {
	return &Engine{
		settings: settings,
		registry: registry,
		platform: client,
		index:    NewIndex(),
		locks:    newPairLocks(),
		store:    store,
		events:   events,
	}
}

// Index exposes the live state index (read paths: admin API, tests).
func (e *Engine) Index() *Index { return e.index }

// Categories returns the registry's categories in menu order.
func (e *Engine) Categories() []category.Category { return e.registry.All() }

// Bootstrap rebuilds the state index from a channel scan, seeding closed
// states from the DB mirror when one is available.
func (e *Engine) Bootstrap(ctx context.Context) error {
	channels, err := e.platform.ListChannels(ctx, e.settings.SpaceID)
	if err != nil {
		return &errs.TransportError{Op: "list channels", Err: err}
	}
	var statuses map[string]model.TicketStatus
	if e.store != nil {
		statuses, err = e.store.Statuses(ctx)
		if err != nil {
			log.Printf("ticket: load persisted statuses: %v", err)
		}
	}
	e.index.Rebuild(channels, statuses)
	return nil
}

// Handle dispatches one inbound action. Every returned error belongs to
// the taxonomy in internal/errs; UserMessage converts it to a short
// user-visible reply at the transport boundary.
func (e *Engine) Handle(ctx context.Context, action Action) (Outcome, error) {
	switch a := action.(type) {
	case MenuSelection:
		return e.handleMenuSelection(ctx, a)
	case FormSubmission:
		return e.handleFormSubmission(ctx, a)
	case ButtonPress:
		return e.handleButtonPress(ctx, a)
	case ProofSubmission:
		return e.handleProof(ctx, a)
	default:
		return nil, fmt.Errorf("unhandled action type %T", action)
	}
}

func (e *Engine) handleMenuSelection(ctx context.Context, a MenuSelection) (Outcome, error) {
	cat, ok := e.registry.Lookup(a.CategoryID)
	if !ok {
		return nil, errs.ErrCategoryNotFound
	}
	existing, err := e.findExistingTicket(ctx, a.Actor.ID, cat.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, &errs.DuplicateTicketError{ChannelID: existing.ID}
	}
	return ShowForm{Spec: form.Render(cat)}, nil
}

func (e *Engine) handleButtonPress(ctx context.Context, a ButtonPress) (Outcome, error) {
	switch a.Control {
	case ControlSendProof:
		return ShowProofForm{}, nil
	case ControlClose:
		return e.close(ctx, a)
	case ControlReopen:
		return e.reopen(ctx, a)
	default:
		return nil, fmt.Errorf("unknown control %q", a.Control)
	}
}

// UserMessage maps an engine error onto the short reply shown to the
// acting user. Unknown errors get a generic failure text; nothing here
// ever panics or exposes internals.
func UserMessage(err error) string {
	var dup *errs.DuplicateTicketError
	var validation *errs.ValidationError
	var transport *errs.TransportError
	switch {
	case errors.Is(err, errs.ErrCategoryNotFound):
		return "Categoria inválida."
	case errors.As(err, &dup):
		return "Você já tem um ticket aberto: <#" + dup.ChannelID + ">"
	case errors.As(err, &validation):
		return fmt.Sprintf("Preencha o campo obrigatório: %s", validation.Label)
	case errors.Is(err, errs.ErrPermissionDenied):
		return "Sem permissão."
	case errors.Is(err, errs.ErrNotTicketChannel):
		return "Este canal não é um ticket."
	case errors.As(err, &transport):
		return "Falha ao falar com o Discord. Tente novamente."
	default:
		return "Deu erro. Tente novamente em instantes."
	}
}
