package ticket

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/storedesk/ticketbot/internal/category"
	"github.com/storedesk/ticketbot/internal/errs"
	"github.com/storedesk/ticketbot/internal/form"
	"github.com/storedesk/ticketbot/internal/model"
	"github.com/storedesk/ticketbot/internal/platform"
)

// maxAnswerValue caps each rendered answer value in the announcement.
const maxAnswerValue = 1024

// ownerGrants is the owner's full grant set on an open ticket. Reopen
// restores exactly this set.
var ownerGrants = []platform.Permission{
	platform.PermView,
	platform.PermSend,
	platform.PermReadHistory,
	platform.PermAttachFiles,
	platform.PermEmbedLinks,
}

var staffGrants = []platform.Permission{
	platform.PermView,
	platform.PermSend,
	platform.PermReadHistory,
	platform.PermManageMessages,
}

var superuserGrants = []platform.Permission{
	platform.PermView,
	platform.PermSend,
	platform.PermReadHistory,
	platform.PermManageChannel,
	platform.PermManageMessages,
}

// findExistingTicket scans the space for a channel whose descriptor equals
// the tag for (owner, category). The match ignores open/closed state: one
// channel per pair for the channel's lifetime.
func (e *Engine) findExistingTicket(ctx context.Context, ownerID, categoryID string) (*platform.ChannelRef, error) {
	want := Tag(ownerID, categoryID)
	channels, err := e.platform.ListChannels(ctx, e.settings.SpaceID)
	if err != nil {
		return nil, &errs.TransportError{Op: "list channels", Err: err}
	}
	for _, ch := range channels {
		if ch.Descriptor == want {
			found := ch
			return &found, nil
		}
	}
	return nil, nil
}

func (e *Engine) handleFormSubmission(ctx context.Context, a FormSubmission) (Outcome, error) {
	cat, ok := e.registry.Lookup(a.CategoryID)
	if !ok {
		return nil, errs.ErrCategoryNotFound
	}

	answers, err := form.Collect(form.Render(cat), a.Values)
	if err != nil {
		return nil, err
	}

	// Serialize guard+create per (owner, category): two in-process
	// submissions for the same pair cannot both pass the scan below.
	unlock := e.locks.lock(a.Actor.ID + ":" + cat.ID)
	defer unlock()

	existing, err := e.findExistingTicket(ctx, a.Actor.ID, cat.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, &errs.DuplicateTicketError{ChannelID: existing.ID}
	}

	ch, err := e.provision(ctx, a.Actor, cat, answers)
	if err != nil {
		return nil, err
	}
	return TicketCreated{Channel: *ch}, nil
}

// provision creates the channel, applies the ACL and posts the
// announcement. On announcement failure the channel is deleted again so
// the caller never observes a half-configured ticket.
func (e *Engine) provision(ctx context.Context, actor Actor, cat category.Category, answers []form.Answer) (*platform.ChannelRef, error) {
	prefix := cat.ChannelPrefix
	if prefix == "" {
		prefix = "ticket"
	}
	spec := platform.ChannelSpec{
		Name:       SafeChannelName(prefix + "-" + actor.Username),
		Descriptor: Tag(actor.ID, cat.ID),
		ParentID:   e.settings.ParentID,
		Overwrites: e.aclFor(actor.ID, cat),
	}

	ch, err := e.platform.CreateChannel(ctx, e.settings.SpaceID, spec)
	if err != nil {
		return nil, &errs.TransportError{Op: "create channel", Err: err}
	}

	if err := e.platform.PostMessage(ctx, ch.ID, e.announcement(actor, cat, answers)); err != nil {
		if delErr := e.platform.DeleteChannel(ctx, ch.ID); delErr != nil {
			log.Printf("ticket: rollback of channel %s failed: %v", ch.ID, delErr)
		}
		return nil, &errs.TransportError{Op: "post announcement", Err: err}
	}

	e.index.Put(ch.ID, State{OwnerID: actor.ID, CategoryID: cat.ID, Status: model.TicketStatusOpen})
	e.record(ctx, func(r Recorder) error {
		return r.RecordOpened(ctx, &model.TicketRecord{
			ChannelID:  ch.ID,
			OwnerID:    actor.ID,
			CategoryID: cat.ID,
			Status:     model.TicketStatusOpen,
		})
	})
	e.emit(ctx, EventOpened, ch.ID, actor.ID, cat.ID)
	return ch, nil
}

func (e *Engine) aclFor(ownerID string, cat category.Category) []platform.Overwrite {
	overwrites := []platform.Overwrite{
		{
			Principal: platform.Principal{Kind: platform.PrincipalEveryone},
			Deny:      []platform.Permission{platform.PermView},
		},
		{
			Principal: platform.Principal{Kind: platform.PrincipalMember, ID: ownerID},
			Allow:     ownerGrants,
		},
	}
	for _, roleID := range cat.StaffRoleIDs {
		overwrites = append(overwrites, platform.Overwrite{
			Principal: platform.Principal{Kind: platform.PrincipalRole, ID: roleID},
			Allow:     staffGrants,
		})
	}
	if e.settings.SuperuserID != "" {
		overwrites = append(overwrites, platform.Overwrite{
			Principal: platform.Principal{Kind: platform.PrincipalMember, ID: e.settings.SuperuserID},
			Allow:     superuserGrants,
		})
	}
	return overwrites
}

func (e *Engine) announcement(actor Actor, cat category.Category, answers []form.Answer) platform.Message {
	msg := platform.Message{
		Title:          "🎟️ Ticket aberto • " + cat.Label,
		Tone:           platform.ToneSuccess,
		Body:           "Olá <@" + actor.ID + ">, seu ticket foi criado com sucesso.\n\n**Informações enviadas:**",
		Footer:         "Mantenha tudo organizado para agilizar.",
		MentionUserIDs: []string{actor.ID},
		MentionRoleIDs: cat.StaffRoleIDs,
		Controls: []platform.Control{
			{ID: ControlSendProof, Label: "📎 Enviar comprovante"},
			{ID: ControlClose, Label: "🔒 Fechar"},
		},
	}
	for _, a := range answers {
		v := strings.TrimSpace(a.Value)
		if v == "" {
			continue
		}
		if len(v) > maxAnswerValue {
			v = v[:maxAnswerValue]
		}
		msg.Fields = append(msg.Fields, platform.Field{Name: a.Label, Value: v})
	}
	if cat.ID == "compra" {
		msg.Fields = append(msg.Fields, platform.Field{
			Name: "💳 Pagamento (Pix)",
			Value: "• Chave Pix: `" + e.settings.PixKey + "`\n" +
				"• Após pagar, clique em **📎 Enviar comprovante**\n" +
				"• Prazo: " + e.settings.PixDeadline,
		})
	}
	return msg
}

func (e *Engine) record(ctx context.Context, fn func(Recorder) error) {
	if e.store == nil {
		return
	}
	if err := fn(e.store); err != nil {
		log.Printf("ticket: record mirror: %v", err)
	}
}

func (e *Engine) emit(ctx context.Context, event, channelID, actorID, categoryID string) {
	if e.events == nil {
		return
	}
	e.events.ProduceTicketEvent(ctx, event, map[string]interface{}{
		"channel_id":  channelID,
		"actor_id":    actorID,
		"category_id": categoryID,
		"at":          time.Now().UTC().Format(time.RFC3339),
	})
}
