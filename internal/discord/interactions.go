package discord

import (
	"context"
	"log"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/storedesk/ticketbot/internal/config"
	"github.com/storedesk/ticketbot/internal/model"
	"github.com/storedesk/ticketbot/internal/platform"
	"github.com/storedesk/ticketbot/internal/service"
	"github.com/storedesk/ticketbot/internal/ticket"
)

// Bot routes Discord interactions to the ticket engine and the product
// catalog. Every error is converted into a short ephemeral reply; nothing
// propagates out of the handler.
type Bot struct {
	cfg      *config.Config
	engine   *ticket.Engine
	products *service.ProductService
}

func NewBot(cfg *config.Config, engine *ticket.Engine, products *service.ProductService) *Bot {
	return &Bot{cfg: cfg, engine: engine, products: products}
}

// Register wires the bot into a session: interaction dispatch plus slash
// command registration on ready.
func (b *Bot) Register(s *discordgo.Session) {
	s.Identify.Intents = discordgo.IntentsGuilds
	s.AddHandler(b.onReady)
	s.AddHandler(b.onInteraction)
}

func (b *Bot) onReady(s *discordgo.Session, _ *discordgo.Ready) {
	log.Printf("discord: logged in as %s", s.State.User.Username)
	appID := b.cfg.Discord.AppID
	if appID == "" {
		appID = s.State.User.ID
	}
	adminOnly := int64(discordgo.PermissionAdministrator)
	commands := []*discordgo.ApplicationCommand{
		{Name: "painel", Description: "Abrir painel da loja (admin)"},
		{Name: "ticket-painel", Description: "Postar painel de tickets no canal (admin)", DefaultMemberPermissions: &adminOnly},
		{Name: "ticket-setup", Description: "Ver variáveis necessárias do sistema de ticket (admin)", DefaultMemberPermissions: &adminOnly},
	}
	if _, err := s.ApplicationCommandBulkOverwrite(appID, b.cfg.Discord.GuildID, commands); err != nil {
		log.Printf("discord: register commands: %v", err)
		return
	}
	log.Println("discord: commands registered")
}

func actorFrom(i *discordgo.InteractionCreate) ticket.Actor {
	m := i.Member
	if m == nil || m.User == nil {
		return ticket.Actor{}
	}
	return ticket.Actor{
		ID:                m.User.ID,
		Username:          m.User.Username,
		Roles:             m.Roles,
		CanManageChannels: m.Permissions&discordgo.PermissionManageChannels != 0,
	}
}

func (b *Bot) onInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		b.handleCommand(ctx, s, i)
	case discordgo.InteractionMessageComponent:
		b.handleComponent(ctx, s, i)
	case discordgo.InteractionModalSubmit:
		b.handleModal(ctx, s, i)
	}
}

func (b *Bot) handleCommand(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "painel":
		if !b.cfg.IsAdmin(actorFrom(i).ID) {
			replyEphemeral(s, i, "Sem permissão.")
			return
		}
		respond(s, i, &discordgo.InteractionResponseData{
			Content: "Painel administrativo:",
			Flags:   discordgo.MessageFlagsEphemeral,
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.Button{CustomID: productCreateID, Label: "➕ Criar produto", Style: discordgo.SuccessButton},
					discordgo.Button{CustomID: productCatalogID, Label: "📦 Ver catálogo", Style: discordgo.SecondaryButton},
				}},
			},
		})

	case "ticket-setup":
		respond(s, i, &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{setupEmbed()},
			Flags:  discordgo.MessageFlagsEphemeral,
		})

	case "ticket-painel":
		if !b.cfg.IsAdmin(actorFrom(i).ID) && i.Member.Permissions&discordgo.PermissionAdministrator == 0 {
			replyEphemeral(s, i, "Sem permissão.")
			return
		}
		_, err := s.ChannelMessageSendComplex(i.ChannelID, &discordgo.MessageSend{
			Embeds:     []*discordgo.MessageEmbed{panelEmbed()},
			Components: []discordgo.MessageComponent{categorySelect(b.engine.Categories())},
		})
		if err != nil {
			log.Printf("discord: post panel: %v", err)
			replyEphemeral(s, i, "Falha ao postar o painel.")
			return
		}
		replyEphemeral(s, i, "Painel postado ✅")
	}
}

func (b *Bot) handleComponent(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.MessageComponentData()
	switch data.CustomID {
	case panelSelectID:
		if len(data.Values) == 0 {
			return
		}
		b.dispatch(ctx, s, i, ticket.MenuSelection{Actor: actorFrom(i), CategoryID: data.Values[0]})

	case productCreateID:
		if !b.cfg.IsAdmin(actorFrom(i).ID) {
			replyEphemeral(s, i, "Sem permissão.")
			return
		}
		respondModal(s, i, productModal())

	case productCatalogID:
		products, err := b.products.List(ctx)
		if err != nil {
			replyEphemeral(s, i, "Erro no banco.")
			return
		}
		if len(products) == 0 {
			replyEphemeral(s, i, "Sem produtos.")
			return
		}
		respond(s, i, &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{catalogEmbed(products)},
			Flags:  discordgo.MessageFlagsEphemeral,
		})

	case ticket.ControlSendProof, ticket.ControlClose, ticket.ControlReopen:
		channel, err := b.channelRef(s, i.ChannelID)
		if err != nil {
			log.Printf("discord: fetch channel %s: %v", i.ChannelID, err)
			replyEphemeral(s, i, "Falha ao falar com o Discord. Tente novamente.")
			return
		}
		b.dispatch(ctx, s, i, ticket.ButtonPress{Actor: actorFrom(i), Channel: *channel, Control: data.CustomID})
	}
}

func (b *Bot) handleModal(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ModalSubmitData()
	values := modalValues(data)

	switch {
	case strings.HasPrefix(data.CustomID, openModalPrefix):
		categoryID := strings.TrimPrefix(data.CustomID, openModalPrefix)
		b.dispatch(ctx, s, i, ticket.FormSubmission{Actor: actorFrom(i), CategoryID: categoryID, Values: values})

	case data.CustomID == proofModalID:
		channel, err := b.channelRef(s, i.ChannelID)
		if err != nil {
			log.Printf("discord: fetch channel %s: %v", i.ChannelID, err)
			replyEphemeral(s, i, "Falha ao falar com o Discord. Tente novamente.")
			return
		}
		b.dispatch(ctx, s, i, ticket.ProofSubmission{Actor: actorFrom(i), Channel: *channel, Text: values[proofInputID]})

	case data.CustomID == productModalID:
		stock, _ := strconv.Atoi(strings.TrimSpace(values["estoque"]))
		product := &model.Product{
			Name:        values["nome"],
			Price:       values["preco"],
			Stock:       stock,
			Description: values["descricao"],
			ImageURL:    values["imagem"],
		}
		if err := b.products.Create(ctx, product); err != nil {
			replyEphemeral(s, i, "Erro ao criar produto.")
			return
		}
		replyEphemeral(s, i, "✅ Produto criado!")
	}
}

// dispatch runs one engine action and renders its outcome. This is the
// error boundary of the action path: engine errors become ephemeral
// notices, never crashes.
func (b *Bot) dispatch(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, action ticket.Action) {
	outcome, err := b.engine.Handle(ctx, action)
	if err != nil {
		replyEphemeral(s, i, ticket.UserMessage(err))
		return
	}
	switch o := outcome.(type) {
	case ticket.ShowForm:
		respondModal(s, i, formModal(o.Spec))
	case ticket.ShowProofForm:
		respondModal(s, i, proofModal())
	case ticket.Notice:
		replyEphemeral(s, i, o.Text)
	case ticket.TicketCreated:
		replyEphemeral(s, i, "Ticket criado ✅ <#"+o.Channel.ID+">")
	}
}

func (b *Bot) channelRef(s *discordgo.Session, channelID string) (*platform.ChannelRef, error) {
	ch, err := s.State.Channel(channelID)
	if err != nil {
		ch, err = s.Channel(channelID)
		if err != nil {
			return nil, err
		}
	}
	return &platform.ChannelRef{ID: ch.ID, Name: ch.Name, Descriptor: ch.Topic}, nil
}

func modalValues(data discordgo.ModalSubmitInteractionData) map[string]string {
	values := make(map[string]string)
	for _, c := range data.Components {
		row, ok := c.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, rc := range row.Components {
			if input, ok := rc.(*discordgo.TextInput); ok {
				values[input.CustomID] = input.Value
			}
		}
	}
	return values
}

func respond(s *discordgo.Session, i *discordgo.InteractionCreate, data *discordgo.InteractionResponseData) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
	if err != nil {
		log.Printf("discord: interaction respond: %v", err)
	}
}

func respondModal(s *discordgo.Session, i *discordgo.InteractionCreate, data *discordgo.InteractionResponseData) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: data,
	})
	if err != nil {
		log.Printf("discord: interaction respond modal: %v", err)
	}
}

func replyEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, text string) {
	respond(s, i, &discordgo.InteractionResponseData{
		Content: text,
		Flags:   discordgo.MessageFlagsEphemeral,
	})
}
