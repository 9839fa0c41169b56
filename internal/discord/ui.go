package discord

import (
	"strconv"

	"github.com/bwmarrin/discordgo"
	"github.com/storedesk/ticketbot/internal/category"
	"github.com/storedesk/ticketbot/internal/form"
	"github.com/storedesk/ticketbot/internal/model"
	"github.com/storedesk/ticketbot/internal/platform"
	"github.com/storedesk/ticketbot/internal/ticket"
)

// Custom ids owned by the adapter (the engine owns the ticket_* controls).
const (
	panelSelectID    = "ticket_select"
	openModalPrefix  = "modal_open_"
	proofModalID     = "modal_proof"
	proofInputID     = "proof_link"
	productCreateID  = "prod_criar"
	productCatalogID = "prod_catalogo"
	productModalID   = "modal_prod_criar"
)

const (
	colorPanel   = 0x2b2d31
	colorSuccess = 0x00d166
	colorWarning = 0xffcc00
	colorInfo    = 0x5865f2
)

func embedColor(msg platform.Message) int {
	switch msg.Tone {
	case platform.ToneSuccess:
		return colorSuccess
	case platform.ToneWarning:
		return colorWarning
	default:
		return colorPanel
	}
}

func controlStyle(id string) discordgo.ButtonStyle {
	switch id {
	case ticket.ControlSendProof:
		return discordgo.PrimaryButton
	case ticket.ControlReopen:
		return discordgo.SuccessButton
	default:
		return discordgo.SecondaryButton
	}
}

func controlsRow(controls []platform.Control) *discordgo.ActionsRow {
	if len(controls) == 0 {
		return nil
	}
	row := &discordgo.ActionsRow{}
	for _, c := range controls {
		row.Components = append(row.Components, discordgo.Button{
			CustomID: c.ID,
			Label:    c.Label,
			Style:    controlStyle(c.ID),
		})
	}
	return row
}

func panelEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "🎫 Central de Atendimento",
		Description: "Selecione um setor abaixo para abrir seu ticket.\n\n" +
			"✅ Atendimento organizado\n" +
			"⏱️ Resposta mais rápida\n" +
			"🔒 Privado (somente você + equipe)\n\n" +
			"**Regras rápidas:**\n" +
			"• Não marque @everyone\n" +
			"• Envie detalhes completos\n" +
			"• Comprovante somente no botão 📎",
		Color:  colorPanel,
		Footer: &discordgo.MessageEmbedFooter{Text: "Sistema de Tickets • Premium"},
	}
}

func categorySelect(categories []category.Category) discordgo.ActionsRow {
	options := make([]discordgo.SelectMenuOption, 0, len(categories))
	for _, c := range categories {
		desc := c.Description
		if desc == "" {
			desc = "Abrir ticket"
		}
		if len(desc) > 100 {
			desc = desc[:100]
		}
		opt := discordgo.SelectMenuOption{
			Label:       c.Label,
			Value:       c.ID,
			Description: desc,
		}
		if c.Emoji != "" {
			opt.Emoji = &discordgo.ComponentEmoji{Name: c.Emoji}
		}
		options = append(options, opt)
	}
	return discordgo.ActionsRow{
		Components: []discordgo.MessageComponent{
			discordgo.SelectMenu{
				CustomID:    panelSelectID,
				Placeholder: "Selecione uma categoria…",
				Options:     options,
			},
		},
	}
}

// formModal renders a form spec as a Discord modal. The spec is already
// capped at five fields, the modal row limit.
func formModal(spec form.Spec) *discordgo.InteractionResponseData {
	rows := make([]discordgo.MessageComponent, 0, len(spec.Fields))
	for _, f := range spec.Fields {
		style := discordgo.TextInputShort
		if f.Kind == category.FieldParagraph {
			style = discordgo.TextInputParagraph
		}
		rows = append(rows, discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.TextInput{
					CustomID:    f.ID,
					Label:       f.Label,
					Style:       style,
					Required:    f.Required,
					Placeholder: f.Placeholder,
				},
			},
		})
	}
	return &discordgo.InteractionResponseData{
		CustomID:   openModalPrefix + spec.CategoryID,
		Title:      spec.Title,
		Components: rows,
	}
}

func proofModal() *discordgo.InteractionResponseData {
	return &discordgo.InteractionResponseData{
		CustomID: proofModalID,
		Title:    "Enviar comprovante",
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.TextInput{
						CustomID:    proofInputID,
						Label:       "Link/Texto do comprovante",
						Style:       discordgo.TextInputParagraph,
						Required:    true,
						Placeholder: "Ex: link da imagem / descrição do pagamento",
					},
				},
			},
		},
	}
}

func productModal() *discordgo.InteractionResponseData {
	short := func(id, label string, required bool) discordgo.MessageComponent {
		return discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.TextInput{CustomID: id, Label: label, Style: discordgo.TextInputShort, Required: required},
			},
		}
	}
	return &discordgo.InteractionResponseData{
		CustomID: productModalID,
		Title:    "Criar Produto",
		Components: []discordgo.MessageComponent{
			short("nome", "Nome", true),
			short("preco", "Preço", true),
			short("estoque", "Estoque", true),
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.TextInput{CustomID: "descricao", Label: "Descrição", Style: discordgo.TextInputParagraph, Required: false},
				},
			},
			short("imagem", "URL da imagem (opcional)", false),
		},
	}
}

func catalogEmbed(products []model.Product) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "📦 Catálogo",
		Color: colorSuccess,
	}
	for _, p := range products {
		value := "Estoque: " + strconv.Itoa(p.Stock)
		if p.Description != "" {
			value += "\n" + p.Description
		}
		if len(value) > 1024 {
			value = value[:1024]
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  p.Name + " | " + p.Price,
			Value: value,
		})
	}
	return embed
}

func setupEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "⚙️ Setup Ticket (Premium)",
		Color: colorInfo,
		Description: "Variáveis de ambiente:\n\n" +
			"✅ `TOKEN`\n✅ `CLIENT_ID`\n✅ `GUILD_ID`\n\n" +
			"Recomendado:\n" +
			"• `ADMIN_ID` (seu ID)\n" +
			"• `STAFF_ROLE_ID` (cargo staff)\n" +
			"• `TICKET_CATEGORY_ID` (categoria onde criar tickets)\n\n" +
			"Depois use **/ticket-painel** no canal para postar o painel.",
	}
}
