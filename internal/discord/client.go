// Package discord adapts the ticket engine to Discord: it implements the
// platform client over discordgo and translates interactions (slash
// commands, select menus, modals, buttons) into engine actions.
package discord

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/storedesk/ticketbot/internal/platform"
)

// Client implements platform.Client against the Discord REST API. guildID
// stands in for the everyone principal on permission edits.
type Client struct {
	s       *discordgo.Session
	guildID string
}

func NewClient(s *discordgo.Session, guildID string) *Client {
	return &Client{s: s, guildID: guildID}
}

var permissionBits = map[platform.Permission]int64{
	platform.PermView:           discordgo.PermissionViewChannel,
	platform.PermSend:           discordgo.PermissionSendMessages,
	platform.PermReadHistory:    discordgo.PermissionReadMessageHistory,
	platform.PermAttachFiles:    discordgo.PermissionAttachFiles,
	platform.PermEmbedLinks:     discordgo.PermissionEmbedLinks,
	platform.PermManageMessages: discordgo.PermissionManageMessages,
	platform.PermManageChannel:  discordgo.PermissionManageChannels,
}

func bitsFor(perms []platform.Permission) int64 {
	var bits int64
	for _, p := range perms {
		bits |= permissionBits[p]
	}
	return bits
}

// overwriteTarget resolves a platform principal to the Discord overwrite
// target. The everyone principal maps to the guild id as a role.
func overwriteTarget(spaceID string, p platform.Principal) (string, discordgo.PermissionOverwriteType) {
	switch p.Kind {
	case platform.PrincipalEveryone:
		return spaceID, discordgo.PermissionOverwriteTypeRole
	case platform.PrincipalRole:
		return p.ID, discordgo.PermissionOverwriteTypeRole
	default:
		return p.ID, discordgo.PermissionOverwriteTypeMember
	}
}

func (c *Client) ListChannels(ctx context.Context, spaceID string) ([]platform.ChannelRef, error) {
	channels, err := c.s.GuildChannels(spaceID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("guild channels: %w", err)
	}
	refs := make([]platform.ChannelRef, 0, len(channels))
	for _, ch := range channels {
		if ch.Type != discordgo.ChannelTypeGuildText {
			continue
		}
		refs = append(refs, platform.ChannelRef{ID: ch.ID, Name: ch.Name, Descriptor: ch.Topic})
	}
	return refs, nil
}

func (c *Client) CreateChannel(ctx context.Context, spaceID string, spec platform.ChannelSpec) (*platform.ChannelRef, error) {
	overwrites := make([]*discordgo.PermissionOverwrite, 0, len(spec.Overwrites))
	for _, ov := range spec.Overwrites {
		id, typ := overwriteTarget(spaceID, ov.Principal)
		overwrites = append(overwrites, &discordgo.PermissionOverwrite{
			ID:    id,
			Type:  typ,
			Allow: bitsFor(ov.Allow),
			Deny:  bitsFor(ov.Deny),
		})
	}
	ch, err := c.s.GuildChannelCreateComplex(spaceID, discordgo.GuildChannelCreateData{
		Name:                 spec.Name,
		Type:                 discordgo.ChannelTypeGuildText,
		Topic:                spec.Descriptor,
		ParentID:             spec.ParentID,
		PermissionOverwrites: overwrites,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("create channel: %w", err)
	}
	return &platform.ChannelRef{ID: ch.ID, Name: ch.Name, Descriptor: ch.Topic}, nil
}

func (c *Client) DeleteChannel(ctx context.Context, channelID string) error {
	if _, err := c.s.ChannelDelete(channelID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("delete channel: %w", err)
	}
	return nil
}

func (c *Client) PostMessage(ctx context.Context, channelID string, msg platform.Message) error {
	if _, err := c.s.ChannelMessageSendComplex(channelID, renderMessage(msg), discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

func (c *Client) SetPermission(ctx context.Context, channelID string, ov platform.Overwrite) error {
	id, typ := overwriteTarget(c.guildID, ov.Principal)
	if err := c.s.ChannelPermissionSet(channelID, id, typ, bitsFor(ov.Allow), bitsFor(ov.Deny), discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("set permission: %w", err)
	}
	return nil
}

// renderMessage maps the platform message onto a Discord embed with an
// optional action row of buttons.
func renderMessage(msg platform.Message) *discordgo.MessageSend {
	content := msg.Content
	for _, id := range msg.MentionUserIDs {
		content += " <@" + id + ">"
	}
	for _, id := range msg.MentionRoleIDs {
		content += " <@&" + id + ">"
	}

	embed := &discordgo.MessageEmbed{
		Title:       msg.Title,
		Description: msg.Body,
		Color:       embedColor(msg),
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	}
	if msg.Footer != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: msg.Footer}
	}
	for _, f := range msg.Fields {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: f.Name, Value: f.Value})
	}

	send := &discordgo.MessageSend{
		Content: content,
		Embeds:  []*discordgo.MessageEmbed{embed},
	}
	if row := controlsRow(msg.Controls); row != nil {
		send.Components = []discordgo.MessageComponent{*row}
	}
	return send
}
