// Package platform defines the narrow chat-platform surface the ticket
// engine talks to: list/create/delete channels, post messages, edit
// per-principal permissions. The Discord implementation lives in
// internal/discord; tests use an in-memory fake.
package platform

import "context"

// Permission is one grantable capability on a channel.
type Permission uint8

const (
	PermView Permission = iota
	PermSend
	PermReadHistory
	PermAttachFiles
	PermEmbedLinks
	PermManageMessages
	PermManageChannel
)

// PrincipalKind discriminates who a permission overwrite targets.
type PrincipalKind uint8

const (
	PrincipalEveryone PrincipalKind = iota
	PrincipalMember
	PrincipalRole
)

// Principal is the subject of a permission overwrite.
type Principal struct {
	Kind PrincipalKind
	ID   string // empty for PrincipalEveryone (the space id stands in)
}

// Overwrite grants and/or denies permissions for one principal.
type Overwrite struct {
	Principal Principal
	Allow     []Permission
	Deny      []Permission
}

// ChannelRef is a channel as seen by the engine: id, name, and the
// free-text descriptor that carries the ticket tag.
type ChannelRef struct {
	ID         string
	Name       string
	Descriptor string
}

// ChannelSpec describes a channel to create.
type ChannelSpec struct {
	Name       string
	Descriptor string
	ParentID   string // optional grouping category on the platform
	Overwrites []Overwrite
}

// Field is one label/value pair of an announcement.
type Field struct {
	Name  string
	Value string
}

// Control is a persistent button attached to a message.
type Control struct {
	ID    string
	Label string
}

// Tone hints how the transport should accent a message.
type Tone uint8

const (
	ToneNeutral Tone = iota
	ToneSuccess
	ToneWarning
)

// Message is a platform-agnostic rich message. The transport decides how
// to render fields and controls (Discord: embed + action row).
type Message struct {
	Content  string
	Title    string
	Body     string
	Tone     Tone
	Fields   []Field
	Footer   string
	Controls []Control
	// MentionUserIDs/MentionRoleIDs are rendered as transport-native
	// mentions in front of the message body.
	MentionUserIDs []string
	MentionRoleIDs []string
}

// Client is the outbound call surface against the hosting platform. All
// calls are remote and fallible; callers treat failures as terminal for
// the current action (no retry).
type Client interface {
	ListChannels(ctx context.Context, spaceID string) ([]ChannelRef, error)
	CreateChannel(ctx context.Context, spaceID string, spec ChannelSpec) (*ChannelRef, error)
	DeleteChannel(ctx context.Context, channelID string) error
	PostMessage(ctx context.Context, channelID string, msg Message) error
	SetPermission(ctx context.Context, channelID string, ov Overwrite) error
}
