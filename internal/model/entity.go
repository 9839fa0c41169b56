package model

import "time"

type TicketStatus string

const (
	TicketStatusOpen   TicketStatus = "open"
	TicketStatusClosed TicketStatus = "closed"
)

// TicketRecord mirrors one ticket channel for the admin API. The runtime
// source of truth is the channel itself (descriptor + ACL) plus the
// in-memory index; rows here are written best-effort after each transition.
type TicketRecord struct {
	ID         uint64       `gorm:"primaryKey" json:"id"`
	ChannelID  string       `gorm:"uniqueIndex;not null" json:"channel_id"`
	OwnerID    string       `gorm:"index;not null" json:"owner_id"`
	CategoryID string       `gorm:"type:varchar(64);index;not null" json:"category_id"`
	Status     TicketStatus `gorm:"type:varchar(32);index;not null" json:"status"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	ClosedAt  *time.Time `json:"closed_at,omitempty"`
}

// Product is a catalog row managed through the admin panel.
type Product struct {
	ID          uint64 `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"type:varchar(255);not null" json:"name"`
	Price       string `gorm:"type:varchar(64)" json:"price"`
	Stock       int    `json:"stock"`
	Description string `gorm:"type:text" json:"description,omitempty"`
	ImageURL    string `gorm:"type:text" json:"image_url,omitempty"`
	RoleID      string `gorm:"type:varchar(64)" json:"role_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
