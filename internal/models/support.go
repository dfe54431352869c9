package models

import "time"

// TicketStatus is the lifecycle state of a support ticket.
type TicketStatus string

const (
	TicketStatusOpen     TicketStatus = "open"
	TicketStatusResolved TicketStatus = "resolved"
)

// SupportSender identifies who wrote a support message. Staff and assistant
// replies are written by external processes under their own sender type.
type SupportSender string

const (
	SupportSenderUser      SupportSender = "user"
	SupportSenderAdmin     SupportSender = "admin"
	SupportSenderAssistant SupportSender = "ai"
)

// MaxTicketSubject is the character cap on a support ticket subject.
const MaxTicketSubject = 255

// SupportTicket is one user's help request: a subject plus an append-only
// message trail. Tickets are visible to their owner only.
type SupportTicket struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	UserID    uint         `gorm:"not null;index" json:"user_id"`
	Subject   string       `gorm:"type:varchar(255);not null" json:"subject"`
	Status    TicketStatus `gorm:"type:varchar(20);default:'open'" json:"status"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`

	// Relationships
	User     User             `gorm:"foreignKey:UserID" json:"-"`
	Messages []SupportMessage `gorm:"foreignKey:TicketID" json:"messages,omitempty"`
}

// TableName specifies the table name for GORM
func (SupportTicket) TableName() string {
	return "support_tickets"
}

// SupportMessage is one append-only message in a support ticket. Unlike Q&A
// messages the body is unbounded text, since staff replies can run long.
type SupportMessage struct {
	ID         uint          `gorm:"primaryKey" json:"id"`
	TicketID   uint          `gorm:"not null;index" json:"ticket_id"`
	SenderType SupportSender `gorm:"type:varchar(20);not null" json:"sender_type"`
	Body       string        `gorm:"type:text;not null" json:"body"`
	CreatedAt  time.Time     `json:"created_at"`
}

// TableName specifies the table name for GORM
func (SupportMessage) TableName() string {
	return "support_messages"
}
