package ledger

import (
	"context"
	"errors"
	"strings"

	"caerus/internal/models"

	"gorm.io/gorm"
)

// TicketSummary is a ticket row for inbox rendering, with the message count
// and a preview of the latest message.
type TicketSummary struct {
	models.SupportTicket
	MessageCount int64                `json:"message_count"`
	LastMessage  string               `json:"last_message,omitempty"`
	LastSender   models.SupportSender `json:"last_sender,omitempty"`
}

const ticketPreviewLen = 100

// CreateTicket opens a support ticket for the user and appends the opening
// message. Staff and assistant replies arrive later through their own
// writers; this path only ever records the user side.
func (l *Ledger) CreateTicket(ctx context.Context, userID uint, subject, message string) (*models.SupportTicket, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return nil, models.NewValidationError("Subject must not be empty")
	}
	if len(subject) > models.MaxTicketSubject {
		return nil, models.NewValidationError("Subject exceeds 255 characters")
	}
	if err := validateTicketBody(message); err != nil {
		return nil, err
	}

	var ticket models.SupportTicket

	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := loadUser(tx, userID); err != nil {
			return err
		}

		ticket = models.SupportTicket{
			UserID:  userID,
			Subject: subject,
			Status:  models.TicketStatusOpen,
		}
		if err := tx.Create(&ticket).Error; err != nil {
			return models.NewInternalError(err)
		}

		msg := models.SupportMessage{
			TicketID:   ticket.ID,
			SenderType: models.SupportSenderUser,
			Body:       message,
		}
		if err := tx.Create(&msg).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

// ListTickets returns the user's tickets, most recently updated first, each
// with its message count and latest-message preview.
func (l *Ledger) ListTickets(ctx context.Context, userID uint) ([]TicketSummary, error) {
	var tickets []models.SupportTicket
	if err := l.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&tickets).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	summaries := make([]TicketSummary, 0, len(tickets))
	for _, ticket := range tickets {
		summary := TicketSummary{SupportTicket: ticket}

		if err := l.db.WithContext(ctx).Model(&models.SupportMessage{}).
			Where("ticket_id = ?", ticket.ID).
			Count(&summary.MessageCount).Error; err != nil {
			return nil, models.NewInternalError(err)
		}

		var last models.SupportMessage
		err := l.db.WithContext(ctx).
			Where("ticket_id = ?", ticket.ID).
			Order("created_at DESC, id DESC").
			First(&last).Error
		switch {
		case err == nil:
			preview := last.Body
			if len(preview) > ticketPreviewLen {
				preview = preview[:ticketPreviewLen]
			}
			summary.LastMessage = preview
			summary.LastSender = last.SenderType
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, models.NewInternalError(err)
		}

		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// GetTicket returns one of the user's tickets with its full message trail in
// append order. Another user's ticket reads as not found.
func (l *Ledger) GetTicket(ctx context.Context, ticketID, userID uint) (*models.SupportTicket, error) {
	var ticket models.SupportTicket
	if err := l.db.WithContext(ctx).
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		Where("id = ? AND user_id = ?", ticketID, userID).
		First(&ticket).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Ticket", ticketID)
		}
		return nil, models.NewInternalError(err)
	}
	return &ticket, nil
}

// AppendTicketMessage adds a user message to one of the user's tickets and
// bumps the ticket so it surfaces in the support queue.
func (l *Ledger) AppendTicketMessage(ctx context.Context, ticketID, userID uint, body string) (uint, error) {
	if err := validateTicketBody(body); err != nil {
		return 0, err
	}

	var msg models.SupportMessage

	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ticket models.SupportTicket
		if err := forUpdate(tx).
			Where("id = ? AND user_id = ?", ticketID, userID).
			First(&ticket).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Ticket", ticketID)
			}
			return models.NewInternalError(err)
		}

		msg = models.SupportMessage{
			TicketID:   ticketID,
			SenderType: models.SupportSenderUser,
			Body:       body,
		}
		if err := tx.Create(&msg).Error; err != nil {
			return models.NewInternalError(err)
		}
		if err := tx.Save(&ticket).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return msg.ID, nil
}

func validateTicketBody(body string) error {
	if strings.TrimSpace(body) == "" {
		return models.NewValidationError("Message body must not be empty")
	}
	return nil
}
