package ledger

import (
	"context"
	"errors"
	"strings"

	"caerus/internal/models"
	"caerus/internal/observability"

	"gorm.io/gorm"
)

// CreateOrReuseThread opens the Q&A thread for a (founder, investor,
// startup) triple, creating it in status active on first request and
// reusing the existing thread afterwards. Each question body is appended as
// an investor message. Idempotent on the triple: repeated calls return the
// same thread ID. Follow-up questions into a reused active thread take the
// same awaiting_response hop as AppendMessage.
func (l *Ledger) CreateOrReuseThread(ctx context.Context, investorID, founderID, startupID uint, questionBodies []string) (uint, error) {
	for _, body := range questionBodies {
		if err := validateBody(body); err != nil {
			return 0, err
		}
	}

	var (
		thread  models.QAThread
		created bool
	)
	asked := len(questionBodies)

	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		investor, err := loadUser(tx, investorID)
		if err != nil {
			return err
		}
		if investor.Role != models.RoleInvestor {
			return models.NewUnauthorizedError("Only investors can start Q&A threads")
		}

		var startup models.Startup
		if err := tx.First(&startup, startupID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Startup", startupID)
			}
			return models.NewInternalError(err)
		}
		if startup.FounderID != founderID {
			return models.NewValidationError("Startup does not belong to the given founder")
		}

		err = forUpdate(tx).
			Where("founder_id = ? AND investor_id = ? AND startup_id = ?", founderID, investorID, startupID).
			First(&thread).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			thread = models.QAThread{
				FounderID:  founderID,
				InvestorID: investorID,
				StartupID:  startupID,
				Status:     models.ThreadStatusActive,
			}
			if err := tx.Create(&thread).Error; err != nil {
				return models.NewInternalError(err)
			}
			created = true
		case err != nil:
			return models.NewInternalError(err)
		}

		for _, body := range questionBodies {
			msg := models.QAMessage{ThreadID: thread.ID, SenderID: investorID, Body: body}
			if err := tx.Create(&msg).Error; err != nil {
				return models.NewInternalError(err)
			}
		}
		if asked > 0 {
			// The creation batch leaves the thread active; follow-ups landing
			// on a reused thread take the same awaiting_response hop as
			// AppendMessage, so the status a founder sees does not depend on
			// which endpoint carried them.
			if !created {
				if err := maybeAwaitResponse(tx, &thread); err != nil {
					return err
				}
			}
			if err := touchThread(tx, &thread); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if l.events != nil && asked > 0 {
		l.events.QuestionAsked(ctx, &thread, asked)
	}
	return thread.ID, nil
}

// AppendMessage adds one message to a Q&A thread. The body is validated
// before any state mutation. An investor follow-up sent while the thread is
// active and the founder has not yet replied moves the thread to
// awaiting_response; appends never change interested, declined or
// connected.
func (l *Ledger) AppendMessage(ctx context.Context, threadID, senderID uint, body string) (uint, error) {
	if err := validateBody(body); err != nil {
		return 0, err
	}

	var (
		thread models.QAThread
		msg    models.QAMessage
	)

	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockThread(tx, threadID, &thread); err != nil {
			return err
		}
		if !thread.IsParticipant(senderID) {
			return models.NewNotParticipantError()
		}

		msg = models.QAMessage{ThreadID: threadID, SenderID: senderID, Body: body}
		if err := tx.Create(&msg).Error; err != nil {
			return models.NewInternalError(err)
		}

		if senderID == thread.InvestorID {
			if err := maybeAwaitResponse(tx, &thread); err != nil {
				return err
			}
		}
		return touchThread(tx, &thread)
	})
	if err != nil {
		return 0, err
	}

	if l.events != nil {
		if senderID == thread.InvestorID {
			l.events.QuestionAsked(ctx, &thread, 1)
		} else {
			l.events.FounderReplied(ctx, &thread)
		}
	}
	return msg.ID, nil
}

// TransitionStatus applies the investor's Connect or Decline CTA to a
// thread. An unreachable transition is rejected with an invalid-transition
// error and the thread left untouched; declined and interested are
// absorbing so the founder is never notified twice.
func (l *Ledger) TransitionStatus(ctx context.Context, threadID, actorID uint, event models.ThreadEvent, declineMessage string) (models.ThreadStatus, error) {
	if event != models.ThreadEventConnect && event != models.ThreadEventDecline {
		return "", models.NewValidationError("event must be connect or decline")
	}
	if event == models.ThreadEventDecline && len(declineMessage) > models.MaxMessageBody {
		return "", models.NewValidationError("Decline message exceeds 500 characters")
	}

	var thread models.QAThread

	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockThread(tx, threadID, &thread); err != nil {
			return err
		}
		if !thread.IsParticipant(actorID) {
			return models.NewNotParticipantError()
		}
		if actorID != thread.InvestorID {
			return models.NewUnauthorizedError("Only the investor can connect or decline")
		}

		next, ok := thread.Status.Transition(event)
		if !ok {
			observability.ThreadTransitions.WithLabelValues(string(event), "invalid").Inc()
			return models.NewInvalidTransitionError(thread.Status, event)
		}

		thread.Status = next
		if event == models.ThreadEventDecline {
			thread.DeclineMessage = strings.TrimSpace(declineMessage)
		}
		return touchThread(tx, &thread)
	})
	if err != nil {
		return "", err
	}

	observability.ThreadTransitions.WithLabelValues(string(event), "applied").Inc()
	if l.events != nil {
		switch event {
		case models.ThreadEventConnect:
			l.events.InvestorInterested(ctx, &thread)
		case models.ThreadEventDecline:
			l.events.InvestorDeclined(ctx, &thread, thread.DeclineMessage)
		}
	}
	return thread.Status, nil
}

// OpenContact moves an interested thread to connected, charging the
// requesting actor's monthly DM quota first. Either participant may open
// the contact flow. When the quota is exhausted the thread stays
// interested and the denial is returned for the caller's paywall.
func (l *Ledger) OpenContact(ctx context.Context, threadID, actorID uint) (Decision, models.ThreadStatus, error) {
	var (
		thread   models.QAThread
		decision Decision
	)

	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockThread(tx, threadID, &thread); err != nil {
			return err
		}
		if !thread.IsParticipant(actorID) {
			return models.NewNotParticipantError()
		}

		next, ok := thread.Status.Transition(models.ThreadEventOpenContact)
		if !ok {
			observability.ThreadTransitions.WithLabelValues(string(models.ThreadEventOpenContact), "invalid").Inc()
			return models.NewInvalidTransitionError(thread.Status, models.ThreadEventOpenContact)
		}

		user, err := loadUser(tx, actorID)
		if err != nil {
			return err
		}
		decision, err = l.consumeDM(tx, user)
		if err != nil {
			return err
		}
		if !decision.Allowed {
			observability.ThreadTransitions.WithLabelValues(string(models.ThreadEventOpenContact), "denied").Inc()
			return nil
		}

		thread.Status = next
		return touchThread(tx, &thread)
	})
	if err != nil {
		return Decision{}, "", err
	}

	observability.LedgerDecisions.WithLabelValues(string(ActionDMCreate), string(decision.Reason)).Inc()
	if decision.Allowed {
		observability.ThreadTransitions.WithLabelValues(string(models.ThreadEventOpenContact), "applied").Inc()
	}
	return decision, thread.Status, nil
}

// GetThread returns a thread the actor participates in.
func (l *Ledger) GetThread(ctx context.Context, threadID, actorID uint) (*models.QAThread, error) {
	var thread models.QAThread
	if err := l.db.WithContext(ctx).Preload("Startup").First(&thread, threadID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Thread", threadID)
		}
		return nil, models.NewInternalError(err)
	}
	if !thread.IsParticipant(actorID) {
		return nil, models.NewNotParticipantError()
	}
	return &thread, nil
}

// ListThreads returns the actor's threads, most recently updated first.
func (l *Ledger) ListThreads(ctx context.Context, actorID uint) ([]models.QAThread, error) {
	var threads []models.QAThread
	if err := l.db.WithContext(ctx).
		Where("founder_id = ? OR investor_id = ?", actorID, actorID).
		Preload("Startup").
		Order("updated_at DESC").
		Find(&threads).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return threads, nil
}

// GetMessages returns a thread's messages in append order and marks the
// counterparty's messages as read.
func (l *Ledger) GetMessages(ctx context.Context, threadID, actorID uint) ([]models.QAMessage, error) {
	var thread models.QAThread
	if err := l.db.WithContext(ctx).First(&thread, threadID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Thread", threadID)
		}
		return nil, models.NewInternalError(err)
	}
	if !thread.IsParticipant(actorID) {
		return nil, models.NewNotParticipantError()
	}

	if err := l.db.WithContext(ctx).Model(&models.QAMessage{}).
		Where("thread_id = ? AND sender_id != ? AND is_read = ?", threadID, actorID, false).
		Update("is_read", true).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	var messages []models.QAMessage
	if err := l.db.WithContext(ctx).
		Where("thread_id = ?", threadID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return messages, nil
}

// UnreadCount returns the number of unread counterparty messages in a thread.
func (l *Ledger) UnreadCount(ctx context.Context, threadID, actorID uint) (int64, error) {
	var count int64
	if err := l.db.WithContext(ctx).Model(&models.QAMessage{}).
		Where("thread_id = ? AND sender_id != ? AND is_read = ?", threadID, actorID, false).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

// maybeAwaitResponse moves an active thread to awaiting_response when the
// investor has messaged and the founder has not replied yet. Callers persist
// the thread afterwards.
func maybeAwaitResponse(tx *gorm.DB, thread *models.QAThread) error {
	if thread.Status != models.ThreadStatusActive {
		return nil
	}
	var founderReplies int64
	if err := tx.Model(&models.QAMessage{}).
		Where("thread_id = ? AND sender_id = ?", thread.ID, thread.FounderID).
		Count(&founderReplies).Error; err != nil {
		return models.NewInternalError(err)
	}
	if founderReplies == 0 {
		thread.Status = models.ThreadStatusAwaitingResponse
	}
	return nil
}

func lockThread(tx *gorm.DB, threadID uint, out *models.QAThread) error {
	if err := forUpdate(tx).First(out, threadID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Thread", threadID)
		}
		return models.NewInternalError(err)
	}
	return nil
}

func touchThread(tx *gorm.DB, thread *models.QAThread) error {
	if err := tx.Save(thread).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func validateBody(body string) error {
	if strings.TrimSpace(body) == "" {
		return models.NewValidationError("Message body must not be empty")
	}
	if len(body) > models.MaxMessageBody {
		return models.NewValidationError("Message body exceeds 500 characters")
	}
	return nil
}
