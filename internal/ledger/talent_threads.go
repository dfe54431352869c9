package ledger

import (
	"context"
	"errors"

	"caerus/internal/models"

	"gorm.io/gorm"
)

// CreateOrReuseTalentThread opens (or reuses) the DM thread between a
// recruiter and a talent pitch and appends initialMessage. The monthly DM
// quota is charged at creation only: messages into an existing thread are
// free. When the quota is exhausted no thread is created and the denial is
// returned for the caller's paywall.
func (l *Ledger) CreateOrReuseTalentThread(ctx context.Context, recruiterID, talentPitchID uint, initialMessage string) (uint, Decision, error) {
	if err := validateBody(initialMessage); err != nil {
		return 0, Decision{}, err
	}

	var (
		thread   models.TalentQAThread
		decision Decision
		created  bool
	)

	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		recruiter, err := loadUser(tx, recruiterID)
		if err != nil {
			return err
		}
		if recruiter.Role != models.RoleFounder && recruiter.Role != models.RoleInvestor {
			return models.NewUnauthorizedError("Only founders and investors can message talent")
		}

		var pitch models.TalentPitch
		if err := tx.
			Joins("JOIN talent_profiles tp ON tp.user_id = talent_pitches.talent_id").
			Where("talent_pitches.id = ? AND talent_pitches.status = ? AND tp.status = ?",
				talentPitchID, models.PitchStatusPublished, models.TalentStatusApproved).
			First(&pitch).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Talent pitch", talentPitchID)
			}
			return models.NewInternalError(err)
		}

		err = forUpdate(tx).
			Where("pitch_id = ? AND recruiter_id = ?", talentPitchID, recruiterID).
			First(&thread).Error
		switch {
		case err == nil:
			// Existing thread: append without consuming quota.
			decision, err = l.peekDM(tx, recruiter)
			if err != nil {
				return err
			}
			decision.Allowed = true
		case errors.Is(err, gorm.ErrRecordNotFound):
			decision, err = l.consumeDM(tx, recruiter)
			if err != nil {
				return err
			}
			if !decision.Allowed {
				return nil
			}
			thread = models.TalentQAThread{
				PitchID:     talentPitchID,
				RecruiterID: recruiterID,
				TalentID:    pitch.TalentID,
			}
			if err := tx.Create(&thread).Error; err != nil {
				return models.NewInternalError(err)
			}
			created = true
		default:
			return models.NewInternalError(err)
		}

		msg := models.TalentQAMessage{ThreadID: thread.ID, SenderID: recruiterID, Body: initialMessage}
		if err := tx.Create(&msg).Error; err != nil {
			return models.NewInternalError(err)
		}
		if err := tx.Save(&thread).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return 0, Decision{}, err
	}
	if !decision.Allowed {
		return 0, decision, nil
	}

	if l.events != nil && created {
		l.events.TalentContacted(ctx, &thread)
	}
	return thread.ID, decision, nil
}

// AppendTalentMessage adds one message to a talent DM thread. No quota is
// consumed; the DM counter gates thread creation only.
func (l *Ledger) AppendTalentMessage(ctx context.Context, threadID, senderID uint, body string) (uint, error) {
	if err := validateBody(body); err != nil {
		return 0, err
	}

	var msg models.TalentQAMessage

	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var thread models.TalentQAThread
		if err := forUpdate(tx).First(&thread, threadID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Thread", threadID)
			}
			return models.NewInternalError(err)
		}
		if !thread.IsParticipant(senderID) {
			return models.NewNotParticipantError()
		}

		msg = models.TalentQAMessage{ThreadID: threadID, SenderID: senderID, Body: body}
		if err := tx.Create(&msg).Error; err != nil {
			return models.NewInternalError(err)
		}
		if err := tx.Save(&thread).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return msg.ID, nil
}

// ListTalentThreads returns the actor's talent DM threads, talent side or
// recruiter side, most recently updated first.
func (l *Ledger) ListTalentThreads(ctx context.Context, actorID uint) ([]models.TalentQAThread, error) {
	var threads []models.TalentQAThread
	if err := l.db.WithContext(ctx).
		Where("recruiter_id = ? OR talent_id = ?", actorID, actorID).
		Order("updated_at DESC").
		Find(&threads).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return threads, nil
}

// GetTalentMessages returns a talent thread's messages in append order and
// marks the counterparty's messages as read.
func (l *Ledger) GetTalentMessages(ctx context.Context, threadID, actorID uint) ([]models.TalentQAMessage, error) {
	var thread models.TalentQAThread
	if err := l.db.WithContext(ctx).First(&thread, threadID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Thread", threadID)
		}
		return nil, models.NewInternalError(err)
	}
	if !thread.IsParticipant(actorID) {
		return nil, models.NewNotParticipantError()
	}

	if err := l.db.WithContext(ctx).Model(&models.TalentQAMessage{}).
		Where("thread_id = ? AND sender_id != ? AND is_read = ?", threadID, actorID, false).
		Update("is_read", true).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	var messages []models.TalentQAMessage
	if err := l.db.WithContext(ctx).
		Where("thread_id = ?", threadID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return messages, nil
}
