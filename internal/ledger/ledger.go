// Package ledger owns the engagement ledger: thread lifecycle, per-actor
// quota counters, and the access/limit policy deciding whether a gated
// engagement (pitch view, talent view, DM, Q&A thread) is permitted or must
// be answered with a paywall signal.
//
// Every check-then-consume sequence runs inside a transaction holding a
// row-level lock on the actor's counter row, so two simultaneous requests
// cannot both observe remaining=1 and decrement past zero. Counters for
// different actors are independent and never contend.
package ledger

import (
	"context"
	"errors"
	"time"

	"caerus/internal/models"
	"caerus/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Action is the kind of gated engagement being requested.
type Action string

const (
	// ActionPitchView consumes the investor's lifetime free-view quota.
	ActionPitchView Action = "pitch_view"
	// ActionTalentView consumes the daily talent-view quota.
	ActionTalentView Action = "talent_view"
	// ActionDMCreate consumes the monthly DM quota.
	ActionDMCreate Action = "dm_create"
)

// Reason explains a Decision.
type Reason string

const (
	// ReasonEntitled means an active subscription bypassed the quota.
	ReasonEntitled Reason = "entitled"
	// ReasonFreeQuota means free quota was available (and consumed, unless
	// the view was an idempotent repeat).
	ReasonFreeQuota Reason = "free_quota"
	// ReasonExhausted means the quota is spent; the caller should surface
	// a paywall.
	ReasonExhausted Reason = "exhausted"
)

// Decision is the outcome of a quota check. A denial is a normal outcome,
// not an error: handlers map Allowed=false to HTTP 402.
type Decision struct {
	Allowed   bool   `json:"allowed"`
	Remaining int    `json:"remaining"`
	Reason    Reason `json:"reason"`
}

// Events receives ledger side effects after the owning transaction has
// committed. Implementations must not block; a delivery failure never rolls
// back committed ledger state.
type Events interface {
	QuestionAsked(ctx context.Context, thread *models.QAThread, questions int)
	FounderReplied(ctx context.Context, thread *models.QAThread)
	InvestorInterested(ctx context.Context, thread *models.QAThread)
	InvestorDeclined(ctx context.Context, thread *models.QAThread, message string)
	TalentContacted(ctx context.Context, thread *models.TalentQAThread)
}

// Ledger implements the access/limit policy and the Q&A thread state
// machine over the database.
type Ledger struct {
	db     *gorm.DB
	events Events
	now    func() time.Time
}

// New creates a Ledger. events may be nil when no dispatcher is wired
// (tests, offline tools).
func New(db *gorm.DB, events Events) *Ledger {
	return &Ledger{db: db, events: events, now: time.Now}
}

// CheckAndConsume decides whether actorID may perform action against
// targetID and, if permitted, atomically records the consumption.
// targetID is the pitch for view actions and the counterparty for DMs.
func (l *Ledger) CheckAndConsume(ctx context.Context, actorID uint, action Action, targetID uint) (Decision, error) {
	switch action {
	case ActionPitchView:
		return l.RequestPitchView(ctx, actorID, targetID)
	case ActionTalentView:
		return l.RequestTalentView(ctx, actorID, targetID)
	case ActionDMCreate:
		return l.RequestDM(ctx, actorID, targetID, 0)
	default:
		return Decision{}, models.NewValidationError("unknown action kind")
	}
}

// RequestPitchView charges an investor's lifetime free-view quota for a
// published startup pitch. Re-viewing an already-viewed pitch is free, and
// an active subscription bypasses the counter entirely.
func (l *Ledger) RequestPitchView(ctx context.Context, actorID, pitchID uint) (Decision, error) {
	now := l.now()
	var decision Decision

	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := loadUser(tx, actorID)
		if err != nil {
			return err
		}
		if user.Role != models.RoleInvestor {
			return models.NewUnauthorizedError("Only investors can view startup pitches")
		}

		var pitch models.Pitch
		if err := tx.Where("id = ? AND status = ?", pitchID, models.PitchStatusPublished).First(&pitch).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Pitch", pitchID)
			}
			return models.NewInternalError(err)
		}

		var profile models.InvestorProfile
		if err := forUpdate(tx).Where("user_id = ?", actorID).First(&profile).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Investor profile", actorID)
			}
			return models.NewInternalError(err)
		}

		entitled, err := hasActiveSubscription(tx, actorID, now)
		if err != nil {
			return err
		}

		// Idempotent re-view: a recorded (investor, pitch) pair was
		// already charged and never decrements again.
		var seen int64
		if err := tx.Model(&models.PitchView{}).
			Where("pitch_id = ? AND investor_id = ?", pitchID, actorID).
			Count(&seen).Error; err != nil {
			return models.NewInternalError(err)
		}
		if seen > 0 {
			decision = Decision{Allowed: true, Remaining: profile.FreeViewsRemaining, Reason: reasonFor(entitled)}
			return nil
		}

		switch {
		case entitled:
			decision = Decision{Allowed: true, Remaining: profile.FreeViewsRemaining, Reason: ReasonEntitled}
		case profile.FreeViewsRemaining > 0:
			profile.FreeViewsRemaining--
			if err := tx.Save(&profile).Error; err != nil {
				return models.NewInternalError(err)
			}
			decision = Decision{Allowed: true, Remaining: profile.FreeViewsRemaining, Reason: ReasonFreeQuota}
		default:
			decision = Decision{Allowed: false, Remaining: 0, Reason: ReasonExhausted}
			return nil
		}

		view := models.PitchView{PitchID: pitchID, InvestorID: actorID, ViewedAt: now}
		if err := tx.Create(&view).Error; err != nil {
			return models.NewInternalError(err)
		}
		if err := tx.Model(&pitch).UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return Decision{}, err
	}

	observability.LedgerDecisions.WithLabelValues(string(ActionPitchView), string(decision.Reason)).Inc()
	return decision, nil
}

// RequestTalentView charges the daily talent-view quota of a founder or
// investor for a published talent pitch. The daily window resets lazily.
// Unlike startup pitch views, repeat views of the same talent pitch within
// a day each consume quota.
func (l *Ledger) RequestTalentView(ctx context.Context, actorID, talentPitchID uint) (Decision, error) {
	now := l.now()
	var decision Decision

	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := loadUser(tx, actorID)
		if err != nil {
			return err
		}
		if user.Role != models.RoleFounder && user.Role != models.RoleInvestor {
			return models.NewUnauthorizedError("Only founders and investors can browse talent")
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

		counters, save, err := l.lockedCounters(tx, user)
		if err != nil {
			return err
		}
		dirty := counters.ResetDailyWindow(now)

		// Subscriptions exist on the investor side only; founders have no
		// entitlement bypass for talent browsing.
		entitled := false
		if user.Role == models.RoleInvestor {
			entitled, err = hasActiveSubscription(tx, actorID, now)
			if err != nil {
				return err
			}
		}

		remaining := models.DailyTalentViewAllotment - counters.TalentViewsToday
		if remaining < 0 {
			remaining = 0
		}

		switch {
		case entitled:
			decision = Decision{Allowed: true, Remaining: remaining, Reason: ReasonEntitled}
		case remaining > 0:
			counters.TalentViewsToday++
			dirty = true
			decision = Decision{Allowed: true, Remaining: remaining - 1, Reason: ReasonFreeQuota}
		default:
			decision = Decision{Allowed: false, Remaining: 0, Reason: ReasonExhausted}
		}

		if dirty {
			if err := save(); err != nil {
				return err
			}
		}
		if !decision.Allowed {
			return nil
		}

		view := models.TalentPitchView{PitchID: talentPitchID, ViewerID: actorID, ViewedAt: now}
		if err := tx.Create(&view).Error; err != nil {
			return models.NewInternalError(err)
		}
		if err := tx.Model(&pitch).UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return Decision{}, err
	}

	observability.LedgerDecisions.WithLabelValues(string(ActionTalentView), string(decision.Reason)).Inc()
	return decision, nil
}

// RequestDM charges the monthly DM quota of a founder or investor.
// counterpartyID must exist when non-zero; subjectID is accepted for
// symmetry with the thread operations and not otherwise interpreted.
func (l *Ledger) RequestDM(ctx context.Context, actorID, counterpartyID, subjectID uint) (Decision, error) {
	_ = subjectID
	var decision Decision

	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := loadUser(tx, actorID)
		if err != nil {
			return err
		}
		if counterpartyID != 0 {
			if _, err := loadUser(tx, counterpartyID); err != nil {
				return err
			}
		}

		decision, err = l.consumeDM(tx, user)
		return err
	})
	if err != nil {
		return Decision{}, err
	}

	observability.LedgerDecisions.WithLabelValues(string(ActionDMCreate), string(decision.Reason)).Inc()
	return decision, nil
}

// consumeDM performs the monthly-window reset and increment against a
// locked counter row. Callers own the surrounding transaction.
func (l *Ledger) consumeDM(tx *gorm.DB, user *models.User) (Decision, error) {
	now := l.now()

	counters, save, err := l.lockedCounters(tx, user)
	if err != nil {
		return Decision{}, err
	}
	dirty := counters.ResetMonthlyWindow(now)

	entitled := false
	if user.Role == models.RoleInvestor {
		entitled, err = hasActiveSubscription(tx, user.ID, now)
		if err != nil {
			return Decision{}, err
		}
	}

	remaining := models.MonthlyDMAllotment - counters.TalentDMsThisMonth
	if remaining < 0 {
		remaining = 0
	}

	var decision Decision
	switch {
	case entitled:
		decision = Decision{Allowed: true, Remaining: remaining, Reason: ReasonEntitled}
	case remaining > 0:
		counters.TalentDMsThisMonth++
		dirty = true
		decision = Decision{Allowed: true, Remaining: remaining - 1, Reason: ReasonFreeQuota}
	default:
		decision = Decision{Allowed: false, Remaining: 0, Reason: ReasonExhausted}
	}

	if dirty {
		if err := save(); err != nil {
			return Decision{}, err
		}
	}
	return decision, nil
}

// peekDM reports the decision RequestDM would return without consuming
// anything. Used when an existing thread is reused.
func (l *Ledger) peekDM(tx *gorm.DB, user *models.User) (Decision, error) {
	now := l.now()

	counters, save, err := l.lockedCounters(tx, user)
	if err != nil {
		return Decision{}, err
	}
	if counters.ResetMonthlyWindow(now) {
		if err := save(); err != nil {
			return Decision{}, err
		}
	}

	entitled := false
	if user.Role == models.RoleInvestor {
		entitled, err = hasActiveSubscription(tx, user.ID, now)
		if err != nil {
			return Decision{}, err
		}
	}

	remaining := models.MonthlyDMAllotment - counters.TalentDMsThisMonth
	if remaining < 0 {
		remaining = 0
	}
	if entitled {
		return Decision{Allowed: true, Remaining: remaining, Reason: ReasonEntitled}, nil
	}
	if remaining > 0 {
		return Decision{Allowed: true, Remaining: remaining, Reason: ReasonFreeQuota}, nil
	}
	return Decision{Allowed: false, Remaining: 0, Reason: ReasonExhausted}, nil
}

// lockedCounters loads the actor's profile row under a row-level lock and
// returns its counters plus a closure persisting them.
func (l *Ledger) lockedCounters(tx *gorm.DB, user *models.User) (*models.EngagementCounters, func() error, error) {
	switch user.Role {
	case models.RoleFounder:
		var p models.FounderProfile
		if err := forUpdate(tx).Where("user_id = ?", user.ID).First(&p).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil, models.NewNotFoundError("Founder profile", user.ID)
			}
			return nil, nil, models.NewInternalError(err)
		}
		return &p.EngagementCounters, func() error {
			if err := tx.Save(&p).Error; err != nil {
				return models.NewInternalError(err)
			}
			return nil
		}, nil
	case models.RoleInvestor:
		var p models.InvestorProfile
		if err := forUpdate(tx).Where("user_id = ?", user.ID).First(&p).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil, models.NewNotFoundError("Investor profile", user.ID)
			}
			return nil, nil, models.NewInternalError(err)
		}
		return &p.EngagementCounters, func() error {
			if err := tx.Save(&p).Error; err != nil {
				return models.NewInternalError(err)
			}
			return nil
		}, nil
	default:
		return nil, nil, models.NewUnauthorizedError("Talent accounts have no engagement quotas")
	}
}

func loadUser(tx *gorm.DB, id uint) (*models.User, error) {
	var user models.User
	if err := tx.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func hasActiveSubscription(tx *gorm.DB, investorID uint, now time.Time) (bool, error) {
	var count int64
	if err := tx.Model(&models.Subscription{}).
		Where("investor_id = ? AND status = ? AND expires_at > ?",
			investorID, models.SubscriptionStatusActive, now).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

// forUpdate adds a row-level write lock. SQLite (used by unit tests) has no
// FOR UPDATE syntax; its single-writer lock already serializes the
// transaction, so the clause is skipped there.
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

func reasonFor(entitled bool) Reason {
	if entitled {
		return ReasonEntitled
	}
	return ReasonFreeQuota
}
