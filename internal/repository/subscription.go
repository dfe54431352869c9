package repository

import (
	"context"
	"errors"
	"time"

	"caerus/internal/models"

	"gorm.io/gorm"
)

// SubscriptionRepository defines persistence operations for investor
// subscriptions and founder pitch unlocks.
type SubscriptionRepository interface {
	ActiveForInvestor(ctx context.Context, investorID uint, now time.Time) (*models.Subscription, error)
	Record(ctx context.Context, sub *models.Subscription) error
	Expire(ctx context.Context, id uint) error

	RecordPitchUnlock(ctx context.Context, unlock *models.PitchUnlock) error
	HasPitchUnlock(ctx context.Context, startupID, founderID uint) (bool, error)
}

type subscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository returns a new SubscriptionRepository implementation.
func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

// ActiveForInvestor returns the investor's current entitlement, or nil when
// none is active.
func (r *subscriptionRepository) ActiveForInvestor(ctx context.Context, investorID uint, now time.Time) (*models.Subscription, error) {
	var sub models.Subscription
	if err := r.db.WithContext(ctx).
		Where("investor_id = ? AND status = ? AND expires_at > ?",
			investorID, models.SubscriptionStatusActive, now).
		Order("expires_at DESC").
		First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &sub, nil
}

// Record stores a verified entitlement window. The receipt itself was
// validated upstream; duplicate transaction IDs are rejected here.
func (r *subscriptionRepository) Record(ctx context.Context, sub *models.Subscription) error {
	if err := r.db.WithContext(ctx).Create(sub).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewValidationError("Transaction already recorded")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *subscriptionRepository) Expire(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("id = ?", id).
		Update("status", models.SubscriptionStatusExpired)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Subscription", id)
	}
	return nil
}

func (r *subscriptionRepository) RecordPitchUnlock(ctx context.Context, unlock *models.PitchUnlock) error {
	if err := r.db.WithContext(ctx).Create(unlock).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewValidationError("Transaction already recorded")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *subscriptionRepository) HasPitchUnlock(ctx context.Context, startupID, founderID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.PitchUnlock{}).
		Where("startup_id = ? AND founder_id = ?", startupID, founderID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}
