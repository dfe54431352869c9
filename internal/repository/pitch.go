package repository

import (
	"context"
	"errors"
	"time"

	"caerus/internal/models"
	"caerus/internal/observability"

	"gorm.io/gorm"
)

// PitchRepository defines persistence operations for startups and pitches.
type PitchRepository interface {
	GetStartup(ctx context.Context, id uint) (*models.Startup, error)
	ListStartupsByFounder(ctx context.Context, founderID uint) ([]models.Startup, error)
	CreateStartup(ctx context.Context, startup *models.Startup) error
	UpdateStartup(ctx context.Context, startup *models.Startup) error

	GetPitch(ctx context.Context, id uint) (*models.Pitch, error)
	ListPublishedPitches(ctx context.Context, limit, offset int) ([]models.Pitch, error)
	CreatePitch(ctx context.Context, pitch *models.Pitch) error
	UpdatePitch(ctx context.Context, pitch *models.Pitch) error
	HasViewed(ctx context.Context, pitchID, investorID uint) (bool, error)

	GetTalentPitch(ctx context.Context, id uint) (*models.TalentPitch, error)
	ListBrowsableTalentPitches(ctx context.Context, limit, offset int) ([]models.TalentPitch, error)
	CreateTalentPitch(ctx context.Context, pitch *models.TalentPitch) error
	UpdateTalentPitch(ctx context.Context, pitch *models.TalentPitch) error
}

type pitchRepository struct {
	db *gorm.DB
}

// NewPitchRepository returns a new PitchRepository implementation.
func NewPitchRepository(db *gorm.DB) PitchRepository {
	return &pitchRepository{db: db}
}

func (r *pitchRepository) GetStartup(ctx context.Context, id uint) (*models.Startup, error) {
	var startup models.Startup
	if err := r.db.WithContext(ctx).First(&startup, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Startup", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &startup, nil
}

func (r *pitchRepository) ListStartupsByFounder(ctx context.Context, founderID uint) ([]models.Startup, error) {
	var startups []models.Startup
	if err := r.db.WithContext(ctx).
		Where("founder_id = ?", founderID).
		Order("created_at ASC").
		Find(&startups).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return startups, nil
}

func (r *pitchRepository) CreateStartup(ctx context.Context, startup *models.Startup) error {
	if err := r.db.WithContext(ctx).Create(startup).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *pitchRepository) UpdateStartup(ctx context.Context, startup *models.Startup) error {
	if err := r.db.WithContext(ctx).Save(startup).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *pitchRepository) GetPitch(ctx context.Context, id uint) (*models.Pitch, error) {
	var pitch models.Pitch
	if err := r.db.WithContext(ctx).Preload("Startup").First(&pitch, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Pitch", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &pitch, nil
}

// ListPublishedPitches returns the investor-facing swipe feed, newest first.
func (r *pitchRepository) ListPublishedPitches(ctx context.Context, limit, offset int) ([]models.Pitch, error) {
	defer observability.ObserveQuery("list_published", "pitches", time.Now())
	limit = clampLimit(limit)
	var pitches []models.Pitch
	if err := r.db.WithContext(ctx).
		Where("status = ?", models.PitchStatusPublished).
		Preload("Startup").
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&pitches).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return pitches, nil
}

func (r *pitchRepository) CreatePitch(ctx context.Context, pitch *models.Pitch) error {
	if err := r.db.WithContext(ctx).Create(pitch).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *pitchRepository) UpdatePitch(ctx context.Context, pitch *models.Pitch) error {
	if err := r.db.WithContext(ctx).Save(pitch).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// HasViewed reports whether the investor has already been charged for this
// pitch. Feed rendering uses it to mark unlocked cards.
func (r *pitchRepository) HasViewed(ctx context.Context, pitchID, investorID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.PitchView{}).
		Where("pitch_id = ? AND investor_id = ?", pitchID, investorID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *pitchRepository) GetTalentPitch(ctx context.Context, id uint) (*models.TalentPitch, error) {
	var pitch models.TalentPitch
	if err := r.db.WithContext(ctx).First(&pitch, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Talent pitch", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &pitch, nil
}

// ListBrowsableTalentPitches returns published pitches of approved talent,
// newest first.
func (r *pitchRepository) ListBrowsableTalentPitches(ctx context.Context, limit, offset int) ([]models.TalentPitch, error) {
	defer observability.ObserveQuery("list_browsable", "talent_pitches", time.Now())
	limit = clampLimit(limit)
	var pitches []models.TalentPitch
	if err := r.db.WithContext(ctx).
		Joins("JOIN talent_profiles tp ON tp.user_id = talent_pitches.talent_id").
		Where("talent_pitches.status = ? AND tp.status = ?", models.PitchStatusPublished, models.TalentStatusApproved).
		Order("talent_pitches.created_at DESC").
		Limit(limit).Offset(offset).
		Find(&pitches).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return pitches, nil
}

func (r *pitchRepository) CreateTalentPitch(ctx context.Context, pitch *models.TalentPitch) error {
	if err := r.db.WithContext(ctx).Create(pitch).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *pitchRepository) UpdateTalentPitch(ctx context.Context, pitch *models.TalentPitch) error {
	if err := r.db.WithContext(ctx).Save(pitch).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return 20
	}
	if limit > 100 {
		return 100
	}
	return limit
}
