package repository

import (
	"context"
	"errors"

	"caerus/internal/models"

	"gorm.io/gorm"
)

// QuestionTemplateRepository defines persistence operations for investor
// question templates.
type QuestionTemplateRepository interface {
	// ListForInvestor returns the investor's templates, materializing the
	// default set on first read.
	ListForInvestor(ctx context.Context, investorID uint) ([]models.QuestionTemplate, error)
	Create(ctx context.Context, template *models.QuestionTemplate) error
	Delete(ctx context.Context, id, investorID uint) error
}

type questionTemplateRepository struct {
	db *gorm.DB
}

// NewQuestionTemplateRepository returns a new QuestionTemplateRepository implementation.
func NewQuestionTemplateRepository(db *gorm.DB) QuestionTemplateRepository {
	return &questionTemplateRepository{db: db}
}

func (r *questionTemplateRepository) ListForInvestor(ctx context.Context, investorID uint) ([]models.QuestionTemplate, error) {
	var templates []models.QuestionTemplate

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.QuestionTemplate{}).
			Where("investor_id = ?", investorID).
			Count(&count).Error; err != nil {
			return models.NewInternalError(err)
		}

		if count == 0 {
			// First read seeds the stock question set so the investor has
			// something to send immediately.
			seeded := make([]models.QuestionTemplate, 0, len(models.DefaultQuestions))
			for i, q := range models.DefaultQuestions {
				seeded = append(seeded, models.QuestionTemplate{
					InvestorID:   investorID,
					QuestionText: q,
					IsDefault:    true,
					DisplayOrder: i,
				})
			}
			if err := tx.Create(&seeded).Error; err != nil {
				return models.NewInternalError(err)
			}
		}

		if err := tx.
			Where("investor_id = ?", investorID).
			Order("display_order ASC, id ASC").
			Find(&templates).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return templates, nil
}

func (r *questionTemplateRepository) Create(ctx context.Context, template *models.QuestionTemplate) error {
	if template.QuestionText == "" {
		return models.NewValidationError("Question text must not be empty")
	}
	if err := r.db.WithContext(ctx).Create(template).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *questionTemplateRepository) Delete(ctx context.Context, id, investorID uint) error {
	var template models.QuestionTemplate
	if err := r.db.WithContext(ctx).
		Where("id = ? AND investor_id = ?", id, investorID).
		First(&template).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Question template", id)
		}
		return models.NewInternalError(err)
	}
	if err := r.db.WithContext(ctx).Delete(&template).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
