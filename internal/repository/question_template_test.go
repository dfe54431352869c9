package repository

import (
	"context"
	"testing"

	"caerus/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.QuestionTemplate{}))
	return db
}

func TestQuestionTemplateRepository_FirstReadSeedsDefaults(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewQuestionTemplateRepository(db)
	ctx := context.Background()

	templates, err := repo.ListForInvestor(ctx, 1)
	require.NoError(t, err)
	require.Len(t, templates, len(models.DefaultQuestions))
	assert.Equal(t, models.DefaultQuestions[0], templates[0].QuestionText)
	assert.True(t, templates[0].IsDefault)

	// Second read returns the same set without reseeding.
	templates, err = repo.ListForInvestor(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, templates, len(models.DefaultQuestions))

	// Another investor gets their own copy.
	templates, err = repo.ListForInvestor(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, templates, len(models.DefaultQuestions))

	var total int64
	require.NoError(t, db.Model(&models.QuestionTemplate{}).Count(&total).Error)
	assert.Equal(t, int64(2*len(models.DefaultQuestions)), total)
}

func TestQuestionTemplateRepository_CreateAndDelete(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewQuestionTemplateRepository(db)
	ctx := context.Background()

	// Seed the default set first.
	_, err := repo.ListForInvestor(ctx, 1)
	require.NoError(t, err)

	err = repo.Create(ctx, &models.QuestionTemplate{InvestorID: 1, QuestionText: ""})
	require.Error(t, err)

	custom := &models.QuestionTemplate{InvestorID: 1, QuestionText: "What's your churn rate?", DisplayOrder: 99}
	require.NoError(t, repo.Create(ctx, custom))

	templates, err := repo.ListForInvestor(ctx, 1)
	require.NoError(t, err)
	// Custom question sorts after the seeded defaults.
	assert.Equal(t, "What's your churn rate?", templates[len(templates)-1].QuestionText)

	// Deleting someone else's template is a not-found, not a delete.
	err = repo.Delete(ctx, custom.ID, 2)
	require.Error(t, err)

	require.NoError(t, repo.Delete(ctx, custom.ID, 1))
	templates, err = repo.ListForInvestor(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, templates, len(models.DefaultQuestions))
}
