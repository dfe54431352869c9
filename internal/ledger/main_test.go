package ledger

import (
	"fmt"
	"testing"
	"time"

	"caerus/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestLedger opens an isolated in-memory database with the full schema.
func newTestLedger(t *testing.T) (*Ledger, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A second pooled connection would see its own empty :memory: database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.FounderProfile{},
		&models.InvestorProfile{},
		&models.TalentProfile{},
		&models.Startup{},
		&models.Pitch{},
		&models.PitchView{},
		&models.TalentPitch{},
		&models.TalentPitchView{},
		&models.QAThread{},
		&models.QAMessage{},
		&models.TalentQAThread{},
		&models.TalentQAMessage{},
		&models.Subscription{},
		&models.PitchUnlock{},
		&models.QuestionTemplate{},
		&models.SupportTicket{},
		&models.SupportMessage{},
	))

	return New(db, nil), db
}

var userSeq int

func nextEmail(prefix string) string {
	userSeq++
	return fmt.Sprintf("%s_%d@example.com", prefix, userSeq)
}

func createInvestor(t *testing.T, db *gorm.DB, freeViews int) *models.User {
	t.Helper()
	user := &models.User{
		FirebaseUID: fmt.Sprintf("fb-inv-%d", userSeq+1),
		Email:       nextEmail("investor"),
		Role:        models.RoleInvestor,
	}
	require.NoError(t, db.Create(user).Error)
	profile := &models.InvestorProfile{UserID: user.ID, FreeViewsRemaining: freeViews}
	require.NoError(t, db.Create(profile).Error)
	return user
}

func createFounder(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	user := &models.User{
		FirebaseUID: fmt.Sprintf("fb-fnd-%d", userSeq+1),
		Email:       nextEmail("founder"),
		Role:        models.RoleFounder,
	}
	require.NoError(t, db.Create(user).Error)
	require.NoError(t, db.Create(&models.FounderProfile{UserID: user.ID}).Error)
	return user
}

func createTalent(t *testing.T, db *gorm.DB, status models.TalentStatus) *models.User {
	t.Helper()
	user := &models.User{
		FirebaseUID: fmt.Sprintf("fb-tal-%d", userSeq+1),
		Email:       nextEmail("talent"),
		Role:        models.RoleTalent,
	}
	require.NoError(t, db.Create(user).Error)
	require.NoError(t, db.Create(&models.TalentProfile{UserID: user.ID, Status: status}).Error)
	return user
}

func createStartupWithPitch(t *testing.T, db *gorm.DB, founder *models.User) (*models.Startup, *models.Pitch) {
	t.Helper()
	startup := &models.Startup{FounderID: founder.ID, Name: "Acme Robotics"}
	require.NoError(t, db.Create(startup).Error)
	pitch := &models.Pitch{
		StartupID: startup.ID,
		VideoURL:  "pitches/acme-30s.mp4",
		Status:    models.PitchStatusPublished,
	}
	require.NoError(t, db.Create(pitch).Error)
	return startup, pitch
}

func createTalentPitch(t *testing.T, db *gorm.DB, talent *models.User) *models.TalentPitch {
	t.Helper()
	pitch := &models.TalentPitch{
		TalentID: talent.ID,
		VideoURL: "talent/intro.mp4",
		Headline: "Full-stack engineer, 5y startup experience",
		Status:   models.PitchStatusPublished,
	}
	require.NoError(t, db.Create(pitch).Error)
	return pitch
}

func giveSubscription(t *testing.T, db *gorm.DB, investor *models.User, expiresAt time.Time) {
	t.Helper()
	sub := &models.Subscription{
		InvestorID:         investor.ID,
		PlanType:           "monthly",
		AppleTransactionID: fmt.Sprintf("txn-%d-%d", investor.ID, time.Now().UnixNano()),
		Status:             models.SubscriptionStatusActive,
		ExpiresAt:          expiresAt,
	}
	require.NoError(t, db.Create(sub).Error)
}

// appErrCode extracts the AppError code from err, or "" when err is not an
// AppError.
func appErrCode(err error) string {
	if appErr, ok := err.(*models.AppError); ok {
		return appErr.Code
	}
	return ""
}
