package seed

import (
	"testing"

	"caerus/internal/database"
	"caerus/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newSeedDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))
	return db
}

func TestSeedMarketplace_PopulatesCoherentDemoData(t *testing.T) {
	db := newSeedDB(t)
	s := NewSeeder(db, Options{MaxDays: 30})

	require.NoError(t, s.SeedMarketplace(4, 3, 2))

	var users, startups, pitches, talentPitches, threads, messages int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	require.NoError(t, db.Model(&models.Startup{}).Count(&startups).Error)
	require.NoError(t, db.Model(&models.Pitch{}).Count(&pitches).Error)
	require.NoError(t, db.Model(&models.TalentPitch{}).Count(&talentPitches).Error)
	require.NoError(t, db.Model(&models.QAThread{}).Count(&threads).Error)
	require.NoError(t, db.Model(&models.QAMessage{}).Count(&messages).Error)

	assert.EqualValues(t, 9, users)
	assert.EqualValues(t, 4, startups)
	assert.EqualValues(t, 4, pitches)
	assert.EqualValues(t, 2, talentPitches)
	assert.EqualValues(t, 6, threads)
	// Two questions plus one founder reply per thread.
	assert.EqualValues(t, threads*3, messages)

	// Seeded threads went through the real transition table, so only legal
	// statuses can appear.
	var statuses []models.ThreadStatus
	require.NoError(t, db.Model(&models.QAThread{}).
		Distinct("status").Pluck("status", &statuses).Error)
	for _, status := range statuses {
		assert.Contains(t, []models.ThreadStatus{
			models.ThreadStatusActive,
			models.ThreadStatusAwaitingResponse,
			models.ThreadStatusInterested,
			models.ThreadStatusDeclined,
			models.ThreadStatusConnected,
		}, status)
	}
}

func TestClearAll_EmptiesEveryTable(t *testing.T) {
	db := newSeedDB(t)
	s := NewSeeder(db, Options{})

	require.NoError(t, s.SeedMarketplace(2, 2, 1))
	require.NoError(t, s.ClearAll())

	var users, threads int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	require.NoError(t, db.Model(&models.QAThread{}).Count(&threads).Error)
	assert.Zero(t, users)
	assert.Zero(t, threads)
}

func TestFactory_DryRunWritesNothing(t *testing.T) {
	db := newSeedDB(t)
	f := NewFactory(db, Options{DryRun: true})

	_, err := f.CreateInvestor()
	require.NoError(t, err)

	var users int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	assert.Zero(t, users)
}
