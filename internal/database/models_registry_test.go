package database

import (
	"testing"

	modelspkg "caerus/internal/models"

	"github.com/stretchr/testify/require"
)

func TestPersistentModels_IncludesEngagementTables(t *testing.T) {
	var thread, counters, views bool
	for _, model := range PersistentModels() {
		switch model.(type) {
		case *modelspkg.QAThread:
			thread = true
		case *modelspkg.InvestorProfile:
			counters = true
		case *modelspkg.PitchView:
			views = true
		}
	}
	require.True(t, thread, "PersistentModels should include QAThread")
	require.True(t, counters, "PersistentModels should include InvestorProfile")
	require.True(t, views, "PersistentModels should include PitchView")
}

func TestPersistentModels_AutoMigratesOnSQLite(t *testing.T) {
	// Every registered model must survive a clean AutoMigrate; a bad tag or
	// index collision fails here instead of at server boot.
	db := openSQLite(t)
	require.NoError(t, db.AutoMigrate(PersistentModels()...))
}
