package database

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	return db
}

func TestCustomGormLogger_LogModeReturnsCopy(t *testing.T) {
	base := &CustomGormLogger{
		logger: slog.Default(),
		Config: logger.Config{LogLevel: logger.Warn},
	}

	raised := base.LogMode(logger.Info)
	assert.NotSame(t, base, raised)
	assert.Equal(t, logger.Warn, base.Config.LogLevel)
}

func TestCustomGormLogger_TraceIgnoresRecordNotFound(t *testing.T) {
	// ErrRecordNotFound is an expected lookup miss, not a query error; it
	// must not reach the error log.
	var captured []slog.Record
	handler := &recordingHandler{records: &captured}
	l := &CustomGormLogger{
		logger: slog.New(handler),
		Config: logger.Config{
			LogLevel:                  logger.Error,
			IgnoreRecordNotFoundError: true,
		},
	}

	l.Trace(context.Background(), time.Now(), func() (string, int64) {
		return "SELECT * FROM users WHERE id = 1", 0
	}, gorm.ErrRecordNotFound)

	assert.Empty(t, captured)
}

type recordingHandler struct {
	records *[]slog.Record
}

func (h *recordingHandler) Enabled(context.Context, slog.Level) bool { return true }
func (h *recordingHandler) Handle(_ context.Context, r slog.Record) error {
	*h.records = append(*h.records, r)
	return nil
}
func (h *recordingHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *recordingHandler) WithGroup(string) slog.Handler      { return h }
