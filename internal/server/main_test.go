package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"caerus/internal/config"
	"caerus/internal/database"
	"caerus/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// The server and Fiber app are built once for the whole package because the
// Prometheus middleware registers its collectors in the default registry.
// Tests isolate themselves through per-test fixtures, not per-test schemas.
var (
	setupOnce sync.Once
	testSrv   *Server
	testApp   *fiber.App
	testDB    *gorm.DB
)

func newTestApp(t *testing.T) (*fiber.App, *Server, *gorm.DB) {
	t.Helper()
	t.Setenv("APP_ENV", "test")

	setupOnce.Do(func() {
		db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		if err != nil {
			panic(err)
		}

		// A second pooled connection would see its own empty :memory: database.
		sqlDB, err := db.DB()
		if err != nil {
			panic(err)
		}
		sqlDB.SetMaxOpenConns(1)

		if err := db.AutoMigrate(database.PersistentModels()...); err != nil {
			panic(err)
		}

		cfg := &config.Config{
			JWTSecret: "server-test-secret-0123456789abcdef",
			Port:      "8080",
			Env:       "test",
		}

		srv, err := NewServerWithDeps(cfg, db, nil)
		if err != nil {
			panic(err)
		}

		app := fiber.New()
		srv.SetupRoutes(app)

		testSrv, testApp, testDB = srv, app, db
	})

	return testApp, testSrv, testDB
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

// bearerFor issues a real token for the user through the server's own signer.
func bearerFor(t *testing.T, srv *Server, userID uint) string {
	t.Helper()
	token, err := srv.generateToken(userID)
	require.NoError(t, err)
	return "Bearer " + token
}

// doJSON performs a request against the test app and decodes the JSON body.
func doJSON(t *testing.T, app *fiber.App, method, path, auth string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	decoded := map[string]interface{}{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &decoded)
	}
	return resp, decoded
}
