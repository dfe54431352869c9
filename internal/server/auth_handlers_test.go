package server

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignup_CreatesAccountAndProfile(t *testing.T) {
	app, _, _ := newTestApp(t)

	resp, body := doJSON(t, app, http.MethodPost, "/api/auth/signup", "", map[string]interface{}{
		"firebase_uid": "fb-signup-investor",
		"email":        "Signup.Investor@Example.com",
		"role":         "investor",
		"full_name":    "Dana Reyes",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NotEmpty(t, body["token"])

	user := body["user"].(map[string]interface{})
	assert.Equal(t, "signup.investor@example.com", user["email"])

	// The token works immediately and the investor profile carries the full
	// free-view allotment.
	resp, body = doJSON(t, app, http.MethodGet, "/api/users/me/quotas",
		"Bearer "+body["token"].(string), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 15, body["free_pitch_views_remaining"])
	assert.EqualValues(t, 5, body["talent_views_remaining_today"])
	assert.EqualValues(t, 5, body["dms_remaining_this_month"])
	assert.Equal(t, false, body["entitled"])
}

func TestSignup_DuplicateUIDRejected(t *testing.T) {
	app, _, _ := newTestApp(t)

	payload := map[string]interface{}{
		"firebase_uid": "fb-signup-dup",
		"email":        "dup@example.com",
		"role":         "founder",
	}
	resp, _ := doJSON(t, app, http.MethodPost, "/api/auth/signup", "", payload)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	payload["email"] = "dup2@example.com"
	resp, _ = doJSON(t, app, http.MethodPost, "/api/auth/signup", "", payload)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestSignup_UnknownRoleRejected(t *testing.T) {
	app, _, _ := newTestApp(t)

	resp, _ := doJSON(t, app, http.MethodPost, "/api/auth/signup", "", map[string]interface{}{
		"firebase_uid": "fb-signup-badrole",
		"email":        "badrole@example.com",
		"role":         "admin",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSync_ExchangesUIDForToken(t *testing.T) {
	app, _, db := newTestApp(t)
	investor := createInvestor(t, db, 15)

	resp, body := doJSON(t, app, http.MethodPost, "/api/auth/sync", "", map[string]interface{}{
		"firebase_uid": investor.FirebaseUID,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, body["token"])

	resp, _ = doJSON(t, app, http.MethodPost, "/api/auth/sync", "", map[string]interface{}{
		"firebase_uid": "fb-never-registered",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestProtectedRoutes_RequireBearerToken(t *testing.T) {
	app, _, _ := newTestApp(t)

	resp, _ := doJSON(t, app, http.MethodGet, "/api/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodGet, "/api/users/me", "Bearer not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
