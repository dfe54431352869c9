package server

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuestionTemplates_SeededOnFirstRead(t *testing.T) {
	app, srv, db := newTestApp(t)
	investor := createInvestor(t, db, 15)
	auth := bearerFor(t, srv, investor.ID)

	resp, body := doJSON(t, app, http.MethodGet, "/api/question-templates", auth, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	templates := body["templates"].([]interface{})
	require.Len(t, templates, 8)

	resp, body = doJSON(t, app, http.MethodPost, "/api/question-templates", auth,
		map[string]interface{}{
			"question_text": "How defensible is the data moat?",
			"display_order": 20,
		})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	customID := uint(body["id"].(float64))

	resp, body = doJSON(t, app, http.MethodGet, "/api/question-templates", auth, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["templates"], 9)

	resp, _ = doJSON(t, app, http.MethodDelete,
		fmt.Sprintf("/api/question-templates/%d", customID), auth, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestQuestionTemplates_ScopedPerInvestor(t *testing.T) {
	app, srv, db := newTestApp(t)
	owner := createInvestor(t, db, 15)
	other := createInvestor(t, db, 15)

	ownerAuth := bearerFor(t, srv, owner.ID)
	resp, body := doJSON(t, app, http.MethodPost, "/api/question-templates", ownerAuth,
		map[string]interface{}{"question_text": "Who signs the first enterprise deal?"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	templateID := uint(body["id"].(float64))

	// Another investor cannot delete it.
	resp, _ = doJSON(t, app, http.MethodDelete,
		fmt.Sprintf("/api/question-templates/%d", templateID),
		bearerFor(t, srv, other.ID), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestQuestionTemplates_InvestorOnly(t *testing.T) {
	app, srv, db := newTestApp(t)
	founder := createFounder(t, db)

	resp, _ := doJSON(t, app, http.MethodGet, "/api/question-templates",
		bearerFor(t, srv, founder.ID), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
