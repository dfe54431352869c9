package server

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupportTickets_FullFlow(t *testing.T) {
	app, srv, db := newTestApp(t)
	founder := createFounder(t, db)
	auth := bearerFor(t, srv, founder.ID)

	resp, body := doJSON(t, app, http.MethodPost, "/api/support/tickets", auth, map[string]interface{}{
		"subject": "Pitch video stuck processing",
		"message": "Uploaded an hour ago and it still says processing.",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	ticket := body["ticket"].(map[string]interface{})
	assert.Equal(t, "Pitch video stuck processing", ticket["subject"])
	assert.Equal(t, "open", ticket["status"])
	ticketID := uint(ticket["id"].(float64))

	resp, body = doJSON(t, app, http.MethodGet, "/api/support/tickets", auth, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	tickets := body["tickets"].([]interface{})
	require.Len(t, tickets, 1)
	summary := tickets[0].(map[string]interface{})
	assert.EqualValues(t, 1, summary["message_count"])
	assert.Equal(t, "user", summary["last_sender"])

	resp, body = doJSON(t, app, http.MethodPost,
		fmt.Sprintf("/api/support/tickets/%d/messages", ticketID), auth,
		map[string]interface{}{"body": "Still stuck, any update?"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotZero(t, body["message_id"])

	resp, body = doJSON(t, app, http.MethodGet,
		fmt.Sprintf("/api/support/tickets/%d", ticketID), auth, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	detail := body["ticket"].(map[string]interface{})
	messages := detail["messages"].([]interface{})
	require.Len(t, messages, 2)
	firstMsg := messages[0].(map[string]interface{})
	assert.Equal(t, "Uploaded an hour ago and it still says processing.", firstMsg["body"])
}

func TestSupportTickets_ScopedToOwner(t *testing.T) {
	app, srv, db := newTestApp(t)
	owner := createFounder(t, db)
	stranger := createInvestor(t, db, 15)

	_, body := doJSON(t, app, http.MethodPost, "/api/support/tickets",
		bearerFor(t, srv, owner.ID), map[string]interface{}{
			"subject": "Delete my account",
			"message": "Please remove my data.",
		})
	ticketID := uint(body["ticket"].(map[string]interface{})["id"].(float64))

	strangerAuth := bearerFor(t, srv, stranger.ID)
	resp, _ := doJSON(t, app, http.MethodGet,
		fmt.Sprintf("/api/support/tickets/%d", ticketID), strangerAuth, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPost,
		fmt.Sprintf("/api/support/tickets/%d/messages", ticketID), strangerAuth,
		map[string]interface{}{"body": "hello"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// The stranger's own list stays empty.
	resp, body = doJSON(t, app, http.MethodGet, "/api/support/tickets", strangerAuth, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, body["tickets"])
}

func TestSupportTickets_Validation(t *testing.T) {
	app, srv, db := newTestApp(t)
	founder := createFounder(t, db)
	auth := bearerFor(t, srv, founder.ID)

	resp, _ := doJSON(t, app, http.MethodPost, "/api/support/tickets", auth,
		map[string]interface{}{"subject": "", "message": "no subject"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPost, "/api/support/tickets", auth,
		map[string]interface{}{"subject": "Empty body", "message": "  "})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
