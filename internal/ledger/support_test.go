package ledger

import (
	"context"
	"strings"
	"testing"

	"caerus/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTicket_OpensWithFirstMessage(t *testing.T) {
	l, db := newTestLedger(t)
	ctx := context.Background()

	founder := createFounder(t, db)

	ticket, err := l.CreateTicket(ctx, founder.ID, "  Video won't upload  ", "The upload stalls at 90%.")
	require.NoError(t, err)
	assert.Equal(t, "Video won't upload", ticket.Subject)
	assert.Equal(t, models.TicketStatusOpen, ticket.Status)

	var msgs []models.SupportMessage
	require.NoError(t, db.Where("ticket_id = ?", ticket.ID).Find(&msgs).Error)
	require.Len(t, msgs, 1)
	assert.Equal(t, models.SupportSenderUser, msgs[0].SenderType)
	assert.Equal(t, "The upload stalls at 90%.", msgs[0].Body)
}

func TestCreateTicket_Validation(t *testing.T) {
	l, db := newTestLedger(t)
	ctx := context.Background()

	founder := createFounder(t, db)

	_, err := l.CreateTicket(ctx, founder.ID, "   ", "hello")
	assert.Equal(t, models.CodeValidation, appErrCode(err))

	_, err = l.CreateTicket(ctx, founder.ID, strings.Repeat("x", models.MaxTicketSubject+1), "hello")
	assert.Equal(t, models.CodeValidation, appErrCode(err))

	_, err = l.CreateTicket(ctx, founder.ID, "Billing", "   ")
	assert.Equal(t, models.CodeValidation, appErrCode(err))

	_, err = l.CreateTicket(ctx, 9999, "Billing", "hello")
	assert.Equal(t, models.CodeNotFound, appErrCode(err))

	var tickets int64
	require.NoError(t, db.Model(&models.SupportTicket{}).Count(&tickets).Error)
	assert.Zero(t, tickets)
}

func TestListTickets_SummariesWithPreview(t *testing.T) {
	l, db := newTestLedger(t)
	ctx := context.Background()

	investor := createInvestor(t, db, 15)

	first, err := l.CreateTicket(ctx, investor.ID, "Subscription question", "Does the plan renew automatically?")
	require.NoError(t, err)
	second, err := l.CreateTicket(ctx, investor.ID, "Feed is empty", "No pitches show up on my feed.")
	require.NoError(t, err)

	// A long follow-up bumps the first ticket back to the top and its
	// preview is cut to 100 characters.
	long := strings.Repeat("a", 140)
	_, err = l.AppendTicketMessage(ctx, first.ID, investor.ID, long)
	require.NoError(t, err)

	summaries, err := l.ListTickets(ctx, investor.ID)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	assert.Equal(t, first.ID, summaries[0].ID)
	assert.Equal(t, second.ID, summaries[1].ID)
	assert.EqualValues(t, 2, summaries[0].MessageCount)
	assert.Equal(t, long[:100], summaries[0].LastMessage)
	assert.Equal(t, models.SupportSenderUser, summaries[0].LastSender)
	assert.EqualValues(t, 1, summaries[1].MessageCount)
}

func TestGetTicket_ScopedToOwner(t *testing.T) {
	l, db := newTestLedger(t)
	ctx := context.Background()

	owner := createFounder(t, db)
	stranger := createFounder(t, db)

	ticket, err := l.CreateTicket(ctx, owner.ID, "Role change", "Signed up as talent by mistake.")
	require.NoError(t, err)
	_, err = l.AppendTicketMessage(ctx, ticket.ID, owner.ID, "Any update on this?")
	require.NoError(t, err)

	got, err := l.GetTicket(ctx, ticket.ID, owner.ID)
	require.NoError(t, err)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "Signed up as talent by mistake.", got.Messages[0].Body)
	assert.Equal(t, "Any update on this?", got.Messages[1].Body)

	_, err = l.GetTicket(ctx, ticket.ID, stranger.ID)
	assert.Equal(t, models.CodeNotFound, appErrCode(err))
}

func TestAppendTicketMessage_Guards(t *testing.T) {
	l, db := newTestLedger(t)
	ctx := context.Background()

	owner := createFounder(t, db)
	stranger := createFounder(t, db)

	ticket, err := l.CreateTicket(ctx, owner.ID, "Playback", "Videos buffer forever.")
	require.NoError(t, err)

	_, err = l.AppendTicketMessage(ctx, ticket.ID, stranger.ID, "let me in")
	assert.Equal(t, models.CodeNotFound, appErrCode(err))

	_, err = l.AppendTicketMessage(ctx, 9999, owner.ID, "hello")
	assert.Equal(t, models.CodeNotFound, appErrCode(err))

	_, err = l.AppendTicketMessage(ctx, ticket.ID, owner.ID, "  ")
	assert.Equal(t, models.CodeValidation, appErrCode(err))

	var msgs int64
	require.NoError(t, db.Model(&models.SupportMessage{}).
		Where("ticket_id = ?", ticket.ID).Count(&msgs).Error)
	assert.Equal(t, int64(1), msgs)
}
