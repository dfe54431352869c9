package notifications

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"caerus/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNotifier(t *testing.T) (*Notifier, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewNotifier(rdb), rdb
}

func receiveOne(t *testing.T, sub *redis.PubSub) payload {
	t.Helper()
	select {
	case msg := <-sub.Channel():
		var p payload
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &p))
		return p
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for notification")
		return payload{}
	}
}

func TestNotifier_InvestorDeclined(t *testing.T) {
	n, rdb := newTestNotifier(t)
	ctx := context.Background()

	thread := &models.QAThread{ID: 7, FounderID: 3, InvestorID: 9}

	sub := rdb.Subscribe(ctx, UserChannel(thread.FounderID))
	defer func() { _ = sub.Close() }()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	n.InvestorDeclined(ctx, thread, "Not a fit for our thesis")

	p := receiveOne(t, sub)
	assert.Equal(t, KindInvestorDeclined, p.Kind)
	assert.Equal(t, uint(7), p.ThreadID)
	assert.Equal(t, "Not a fit for our thesis", p.DeclineMessage)
	assert.NotEmpty(t, p.EventID)
	assert.NotEmpty(t, p.SentAt)
}

func TestNotifier_QuestionAskedTargetsFounder(t *testing.T) {
	n, rdb := newTestNotifier(t)
	ctx := context.Background()

	thread := &models.QAThread{ID: 1, FounderID: 11, InvestorID: 22}

	sub := rdb.Subscribe(ctx, UserChannel(thread.FounderID))
	defer func() { _ = sub.Close() }()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	n.QuestionAsked(ctx, thread, 2)

	p := receiveOne(t, sub)
	assert.Equal(t, KindNewQuestion, p.Kind)
	assert.Equal(t, 2, p.Questions)
}

func TestNotifier_TalentContacted(t *testing.T) {
	n, rdb := newTestNotifier(t)
	ctx := context.Background()

	thread := &models.TalentQAThread{ID: 4, RecruiterID: 8, TalentID: 15}

	sub := rdb.Subscribe(ctx, UserChannel(thread.TalentID))
	defer func() { _ = sub.Close() }()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	n.TalentContacted(ctx, thread)

	p := receiveOne(t, sub)
	assert.Equal(t, KindTalentContacted, p.Kind)
	assert.Equal(t, uint(4), p.ThreadID)
}

func TestNotifier_NilClientIsNoop(t *testing.T) {
	n := NewNotifier(nil)
	// Must not panic; a missing Redis never breaks the request path.
	n.FounderReplied(context.Background(), &models.QAThread{ID: 1, InvestorID: 2})
	assert.NoError(t, n.StartPatternSubscriber(context.Background(), nil))
}
