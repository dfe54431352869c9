// Package notifications publishes engagement events to per-user Redis
// channels for delivery by the push gateway.
package notifications

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"time"

	"caerus/internal/middleware"
	"caerus/internal/models"
	"caerus/internal/observability"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Notification kinds delivered to clients. The mobile app switches its deep
// link on this value.
const (
	KindNewQuestion        = "new_question"
	KindFounderReplied     = "founder_replied"
	KindInvestorInterested = "investor_interested"
	KindInvestorDeclined   = "investor_declined"
	KindTalentContacted    = "talent_contacted"
)

// Notifier publishes ledger events into Redis channels. It implements
// ledger.Events. All methods are fire-and-forget: a delivery failure is
// logged and counted but never surfaces to the caller, because the
// originating transaction has already committed.
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a new Notifier instance using the provided Redis client.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

type payload struct {
	EventID  string `json:"event_id"`
	Kind     string `json:"kind"`
	ThreadID uint   `json:"thread_id"`
	SentAt   string `json:"sent_at"`

	Questions      int    `json:"questions,omitempty"`
	DeclineMessage string `json:"decline_message,omitempty"`
}

// QuestionAsked notifies the founder that new investor questions arrived.
func (n *Notifier) QuestionAsked(ctx context.Context, thread *models.QAThread, questions int) {
	n.publish(ctx, thread.FounderID, payload{
		Kind:      KindNewQuestion,
		ThreadID:  thread.ID,
		Questions: questions,
	})
}

// FounderReplied notifies the investor that the founder answered.
func (n *Notifier) FounderReplied(ctx context.Context, thread *models.QAThread) {
	n.publish(ctx, thread.InvestorID, payload{
		Kind:     KindFounderReplied,
		ThreadID: thread.ID,
	})
}

// InvestorInterested notifies the founder of a Connect.
func (n *Notifier) InvestorInterested(ctx context.Context, thread *models.QAThread) {
	n.publish(ctx, thread.FounderID, payload{
		Kind:     KindInvestorInterested,
		ThreadID: thread.ID,
	})
}

// InvestorDeclined notifies the founder of a Decline, carrying the optional
// feedback message.
func (n *Notifier) InvestorDeclined(ctx context.Context, thread *models.QAThread, message string) {
	n.publish(ctx, thread.FounderID, payload{
		Kind:           KindInvestorDeclined,
		ThreadID:       thread.ID,
		DeclineMessage: message,
	})
}

// TalentContacted notifies the talent that a recruiter opened a DM thread.
func (n *Notifier) TalentContacted(ctx context.Context, thread *models.TalentQAThread) {
	n.publish(ctx, thread.TalentID, payload{
		Kind:     KindTalentContacted,
		ThreadID: thread.ID,
	})
}

func (n *Notifier) publish(ctx context.Context, userID uint, p payload) {
	if n.rdb == nil {
		return
	}
	p.EventID = uuid.NewString()
	p.SentAt = time.Now().UTC().Format(time.RFC3339)

	body, err := json.Marshal(p)
	if err != nil {
		middleware.Logger.ErrorContext(ctx, "notification marshal failed",
			slog.String("kind", p.Kind), slog.String("error", err.Error()))
		return
	}

	if err := n.rdb.Publish(ctx, UserChannel(userID), string(body)).Err(); err != nil {
		middleware.Logger.WarnContext(ctx, "notification publish failed",
			slog.String("kind", p.Kind),
			slog.Any("user_id", userID),
			slog.String("error", err.Error()))
		return
	}
	observability.NotificationsPublished.WithLabelValues(p.Kind).Inc()
}

// StartPatternSubscriber subscribes to pattern `notifications:user:*` and
// calls onMessage for each incoming message. Used by the push gateway side.
func (n *Notifier) StartPatternSubscriber(
	ctx context.Context, onMessage func(channel string, payload string),
) error {
	if n.rdb == nil {
		return nil
	}
	sub := n.rdb.PSubscribe(ctx, "notifications:user:*")
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				onMessage(msg.Channel, msg.Payload)
			}
		}
	}()

	return nil
}

// UserChannel derives the Redis channel name for a user.
func UserChannel(userID uint) string {
	return "notifications:user:" + strconv.FormatUint(uint64(userID), 10)
}
