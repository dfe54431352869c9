package models

import "time"

// ThreadStatus is the lifecycle state of a founder/investor Q&A thread.
type ThreadStatus string

const (
	// ThreadStatusActive is the initial state, set when the investor sends
	// their first question(s).
	ThreadStatusActive ThreadStatus = "active"
	// ThreadStatusAwaitingResponse marks a thread where the investor has
	// followed up before the founder's first reply. Display hint only.
	ThreadStatusAwaitingResponse ThreadStatus = "awaiting_response"
	// ThreadStatusInterested means the investor issued Connect.
	ThreadStatusInterested ThreadStatus = "interested"
	// ThreadStatusDeclined means the investor passed, optionally with a
	// message. Terminal for Connect/Decline actions.
	ThreadStatusDeclined ThreadStatus = "declined"
	// ThreadStatusConnected means a direct contact channel was opened from
	// an interested thread.
	ThreadStatusConnected ThreadStatus = "connected"
)

// ThreadEvent is a requested status change on a Q&A thread.
type ThreadEvent string

const (
	// ThreadEventConnect is the investor's Connect CTA.
	ThreadEventConnect ThreadEvent = "connect"
	// ThreadEventDecline is the investor's Decline CTA.
	ThreadEventDecline ThreadEvent = "decline"
	// ThreadEventOpenContact opens the direct contact flow on an
	// interested thread.
	ThreadEventOpenContact ThreadEvent = "open_contact"
)

// threadTransitions is the single authoritative transition table. Illegal
// transitions are rejected here and nowhere else; declined, interested and
// connected are absorbing with respect to Connect/Decline so the founder is
// never notified twice.
var threadTransitions = map[ThreadStatus]map[ThreadEvent]ThreadStatus{
	ThreadStatusActive: {
		ThreadEventConnect: ThreadStatusInterested,
		ThreadEventDecline: ThreadStatusDeclined,
	},
	ThreadStatusAwaitingResponse: {
		ThreadEventConnect: ThreadStatusInterested,
		ThreadEventDecline: ThreadStatusDeclined,
	},
	ThreadStatusInterested: {
		ThreadEventOpenContact: ThreadStatusConnected,
	},
}

// Transition returns the status reached by applying event to s. The second
// return is false when the event is not reachable from s.
func (s ThreadStatus) Transition(event ThreadEvent) (ThreadStatus, bool) {
	next, ok := threadTransitions[s][event]
	return next, ok
}

// QAThread is a bounded Q&A conversation between exactly one investor and
// one founder about one startup. Exactly one thread exists per
// (founder, investor, startup) triple; repeat requests reuse it. Threads
// are never deleted.
type QAThread struct {
	ID             uint         `gorm:"primaryKey" json:"id"`
	FounderID      uint         `gorm:"not null;uniqueIndex:idx_qa_thread_triple" json:"founder_id"`
	InvestorID     uint         `gorm:"not null;uniqueIndex:idx_qa_thread_triple" json:"investor_id"`
	StartupID      uint         `gorm:"not null;uniqueIndex:idx_qa_thread_triple" json:"startup_id"`
	Status         ThreadStatus `gorm:"type:varchar(20);default:'active';index" json:"status"`
	DeclineMessage string       `gorm:"type:varchar(500)" json:"decline_message,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`

	// Relationships
	Founder  User       `gorm:"foreignKey:FounderID" json:"-"`
	Investor User       `gorm:"foreignKey:InvestorID" json:"-"`
	Startup  Startup    `gorm:"foreignKey:StartupID" json:"startup,omitempty"`
	Messages []QAMessage `gorm:"foreignKey:ThreadID" json:"messages,omitempty"`
}

// TableName specifies the table name for GORM
func (QAThread) TableName() string {
	return "qa_threads"
}

// IsParticipant reports whether userID is one of the two thread owners.
func (t *QAThread) IsParticipant(userID uint) bool {
	return t.FounderID == userID || t.InvestorID == userID
}

// MaxMessageBody is the character cap applied to every Q&A and talent
// message body, both sides.
const MaxMessageBody = 500

// QAMessage is one append-only message in a QAThread. Messages are never
// edited or deleted.
type QAMessage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ThreadID  uint      `gorm:"not null;index" json:"thread_id"`
	SenderID  uint      `gorm:"not null" json:"sender_id"`
	Body      string    `gorm:"type:varchar(500);not null" json:"body"`
	IsRead    bool      `gorm:"default:false" json:"is_read"`
	CreatedAt time.Time `json:"created_at"`

	Sender User `gorm:"foreignKey:SenderID" json:"-"`
}

// TableName specifies the table name for GORM
func (QAMessage) TableName() string {
	return "qa_messages"
}
