package models

import "time"

// TalentQAThread is a direct-message thread between a recruiter (founder or
// investor) and a talent, keyed per talent pitch. It has no status
// lifecycle: creation is gated by the monthly DM counter and after that it
// is a plain bounded message list.
type TalentQAThread struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	PitchID     uint      `gorm:"not null;uniqueIndex:idx_talent_thread_pair" json:"pitch_id"`
	RecruiterID uint      `gorm:"not null;uniqueIndex:idx_talent_thread_pair" json:"recruiter_id"`
	TalentID    uint      `gorm:"not null;index" json:"talent_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relationships
	Recruiter User             `gorm:"foreignKey:RecruiterID" json:"-"`
	Talent    User             `gorm:"foreignKey:TalentID" json:"-"`
	Messages  []TalentQAMessage `gorm:"foreignKey:ThreadID" json:"messages,omitempty"`
}

// TableName specifies the table name for GORM
func (TalentQAThread) TableName() string {
	return "talent_qa_threads"
}

// IsParticipant reports whether userID is one of the two thread owners.
func (t *TalentQAThread) IsParticipant(userID uint) bool {
	return t.RecruiterID == userID || t.TalentID == userID
}

// TalentQAMessage is one append-only message in a TalentQAThread.
type TalentQAMessage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ThreadID  uint      `gorm:"not null;index" json:"thread_id"`
	SenderID  uint      `gorm:"not null" json:"sender_id"`
	Body      string    `gorm:"type:varchar(500);not null" json:"body"`
	IsRead    bool      `gorm:"default:false" json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM
func (TalentQAMessage) TableName() string {
	return "talent_qa_messages"
}
