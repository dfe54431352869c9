package models

import "time"

// PitchStatus is the publication state of a pitch video.
type PitchStatus string

const (
	PitchStatusDraft     PitchStatus = "draft"
	PitchStatusPublished PitchStatus = "published"
	PitchStatusArchived  PitchStatus = "archived"
)

// Pitch is a startup's short video pitch. The video itself lives in object
// storage; we only hold the object key and playback metadata.
type Pitch struct {
	ID              uint        `gorm:"primaryKey" json:"id"`
	StartupID       uint        `gorm:"not null;index" json:"startup_id"`
	VideoURL        string      `gorm:"type:varchar(1000);not null" json:"video_url"`
	ThumbnailURL    string      `gorm:"type:varchar(1000)" json:"thumbnail_url,omitempty"`
	DurationSeconds int         `json:"duration_seconds,omitempty"`
	Status          PitchStatus `gorm:"type:varchar(20);default:'draft';index" json:"status"`
	ViewCount       int         `gorm:"default:0" json:"view_count"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`

	Startup Startup `gorm:"foreignKey:StartupID" json:"startup,omitempty"`
}

// TableName specifies the table name for GORM
func (Pitch) TableName() string {
	return "pitches"
}

// PitchView records that an investor has watched a pitch. The unique
// (pitch, investor) pair is what makes repeat views free: a row here means
// the free-view counter was already charged for this pitch.
type PitchView struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	PitchID    uint      `gorm:"not null;uniqueIndex:idx_pitch_view_pair" json:"pitch_id"`
	InvestorID uint      `gorm:"not null;uniqueIndex:idx_pitch_view_pair" json:"investor_id"`
	ViewedAt   time.Time `json:"viewed_at"`
}

// TableName specifies the table name for GORM
func (PitchView) TableName() string {
	return "pitch_views"
}
