package models

import "time"

// TalentPitch is a talent's video introduction, browsable by founders and
// investors under the daily talent-view quota.
type TalentPitch struct {
	ID              uint        `gorm:"primaryKey" json:"id"`
	TalentID        uint        `gorm:"not null;index" json:"talent_id"`
	VideoURL        string      `gorm:"type:varchar(500)" json:"video_url"`
	ThumbnailURL    string      `gorm:"type:varchar(500)" json:"thumbnail_url,omitempty"`
	DurationSeconds int         `json:"duration_seconds,omitempty"`
	Headline        string      `gorm:"type:varchar(255)" json:"headline,omitempty"`
	Status          PitchStatus `gorm:"type:varchar(20);default:'draft';index" json:"status"`
	ViewCount       int         `gorm:"default:0" json:"view_count"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`

	Talent User `gorm:"foreignKey:TalentID" json:"-"`
}

// TableName specifies the table name for GORM
func (TalentPitch) TableName() string {
	return "talent_pitches"
}

// TalentPitchView is an audit record of a talent pitch view. Unlike
// PitchView it carries no uniqueness constraint: repeat views of the same
// talent pitch within a day each consume daily quota.
type TalentPitchView struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	PitchID  uint      `gorm:"not null;index" json:"pitch_id"`
	ViewerID uint      `gorm:"not null;index" json:"viewer_id"`
	ViewedAt time.Time `json:"viewed_at"`
}

// TableName specifies the table name for GORM
func (TalentPitchView) TableName() string {
	return "talent_pitch_views"
}
