package models

import "time"

// Startup is a founder's company. A founder may register several startups;
// Q&A threads are keyed per startup, not per founder.
type Startup struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	FounderID    uint      `gorm:"not null;index" json:"founder_id"`
	Name         string    `gorm:"type:varchar(255);not null" json:"name"`
	Tagline      string    `gorm:"type:varchar(500)" json:"tagline,omitempty"`
	Website      string    `gorm:"type:varchar(500)" json:"website,omitempty"`
	Sector       string    `gorm:"type:varchar(100)" json:"sector,omitempty"`
	Stage        string    `gorm:"type:varchar(50)" json:"stage,omitempty"`
	Location     string    `gorm:"type:varchar(255)" json:"location,omitempty"`
	RoundSizeMin int       `json:"round_size_min,omitempty"`
	RoundSizeMax int       `json:"round_size_max,omitempty"`
	LogoURL      string    `gorm:"type:varchar(500)" json:"logo_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Founder User `gorm:"foreignKey:FounderID" json:"-"`
}

// TableName specifies the table name for GORM
func (Startup) TableName() string {
	return "startups"
}
