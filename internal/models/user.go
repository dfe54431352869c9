// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// Role identifies which side of the marketplace a user is on. It is set at
// signup and never changes afterwards.
type Role string

const (
	RoleFounder  Role = "founder"
	RoleInvestor Role = "investor"
	RoleTalent   Role = "talent"
)

// Quota allotments. Counters are created with these values at profile
// creation and are only mutated by the ledger's check-and-consume path.
const (
	// FreeViewAllotment is the lifetime number of startup pitches an
	// investor can watch without a subscription. It never resets.
	FreeViewAllotment = 15
	// DailyTalentViewAllotment is the number of talent pitches a founder or
	// investor can watch per calendar day.
	DailyTalentViewAllotment = 5
	// MonthlyDMAllotment is the number of talent DM threads a founder or
	// investor can open per calendar month.
	MonthlyDMAllotment = 5
)

// User represents an authenticated account. Identity verification is owned
// by the external auth provider; we only store the provider UID.
type User struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	FirebaseUID string    `gorm:"type:varchar(128);uniqueIndex;not null" json:"-"`
	Email       string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Role        Role      `gorm:"type:varchar(20);not null" json:"role"`
	AvatarURL   string    `gorm:"type:varchar(500)" json:"avatar_url,omitempty"`
	PushToken   string    `gorm:"type:varchar(255)" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}

// EngagementCounters are the periodically-resetting quotas shared by
// founder and investor profiles. Resets are lazy: the ledger compares the
// stored anchor against the current period at the moment of consumption,
// so no background job ever touches these rows.
type EngagementCounters struct {
	// Daily talent view counter, zeroed when the stored date is not today.
	TalentViewsToday     int        `gorm:"column:talent_views_today;default:0" json:"talent_views_today"`
	TalentViewsResetDate *time.Time `gorm:"column:talent_views_reset_date" json:"-"`

	// Monthly talent DM counter with a year-month anchor.
	TalentDMsThisMonth  int `gorm:"column:talent_dms_this_month;default:0" json:"talent_dms_this_month"`
	TalentDMsResetMonth int `gorm:"column:talent_dms_reset_month" json:"-"`
	TalentDMsResetYear  int `gorm:"column:talent_dms_reset_year" json:"-"`
}

// ResetDailyWindow zeroes the daily view counter when now falls on a
// different calendar day than the stored anchor. Reports whether a reset
// happened.
func (c *EngagementCounters) ResetDailyWindow(now time.Time) bool {
	if c.TalentViewsResetDate != nil && sameDay(*c.TalentViewsResetDate, now) {
		return false
	}
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	c.TalentViewsToday = 0
	c.TalentViewsResetDate = &today
	return true
}

// ResetMonthlyWindow zeroes the DM counter when now falls in a different
// calendar month than the stored anchor, regardless of how many months were
// skipped. Reports whether a reset happened.
func (c *EngagementCounters) ResetMonthlyWindow(now time.Time) bool {
	if c.TalentDMsResetYear == now.Year() && c.TalentDMsResetMonth == int(now.Month()) {
		return false
	}
	c.TalentDMsThisMonth = 0
	c.TalentDMsResetYear = now.Year()
	c.TalentDMsResetMonth = int(now.Month())
	return true
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// FounderProfile holds founder-specific fields plus the talent view/DM
// counters consumed by the ledger.
type FounderProfile struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	UserID      uint   `gorm:"uniqueIndex;not null" json:"user_id"`
	FullName    string `gorm:"type:varchar(255)" json:"full_name"`
	CompanyName string `gorm:"type:varchar(255)" json:"company_name"`
	LinkedinURL string `gorm:"type:varchar(500)" json:"linkedin_url,omitempty"`
	Website     string `gorm:"type:varchar(500)" json:"website,omitempty"`

	EngagementCounters `gorm:"embedded"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

// TableName specifies the table name for GORM
func (FounderProfile) TableName() string {
	return "founder_profiles"
}

// InvestorProfile holds investor preferences plus every freemium counter:
// the lifetime free pitch views and the talent view/DM counters.
type InvestorProfile struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	UserID       uint   `gorm:"uniqueIndex;not null" json:"user_id"`
	FullName     string `gorm:"type:varchar(255)" json:"full_name"`
	FirmName     string `gorm:"type:varchar(255)" json:"firm_name"`
	LinkedinURL  string `gorm:"type:varchar(500)" json:"linkedin_url,omitempty"`
	Website      string `gorm:"type:varchar(500)" json:"website,omitempty"`
	InvestorType string `gorm:"type:varchar(50)" json:"investor_type,omitempty"`
	IsVerified   bool   `gorm:"default:false" json:"is_verified"`

	// Lifetime free pitch views. Decremented at most once per (investor,
	// pitch) pair and never goes negative.
	FreeViewsRemaining int `gorm:"default:15" json:"free_views_remaining"`

	EngagementCounters `gorm:"embedded"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

// TableName specifies the table name for GORM
func (InvestorProfile) TableName() string {
	return "investor_profiles"
}

// TalentStatus is the admin approval state of a talent profile. It is
// flipped by the external admin flow and only read here.
type TalentStatus string

const (
	TalentStatusPending  TalentStatus = "pending"
	TalentStatusApproved TalentStatus = "approved"
	TalentStatusRejected TalentStatus = "rejected"
)

// TalentProfile holds talent-specific fields. Talent accounts carry no
// counters: they are always on the receiving end of gated engagements.
type TalentProfile struct {
	ID              uint         `gorm:"primaryKey" json:"id"`
	UserID          uint         `gorm:"uniqueIndex;not null" json:"user_id"`
	FullName        string       `gorm:"type:varchar(255)" json:"full_name"`
	Status          TalentStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	RejectionReason string       `gorm:"type:text" json:"rejection_reason,omitempty"`
	ApprovedAt      *time.Time   `json:"approved_at,omitempty"`

	JobTitleSeeking string `gorm:"type:varchar(255)" json:"job_title_seeking,omitempty"`
	ExperienceLevel string `gorm:"type:varchar(20)" json:"experience_level,omitempty"`
	Location        string `gorm:"type:varchar(255)" json:"location,omitempty"`
	PortfolioURL    string `gorm:"type:varchar(500)" json:"portfolio_url,omitempty"`
	LinkedinURL     string `gorm:"type:varchar(500)" json:"linkedin_url,omitempty"`
	GithubURL       string `gorm:"type:varchar(500)" json:"github_url,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

// TableName specifies the table name for GORM
func (TalentProfile) TableName() string {
	return "talent_profiles"
}
