package models

import "time"

// SubscriptionStatus is the billing state of an investor subscription.
type SubscriptionStatus string

const (
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusExpired   SubscriptionStatus = "expired"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
)

// Subscription is an investor's paid entitlement. Receipt verification
// happens in the external IAP pipeline; this row only records the resulting
// entitlement window. An active, unexpired row bypasses every quota check.
type Subscription struct {
	ID                         uint               `gorm:"primaryKey" json:"id"`
	InvestorID                 uint               `gorm:"not null;index" json:"investor_id"`
	PlanType                   string             `gorm:"type:varchar(20);not null" json:"plan_type"`
	AppleTransactionID         string             `gorm:"type:varchar(255);uniqueIndex" json:"-"`
	AppleOriginalTransactionID string             `gorm:"type:varchar(255)" json:"-"`
	Status                     SubscriptionStatus `gorm:"type:varchar(20);default:'active';index" json:"status"`
	ExpiresAt                  time.Time          `gorm:"not null" json:"expires_at"`
	CreatedAt                  time.Time          `json:"created_at"`
	UpdatedAt                  time.Time          `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Subscription) TableName() string {
	return "subscriptions"
}

// IsEntitled reports whether the subscription grants quota bypass at the
// given instant.
func (s *Subscription) IsEntitled(now time.Time) bool {
	return s.Status == SubscriptionStatusActive && s.ExpiresAt.After(now)
}

// PitchUnlock records a founder's one-off purchase unlocking the long-form
// pitch for a startup.
type PitchUnlock struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	StartupID          uint      `gorm:"not null;index" json:"startup_id"`
	FounderID          uint      `gorm:"not null;index" json:"founder_id"`
	AppleTransactionID string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"-"`
	ProductID          string    `gorm:"type:varchar(100);not null" json:"product_id"`
	PurchasedAt        time.Time `json:"purchased_at"`
}

// TableName specifies the table name for GORM
func (PitchUnlock) TableName() string {
	return "pitch_unlocks"
}
