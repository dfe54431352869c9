package models

import "time"

// QuestionTemplate is a pre-saved due-diligence question an investor can
// send to founders without retyping it.
type QuestionTemplate struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	InvestorID   uint      `gorm:"not null;index" json:"investor_id"`
	QuestionText string    `gorm:"type:text;not null" json:"question_text"`
	IsDefault    bool      `gorm:"default:false" json:"is_default"`
	DisplayOrder int       `gorm:"default:0" json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (QuestionTemplate) TableName() string {
	return "question_templates"
}

// DefaultQuestions is materialized per investor on first template read.
var DefaultQuestions = []string{
	"What's your current MRR/ARR?",
	"How did you validate the problem?",
	"What's your unfair advantage?",
	"Who are your main competitors?",
	"What's your go-to-market strategy?",
	"How are you planning to use the funds?",
	"What's your customer acquisition cost?",
	"What milestones do you expect to hit in the next 12 months?",
}
