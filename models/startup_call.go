package models

import "time"

const (
	CallDraft     = "DRAFT"
	CallPublished = "PUBLISHED"
	CallClosed    = "CLOSED"
	CallArchived  = "ARCHIVED"
)

type StartupCall struct {
	ID                  uint        `gorm:"primaryKey" json:"id"`
	Title               string      `gorm:"not null" json:"title"`
	Description         string      `gorm:"type:text" json:"description"`
	Industry            string      `gorm:"index" json:"industry"`
	Location            string      `json:"location"`
	Status              string      `gorm:"index;not null" json:"status"`
	ApplicationDeadline time.Time   `gorm:"index" json:"application_deadline"`
	FundingAmount       float64     `json:"funding_amount"`
	EligibilityCriteria string      `gorm:"type:text" json:"eligibility_criteria"`
	RequiredDocuments   StringSlice `gorm:"type:text" json:"required_documents"`
	CreatedByID         uint        `gorm:"index" json:"created_by_id"`
	CreatedAt           time.Time   `json:"created_at"`
	UpdatedAt           time.Time   `json:"updated_at"`
}

// Open reports whether entrepreneurs may still apply at the given instant.
func (c *StartupCall) Open(now time.Time) bool {
	return c.Status == CallPublished && now.Before(c.ApplicationDeadline)
}
