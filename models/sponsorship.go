package models

import "time"

const (
	OpportunityOpen   = "OPEN"
	OpportunityClosed = "CLOSED"

	SponsorshipPending   = "PENDING"
	SponsorshipApproved  = "APPROVED"
	SponsorshipRejected  = "REJECTED"
	SponsorshipWithdrawn = "WITHDRAWN"
)

type SponsorshipOpportunity struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	Title         string      `gorm:"not null" json:"title"`
	Description   string      `gorm:"type:text" json:"description"`
	Benefits      StringSlice `gorm:"type:text" json:"benefits"`
	MinAmount     float64     `json:"min_amount"`
	MaxAmount     float64     `json:"max_amount"`
	Currency      string      `gorm:"size:3;default:USD" json:"currency"`
	Deadline      *time.Time  `gorm:"index" json:"deadline"`
	Status        string      `gorm:"index;not null" json:"status"`
	StartupCallID *uint       `gorm:"index" json:"startup_call_id"`
	CreatedByID   uint        `json:"created_by_id"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// Accepts reports whether amount falls within the opportunity's range.
func (o *SponsorshipOpportunity) Accepts(amount float64) bool {
	return amount >= o.MinAmount && amount <= o.MaxAmount
}

type SponsorshipApplication struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	OpportunityID uint      `gorm:"index;not null" json:"opportunity_id"`
	SponsorID     uint      `gorm:"index;not null" json:"sponsor_id"`
	SponsorName   string    `gorm:"not null" json:"sponsor_name"`
	Amount        float64   `json:"amount"`
	Message       string    `gorm:"type:text" json:"message"`
	Status        string    `gorm:"index;not null" json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	Opportunity SponsorshipOpportunity `gorm:"foreignKey:OpportunityID" json:"opportunity"`
}
