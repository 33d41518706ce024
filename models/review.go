package models

import "time"

const (
	ReviewPending    = "PENDING"
	ReviewInProgress = "IN_PROGRESS"
	ReviewCompleted  = "COMPLETED"
)

type Review struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	ApplicationID   uint      `gorm:"uniqueIndex:idx_application_reviewer;not null" json:"application_id"`
	ReviewerID      uint      `gorm:"uniqueIndex:idx_application_reviewer;not null" json:"reviewer_id"`
	InnovationScore int       `json:"innovation_score"`
	MarketScore     int       `json:"market_score"`
	TeamScore       int       `json:"team_score"`
	ExecutionScore  int       `json:"execution_score"`
	OverallScore    float64   `json:"overall_score"`
	Feedback        string    `gorm:"type:text" json:"feedback"`
	Status          string    `gorm:"not null" json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	Reviewer User `gorm:"foreignKey:ReviewerID" json:"reviewer"`
}

// Score recomputes the overall score as the mean of the four criteria.
func (r *Review) Score() {
	r.OverallScore = float64(r.InnovationScore+r.MarketScore+r.TeamScore+r.ExecutionScore) / 4
}
