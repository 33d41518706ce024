package models

import "time"

const (
	ApplicationSubmitted   = "SUBMITTED"
	ApplicationUnderReview = "UNDER_REVIEW"
	ApplicationShortlisted = "SHORTLISTED"
	ApplicationAccepted    = "ACCEPTED"
	ApplicationRejected    = "REJECTED"
	ApplicationWithdrawn   = "WITHDRAWN"
)

var applicationTransitions = map[string][]string{
	ApplicationSubmitted:   {ApplicationUnderReview, ApplicationWithdrawn, ApplicationRejected},
	ApplicationUnderReview: {ApplicationShortlisted, ApplicationRejected, ApplicationAccepted, ApplicationWithdrawn},
	ApplicationShortlisted: {ApplicationAccepted, ApplicationRejected, ApplicationWithdrawn},
}

// Application is an entrepreneur's application to a startup call.
type Application struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	StartupCallID    uint      `gorm:"uniqueIndex:idx_call_applicant;not null" json:"startup_call_id"`
	ApplicantID      uint      `gorm:"uniqueIndex:idx_call_applicant;not null" json:"applicant_id"`
	StartupName      string    `gorm:"not null" json:"startup_name"`
	Website          string    `json:"website"`
	TeamSize         int       `json:"team_size"`
	Pitch            string    `gorm:"type:text" json:"pitch"`
	FundingRequested float64   `json:"funding_requested"`
	Status           string    `gorm:"index;not null" json:"status"`
	SubmittedAt      time.Time `json:"submitted_at"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	StartupCall StartupCall `gorm:"foreignKey:StartupCallID" json:"startup_call"`
	Applicant   User        `gorm:"foreignKey:ApplicantID" json:"applicant"`
}

// CanTransition reports whether an application may move from one status to another.
func CanTransition(from, to string) bool {
	for _, next := range applicationTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
