package models

import "time"

type Startup struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"not null" json:"name"`
	Description   string    `gorm:"type:text" json:"description"`
	Industry      string    `json:"industry"`
	Stage         string    `json:"stage"`
	FounderID     uint      `gorm:"index;not null" json:"founder_id"`
	StartupCallID *uint     `gorm:"index" json:"startup_call_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	Milestones []Milestone `gorm:"foreignKey:StartupID" json:"milestones,omitempty"`
}

const (
	MilestonePending    = "PENDING"
	MilestoneInProgress = "IN_PROGRESS"
	MilestoneCompleted  = "COMPLETED"
	MilestoneDelayed    = "DELAYED"
)

type Milestone struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	StartupID   uint      `gorm:"index;not null" json:"startup_id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	DueDate     time.Time `json:"due_date"`
	Status      string    `gorm:"not null" json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

const (
	TaskTodo       = "TODO"
	TaskInProgress = "IN_PROGRESS"
	TaskDone       = "DONE"

	PriorityLow    = "LOW"
	PriorityMedium = "MEDIUM"
	PriorityHigh   = "HIGH"
)

type Task struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	StartupID   uint       `gorm:"index;not null" json:"startup_id"`
	MilestoneID *uint      `gorm:"index" json:"milestone_id"`
	Title       string     `gorm:"not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	AssigneeID  *uint      `json:"assignee_id"`
	Priority    string     `gorm:"not null" json:"priority"`
	Status      string     `gorm:"index;not null" json:"status"`
	DueDate     *time.Time `json:"due_date"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
