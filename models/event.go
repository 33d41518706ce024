package models

import "time"

const (
	EventWorkshop   = "WORKSHOP"
	EventNetworking = "NETWORKING"
	EventPitch      = "PITCH"
	EventDemoDay    = "DEMO_DAY"
	EventOther      = "OTHER"
)

type Event struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Title         string    `gorm:"not null" json:"title"`
	Description   string    `gorm:"type:text" json:"description"`
	Type          string    `gorm:"index;not null" json:"type"`
	StartDate     time.Time `gorm:"index;not null" json:"start_date"`
	EndDate       time.Time `gorm:"not null" json:"end_date"`
	Location      string    `json:"location"`
	VirtualLink   string    `json:"virtual_link"`
	IsVirtual     bool      `json:"is_virtual"`
	Capacity      int       `json:"capacity"`
	StartupCallID *uint     `gorm:"index" json:"startup_call_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Kind      string    `gorm:"not null" json:"kind"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Read      bool      `gorm:"column:is_read;default:false" json:"read"`
	CreatedAt time.Time `json:"created_at"`
}
