package types

import "time"

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"required,oneof=ENTREPRENEUR SPONSOR REVIEWER"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RoleRequest struct {
	Role string `json:"role" binding:"required,oneof=ADMIN ENTREPRENEUR SPONSOR REVIEWER"`
}

type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type StartupCallRequest struct {
	Title               string    `json:"title" binding:"required"`
	Description         string    `json:"description"`
	Industry            string    `json:"industry"`
	Location            string    `json:"location"`
	Status              string    `json:"status" binding:"omitempty,oneof=DRAFT PUBLISHED CLOSED ARCHIVED"`
	ApplicationDeadline time.Time `json:"application_deadline" binding:"required"`
	FundingAmount       float64   `json:"funding_amount" binding:"gte=0"`
	EligibilityCriteria string    `json:"eligibility_criteria"`
	RequiredDocuments   []string  `json:"required_documents"`
}

type ApplicationRequest struct {
	StartupName      string  `json:"startup_name" binding:"required"`
	Website          string  `json:"website" binding:"omitempty,url"`
	TeamSize         int     `json:"team_size" binding:"gte=1"`
	Pitch            string  `json:"pitch" binding:"required"`
	FundingRequested float64 `json:"funding_requested" binding:"gte=0"`
}

type ReviewRequest struct {
	InnovationScore int    `json:"innovation_score" binding:"gte=0,lte=10"`
	MarketScore     int    `json:"market_score" binding:"gte=0,lte=10"`
	TeamScore       int    `json:"team_score" binding:"gte=0,lte=10"`
	ExecutionScore  int    `json:"execution_score" binding:"gte=0,lte=10"`
	Feedback        string `json:"feedback"`
	Status          string `json:"status" binding:"omitempty,oneof=PENDING IN_PROGRESS COMPLETED"`
}

type StartupRequest struct {
	Name          string `json:"name" binding:"required"`
	Description   string `json:"description"`
	Industry      string `json:"industry"`
	Stage         string `json:"stage"`
	StartupCallID *uint  `json:"startup_call_id"`
}

type MilestoneRequest struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"due_date" binding:"required"`
	Status      string    `json:"status" binding:"omitempty,oneof=PENDING IN_PROGRESS COMPLETED DELAYED"`
}

type TaskRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	MilestoneID *uint      `json:"milestone_id"`
	AssigneeID  *uint      `json:"assignee_id"`
	Priority    string     `json:"priority" binding:"omitempty,oneof=LOW MEDIUM HIGH"`
	Status      string     `json:"status" binding:"omitempty,oneof=TODO IN_PROGRESS DONE"`
	DueDate     *time.Time `json:"due_date"`
}

type BudgetRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description"`
	FiscalYear  int     `json:"fiscal_year" binding:"omitempty,gte=2000"`
	TotalAmount float64 `json:"total_amount" binding:"gte=0"`
	Currency    string  `json:"currency" binding:"omitempty,len=3"`
	Status      string  `json:"status" binding:"omitempty,oneof=DRAFT ACTIVE CLOSED"`
}

type CategoryRequest struct {
	Name            string  `json:"name" binding:"required"`
	Description     string  `json:"description"`
	AllocatedAmount float64 `json:"allocated_amount" binding:"gte=0"`
}

type ExpenseRequest struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description"`
	CategoryID  *uint     `json:"category_id"`
	Amount      float64   `json:"amount" binding:"gt=0"`
	Date        time.Time `json:"date" binding:"required"`
	ReceiptURL  string    `json:"receipt_url" binding:"omitempty,url"`
}

type OpportunityRequest struct {
	Title         string     `json:"title" binding:"required"`
	Description   string     `json:"description"`
	Benefits      []string   `json:"benefits"`
	MinAmount     float64    `json:"min_amount" binding:"gte=0"`
	MaxAmount     float64    `json:"max_amount" binding:"gte=0,gtefield=MinAmount"`
	Currency      string     `json:"currency" binding:"omitempty,len=3"`
	Deadline      *time.Time `json:"deadline"`
	Status        string     `json:"status" binding:"omitempty,oneof=OPEN CLOSED"`
	StartupCallID *uint      `json:"startup_call_id"`
}

type SponsorshipRequest struct {
	SponsorName string  `json:"sponsor_name" binding:"required"`
	Amount      float64 `json:"amount" binding:"gt=0"`
	Message     string  `json:"message"`
}

type EventRequest struct {
	Title         string    `json:"title" binding:"required"`
	Description   string    `json:"description"`
	Type          string    `json:"type" binding:"omitempty,oneof=WORKSHOP NETWORKING PITCH DEMO_DAY OTHER"`
	StartDate     time.Time `json:"start_date" binding:"required"`
	EndDate       time.Time `json:"end_date" binding:"required,gtfield=StartDate"`
	Location      string    `json:"location"`
	VirtualLink   string    `json:"virtual_link" binding:"omitempty,url"`
	IsVirtual     bool      `json:"is_virtual"`
	Capacity      int       `json:"capacity" binding:"gte=0"`
	StartupCallID *uint     `json:"startup_call_id"`
}
