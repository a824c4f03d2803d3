package models

import "time"

type Status string

const (
	StatusOpen       Status = "Open"
	StatusInProgress Status = "In Progress"
	StatusPending    Status = "Pending"
	StatusClosed     Status = "Closed"
)

type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

type WarrantyType string

const (
	WarrantyHardware WarrantyType = "hardware"
	WarrantySoftware WarrantyType = "software"
)

// Issue is the client-side copy of a server-owned issue. Date fields
// arrive as ISO strings and are parsed where consumed.
type Issue struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Priority    Priority `json:"priority"`
	Status      Status   `json:"status"`
	Source      string   `json:"source"`

	Project             *int64  `json:"project,omitempty"`
	Customer            *int64  `json:"customer,omitempty"`
	CustomerWarrantyDue *string `json:"customer_warranty_due,omitempty"`
	Warranty            *int64  `json:"warranty,omitempty"`
	Assignee            *int64  `json:"assignee,omitempty"`
	Reporter            *int64  `json:"reporter,omitempty"`

	DueDate         *string `json:"due_date,omitempty"`
	FirstResponseAt *string `json:"first_response_at,omitempty"`
	ResolvedAt      *string `json:"resolved_at,omitempty"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`

	HardwareWarranties []WarrantyRecord `json:"hardware_warranties,omitempty"`
	SoftwareWarranties []WarrantyRecord `json:"software_warranties,omitempty"`

	// Joined fields
	ProjectName  string `json:"project_name,omitempty"`
	CustomerName string `json:"customer_name,omitempty"`
	AssigneeName string `json:"assignee_name,omitempty"`
	ReporterName string `json:"reporter_name,omitempty"`
}

// WarrantyRecord is one warranty batch belonging to a customer or
// issue. Multiple records of the same type may coexist.
type WarrantyRecord struct {
	ID        int64        `json:"id"`
	Type      WarrantyType `json:"type"`
	Title     string       `json:"title"`
	EndDate   *string      `json:"end_date,omitempty"`
	Notes     string       `json:"notes,omitempty"`
	CreatedAt string       `json:"created_at"`
}

type Customer struct {
	ID                       int64   `json:"id"`
	Name                     string  `json:"name"`
	Code                     string  `json:"code,omitempty"`
	ContactPerson            string  `json:"contact_person,omitempty"`
	ContactEmail             string  `json:"contact_email,omitempty"`
	BusinessOwner            string  `json:"business_owner,omitempty"`
	HandoverCompleted        bool    `json:"handover_completed"`
	TrainingCompleted        bool    `json:"training_completed"`
	InternalNetworkConnected bool    `json:"internal_network_connected"`
	WarrantyDue              *string `json:"warranty_due,omitempty"`
	CreatedAt                string  `json:"created_at"`
	UpdatedAt                string  `json:"updated_at"`
}

// IssueList is the paginated envelope of the list endpoint.
type IssueList struct {
	Count   int     `json:"count"`
	Results []Issue `json:"results"`
}

// BatchResult is the response of the batch-update endpoint.
type BatchResult struct {
	Success      bool `json:"success"`
	UpdatedCount int  `json:"updated_count"`
}

// DashboardSummary holds the issue counts served by the reports
// endpoint for the dashboard screen.
type DashboardSummary struct {
	Total            int      `json:"total"`
	Open             int      `json:"open"`
	InProgress       int      `json:"in_progress"`
	Pending          int      `json:"pending"`
	Closed           int      `json:"closed"`
	AvgFRT           *float64 `json:"avg_frt,omitempty"`
	AvgMTTR          *float64 `json:"avg_mttr,omitempty"`
	CompletionRate   *float64 `json:"completion_rate,omitempty"`
	Trend7Days       []int    `json:"trend_7days,omitempty"`
	ChangePercentage *float64 `json:"change_percentage,omitempty"`
}

// SavedView is a named share link stored locally.
type SavedView struct {
	ID        int64
	Name      string
	Query     string
	CreatedAt time.Time
}
