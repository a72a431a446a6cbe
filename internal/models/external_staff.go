package models

import (
	"strings"
	"time"
)

// ExternalStaff is one row of the payroll directory export.
// Every descriptive field is plain text; NULL columns arrive as "".
type ExternalStaff struct {
	ID              string    `json:"id" db:"id"`
	BusinessKey     string    `json:"business_key" db:"business_key"`
	FirstName       string    `json:"first_name" db:"first_name"`
	LastName        string    `json:"last_name" db:"last_name"`
	MiddleName      string    `json:"middle_name" db:"middle_name"`
	JobTitle        string    `json:"job_title" db:"job_title"`
	Department      string    `json:"department" db:"department"`
	Location        string    `json:"location" db:"location"`
	Manager         string    `json:"manager" db:"manager"`
	WorkEmail       string    `json:"work_email" db:"work_email"`
	PersonalEmail   string    `json:"personal_email" db:"personal_email"`
	EmployeeID      string    `json:"employee_id" db:"employee_id"`
	FileNumber      string    `json:"file_number" db:"file_number"`
	PositionStatus  string    `json:"position_status" db:"position_status"`
	HireDate        string    `json:"hire_date" db:"hire_date"`
	TerminationDate string    `json:"termination_date" db:"termination_date"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// FullName returns "first last", trimmed
func (s ExternalStaff) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

// IsActive reports whether the position status is Active
func (s ExternalStaff) IsActive() bool {
	return strings.EqualFold(strings.TrimSpace(s.PositionStatus), "active")
}

// ExternalStaffStats summarizes the directory
type ExternalStaffStats struct {
	Total    int `json:"total" db:"total"`
	Active   int `json:"active" db:"active"`
	Inactive int `json:"inactive" db:"inactive"`
}

// ExternalStaffFilter narrows a paged directory listing
type ExternalStaffFilter struct {
	Status   string `form:"status"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// Normalize applies listing defaults
func (f *ExternalStaffFilter) Normalize() {
	if f.Status == "" {
		f.Status = "all"
	}
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.PageSize <= 0 || f.PageSize > 1000 {
		f.PageSize = 50
	}
}

// StaffSearchResponse is returned by the directory search endpoint
type StaffSearchResponse struct {
	Results []ExternalStaff `json:"results"`
	Count   int             `json:"count"`
	Total   int             `json:"total"`
	TookMS  int64           `json:"took_ms"`
}

// StaffImportResult reports the outcome of a spreadsheet import
type StaffImportResult struct {
	Upserted int      `json:"inserted_or_updated"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors"`
}
