package dto

import (
	"time"

	"github.com/rkurane/collegebus/internal/app/models"
)

// ErrorResponse is the shared failure envelope: {success:false, message}
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// NewErrorResponse creates a standard failure envelope
func NewErrorResponse(message string) ErrorResponse {
	return ErrorResponse{Success: false, Message: message}
}

// MessageResponse is a bare success acknowledgement
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// CreatedResponse acknowledges a create and reports the new row id
type CreatedResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	ID      int64  `json:"id"`
}

// LoginResponse is returned by the combined and role-specific login endpoints.
// Student carries the sanitized row for student logins only.
type LoginResponse struct {
	Success   bool                   `json:"success"`
	Role      string                 `json:"role,omitempty"`
	Message   string                 `json:"message,omitempty"`
	Token     string                 `json:"token,omitempty"`
	ExpiresIn int                    `json:"expiresIn,omitempty"`
	Student   *models.StudentWithBus `json:"student,omitempty"`
}

// BusResponse wraps a single bus
type BusResponse struct {
	Success bool        `json:"success"`
	Bus     *models.Bus `json:"bus"`
}

// StudentResponse wraps a single student with bus info
type StudentResponse struct {
	Success bool                   `json:"success"`
	Student *models.StudentWithBus `json:"student"`
}

// StudentDashboard is the self-service view: a column subset with the
// password always excluded.
type StudentDashboard struct {
	ID            int64     `json:"id"`
	Username      string    `json:"username"`
	Name          string    `json:"name"`
	RollNo        string    `json:"roll_no"`
	Department    string    `json:"department"`
	FeesPaid      float64   `json:"fees_paid"`
	RemainingFees float64   `json:"remaining_fees"`
	JoiningDate   time.Time `json:"joining_date"`
	BusNumber     *string   `json:"bus_number"`
	BusRoute      *string   `json:"bus_route"`
}

// DashboardResponse wraps the dashboard view
type DashboardResponse struct {
	Success bool              `json:"success"`
	Student *StudentDashboard `json:"student"`
}

// ResetCredentials carries the newly issued student credentials. This is the
// only place a plaintext password crosses the API boundary.
type ResetCredentials struct {
	Username    string `json:"username"`
	NewPassword string `json:"newPassword"`
}

// StudentResetResponse acknowledges a student self-service reset
type StudentResetResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Data    *ResetCredentials `json:"data"`
}
