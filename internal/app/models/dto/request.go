package dto

// LoginRequest is the combined admin/student login body
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// AdminLoginRequest is the admin-only login body
type AdminLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RequestResetRequest asks for an admin reset code by email
type RequestResetRequest struct {
	Email string `json:"email"`
}

// AdminResetPasswordRequest redeems a reset code for a new password
type AdminResetPasswordRequest struct {
	Email       string `json:"email"`
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

// StudentResetRequest is the student self-service reset body
type StudentResetRequest struct {
	RollNo     string `json:"roll_no"`
	Department string `json:"department"`
}

// StudentLoginRequest is the student-only login body
type StudentLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// BusRequest carries bus fields for create and update
type BusRequest struct {
	BusNumber   string `json:"bus_number"`
	DriverName  string `json:"driver_name"`
	DriverPhone string `json:"driver_phone"`
	Capacity    int    `json:"capacity"`
	Route       string `json:"route"`
}

// CreateStudentRequest carries student fields for create
type CreateStudentRequest struct {
	Username      string   `json:"username"`
	Password      string   `json:"password"`
	Name          string   `json:"name"`
	RollNo        string   `json:"roll_no"`
	Department    string   `json:"department"`
	BusID         *int64   `json:"bus_id"`
	FeesPaid      *float64 `json:"fees_paid"`
	RemainingFees *float64 `json:"remaining_fees"`
}

// UpdateStudentRequest carries the mutable student fields for update.
// Username and password are not mutable through this operation.
type UpdateStudentRequest struct {
	Name          string   `json:"name"`
	RollNo        string   `json:"roll_no"`
	Department    string   `json:"department"`
	BusID         *int64   `json:"bus_id"`
	FeesPaid      *float64 `json:"fees_paid"`
	RemainingFees *float64 `json:"remaining_fees"`
}
