package models

import "time"

// Student defines the student model based on the 'students' table
type Student struct {
	ID            int64     `json:"id" db:"id"`
	Username      string    `json:"username" db:"username"`
	Password      string    `json:"-" db:"password"` // bcrypt hash, excluded from JSON
	Name          string    `json:"name" db:"name"`
	RollNo        string    `json:"roll_no" db:"roll_no"`
	Department    string    `json:"department" db:"department"`
	BusID         *int64    `json:"bus_id" db:"bus_id"` // nullable reference, cleared when the bus is deleted
	FeesPaid      float64   `json:"fees_paid" db:"fees_paid"`
	RemainingFees float64   `json:"remaining_fees" db:"remaining_fees"`
	JoiningDate   time.Time `json:"joining_date" db:"joining_date"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`
}

// StudentWithBus is a student row joined against the assigned bus. Students
// with no bus carry nil bus fields (LEFT JOIN semantics).
type StudentWithBus struct {
	Student
	BusNumber *string `json:"bus_number"`
	BusRoute  *string `json:"bus_route"`
}
