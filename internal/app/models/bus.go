package models

import "time"

// Bus defines the bus model based on the 'buses' table
type Bus struct {
	ID          int64     `json:"id" db:"id"`
	BusNumber   string    `json:"bus_number" db:"bus_number"`
	DriverName  string    `json:"driver_name" db:"driver_name"`
	DriverPhone string    `json:"driver_phone" db:"driver_phone"`
	Capacity    int       `json:"capacity" db:"capacity"`
	Route       string    `json:"route" db:"route"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}
