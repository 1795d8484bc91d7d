package services

import (
	"context"
	"time"

	"github.com/rkurane/collegebus/internal/app/models"
)

// The store interfaces describe the persistence surface each service needs.
// The pgx-backed repositories satisfy them in production; tests substitute
// in-memory implementations.

// AdminStore is the persistence surface for admin accounts
type AdminStore interface {
	Create(ctx context.Context, admin *models.Admin) error
	Count(ctx context.Context) (int, error)
	GetByUsername(ctx context.Context, username string) (*models.Admin, error)
	GetByEmail(ctx context.Context, email string) (*models.Admin, error)
	SetResetToken(ctx context.Context, email, token string, expires time.Time) error
	ConsumeResetToken(ctx context.Context, email, token, hashedPassword string) (bool, error)
}

// BusStore is the persistence surface for buses
type BusStore interface {
	Create(ctx context.Context, bus *models.Bus) error
	GetByID(ctx context.Context, id int64) (*models.Bus, error)
	List(ctx context.Context) ([]*models.Bus, error)
	Update(ctx context.Context, bus *models.Bus) error
	Delete(ctx context.Context, id int64) error
	NumberExists(ctx context.Context, busNumber string, excludeID int64) (bool, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

// StudentStore is the persistence surface for students
type StudentStore interface {
	Create(ctx context.Context, student *models.Student) error
	GetByID(ctx context.Context, id int64) (*models.StudentWithBus, error)
	GetProfile(ctx context.Context, username string) (*models.StudentWithBus, error)
	List(ctx context.Context) ([]*models.StudentWithBus, error)
	GetByUsername(ctx context.Context, username string) (*models.Student, error)
	GetByRollNo(ctx context.Context, rollNo string) (*models.Student, error)
	GetByRollNoAndDepartment(ctx context.Context, rollNo, department string) (*models.Student, error)
	FindCollision(ctx context.Context, username, rollNo string, excludeID int64) (string, error)
	Update(ctx context.Context, student *models.Student) error
	UpdatePassword(ctx context.Context, id int64, hashedPassword string) error
	Delete(ctx context.Context, id int64) error
}
