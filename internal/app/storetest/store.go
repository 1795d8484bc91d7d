// Package storetest provides in-memory implementations of the service store
// interfaces for tests. They mirror the repository contracts, including the
// schema's foreign-key behavior: deleting a bus detaches its students.
package storetest

import (
	"context"
	"sort"
	"time"

	"github.com/rkurane/collegebus/internal/app/models"
	"github.com/rkurane/collegebus/internal/pkg/apperrors"
)

// DB is the shared backing state for the in-memory stores
type DB struct {
	Admins   []*models.Admin
	Buses    []*models.Bus
	Students []*models.Student

	nextID int64
}

// NewDB creates an empty in-memory database
func NewDB() *DB {
	return &DB{nextID: 1}
}

func (d *DB) id() int64 {
	id := d.nextID
	d.nextID++
	return id
}

// AdminStore is an in-memory services.AdminStore
type AdminStore struct{ DB *DB }

func (f *AdminStore) Create(_ context.Context, admin *models.Admin) error {
	admin.ID = f.DB.id()
	cp := *admin
	f.DB.Admins = append(f.DB.Admins, &cp)
	return nil
}

func (f *AdminStore) Count(_ context.Context) (int, error) {
	return len(f.DB.Admins), nil
}

func (f *AdminStore) GetByUsername(_ context.Context, username string) (*models.Admin, error) {
	for _, a := range f.DB.Admins {
		if a.Username == username {
			cp := *a
			return &cp, nil
		}
	}
	return nil, apperrors.ErrAdminNotFound
}

func (f *AdminStore) GetByEmail(_ context.Context, email string) (*models.Admin, error) {
	for _, a := range f.DB.Admins {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, apperrors.ErrAdminNotFound
}

func (f *AdminStore) SetResetToken(_ context.Context, email, token string, expires time.Time) error {
	for _, a := range f.DB.Admins {
		if a.Email == email {
			a.ResetToken = &token
			a.ResetTokenExpires = &expires
			return nil
		}
	}
	return apperrors.ErrAdminNotFound
}

func (f *AdminStore) ConsumeResetToken(_ context.Context, email, token, hashedPassword string) (bool, error) {
	for _, a := range f.DB.Admins {
		if a.Email == email && a.ResetToken != nil && *a.ResetToken == token &&
			a.ResetTokenExpires != nil && a.ResetTokenExpires.After(time.Now()) {
			a.Password = hashedPassword
			a.ResetToken = nil
			a.ResetTokenExpires = nil
			return true, nil
		}
	}
	return false, nil
}

// BusStore is an in-memory services.BusStore
type BusStore struct{ DB *DB }

func (f *BusStore) Create(_ context.Context, bus *models.Bus) error {
	for _, b := range f.DB.Buses {
		if b.BusNumber == bus.BusNumber {
			return apperrors.ErrDuplicateBusNumber
		}
	}
	bus.ID = f.DB.id()
	cp := *bus
	f.DB.Buses = append(f.DB.Buses, &cp)
	return nil
}

func (f *BusStore) GetByID(_ context.Context, id int64) (*models.Bus, error) {
	for _, b := range f.DB.Buses {
		if b.ID == id {
			cp := *b
			return &cp, nil
		}
	}
	return nil, apperrors.ErrBusNotFound
}

func (f *BusStore) List(_ context.Context) ([]*models.Bus, error) {
	out := make([]*models.Bus, 0, len(f.DB.Buses))
	for i := len(f.DB.Buses) - 1; i >= 0; i-- {
		cp := *f.DB.Buses[i]
		out = append(out, &cp)
	}
	return out, nil
}

func (f *BusStore) Update(_ context.Context, bus *models.Bus) error {
	for _, b := range f.DB.Buses {
		if b.BusNumber == bus.BusNumber && b.ID != bus.ID {
			return apperrors.ErrDuplicateBusNumber
		}
	}
	for _, b := range f.DB.Buses {
		if b.ID == bus.ID {
			updated := *bus
			*b = updated
			return nil
		}
	}
	return apperrors.ErrBusNotFound
}

func (f *BusStore) Delete(_ context.Context, id int64) error {
	for i, b := range f.DB.Buses {
		if b.ID == id {
			f.DB.Buses = append(f.DB.Buses[:i], f.DB.Buses[i+1:]...)
			// ON DELETE SET NULL
			for _, s := range f.DB.Students {
				if s.BusID != nil && *s.BusID == id {
					s.BusID = nil
				}
			}
			return nil
		}
	}
	return apperrors.ErrBusNotFound
}

func (f *BusStore) NumberExists(_ context.Context, busNumber string, excludeID int64) (bool, error) {
	for _, b := range f.DB.Buses {
		if b.BusNumber == busNumber && b.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *BusStore) Exists(_ context.Context, id int64) (bool, error) {
	for _, b := range f.DB.Buses {
		if b.ID == id {
			return true, nil
		}
	}
	return false, nil
}

// StudentStore is an in-memory services.StudentStore
type StudentStore struct{ DB *DB }

func (f *StudentStore) Create(_ context.Context, student *models.Student) error {
	for _, s := range f.DB.Students {
		if s.Username == student.Username {
			return apperrors.ErrDuplicateUsername
		}
		if s.RollNo == student.RollNo {
			return apperrors.ErrDuplicateRollNo
		}
	}
	if student.BusID != nil && !f.busExists(*student.BusID) {
		return apperrors.ErrBusRefInvalid
	}
	student.ID = f.DB.id()
	cp := *student
	f.DB.Students = append(f.DB.Students, &cp)
	return nil
}

func (f *StudentStore) busExists(id int64) bool {
	for _, b := range f.DB.Buses {
		if b.ID == id {
			return true
		}
	}
	return false
}

func (f *StudentStore) withBus(s *models.Student) *models.StudentWithBus {
	out := &models.StudentWithBus{Student: *s}
	if s.BusID != nil {
		for _, b := range f.DB.Buses {
			if b.ID == *s.BusID {
				number, route := b.BusNumber, b.Route
				out.BusNumber = &number
				out.BusRoute = &route
			}
		}
	}
	return out
}

func (f *StudentStore) GetByID(_ context.Context, id int64) (*models.StudentWithBus, error) {
	for _, s := range f.DB.Students {
		if s.ID == id {
			return f.withBus(s), nil
		}
	}
	return nil, apperrors.ErrStudentNotFound
}

func (f *StudentStore) GetProfile(_ context.Context, username string) (*models.StudentWithBus, error) {
	for _, s := range f.DB.Students {
		if s.Username == username {
			return f.withBus(s), nil
		}
	}
	return nil, apperrors.ErrStudentNotFound
}

func (f *StudentStore) List(_ context.Context) ([]*models.StudentWithBus, error) {
	out := make([]*models.StudentWithBus, 0, len(f.DB.Students))
	for _, s := range f.DB.Students {
		out = append(out, f.withBus(s))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *StudentStore) GetByUsername(_ context.Context, username string) (*models.Student, error) {
	for _, s := range f.DB.Students {
		if s.Username == username {
			cp := *s
			return &cp, nil
		}
	}
	return nil, apperrors.ErrStudentNotFound
}

func (f *StudentStore) GetByRollNo(_ context.Context, rollNo string) (*models.Student, error) {
	for _, s := range f.DB.Students {
		if s.RollNo == rollNo {
			cp := *s
			return &cp, nil
		}
	}
	return nil, apperrors.ErrStudentNotFound
}

func (f *StudentStore) GetByRollNoAndDepartment(_ context.Context, rollNo, department string) (*models.Student, error) {
	for _, s := range f.DB.Students {
		if s.RollNo == rollNo && s.Department == department {
			cp := *s
			return &cp, nil
		}
	}
	return nil, apperrors.ErrStudentNotFound
}

func (f *StudentStore) FindCollision(_ context.Context, username, rollNo string, excludeID int64) (string, error) {
	for _, s := range f.DB.Students {
		if s.ID == excludeID {
			continue
		}
		if s.Username == username {
			return "username", nil
		}
		if s.RollNo == rollNo {
			return "roll_no", nil
		}
	}
	return "", nil
}

func (f *StudentStore) Update(_ context.Context, student *models.Student) error {
	if student.BusID != nil && !f.busExists(*student.BusID) {
		return apperrors.ErrBusRefInvalid
	}
	for _, s := range f.DB.Students {
		if s.RollNo == student.RollNo && s.ID != student.ID {
			return apperrors.ErrDuplicateRollNo
		}
	}
	for _, s := range f.DB.Students {
		if s.ID == student.ID {
			s.Name = student.Name
			s.RollNo = student.RollNo
			s.Department = student.Department
			s.BusID = student.BusID
			s.FeesPaid = student.FeesPaid
			s.RemainingFees = student.RemainingFees
			return nil
		}
	}
	return apperrors.ErrStudentNotFound
}

func (f *StudentStore) UpdatePassword(_ context.Context, id int64, hashedPassword string) error {
	for _, s := range f.DB.Students {
		if s.ID == id {
			s.Password = hashedPassword
			return nil
		}
	}
	return apperrors.ErrStudentNotFound
}

func (f *StudentStore) Delete(_ context.Context, id int64) error {
	for i, s := range f.DB.Students {
		if s.ID == id {
			f.DB.Students = append(f.DB.Students[:i], f.DB.Students[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrStudentNotFound
}

// Mailer records sent reset codes and can be told to fail
type Mailer struct {
	SentTo   []string
	SentCode []string
	Err      error
}

func (f *Mailer) SendResetCode(toEmail, code string) error {
	if f.Err != nil {
		return f.Err
	}
	f.SentTo = append(f.SentTo, toEmail)
	f.SentCode = append(f.SentCode, code)
	return nil
}
