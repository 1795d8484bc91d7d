package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rkurane/collegebus/internal/app/models"
	"github.com/rkurane/collegebus/internal/app/models/dto"
	"github.com/rkurane/collegebus/internal/pkg/apperrors"
	"github.com/rkurane/collegebus/internal/pkg/auth"
	"github.com/rkurane/collegebus/internal/pkg/validation"
)

// StudentService handles student records, fee tracking and bus assignment
type StudentService struct {
	studentStore StudentStore
	busStore     BusStore
	logger       zerolog.Logger
}

// NewStudentService creates a new StudentService
func NewStudentService(studentStore StudentStore, busStore BusStore, logger zerolog.Logger) *StudentService {
	return &StudentService{
		studentStore: studentStore,
		busStore:     busStore,
		logger:       logger,
	}
}

// checkBusRef verifies an optional bus assignment points at a real bus
func (s *StudentService) checkBusRef(ctx context.Context, busID *int64) error {
	if busID == nil {
		return nil
	}
	exists, err := s.busStore.Exists(ctx, *busID)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.ErrBusRefInvalid
	}
	return nil
}

// Create validates and registers a new student. Uniqueness of username and
// roll number is pre-checked for a friendly message; the unique constraints
// backstop the race between check and insert.
func (s *StudentService) Create(ctx context.Context, req dto.CreateStudentRequest) (*models.Student, error) {
	if strings.TrimSpace(req.Username) == "" || req.Password == "" ||
		strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.RollNo) == "" {
		return nil, apperrors.NewMissingFieldError("Username, password, name and roll number are required")
	}

	username, err := validation.Username(req.Username)
	if err != nil {
		return nil, err
	}
	if err := validation.Password(req.Password); err != nil {
		return nil, err
	}
	name, err := validation.Name(req.Name)
	if err != nil {
		return nil, err
	}
	rollNo, err := validation.RollNo(req.RollNo)
	if err != nil {
		return nil, err
	}
	feesPaid, err := validation.Fee("fees_paid", req.FeesPaid)
	if err != nil {
		return nil, err
	}
	remainingFees, err := validation.Fee("remaining_fees", req.RemainingFees)
	if err != nil {
		return nil, err
	}

	if err := s.checkBusRef(ctx, req.BusID); err != nil {
		return nil, err
	}

	field, err := s.studentStore.FindCollision(ctx, username, rollNo, 0)
	if err != nil {
		return nil, err
	}
	switch field {
	case "username":
		return nil, apperrors.ErrDuplicateUsername
	case "roll_no":
		return nil, apperrors.ErrDuplicateRollNo
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	student := &models.Student{
		Username:      username,
		Password:      hashed,
		Name:          name,
		RollNo:        rollNo,
		Department:    strings.TrimSpace(req.Department),
		BusID:         req.BusID,
		FeesPaid:      feesPaid,
		RemainingFees: remainingFees,
		JoiningDate:   time.Now(),
	}

	if err := s.studentStore.Create(ctx, student); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("studentID", student.ID).Str("username", username).Msg("Student created")
	return student, nil
}

// GetByID retrieves a single student with bus details
func (s *StudentService) GetByID(ctx context.Context, id int64) (*models.StudentWithBus, error) {
	return s.studentStore.GetByID(ctx, id)
}

// GetProfile retrieves a student with bus details by username
func (s *StudentService) GetProfile(ctx context.Context, username string) (*models.StudentWithBus, error) {
	return s.studentStore.GetProfile(ctx, username)
}

// List retrieves all students with their bus details
func (s *StudentService) List(ctx context.Context) ([]*models.StudentWithBus, error) {
	return s.studentStore.List(ctx)
}

// Dashboard builds the self-service view for a student
func (s *StudentService) Dashboard(ctx context.Context, username string) (*dto.StudentDashboard, error) {
	student, err := s.studentStore.GetProfile(ctx, username)
	if err != nil {
		return nil, err
	}

	return &dto.StudentDashboard{
		ID:            student.ID,
		Username:      student.Username,
		Name:          student.Name,
		RollNo:        student.RollNo,
		Department:    student.Department,
		FeesPaid:      student.FeesPaid,
		RemainingFees: student.RemainingFees,
		JoiningDate:   student.JoiningDate,
		BusNumber:     student.BusNumber,
		BusRoute:      student.BusRoute,
	}, nil
}

// Update validates and overwrites a student's mutable fields. Username and
// password are not touched here.
func (s *StudentService) Update(ctx context.Context, id int64, req dto.UpdateStudentRequest) error {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.RollNo) == "" {
		return apperrors.NewMissingFieldError("Name and roll_no are required")
	}

	name, err := validation.Name(req.Name)
	if err != nil {
		return err
	}
	rollNo, err := validation.RollNo(req.RollNo)
	if err != nil {
		return err
	}
	feesPaid, err := validation.Fee("fees_paid", req.FeesPaid)
	if err != nil {
		return err
	}
	remainingFees, err := validation.Fee("remaining_fees", req.RemainingFees)
	if err != nil {
		return err
	}

	existing, err := s.studentStore.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.checkBusRef(ctx, req.BusID); err != nil {
		return err
	}

	field, err := s.studentStore.FindCollision(ctx, existing.Username, rollNo, id)
	if err != nil {
		return err
	}
	if field == "roll_no" {
		return apperrors.ErrDuplicateRollNo
	}

	student := &models.Student{
		ID:            id,
		Name:          name,
		RollNo:        rollNo,
		Department:    strings.TrimSpace(req.Department),
		BusID:         req.BusID,
		FeesPaid:      feesPaid,
		RemainingFees: remainingFees,
	}

	if err := s.studentStore.Update(ctx, student); err != nil {
		return err
	}

	s.logger.Info().Int64("studentID", id).Msg("Student updated")
	return nil
}

// Delete removes a student
func (s *StudentService) Delete(ctx context.Context, id int64) error {
	if err := s.studentStore.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Int64("studentID", id).Msg("Student deleted")
	return nil
}

// ResetPassword is the single-step student self-service reset: prove identity
// by roll number plus department, receive a freshly generated password. The
// plaintext is returned to the caller and only the hash is stored.
func (s *StudentService) ResetPassword(ctx context.Context, req dto.StudentResetRequest) (*dto.ResetCredentials, error) {
	rollNo := strings.TrimSpace(req.RollNo)
	department := strings.TrimSpace(req.Department)
	if rollNo == "" || department == "" {
		return nil, apperrors.NewMissingFieldError("Roll number and department are required")
	}

	student, err := s.studentStore.GetByRollNoAndDepartment(ctx, rollNo, department)
	if err != nil {
		if errors.Is(err, apperrors.ErrStudentNotFound) {
			return nil, &apperrors.CustomError{
				Err:     apperrors.ErrStudentNotFound,
				Message: "No student found with these details",
			}
		}
		return nil, err
	}

	newPassword, err := auth.GeneratePassword()
	if err != nil {
		return nil, err
	}
	hashed, err := auth.HashPassword(newPassword)
	if err != nil {
		return nil, err
	}

	if err := s.studentStore.UpdatePassword(ctx, student.ID, hashed); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("studentID", student.ID).Msg("Student password reset")
	return &dto.ResetCredentials{
		Username:    student.Username,
		NewPassword: newPassword,
	}, nil
}
