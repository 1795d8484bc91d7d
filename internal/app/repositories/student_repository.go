package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rkurane/collegebus/internal/app/models"
	"github.com/rkurane/collegebus/internal/pkg/apperrors"
	"github.com/rkurane/collegebus/internal/pkg/dberrors"
	"github.com/rkurane/collegebus/internal/pkg/logger"
)

var studentColumns = []string{
	"s.id", "s.name", "s.username", "s.password", "s.roll_no", "s.department",
	"s.bus_id", "s.fees_paid", "s.remaining_fees", "s.joining_date",
	"s.created_at", "s.updated_at",
}

// StudentRepository handles student database operations
type StudentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new student and fills in its generated ID
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	sql, args, err := r.sb.Insert("students").
		Columns("name", "username", "password", "roll_no", "department", "bus_id", "fees_paid", "remaining_fees", "joining_date").
		Values(student.Name, student.Username, student.Password, student.RollNo, student.Department,
			student.BusID, student.FeesPaid, student.RemainingFees, student.JoiningDate).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building create student SQL")
		return fmt.Errorf("failed to build create student query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&student.ID)
	if err != nil {
		switch {
		case dberrors.IsDuplicateConstraintError(err, "students_username_key"):
			return apperrors.ErrDuplicateUsername
		case dberrors.IsDuplicateConstraintError(err, "students_roll_no_key"):
			return apperrors.ErrDuplicateRollNo
		case dberrors.IsForeignKeyViolation(err, "students_bus_id_fkey"):
			return apperrors.ErrBusRefInvalid
		}
		logger.Error().Err(err).Str("username", student.Username).Msg("Error executing create student query")
		return fmt.Errorf("error creating student: %w", err)
	}

	return nil
}

// GetByID retrieves a student, with assigned bus details, by ID
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*models.StudentWithBus, error) {
	return r.getWithBus(ctx, squirrel.Eq{"s.id": id})
}

// GetProfile retrieves a student, with assigned bus details, by username
func (r *StudentRepository) GetProfile(ctx context.Context, username string) (*models.StudentWithBus, error) {
	return r.getWithBus(ctx, squirrel.Eq{"s.username": username})
}

func (r *StudentRepository) getWithBus(ctx context.Context, pred interface{}) (*models.StudentWithBus, error) {
	cols := append(append([]string{}, studentColumns...), "b.bus_number", "b.route")
	sql, args, err := r.sb.Select(cols...).
		From("students s").
		LeftJoin("buses b ON b.id = s.bus_id").
		Where(pred).
		Limit(1).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building get student SQL")
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	var student models.StudentWithBus
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&student.ID, &student.Name, &student.Username, &student.Password,
		&student.RollNo, &student.Department, &student.BusID,
		&student.FeesPaid, &student.RemainingFees, &student.JoiningDate,
		&student.CreatedAt, &student.UpdatedAt,
		&student.BusNumber, &student.BusRoute,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		logger.Error().Err(err).Msg("Error retrieving student")
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}

	return &student, nil
}

// List retrieves all students with their assigned bus details, ordered by name
func (r *StudentRepository) List(ctx context.Context) ([]*models.StudentWithBus, error) {
	cols := append(append([]string{}, studentColumns...), "b.bus_number", "b.route")
	sql, args, err := r.sb.Select(cols...).
		From("students s").
		LeftJoin("buses b ON b.id = s.bus_id").
		OrderBy("s.name").
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building list students SQL")
		return nil, fmt.Errorf("failed to build list students query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing students")
		return nil, fmt.Errorf("error listing students: %w", err)
	}
	defer rows.Close()

	students := make([]*models.StudentWithBus, 0)
	for rows.Next() {
		var student models.StudentWithBus
		err := rows.Scan(
			&student.ID, &student.Name, &student.Username, &student.Password,
			&student.RollNo, &student.Department, &student.BusID,
			&student.FeesPaid, &student.RemainingFees, &student.JoiningDate,
			&student.CreatedAt, &student.UpdatedAt,
			&student.BusNumber, &student.BusRoute,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning student: %w", err)
		}
		students = append(students, &student)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating students: %w", err)
	}

	return students, nil
}

// GetByUsername retrieves a student by username, without bus details.
// The returned row includes the password hash for credential checks.
func (r *StudentRepository) GetByUsername(ctx context.Context, username string) (*models.Student, error) {
	return r.getOne(ctx, squirrel.Eq{"username": username})
}

// GetByRollNo retrieves a student by roll number, without bus details
func (r *StudentRepository) GetByRollNo(ctx context.Context, rollNo string) (*models.Student, error) {
	return r.getOne(ctx, squirrel.Eq{"roll_no": rollNo})
}

// GetByRollNoAndDepartment retrieves a student by roll number and department
func (r *StudentRepository) GetByRollNoAndDepartment(ctx context.Context, rollNo, department string) (*models.Student, error) {
	return r.getOne(ctx, squirrel.Eq{"roll_no": rollNo, "department": department})
}

func (r *StudentRepository) getOne(ctx context.Context, pred interface{}) (*models.Student, error) {
	sql, args, err := r.sb.Select("id", "name", "username", "password", "roll_no", "department",
		"bus_id", "fees_paid", "remaining_fees", "joining_date", "created_at", "updated_at").
		From("students").
		Where(pred).
		Limit(1).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building get student SQL")
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	var student models.Student
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&student.ID, &student.Name, &student.Username, &student.Password,
		&student.RollNo, &student.Department, &student.BusID,
		&student.FeesPaid, &student.RemainingFees, &student.JoiningDate,
		&student.CreatedAt, &student.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		logger.Error().Err(err).Msg("Error retrieving student")
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}

	return &student, nil
}

// FindCollision reports which unique field ("username" or "roll_no") is
// already taken by another student, excluding the given ID. Returns "" when
// both are free.
func (r *StudentRepository) FindCollision(ctx context.Context, username, rollNo string, excludeID int64) (string, error) {
	sql, args, err := r.sb.Select("username", "roll_no").
		From("students").
		Where(squirrel.And{
			squirrel.Or{
				squirrel.Eq{"username": username},
				squirrel.Eq{"roll_no": rollNo},
			},
			squirrel.NotEq{"id": excludeID},
		}).
		Limit(1).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building collision check SQL")
		return "", fmt.Errorf("failed to build collision check query: %w", err)
	}

	var foundUsername, foundRollNo string
	err = r.db.QueryRow(ctx, sql, args...).Scan(&foundUsername, &foundRollNo)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		logger.Error().Err(err).Msg("Error checking student uniqueness")
		return "", fmt.Errorf("error checking student uniqueness: %w", err)
	}

	if foundUsername == username {
		return "username", nil
	}
	return "roll_no", nil
}

// Update modifies a student's profile fields. Username and password are
// managed through their own flows and stay untouched here.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	sql, args, err := r.sb.Update("students").
		Set("name", student.Name).
		Set("roll_no", student.RollNo).
		Set("department", student.Department).
		Set("bus_id", student.BusID).
		Set("fees_paid", student.FeesPaid).
		Set("remaining_fees", student.RemainingFees).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": student.ID}).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building update student SQL")
		return fmt.Errorf("failed to build update student query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		switch {
		case dberrors.IsDuplicateConstraintError(err, "students_roll_no_key"):
			return apperrors.ErrDuplicateRollNo
		case dberrors.IsForeignKeyViolation(err, "students_bus_id_fkey"):
			return apperrors.ErrBusRefInvalid
		}
		logger.Error().Err(err).Int64("studentID", student.ID).Msg("Error updating student")
		return fmt.Errorf("error updating student: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}

	return nil
}

// UpdatePassword replaces a student's password hash
func (r *StudentRepository) UpdatePassword(ctx context.Context, id int64, hashedPassword string) error {
	sql, args, err := r.sb.Update("students").
		Set("password", hashedPassword).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building update password SQL")
		return fmt.Errorf("failed to build update password query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", id).Msg("Error updating student password")
		return fmt.Errorf("error updating student password: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}

	return nil
}

// Delete removes a student
func (r *StudentRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("students").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building delete student SQL")
		return fmt.Errorf("failed to build delete student query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", id).Msg("Error deleting student")
		return fmt.Errorf("error deleting student: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}

	return nil
}
