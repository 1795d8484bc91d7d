package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rkurane/collegebus/internal/app/models"
	"github.com/rkurane/collegebus/internal/pkg/apperrors"
)

// AdminRepository handles database operations for admin accounts
type AdminRepository struct {
	db *pgxpool.Pool
}

// NewAdminRepository creates a new admin repository
func NewAdminRepository(db *pgxpool.Pool) *AdminRepository {
	return &AdminRepository{
		db: db,
	}
}

// Create inserts a new admin row
func (r *AdminRepository) Create(ctx context.Context, admin *models.Admin) error {
	query := `
		INSERT INTO admins (username, password, email)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query, admin.Username, admin.Password, admin.Email).Scan(&admin.ID)
	if err != nil {
		return fmt.Errorf("error creating admin: %w", err)
	}

	return nil
}

// Count returns the number of admin rows
func (r *AdminRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM admins`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting admins: %w", err)
	}
	return count, nil
}

// GetByUsername retrieves an admin by username
func (r *AdminRepository) GetByUsername(ctx context.Context, username string) (*models.Admin, error) {
	return r.getOne(ctx, "username", username)
}

// GetByEmail retrieves an admin by email
func (r *AdminRepository) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	return r.getOne(ctx, "email", email)
}

func (r *AdminRepository) getOne(ctx context.Context, column, value string) (*models.Admin, error) {
	query := fmt.Sprintf(`
		SELECT id, username, password, email, reset_token, reset_token_expires, created_at, updated_at
		FROM admins
		WHERE %s = $1
	`, column)

	var admin models.Admin
	err := r.db.QueryRow(ctx, query, value).Scan(
		&admin.ID,
		&admin.Username,
		&admin.Password,
		&admin.Email,
		&admin.ResetToken,
		&admin.ResetTokenExpires,
		&admin.CreatedAt,
		&admin.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAdminNotFound
		}
		return nil, fmt.Errorf("error retrieving admin: %w", err)
	}

	return &admin, nil
}

// SetResetToken persists a reset token and its expiry on the admin row
func (r *AdminRepository) SetResetToken(ctx context.Context, email, token string, expires time.Time) error {
	query := `
		UPDATE admins
		SET reset_token = $1, reset_token_expires = $2, updated_at = NOW()
		WHERE email = $3
	`

	cmdTag, err := r.db.Exec(ctx, query, token, expires, email)
	if err != nil {
		return fmt.Errorf("error saving reset token: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrAdminNotFound
	}

	return nil
}

// ConsumeResetToken rotates the password and clears the token in a single
// statement. The row must match email AND token AND an expiry strictly in the
// future; the update reports only whether all three held so the caller cannot
// leak which sub-condition failed.
func (r *AdminRepository) ConsumeResetToken(ctx context.Context, email, token, hashedPassword string) (bool, error) {
	query := `
		UPDATE admins
		SET password = $1, reset_token = NULL, reset_token_expires = NULL, updated_at = NOW()
		WHERE email = $2 AND reset_token = $3 AND reset_token_expires > NOW()
	`

	cmdTag, err := r.db.Exec(ctx, query, hashedPassword, email, token)
	if err != nil {
		return false, fmt.Errorf("error updating password: %w", err)
	}

	return cmdTag.RowsAffected() > 0, nil
}
