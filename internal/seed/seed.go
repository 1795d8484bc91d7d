package seed

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rkurane/collegebus/internal/app/models"
	"github.com/rkurane/collegebus/internal/app/repositories"
	"github.com/rkurane/collegebus/internal/pkg/auth"
)

// Default admin credentials, created only when the admins table is empty.
// The password is meant to be rotated through the reset flow on first use.
const (
	DefaultAdminUsername = "admin"
	DefaultAdminPassword = "admin123"
)

// EnsureDefaultAdmin creates the bootstrap admin account if no admin exists
// yet, so a fresh deployment can be logged into immediately.
func EnsureDefaultAdmin(ctx context.Context, dbPool *pgxpool.Pool, adminEmail string, lgr zerolog.Logger) error {
	adminRepo := repositories.NewAdminRepository(dbPool)

	count, err := adminRepo.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashed, err := auth.HashPassword(DefaultAdminPassword)
	if err != nil {
		return err
	}

	admin := &models.Admin{
		Username: DefaultAdminUsername,
		Password: hashed,
		Email:    adminEmail,
	}
	if err := adminRepo.Create(ctx, admin); err != nil {
		return err
	}

	lgr.Info().Str("username", DefaultAdminUsername).Str("email", adminEmail).Msg("Default admin account created")
	return nil
}
