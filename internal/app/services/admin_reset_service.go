package services

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rkurane/collegebus/internal/pkg/apperrors"
	"github.com/rkurane/collegebus/internal/pkg/auth"
	"github.com/rkurane/collegebus/internal/pkg/email"
	"github.com/rkurane/collegebus/internal/pkg/validation"
)

// ResetTokenTTL is how long an emailed reset code stays valid
const ResetTokenTTL = 30 * time.Minute

// AdminResetService handles the email-code admin password reset flow
type AdminResetService struct {
	adminStore AdminStore
	mailer     email.Sender
	logger     zerolog.Logger
}

// NewAdminResetService creates a new AdminResetService
func NewAdminResetService(adminStore AdminStore, mailer email.Sender, logger zerolog.Logger) *AdminResetService {
	return &AdminResetService{
		adminStore: adminStore,
		mailer:     mailer,
		logger:     logger,
	}
}

// RequestReset generates a 6-digit reset code for the admin with the given
// email, persists it with an expiry, and mails it out. The code is persisted
// before the send, so a delivery failure leaves a valid code behind and the
// admin can simply request again or retry with the mailed code if it arrives
// late.
func (s *AdminResetService) RequestReset(ctx context.Context, emailAddr string) error {
	emailAddr = strings.TrimSpace(emailAddr)
	if emailAddr == "" {
		return apperrors.NewMissingFieldError("Email is required")
	}

	admin, err := s.adminStore.GetByEmail(ctx, emailAddr)
	if err != nil {
		return err
	}

	code, err := email.GenerateResetCode()
	if err != nil {
		return err
	}

	expires := time.Now().Add(ResetTokenTTL)
	if err := s.adminStore.SetResetToken(ctx, admin.Email, code, expires); err != nil {
		return err
	}

	if err := s.mailer.SendResetCode(admin.Email, code); err != nil {
		s.logger.Error().Err(err).Str("email", admin.Email).Msg("Reset code email failed to send")
		return &apperrors.CustomError{Err: apperrors.ErrEmailSend, Message: "Error sending reset email"}
	}

	s.logger.Info().Str("email", admin.Email).Msg("Reset code sent")
	return nil
}

// ResetPassword redeems a reset code for a new password. The match on email,
// code and expiry happens in a single statement, so a stale or wrong code
// fails without revealing which condition broke, and a redeemed code cannot
// be replayed.
func (s *AdminResetService) ResetPassword(ctx context.Context, emailAddr, token, newPassword string) error {
	emailAddr = strings.TrimSpace(emailAddr)
	token = strings.TrimSpace(token)
	if emailAddr == "" || token == "" || newPassword == "" {
		return apperrors.NewMissingFieldError("Email, token, and new password are required")
	}

	if err := validation.Password(newPassword); err != nil {
		return err
	}

	hashed, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}

	ok, err := s.adminStore.ConsumeResetToken(ctx, emailAddr, token, hashed)
	if err != nil {
		return err
	}
	if !ok {
		s.logger.Warn().Str("email", emailAddr).Msg("Reset code rejected")
		return apperrors.ErrResetTokenInvalid
	}

	s.logger.Info().Str("email", emailAddr).Msg("Admin password reset")
	return nil
}
