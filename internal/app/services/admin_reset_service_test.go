package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rkurane/collegebus/internal/pkg/apperrors"
	"github.com/rkurane/collegebus/internal/pkg/auth"
)

func TestRequestResetUnknownEmail(t *testing.T) {
	env := newTestEnv()
	env.seedAdmin(t, "admin", "admin123", "admin@college.edu")

	err := env.reset.RequestReset(context.Background(), "nobody@college.edu")
	if !errors.Is(err, apperrors.ErrAdminNotFound) {
		t.Fatalf("got %v, want ErrAdminNotFound", err)
	}
	if len(env.mailer.SentTo) != 0 {
		t.Error("no email should be sent for an unknown address")
	}
}

func TestRequestResetPersistsTokenAndSends(t *testing.T) {
	env := newTestEnv()
	env.seedAdmin(t, "admin", "admin123", "admin@college.edu")

	before := time.Now()
	if err := env.reset.RequestReset(context.Background(), "admin@college.edu"); err != nil {
		t.Fatalf("request-reset failed: %v", err)
	}

	admin := env.db.Admins[0]
	if admin.ResetToken == nil || len(*admin.ResetToken) != 6 {
		t.Fatalf("expected a persisted 6-digit token, got %v", admin.ResetToken)
	}
	if admin.ResetTokenExpires == nil {
		t.Fatal("expected a persisted expiry")
	}
	ttl := admin.ResetTokenExpires.Sub(before)
	if ttl < ResetTokenTTL-5*time.Second || ttl > ResetTokenTTL+5*time.Second {
		t.Errorf("expiry %v away, want ~%v", ttl, ResetTokenTTL)
	}

	if len(env.mailer.SentCode) != 1 || env.mailer.SentCode[0] != *admin.ResetToken {
		t.Errorf("mailed code %v does not match persisted token %q", env.mailer.SentCode, *admin.ResetToken)
	}
}

func TestRequestResetSendFailureKeepsToken(t *testing.T) {
	env := newTestEnv()
	env.seedAdmin(t, "admin", "admin123", "admin@college.edu")
	env.mailer.Err = errSMTPDown

	err := env.reset.RequestReset(context.Background(), "admin@college.edu")
	if !errors.Is(err, apperrors.ErrEmailSend) {
		t.Fatalf("got %v, want ErrEmailSend", err)
	}

	// The delivery failed but the code stays valid for a retry
	admin := env.db.Admins[0]
	if admin.ResetToken == nil {
		t.Fatal("token should remain persisted after a send failure")
	}
}

func TestResetPasswordFlow(t *testing.T) {
	env := newTestEnv()
	env.seedAdmin(t, "admin", "admin123", "admin@college.edu")

	if err := env.reset.RequestReset(context.Background(), "admin@college.edu"); err != nil {
		t.Fatalf("request-reset failed: %v", err)
	}
	code := env.mailer.SentCode[0]

	// Wrong token leaves the password untouched
	err := env.reset.ResetPassword(context.Background(), "admin@college.edu", "000000", "newpassword1")
	if !errors.Is(err, apperrors.ErrResetTokenInvalid) {
		t.Fatalf("wrong token: got %v, want ErrResetTokenInvalid", err)
	}
	if !auth.CheckPassword(env.db.Admins[0].Password, "admin123") {
		t.Fatal("wrong token must not change the password")
	}

	// Correct token rotates the password and clears the token
	if err := env.reset.ResetPassword(context.Background(), "admin@college.edu", code, "newpassword1"); err != nil {
		t.Fatalf("reset-password failed: %v", err)
	}
	admin := env.db.Admins[0]
	if !auth.CheckPassword(admin.Password, "newpassword1") {
		t.Error("new password does not authenticate")
	}
	if auth.CheckPassword(admin.Password, "admin123") {
		t.Error("old password still authenticates")
	}
	if admin.ResetToken != nil || admin.ResetTokenExpires != nil {
		t.Error("token should be cleared after redemption")
	}

	// A redeemed code cannot be replayed
	err = env.reset.ResetPassword(context.Background(), "admin@college.edu", code, "anotherpass2")
	if !errors.Is(err, apperrors.ErrResetTokenInvalid) {
		t.Fatalf("replayed token: got %v, want ErrResetTokenInvalid", err)
	}
}

func TestResetPasswordExpiredToken(t *testing.T) {
	env := newTestEnv()
	env.seedAdmin(t, "admin", "admin123", "admin@college.edu")

	expired := time.Now().Add(-time.Minute)
	if err := env.adminStore.SetResetToken(context.Background(), "admin@college.edu", "123456", expired); err != nil {
		t.Fatalf("seeding token: %v", err)
	}

	err := env.reset.ResetPassword(context.Background(), "admin@college.edu", "123456", "newpassword1")
	if !errors.Is(err, apperrors.ErrResetTokenInvalid) {
		t.Fatalf("got %v, want ErrResetTokenInvalid", err)
	}
}

func TestResetPasswordMissingFields(t *testing.T) {
	env := newTestEnv()

	if err := env.reset.RequestReset(context.Background(), "  "); !errors.Is(err, apperrors.ErrMissingField) {
		t.Errorf("request-reset: got %v, want ErrMissingField", err)
	}
	if err := env.reset.ResetPassword(context.Background(), "admin@college.edu", "", "newpassword1"); !errors.Is(err, apperrors.ErrMissingField) {
		t.Errorf("reset-password: got %v, want ErrMissingField", err)
	}
	if err := env.reset.ResetPassword(context.Background(), "admin@college.edu", "123456", "tiny"); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Errorf("short password: got %v, want ErrValidationFailed", err)
	}
}
