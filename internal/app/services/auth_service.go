package services

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rkurane/collegebus/internal/app/models/dto"
	"github.com/rkurane/collegebus/internal/pkg/apperrors"
	"github.com/rkurane/collegebus/internal/pkg/auth"
)

// AuthService handles admin and student authentication
type AuthService struct {
	adminStore   AdminStore
	studentStore StudentStore
	jwtService   *auth.JWTService
	logger       zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(adminStore AdminStore, studentStore StudentStore, jwtService *auth.JWTService, logger zerolog.Logger) *AuthService {
	return &AuthService{
		adminStore:   adminStore,
		studentStore: studentStore,
		jwtService:   jwtService,
		logger:       logger,
	}
}

func invalidCredentials(message string) error {
	return &apperrors.CustomError{
		Err:     apperrors.ErrInvalidCredentials,
		Message: message,
	}
}

// Login dispatches a combined login request by role
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	if strings.TrimSpace(req.Username) == "" || req.Password == "" || req.Role == "" {
		return nil, apperrors.NewMissingFieldError("Username, password and role are required")
	}

	switch req.Role {
	case auth.RoleAdmin:
		return s.adminLogin(ctx, req.Username, req.Password, "Invalid admin credentials")
	case auth.RoleStudent:
		return s.studentLogin(ctx, req.Username, req.Password, "Invalid student credentials")
	default:
		s.logger.Warn().Str("role", req.Role).Msg("Login attempted with unknown role")
		return nil, &apperrors.CustomError{Err: apperrors.ErrInvalidRole, Message: "Invalid role"}
	}
}

// AdminLogin authenticates an admin by username and password
func (s *AuthService) AdminLogin(ctx context.Context, req dto.AdminLoginRequest) (*dto.LoginResponse, error) {
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		return nil, apperrors.NewMissingFieldError("Missing username/password")
	}
	return s.adminLogin(ctx, req.Username, req.Password, "Invalid credentials")
}

// StudentLogin authenticates a student by username and password only, with
// no roll number fallback.
func (s *AuthService) StudentLogin(ctx context.Context, req dto.StudentLoginRequest) (*dto.LoginResponse, error) {
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		return nil, apperrors.NewMissingFieldError("Username and password required")
	}

	student, err := s.studentStore.GetByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, apperrors.ErrStudentNotFound) {
			return nil, invalidCredentials("Invalid credentials")
		}
		return nil, err
	}
	if !auth.CheckPassword(student.Password, req.Password) {
		return nil, invalidCredentials("Invalid credentials")
	}

	return s.studentSession(ctx, student.ID, student.Username)
}

func (s *AuthService) adminLogin(ctx context.Context, username, password, failureMessage string) (*dto.LoginResponse, error) {
	admin, err := s.adminStore.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, apperrors.ErrAdminNotFound) {
			// Unknown username and wrong password are indistinguishable
			return nil, invalidCredentials(failureMessage)
		}
		return nil, err
	}

	if !auth.CheckPassword(admin.Password, password) {
		s.logger.Warn().Str("username", admin.Username).Msg("Admin login failed")
		return nil, invalidCredentials(failureMessage)
	}

	token, expiresIn, err := s.jwtService.GenerateToken(admin.ID, admin.Username, auth.RoleAdmin)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("username", admin.Username).Msg("Admin logged in")
	return &dto.LoginResponse{
		Success:   true,
		Role:      auth.RoleAdmin,
		Message:   "Login successful",
		Token:     token,
		ExpiresIn: expiresIn,
	}, nil
}

// studentLogin tries the username first and falls back to treating the
// identifier as a roll number, matching how students actually sign in from
// the portal.
func (s *AuthService) studentLogin(ctx context.Context, identifier, password, failureMessage string) (*dto.LoginResponse, error) {
	identifier = strings.TrimSpace(identifier)

	student, err := s.studentStore.GetByUsername(ctx, identifier)
	if err != nil && !errors.Is(err, apperrors.ErrStudentNotFound) {
		return nil, err
	}
	if student != nil && auth.CheckPassword(student.Password, password) {
		return s.studentSession(ctx, student.ID, student.Username)
	}

	student, err = s.studentStore.GetByRollNo(ctx, identifier)
	if err != nil {
		if errors.Is(err, apperrors.ErrStudentNotFound) {
			return nil, invalidCredentials(failureMessage)
		}
		return nil, err
	}
	if !auth.CheckPassword(student.Password, password) {
		s.logger.Warn().Str("identifier", identifier).Msg("Student login failed")
		return nil, invalidCredentials(failureMessage)
	}

	return s.studentSession(ctx, student.ID, student.Username)
}

func (s *AuthService) studentSession(ctx context.Context, id int64, username string) (*dto.LoginResponse, error) {
	token, expiresIn, err := s.jwtService.GenerateToken(id, username, auth.RoleStudent)
	if err != nil {
		return nil, err
	}

	profile, err := s.studentStore.GetProfile(ctx, username)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("username", username).Msg("Student logged in")
	return &dto.LoginResponse{
		Success:   true,
		Role:      auth.RoleStudent,
		Message:   "Login successful",
		Token:     token,
		ExpiresIn: expiresIn,
		Student:   profile,
	}, nil
}
