package services

import (
	"github.com/rs/zerolog"
	"github.com/rkurane/collegebus/internal/app/repositories"
	"github.com/rkurane/collegebus/internal/pkg/auth"
	"github.com/rkurane/collegebus/internal/pkg/email"
)

// Services holds all the service instances
type Services struct {
	AuthService       *AuthService
	AdminResetService *AdminResetService
	BusService        *BusService
	StudentService    *StudentService
}

// NewServices wires the services to their pgx-backed repositories
func NewServices(repos *repositories.Repositories, jwtService *auth.JWTService, mailer email.Sender, logger zerolog.Logger) *Services {
	return &Services{
		AuthService:       NewAuthService(repos.AdminRepository, repos.StudentRepository, jwtService, logger),
		AdminResetService: NewAdminResetService(repos.AdminRepository, mailer, logger),
		BusService:        NewBusService(repos.BusRepository, logger),
		StudentService:    NewStudentService(repos.StudentRepository, repos.BusRepository, logger),
	}
}
