package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rkurane/collegebus/internal/app/models"
	"github.com/rkurane/collegebus/internal/app/storetest"
	"github.com/rkurane/collegebus/internal/pkg/auth"
)

var errSMTPDown = errors.New("smtp connection refused")

// testEnv wires every service to in-memory stores over one shared DB
type testEnv struct {
	db           *storetest.DB
	adminStore   *storetest.AdminStore
	busStore     *storetest.BusStore
	studentStore *storetest.StudentStore
	mailer       *storetest.Mailer

	jwt     *auth.JWTService
	auth    *AuthService
	reset   *AdminResetService
	bus     *BusService
	student *StudentService
}

func newTestEnv() *testEnv {
	db := storetest.NewDB()
	adminStore := &storetest.AdminStore{DB: db}
	busStore := &storetest.BusStore{DB: db}
	studentStore := &storetest.StudentStore{DB: db}
	mailer := &storetest.Mailer{}
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:       "test-secret",
		SessionTokenExp: time.Hour,
		TokenIssuer:     "collegebus-test",
	})
	log := zerolog.Nop()

	return &testEnv{
		db:           db,
		adminStore:   adminStore,
		busStore:     busStore,
		studentStore: studentStore,
		mailer:       mailer,
		jwt:          jwtService,
		auth:         NewAuthService(adminStore, studentStore, jwtService, log),
		reset:        NewAdminResetService(adminStore, mailer, log),
		bus:          NewBusService(busStore, log),
		student:      NewStudentService(studentStore, busStore, log),
	}
}

func (e *testEnv) seedAdmin(t *testing.T, username, password, emailAddr string) *models.Admin {
	t.Helper()
	hashed, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}
	admin := &models.Admin{Username: username, Password: hashed, Email: emailAddr}
	if err := e.adminStore.Create(context.Background(), admin); err != nil {
		t.Fatalf("seeding admin: %v", err)
	}
	return admin
}

func (e *testEnv) seedBus(t *testing.T, number, route string) *models.Bus {
	t.Helper()
	bus := &models.Bus{BusNumber: number, DriverName: "Suresh Kumar", DriverPhone: "9876543210", Capacity: 40, Route: route}
	if err := e.busStore.Create(context.Background(), bus); err != nil {
		t.Fatalf("seeding bus: %v", err)
	}
	return bus
}

func (e *testEnv) seedStudent(t *testing.T, username, password, rollNo, department string, busID *int64) *models.Student {
	t.Helper()
	hashed, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}
	student := &models.Student{
		Username:    username,
		Password:    hashed,
		Name:        "Test Student",
		RollNo:      rollNo,
		Department:  department,
		BusID:       busID,
		JoiningDate: time.Now(),
	}
	if err := e.studentStore.Create(context.Background(), student); err != nil {
		t.Fatalf("seeding student: %v", err)
	}
	return student
}
