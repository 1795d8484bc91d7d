package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rkurane/collegebus/internal/app/controllers"
	"github.com/rkurane/collegebus/internal/app/models"
	"github.com/rkurane/collegebus/internal/app/services"
	"github.com/rkurane/collegebus/internal/app/storetest"
	"github.com/rkurane/collegebus/internal/middleware"
	"github.com/rkurane/collegebus/internal/pkg/auth"
)

// testAPI runs the full router over in-memory stores
type testAPI struct {
	db     *storetest.DB
	mailer *storetest.Mailer
	jwt    *auth.JWTService
	router *gin.Engine
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

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

	authService := services.NewAuthService(adminStore, studentStore, jwtService, log)
	resetService := services.NewAdminResetService(adminStore, mailer, log)
	busService := services.NewBusService(busStore, log)
	studentService := services.NewStudentService(studentStore, busStore, log)

	router := gin.New()
	SetupRouter(
		router,
		controllers.NewAuthController(authService, resetService),
		controllers.NewBusController(busService),
		controllers.NewStudentController(studentService, authService),
		middleware.NewAuthMiddleware(jwtService),
		"",
	)

	return &testAPI{db: db, mailer: mailer, jwt: jwtService, router: router}
}

func (a *testAPI) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("encoding request body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("decoding response %q: %v", w.Body.String(), err)
	}
}

// envelope is the shared success/message response shape
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	ID      int64  `json:"id"`
}

func (a *testAPI) expectEnvelope(t *testing.T, w *httptest.ResponseRecorder, status int, success bool, message string) envelope {
	t.Helper()
	if w.Code != status {
		t.Fatalf("status = %d, want %d (body %s)", w.Code, status, w.Body.String())
	}
	var env envelope
	decode(t, w, &env)
	if env.Success != success {
		t.Errorf("success = %v, want %v", env.Success, success)
	}
	if message != "" && env.Message != message {
		t.Errorf("message = %q, want %q", env.Message, message)
	}
	return env
}

func (a *testAPI) seedAdmin(t *testing.T, username, password, emailAddr string) *models.Admin {
	t.Helper()
	hashed, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}
	admin := &models.Admin{Username: username, Password: hashed, Email: emailAddr}
	store := &storetest.AdminStore{DB: a.db}
	if err := store.Create(context.Background(), admin); err != nil {
		t.Fatalf("seeding admin: %v", err)
	}
	return admin
}

func (a *testAPI) seedBus(t *testing.T, number string) *models.Bus {
	t.Helper()
	bus := &models.Bus{BusNumber: number, DriverName: "Suresh Kumar", DriverPhone: "9876543210", Capacity: 40, Route: "Campus - City Center"}
	store := &storetest.BusStore{DB: a.db}
	if err := store.Create(context.Background(), bus); err != nil {
		t.Fatalf("seeding bus: %v", err)
	}
	return bus
}

func (a *testAPI) seedStudent(t *testing.T, username, password, rollNo string) *models.Student {
	t.Helper()
	hashed, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}
	student := &models.Student{
		Username:    username,
		Password:    hashed,
		Name:        "Student " + username,
		RollNo:      rollNo,
		Department:  "CSE",
		JoiningDate: time.Now(),
	}
	store := &storetest.StudentStore{DB: a.db}
	if err := store.Create(context.Background(), student); err != nil {
		t.Fatalf("seeding student: %v", err)
	}
	return student
}

func (a *testAPI) adminToken(t *testing.T, admin *models.Admin) string {
	t.Helper()
	token, _, err := a.jwt.GenerateToken(admin.ID, admin.Username, auth.RoleAdmin)
	if err != nil {
		t.Fatalf("minting admin token: %v", err)
	}
	return token
}

func (a *testAPI) studentToken(t *testing.T, student *models.Student) string {
	t.Helper()
	token, _, err := a.jwt.GenerateToken(student.ID, student.Username, auth.RoleStudent)
	if err != nil {
		t.Fatalf("minting student token: %v", err)
	}
	return token
}

func TestHealthEndpoint(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodGet, "/api/health", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

func TestUnknownAPIRoute(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodGet, "/api/does-not-exist", "", nil)
	api.expectEnvelope(t, w, http.StatusNotFound, false, "Not found")
}

func TestCombinedLogin(t *testing.T) {
	api := newTestAPI(t)
	api.seedAdmin(t, "admin", "admin123", "office@college.edu")
	api.seedStudent(t, "ravi", "pass123", "21CS045")

	t.Run("missing fields", func(t *testing.T) {
		w := api.do(t, http.MethodPost, "/api/login", "", map[string]string{"username": "admin"})
		api.expectEnvelope(t, w, http.StatusBadRequest, false, "Username, password and role are required")
	})

	t.Run("unknown role", func(t *testing.T) {
		w := api.do(t, http.MethodPost, "/api/login", "", map[string]string{"username": "admin", "password": "admin123", "role": "driver"})
		api.expectEnvelope(t, w, http.StatusBadRequest, false, "Invalid role")
	})

	t.Run("admin success", func(t *testing.T) {
		w := api.do(t, http.MethodPost, "/api/login", "", map[string]string{"username": "admin", "password": "admin123", "role": "admin"})
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
		}
		var resp struct {
			Success   bool   `json:"success"`
			Role      string `json:"role"`
			Token     string `json:"token"`
			ExpiresIn int    `json:"expiresIn"`
		}
		decode(t, w, &resp)
		if !resp.Success || resp.Role != "admin" || resp.Token == "" || resp.ExpiresIn <= 0 {
			t.Errorf("unexpected login response: %+v", resp)
		}
	})

	t.Run("admin wrong password", func(t *testing.T) {
		w := api.do(t, http.MethodPost, "/api/login", "", map[string]string{"username": "admin", "password": "nope", "role": "admin"})
		api.expectEnvelope(t, w, http.StatusUnauthorized, false, "Invalid admin credentials")
	})

	t.Run("student success never leaks password", func(t *testing.T) {
		w := api.do(t, http.MethodPost, "/api/login", "", map[string]string{"username": "ravi", "password": "pass123", "role": "student"})
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
		}
		var resp struct {
			Success bool   `json:"success"`
			Role    string `json:"role"`
			Token   string `json:"token"`
			Student *models.StudentWithBus `json:"student"`
		}
		decode(t, w, &resp)
		if !resp.Success || resp.Role != "student" || resp.Token == "" || resp.Student == nil {
			t.Fatalf("unexpected login response: %+v", resp)
		}
		if strings.Contains(w.Body.String(), "pass123") || strings.Contains(w.Body.String(), `"password"`) {
			t.Errorf("login response leaks the password: %s", w.Body.String())
		}
	})

	t.Run("student wrong password", func(t *testing.T) {
		w := api.do(t, http.MethodPost, "/api/login", "", map[string]string{"username": "ravi", "password": "nope", "role": "student"})
		api.expectEnvelope(t, w, http.StatusUnauthorized, false, "Invalid student credentials")
	})
}

func TestAuthRequired(t *testing.T) {
	api := newTestAPI(t)

	protected := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/buses"},
		{http.MethodPost, "/api/buses/add-bus"},
		{http.MethodGet, "/api/students"},
		{http.MethodGet, "/api/students/profile/ravi"},
		{http.MethodGet, "/api/students/ravi"},
	}
	for _, route := range protected {
		t.Run(route.method+" "+route.path, func(t *testing.T) {
			w := api.do(t, route.method, route.path, "", nil)
			api.expectEnvelope(t, w, http.StatusUnauthorized, false, "Authentication required")
		})
	}

	t.Run("garbage token", func(t *testing.T) {
		w := api.do(t, http.MethodGet, "/api/buses", "not-a-jwt", nil)
		api.expectEnvelope(t, w, http.StatusUnauthorized, false, "Authentication required")
	})
}

func TestStudentBlockedFromAdminRoutes(t *testing.T) {
	api := newTestAPI(t)
	student := api.seedStudent(t, "ravi", "pass123", "21CS045")
	token := api.studentToken(t, student)

	adminOnly := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/buses"},
		{http.MethodPost, "/api/buses/add-bus"},
		{http.MethodDelete, "/api/buses/1"},
		{http.MethodGet, "/api/students"},
		{http.MethodPost, "/api/students/add-student"},
		{http.MethodDelete, "/api/students/1"},
	}
	for _, route := range adminOnly {
		t.Run(route.method+" "+route.path, func(t *testing.T) {
			w := api.do(t, route.method, route.path, token, nil)
			api.expectEnvelope(t, w, http.StatusForbidden, false, "Access denied")
		})
	}
}

func TestDashboardAndProfileAccess(t *testing.T) {
	api := newTestAPI(t)
	admin := api.seedAdmin(t, "admin", "admin123", "office@college.edu")
	ravi := api.seedStudent(t, "ravi", "pass123", "21CS045")
	api.seedStudent(t, "priya", "pass456", "21CS046")

	raviToken := api.studentToken(t, ravi)
	adminToken := api.adminToken(t, admin)

	t.Run("own dashboard", func(t *testing.T) {
		w := api.do(t, http.MethodGet, "/api/students/ravi", raviToken, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
		}
	})

	t.Run("own profile", func(t *testing.T) {
		w := api.do(t, http.MethodGet, "/api/students/profile/ravi", raviToken, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
		}
	})

	t.Run("another student's dashboard", func(t *testing.T) {
		w := api.do(t, http.MethodGet, "/api/students/priya", raviToken, nil)
		api.expectEnvelope(t, w, http.StatusForbidden, false, "Access denied")
	})

	t.Run("admin reads any dashboard", func(t *testing.T) {
		w := api.do(t, http.MethodGet, "/api/students/priya", adminToken, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
		}
	})
}

func TestBusEndpoints(t *testing.T) {
	api := newTestAPI(t)
	admin := api.seedAdmin(t, "admin", "admin123", "office@college.edu")
	token := api.adminToken(t, admin)

	busBody := map[string]any{
		"bus_number":   "KA-01-F-1234",
		"driver_name":  "Suresh Kumar",
		"driver_phone": "9876543210",
		"capacity":     40,
		"route":        "Campus - Majestic",
	}

	w := api.do(t, http.MethodPost, "/api/buses/add-bus", token, busBody)
	created := api.expectEnvelope(t, w, http.StatusCreated, true, "Bus added successfully")
	if created.ID <= 0 {
		t.Fatalf("created id = %d, want > 0", created.ID)
	}

	t.Run("duplicate number", func(t *testing.T) {
		w := api.do(t, http.MethodPost, "/api/buses/add-bus", token, busBody)
		api.expectEnvelope(t, w, http.StatusBadRequest, false, "Bus number already exists")
	})

	t.Run("list is a bare array, newest first", func(t *testing.T) {
		second := map[string]any{
			"bus_number":   "KA-01-F-5678",
			"driver_name":  "Ramesh Gowda",
			"driver_phone": "9876500000",
			"capacity":     32,
			"route":        "Campus - Whitefield",
		}
		api.do(t, http.MethodPost, "/api/buses/add-bus", token, second)

		w := api.do(t, http.MethodGet, "/api/buses", token, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		var buses []models.Bus
		decode(t, w, &buses)
		if len(buses) != 2 {
			t.Fatalf("len(buses) = %d, want 2", len(buses))
		}
		if buses[0].BusNumber != "KA-01-F-5678" {
			t.Errorf("first bus = %q, want the newest", buses[0].BusNumber)
		}
	})

	t.Run("update", func(t *testing.T) {
		updated := map[string]any{
			"bus_number":   "KA-01-F-1234",
			"driver_name":  "Suresh Kumar",
			"driver_phone": "9876543211",
			"capacity":     44,
			"route":        "Campus - Majestic",
		}
		w := api.do(t, http.MethodPut, "/api/buses/update/"+strconv.FormatInt(created.ID, 10), token, updated)
		api.expectEnvelope(t, w, http.StatusOK, true, "Bus updated successfully")
	})

	t.Run("get unknown", func(t *testing.T) {
		w := api.do(t, http.MethodGet, "/api/buses/get/999", token, nil)
		api.expectEnvelope(t, w, http.StatusNotFound, false, "Bus not found")
	})

	t.Run("delete", func(t *testing.T) {
		path := "/api/buses/" + strconv.FormatInt(created.ID, 10)
		w := api.do(t, http.MethodDelete, path, token, nil)
		api.expectEnvelope(t, w, http.StatusOK, true, "Bus deleted")

		w = api.do(t, http.MethodDelete, path, token, nil)
		api.expectEnvelope(t, w, http.StatusNotFound, false, "Bus not found")
	})
}

func TestStudentEndpoints(t *testing.T) {
	api := newTestAPI(t)
	admin := api.seedAdmin(t, "admin", "admin123", "office@college.edu")
	token := api.adminToken(t, admin)
	bus := api.seedBus(t, "KA-01-F-1234")

	body := map[string]any{
		"username":   "ravi",
		"password":   "pass123",
		"name":       "Ravi Kumar",
		"roll_no":    "21CS045",
		"department": "CSE",
		"bus_id":     bus.ID,
		"fees_paid":  8000,
	}

	w := api.do(t, http.MethodPost, "/api/students/add-student", token, body)
	created := api.expectEnvelope(t, w, http.StatusCreated, true, "Student added successfully")
	if created.ID <= 0 {
		t.Fatalf("created id = %d, want > 0", created.ID)
	}

	t.Run("unknown bus rejected", func(t *testing.T) {
		bad := map[string]any{
			"username": "priya", "password": "pass456", "name": "Priya",
			"roll_no": "21CS046", "department": "CSE", "bus_id": 999,
		}
		w := api.do(t, http.MethodPost, "/api/students/add-student", token, bad)
		api.expectEnvelope(t, w, http.StatusBadRequest, false, "Selected bus does not exist")
	})

	t.Run("duplicate username", func(t *testing.T) {
		dup := map[string]any{
			"username": "ravi", "password": "other123", "name": "Other",
			"roll_no": "21CS099", "department": "CSE",
		}
		w := api.do(t, http.MethodPost, "/api/students/add-student", token, dup)
		api.expectEnvelope(t, w, http.StatusBadRequest, false, "Username already exists")
	})

	t.Run("list joins bus info and never leaks passwords", func(t *testing.T) {
		w := api.do(t, http.MethodGet, "/api/students", token, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		var students []models.StudentWithBus
		decode(t, w, &students)
		if len(students) != 1 {
			t.Fatalf("len(students) = %d, want 1", len(students))
		}
		if students[0].BusNumber == nil || *students[0].BusNumber != "KA-01-F-1234" {
			t.Errorf("bus_number not joined: %+v", students[0])
		}
		if strings.Contains(w.Body.String(), `"password"`) {
			t.Errorf("list response leaks password hashes: %s", w.Body.String())
		}
	})

	t.Run("update", func(t *testing.T) {
		update := map[string]any{
			"name": "Ravi K", "roll_no": "21CS045", "department": "CSE",
			"fees_paid": 12000, "remaining_fees": 0,
		}
		w := api.do(t, http.MethodPut, "/api/students/update/"+strconv.FormatInt(created.ID, 10), token, update)
		api.expectEnvelope(t, w, http.StatusOK, true, "Student updated successfully")
	})

	t.Run("delete", func(t *testing.T) {
		w := api.do(t, http.MethodDelete, "/api/students/"+strconv.FormatInt(created.ID, 10), token, nil)
		api.expectEnvelope(t, w, http.StatusOK, true, "Student deleted")

		w = api.do(t, http.MethodGet, "/api/students/get/"+strconv.FormatInt(created.ID, 10), token, nil)
		api.expectEnvelope(t, w, http.StatusNotFound, false, "Student not found")
	})
}

func TestStudentSelfServiceReset(t *testing.T) {
	api := newTestAPI(t)
	api.seedStudent(t, "ravi", "oldpass", "21CS045")

	t.Run("unknown details", func(t *testing.T) {
		w := api.do(t, http.MethodPost, "/api/students/reset-password", "", map[string]string{"roll_no": "99XX000", "department": "CSE"})
		api.expectEnvelope(t, w, http.StatusNotFound, false, "No student found with these details")
	})

	var newPassword string
	t.Run("reset returns fresh credentials", func(t *testing.T) {
		w := api.do(t, http.MethodPost, "/api/students/reset-password", "", map[string]string{"roll_no": "21CS045", "department": "CSE"})
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
		}
		var resp struct {
			Success bool   `json:"success"`
			Message string `json:"message"`
			Data    struct {
				Username    string `json:"username"`
				NewPassword string `json:"newPassword"`
			} `json:"data"`
		}
		decode(t, w, &resp)
		if !resp.Success || resp.Message != "Password reset successful" {
			t.Fatalf("unexpected response: %+v", resp)
		}
		if resp.Data.Username != "ravi" || len(resp.Data.NewPassword) != 8 {
			t.Fatalf("unexpected credentials: %+v", resp.Data)
		}
		newPassword = resp.Data.NewPassword
	})

	t.Run("new password works, old does not", func(t *testing.T) {
		w := api.do(t, http.MethodPost, "/api/students/login", "", map[string]string{"username": "ravi", "password": newPassword})
		if w.Code != http.StatusOK {
			t.Fatalf("login with new password: status = %d (body %s)", w.Code, w.Body.String())
		}

		w = api.do(t, http.MethodPost, "/api/students/login", "", map[string]string{"username": "ravi", "password": "oldpass"})
		api.expectEnvelope(t, w, http.StatusUnauthorized, false, "Invalid credentials")
	})
}

func TestAdminResetFlow(t *testing.T) {
	api := newTestAPI(t)
	api.seedAdmin(t, "admin", "admin123", "office@college.edu")

	t.Run("unknown email", func(t *testing.T) {
		w := api.do(t, http.MethodPost, "/api/admin/request-reset", "", map[string]string{"email": "nobody@college.edu"})
		api.expectEnvelope(t, w, http.StatusNotFound, false, "No admin account found with this email")
	})

	w := api.do(t, http.MethodPost, "/api/admin/request-reset", "", map[string]string{"email": "office@college.edu"})
	api.expectEnvelope(t, w, http.StatusOK, true, "Reset code sent to your email")
	if len(api.mailer.SentCode) != 1 {
		t.Fatalf("sent %d reset codes, want 1", len(api.mailer.SentCode))
	}
	code := api.mailer.SentCode[0]

	t.Run("wrong code", func(t *testing.T) {
		w := api.do(t, http.MethodPost, "/api/admin/reset-password", "", map[string]string{
			"email": "office@college.edu", "token": "000000", "newPassword": "brandnew1",
		})
		api.expectEnvelope(t, w, http.StatusBadRequest, false, "Invalid or expired reset code")
	})

	t.Run("correct code resets and rotates", func(t *testing.T) {
		w := api.do(t, http.MethodPost, "/api/admin/reset-password", "", map[string]string{
			"email": "office@college.edu", "token": code, "newPassword": "brandnew1",
		})
		api.expectEnvelope(t, w, http.StatusOK, true, "Password has been reset successfully")

		w = api.do(t, http.MethodPost, "/api/admin/login", "", map[string]string{"username": "admin", "password": "brandnew1"})
		if w.Code != http.StatusOK {
			t.Fatalf("login with reset password: status = %d (body %s)", w.Code, w.Body.String())
		}

		// A consumed code is gone
		w = api.do(t, http.MethodPost, "/api/admin/reset-password", "", map[string]string{
			"email": "office@college.edu", "token": code, "newPassword": "another9",
		})
		api.expectEnvelope(t, w, http.StatusBadRequest, false, "Invalid or expired reset code")
	})
}
