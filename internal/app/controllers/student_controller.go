package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rkurane/collegebus/internal/app/models/dto"
	"github.com/rkurane/collegebus/internal/app/services"
	"github.com/rkurane/collegebus/internal/middleware"
	"github.com/rkurane/collegebus/internal/pkg/apperrors"
	"github.com/rkurane/collegebus/internal/pkg/auth"
)

// StudentController handles student record and self-service endpoints
type StudentController struct {
	studentService *services.StudentService
	authService    *services.AuthService
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService *services.StudentService, authService *services.AuthService) *StudentController {
	return &StudentController{
		studentService: studentService,
		authService:    authService,
	}
}

func studentID(ctx *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("id", "Invalid student id")
	}
	return id, nil
}

// mayAccess reports whether the caller can read the named student's data.
// Admins see everyone; students see only themselves.
func mayAccess(ctx *gin.Context, username string) bool {
	if ctx.GetString(middleware.ContextRole) == auth.RoleAdmin {
		return true
	}
	return ctx.GetString(middleware.ContextUsername) == username
}

// List returns all students with their bus info, ordered by name
// @Summary List students
// @Tags students
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.StudentWithBus
// @Router /students [get]
func (c *StudentController) List(ctx *gin.Context) {
	students, err := c.studentService.List(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, students)
}

// Get returns a single student with bus info
// @Summary Get a student by id
// @Tags students
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.StudentResponse
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/get/{id} [get]
func (c *StudentController) Get(ctx *gin.Context) {
	id, err := studentID(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	student, err := c.studentService.GetByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.StudentResponse{Success: true, Student: student})
}

// Profile returns a student's full profile by username
// @Summary Get a student profile
// @Tags students
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.StudentResponse
// @Failure 403 {object} dto.ErrorResponse "Not your profile"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/profile/{username} [get]
func (c *StudentController) Profile(ctx *gin.Context) {
	username := ctx.Param("username")
	if !mayAccess(ctx, username) {
		middleware.HandleAPIError(ctx, apperrors.ErrPermissionDenied)
		return
	}

	student, err := c.studentService.GetProfile(ctx.Request.Context(), username)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.StudentResponse{Success: true, Student: student})
}

// Dashboard returns the self-service view for a student
// @Summary Get a student's dashboard
// @Tags students
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.DashboardResponse
// @Failure 403 {object} dto.ErrorResponse "Not your dashboard"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{username} [get]
func (c *StudentController) Dashboard(ctx *gin.Context) {
	username := ctx.Param("username")
	if !mayAccess(ctx, username) {
		middleware.HandleAPIError(ctx, apperrors.ErrPermissionDenied)
		return
	}

	dashboard, err := c.studentService.Dashboard(ctx.Request.Context(), username)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.DashboardResponse{Success: true, Student: dashboard})
}

// Create registers a new student
// @Summary Add a student
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateStudentRequest true "Student fields"
// @Success 201 {object} dto.CreatedResponse
// @Failure 400 {object} dto.ErrorResponse "Validation failure, duplicate field or unknown bus"
// @Router /students/add-student [post]
func (c *StudentController) Create(ctx *gin.Context) {
	var req dto.CreateStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewMissingFieldError("Username, password, name and roll number are required"))
		return
	}

	student, err := c.studentService.Create(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.CreatedResponse{Success: true, Message: "Student added successfully", ID: student.ID})
}

// Update overwrites a student's mutable fields
// @Summary Update a student
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateStudentRequest true "Student fields"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse "Validation failure, duplicate roll number or unknown bus"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/update/{id} [put]
func (c *StudentController) Update(ctx *gin.Context) {
	id, err := studentID(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.UpdateStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewMissingFieldError("Name and roll_no are required"))
		return
	}

	if err := c.studentService.Update(ctx.Request.Context(), id, req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.MessageResponse{Success: true, Message: "Student updated successfully"})
}

// Delete removes a student
// @Summary Delete a student
// @Tags students
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id} [delete]
func (c *StudentController) Delete(ctx *gin.Context) {
	id, err := studentID(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.studentService.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.MessageResponse{Success: true, Message: "Student deleted"})
}

// ResetPassword is the student self-service reset
// @Summary Reset a student password by roll number and department
// @Tags students
// @Accept json
// @Produce json
// @Param request body dto.StudentResetRequest true "Roll number and department"
// @Success 200 {object} dto.StudentResetResponse
// @Failure 404 {object} dto.ErrorResponse "No student with these details"
// @Router /students/reset-password [post]
func (c *StudentController) ResetPassword(ctx *gin.Context) {
	var req dto.StudentResetRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewMissingFieldError("Roll number and department are required"))
		return
	}

	creds, err := c.studentService.ResetPassword(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.StudentResetResponse{
		Success: true,
		Message: "Password reset successful",
		Data:    creds,
	})
}

// Login handles the student-only login
// @Summary Log in as student
// @Tags students
// @Accept json
// @Produce json
// @Param request body dto.StudentLoginRequest true "Student credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Router /students/login [post]
func (c *StudentController) Login(ctx *gin.Context) {
	var req dto.StudentLoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewMissingFieldError("Username and password required"))
		return
	}

	resp, err := c.authService.StudentLogin(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}
