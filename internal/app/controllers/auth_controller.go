package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rkurane/collegebus/internal/app/models/dto"
	"github.com/rkurane/collegebus/internal/app/services"
	"github.com/rkurane/collegebus/internal/middleware"
	"github.com/rkurane/collegebus/internal/pkg/apperrors"
)

// AuthController handles login and the admin password reset flow
type AuthController struct {
	authService  *services.AuthService
	resetService *services.AdminResetService
}

// NewAuthController creates a new AuthController
func NewAuthController(authService *services.AuthService, resetService *services.AdminResetService) *AuthController {
	return &AuthController{
		authService:  authService,
		resetService: resetService,
	}
}

// Login handles the combined admin/student login
// @Summary Log in as admin or student
// @Description Authenticates by role and returns a session token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Credentials and role"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} dto.ErrorResponse "Missing field or invalid role"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Router /login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewMissingFieldError("Username, password and role are required"))
		return
	}

	resp, err := c.authService.Login(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// AdminLogin handles the admin-only login
// @Summary Log in as admin
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.AdminLoginRequest true "Admin credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Router /admin/login [post]
func (c *AuthController) AdminLogin(ctx *gin.Context) {
	var req dto.AdminLoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewMissingFieldError("Missing username/password"))
		return
	}

	resp, err := c.authService.AdminLogin(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// RequestReset mails a 6-digit reset code to a registered admin
// @Summary Request an admin password reset code
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RequestResetRequest true "Admin email"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} dto.ErrorResponse "No admin with this email"
// @Failure 500 {object} dto.ErrorResponse "Email dispatch failed"
// @Router /admin/request-reset [post]
func (c *AuthController) RequestReset(ctx *gin.Context) {
	var req dto.RequestResetRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewMissingFieldError("Email is required"))
		return
	}

	if err := c.resetService.RequestReset(ctx.Request.Context(), req.Email); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.MessageResponse{Success: true, Message: "Reset code sent to your email"})
}

// ResetPassword redeems a reset code for a new admin password
// @Summary Reset the admin password with an emailed code
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.AdminResetPasswordRequest true "Email, code and new password"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid or expired reset code"
// @Router /admin/reset-password [post]
func (c *AuthController) ResetPassword(ctx *gin.Context) {
	var req dto.AdminResetPasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewMissingFieldError("Email, token, and new password are required"))
		return
	}

	if err := c.resetService.ResetPassword(ctx.Request.Context(), req.Email, req.Token, req.NewPassword); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.MessageResponse{Success: true, Message: "Password has been reset successfully"})
}
