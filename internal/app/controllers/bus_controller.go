package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rkurane/collegebus/internal/app/models/dto"
	"github.com/rkurane/collegebus/internal/app/services"
	"github.com/rkurane/collegebus/internal/middleware"
	"github.com/rkurane/collegebus/internal/pkg/apperrors"
)

// BusController handles bus fleet endpoints
type BusController struct {
	busService *services.BusService
}

// NewBusController creates a new BusController
func NewBusController(busService *services.BusService) *BusController {
	return &BusController{
		busService: busService,
	}
}

func busID(ctx *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("id", "Invalid bus id")
	}
	return id, nil
}

// List returns all buses, newest first
// @Summary List buses
// @Tags buses
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Bus
// @Router /buses [get]
func (c *BusController) List(ctx *gin.Context) {
	buses, err := c.busService.List(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, buses)
}

// Get returns a single bus
// @Summary Get a bus by id
// @Tags buses
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.BusResponse
// @Failure 404 {object} dto.ErrorResponse "Bus not found"
// @Router /buses/get/{id} [get]
func (c *BusController) Get(ctx *gin.Context) {
	id, err := busID(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	bus, err := c.busService.GetByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.BusResponse{Success: true, Bus: bus})
}

// Create registers a new bus
// @Summary Add a bus
// @Tags buses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.BusRequest true "Bus fields"
// @Success 201 {object} dto.CreatedResponse
// @Failure 400 {object} dto.ErrorResponse "Validation failure or duplicate bus number"
// @Router /buses/add-bus [post]
func (c *BusController) Create(ctx *gin.Context) {
	var req dto.BusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewMissingFieldError("Bus number is required"))
		return
	}

	bus, err := c.busService.Create(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.CreatedResponse{Success: true, Message: "Bus added successfully", ID: bus.ID})
}

// Update overwrites a bus
// @Summary Update a bus
// @Tags buses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.BusRequest true "Bus fields"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse "Validation failure or duplicate bus number"
// @Failure 404 {object} dto.ErrorResponse "Bus not found"
// @Router /buses/update/{id} [put]
func (c *BusController) Update(ctx *gin.Context) {
	id, err := busID(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.BusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewMissingFieldError("Bus number is required"))
		return
	}

	if err := c.busService.Update(ctx.Request.Context(), id, req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.MessageResponse{Success: true, Message: "Bus updated successfully"})
}

// Delete removes a bus and detaches its students
// @Summary Delete a bus
// @Tags buses
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} dto.ErrorResponse "Bus not found"
// @Router /buses/{id} [delete]
func (c *BusController) Delete(ctx *gin.Context) {
	id, err := busID(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.busService.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.MessageResponse{Success: true, Message: "Bus deleted"})
}
