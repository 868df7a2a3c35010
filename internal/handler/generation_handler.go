package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arthavgonda/timetable-gateway/internal/dto"
	"github.com/arthavgonda/timetable-gateway/internal/models"
	"github.com/arthavgonda/timetable-gateway/internal/service"
	appErrors "github.com/arthavgonda/timetable-gateway/pkg/errors"
	"github.com/arthavgonda/timetable-gateway/pkg/response"
)

type generationOrchestrator interface {
	Start(ctx context.Context, req dto.GenerateTimetableRequest) (*dto.GenerationTaskResponse, error)
	Status(handle string) (*models.GenerationTask, error)
	Cancel(handle string) error
}

// GenerationHandler exposes asynchronous timetable generation endpoints.
type GenerationHandler struct {
	service generationOrchestrator
}

// NewGenerationHandler constructs the handler.
func NewGenerationHandler(svc *service.GenerationService) *GenerationHandler {
	return &GenerationHandler{service: svc}
}

// Start godoc
// @Summary Submit an asynchronous timetable generation job
// @Tags Generation
// @Accept json
// @Produce json
// @Param payload body dto.GenerateTimetableRequest true "Generation parameters"
// @Success 202 {object} response.Envelope
// @Router /timetable/generate [post]
func (h *GenerationHandler) Start(c *gin.Context) {
	var req dto.GenerateTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid generation payload"))
		return
	}
	task, err := h.service.Start(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, task)
}

// Status godoc
// @Summary Report the current state of a generation task
// @Tags Generation
// @Produce json
// @Param id path string true "Task handle"
// @Success 200 {object} response.Envelope
// @Router /timetable/generate/tasks/{id} [get]
func (h *GenerationHandler) Status(c *gin.Context) {
	task, err := h.service.Status(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, task)
}

// Cancel godoc
// @Summary Abandon a generation task handle
// @Tags Generation
// @Param id path string true "Task handle"
// @Success 204
// @Router /timetable/generate/tasks/{id} [delete]
func (h *GenerationHandler) Cancel(c *gin.Context) {
	if err := h.service.Cancel(c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
