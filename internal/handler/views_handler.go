package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arthavgonda/timetable-gateway/internal/dto"
	"github.com/arthavgonda/timetable-gateway/internal/service"
	appErrors "github.com/arthavgonda/timetable-gateway/pkg/errors"
	"github.com/arthavgonda/timetable-gateway/pkg/response"
)

type viewsProvider interface {
	Timetable(ctx context.Context, date string) (*dto.TimetableResponse, bool, error)
	TeacherWorkload(ctx context.Context, date string) (*dto.TeacherWorkloadResponse, error)
	RoomUtilization(ctx context.Context, date string) (*dto.RoomUtilizationResponse, error)
	RoomConflicts(ctx context.Context, date string) (*dto.RoomConflictsResponse, error)
}

// ViewsHandler exposes the raw timetable and its derived analytical views.
type ViewsHandler struct {
	service viewsProvider
}

// NewViewsHandler constructs the handler.
func NewViewsHandler(svc *service.ViewsService) *ViewsHandler {
	return &ViewsHandler{service: svc}
}

// Timetable godoc
// @Summary Fetch the timetable anchored at a date, with grid helpers
// @Tags Views
// @Produce json
// @Param date path string true "Anchor date (DD-MM-YYYY or YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /timetable/{date} [get]
func (h *ViewsHandler) Timetable(c *gin.Context) {
	payload, hit, err := h.service.Timetable(c.Request.Context(), c.Param("date"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, payload, map[string]interface{}{"cache_hit": hit})
}

// TeacherWorkload godoc
// @Summary Derive per-teacher load from the timetable
// @Tags Views
// @Produce json
// @Param date query string true "Anchor date"
// @Success 200 {object} response.Envelope
// @Router /views/teacher-workload [get]
func (h *ViewsHandler) TeacherWorkload(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "date is required"))
		return
	}
	payload, err := h.service.TeacherWorkload(c.Request.Context(), date)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, payload)
}

// RoomUtilization godoc
// @Summary Derive per-room occupancy from the timetable
// @Tags Views
// @Produce json
// @Param date query string true "Anchor date"
// @Success 200 {object} response.Envelope
// @Router /views/room-utilization [get]
func (h *ViewsHandler) RoomUtilization(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "date is required"))
		return
	}
	payload, err := h.service.RoomUtilization(c.Request.Context(), date)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, payload)
}

// RoomConflicts godoc
// @Summary Report rooms assigned to multiple sections at the same slot
// @Tags Views
// @Produce json
// @Param date query string true "Anchor date"
// @Success 200 {object} response.Envelope
// @Router /views/room-conflicts [get]
func (h *ViewsHandler) RoomConflicts(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "date is required"))
		return
	}
	payload, err := h.service.RoomConflicts(c.Request.Context(), date)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, payload)
}
