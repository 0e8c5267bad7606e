// internal/handlers/schedule.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/imob-backoffice/internal/middleware"
	"github.com/javajoker/imob-backoffice/internal/services"
	"github.com/javajoker/imob-backoffice/internal/utils"
)

type ScheduleHandler struct {
	scheduleService *services.ScheduleService
}

func NewScheduleHandler(scheduleService *services.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{
		scheduleService: scheduleService,
	}
}

// GET /api/schedules
func (h *ScheduleHandler) List(c *gin.Context) {
	q := listQuery(c, "status", "type", "employeeId", "from", "to")
	result, err := h.scheduleService.List(c.Request.Context(), middleware.CurrentScope(c), q)
	respondList(c, result, err)
}

// GET /api/schedules/:id
func (h *ScheduleHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	schedule, err := h.scheduleService.Get(c.Request.Context(), middleware.CurrentScope(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, schedule)
}

// POST /api/schedules
func (h *ScheduleHandler) Create(c *gin.Context) {
	var req services.CreateScheduleRequest
	if !bindJSON(c, &req) {
		return
	}

	schedule, err := h.scheduleService.Create(c.Request.Context(), middleware.CurrentScope(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.CreatedResponse(c, schedule)
}

// PUT /api/schedules/:id
func (h *ScheduleHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req services.UpdateScheduleRequest
	if !bindJSON(c, &req) {
		return
	}

	schedule, err := h.scheduleService.Update(c.Request.Context(), middleware.CurrentScope(c), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, schedule)
}

// DELETE /api/schedules/:id
func (h *ScheduleHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.scheduleService.Delete(c.Request.Context(), middleware.CurrentScope(c), id); err != nil {
		respondError(c, err)
		return
	}
	deleted(c)
}
