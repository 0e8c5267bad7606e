// internal/handlers/lead.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/imob-backoffice/internal/middleware"
	"github.com/javajoker/imob-backoffice/internal/services"
	"github.com/javajoker/imob-backoffice/internal/utils"
)

type LeadHandler struct {
	leadService *services.LeadService
}

func NewLeadHandler(leadService *services.LeadService) *LeadHandler {
	return &LeadHandler{
		leadService: leadService,
	}
}

// GET /api/leads
func (h *LeadHandler) List(c *gin.Context) {
	q := listQuery(c, "status", "source", "branchId", "assignedTo")
	result, err := h.leadService.List(c.Request.Context(), middleware.CurrentScope(c), q)
	respondList(c, result, err)
}

// GET /api/leads/:id
func (h *LeadHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	lead, err := h.leadService.Get(c.Request.Context(), middleware.CurrentScope(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, lead)
}

// POST /api/leads
func (h *LeadHandler) Create(c *gin.Context) {
	var req services.CreateLeadRequest
	if !bindJSON(c, &req) {
		return
	}

	lead, err := h.leadService.Create(c.Request.Context(), middleware.CurrentScope(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.CreatedResponse(c, lead)
}

// PUT /api/leads/:id
func (h *LeadHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req services.UpdateLeadRequest
	if !bindJSON(c, &req) {
		return
	}

	lead, err := h.leadService.Update(c.Request.Context(), middleware.CurrentScope(c), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, lead)
}

// DELETE /api/leads/:id
func (h *LeadHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.leadService.Delete(c.Request.Context(), middleware.CurrentScope(c), id); err != nil {
		respondError(c, err)
		return
	}
	deleted(c)
}
