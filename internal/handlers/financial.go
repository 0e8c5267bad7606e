// internal/handlers/financial.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/imob-backoffice/internal/middleware"
	"github.com/javajoker/imob-backoffice/internal/services"
	"github.com/javajoker/imob-backoffice/internal/utils"
)

type FinancialHandler struct {
	financialService *services.FinancialService
}

func NewFinancialHandler(financialService *services.FinancialService) *FinancialHandler {
	return &FinancialHandler{
		financialService: financialService,
	}
}

// GET /api/financial
func (h *FinancialHandler) List(c *gin.Context) {
	q := listQuery(c, "type", "status", "category", "branchId", "startDate", "endDate")
	result, err := h.financialService.List(c.Request.Context(), middleware.CurrentScope(c), q)
	respondList(c, result, err)
}

// GET /api/financial/:id
func (h *FinancialHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	record, err := h.financialService.Get(c.Request.Context(), middleware.CurrentScope(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, record)
}

// POST /api/financial
func (h *FinancialHandler) Create(c *gin.Context) {
	var req services.CreateFinancialRequest
	if !bindJSON(c, &req) {
		return
	}

	record, err := h.financialService.Create(c.Request.Context(), middleware.CurrentScope(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.CreatedResponse(c, record)
}

// PUT /api/financial/:id
func (h *FinancialHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req services.UpdateFinancialRequest
	if !bindJSON(c, &req) {
		return
	}

	record, err := h.financialService.Update(c.Request.Context(), middleware.CurrentScope(c), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, record)
}

// DELETE /api/financial/:id
func (h *FinancialHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.financialService.Delete(c.Request.Context(), middleware.CurrentScope(c), id); err != nil {
		respondError(c, err)
		return
	}
	deleted(c)
}
