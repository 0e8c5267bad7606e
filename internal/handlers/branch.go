// internal/handlers/branch.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/imob-backoffice/internal/middleware"
	"github.com/javajoker/imob-backoffice/internal/services"
	"github.com/javajoker/imob-backoffice/internal/utils"
)

type BranchHandler struct {
	branchService *services.BranchService
}

func NewBranchHandler(branchService *services.BranchService) *BranchHandler {
	return &BranchHandler{
		branchService: branchService,
	}
}

// GET /api/branches
func (h *BranchHandler) List(c *gin.Context) {
	q := listQuery(c, "active")
	result, err := h.branchService.List(c.Request.Context(), middleware.CurrentScope(c), q)
	respondList(c, result, err)
}

// GET /api/branches/:id
func (h *BranchHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	branch, err := h.branchService.Get(c.Request.Context(), middleware.CurrentScope(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, branch)
}

// POST /api/branches
func (h *BranchHandler) Create(c *gin.Context) {
	var req services.CreateBranchRequest
	if !bindJSON(c, &req) {
		return
	}

	branch, err := h.branchService.Create(c.Request.Context(), middleware.CurrentScope(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.CreatedResponse(c, branch)
}

// PUT /api/branches/:id
func (h *BranchHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req services.UpdateBranchRequest
	if !bindJSON(c, &req) {
		return
	}

	branch, err := h.branchService.Update(c.Request.Context(), middleware.CurrentScope(c), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, branch)
}

// DELETE /api/branches/:id
func (h *BranchHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.branchService.Delete(c.Request.Context(), middleware.CurrentScope(c), id); err != nil {
		respondError(c, err)
		return
	}
	deleted(c)
}
