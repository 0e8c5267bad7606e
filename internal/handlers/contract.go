// internal/handlers/contract.go
package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/imob-backoffice/internal/middleware"
	"github.com/javajoker/imob-backoffice/internal/services"
	"github.com/javajoker/imob-backoffice/internal/utils"
)

type ContractHandler struct {
	contractService *services.ContractService
}

func NewContractHandler(contractService *services.ContractService) *ContractHandler {
	return &ContractHandler{
		contractService: contractService,
	}
}

// GET /api/contracts
func (h *ContractHandler) List(c *gin.Context) {
	q := listQuery(c, "status", "type", "branchId", "employeeId")
	result, err := h.contractService.List(c.Request.Context(), middleware.CurrentScope(c), q)
	respondList(c, result, err)
}

// GET /api/contracts/:id
func (h *ContractHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	contract, err := h.contractService.Get(c.Request.Context(), middleware.CurrentScope(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, contract)
}

// POST /api/contracts
func (h *ContractHandler) Create(c *gin.Context) {
	var req services.CreateContractRequest
	if !bindJSON(c, &req) {
		return
	}

	contract, err := h.contractService.Create(c.Request.Context(), middleware.CurrentScope(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.CreatedResponse(c, contract)
}

// PUT /api/contracts/:id
func (h *ContractHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req services.UpdateContractRequest
	if !bindJSON(c, &req) {
		return
	}

	contract, err := h.contractService.Update(c.Request.Context(), middleware.CurrentScope(c), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, contract)
}

// DELETE /api/contracts/:id
func (h *ContractHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.contractService.Delete(c.Request.Context(), middleware.CurrentScope(c), id); err != nil {
		respondError(c, err)
		return
	}
	deleted(c)
}

// POST /api/contracts/:id/document
func (h *ContractHandler) UploadDocument(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	upload, closeFile, ok := formUpload(c)
	if !ok {
		return
	}
	defer closeFile()

	contract, err := h.contractService.UploadDocument(c.Request.Context(), middleware.CurrentScope(c), id, upload)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, contract)
}

// GET /api/contracts/:id/document
func (h *ContractHandler) GetDocument(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	url, err := h.contractService.DocumentURL(c.Request.Context(), middleware.CurrentScope(c), id, 15*time.Minute)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"url": url})
}
