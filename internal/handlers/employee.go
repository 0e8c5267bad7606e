// internal/handlers/employee.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/imob-backoffice/internal/middleware"
	"github.com/javajoker/imob-backoffice/internal/services"
	"github.com/javajoker/imob-backoffice/internal/utils"
)

type EmployeeHandler struct {
	employeeService *services.EmployeeService
}

func NewEmployeeHandler(employeeService *services.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{
		employeeService: employeeService,
	}
}

// GET /api/employees
func (h *EmployeeHandler) List(c *gin.Context) {
	q := listQuery(c, "branchId", "position", "active")
	result, err := h.employeeService.List(c.Request.Context(), middleware.CurrentScope(c), q)
	respondList(c, result, err)
}

// GET /api/employees/:id
func (h *EmployeeHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	employee, err := h.employeeService.Get(c.Request.Context(), middleware.CurrentScope(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, employee)
}

// POST /api/employees
func (h *EmployeeHandler) Create(c *gin.Context) {
	var req services.CreateEmployeeRequest
	if !bindJSON(c, &req) {
		return
	}

	employee, err := h.employeeService.Create(c.Request.Context(), middleware.CurrentScope(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.CreatedResponse(c, employee)
}

// PUT /api/employees/:id
func (h *EmployeeHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req services.UpdateEmployeeRequest
	if !bindJSON(c, &req) {
		return
	}

	employee, err := h.employeeService.Update(c.Request.Context(), middleware.CurrentScope(c), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, employee)
}

// DELETE /api/employees/:id
func (h *EmployeeHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.employeeService.Delete(c.Request.Context(), middleware.CurrentScope(c), id); err != nil {
		respondError(c, err)
		return
	}
	deleted(c)
}

// POST /api/employees/:id/photo
func (h *EmployeeHandler) UploadPhoto(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	upload, closeFile, ok := formUpload(c)
	if !ok {
		return
	}
	defer closeFile()

	employee, err := h.employeeService.UploadPhoto(c.Request.Context(), middleware.CurrentScope(c), id, upload)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, employee)
}
