// internal/handlers/admin.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/imob-backoffice/internal/services"
)

type AdminHandler struct {
	adminService *services.AdminService
}

func NewAdminHandler(adminService *services.AdminService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
	}
}

// GET /api/audit-logs
func (h *AdminHandler) GetAuditLogs(c *gin.Context) {
	user, ok := actor(c)
	if !ok {
		return
	}

	q := listQuery(c, "userId", "action", "resourceType", "resourceId", "from", "to")
	result, err := h.adminService.ListAuditLogs(c.Request.Context(), user, q)
	respondList(c, result, err)
}
