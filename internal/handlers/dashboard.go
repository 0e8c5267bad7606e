// internal/handlers/dashboard.go
package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/imob-backoffice/internal/i18n"
	"github.com/javajoker/imob-backoffice/internal/middleware"
	"github.com/javajoker/imob-backoffice/internal/services"
	"github.com/javajoker/imob-backoffice/internal/utils"
)

type DashboardHandler struct {
	dashboardService *services.DashboardService
	now              func() time.Time
}

func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		now:              time.Now,
	}
}

// referenceDate reads ?date=YYYY-MM-DD, defaulting to today. Months are
// computed in UTC.
func (h *DashboardHandler) referenceDate(c *gin.Context) (time.Time, bool) {
	raw := c.Query("date")
	if raw == "" {
		return h.now().UTC(), true
	}
	ref, err := time.Parse("2006-01-02", raw)
	if err != nil {
		lang := utils.GetLangFromContext(c)
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "date"), nil)
		return time.Time{}, false
	}
	return ref, true
}

// GET /api/dashboard/stats
func (h *DashboardHandler) GetStats(c *gin.Context) {
	ref, ok := h.referenceDate(c)
	if !ok {
		return
	}

	stats, err := h.dashboardService.GetStats(c.Request.Context(), middleware.CurrentScope(c), ref)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, stats)
}

// GET /api/financial/dashboard
func (h *DashboardHandler) GetFinancialDashboard(c *gin.Context) {
	ref, ok := h.referenceDate(c)
	if !ok {
		return
	}

	dashboard, err := h.dashboardService.GetFinancialDashboard(c.Request.Context(), middleware.CurrentScope(c), ref)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, dashboard)
}

// GET /api/financial/summary
func (h *DashboardHandler) GetBranchSummary(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	today := h.now().UTC()

	year := today.Year()
	if raw := c.Query("year"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "year"), nil)
			return
		}
		year = v
	}

	month := today.Month()
	if raw := c.Query("month"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "month"), nil)
			return
		}
		month = time.Month(v)
	}

	summary, err := h.dashboardService.GetBranchSummary(c.Request.Context(), middleware.CurrentScope(c), year, month)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, summary)
}
