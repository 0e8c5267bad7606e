// internal/router/router.go
package router

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/javajoker/imob-backoffice/internal/config"
	"github.com/javajoker/imob-backoffice/internal/handlers"
	"github.com/javajoker/imob-backoffice/internal/middleware"
	"github.com/javajoker/imob-backoffice/internal/models"
	"github.com/javajoker/imob-backoffice/internal/services"
	"github.com/javajoker/imob-backoffice/internal/utils"
)

// Initialize wires services, handlers and routes. rdb may be nil, in which
// case rate limiting stays in process.
func Initialize(db *gorm.DB, cfg *config.Config, rdb *redis.Client) (*gin.Engine, error) {
	// Initialize services
	storageService, err := services.NewStorageService(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	authService := services.NewAuthService(db, cfg)
	authorizationService := services.NewAuthorizationService(authService)
	adminService := services.NewAdminService(db)
	branchService := services.NewBranchService(db)
	employeeService := services.NewEmployeeService(db, storageService)
	leadService := services.NewLeadService(db)
	contractService := services.NewContractService(db, storageService)
	financialService := services.NewFinancialService(db)
	scheduleService := services.NewScheduleService(db)
	userService := services.NewUserService(db)
	dashboardService := services.NewDashboardService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, cfg.JWT.CookieName, cfg.SecureCookies())
	branchHandler := handlers.NewBranchHandler(branchService)
	employeeHandler := handlers.NewEmployeeHandler(employeeService)
	leadHandler := handlers.NewLeadHandler(leadService)
	contractHandler := handlers.NewContractHandler(contractService)
	financialHandler := handlers.NewFinancialHandler(financialService)
	scheduleHandler := handlers.NewScheduleHandler(scheduleService)
	userHandler := handlers.NewUserHandler(userService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	adminHandler := handlers.NewAdminHandler(adminService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	auth := middleware.NewAuthenticator(authorizationService, cfg.JWT.CookieName)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	r.Use(middleware.I18nMiddleware())
	if cfg.RateLimit.Enabled {
		r.Use(middleware.RateLimit(middleware.NewLimiter(cfg.RateLimit, rdb)))
	}
	r.Use(middleware.AuditLogMiddleware(adminService))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	if storageService.IsLocal() {
		r.Static("/uploads", cfg.Storage.LocalPath)
	}

	api := r.Group("/api")
	{
		// Authentication routes
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/logout", authHandler.Logout)
			authGroup.GET("/verify", auth.RequireAuth(), authHandler.Verify)
			authGroup.GET("/me", auth.RequireAuth(), authHandler.Verify)
		}

		branches := api.Group("/branches")
		{
			branches.GET("", auth.RequirePermission(models.ResourceBranches, models.ActionRead), branchHandler.List)
			branches.GET("/:id", auth.RequirePermission(models.ResourceBranches, models.ActionRead), branchHandler.Get)
			branches.POST("", auth.RequirePermission(models.ResourceBranches, models.ActionCreate), branchHandler.Create)
			branches.PUT("/:id", auth.RequirePermission(models.ResourceBranches, models.ActionUpdate), branchHandler.Update)
			branches.DELETE("/:id", auth.RequirePermission(models.ResourceBranches, models.ActionDelete), branchHandler.Delete)
		}

		employees := api.Group("/employees")
		{
			employees.GET("", auth.RequirePermission(models.ResourceEmployees, models.ActionRead), employeeHandler.List)
			employees.GET("/:id", auth.RequirePermission(models.ResourceEmployees, models.ActionRead), employeeHandler.Get)
			employees.POST("", auth.RequirePermission(models.ResourceEmployees, models.ActionCreate), employeeHandler.Create)
			employees.PUT("/:id", auth.RequirePermission(models.ResourceEmployees, models.ActionUpdate), employeeHandler.Update)
			employees.DELETE("/:id", auth.RequirePermission(models.ResourceEmployees, models.ActionDelete), employeeHandler.Delete)
			employees.POST("/:id/photo", auth.RequirePermission(models.ResourceEmployees, models.ActionUpdate), employeeHandler.UploadPhoto)
		}

		leads := api.Group("/leads")
		{
			leads.GET("", auth.RequirePermission(models.ResourceLeads, models.ActionRead), leadHandler.List)
			leads.GET("/:id", auth.RequirePermission(models.ResourceLeads, models.ActionRead), leadHandler.Get)
			leads.POST("", auth.RequirePermission(models.ResourceLeads, models.ActionCreate), leadHandler.Create)
			leads.PUT("/:id", auth.RequirePermission(models.ResourceLeads, models.ActionUpdate), leadHandler.Update)
			leads.DELETE("/:id", auth.RequirePermission(models.ResourceLeads, models.ActionDelete), leadHandler.Delete)
		}

		contracts := api.Group("/contracts")
		{
			contracts.GET("", auth.RequirePermission(models.ResourceContracts, models.ActionRead), contractHandler.List)
			contracts.GET("/:id", auth.RequirePermission(models.ResourceContracts, models.ActionRead), contractHandler.Get)
			contracts.POST("", auth.RequirePermission(models.ResourceContracts, models.ActionCreate), contractHandler.Create)
			contracts.PUT("/:id", auth.RequirePermission(models.ResourceContracts, models.ActionUpdate), contractHandler.Update)
			contracts.DELETE("/:id", auth.RequirePermission(models.ResourceContracts, models.ActionDelete), contractHandler.Delete)
			contracts.GET("/:id/document", auth.RequirePermission(models.ResourceContracts, models.ActionRead), contractHandler.GetDocument)
			contracts.POST("/:id/document", auth.RequirePermission(models.ResourceContracts, models.ActionUpdate), contractHandler.UploadDocument)
		}

		// Static segments are registered before /:id
		financial := api.Group("/financial")
		{
			financial.GET("/dashboard", auth.RequirePermission(models.ResourceFinancial, models.ActionRead), dashboardHandler.GetFinancialDashboard)
			financial.GET("/summary", auth.RequirePermission(models.ResourceFinancial, models.ActionRead), dashboardHandler.GetBranchSummary)
			financial.GET("", auth.RequirePermission(models.ResourceFinancial, models.ActionRead), financialHandler.List)
			financial.GET("/:id", auth.RequirePermission(models.ResourceFinancial, models.ActionRead), financialHandler.Get)
			financial.POST("", auth.RequirePermission(models.ResourceFinancial, models.ActionCreate), financialHandler.Create)
			financial.PUT("/:id", auth.RequirePermission(models.ResourceFinancial, models.ActionUpdate), financialHandler.Update)
			financial.DELETE("/:id", auth.RequirePermission(models.ResourceFinancial, models.ActionDelete), financialHandler.Delete)
		}

		schedules := api.Group("/schedules")
		{
			schedules.GET("", auth.RequirePermission(models.ResourceSchedules, models.ActionRead), scheduleHandler.List)
			schedules.GET("/:id", auth.RequirePermission(models.ResourceSchedules, models.ActionRead), scheduleHandler.Get)
			schedules.POST("", auth.RequirePermission(models.ResourceSchedules, models.ActionCreate), scheduleHandler.Create)
			schedules.PUT("/:id", auth.RequirePermission(models.ResourceSchedules, models.ActionUpdate), scheduleHandler.Update)
			schedules.DELETE("/:id", auth.RequirePermission(models.ResourceSchedules, models.ActionDelete), scheduleHandler.Delete)
		}

		users := api.Group("/users")
		{
			users.GET("", auth.RequirePermission(models.ResourceUsers, models.ActionRead), userHandler.List)
			users.GET("/:id", auth.RequirePermission(models.ResourceUsers, models.ActionRead), userHandler.Get)
			users.POST("", auth.RequirePermission(models.ResourceUsers, models.ActionCreate), userHandler.Create)
			users.PUT("/:id", auth.RequirePermission(models.ResourceUsers, models.ActionUpdate), userHandler.Update)
			users.DELETE("/:id", auth.RequirePermission(models.ResourceUsers, models.ActionDelete), userHandler.Delete)
		}

		api.GET("/dashboard/stats", auth.RequirePermission(models.ResourceDashboard, models.ActionRead), dashboardHandler.GetStats)

		// Admin routes
		api.GET("/audit-logs", auth.RequireAuth(), middleware.AdminRequired(), adminHandler.GetAuditLogs)
	}

	return r, nil
}
