package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"startuphub/api/middleware"
	"startuphub/config"
	"startuphub/controllers"
	"startuphub/metrics"
	"startuphub/models"
	"startuphub/services"
)

var (
	admin        = middleware.RequireRole(models.RoleAdmin)
	reviewers    = middleware.RequireRole(models.RoleAdmin, models.RoleReviewer)
	founders     = middleware.RequireRole(models.RoleAdmin, models.RoleEntrepreneur)
	sponsors     = middleware.RequireRole(models.RoleAdmin, models.RoleSponsor)
	sponsor      = middleware.RequireRole(models.RoleSponsor)
	entrepreneur = middleware.RequireRole(models.RoleEntrepreneur)
	applicants   = middleware.RequireRole(models.RoleAdmin, models.RoleEntrepreneur, models.RoleReviewer)
)

func NewRouter(cfg *config.Config, tokens *services.TokenIssuer, users *services.UserCache) *gin.Engine {
	router := gin.New()
	router.Use(middleware.ZLogMiddleware(), gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/healthz", controllers.Health)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Auth
	limiter := middleware.NewRateLimiter(cfg.LoginRate, cfg.LoginBurst)
	router.POST("/auth/register", controllers.Register)
	router.POST("/auth/login", limiter.Handler(), controllers.Login(tokens))
	router.POST("/auth/logout", controllers.Logout)

	auth := router.Group("", middleware.Auth(tokens, users))
	auth.GET("/auth/me", controllers.Me)

	// Users
	auth.GET("/users", admin, controllers.UserList)
	auth.GET("/users/:id", admin, controllers.UserGet)
	auth.PATCH("/users/:id/role", admin, controllers.UserUpdateRole(users))
	auth.DELETE("/users/:id", admin, controllers.UserDelete(users))

	// Startup calls
	auth.POST("/startup-calls", admin, controllers.StartupCallCreate)
	auth.GET("/startup-calls", controllers.StartupCallList)
	auth.GET("/startup-calls/:id", controllers.StartupCallGet)
	auth.PUT("/startup-calls/:id", admin, controllers.StartupCallUpdate)
	auth.PATCH("/startup-calls/:id/status", admin, controllers.StartupCallUpdateStatus)
	auth.DELETE("/startup-calls/:id", admin, controllers.StartupCallDelete)

	// Applications
	auth.POST("/startup-calls/:id/applications", entrepreneur, controllers.ApplicationCreate)
	auth.GET("/applications", applicants, controllers.ApplicationList)
	auth.GET("/applications/:id", applicants, controllers.ApplicationGet)
	auth.PATCH("/applications/:id/status", admin, controllers.ApplicationUpdateStatus)
	auth.POST("/applications/:id/withdraw", entrepreneur, controllers.ApplicationWithdraw)

	// Reviews
	auth.POST("/applications/:id/reviews", reviewers, controllers.ReviewCreate)
	auth.GET("/applications/:id/reviews", reviewers, controllers.ReviewList)
	auth.PUT("/reviews/:id", reviewers, controllers.ReviewUpdate)

	// Startups
	auth.POST("/startups", founders, controllers.StartupCreate)
	auth.GET("/startups", controllers.StartupList)
	auth.GET("/startups/:id", controllers.StartupGet)
	auth.PUT("/startups/:id", founders, controllers.StartupUpdate)
	auth.DELETE("/startups/:id", founders, controllers.StartupDelete)

	// Milestones
	auth.POST("/startups/:id/milestones", founders, controllers.MilestoneCreate)
	auth.GET("/startups/:id/milestones", controllers.MilestoneList)
	auth.PUT("/milestones/:id", founders, controllers.MilestoneUpdate)
	auth.DELETE("/milestones/:id", founders, controllers.MilestoneDelete)

	// Tasks
	auth.POST("/startups/:id/tasks", founders, controllers.TaskCreate)
	auth.GET("/startups/:id/tasks", controllers.TaskList)
	auth.PUT("/tasks/:id", founders, controllers.TaskUpdate)
	auth.PATCH("/tasks/:id/status", founders, controllers.TaskUpdateStatus)
	auth.DELETE("/tasks/:id", founders, controllers.TaskDelete)

	// Budgets
	auth.POST("/startup-calls/:id/budgets", admin, controllers.BudgetCreate)
	auth.GET("/startup-calls/:id/budgets", admin, controllers.BudgetList)
	auth.GET("/budgets/:id", admin, controllers.BudgetGet)
	auth.PUT("/budgets/:id", admin, controllers.BudgetUpdate)
	auth.DELETE("/budgets/:id", admin, controllers.BudgetDelete)
	auth.GET("/budgets/:id/summary", admin, controllers.BudgetSummary)
	auth.GET("/budgets/:id/export", admin, controllers.BudgetExport)
	auth.POST("/budgets/:id/categories", admin, controllers.CategoryCreate)
	auth.PUT("/categories/:id", admin, controllers.CategoryUpdate)
	auth.DELETE("/categories/:id", admin, controllers.CategoryDelete)

	// Expenses
	auth.POST("/budgets/:id/expenses", admin, controllers.ExpenseCreate)
	auth.GET("/budgets/:id/expenses", admin, controllers.ExpenseList)
	auth.PUT("/expenses/:id", admin, controllers.ExpenseUpdate)
	auth.PATCH("/expenses/:id/status", admin, controllers.ExpenseUpdateStatus)
	auth.DELETE("/expenses/:id", admin, controllers.ExpenseDelete)

	// Sponsorship
	auth.POST("/sponsorship-opportunities", admin, controllers.OpportunityCreate)
	auth.GET("/sponsorship-opportunities", controllers.OpportunityList)
	auth.GET("/sponsorship-opportunities/:id", controllers.OpportunityGet)
	auth.PUT("/sponsorship-opportunities/:id", admin, controllers.OpportunityUpdate)
	auth.DELETE("/sponsorship-opportunities/:id", admin, controllers.OpportunityDelete)
	auth.POST("/sponsorship-opportunities/:id/applications", sponsor, controllers.SponsorshipApply)
	auth.GET("/sponsorship-applications", sponsors, controllers.SponsorshipList)
	auth.PATCH("/sponsorship-applications/:id/status", sponsors, controllers.SponsorshipUpdateStatus)

	// Events
	auth.POST("/events", admin, controllers.EventCreate)
	auth.GET("/events", controllers.EventList)
	auth.GET("/events/:id", controllers.EventGet)
	auth.PUT("/events/:id", admin, controllers.EventUpdate)
	auth.DELETE("/events/:id", admin, controllers.EventDelete)

	// Notifications
	auth.GET("/notifications", controllers.NotificationList)
	auth.POST("/notifications/:id/read", controllers.NotificationRead)

	return router
}
