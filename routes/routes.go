package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/grocerly/pos-backend/controllers"
	"github.com/grocerly/pos-backend/logger"
	"github.com/grocerly/pos-backend/middleware"
	"github.com/grocerly/pos-backend/models"
	"github.com/grocerly/pos-backend/services"
)

// Deps carries everything the router needs.
type Deps struct {
	Auth         *controllers.AuthController
	Users        *controllers.UserController
	Products     *controllers.ProductController
	Categories   *controllers.CategoryController
	Transactions *controllers.TransactionController
	Analytics    *controllers.AnalyticsController
	System       *controllers.SystemController
	WS           *controllers.WSController

	AuthService   *services.AuthService
	SystemService *services.SystemService
	JWTSecret     []byte
}

// Register wires every endpoint onto the engine. Role gates follow the store
// hierarchy: cashiers sell, managers supervise, superadmins administer.
func Register(r *gin.Engine, d Deps) {
	r.Use(logger.RequestLogger())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ws", d.WS.Connect)

	api := r.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", d.Auth.Register)
	auth.POST("/login", d.Auth.Login)
	auth.POST("/logout", d.Auth.Logout)

	authed := api.Group("")
	authed.Use(middleware.RequireAuth(d.AuthService, d.JWTSecret))
	authed.Use(middleware.MaintenanceGate(d.SystemService))

	authed.GET("/auth/me", d.Auth.Me)

	// Staff management is manager territory; destructive actions need a
	// superadmin.
	users := authed.Group("/users", middleware.RequireRole(models.RoleManager, models.RoleSuperadmin))
	users.GET("", d.Users.List)
	users.GET("/pending", d.Users.Pending)
	users.GET("/:id", d.Users.Get)
	users.PATCH("/:id/approve", d.Users.Approve)
	users.PATCH("/:id/reject", d.Users.Reject)
	users.DELETE("/:id", middleware.RequireRole(models.RoleSuperadmin), d.Users.Delete)

	products := authed.Group("/products")
	products.GET("", d.Products.List)
	products.GET("/low-stock", middleware.RequireRole(models.RoleManager, models.RoleSuperadmin), d.Products.LowStock)
	products.GET("/:id", d.Products.Get)
	products.POST("", middleware.RequireRole(models.RoleManager, models.RoleSuperadmin), d.Products.Create)
	products.PUT("/:id", middleware.RequireRole(models.RoleManager, models.RoleSuperadmin), d.Products.Update)
	products.DELETE("/:id", middleware.RequireRole(models.RoleManager, models.RoleSuperadmin), d.Products.Delete)

	categories := authed.Group("/categories")
	categories.GET("", d.Categories.List)
	categories.POST("", middleware.RequireRole(models.RoleManager, models.RoleSuperadmin), d.Categories.Create)
	categories.PUT("/:id", middleware.RequireRole(models.RoleManager, models.RoleSuperadmin), d.Categories.Update)
	categories.DELETE("/:id", middleware.RequireRole(models.RoleManager, models.RoleSuperadmin), d.Categories.Delete)

	txs := authed.Group("/transactions")
	txs.POST("", d.Transactions.Checkout)
	txs.GET("", d.Transactions.List)
	txs.GET("/:id", d.Transactions.Get)
	txs.POST("/:id/refund", middleware.RequireRole(models.RoleManager, models.RoleSuperadmin), d.Transactions.Refund)

	analytics := authed.Group("/analytics", middleware.RequireRole(models.RoleManager, models.RoleSuperadmin))
	analytics.GET("/summary", d.Analytics.Summary)

	system := authed.Group("/system", middleware.RequireRole(models.RoleSuperadmin))
	system.GET("/maintenance", d.System.GetMaintenance)
	system.PUT("/maintenance", d.System.SetMaintenance)
}
