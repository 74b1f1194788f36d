package router

import (
	"net/http"

	"invoice-generator/internal/config"
	"invoice-generator/internal/handler"
	"invoice-generator/internal/middleware"
	"invoice-generator/internal/service"
	"invoice-generator/internal/web"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter wires services, handlers and middleware into a gin engine.
func SetupRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(middleware.AccessLog(), gin.Recovery(), middleware.CORS())
	r.SetHTMLTemplate(web.Templates())

	// services
	users := service.NewUserService(db, cfg.Security.BcryptCost)
	customers := service.NewCustomerService(db)
	products := service.NewProductService(db)
	invoices := service.NewInvoiceService(db)
	profile := service.NewBusinessProfileService(db)
	backups := service.NewBackupService(db, cfg.Backup.Dir, cfg.Security.EncryptionKey)
	audit := service.NewAuditService(db)

	pageSize := cfg.App.PageSize
	jwtSecret := cfg.JWT.Secret

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Invoice Generator API is running!")
	})

	// ====== public ======
	authHandler := handler.NewAuthHandler(users, jwtSecret, cfg.JWT.Issuer, cfg.JWT.ExpireHours, cfg.Server.Mode == gin.ReleaseMode)
	auth := r.Group("/auth")
	auth.POST("/register", middleware.OptionalAuth(jwtSecret, users), authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/setup-check", authHandler.SetupCheck)

	// ====== authenticated ======
	protected := r.Group("")
	protected.Use(
		middleware.Auth(jwtSecret, users),
		middleware.Audit(audit),
	)
	admin := protected.Group("")
	admin.Use(middleware.RequireAdmin())

	// opened as plain links, so the token may come as ?token=
	links := r.Group("")
	links.Use(
		middleware.AuthWithQueryToken(jwtSecret, users),
		middleware.Audit(audit),
	)

	userHandler := handler.NewUserHandler(users, pageSize)
	protected.GET("/users/profile", userHandler.GetProfile)
	protected.PUT("/users/profile", userHandler.UpdateProfile)
	protected.PUT("/users/profile/password", userHandler.ChangePassword)
	admin.GET("/users", userHandler.List)
	admin.POST("/users", userHandler.Create)
	admin.GET("/users/:id", userHandler.Get)
	admin.PUT("/users/:id", userHandler.Update)
	admin.DELETE("/users/:id", userHandler.Delete)

	customerHandler := handler.NewCustomerHandler(customers, pageSize)
	protected.GET("/customers", customerHandler.List)
	protected.GET("/customers/:id", customerHandler.Get)
	protected.POST("/customers", customerHandler.Create)
	protected.PUT("/customers/:id", customerHandler.Update)
	protected.DELETE("/customers/:id", customerHandler.Delete)

	productHandler := handler.NewProductHandler(products, pageSize)
	protected.GET("/products", productHandler.List)
	protected.GET("/products/:id", productHandler.Get)
	protected.POST("/products", productHandler.Create)
	protected.PUT("/products/:id", productHandler.Update)
	protected.DELETE("/products/:id", productHandler.Delete)

	invoiceHandler := handler.NewInvoiceHandler(invoices, profile, pageSize)
	protected.GET("/invoices", invoiceHandler.List)
	protected.GET("/invoices/stats/monthly", invoiceHandler.MonthlyStats)
	protected.GET("/invoices/export/csv", invoiceHandler.ExportCSV)
	protected.GET("/invoices/export/xlsx", invoiceHandler.ExportXLSX)
	protected.GET("/invoices/:id", invoiceHandler.Get)
	links.GET("/invoices/:id/print", invoiceHandler.Print)
	protected.POST("/invoices", invoiceHandler.Create)
	protected.PUT("/invoices/:id", invoiceHandler.Update)
	protected.PUT("/invoices/:id/status", invoiceHandler.UpdateStatus)
	protected.DELETE("/invoices/:id", invoiceHandler.Delete)

	profileHandler := handler.NewBusinessProfileHandler(profile)
	protected.GET("/business-profile", profileHandler.Get)
	protected.POST("/business-profile", profileHandler.Create)
	protected.PUT("/business-profile/:id", profileHandler.Update)
	protected.PUT("/business-profile/:id/logo", profileHandler.UpdateLogo)
	protected.PUT("/business-profile/:id/bank-accounts", profileHandler.UpdateBankAccounts)

	backupHandler := handler.NewBackupHandler(backups, pageSize)
	admin.POST("/backups", backupHandler.Create)
	admin.GET("/backups", backupHandler.List)
	links.GET("/backups/:id/download", middleware.RequireAdmin(), backupHandler.Download)
	admin.DELETE("/backups/:id", backupHandler.Delete)

	logHandler := handler.NewLogHandler(audit, pageSize)
	admin.GET("/audit-logs", logHandler.ListLogs)

	return r
}
