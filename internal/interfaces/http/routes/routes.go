// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/hustelwithrohit-pixel/retail-management-system/internal/config"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/interfaces/http/handlers"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/interfaces/http/middleware"
)

// SetupRoutes mounts every API group on rg
func SetupRoutes(rg *gin.RouterGroup, svc *Services, cfg *config.Config) {
	SetupAuthRoutes(rg, svc, cfg)

	protected := rg.Group("")
	protected.Use(middleware.AuthMiddleware(cfg))

	SetupProductRoutes(protected, svc)
	SetupCustomerRoutes(protected, svc)
	SetupInvoiceRoutes(protected, svc)
	SetupStockRoutes(protected, svc)
	SetupReminderRoutes(protected, svc)
	SetupMarketingRoutes(protected, svc)
	SetupReportRoutes(protected, svc)

	owner := protected.Group("")
	owner.Use(middleware.OwnerMiddleware())

	SetupStaffRoutes(owner, svc)
	SetupBackupRoutes(owner, svc)
}

// SetupAuthRoutes sets up authentication related routes
func SetupAuthRoutes(rg *gin.RouterGroup, svc *Services, cfg *config.Config) {
	authHandler := handlers.NewAuthHandler(svc.Users)

	auth := rg.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.RefreshToken)

		protected := auth.Group("")
		protected.Use(middleware.AuthMiddleware(cfg))
		{
			protected.GET("/me", authHandler.Me)
		}
	}
}

// SetupProductRoutes sets up product related routes
func SetupProductRoutes(rg *gin.RouterGroup, svc *Services) {
	productHandler := handlers.NewProductHandler(svc.Products, svc.Stock)
	categoryHandler := handlers.NewCategoryHandler(svc.Products)

	products := rg.Group("/products")
	{
		products.GET("", productHandler.GetProducts)
		products.POST("", productHandler.CreateProduct)
		products.GET("/categories", categoryHandler.GetCategories)
		products.GET("/:id", productHandler.GetProduct)
		products.PUT("/:id", productHandler.UpdateProduct)
		products.DELETE("/:id", productHandler.DeleteProduct)
	}
}

// SetupCustomerRoutes sets up customer related routes
func SetupCustomerRoutes(rg *gin.RouterGroup, svc *Services) {
	customerHandler := handlers.NewCustomerHandler(svc.Customers, svc.Invoices)

	customers := rg.Group("/customers")
	{
		customers.GET("", customerHandler.GetCustomers)
		customers.POST("", customerHandler.CreateCustomer)
		customers.GET("/:id", customerHandler.GetCustomer)
		customers.PUT("/:id", customerHandler.UpdateCustomer)
		customers.DELETE("/:id", customerHandler.DeleteCustomer)
	}
}

// SetupInvoiceRoutes sets up invoice and checkout routes
func SetupInvoiceRoutes(rg *gin.RouterGroup, svc *Services) {
	invoiceHandler := handlers.NewInvoiceHandler(svc.Invoices, svc.Renderer, svc.Mailer)
	checkoutHandler := handlers.NewCheckoutHandler(svc.Checkout)

	invoices := rg.Group("/invoices")
	{
		invoices.GET("", invoiceHandler.GetInvoices)
		invoices.POST("", checkoutHandler.Checkout)
		invoices.GET("/:id", invoiceHandler.GetInvoice)
		invoices.GET("/:id/pdf", invoiceHandler.DownloadPDF)
		invoices.POST("/:id/email", invoiceHandler.SendEmail)
	}
}

// SetupStockRoutes sets up stock ledger routes
func SetupStockRoutes(rg *gin.RouterGroup, svc *Services) {
	stockHandler := handlers.NewStockHandler(svc.Stock)

	stock := rg.Group("/stock")
	{
		stock.POST("/adjust", stockHandler.AdjustStock)
		stock.GET("/history", stockHandler.GetHistory)
		stock.GET("/alerts", stockHandler.GetAlerts)
		stock.GET("/prediction", stockHandler.GetPrediction)
		stock.GET("/reconcile/:productId", stockHandler.Reconcile)
	}
}

// SetupReminderRoutes sets up reminder routes
func SetupReminderRoutes(rg *gin.RouterGroup, svc *Services) {
	reminderHandler := handlers.NewReminderHandler(svc.Reminders)

	reminders := rg.Group("/reminders")
	{
		reminders.GET("", reminderHandler.GetReminders)
		reminders.POST("", reminderHandler.CreateReminder)
		reminders.PUT("/:id", reminderHandler.UpdateReminder)
		reminders.DELETE("/:id", reminderHandler.DeleteReminder)
	}
}

// SetupMarketingRoutes sets up message template routes
func SetupMarketingRoutes(rg *gin.RouterGroup, svc *Services) {
	marketingHandler := handlers.NewMarketingHandler(svc.Marketing)

	marketing := rg.Group("/marketing")
	{
		marketing.GET("/templates", marketingHandler.GetTemplates)
		marketing.POST("/render", marketingHandler.Render)
		marketing.POST("/broadcast", marketingHandler.Broadcast)
	}
}

// SetupReportRoutes sets up reports and the dashboard
func SetupReportRoutes(rg *gin.RouterGroup, svc *Services) {
	reportHandler := handlers.NewReportHandler(svc.Analytics)

	reports := rg.Group("/reports")
	{
		reports.GET("/sales", reportHandler.Sales)
		reports.GET("/gst", reportHandler.GST)
		reports.GET("/top-products", reportHandler.TopProducts)
		reports.GET("/stock-turnover", reportHandler.StockTurnover)
		reports.GET("/customer-history", reportHandler.CustomerHistory)
	}

	rg.GET("/dashboard/stats", reportHandler.GetDashboardStats)
}

// SetupStaffRoutes sets up owner-only staff management
func SetupStaffRoutes(rg *gin.RouterGroup, svc *Services) {
	staffHandler := handlers.NewStaffHandler(svc.Users)

	staff := rg.Group("/staff")
	{
		staff.GET("", staffHandler.GetStaff)
		staff.POST("", staffHandler.CreateStaff)
		staff.PUT("/:id", staffHandler.UpdateStaff)
		staff.DELETE("/:id", staffHandler.DeleteStaff)
	}
}

// SetupBackupRoutes sets up owner-only data export
func SetupBackupRoutes(rg *gin.RouterGroup, svc *Services) {
	backupHandler := handlers.NewBackupHandler(svc.Backup)

	rg.GET("/backup/export", backupHandler.Export)
}
