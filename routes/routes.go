package routes

import (
	"hvacpro-backend/config"
	"hvacpro-backend/controllers"
	"hvacpro-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:3000",
			"http://localhost:5173",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())

	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)

		auth.Use(utils.AuthMiddleware())
		auth.GET("/me", controllers.Me)
	}

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware())
	{
		// Customer routes
		customers := api.Group("/customers")
		{
			customers.POST("", controllers.CreateCustomer)
			customers.GET("", controllers.GetCustomers)
			customers.GET("/:slug", controllers.GetCustomer)
			customers.PUT("/:slug", controllers.UpdateCustomer)
			customers.DELETE("/:slug", controllers.DeleteCustomer)
		}

		// Site routes
		sites := api.Group("/sites")
		{
			sites.POST("", controllers.CreateSite)
			sites.GET("/:slug", controllers.GetSite)
			sites.PUT("/:slug", controllers.UpdateSite)
			sites.DELETE("/:slug", controllers.DeleteSite)
		}

		// Brand and model catalog routes
		brands := api.Group("/brands")
		{
			brands.GET("", controllers.GetBrands)
			brands.POST("", controllers.CreateBrand)
			brands.GET("/:slug", controllers.GetBrand)
			brands.PUT("/:slug", controllers.UpdateBrand)
			brands.GET("/:slug/models", controllers.GetBrandModels)
			brands.POST("/:slug/models", controllers.CreateBrandModel)
			brands.PUT("/:slug/models/:modelSlug", controllers.UpdateBrandModel)
		}

		// Asset routes
		assets := api.Group("/assets")
		{
			assets.POST("", controllers.CreateAsset)
			assets.GET("/:slug", controllers.GetAsset)
			assets.PUT("/:slug", controllers.UpdateAsset)
			assets.DELETE("/:slug", controllers.DeleteAsset)
		}

		// Job routes
		tasks := api.Group("/tasks")
		{
			tasks.POST("", controllers.CreateTask)
			tasks.GET("", controllers.GetTasks)
			tasks.GET("/:slug", controllers.GetTask)
			tasks.PUT("/:slug", controllers.UpdateTask)
			tasks.PATCH("/:slug/status", controllers.UpdateTaskStatus)
			tasks.DELETE("/:slug", controllers.DeleteTask)

			tasks.POST("/:slug/assets", controllers.LinkTaskAsset)
			tasks.PUT("/:slug/assets/:assetSlug", controllers.UpdateTaskAssetLink)
			tasks.DELETE("/:slug/assets/:assetSlug", controllers.UnlinkTaskAsset)
		}

		// Calendar view
		api.GET("/calendar", controllers.GetCalendar)

		// Invoice routes
		invoices := api.Group("/invoices")
		{
			invoices.POST("", controllers.CreateInvoice)
			invoices.GET("", controllers.GetInvoices)
			invoices.GET("/next-number", controllers.GetNextInvoiceNumber)
			invoices.GET("/:slug", controllers.GetInvoice)
			invoices.GET("/:slug/document", controllers.GetInvoiceDocument)
			invoices.PUT("/:slug", controllers.UpdateInvoice)
			invoices.DELETE("/:slug", controllers.DeleteInvoice)
		}

		// Reports routes
		reportController := controllers.ReportController{}
		api.GET("/reports", reportController.GetReportAnalytics)

		// Dashboard routes
		api.GET("/dashboard", controllers.GetDashboardOverview)

		// Settings routes
		profile := api.Group("/profile")
		{
			profile.GET("", controllers.GetProfile)
			profile.PUT("", controllers.UpdateProfile)
		}

		// Reminder log
		api.GET("/reminders", controllers.GetReminderLogs)
	}

	return r
}
