package routes

import (
	"aquacare-backend/config"
	"aquacare-backend/controllers"
	"aquacare-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"https://app.aquacare.example.com",
			"http://localhost:3000",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
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
			customers.GET("/:id", controllers.GetCustomer)
			customers.PUT("/:id", controllers.UpdateCustomer)
			customers.DELETE("/:id", controllers.DeleteCustomer)

			customers.POST("/:id/products", controllers.AddCustomerProduct)
			customers.GET("/:id/products", controllers.GetCustomerProducts)
		}

		// Product catalog routes
		products := api.Group("/products")
		{
			products.POST("", controllers.CreateProduct)
			products.GET("", controllers.GetProducts)
			products.GET("/:id", controllers.GetProduct)
			products.PUT("/:id", controllers.UpdateProduct)
			products.DELETE("/:id", controllers.DeleteProduct)
		}

		// Branch routes
		branches := api.Group("/branches")
		{
			branches.POST("", controllers.CreateBranch)
			branches.GET("", controllers.GetBranches)
			branches.GET("/:id", controllers.GetBranch)
			branches.PUT("/:id", controllers.UpdateBranch)
			branches.DELETE("/:id", controllers.DeleteBranch)
		}

		// Staff routes
		staff := api.Group("/staff")
		{
			staff.POST("", controllers.CreateStaff)
			staff.GET("", controllers.GetStaff)
			staff.PUT("/:id", controllers.UpdateStaff)
			staff.DELETE("/:id", controllers.DeleteStaff)
		}
		api.GET("/technicians", controllers.GetTechnicians)

		// AMC contract routes
		contracts := api.Group("/amc-contracts")
		{
			contracts.POST("", controllers.CreateAmcContract)
			contracts.GET("", controllers.GetAmcContracts)
			contracts.GET("/:id", controllers.GetAmcContract)
			contracts.PUT("/:id", controllers.UpdateAmcContract)
			contracts.DELETE("/:id", controllers.DeleteAmcContract)

			contracts.POST("/:id/renew", controllers.RenewAmcContract)
			contracts.POST("/generate-services", controllers.GenerateAmcServices)
		}

		// Service routes
		services := api.Group("/services")
		{
			services.POST("", controllers.CreateService)
			services.GET("", controllers.GetServices)
			services.GET("/:id", controllers.GetService)
			services.PUT("/:id", controllers.UpdateService)
			services.DELETE("/:id", controllers.DeleteService)

			services.POST("/:id/assign", controllers.AssignTechnician)
			services.POST("/:id/complete", controllers.CompleteService)
		}

		// Complaint routes
		complaints := api.Group("/complaints")
		{
			complaints.POST("", controllers.CreateComplaint)
			complaints.GET("", controllers.GetComplaints)
			complaints.GET("/:id", controllers.GetComplaint)
			complaints.PUT("/:id", controllers.UpdateComplaint)
			complaints.DELETE("/:id", controllers.DeleteComplaint)

			complaints.POST("/:id/resolve", controllers.ResolveComplaint)
		}

		// Invoice routes
		invoices := api.Group("/invoices")
		{
			invoices.POST("", controllers.CreateInvoice)
			invoices.GET("", controllers.GetInvoices)
			invoices.GET("/:id", controllers.GetInvoice)
			invoices.DELETE("/:id", controllers.DeleteInvoice)

			invoices.POST("/:id/payments", controllers.RecordPayment)
		}

		// Quotation routes
		quotations := api.Group("/quotations")
		{
			quotations.POST("", controllers.CreateQuotation)
			quotations.GET("", controllers.GetQuotations)
			quotations.GET("/:id", controllers.GetQuotation)
			quotations.PUT("/:id/status", controllers.UpdateQuotationStatus)
			quotations.DELETE("/:id", controllers.DeleteQuotation)
		}

		// Expense routes
		expenses := api.Group("/expenses")
		{
			expenses.POST("", controllers.CreateExpense)
			expenses.GET("", controllers.GetExpenses)
			expenses.GET("/:id", controllers.GetExpense)
			expenses.PUT("/:id", controllers.UpdateExpense)
			expenses.DELETE("/:id", controllers.DeleteExpense)
		}

		// Financial day book
		api.GET("/daybook", controllers.GetDayBook)

		// Dashboard
		api.GET("/dashboard", controllers.GetDashboard)

		// Reminder dispatch (manual trigger)
		api.POST("/reminders/dispatch", controllers.DispatchReminders)

		// Notifications
		notifications := api.Group("/notifications")
		{
			notifications.GET("", controllers.GetNotifications)
			notifications.PUT("/:id/read", controllers.MarkNotificationRead)
			notifications.PUT("/read-all", controllers.MarkAllNotificationsRead)
		}
	}

	return r
}
