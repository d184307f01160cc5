package main

import (
	"fmt"
	"log"
	"os"

	"aquacare-backend/config"
	"aquacare-backend/models"
	"aquacare-backend/routes"
	"aquacare-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func init() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	config.ConnectDB()

	config.DB.AutoMigrate(
		&models.User{},
		&models.Branch{},
		&models.Customer{},
		&models.Product{},
		&models.CustomerProduct{},
		&models.AmcContract{},
		&models.Service{},
		&models.Complaint{},
		&models.Invoice{},
		&models.InvoiceItem{},
		&models.Quotation{},
		&models.QuotationItem{},
		&models.Expense{},
		&models.Notification{},
	)
}

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	cronRunner := services.StartScheduler(
		config.DB,
		services.NewSMTPEmailSender(),
		services.NewTwilioWhatsAppSender(),
	)
	defer cronRunner.Stop()

	r := routes.SetupRouter()
	printRoutes(r)
	r.Run(":" + port)
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
