package main

import (
	"fmt"
	"hvacpro-backend/config"
	"hvacpro-backend/models"
	"hvacpro-backend/routes"
	"hvacpro-backend/services"
	"log"
	"os"

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
		&models.Customer{},
		&models.Site{},
		&models.AssetBrand{},
		&models.AssetModel{},
		&models.Asset{},
		&models.Task{},
		&models.AssetTask{},
		&models.Invoice{},
		&models.InvoiceItem{},
		&models.ReminderLog{},
	)
}

func main() {

	reminderService := services.NewReminderService(config.DB)
	reminderService.StartScheduler()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
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
