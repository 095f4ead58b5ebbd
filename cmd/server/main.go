package main

import (
	"log"

	config "tambak-dashboard-api/configs"
	"tambak-dashboard-api/pkg/groq"
	"tambak-dashboard-api/pkg/handlers"
	"tambak-dashboard-api/pkg/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or could not be loaded: %v", err)
	}

	cfg := config.LoadConfig()

	r := gin.Default()

	// Services. The completion service stays nil without a credential,
	// which keeps the AI features inert instead of failing.
	monitoringService := services.NewMonitoringService()
	datasetService := services.NewDatasetService()
	summaryService := services.NewSummaryService()

	var completion services.CompletionService
	if cfg.AIEnabled() {
		completion = services.NewGroqCompletion(groq.NewClient(cfg.GroqEndpoint, cfg.GroqAPIKey, cfg.GroqModel))
		log.Printf("AI aktif: model %s", cfg.GroqModel)
	} else {
		log.Println("GROQ_API_KEY belum diatur; fitur AI dinonaktifkan")
	}
	aiService := services.NewAIService(completion, summaryService)
	sessionService := services.NewSessionService()

	// Handlers.
	dashboardHandler := handlers.NewDashboardHandler(datasetService, summaryService, aiService, sessionService)
	chatHandler := handlers.NewChatHandler(sessionService, aiService)
	monitoringHandler := handlers.NewMonitoringHandler(monitoringService)

	// Middleware.
	r.Use(monitoringService.LoggingMiddleware())
	r.Use(cors.Default())

	r.GET("/health", handlers.HealthCheck)

	v1 := r.Group("/api/v1")
	{
		dashboard := v1.Group("/dashboard")
		{
			dashboard.POST("/upload", dashboardHandler.UploadFile)
			dashboard.GET("/:sessionID/summary", dashboardHandler.GetSummary)
			dashboard.GET("/:sessionID/chart", dashboardHandler.GetChart)
		}

		chat := v1.Group("/chat")
		{
			chat.POST("", chatHandler.SendMessage)
			chat.GET("/:sessionID/history", chatHandler.GetHistory)
		}

		monitoring := v1.Group("/monitoring")
		{
			monitoring.GET("/logs", monitoringHandler.GetLogs)
		}
	}

	log.Printf("Starting Tambak Dashboard API on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
