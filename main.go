package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/bellavista/concierge-backend/database"
	"github.com/bellavista/concierge-backend/internal/ai"
	"github.com/bellavista/concierge-backend/internal/config"
	"github.com/bellavista/concierge-backend/internal/handlers"
	"github.com/bellavista/concierge-backend/internal/models"
	"github.com/bellavista/concierge-backend/internal/nlu"
	"github.com/bellavista/concierge-backend/internal/rag"
	"github.com/bellavista/concierge-backend/internal/routes"
	"github.com/bellavista/concierge-backend/internal/services"
	"github.com/bellavista/concierge-backend/internal/storage"
)

const version = "1.0.0"

func main() {
	// Load .env file for local development
	if os.Getenv("INSTANCE_CONNECTION_NAME") == "" {
		if err := godotenv.Load(".env"); err != nil {
			log.Println("No .env file found - using environment variables")
		}
	}

	cfg := config.Load()

	// Initialize storage
	var store storage.Store
	if os.Getenv("USE_MEMORY_STORE") == "true" {
		log.Println("Using in-memory storage (not for production!)")
		store = storage.NewMemoryStore(cfg.HistoryLimit)
	} else {
		log.Println("Connecting to PostgreSQL database...")
		database.Connect()

		log.Println("Running database migrations...")
		err := database.DB.AutoMigrate(
			&models.SessionRecord{},
			&models.Booking{},
			&models.ConversationLog{},
		)
		if err != nil {
			log.Fatal("Failed to migrate database:", err)
		}
		log.Println("Database migrations completed")

		store = storage.NewDatabaseStore(database.DB, cfg.HistoryLimit)
	}

	// Retrieval pipeline
	chunker := rag.NewWordChunker(cfg.ChunkSize, cfg.ChunkOverlap)
	var embedders rag.EmbedderFactory
	if cfg.EmbedderType == "remote" {
		remote := rag.NewRemoteEmbedder(rag.RemoteConfig{
			BaseURL: cfg.EmbedderBaseURL,
			Model:   cfg.EmbedderModel,
			APIKey:  cfg.EmbedderAPIKey,
		})
		embedders = func() rag.Embedder { return remote }
	} else {
		embedders = func() rag.Embedder { return rag.NewTFIDFEmbedder() }
	}
	retriever := rag.NewRetriever(chunker, embedders, cfg.TopK)

	// Generation backend
	provider := ai.NewOllamaProvider(cfg.GenerationBaseURL, cfg.GenerationModel)

	// Conversation engine
	classifier := nlu.NewKeywordClassifier()
	extractor := nlu.NewPatternExtractor()
	dialogue := services.NewDialogueService(
		store, extractor, retriever, provider,
		cfg.Restaurant, cfg.TopK, cfg.GenerationTimeout,
	)
	orchestrator := services.NewOrchestrator(store, classifier, dialogue, retriever)

	// Outbound messaging; the bot still answers on the test route when
	// Twilio credentials are absent.
	twilioService, err := services.NewTwilioService()
	if err != nil {
		log.Printf("Twilio service not initialized: %v", err)
		twilioService = nil
	} else {
		log.Println("Twilio service initialized")
	}

	// Create fiber app
	app := fiber.New(fiber.Config{
		AppName: "Bella Vista Concierge v" + version,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))

	// Root endpoint with service status
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"service":    "Bella Vista Concierge API",
			"version":    version,
			"restaurant": cfg.Restaurant.Name,
			"storage":    storageType(),
			"whatsapp": fiber.Map{
				"configured": twilioService != nil,
			},
			"retrieval": fiber.Map{
				"embedder":      cfg.EmbedderType,
				"menu_ingested": retriever.Ingested(),
				"chunks":        retriever.ChunkCount(),
			},
			"endpoints": fiber.Map{
				"health":        "/health",
				"webhook":       "/webhook/whatsapp",
				"test_whatsapp": "/test/whatsapp",
				"admin":         "/admin",
			},
		})
	})

	// Handlers and routes
	whatsappHandler := handlers.NewWhatsAppHandler(orchestrator, twilioService, cfg.Restaurant.Phone)
	menuHandler := handlers.NewMenuHandler(retriever)
	bookingHandler := handlers.NewBookingHandler(store)
	healthHandler := handlers.NewHealthHandler(version, retriever, orchestrator)
	routes.SetupRoutes(app, whatsappHandler, menuHandler, bookingHandler, healthHandler)

	// Handle graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		log.Println("Gracefully shutting down...")
		_ = app.Shutdown()
	}()

	log.Println("========================================")
	log.Printf("Bella Vista Concierge starting on port %s", cfg.Port)
	log.Printf("Storage: %s", storageType())
	log.Printf("Restaurant: %s (max %d guests)", cfg.Restaurant.Name, cfg.Restaurant.MaxGuests)
	log.Printf("Embedder: %s | Generation: %s", cfg.EmbedderType, cfg.GenerationModel)
	log.Println("========================================")

	log.Fatal(app.Listen(":" + cfg.Port))
}

func storageType() string {
	if os.Getenv("USE_MEMORY_STORE") == "true" {
		return "In-Memory (Testing)"
	}
	return "PostgreSQL Database"
}
