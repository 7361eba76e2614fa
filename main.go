package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/rolebrief/backend/config"
	_ "github.com/rolebrief/backend/docs"
	"github.com/rolebrief/backend/engine"
	"github.com/rolebrief/backend/gemini"
	"github.com/rolebrief/backend/handlers"
	"github.com/rolebrief/backend/hub"
	"github.com/rolebrief/backend/mcp"
	"github.com/rolebrief/backend/middleware"
	"github.com/rolebrief/backend/research"
	"github.com/rolebrief/backend/storage"
	"github.com/rolebrief/backend/tools"
	"github.com/rolebrief/backend/utils"
)

// @title RoleBrief API
// @version 1.0
// @description Job profile completion backend: a recruiting agent fills a structured role brief through MCP tools while recruiters follow progress over a live event stream.
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@rolebrief.dev

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /api

func main() {
	// Load .env file if present (for local development)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := config.Load()

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	// Set Gin mode based on debug setting
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create context for initialization
	ctx := context.Background()

	// Initialize the profile store
	var store storage.ProfileStore
	if cfg.ProjectID != "" {
		log.Println("Initializing Firestore client...")
		firestoreStore, err := storage.NewFirestoreStore(ctx, cfg)
		if err != nil {
			log.Fatalf("Failed to initialize Firestore client: %v", err)
		}
		store = firestoreStore
		log.Println("Firestore client initialized successfully")
	} else {
		log.Println("PROJECT_ID not set, using in-memory profile store")
		store = storage.NewMemoryStore()
	}
	defer store.Close()

	// Initialize Cloud Storage artifact archiving (optional)
	var artifacts *storage.ArtifactStore
	if cfg.ArtifactBucketName != "" {
		log.Println("Initializing Cloud Storage client...")
		var err error
		artifacts, err = storage.NewArtifactStore(ctx, cfg)
		if err != nil {
			log.Fatalf("Failed to initialize Cloud Storage client: %v", err)
		}
		defer artifacts.Close()
		log.Println("Cloud Storage client initialized successfully")
	}

	// Initialize the event hub and the profile engine
	eventHub := hub.New(cfg.EventBufferSize)
	eng := engine.New(store, eventHub)

	// Initialize background research (optional, requires Vertex AI)
	var (
		researcher research.CompanyResearcher
		extractor  research.DocumentExtractor
		drafter    research.OutreachDrafter
	)
	if cfg.ProjectID != "" {
		log.Println("Initializing Gemini client...")
		geminiClient, err := gemini.NewClient(ctx, cfg)
		if err != nil {
			log.Fatalf("Failed to create Gemini client: %v", err)
		}
		defer geminiClient.Close()
		log.Println("Gemini client initialized successfully")

		httpClient := utils.NewHTTPClient(time.Duration(cfg.HTTPTimeoutSeconds) * time.Second)
		httpClient.Transport = utils.UserAgentMiddleware(httpClient.Transport)
		provider := research.NewGeminiProvider(geminiClient, httpClient)
		researcher, extractor, drafter = provider, provider, provider
	} else {
		log.Println("Research and extraction disabled without PROJECT_ID")
	}
	researchManager := research.NewManager(eng, researcher, extractor, drafter, artifacts,
		time.Duration(cfg.ResearchTimeoutSeconds)*time.Second)

	// Create the tool registry for the onboarding agent
	toolRegistry := tools.NewToolRegistry()
	toolRegistry.Register(tools.NewUpdateCompanyFieldTool(eng))
	toolRegistry.Register(tools.NewUpdateRequirementsTool(eng))
	toolRegistry.Register(tools.NewCreateTraitTool(eng))
	toolRegistry.Register(tools.NewUpdateTraitTool(eng))
	toolRegistry.Register(tools.NewDeleteTraitTool(eng))
	toolRegistry.Register(tools.NewCreateInterviewStageTool(eng))
	toolRegistry.Register(tools.NewUpdateInterviewStageTool(eng))
	toolRegistry.Register(tools.NewDeleteInterviewStageTool(eng))
	toolRegistry.Register(tools.NewCaptureNuanceTool(eng))
	toolRegistry.Register(tools.NewMarkFieldCompleteTool(eng))
	toolRegistry.Register(tools.NewCompleteOnboardingTool(eng, researchManager))
	toolRegistry.Register(tools.NewGetProfileStatusTool(eng))

	mcpServer := mcp.NewServer(toolRegistry)

	// Create handlers
	sessionHandler := handlers.NewSessionHandler(eng, researchManager)
	ingestHandler := handlers.NewIngestHandler(eng, researchManager, artifacts)
	eventsHandler := handlers.NewEventsHandler(eng, eventHub)
	toolsHandler := handlers.NewToolsHandler(toolRegistry)

	// Create Gin router
	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	// Rate limit per client IP
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	router.Use(rateLimiter.Middleware())

	// Configure CORS for the recruiter dashboard
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173", "*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Register routes
	router.GET("/health", handlers.HealthCheck)

	api := router.Group("/api")
	{
		// Session lifecycle
		api.POST("/sessions", sessionHandler.CreateSession)
		api.GET("/sessions", sessionHandler.ListSessions)
		api.GET("/sessions/:id", sessionHandler.GetProfile)
		api.GET("/sessions/:id/status", sessionHandler.GetStatus)

		// Automated ingest
		api.POST("/sessions/:id/updates", ingestHandler.BulkUpdate)
		api.POST("/sessions/:id/documents", ingestHandler.IngestDocument)

		// Live progress events
		api.GET("/sessions/:id/events", eventsHandler.StreamEvents)

		// Tools introspection endpoint
		api.GET("/tools", toolsHandler.GetTools)

		// MCP endpoints for external AI agents
		mcpServer.RegisterRoutes(api)
	}

	// Create HTTP server. WriteTimeout stays zero: it would sever
	// long-lived SSE streams.
	srv := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     router,
		ReadTimeout: 60 * time.Second,
		IdleTimeout: 120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Starting server on port %s...", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Give outstanding requests 30 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	// Let in-flight research and extraction land before closing clients
	researchManager.Wait()
	eventHub.Close()

	log.Println("Server exited gracefully")
}
