package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"alfredoptarigan/hirehub/internal/config"
	"alfredoptarigan/hirehub/internal/handlers"
	"alfredoptarigan/hirehub/internal/repositories"
	"alfredoptarigan/hirehub/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}
	log.Println("✅ Config loaded successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	jobRepo := repositories.NewJobRepository(db)
	log.Println("✅ Repositories initialized successfully")

	// Initialize AI provider
	geminiService, err := services.NewGeminiService(ctx, cfg.AI)
	if err != nil {
		log.Fatalf("❌ Failed to initialize AI provider: %v", err)
	}

	retry := services.DefaultRetryConfig
	retry.MaxRetries = cfg.AI.MaxRetries
	completer := services.NewResilientCompleter(geminiService, services.ResilienceConfig{
		Timeout:       cfg.AI.Timeout,
		RatePerSecond: cfg.AI.RatePerSecond,
		Burst:         cfg.AI.Burst,
		Retry:         retry,
	})
	log.Println("✅ AI provider initialized successfully")

	// Initialize similarity index
	jobIndex := services.NewNoopJobIndex()
	if cfg.Qdrant.URL != "" {
		qdrantIndex, err := services.NewQdrantJobIndex(
			cfg.Qdrant.URL,
			cfg.Qdrant.APIKey,
			cfg.Qdrant.Collection,
			geminiService,
		)
		if err != nil {
			log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
		}
		if err := qdrantIndex.InitCollection(ctx); err != nil {
			log.Fatalf("❌ Failed to initialize Qdrant collection: %v", err)
		}
		jobIndex = qdrantIndex
		log.Println("✅ Qdrant initialized successfully")
	} else {
		log.Println("⚠️  QDRANT_URL not set, similar-job search is disabled")
	}

	// Start index worker
	worker := services.NewWorker(jobRepo, jobIndex, cfg.Worker.Concurrency)
	worker.Start(ctx)
	log.Println("✅ Worker started successfully")

	// Initialize services
	storageService := services.NewStorageService(cfg.Storage.UploadPath, cfg.Storage.MaxFileSize)
	if err := storageService.EnsureUploadDir(); err != nil {
		log.Fatalf("❌ Failed to create upload directory: %v", err)
	}

	jobService := services.NewJobService(jobRepo, jobIndex, worker)
	analyzer := services.NewResumeAnalyzer(
		storageService,
		services.NewPDFParserService(),
		completer,
		cfg.Storage.ResumeTextLimit,
	)
	chatService := services.NewChatService(
		services.NewMemoryConversationStore(),
		completer,
		cfg.Chat.HistoryWindow,
	)
	jwtService := services.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	log.Println("✅ Services initialized successfully")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:     "HireHub API",
		ReadTimeout: 30 * time.Second,
		// Resume analysis waits on the AI provider, including retries.
		WriteTimeout: 2 * time.Minute,
		// Room for multipart overhead so oversized PDFs get a validation error.
		BodyLimit:    int(cfg.Storage.MaxFileSize) + 1<<20,
		ErrorHandler: handlers.ErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, If-Match",
	}))

	router := handlers.Router{
		Jobs:    handlers.NewJobHandler(jobService),
		Resumes: handlers.NewResumeHandler(analyzer),
		Chat:    handlers.NewChatHandler(chatService),
		Tokens:  jwtService,
		AILimiter: limiter.New(limiter.Config{
			Max:        cfg.Server.RateLimitMax,
			Expiration: time.Minute,
			LimitReached: func(c *fiber.Ctx) error {
				return fiber.NewError(fiber.StatusTooManyRequests, "Too many requests, please retry later")
			},
		}),
	}
	router.Register(app)
	log.Println("✅ Routes registered")

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
		worker.Stop()
		cancel()
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)
	log.Printf("📖 API Documentation: http://localhost%s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}
