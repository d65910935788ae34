package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"alfredoptarigan/ai-interviewer/internal/config"
	"alfredoptarigan/ai-interviewer/internal/handlers"
	"alfredoptarigan/ai-interviewer/internal/observability"
	"alfredoptarigan/ai-interviewer/internal/repositories"
	"alfredoptarigan/ai-interviewer/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	ctx := context.Background()
	observability.InitMetrics()

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	// Initialize Redis
	rdb, err := repositories.NewRedisClient(ctx, cfg.Redis.URL)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Redis: %v", err)
	}
	defer rdb.Close()
	log.Println("✅ Redis connected successfully")

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	resumeRepo := repositories.NewResumeRepository(db)
	evalRepo := repositories.NewEvaluationRepository(db)
	sessionRepo := repositories.NewSessionRepository(rdb, cfg.Redis.SessionTTL)
	log.Println("✅ Repositories initialized successfully")

	bank, err := config.LoadQuestionBank(cfg.Interview.QuestionBankPath)
	if err != nil {
		log.Fatalf("❌ Failed to load question bank: %v", err)
	}

	// Initialize services
	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		log.Fatalf("❌ Failed to create upload directory: %v", err)
	}
	resumeParser := services.NewResumeParser()

	// Initialize Gemini AI
	genaiClient, err := services.NewGeminiClient(ctx, cfg.Gemini.APIKey)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini AI: %v", err)
	}
	geminiService := services.NewGeminiService(genaiClient, cfg.Gemini, cfg.Worker.RetryInitialDelay)
	speechService := services.NewSpeechService(genaiClient, cfg.Gemini)
	log.Println("✅ Gemini AI initialized successfully")

	// Initialize Qdrant (optional)
	var indexer services.ResumeIndexer
	if cfg.Qdrant.URL != "" {
		store, err := services.NewQdrantStore(cfg.Qdrant.URL, cfg.Qdrant.APIKey, cfg.Qdrant.Collection)
		if err != nil {
			log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
		}
		if err := store.InitCollection(ctx); err != nil {
			log.Fatalf("❌ Failed to initialize Qdrant collection: %v", err)
		}
		indexer = services.NewResumeIndexer(geminiService, store, services.NewTextChunker())
		log.Println("✅ Qdrant initialized successfully")
	} else {
		log.Println("⚠️  QDRANT_URL not set, questions will use the raw resume text")
	}

	maxRetries := cfg.Worker.RetryMaxAttempts
	questionService := services.NewQuestionService(geminiService, indexer, bank, maxRetries)
	transitionService := services.NewTransitionService(geminiService, bank, maxRetries)
	evaluatorService := services.NewEvaluatorService(geminiService, maxRetries)
	processor := services.NewEvaluationProcessor(evaluatorService, evalRepo)
	log.Println("✅ Services initialized successfully")

	// Initialize worker
	worker := services.NewWorker(evalRepo, processor, cfg.Worker.Concurrency, cfg.Worker.PollInterval)
	worker.Start(ctx)
	log.Println("✅ Worker started successfully")

	interviewService := services.NewInterviewService(
		questionService,
		transitionService,
		processor,
		sessionRepo,
		userRepo,
		evalRepo,
		bank,
		worker,
	)

	// Initialize handlers
	routes := handlers.Handlers{
		Interview:  handlers.NewInterviewHandler(interviewService),
		Speech:     handlers.NewSpeechHandler(speechService),
		User:       handlers.NewUserHandler(userRepo, evalRepo),
		Resume:     handlers.NewResumeHandler(resumeRepo, userRepo, storageService, resumeParser, cfg.Storage.MaxFileSize),
		Evaluation: handlers.NewEvaluationHandler(evalRepo),
	}
	log.Println("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "AI Interviewer API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize),
		ErrorHandler: customErrorHandler,
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
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(observability.HTTPMetricsMiddleware())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	routes.Register(app)

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "AI Interviewer API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/interview/initialize",
				"POST /api/interview/submit",
				"POST /api/interview/transition",
				"GET /api/interview/results/:id",
				"GET /api/interview/sessions/:id",
				"POST /api/speak",
				"POST /api/users",
				"POST /api/resumes",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatalf("❌ Failed to listen on %s: %v", addr, err)
	}
	log.Printf("🚀 Server starting on %s\n", addr)

	if err := serve(app, ln, quit, worker.Stop); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
	log.Println("👋 Server exited")
}

// serve runs app on ln until quit fires. It returns only after the server has
// shut down and stopWorker has finished, so in-flight evaluations complete.
func serve(app *fiber.App, ln net.Listener, quit <-chan os.Signal, stopWorker func()) error {
	done := make(chan struct{})
	go func() {
		defer close(done)
		<-quit
		log.Println("\n🛑 Shutting down server...")
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
		stopWorker()
	}()

	if err := app.Listener(ln); err != nil {
		return err
	}

	<-done
	return nil
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	} else {
		log.Printf("❌ Unhandled error on %s %s: %v\n", c.Method(), c.Path(), err)
	}

	return c.Status(code).JSON(fiber.Map{
		"error": message,
		"code":  code,
	})
}
