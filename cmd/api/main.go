package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"quizforge/internal/adapter"
	"quizforge/internal/adapter/evaluator"
	"quizforge/internal/adapter/quizgen"
	"quizforge/internal/cache"
	"quizforge/internal/config"
	"quizforge/internal/database"
	"quizforge/internal/domain"
	"quizforge/internal/handler"
	"quizforge/internal/logger"
	"quizforge/internal/middleware"
	"quizforge/internal/repository"
	"quizforge/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

// requestLogger logs every HTTP request with its outcome and latency.
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		err := c.Next()

		logger.Get().Info("HTTP Request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("duration", time.Since(start)),
			zap.String("ip", c.IP()),
		)

		return err
	}
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	db, err := database.NewPostgresDB(cfg.GetDSN())
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Repositories
	quizRepository := repository.NewQuizDatabaseAdapter(db)
	submissionRepository := repository.NewSubmissionDatabaseAdapter(db)
	historyRepository := repository.NewHistoryDatabaseAdapter(db)
	userRepository := repository.NewUserDatabaseAdapter(db)
	txManager := repository.NewTransactionManagerAdapter(db)

	// The cache is an optimization; a missing Redis degrades reads to the
	// database instead of failing startup.
	var cacheAdapter domain.Cache
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		appLogger.Warn("Redis unavailable, quiz reads will not be cached", zap.Error(err))
	} else {
		cacheAdapter = adapter.NewRedisCacheAdapter(redisClient)
		appLogger.Info("Connected to Redis", zap.String("address", cfg.Redis.Address))
	}
	cacheService := service.NewQuizCacheService(cacheAdapter, cfg.Cache.QuizTTL)

	// LLM collaborators
	generator, err := quizgen.NewOpenAIQuizGenerator(cfg.LLM)
	if err != nil {
		appLogger.Fatal("Failed to create quiz generator", zap.Error(err))
	}
	submissionEvaluator, err := evaluator.NewLLMEvaluator(cfg.LLM)
	if err != nil {
		appLogger.Fatal("Failed to create submission evaluator", zap.Error(err))
	}

	// Services
	quizService := service.NewQuizService(
		quizRepository,
		submissionRepository,
		historyRepository,
		txManager,
		generator,
		submissionEvaluator,
		cacheService,
	)
	authService, err := service.NewAuthService(userRepository, cfg.JWT)
	if err != nil {
		appLogger.Fatal("Failed to create AuthService", zap.Error(err))
	}

	// Handlers
	questionHandler := handler.NewQuestionHandler(quizService)
	quizHandler := handler.NewQuizHandler(quizService)
	authHandler := handler.NewAuthHandler(authService)

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		BodyLimit:    10 * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(requestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
		MaxAge:       300,
	}))
	app.Use(recover.New())

	apiGroup := app.Group("/api")

	authGroup := apiGroup.Group("/auth")
	authGroup.Post("/signup", authHandler.Signup)
	authGroup.Post("/login", authHandler.Login)

	questionGroup := apiGroup.Group("/questions", middleware.Protected(authService))
	questionGroup.Post("/generate-questions", middleware.RequireRole("teacher"), questionHandler.GenerateQuestions)
	questionGroup.Get("/quiz/:quizId", questionHandler.GetQuizByID)
	questionGroup.Get("/:questionId/hint", questionHandler.GetQuestionHint)

	quizGroup := apiGroup.Group("/quiz", middleware.Protected(authService))
	quizGroup.Post("/submit", quizHandler.SubmitQuiz)
	quizGroup.Get("/history", quizHandler.GetQuizHistory)

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", os.Getenv("ENV")))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
