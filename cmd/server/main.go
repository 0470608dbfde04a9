package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"biosphere_api/internal/config"
	"biosphere_api/internal/handler"
	"biosphere_api/internal/middleware"
	"biosphere_api/internal/repository"
	"biosphere_api/internal/service"
	"biosphere_api/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading, relying on environment variables")
	}

	// --- Logging ---
	zlog, err := utils.NewLogger(utils.LoggerConfigFromEnv())
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()
	logger := zlog.Sugar()

	// --- Configuration ---
	dbCfg, err := config.LoadDBConfig()
	if err != nil {
		logger.Fatalf("Failed to load DB config: %v", err)
	}

	authCfg, err := config.LoadAuthConfig()
	if err != nil {
		logger.Fatalf("Failed to load auth config: %v", err)
	}

	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		serverPort = "8080" // Default port
	}

	uploadsDir := os.Getenv("UPLOADS_DIR")
	if uploadsDir == "" {
		uploadsDir = "uploads" // Default uploads directory
	}
	if err := os.MkdirAll(uploadsDir, os.ModePerm); err != nil {
		logger.Fatalf("Failed to create uploads directory %s: %v", uploadsDir, err)
	}
	logger.Infof("Uploads will be stored in: %s", uploadsDir)

	// --- Database Connection ---
	dbPool, err := config.ConnectDB(dbCfg)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer dbPool.Close()

	// --- Auto Migration ---
	if err := config.AutoMigrate(dbPool); err != nil {
		logger.Fatalf("Failed to auto-migrate database: %v", err)
	}

	// --- Initialize Utilities ---
	jwtUtil := utils.NewJWTUtil(authCfg.SecretKey, authCfg.TokenTTL)

	// --- Initialize Repositories ---
	userRepo := repository.NewUserRepository(dbPool)
	reviewRepo := repository.NewReviewRepository(dbPool)
	questionRepo := repository.NewQuestionRepository(dbPool)
	specialistRepo := repository.NewSpecialistRepository(dbPool)

	// --- Initialize Services ---
	authService := service.NewAuthService(userRepo, jwtUtil, authCfg.AdminSentinelEmail, logger)
	reviewService := service.NewReviewService(reviewRepo)
	questionService := service.NewQuestionService(questionRepo)
	specialistService := service.NewSpecialistService(specialistRepo, uploadsDir)
	adminService := service.NewAdminService(userRepo, reviewRepo, questionRepo, specialistRepo, logger)

	// --- Initialize Handlers ---
	authHandler := handler.NewAuthHandler(authService, logger)
	userHandler := handler.NewUserHandler()
	reviewHandler := handler.NewReviewHandler(reviewService, logger)
	questionHandler := handler.NewQuestionHandler(questionService, logger)
	specialistHandler := handler.NewSpecialistHandler(specialistService, logger)
	adminHandler := handler.NewAdminHandler(adminService, logger)

	// --- Setup Gin Router ---
	// gin.SetMode(gin.ReleaseMode) // Uncomment for production
	// gin.New instead of gin.Default: RequestLogger is the access log
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))

	// Simple CORS middleware (allow all for development)
	// For production, configure specific origins, methods, headers
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	// --- Initialize Middlewares ---
	authMW := middleware.AuthMiddleware(jwtUtil, userRepo, logger)
	optionalAuthMW := middleware.OptionalAuthMiddleware(jwtUtil, userRepo, logger)
	adminMW := middleware.AdminMiddleware()

	// --- Register Routes ---
	root := router.Group("")
	authHandler.RegisterAuthRoutes(root)
	userHandler.RegisterUserRoutes(root, authMW)
	reviewHandler.RegisterReviewRoutes(root, optionalAuthMW, authMW, adminMW)
	questionHandler.RegisterQuestionRoutes(root, optionalAuthMW, authMW, adminMW)
	specialistHandler.RegisterSpecialistRoutes(root, authMW, adminMW)
	adminHandler.RegisterAdminRoutes(root, authMW, adminMW)

	// Uploaded specialist photos
	router.Static("/uploads", uploadsDir)

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "biosphere API is running", "status": "ok"})
	})

	router.GET("/health", func(c *gin.Context) {
		if err := dbPool.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "db": "unreachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "db": "connected"})
	})

	// --- Start Server ---
	srv := &http.Server{
		Addr:    ":" + serverPort,
		Handler: router,
	}

	go func() {
		logger.Infof("Server starting on port %s", serverPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("listen: %s", err)
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exiting")
}
