package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sirosfoundation/go-demo-backend/internal/api"
	"github.com/sirosfoundation/go-demo-backend/pkg/config"
	"github.com/sirosfoundation/go-demo-backend/pkg/logging"
	"github.com/sirosfoundation/go-demo-backend/pkg/middleware"
)

var configFile = flag.String("config", "configs/config.yaml", "Path to configuration file")

func main() {
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.NewLogger(logging.Config(cfg.Logging))
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting demo backend server",
		zap.String("version", api.Version),
		zap.String("address", cfg.Server.Address()),
	)

	router := setupRouter(cfg, logger)

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server listening", zap.String("address", cfg.Server.Address()))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

func setupRouter(cfg *config.Config, logger *zap.Logger) *gin.Engine {
	if cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposeHeaders:    []string{middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	handlers := api.NewHandlers(cfg, logger)

	router.GET("/health", handlers.Status)
	router.GET("/status", handlers.Status)

	v1 := router.Group("/v1")
	{
		v1.POST("/echo", handlers.Echo)
		v1.GET("/id", handlers.RandomID)

		crypto := v1.Group("/crypto")
		{
			crypto.POST("/encrypt", handlers.Encrypt)
			crypto.POST("/decrypt", handlers.Decrypt)
		}

		v1.POST("/validate", handlers.Validate)

		array := v1.Group("/array")
		{
			array.POST("/unique", handlers.ArrayUnique)
			array.POST("/chunk", handlers.ArrayChunk)
			array.POST("/pick", handlers.ArrayPick)
		}

		token := v1.Group("/token")
		{
			token.POST("/issue", handlers.IssueToken)
			token.POST("/verify", handlers.VerifyToken)
		}

		v1.GET("/ws/echo", handlers.EchoWS)
	}

	return router
}
