package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/grocerly/pos-backend/controllers"
	"github.com/grocerly/pos-backend/database"
	"github.com/grocerly/pos-backend/kafka"
	"github.com/grocerly/pos-backend/logger"
	"github.com/grocerly/pos-backend/notifications"
	"github.com/grocerly/pos-backend/realtime"
	"github.com/grocerly/pos-backend/repository"
	"github.com/grocerly/pos-backend/routes"
	"github.com/grocerly/pos-backend/services"
)

func main() {
	_ = godotenv.Load()

	cfg, err := LoadConfig()
	if err != nil {
		zap.NewExample().Fatal("Config load failed", zap.Error(err))
	}

	logger.Initialize(cfg.Env)
	defer zap.L().Sync()

	if err := database.Connect(cfg.MongoURL, cfg.MongoDB); err != nil {
		zap.L().Fatal("DB connection failed", zap.Error(err))
	}
	if err := database.EnsureIndexes(context.Background()); err != nil {
		zap.L().Fatal("Index creation failed", zap.Error(err))
	}

	redisClient := database.NewRedisClient(cfg.RedisURL)
	systemStore := database.NewSystemStore(redisClient)

	// Realtime fan-out
	hub := realtime.NewHub()
	notifications.Initialize(notifications.NewHubEmitter(hub))
	notifier := notifications.Default()

	// Audit trail (optional, the store runs fine without a broker)
	var audit services.AuditPublisher
	var producer *kafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
		audit = producer
	}

	// Repositories
	userRepo := repository.NewUserRepository(database.DB)
	productRepo := repository.NewProductRepository(database.DB)
	categoryRepo := repository.NewCategoryRepository(database.DB)
	txRepo := repository.NewTransactionRepository(database.DB)

	// Services
	jwtSecret := []byte(cfg.JWTSecret)
	authService := services.NewAuthService(userRepo, systemStore, notifier, audit, jwtSecret)
	userService := services.NewUserService(userRepo, notifier)
	productService := services.NewProductService(productRepo, categoryRepo, notifier)
	categoryService := services.NewCategoryService(categoryRepo)
	analyticsService := services.NewAnalyticsService(txRepo, notifier)
	txService := services.NewTransactionService(txRepo, productRepo, notifier, audit, analyticsService, cfg.VATRate)
	systemService := services.NewSystemService(systemStore, notifier)

	// Router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	routes.Register(r, routes.Deps{
		Auth:          controllers.NewAuthController(authService, jwtSecret),
		Users:         controllers.NewUserController(userService),
		Products:      controllers.NewProductController(productService),
		Categories:    controllers.NewCategoryController(categoryService),
		Transactions:  controllers.NewTransactionController(txService),
		Analytics:     controllers.NewAnalyticsController(analyticsService),
		System:        controllers.NewSystemController(systemService),
		WS:            controllers.NewWSController(hub, authService, jwtSecret),
		AuthService:   authService,
		SystemService: systemService,
		JWTSecret:     jwtSecret,
	})

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		zap.L().Info("POS backend started", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zap.L().Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zap.L().Info("Initiating graceful shutdown...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("Server shutdown error", zap.Error(err))
	}

	if producer != nil {
		if err := producer.Close(); err != nil {
			zap.L().Error("Kafka producer close error", zap.Error(err))
		}
	}
	if err := redisClient.Close(); err != nil {
		zap.L().Error("Redis close error", zap.Error(err))
	}
	if err := database.Close(); err != nil {
		zap.L().Error("Database close error", zap.Error(err))
	}

	zap.L().Info("POS backend stopped gracefully")
}
