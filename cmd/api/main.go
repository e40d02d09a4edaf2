package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	firebase "firebase.google.com/go"
	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/rotinafit/entitlement-api/internal/application/command"
	"github.com/rotinafit/entitlement-api/internal/application/middleware"
	"github.com/rotinafit/entitlement-api/internal/infrastructure/config"
	"github.com/rotinafit/entitlement-api/internal/infrastructure/external/iap"
	"github.com/rotinafit/entitlement-api/internal/infrastructure/logging"
	fsrepo "github.com/rotinafit/entitlement-api/internal/infrastructure/persistence/firestore"
	"github.com/rotinafit/entitlement-api/internal/interfaces/http/handlers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logging.Init(&cfg.Sentry); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logging.Sync()

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
			Release:     cfg.Sentry.Release,
		}); err != nil {
			logging.Logger.Fatal("Failed to initialize Sentry", zap.Error(err))
		}
		defer sentry.Flush(2 * time.Second)
	}

	logging.Logger.Info("Starting entitlement API server",
		zap.Int("port", cfg.Server.Port),
		zap.String("environment", cfg.Sentry.Environment),
	)

	ctx := context.Background()

	// Firestore
	fbApp, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.Firestore.ProjectID})
	if err != nil {
		logging.Logger.Fatal("Failed to initialize Firebase app", zap.Error(err))
	}
	fsClient, err := fbApp.Firestore(ctx)
	if err != nil {
		logging.Logger.Fatal("Failed to create Firestore client", zap.Error(err))
	}
	defer fsClient.Close()

	// Redis
	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		logging.Logger.Fatal("Failed to parse Redis URL", zap.Error(err))
	}
	opts.PoolSize = cfg.Redis.PoolSize
	redisClient := redis.NewClient(opts)
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		logging.Logger.Fatal("Failed to ping Redis", zap.Error(err))
	}

	// Repositories and vendor validators. Credentials are injected here
	// once; nothing reads secrets at call time.
	entitlementRepo := fsrepo.NewEntitlementRepository(fsClient)
	appleVerifier := iap.NewAppleVerifier(cfg.IAP.AppleSharedSecret, logging.WithComponent("apple_verifier"))
	googleVerifier := iap.NewGoogleVerifier(cfg.IAP.GoogleKeyJSON, logging.WithComponent("google_verifier"))

	verifyCmd := command.NewVerifyPurchaseCommand(
		entitlementRepo,
		appleVerifier,
		googleVerifier,
		logging.WithComponent("verify_purchase"),
	)

	jwtMiddleware := middleware.NewJWTMiddleware(cfg.JWT.Secret, cfg.JWT.Issuer, redisClient)
	rateLimiter := middleware.NewRateLimiter(redisClient, true) // fail open

	verifyHandler := handlers.NewVerifyHandler(verifyCmd)
	entitlementHandler := handlers.NewEntitlementHandler(entitlementRepo)

	if cfg.Sentry.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		logging.RequestMiddleware(logging.Logger),
	)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/v1")
	v1.Use(jwtMiddleware.Authenticate())
	{
		v1.POST("/purchases/verify",
			rateLimiter.Middleware(middleware.ByUserID, middleware.VerifyConfig),
			verifyHandler.VerifyPurchase,
		)
		v1.GET("/entitlement",
			rateLimiter.Middleware(middleware.ByUserID, middleware.DefaultConfig),
			entitlementHandler.GetEntitlement,
		)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logging.Logger.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logging.Logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logging.Logger.Info("Server exited")
}
