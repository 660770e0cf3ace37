package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/protocolbanks/x402-api/internal/auth"
	"github.com/protocolbanks/x402-api/internal/client/chain"
	"github.com/protocolbanks/x402-api/internal/client/facilitator"
	"github.com/protocolbanks/x402-api/internal/client/relayer"
	"github.com/protocolbanks/x402-api/internal/config"
	"github.com/protocolbanks/x402-api/internal/db"
	"github.com/protocolbanks/x402-api/internal/handlers"
	"github.com/protocolbanks/x402-api/internal/logger"
	"github.com/protocolbanks/x402-api/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: .env file not found: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.InitLogger(cfg.Stage)
	defer logger.Sync()

	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Unable to connect to database", zap.Error(err))
	}
	defer pool.Close()

	queries := db.New(pool)

	// Services
	nonceService := services.NewNonceService(queries)
	authService := services.NewAuthorizationService(queries, nonceService)

	var (
		facilitatorClient services.FacilitatorClient
		supportedLister   handlers.SupportedLister
	)
	if cfg.FacilitatorURL != "" {
		fc := facilitator.NewClient(cfg.FacilitatorURL, cfg.FacilitatorAPIKey)
		facilitatorClient = fc
		supportedLister = fc
	}
	var relayerClient services.RelayerClient
	if cfg.RelayerURL != "" {
		relayerClient = relayer.NewClient(cfg.RelayerURL, cfg.RelayerAPIKey)
	}

	settlementService := services.NewSettlementService(services.SettlementServiceParams{
		Queries:     queries,
		AuthService: authService,
		Facilitator: facilitatorClient,
		Relayer:     relayerClient,
		Supported:   cfg.FacilitatorSupported,
		FeeBps:      cfg.RelayerFeeBps,
		FeeCap:      cfg.RelayerFeeCap,
	})

	var checker services.ReceiptChecker
	if cfg.ConfirmOnChain {
		checker = chain.NewReceiptChecker(cfg.RPCURLs)
	}
	verificationService := services.NewVerificationService(queries, authService, checker)

	common := handlers.NewCommonServices(authService, settlementService, verificationService, supportedLister, cfg)
	x402Handler := handlers.NewX402Handler(common)
	healthHandler := handlers.NewHealthHandler()

	if cfg.Stage == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-API-Key"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	initializeRoutes(router, queries, x402Handler, healthHandler)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: router,
	}

	go func() {
		logger.Info("Server starting", zap.String("port", cfg.Port), zap.String("stage", cfg.Stage))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exiting")
}

func initializeRoutes(router *gin.Engine, queries db.Querier, x402Handler *handlers.X402Handler, healthHandler *handlers.HealthHandler) {
	router.GET("/health", healthHandler.Health)

	v1 := router.Group("/api/v1")
	{
		protected := v1.Group("/")
		protected.Use(auth.EnsureValidAPIKey(queries))
		{
			x402 := protected.Group("/x402")
			{
				x402.POST("/authorizations", x402Handler.CreateAuthorization)
				x402.GET("/authorizations", x402Handler.ListAuthorizations)
				x402.GET("/authorizations/:id", x402Handler.GetAuthorization)
				x402.POST("/authorizations/:id/signature", x402Handler.SignAuthorization)
				x402.POST("/authorizations/:id/cancel", x402Handler.CancelAuthorization)
				x402.POST("/authorizations/:id/submit", x402Handler.SubmitAuthorization)
				x402.POST("/authorizations/:id/verify", x402Handler.VerifyAuthorization)
				x402.GET("/supported", x402Handler.GetSupportedNetworks)
			}
		}
	}
}
