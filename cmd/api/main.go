package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"dompet/internal/cardvault"
	"dompet/internal/config"
	"dompet/internal/database"
	"dompet/internal/events"
	"dompet/internal/handlers"
	"dompet/internal/logger"
	"dompet/internal/middleware"
	"dompet/internal/notify"
	"dompet/internal/services"
	"dompet/internal/validator"

	_ "dompet/internal/docs" // Import swagger docs
)

// @title           Dompet API
// @version         1.0
// @description     Dompet is a wallet ledger: wallets, income and expense transactions, transfers between wallets and spending-limit notifications.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT from the identity provider.

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	dbConfig, err := database.NewConfig(appConfig)
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer func() {
		if err := dbManager.Close(); err != nil {
			log.Warnw("failed to close database", "error", err)
		}
	}()

	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	sealer, derived, err := cardvault.FromHex(appConfig.CardSealingKey)
	if err != nil {
		return fmt.Errorf("failed to load card sealing key: %w", err)
	}
	if derived {
		log.Warn("CARD_SEALING_KEY not set, using the development key")
	}

	publisher := newPublisher(appConfig)
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Warnw("failed to close event publisher", "error", err)
		}
	}()

	validator.Register()

	// Services
	db := dbManager.DB()
	loc := appConfig.LedgerLocation
	walletService := services.NewWalletService(db)
	categoryService := services.NewCategoryService(db)
	transactionService := services.NewTransactionService(db)
	transferService := services.NewTransferService(db, appConfig.TransferChecksFrozen)
	notificationService := services.NewNotificationService(db, notify.NewEngine(loc), notify.NewSessionStore())
	cardService := services.NewCardService(db, sealer)
	preferencesService := services.NewPreferencesService(db)
	statsService := services.NewStatsService(db, loc)
	auditService := services.NewAuditService(db)

	routes := &handlers.Set{
		Wallet:       handlers.NewWalletHandler(walletService, notificationService, auditService),
		Category:     handlers.NewCategoryHandler(categoryService, auditService),
		Transaction:  handlers.NewTransactionHandler(transactionService, transferService, notificationService, publisher, auditService, loc),
		Notification: handlers.NewNotificationHandler(notificationService),
		Card:         handlers.NewCardHandler(cardService, auditService),
		Preferences:  handlers.NewPreferencesHandler(preferencesService),
		Stats:        handlers.NewStatsHandler(statsService, loc),
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/api/health", func(c *gin.Context) {
		if err := dbManager.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	v1.Use(middleware.AuthMiddleware())
	routes.Register(v1)

	log.Infow("Starting Dompet server",
		"port", appConfig.Port,
		"ledger_timezone", loc.String(),
		"db_driver", dbConfig.Driver,
	)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}

// newPublisher connects to the broker when AMQP_URL is set. Events are best
// effort, so a broker that is down at startup degrades to a no-op publisher.
func newPublisher(cfg *config.Config) events.Publisher {
	if cfg.AMQPURL == "" {
		return events.NewNop()
	}
	pub, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	if err != nil {
		logger.Get().Warnw("ledger events disabled, broker unreachable", "error", err)
		return events.NewNop()
	}
	return pub
}
