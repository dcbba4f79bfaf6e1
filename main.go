package main

import (
	"log"
	"os"

	"payment-service/internal/consumers"
	"payment-service/internal/database"
	"payment-service/internal/gateway"
	"payment-service/internal/handlers"
	"payment-service/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found in current directory, trying parent")
		if err := godotenv.Load("../.env"); err != nil {
			log.Println("No .env file found, using system environment variables")
		}
	}

	if mode := os.Getenv("GIN_MODE"); mode != "" {
		gin.SetMode(mode)
	}

	// Initialize Database
	database.Connect()
	database.Migrate()
	db := database.DB

	// Init Services
	helperService := services.NewHelperService(db)

	// Gateway client: the simulator keeps the full flow testable without
	// reaching LigdiCash.
	var gatewayClient gateway.Client
	if os.Getenv("GATEWAY_MODE") == "simulation" {
		log.Println("Running with simulated payment gateway")
		gatewayClient = gateway.NewSimulatorClient(db)
	} else {
		gatewayClient = gateway.NewLigdiCashClient(gateway.ConfigFromEnv())
	}

	reconcileService := services.NewReconcileService(db, helperService)
	paymentService := services.NewPaymentService(db, helperService, gatewayClient, reconcileService)
	walletService := services.NewWalletService(db, helperService)

	// Redis/Asynq Client
	redisAddr := os.Getenv("REDIS_URL")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr})
	defer asynqClient.Close()

	processor := consumers.NewCallbackProcessor(db, helperService, reconcileService)

	// Handlers
	callbackHandler := handlers.NewCallbackHandler(asynqClient, processor)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	walletHandler := handlers.NewWalletHandler(walletService)

	// Initialize Gin
	r := gin.Default()

	// Ping endpoint
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "Welcome to SendyGo payment service",
		})
	})

	// Payment Routes
	r.POST("/payments/deposit", paymentHandler.Deposit)
	r.POST("/payments/withdraw", paymentHandler.Withdraw)
	r.POST("/payments/pay", paymentHandler.Pay)
	r.GET("/payments/status", paymentHandler.Status)

	// Gateway callback
	r.POST("/callbacks/ligdicash", callbackHandler.HandleCallback)

	// Wallet Routes
	r.POST("/wallets", walletHandler.CreateWallet)
	r.GET("/wallets/:user_id/balance", walletHandler.GetBalance)
	r.GET("/wallets/:user_id/transactions", walletHandler.GetTransactions)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Start Cron Schedulers
	paymentService.StartScheduler()

	log.Printf("HTTP Server starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server: ", err)
	}
}
