// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cincoin-asia/cincoin-backend/internal/config"
	"github.com/cincoin-asia/cincoin-backend/internal/handlers"
	"github.com/cincoin-asia/cincoin-backend/internal/middleware"
	"github.com/cincoin-asia/cincoin-backend/internal/services"
	"github.com/cincoin-asia/cincoin-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize services
	settingsService := services.NewSettingsService(db, cfg)
	storageService, _ := services.NewStorageService(cfg)
	paymentService := services.NewPaymentService(db, cfg)

	authService := services.NewAuthService(db, cfg, settingsService)
	productService := services.NewProductService(db, settingsService, paymentService)
	negotiationService := services.NewNegotiationService(db)
	exchangeService := services.NewExchangeService(db, settingsService)
	walletService := services.NewWalletService(db, settingsService, paymentService)
	bankService := services.NewBankService(db)
	companyService := services.NewCompanyService(db, storageService)
	adminService := services.NewAdminService(db, settingsService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	productHandler := handlers.NewProductHandler(productService, storageService)
	negotiationHandler := handlers.NewNegotiationHandler(negotiationService)
	exchangeHandler := handlers.NewExchangeHandler(exchangeService)
	walletHandler := handlers.NewWalletHandler(walletService)
	bankHandler := handlers.NewBankHandler(bankService)
	companyHandler := handlers.NewCompanyHandler(companyService, storageService)
	adminHandler := handlers.NewAdminHandler(adminService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg))
	r.Use(middleware.I18nMiddleware())
	r.Use(middleware.GeneralRateLimit())
	r.Use(middleware.AuditLogMiddleware(db))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.GET("/me", middleware.AuthRequired(), authHandler.GetProfile)
		}

		// CinPlace marketplace
		products := v1.Group("/products")
		{
			products.GET("", middleware.OptionalAuth(), productHandler.GetProducts)
			products.GET("/categories", productHandler.GetCategories)
			products.GET("/:id", middleware.OptionalAuth(), productHandler.GetProduct)
			products.GET("/:id/split", productHandler.PreviewSplit)

			protected := products.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.POST("", productHandler.CreateProduct)
				protected.PUT("/:id", productHandler.UpdateProduct)
				protected.DELETE("/:id", productHandler.DeleteProduct)
				protected.POST("/:id/purchase", productHandler.Purchase)
				protected.POST("/upload-images", middleware.UploadRateLimit(), productHandler.UploadImages)
			}
		}

		// Purchase history
		orders := v1.Group("/orders")
		orders.Use(middleware.AuthRequired())
		{
			orders.GET("", productHandler.GetOrders)
		}

		// Negotiations
		negotiations := v1.Group("/negotiations")
		negotiations.Use(middleware.AuthRequired())
		{
			negotiations.POST("", negotiationHandler.CreateNegotiation)
			negotiations.GET("", negotiationHandler.GetNegotiations)
			negotiations.GET("/:id", negotiationHandler.GetNegotiation)
			negotiations.POST("/:id/decide", negotiationHandler.Decide)
		}

		// Public supply report
		v1.GET("/transparency", exchangeHandler.GetTransparency)

		// Exchange
		exchange := v1.Group("/exchange")
		{
			exchange.GET("/price", exchangeHandler.GetPrice)
			exchange.GET("/queue/status", exchangeHandler.GetQueueStatus)

			protected := exchange.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.POST("/buy", exchangeHandler.BuyTokens)
				protected.POST("/sell-orders", exchangeHandler.CreateSellOrder)
				protected.GET("/sell-orders", exchangeHandler.GetUserSellOrders)
				protected.DELETE("/sell-orders/:id", exchangeHandler.RemoveSellOrder)
			}
		}

		// Wallet
		wallet := v1.Group("/wallet")
		wallet.Use(middleware.AuthRequired())
		{
			wallet.GET("/balance", walletHandler.GetBalance)
			wallet.POST("/send", walletHandler.SendTokens)
			wallet.POST("/deposit", walletHandler.Deposit)
			wallet.POST("/withdraw", walletHandler.Withdraw)
			wallet.POST("/deposit/:id/confirm", walletHandler.ConfirmDeposit)
			wallet.GET("/transactions", walletHandler.GetTransactions)
			wallet.GET("/history", walletHandler.GetBalanceHistory)
		}

		// CinBank
		bank := v1.Group("/bank")
		bank.Use(middleware.AuthRequired())
		{
			bank.GET("/assets", bankHandler.GetAssets)
			bank.POST("/invest", bankHandler.Invest)
			bank.POST("/assets/:id/redeem", bankHandler.Redeem)
			bank.POST("/card", bankHandler.RequestCard)
		}

		// Cinbusca directory
		companies := v1.Group("/companies")
		{
			companies.GET("", middleware.OptionalAuth(), companyHandler.GetCompanies)
			companies.GET("/:id", companyHandler.GetCompany)

			protected := companies.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.POST("", companyHandler.Register)
				protected.POST("/:id/documents", middleware.UploadRateLimit(), companyHandler.UploadDocuments)
			}
		}

		// Referrals
		referrals := v1.Group("/referrals")
		referrals.Use(middleware.AuthRequired())
		{
			referrals.GET("", adminHandler.GetMyReferrals)
			referrals.GET("/commissions", adminHandler.GetMyCommissions)
		}

		// Admin routes
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			admin.GET("/dashboard", adminHandler.GetDashboard)

			adminUsers := admin.Group("/users")
			{
				adminUsers.GET("", adminHandler.GetUsers)
				adminUsers.PUT("/:id/status", adminHandler.UpdateUserStatus)
				adminUsers.POST("/:id/kyc", adminHandler.VerifyKYC)
			}

			admin.POST("/orders/:id/refund", productHandler.RefundOrder)

			adminExchange := admin.Group("/exchange")
			{
				adminExchange.PUT("/price", exchangeHandler.SetPrice)
				adminExchange.GET("/queue", exchangeHandler.GetQueue)
				adminExchange.POST("/sell-orders/:id/advance", exchangeHandler.AdvanceSellOrder)
			}

			adminCompanies := admin.Group("/companies")
			{
				adminCompanies.GET("/:id/documents", companyHandler.GetDocuments)
				adminCompanies.POST("/:id/review", companyHandler.Review)
			}

			admin.GET("/commissions", adminHandler.GetCommissions)

			adminSettings := admin.Group("/settings")
			{
				adminSettings.GET("", adminHandler.GetSettings)
				adminSettings.PUT("", adminHandler.UpdateSetting)
			}

			admin.GET("/audit-logs", adminHandler.GetAuditLogs)
		}
	}

	// Static file serving (for development)
	if cfg.Environment == "development" {
		r.Static("/uploads", "./uploads")
	}

	return r
}
