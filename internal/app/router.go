// Package app assembles the HTTP API from its services.
package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"carteira/internal/auth"
	_ "carteira/internal/docs" // Import swagger docs
	"carteira/internal/handlers"
	"carteira/internal/ledger"
	"carteira/internal/middleware"
	"carteira/internal/services"
	"carteira/internal/validator"
)

// Deps are the services behind the router.
type Deps struct {
	Users  services.UserServicer
	Audit  services.AuditServicer
	Ledger services.LedgerServicer
	Tokens *middleware.TokenIssuer
}

// NewDeps wires the services over db and the entry store. Ledger options
// such as the sheet writer are passed through.
func NewDeps(db *gorm.DB, store ledger.Store, tokens *middleware.TokenIssuer, opts ...services.LedgerOption) Deps {
	return Deps{
		Users:  services.NewUserService(db),
		Audit:  services.NewAuditService(db),
		Ledger: services.NewLedgerService(store, auth.ContextProvider{}, opts...),
		Tokens: tokens,
	}
}

// NewRouter builds the gin engine with every route of the API.
func NewRouter(d Deps) *gin.Engine {
	validator.Register()

	authHandler := handlers.NewAuthHandler(d.Users, d.Audit, d.Tokens)
	ledgerHandler := handlers.NewLedgerHandler(d.Ledger, d.Audit)
	activityHandler := handlers.NewActivityHandler(d.Audit)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(cors())

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	// Public routes
	authRoutes := v1.Group("/auth")
	authRoutes.POST("/register", authHandler.Register)
	authRoutes.POST("/login", authHandler.Login)
	authRoutes.POST("/refresh", authHandler.Refresh)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware(d.Tokens))

	protected.POST("/auth/logout", authHandler.Logout)
	protected.GET("/profile", authHandler.GetProfile)
	protected.PUT("/profile", authHandler.UpdateProfile)
	protected.GET("/activity", activityHandler.ListActivity)

	entries := protected.Group("/ledger/:kind")
	entries.GET("", ledgerHandler.GetMonth)
	entries.POST("", ledgerHandler.CreateEntry)
	entries.GET("/stream", ledgerHandler.StreamMonth)
	entries.POST("/export", ledgerHandler.ExportMonth)
	entries.GET("/:id", ledgerHandler.GetEntry)
	entries.PATCH("/:id", ledgerHandler.UpdateEntry)
	entries.PUT("/:id/status", ledgerHandler.UpdateStatus)
	entries.DELETE("/:id", ledgerHandler.DeleteEntry)

	protected.POST("/import", ledgerHandler.Import)

	return router
}

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
