// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dravik/licensing-console/internal/config"
	"github.com/dravik/licensing-console/internal/handlers"
	"github.com/dravik/licensing-console/internal/metrics"
	"github.com/dravik/licensing-console/internal/middleware"
	"github.com/dravik/licensing-console/internal/models"
	"github.com/dravik/licensing-console/internal/services"
	"github.com/dravik/licensing-console/internal/session"
	"github.com/dravik/licensing-console/internal/utils"
	"github.com/dravik/licensing-console/internal/wallet"
)

// Version is reported by the health check.
const Version = "1.0.0"

// Deps are the collaborators the console is built from.
type Deps struct {
	Backend   services.Backend
	Wallet    wallet.Provider
	Sessions  *session.Manager
	Templates *services.TemplateService
	Metrics   *metrics.Metrics
}

// Console is the assembled HTTP surface.
type Console struct {
	Engine *gin.Engine

	limiters []*middleware.RateLimiter
}

// Close stops the background work of the rate limiters.
func (c *Console) Close() {
	for _, l := range c.limiters {
		l.Stop()
	}
}

func Initialize(cfg *config.Config, deps Deps) *Console {
	media := services.MediaSettings{
		IPFSGateway:      cfg.Media.IPFSGateway,
		ExplorerURL:      cfg.Media.ExplorerURL,
		PlaceholderImage: cfg.Media.PlaceholderImage,
	}
	network := services.NetworkSettings{
		ChainID:    cfg.Wallet.ChainID,
		ChainName:  cfg.Wallet.ChainName,
		PaymentTag: models.PaymentTag(cfg.Wallet.PaymentTag),
	}
	m := deps.Metrics
	if m == nil {
		m = metrics.New()
	}

	// Initialize services
	workspaces := services.NewWorkspaces()
	authService := services.NewAuthService(deps.Backend, deps.Sessions, workspaces)
	dashboardService := services.NewDashboardService(deps.Backend, media)
	assetService := services.NewAssetService(deps.Backend, deps.Templates, media)
	listingService := services.NewListingService(deps.Backend, media)
	purchaseService := services.NewPurchaseService(deps.Backend, deps.Wallet, network, media, m)
	ipfiService := services.NewIPFiService(deps.Backend, media, m)
	licenseService := services.NewLicenseService(deps.Backend, media)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	ipAssetHandler := handlers.NewIPAssetHandler(assetService)
	licenseHandler := handlers.NewLicenseHandler(licenseService, listingService)
	paymentHandler := handlers.NewPaymentHandler(purchaseService)
	ipfiHandler := handlers.NewIPFiHandler(ipfiService)

	generalLimiter := middleware.PerMinute(cfg.RateLimit.RequestsPerMinute)
	actionLimiter := middleware.PerMinute(cfg.RateLimit.ActionsPerMinute)
	console := &Console{limiters: []*middleware.RateLimiter{generalLimiter, actionLimiter}}

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(m.Instrument())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.I18nMiddleware(cfg.I18n.DefaultLocale))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": Version,
		})
	})
	r.GET("/metrics", gin.WrapH(m.Handler()))

	public := r.Group("")
	public.Use(generalLimiter.Middleware(), middleware.OptionalSession(authService))
	{
		public.GET("/", dashboardHandler.Home)
		public.GET("/login", authHandler.LoginPage)
		public.GET("/signup", authHandler.SignupPage)
		public.POST("/login", actionLimiter.Middleware(), authHandler.Login)
		public.POST("/signup", actionLimiter.Middleware(), authHandler.Signup)
		public.POST("/logout", authHandler.Logout)
	}

	// Pages behind the session gate
	gated := r.Group("")
	gated.Use(generalLimiter.Middleware(), middleware.SessionRequired(authService))
	{
		gated.GET("/assets", ipAssetHandler.GetAssets)

		register := gated.Group("/register")
		{
			register.GET("", ipAssetHandler.RegisterPage)
			register.PUT("/draft", ipAssetHandler.UpdateDraft)
			register.POST("/template", ipAssetHandler.SelectTemplate)
			register.POST("", actionLimiter.Middleware(), ipAssetHandler.Register)
		}

		ipfi := gated.Group("/ipfi-dashboard")
		{
			ipfi.GET("", ipfiHandler.Dashboard)
			ipfi.POST("/:ipId/claim", actionLimiter.Middleware(), ipfiHandler.Claim)
		}

		market := gated.Group("/marketplace")
		{
			market.GET("", paymentHandler.Marketplace)
			market.POST("/listings/:id/buy", actionLimiter.Middleware(), paymentHandler.Buy)
			market.GET("/add", licenseHandler.ListingPage)
			market.POST("/add/:ipId", actionLimiter.Middleware(), licenseHandler.ListAsset)
		}

		gated.GET("/my-licenses", licenseHandler.GetMyLicenses)
	}

	r.NoRoute(func(c *gin.Context) {
		utils.NotFoundResponse(c, "")
	})

	console.Engine = r
	return console
}
