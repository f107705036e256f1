package ginserver

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"homestay/internal/infra/config"
	"homestay/internal/infra/obs"
)

type ViewerHTTP interface {
	SignIn(c *gin.Context)
	SignOut(c *gin.Context)
	ConnectWallet(c *gin.Context)
	DisconnectWallet(c *gin.Context)
}

type ListingHTTP interface {
	Catalog(c *gin.Context)
	Get(c *gin.Context)
	Calendar(c *gin.Context)
	Create(c *gin.Context)
}

type BookingHTTP interface {
	Commit(c *gin.Context)
	MyBookings(c *gin.Context)
}

type ReviewHTTP interface {
	Add(c *gin.Context)
	Delete(c *gin.Context)
}

type MessageHTTP interface {
	Send(c *gin.Context)
}

type Handlers struct {
	Viewer         ViewerHTTP
	Listing        ListingHTTP
	Booking        BookingHTTP
	Review         ReviewHTTP
	Message        MessageHTTP
	AuthMiddleware gin.HandlerFunc
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.RequestLog())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.PublicURL},
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "Idempotency-Key"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	if h.AuthMiddleware != nil {
		router.Use(h.AuthMiddleware)
	}

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")
	if h.Viewer != nil {
		api.POST("/auth/sign-in", h.Viewer.SignIn)
		api.POST("/auth/sign-out", h.Viewer.SignOut)
		api.POST("/wallet/connect", h.Viewer.ConnectWallet)
		api.DELETE("/wallet", h.Viewer.DisconnectWallet)
	}
	if h.Listing != nil {
		api.GET("/listings", h.Listing.Catalog)
		api.POST("/listings", h.Listing.Create)
		api.GET("/listings/:id", h.Listing.Get)
		api.GET("/listings/:id/calendar", h.Listing.Calendar)
	}
	if h.Booking != nil {
		api.POST("/bookings", h.Booking.Commit)
		api.GET("/me/bookings", h.Booking.MyBookings)
	}
	if h.Review != nil {
		api.POST("/listings/:id/reviews", h.Review.Add)
		api.DELETE("/listings/:id/reviews/:reviewId", h.Review.Delete)
	}
	if h.Message != nil {
		api.POST("/users/:id/messages", h.Message.Send)
	}

	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func configureGinMode(env string) string {
	switch env {
	case "dev", "local", "test":
		gin.SetMode(gin.DebugMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}
	return gin.Mode()
}
