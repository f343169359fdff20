package api

import (
	"log"
	stdhttp "net/http"

	intconfig "intercity/internal/config"
	h "intercity/internal/http/handlers"
	"intercity/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

func NewRouter(env intconfig.Env, deps *h.Deps) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(),
		gin.Recovery(),
		middleware.CORS(env.CORSAllowedOrigins),
		middleware.SessionOptional(deps.Signer),
	)

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"success": false,
			"error":   "route not found",
			"path":    c.Request.URL.Path,
			"method":  c.Request.Method,
		})
	})

	searchLimit := middleware.NewRateLimiter(env.SearchRatePerMin)

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)
		api.GET("/routes", h.Routes)

		// Search
		api.GET("/search-suggestions", searchLimit.Limit(), h.SearchSuggestions(deps))
		api.GET("/buses", h.ListBuses(deps))
		api.GET("/trending-routes", h.TrendingRoutes(deps))

		// Bookings
		bookings := api.Group("/bookings")
		bookings.POST("", h.CreateBooking(deps))
		bookings.GET("", h.GetBooking(deps))
		bookings.GET("/:ref/e-ticket", h.BookingETicketPDF(deps))
		bookings.GET("/:ref/invoice", h.BookingInvoicePDF(deps))
		api.GET("/user-bookings", h.UserBookings(deps))
		api.GET("/recent-bookings", h.RecentBookings(deps))

		// Passengers
		api.POST("/sessions", h.CreateSession(deps))
		api.POST("/feedback", h.CreateFeedback(deps))
	}

	return r
}
