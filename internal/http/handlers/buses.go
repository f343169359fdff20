package handlers

import (
	"intercity/internal/domain/models"

	"github.com/gin-gonic/gin"
)

// ListBuses serves GET /api/buses?destination=&type=.
func ListBuses(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		buses, err := d.busService(c).List(c.Request.Context(), models.BusFilter{
			Destination: c.Query("destination"),
			Type:        c.Query("type"),
		})
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		respondOK(c, buses, gin.H{"count": len(buses)})
	}
}

// TrendingRoutes serves GET /api/trending-routes.
func TrendingRoutes(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		routes, err := d.busService(c).Trending(c.Request.Context())
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		respondOK(c, routes, nil)
	}
}
