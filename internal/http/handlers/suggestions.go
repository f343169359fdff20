package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// SearchSuggestions serves GET /api/search-suggestions?q=&ml=. It always
// answers 200; degraded results say so in status and reason.
func SearchSuggestions(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		res := d.suggestionService(c).Suggest(c.Request.Context(), c.Query("q"), semanticEnabled(c.Query("ml")))
		extra := gin.H{"status": res.Status}
		if res.Reason != "" {
			extra["reason"] = res.Reason
		}
		respondOK(c, res.Data, extra)
	}
}

// semanticEnabled treats anything but an explicit false as enabled.
func semanticEnabled(v string) bool {
	v = strings.TrimSpace(v)
	if v == "" {
		return true
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return true
	}
	return b
}
