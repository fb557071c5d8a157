package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/digistore/internal/config"
)

var maintenanceAllowed = []string{"/healthz", "/api/admin/", "/api/user/login"}

// Maintenance answers 503 to customer traffic while the maintenance flag is set.
// Health checks, admin endpoints and login stay reachable.
func Maintenance(flags config.Flags) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !flags.MaintenanceMode {
			c.Next()
			return
		}
		path := c.Request.URL.Path
		for _, prefix := range maintenanceAllowed {
			if path == strings.TrimSuffix(prefix, "/") || strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}
		c.Header("Retry-After", "120")
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "service is under maintenance"})
	}
}
