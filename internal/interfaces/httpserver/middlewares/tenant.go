package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	tenantIDHeader     = "X-Tenant-Id"
	tenantIDContextKey = "tenant_id"
)

// RequireTenant rejects requests without an X-Tenant-Id header. Tenant
// identity arrives from the edge proxy which has already authenticated the
// session; this service trusts the header inside the private network.
func RequireTenant() gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID := strings.TrimSpace(c.GetHeader(tenantIDHeader))
		if tenantID == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "missing X-Tenant-Id header"})
			return
		}
		c.Set(tenantIDContextKey, tenantID)
		c.Next()
	}
}

// GetTenantIDFromContext returns the tenant id stored by RequireTenant.
func GetTenantIDFromContext(c *gin.Context) string {
	return c.GetString(tenantIDContextKey)
}
