package middleware

import (
	"net"

	"github.com/gin-gonic/gin"
)

// AllowPrivateIP is an AllowFunc that bypasses rate limiting for loopback
// and RFC 1918 addresses, used for health checks and internal probes.
func AllowPrivateIP(c *gin.Context) bool {
	ip := net.ParseIP(ipFromCtx(c))
	if ip == nil {
		return false
	}
	return ip.IsLoopback() || ip.IsPrivate()
}
