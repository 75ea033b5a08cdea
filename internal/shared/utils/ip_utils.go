package utils

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

const fallbackIP = "127.0.0.1"

// ExtractClientIP resolves the caller's address. The first X-Forwarded-For
// hop wins, then X-Real-IP, then the socket address.
func ExtractClientIP(c *gin.Context) string {
	candidates := make([]string, 0, 3)
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		candidates = append(candidates, strings.TrimSpace(first))
	}
	candidates = append(candidates, strings.TrimSpace(c.GetHeader("X-Real-IP")))

	remote := c.Request.RemoteAddr
	if host, _, err := net.SplitHostPort(remote); err == nil {
		remote = host
	}
	candidates = append(candidates, remote)

	for _, ip := range candidates {
		if net.ParseIP(ip) != nil {
			return ip
		}
	}
	return fallbackIP
}
