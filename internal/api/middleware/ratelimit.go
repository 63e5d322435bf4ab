package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/Conceptual-Machines/notegen-api/internal/logger"
)

const (
	requestsPerMinute = 60
	burstSize         = 10
	staleClientAge    = 3 * time.Minute
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimit enforces a per-client token bucket of 60 requests per minute
// with a burst of 10. Limiters are keyed by client IP.
func RateLimit() gin.HandlerFunc {
	var (
		mu      sync.Mutex
		clients = make(map[string]*clientLimiter)
	)

	// Evict limiters for clients that have gone quiet
	go func() {
		for range time.Tick(time.Minute) {
			mu.Lock()
			for ip, cl := range clients {
				if time.Since(cl.lastSeen) > staleClientAge {
					delete(clients, ip)
				}
			}
			mu.Unlock()
		}
	}()

	return func(c *gin.Context) {
		ip := c.ClientIP()

		mu.Lock()
		cl, ok := clients[ip]
		if !ok {
			cl = &clientLimiter{
				limiter: rate.NewLimiter(rate.Every(time.Minute/requestsPerMinute), burstSize),
			}
			clients[ip] = cl
		}
		cl.lastSeen = time.Now()
		allowed := cl.limiter.Allow()
		mu.Unlock()

		if !allowed {
			logger.Warn("Rate limit exceeded", logger.Fields{
				"request_id": c.GetString("request_id"),
				"client_ip":  ip,
				"path":       c.Request.URL.Path,
			})
			c.Header("Retry-After", "60")
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":   "Rate limit exceeded",
				"message": "Too many requests, retry in a minute",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
