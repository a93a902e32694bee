package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

var (
	limitersMu sync.Mutex
	limiters   = make(map[string]*rate.Limiter)
)

func getLimiter(clientIP string) *rate.Limiter {
	limitersMu.Lock()
	defer limitersMu.Unlock()

	limiter, ok := limiters[clientIP]
	if !ok {
		limiter = rate.NewLimiter(rate.Every(time.Second), 2)
		limiters[clientIP] = limiter
	}
	return limiter
}

// rateLimit creates a gin middleware throttling each client IP separately.
func (server *Server) rateLimit(c *gin.Context) {
	limiter := getLimiter(c.ClientIP())

	if !limiter.Allow() {
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"status": http.StatusTooManyRequests, "msg": "Too Many Requests"})
		return
	}

	c.Next()
}
