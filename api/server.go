package api

import (
	"time"

	"github.com/banachtech/optionsroi/marketdata"
	"github.com/gin-gonic/gin"
	cache "github.com/patrickmn/go-cache"
)

// Server serves HTTP requests for our options ROI service.
type Server struct {
	fetcher *marketdata.Fetcher
	cache   *cache.Cache
	router  *gin.Engine
}

// NewServer creates a new HTTP server and set up routing. Fetched data is
// cached for 15 minutes per (symbol, option type).
func NewServer(fetcher *marketdata.Fetcher) *Server {
	server := &Server{
		fetcher: fetcher,
		cache:   cache.New(15*time.Minute, 30*time.Minute),
	}

	server.setupRouter()
	return server
}

func (server *Server) setupRouter() {
	router := gin.Default()

	v1 := router.Group("/v1").Use(server.rateLimit)
	v1.GET("/quote/:symbol", server.quote)
	v1.GET("/options/:symbol", server.options)
	v1.POST("/scan", server.scan)
	server.router = router
}

// Start runs the HTTP server on a specific address.
func (server *Server) Start(address string) error {
	return server.router.Run(address)
}

func errorResponse(err error) gin.H {
	return gin.H{"error": err.Error()}
}
