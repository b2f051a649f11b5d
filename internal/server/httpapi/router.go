package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func init() {
	gin.SetMode(gin.ReleaseMode)
}

// Handler builds the gin engine with every route and middleware.
func (s *HTTPServer) Handler() http.Handler {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(requestID())
	r.Use(accessLog(s.logger))
	r.Use(metricsMiddleware())
	r.Use(cors())
	r.Use(requestTimeout(s.requestTimeout))

	r.GET("/", s.health)
	r.GET("/health", s.health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", s.register)
		authGroup.POST("/login", s.login)
		authGroup.POST("/refresh", RequireRefreshToken(), s.refresh)
		authGroup.POST("/logout", RequireAccessToken(s.sessions), s.logout)
	}

	tasks := r.Group("/tasks", RequireAccessToken(s.sessions))
	{
		tasks.GET("", s.listTasks)
		tasks.POST("", s.createTask)
		tasks.PUT("/:id", s.updateTask)
		tasks.DELETE("/:id", s.deleteTask)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	return r
}
