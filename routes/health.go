package routes

import (
	"net/http"
	"time"

	"docqa-service/services"

	"github.com/gin-gonic/gin"
)

func SetupHealthRoutes(router *gin.Engine, index IndexStats, monitor *services.HealthMonitor) {
	// Liveness
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "timestamp": time.Now().UTC()})
	})

	// Readiness: index built and the last store check passed
	router.GET("/ready", func(c *gin.Context) {
		chunks := 0
		if index != nil {
			chunks = index.Len()
		}

		body := gin.H{"index_chunks": chunks}
		ready := chunks > 0

		if monitor != nil {
			status := monitor.Status()
			body["store"] = status
			ready = ready && status.Healthy
		}

		if ready {
			body["status"] = "ready"
			c.JSON(http.StatusOK, body)
			return
		}
		body["status"] = "not_ready"
		c.JSON(http.StatusServiceUnavailable, body)
	})
}
