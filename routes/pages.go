package routes

import (
	"net/http"

	"docqa-service/internal/config"

	"github.com/gin-gonic/gin"
)

const pageTitle = "Document Q&A"

func SetupPageRoutes(router *gin.Engine, cfg *config.Config, quotaEnabled bool) {
	// Landing page
	router.GET("/", func(c *gin.Context) {
		c.HTML(http.StatusOK, "index.html", gin.H{
			"Title":        pageTitle,
			"QuotaEnabled": quotaEnabled,
			"QuotaLimit":   cfg.QuotaLimit,
		})
	})

	// History page
	router.GET("/search", func(c *gin.Context) {
		c.HTML(http.StatusOK, "search.html", gin.H{
			"Title":        pageTitle,
			"HistoryLimit": cfg.HistoryLimit,
		})
	})
}
