package routes

import (
	"fmt"

	"docqa-service/internal/config"
	"docqa-service/services"
	"docqa-service/templates"

	"github.com/gin-gonic/gin"
)

// IndexStats is the read-only view of the vector index used by /ready.
type IndexStats interface {
	Len() int
}

// Dependencies are the services built at startup and shared by every handler.
type Dependencies struct {
	Config  *config.Config
	Service *services.QAService
	Index   IndexStats
	Health  *services.HealthMonitor
}

// SetupRoutes registers pages, health probes and the question-answering API.
// The user and history endpoints exist only when quota tracking is enabled.
func SetupRoutes(router *gin.Engine, deps Dependencies) error {
	pages, err := templates.Parse()
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}
	router.SetHTMLTemplate(pages)

	SetupPageRoutes(router, deps.Config, deps.Service.QuotaEnabled())
	SetupHealthRoutes(router, deps.Index, deps.Health)
	SetupAskRoutes(router, deps.Service)
	if deps.Service.QuotaEnabled() {
		SetupUserRoutes(router, deps.Service)
	}
	return nil
}
