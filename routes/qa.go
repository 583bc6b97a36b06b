package routes

import (
	"net/http"

	"docqa-service/models"
	"docqa-service/services"
	"docqa-service/utils"

	"github.com/gin-gonic/gin"
)

func SetupAskRoutes(router *gin.Engine, svc *services.QAService) {
	router.POST("/ask", func(c *gin.Context) {
		var req models.AskRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request data", gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := utils.WithAnswerTimeout(c.Request.Context())
		defer cancel()

		answer, err := svc.Ask(ctx, req.UserID, req.Question)
		if err != nil {
			respondWithServiceError(c, "Failed to answer question", err)
			return
		}

		c.JSON(http.StatusOK, models.AskResponse{
			Answer:  answer.Text,
			Sources: answer.Sources,
		})
	})
}

func SetupUserRoutes(router *gin.Engine, svc *services.QAService) {
	// Register a new user or spend one unit of an existing user's quota
	router.POST("/user", func(c *gin.Context) {
		var req models.RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request data", gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := utils.WithTimeout(c.Request.Context())
		defer cancel()

		resp, err := svc.Register(ctx, req)
		if err != nil {
			respondWithServiceError(c, "Failed to register user", err)
			return
		}

		status := http.StatusOK
		if resp.Status == services.RegisterStatusCreated {
			status = http.StatusCreated
		}
		c.JSON(status, resp)
	})

	// Most recent answered questions, newest first
	router.POST("/user/queries", func(c *gin.Context) {
		var req models.HistoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request data", gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := utils.WithTimeout(c.Request.Context())
		defer cancel()

		records, err := svc.History(ctx, req.UserID)
		if err != nil {
			respondWithServiceError(c, "Failed to load query history", err)
			return
		}

		c.JSON(http.StatusOK, models.HistoryResponse{Queries: records})
	})
}
