package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/xecuteapp/backend/internal/requestdata"
	"github.com/xecuteapp/backend/internal/services"
)

type ResultHandler struct {
	resultService services.ResultService
}

func NewResultHandler(resultService services.ResultService) *ResultHandler {
	return &ResultHandler{resultService: resultService}
}

// GetByIntentionID looks up the result for one intention; the path id is the
// intention's, not the result's.
func (rh *ResultHandler) GetByIntentionID(c *gin.Context) {
	intentionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", errors.New("Invalid intention id"))
		return
	}
	userID := requestdata.UserID(c.Request.Context())
	result, err := rh.resultService.GetByIntentionID(c.Request.Context(), userID, intentionID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"result": result})
}

func (rh *ResultHandler) SubmitRecovery(c *gin.Context) {
	resultID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", errors.New("Invalid result id"))
		return
	}
	var req struct {
		Response string `json:"response"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", errors.New("Invalid request body"))
		return
	}
	userID := requestdata.UserID(c.Request.Context())
	submission, err := rh.resultService.SubmitRecovery(c.Request.Context(), userID, resultID, req.Response)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, submission)
}
