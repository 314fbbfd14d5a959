package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/xecuteapp/backend/internal/requestdata"
	"github.com/xecuteapp/backend/internal/services"
)

type IntentionHandler struct {
	intentionService services.IntentionService
}

func NewIntentionHandler(intentionService services.IntentionService) *IntentionHandler {
	return &IntentionHandler{intentionService: intentionService}
}

// Create responds 201 with the persisted intention, or 200 with coach
// feedback when the intention needs refinement first.
func (ih *IntentionHandler) Create(c *gin.Context) {
	var req services.CreateIntentionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", errors.New("Invalid request body"))
		return
	}
	userID := requestdata.UserID(c.Request.Context())
	decision, err := ih.intentionService.Create(c.Request.Context(), userID, req)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	if decision.NeedsRefinement {
		RespondOK(c, decision)
		return
	}
	RespondCreated(c, decision)
}

func (ih *IntentionHandler) GetToday(c *gin.Context) {
	userID := requestdata.UserID(c.Request.Context())
	view, err := ih.intentionService.GetToday(c.Request.Context(), userID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, view)
}

func (ih *IntentionHandler) UpdateProgress(c *gin.Context) {
	var req struct {
		CompletedQuantity *int `json:"completed_quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.CompletedQuantity == nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", errors.New("A completed_quantity is required"))
		return
	}
	userID := requestdata.UserID(c.Request.Context())
	view, err := ih.intentionService.UpdateProgress(c.Request.Context(), userID, *req.CompletedQuantity)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, view)
}

func (ih *IntentionHandler) Complete(c *gin.Context) {
	userID := requestdata.UserID(c.Request.Context())
	dayClose, err := ih.intentionService.Complete(c.Request.Context(), userID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, dayClose)
}

func (ih *IntentionHandler) Fail(c *gin.Context) {
	userID := requestdata.UserID(c.Request.Context())
	dayClose, err := ih.intentionService.Fail(c.Request.Context(), userID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, dayClose)
}
