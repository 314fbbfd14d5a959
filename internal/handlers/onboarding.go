package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/xecuteapp/backend/internal/requestdata"
	"github.com/xecuteapp/backend/internal/services"
)

type OnboardingHandler struct {
	onboardingService services.OnboardingService
}

func NewOnboardingHandler(onboardingService services.OnboardingService) *OnboardingHandler {
	return &OnboardingHandler{onboardingService: onboardingService}
}

func (oh *OnboardingHandler) SubmitStep(c *gin.Context) {
	var req struct {
		Answer string `json:"answer"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", errors.New("Invalid request body"))
		return
	}
	userID := requestdata.UserID(c.Request.Context())
	result, err := oh.onboardingService.SubmitStep(c.Request.Context(), userID, req.Answer)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, result)
}
