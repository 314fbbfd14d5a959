package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/xecuteapp/backend/internal/requestdata"
	"github.com/xecuteapp/backend/internal/services"
)

type FocusBlockHandler struct {
	focusBlockService services.FocusBlockService
}

func NewFocusBlockHandler(focusBlockService services.FocusBlockService) *FocusBlockHandler {
	return &FocusBlockHandler{focusBlockService: focusBlockService}
}

func (fh *FocusBlockHandler) Create(c *gin.Context) {
	var req services.CreateFocusBlockInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", errors.New("Invalid request body"))
		return
	}
	userID := requestdata.UserID(c.Request.Context())
	block, err := fh.focusBlockService.Create(c.Request.Context(), userID, req)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondCreated(c, gin.H{"block": block})
}

func (fh *FocusBlockHandler) Start(c *gin.Context) {
	blockID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", errors.New("Invalid focus block id"))
		return
	}
	userID := requestdata.UserID(c.Request.Context())
	block, err := fh.focusBlockService.Start(c.Request.Context(), userID, blockID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"block": block})
}

func (fh *FocusBlockHandler) Update(c *gin.Context) {
	blockID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", errors.New("Invalid focus block id"))
		return
	}
	var req services.UpdateFocusBlockInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", errors.New("Invalid request body"))
		return
	}
	userID := requestdata.UserID(c.Request.Context())
	result, err := fh.focusBlockService.Update(c.Request.Context(), userID, blockID, req)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, result)
}
