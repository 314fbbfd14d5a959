package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/xecuteapp/backend/internal/requestdata"
	"github.com/xecuteapp/backend/internal/services"
)

type UserHandler struct {
	userService      services.UserService
	statsService     services.StatsService
	gameStateService services.GameStateService
}

func NewUserHandler(
	userService services.UserService,
	statsService services.StatsService,
	gameStateService services.GameStateService,
) *UserHandler {
	return &UserHandler{
		userService:      userService,
		statsService:     statsService,
		gameStateService: gameStateService,
	}
}

func (uh *UserHandler) GetMe(c *gin.Context) {
	userID := requestdata.UserID(c.Request.Context())
	me, err := uh.userService.GetMe(c.Request.Context(), userID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"user": me})
}

func (uh *UserHandler) UpdateMe(c *gin.Context) {
	var req services.UpdateUserInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", errors.New("Invalid request body"))
		return
	}
	userID := requestdata.UserID(c.Request.Context())
	updated, err := uh.userService.UpdateMe(c.Request.Context(), userID, req)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"user": updated})
}

func (uh *UserHandler) GetStats(c *gin.Context) {
	userID := requestdata.UserID(c.Request.Context())
	view, err := uh.statsService.GetView(c.Request.Context(), userID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, view)
}

func (uh *UserHandler) GetGameState(c *gin.Context) {
	userID := requestdata.UserID(c.Request.Context())
	state, err := uh.gameStateService.Get(c.Request.Context(), userID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, state)
}

func (uh *UserHandler) ListCoachingLogs(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			RespondError(c, http.StatusBadRequest, "invalid_limit", errors.New("The limit must be a positive integer"))
			return
		}
		limit = parsed
	}
	userID := requestdata.UserID(c.Request.Context())
	logs, err := uh.userService.ListCoachingLogs(c.Request.Context(), userID, limit)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"coaching_logs": logs})
}
