package services

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/xecuteapp/backend/internal/platform/logger"
	"github.com/xecuteapp/backend/internal/repos"
	"github.com/xecuteapp/backend/internal/types"
)

// recordCoaching persists one coach exchange. Log writes are best effort and
// never fail the action that triggered them.
func recordCoaching(
	ctx context.Context,
	tx *gorm.DB,
	coachingLogRepo repos.CoachingLogRepo,
	log *logger.Logger,
	userID uuid.UUID,
	trigger string,
	userText string,
	feedback string,
	contextData map[string]any,
) {
	payload, err := json.Marshal(contextData)
	if err != nil {
		payload = []byte("{}")
	}
	entry := &types.CoachingLog{
		UserID:        userID,
		Trigger:       trigger,
		UserText:      userText,
		CoachFeedback: feedback,
		Context:       datatypes.JSON(payload),
	}
	if _, err := coachingLogRepo.Create(ctx, tx, []*types.CoachingLog{entry}); err != nil {
		log.Warn("Failed to write coaching log (ignored)", "user_id", userID, "trigger", trigger, "error", err)
	}
}
