package utils

import (
	"context"

	"github.com/asamarka-625/ApplicationSystem/internal/entities"
	"github.com/asamarka-625/ApplicationSystem/pkg/contextkeys"
	apperrors "github.com/asamarka-625/ApplicationSystem/pkg/errors"
)

func GetUserIDFromCtx(ctx context.Context) (uint64, error) {
	userID, ok := ctx.Value(contextkeys.UserIDKey).(uint64)
	if !ok || userID == 0 {
		return 0, apperrors.ErrUserIDNotFoundInContext
	}
	return userID, nil
}

func GetActorFromCtx(ctx context.Context) (entities.Actor, error) {
	actor, ok := ctx.Value(contextkeys.ActorKey).(entities.Actor)
	if !ok || actor.UserID == 0 {
		return entities.Actor{}, apperrors.ErrActorNotFoundInContext
	}
	return actor, nil
}
