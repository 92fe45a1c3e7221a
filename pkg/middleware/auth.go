package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/asamarka-625/ApplicationSystem/internal/entities"
	"github.com/asamarka-625/ApplicationSystem/pkg/api"
	"github.com/asamarka-625/ApplicationSystem/pkg/contextkeys"
	apperrors "github.com/asamarka-625/ApplicationSystem/pkg/errors"
	"github.com/asamarka-625/ApplicationSystem/pkg/service"
)

// ActorResolver превращает id пользователя в актора с ролью и профилем.
type ActorResolver interface {
	FindActorByUserID(ctx context.Context, userID uint64) (*entities.Actor, error)
}

type AuthMiddleware struct {
	jwtService    service.JWTService
	actorResolver ActorResolver
	logger        *zap.Logger
}

func NewAuthMiddleware(jwtSvc service.JWTService, actorResolver ActorResolver, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService:    jwtSvc,
		actorResolver: actorResolver,
		logger:        logger,
	}
}

// Auth проверяет Bearer-токен и кладет UserID в контекст запроса.
func (m *AuthMiddleware) Auth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			m.logger.Warn("AuthMiddleware: пустой заголовок Authorization")
			return api.ErrorResponse(c, apperrors.ErrEmptyAuthHeader)
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			m.logger.Warn("AuthMiddleware: неверный формат заголовка Authorization")
			return api.ErrorResponse(c, apperrors.ErrInvalidAuthHeader)
		}

		claims, err := m.jwtService.ValidateToken(parts[1])
		if err != nil {
			m.logger.Warn("AuthMiddleware: ошибка валидации токена", zap.Error(err))
			return api.ErrorResponse(c, err)
		}
		if claims.IsRefreshToken {
			m.logger.Warn("AuthMiddleware: попытка доступа с refresh токеном")
			return api.ErrorResponse(c, apperrors.ErrTokenIsNotAccess)
		}

		ctx := context.WithValue(c.Request().Context(), contextkeys.UserIDKey, claims.UserID)
		c.SetRequest(c.Request().WithContext(ctx))
		return next(c)
	}
}

// Actor резолвит роль и профиль пользователя один раз на запрос.
// Должен стоять после Auth.
func (m *AuthMiddleware) Actor(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		userID, ok := ctx.Value(contextkeys.UserIDKey).(uint64)
		if !ok || userID == 0 {
			return api.ErrorResponse(c, apperrors.ErrUserIDNotFoundInContext)
		}

		actor, err := m.actorResolver.FindActorByUserID(ctx, userID)
		if err != nil {
			m.logger.Warn("ActorMiddleware: не удалось определить роль пользователя",
				zap.Uint64("userId", userID), zap.Error(err))
			return api.ErrorResponse(c, err)
		}

		ctx = context.WithValue(ctx, contextkeys.ActorKey, *actor)
		c.SetRequest(c.Request().WithContext(ctx))
		return next(c)
	}
}
