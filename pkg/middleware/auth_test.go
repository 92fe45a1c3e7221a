package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/asamarka-625/ApplicationSystem/internal/entities"
	"github.com/asamarka-625/ApplicationSystem/pkg/contextkeys"
	apperrors "github.com/asamarka-625/ApplicationSystem/pkg/errors"
	"github.com/asamarka-625/ApplicationSystem/pkg/service"
)

type stubResolver struct {
	actor *entities.Actor
	err   error
}

func (r stubResolver) FindActorByUserID(context.Context, uint64) (*entities.Actor, error) {
	return r.actor, r.err
}

func newJwtService() service.JWTService {
	return service.NewJWTService("test-secret", 15*time.Minute, 24*time.Hour)
}

func runMiddleware(t *testing.T, mw *AuthMiddleware, authHeader string) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	reached := false
	handler := mw.Auth(mw.Actor(func(c echo.Context) error {
		reached = true
		return c.NoContent(http.StatusOK)
	}))
	require.NoError(t, handler(c))
	return rec, reached
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	jwtSvc := newJwtService()
	access, _, err := jwtSvc.GenerateTokens(42)
	require.NoError(t, err)

	actor := &entities.Actor{UserID: 42, Role: entities.RoleSecretary, ProfileID: 1}
	mw := NewAuthMiddleware(jwtSvc, stubResolver{actor: actor}, zap.NewNop())

	rec, reached := runMiddleware(t, mw, "Bearer "+access)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, reached)
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	mw := NewAuthMiddleware(newJwtService(), stubResolver{}, zap.NewNop())

	rec, reached := runMiddleware(t, mw, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, reached)
}

func TestAuthMiddleware_BadHeaderFormat(t *testing.T) {
	mw := NewAuthMiddleware(newJwtService(), stubResolver{}, zap.NewNop())

	rec, reached := runMiddleware(t, mw, "Token abc")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, reached)
}

func TestAuthMiddleware_RefreshTokenRejected(t *testing.T) {
	jwtSvc := newJwtService()
	_, refresh, err := jwtSvc.GenerateTokens(42)
	require.NoError(t, err)

	mw := NewAuthMiddleware(jwtSvc, stubResolver{}, zap.NewNop())

	rec, reached := runMiddleware(t, mw, "Bearer "+refresh)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, reached)
}

func TestAuthMiddleware_ActorResolution(t *testing.T) {
	jwtSvc := newJwtService()
	access, _, err := jwtSvc.GenerateTokens(42)
	require.NoError(t, err)

	actor := &entities.Actor{UserID: 42, Role: entities.RoleJudge, ProfileID: 7}
	mw := NewAuthMiddleware(jwtSvc, stubResolver{actor: actor}, zap.NewNop())

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := mw.Auth(mw.Actor(func(c echo.Context) error {
		got, ok := c.Request().Context().Value(contextkeys.ActorKey).(entities.Actor)
		require.True(t, ok)
		assert.Equal(t, *actor, got)
		return c.NoContent(http.StatusOK)
	}))
	require.NoError(t, handler(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthMiddleware_UnknownUser(t *testing.T) {
	jwtSvc := newJwtService()
	access, _, err := jwtSvc.GenerateTokens(42)
	require.NoError(t, err)

	mw := NewAuthMiddleware(jwtSvc, stubResolver{err: apperrors.NewNotFoundError("пользователь не найден")}, zap.NewNop())

	rec, reached := runMiddleware(t, mw, "Bearer "+access)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, reached)
}
