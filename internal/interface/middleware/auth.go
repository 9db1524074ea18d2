package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/nnsi/cpa-study-note-sub000/pkg/jwt"
)

// contextKey is a custom type for context.WithValue keys to avoid collisions
type contextKey string

const (
	ContextKeyUserID       = "user_id"
	ContextKeyAccessClaims = "access_claims"

	// Typed key for context.WithValue (prevents SA1029)
	ctxKeyUserID contextKey = ContextKeyUserID
)

// GetUserID はコンテキストからユーザーIDを取得します
func GetUserID(c echo.Context) string {
	if id, ok := c.Get(ContextKeyUserID).(string); ok {
		return id
	}
	return ""
}

// GetUserUUID はコンテキストからユーザーIDをUUIDとして取得します
func GetUserUUID(c echo.Context) (uuid.UUID, error) {
	userID := GetUserID(c)
	if userID == "" {
		return uuid.Nil, nil
	}
	return uuid.Parse(userID)
}

// GetAccessClaims はコンテキストからアクセストークンのクレームを取得します
func GetAccessClaims(c echo.Context) *jwt.AccessTokenClaims {
	if claims, ok := c.Get(ContextKeyAccessClaims).(*jwt.AccessTokenClaims); ok {
		return claims
	}
	return nil
}

// SetUserID はコンテキストにユーザーIDを設定します
func SetUserID(c echo.Context, userID string) {
	c.Set(ContextKeyUserID, userID)
}
