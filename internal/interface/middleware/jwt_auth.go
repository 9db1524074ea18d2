package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/nnsi/cpa-study-note-sub000/pkg/apperror"
	"github.com/nnsi/cpa-study-note-sub000/pkg/jwt"
)

// JWTAuthMiddleware はJWT認証ミドルウェアを提供します
type JWTAuthMiddleware struct {
	jwtService *jwt.JWTService
}

// NewJWTAuthMiddleware は新しいJWTAuthMiddlewareを作成します
func NewJWTAuthMiddleware(jwtService *jwt.JWTService) *JWTAuthMiddleware {
	return &JWTAuthMiddleware{jwtService: jwtService}
}

// Authenticate は認証ミドルウェアを返します
func (m *JWTAuthMiddleware) Authenticate() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// Authorizationヘッダーを取得
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return apperror.NewUnauthorizedError("authorization header required")
			}

			// Bearer トークンを抽出
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				return apperror.NewUnauthorizedError("invalid authorization header format")
			}

			// トークンを検証
			claims, err := m.jwtService.ValidateAccessToken(parts[1])
			if err != nil {
				return apperror.NewUnauthorizedError("invalid or expired token")
			}

			// コンテキストにユーザー情報を設定
			c.Set(ContextKeyUserID, claims.UserID.String())
			c.Set(ContextKeyAccessClaims, claims)

			// リクエストコンテキストにも設定（UseCase層のログ用）
			ctx := context.WithValue(c.Request().Context(), ctxKeyUserID, claims.UserID.String())
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}
