package middleware

import (
	"Scribe/internal/pkg/consts"
	"Scribe/internal/pkg/redis"
	"Scribe/internal/pkg/response"
	"Scribe/internal/pkg/security"
	"context"
	"errors"

	"github.com/gin-gonic/gin"
)

var (
	errTokenMissing = errors.New("token is missing or malformed")
	errTokenRevoked = errors.New("token is invalid or expired")
)

// AuthMiddleware 负责验证 JWT 并将用户身份信息注入 Context
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, claims, err := authenticate(c)
		switch {
		case errors.Is(err, errTokenMissing), errors.Is(err, errTokenRevoked):
			response.Fail(c, response.Unauthorized, err.Error())
			c.Abort()
			return
		case err != nil:
			response.Fail(c, response.InternalServerError, "unexpected error")
			c.Abort()
			return
		}

		setIdentity(c, token, claims)
		c.Next()
	}
}

// authenticate 解析 Bearer Token，并检查是否已注销
func authenticate(c *gin.Context) (string, *security.UserClaims, error) {
	token, ok := security.BearerToken(c.GetHeader("Authorization"))
	if !ok {
		return "", nil, errTokenMissing
	}

	signature, err := security.ExtractSignature(token)
	if err != nil {
		return "", nil, errTokenMissing
	}

	revoked, err := redis.Exists(c.Request.Context(), consts.TokenBlacklistKey+signature)
	if err != nil {
		return "", nil, err
	}
	if revoked {
		return "", nil, errTokenRevoked
	}

	claims, err := security.ValidateToken(token)
	if err != nil {
		return "", nil, errTokenRevoked
	}
	return token, claims, nil
}

func setIdentity(c *gin.Context, token string, claims *security.UserClaims) {
	c.Set("user_id", claims.UserID)
	c.Set("roles", claims.Roles)
	c.Set("token", token)

	newCtx := context.WithValue(c.Request.Context(), "user_id", claims.UserID)
	c.Request = c.Request.WithContext(newCtx)
}
