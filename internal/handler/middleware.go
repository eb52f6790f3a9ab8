package handler

import (
	"crypto/subtle"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ummet-social/moderation-hub/internal/pkg/errors"
	"github.com/ummet-social/moderation-hub/internal/pkg/logger"
	"github.com/ummet-social/moderation-hub/internal/pkg/utils"
)

const (
	requestIDKey    = "request_id"
	requestIDHeader = "X-Request-ID"
	adminHeader     = "X-Admin-Token"
)

// RequestID 为每个请求分配 ID，优先沿用上游传入的值
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = utils.GenerateRequestID()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// RequestLogger 请求日志中间件
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		l := logger.WithRequestID(c.GetString(requestIDKey))
		l.Info().
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("Request")
	}
}

// AdminAuth 校验管理令牌，支持 Bearer 和 X-Admin-Token 两种方式
// token 为空时不做校验
func AdminAuth(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			c.Next()
			return
		}

		got := c.GetHeader(adminHeader)
		if got == "" {
			got = strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		}
		if got == "" {
			respondError(c, errors.NewAuthenticationError("Admin token required", errors.CodeTokenRequired))
			return
		}
		if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			respondError(c, errors.NewAuthenticationError("Invalid admin token", errors.CodeInvalidToken))
			return
		}
		c.Next()
	}
}
