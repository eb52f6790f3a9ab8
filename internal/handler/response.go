// Package handler 审核服务的 HTTP 接口
package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ummet-social/moderation-hub/internal/pkg/errors"
	"github.com/ummet-social/moderation-hub/internal/pkg/logger"
	"github.com/ummet-social/moderation-hub/internal/pkg/validator"
)

// respondError 以统一格式输出错误，5xx 写错误日志
func respondError(c *gin.Context, err error) {
	appErr := errors.ToAppError(err)
	if appErr.HTTPStatus >= 500 {
		logger.Error().
			Err(err).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Str("request_id", c.GetString(requestIDKey)).
			Msg("Request failed")
	}
	c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToResponse())
}

// bindJSON 解析并校验请求体，失败时已写入响应
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		appErr := errors.NewInvalidRequest("Invalid request body")
		if fields := validator.ValidationErrors(err); len(fields) > 0 {
			details := make(map[string]interface{}, len(fields))
			for k, v := range fields {
				details[k] = v
			}
			appErr.WithDetails(details)
		} else {
			appErr.WithDetails(map[string]interface{}{"error": err.Error()})
		}
		respondError(c, appErr)
		return false
	}
	return true
}
