package httpclient

import (
	"time"

	"github.com/go-resty/resty/v2"
)

// Client HTTP 客户端包装器
type Client struct {
	*resty.Client
}

// Config 客户端配置
type Config struct {
	Timeout       time.Duration
	RetryCount    int
	RetryWaitTime time.Duration
	UserAgent     string
}

// DefaultConfig 默认配置
func DefaultConfig() Config {
	return Config{
		Timeout:       5 * time.Second,
		RetryCount:    0,
		RetryWaitTime: 200 * time.Millisecond,
		UserAgent:     "moderation-hub",
	}
}

// New 创建新的 HTTP 客户端
// 只对网络错误和 5xx 响应重试
func New(cfg Config) *Client {
	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(cfg.RetryWaitTime).
		AddRetryCondition(func(resp *resty.Response, err error) bool {
			return err != nil || resp.StatusCode() >= 500
		})
	if cfg.UserAgent != "" {
		client.SetHeader("User-Agent", cfg.UserAgent)
	}

	return &Client{Client: client}
}

// WithBearerAuth 设置 Bearer 认证，token 为空时不设置
func (c *Client) WithBearerAuth(token string) *Client {
	if token == "" {
		return c
	}
	c.SetAuthScheme("Bearer")
	c.SetAuthToken(token)
	return c
}
