package middleware

import (
	"context"

	mycontext "github.com/campushq/campus_admin/pkg/context"
	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"golang.org/x/time/rate"
)

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	QPS   float64 // 每秒允许的请求数
	Burst int     // 突发容量
}

// DefaultRateLimitConfig 默认限流配置
var DefaultRateLimitConfig = RateLimitConfig{
	QPS:   200,
	Burst: 400,
}

// RateLimitMiddleware 全局令牌桶限流
func RateLimitMiddleware(config ...RateLimitConfig) app.HandlerFunc {
	cfg := DefaultRateLimitConfig
	if len(config) > 0 {
		cfg = config[0]
	}
	limiter := rate.NewLimiter(rate.Limit(cfg.QPS), cfg.Burst)

	return func(ctx context.Context, c *app.RequestContext) {
		if !limiter.Allow() {
			rsp := mycontext.RateLimit("Too many requests")
			c.JSON(consts.StatusTooManyRequests, rsp)
			c.Abort()
			return
		}
		c.Next(ctx)
	}
}
