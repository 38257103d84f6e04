package middleware

import (
	"context"
	"strings"

	mycontext "github.com/campushq/campus_admin/pkg/context"
	"github.com/campushq/campus_admin/pkg/jwtauth"
	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

// AuthConfig 认证中间件配置
type AuthConfig struct {
	// 不需要认证的路径
	ExcludePaths []string
}

// 默认配置
var defaultAuthConfig = AuthConfig{
	ExcludePaths: []string{"POST:/api/login", "POST:/api/refresh", "GET:/api/hello", "*:/health"},
}

// JWTMiddleware JWT认证中间件。
// 只负责身份认证，页面级授权由 PageGuard 单独处理。
func JWTMiddleware(config ...AuthConfig) app.HandlerFunc {
	cfg := defaultAuthConfig
	if len(config) > 0 {
		cfg = config[0]
	}

	return func(ctx context.Context, c *app.RequestContext) {
		methodPath := string(c.Request.Method()) + ":" + string(c.Request.URI().Path())
		if isExcludedPath(methodPath, cfg.ExcludePaths) {
			c.Next(ctx)
			return
		}

		tokenString := c.Request.Header.Get("Authorization")
		if tokenString == "" {
			rsp := mycontext.Unauthorized("No token provided")
			c.JSON(consts.StatusUnauthorized, rsp)
			c.Abort()
			return
		}

		// 移除 "Bearer " 前缀
		if len(tokenString) > 7 && tokenString[:7] == "Bearer " {
			tokenString = tokenString[7:]
		}

		claims, err := jwtauth.Instance.ParseToken(tokenString)
		if err != nil {
			rsp := mycontext.Unauthorized("Invalid token: " + err.Error())
			c.JSON(consts.StatusUnauthorized, rsp)
			c.Abort()
			return
		}

		// 员工编号取自令牌身份位
		if claims.Identity == "" {
			rsp := mycontext.Unauthorized("Invalid staff identity in token")
			c.JSON(consts.StatusUnauthorized, rsp)
			c.Abort()
			return
		}
		c.Set(jwtauth.ClaimsKey, claims)

		c.Next(ctx)
	}
}

// isExcludedPath 检查路径是否在排除列表中
func isExcludedPath(methodPath string, excludePaths []string) bool {
	for _, excludePath := range excludePaths {
		if strings.Contains(excludePath, ":") {
			if methodPath == excludePath {
				return true
			}

			// 支持方法通配符，如 *:/api/health
			excludeParts := strings.SplitN(excludePath, ":", 2)
			if excludeParts[0] == "*" && strings.HasSuffix(methodPath, ":"+excludeParts[1]) {
				return true
			}
		} else {
			// 不含冒号时匹配所有方法的该路径
			if strings.HasSuffix(methodPath, ":"+excludePath) {
				return true
			}
		}
	}
	return false
}
