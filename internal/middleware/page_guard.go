package middleware

import (
	"context"

	"github.com/campushq/campus_admin/internal/authz"
	"github.com/campushq/campus_admin/internal/domain/models"
	"github.com/campushq/campus_admin/internal/service"
	mycontext "github.com/campushq/campus_admin/pkg/context"
	"github.com/campushq/campus_admin/pkg/jwtauth"
	"github.com/campushq/campus_admin/pkg/logger"
	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"go.uber.org/zap"
)

// PageGuard 页面级授权中间件，绑定到具体路由。
// 路由注册时声明自己属于哪个页面、对应哪种操作，
// 请求到达时按令牌身份查授权记录，查不到或无权一律拒绝。
// admin 角色不做页面级检查。
func PageGuard(pageID string, action authz.Action) app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		claims, err := jwtauth.Instance.ContextClaims(c)
		if err != nil {
			rsp := mycontext.Unauthorized("No identity in request")
			c.JSON(consts.StatusUnauthorized, rsp)
			c.Abort()
			return
		}

		if claims.RoleKey == models.StaffRoleAdmin {
			c.Next(ctx)
			return
		}

		allowed, err := service.GrantServiceInstance.CheckPermission(ctx, claims.Identity, pageID, action)
		if err != nil {
			// 判定失败按拒绝处理
			logger.Error(ctx, "Permission check failed", zap.Error(err),
				zap.String("staff_id", claims.Identity), zap.String("page_id", pageID))
			rsp := mycontext.Forbidden("Permission check failed")
			c.JSON(consts.StatusForbidden, rsp)
			c.Abort()
			return
		}
		if !allowed {
			logger.Warn(ctx, "Permission denied",
				zap.String("staff_id", claims.Identity),
				zap.String("page_id", pageID),
				zap.String("action", action.String()))
			rsp := mycontext.Forbidden("Permission denied")
			c.JSON(consts.StatusForbidden, rsp)
			c.Abort()
			return
		}

		c.Next(ctx)
	}
}
