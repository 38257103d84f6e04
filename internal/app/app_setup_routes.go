package app

import (
	"github.com/campushq/campus_admin/internal/authz"
	"github.com/campushq/campus_admin/internal/handler"
	"github.com/campushq/campus_admin/internal/middleware"
)

func (a *App) SetupRoutes() {
	root := a.Group("/")
	root.GET("/health", handler.HealthHandler)

	api := a.Group("/api")
	api.GET("/hello", handler.HelloHandler)

	// 公开路由
	api.POST("/login", handler.LoginHandlerInstance.Login)
	api.POST("/refresh", handler.LoginHandlerInstance.RefreshToken)

	// 使用JWT中间件保护的路由
	protected := api.Group("/protected")
	protected.Use(middleware.JWTMiddleware())

	protected.GET("/me", handler.LoginHandlerInstance.CurrentStaff)
	protected.POST("/logout", handler.LoginHandlerInstance.LoginOut)

	// 页面注册表：任何已登录员工都可以读取
	protected.GET("/page/list", handler.GrantHandlerInstance.GetPageList)

	// 授权管理：受 staff_permissions 页面守卫保护
	protected.GET("/staff/grants",
		middleware.PageGuard("staff_permissions", authz.ActionView),
		handler.GrantHandlerInstance.GetStaffGrants)
	protected.POST("/staff/grant",
		middleware.PageGuard("staff_permissions", authz.ActionEdit),
		handler.GrantHandlerInstance.SetPermission)
	protected.POST("/staff/grant/all",
		middleware.PageGuard("staff_permissions", authz.ActionEdit),
		handler.GrantHandlerInstance.GrantAllForPage)
	protected.DELETE("/staff/grant",
		middleware.PageGuard("staff_permissions", authz.ActionDelete),
		handler.GrantHandlerInstance.RevokeAllForPage)

	// 员工账号管理：受 staff 页面守卫保护
	protected.GET("/staff/list",
		middleware.PageGuard("staff", authz.ActionView),
		handler.StaffHandlerInstance.GetStaffList)
	protected.POST("/staff",
		middleware.PageGuard("staff", authz.ActionEdit),
		handler.StaffHandlerInstance.CreateStaff)
	protected.PUT("/staff",
		middleware.PageGuard("staff", authz.ActionEdit),
		handler.StaffHandlerInstance.UpdateStaff)
	protected.DELETE("/staff",
		middleware.PageGuard("staff", authz.ActionDelete),
		handler.StaffHandlerInstance.DeleteStaff)

	// 审计日志：读受 activity_log 页面守卫保护，上报对所有登录员工开放
	protected.GET("/activity",
		middleware.PageGuard("activity_log", authz.ActionView),
		handler.ActivityHandlerInstance.GetActivityList)
	protected.POST("/activity", handler.ActivityHandlerInstance.CreateActivity)
}
