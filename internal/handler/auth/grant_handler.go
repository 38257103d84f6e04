package auth_handler

import (
	"github.com/campushq/campus_admin/internal/domain/params"
	"github.com/campushq/campus_admin/internal/pages"
	"github.com/campushq/campus_admin/internal/service"
	"github.com/campushq/campus_admin/pkg/context"
)

type IGrantHandler interface {
	GetStaffGrants(c *context.Context, req *params.GetStaffGrantsRequest) *context.Response
	SetPermission(c *context.Context, req *params.SetPermissionRequest) *context.Response
	GrantAllForPage(c *context.Context, req *params.GrantAllRequest) *context.Response
	RevokeAllForPage(c *context.Context, req *params.RevokeAllRequest) *context.Response
	GetPageList(c *context.Context) *context.Response
}

type GrantHandler struct{}

// @route GET /staff/grants
// GetStaffGrants 返回某员工的全部授权记录，没有授权时返回空列表
func (h *GrantHandler) GetStaffGrants(c *context.Context, req *params.GetStaffGrantsRequest) *context.Response {
	result, err := service.GrantServiceInstance.LoadGrantsFor(c.Context(), req.StaffID)
	if err != nil {
		return context.DatabaseError(err)
	}
	return context.Success(result)
}

// @route POST /staff/grant
// SetPermission 设置单项授权开关，操作人取自令牌身份
func (h *GrantHandler) SetPermission(c *context.Context, req *params.SetPermissionRequest) *context.Response {
	grantedBy := c.GetStaffNo()
	if grantedBy == "" {
		return context.Unauthorized("No identity in request")
	}

	result, err := service.GrantServiceInstance.SetPermission(c.Context(), req, grantedBy)
	if err != nil {
		return context.BusinessError(err)
	}
	return context.Success(result)
}

// @route POST /staff/grant/all
// GrantAllForPage 页面三个操作一次性全部放开
func (h *GrantHandler) GrantAllForPage(c *context.Context, req *params.GrantAllRequest) *context.Response {
	grantedBy := c.GetStaffNo()
	if grantedBy == "" {
		return context.Unauthorized("No identity in request")
	}

	result, err := service.GrantServiceInstance.GrantAllForPage(c.Context(), req, grantedBy)
	if err != nil {
		return context.BusinessError(err)
	}
	return context.Success(result)
}

// @route DELETE /staff/grant
// RevokeAllForPage 整页回收授权，记录不存在也返回成功
func (h *GrantHandler) RevokeAllForPage(c *context.Context, req *params.RevokeAllRequest) *context.Response {
	grantedBy := c.GetStaffNo()
	if grantedBy == "" {
		return context.Unauthorized("No identity in request")
	}

	if err := service.GrantServiceInstance.RevokeAllForPage(c.Context(), req, grantedBy); err != nil {
		return context.BusinessError(err)
	}
	return context.NoContent()
}

// @route GET /page/list
// GetPageList 返回可授权页面注册表
func (h *GrantHandler) GetPageList(c *context.Context) *context.Response {
	return context.Success(pages.List())
}
