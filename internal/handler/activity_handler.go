package handler

import (
	"github.com/campushq/campus_admin/internal/domain/params"
	"github.com/campushq/campus_admin/internal/service"
	"github.com/campushq/campus_admin/pkg/context"
)

type IActivityHandler interface {
	CreateActivity(c *context.Context, req *params.CreateActivityRequest) *context.Response
	GetActivityList(c *context.Context, req *params.GetActivityListRequest) *context.Response
}

type ActivityHandler struct{}

// @route POST /activity
// CreateActivity 由前端主动上报的审计事件，操作人取自令牌身份
func (h *ActivityHandler) CreateActivity(c *context.Context, req *params.CreateActivityRequest) *context.Response {
	staffNo := c.GetStaffNo()
	if staffNo == "" {
		return context.Unauthorized("No identity in request")
	}

	result, err := service.ActivityServiceInstance.RecordRequest(c.Context(), staffNo, req)
	if err != nil {
		return context.DatabaseError(err)
	}
	return context.Success(result)
}

// @route GET /activity
// GetActivityList 分页查询审计日志
func (h *ActivityHandler) GetActivityList(c *context.Context, req *params.GetActivityListRequest) *context.Response {
	result, total, err := service.ActivityServiceInstance.GetActivityList(c.Context(), req)
	if err != nil {
		return context.DatabaseError(err)
	}
	return context.PageSuccess(result, total)
}
