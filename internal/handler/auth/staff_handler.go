package auth_handler

import (
	"github.com/campushq/campus_admin/internal/domain/params"
	"github.com/campushq/campus_admin/internal/service"
	"github.com/campushq/campus_admin/pkg/context"
)

type IStaffHandler interface {
	CreateStaff(c *context.Context, req *params.CreateStaffRequest) *context.Response
	UpdateStaff(c *context.Context, req *params.UpdateStaffRequest) *context.Response
	DeleteStaff(c *context.Context, req *params.DeleteStaffRequest) *context.Response
	GetStaffList(c *context.Context, req *params.GetStaffListRequest) *context.Response
}

type StaffHandler struct{}

// @route POST /staff
func (h *StaffHandler) CreateStaff(c *context.Context, req *params.CreateStaffRequest) *context.Response {
	result, err := service.StaffServiceInstance.CreateStaff(c.Context(), req)
	if err != nil {
		return context.BusinessError(err)
	}
	return context.Success(result)
}

// @route PUT /staff
func (h *StaffHandler) UpdateStaff(c *context.Context, req *params.UpdateStaffRequest) *context.Response {
	result, err := service.StaffServiceInstance.UpdateStaff(c.Context(), req)
	if err != nil {
		return context.BusinessError(err)
	}
	return context.Success(result)
}

// @route DELETE /staff
func (h *StaffHandler) DeleteStaff(c *context.Context, req *params.DeleteStaffRequest) *context.Response {
	if err := service.StaffServiceInstance.DeleteStaffBatch(c.Context(), req.IDs); err != nil {
		return context.DatabaseError(err)
	}
	return context.NoContent()
}

// @route GET /staff/list
// GetStaffList 员工列表，置位 flags 的 INCLUDE_GRANTS 时附带授权记录
func (h *StaffHandler) GetStaffList(c *context.Context, req *params.GetStaffListRequest) *context.Response {
	result, total, err := service.StaffServiceInstance.GetStaffList(c.Context(), req)
	if err != nil {
		return context.DatabaseError(err)
	}
	return context.PageSuccess(result, total)
}
