package params

// ---------------------- 员工管理模块 ----------------------

// CreateStaffRequest 创建员工账号请求
type CreateStaffRequest struct {
	StaffNo  string `json:"staff_no" vd:"len($)>0&&len($)<50"`
	Username string `json:"username" vd:"len($)>0&&len($)<50"`
	Password string `json:"password" vd:"len($)>=6&&len($)<20"`
	Name     string `json:"name" vd:"len($)>0&&len($)<100"`
	Email    string `json:"email" vd:"len($)>0&&len($)<100"`
	Phone    string `json:"phone" vd:"len($)<20"`
	Role     string `json:"role" vd:"len($)>0&&len($)<20"`
	Status   int    `json:"status"`
	HireDate string `json:"hire_date"` // 格式 2006-01-02，可为空
}

// UpdateStaffRequest 更新员工账号请求
type UpdateStaffRequest struct {
	ID       uint64 `json:"id" vd:"$>0"`
	Username string `json:"username" vd:"len($)>=0&&len($)<50"`
	Password string `json:"password" vd:"len($)==0||(len($)>=6&&len($)<20)"` // 允许不修改密码
	Name     string `json:"name" vd:"len($)>=0&&len($)<100"`
	Email    string `json:"email" vd:"len($)>=0&&len($)<100"`
	Phone    string `json:"phone" vd:"len($)<20"`
	Role     string `json:"role" vd:"len($)<20"`
	Status   int    `json:"status"`
}

// DeleteStaffRequest 删除员工账号请求
type DeleteStaffRequest struct {
	IDs []uint64 `json:"ids" vd:"len($)>0"`
}

// GetStaffListRequest 获取员工列表请求
type GetStaffListRequest struct {
	Page
	Name    string `query:"name" vd:"len($)>=0&&len($)<100" xorm:"name op=like"`
	StaffNo string `query:"staff_no" vd:"len($)>=0&&len($)<50" xorm:"staff_no op=startswith"`
	Role    string `query:"role" vd:"len($)<20" xorm:"role op=eq"`
	Status  int    `query:"status" xorm:"status op=eq"`
	Flags   int    `query:"flags"` // 控制响应内容
}

// ---------------------- 页面授权模块 ----------------------

// GetStaffGrantsRequest 获取某员工全部授权记录请求
type GetStaffGrantsRequest struct {
	StaffID string `query:"staff_id" vd:"len($)>0&&len($)<50"`
}

// SetPermissionRequest 设置单项授权请求。
// 只修改 action 对应的开关，同一 (员工, 页面) 的其他开关保持原值。
type SetPermissionRequest struct {
	StaffID string `json:"staff_id" vd:"len($)>0&&len($)<50"`
	PageID  string `json:"page_id" vd:"len($)>0&&len($)<50"`
	Action  string `json:"action" vd:"len($)>0"`
	Allowed bool   `json:"allowed"`
}

// GrantAllRequest 整页放开请求：view/edit/delete 一律置为允许
type GrantAllRequest struct {
	StaffID string `json:"staff_id" vd:"len($)>0&&len($)<50"`
	PageID  string `json:"page_id" vd:"len($)>0&&len($)<50"`
}

// RevokeAllRequest 整页回收请求：物理删除该 (员工, 页面) 的授权记录
type RevokeAllRequest struct {
	StaffID string `json:"staff_id" vd:"len($)>0&&len($)<50"`
	PageID  string `json:"page_id" vd:"len($)>0&&len($)<50"`
}

// ---------------------- 审计日志模块 ----------------------

// CreateActivityRequest 写入审计日志请求
type CreateActivityRequest struct {
	Action     string `json:"action" vd:"len($)>0&&len($)<50"`
	TargetType string `json:"target_type" vd:"len($)<50"`
	TargetID   string `json:"target_id" vd:"len($)<50"`
	TargetName string `json:"target_name" vd:"len($)<100"`
	Changes    string `json:"changes"`
}

// GetActivityListRequest 查询审计日志请求
type GetActivityListRequest struct {
	Page
	StaffID    string `query:"staff_id" vd:"len($)<50" xorm:"staff_id op=eq"`
	Action     string `query:"action" vd:"len($)<50" xorm:"action op=eq"`
	TargetType string `query:"target_type" vd:"len($)<50" xorm:"target_type op=eq"`
}
