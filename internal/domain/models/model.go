package models

import (
	"time"
)

// PagePermission 员工页面授权记录 - 每个(员工, 页面)组合至多一行
type PagePermission struct {
	ID        uint64    `xorm:"pk autoincr bigint unsigned 'id'" json:"id"`
	StaffID   string    `xorm:"varchar(50) notnull index 'staff_id'" json:"staff_id"`
	PageID    string    `xorm:"varchar(50) notnull index 'page_id'" json:"page_id"`
	CanView   bool      `xorm:"bool 'can_view'" json:"can_view"`
	CanEdit   bool      `xorm:"bool 'can_edit'" json:"can_edit"`
	CanDelete bool      `xorm:"bool 'can_delete'" json:"can_delete"`
	GrantedBy string    `xorm:"varchar(50) notnull 'granted_by'" json:"granted_by"`
	GrantedAt time.Time `xorm:"updated 'granted_at'" json:"granted_at"`
}

// ActivityLog 操作审计日志 - 尽力而为写入，不参与业务事务
type ActivityLog struct {
	ID         uint64    `xorm:"pk autoincr bigint unsigned 'id'" json:"id"`
	StaffID    string    `xorm:"varchar(50) notnull index 'staff_id'" json:"staff_id"`
	StaffName  string    `xorm:"varchar(100) 'staff_name'" json:"staff_name"`
	Action     string    `xorm:"varchar(50) notnull 'action'" json:"action"`
	TargetType string    `xorm:"varchar(50) 'target_type'" json:"target_type"`
	TargetID   string    `xorm:"varchar(50) 'target_id'" json:"target_id"`
	TargetName string    `xorm:"varchar(100) 'target_name'" json:"target_name"`
	Changes    string    `xorm:"text 'changes'" json:"changes"`
	CreateTime time.Time `xorm:"created 'create_time'" json:"create_time"`
}

// AuditAction 审计动作常量
const (
	AuditActionGrantUpdate = "permission_update"
	AuditActionGrantAll    = "permission_grant_all"
	AuditActionRevokeAll   = "permission_revoke_all"
)

// AuditTargetStaffPage 审计目标类型：员工页面授权
const AuditTargetStaffPage = "staff_page_permission"

// StaffRole 员工账号角色常量
const (
	StaffRoleAdmin    = "admin"
	StaffRoleStaff    = "staff"
	StaffRoleLecturer = "lecturer"
	StaffRoleAgent    = "agent"
)

// StaffStatus 账号状态常量
const (
	StaffStatusDisabled = 0 // 禁用
	StaffStatusActive   = 1 // 启用
)
