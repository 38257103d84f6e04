package vo

import (
	"time"
)

// PagePermission 页面授权视图对象
type PagePermission struct {
	ID        uint64    `json:"id"`
	StaffID   string    `json:"staff_id"`
	PageID    string    `json:"page_id"`
	CanView   bool      `json:"can_view"`
	CanEdit   bool      `json:"can_edit"`
	CanDelete bool      `json:"can_delete"`
	GrantedBy string    `json:"granted_by"`
	GrantedAt time.Time `json:"granted_at"`
}

// ActivityLog 审计日志视图对象
type ActivityLog struct {
	ID         uint64    `json:"id"`
	StaffID    string    `json:"staff_id"`
	StaffName  string    `json:"staff_name"`
	Action     string    `json:"action"`
	TargetType string    `json:"target_type"`
	TargetID   string    `json:"target_id"`
	TargetName string    `json:"target_name"`
	Changes    string    `json:"changes"`
	CreateTime time.Time `json:"create_time"`
}
