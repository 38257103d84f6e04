package vo

import (
	"time"
)

// Staff 员工账号视图对象，不携带密码
type Staff struct {
	ID            uint64            `json:"id"`
	StaffNo       string            `json:"staff_no"`
	Username      string            `json:"username"`
	Name          string            `json:"name"`
	Email         string            `json:"email"`
	Phone         string            `json:"phone"`
	Role          string            `json:"role"`
	Status        int               `json:"status"`
	HireDate      string            `json:"hire_date"`
	Grants        []*PagePermission `json:"grants,omitempty"`
	CreateTime    time.Time         `json:"create_time"`
	UpdateTime    time.Time         `json:"update_time"`
	LastLoginTime time.Time         `json:"last_login_time"`
}
