package models

import (
	"time"

	"github.com/campushq/campus_admin/internal/domain/types"
	"github.com/campushq/campus_admin/pkg/crypter"
)

// Staff 员工账号模型
// StaffNo 是面向业务的员工编号，授权记录以它为键，与自增主键解耦
type Staff struct {
	ID            uint64     `xorm:"pk autoincr bigint unsigned 'id'" json:"id"`
	StaffNo       string     `xorm:"varchar(50) notnull unique 'staff_no'" json:"staff_no"`
	Username      string     `xorm:"varchar(50) notnull unique 'username'" json:"username"`
	Password      string     `xorm:"varchar(100) notnull 'password'" json:"-"`
	Name          string     `xorm:"varchar(100) notnull 'name'" json:"name"`
	Email         string     `xorm:"varchar(100) notnull unique 'email'" json:"email"`
	Phone         string     `xorm:"varchar(20) 'phone'" json:"phone"`
	Role          string     `xorm:"varchar(20) notnull 'role'" json:"role"`
	Status        int        `xorm:"int 'status'" json:"status"`
	HireDate      types.Date `xorm:"date 'hire_date'" json:"hire_date"`
	CreateTime    time.Time  `xorm:"created" json:"create_time"`
	UpdateTime    time.Time  `xorm:"updated" json:"update_time"`
	LastLoginTime time.Time  `xorm:"datetime 'last_login_time'" json:"last_login_time"`
}

func (s *Staff) Verify(password string) bool {
	return crypter.Instance.Verify(password, s.Password)
}

func (s *Staff) EncryptPassword() {
	s.Password = EncryptPassword(s.Password)
}

// IsAdmin 管理员账号绕过页面级授权检查
func (s *Staff) IsAdmin() bool {
	return s.Role == StaffRoleAdmin
}

// IsActive 账号是否可登录
func (s *Staff) IsActive() bool {
	return s.Status == StaffStatusActive
}

func EncryptPassword(password string) string {
	return crypter.Instance.Encrypt(password)
}
