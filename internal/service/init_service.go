package service

// Service 实例变量
var (
	AuthServiceInstance     *AuthService
	GrantServiceInstance    *GrantService
	StaffServiceInstance    *StaffService
	ActivityServiceInstance *ActivityService
)

// dao层初始化完成后，调用Init函数
func Init() error {
	// 初始化核心服务
	ActivityServiceInstance = NewActivityService()
	GrantServiceInstance = NewGrantService(ActivityServiceInstance)
	StaffServiceInstance = NewStaffService(GrantServiceInstance)
	AuthServiceInstance = NewAuthService()

	return nil
}
