package params

import "errors"

// 响应内容控制标志
type ResponseFlags struct {
	flags int
}

// 预定义响应标志常量
const (
	INCLUDE_GRANTS = 1 << iota // 包含页面授权信息 (0001)
	INCLUDE_DETAIL             // 包含账号详细信息 (0010)
)

// 员工列表支持的全部标志
const ALL_STAFF_FLAGS = INCLUDE_GRANTS | INCLUDE_DETAIL

// NewResponseFlags 创建响应标志实例
func NewResponseFlags(initialFlags ...int) *ResponseFlags {
	flags := 0
	for _, flag := range initialFlags {
		flags |= flag
	}
	return &ResponseFlags{flags: flags}
}

// Add 添加标志
func (f *ResponseFlags) Add(flag int) {
	f.flags |= flag
}

// Remove 移除标志
func (f *ResponseFlags) Remove(flag int) {
	f.flags &^= flag
}

// Has 检查是否包含指定标志
func (f *ResponseFlags) Has(flag int) bool {
	return f.flags&flag != 0
}

// Get 获取当前标志值
func (f *ResponseFlags) Get() int {
	return f.flags
}

// Validate 验证标志是否有效
func (f *ResponseFlags) Validate(allowedFlags int) error {
	if f.flags&^allowedFlags != 0 {
		return errors.New("invalid flags detected")
	}
	return nil
}
