// Package pages 维护后台可授权页面的静态注册表。
// 注册表在编译期固定，运行期只读，因此不需要加锁。
package pages

// Descriptor 描述一个可授权的后台页面。
// RequiredPermission 是迁移前遗留的粗粒度权限标签，仅供展示，
// 授权判定只认按页面+操作的授权记录。
type Descriptor struct {
	ID                 string   `json:"id"`
	Label              string   `json:"label"`
	Path               string   `json:"path"`
	RequiredPermission []string `json:"required_permission,omitempty"`
}

// registry 按展示顺序排列，ID 在全表内唯一
var registry = []Descriptor{
	{ID: "admitted_students", Label: "Admitted Students", Path: "/admitted-students", RequiredPermission: []string{"admissions"}},
	{ID: "students", Label: "Students", Path: "/students", RequiredPermission: []string{"registry"}},
	{ID: "staff", Label: "Staff", Path: "/staff", RequiredPermission: []string{"hr"}},
	{ID: "tuition", Label: "Tuition", Path: "/tuition", RequiredPermission: []string{"finance"}},
	{ID: "attendance", Label: "Attendance", Path: "/attendance", RequiredPermission: []string{"registry"}},
	{ID: "library", Label: "Library", Path: "/library", RequiredPermission: []string{"library"}},
	{ID: "calendar", Label: "Academic Calendar", Path: "/calendar"},
	{ID: "finance", Label: "Finance", Path: "/finance", RequiredPermission: []string{"finance"}},
	{ID: "notifications", Label: "Notifications", Path: "/notifications"},
	{ID: "activity_log", Label: "Activity Log", Path: "/activity-log", RequiredPermission: []string{"audit"}},
	{ID: "staff_permissions", Label: "Staff Permissions", Path: "/staff-permissions", RequiredPermission: []string{"admin"}},
}

// List 返回注册表的拷贝，调用方可以安全修改返回值
func List() []Descriptor {
	out := make([]Descriptor, len(registry))
	copy(out, registry)
	return out
}

// Find 按 ID 查找页面，未注册的 ID 返回 ok=false
func Find(id string) (Descriptor, bool) {
	for _, d := range registry {
		if d.ID == id {
			return d, true
		}
	}
	return Descriptor{}, false
}

// Exists 判断页面 ID 是否已注册
func Exists(id string) bool {
	_, ok := Find(id)
	return ok
}

// IDs 返回全部已注册的页面 ID
func IDs() []string {
	ids := make([]string, len(registry))
	for i, d := range registry {
		ids[i] = d.ID
	}
	return ids
}
