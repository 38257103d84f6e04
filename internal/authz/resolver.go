package authz

// Grant 是一条授权记录的客户端视图，按页面聚合三个操作开关
type Grant struct {
	PageID    string `json:"page_id"`
	CanView   bool   `json:"can_view"`
	CanEdit   bool   `json:"can_edit"`
	CanDelete bool   `json:"can_delete"`
}

// Allows 判断本条记录是否允许指定操作，未知操作一律拒绝
func (g Grant) Allows(action Action) bool {
	switch action {
	case ActionView:
		return g.CanView
	case ActionEdit:
		return g.CanEdit
	case ActionDelete:
		return g.CanDelete
	}
	return false
}

// Resolve 在授权快照中判定 (pageID, action) 是否允许。
// 纯函数：只依赖入参，不触发任何 IO。
// 按快照顺序取第一条匹配 pageID 的记录；没有记录、nil 快照、
// 未注册页面、未知操作都判为拒绝。
func Resolve(grants []Grant, pageID string, action Action) bool {
	for _, g := range grants {
		if g.PageID == pageID {
			return g.Allows(action)
		}
	}
	return false
}
