// Package authz 实现员工页面授权的客户端内核：
// 纯函数式的权限判定、授权快照的加载生命周期、以及页面访问门控。
package authz

import (
	"github.com/pkg/errors"
)

// Action 页面操作类型，取值范围封闭
type Action string

const (
	ActionView   Action = "view"
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
)

// Actions 返回全部合法操作，顺序固定
func Actions() []Action {
	return []Action{ActionView, ActionEdit, ActionDelete}
}

// Valid 判断操作是否在封闭取值范围内
func (a Action) Valid() bool {
	switch a {
	case ActionView, ActionEdit, ActionDelete:
		return true
	}
	return false
}

func (a Action) String() string {
	return string(a)
}

// ParseAction 将外部输入解析为 Action，非法输入报错
func ParseAction(s string) (Action, error) {
	a := Action(s)
	if !a.Valid() {
		return "", errors.Errorf("unknown action: %q", s)
	}
	return a, nil
}
