package authz

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/campushq/campus_admin/pkg/logger"
)

// Client 维护单个员工的授权快照。
// 快照经由 Load/Refresh 从 GrantSource 整体换入；取数失败时换入空快照，
// 即判定端永远 fail-closed。绑定的员工在构造后不可更换。
type Client struct {
	source  GrantSource
	staffID string

	mu       sync.RWMutex
	grants   []Grant
	loading  bool
	loaded   bool
	gen      uint64
	watchers []func()
}

// NewClient 创建绑定到指定员工的授权客户端，初始处于未加载状态
func NewClient(source GrantSource, staffID string) *Client {
	return &Client{source: source, staffID: staffID}
}

// StaffID 返回绑定的员工编号
func (c *Client) StaffID() string {
	return c.staffID
}

// Load 从授权源拉取授权记录并换入快照。
// 并发调用时只有最后发起的一次能提交结果，先发起的结果被丢弃。
// 取数失败不向调用方返回错误：保留上一份成功加载的快照，
// 从未成功加载过则保持空快照，判定端始终 fail-closed。
func (c *Client) Load(ctx context.Context) {
	c.mu.Lock()
	c.loading = true
	c.gen++
	gen := c.gen
	c.mu.Unlock()
	c.notify()

	grants, err := c.source.FetchGrants(ctx, c.staffID)
	if err != nil {
		logger.Warn(ctx, "load grants failed, keeping last known snapshot",
			zap.String("staff_id", c.staffID), zap.Error(err))
	}

	c.mu.Lock()
	if gen != c.gen {
		// 已有更晚发起的加载，本次结果作废
		c.mu.Unlock()
		return
	}
	if err == nil {
		c.grants = grants
	}
	c.loading = false
	c.loaded = true
	c.mu.Unlock()
	c.notify()
}

// Refresh 重新拉取授权快照，语义与 Load 相同
func (c *Client) Refresh(ctx context.Context) {
	c.Load(ctx)
}

// Loading 返回是否正在加载；首次 Load 之前也视为加载中
func (c *Client) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading || !c.loaded
}

// Can 判定当前快照是否允许 (pageID, action)。
// 加载中或尚未加载时一律拒绝。
func (c *Client) Can(pageID string, action Action) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.loading || !c.loaded {
		return false
	}
	return Resolve(c.grants, pageID, action)
}

// CanView 判定当前快照是否允许查看页面
func (c *Client) CanView(pageID string) bool {
	return c.Can(pageID, ActionView)
}

// CanEdit 判定当前快照是否允许编辑页面
func (c *Client) CanEdit(pageID string) bool {
	return c.Can(pageID, ActionEdit)
}

// CanDelete 判定当前快照是否允许删除页面数据
func (c *Client) CanDelete(pageID string) bool {
	return c.Can(pageID, ActionDelete)
}

// Grants 返回当前快照的拷贝
func (c *Client) Grants() []Grant {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Grant, len(c.grants))
	copy(out, c.grants)
	return out
}

// Watch 注册快照状态变化回调，Load 开始和结束时都会触发
func (c *Client) Watch(fn func()) {
	c.mu.Lock()
	c.watchers = append(c.watchers, fn)
	c.mu.Unlock()
}

func (c *Client) notify() {
	c.mu.RLock()
	watchers := make([]func(), len(c.watchers))
	copy(watchers, c.watchers)
	c.mu.RUnlock()
	for _, fn := range watchers {
		fn()
	}
}
