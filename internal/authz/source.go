package authz

import (
	"context"
	"net/url"
	"sync"

	"github.com/pkg/errors"

	"github.com/campushq/campus_admin/pkg/httpclient"
)

// GrantSource 提供某个员工的授权记录，Client 只通过它取数
type GrantSource interface {
	FetchGrants(ctx context.Context, staffID string) ([]Grant, error)
}

// RemoteSource 通过授权服务的 HTTP 接口拉取授权记录
type RemoteSource struct {
	client *httpclient.Client
}

// NewRemoteSource 创建远程授权源，baseURL 指向授权服务根地址
func NewRemoteSource(baseURL string, opts ...httpclient.Option) *RemoteSource {
	return &RemoteSource{client: httpclient.NewClient(baseURL, opts...)}
}

// grantEnvelope 服务端统一响应包：业务码 1xxxxx 表示成功
type grantEnvelope struct {
	Code    int     `json:"code"`
	Message string  `json:"message"`
	Data    []Grant `json:"data"`
}

func (e *grantEnvelope) success() bool {
	return e.Code >= 100000 && e.Code < 200000
}

func (r *RemoteSource) FetchGrants(ctx context.Context, staffID string) ([]Grant, error) {
	params := url.Values{}
	params.Set("staff_id", staffID)

	var resp grantEnvelope
	if err := r.client.GetJSON(ctx, "/api/protected/staff/grants", params, &resp); err != nil {
		return nil, errors.Wrap(err, "fetch grants")
	}
	if !resp.success() {
		return nil, errors.Errorf("fetch grants: server code %d: %s", resp.Code, resp.Message)
	}
	return resp.Data, nil
}

// MemorySource 内存授权源，用于测试和单进程部署
type MemorySource struct {
	mu     sync.RWMutex
	grants map[string][]Grant
}

func NewMemorySource() *MemorySource {
	return &MemorySource{grants: make(map[string][]Grant)}
}

// Set 整体替换某员工的授权记录
func (m *MemorySource) Set(staffID string, grants []Grant) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]Grant, len(grants))
	copy(cp, grants)
	m.grants[staffID] = cp
}

func (m *MemorySource) FetchGrants(_ context.Context, staffID string) ([]Grant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	src := m.grants[staffID]
	out := make([]Grant, len(src))
	copy(out, src)
	return out, nil
}

// FuncSource 以函数形式实现 GrantSource，便于测试注入
type FuncSource func(ctx context.Context, staffID string) ([]Grant, error)

func (f FuncSource) FetchGrants(ctx context.Context, staffID string) ([]Grant, error) {
	return f(ctx, staffID)
}
