package authz

import "sync"

// State 门控状态
type State int

const (
	// StateLoading 快照未就绪或未设置目标页面，结果未定
	StateLoading State = iota
	// StateAuthorized 当前快照允许目标操作
	StateAuthorized
	// StateUnauthorized 当前快照拒绝目标操作
	StateUnauthorized
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateAuthorized:
		return "authorized"
	case StateUnauthorized:
		return "unauthorized"
	}
	return "unknown"
}

// Gate 对单个目标页面操作做持续门控。
// 它观察 Client 的快照状态，把判定结果收敛成三态；
// 每次进入 Unauthorized 只触发一次 onUnauthorized 回调，
// 换页（SetTarget）或快照重新加载后允许再次触发。
type Gate struct {
	client         *Client
	onUnauthorized func(pageID string, action Action)

	mu     sync.Mutex
	pageID string
	action Action
	hasT   bool
	state  State
	fired  bool
}

// NewGate 创建门控并订阅客户端的快照变化。
// onUnauthorized 可以为 nil。
func NewGate(client *Client, onUnauthorized func(pageID string, action Action)) *Gate {
	g := &Gate{client: client, onUnauthorized: onUnauthorized, state: StateLoading}
	client.Watch(g.recompute)
	return g
}

// SetTarget 更换门控目标并立即重算，同时重置回调触发标记。
// action 为空时默认 view。
func (g *Gate) SetTarget(pageID string, action Action) {
	if action == "" {
		action = ActionView
	}
	g.mu.Lock()
	g.pageID = pageID
	g.action = action
	g.hasT = true
	g.fired = false
	g.mu.Unlock()
	g.recompute()
}

// SetClient 换绑到另一员工身份的客户端。
// 员工身份变化等于换一个全新的授权问题：门控回到 Loading，
// 直到新客户端的快照就绪才重新判定。
func (g *Gate) SetClient(client *Client) {
	g.mu.Lock()
	g.client = client
	g.fired = false
	g.mu.Unlock()
	client.Watch(g.recompute)
	g.recompute()
}

// State 返回当前门控状态
func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Allowed 返回当前是否处于 Authorized 状态
func (g *Gate) Allowed() bool {
	return g.State() == StateAuthorized
}

// Render 按门控状态三选一：通过返回 content，拒绝返回 fallback，
// 快照未就绪返回 loading。拒绝走 fallback 而不是报错，
// 无权限是正常结果而非异常。
func Render[T any](g *Gate, content, fallback, loading T) T {
	switch g.State() {
	case StateAuthorized:
		return content
	case StateUnauthorized:
		return fallback
	default:
		return loading
	}
}

func (g *Gate) recompute() {
	g.mu.Lock()
	var next State
	switch {
	case !g.hasT || g.client.Loading():
		next = StateLoading
	case g.client.Can(g.pageID, g.action):
		next = StateAuthorized
	default:
		next = StateUnauthorized
	}

	var fire bool
	if next == StateUnauthorized {
		if !g.fired {
			g.fired = true
			fire = true
		}
	} else {
		g.fired = false
	}
	g.state = next
	pageID, action := g.pageID, g.action
	cb := g.onUnauthorized
	g.mu.Unlock()

	if fire && cb != nil {
		cb(pageID, action)
	}
}
