package authz

import (
	"context"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientDeniesBeforeLoad(t *testing.T) {
	source := NewMemorySource()
	source.Set("ST-1001", []Grant{{PageID: "students", CanView: true}})

	client := NewClient(source, "ST-1001")
	assert.True(t, client.Loading())
	assert.False(t, client.Can("students", ActionView), "no snapshot yet")

	client.Load(context.Background())
	assert.False(t, client.Loading())
	assert.True(t, client.Can("students", ActionView))
	assert.False(t, client.Can("students", ActionEdit))
}

func TestClientLoadFailureKeepsLastSnapshot(t *testing.T) {
	calls := 0
	source := FuncSource(func(_ context.Context, _ string) ([]Grant, error) {
		calls++
		if calls == 2 {
			return []Grant{{PageID: "finance", CanView: true}}, nil
		}
		return nil, errors.New("store unreachable")
	})

	// 从未成功加载过：失败后保持空快照，判定一律拒绝
	client := NewClient(source, "ST-1002")
	client.Load(context.Background())
	assert.False(t, client.Loading(), "failed load still completes")
	assert.False(t, client.Can("finance", ActionView))
	assert.Empty(t, client.Grants())

	client.Refresh(context.Background())
	require.True(t, client.Can("finance", ActionView))

	// 再次失败：保留上一份成功的快照
	client.Refresh(context.Background())
	assert.True(t, client.Can("finance", ActionView), "last known good snapshot survives")
}

func TestClientLastLoadWins(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	source := FuncSource(func(_ context.Context, _ string) ([]Grant, error) {
		select {
		case started <- struct{}{}:
			<-release
			return []Grant{{PageID: "stale", CanView: true}}, nil
		default:
			return []Grant{{PageID: "fresh", CanView: true}}, nil
		}
	})

	client := NewClient(source, "ST-1003")

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		client.Load(context.Background())
	}()
	<-started // first load is in flight

	client.Load(context.Background()) // second load completes first
	require.True(t, client.Can("fresh", ActionView))

	close(release) // let the first load finish late
	wg.Wait()

	assert.True(t, client.Can("fresh", ActionView), "stale result must not overwrite")
	assert.False(t, client.Can("stale", ActionView))
}

func TestClientWatchNotifies(t *testing.T) {
	source := NewMemorySource()
	client := NewClient(source, "ST-1004")

	var mu sync.Mutex
	events := 0
	client.Watch(func() {
		mu.Lock()
		events++
		mu.Unlock()
	})

	client.Load(context.Background())
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 2, events, "one event at load start, one at commit")
}

func TestClientPartialGrant(t *testing.T) {
	source := NewMemorySource()
	client := NewClient(source, "ST-1007")
	client.Load(context.Background())

	// 授权变更后 refresh 才可见
	source.Set("ST-1007", []Grant{{PageID: "attendance", CanView: true, CanEdit: true}})
	assert.False(t, client.Can("attendance", ActionView))

	client.Refresh(context.Background())
	assert.True(t, client.Can("attendance", ActionView))
	assert.True(t, client.Can("attendance", ActionEdit))
	assert.False(t, client.Can("attendance", ActionDelete))
	assert.False(t, client.Can("grades", ActionView), "no record for that page")
}

func TestClientActionAccessors(t *testing.T) {
	source := NewMemorySource()
	source.Set("ST-1008", []Grant{{PageID: "attendance", CanView: true, CanEdit: true}})

	client := NewClient(source, "ST-1008")
	assert.False(t, client.CanView("attendance"), "denied before load")

	client.Load(context.Background())
	assert.True(t, client.CanView("attendance"))
	assert.True(t, client.CanEdit("attendance"))
	assert.False(t, client.CanDelete("attendance"))
}
