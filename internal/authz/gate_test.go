package authz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLoadedClient(t *testing.T, grants []Grant) *Client {
	t.Helper()
	source := NewMemorySource()
	source.Set("ST-2001", grants)
	client := NewClient(source, "ST-2001")
	return client
}

func TestGateStaysLoadingUntilSnapshotReady(t *testing.T) {
	client := newLoadedClient(t, []Grant{{PageID: "attendance", CanView: true}})
	gate := NewGate(client, nil)

	gate.SetTarget("attendance", ActionView)
	assert.Equal(t, StateLoading, gate.State(), "snapshot not loaded yet")

	client.Load(context.Background())
	assert.Equal(t, StateAuthorized, gate.State())
	assert.True(t, gate.Allowed())
}

func TestGateUnauthorizedFiresOnce(t *testing.T) {
	client := newLoadedClient(t, nil)
	client.Load(context.Background())

	var fired []string
	gate := NewGate(client, func(pageID string, action Action) {
		fired = append(fired, pageID+":"+string(action))
	})

	gate.SetTarget("finance", ActionEdit)
	require.Equal(t, StateUnauthorized, gate.State())
	require.Equal(t, []string{"finance:edit"}, fired)

	// 重新加载经过 Loading 再次进入 Unauthorized，算新一次转换
	client.Refresh(context.Background())
	assert.Equal(t, StateUnauthorized, gate.State())
	assert.Len(t, fired, 2, "refresh passes through loading, denial fires again")
}

func TestGateSetTargetResetsCallback(t *testing.T) {
	client := newLoadedClient(t, []Grant{{PageID: "library", CanView: true}})
	client.Load(context.Background())

	fired := 0
	gate := NewGate(client, func(string, Action) { fired++ })

	gate.SetTarget("library", ActionDelete)
	require.Equal(t, StateUnauthorized, gate.State())
	require.Equal(t, 1, fired)

	gate.SetTarget("library", ActionView)
	assert.Equal(t, StateAuthorized, gate.State())
	assert.Equal(t, 1, fired)

	gate.SetTarget("library", ActionDelete)
	assert.Equal(t, StateUnauthorized, gate.State())
	assert.Equal(t, 2, fired, "new target allows a fresh notification")
}

func TestGateWithoutTargetIsLoading(t *testing.T) {
	client := newLoadedClient(t, nil)
	client.Load(context.Background())
	gate := NewGate(client, nil)
	assert.Equal(t, StateLoading, gate.State())
	assert.False(t, gate.Allowed())
}

func TestGateSetTargetDefaultsToView(t *testing.T) {
	client := newLoadedClient(t, []Grant{{PageID: "calendar", CanView: true}})
	client.Load(context.Background())

	gate := NewGate(client, nil)
	gate.SetTarget("calendar", "")
	assert.Equal(t, StateAuthorized, gate.State())
}

func TestGateSetClientRebindsIdentity(t *testing.T) {
	source := NewMemorySource()
	source.Set("ST-3001", []Grant{{PageID: "finance", CanView: true}})
	source.Set("ST-3002", nil)

	first := NewClient(source, "ST-3001")
	first.Load(context.Background())

	fired := 0
	gate := NewGate(first, func(string, Action) { fired++ })
	gate.SetTarget("finance", ActionView)
	require.Equal(t, StateAuthorized, gate.State())
	require.Equal(t, 0, fired)

	// 换一个员工身份：新客户端的快照就绪前门控停在 Loading
	second := NewClient(source, "ST-3002")
	gate.SetClient(second)
	assert.Equal(t, StateLoading, gate.State())

	second.Load(context.Background())
	assert.Equal(t, StateUnauthorized, gate.State())
	assert.Equal(t, 1, fired)
}

func TestRenderSelectsByState(t *testing.T) {
	client := newLoadedClient(t, []Grant{{PageID: "library", CanView: true}})
	gate := NewGate(client, nil)
	gate.SetTarget("library", ActionView)

	assert.Equal(t, "spinner", Render(gate, "shelf", "blank", "spinner"))

	client.Load(context.Background())
	assert.Equal(t, "shelf", Render(gate, "shelf", "blank", "spinner"))

	gate.SetTarget("library", ActionDelete)
	assert.Equal(t, "blank", Render(gate, "shelf", "blank", "spinner"))
}
