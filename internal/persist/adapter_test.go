package persist

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hubdeck/internal/cables"
	"hubdeck/internal/kv"
	"hubdeck/internal/ports"
	"hubdeck/internal/viewport"
	"hubdeck/internal/workspace"
)

func defaultPanels() []workspace.Panel {
	return []workspace.Panel{
		{ID: "hub", Kind: workspace.KindHub, Position: workspace.Position{X: 12, Y: 4}},
		{ID: "editor", Position: workspace.Position{X: 50, Y: 0}},
		{ID: "player", Position: workspace.Position{X: 50, Y: 8}},
	}
}

type failingStore struct {
	kv.Store
}

func (failingStore) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("connection refused")
}

func TestBeginLoad_OneShotAfterPanelsExist(t *testing.T) {
	a := New(kv.NewMemory(), WithSettleDelay(250*time.Millisecond))

	_, ok := a.BeginLoad(0)
	assert.False(t, ok)

	d, ok := a.BeginLoad(3)
	assert.True(t, ok)
	assert.Equal(t, 250*time.Millisecond, d)

	_, ok = a.BeginLoad(3)
	assert.False(t, ok)
}

func TestSave_GuardedUntilLoaded(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	require.NoError(t, store.Set(ctx, DefaultKey, "good"))

	a := New(store)
	saved, err := a.Save(ctx, NewSnapshot(nil, nil, nil, nil))
	require.NoError(t, err)
	assert.False(t, saved)

	v, _, _ := store.Get(ctx, DefaultKey)
	assert.Equal(t, "good", v)
}

func TestRoundTrip_RestoresPositionsExceptNearOrigin(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()

	// First session: user moved the panels around.
	first := New(store)
	first.Load(ctx, defaultPanels())
	moved := defaultPanels()
	moved[0].Position = workspace.Position{X: 3, Y: 2}  // near origin
	moved[1].Position = workspace.Position{X: 5, Y: 40} // x small, y large
	moved[2].Position = workspace.Position{X: 90, Y: 7}
	edges := []cables.Edge{{ID: cables.EdgeID("usb-a-1", "editor"), SourcePortID: "usb-a-1", TargetPanelID: "editor"}}
	cam := &viewport.Camera{Zoom: 1.5, OffsetX: 10, OffsetY: -3}
	bindings := ports.State{"usb-a-1": {PortID: "usb-a-1", DeviceType: "keyboard", UtilityID: "input"}}

	saved, err := first.Save(ctx, NewSnapshot(moved, edges, cam, bindings))
	require.NoError(t, err)
	require.True(t, saved)

	// Second session starts from the default layout.
	second := New(store)
	restored := second.Load(ctx, defaultPanels())
	require.True(t, restored.Found)
	assert.True(t, second.Loaded())
	assert.Equal(t, 2, restored.Applied)

	assert.Equal(t, workspace.Position{X: 12, Y: 4}, restored.Panels[0].Position)
	assert.Equal(t, workspace.Position{X: 5, Y: 40}, restored.Panels[1].Position)
	assert.Equal(t, workspace.Position{X: 90, Y: 7}, restored.Panels[2].Position)
	assert.Equal(t, edges, restored.Edges)
	assert.Equal(t, cam, restored.Camera)
	assert.Equal(t, "keyboard", restored.Ports["usb-a-1"].DeviceType)
}

func TestLoad_DoesNotMutateInput(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	snap := NewSnapshot([]workspace.Panel{{ID: "editor", Position: workspace.Position{X: 70, Y: 70}}}, nil, nil, nil)
	raw, err := snap.Encode()
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, DefaultKey, raw))

	panels := defaultPanels()
	restored := New(store).Load(ctx, panels)
	assert.Equal(t, workspace.Position{X: 70, Y: 70}, restored.Panels[1].Position)
	assert.Equal(t, workspace.Position{X: 50, Y: 0}, panels[1].Position)
}

func TestLoad_IgnoresPanelsNotInCurrentSet(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	raw, _ := NewSnapshot([]workspace.Panel{{ID: "gone", Position: workspace.Position{X: 70, Y: 70}}}, nil, nil, nil).Encode()
	require.NoError(t, store.Set(ctx, DefaultKey, raw))

	restored := New(store).Load(ctx, defaultPanels())
	assert.True(t, restored.Found)
	assert.Zero(t, restored.Applied)
	assert.Equal(t, defaultPanels(), restored.Panels)
}

func TestLoad_DegradesOnBadSnapshots(t *testing.T) {
	tests := []struct {
		name  string
		store kv.Store
	}{
		{"missing", kv.NewMemory()},
		{"corrupt", storeWith(t, "{not json")},
		{"old version", storeWith(t, `{"version":2,"panels":[{"id":"editor","position":{"x":80,"y":80}}]}`)},
		{"store error", failingStore{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := New(tt.store)
			restored := a.Load(context.Background(), defaultPanels())
			assert.False(t, restored.Found)
			assert.Equal(t, defaultPanels(), restored.Panels)
			assert.True(t, a.Loaded())
		})
	}
}

func TestSave_AfterFailedLoadOverwrites(t *testing.T) {
	ctx := context.Background()
	store := storeWith(t, "{not json")
	a := New(store)
	a.Load(ctx, defaultPanels())

	saved, err := a.Save(ctx, NewSnapshot(defaultPanels(), nil, nil, nil))
	require.NoError(t, err)
	assert.True(t, saved)

	snap, ok, err := a.Read(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, snap.Panels, 3)
	assert.NotNil(t, snap.Edges)
}

func TestWithKey_IsolatesSnapshots(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	a := New(store, WithKey("hubdeck-layout-v2"))
	a.Load(ctx, nil)
	_, err := a.Save(ctx, NewSnapshot(defaultPanels(), nil, nil, nil))
	require.NoError(t, err)

	_, ok, _ := store.Get(ctx, DefaultKey)
	assert.False(t, ok)

	require.NoError(t, a.Clear(ctx))
	_, ok, _ = store.Get(ctx, "hubdeck-layout-v2")
	assert.False(t, ok)
}

func TestDecode_VersionMismatch(t *testing.T) {
	_, err := Decode(`{"version":1}`)
	assert.True(t, errors.Is(err, ErrVersionMismatch))
}

func storeWith(t *testing.T, raw string) kv.Store {
	t.Helper()
	s := kv.NewMemory()
	require.NoError(t, s.Set(context.Background(), DefaultKey, raw))
	return s
}
