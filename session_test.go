package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hubdeck/internal/kv"
	"hubdeck/internal/logging"
	"hubdeck/internal/persist"
	"hubdeck/internal/viewport"
	"hubdeck/internal/workspace"
)

const testConfigYAML = `
ui:
  confirmations: false
store:
  backend: memory
persist:
  settle_ms: 0
`

func testConfig(t *testing.T) *Config {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testConfigYAML), 0o644))
	cfg, err := loadConfig(path)
	require.NoError(t, err)
	return cfg
}

func newTestSession(t *testing.T, store kv.Store) *session {
	t.Helper()
	s, err := newSession(testConfig(t), logging.NewNop(), store)
	require.NoError(t, err)
	return s
}

func TestNewSession_ArrangesAndSizesHub(t *testing.T) {
	s := newTestSession(t, kv.NewMemory())

	hub, ok := s.ws.Hub()
	require.True(t, ok)
	assert.Equal(t, workspace.Position{X: workspace.HubOriginX, Y: workspace.HubOriginY}, hub.Position)
	assert.Equal(t, len(s.ports.Catalog().Ports)+hubHeaderRows+1, hub.Height)

	for _, line := range hubLines(s.ports.Catalog(), nil, 0) {
		assert.LessOrEqual(t, len([]rune(line.text)), hub.Width-2, line.text)
	}

	editor := s.ws.Find("editor")
	require.NotNil(t, editor)
	assert.Greater(t, editor.Position.X, hub.Position.X+float64(hub.Width))
}

func TestSession_PortChangesResyncCables(t *testing.T) {
	s := newTestSession(t, kv.NewMemory())

	s.ports.Connect("usb-a-1", "keyboard")
	require.Len(t, s.cables.Edges(), 1)
	assert.Equal(t, "editor", s.cables.Edges()[0].TargetPanelID)

	s.ports.Connect("usb-a-2", "mouse")
	assert.Len(t, s.cables.Edges(), 4)

	s.ports.Disconnect("usb-a-1")
	assert.Len(t, s.cables.Edges(), 3)
}

func TestSession_SaveWaitsForLoad(t *testing.T) {
	store := kv.NewMemory()
	s := newTestSession(t, store)
	ctx := context.Background()

	s.ports.Connect("usb-a-1", "keyboard")
	_, found, err := store.Get(ctx, persist.DefaultKey)
	require.NoError(t, err)
	assert.False(t, found, "nothing is written before the load phase")

	restored := s.load()
	assert.False(t, restored.Found)
	assert.True(t, s.persist.Loaded())

	raw, found, err := store.Get(ctx, persist.DefaultKey)
	require.NoError(t, err)
	require.True(t, found)
	snap, err := persist.Decode(raw)
	require.NoError(t, err)
	assert.Contains(t, snap.Ports, "usb-a-1")
	assert.Len(t, snap.Edges, 1)
}

func TestSession_LoadRestoresPreviousRun(t *testing.T) {
	store := kv.NewMemory()

	first := newTestSession(t, store)
	first.load()
	require.NoError(t, first.ws.SetPosition("editor", workspace.Position{X: 80, Y: 30}))
	first.cam.SetCamera(viewport.Camera{Zoom: 1.5, OffsetX: 20, OffsetY: 5})
	first.ports.Connect("usb-a-1", "keyboard")

	second := newTestSession(t, store)
	restored := second.load()

	assert.True(t, restored.Found)
	assert.Equal(t, workspace.Position{X: 80, Y: 30}, second.ws.Find("editor").Position)
	assert.Equal(t, viewport.Camera{Zoom: 1.5, OffsetX: 20, OffsetY: 5}, second.cam.Camera())
	_, ok := second.ports.Binding("usb-a-1")
	assert.True(t, ok)
	assert.Len(t, second.cables.Edges(), 1)
}

func TestSession_ImportSnapshot(t *testing.T) {
	src := newTestSession(t, kv.NewMemory())
	require.NoError(t, src.ws.SetPosition("music", workspace.Position{X: 200, Y: 40}))
	src.ports.Connect("audio-1", "headphones")
	raw, err := src.snapshot().Encode()
	require.NoError(t, err)

	dst := newTestSession(t, kv.NewMemory())
	applied, err := dst.importSnapshot(raw)
	require.NoError(t, err)
	assert.Equal(t, len(dst.ws.Panels), applied)
	assert.Equal(t, workspace.Position{X: 200, Y: 40}, dst.ws.Find("music").Position)
	assert.True(t, dst.ports.IsUtilityAvailable("audio-out"))
	assert.Len(t, dst.cables.Edges(), 2)

	_, err = dst.importSnapshot("not json")
	assert.Error(t, err)

	_, err = dst.importSnapshot(`{"version":1,"panels":[]}`)
	assert.ErrorIs(t, err, persist.ErrVersionMismatch)
}

func TestSession_AddAndRemovePanel(t *testing.T) {
	s := newTestSession(t, kv.NewMemory())
	s.ports.Connect("usb-a-1", "keyboard")

	require.NoError(t, s.addPanel(workspace.Panel{ID: "terminal", RequiredUtilities: []string{"input"}}))
	assert.Len(t, s.cables.Edges(), 2)

	err := s.addPanel(workspace.Panel{ID: "terminal"})
	assert.ErrorIs(t, err, workspace.ErrDuplicatePanel)

	require.NoError(t, s.removePanel("terminal"))
	assert.Len(t, s.cables.Edges(), 1)
	assert.ErrorIs(t, s.removePanel("terminal"), workspace.ErrPanelNotFound)
}
