package workspace

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	w := Default()
	hub, ok := w.Hub()
	require.True(t, ok)
	assert.Equal(t, "device-hub", hub.ID)

	editor := w.Find("editor")
	require.NotNil(t, editor)
	assert.Equal(t, KindConsumer, editor.Kind)
	assert.True(t, editor.Requires("pointer"))
	assert.False(t, editor.Requires("network"))
	assert.Equal(t, 5, editor.Height)
	assert.Equal(t, minPanelWidth, editor.Width)
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse([]byte("panels:\n  - {id: a}\n  - {id: a}\n"))
	assert.True(t, errors.Is(err, ErrDuplicatePanel))

	_, err = Parse([]byte("panels:\n  - {title: nameless}\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("panels: []\n"))
	assert.ErrorIs(t, err, ErrNoPanels)

	_, err = Parse([]byte("panels: {"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ws.yaml")
	require.NoError(t, os.WriteFile(path, []byte("panels:\n  - {id: hub, kind: hub}\n  - {id: lamp, requires: [light]}\n"), 0o644))

	w, err := Load(path)
	require.NoError(t, err)
	require.Len(t, w.Panels, 2)
	assert.Equal(t, "lamp", w.Panels[1].Title)
}

func TestAddRemoveMove(t *testing.T) {
	w := &Workspace{}
	require.NoError(t, w.Add(Panel{ID: "a", RequiredUtilities: []string{"input"}}))
	assert.Error(t, w.Add(Panel{ID: "a"}))
	assert.Error(t, w.Add(Panel{}))

	require.NoError(t, w.Move("a", 3, -2))
	assert.Equal(t, Position{X: 3, Y: -2}, w.Find("a").Position)
	require.NoError(t, w.SetPosition("a", Position{X: 40, Y: 12}))
	assert.Equal(t, Position{X: 40, Y: 12}, w.Find("a").Position)

	assert.True(t, errors.Is(w.Move("b", 1, 1), ErrPanelNotFound))
	require.NoError(t, w.Remove("a"))
	assert.True(t, errors.Is(w.Remove("a"), ErrPanelNotFound))
	assert.Empty(t, w.Panels)
}

func TestPanelAt_TopmostWins(t *testing.T) {
	w := &Workspace{Panels: []Panel{
		{ID: "under", Position: Position{X: 0, Y: 0}, Width: 10, Height: 10},
		{ID: "over", Position: Position{X: 5, Y: 5}, Width: 10, Height: 10},
	}}
	assert.Equal(t, "over", w.PanelAt(6, 6).ID)
	assert.Equal(t, "under", w.PanelAt(1, 1).ID)
	assert.Nil(t, w.PanelAt(30, 30))
}

func TestClone_IsDeep(t *testing.T) {
	w := Default()
	panels := w.Clone()
	panels[1].RequiredUtilities[0] = "changed"
	panels[1].Position.X = 99
	assert.NotEqual(t, "changed", w.Panels[1].RequiredUtilities[0])
	assert.NotEqual(t, 99.0, w.Panels[1].Position.X)
}

func TestArrange(t *testing.T) {
	w := Default()
	hub := w.Find("device-hub")
	hub.Width, hub.Height = 30, 11
	w.Arrange()

	assert.Equal(t, Position{X: HubOriginX, Y: HubOriginY}, w.Find("device-hub").Position)

	consumerX := float64(HubOriginX + 30 + columnGap)
	prevBottom := -1.0
	for _, p := range w.Panels {
		if p.IsHub() {
			continue
		}
		assert.Equal(t, consumerX, p.Position.X, p.ID)
		assert.Greater(t, p.Position.Y, prevBottom, p.ID)
		prevBottom = p.Position.Y + float64(p.Height)
	}
}

func TestArrange_WrapsColumns(t *testing.T) {
	w := &Workspace{}
	require.NoError(t, w.Add(Panel{ID: "hub", Kind: KindHub, Width: 20, Height: 10}))
	for i := 0; i < 12; i++ {
		require.NoError(t, w.Add(Panel{ID: string(rune('a' + i)), Width: 16, Height: 5}))
	}
	w.Arrange()

	first := w.Find("a").Position.X
	last := w.Find("l").Position.X
	assert.Greater(t, last, first)
}

func TestArrange_NoHub(t *testing.T) {
	w := &Workspace{}
	require.NoError(t, w.Add(Panel{ID: "a", Width: 16, Height: 4}))
	w.Arrange()
	assert.Equal(t, float64(HubOriginX), w.Find("a").Position.X)
}
