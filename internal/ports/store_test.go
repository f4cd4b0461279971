package ports

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seqRand returns a fixed sequence of indices, clamped to n.
type seqRand struct {
	seq []int
	i   int
}

func (r *seqRand) IntN(n int) int {
	v := r.seq[r.i%len(r.seq)]
	r.i++
	if v >= n {
		return n - 1
	}
	return v
}

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T, seq ...int) *Store {
	t.Helper()
	if len(seq) == 0 {
		seq = []int{0}
	}
	return NewStore(DefaultCatalog(),
		WithRandom(&seqRand{seq: seq}),
		WithClock(func() time.Time { return testNow }),
	)
}

func TestConnect_CreatesBinding(t *testing.T) {
	s := newTestStore(t, 1)

	s.Connect("usb-a-1", "keyboard")

	b, ok := s.Binding("usb-a-1")
	require.True(t, ok)
	assert.Equal(t, DeviceBinding{
		PortID:      "usb-a-1",
		DeviceType:  "keyboard",
		DeviceName:  "HHKB Pro",
		UtilityID:   "input",
		ConnectedAt: testNow,
		Color:       "#89b4fa",
		Icon:        "K",
	}, b)
}

func TestConnect_RandomNameFromSource(t *testing.T) {
	s := newTestStore(t, 2, 0)

	s.Connect("usb-a-1", "mouse")
	b, _ := s.Binding("usb-a-1")
	assert.Equal(t, "Trackball T1", b.DeviceName)

	s.Connect("usb-a-1", "mouse")
	b, _ = s.Binding("usb-a-1")
	assert.Equal(t, "MX Master", b.DeviceName)
}

func TestConnect_UnknownIsNoop(t *testing.T) {
	s := newTestStore(t)
	calls := 0
	s.OnChange(func(State) { calls++ })

	s.Connect("usb-a-1", "toaster")
	s.Connect("serial-9", "keyboard")

	assert.Empty(t, s.State())
	assert.Zero(t, calls)
}

func TestDisconnect(t *testing.T) {
	s := newTestStore(t)
	calls := 0
	s.OnChange(func(State) { calls++ })

	s.Disconnect("usb-a-1")
	assert.Zero(t, calls)

	s.Connect("usb-a-1", "keyboard")
	s.Disconnect("usb-a-1")
	_, ok := s.Binding("usb-a-1")
	assert.False(t, ok)
	assert.Equal(t, 2, calls)
}

func TestCyclePort_WrapsToEmpty(t *testing.T) {
	s := newTestStore(t)
	// usb-a-1 accepts keyboard, mouse, storage.
	want := []string{"keyboard", "mouse", "storage", ""}
	for _, typ := range want {
		s.CyclePort("usb-a-1")
		b, ok := s.Binding("usb-a-1")
		if typ == "" {
			assert.False(t, ok)
			continue
		}
		require.True(t, ok)
		assert.Equal(t, typ, b.DeviceType)
	}

	// Cycling again starts over from the first type.
	s.CyclePort("usb-a-1")
	b, _ := s.Binding("usb-a-1")
	assert.Equal(t, "keyboard", b.DeviceType)
}

func TestCyclePort_SingleCompatibleType(t *testing.T) {
	s := newTestStore(t)
	s.CyclePort("hdmi-1")
	b, ok := s.Binding("hdmi-1")
	require.True(t, ok)
	assert.Equal(t, "display", b.DeviceType)
	s.CyclePort("hdmi-1")
	assert.Empty(t, s.State())
}

func TestCyclePort_IncompatibleCurrentRestartsAtFirst(t *testing.T) {
	s := newTestStore(t)
	s.Connect("hdmi-1", "keyboard")
	s.CyclePort("hdmi-1")
	b, _ := s.Binding("hdmi-1")
	assert.Equal(t, "display", b.DeviceType)
}

func TestCyclePort_UnknownPortIsNoop(t *testing.T) {
	s := newTestStore(t)
	s.CyclePort("nope")
	assert.Empty(t, s.State())
}

func TestIsUtilityAvailable(t *testing.T) {
	s := newTestStore(t)
	assert.False(t, s.IsUtilityAvailable("network"))
	s.Connect("eth-1", "ethernet")
	assert.True(t, s.IsUtilityAvailable("network"))
	assert.False(t, s.IsUtilityAvailable("audio-out"))
}

func TestState_IsImmutableSnapshot(t *testing.T) {
	s := newTestStore(t)
	s.Connect("usb-a-1", "keyboard")
	before := s.State()

	s.Disconnect("usb-a-1")
	before["usb-c-1"] = DeviceBinding{}

	assert.Len(t, before, 2)
	assert.Empty(t, s.State())
}

func TestOnChange_ReceivesNewState(t *testing.T) {
	s := newTestStore(t)
	var got State
	s.OnChange(func(st State) { got = st })

	s.Connect("audio-1", "microphone")
	require.Contains(t, got, "audio-1")
	assert.Equal(t, "audio-in", got["audio-1"].UtilityID)
}

func TestRestore_DropsUnknownAndRefreshesKind(t *testing.T) {
	s := newTestStore(t)
	s.Restore(State{
		"usb-a-1":  {DeviceType: "keyboard", DeviceName: "Saved Board", Color: "#000000"},
		"serial-9": {DeviceType: "keyboard"},
		"usb-a-2":  {DeviceType: "toaster"},
		"hdmi-1":   {DeviceType: "display"},
	})

	st := s.State()
	require.Len(t, st, 2)
	assert.Equal(t, "Saved Board", st["usb-a-1"].DeviceName)
	assert.Equal(t, "#89b4fa", st["usb-a-1"].Color)
	assert.Equal(t, "usb-a-1", st["usb-a-1"].PortID)
	assert.Equal(t, "Display", st["hdmi-1"].DeviceName)
}

func TestStatePortIDsSorted(t *testing.T) {
	st := State{"b": {}, "a": {}, "c": {}}
	assert.Equal(t, []string{"a", "b", "c"}, st.PortIDs())
}
