package ports

import (
	"log/slog"
	"math/rand/v2"
	"sort"
	"time"

	"hubdeck/internal/logging"
)

// DeviceBinding is the simulated device currently plugged into a port.
type DeviceBinding struct {
	PortID      string    `json:"portId"`
	DeviceType  string    `json:"deviceType"`
	DeviceName  string    `json:"deviceName"`
	UtilityID   string    `json:"utilityId"`
	ConnectedAt time.Time `json:"connectedAt"`
	Color       string    `json:"color"`
	Icon        string    `json:"icon"`
}

// State maps port ids to their binding. Empty ports are absent.
type State map[string]DeviceBinding

// Clone returns an independent copy.
func (s State) Clone() State {
	out := make(State, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// PortIDs returns the occupied port ids in sorted order.
func (s State) PortIDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// RandomSource picks device names. *rand.Rand from math/rand/v2 satisfies it.
type RandomSource interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// Store holds the port bindings. Every mutation swaps in a fresh map, so a
// State returned earlier is never modified.
type Store struct {
	catalog   *Catalog
	state     State
	rand      RandomSource
	now       func() time.Time
	log       *slog.Logger
	listeners []func(State)
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithRandom injects the random source used for device names.
func WithRandom(r RandomSource) StoreOption {
	return func(s *Store) {
		s.rand = r
	}
}

// WithClock injects the clock used for ConnectedAt.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		s.now = now
	}
}

// WithLogger sets the store logger.
func WithLogger(l *slog.Logger) StoreOption {
	return func(s *Store) {
		s.log = logging.OrNop(l)
	}
}

// NewStore creates an empty store over catalog.
func NewStore(catalog *Catalog, opts ...StoreOption) *Store {
	s := &Store{
		catalog: catalog,
		state:   State{},
		rand:    globalRand{},
		now:     time.Now,
		log:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Catalog returns the static port and device configuration.
func (s *Store) Catalog() *Catalog {
	return s.catalog
}

// OnChange registers fn to run after every effective mutation.
func (s *Store) OnChange(fn func(State)) {
	s.listeners = append(s.listeners, fn)
}

// State returns a copy of the current bindings.
func (s *Store) State() State {
	return s.state.Clone()
}

// Binding returns the binding on portID, if any.
func (s *Store) Binding(portID string) (DeviceBinding, bool) {
	b, ok := s.state[portID]
	return b, ok
}

// Connect plugs a new device of deviceType into portID, replacing whatever
// was there. Unknown ports and device types are ignored.
func (s *Store) Connect(portID, deviceType string) {
	if _, ok := s.catalog.Port(portID); !ok {
		s.log.Debug("connect ignored", "port", portID, "err", ErrUnknownPort)
		return
	}
	kind, ok := s.catalog.Kind(deviceType)
	if !ok {
		s.log.Debug("connect ignored", "port", portID, "device", deviceType, "err", ErrUnknownDevice)
		return
	}

	name := kind.Label
	if n := len(kind.ExampleNames); n > 0 {
		name = kind.ExampleNames[s.rand.IntN(n)]
	}

	next := s.state.Clone()
	next[portID] = DeviceBinding{
		PortID:      portID,
		DeviceType:  kind.Type,
		DeviceName:  name,
		UtilityID:   kind.UtilityID,
		ConnectedAt: s.now(),
		Color:       kind.Color,
		Icon:        kind.Icon,
	}
	s.commit(next)
	s.log.Info("device connected", "port", portID, "device", kind.Type, "name", name)
}

// Disconnect unplugs portID. Empty or unknown ports are ignored.
func (s *Store) Disconnect(portID string) {
	if _, ok := s.state[portID]; !ok {
		return
	}
	next := s.state.Clone()
	delete(next, portID)
	s.commit(next)
	s.log.Info("device disconnected", "port", portID)
}

// CyclePort steps portID through its compatible device types: empty, first,
// second, ..., last, empty again.
func (s *Store) CyclePort(portID string) {
	def, ok := s.catalog.Port(portID)
	if !ok || len(def.CompatibleDeviceTypes) == 0 {
		return
	}
	current, occupied := s.state[portID]
	if !occupied {
		s.Connect(portID, def.CompatibleDeviceTypes[0])
		return
	}

	idx := -1
	for i, t := range def.CompatibleDeviceTypes {
		if t == current.DeviceType {
			idx = i
			break
		}
	}
	if idx == len(def.CompatibleDeviceTypes)-1 {
		s.Disconnect(portID)
		return
	}
	s.Connect(portID, def.CompatibleDeviceTypes[idx+1])
}

// IsUtilityAvailable reports whether any bound device provides utilityID.
func (s *Store) IsUtilityAvailable(utilityID string) bool {
	for _, b := range s.state {
		if b.UtilityID == utilityID {
			return true
		}
	}
	return false
}

// Restore replaces all bindings, dropping entries whose port or device type
// the catalog does not know. Kind metadata is refreshed from the catalog.
func (s *Store) Restore(state State) {
	next := make(State, len(state))
	for portID, b := range state {
		if _, ok := s.catalog.Port(portID); !ok {
			continue
		}
		kind, ok := s.catalog.Kind(b.DeviceType)
		if !ok {
			continue
		}
		b.PortID = portID
		b.UtilityID = kind.UtilityID
		b.Color = kind.Color
		b.Icon = kind.Icon
		if b.DeviceName == "" {
			b.DeviceName = kind.Label
		}
		next[portID] = b
	}
	s.commit(next)
}

func (s *Store) commit(next State) {
	s.state = next
	for _, fn := range s.listeners {
		fn(next.Clone())
	}
}
