package persist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"hubdeck/internal/cables"
	"hubdeck/internal/kv"
	"hubdeck/internal/logging"
	"hubdeck/internal/ports"
	"hubdeck/internal/viewport"
	"hubdeck/internal/workspace"
)

// DefaultSettleDelay gives the initial layout time to place panels before
// the saved positions are applied.
const DefaultSettleDelay = 100 * time.Millisecond

// originEpsilon: saved positions with both coordinates below it are treated
// as never-moved placeholders and not restored.
const originEpsilon = 10

// ErrVersionMismatch is returned by Decode for a snapshot written with a
// different format version.
var ErrVersionMismatch = errors.New("snapshot version mismatch")

// Adapter loads the snapshot once and saves on every change afterwards.
// Saves are dropped until the load has run, so an empty session cannot
// overwrite a good snapshot. It is driven from a single goroutine.
type Adapter struct {
	store  kv.Store
	key    string
	settle time.Duration
	log    *slog.Logger

	loadScheduled bool
	loaded        bool
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithKey overrides the store key.
func WithKey(key string) Option {
	return func(a *Adapter) {
		a.key = key
	}
}

// WithSettleDelay overrides the delay between BeginLoad and Load.
func WithSettleDelay(d time.Duration) Option {
	return func(a *Adapter) {
		a.settle = d
	}
}

// WithLogger sets the adapter logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *Adapter) {
		a.log = logging.OrNop(l)
	}
}

// New creates an adapter over store.
func New(store kv.Store, opts ...Option) *Adapter {
	a := &Adapter{
		store:  store,
		key:    DefaultKey,
		settle: DefaultSettleDelay,
		log:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Key returns the store key in use.
func (a *Adapter) Key() string {
	return a.key
}

// Loaded reports whether the load phase has finished.
func (a *Adapter) Loaded() bool {
	return a.loaded
}

// BeginLoad reports, exactly once, that the load should be scheduled: the
// first time it is called with a non-empty panel list. The caller waits for
// the returned delay and then calls Load.
func (a *Adapter) BeginLoad(panelCount int) (time.Duration, bool) {
	if a.loadScheduled || a.loaded || panelCount == 0 {
		return 0, false
	}
	a.loadScheduled = true
	return a.settle, true
}

// Restored is the outcome of Load.
type Restored struct {
	// Panels is the input list with saved positions applied.
	Panels []workspace.Panel
	Edges  []cables.Edge
	Camera *viewport.Camera
	Ports  ports.State
	// Found is false when there was no usable snapshot.
	Found bool
	// Applied counts panels whose position was restored.
	Applied int
}

// Load reads the snapshot and applies saved positions to panels present in
// both the snapshot and the current list. Positions near the origin are
// skipped. Missing, unreadable and outdated snapshots yield Found=false.
// Load always completes the load phase.
func (a *Adapter) Load(ctx context.Context, panels []workspace.Panel) Restored {
	a.loaded = true

	out := Restored{Panels: clonePanels(panels)}
	snap, ok, err := a.Read(ctx)
	if err != nil {
		a.log.Warn("ignoring saved layout", "key", a.key, "err", err)
		return out
	}
	if !ok {
		a.log.Info("no saved layout", "key", a.key)
		return out
	}

	out.Panels, out.Applied = Apply(snap, panels)
	out.Found = true
	out.Edges = snap.Edges
	out.Camera = snap.Camera
	out.Ports = snap.Ports
	a.log.Info("layout restored", "key", a.key, "panels", out.Applied, "edges", len(out.Edges))
	return out
}

// Read fetches and decodes the snapshot without touching the load state.
func (a *Adapter) Read(ctx context.Context) (Snapshot, bool, error) {
	raw, ok, err := a.store.Get(ctx, a.key)
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("read snapshot: %w", err)
	}
	if !ok {
		return Snapshot{}, false, nil
	}
	snap, err := Decode(raw)
	if err != nil {
		return Snapshot{}, false, err
	}
	return snap, true, nil
}

// Save writes the snapshot. Before the load phase completes it does nothing
// and reports false.
func (a *Adapter) Save(ctx context.Context, snap Snapshot) (bool, error) {
	if !a.loaded {
		a.log.Debug("save skipped before load", "key", a.key)
		return false, nil
	}
	raw, err := snap.Encode()
	if err != nil {
		return false, err
	}
	if err := a.store.Set(ctx, a.key, raw); err != nil {
		return false, fmt.Errorf("write snapshot: %w", err)
	}
	return true, nil
}

// Clear deletes the stored snapshot.
func (a *Adapter) Clear(ctx context.Context) error {
	if err := a.store.Delete(ctx, a.key); err != nil {
		return fmt.Errorf("clear snapshot: %w", err)
	}
	return nil
}

// Apply returns a copy of panels with the snapshot's positions applied to
// panels present in both. Saved positions near the origin are skipped: they
// are indistinguishable from a panel that was never placed.
func Apply(snap Snapshot, panels []workspace.Panel) ([]workspace.Panel, int) {
	out := clonePanels(panels)
	saved := make(map[string]workspace.Position, len(snap.Panels))
	for _, p := range snap.Panels {
		saved[p.ID] = p.Position
	}
	applied := 0
	for i := range out {
		pos, ok := saved[out[i].ID]
		if !ok || nearOrigin(pos) {
			continue
		}
		out[i].Position = pos
		applied++
	}
	return out, applied
}

func nearOrigin(p workspace.Position) bool {
	return p.X < originEpsilon && p.Y < originEpsilon
}

func clonePanels(panels []workspace.Panel) []workspace.Panel {
	out := make([]workspace.Panel, len(panels))
	copy(out, panels)
	return out
}
