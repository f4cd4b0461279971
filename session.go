package main

import (
	"context"
	"fmt"
	"log/slog"

	"hubdeck/internal/cables"
	"hubdeck/internal/kv"
	"hubdeck/internal/persist"
	"hubdeck/internal/ports"
	"hubdeck/internal/viewport"
	"hubdeck/internal/workspace"
)

// session wires the core together: port mutations and panel list changes
// resync the cables, and every change after the initial load is saved.
type session struct {
	cfg     *Config
	log     *slog.Logger
	store   kv.Store
	cam     *viewport.Controller
	ports   *ports.Store
	ws      *workspace.Workspace
	cables  *cables.Synchronizer
	persist *persist.Adapter
}

func newSession(cfg *Config, log *slog.Logger, store kv.Store) (*session, error) {
	catalog := ports.DefaultCatalog()
	if cfg.Catalog != "" {
		c, err := ports.LoadCatalog(cfg.Catalog)
		if err != nil {
			return nil, err
		}
		catalog = c
	}

	ws := workspace.Default()
	if cfg.Workspace != "" {
		w, err := workspace.Load(cfg.Workspace)
		if err != nil {
			return nil, err
		}
		ws = w
	}

	s := &session{
		cfg:   cfg,
		log:   log,
		store: store,
		cam: viewport.NewController(
			viewport.WithLimits(cfg.Limits()),
			viewport.WithLogger(log),
		),
		ports:  ports.NewStore(catalog, ports.WithLogger(log)),
		ws:     ws,
		cables: cables.NewSynchronizer(log),
		persist: persist.New(store,
			persist.WithKey(cfg.Persist.Key),
			persist.WithSettleDelay(cfg.SettleDelay()),
			persist.WithLogger(log),
		),
	}
	s.sizeHub()
	s.ws.Arrange()
	s.ports.OnChange(func(ports.State) { s.resync() })
	return s, nil
}

// sizeHub fits the hub panel to its port list: a marker, the port id, the
// device icon and the longest device name, inside the border.
func (s *session) sizeHub() {
	hub, ok := s.ws.Hub()
	if !ok {
		return
	}
	p := s.ws.Find(hub.ID)
	catalog := s.ports.Catalog()
	idWidth := 0
	for _, port := range catalog.Ports {
		idWidth = max(idWidth, len(port.ID))
	}
	p.Width = max(len(p.Title)+4, idWidth+longestName(catalog)+8)
	p.Height = len(catalog.Ports) + hubHeaderRows + 1
}

func longestName(c *ports.Catalog) int {
	n := 0
	for _, k := range c.Kinds {
		n = max(n, len(k.Label))
		for _, name := range k.ExampleNames {
			n = max(n, len(name))
		}
	}
	return n
}

// resync recomputes the cables and saves when they changed.
func (s *session) resync() bool {
	_, changed := s.cables.Sync(s.ports.State(), s.ws.Panels)
	s.save()
	return changed
}

func (s *session) snapshot() persist.Snapshot {
	cam := s.cam.Camera()
	return persist.NewSnapshot(s.ws.Panels, s.cables.Edges(), &cam, s.ports.State())
}

// save writes the snapshot; before the initial load it does nothing.
func (s *session) save() {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	if _, err := s.persist.Save(ctx, s.snapshot()); err != nil {
		s.log.Error("save layout", "err", err)
	}
}

// load restores the saved layout on top of the arranged one.
func (s *session) load() persist.Restored {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	restored := s.persist.Load(ctx, s.ws.Clone())
	s.applyPositions(restored.Panels)
	if restored.Found {
		s.cables.Reset(restored.Edges)
		if restored.Camera != nil {
			s.cam.SetCamera(*restored.Camera)
		}
		s.ports.Restore(restored.Ports)
	}
	s.resync()
	return restored
}

// importSnapshot applies a snapshot from outside the store, e.g. the
// clipboard.
func (s *session) importSnapshot(raw string) (int, error) {
	snap, err := persist.Decode(raw)
	if err != nil {
		return 0, err
	}
	panels, applied := persist.Apply(snap, s.ws.Panels)
	s.applyPositions(panels)
	if snap.Camera != nil {
		s.cam.SetCamera(*snap.Camera)
	}
	s.ports.Restore(snap.Ports)
	return applied, nil
}

func (s *session) applyPositions(panels []workspace.Panel) {
	for _, p := range panels {
		_ = s.ws.SetPosition(p.ID, p.Position)
	}
}

func (s *session) addPanel(p workspace.Panel) error {
	if err := s.ws.Add(p); err != nil {
		return err
	}
	s.resync()
	return nil
}

func (s *session) removePanel(id string) error {
	if err := s.ws.Remove(id); err != nil {
		return err
	}
	s.resync()
	return nil
}

// rearrange discards manual placement and lays the panels out again.
func (s *session) rearrange() {
	s.ws.Arrange()
	s.save()
}

func (s *session) close() error {
	if err := s.store.Close(); err != nil {
		return fmt.Errorf("close store: %w", err)
	}
	return nil
}
