// Package persist saves and restores the canvas layout through a kv.Store.
package persist

import (
	"encoding/json"
	"fmt"

	"hubdeck/internal/cables"
	"hubdeck/internal/ports"
	"hubdeck/internal/viewport"
	"hubdeck/internal/workspace"
)

// SnapshotVersion is bumped whenever the snapshot schema changes. The key
// embeds it, so older snapshots are never read again.
const SnapshotVersion = 3

// DefaultKey is the store key snapshots are written under.
var DefaultKey = fmt.Sprintf("hubdeck-layout-v%d", SnapshotVersion)

// PanelPosition records where a panel sits.
type PanelPosition struct {
	ID       string             `json:"id"`
	Position workspace.Position `json:"position"`
}

// Snapshot is the persisted layout.
type Snapshot struct {
	Version int              `json:"version"`
	Panels  []PanelPosition  `json:"panels"`
	Edges   []cables.Edge    `json:"edges"`
	Camera  *viewport.Camera `json:"camera,omitempty"`
	Ports   ports.State      `json:"ports,omitempty"`
}

// NewSnapshot captures the current layout.
func NewSnapshot(panels []workspace.Panel, edges []cables.Edge, cam *viewport.Camera, bindings ports.State) Snapshot {
	s := Snapshot{
		Version: SnapshotVersion,
		Panels:  make([]PanelPosition, 0, len(panels)),
		Edges:   edges,
		Camera:  cam,
		Ports:   bindings,
	}
	if s.Edges == nil {
		s.Edges = []cables.Edge{}
	}
	for _, p := range panels {
		s.Panels = append(s.Panels, PanelPosition{ID: p.ID, Position: p.Position})
	}
	return s
}

// Encode marshals the snapshot to JSON.
func (s Snapshot) Encode() (string, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}
	return string(data), nil
}

// Decode parses a JSON snapshot and checks its version.
func Decode(raw string) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	if s.Version != SnapshotVersion {
		return Snapshot{}, fmt.Errorf("%w: got %d, want %d", ErrVersionMismatch, s.Version, SnapshotVersion)
	}
	return s, nil
}
