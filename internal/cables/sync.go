package cables

import (
	"log/slog"

	"hubdeck/internal/logging"
	"hubdeck/internal/ports"
	"hubdeck/internal/workspace"
)

// Synchronizer recomputes the edge set whenever the bindings or panels
// change and keeps the previous slice when the set of edge ids is unchanged.
type Synchronizer struct {
	edges []Edge
	log   *slog.Logger
}

// NewSynchronizer creates a synchronizer with no edges.
func NewSynchronizer(log *slog.Logger) *Synchronizer {
	return &Synchronizer{log: logging.OrNop(log)}
}

// Edges returns the current edge set. Callers must not modify it.
func (s *Synchronizer) Edges() []Edge {
	return s.edges
}

// Sync recomputes the edges from bindings and panels. It reports whether the
// edge set changed; when it did not, Edges keeps returning the previous slice.
func (s *Synchronizer) Sync(bindings ports.State, panels []workspace.Panel) ([]Edge, bool) {
	next := Derive(bindings, panels)
	if sameIDs(s.edges, next) {
		return s.edges, false
	}
	s.log.Debug("cables changed", "before", len(s.edges), "after", len(next))
	s.edges = next
	return s.edges, true
}

// Reset replaces the edge set, e.g. with edges from a restored snapshot. The
// next Sync compares against it.
func (s *Synchronizer) Reset(edges []Edge) {
	s.edges = edges
}

// Derive builds one connected edge for every (binding, panel) pair where the
// panel requires the binding's utility. Bindings are visited in port id order
// and panels in list order. Without a hub panel there are no edges.
func Derive(bindings ports.State, panels []workspace.Panel) []Edge {
	if _, ok := workspace.Hub(panels); !ok {
		return nil
	}
	var edges []Edge
	for _, portID := range bindings.PortIDs() {
		b := bindings[portID]
		for _, p := range panels {
			if p.IsHub() || !p.Requires(b.UtilityID) {
				continue
			}
			edges = append(edges, Edge{
				ID:            EdgeID(portID, p.ID),
				SourcePortID:  portID,
				TargetPanelID: p.ID,
				UtilityID:     b.UtilityID,
				State:         StateConnected,
			})
		}
	}
	return edges
}

func sameIDs(a, b []Edge) bool {
	if len(a) != len(b) {
		return false
	}
	ids := make(map[string]struct{}, len(a))
	for _, e := range a {
		ids[e.ID] = struct{}{}
	}
	for _, e := range b {
		if _, ok := ids[e.ID]; !ok {
			return false
		}
	}
	return true
}
