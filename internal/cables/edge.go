// Package cables derives the cable edges between the device hub and the
// panels that need what the plugged-in devices provide.
package cables

import "github.com/google/uuid"

// EdgeState is the lifecycle state of a cable.
type EdgeState string

const (
	StateConnecting EdgeState = "connecting"
	StateConnected  EdgeState = "connected"
)

// namespace scopes the name-based edge UUIDs.
var namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("hubdeck:cable"))

// Edge is a cable from a hub port to a consumer panel.
type Edge struct {
	ID            string    `json:"id"`
	SourcePortID  string    `json:"sourcePortId"`
	TargetPanelID string    `json:"targetPanelId"`
	UtilityID     string    `json:"utilityId"`
	State         EdgeState `json:"state"`
}

// EdgeID derives the id of the cable between portID and panelID. It depends
// on nothing else, so the same pair always yields the same id.
func EdgeID(portID, panelID string) string {
	return "cable-" + uuid.NewSHA1(namespace, []byte(portID+"\x00"+panelID)).String()
}
