package model

// Node is a vertex of a per-team routing graph: either a real event or the
// sentinel that stands for "trip not started" and "trip already ended".
// The zero value is not a valid node.
type Node struct {
	kind    nodeKind
	eventID string
}

type nodeKind uint8

const (
	invalidNode nodeKind = iota
	realNode
	sentinelNode
)

// Real returns the node for an event.
func Real(eventID string) Node {
	return Node{kind: realNode, eventID: eventID}
}

// Sentinel returns the start/end node.
func Sentinel() Node {
	return Node{kind: sentinelNode}
}

// IsSentinel reports whether n is the start/end node.
func (n Node) IsSentinel() bool { return n.kind == sentinelNode }

// IsReal reports whether n is an event node.
func (n Node) IsReal() bool { return n.kind == realNode }

// EventID returns the event id of a real node and "" otherwise.
func (n Node) EventID() string {
	if n.kind != realNode {
		return ""
	}
	return n.eventID
}

func (n Node) String() string {
	switch n.kind {
	case realNode:
		return n.eventID
	case sentinelNode:
		return "<sentinel>"
	default:
		return "<invalid>"
	}
}
