package ruletree

import "github.com/google/uuid"

// IDGenerator assigns ids to nodes whose specification has no explicit id.
// parent is nil for the root. suffix describes the node itself, e.g.
// "AND-checks" or "TERMINAL-boolean".
type IDGenerator interface {
	NodeID(parent *Node, suffix string) string
}

// DerivedIDs is the default generator. Ids are the parent id and the
// suffix joined with a dash, so the same specification always produces the
// same ids. Unnamed siblings of the same kind share an id; give them an
// explicit id or name when ids must be unique.
type DerivedIDs struct{}

func (DerivedIDs) NodeID(parent *Node, suffix string) string {
	if parent == nil {
		return suffix
	}
	return parent.ID + "-" + suffix
}

// UUIDIDs gives every node without an explicit id a random UUID.
type UUIDIDs struct{}

func (UUIDIDs) NodeID(*Node, string) string {
	return uuid.NewString()
}
