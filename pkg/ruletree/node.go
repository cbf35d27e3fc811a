package ruletree

import (
	"fmt"
	"maps"

	"github.com/rs/zerolog/log"

	"rgehrsitz/ruletree/pkg/rules"
)

const rootPath = "$"

// Node is one rule of a built tree. Identity fields are resolved and the
// value is computed when the node is constructed; the value never changes
// afterwards.
type Node struct {
	ID          string
	Name        string
	Description string
	Type        rules.NodeType
	// Message is free text a predicate may attach to its node.
	Message string

	Options     map[string]any
	Meta        map[string]any
	Annotations map[string]any

	// Rules are the child nodes in specification order. Empty for TERMINAL.
	Rules []*Node

	parent   *Node
	value    bool
	analysis *AnalysisNode
}

// Value returns the truth value computed at construction.
func (n *Node) Value() bool {
	return n.value
}

// Parent returns the owning node, or nil for the root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Analysis returns the explanation built for this node.
func (n *Node) Analysis() *AnalysisNode {
	return n.analysis
}

// Handle is the mutation capability passed to a [Predicate]. It reaches the
// predicate's own node and nothing else.
type Handle struct {
	node *Node
}

func (h *Handle) ID() string {
	return h.node.ID
}

func (h *Handle) Type() rules.NodeType {
	return h.node.Type
}

func (h *Handle) Name() string {
	return h.node.Name
}

// Meta returns a copy of the node's merged meta map.
func (h *Handle) Meta() map[string]any {
	return maps.Clone(h.node.Meta)
}

// Options returns a copy of the node's options map.
func (h *Handle) Options() map[string]any {
	return maps.Clone(h.node.Options)
}

func (h *Handle) SetName(name string) {
	h.node.Name = name
}

func (h *Handle) SetDescription(description string) {
	h.node.Description = description
}

func (h *Handle) SetMessage(message string) {
	h.node.Message = message
}

// Annotate records a custom key on the node. Annotations are copied into
// the node's analysis.
func (h *Handle) Annotate(key string, value any) {
	if h.node.Annotations == nil {
		h.node.Annotations = make(map[string]any)
	}
	h.node.Annotations[key] = value
}

// newNode builds the node for spec and, recursively, its subtree. Errors
// raised for this node carry its path; errors from children are returned
// unchanged since they already carry theirs.
func newNode(spec any, parent *Node, opts Options, path string) (*Node, error) {
	rs, err := resolve(spec)
	if err != nil {
		return nil, pathError(path, err)
	}

	n := &Node{
		Type:   rs.nodeType,
		parent: parent,
	}
	n.ID = nodeID(rs, parent, opts.idGenerator())
	n.Name = nodeName(rs)
	n.Description = nodeDescription(rs)

	n.Options, err = nodeOptions(rs)
	if err != nil {
		return nil, pathError(path, err)
	}

	n.Meta, err = nodeMeta(rs, opts.Meta)
	if err != nil {
		return nil, pathError(path, err)
	}

	if err := n.setValue(rs, opts, path); err != nil {
		return nil, err
	}

	n.analysis = newAnalysisNode(n, opts)

	log.Debug().
		Str("id", n.ID).
		Str("type", n.Type.String()).
		Int("rules", len(n.Rules)).
		Bool("value", n.value).
		Msg("Built rule node")

	return n, nil
}

func (n *Node) setValue(rs resolvedSpec, opts Options, path string) error {
	if n.Type == rules.TypeTerminal {
		value, err := n.terminalValue(rs)
		if err != nil {
			return pathError(path, err)
		}
		n.value = value
		return nil
	}

	children, ok := rs.object.rules.([]any)
	if !ok {
		if rs.object.rules == nil {
			return pathError(path, fmt.Errorf("%w: %s rule has no rules", rules.ErrMissingRulesArray, n.Type))
		}
		return pathError(path, fmt.Errorf("%w: got %T", rules.ErrMissingRulesArray, rs.object.rules))
	}

	n.Rules = make([]*Node, 0, len(children))
	values := make([]bool, 0, len(children))
	for i, childSpec := range children {
		child, err := newNode(childSpec, n, opts, fmt.Sprintf("%s.rules[%d]", path, i))
		if err != nil {
			return err
		}
		n.Rules = append(n.Rules, child)
		values = append(values, child.value)
	}

	value, err := Evaluate(n.Type, values)
	if err != nil {
		return pathError(path, err)
	}
	n.value = value

	return nil
}

func (n *Node) terminalValue(rs resolvedSpec) (bool, error) {
	switch rs.kind {
	case kindBool:
		return rs.boolean, nil
	case kindPredicate:
		return rs.predicate(&Handle{node: n}), nil
	}

	switch evaluate := rs.object.evaluate.(type) {
	case bool:
		return evaluate, nil
	case nil:
		return false, fmt.Errorf("%w: object has no evaluate field", rules.ErrInvalidTerminalEvaluate)
	default:
		p, ok := asPredicate(evaluate)
		if !ok {
			return false, fmt.Errorf("%w: got %#v (%T)", rules.ErrInvalidTerminalEvaluate, evaluate, evaluate)
		}
		return p(&Handle{node: n}), nil
	}
}

func nodeID(rs resolvedSpec, parent *Node, ids IDGenerator) string {
	if rs.kind == kindObject && rs.object.id != "" {
		return rs.object.id
	}

	var suffix string
	if rs.kind == kindObject {
		name := "no-name-provided"
		if rs.object.name != "" {
			name = rs.object.name
		}
		suffix = fmt.Sprintf("%s-%s", rs.nodeType, name)
	} else {
		suffix = fmt.Sprintf("%s-%s", rules.TypeTerminal, rs.kind.kindName())
	}

	return ids.NodeID(parent, suffix)
}

func nodeName(rs resolvedSpec) string {
	if rs.kind == kindObject && rs.object.name != "" {
		return rs.object.name
	}
	return fmt.Sprintf("%s rule", rs.nodeType)
}

func nodeDescription(rs resolvedSpec) string {
	if rs.kind != kindObject {
		return fmt.Sprintf("%s-%s", rules.TypeTerminal, rs.kind.kindName())
	}
	return rs.object.description
}

func nodeOptions(rs resolvedSpec) (map[string]any, error) {
	if rs.kind != kindObject || rs.object.options == nil {
		return map[string]any{}, nil
	}
	options, ok := rs.object.options.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: got %#v (%T)", rules.ErrInvalidOptions, rs.object.options, rs.object.options)
	}
	return maps.Clone(options), nil
}

// nodeMeta merges the tree-wide meta with the node's own; node keys win.
func nodeMeta(rs resolvedSpec, globalMeta map[string]any) (map[string]any, error) {
	meta := make(map[string]any, len(globalMeta))
	maps.Copy(meta, globalMeta)

	if rs.kind != kindObject || rs.object.meta == nil {
		return meta, nil
	}

	own, ok := rs.object.meta.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: got %#v (%T)", rules.ErrInvalidMeta, rs.object.meta, rs.object.meta)
	}
	maps.Copy(meta, own)

	return meta, nil
}

func pathError(path string, err error) error {
	return fmt.Errorf("rule %s: %w", path, err)
}
