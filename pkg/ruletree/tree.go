package ruletree

import (
	"encoding/json"
	"fmt"
	"maps"

	"github.com/rs/zerolog/log"
)

// Options apply to every node of a tree.
type Options struct {
	// Meta is merged into every node's meta; node keys win.
	Meta map[string]any
	// Analyze replaces the default passing/failing analysis.
	Analyze AnalyzeFunc
	// IDs assigns ids to nodes without an explicit id. Defaults to
	// [DerivedIDs].
	IDs IDGenerator
}

func (o Options) idGenerator() IDGenerator {
	if o.IDs == nil {
		return DerivedIDs{}
	}
	return o.IDs
}

// Tree owns the root of a built rule tree.
type Tree struct {
	options Options
	root    *Node
}

// New builds a tree from spec. Any failure aborts the whole build.
func New(spec any, opts Options) (*Tree, error) {
	opts.Meta = maps.Clone(opts.Meta)
	t := &Tree{options: opts}

	root, err := t.Build(spec)
	if err != nil {
		return nil, err
	}
	t.root = root

	log.Debug().
		Str("root", root.ID).
		Bool("value", root.value).
		Int("nodes", t.size()).
		Msg("Built rule tree")

	return t, nil
}

// Build constructs a node tree from spec using the tree's options. It does
// not replace the tree's root.
func (t *Tree) Build(spec any) (*Node, error) {
	return newNode(spec, nil, t.options, rootPath)
}

// Evaluate returns the value of the root rule.
func (t *Tree) Evaluate() bool {
	return t.root.value
}

func (t *Tree) Root() *Node {
	return t.root
}

func (t *Tree) Options() Options {
	return t.options
}

// Analysis returns the analysis of the root rule.
func (t *Tree) Analysis() *AnalysisNode {
	return t.root.analysis
}

// AnalysisJSON returns the root analysis serialized as JSON.
func (t *Tree) AnalysisJSON() (string, error) {
	b, err := json.Marshal(t.root.analysis)
	if err != nil {
		return "", fmt.Errorf("marshal analysis: %w", err)
	}
	return string(b), nil
}

// Walk visits the nodes in pre-order until fn returns false.
func (t *Tree) Walk(fn func(n *Node) bool) {
	walk(t.root, fn)
}

func walk(n *Node, fn func(n *Node) bool) bool {
	if !fn(n) {
		return false
	}
	for _, child := range n.Rules {
		if !walk(child, fn) {
			return false
		}
	}
	return true
}

func (t *Tree) size() int {
	count := 0
	t.Walk(func(*Node) bool {
		count++
		return true
	})
	return count
}
