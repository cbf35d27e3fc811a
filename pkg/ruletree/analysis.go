package ruletree

import (
	"maps"

	"rgehrsitz/ruletree/pkg/rules"
)

// AnalysisNode explains the value of one rule. It holds no reference to
// its rule node or its parent, so an analysis tree can be serialized as is.
type AnalysisNode struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Type        rules.NodeType `json:"type"`
	Value       bool           `json:"value"`
	Message     string         `json:"message,omitempty"`
	Annotations map[string]any `json:"annotations,omitempty"`

	// ChildRules is set by the default analysis.
	ChildRules *ChildRules `json:"childRules,omitempty"`

	// Reason and Extra are free for custom analyzers.
	Reason string         `json:"reason,omitempty"`
	Extra  map[string]any `json:"extra,omitempty"`
}

// ChildRules buckets the analyses of a node's direct children by value,
// keeping specification order within each bucket.
type ChildRules struct {
	Passing []*AnalysisNode `json:"passing"`
	Failing []*AnalysisNode `json:"failing"`
}

// AnalyzeFunc replaces the default analysis of every node. It runs once the
// node and all its children are valued, and is responsible for filling a.
type AnalyzeFunc func(a *AnalysisNode, n *Node, opts Options)

func newAnalysisNode(n *Node, opts Options) *AnalysisNode {
	a := &AnalysisNode{
		ID:          n.ID,
		Name:        n.Name,
		Description: n.Description,
		Type:        n.Type,
		Value:       n.value,
		Message:     n.Message,
		Annotations: maps.Clone(n.Annotations),
	}

	if opts.Analyze != nil {
		opts.Analyze(a, n, opts)
	} else {
		DefaultAnalysis(a, n)
	}

	return a
}

// DefaultAnalysis sorts the analyses of n's children into passing and
// failing. Custom analyzers may call it before adding their own fields.
func DefaultAnalysis(a *AnalysisNode, n *Node) {
	a.ChildRules = &ChildRules{
		Passing: []*AnalysisNode{},
		Failing: []*AnalysisNode{},
	}
	for _, child := range n.Rules {
		if child.value {
			a.ChildRules.Passing = append(a.ChildRules.Passing, child.analysis)
		} else {
			a.ChildRules.Failing = append(a.ChildRules.Failing, child.analysis)
		}
	}
}

// Counts returns the number of passing and failing children, or zeros when
// the node was analyzed without buckets.
func (a *AnalysisNode) Counts() (passing, failing int) {
	if a.ChildRules == nil {
		return 0, 0
	}
	return len(a.ChildRules.Passing), len(a.ChildRules.Failing)
}
