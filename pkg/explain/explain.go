// Package explain produces natural-language reasons for rule tree verdicts.
//
// [Analyze] plugs into [ruletree.Options] and states, for every node, why its
// operator passed or failed given how many of its children passed.
package explain

import (
	"fmt"
	"strings"

	"rgehrsitz/ruletree/pkg/rules"
	"rgehrsitz/ruletree/pkg/ruletree"
)

// Analyze is a [ruletree.AnalyzeFunc]. It keeps the default passing/failing
// buckets and adds a reason to every analysis node.
func Analyze(a *ruletree.AnalysisNode, n *ruletree.Node, _ ruletree.Options) {
	ruletree.DefaultAnalysis(a, n)
	passing, failing := a.Counts()
	a.Reason = Reason(n.Type, n.Name, n.Value(), passing, failing)
}

// Reason explains the value of a node from its child counts.
func Reason(t rules.NodeType, name string, value bool, passing, failing int) string {
	total := passing + failing

	switch t {
	case rules.TypeAnd:
		if value {
			return fmt.Sprintf("%s passed because all of the rules below passed", name)
		}
		return fmt.Sprintf("%s failed because %d of %d %s failed, but all needed to pass",
			name, failing, total, pluralize("rule", total))

	case rules.TypeNand:
		if value {
			return fmt.Sprintf("%s passed because %d of %d %s failed, and at least one needed to fail",
				name, failing, total, pluralize("rule", total))
		}
		return fmt.Sprintf("%s failed because all of the rules below passed, but at least one needed to fail", name)

	case rules.TypeOr:
		if value {
			return fmt.Sprintf("%s passed because at least 1 (%d) of the rules below passed.", name, passing)
		}
		return fmt.Sprintf("%s failed because none of the rules below passed.", name)

	case rules.TypeNor:
		if value {
			return fmt.Sprintf("%s passed because none of the rules below passed.", name)
		}
		return fmt.Sprintf("%s failed because %d of the rules below passed, but none were allowed to pass.", name, passing)

	case rules.TypeXor:
		if value {
			return fmt.Sprintf("%s passed because an odd number (%d) of the rules below passed.", name, passing)
		}
		return fmt.Sprintf("%s failed because %d passed. Expected an odd number to be true", name, passing)

	case rules.TypeNxor:
		if value {
			return fmt.Sprintf("%s passed because an even number (%d) of the rules below passed.", name, passing)
		}
		return fmt.Sprintf("%s failed because %d passed. Expected an even number to be true", name, passing)

	case rules.TypeExactlyOne:
		if value {
			return fmt.Sprintf("%s passed because exactly 1 of the rules below passed.", name)
		}
		if passing == 0 {
			return fmt.Sprintf("%s failed because none of the rules below passed. Expected exactly one to be true", name)
		}
		return fmt.Sprintf("%s failed because %d passed. Expected exactly one to be true", name, passing)

	default:
		if value {
			return fmt.Sprintf("%s passed", name)
		}
		return fmt.Sprintf("%s failed", name)
	}
}

// Lines renders an analysis tree as an indented report, one node per line.
// Passing children are listed before failing ones.
func Lines(a *ruletree.AnalysisNode) []string {
	var lines []string
	appendLines(&lines, a, 0)
	return lines
}

func appendLines(lines *[]string, a *ruletree.AnalysisNode, depth int) {
	status := "FAIL"
	if a.Value {
		status = "PASS"
	}

	var b strings.Builder
	b.WriteString(strings.Repeat("  ", depth))
	fmt.Fprintf(&b, "[%s] %s", status, a.Name)
	if a.Reason != "" {
		fmt.Fprintf(&b, ": %s", a.Reason)
	}
	if a.Message != "" {
		fmt.Fprintf(&b, " (%s)", a.Message)
	}
	*lines = append(*lines, b.String())

	if a.ChildRules == nil {
		return
	}
	for _, child := range a.ChildRules.Passing {
		appendLines(lines, child, depth+1)
	}
	for _, child := range a.ChildRules.Failing {
		appendLines(lines, child, depth+1)
	}
}

func pluralize(word string, n int) string {
	if n < 2 {
		return word
	}
	return word + "s"
}
