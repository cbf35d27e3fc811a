// Package ruletree builds and evaluates nested boolean rule trees.
//
// A specification is a boolean, a [Predicate], a [Spec] or a decoded
// document object (map[string]any). Operator nodes (AND, NAND, OR, NOR, XOR,
// NXOR, EXACTLY_ONE) combine the values of their child rules; TERMINAL
// nodes carry a literal value or the result of a predicate.
//
// The whole tree is built and valued in one synchronous pass by [New]. Every
// predicate runs exactly once, in specification order, and no operator
// short-circuits. After a node is valued its [AnalysisNode] is built, so the
// analysis tree explains which child rules passed and which failed:
//
//	tree, err := ruletree.New(ruletree.Spec{
//		Type:  "AND",
//		Rules: []any{true, func() bool { return false }},
//	}, ruletree.Options{})
//	if err != nil {
//		return err
//	}
//	tree.Evaluate()   // false
//	tree.Analysis()   // 1 passing, 1 failing
//
// A tree is immutable once built. Building a new tree is the only way to
// re-evaluate a changed specification.
package ruletree
