package ruletree

import (
	"fmt"

	"rgehrsitz/ruletree/pkg/rules"
)

// evaluators combine already evaluated child values. TERMINAL has no entry:
// its value is assigned directly at construction.
var evaluators = map[rules.NodeType]func(values []bool) bool{
	rules.TypeAnd: func(values []bool) bool {
		return countTrue(values) == len(values)
	},
	rules.TypeNand: func(values []bool) bool {
		return countTrue(values) != len(values)
	},
	rules.TypeOr: func(values []bool) bool {
		return countTrue(values) > 0
	},
	rules.TypeNor: func(values []bool) bool {
		return countTrue(values) == 0
	},
	rules.TypeXor: func(values []bool) bool {
		return countTrue(values)%2 == 1
	},
	rules.TypeNxor: func(values []bool) bool {
		return countTrue(values)%2 == 0
	},
	rules.TypeExactlyOne: func(values []bool) bool {
		return countTrue(values) == 1
	},
}

// Evaluate applies the semantics of an operator type to child values. An
// empty slice is evaluated like any other, so AND, NOR and NXOR of no
// children are true and the remaining operators are false.
func Evaluate(t rules.NodeType, values []bool) (bool, error) {
	fn, ok := evaluators[t]
	if !ok {
		return false, fmt.Errorf("%w: %q", rules.ErrUnsupportedEvaluationType, t)
	}
	return fn(values), nil
}

func countTrue(values []bool) int {
	n := 0
	for _, v := range values {
		if v {
			n++
		}
	}
	return n
}
