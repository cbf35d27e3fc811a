// pkg/rules/errors.go

package rules

import "errors"

// Build failures. They are always returned wrapped, with the offending value
// and the path of the rule in the message; match them with errors.Is.
var (
	ErrInvalidRuleType           = errors.New("invalid rule type")
	ErrInvalidTerminalEvaluate   = errors.New("terminal rule must evaluate to a boolean or a predicate")
	ErrInvalidMeta               = errors.New("meta must be an object")
	ErrInvalidOptions            = errors.New("options must be an object")
	ErrMissingRulesArray         = errors.New("operator rule requires a rules array")
	ErrUnsupportedEvaluationType = errors.New("unsupported evaluation type")
)
