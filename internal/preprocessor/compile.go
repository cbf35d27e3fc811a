package preprocessor

import (
	"errors"
	"fmt"
	"maps"

	"github.com/google/cel-go/cel"
	"github.com/rs/zerolog/log"

	"rgehrsitz/ruletree/internal/expr"
	"rgehrsitz/ruletree/pkg/rules"
	"rgehrsitz/ruletree/pkg/ruletree"
)

// FieldExpr holds a CEL predicate on a leaf object of a rule document.
const FieldExpr = "expr"

var ErrInvalidExpression = errors.New("invalid expression")

// Compile returns a copy of doc in which every leaf object carrying an expr
// gets an evaluate predicate running that expression against facts. The
// expression also becomes the leaf's description when it has none.
func Compile(doc any, env *expr.Environment, facts map[string]any) (any, error) {
	return compileRule(doc, env, facts, "$")
}

func compileRule(v any, env *expr.Environment, facts map[string]any, path string) (any, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return v, nil
	}

	out := maps.Clone(obj)

	if expression, ok := obj[FieldExpr].(string); ok {
		program, err := env.Compile(expression)
		if err != nil {
			return nil, fmt.Errorf("rule %s: %w: %w", path, ErrInvalidExpression, err)
		}
		out[rules.FieldEvaluate] = exprPredicate(expression, program, facts)
		if _, hasDescription := obj[rules.FieldDescription]; !hasDescription {
			out[rules.FieldDescription] = expression
		}
		delete(out, FieldExpr)
	}

	children, ok := obj[rules.FieldRules].([]any)
	if !ok {
		return out, nil
	}

	compiled := make([]any, len(children))
	for i, child := range children {
		c, err := compileRule(child, env, facts, fmt.Sprintf("%s.rules[%d]", path, i))
		if err != nil {
			return nil, err
		}
		compiled[i] = c
	}
	out[rules.FieldRules] = compiled

	return out, nil
}

// exprPredicate treats an evaluation error as a failing rule and records
// the error on the node.
func exprPredicate(expression string, program cel.Program, facts map[string]any) ruletree.Predicate {
	return func(h *ruletree.Handle) bool {
		ok, err := expr.EvalBool(program, facts)
		if err != nil {
			log.Warn().Err(err).Str("rule", h.ID()).Str("expr", expression).Msg("Expression evaluation failed")
			h.SetMessage(err.Error())
			h.Annotate("exprError", err.Error())
			return false
		}
		return ok
	}
}

// Load parses, validates and compiles a rule document in one step.
func Load(data []byte, format Format, facts map[string]any) (any, error) {
	doc, err := ParseDocument(data, format)
	if err != nil {
		return nil, err
	}

	if err := ValidateDocument(doc); err != nil {
		return nil, err
	}

	env, err := expr.NewEnvironment()
	if err != nil {
		return nil, err
	}

	return Compile(doc, env, facts)
}
