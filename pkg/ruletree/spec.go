package ruletree

import (
	"fmt"

	"rgehrsitz/ruletree/pkg/rules"
)

// Predicate computes the value of a TERMINAL rule. The handle gives the
// predicate write access to its own node only, e.g. to set a display name
// or a message explaining the result.
type Predicate func(h *Handle) bool

// Spec is the typed form of a specification object. Zero-valued fields are
// treated as absent; in particular a nil Rules slice is a missing rules
// array while an empty, non-nil slice is an operator without children.
type Spec struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Type        string `json:"type,omitempty"`

	// Meta must be nil or a map[string]any.
	Meta any `json:"meta,omitempty"`
	// Options must be nil or a map[string]any.
	Options any `json:"options,omitempty"`
	// Rules holds the child specifications of an operator rule.
	Rules []any `json:"rules,omitempty"`
	// Evaluate supplies the value of a TERMINAL object: a bool or a predicate.
	Evaluate any `json:"-"`
}

type specKind int

const (
	kindBool specKind = iota
	kindPredicate
	kindObject
)

// kindName is the leaf kind used in derived ids and descriptions.
func (k specKind) kindName() string {
	switch k {
	case kindBool:
		return "boolean"
	case kindPredicate:
		return "function"
	default:
		return "object"
	}
}

// resolvedSpec is a specification value after its run-time kind and rule
// type have been determined.
type resolvedSpec struct {
	kind      specKind
	nodeType  rules.NodeType
	boolean   bool
	predicate Predicate
	object    *objectSpec
}

// objectSpec holds the raw fields of a specification object. Field values
// keep their dynamic type until the construction step that checks them.
type objectSpec struct {
	id          string
	name        string
	description string
	typeName    any
	meta        any
	options     any
	rules       any
	evaluate    any
}

// ResolveType classifies a specification value. Booleans and predicates are
// TERMINAL; objects are classified by their case-insensitive type field and
// default to TERMINAL when it is absent.
func ResolveType(spec any) (rules.NodeType, error) {
	rs, err := resolve(spec)
	if err != nil {
		return "", err
	}
	return rs.nodeType, nil
}

func resolve(spec any) (resolvedSpec, error) {
	switch s := spec.(type) {
	case bool:
		return resolvedSpec{kind: kindBool, nodeType: rules.TypeTerminal, boolean: s}, nil
	case Predicate, func(*Handle) bool, func() bool:
		p, ok := asPredicate(s)
		if !ok {
			return resolvedSpec{}, fmt.Errorf("%w: nil predicate", rules.ErrInvalidTerminalEvaluate)
		}
		return resolvedSpec{kind: kindPredicate, nodeType: rules.TypeTerminal, predicate: p}, nil
	case Spec:
		return resolveObject(objectFromSpec(&s))
	case *Spec:
		if s == nil {
			return resolvedSpec{}, fmt.Errorf("%w: nil *Spec", rules.ErrInvalidRuleType)
		}
		return resolveObject(objectFromSpec(s))
	case map[string]any:
		return resolveObject(objectFromMap(s))
	default:
		return resolvedSpec{}, fmt.Errorf("%w: unsupported specification %#v (%T)", rules.ErrInvalidRuleType, spec, spec)
	}
}

func resolveObject(obj *objectSpec) (resolvedSpec, error) {
	rs := resolvedSpec{kind: kindObject, nodeType: rules.TypeTerminal, object: obj}

	switch t := obj.typeName.(type) {
	case nil:
	case string:
		if t == "" {
			break
		}
		nodeType, ok := rules.ParseType(t)
		if !ok {
			return resolvedSpec{}, fmt.Errorf("%w: %q", rules.ErrInvalidRuleType, t)
		}
		rs.nodeType = nodeType
	default:
		return resolvedSpec{}, fmt.Errorf("%w: %#v (%T)", rules.ErrInvalidRuleType, t, t)
	}

	return rs, nil
}

func objectFromSpec(s *Spec) *objectSpec {
	obj := &objectSpec{
		id:          s.ID,
		name:        s.Name,
		description: s.Description,
		meta:        s.Meta,
		options:     s.Options,
		evaluate:    s.Evaluate,
	}
	if s.Type != "" {
		obj.typeName = s.Type
	}
	if s.Rules != nil {
		obj.rules = s.Rules
	}
	return obj
}

func objectFromMap(m map[string]any) *objectSpec {
	return &objectSpec{
		id:          stringField(m[rules.FieldID]),
		name:        stringField(m[rules.FieldName]),
		description: stringField(m[rules.FieldDescription]),
		typeName:    m[rules.FieldType],
		meta:        m[rules.FieldMeta],
		options:     m[rules.FieldOptions],
		rules:       m[rules.FieldRules],
		evaluate:    m[rules.FieldEvaluate],
	}
}

func stringField(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(s)
	}
}

// asPredicate accepts the callable shapes a specification may use.
func asPredicate(v any) (Predicate, bool) {
	switch fn := v.(type) {
	case Predicate:
		return fn, fn != nil
	case func(*Handle) bool:
		return fn, fn != nil
	case func() bool:
		if fn == nil {
			return nil, false
		}
		return func(*Handle) bool { return fn() }, true
	default:
		return nil, false
	}
}
