// pkg/rules/types.go

package rules

import "strings"

// NodeType is the kind of a rule node: an operator combining child results,
// or TERMINAL for a leaf whose value is given directly.
type NodeType string

const (
	TypeAnd        NodeType = "AND"
	TypeNand       NodeType = "NAND"
	TypeOr         NodeType = "OR"
	TypeNor        NodeType = "NOR"
	TypeXor        NodeType = "XOR"
	TypeNxor       NodeType = "NXOR"
	TypeExactlyOne NodeType = "EXACTLY_ONE"
	TypeTerminal   NodeType = "TERMINAL"
)

var SupportedTypes = []NodeType{
	TypeAnd,
	TypeNand,
	TypeOr,
	TypeNor,
	TypeXor,
	TypeNxor,
	TypeExactlyOne,
	TypeTerminal,
}

// Keys recognised on a specification object.
const (
	FieldID          = "id"
	FieldName        = "name"
	FieldDescription = "description"
	FieldType        = "type"
	FieldMeta        = "meta"
	FieldOptions     = "options"
	FieldRules       = "rules"
	FieldEvaluate    = "evaluate"
)

// ParseType upper-cases s and reports whether it names a supported type.
func ParseType(s string) (NodeType, bool) {
	t := NodeType(strings.ToUpper(s))
	for _, supported := range SupportedTypes {
		if t == supported {
			return t, true
		}
	}
	return "", false
}

// IsOperator reports whether t combines child results.
func (t NodeType) IsOperator() bool {
	return t != TypeTerminal
}

func (t NodeType) String() string {
	return string(t)
}
