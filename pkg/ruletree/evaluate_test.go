package ruletree

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rgehrsitz/ruletree/pkg/rules"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		nodeType rules.NodeType
		values   []bool
		want     bool
	}{
		{rules.TypeAnd, []bool{true, true}, true},
		{rules.TypeAnd, []bool{true, false}, false},
		{rules.TypeAnd, []bool{}, true},
		{rules.TypeNand, []bool{true, true}, false},
		{rules.TypeNand, []bool{true, false}, true},
		{rules.TypeNand, []bool{}, false},
		{rules.TypeOr, []bool{false, false, true}, true},
		{rules.TypeOr, []bool{false, false}, false},
		{rules.TypeOr, []bool{}, false},
		{rules.TypeNor, []bool{false, false}, true},
		{rules.TypeNor, []bool{false, true}, false},
		{rules.TypeNor, []bool{}, true},
		{rules.TypeXor, []bool{true, true, false}, false},
		{rules.TypeXor, []bool{true, true, true}, true},
		{rules.TypeXor, []bool{}, false},
		{rules.TypeNxor, []bool{true, true, false}, true},
		{rules.TypeNxor, []bool{true}, false},
		{rules.TypeNxor, []bool{}, true},
		{rules.TypeExactlyOne, []bool{false, true, false}, true},
		{rules.TypeExactlyOne, []bool{true, true}, false},
		{rules.TypeExactlyOne, []bool{}, false},
	}

	for _, tt := range tests {
		got, err := Evaluate(tt.nodeType, tt.values)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%s(%v)", tt.nodeType, tt.values)
	}
}

func TestEvaluate_UnsupportedType(t *testing.T) {
	_, err := Evaluate(rules.TypeTerminal, []bool{true})
	require.ErrorIs(t, err, rules.ErrUnsupportedEvaluationType)

	_, err = Evaluate("BANANA", nil)
	require.ErrorIs(t, err, rules.ErrUnsupportedEvaluationType)
	assert.Contains(t, err.Error(), "BANANA")
}

func TestEvaluate_PropertyOperatorSemantics(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	all := func(bs []bool) bool {
		for _, b := range bs {
			if !b {
				return false
			}
		}
		return true
	}
	anyTrue := func(bs []bool) bool {
		for _, b := range bs {
			if b {
				return true
			}
		}
		return false
	}
	mustEvaluate := func(nodeType rules.NodeType, bs []bool) bool {
		v, err := Evaluate(nodeType, bs)
		if err != nil {
			t.Fatalf("Evaluate(%s) failed: %v", nodeType, err)
		}
		return v
	}

	properties.Property("operators match their boolean definitions", prop.ForAll(
		func(bs []bool) bool {
			trues := countTrue(bs)
			return mustEvaluate(rules.TypeAnd, bs) == all(bs) &&
				mustEvaluate(rules.TypeOr, bs) == anyTrue(bs) &&
				mustEvaluate(rules.TypeNand, bs) == !all(bs) &&
				mustEvaluate(rules.TypeNor, bs) == !anyTrue(bs) &&
				mustEvaluate(rules.TypeXor, bs) == (trues%2 == 1) &&
				mustEvaluate(rules.TypeNxor, bs) == (trues%2 == 0) &&
				mustEvaluate(rules.TypeExactlyOne, bs) == (trues == 1)
		},
		gen.SliceOf(gen.Bool()),
	))

	properties.TestingRun(t)
}
