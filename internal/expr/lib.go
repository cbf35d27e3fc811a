package expr

import (
	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	"github.com/google/cel-go/common/types/traits"
	"github.com/google/cel-go/ext"
)

type lib struct{}

func (lib) CompileOptions() []cel.EnvOption {
	return []cel.EnvOption{
		ext.Math(),
		ext.Strings(),
		ext.Lists(),
		cel.CrossTypeNumericComparisons(true),

		cel.Variable("facts", cel.MapType(cel.StringType, cel.DynType)),

		// `hasFact` reports whether a fact is present and not null.
		// Example: hasFact(facts, "age") && facts.age >= 18.
		cel.Function("hasFact",
			cel.Overload("has_fact_map_string",
				[]*cel.Type{cel.MapType(cel.StringType, cel.DynType), cel.StringType}, cel.BoolType,
				cel.BinaryBinding(func(facts, name ref.Val) ref.Val {
					nameValue, ok := name.(types.String)
					if !ok {
						return types.NewErr("hasFact: invalid fact name")
					}

					mapper, ok := facts.(traits.Mapper)
					if !ok {
						return types.NewErr("hasFact: invalid facts map")
					}

					value, found := mapper.Find(nameValue)
					if !found {
						return types.False
					}

					_, isNull := value.(types.Null)

					return types.Bool(!isNull)
				}),
			),
		),
	}
}

func (lib) ProgramOptions() []cel.ProgramOption {
	return []cel.ProgramOption{}
}
