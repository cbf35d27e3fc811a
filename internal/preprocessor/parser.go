package preprocessor

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog/log"

	"rgehrsitz/ruletree/pkg/rules"
	"rgehrsitz/ruletree/pkg/ruletree"
)

// Format is the encoding of a rule document or a facts file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported document format")
	ErrInvalidFacts      = errors.New("facts must be an object")
)

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, path)
	}
}

// ParseDocument decodes a rule document into a specification value made of
// booleans, lists and map[string]any objects.
func ParseDocument(data []byte, format Format) (any, error) {
	log.Info().Str("format", string(format)).Msg("Started parsing rule document...")

	doc, err := decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("failed to parse rule document: %w", err)
	}

	return doc, nil
}

// ParseFacts decodes the facts expressions are evaluated against.
func ParseFacts(data []byte, format Format) (map[string]any, error) {
	doc, err := decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("failed to parse facts: %w", err)
	}

	switch facts := doc.(type) {
	case nil:
		return map[string]any{}, nil
	case map[string]any:
		return facts, nil
	default:
		return nil, fmt.Errorf("%w: got %T", ErrInvalidFacts, doc)
	}
}

func decode(data []byte, format Format) (any, error) {
	var doc any

	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	return normalize(doc), nil
}

// normalize converts decoded mappings to map[string]any so that every
// object in the document has the shape ruletree expects.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			t[k] = normalize(val)
		}
		return t
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[fmt.Sprint(k)] = normalize(val)
		}
		return m
	case []any:
		for i, val := range t {
			t[i] = normalize(val)
		}
		return t
	default:
		return v
	}
}

// ValidateDocument checks the structure of a parsed document without running
// anything: rule types, rules arrays, meta and options objects, and that
// every leaf object has an evaluate boolean or an expr string.
func ValidateDocument(doc any) error {
	log.Info().Msg("Started validating rule document...")
	return validateRule(doc, "$")
}

func validateRule(v any, path string) error {
	nodeType, err := ruletree.ResolveType(v)
	if err != nil {
		return fmt.Errorf("rule %s: %w", path, err)
	}

	obj, ok := v.(map[string]any)
	if !ok {
		return nil
	}

	if err := validateObjectFields(obj); err != nil {
		return fmt.Errorf("rule %s: %w", path, err)
	}

	if nodeType == rules.TypeTerminal {
		if err := validateTerminal(obj); err != nil {
			return fmt.Errorf("rule %s: %w", path, err)
		}
		return nil
	}

	children, ok := obj[rules.FieldRules].([]any)
	if !ok {
		return fmt.Errorf("rule %s: %w: %s rule has no rules", path, rules.ErrMissingRulesArray, nodeType)
	}
	for i, child := range children {
		if err := validateRule(child, fmt.Sprintf("%s.rules[%d]", path, i)); err != nil {
			return err
		}
	}

	return nil
}

func validateObjectFields(obj map[string]any) error {
	if meta, ok := obj[rules.FieldMeta]; ok && meta != nil {
		if _, isMap := meta.(map[string]any); !isMap {
			return fmt.Errorf("%w: got %#v (%T)", rules.ErrInvalidMeta, meta, meta)
		}
	}
	if options, ok := obj[rules.FieldOptions]; ok && options != nil {
		if _, isMap := options.(map[string]any); !isMap {
			return fmt.Errorf("%w: got %#v (%T)", rules.ErrInvalidOptions, options, options)
		}
	}
	return nil
}

func validateTerminal(obj map[string]any) error {
	if expression, ok := obj[FieldExpr]; ok {
		if s, isString := expression.(string); !isString || s == "" {
			return fmt.Errorf("%w: expr must be a non-empty string, got %#v", ErrInvalidExpression, expression)
		}
		return nil
	}

	switch evaluate := obj[rules.FieldEvaluate].(type) {
	case bool:
		return nil
	case nil:
		return fmt.Errorf("%w: object has neither evaluate nor expr", rules.ErrInvalidTerminalEvaluate)
	default:
		return fmt.Errorf("%w: got %#v (%T)", rules.ErrInvalidTerminalEvaluate, evaluate, evaluate)
	}
}
