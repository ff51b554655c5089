// Package filter runs --jq expressions over command output.
package filter

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/itchyny/gojq"
)

// NormalizeExpression undoes shell escaping that breaks jq operators.
// Zsh escapes ! to \! even in single quotes, which turns != into a syntax error.
func NormalizeExpression(expr string) string {
	return strings.ReplaceAll(strings.TrimSpace(expr), `\!`, `!`)
}

// Validate parses expression without running it so bad filters fail before
// any request is sent.
func Validate(expression string) error {
	if strings.TrimSpace(expression) == "" {
		return nil
	}
	if _, err := gojq.Parse(NormalizeExpression(expression)); err != nil {
		return fmt.Errorf("invalid filter expression: %w", err)
	}
	return nil
}

// Apply runs expression against data, which must already be in the generic
// JSON shape (maps, slices, float64, string, bool, nil). A single result is
// returned as-is; several results are returned as a slice.
func Apply(data any, expression string) (any, error) {
	if strings.TrimSpace(expression) == "" {
		return data, nil
	}

	expression = NormalizeExpression(expression)
	query, err := gojq.Parse(expression)
	if err != nil {
		return nil, fmt.Errorf("invalid filter expression: %w", err)
	}

	results, err := runQuery(query, data)
	if err != nil {
		if list, ok := envelopeFallback(data, expression); ok {
			if retried, retryErr := runQuery(query, list); retryErr == nil {
				return collapse(retried), nil
			}
		}
		return nil, err
	}
	return collapse(results), nil
}

// FromJSON decodes raw JSON and applies expression to it.
func FromJSON(raw []byte, expression string) (any, error) {
	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return Apply(data, expression)
}

func runQuery(query *gojq.Query, data any) ([]any, error) {
	iter := query.Run(data)

	var results []any
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, ok := v.(error); ok {
			return nil, fmt.Errorf("filter error: %w", err)
		}
		results = append(results, v)
	}
	return results, nil
}

func collapse(results []any) any {
	if len(results) == 1 {
		return results[0]
	}
	return results
}

// envelopeFallback lets ".[] | ..." work on responses such as
// {"datasets": [...]} or {"history": [...]}: when the object holds exactly one
// array field, that array is queried instead.
func envelopeFallback(data any, expression string) (any, bool) {
	if !looksLikeRootArrayQuery(expression) {
		return nil, false
	}
	obj, ok := data.(map[string]any)
	if !ok {
		return nil, false
	}

	var list any
	for _, v := range obj {
		if _, isList := v.([]any); isList {
			if list != nil {
				return nil, false
			}
			list = v
		}
	}
	return list, list != nil
}

func looksLikeRootArrayQuery(expression string) bool {
	expr := strings.TrimSpace(expression)
	return strings.HasPrefix(expr, ".[]") || strings.HasPrefix(expr, "[.[]") || strings.HasPrefix(expr, "(.[]")
}
