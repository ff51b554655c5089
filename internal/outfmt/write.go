package outfmt

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/cognee/cognee-cli/internal/filter"
)

// Write prints v in the mode carried by ctx after applying any --jq query.
// Text mode falls back to indented JSON; commands with a table view call
// Formatter instead.
func Write(ctx context.Context, w io.Writer, v any) error {
	data, err := ApplyQuery(v, GetQuery(ctx))
	if err != nil {
		return err
	}

	switch ModeFromContext(ctx) {
	case JSONL:
		return writeJSONL(w, data)
	case YAML:
		return writeYAML(w, data)
	default:
		return WriteJSONMaybeCompact(w, data, IsCompact(ctx))
	}
}

// ApplyQuery converts v to its generic JSON shape and runs query over it.
func ApplyQuery(v any, query string) (any, error) {
	generic, err := toGeneric(v)
	if err != nil {
		return nil, err
	}
	if query == "" {
		return generic, nil
	}
	return filter.Apply(generic, query)
}

// toGeneric round-trips v through encoding/json so typed results, client
// values and raw maps all reach jq and yaml in the same shape.
func toGeneric(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode output: %w", err)
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to encode output: %w", err)
	}
	return out, nil
}

func writeJSONL(w io.Writer, data any) error {
	items, ok := data.([]any)
	if !ok {
		return WriteJSONMaybeCompact(w, data, true)
	}
	for _, item := range items {
		if err := WriteJSONMaybeCompact(w, item, true); err != nil {
			return err
		}
	}
	return nil
}

func writeYAML(w io.Writer, data any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("failed to write yaml: %w", err)
	}
	return enc.Close()
}
