package outfmt

import (
	"encoding/json"
	"fmt"

	"github.com/rapidpro/rapidpro-cli/internal/filter"
)

// Generic converts v to plain maps, slices and scalars by a JSON round trip
// so jq and YAML see the same shape as JSON output.
func Generic(v any) (any, error) {
	switch v.(type) {
	case nil, map[string]any, []any, string, bool, float64:
		return v, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode output: %w", err)
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode output: %w", err)
	}
	return out, nil
}

// ApplyQuery runs a jq expression over v. An empty query returns v unchanged.
func ApplyQuery(v any, query string) (any, error) {
	v, err := Generic(v)
	if err != nil {
		return nil, err
	}
	if query == "" {
		return v, nil
	}
	return filter.Apply(v, query)
}
