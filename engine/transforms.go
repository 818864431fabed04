package engine

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/oliveagle/jsonpath"
)

// applyTransform performs a local, synchronous transform selected by the
// resolved "transform" parameter against the resolved "data" parameter.
// Unknown or missing transforms pass data through unchanged.
func applyTransform(params map[string]any) (any, error) {
	data := params["data"]
	name, _ := params["transform"].(string)
	switch name {
	case "json_parse":
		var parsed any
		if err := json.Unmarshal([]byte(asText(data)), &parsed); err != nil {
			return nil, fmt.Errorf("json_parse failed: %w", err)
		}
		return parsed, nil
	case "json_stringify":
		serialized, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("json_stringify failed: %w", err)
		}
		return string(serialized), nil
	case "to_upper":
		return strings.ToUpper(asText(data)), nil
	case "to_lower":
		return strings.ToLower(asText(data)), nil
	case "json_path":
		path, _ := params["path"].(string)
		if len(path) == 0 {
			return nil, fmt.Errorf("json_path requires a path parameter")
		}
		value, err := jsonpath.JsonPathLookup(data, path)
		if err != nil {
			return nil, fmt.Errorf("json_path failed: %w", err)
		}
		return value, nil
	default:
		return data, nil
	}
}

func asText(data any) string {
	if s, ok := data.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", data)
}
