package jsonb

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Path addresses a value inside a JSON document, e.g. author.images.0.url
type Path struct {
	Parts []string
}

// ParsePath splits a dotted path. An empty string is the document root.
func ParsePath(s string) Path {
	if s == "" {
		return Path{}
	}
	return Path{Parts: strings.Split(s, ".")}
}

// String returns the SQL/JSON path notation
func (p Path) String() string {
	var b strings.Builder
	b.WriteString("$")
	for _, part := range p.Parts {
		if _, err := strconv.Atoi(part); err == nil {
			b.WriteString("[" + part + "]")
		} else {
			b.WriteString("." + part)
		}
	}
	return b.String()
}

// decode accepts documents as scanned by pgx or as raw JSON text
func decode(value interface{}) (interface{}, error) {
	switch v := value.(type) {
	case string:
		var parsed interface{}
		if err := json.Unmarshal([]byte(v), &parsed); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
		return parsed, nil
	case []byte:
		var parsed interface{}
		if err := json.Unmarshal(v, &parsed); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
		return parsed, nil
	default:
		return v, nil
	}
}

// Lookup retrieves the value at path. A null anywhere along the path
// yields nil, so a missing belongs_to row reads as an empty cell.
func Lookup(value interface{}, path Path) (interface{}, error) {
	current, err := decode(value)
	if err != nil {
		return nil, err
	}
	for _, part := range path.Parts {
		switch curr := current.(type) {
		case nil:
			return nil, nil
		case map[string]interface{}:
			val, ok := curr[part]
			if !ok {
				return nil, fmt.Errorf("key '%s' not found", part)
			}
			current = val
		case []interface{}:
			idx, err := strconv.Atoi(part)
			if err != nil {
				return nil, fmt.Errorf("invalid array index: %s", part)
			}
			if idx < 0 || idx >= len(curr) {
				return nil, fmt.Errorf("array index out of bounds: %d", idx)
			}
			current = curr[idx]
		default:
			return nil, fmt.Errorf("cannot traverse into %T at %s", curr, part)
		}
	}
	return current, nil
}

// Compact renders a document as single-line JSON
func Compact(value interface{}) (string, error) {
	parsed, err := decode(value)
	if err != nil {
		return "", err
	}
	data, err := json.Marshal(parsed)
	if err != nil {
		return "", fmt.Errorf("failed to compact: %w", err)
	}
	return string(data), nil
}
