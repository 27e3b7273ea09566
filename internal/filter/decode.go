package filter

import (
	"fmt"

	"github.com/buger/jsonparser"

	"github.com/rebeliceyang/lazycms/internal/models"
)

// ParseNode decodes untyped JSON into a filter tree, keeping object key order
func ParseNode(data []byte) (models.Node, error) {
	value, typ, _, err := jsonparser.Get(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse filter: %w", err)
	}
	return decodeNode(value, typ)
}

// ParseEnvelope decodes a list request. Unknown top-level attributes are rejected.
func ParseEnvelope(data []byte) (models.RequestEnvelope, error) {
	var req models.RequestEnvelope

	value, typ, _, err := jsonparser.Get(data)
	if err != nil {
		return req, fmt.Errorf("failed to parse request: %w", err)
	}
	if typ != jsonparser.Object {
		return req, fmt.Errorf("request must be an object, got %s", typ)
	}

	err = jsonparser.ObjectEach(value, func(key, val []byte, vt jsonparser.ValueType, _ int) error {
		name := string(key)
		if vt == jsonparser.Null {
			return nil
		}
		switch name {
		case "filter":
			n, err := decodeNode(val, vt)
			if err != nil {
				return err
			}
			req.Filter = n
		case "sort":
			s, err := decodeSort(val, vt)
			if err != nil {
				return err
			}
			req.Sort = s
		case "group":
			s, err := decodeStrings(val, vt, name)
			if err != nil {
				return err
			}
			req.Group = s
		case "attributes":
			s, err := decodeStrings(val, vt, name)
			if err != nil {
				return err
			}
			req.Attributes = s
		case "include":
			inc, err := decodeIncludes(val, vt, name)
			if err != nil {
				return err
			}
			req.Include = inc
		case "page":
			return decodeInt(val, vt, name, &req.Page)
		case "perPage":
			return decodeInt(val, vt, name, &req.PerPage)
		case "offset":
			return decodeInt(val, vt, name, &req.Offset)
		case "limit":
			return decodeInt(val, vt, name, &req.Limit)
		default:
			return fmt.Errorf("unknown request attribute %q", name)
		}
		return nil
	})
	if err != nil {
		return models.RequestEnvelope{}, err
	}

	return req, nil
}

func decodeNode(value []byte, typ jsonparser.ValueType) (models.Node, error) {
	switch typ {
	case jsonparser.Object:
		m := models.Map{}
		err := jsonparser.ObjectEach(value, func(key, val []byte, vt jsonparser.ValueType, _ int) error {
			child, err := decodeNode(val, vt)
			if err != nil {
				return err
			}
			m = append(m, models.Entry{Key: models.ClassifyKey(string(key)), Value: child})
			return nil
		})
		if err != nil {
			return nil, err
		}
		return m, nil
	case jsonparser.Array:
		list := models.List{}
		err := eachElement(value, func(val []byte, vt jsonparser.ValueType) error {
			child, err := decodeNode(val, vt)
			if err != nil {
				return err
			}
			list = append(list, child)
			return nil
		})
		if err != nil {
			return nil, err
		}
		return list, nil
	case jsonparser.String:
		s, err := jsonparser.ParseString(value)
		if err != nil {
			return nil, err
		}
		return models.Leaf{Value: s}, nil
	case jsonparser.Number:
		if i, err := jsonparser.ParseInt(value); err == nil {
			return models.Leaf{Value: i}, nil
		}
		f, err := jsonparser.ParseFloat(value)
		if err != nil {
			return nil, err
		}
		return models.Leaf{Value: f}, nil
	case jsonparser.Boolean:
		b, err := jsonparser.ParseBoolean(value)
		if err != nil {
			return nil, err
		}
		return models.Leaf{Value: b}, nil
	case jsonparser.Null:
		return models.Leaf{}, nil
	default:
		return nil, fmt.Errorf("unexpected JSON value %q", value)
	}
}

// eachElement walks an array, stopping at the first error
func eachElement(value []byte, fn func([]byte, jsonparser.ValueType) error) error {
	var inner error
	_, err := jsonparser.ArrayEach(value, func(val []byte, vt jsonparser.ValueType, _ int, err error) {
		if inner != nil {
			return
		}
		if err != nil {
			inner = err
			return
		}
		inner = fn(val, vt)
	})
	if inner != nil {
		return inner
	}
	return err
}

func decodeSort(value []byte, typ jsonparser.ValueType) (*models.Sort, error) {
	if typ != jsonparser.Object {
		return nil, fmt.Errorf("sort must be an object")
	}
	s := &models.Sort{Direction: "ASC"}
	err := jsonparser.ObjectEach(value, func(key, val []byte, vt jsonparser.ValueType, _ int) error {
		switch string(key) {
		case "field":
			return decodeString(val, vt, "sort.field", &s.Field)
		case "direction":
			if vt == jsonparser.Null {
				return nil
			}
			return decodeString(val, vt, "sort.direction", &s.Direction)
		default:
			return fmt.Errorf("unknown sort attribute %q", key)
		}
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

func decodeIncludes(value []byte, typ jsonparser.ValueType, path string) ([]models.IncludeSpec, error) {
	if typ != jsonparser.Array {
		return nil, fmt.Errorf("%s must be an array", path)
	}
	specs := []models.IncludeSpec{}
	i := 0
	err := eachElement(value, func(val []byte, vt jsonparser.ValueType) error {
		spec, err := decodeInclude(val, vt, indexPath(path, i))
		if err != nil {
			return err
		}
		specs = append(specs, spec)
		i++
		return nil
	})
	if err != nil {
		return nil, err
	}
	return specs, nil
}

func decodeInclude(value []byte, typ jsonparser.ValueType, path string) (models.IncludeSpec, error) {
	var spec models.IncludeSpec
	if typ != jsonparser.Object {
		return spec, fmt.Errorf("%s must be an object", path)
	}
	err := jsonparser.ObjectEach(value, func(key, val []byte, vt jsonparser.ValueType, _ int) error {
		name := string(key)
		if vt == jsonparser.Null {
			return nil
		}
		switch name {
		case "model":
			return decodeString(val, vt, childPath(path, name), &spec.Model)
		case "as":
			return decodeString(val, vt, childPath(path, name), &spec.As)
		case "required":
			if vt != jsonparser.Boolean {
				return fmt.Errorf("%s must be a boolean", childPath(path, name))
			}
			b, err := jsonparser.ParseBoolean(val)
			if err != nil {
				return err
			}
			spec.Required = b
		case "filter":
			n, err := decodeNode(val, vt)
			if err != nil {
				return err
			}
			spec.Filter = n
		case "include":
			nested, err := decodeIncludes(val, vt, childPath(path, name))
			if err != nil {
				return err
			}
			spec.Include = nested
		default:
			return fmt.Errorf("unknown include attribute %q at %s", name, path)
		}
		return nil
	})
	return spec, err
}

func decodeString(value []byte, typ jsonparser.ValueType, path string, dst *string) error {
	if typ != jsonparser.String {
		return fmt.Errorf("%s must be a string", path)
	}
	s, err := jsonparser.ParseString(value)
	if err != nil {
		return err
	}
	*dst = s
	return nil
}

func decodeStrings(value []byte, typ jsonparser.ValueType, path string) ([]string, error) {
	if typ != jsonparser.Array {
		return nil, fmt.Errorf("%s must be an array of strings", path)
	}
	out := []string{}
	err := eachElement(value, func(val []byte, vt jsonparser.ValueType) error {
		var s string
		if err := decodeString(val, vt, path, &s); err != nil {
			return err
		}
		out = append(out, s)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func decodeInt(value []byte, typ jsonparser.ValueType, path string, dst **int) error {
	if typ != jsonparser.Number {
		return fmt.Errorf("%s must be an integer", path)
	}
	i, err := jsonparser.ParseInt(value)
	if err != nil {
		return fmt.Errorf("%s must be an integer: %w", path, err)
	}
	v := int(i)
	*dst = &v
	return nil
}
