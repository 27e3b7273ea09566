package filter

import (
	"github.com/rebeliceyang/lazycms/internal/models"
)

// TransformFilter compiles a filter tree. Field keys are kept, operator keys are
// replaced by their backend symbol, lists keep order and length, and leaves
// pass through unchanged. The input is not modified.
func (c *Compiler) TransformFilter(node models.Node) (models.Predicate, error) {
	return c.transform(node, "filter")
}

func (c *Compiler) transform(node models.Node, path string) (models.Predicate, error) {
	switch n := node.(type) {
	case nil:
		return models.Literal{}, nil
	case models.Leaf:
		return models.Literal{Value: n.Value}, nil
	case models.List:
		seq := make(models.Sequence, len(n))
		for i, item := range n {
			p, err := c.transform(item, indexPath(path, i))
			if err != nil {
				return nil, err
			}
			seq[i] = p
		}
		return seq, nil
	case models.Map:
		clause := make(models.Clause, 0, len(n))
		for _, e := range n {
			term, err := c.transformEntry(e, childPath(path, e.Key.Name))
			if err != nil {
				return nil, err
			}
			clause = append(clause, term)
		}
		return clause, nil
	default:
		return nil, unsupportedNode(node, path)
	}
}

func (c *Compiler) transformEntry(e models.Entry, path string) (models.Term, error) {
	switch e.Key.Kind {
	case models.OperatorKey:
		sym, ok := c.operators.Lookup(e.Key.Name)
		if !ok && c.strict {
			return models.Term{}, &UnknownOperatorError{Token: e.Key.Name, Path: path}
		}
		value, err := c.transform(e.Value, path)
		if err != nil {
			return models.Term{}, err
		}
		return models.OperatorTerm(sym, e.Key.Name, value), nil
	default:
		value, err := c.transform(e.Value, path)
		if err != nil {
			return models.Term{}, err
		}
		return models.FieldTerm(e.Key.Name, value), nil
	}
}
