package filter

import (
	"github.com/rebeliceyang/lazycms/internal/models"
)

// IncludeOptions compiles an include list. A nil input yields a nil result so
// callers can tell "no joins requested" from "include: []".
func (c *Compiler) IncludeOptions(specs []models.IncludeSpec) ([]models.CompiledInclude, error) {
	if specs == nil {
		return nil, nil
	}
	return c.includes(specs, "include")
}

func (c *Compiler) includes(specs []models.IncludeSpec, path string) ([]models.CompiledInclude, error) {
	out := make([]models.CompiledInclude, 0, len(specs))
	for i, spec := range specs {
		inc, err := c.include(spec, indexPath(path, i))
		if err != nil {
			return nil, err
		}
		out = append(out, inc)
	}
	return out, nil
}

func (c *Compiler) include(spec models.IncludeSpec, path string) (models.CompiledInclude, error) {
	model, ok := c.entities.Lookup(spec.Model)
	if !ok && c.strict {
		return models.CompiledInclude{}, &UnknownEntityError{Token: spec.Model, Path: childPath(path, "model")}
	}

	inc := models.CompiledInclude{
		Model:    model,
		As:       spec.As,
		Required: spec.Required,
	}

	if spec.Filter != nil {
		where, err := c.transform(spec.Filter, childPath(path, "filter"))
		if err != nil {
			return models.CompiledInclude{}, err
		}
		inc.Where = where
	}

	if spec.Include != nil {
		nested, err := c.includes(spec.Include, childPath(path, "include"))
		if err != nil {
			return models.CompiledInclude{}, err
		}
		inc.Include = nested
	}

	return inc, nil
}
