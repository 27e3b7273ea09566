package filter

import (
	"github.com/rebeliceyang/lazycms/internal/models"
)

// RequestOptions compiles a request envelope into a query spec.
//
// A truthy page wins over offset/limit: perPage defaults to the compiler's page
// size and offset = (page-1)*perPage. Otherwise offset defaults to 0 and limit
// to the compiler's window limit; explicit values, zero included, are kept.
// No lower bounds are enforced here, see ValidateEnvelope.
func (c *Compiler) RequestOptions(req models.RequestEnvelope) (models.QuerySpec, error) {
	offset, limit := c.window(req)
	spec := models.QuerySpec{
		Offset: offset,
		Limit:  limit,
	}

	if req.Sort != nil {
		spec.Order = []models.OrderTerm{{Field: req.Sort.Field, Direction: req.Sort.Direction}}
	}
	spec.Group = cloneStrings(req.Group)
	spec.Attributes = cloneStrings(req.Attributes)

	if req.Filter != nil {
		where, err := c.TransformFilter(req.Filter)
		if err != nil {
			return models.QuerySpec{}, err
		}
		spec.Where = where
	}

	include, err := c.IncludeOptions(req.Include)
	if err != nil {
		return models.QuerySpec{}, err
	}
	spec.Include = include

	return spec, nil
}

func (c *Compiler) window(req models.RequestEnvelope) (offset, limit int) {
	if req.Page != nil && *req.Page != 0 {
		perPage := c.perPage
		if req.PerPage != nil && *req.PerPage != 0 {
			perPage = *req.PerPage
		}
		return (*req.Page - 1) * perPage, perPage
	}

	limit = c.limit
	if req.Offset != nil {
		offset = *req.Offset
	}
	if req.Limit != nil && *req.Limit != 0 {
		limit = *req.Limit
	}
	return offset, limit
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append(make([]string, 0, len(s)), s...)
}
