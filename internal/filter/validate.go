package filter

import (
	"errors"
	"strings"

	"github.com/rebeliceyang/lazycms/internal/models"
)

// ValidateEnvelope applies the API boundary limits on pagination and sort
// direction. The compiler itself accepts any values.
func ValidateEnvelope(req models.RequestEnvelope) error {
	var errs []error
	check := func(v *int, min int, field, msg string) {
		if v != nil && *v < min {
			errs = append(errs, &ValidationError{Field: field, Message: msg})
		}
	}

	check(req.Offset, 0, "offset", "Offset can not be negative value")
	check(req.Limit, 1, "limit", "Limit can not be less then 1")
	check(req.Page, 1, "page", "Page can not be less then 1")
	check(req.PerPage, 1, "perPage", "Per page can not be less then 1")

	if req.Sort != nil {
		if req.Sort.Field == "" {
			errs = append(errs, &ValidationError{Field: "sort.field", Message: "field is required"})
		}
		if _, ok := normalizeDirection(req.Sort.Direction); !ok {
			errs = append(errs, &ValidationError{Field: "sort.direction", Message: "direction must be ASC or DESC"})
		}
	}

	return errors.Join(errs...)
}

func normalizeDirection(dir string) (string, bool) {
	switch strings.ToUpper(strings.TrimSpace(dir)) {
	case "ASC":
		return "ASC", true
	case "DESC":
		return "DESC", true
	}
	return "", false
}
