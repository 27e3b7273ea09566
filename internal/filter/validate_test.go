package filter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rebeliceyang/lazycms/internal/models"
)

func TestValidateEnvelope(t *testing.T) {
	require.NoError(t, ValidateEnvelope(models.RequestEnvelope{}))
	require.NoError(t, ValidateEnvelope(models.RequestEnvelope{
		Offset: intPtr(0),
		Limit:  intPtr(1),
		Sort:   &models.Sort{Field: "id", Direction: "desc"},
	}))

	err := ValidateEnvelope(models.RequestEnvelope{
		Offset:  intPtr(-1),
		Page:    intPtr(0),
		PerPage: intPtr(0),
		Sort:    &models.Sort{Field: "id", Direction: "sideways"},
	})
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.Equal(t, "offset", verr.Field)
	require.Contains(t, err.Error(), "page")
	require.Contains(t, err.Error(), "perPage")
	require.Contains(t, err.Error(), "sort.direction")
}
