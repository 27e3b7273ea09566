package filter

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/rebeliceyang/lazycms/internal/models"
)

func TestSetUserFilterToWhereSearch_Empty(t *testing.T) {
	got := SetUserFilterToWhereSearch(models.QuerySpec{})

	want := models.Clause{
		models.OperatorTerm(models.SymAnd, "$and", models.Sequence{models.Clause{}}),
	}
	if diff := cmp.Diff(want, got.Where); diff != "" {
		t.Errorf("unexpected where (-want +got):\n%s", diff)
	}

	out, err := json.Marshal(got.Where)
	require.NoError(t, err)
	require.JSONEq(t, `{"Op.and":[{}]}`, string(out))
}

func TestSetUserFilterToWhereSearch_WrapsExisting(t *testing.T) {
	existing := models.Clause{models.FieldTerm("id", models.Literal{Value: int64(3)})}
	in := models.QuerySpec{Limit: 10, Where: existing}

	got := SetUserFilterToWhereSearch(in)

	want := models.Clause{
		models.OperatorTerm(models.SymAnd, "$and", models.Sequence{existing}),
	}
	if diff := cmp.Diff(want, got.Where); diff != "" {
		t.Errorf("unexpected where (-want +got):\n%s", diff)
	}
	require.Equal(t, existing, in.Where, "input spec must keep its where clause")
	require.Equal(t, 10, got.Limit)
}

func TestAppendScope(t *testing.T) {
	scoped := SetUserFilterToWhereSearch(models.QuerySpec{})
	owner := OwnerScope("userId", models.Principal{UserID: 7})

	got, err := AppendScope(scoped, owner)
	require.NoError(t, err)

	want := models.Clause{
		models.OperatorTerm(models.SymAnd, "$and", models.Sequence{models.Clause{}, owner}),
	}
	if diff := cmp.Diff(want, got.Where); diff != "" {
		t.Errorf("unexpected where (-want +got):\n%s", diff)
	}

	slot, ok := scopeSlot(scoped.Where)
	require.True(t, ok)
	require.Len(t, slot, 1, "appending must not grow the original slot")
}

func TestAppendScope_CreatesSlot(t *testing.T) {
	existing := models.Clause{models.FieldTerm("id", models.Literal{Value: int64(1)})}
	owner := OwnerScope("userId", models.Principal{UserID: 2})

	got, err := AppendScope(models.QuerySpec{Where: existing}, owner)
	require.NoError(t, err)

	want := models.Clause{
		models.OperatorTerm(models.SymAnd, "$and", models.Sequence{existing, owner}),
	}
	if diff := cmp.Diff(want, got.Where); diff != "" {
		t.Errorf("unexpected where (-want +got):\n%s", diff)
	}

	_, err = AppendScope(got, nil)
	require.Error(t, err)
}
