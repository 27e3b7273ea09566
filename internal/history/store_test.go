package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T, max int) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "history.db"), max)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_AddAndRecent(t *testing.T) {
	s := newStore(t, 0)

	require.NoError(t, s.Add(Entry{
		Entity:   "Article",
		Request:  `{"page":1}`,
		SQL:      `SELECT "Article".* FROM "articles" AS "Article" LIMIT 25 OFFSET 0`,
		Duration: 15 * time.Millisecond,
		RowCount: 3, TotalCount: 3,
		Success: true,
	}))
	require.NoError(t, s.Add(Entry{
		Entity:       "User",
		Request:      `{"filter":{"id":{"$lik":1}}}`,
		Success:      false,
		ErrorMessage: "unresolved operator",
	}))

	entries, err := s.GetRecent(10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	require.Equal(t, "User", entries[0].Entity)
	require.False(t, entries[0].Success)
	require.Equal(t, "unresolved operator", entries[0].ErrorMessage)

	require.Equal(t, "Article", entries[1].Entity)
	require.True(t, entries[1].Success)
	require.Equal(t, 15*time.Millisecond, entries[1].Duration)
	require.Equal(t, 3, entries[1].RowCount)
	require.False(t, entries[1].ExecutedAt.IsZero())
}

func TestStore_Search(t *testing.T) {
	s := newStore(t, 0)
	require.NoError(t, s.Add(Entry{Entity: "Article", Request: `{"filter":{"header":"go"}}`, Success: true}))
	require.NoError(t, s.Add(Entry{Entity: "Category", Request: `{}`, Success: true}))

	entries, err := s.Search("header", 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "Article", entries[0].Entity)

	entries, err = s.Search("Category", 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestStore_Prune(t *testing.T) {
	s := newStore(t, 2)
	for _, e := range []string{"A", "B", "C"} {
		require.NoError(t, s.Add(Entry{Entity: e, Request: "{}", Success: true}))
	}

	entries, err := s.GetRecent(10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "C", entries[0].Entity)
	require.Equal(t, "B", entries[1].Entity)
}
