package history

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddKeepsMostRecentFirstAndUnique(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	r, err := Open(ctx, store, 5)
	require.NoError(t, err)

	for _, q := range []string{"London", "Paris", "Tokyo", "Paris"} {
		require.NoError(t, r.Add(ctx, q))
	}

	assert.Equal(t, []string{"Paris", "Tokyo", "London"}, r.Items())

	stored, _ := store.Load(ctx)
	assert.Equal(t, r.Entries(), stored)
	assert.Equal(t, 4, store.Saves())
}

func TestSixthSearchDropsOldest(t *testing.T) {
	ctx := context.Background()
	r, err := Open(ctx, NewMemoryStore(), 5)
	require.NoError(t, err)

	for _, q := range []string{"A", "B", "C", "D", "E"} {
		require.NoError(t, r.Add(ctx, q))
	}
	require.Equal(t, []string{"E", "D", "C", "B", "A"}, r.Items())

	require.NoError(t, r.Add(ctx, "F"))
	assert.Equal(t, []string{"F", "E", "D", "C", "B"}, r.Items())
}

func TestDedupIsExactMatch(t *testing.T) {
	ctx := context.Background()
	r, err := Open(ctx, NewMemoryStore(), 5)
	require.NoError(t, err)

	require.NoError(t, r.Add(ctx, "london"))
	require.NoError(t, r.Add(ctx, "London"))
	require.NoError(t, r.Add(ctx, "  London  "))
	require.NoError(t, r.Add(ctx, "   "))

	assert.Equal(t, []string{"London", "london"}, r.Items())
}

func TestOpenTruncatesAndDedupesStoredList(t *testing.T) {
	store := NewMemoryStore("A", "B", "A", "C", "D", "E", "F", "G")
	r, err := Open(context.Background(), store, 5)
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B", "C", "D", "E"}, r.Items())
}

func TestItemsReturnsCopy(t *testing.T) {
	ctx := context.Background()
	r, err := Open(ctx, NewMemoryStore(), 0)
	require.NoError(t, err)
	require.NoError(t, r.Add(ctx, "Oslo"))

	items := r.Items()
	items[0] = "mutated"
	assert.Equal(t, []string{"Oslo"}, r.Items())
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	r, err := Open(ctx, store, 5)
	require.NoError(t, err)
	require.NoError(t, r.Add(ctx, "Oslo"))

	require.NoError(t, r.Clear(ctx))
	assert.Empty(t, r.Items())

	stored, _ := store.Load(ctx)
	assert.Empty(t, stored)
}

type failingStore struct{ MemoryStore }

func (f *failingStore) Save(context.Context, []Entry) error {
	return errors.New("disk full")
}

func TestAddReportsStorageErrorsAndKeepsList(t *testing.T) {
	ctx := context.Background()
	r, err := Open(ctx, &failingStore{MemoryStore: MemoryStore{entries: []Entry{{Query: "Lima"}}}}, 5)
	require.NoError(t, err)

	err = r.Add(ctx, "Oslo")
	assert.ErrorContains(t, err, "disk full")
	assert.Equal(t, []string{"Lima"}, r.Items())

	err = r.AddPlace(ctx, "Rome, Lazio, Italy", 41.89, 12.48)
	assert.ErrorContains(t, err, "disk full")
	assert.Equal(t, []string{"Lima"}, r.Items())
}

func TestAddPlaceKeepsCoordinates(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	r, err := Open(ctx, store, 5)
	require.NoError(t, err)

	require.NoError(t, r.Add(ctx, "Springfield, Illinois, United States"))
	require.NoError(t, r.AddPlace(ctx, "Springfield, Illinois, United States", 39.80, -89.64))
	require.NoError(t, r.Add(ctx, "Oslo"))

	entries := r.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, Entry{Query: "Oslo"}, entries[0])
	assert.Equal(t, "Springfield, Illinois, United States", entries[1].Query)
	require.NotNil(t, entries[1].Place)
	assert.Equal(t, Place{Lat: 39.80, Lon: -89.64}, *entries[1].Place)

	stored, _ := store.Load(ctx)
	assert.Equal(t, entries, stored)
}

func TestSQLiteStorePersistsAcrossSessions(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "history.db")

	store, err := OpenSQLite(ctx, path)
	require.NoError(t, err)

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded)

	r, err := Open(ctx, store, 5)
	require.NoError(t, err)
	for i := 1; i <= 6; i++ {
		require.NoError(t, r.Add(ctx, fmt.Sprintf("City %d", i)))
	}
	require.NoError(t, store.Close())

	store, err = OpenSQLite(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	r, err = Open(ctx, store, 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"City 6", "City 5", "City 4", "City 3", "City 2"}, r.Items())

	require.NoError(t, r.Clear(ctx))
	loaded, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestSQLiteStoreCorruptRow(t *testing.T) {
	ctx := context.Background()
	store, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	_, err = store.db.ExecContext(ctx, `INSERT INTO kv (key, value) VALUES (?, ?)`, StorageKey, "not json")
	require.NoError(t, err)

	items, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	require.NoError(t, store.Save(ctx, []Entry{{Query: "Rome"}}))
	items, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Entry{{Query: "Rome"}}, items)
}

func TestSQLiteStoreMixedEntries(t *testing.T) {
	ctx := context.Background()
	store, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	entries := []Entry{
		{Query: "London, England, United Kingdom", Place: &Place{Lat: 51.5074, Lon: -0.1278}},
		{Query: "Tokyo"},
	}
	require.NoError(t, store.Save(ctx, entries))

	var raw string
	require.NoError(t, store.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, StorageKey).Scan(&raw))
	assert.JSONEq(t, `[{"query":"London, England, United Kingdom","lat":51.5074,"lon":-0.1278},"Tokyo"]`, raw)

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, entries, loaded)
}

func TestSQLiteStoreReadsPlainStringList(t *testing.T) {
	ctx := context.Background()
	store, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	_, err = store.db.ExecContext(ctx, `INSERT INTO kv (key, value) VALUES (?, ?)`, StorageKey, `["Paris","Berlin"]`)
	require.NoError(t, err)

	r, err := Open(ctx, store, 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"Paris", "Berlin"}, r.Items())
}
