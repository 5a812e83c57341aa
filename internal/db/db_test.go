package db

import (
	"database/sql"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdxmph/todo-tui/internal/storage"
	"github.com/pdxmph/todo-tui/internal/todo"
)

func openTestDB(t *testing.T, maxBytes int64) *DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "todo.db")
	database, err := OpenOrInitialize(path, maxBytes)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database
}

func TestGetSetDelete(t *testing.T) {
	database := openTestDB(t, 0)

	_, ok, err := database.Get("tasks")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, database.Set("tasks", `[{"id":1}]`))
	require.NoError(t, database.Set("filter", "active"))
	require.NoError(t, database.Set("filter", "completed"))

	v, ok, err := database.Get("filter")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "completed", v)

	keys, err := database.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{"filter", "tasks"}, keys)

	require.NoError(t, database.Delete("tasks"))
	_, ok, err = database.Get("tasks")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEmptyValueIsStored(t *testing.T) {
	database := openTestDB(t, 0)

	require.NoError(t, database.Set("filter", ""))
	v, ok, err := database.Get("filter")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, v)
}

func TestQuota(t *testing.T) {
	database := openTestDB(t, 64)

	require.NoError(t, database.Set("a", strings.Repeat("x", 40)))

	err := database.Set("b", strings.Repeat("y", 40))
	assert.ErrorIs(t, err, ErrQuotaExceeded)

	// The rejected write left nothing behind
	_, ok, _ := database.Get("b")
	assert.False(t, ok)

	// Replacing an entry only counts its new size
	require.NoError(t, database.Set("a", strings.Repeat("z", 60)))

	used, limit, err := database.Usage()
	require.NoError(t, err)
	assert.Equal(t, int64(61), used)
	assert.Equal(t, int64(64), limit)
}

func TestEntries(t *testing.T) {
	database := openTestDB(t, 0)
	require.NoError(t, database.Set("tasks", "[]"))
	require.NoError(t, database.Set("filter", "all"))

	entries, err := database.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "filter", entries[0].Key)
	assert.Equal(t, int64(3), entries[0].Size)
	assert.True(t, entries[0].UpdatedAt.Valid)
	assert.Equal(t, "tasks", entries[1].Key)
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.db"), 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "todo-tui init")
}

func TestInitializeRefusesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "todo.db")
	require.NoError(t, Initialize(path))
	assert.Error(t, Initialize(path))
}

func TestMigrationAddsUpdatedAt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.db")

	conn, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	_, err = conn.Exec(`CREATE TABLE kv (key TEXT PRIMARY KEY, value TEXT NOT NULL)`)
	require.NoError(t, err)
	_, err = conn.Exec(`INSERT INTO kv (key, value) VALUES ('filter', 'active')`)
	require.NoError(t, err)
	require.NoError(t, conn.Close())

	database, err := Open(path, 0)
	require.NoError(t, err)
	defer database.Close()

	entries, err := database.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].UpdatedAt.Valid)

	v, ok, err := database.Get("filter")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "active", v)
}

func TestRegisteredBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todo.db")

	m, err := storage.NewManager("", storage.Options{Path: path, MaxBytes: DefaultMaxBytes})
	require.NoError(t, err)
	defer m.Close()

	assert.Equal(t, "sqlite", m.Name())
	assert.NoError(t, m.Degraded())
	assert.True(t, m.Backend().Durable())
}

func TestRegisteredBackendWithoutPath(t *testing.T) {
	m, err := storage.NewManager("sqlite", storage.Options{})
	require.NoError(t, err)
	defer m.Close()

	assert.Equal(t, "memory", m.Name())
	assert.Error(t, m.Degraded())
}

func TestStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todo.db")

	database, err := OpenOrInitialize(path, DefaultMaxBytes)
	require.NoError(t, err)
	store := todo.Open(todo.NewAdapter(database, todo.DefaultKeys()))
	milk, err := store.Add("Buy milk")
	require.NoError(t, err)
	_, err = store.ToggleCompleted(milk.ID)
	require.NoError(t, err)
	require.NoError(t, store.SetFilter(todo.FilterCompleted))
	require.NoError(t, database.Close())

	database, err = Open(path, DefaultMaxBytes)
	require.NoError(t, err)
	defer database.Close()

	reopened := todo.Open(todo.NewAdapter(database, todo.DefaultKeys()))
	require.Len(t, reopened.All(), 1)
	assert.Equal(t, "Buy milk", reopened.All()[0].Text)
	assert.True(t, reopened.All()[0].Completed)
	assert.Equal(t, todo.FilterCompleted, reopened.Filter())
}

func TestStoreKeepsChangesWhenQuotaExceeded(t *testing.T) {
	database := openTestDB(t, 128)
	store := todo.Open(todo.NewAdapter(database, todo.DefaultKeys()))

	_, err := store.Add(strings.Repeat("long task ", 20))
	require.NoError(t, err)

	assert.Len(t, store.All(), 1)
	assert.True(t, errors.Is(store.PersistErr(), ErrQuotaExceeded))
}

func TestCreateFixturesDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixtures.db")
	require.NoError(t, CreateFixturesDatabase(path, todo.DefaultKeys()))

	database, err := Open(path, 0)
	require.NoError(t, err)
	defer database.Close()

	store := todo.Open(todo.NewAdapter(database, todo.DefaultKeys()))
	c := store.Counters()
	assert.Equal(t, len(todo.DemoTasks), c.Total)
	assert.Equal(t, 4, c.Active)

	assert.Error(t, CreateFixturesDatabase(path, todo.DefaultKeys()))
}
