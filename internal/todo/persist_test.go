package todo

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mapKV is an in-memory KV that can refuse writes or reads
type mapKV struct {
	data    map[string]string
	setErr  error
	getErr  error
	failKey string
}

func newMapKV() *mapKV {
	return &mapKV{data: make(map[string]string)}
}

func (m *mapKV) Get(key string) (string, bool, error) {
	if m.getErr != nil {
		return "", false, m.getErr
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *mapKV) Set(key, value string) error {
	if m.setErr != nil && (m.failKey == "" || m.failKey == key) {
		return m.setErr
	}
	m.data[key] = value
	return nil
}

func TestAdapterRoundTrip(t *testing.T) {
	kv := newMapKV()
	a := NewAdapter(kv, Keys{})

	created := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	tasks := []Task{
		{ID: 10, Text: "Buy milk", Completed: true, CreatedAt: created},
		{ID: 11, Text: "Walk dog", CreatedAt: created.Add(time.Minute)},
	}

	require.NoError(t, a.Save(tasks, FilterCompleted))
	assert.Equal(t, "completed", kv.data["filter"])
	assert.Contains(t, kv.data["tasks"], `"createdAt":"2024-05-06T07:08:09Z"`)

	loaded, mode := a.Load()
	assert.Equal(t, FilterCompleted, mode)
	require.Len(t, loaded, 2)
	for i := range tasks {
		assert.Equal(t, tasks[i].ID, loaded[i].ID)
		assert.Equal(t, tasks[i].Text, loaded[i].Text)
		assert.Equal(t, tasks[i].Completed, loaded[i].Completed)
		assert.True(t, tasks[i].CreatedAt.Equal(loaded[i].CreatedAt))
	}
}

func TestAdapterCustomKeys(t *testing.T) {
	kv := newMapKV()
	a := NewAdapter(kv, Keys{Tasks: "todos", Filter: "view"})

	require.NoError(t, a.Save([]Task{{ID: 1, Text: "x"}}, FilterActive))
	require.NoError(t, a.SaveTheme(ThemeLight))

	assert.Contains(t, kv.data, "todos")
	assert.Equal(t, "active", kv.data["view"])
	assert.Equal(t, "light", kv.data["theme"])
}

func TestAdapterLoadDefaults(t *testing.T) {
	tests := []struct {
		name string
		data map[string]string
	}{
		{"absent", map[string]string{}},
		{"empty", map[string]string{"tasks": "", "filter": ""}},
		{"corrupt", map[string]string{"tasks": "{not json", "filter": "sideways"}},
		{"wrong shape", map[string]string{"tasks": `{"id":1}`, "filter": "42"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := newMapKV()
			kv.data = tt.data

			tasks, mode := NewAdapter(kv, Keys{}).Load()
			assert.NotNil(t, tasks)
			assert.Empty(t, tasks)
			assert.Equal(t, FilterAll, mode)
		})
	}
}

func TestAdapterLoadReadError(t *testing.T) {
	kv := newMapKV()
	kv.getErr = errors.New("disk on fire")

	tasks, mode := NewAdapter(kv, Keys{}).Load()
	assert.Empty(t, tasks)
	assert.Equal(t, FilterAll, mode)
	assert.Equal(t, ThemeLight, NewAdapter(kv, Keys{}).LoadTheme(ThemeLight))
}

func TestAdapterLoadAcceptsQuotedFilter(t *testing.T) {
	kv := newMapKV()
	kv.data["filter"] = `"active"`

	_, mode := NewAdapter(kv, Keys{}).Load()
	assert.Equal(t, FilterActive, mode)
}

func TestAdapterLoadDropsInvalidRecords(t *testing.T) {
	kv := newMapKV()
	kv.data["tasks"] = `[
		{"id": 1, "text": "keep", "completed": false, "createdAt": "2024-01-01T00:00:00Z"},
		{"id": 2, "text": "   ", "completed": false, "createdAt": "2024-01-01T00:00:00Z"},
		{"id": 1, "text": "duplicate", "completed": true, "createdAt": "2024-01-01T00:00:00Z"},
		{"id": 3, "text": "bad date", "completed": true, "createdAt": "yesterday"}
	]`

	tasks, _ := NewAdapter(kv, Keys{}).Load()
	require.Len(t, tasks, 2)

	assert.Equal(t, int64(1), tasks[0].ID)
	assert.Equal(t, "keep", tasks[0].Text)

	assert.Equal(t, int64(3), tasks[1].ID)
	assert.True(t, tasks[1].Completed)
	assert.True(t, tasks[1].CreatedAt.IsZero())
}

func TestAdapterSaveErrors(t *testing.T) {
	quota := errors.New("quota exceeded")

	t.Run("tasks entry", func(t *testing.T) {
		kv := newMapKV()
		kv.setErr = quota

		err := NewAdapter(kv, Keys{}).Save([]Task{{ID: 1, Text: "x"}}, FilterAll)

		var perr *PersistError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, "tasks", perr.Entry)
		assert.ErrorIs(t, err, quota)
		assert.EqualError(t, err, "saving tasks: quota exceeded")
	})

	t.Run("filter entry", func(t *testing.T) {
		kv := newMapKV()
		kv.setErr = quota
		kv.failKey = "filter"

		err := NewAdapter(kv, Keys{}).Save([]Task{{ID: 1, Text: "x"}}, FilterActive)

		var perr *PersistError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, "filter", perr.Entry)
		// The tasks entry was still written
		assert.Contains(t, kv.data, "tasks")
	})
}

func TestAdapterTheme(t *testing.T) {
	kv := newMapKV()
	a := NewAdapter(kv, Keys{})

	assert.Equal(t, ThemeDark, a.LoadTheme(ThemeDark))

	require.NoError(t, a.SaveTheme(ThemeLight))
	assert.Equal(t, ThemeLight, a.LoadTheme(ThemeDark))

	kv.data["theme"] = "neon"
	assert.Equal(t, ThemeDark, a.LoadTheme(ThemeDark))
}

func TestOpenRestoresState(t *testing.T) {
	kv := newMapKV()
	a := NewAdapter(kv, Keys{})

	s := Open(a, WithClock(frozenClock()))

	milk, err := s.Add("Buy milk")
	require.NoError(t, err)
	_, err = s.Add("Walk dog")
	require.NoError(t, err)
	_, err = s.ToggleCompleted(milk.ID)
	require.NoError(t, err)
	require.NoError(t, s.SetFilter(FilterActive))

	reopened := Open(a, WithClock(frozenClock()))

	assert.Equal(t, ids(s.All()), ids(reopened.All()))
	assert.Equal(t, texts(s.All()), texts(reopened.All()))
	assert.Equal(t, s.Counters(), reopened.Counters())
	assert.Equal(t, FilterActive, reopened.Filter())
	assert.Equal(t, []string{"Walk dog"}, texts(reopened.VisibleTasks()))

	next, err := reopened.Add("after reload")
	require.NoError(t, err)
	for _, task := range s.All() {
		assert.Greater(t, next.ID, task.ID)
	}
}
