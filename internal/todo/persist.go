package todo

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"
)

// KV is the durable string-keyed medium the adapter writes to
type KV interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// Keys names the entries used in the key-value medium
type Keys struct {
	Tasks  string
	Filter string
	Theme  string
}

// DefaultKeys returns the standard entry names
func DefaultKeys() Keys {
	return Keys{Tasks: "tasks", Filter: "filter", Theme: "theme"}
}

// Theme is the persisted UI color preference
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// PersistError reports a failed write to the key-value medium.
// It is a warning: the in-memory store stays authoritative.
type PersistError struct {
	Entry string
	Err   error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("saving %s: %v", e.Entry, e.Err)
}

func (e *PersistError) Unwrap() error {
	return e.Err
}

// record is the on-disk shape of a Task
type record struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
	CreatedAt string `json:"createdAt"`
}

// Adapter mirrors the task collection and filter into a KV medium
type Adapter struct {
	kv   KV
	keys Keys
}

// NewAdapter creates an adapter over kv using the given entry names.
// Empty names fall back to DefaultKeys.
func NewAdapter(kv KV, keys Keys) *Adapter {
	def := DefaultKeys()
	if keys.Tasks == "" {
		keys.Tasks = def.Tasks
	}
	if keys.Filter == "" {
		keys.Filter = def.Filter
	}
	if keys.Theme == "" {
		keys.Theme = def.Theme
	}
	return &Adapter{kv: kv, keys: keys}
}

// Save writes the tasks and the filter as two independent entries
func (a *Adapter) Save(tasks []Task, mode Filter) error {
	records := make([]record, len(tasks))
	for i, t := range tasks {
		records[i] = record{
			ID:        t.ID,
			Text:      t.Text,
			Completed: t.Completed,
			CreatedAt: t.CreatedAt.Format(time.RFC3339Nano),
		}
	}

	data, err := json.Marshal(records)
	if err != nil {
		return &PersistError{Entry: a.keys.Tasks, Err: err}
	}
	if err := a.kv.Set(a.keys.Tasks, string(data)); err != nil {
		return &PersistError{Entry: a.keys.Tasks, Err: err}
	}

	if err := a.kv.Set(a.keys.Filter, string(mode)); err != nil {
		return &PersistError{Entry: a.keys.Filter, Err: err}
	}

	return nil
}

// Load reads the tasks and filter back. Missing or unreadable entries
// fall back to an empty list and FilterAll; problems are logged, never
// returned.
func (a *Adapter) Load() ([]Task, Filter) {
	return a.loadTasks(), a.loadFilter()
}

func (a *Adapter) loadTasks() []Task {
	raw, ok, err := a.kv.Get(a.keys.Tasks)
	if err != nil {
		log.Printf("warning: reading %s: %v", a.keys.Tasks, err)
		return []Task{}
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return []Task{}
	}

	var records []record
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		log.Printf("warning: %s entry is corrupt, starting empty: %v", a.keys.Tasks, err)
		return []Task{}
	}

	tasks := make([]Task, 0, len(records))
	seen := make(map[int64]bool, len(records))
	for _, r := range records {
		text := strings.TrimSpace(r.Text)
		if text == "" {
			log.Printf("warning: dropping task %d with empty text", r.ID)
			continue
		}
		if seen[r.ID] {
			log.Printf("warning: dropping duplicate task id %d", r.ID)
			continue
		}
		seen[r.ID] = true

		created, err := parseCreatedAt(r.CreatedAt)
		if err != nil {
			log.Printf("warning: failed to parse createdAt for task %d: %v", r.ID, err)
		}

		tasks = append(tasks, Task{
			ID:        r.ID,
			Text:      text,
			Completed: r.Completed,
			CreatedAt: created,
		})
	}

	return tasks
}

func (a *Adapter) loadFilter() Filter {
	raw, ok, err := a.kv.Get(a.keys.Filter)
	if err != nil {
		log.Printf("warning: reading %s: %v", a.keys.Filter, err)
		return FilterAll
	}
	if !ok || raw == "" {
		return FilterAll
	}

	mode, err := ParseFilter(strings.Trim(raw, `"`))
	if err != nil {
		log.Printf("warning: %s entry: %v, using %s", a.keys.Filter, err, FilterAll)
		return FilterAll
	}
	return mode
}

// SaveTheme stores the UI theme preference
func (a *Adapter) SaveTheme(theme Theme) error {
	if err := a.kv.Set(a.keys.Theme, string(theme)); err != nil {
		return &PersistError{Entry: a.keys.Theme, Err: err}
	}
	return nil
}

// LoadTheme returns the stored theme, or def when none is stored
func (a *Adapter) LoadTheme(def Theme) Theme {
	raw, ok, err := a.kv.Get(a.keys.Theme)
	if err != nil {
		log.Printf("warning: reading %s: %v", a.keys.Theme, err)
		return def
	}
	if !ok {
		return def
	}

	switch Theme(raw) {
	case ThemeDark, ThemeLight:
		return Theme(raw)
	}
	return def
}

// parseCreatedAt accepts RFC 3339 timestamps; anything else yields the zero time
func parseCreatedAt(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}
