package todo

import (
	"log"
	"sync"
	"time"
)

// Saver persists a snapshot of the store. *Adapter implements it.
type Saver interface {
	Save(tasks []Task, mode Filter) error
}

// Store owns the ordered task collection and the current filter.
// Every state change is written through the Saver before the call returns.
type Store struct {
	mu     sync.Mutex
	saver  Saver
	tasks  []Task
	filter Filter

	now    func() time.Time
	lastID int64

	persistErr error
}

// Option configures a Store
type Option func(*Store)

// WithClock overrides the time source used for IDs and timestamps
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore creates a store seeded with tasks and filter. The slice is copied.
func NewStore(saver Saver, tasks []Task, filter Filter, opts ...Option) *Store {
	s := &Store{
		saver:  saver,
		tasks:  make([]Task, len(tasks)),
		filter: filter,
		now:    time.Now,
	}
	copy(s.tasks, tasks)

	if _, err := ParseFilter(string(filter)); err != nil {
		s.filter = FilterAll
	}

	for _, t := range s.tasks {
		if t.ID > s.lastID {
			s.lastID = t.ID
		}
	}

	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open loads the persisted state through the adapter and returns a store
// that writes back to it
func Open(a *Adapter, opts ...Option) *Store {
	tasks, filter := a.Load()
	return NewStore(a, tasks, filter, opts...)
}

// nextID returns an ID greater than every ID issued or loaded so far.
// IDs follow the wall clock in milliseconds but never repeat when two
// tasks are created within the same tick.
func (s *Store) nextID() int64 {
	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

// persist writes the current state. Must be called with s.mu held.
func (s *Store) persist() {
	if s.saver == nil {
		return
	}

	err := s.saver.Save(s.snapshot(), s.filter)
	if err != nil {
		log.Printf("warning: %v (changes kept in memory)", err)
	} else if s.persistErr != nil {
		log.Println("storage recovered, changes saved")
	}
	s.persistErr = err
}

// snapshot copies the collection. Must be called with s.mu held.
func (s *Store) snapshot() []Task {
	out := make([]Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// indexOf returns the position of id, or -1. Must be called with s.mu held.
func (s *Store) indexOf(id int64) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// Add validates rawText and appends a new active task
func (s *Store) Add(rawText string) (Task, error) {
	text, err := NormalizeText(rawText)
	if err != nil {
		return Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t := Task{
		ID:        s.nextID(),
		Text:      text,
		CreatedAt: s.now().UTC().Round(0),
	}
	s.tasks = append(s.tasks, t)
	s.persist()

	return t, nil
}

// AddDemo appends the sample tasks in a single write
func (s *Store) AddDemo() []Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	added := make([]Task, 0, len(DemoTasks))
	for i, text := range DemoTasks {
		t := Task{
			ID:        s.nextID(),
			Text:      text,
			Completed: i >= demoActiveCount,
			CreatedAt: s.now().UTC().Round(0),
		}
		s.tasks = append(s.tasks, t)
		added = append(added, t)
	}
	s.persist()

	return added
}

// Delete removes the task with id. It reports whether a task was removed.
func (s *Store) Delete(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false
	}

	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	s.persist()
	return true
}

// ToggleCompleted flips the completed flag of a task
func (s *Store) ToggleCompleted(id int64) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return Task{}, ErrNotFound
	}

	s.tasks[i].Completed = !s.tasks[i].Completed
	s.persist()
	return s.tasks[i], nil
}

// EditText replaces the text of a task. Empty or unchanged text cancels
// the edit: the current task is returned with changed=false and nothing
// is written.
func (s *Store) EditText(id int64, newText string) (task Task, changed bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return Task{}, false, ErrNotFound
	}

	text, err := NormalizeText(newText)
	if err != nil || text == s.tasks[i].Text {
		return s.tasks[i], false, nil
	}

	s.tasks[i].Text = text
	s.persist()
	return s.tasks[i], true, nil
}

// ClearCompleted removes every completed task and returns how many were
// removed. Zero means there was nothing to clear and nothing was written.
func (s *Store) ClearCompleted() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := make([]Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if !t.Completed {
			kept = append(kept, t)
		}
	}

	removed := len(s.tasks) - len(kept)
	if removed == 0 {
		return 0
	}

	s.tasks = kept
	s.persist()
	return removed
}

// ClearAll removes every task and returns how many were removed
func (s *Store) ClearAll() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := len(s.tasks)
	if removed == 0 {
		return 0
	}

	s.tasks = []Task{}
	s.persist()
	return removed
}

// Get returns a copy of the task with id
func (s *Store) Get(id int64) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return Task{}, ErrNotFound
	}
	return s.tasks[i], nil
}

// All returns a copy of every task in insertion order
func (s *Store) All() []Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Filter returns the current filter mode
func (s *Store) Filter() Filter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// SetFilter changes the current filter mode and persists it.
// Setting the mode that is already active writes nothing.
func (s *Store) SetFilter(mode Filter) error {
	if _, err := ParseFilter(string(mode)); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if mode == s.filter {
		return nil
	}
	s.filter = mode
	s.persist()
	return nil
}

// VisibleTasks returns the tasks matching the current filter
func (s *Store) VisibleTasks() []Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Apply(s.tasks, s.filter)
}

// Counters returns totals over the full collection, ignoring the filter
func (s *Store) Counters() Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return CountersOf(s.tasks)
}

// PersistErr returns the error from the most recent write, or nil if it
// succeeded. A non-nil value means changes currently live only in memory.
func (s *Store) PersistErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistErr
}
