package todo

import "fmt"

// Filter selects which tasks are visible
type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

// Filters returns the filter modes in display order
func Filters() []Filter {
	return []Filter{FilterAll, FilterActive, FilterCompleted}
}

// ParseFilter converts a stored or user-supplied value into a Filter
func ParseFilter(s string) (Filter, error) {
	switch Filter(s) {
	case FilterAll, FilterActive, FilterCompleted:
		return Filter(s), nil
	}
	return FilterAll, fmt.Errorf("unknown filter %q", s)
}

// Next returns the filter after f, wrapping around
func (f Filter) Next() Filter {
	modes := Filters()
	for i, m := range modes {
		if m == f {
			return modes[(i+1)%len(modes)]
		}
	}
	return FilterAll
}

// Apply returns the tasks matching mode in their original order.
// The input slice is never modified.
func Apply(tasks []Task, mode Filter) []Task {
	if mode != FilterActive && mode != FilterCompleted {
		out := make([]Task, len(tasks))
		copy(out, tasks)
		return out
	}

	wantCompleted := mode == FilterCompleted
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Completed == wantCompleted {
			out = append(out, t)
		}
	}
	return out
}
