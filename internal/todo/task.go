package todo

import (
	"errors"
	"strings"
	"time"
)

var (
	// ErrEmptyInput is returned when task text is empty after trimming
	ErrEmptyInput = errors.New("please enter a task")

	// ErrNotFound is returned when no task has the requested ID
	ErrNotFound = errors.New("task not found")
)

// Task represents a single entry in the task list
type Task struct {
	ID        int64     `json:"id" yaml:"id"`
	Text      string    `json:"text" yaml:"text"`
	Completed bool      `json:"completed" yaml:"completed"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
}

// NormalizeText trims the input and rejects blank text
func NormalizeText(raw string) (string, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return "", ErrEmptyInput
	}
	return text, nil
}

// Counters holds the task totals shown by the view layer
type Counters struct {
	Total     int `json:"total" yaml:"total"`
	Active    int `json:"active" yaml:"active"`
	Completed int `json:"completed" yaml:"completed"`
}

// CountersOf derives counters from the full, unfiltered collection
func CountersOf(tasks []Task) Counters {
	active := 0
	for _, t := range tasks {
		if !t.Completed {
			active++
		}
	}
	return Counters{
		Total:     len(tasks),
		Active:    active,
		Completed: len(tasks) - active,
	}
}

// DemoTasks are the sample tasks added by the demo action.
// The first four start active, the rest completed.
var DemoTasks = []string{
	"Learn Go fundamentals",
	"Build this todo app",
	"Add sqlite persistence",
	"Implement task filtering",
	"Test edit-in-place feature",
	"Make it work in small terminals",
	"Submit the project",
}

// demoActiveCount is how many of DemoTasks start out active
const demoActiveCount = 4
