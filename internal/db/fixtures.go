package db

import (
	"fmt"

	"github.com/pdxmph/todo-tui/internal/todo"
)

// CreateFixturesDatabase creates a database pre-loaded with the demo tasks
func CreateFixturesDatabase(dbPath string, keys todo.Keys) error {
	// Initialize empty database
	if err := Initialize(dbPath); err != nil {
		return fmt.Errorf("initializing fixtures database: %w", err)
	}

	// Open database to add demo data
	database, err := Open(dbPath, 0)
	if err != nil {
		return fmt.Errorf("opening fixtures database: %w", err)
	}
	defer database.Close()

	adapter := todo.NewAdapter(database, keys)
	store := todo.NewStore(adapter, nil, todo.FilterAll)
	store.AddDemo()

	if err := store.PersistErr(); err != nil {
		return fmt.Errorf("adding demo tasks: %w", err)
	}

	return nil
}
