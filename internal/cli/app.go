package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/pdxmph/todo-tui/internal/config"
	"github.com/pdxmph/todo-tui/internal/db"
	"github.com/pdxmph/todo-tui/internal/storage"
	"github.com/pdxmph/todo-tui/internal/todo"
)

// app bundles everything a command needs to work with the task list
type app struct {
	cfg     *config.Config
	manager *storage.Manager
	adapter *todo.Adapter
	store   *todo.Store
}

// loadConfig reads the config file and applies flag overrides
func (o *rootOptions) loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = config.LoadFrom(o.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if o.dbPath != "" {
		cfg.Database.Path = o.dbPath
	}
	return cfg, nil
}

// open loads config, picks a storage backend and loads the task list
func (o *rootOptions) open() (*app, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}

	manager, err := storage.NewManager(cfg.Storage.Backend, storage.Options{
		Path:     cfg.Database.Path,
		MaxBytes: cfg.Database.MaxBytes,
	})
	if err != nil {
		return nil, fmt.Errorf("opening storage: %w", err)
	}

	adapter := todo.NewAdapter(manager.Backend(), cfg.Keys())

	return &app{
		cfg:     cfg,
		manager: manager,
		adapter: adapter,
		store:   todo.Open(adapter),
	}, nil
}

// Close releases the storage backend
func (a *app) Close() error {
	return a.manager.Close()
}

// warnIfUnsaved tells the user when the last change only lives in memory
func (a *app) warnIfUnsaved(w io.Writer) {
	if err := a.manager.Degraded(); err != nil {
		fmt.Fprintf(w, "warning: changes not saved: %v\n", err)
		return
	}
	if err := a.store.PersistErr(); err != nil {
		fmt.Fprintf(w, "warning: changes not saved: %v\n", err)
	}
}

// sqliteDB returns the sqlite backend if that is what is in use
func (a *app) sqliteDB() (*db.DB, bool) {
	d, ok := a.manager.Backend().(*db.DB)
	return d, ok
}

// parseID parses a task ID argument
func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid task id %q", s)
	}
	return id, nil
}
