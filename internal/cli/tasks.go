package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/pdxmph/todo-tui/internal/todo"
)

func newAddCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <text...>",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open()
			if err != nil {
				return err
			}
			defer a.Close()

			task, err := a.store.Add(strings.Join(args, " "))
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Added %d: %s\n", task.ID, task.Text)
			a.warnIfUnsaved(cmd.ErrOrStderr())
			return nil
		},
	}
}

func newListCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks",
		Long: `List tasks in insertion order.

Without --filter the saved filter is used, the same one the interactive
list shows.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			filterFlag, _ := cmd.Flags().GetString("filter")
			output, _ := cmd.Flags().GetString("output")

			a, err := opts.open()
			if err != nil {
				return err
			}
			defer a.Close()

			tasks := a.store.VisibleTasks()
			if filterFlag != "" {
				mode, err := todo.ParseFilter(filterFlag)
				if err != nil {
					return err
				}
				tasks = todo.Apply(a.store.All(), mode)
			}

			return writeTasks(cmd.OutOrStdout(), tasks, a.store.Counters(), output)
		},
	}

	cmd.Flags().StringP("filter", "f", "", "Show all, active or completed tasks")
	cmd.Flags().StringP("output", "o", "text", "Output format: text, json or yaml")
	return cmd
}

// listing is the structured form of list output
type listing struct {
	Tasks    []todo.Task   `json:"tasks" yaml:"tasks"`
	Counters todo.Counters `json:"counters" yaml:"counters"`
}

func writeTasks(w io.Writer, tasks []todo.Task, counters todo.Counters, output string) error {
	switch output {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(listing{Tasks: tasks, Counters: counters})

	case "yaml":
		data, err := yaml.Marshal(listing{Tasks: tasks, Counters: counters})
		if err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		_, err = w.Write(data)
		return err

	case "text", "":
		if len(tasks) == 0 {
			fmt.Fprintln(w, "No tasks.")
		}
		for _, t := range tasks {
			box := "[ ]"
			if t.Completed {
				box = "[x]"
			}
			fmt.Fprintf(w, "%s %d  %s\n", box, t.ID, t.Text)
		}
		fmt.Fprintf(w, "\nTotal: %d • Active: %d • Completed: %d\n",
			counters.Total, counters.Active, counters.Completed)
		return nil
	}

	return fmt.Errorf("unknown output format %q", output)
}

func newToggleCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "toggle <id>",
		Aliases: []string{"done"},
		Short:   "Mark a task completed, or active again",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			a, err := opts.open()
			if err != nil {
				return err
			}
			defer a.Close()

			task, err := a.store.ToggleCompleted(id)
			if err != nil {
				return fmt.Errorf("task %d: %w", id, err)
			}

			state := "active"
			if task.Completed {
				state = "completed"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Task %d is now %s\n", task.ID, state)
			a.warnIfUnsaved(cmd.ErrOrStderr())
			return nil
		},
	}
}

func newEditCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <id> <text...>",
		Short: "Change the text of a task",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			a, err := opts.open()
			if err != nil {
				return err
			}
			defer a.Close()

			task, changed, err := a.store.EditText(id, strings.Join(args[1:], " "))
			if err != nil {
				return fmt.Errorf("task %d: %w", id, err)
			}

			if !changed {
				fmt.Fprintf(cmd.OutOrStdout(), "Task %d unchanged\n", task.ID)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Task updated: %s\n", task.Text)
			a.warnIfUnsaved(cmd.ErrOrStderr())
			return nil
		},
	}
}

func newRemoveCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			a, err := opts.open()
			if err != nil {
				return err
			}
			defer a.Close()

			if !a.store.Delete(id) {
				return fmt.Errorf("task %d: %w", id, todo.ErrNotFound)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %d\n", id)
			a.warnIfUnsaved(cmd.ErrOrStderr())
			return nil
		},
	}
}

func newClearCompletedCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear-completed",
		Short: "Delete every completed task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open()
			if err != nil {
				return err
			}
			defer a.Close()

			n := a.store.ClearCompleted()
			if n == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No completed tasks to clear")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d completed %s\n", n, plural(n, "task"))
			a.warnIfUnsaved(cmd.ErrOrStderr())
			return nil
		},
	}
}

func newClearAllCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear-all",
		Short: "Delete every task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			yes, _ := cmd.Flags().GetBool("yes")
			if !yes {
				return errors.New("refusing to delete every task without --yes")
			}

			a, err := opts.open()
			if err != nil {
				return err
			}
			defer a.Close()

			n := a.store.ClearAll()
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d %s\n", n, plural(n, "task"))
			a.warnIfUnsaved(cmd.ErrOrStderr())
			return nil
		},
	}

	cmd.Flags().BoolP("yes", "y", false, "Confirm deleting every task")
	return cmd
}

func newDemoCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Add a set of sample tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open()
			if err != nil {
				return err
			}
			defer a.Close()

			added := a.store.AddDemo()
			fmt.Fprintf(cmd.OutOrStdout(), "Added %d demo tasks\n", len(added))
			a.warnIfUnsaved(cmd.ErrOrStderr())
			return nil
		},
	}
}

func newFilterCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:       "filter [all|active|completed]",
		Short:     "Show or set the saved filter",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(todo.FilterAll), string(todo.FilterActive), string(todo.FilterCompleted)},
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open()
			if err != nil {
				return err
			}
			defer a.Close()

			if len(args) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), a.store.Filter())
				return nil
			}

			mode, err := todo.ParseFilter(args[0])
			if err != nil {
				return err
			}
			if err := a.store.SetFilter(mode); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Filter set to %s\n", mode)
			a.warnIfUnsaved(cmd.ErrOrStderr())
			return nil
		},
	}
}

func newStatsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show task counters and storage usage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open()
			if err != nil {
				return err
			}
			defer a.Close()

			w := cmd.OutOrStdout()
			c := a.store.Counters()
			fmt.Fprintf(w, "Total:     %d\n", c.Total)
			fmt.Fprintf(w, "Active:    %d\n", c.Active)
			fmt.Fprintf(w, "Completed: %d\n", c.Completed)
			fmt.Fprintf(w, "Filter:    %s\n", a.store.Filter())
			fmt.Fprintf(w, "Backend:   %s\n", a.manager.Name())

			database, ok := a.sqliteDB()
			if !ok {
				return nil
			}

			used, limit, err := database.Usage()
			if err != nil {
				return err
			}
			if limit > 0 {
				fmt.Fprintf(w, "Storage:   %d of %d bytes (%s)\n", used, limit, database.Path())
			} else {
				fmt.Fprintf(w, "Storage:   %d bytes (%s)\n", used, database.Path())
			}

			if opts.verbose {
				entries, err := database.Entries()
				if err != nil {
					return err
				}
				for _, e := range entries {
					updated := "never"
					if e.UpdatedAt.Valid {
						updated = e.UpdatedAt.Time.Format("2006-01-02 15:04:05")
					}
					fmt.Fprintf(w, "  %-12s %8d bytes  %s\n", e.Key, e.Size, updated)
				}
			}
			return nil
		},
	}
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
