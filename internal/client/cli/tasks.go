package cli

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/taskpulse/internal/client/api"
	"github.com/dmitrijs2005/taskpulse/internal/client/models"
)

// Tasks prints the user's tasks, newest first. When the server cannot be
// reached the last fetched list is shown instead.
func (a *App) Tasks(ctx context.Context) error {
	items, err := a.api.ListTasks(ctx, a.session)
	if err != nil {
		if errors.Is(err, api.ErrUnavailable) && a.isLoggedIn() && a.showCached(ctx) {
			return err
		}
		return a.fail(ctx, err)
	}
	a.persist(ctx)

	if a.local != nil {
		if err := a.local.SaveTasks(ctx, items, a.now()); err != nil {
			fmt.Fprintln(a.out, "Warning: could not cache tasks:", err)
		}
	}
	return a.printTasks(items)
}

// showCached prints the cached list. It reports false when there is nothing
// to show.
func (a *App) showCached(ctx context.Context) bool {
	if a.local == nil {
		return false
	}
	items, at, err := a.local.CachedTasks(ctx)
	if err != nil || at.IsZero() {
		return false
	}
	fmt.Fprintf(a.out, "Server unavailable, showing tasks cached at %s\n", at.Local().Format(time.DateTime))
	_ = a.printTasks(items)
	return true
}

func (a *App) printTasks(items []models.Task) error {
	if len(items) == 0 {
		fmt.Fprintln(a.out, "No tasks")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDONE\tPRIORITY\tTITLE")
	for _, t := range items {
		done := " "
		if t.Completed {
			done = "x"
		}
		fmt.Fprintf(w, "%s\t[%s]\t%s\t%s\n", t.ID, done, t.Priority, t.Title)
	}
	return w.Flush()
}

// Add prompts for the fields of a new task and creates it.
func (a *App) Add(ctx context.Context) error {
	if !a.isLoggedIn() {
		return a.fail(ctx, api.ErrNotLoggedIn)
	}

	var in models.NewTask
	var err error
	if in.Title, err = getSimpleText(a.reader, "Title", a.out); err != nil {
		return a.fail(ctx, err)
	}
	if in.Description, err = getSimpleText(a.reader, "Description (optional)", a.out); err != nil {
		return a.fail(ctx, err)
	}
	if in.Priority, err = getSimpleText(a.reader, "Priority: low, medium, high (empty for medium)", a.out); err != nil {
		return a.fail(ctx, err)
	}

	task, err := a.api.CreateTask(ctx, a.session, in)
	if err != nil {
		return a.fail(ctx, err)
	}
	a.persist(ctx)
	fmt.Fprintln(a.out, "Created task", task.ID)
	return nil
}

// Done marks the task completed.
func (a *App) Done(ctx context.Context, id string) error {
	completed := true
	task, err := a.api.UpdateTask(ctx, a.session, id, models.TaskPatch{Completed: &completed})
	if err != nil {
		return a.fail(ctx, err)
	}
	a.persist(ctx)
	fmt.Fprintf(a.out, "Completed %q\n", task.Title)
	return nil
}

// Remove deletes the task. Unknown ids are not an error.
func (a *App) Remove(ctx context.Context, id string) error {
	if err := a.api.DeleteTask(ctx, a.session, id); err != nil {
		return a.fail(ctx, err)
	}
	a.persist(ctx)
	fmt.Fprintln(a.out, "Deleted")
	return nil
}
