// Package tasks owns the task collection. Records are persisted as one JSON
// document in the shared keyed store so that reward bookkeeping and every
// view read the same medium.
package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"taskify/internal/storage"
)

// TasksKey is the store key holding the task collection.
const TasksKey = "taskifyProTasks"

type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     time.Time  `json:"dueDate"`
	Status      Status     `json:"status"`
	Priority    Priority   `json:"priority"`
	Category    string     `json:"category"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	Points      int        `json:"points,omitempty"`
	Recurrence  Recurrence `json:"recurrence,omitempty"`
}

// Recurring reports whether completing the task cycles it instead of
// terminating it.
func (t Task) Recurring() bool {
	return t.Recurrence == RecurrenceDaily || t.Recurrence == RecurrenceWeekly
}

type Repo struct {
	store *storage.Store
}

func NewRepo(store *storage.Store) *Repo {
	return &Repo{store: store}
}

// List returns all tasks ordered by creation time. A missing or unparsable
// document reads as an empty collection; corruption is a recovery case, not
// an error.
func (r *Repo) List(ctx context.Context) ([]Task, error) {
	raw, ok, err := r.store.Get(ctx, TasksKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	var out []Task
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, nil
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *Repo) Get(ctx context.Context, id string) (*Task, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].ID == id || strings.HasPrefix(all[i].ID, id) {
			return &all[i], nil
		}
	}
	return nil, nil
}

type AddInput struct {
	Title       string
	Description string
	DueDate     time.Time
	Priority    Priority
	Category    string
	Recurrence  Recurrence
}

func (r *Repo) Add(ctx context.Context, in AddInput) (*Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, errors.New("title is required")
	}
	priority := in.Priority
	if !priority.IsValid() {
		priority = DefaultPriority
	}
	recurrence := in.Recurrence
	if !recurrence.IsValid() {
		recurrence = RecurrenceNone
	}

	t := Task{
		ID:          uuid.NewString(),
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		DueDate:     in.DueDate,
		Status:      StatusTodo,
		Priority:    priority,
		Category:    strings.TrimSpace(in.Category),
		CreatedAt:   time.Now().UTC(),
		Points:      priority.Points(),
		Recurrence:  recurrence,
	}

	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	all = append(all, t)
	if err := r.save(ctx, all); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *Repo) SetStatus(ctx context.Context, id string, status Status) (*Task, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid status: %q", status)
	}
	if status == StatusCompleted {
		return nil, errors.New("use Complete to finish a task")
	}

	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].ID != id {
			continue
		}
		all[i].Status = status
		all[i].CompletedAt = nil
		if err := r.save(ctx, all); err != nil {
			return nil, err
		}
		return &all[i], nil
	}
	return nil, fmt.Errorf("task %s not found", id)
}

// Complete finishes the current due-date instance of a task and returns a
// snapshot of that instance (status completed, original due date) for the
// reward ledger.
//
// Non-recurring tasks terminate: status becomes completed and completedAt is
// set. Recurring tasks cycle back to todo with the next due date. Completing
// an already-completed non-recurring task returns the stored record
// unchanged; the ledger treats the replayed instance as a duplicate.
func (r *Repo) Complete(ctx context.Context, id string, now time.Time) (*Task, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	for i := range all {
		if all[i].ID != id {
			continue
		}

		if all[i].Status == StatusCompleted {
			snap := all[i]
			return &snap, nil
		}

		snap := all[i]
		snap.Status = StatusCompleted
		completedAt := now
		snap.CompletedAt = &completedAt

		if all[i].Recurring() {
			all[i].Status = StatusTodo
			all[i].CompletedAt = nil
			all[i].DueDate = nextDueDate(all[i].DueDate, all[i].Recurrence)
		} else {
			all[i] = snap
		}

		if err := r.save(ctx, all); err != nil {
			return nil, err
		}
		return &snap, nil
	}
	return nil, fmt.Errorf("task %s not found", id)
}

func nextDueDate(due time.Time, r Recurrence) time.Time {
	if r == RecurrenceWeekly {
		return due.AddDate(0, 0, 7)
	}
	return due.AddDate(0, 0, 1)
}

func (r *Repo) save(ctx context.Context, all []Task) error {
	data, err := json.Marshal(all)
	if err != nil {
		return fmt.Errorf("marshal tasks: %w", err)
	}
	return r.store.Put(ctx, TasksKey, string(data))
}
