package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"duely/internal/deadline"
	"duely/internal/task"
)

var (
	// ErrEmptyText is returned when a task is added with blank text.
	ErrEmptyText = errors.New("task text cannot be empty")
	// ErrNotFound is returned when no task has the requested id.
	ErrNotFound = errors.New("task not found")
)

// Backend loads and saves the full collection.
type Backend interface {
	Load(ctx context.Context) ([]task.Task, error)
	Save(ctx context.Context, tasks []task.Task) error
}

// Store applies task operations to a [Backend]. Each operation is a
// read-modify-write of the whole collection done under one lock, so the UI
// and the reminder loops never interleave writes.
type Store struct {
	mu      sync.Mutex
	backend Backend
	now     func() time.Time
	logger  *log.Logger
}

type Option func(*Store)

// WithClock sets the time source used for ids and creation stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

func NewStore(backend Backend, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		now:     time.Now,
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Tasks(ctx context.Context) ([]task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.backend.Load(ctx)
}

// AddTask appends a new incomplete task. Text is trimmed; blank text is
// rejected with [ErrEmptyText] and nothing is written.
func (s *Store) AddTask(ctx context.Context, text string, priority task.Priority, due *time.Time) (task.Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return task.Task{}, ErrEmptyText
	}
	if !priority.IsValid() {
		return task.Task{}, fmt.Errorf("invalid priority %s", priority)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.backend.Load(ctx)
	if err != nil {
		return task.Task{}, err
	}

	now := s.now().UTC().Round(0)
	t := task.Task{
		ID:        nextID(tasks, now),
		Text:      text,
		Priority:  priority,
		CreatedAt: now,
	}
	if due != nil {
		d := due.UTC().Round(0)
		t.Deadline = &d
	}

	if err := s.backend.Save(ctx, append(tasks, t)); err != nil {
		return task.Task{}, err
	}
	s.logger.Debug("task added", "id", t.ID, "priority", t.Priority)
	return t, nil
}

// ToggleComplete flips the completion flag of the task with id.
func (s *Store) ToggleComplete(ctx context.Context, id int64) (task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.backend.Load(ctx)
	if err != nil {
		return task.Task{}, err
	}
	for i := range tasks {
		if tasks[i].ID != id {
			continue
		}
		tasks[i].Completed = !tasks[i].Completed
		if err := s.backend.Save(ctx, tasks); err != nil {
			return task.Task{}, err
		}
		s.logger.Debug("task toggled", "id", id, "completed", tasks[i].Completed)
		return tasks[i], nil
	}
	return task.Task{}, fmt.Errorf("toggle %d: %w", id, ErrNotFound)
}

// DeleteTask removes the task with id and reports whether it existed.
// Deleting an unknown id leaves storage untouched.
func (s *Store) DeleteTask(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.backend.Load(ctx)
	if err != nil {
		return false, err
	}
	kept := make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	if len(kept) == len(tasks) {
		return false, nil
	}
	if err := s.backend.Save(ctx, kept); err != nil {
		return false, err
	}
	s.logger.Debug("task deleted", "id", id)
	return true, nil
}

// ClearCompleted removes every completed task and returns how many went.
func (s *Store) ClearCompleted(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.backend.Load(ctx)
	if err != nil {
		return 0, err
	}
	kept := task.FilterActive.Apply(tasks)
	removed := len(tasks) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	if err := s.backend.Save(ctx, kept); err != nil {
		return 0, err
	}
	return removed, nil
}

// EscalatePriorities raises priorities by deadline proximity at now,
// persists the result and returns it.
func (s *Store) EscalatePriorities(ctx context.Context, now time.Time) ([]task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.backend.Load(ctx)
	if err != nil {
		return nil, err
	}
	escalated, changed := deadline.EscalateChanged(tasks, now)
	if err := s.backend.Save(ctx, escalated); err != nil {
		return nil, err
	}
	if len(changed) > 0 {
		s.logger.Info("priorities escalated", "ids", changed)
	}
	return escalated, nil
}

// nextID derives an id from the creation instant, moving past any id
// already present so ids stay unique and increasing.
func nextID(tasks []task.Task, now time.Time) int64 {
	id := now.UnixMilli()
	for _, t := range tasks {
		if t.ID >= id {
			id = t.ID + 1
		}
	}
	return id
}
