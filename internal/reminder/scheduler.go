package reminder

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"duely/internal/deadline"
	"duely/internal/task"
)

const (
	DefaultPendingInterval  = time.Hour
	DefaultDeadlineInterval = 5 * time.Minute
)

// TaskSource is the slice of the task store the loops need.
type TaskSource interface {
	Tasks(ctx context.Context) ([]task.Task, error)
	EscalatePriorities(ctx context.Context, now time.Time) ([]task.Task, error)
}

// Options holds configuration options for the [Scheduler].
type Options struct {
	PendingInterval  time.Duration
	DeadlineInterval time.Duration
	// OnRefresh receives the collection after every escalation pass so the
	// list can be redrawn.
	OnRefresh func([]task.Task)
	Clock     func() time.Time
	Logger    *log.Logger
}

// Option is a function that configures [Options].
type Option func(*Options)

func WithPendingInterval(d time.Duration) Option {
	return func(o *Options) { o.PendingInterval = d }
}

func WithDeadlineInterval(d time.Duration) Option {
	return func(o *Options) { o.DeadlineInterval = d }
}

func WithRefresh(fn func([]task.Task)) Option {
	return func(o *Options) { o.OnRefresh = fn }
}

func WithClock(now func() time.Time) Option {
	return func(o *Options) { o.Clock = now }
}

func WithLogger(l *log.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// Scheduler runs the two reminder loops:
//
//   - every PendingInterval, a reminder about unfinished tasks;
//   - every DeadlineInterval and once at start, priority escalation, a
//     refresh, and a warning about tasks due within the hour.
type Scheduler struct {
	source TaskSource
	sender Sender
	opts   Options
}

// NewScheduler creates a [Scheduler] reading from source and notifying
// through sender.
func NewScheduler(source TaskSource, sender Sender, opts ...Option) *Scheduler {
	o := Options{
		PendingInterval:  DefaultPendingInterval,
		DeadlineInterval: DefaultDeadlineInterval,
		Clock:            time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	return &Scheduler{source: source, sender: sender, opts: o}
}

// Run blocks until ctx is cancelled. Errors inside a tick are logged and
// the loops keep going.
func (s *Scheduler) Run(ctx context.Context) {
	s.CheckDeadlines(ctx)

	pending := time.NewTicker(s.opts.PendingInterval)
	defer pending.Stop()
	deadlines := time.NewTicker(s.opts.DeadlineInterval)
	defer deadlines.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-pending.C:
			s.CheckPending(ctx)
		case <-deadlines.C:
			s.CheckDeadlines(ctx)
		}
	}
}

// CheckPending notifies if any task is unfinished and returns the count.
func (s *Scheduler) CheckPending(ctx context.Context) int {
	tasks, err := s.source.Tasks(ctx)
	if err != nil {
		s.opts.Logger.Error("pending check failed", "err", err)
		return 0
	}
	n := len(task.FilterActive.Apply(tasks))
	if n > 0 {
		s.sender.Notify(ctx, PendingMessage(n))
	}
	return n
}

// CheckDeadlines escalates and persists priorities, triggers a refresh,
// then warns about approaching deadlines. It returns the approaching tasks.
func (s *Scheduler) CheckDeadlines(ctx context.Context) []task.Task {
	now := s.opts.Clock()
	tasks, err := s.source.EscalatePriorities(ctx, now)
	if err != nil {
		s.opts.Logger.Error("escalation failed", "err", err)
		return nil
	}
	if s.opts.OnRefresh != nil {
		s.opts.OnRefresh(tasks)
	}

	approaching := deadline.FindApproaching(tasks, now)
	if len(approaching) > 0 {
		s.sender.Notify(ctx, ApproachingMessage(len(approaching)))
	}
	return approaching
}

func PendingMessage(n int) string {
	return fmt.Sprintf("You have %d unfinished %s!", n, plural(n))
}

func ApproachingMessage(n int) string {
	return fmt.Sprintf("%d %s due within the hour!", n, plural(n))
}

func plural(n int) string {
	if n == 1 {
		return "task"
	}
	return "tasks"
}

// ParsePermission maps a configured notification mode to a starting
// permission: ask, granted, denied or off.
func ParsePermission(mode string) (Permission, error) {
	switch mode {
	case "ask":
		return PermissionUndetermined, nil
	case "granted":
		return PermissionGranted, nil
	case "denied":
		return PermissionDenied, nil
	case "off":
		return PermissionUnsupported, nil
	default:
		return PermissionUnsupported, fmt.Errorf("unknown notification mode %q", mode)
	}
}
