// Package reminder raises best-effort notifications about unfinished and
// near-due tasks on two periodic loops.
package reminder

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
)

// Title heads every notification.
const Title = "Task Reminder"

// QueueLimit bounds the messages held while a permission answer is pending.
// The oldest message is dropped first.
const QueueLimit = 4

// Permission is the state of the notification capability.
type Permission int

const (
	PermissionUnsupported Permission = iota
	PermissionGranted
	PermissionDenied
	PermissionUndetermined
)

func (p Permission) String() string {
	switch p {
	case PermissionGranted:
		return "granted"
	case PermissionDenied:
		return "denied"
	case PermissionUndetermined:
		return "undetermined"
	default:
		return "unsupported"
	}
}

// Notifier is a platform notification capability.
type Notifier interface {
	Permission() Permission
	// RequestPermission asks the user and delivers the answer once. The
	// channel may be closed without a value if the request is abandoned.
	RequestPermission(ctx context.Context) <-chan Permission
	Show(title, body string)
}

// Sender accepts notification bodies.
type Sender interface {
	Notify(ctx context.Context, body string)
}

// Gate delivers notifications through a [Notifier] without ever failing the
// caller. While a permission request is in flight, further messages are
// queued; they are shown if permission is granted and dropped otherwise.
type Gate struct {
	notifier Notifier

	mu         sync.Mutex
	requesting bool
	queue      []string
	logger     *log.Logger
}

// NewGate wraps n. logger may be nil.
func NewGate(n Notifier, logger *log.Logger) *Gate {
	return &Gate{notifier: n, logger: logger}
}

// Notify shows body if permission allows, asking for permission first when
// it is undetermined.
func (g *Gate) Notify(ctx context.Context, body string) {
	switch p := g.notifier.Permission(); p {
	case PermissionGranted:
		g.notifier.Show(Title, body)
	case PermissionUndetermined:
		g.mu.Lock()
		g.enqueue(body)
		if g.requesting {
			g.mu.Unlock()
			return
		}
		g.requesting = true
		g.mu.Unlock()

		answer := g.notifier.RequestPermission(ctx)
		go g.await(ctx, answer)
	default:
		g.debug("notification suppressed", "permission", p)
	}
}

// Pending returns the number of queued messages awaiting a permission answer.
func (g *Gate) Pending() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.queue)
}

// enqueue must be called with g.mu held. A body already waiting moves to
// the back instead of being queued twice.
func (g *Gate) enqueue(body string) {
	if i := slices.Index(g.queue, body); i >= 0 {
		g.queue = slices.Delete(g.queue, i, i+1)
	}
	if len(g.queue) >= QueueLimit {
		g.queue = slices.Delete(g.queue, 0, len(g.queue)-QueueLimit+1)
	}
	g.queue = append(g.queue, body)
}

func (g *Gate) await(ctx context.Context, answer <-chan Permission) {
	var p Permission
	var ok bool
	select {
	case p, ok = <-answer:
	case <-ctx.Done():
	}

	g.mu.Lock()
	queued := g.queue
	g.queue = nil
	g.requesting = false
	g.mu.Unlock()

	if !ok || p != PermissionGranted {
		g.debug("queued notifications dropped", "count", len(queued), "permission", p)
		return
	}
	for _, body := range queued {
		g.notifier.Show(Title, body)
	}
}

func (g *Gate) debug(msg string, kv ...any) {
	if g.logger != nil {
		g.logger.Debug(msg, kv...)
	}
}

// LogNotifier writes notifications to a logger. It suits headless runs,
// where there is nobody to ask for permission.
type LogNotifier struct {
	logger     *log.Logger
	permission Permission
}

// NewLogNotifier returns a LogNotifier in the given permission state.
// Undetermined is treated as granted.
func NewLogNotifier(logger *log.Logger, p Permission) *LogNotifier {
	if p == PermissionUndetermined {
		p = PermissionGranted
	}
	return &LogNotifier{logger: logger, permission: p}
}

func (n *LogNotifier) Permission() Permission {
	return n.permission
}

func (n *LogNotifier) RequestPermission(context.Context) <-chan Permission {
	ch := make(chan Permission, 1)
	ch <- PermissionGranted
	close(ch)
	return ch
}

func (n *LogNotifier) Show(title, body string) {
	n.logger.Info(fmt.Sprintf("%s: %s", title, body))
}
