package ui

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"duely/internal/reminder"
)

// teaNotifier shows notifications as a banner inside the running program and
// asks for permission with a y/n prompt.
type teaNotifier struct {
	mu   sync.Mutex
	perm reminder.Permission
	send func(tea.Msg)
}

func newTeaNotifier(perm reminder.Permission, send func(tea.Msg)) *teaNotifier {
	return &teaNotifier{perm: perm, send: send}
}

func (n *teaNotifier) Permission() reminder.Permission {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.perm
}

func (n *teaNotifier) RequestPermission(ctx context.Context) <-chan reminder.Permission {
	out := make(chan reminder.Permission, 1)
	reply := make(chan reminder.Permission, 1)

	go func() {
		defer close(out)
		n.send(permissionRequestMsg{reply: reply})

		select {
		case p := <-reply:
			n.setPermission(p)
			out <- p
		case <-ctx.Done():
		}
	}()
	return out
}

func (n *teaNotifier) Show(title, body string) {
	n.send(notificationMsg{title: title, body: body})
}

func (n *teaNotifier) setPermission(p reminder.Permission) {
	n.mu.Lock()
	n.perm = p
	n.mu.Unlock()
}
