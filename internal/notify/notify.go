// Package notify delivers user-facing reminder notifications.
package notify

import (
	"context"
	"errors"
)

// ErrUnavailable is returned by notifiers that cannot deliver on this host.
var ErrUnavailable = errors.New("notifications unavailable")

// Notifier displays a notification to the user.
type Notifier interface {
	// Available reports whether Notify can deliver at all. Callers skip
	// dispatch when it is false.
	Available() bool
	Notify(ctx context.Context, title, body string) error
}

// Nop stands in where notifications are unsupported or not permitted.
type Nop struct{}

func (Nop) Available() bool { return false }

func (Nop) Notify(context.Context, string, string) error { return ErrUnavailable }

// Multi fans a notification out to every available notifier.
type Multi []Notifier

// Available reports whether at least one notifier can deliver.
func (m Multi) Available() bool {
	for _, n := range m {
		if n.Available() {
			return true
		}
	}
	return false
}

// Notify delivers to all available notifiers and joins their errors.
func (m Multi) Notify(ctx context.Context, title, body string) error {
	var errs []error
	for _, n := range m {
		if !n.Available() {
			continue
		}
		if err := n.Notify(ctx, title, body); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
