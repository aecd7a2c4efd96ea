// Package notify is the outbound notification boundary: fire-and-forget
// (title, description, severity) triples. Nothing in the core reads a result
// back from it.
package notify

import (
	"context"

	"github.com/craftline/orderdesk/internal/logging"
)

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

type Notifier interface {
	Notify(ctx context.Context, title, description string, severity Severity)
}

// LogNotifier writes notifications to the structured log. The UI toast
// channel of the source app maps onto this in a headless deployment.
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, title, description string, severity Severity) {
	l := logging.FromContext(ctx).With("title", title, "severity", string(severity))
	switch severity {
	case SeverityError:
		l.Error("notification", "description", description)
	default:
		l.Info("notification", "description", description)
	}
}

// Fanout delivers every notification to all wrapped notifiers.
type Fanout []Notifier

func (f Fanout) Notify(ctx context.Context, title, description string, severity Severity) {
	for _, n := range f {
		n.Notify(ctx, title, description, severity)
	}
}
