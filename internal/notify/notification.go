package notify

import (
	"context"
	"log/slog"
)

// Verbs carried by notifications.
const (
	VerbTagged   = "tagged"
	VerbUntagged = "untagged"
	VerbThanked  = "thanked"
)

// Notification is a message to a single recipient account.
type Notification struct {
	ActorID     string
	Verb        string
	SubjectID   string // person the notification is about
	RecipientID string // account that receives it
	Title       string
	Link        string
}

func eventTypeFor(verb string) EventType {
	switch verb {
	case VerbTagged:
		return EventPersonTagged
	case VerbUntagged:
		return EventPersonUntagged
	default:
		return EventPersonThanked
	}
}

// Notify delivers n to its recipient. It never blocks and never fails;
// recipients without an open stream simply miss it.
func (m *Manager) Notify(ctx context.Context, n Notification) {
	if n.RecipientID == "" {
		m.logger.WarnContext(ctx, "notification without recipient dropped", slog.String("verb", n.Verb))
		return
	}

	m.EmitToUser(n.RecipientID, NewEvent(eventTypeFor(n.Verb), NotificationData{
		ActorID:   n.ActorID,
		Verb:      n.Verb,
		SubjectID: n.SubjectID,
		Title:     n.Title,
		Link:      n.Link,
	}))
}
