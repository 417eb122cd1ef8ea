package service

import (
	"context"

	"github.com/listenupapp/staff-directory/internal/notify"
	"github.com/listenupapp/staff-directory/internal/search"
)

// Notifier delivers a message to one account. Delivery is fire-and-forget.
type Notifier interface {
	Notify(ctx context.Context, n notify.Notification)
}

// CacheInvalidator drops cached reads after a committed write.
type CacheInvalidator interface {
	Delete(ctx context.Context, key string) error
	ExpireGroup(ctx context.Context, group string) error
}

// PeopleIndexer keeps the search index in step with profile changes.
type PeopleIndexer interface {
	IndexPerson(ctx context.Context, doc *search.PersonDocument) error
	DeletePerson(ctx context.Context, personID string) error
}

// MetricsRecorder counts directory activity.
type MetricsRecorder interface {
	TagAdded(category string)
	TagRemoved(category string)
	PraiseSubmitted(value string)
	TagFilterServed(selected int)
}

// NopNotifier drops every notification.
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, notify.Notification) {}

// NopIndexer ignores index updates.
type NopIndexer struct{}

func (NopIndexer) IndexPerson(context.Context, *search.PersonDocument) error { return nil }
func (NopIndexer) DeletePerson(context.Context, string) error                { return nil }

// NopRecorder discards metrics.
type NopRecorder struct{}

func (NopRecorder) TagAdded(string)        {}
func (NopRecorder) TagRemoved(string)      {}
func (NopRecorder) PraiseSubmitted(string) {}
func (NopRecorder) TagFilterServed(int)    {}
