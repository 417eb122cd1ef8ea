// Package store defines the persistence interface for the staff directory.
package store

import (
	"context"
	"time"

	"github.com/listenupapp/staff-directory/internal/domain"
)

// Store defines every persistence operation the services use.
type Store interface {
	Close() error

	// Accounts
	CreateAccount(ctx context.Context, a *domain.Account) error
	GetAccount(ctx context.Context, id string) (*domain.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*domain.Account, error)
	DeleteAccount(ctx context.Context, id string) error

	// People
	CreatePerson(ctx context.Context, p *domain.Person) error
	UpdatePerson(ctx context.Context, p *domain.Person) error
	GetPersonByStub(ctx context.Context, stub string) (*domain.Person, error)
	GetPersonByAccount(ctx context.Context, accountID string) (*domain.Person, error)
	GetPersonByEmail(ctx context.Context, email string) (*domain.Person, error)
	ListPeople(ctx context.Context, q PeopleQuery) ([]*domain.Person, error)

	// Org groups
	CreateOrgGroup(ctx context.Context, g *domain.OrgGroup) error
	GetOrgGroupByTitle(ctx context.Context, title string) (*domain.OrgGroup, error)
	ListOrgGroups(ctx context.Context) ([]*domain.OrgGroup, error)
	ListChildGroupIDs(ctx context.Context, parentID string) ([]string, error)

	// Tags
	GetTagBySlug(ctx context.Context, slug string) (*domain.Tag, error)
	GetTagsBySlugs(ctx context.Context, slugs []string) ([]*domain.Tag, error)
	FindOrCreateTag(ctx context.Context, name string) (*domain.Tag, bool, error)
	PopularTags(ctx context.Context, minCount int) ([]domain.TagCount, error)

	// Tagged items
	AddTaggedItem(ctx context.Context, item *domain.TaggedItem) (*domain.TaggedItem, bool, error)
	FindTaggedItemByTagName(ctx context.Context, objectID string, category domain.TagCategory, name string) (*domain.TaggedItem, *domain.Tag, error)
	GetTaggedItem(ctx context.Context, objectID, tagID string, category domain.TagCategory) (*domain.TaggedItem, error)
	DeleteTaggedItem(ctx context.Context, id string) error
	ObjectIDsForTag(ctx context.Context, tagID string) ([]string, error)
	TagCountsForObjects(ctx context.Context, objectIDs []string, categories []domain.TagCategory) ([]domain.TagCount, error)
	ProfileTagRows(ctx context.Context, objectID string, category domain.TagCategory) ([]ProfileTagRow, error)
	TagNamesForObject(ctx context.Context, objectID string) ([]string, error)

	// Praise
	CreatePraise(ctx context.Context, p *domain.Praise) error
	CountPraise(ctx context.Context) (int, error)
	ListPraise(ctx context.Context, offset, limit int) ([]*domain.Praise, error)
	ListPraiseForRecipient(ctx context.Context, personID string, limit int) ([]*domain.Praise, error)

	// GetDirectoryCheckpoint returns the time of the latest profile, tag or
	// thanks change.
	GetDirectoryCheckpoint(ctx context.Context) (time.Time, error)
}

// PeopleQuery filters ListPeople. Zero value lists every profile.
type PeopleQuery struct {
	// IDs restricts to these person IDs when non-nil. An empty non-nil
	// slice matches nothing.
	IDs []string
	// OrgGroupIDs restricts to members of these groups when non-empty.
	OrgGroupIDs []string
	// ActiveOnly drops people whose account is inactive.
	ActiveOnly bool
	// VisibleOnly drops hidden profiles and inactive accounts.
	VisibleOnly bool
	// RecentFirst orders by updated_at desc instead of last, first name.
	RecentFirst bool
	Limit       int
}

// ProfileTagRow is one association on a profile joined with its tag and
// the creator account, when it still resolves.
type ProfileTagRow struct {
	Item           domain.TaggedItem
	Tag            domain.Tag
	CreatorName    string
	CreatorPresent bool
}
