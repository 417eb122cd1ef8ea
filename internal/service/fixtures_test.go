package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/listenupapp/staff-directory/internal/cache"
	"github.com/listenupapp/staff-directory/internal/domain"
	"github.com/listenupapp/staff-directory/internal/id"
	"github.com/listenupapp/staff-directory/internal/logger"
	"github.com/listenupapp/staff-directory/internal/notify"
	"github.com/listenupapp/staff-directory/internal/search"
	"github.com/listenupapp/staff-directory/internal/store/sqlite"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu   sync.Mutex
	sent []notify.Notification
}

func (r *recordingNotifier) Notify(_ context.Context, n notify.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
}

func (r *recordingNotifier) all() []notify.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notify.Notification(nil), r.sent...)
}

type recordingCache struct {
	mu      sync.Mutex
	deleted []string
	expired []string
}

func (r *recordingCache) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deleted = append(r.deleted, key)
	return nil
}

func (r *recordingCache) ExpireGroup(_ context.Context, group string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.expired = append(r.expired, group)
	return nil
}

func (r *recordingCache) calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.deleted) + len(r.expired)
}

type recordingIndexer struct {
	mu      sync.Mutex
	indexed map[string]*search.PersonDocument
	deleted []string
}

func (r *recordingIndexer) IndexPerson(_ context.Context, doc *search.PersonDocument) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.indexed == nil {
		r.indexed = make(map[string]*search.PersonDocument)
	}
	r.indexed[doc.ID] = doc
	return nil
}

func (r *recordingIndexer) DeletePerson(_ context.Context, personID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deleted = append(r.deleted, personID)
	return nil
}

type recordingMetrics struct {
	mu      sync.Mutex
	added   int
	removed int
	praised int
	filters []int
}

func (r *recordingMetrics) TagAdded(string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.added++
}

func (r *recordingMetrics) TagRemoved(string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removed++
}

func (r *recordingMetrics) PraiseSubmitted(string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.praised++
}

func (r *recordingMetrics) TagFilterServed(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.filters = append(r.filters, n)
}

// fixture wires every service to one SQLite store and recording ports.
type fixture struct {
	store    *sqlite.Store
	cache    cache.Cache
	notifier *recordingNotifier
	invalid  *recordingCache
	indexer  *recordingIndexer
	metrics  *recordingMetrics

	tags      *TagService
	praise    *PraiseService
	filter    *TagFilterService
	directory *DirectoryService
	lookup    *LookupService
	profiles  *ProfileService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := logger.Discard()

	st, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), log)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	c, err := cache.NewBadger(log)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	f := &fixture{
		store:    st,
		cache:    c,
		notifier: &recordingNotifier{},
		invalid:  &recordingCache{},
		indexer:  &recordingIndexer{},
		metrics:  &recordingMetrics{},
	}

	opts := DefaultDirectoryOptions()
	opts.PopularTagMinCount = 2

	f.tags = NewTagService(st, f.invalid, f.indexer, f.notifier, f.metrics, log)
	f.praise = NewPraiseService(st, f.invalid, f.notifier, f.metrics, 10, 15, log)
	f.filter = NewTagFilterService(st, cache.NewNoop(), f.metrics, DefaultRelatedTagLimit, time.Minute, log)
	f.directory = NewDirectoryService(st, cache.NewNoop(), opts, log)
	f.lookup = NewLookupService(st, log)
	f.profiles = NewProfileService(st, f.invalid, f.indexer, log)
	return f
}

// person creates an active account with a visible, taggable profile.
func (f *fixture) person(t *testing.T, first, last string, opts ...func(*domain.Person)) *domain.Person {
	t.Helper()
	return f.personFor(t, f.account(t, first, last), opts...)
}

// inactivePerson creates a profile whose account is deactivated.
func (f *fixture) inactivePerson(t *testing.T, first, last string, opts ...func(*domain.Person)) *domain.Person {
	t.Helper()
	acct := &domain.Account{
		ID:        id.MustGenerate(id.PrefixAccount),
		Email:     first + "." + last + "@example.com",
		FirstName: first,
		LastName:  last,
	}
	require.NoError(t, f.store.CreateAccount(context.Background(), acct))
	return f.personFor(t, acct, opts...)
}

func (f *fixture) personFor(t *testing.T, acct *domain.Account, opts ...func(*domain.Person)) *domain.Person {
	t.Helper()
	first, last := acct.FirstName, acct.LastName

	p := &domain.Person{
		ID:           id.MustGenerate(id.PrefixPerson),
		AccountID:    acct.ID,
		Stub:         first + "-" + last,
		AllowTagging: true,
		UpdatedAt:    time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(p)
	}
	require.NoError(t, f.store.CreatePerson(context.Background(), p))
	p.Account = acct
	return p
}

// account creates an active account with no profile.
func (f *fixture) account(t *testing.T, first, last string) *domain.Account {
	t.Helper()
	acct := &domain.Account{
		ID:        id.MustGenerate(id.PrefixAccount),
		Email:     first + "." + last + "@example.com",
		FirstName: first,
		LastName:  last,
		IsActive:  true,
	}
	require.NoError(t, f.store.CreateAccount(context.Background(), acct))
	return acct
}

// tag adds name to p as actor, failing the test on error.
func (f *fixture) tag(t *testing.T, actor string, p *domain.Person, category domain.TagCategory, name string) *AddTagResult {
	t.Helper()
	res, err := f.tags.AddTag(context.Background(), actor, AddTagInput{
		Stub:     p.Stub,
		Category: string(category),
		Tag:      name,
	})
	require.NoError(t, err)
	return res
}

func (f *fixture) group(t *testing.T, title, parentID string) *domain.OrgGroup {
	t.Helper()
	g := &domain.OrgGroup{ID: id.MustGenerate(id.PrefixOrgGroup), Title: title, ParentID: parentID}
	require.NoError(t, f.store.CreateOrgGroup(context.Background(), g))
	return g
}

func hidden(p *domain.Person)    { p.HideProfile = true }
func noTagging(p *domain.Person) { p.AllowTagging = false }

func inGroup(g *domain.OrgGroup) func(*domain.Person) {
	return func(p *domain.Person) { p.OrgGroupID = g.ID }
}

func stubsOf(people []*domain.Person) []string {
	out := make([]string, len(people))
	for i, p := range people {
		out[i] = p.Stub
	}
	return out
}
