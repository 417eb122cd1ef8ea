package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/listenupapp/staff-directory/internal/cache"
	"github.com/listenupapp/staff-directory/internal/domain"
	domainerrors "github.com/listenupapp/staff-directory/internal/errors"
	"github.com/listenupapp/staff-directory/internal/id"
	"github.com/listenupapp/staff-directory/internal/notify"
	"github.com/listenupapp/staff-directory/internal/store"
)

// PraiseService records and lists thanks notes.
type PraiseService struct {
	store     store.Store
	cache     CacheInvalidator
	notifier  Notifier
	metrics   MetricsRecorder
	paginator store.Paginator
	logger    *slog.Logger
}

// NewPraiseService creates a new praise service. pageSize and window
// configure the ledger listing.
func NewPraiseService(
	st store.Store,
	cacheInvalidator CacheInvalidator,
	notifier Notifier,
	metrics MetricsRecorder,
	pageSize, window int,
	logger *slog.Logger,
) *PraiseService {
	if cacheInvalidator == nil {
		cacheInvalidator = cache.NewNoop()
	}
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if metrics == nil {
		metrics = NopRecorder{}
	}
	return &PraiseService{
		store:     st,
		cache:     cacheInvalidator,
		notifier:  notifier,
		metrics:   metrics,
		paginator: store.Paginator{PageSize: pageSize, WindowSize: window},
		logger:    logger,
	}
}

// SubmitPraiseInput is a thanks note addressed to a profile.
type SubmitPraiseInput struct {
	Stub   string
	Value  string
	Reason string
}

// SubmitPraiseResult reports the outcome. Praise is nil and Created false
// when the nominator thanked themselves.
type SubmitPraiseResult struct {
	Recipient *domain.Person
	Praise    *domain.Praise
	Created   bool
}

// SubmitPraise records a thanks note and notifies the recipient.
// Thanking yourself succeeds without recording anything.
func (s *PraiseService) SubmitPraise(ctx context.Context, actorID string, in SubmitPraiseInput) (*SubmitPraiseResult, error) {
	var (
		nominator *domain.Account
		recipient *domain.Person
		value     domain.PraiseValue
	)

	err := RunGuards(ctx,
		RequireAuthenticated(actorID),
		requireAccount(s.store, actorID, &nominator),
		func(context.Context) error {
			v, err := domain.ParsePraiseValue(in.Value)
			if err != nil {
				return domainerrors.Validation(msgUnknownValue).WithCause(err)
			}
			value = v
			return nil
		},
		requireNotBlank(in.Reason, msgBlankReason),
		requireProfile(s.store, in.Stub, &recipient),
	)
	if err != nil {
		return nil, err
	}

	if recipient.OwnedBy(actorID) {
		s.logger.Debug("ignoring self praise", slog.String("actor_id", actorID))
		return &SubmitPraiseResult{Recipient: recipient, Created: false}, nil
	}

	praiseID, err := id.Generate(id.PrefixPraise)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "generate praise id")
	}

	praise := &domain.Praise{
		ID:          praiseID,
		RecipientID: recipient.ID,
		NominatorID: nominator.ID,
		Value:       value,
		Reason:      strings.TrimSpace(in.Reason),
		CreatedAt:   time.Now().UTC(),
		Recipient:   recipient,
		Nominator:   nominator,
	}
	if err := s.store.CreatePraise(ctx, praise); err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "record praise")
	}

	if err := s.cache.Delete(ctx, cache.PersonKey(recipient.Stub)); err != nil {
		s.logger.Warn("failed to expire profile cache",
			slog.String("stub", recipient.Stub),
			slog.String("error", err.Error()))
	}
	s.metrics.PraiseSubmitted(string(value))

	s.notifier.Notify(ctx, notify.Notification{
		ActorID:     actorID,
		Verb:        notify.VerbThanked,
		SubjectID:   recipient.ID,
		RecipientID: recipient.AccountID,
		Title:       fmt.Sprintf("%s thanked you for %s", nominator.FullName(), value.Noun()),
		Link:        ProfileLink(recipient.Stub),
	})

	s.logger.Info("praise recorded",
		slog.String("praise_id", praise.ID),
		slog.String("recipient", recipient.Stub),
		slog.String("value", string(value)))

	return &SubmitPraiseResult{Recipient: recipient, Praise: praise, Created: true}, nil
}

// ListPraise returns one page of the ledger, newest first. rawPage is the
// unparsed page parameter; see store.Paginator.Resolve.
func (s *PraiseService) ListPraise(ctx context.Context, rawPage string) (*store.Page[*domain.Praise], error) {
	count, err := s.store.CountPraise(ctx)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "count praise")
	}

	total := s.paginator.TotalPages(count)
	page := s.paginator.Resolve(rawPage, total)

	items, err := s.store.ListPraise(ctx, s.paginator.Offset(page), s.paginator.PageSize)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "list praise")
	}

	return store.NewPage(s.paginator, items, page, count), nil
}
