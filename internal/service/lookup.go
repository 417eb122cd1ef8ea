package service

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"

	domainerrors "github.com/listenupapp/staff-directory/internal/errors"
	"github.com/listenupapp/staff-directory/internal/store"
)

// LookupService resolves an email address to a profile location.
type LookupService struct {
	store  store.Store
	logger *slog.Logger
}

// NewLookupService creates a new lookup service.
func NewLookupService(st store.Store, logger *slog.Logger) *LookupService {
	return &LookupService{store: st, logger: logger}
}

// Lookup returns the profile location for email, matched without regard to
// case. Every parameter in query except "email" is forwarded; the location
// carries no "?" when none remain.
func (s *LookupService) Lookup(ctx context.Context, email string, query url.Values) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", domainerrors.Validation(msgEmailRequired)
	}

	p, err := s.store.GetPersonByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return "", domainerrors.NotFound(msgPersonNotFound)
	}
	if err != nil {
		return "", domainerrors.Wrap(err, domainerrors.CodeInternal, "lookup person")
	}

	forward := url.Values{}
	for k, vs := range query {
		if k == "email" {
			continue
		}
		forward[k] = append([]string(nil), vs...)
	}

	location := ProfileLink(p.Stub)
	if encoded := forward.Encode(); encoded != "" {
		location += "?" + encoded
	}

	s.logger.Debug("email lookup resolved", slog.String("stub", p.Stub))
	return location, nil
}
