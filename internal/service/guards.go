package service

import (
	"context"
	"errors"
	"strings"

	"github.com/listenupapp/staff-directory/internal/domain"
	domainerrors "github.com/listenupapp/staff-directory/internal/errors"
	"github.com/listenupapp/staff-directory/internal/store"
)

// Guard checks one precondition of an operation.
type Guard func(ctx context.Context) error

// RunGuards runs guards in order and returns the first failure.
func RunGuards(ctx context.Context, guards ...Guard) error {
	for _, g := range guards {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := g(ctx); err != nil {
			return err
		}
	}
	return nil
}

// User-facing guard messages.
const (
	msgBlankTag         = "Please enter a tag that is not blank."
	msgPersonNotFound   = "Person not found."
	msgNotRegistered    = "Please create your directory profile first."
	msgTaggingDisabled  = "%s has chosen not to allow tagging."
	msgUnknownCategory  = "Please choose a valid tag category."
	msgAuthRequired     = "Authentication required."
	msgTagNotFound      = "Tag not found."
	msgTagNotOnProfile  = "That tag is not on this profile."
	msgRemoveForbidden  = "You can only remove tags you added or tags on your own profile."
	msgUnknownValue     = "Please choose one of: serve, lead, innovate."
	msgBlankReason      = "Please enter a reason for your thanks."
	msgEditForbidden    = "You can only edit your own profile."
	msgGroupNotFound    = "Group not found."
	msgEmailRequired    = "email is required."
	msgTagUnsluggable   = "Please enter a tag with at least one letter or number."
	msgAccountNotActive = "Your account is not active."
)

// RequireAuthenticated fails when no actor is present.
func RequireAuthenticated(actorID string) Guard {
	return func(context.Context) error {
		if actorID == "" {
			return domainerrors.Unauthorized(msgAuthRequired)
		}
		return nil
	}
}

// requireAccount loads the acting account into *dst.
func requireAccount(s store.Store, actorID string, dst **domain.Account) Guard {
	return func(ctx context.Context) error {
		a, err := s.GetAccount(ctx, actorID)
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.Unauthorized(msgAuthRequired)
		}
		if err != nil {
			return domainerrors.Wrap(err, domainerrors.CodeInternal, "load actor")
		}
		if !a.IsActive {
			return domainerrors.Forbidden(msgAccountNotActive)
		}
		*dst = a
		return nil
	}
}

// requireRegistered loads the actor's own profile into *dst.
func requireRegistered(s store.Store, actorID string, dst **domain.Person) Guard {
	return func(ctx context.Context) error {
		p, err := s.GetPersonByAccount(ctx, actorID)
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.Forbidden(msgNotRegistered)
		}
		if err != nil {
			return domainerrors.Wrap(err, domainerrors.CodeInternal, "load actor profile")
		}
		*dst = p
		return nil
	}
}

// requireNotBlank fails with msg when value is empty after trimming.
func requireNotBlank(value, msg string) Guard {
	return func(context.Context) error {
		if strings.TrimSpace(value) == "" {
			return domainerrors.Validation(msg)
		}
		return nil
	}
}

// requireCategory parses raw into *dst.
func requireCategory(raw string, dst *domain.TagCategory) Guard {
	return func(context.Context) error {
		c, err := domain.ParseTagCategory(strings.TrimSpace(raw))
		if err != nil {
			return domainerrors.Validation(msgUnknownCategory).WithCause(err)
		}
		*dst = c
		return nil
	}
}

// requireProfile loads the profile addressed by stub into *dst.
func requireProfile(s store.Store, stub string, dst **domain.Person) Guard {
	return func(ctx context.Context) error {
		if strings.TrimSpace(stub) == "" {
			return domainerrors.NotFound(msgPersonNotFound)
		}
		p, err := s.GetPersonByStub(ctx, stub)
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound(msgPersonNotFound)
		}
		if err != nil {
			return domainerrors.Wrap(err, domainerrors.CodeInternal, "load profile")
		}
		*dst = p
		return nil
	}
}

// requireTaggingAllowed lets the owner through even when tagging is off.
func requireTaggingAllowed(actorID string, profile **domain.Person) Guard {
	return func(context.Context) error {
		p := *profile
		if !p.TaggableBy(actorID) {
			return domainerrors.Forbiddenf(msgTaggingDisabled, p.FullName())
		}
		return nil
	}
}
