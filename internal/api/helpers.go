package api

import (
	"errors"
	"slices"

	domainerrors "github.com/listenupapp/staff-directory/internal/errors"
)

// MutationError is a failed mutation reported in a successful response.
type MutationError struct {
	Code    string `json:"code" doc:"Machine-readable error code"`
	Message string `json:"message" doc:"Message to show next to the form"`
}

// inlineCodes are reported inline by every mutation.
var inlineCodes = []domainerrors.Code{domainerrors.CodeValidation, domainerrors.CodeForbidden}

// inlineError converts validation and permission failures, plus any extra
// codes, into an inline MutationError. Every other error is returned unchanged.
func inlineError(err error, extra ...domainerrors.Code) (*MutationError, error) {
	var domainErr *domainerrors.Error
	if errors.As(err, &domainErr) {
		if slices.Contains(inlineCodes, domainErr.Code) || slices.Contains(extra, domainErr.Code) {
			return &MutationError{Code: string(domainErr.Code), Message: domainErr.Message}, nil
		}
	}
	return nil, err
}

// apiLink maps a site link such as /people/ada onto the API route serving it.
func apiLink(link string) string {
	return apiPrefix + link
}
