package api

import (
	"github.com/listenupapp/staff-directory/internal/service"
)

// Services groups all business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Tags      *service.TagService
	Praise    *service.PraiseService
	Filter    *service.TagFilterService
	Directory *service.DirectoryService
	Lookup    *service.LookupService
	Profiles  *service.ProfileService
	Search    *service.SearchService // nil disables /search
}
