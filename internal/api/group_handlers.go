package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"
	"github.com/listenupapp/staff-directory/internal/http/response"
	"github.com/listenupapp/staff-directory/internal/service"
)

func (s *Server) registerGroupRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getGroup",
		Method:      http.MethodGet,
		Path:        groupsPrefix + "/{title}",
		Summary:     "View org group",
		Description: "Lists the visible members of a division or office. Divisions include their offices.",
		Tags:        []string{"Groups"},
	}, s.handleViewGroup)

	huma.Register(s.api, huma.Operation{
		OperationID: "getGroupEmails",
		Method:      http.MethodGet,
		Path:        groupsPrefix + "/{title}/emails",
		Summary:     "Org group email list",
		Description: "Addresses of active members joined with \"; \"",
		Tags:        []string{"Groups"},
	}, s.handleGroupEmails)

	s.router.Get(groupsPrefix+"/{title}/tags/*", s.handleGroupTagPath)
}

// === DTOs ===

// GroupInput names an org group.
type GroupInput struct {
	Title string `path:"title" doc:"Group title"`
}

// GroupOutput wraps an org group page for Huma.
type GroupOutput struct {
	Body *service.OrgGroupView
}

// TextOutput is a plain-text body, written without the envelope.
type TextOutput struct {
	ContentType string `header:"Content-Type"`
	Body        []byte
}

// === Handlers ===

func (s *Server) handleViewGroup(ctx context.Context, input *GroupInput) (*GroupOutput, error) {
	view, err := s.services.Directory.ViewOrgGroup(ctx, input.Title, "")
	if err != nil {
		return nil, err
	}
	return &GroupOutput{Body: view}, nil
}

func (s *Server) handleGroupEmails(ctx context.Context, input *GroupInput) (*TextOutput, error) {
	list, err := s.services.Directory.GroupEmails(ctx, input.Title)
	if err != nil {
		return nil, err
	}
	return &TextOutput{ContentType: contentTypeText, Body: []byte(list)}, nil
}

// handleGroupTagPath serves /groups/{title}/tags/{a}/{b}/...
func (s *Server) handleGroupTagPath(w http.ResponseWriter, r *http.Request) {
	path := strings.Trim(chi.URLParam(r, "*"), "/")

	view, err := s.services.Directory.ViewOrgGroup(r.Context(), chi.URLParam(r, "title"), path)
	if err != nil {
		response.Error(w, err, s.logger)
		return
	}
	response.OK(w, view, s.logger)
}
