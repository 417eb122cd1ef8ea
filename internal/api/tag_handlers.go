package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"
	"github.com/listenupapp/staff-directory/internal/domain"
	domainerrors "github.com/listenupapp/staff-directory/internal/errors"
	"github.com/listenupapp/staff-directory/internal/http/response"
	"github.com/listenupapp/staff-directory/internal/service"
)

func (s *Server) registerTagRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "addPersonTag",
		Method:      http.MethodPost,
		Path:        peoplePrefix + "/{stub}/tags",
		Summary:     "Tag a profile",
		Description: "Adds a tag to a profile category. Adding a tag the profile already carries is a no-op. " +
			"Validation, permission and not-found failures are reported inline with success=true and ok=false.",
		Tags:     []string{"Tags"},
		Security: []map[string][]string{{"bearer": {}}},
	}, s.handleAddTag)

	huma.Register(s.api, huma.Operation{
		OperationID: "getPersonCategoryTags",
		Method:      http.MethodGet,
		Path:        peoplePrefix + "/{stub}/tags/{category}",
		Summary:     "List profile tags in a category",
		Description: "Returns one category of a profile's tags with removal rights for the viewer",
		Tags:        []string{"Tags"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCategoryTags)

	for _, method := range []string{http.MethodDelete, http.MethodPost} {
		opID := "removePersonTag"
		if method == http.MethodPost {
			opID = "removePersonTagPost"
		}
		huma.Register(s.api, huma.Operation{
			OperationID: opID,
			Method:      method,
			Path:        peoplePrefix + "/{stub}/tags/{category}/{tag}",
			Summary:     "Remove a tag from a profile",
			Description: "Removes one tag association. Allowed for the profile owner and the person who added the tag.",
			Tags:        []string{"Tags"},
			Security:    []map[string][]string{{"bearer": {}}},
		}, s.handleRemoveTag)
	}

	huma.Register(s.api, huma.Operation{
		OperationID: "quickAddTag",
		Method:      http.MethodPost,
		Path:        tagsPrefix + "/{tag}/people",
		Summary:     "Quick-add a person to a tag",
		Description: "Tags the person named by stub with an existing tag and points back at the tag page",
		Tags:        []string{"Tags"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleQuickAdd)

	// Tag paths are open-ended (/tags/go/rust/...), so they bypass huma.
	s.router.Get(tagsPrefix+"/*", s.handleTagPath)
	s.router.Get(tagEmailsPrefix+"/*", s.handleTagEmails)
}

// === DTOs ===

// TagMutationResponse reports the outcome of a tag change. OK is false when
// Error carries a validation or permission failure.
type TagMutationResponse struct {
	OK       bool           `json:"ok" doc:"Whether the change was applied or was already in place"`
	Created  bool           `json:"created" doc:"False when the tag was already present"`
	Redirect string         `json:"redirect,omitempty" doc:"Where the client should go next"`
	Tag      *domain.Tag    `json:"tag,omitempty" doc:"The tag involved"`
	Error    *MutationError `json:"error,omitempty" doc:"Inline failure"`
}

// TagMutationOutput wraps a tag mutation outcome for Huma.
type TagMutationOutput struct {
	Body TagMutationResponse
}

// AddTagRequest is the request body for tagging a profile.
type AddTagRequest struct {
	Category string `json:"category" required:"false" doc:"my-expertise, my-projects or other-things"`
	Tag      string `json:"tag" required:"false" maxLength:"100" doc:"Tag text as typed"`
}

// AddTagInput wraps the add tag request for Huma.
type AddTagInput struct {
	Authorization string `header:"Authorization"`
	Stub          string `path:"stub" doc:"Profile handle"`
	Body          AddTagRequest
}

// CategoryTagsInput addresses one tag category of a profile.
type CategoryTagsInput struct {
	Authorization string `header:"Authorization"`
	Stub          string `path:"stub" doc:"Profile handle"`
	Category      string `path:"category" doc:"Tag category"`
}

// CategoryTagsOutput wraps a profile category for Huma.
type CategoryTagsOutput struct {
	Body *service.CategoryTags
}

// RemoveTagInput addresses one tag association.
type RemoveTagInput struct {
	Authorization string `header:"Authorization"`
	Stub          string `path:"stub" doc:"Profile handle"`
	Category      string `path:"category" doc:"Tag category"`
	Tag           string `path:"tag" doc:"Tag slug"`
}

// QuickAddRequest names the person to tag.
type QuickAddRequest struct {
	Stub     string `json:"stub" required:"false" doc:"Profile handle"`
	Category string `json:"category,omitempty" doc:"Defaults to other-things"`
}

// QuickAddInput wraps the quick-add request for Huma.
type QuickAddInput struct {
	Authorization string `header:"Authorization"`
	Tag           string `path:"tag" doc:"Tag slug"`
	Body          QuickAddRequest
}

// === Handlers ===

func (s *Server) handleAddTag(ctx context.Context, input *AddTagInput) (*TagMutationOutput, error) {
	accountID, err := GetAccountID(ctx)
	if err != nil {
		return nil, err
	}

	res, err := s.services.Tags.AddTag(ctx, accountID, service.AddTagInput{
		Stub:     input.Stub,
		Category: input.Body.Category,
		Tag:      input.Body.Tag,
	})
	if err != nil {
		return mutationFailure(err, domainerrors.CodeNotFound)
	}

	return &TagMutationOutput{Body: TagMutationResponse{
		OK:       true,
		Created:  res.Created,
		Redirect: apiLink(service.ProfileLink(res.Person.Stub)),
		Tag:      res.Tag,
	}}, nil
}

func (s *Server) handleCategoryTags(ctx context.Context, input *CategoryTagsInput) (*CategoryTagsOutput, error) {
	tags, err := s.services.Tags.CategoryTagsForProfile(ctx, accountIDFrom(ctx), input.Stub, input.Category)
	if err != nil {
		return nil, err
	}
	return &CategoryTagsOutput{Body: tags}, nil
}

func (s *Server) handleRemoveTag(ctx context.Context, input *RemoveTagInput) (*TagMutationOutput, error) {
	accountID, err := GetAccountID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Tags.RemoveTag(ctx, accountID, input.Stub, input.Tag, input.Category); err != nil {
		return mutationFailure(err)
	}

	return &TagMutationOutput{Body: TagMutationResponse{
		OK:       true,
		Redirect: apiLink(service.ProfileLink(input.Stub)),
	}}, nil
}

func (s *Server) handleQuickAdd(ctx context.Context, input *QuickAddInput) (*TagMutationOutput, error) {
	accountID, err := GetAccountID(ctx)
	if err != nil {
		return nil, err
	}

	res, err := s.services.Tags.QuickAdd(ctx, accountID, input.Tag, input.Body.Stub, input.Body.Category)
	if err != nil {
		return mutationFailure(err, domainerrors.CodeNotFound)
	}

	return &TagMutationOutput{Body: TagMutationResponse{
		OK:       true,
		Created:  res.Created,
		Redirect: apiLink(service.TagLink(res.Tag.Slug)),
		Tag:      res.Tag,
	}}, nil
}

// mutationFailure reports inline failures in a 200 response and passes
// everything else to the error handler. Removal leaves NOT_FOUND as an
// HTTP error; adding reports it inline.
func mutationFailure(err error, extra ...domainerrors.Code) (*TagMutationOutput, error) {
	inline, err := inlineError(err, extra...)
	if err != nil {
		return nil, err
	}
	return &TagMutationOutput{Body: TagMutationResponse{Error: inline}}, nil
}

// handleTagPath serves /tags/{a}/{b}/... as a filter page.
func (s *Server) handleTagPath(w http.ResponseWriter, r *http.Request) {
	res, err := s.services.Filter.FilterByTags(r.Context(), chi.URLParam(r, "*"))
	if err != nil {
		response.Error(w, err, s.logger)
		return
	}
	if res.NoFilter {
		http.Redirect(w, r, peoplePrefix, http.StatusFound)
		return
	}
	response.OK(w, res, s.logger)
}

// handleTagEmails serves /tag-emails/{a}/{b}/... as a plain-text address list.
func (s *Server) handleTagEmails(w http.ResponseWriter, r *http.Request) {
	list, err := s.services.Filter.ExportTagEmails(r.Context(), chi.URLParam(r, "*"))
	if err != nil {
		response.Error(w, err, s.logger)
		return
	}
	response.Text(w, http.StatusOK, list)
}
