package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/staff-directory/internal/domain"
	"github.com/listenupapp/staff-directory/internal/service"
)

func TestAddTag_Success(t *testing.T) {
	ts := setupTestServer(t)
	ada := ts.person(t, "ada", "lovelace")
	alan := ts.person(t, "alan", "turing")

	resp := ts.api.Post("/api/v1/people/ada-lovelace/tags", ts.bearer(t, alan), AddTagRequest{
		Category: "my-expertise",
		Tag:      "Analytical Engines",
	})

	require.Equal(t, http.StatusOK, resp.Code)
	env := decodeEnvelope[TagMutationResponse](t, resp)
	assert.True(t, env.Success)
	assert.True(t, env.Data.OK)
	assert.True(t, env.Data.Created)
	assert.Equal(t, "/api/v1/people/"+ada.Stub, env.Data.Redirect)
	require.NotNil(t, env.Data.Tag)
	assert.Equal(t, "analytical-engines", env.Data.Tag.Slug)
	assert.Nil(t, env.Data.Error)
}

func TestAddTag_SecondAddIsNoop(t *testing.T) {
	ts := setupTestServer(t)
	ts.person(t, "ada", "lovelace")
	alan := ts.person(t, "alan", "turing")

	first := ts.api.Post("/api/v1/people/ada-lovelace/tags", ts.bearer(t, alan), AddTagRequest{Category: "my-expertise", Tag: "Math"})
	require.Equal(t, http.StatusOK, first.Code)

	second := ts.api.Post("/api/v1/people/ada-lovelace/tags", ts.bearer(t, alan), AddTagRequest{Category: "my-expertise", Tag: "MATH"})
	require.Equal(t, http.StatusOK, second.Code)

	env := decodeEnvelope[TagMutationResponse](t, second)
	assert.True(t, env.Data.OK)
	assert.False(t, env.Data.Created)
	assert.Equal(t, "Math", env.Data.Tag.Name)
}

func TestAddTag_InlineFailures(t *testing.T) {
	ts := setupTestServer(t)
	ts.person(t, "ada", "lovelace")
	ts.person(t, "grace", "hopper", noTagging)
	alan := ts.person(t, "alan", "turing")

	tests := []struct {
		name    string
		stub    string
		req     AddTagRequest
		code    string
		message string
	}{
		{"blank tag", "ada-lovelace", AddTagRequest{Category: "my-expertise", Tag: "   "}, "VALIDATION", "Please enter a tag that is not blank."},
		{"unknown category", "ada-lovelace", AddTagRequest{Category: "hobbies", Tag: "Chess"}, "VALIDATION", "Please choose a valid tag category."},
		{"tagging disabled", "grace-hopper", AddTagRequest{Category: "my-expertise", Tag: "COBOL"}, "FORBIDDEN", "grace hopper has chosen not to allow tagging."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.api.Post("/api/v1/people/"+tt.stub+"/tags", ts.bearer(t, alan), tt.req)

			require.Equal(t, http.StatusOK, resp.Code)
			env := decodeEnvelope[TagMutationResponse](t, resp)
			assert.True(t, env.Success)
			assert.False(t, env.Data.OK)
			require.NotNil(t, env.Data.Error)
			assert.Equal(t, tt.code, env.Data.Error.Code)
			assert.Equal(t, tt.message, env.Data.Error.Message)
		})
	}
}

func TestAddTag_OwnerMayTagWhenTaggingDisabled(t *testing.T) {
	ts := setupTestServer(t)
	grace := ts.person(t, "grace", "hopper", noTagging)

	resp := ts.api.Post("/api/v1/people/grace-hopper/tags", ts.bearer(t, grace), AddTagRequest{Category: "my-projects", Tag: "COBOL"})

	require.Equal(t, http.StatusOK, resp.Code)
	assert.True(t, decodeEnvelope[TagMutationResponse](t, resp).Data.OK)
}

func TestAddTag_RequiresAuth(t *testing.T) {
	ts := setupTestServer(t)
	ts.person(t, "ada", "lovelace")

	resp := ts.api.Post("/api/v1/people/ada-lovelace/tags", AddTagRequest{Category: "my-expertise", Tag: "Math"})

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	env := decodeEnvelope[any](t, resp)
	assert.False(t, env.Success)
	assert.Equal(t, "UNAUTHORIZED", env.Error.Code)
}

func TestAddTag_InvalidTokenIsAnonymous(t *testing.T) {
	ts := setupTestServer(t)
	ts.person(t, "ada", "lovelace")

	resp := ts.api.Post("/api/v1/people/ada-lovelace/tags", "Authorization: Bearer v4.local.bogus",
		AddTagRequest{Category: "my-expertise", Tag: "Math"})

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestAddTag_UnknownProfile(t *testing.T) {
	ts := setupTestServer(t)
	alan := ts.person(t, "alan", "turing")

	resp := ts.api.Post("/api/v1/people/nobody/tags", ts.bearer(t, alan), AddTagRequest{Category: "my-expertise", Tag: "Math"})

	require.Equal(t, http.StatusOK, resp.Code)
	env := decodeEnvelope[TagMutationResponse](t, resp)
	assert.True(t, env.Success)
	assert.False(t, env.Data.OK)
	require.NotNil(t, env.Data.Error)
	assert.Equal(t, "NOT_FOUND", env.Data.Error.Code)
	assert.Equal(t, "Person not found.", env.Data.Error.Message)
}

func TestAddTag_MissingTagField(t *testing.T) {
	ts := setupTestServer(t)
	ada := ts.person(t, "ada", "lovelace")

	resp := ts.api.Post("/api/v1/people/ada-lovelace/tags", ts.bearer(t, ada),
		map[string]any{"category": "my-expertise"})

	require.Equal(t, http.StatusOK, resp.Code)
	env := decodeEnvelope[TagMutationResponse](t, resp)
	assert.False(t, env.Data.OK)
	require.NotNil(t, env.Data.Error)
	assert.Equal(t, "VALIDATION", env.Data.Error.Code)
	assert.Equal(t, "Please enter a tag that is not blank.", env.Data.Error.Message)
}

func TestAddTag_EmptyBody(t *testing.T) {
	ts := setupTestServer(t)
	ada := ts.person(t, "ada", "lovelace")

	resp := ts.api.Post("/api/v1/people/ada-lovelace/tags", ts.bearer(t, ada), map[string]any{})

	require.Equal(t, http.StatusOK, resp.Code)
	env := decodeEnvelope[TagMutationResponse](t, resp)
	require.NotNil(t, env.Data.Error)
	assert.Equal(t, "VALIDATION", env.Data.Error.Code)
}

func TestRemoveTag_DeleteAndPost(t *testing.T) {
	ts := setupTestServer(t)
	ada := ts.person(t, "ada", "lovelace")
	alan := ts.person(t, "alan", "turing")
	ts.tag(t, alan, ada, domain.CategoryExpertise, "Math")
	ts.tag(t, alan, ada, domain.CategoryExpertise, "Poetry")

	del := ts.api.Delete("/api/v1/people/ada-lovelace/tags/my-expertise/math", ts.bearer(t, alan))
	require.Equal(t, http.StatusOK, del.Code)
	env := decodeEnvelope[TagMutationResponse](t, del)
	assert.True(t, env.Data.OK)
	assert.Equal(t, "/api/v1/people/ada-lovelace", env.Data.Redirect)

	post := ts.api.Post("/api/v1/people/ada-lovelace/tags/my-expertise/poetry", ts.bearer(t, ada))
	require.Equal(t, http.StatusOK, post.Code)
	assert.True(t, decodeEnvelope[TagMutationResponse](t, post).Data.OK)

	list := ts.api.Get("/api/v1/people/ada-lovelace/tags/my-expertise")
	require.Equal(t, http.StatusOK, list.Code)
	assert.Empty(t, decodeEnvelope[service.CategoryTags](t, list).Data.Tags)
}

func TestRemoveTag_MissingIsNotFound(t *testing.T) {
	ts := setupTestServer(t)
	ada := ts.person(t, "ada", "lovelace")
	alan := ts.person(t, "alan", "turing")
	ts.tag(t, alan, ada, domain.CategoryExpertise, "Math")

	tests := []struct {
		name string
		path string
	}{
		{"unknown tag", "/api/v1/people/ada-lovelace/tags/my-expertise/cobol"},
		{"wrong category", "/api/v1/people/ada-lovelace/tags/my-projects/math"},
		{"unknown category", "/api/v1/people/ada-lovelace/tags/hobbies/math"},
		{"unknown profile", "/api/v1/people/nobody/tags/my-expertise/math"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.api.Delete(tt.path, ts.bearer(t, alan))
			assert.Equal(t, http.StatusNotFound, resp.Code)
		})
	}

	// Nothing was removed along the way.
	list := ts.api.Get("/api/v1/people/ada-lovelace/tags/my-expertise")
	assert.Len(t, decodeEnvelope[service.CategoryTags](t, list).Data.Tags, 1)
}

func TestRemoveTag_ForbiddenIsInline(t *testing.T) {
	ts := setupTestServer(t)
	ada := ts.person(t, "ada", "lovelace")
	alan := ts.person(t, "alan", "turing")
	grace := ts.person(t, "grace", "hopper")
	ts.tag(t, alan, ada, domain.CategoryExpertise, "Math")

	resp := ts.api.Delete("/api/v1/people/ada-lovelace/tags/my-expertise/math", ts.bearer(t, grace))

	require.Equal(t, http.StatusOK, resp.Code)
	env := decodeEnvelope[TagMutationResponse](t, resp)
	assert.False(t, env.Data.OK)
	assert.Equal(t, "FORBIDDEN", env.Data.Error.Code)
}

func TestCategoryTags_CanRemoveFollowsViewer(t *testing.T) {
	ts := setupTestServer(t)
	ada := ts.person(t, "ada", "lovelace")
	alan := ts.person(t, "alan", "turing")
	grace := ts.person(t, "grace", "hopper")
	ts.tag(t, alan, ada, domain.CategoryProjects, "Engine")

	asCreator := decodeEnvelope[service.CategoryTags](t, ts.api.Get("/api/v1/people/ada-lovelace/tags/my-projects", ts.bearer(t, alan)))
	require.Len(t, asCreator.Data.Tags, 1)
	assert.True(t, asCreator.Data.Tags[0].CanRemove)
	assert.Equal(t, "alan turing", asCreator.Data.Tags[0].Taggers)

	asOther := decodeEnvelope[service.CategoryTags](t, ts.api.Get("/api/v1/people/ada-lovelace/tags/my-projects", ts.bearer(t, grace)))
	assert.False(t, asOther.Data.Tags[0].CanRemove)

	anon := decodeEnvelope[service.CategoryTags](t, ts.api.Get("/api/v1/people/ada-lovelace/tags/my-projects"))
	assert.False(t, anon.Data.Tags[0].CanRemove)
}

func TestQuickAdd_RedirectsToTagPage(t *testing.T) {
	ts := setupTestServer(t)
	ada := ts.person(t, "ada", "lovelace")
	alan := ts.person(t, "alan", "turing")
	ts.tag(t, ada, ada, domain.CategoryExpertise, "Go")

	resp := ts.api.Post("/api/v1/tags/go/people", ts.bearer(t, ada), QuickAddRequest{Stub: alan.Stub})

	require.Equal(t, http.StatusOK, resp.Code)
	env := decodeEnvelope[TagMutationResponse](t, resp)
	assert.True(t, env.Data.OK)
	assert.True(t, env.Data.Created)
	assert.Equal(t, "/api/v1/tags/go", env.Data.Redirect)

	list := decodeEnvelope[service.CategoryTags](t, ts.api.Get("/api/v1/people/alan-turing/tags/other-things"))
	require.Len(t, list.Data.Tags, 1)
	assert.Equal(t, "go", list.Data.Tags[0].Slug)
}

func TestQuickAdd_UnknownTag(t *testing.T) {
	ts := setupTestServer(t)
	ada := ts.person(t, "ada", "lovelace")

	resp := ts.api.Post("/api/v1/tags/nope/people", ts.bearer(t, ada), QuickAddRequest{Stub: ada.Stub})

	require.Equal(t, http.StatusOK, resp.Code)
	env := decodeEnvelope[TagMutationResponse](t, resp)
	assert.False(t, env.Data.OK)
	require.NotNil(t, env.Data.Error)
	assert.Equal(t, "NOT_FOUND", env.Data.Error.Code)
	assert.Equal(t, "Tag not found.", env.Data.Error.Message)
}

func TestQuickAdd_MissingStub(t *testing.T) {
	ts := setupTestServer(t)
	ada := ts.person(t, "ada", "lovelace")
	ts.tag(t, ada, ada, domain.CategoryExpertise, "Go")

	resp := ts.api.Post("/api/v1/tags/go/people", ts.bearer(t, ada), map[string]any{})

	require.Equal(t, http.StatusOK, resp.Code)
	env := decodeEnvelope[TagMutationResponse](t, resp)
	assert.False(t, env.Data.OK)
	require.NotNil(t, env.Data.Error)
	assert.Equal(t, "NOT_FOUND", env.Data.Error.Code)
	assert.Equal(t, "Person not found.", env.Data.Error.Message)
}

func seedFilterPeople(t *testing.T, ts *testServer) {
	t.Helper()
	ada := ts.person(t, "ada", "lovelace")
	alan := ts.person(t, "alan", "turing")
	grace := ts.person(t, "grace", "hopper")
	linus := ts.person(t, "linus", "torvalds", hidden)

	ts.tag(t, ada, ada, domain.CategoryExpertise, "Go")
	ts.tag(t, ada, ada, domain.CategoryExpertise, "Rust")
	ts.tag(t, ada, ada, domain.CategoryProjects, "Math")
	ts.tag(t, alan, alan, domain.CategoryExpertise, "Go")
	ts.tag(t, alan, alan, domain.CategoryOtherThings, "Math")
	ts.tag(t, grace, grace, domain.CategoryExpertise, "Go")
	ts.tag(t, grace, grace, domain.CategoryExpertise, "COBOL")
	ts.tag(t, linus, linus, domain.CategoryExpertise, "Go")
	ts.tag(t, linus, linus, domain.CategoryExpertise, "Rust")
}

func TestTagFilter_Intersection(t *testing.T) {
	ts := setupTestServer(t)
	seedFilterPeople(t, ts)

	resp := ts.api.Get("/api/v1/tags/go/math")

	require.Equal(t, http.StatusOK, resp.Code)
	env := decodeEnvelope[service.TagFilterResult](t, resp)
	assert.True(t, env.Success)
	assert.Equal(t, "go/math", env.Data.Path)
	assert.Equal(t, "Go + Math", env.Data.Title)

	var stubs []string
	for _, p := range env.Data.People {
		stubs = append(stubs, p.Stub)
	}
	assert.ElementsMatch(t, []string{"ada-lovelace", "alan-turing"}, stubs)

	require.Len(t, env.Data.Selected, 2)
	assert.Equal(t, "math", env.Data.Selected[0].RemovePath)
	assert.Equal(t, "go", env.Data.Selected[1].RemovePath)
}

func TestTagFilter_HiddenProfilesExcluded(t *testing.T) {
	ts := setupTestServer(t)
	seedFilterPeople(t, ts)

	env := decodeEnvelope[service.TagFilterResult](t, ts.api.Get("/api/v1/tags/rust"))

	require.Len(t, env.Data.People, 1)
	assert.Equal(t, "ada-lovelace", env.Data.People[0].Stub)
	require.NotNil(t, env.Data.SingleTag)
	assert.Equal(t, "rust", env.Data.SingleTag.Slug)
}

func TestTagFilter_NoFilterRedirects(t *testing.T) {
	ts := setupTestServer(t)
	seedFilterPeople(t, ts)

	for _, path := range []string{"/api/v1/tags/", "/api/v1/tags/nope", "/api/v1/tags/nope/missing"} {
		t.Run(path, func(t *testing.T) {
			resp := ts.api.Get(path)
			assert.Equal(t, http.StatusFound, resp.Code)
			assert.Equal(t, "/api/v1/people", resp.Header().Get("Location"))
		})
	}
}

func TestTagFilter_UnknownSlugsDropped(t *testing.T) {
	ts := setupTestServer(t)
	seedFilterPeople(t, ts)

	env := decodeEnvelope[service.TagFilterResult](t, ts.api.Get("/api/v1/tags/go/nope"))

	assert.Equal(t, "go", env.Data.Path)
	assert.Len(t, env.Data.People, 3)
}

func TestTagFilter_ExportEmails(t *testing.T) {
	ts := setupTestServer(t)
	seedFilterPeople(t, ts)

	resp := ts.api.Get("/api/v1/tag-emails/go/rust")

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "text/plain; charset=utf-8", resp.Header().Get("Content-Type"))
	// Hidden profiles still receive email.
	assert.Equal(t, "ada.lovelace@example.com; linus.torvalds@example.com", resp.Body.String())
}

func TestTagFilter_ExportEmailsUnknownPath(t *testing.T) {
	ts := setupTestServer(t)
	seedFilterPeople(t, ts)

	resp := ts.api.Get("/api/v1/tag-emails/nope")

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "There are no active users with this tag.", resp.Body.String())
}

func TestTagFilter_TagNamedEmails(t *testing.T) {
	ts := setupTestServer(t)
	ada := ts.person(t, "ada", "lovelace")
	ts.tag(t, ada, ada, domain.CategoryOtherThings, "Emails")

	resp := ts.api.Get("/api/v1/tags/emails")

	require.Equal(t, http.StatusOK, resp.Code)
	env := decodeEnvelope[service.TagFilterResult](t, resp)
	assert.Equal(t, "emails", env.Data.Path)
	require.Len(t, env.Data.People, 1)
	assert.Equal(t, "ada-lovelace", env.Data.People[0].Stub)

	export := ts.api.Get("/api/v1/tag-emails/emails")
	require.Equal(t, http.StatusOK, export.Code)
	assert.Equal(t, "ada.lovelace@example.com", export.Body.String())
}
