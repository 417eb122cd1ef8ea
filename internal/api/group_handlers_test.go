package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/staff-directory/internal/domain"
	"github.com/listenupapp/staff-directory/internal/id"
	"github.com/listenupapp/staff-directory/internal/service"
)

// seedGroups builds Engineering > Platform with three members, one hidden.
func seedGroups(t *testing.T, ts *testServer) {
	t.Helper()
	ctx := context.Background()

	eng := &domain.OrgGroup{ID: id.MustGenerate(id.PrefixOrgGroup), Title: "Engineering"}
	require.NoError(t, ts.st.CreateOrgGroup(ctx, eng))
	platform := &domain.OrgGroup{ID: id.MustGenerate(id.PrefixOrgGroup), Title: "Platform", ParentID: eng.ID}
	require.NoError(t, ts.st.CreateOrgGroup(ctx, platform))

	inGroup := func(g *domain.OrgGroup) func(*domain.Person) {
		return func(p *domain.Person) { p.OrgGroupID = g.ID }
	}

	ada := ts.person(t, "ada", "lovelace", inGroup(eng))
	alan := ts.person(t, "alan", "turing", inGroup(platform))
	grace := ts.person(t, "grace", "hopper", inGroup(platform), hidden)
	ts.person(t, "linus", "torvalds")

	ts.tag(t, ada, ada, domain.CategoryExpertise, "Go")
	ts.tag(t, alan, alan, domain.CategoryExpertise, "Go")
	ts.tag(t, alan, alan, domain.CategoryExpertise, "Crypto")
	ts.tag(t, grace, grace, domain.CategoryExpertise, "Go")
}

func memberStubs(people []*domain.Person) []string {
	stubs := make([]string, len(people))
	for i, p := range people {
		stubs[i] = p.Stub
	}
	return stubs
}

func TestViewGroup_DivisionIncludesOffices(t *testing.T) {
	ts := setupTestServer(t)
	seedGroups(t, ts)

	resp := ts.api.Get("/api/v1/groups/Engineering")

	require.Equal(t, http.StatusOK, resp.Code)
	env := decodeEnvelope[service.OrgGroupView](t, resp)
	assert.Equal(t, "Engineering", env.Data.Group.Title)
	assert.Equal(t, []string{"ada-lovelace", "alan-turing"}, memberStubs(env.Data.People))
	assert.Empty(t, env.Data.Selected)
}

func TestViewGroup_Office(t *testing.T) {
	ts := setupTestServer(t)
	seedGroups(t, ts)

	env := decodeEnvelope[service.OrgGroupView](t, ts.api.Get("/api/v1/groups/Platform"))

	assert.Equal(t, []string{"alan-turing"}, memberStubs(env.Data.People))
	require.Len(t, env.Data.RelatedTags, 2)
}

func TestViewGroup_TagPath(t *testing.T) {
	ts := setupTestServer(t)
	seedGroups(t, ts)

	resp := ts.api.Get("/api/v1/groups/Engineering/tags/go/crypto")

	require.Equal(t, http.StatusOK, resp.Code)
	env := decodeEnvelope[service.OrgGroupView](t, resp)
	assert.Equal(t, "go/crypto", env.Data.Path)
	assert.Equal(t, []string{"alan-turing"}, memberStubs(env.Data.People))
	require.Len(t, env.Data.Selected, 2)
	assert.Equal(t, "crypto", env.Data.Selected[0].RemovePath)
}

func TestViewGroup_NotFound(t *testing.T) {
	ts := setupTestServer(t)

	for _, path := range []string{"/api/v1/groups/Nowhere", "/api/v1/groups/Nowhere/emails", "/api/v1/groups/Nowhere/tags/go"} {
		t.Run(path, func(t *testing.T) {
			resp := ts.api.Get(path)

			assert.Equal(t, http.StatusNotFound, resp.Code)
			assert.Equal(t, "Group not found.", decodeEnvelope[any](t, resp).Error.Message)
		})
	}
}

func TestGroupEmails(t *testing.T) {
	ts := setupTestServer(t)
	seedGroups(t, ts)

	resp := ts.api.Get("/api/v1/groups/Engineering/emails")

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "text/plain; charset=utf-8", resp.Header().Get("Content-Type"))
	assert.Equal(t, "grace.hopper@example.com; ada.lovelace@example.com; alan.turing@example.com", resp.Body.String())
}
