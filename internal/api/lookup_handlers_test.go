package api

import (
	"context"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/staff-directory/internal/domain"
	"github.com/listenupapp/staff-directory/internal/id"
)

func TestLookup_RedirectsToProfile(t *testing.T) {
	ts := setupTestServer(t)
	ts.person(t, "ada", "lovelace")

	resp := ts.api.Get("/api/v1/lookup?email=ADA.Lovelace@Example.com")

	assert.Equal(t, http.StatusFound, resp.Code)
	assert.Equal(t, "/api/v1/people/ada-lovelace", resp.Header().Get("Location"))
}

func TestLookup_ForwardsOtherParams(t *testing.T) {
	ts := setupTestServer(t)
	ts.person(t, "ada", "lovelace")

	resp := ts.api.Get("/api/v1/lookup?email=ada.lovelace@example.com&draft_thanks=Nice+work&tab=thanks")

	require.Equal(t, http.StatusFound, resp.Code)
	loc, err := url.Parse(resp.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "/api/v1/people/ada-lovelace", loc.Path)
	assert.Equal(t, "Nice work", loc.Query().Get("draft_thanks"))
	assert.Equal(t, "thanks", loc.Query().Get("tab"))
	assert.False(t, loc.Query().Has("email"))
}

func TestLookup_InactiveAccountStillResolves(t *testing.T) {
	ts := setupTestServer(t)
	ctx := context.Background()

	acct := &domain.Account{
		ID:        id.MustGenerate(id.PrefixAccount),
		Email:     "old.timer@example.com",
		FirstName: "old",
		LastName:  "timer",
	}
	require.NoError(t, ts.st.CreateAccount(ctx, acct))
	require.NoError(t, ts.st.CreatePerson(ctx, &domain.Person{
		ID:        id.MustGenerate(id.PrefixPerson),
		AccountID: acct.ID,
		Stub:      "old-timer",
		UpdatedAt: time.Now().UTC(),
	}))

	resp := ts.api.Get("/api/v1/lookup?email=old.timer@example.com")

	assert.Equal(t, http.StatusFound, resp.Code)
	assert.Equal(t, "/api/v1/people/old-timer", resp.Header().Get("Location"))
}

func TestLookup_Errors(t *testing.T) {
	ts := setupTestServer(t)
	ts.person(t, "ada", "lovelace")

	tests := []struct {
		name   string
		query  string
		status int
		code   string
	}{
		{"unknown email", "?email=nobody@example.com", http.StatusNotFound, "NOT_FOUND"},
		{"blank email", "?email=%20", http.StatusBadRequest, "VALIDATION"},
		{"missing email", "", http.StatusBadRequest, "VALIDATION"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.api.Get("/api/v1/lookup" + tt.query)

			assert.Equal(t, tt.status, resp.Code)
			env := decodeEnvelope[any](t, resp)
			assert.False(t, env.Success)
			assert.Equal(t, tt.code, env.Error.Code)
		})
	}
}
