package apitest_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rapidpro/rapidpro-cli/internal/api"
	"github.com/rapidpro/rapidpro-cli/internal/api/v2"
	"github.com/rapidpro/rapidpro-cli/internal/apitest"
)

func newClient(t *testing.T, srv *apitest.Server, token string) *v2.Client {
	t.Helper()
	c, err := v2.New(api.Config{Host: srv.RootURL(), Token: token, Timeout: 5 * time.Second})
	require.NoError(t, err)
	return c
}

func seedGroups(srv *apitest.Server) {
	srv.Seed("groups",
		map[string]any{"uuid": "g1", "name": "Doctors", "query": nil, "status": "ready", "system": false, "count": 3},
		map[string]any{"uuid": "g2", "name": "Nurses", "query": nil, "status": "ready", "system": false, "count": 5},
		map[string]any{"uuid": "g3", "name": "Farmers", "query": nil, "status": "ready", "system": false, "count": 1},
	)
}

func TestServer_PaginatesWithCursor(t *testing.T) {
	srv := apitest.New(t)
	seedGroups(srv)
	c := newClient(t, srv, apitest.DefaultToken)

	groups, err := c.Groups("", "").All(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, groups, 3)
	assert.Equal(t, "Farmers", groups[2].Name)

	reqs := srv.Requests()
	require.Len(t, reqs, 2)
	assert.Empty(t, reqs[0].Query.Get("cursor"))
	assert.NotEmpty(t, reqs[1].Query.Get("cursor"))
}

func TestServer_ResumeFromCursor(t *testing.T) {
	srv := apitest.New(t)
	seedGroups(srv)
	c := newClient(t, srv, apitest.DefaultToken)
	ctx := context.Background()

	it := c.Groups("", "").IterFetches(false, "")
	first, err := it.Next(ctx)
	require.NoError(t, err)
	require.Len(t, first, 2)
	cursor, ok := it.Cursor()
	require.True(t, ok)

	resumed := c.Groups("", "").IterFetches(false, cursor)
	rest, err := resumed.Next(ctx)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, "g3", rest[0].UUID)

	_, err = resumed.Next(ctx)
	assert.ErrorIs(t, err, api.ErrDone)
}

func TestServer_FiltersOnAttributes(t *testing.T) {
	srv := apitest.New(t)
	seedGroups(srv)
	c := newClient(t, srv, apitest.DefaultToken)

	group, err := c.Groups("g2", "").Get(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, "Nurses", group.Name)

	_, err = c.Groups("missing", "").Get(context.Background(), false)
	assert.True(t, api.IsNoSuchObject(err))
}

func TestServer_RateLimitRetry(t *testing.T) {
	srv := apitest.New(t)
	seedGroups(srv)
	c := newClient(t, srv, apitest.DefaultToken)
	ctx := context.Background()

	srv.RateLimit(1, 0)
	_, err := c.Groups("", "").All(ctx, false)
	require.Error(t, err)
	assert.True(t, api.IsRateExceeded(err))

	srv.RateLimit(2, 0)
	groups, err := c.Groups("", "").All(ctx, true)
	require.NoError(t, err)
	assert.Len(t, groups, 3)
}

func TestServer_RejectsBadToken(t *testing.T) {
	srv := apitest.New(t)
	c := newClient(t, srv, "wrong")

	_, err := c.Groups("", "").All(context.Background(), false)
	assert.True(t, api.IsTokenError(err))
}

func TestServer_UnknownEndpoint(t *testing.T) {
	srv := apitest.New(t)

	resp, err := http.Get(srv.URL + "/nope")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_PostAndDelete(t *testing.T) {
	srv := apitest.New(t)
	seedGroups(srv)
	srv.SetObject("groups", map[string]any{"uuid": "g4", "name": "Vets", "query": nil, "status": "ready", "system": false, "count": 0})
	c := newClient(t, srv, apitest.DefaultToken)
	ctx := context.Background()

	group, err := c.CreateGroup(ctx, "Vets")
	require.NoError(t, err)
	assert.Equal(t, "g4", group.UUID)

	require.NoError(t, c.DeleteGroup(ctx, "g1"))
	err = c.DeleteGroup(ctx, "g1")
	assert.True(t, api.IsNoSuchObject(err))

	reqs := srv.Requests()
	assert.Equal(t, "groups", reqs[0].Endpoint)
	assert.Equal(t, "Vets", reqs[0].Body["name"])
	assert.Equal(t, http.MethodDelete, reqs[1].Method)
	assert.Equal(t, "g1", reqs[1].Query.Get("uuid"))
}

func TestServer_CompletesPartialFixtures(t *testing.T) {
	srv := apitest.New(t)
	srv.Seed("groups", map[string]any{"uuid": "g1", "name": "Doctors"})
	c := newClient(t, srv, apitest.DefaultToken)

	group, err := c.Groups("g1", "").Get(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, "ready", group.Status)
	require.NotNil(t, group.System)
	assert.False(t, *group.System)
	require.NotNil(t, group.Count)
	assert.Equal(t, 0, *group.Count)
	assert.True(t, group.IsNull("query"))
}

func TestServer_PostReturnsCompleteObject(t *testing.T) {
	srv := apitest.New(t)
	c := newClient(t, srv, apitest.DefaultToken)
	ctx := context.Background()

	global, err := c.CreateGlobal(ctx, "Support Email", "help@example.com")
	require.NoError(t, err)
	assert.Equal(t, "support_email", global.Key)
	assert.Equal(t, "Support Email", global.Name)
	assert.Equal(t, "help@example.com", global.Value)
	assert.Nil(t, global.ModifiedOn)

	contact, err := c.CreateContact(ctx, v2.ContactInput{Name: "Ben", URNs: []string{"tel:+250788123123"}})
	require.NoError(t, err)
	assert.NotEmpty(t, contact.UUID)
	assert.Equal(t, "Ben", contact.Name)
	assert.Equal(t, "active", contact.Status)
	assert.Empty(t, contact.URNs)
	assert.Nil(t, contact.Flow)
	assert.NotNil(t, contact.Fields)
}

func TestServer_PostToUnknownEndpoint(t *testing.T) {
	srv := apitest.New(t)

	req, err := http.NewRequest(http.MethodPost, srv.RootURL()+"/tickets.json", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Token "+apitest.DefaultToken)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
