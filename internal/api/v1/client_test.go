package v1

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rapidpro/rapidpro-cli/internal/api"
)

type recorded struct {
	Method string
	Path   string
	Query  url.Values
	Body   string
}

// newTestClient replies with bodies in turn, repeating the last one. "SELF"
// in a body is replaced with the server URL. An empty body answers 204.
func newTestClient(t *testing.T, bodies ...string) (*Client, *[]recorded) {
	t.Helper()
	var reqs []recorded
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		reqs = append(reqs, recorded{Method: r.Method, Path: r.URL.Path, Query: r.URL.Query(), Body: string(data)})
		body := bodies[min(len(reqs), len(bodies))-1]
		if body == "" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		_, _ = w.Write([]byte(strings.ReplaceAll(body, "SELF", srv.URL)))
	}))
	t.Cleanup(srv.Close)

	c, err := New(api.Config{Host: srv.URL, Token: "1234567890", Timeout: 5 * time.Second})
	require.NoError(t, err)
	return c, &reqs
}

const runJSON = `{
	"run": 1234,
	"flow_uuid": "ffce0fbb-4fe1-4052-b26a-91beb2ebae9a",
	"contact": "d33e9ad5-5c35-414c-abd4-e7451c69ff1d",
	"steps": [
		{"node": "n1", "text": "What is your favorite color?", "value": null, "type": "A", "arrived_on": "2015-08-26T10:04:09.737686Z", "left_on": "2015-08-26T10:04:10.000000Z"}
	],
	"values": [
		{"node": "n1", "category": "Red", "text": "red", "rule_value": "red", "value": "red", "label": "Color", "time": "2015-08-26T10:04:10.000000Z"},
		{"node": "n2", "category": "Yes", "text": "yes", "rule_value": "yes", "value": "yes", "label": "Likes", "time": "2015-08-26T10:04:11.000000Z"},
		{"node": "n1", "category": "Blue", "text": "blue", "rule_value": "blue", "value": "blue", "label": "Color", "time": "2015-08-26T10:04:12.000000Z"}
	],
	"created_on": "2015-08-26T10:04:09.737686Z",
	"expires_on": null,
	"expired_on": null,
	"completed": true
}`

func TestRun_KeepsLastValuePerNode(t *testing.T) {
	c, reqs := newTestClient(t, `{"count": 1, "next": null, "results": [`+runJSON+`]}`)

	run, err := c.Run(context.Background(), 1234)
	require.NoError(t, err)
	assert.Equal(t, "1234", (*reqs)[0].Query.Get("run"))
	assert.Equal(t, 1234, *run.ID)
	assert.Equal(t, "ffce0fbb-4fe1-4052-b26a-91beb2ebae9a", run.Flow)
	require.Len(t, run.Values, 2)
	assert.Equal(t, "n2", run.Values[0].Node)
	assert.Equal(t, "Blue", run.Values[1].Category)
	assert.True(t, *run.Completed)
}

func TestContact_NotFound(t *testing.T) {
	c, _ := newTestClient(t, `{"count": 0, "next": null, "results": []}`)

	_, err := c.Contact(context.Background(), "missing")
	assert.True(t, api.IsNoSuchObject(err))
}

func TestContacts_PagerAndIntBools(t *testing.T) {
	contact := `{"uuid": "c1", "name": "Ann", "urns": ["tel:+250788123123"], "group_uuids": ["g1"], "fields": {}, "language": null, "blocked": false, "failed": false, "modified_on": "2015-08-26T10:04:09.737686Z"}`
	c, reqs := newTestClient(t, `{"count": 2, "next": "http://example.com/api/v1/contacts.json?page=3", "results": [`+contact+`]}`)

	pager := c.Pager(2)
	contacts, err := c.Contacts(context.Background(), ContactFilter{Groups: []string{"g1"}}, pager)
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, []string{"g1"}, contacts[0].Groups)
	assert.Equal(t, "", contacts[0].Language)
	assert.False(t, *contacts[0].Blocked)
	assert.True(t, pager.HasMore())
	total, ok := pager.Total()
	assert.True(t, ok)
	assert.Equal(t, 2, total)

	q := (*reqs)[0].Query
	assert.Equal(t, "2", q.Get("page"))
	assert.Equal(t, "g1", q.Get("group_uuids"))
}

func TestCreateRuns(t *testing.T) {
	c, reqs := newTestClient(t, `[`+runJSON+`]`)

	runs, err := c.CreateRuns(context.Background(), &Flow{UUID: "f1"}, []string{"c1"}, true)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
	assert.Equal(t, "/runs.json", (*reqs)[0].Path)
	assert.JSONEq(t, `{"flow_uuid": "f1", "contacts": ["c1"], "restart_participants": 1}`, (*reqs)[0].Body)
}

func TestUpdateContact_SendsUUIDInPayload(t *testing.T) {
	c, reqs := newTestClient(t, `{"uuid": "c1", "name": "Ann", "urns": [], "group_uuids": [], "fields": {}, "language": "eng", "blocked": false, "failed": false, "modified_on": null}`)

	_, err := c.UpdateContact(context.Background(), "c1", ContactInput{Name: "Ann", URNs: []string{}})
	require.NoError(t, err)
	assert.Empty(t, (*reqs)[0].Query)
	assert.JSONEq(t, `{"uuid": "c1", "name": "Ann", "urns": []}`, (*reqs)[0].Body)
}

func TestActions(t *testing.T) {
	c, reqs := newTestClient(t, "")
	ctx := context.Background()

	require.NoError(t, c.AddContacts(ctx, []string{"c1"}, Target{Name: "Testers"}))
	require.NoError(t, c.ExpireContacts(ctx, []string{"c1"}))
	require.NoError(t, c.LabelMessages(ctx, []int{1}, Target{UUID: &Label{UUID: "l1"}}))
	require.NoError(t, c.DeleteEvent(ctx, "e1"))

	assert.JSONEq(t, `{"contacts": ["c1"], "action": "add", "group": "Testers"}`, (*reqs)[0].Body)
	assert.JSONEq(t, `{"contacts": ["c1"], "action": "expire"}`, (*reqs)[1].Body)
	assert.JSONEq(t, `{"messages": [1], "action": "label", "label_uuid": "l1"}`, (*reqs)[2].Body)
	assert.Equal(t, http.MethodDelete, (*reqs)[3].Method)
	assert.Equal(t, "e1", (*reqs)[3].Query.Get("uuid"))
}

func TestResults_FetchesAllPages(t *testing.T) {
	c, reqs := newTestClient(t,
		`{"count": 2, "next": "SELF/results.json?page=2", "results": [{"set": 3, "unset": 1, "open_ended": false, "label": "Color", "categories": [{"count": 3, "label": "Red"}]}]}`,
		`{"count": 2, "next": null, "results": [{"boundary": "R1", "set": 0, "unset": 0, "open_ended": false, "label": "Color", "categories": []}]}`,
	)

	results, err := c.Results(context.Background(), nil, "color", map[string]any{"location": "State"})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Nil(t, results[0].Boundary)
	assert.Equal(t, "R1", results[1].Boundary)
	assert.Equal(t, 3, *results[0].Categories[0].Count)
	require.Len(t, *reqs, 2)
	assert.Equal(t, `{"location":"State"}`, (*reqs)[0].Query.Get("segment"))
	assert.Equal(t, "color", (*reqs)[0].Query.Get("contact_field"))
	assert.Equal(t, "2", (*reqs)[1].Query.Get("page"))
}
