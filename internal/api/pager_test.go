package api

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSingle(t *testing.T) {
	tests := []struct {
		name string
		body string
		kind Kind
	}{
		{"one", `{"count": 1, "next": null, "results": [{"uuid": "a"}]}`, KindUnknown},
		{"none", `{"count": 0, "next": null, "results": []}`, KindNoSuchObject},
		{"many", `{"count": 2, "next": null, "results": [{"uuid": "a"}, {"uuid": "b"}]}`, KindMultipleResults},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "a", r.URL.Query().Get("uuid"))
				_, _ = w.Write([]byte(tt.body))
			})
			item, err := c.GetSingle(context.Background(), "contacts", Params{"uuid": "a"})
			if tt.kind == KindUnknown {
				require.NoError(t, err)
				assert.Equal(t, "a", item.(map[string]any)["uuid"])
				return
			}
			assert.Equal(t, tt.kind, KindOf(err))
		})
	}
}

func TestGetPage(t *testing.T) {
	var calls atomic.Int32
	var srvURL string
	c, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch calls.Add(1) {
		case 1:
			assert.Equal(t, "/contacts.json", r.URL.Path)
			assert.Equal(t, "2", r.URL.Query().Get("page"))
			assert.Equal(t, "g1", r.URL.Query().Get("group_uuids"))
			_, _ = w.Write([]byte(`{"count": 3, "next": "` + srvURL + `/contacts.json?page=3", "results": [{"uuid": "a"}]}`))
		default:
			assert.Equal(t, "3", r.URL.Query().Get("page"))
			assert.Empty(t, r.URL.Query().Get("group_uuids"))
			_, _ = w.Write([]byte(`{"count": 3, "next": null, "results": [{"uuid": "b"}]}`))
		}
	})
	srvURL = srv.URL

	pager := NewPager(2)
	_, known := pager.Total()
	assert.False(t, known)

	results, err := c.GetMultiple(context.Background(), "contacts", Params{"group_uuids": "g1"}, pager)
	require.NoError(t, err)
	assert.Len(t, results, 1)
	total, known := pager.Total()
	assert.True(t, known)
	assert.Equal(t, 3, total)
	assert.True(t, pager.HasMore())

	results, err = c.GetPage(context.Background(), "contacts", Params{"group_uuids": "g1"}, pager)
	require.NoError(t, err)
	assert.Len(t, results, 1)
	assert.False(t, pager.HasMore())
}

func TestGetPage_FirstPageOmitsParam(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, present := r.URL.Query()["page"]
		assert.False(t, present)
		_, _ = w.Write([]byte(`{"count": 0, "next": null, "results": []}`))
	})
	_, err := c.GetPage(context.Background(), "contacts", nil, NewPager(1))
	require.NoError(t, err)
}

func TestGetAll(t *testing.T) {
	var calls atomic.Int32
	var srvURL string
	c, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch calls.Add(1) {
		case 1:
			assert.Equal(t, "f1", r.URL.Query().Get("flow_uuid"))
			_, _ = w.Write([]byte(`{"count": 5, "next": "` + srvURL + `/runs.json?page=2", "results": [{"id": 1}, {"id": 2}]}`))
		case 2:
			assert.Empty(t, r.URL.Query().Get("flow_uuid"))
			assert.Equal(t, "2", r.URL.Query().Get("page"))
			_, _ = w.Write([]byte(`{"count": 5, "next": "` + srvURL + `/runs.json?page=3", "results": [{"id": 3}, {"id": 4}]}`))
		default:
			assert.Equal(t, "3", r.URL.Query().Get("page"))
			_, _ = w.Write([]byte(`{"count": 5, "next": null, "results": [{"id": 5}]}`))
		}
	})
	srvURL = srv.URL

	results, err := c.GetMultiple(context.Background(), "runs", Params{"flow_uuid": "f1"}, nil)
	require.NoError(t, err)
	assert.Len(t, results, 5)
	assert.Equal(t, int32(3), calls.Load())
}

func TestParseEnvelope_Invalid(t *testing.T) {
	_, err := parseEnvelope([]any{})
	assert.True(t, IsSerializationError(err))

	_, err = parseEnvelope(map[string]any{"results": "nope"})
	assert.True(t, IsSerializationError(err))
}
