package api

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type keyed struct {
	Key   string
	Label string
}

var keyedSchema = NewSchema("Keyed",
	Simple("key", func(k *keyed) *string { return &k.Key }),
	Simple("label", func(k *keyed) *string { return &k.Label }),
)

func (k *keyed) Attr(name string) (any, bool) { return keyedSchema.Attr(k, name) }

type numbered struct {
	ID   *int
	UUID string
}

var numberedSchema = NewSchema("Numbered",
	Integer("id", func(n *numbered) **int { return &n.ID }),
	Simple("uuid", func(n *numbered) *string { return &n.UUID }),
)

func (n *numbered) Attr(name string) (any, bool) { return numberedSchema.Attr(n, name) }

func TestBuildParams_DropsNulls(t *testing.T) {
	var nilTime *time.Time
	var nilList []string
	params := BuildParams(map[string]any{
		"a":     nil,
		"b":     nilTime,
		"c":     nilList,
		"d":     "x",
		"empty": []string{},
	}, NativeBools)
	assert.Equal(t, Params{"d": "x", "empty": []any{}}, params)
}

var _ Identified = (*testThing)(nil)

func TestBuildParams_SerializesValues(t *testing.T) {
	ts := time.Date(2014, 1, 2, 3, 4, 5, 6000, time.UTC)
	id := 7
	params := BuildParams(map[string]any{
		"uuid":    &testThing{UUID: "thing-1"},
		"field":   &keyed{Key: "age"},
		"msg":     &numbered{ID: &id, UUID: "n-1"},
		"after":   ts,
		"before":  &ts,
		"flag":    true,
		"groups":  []*testThing{{UUID: "g1"}, {UUID: "g2"}},
		"ids":     []int{1, 2},
		"count":   3,
		"pointer": &id,
	}, NativeBools)

	assert.Equal(t, "thing-1", params["uuid"])
	assert.Equal(t, "age", params["field"])
	assert.Equal(t, "n-1", params["msg"], "uuid wins over id when both are declared")
	assert.Equal(t, "2014-01-02T03:04:05.000006Z", params["after"])
	assert.Equal(t, "2014-01-02T03:04:05.000006Z", params["before"])
	assert.Equal(t, true, params["flag"])
	assert.Equal(t, []any{"g1", "g2"}, params["groups"])
	assert.Equal(t, []any{1, 2}, params["ids"])
	assert.Equal(t, 3, params["count"])
	assert.Equal(t, 7, params["pointer"])
}

func TestBuildParams_IntBools(t *testing.T) {
	params := BuildParams(map[string]any{"yes": true, "no": false}, IntBools)
	assert.Equal(t, Params{"yes": 1, "no": 0}, params)
}

func TestBuildIDParam(t *testing.T) {
	params, err := BuildIDParam(map[string]any{"uuid": "abc", "urn": nil}, NativeBools)
	require.NoError(t, err)
	assert.Equal(t, Params{"uuid": "abc"}, params)

	_, err = BuildIDParam(map[string]any{"uuid": "abc", "urn": "tel:1"}, NativeBools)
	assert.True(t, errors.Is(err, ErrInvalidIDParam))

	_, err = BuildIDParam(map[string]any{"uuid": nil}, NativeBools)
	assert.True(t, errors.Is(err, ErrInvalidIDParam))
}

func TestParamsValues(t *testing.T) {
	ts := time.Date(2014, 1, 2, 3, 4, 5, 0, time.UTC)
	values := Params{
		"uuid":    []any{"a", "b"},
		"deleted": false,
		"after":   ts,
		"id":      12,
		"skip":    nil,
	}.Values()
	assert.Equal(t, []string{"a", "b"}, values["uuid"])
	assert.Equal(t, "false", values.Get("deleted"))
	assert.Equal(t, "2014-01-02T03:04:05.000000Z", values.Get("after"))
	assert.Equal(t, "12", values.Get("id"))
	_, ok := values["skip"]
	assert.False(t, ok)
}

func TestParamsWith_DoesNotMutate(t *testing.T) {
	orig := Params{"a": 1}
	next := orig.With("page", 2)
	assert.Equal(t, Params{"a": 1}, orig)
	assert.Equal(t, Params{"a": 1, "page": 2}, next)
}
