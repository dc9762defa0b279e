package apitest

import (
	"fmt"
	"strings"
)

// shapes holds a complete wire object per endpoint. Fixtures and POST
// responses are merged over these so clients always see every attribute
// the real API sends.
var shapes = map[string]map[string]any{
	"archives": {
		"archive_type": "message", "start_date": nil, "period": "daily",
		"record_count": 0, "size": 0, "hash": "", "download_url": "",
	},
	"boundaries": {
		"osm_id": "", "name": "", "level": 0, "parent": nil, "aliases": []any{}, "geometry": nil,
	},
	"broadcasts": {
		"id": nil, "status": "queued", "urns": []any{}, "contacts": []any{}, "groups": []any{},
		"text": "", "created_on": nil,
	},
	"campaigns": {
		"uuid": nil, "name": "", "archived": false, "group": nil, "created_on": nil,
	},
	"campaign_events": {
		"uuid": nil, "campaign": nil, "relative_to": nil, "offset": 0, "unit": "days",
		"delivery_hour": -1, "flow": nil, "message": nil, "created_on": nil,
	},
	"channels": {
		"uuid": nil, "name": "", "address": "", "country": nil, "device": nil,
		"last_seen": nil, "created_on": nil,
	},
	"classifiers": {
		"uuid": nil, "type": "", "name": "", "intents": []any{}, "created_on": nil,
	},
	"contacts": {
		"uuid": nil, "name": nil, "status": "active", "language": nil, "urns": []any{},
		"groups": []any{}, "flow": nil, "fields": map[string]any{},
		"created_on": nil, "modified_on": nil, "last_seen_on": nil,
	},
	"definitions": {
		"version": "13", "flows": []any{}, "campaigns": []any{}, "triggers": []any{},
		"fields": []any{}, "groups": []any{},
	},
	"fields": {
		"key": "", "name": "", "type": "text",
	},
	"flow_starts": {
		"uuid": nil, "flow": nil, "groups": []any{}, "contacts": []any{}, "status": "pending",
		"restart_participants": true, "exclude_active": false, "params": map[string]any{},
		"created_on": nil, "modified_on": nil,
	},
	"flows": {
		"uuid": nil, "name": "", "type": "message", "archived": false, "labels": []any{},
		"expires": 0, "created_on": nil, "runs": nil, "results": []any{},
	},
	"globals": {
		"key": "", "name": "", "value": "", "modified_on": nil,
	},
	"groups": {
		"uuid": nil, "name": "", "query": nil, "status": "ready", "system": false, "count": 0,
	},
	"labels": {
		"uuid": nil, "name": "", "count": 0,
	},
	"messages": {
		"id": nil, "broadcast": nil, "contact": nil, "urn": nil, "channel": nil,
		"direction": "out", "type": "text", "status": "queued", "visibility": "visible",
		"text": "", "labels": []any{}, "attachments": []any{}, "flow": nil,
		"created_on": nil, "sent_on": nil, "modified_on": nil,
	},
	"org": {
		"uuid": nil, "name": "", "country": nil, "languages": []any{}, "primary_language": nil,
		"timezone": "UTC", "date_style": "day_first", "anon": false,
	},
	"resthook_events": {
		"resthook": "", "data": map[string]any{}, "created_on": nil,
	},
	"resthook_subscribers": {
		"id": nil, "resthook": "", "target_url": "", "created_on": nil,
	},
	"resthooks": {
		"resthook": "", "created_on": nil, "modified_on": nil,
	},
	"runs": {
		"uuid": nil, "flow": nil, "contact": nil, "start": nil, "responded": false,
		"path": []any{}, "values": map[string]any{}, "created_on": nil, "modified_on": nil,
		"exited_on": nil, "exit_type": nil,
	},
}

// complete returns item merged over the shape of endpoint. Unknown
// endpoints are returned as given.
func complete(endpoint string, item map[string]any) map[string]any {
	shape, ok := shapes[endpoint]
	if !ok {
		return item
	}
	out := make(map[string]any, len(shape)+len(item))
	for k, v := range shape {
		out[k] = copyValue(v)
	}
	for k, v := range item {
		out[k] = v
	}
	return out
}

// nullableText lists attributes that default to null but hold plain text.
var nullableText = map[string]bool{"name": true, "language": true, "query": true}

// created builds the response to a POST that has no configured object: the
// shape with the matching scalar values of the request body and a fresh
// identifier. References sent as identifiers are left at their defaults.
func created(endpoint string, body map[string]any, seq int) (map[string]any, bool) {
	shape, ok := shapes[endpoint]
	if !ok {
		return nil, false
	}
	obj := complete(endpoint, nil)
	for k, v := range body {
		def, known := shape[k]
		if !known {
			continue
		}
		switch v.(type) {
		case string:
			if _, isText := def.(string); isText || (def == nil && nullableText[k]) {
				obj[k] = v
			}
		case bool:
			if _, isBool := def.(bool); isBool {
				obj[k] = v
			}
		case float64:
			if _, isInt := def.(int); isInt {
				obj[k] = v
			}
		}
	}
	if _, ok := shape["uuid"]; ok && obj["uuid"] == nil {
		obj["uuid"] = fmt.Sprintf("00000000-0000-4000-8000-%012d", seq)
	}
	if _, ok := shape["id"]; ok && obj["id"] == nil {
		obj["id"] = seq
	}
	if _, ok := shape["key"]; ok && obj["key"] == "" {
		if name, _ := body["name"].(string); name != "" {
			obj["key"] = strings.ReplaceAll(strings.ToLower(name), " ", "_")
		}
	}
	return obj, true
}

func copyValue(v any) any {
	switch v := v.(type) {
	case []any:
		return append([]any{}, v...)
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			out[k] = copyValue(e)
		}
		return out
	}
	return v
}
