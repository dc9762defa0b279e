// Package sink writes exported API objects to a destination.
package sink

import (
	"context"
	"fmt"
)

// Record is one serialized API object.
type Record = map[string]any

// Sink receives batches of records. Implementations are safe for concurrent
// use by several exports.
type Sink interface {
	Write(ctx context.Context, resource string, batch []Record) error
	Close() error
}

// identifierKeys lists the attributes that identify a record, in priority order.
var identifierKeys = []string{"uuid", "id", "key", "osm_id", "resthook"}

// RecordID returns the identifier of a record, or "" if it has none.
func RecordID(r Record) string {
	for _, k := range identifierKeys {
		if v, ok := r[k]; ok && v != nil {
			return fmt.Sprint(v)
		}
	}
	return ""
}
