package sink

import (
	"context"
	"encoding/json"
	"io"
	"sync"
)

// JSONL writes one {"resource": ..., "item": ...} line per record.
type JSONL struct {
	mu  sync.Mutex
	enc *json.Encoder
	c   io.Closer
}

// NewJSONL writes to w. If w is an io.Closer it is closed by Close.
func NewJSONL(w io.Writer) *JSONL {
	s := &JSONL{enc: json.NewEncoder(w)}
	if c, ok := w.(io.Closer); ok {
		s.c = c
	}
	return s
}

type line struct {
	Resource string `json:"resource"`
	Item     Record `json:"item"`
}

func (s *JSONL) Write(_ context.Context, resource string, batch []Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range batch {
		if err := s.enc.Encode(line{Resource: resource, Item: r}); err != nil {
			return err
		}
	}
	return nil
}

func (s *JSONL) Close() error {
	if s.c != nil {
		return s.c.Close()
	}
	return nil
}
