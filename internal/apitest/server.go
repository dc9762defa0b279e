// Package apitest runs an in-memory RapidPro v2 API for tests.
package apitest

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

const (
	DefaultToken    = "test-token"
	DefaultPageSize = 2
)

// Recorded is one request received by the server.
type Recorded struct {
	Method   string
	Endpoint string
	Query    url.Values
	Body     map[string]any
}

// Server serves /api/v2/<endpoint>.json with cursor pagination over seeded
// fixtures. Requests without the expected token get a 403.
type Server struct {
	*httptest.Server
	Token    string
	PageSize int

	mu          sync.Mutex
	lists       map[string][]map[string]any
	objects     map[string]map[string]any
	rateLimited int
	retryAfter  int
	requests    []Recorded
	created     int
}

// New starts a server that is closed when the test ends.
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		Token:    DefaultToken,
		PageSize: DefaultPageSize,
		lists:    map[string][]map[string]any{},
		objects:  map[string]map[string]any{},
	}

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Route("/api/v2", func(r chi.Router) {
		r.Use(s.record, s.auth, s.rateLimit)
		r.Get("/{endpoint}.json", s.handleGet)
		r.Post("/{endpoint}.json", s.handlePost)
		r.Delete("/{endpoint}.json", s.handleDelete)
	})
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]any{"detail": "Not found."})
	})

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

// RootURL is the API root to configure clients with.
func (s *Server) RootURL() string {
	return s.URL + "/api/v2"
}

// Seed appends items to a list endpoint. Attributes an item leaves out get
// the defaults of the endpoint's wire shape.
func (s *Server) Seed(endpoint string, items ...map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.lists[endpoint]
	for _, it := range items {
		list = append(list, complete(endpoint, it))
	}
	s.lists[endpoint] = list
}

// SetObject makes endpoint return obj, for singular endpoints such as org
// and for the response to POST requests. obj is completed like Seed items.
func (s *Server) SetObject(endpoint string, obj map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[endpoint] = complete(endpoint, obj)
}

// RateLimit answers the next n API requests with 429 and a Retry-After header.
func (s *Server) RateLimit(n, retryAfter int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rateLimited = n
	s.retryAfter = retryAfter
}

// Requests returns a copy of every recorded API request.
func (s *Server) Requests() []Recorded {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Recorded(nil), s.requests...)
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := Recorded{Method: r.Method, Query: r.URL.Query()}
		if r.Body != nil {
			data, _ := io.ReadAll(r.Body)
			r.Body = io.NopCloser(bytes.NewReader(data))
			if len(data) > 0 {
				_ = json.Unmarshal(data, &rec.Body)
			}
		}
		rec.Endpoint = endpointFromPath(r.URL.Path)
		s.mu.Lock()
		s.requests = append(s.requests, rec)
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Token "+s.Token {
			writeJSON(w, http.StatusForbidden, map[string]any{"detail": "Invalid token"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		limited := s.rateLimited > 0
		if limited {
			s.rateLimited--
		}
		retryAfter := s.retryAfter
		s.mu.Unlock()

		if limited {
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			writeJSON(w, http.StatusTooManyRequests, map[string]any{"detail": "Request was throttled."})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	endpoint := chi.URLParam(r, "endpoint")

	s.mu.Lock()
	obj, isObject := s.objects[endpoint]
	items, isList := s.lists[endpoint]
	items = append([]map[string]any(nil), items...)
	pageSize := s.PageSize
	s.mu.Unlock()

	if isObject && !isList {
		writeJSON(w, http.StatusOK, obj)
		return
	}
	if !isList {
		writeJSON(w, http.StatusNotFound, map[string]any{"detail": "Not found."})
		return
	}

	query := r.URL.Query()
	offset, err := decodeCursor(query.Get("cursor"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]any{"detail": "Invalid cursor"})
		return
	}
	matched := filter(items, query)
	end := min(offset+pageSize, len(matched))
	if offset > len(matched) {
		offset = len(matched)
	}

	var next any
	if end < len(matched) {
		query.Set("cursor", encodeCursor(end))
		next = fmt.Sprintf("%s%s?%s", s.URL, r.URL.Path, query.Encode())
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"next":     next,
		"previous": nil,
		"results":  matched[offset:end],
	})
}

func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	endpoint := chi.URLParam(r, "endpoint")
	if endpoint == "contact_actions" || endpoint == "message_actions" {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	var body map[string]any
	_ = json.NewDecoder(r.Body).Decode(&body)

	s.mu.Lock()
	obj, ok := s.objects[endpoint]
	if !ok {
		s.created++
		obj, ok = created(endpoint, body, s.created)
	}
	s.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]any{"non_field_errors": []string{"No response configured for " + endpoint}})
		return
	}
	status := http.StatusCreated
	if len(r.URL.Query()) > 0 {
		status = http.StatusOK
	}
	writeJSON(w, status, obj)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	endpoint := chi.URLParam(r, "endpoint")
	query := r.URL.Query()

	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.lists[endpoint]
	kept := items[:0:0]
	for _, it := range items {
		if !matches(it, query) {
			kept = append(kept, it)
		}
	}
	if len(kept) == len(items) {
		writeJSON(w, http.StatusNotFound, map[string]any{"detail": "Not found."})
		return
	}
	s.lists[endpoint] = kept
	w.WriteHeader(http.StatusNoContent)
}

// filter keeps items whose attributes equal every query value the item has
// an attribute for. References match on their uuid.
func filter(items []map[string]any, query url.Values) []map[string]any {
	out := make([]map[string]any, 0, len(items))
	for _, it := range items {
		if matches(it, query) {
			out = append(out, it)
		}
	}
	return out
}

func matches(item map[string]any, query url.Values) bool {
	for k, vs := range query {
		if k == "cursor" {
			continue
		}
		v, ok := item[k]
		if !ok {
			continue
		}
		if ref, isRef := v.(map[string]any); isRef {
			v = ref["uuid"]
		}
		if fmt.Sprint(v) != vs[0] {
			return false
		}
	}
	return true
}

func encodeCursor(offset int) string {
	return base64.StdEncoding.EncodeToString([]byte("o=" + strconv.Itoa(offset)))
}

func decodeCursor(cursor string) (int, error) {
	if cursor == "" {
		return 0, nil
	}
	data, err := base64.StdEncoding.DecodeString(cursor)
	if err != nil || len(data) < 2 || string(data[:2]) != "o=" {
		return 0, fmt.Errorf("invalid cursor %q", cursor)
	}
	return strconv.Atoi(string(data[2:]))
}

func endpointFromPath(path string) string {
	const prefix, suffix = "/api/v2/", ".json"
	if len(path) > len(prefix)+len(suffix) && path[:len(prefix)] == prefix && path[len(path)-len(suffix):] == suffix {
		return path[len(prefix) : len(path)-len(suffix)]
	}
	return path
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
