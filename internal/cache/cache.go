// Package cache stores resource listings used for name resolution.
//
// Entries are JSON, scoped per resource type and API root URL. Default TTL is
// 5 minutes. Disable with RAPIDPRO_NO_CACHE=1.
package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const DefaultTTL = 5 * time.Minute

type entry struct {
	CachedAt time.Time       `json:"cached_at"`
	Items    json.RawMessage `json:"items"`
}

// Store reads and writes a single cache key (resource+root URL).
// Misses and write failures are silent: the cache is only an optimisation.
type Store interface {
	Get(ctx context.Context, dst any) bool
	Put(ctx context.Context, items any)
	Clear(ctx context.Context)
}

// FileStore keeps one JSON file per key.
type FileStore struct {
	path string
	ttl  time.Duration
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates a FileStore with the default 5-minute TTL.
// dir is the cache directory (typically from DefaultDir).
// key is the resource type (e.g. "groups").
// rootURL is the API root the listing came from.
func NewFileStore(dir, key, rootURL string) *FileStore {
	return NewFileStoreWithTTL(dir, key, rootURL, DefaultTTL)
}

// NewFileStoreWithTTL creates a FileStore with a custom TTL.
func NewFileStoreWithTTL(dir, key, rootURL string, ttl time.Duration) *FileStore {
	filename := fmt.Sprintf("%s_%s.json", sanitizeKey(key), rootHash(rootURL))
	return &FileStore{
		path: filepath.Join(dir, filename),
		ttl:  ttl,
	}
}

// Get loads cached items into dst. Returns false on miss (no file, expired, disabled).
func (s *FileStore) Get(_ context.Context, dst any) bool {
	if disabled() {
		return false
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return false
	}
	return decodeEntry(data, s.ttl, dst)
}

// Put writes items to the cache.
func (s *FileStore) Put(_ context.Context, items any) {
	if disabled() {
		return
	}
	data, err := encodeEntry(items)
	if err != nil {
		return
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return
	}

	// Atomic-ish write: write temp then rename.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		_ = os.Remove(tmp)
		return
	}
	_ = os.Rename(tmp, s.path)
}

// Clear removes this cache file.
func (s *FileStore) Clear(context.Context) {
	_ = os.Remove(s.path)
}

// ClearAll removes all cache files from the directory.
// For safety, it only removes files matching this project's cache filename scheme.
func ClearAll(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !isCacheFilename(name) {
			continue
		}
		_ = os.Remove(filepath.Join(dir, name))
	}
}

// DefaultDir returns the platform-appropriate cache directory.
// Returns "$XDG_CACHE_HOME/rapidpro-cli" or equivalent.
func DefaultDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "rapidpro-cli"), nil
}

func encodeEntry(items any) ([]byte, error) {
	raw, err := json.Marshal(items)
	if err != nil {
		return nil, err
	}
	return json.Marshal(entry{CachedAt: time.Now(), Items: raw})
}

func decodeEntry(data []byte, ttl time.Duration, dst any) bool {
	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		return false
	}
	if time.Since(e.CachedAt) > ttl {
		return false
	}
	return json.Unmarshal(e.Items, dst) == nil
}

func disabled() bool {
	return os.Getenv("RAPIDPRO_NO_CACHE") != ""
}

func rootHash(rootURL string) string {
	hash := sha1.Sum([]byte(rootURL))
	return hex.EncodeToString(hash[:6])
}

func sanitizeKey(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return "cache"
	}
	key = strings.ReplaceAll(key, "/", "-")
	key = strings.ReplaceAll(key, "\\", "-")
	key = strings.ReplaceAll(key, "_", "-")
	return key
}

func isCacheFilename(name string) bool {
	// Expected: "<key>_<12hex>.json"
	if filepath.Ext(name) != ".json" {
		return false
	}
	key, suffix, ok := strings.Cut(strings.TrimSuffix(name, ".json"), "_")
	if !ok || key == "" {
		return false
	}
	return len(suffix) == 12 && isHex(suffix)
}

func isHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
