package resolve

import (
	"context"
	"regexp"

	"github.com/rapidpro/rapidpro-cli/internal/cache"
)

var uuidPattern = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// IsUUID reports whether s is a canonical UUID.
func IsUUID(s string) bool {
	return uuidPattern.MatchString(s)
}

// Loader lists every candidate of one resource type.
type Loader func(ctx context.Context) ([]Named, error)

// Resolver maps names to UUIDs over a listing that is cached between runs.
type Resolver struct {
	store cache.Store
	load  Loader
}

func NewResolver(store cache.Store, load Loader) *Resolver {
	return &Resolver{store: store, load: load}
}

// Resolve returns query unchanged when it is already a UUID. Otherwise the
// listing is read from the cache, or loaded and cached, and fuzzy matched.
// A miss against cached data reloads once in case the resource is new.
func (r *Resolver) Resolve(ctx context.Context, query string) (string, error) {
	if IsUUID(query) {
		return query, nil
	}

	var items []Named
	if r.store.Get(ctx, &items) && len(items) > 0 {
		if uuid, err := FuzzyMatch(query, items); err == nil {
			return uuid, nil
		}
	}

	items, err := r.load(ctx)
	if err != nil {
		return "", err
	}
	r.store.Put(ctx, items)
	return FuzzyMatch(query, items)
}

// ResolveAll resolves each query in turn.
func (r *Resolver) ResolveAll(ctx context.Context, queries []string) ([]string, error) {
	out := make([]string, 0, len(queries))
	for _, q := range queries {
		uuid, err := r.Resolve(ctx, q)
		if err != nil {
			return nil, err
		}
		out = append(out, uuid)
	}
	return out, nil
}
