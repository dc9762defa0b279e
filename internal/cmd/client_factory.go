package cmd

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rapidpro/rapidpro-cli/internal/api"
	"github.com/rapidpro/rapidpro-cli/internal/api/v1"
	"github.com/rapidpro/rapidpro-cli/internal/api/v2"
	"github.com/rapidpro/rapidpro-cli/internal/cache"
	"github.com/rapidpro/rapidpro-cli/internal/config"
	"github.com/rapidpro/rapidpro-cli/internal/resolve"
)

type settingsKey struct{}

func withSettings(ctx context.Context, s *config.Settings) context.Context {
	return context.WithValue(ctx, settingsKey{}, s)
}

// settingsFrom returns the settings loaded by the root command, or defaults
// read from the default path when a command runs outside Execute.
func settingsFrom(ctx context.Context) (*config.Settings, error) {
	if s, ok := ctx.Value(settingsKey{}).(*config.Settings); ok && s != nil {
		return s, nil
	}
	return config.LoadSettings("")
}

// loadAccount applies --profile unless RAPIDPRO_HOST already selects an account.
func loadAccount() (config.Account, error) {
	if flags.Profile != "" && strings.TrimSpace(os.Getenv(config.EnvHost)) == "" {
		return config.LoadProfile(flags.Profile)
	}
	return config.LoadAccount()
}

type clientFactory struct {
	account  config.Account
	settings *config.Settings
}

func newClientFactory(cmd *cobra.Command) (*clientFactory, error) {
	settings, err := settingsFrom(cmd.Context())
	if err != nil {
		return nil, err
	}
	account, err := loadAccount()
	if err != nil {
		return nil, err
	}
	return &clientFactory{account: account, settings: settings}, nil
}

func (f *clientFactory) config() api.Config {
	timeout := flags.Timeout
	if timeout <= 0 {
		timeout = f.settings.Timeout()
	}
	return api.Config{
		Host:      f.account.Host,
		Token:     f.account.Token,
		UserAgent: f.settings.UserAgent(),
		Timeout:   timeout,

		SkipTLSVerify: f.settings.TLSInsecure(),
		CABundle:      f.settings.TLSCABundle(),
	}
}

func (f *clientFactory) v2() (*v2.Client, error) {
	return v2.New(f.config())
}

func (f *clientFactory) v1() (*v1.Client, error) {
	return v1.New(f.config())
}

// cache opens the lookup cache selected in settings.
func (f *clientFactory) cache() (*cache.Cache, error) {
	return openCache(f.settings)
}

func openCache(s *config.Settings) (*cache.Cache, error) {
	return cache.Open(cache.Config{
		Backend:  cache.Backend(s.CacheBackend()),
		RedisURL: s.CacheRedisURL(),
		TTL:      s.CacheTTL(),
	})
}

func getV2Client(cmd *cobra.Command) (*v2.Client, error) {
	f, err := newClientFactory(cmd)
	if err != nil {
		return nil, err
	}
	return f.v2()
}

// session bundles a v2 client with name resolvers for commands that accept
// group, label or flow names.
type session struct {
	client *v2.Client
	cache  *cache.Cache
}

func newSession(cmd *cobra.Command) (*session, error) {
	f, err := newClientFactory(cmd)
	if err != nil {
		return nil, err
	}
	client, err := f.v2()
	if err != nil {
		return nil, err
	}
	c, err := f.cache()
	if err != nil {
		return nil, err
	}
	return &session{client: client, cache: c}, nil
}

func (s *session) Close() {
	_ = s.cache.Close()
}

func (s *session) resolver(resource string, load resolve.Loader) *resolve.Resolver {
	return resolve.NewResolver(s.cache.Store(resource, s.client.API().RootURL), load)
}

func (s *session) groups() *resolve.Resolver {
	return s.resolver("groups", func(ctx context.Context) ([]resolve.Named, error) {
		items, err := s.client.Groups("", "").All(ctx, flags.Retry)
		if err != nil {
			return nil, err
		}
		out := make([]resolve.Named, len(items))
		for i, g := range items {
			out[i] = resolve.Named{UUID: g.UUID, Name: g.Name}
		}
		return out, nil
	})
}

func (s *session) labels() *resolve.Resolver {
	return s.resolver("labels", func(ctx context.Context) ([]resolve.Named, error) {
		items, err := s.client.Labels("", "").All(ctx, flags.Retry)
		if err != nil {
			return nil, err
		}
		out := make([]resolve.Named, len(items))
		for i, l := range items {
			out[i] = resolve.Named{UUID: l.UUID, Name: l.Name}
		}
		return out, nil
	})
}

func (s *session) flows() *resolve.Resolver {
	return s.resolver("flows", func(ctx context.Context) ([]resolve.Named, error) {
		items, err := s.client.Flows("").All(ctx, flags.Retry)
		if err != nil {
			return nil, err
		}
		out := make([]resolve.Named, len(items))
		for i, fl := range items {
			out[i] = resolve.Named{UUID: fl.UUID, Name: fl.Name}
		}
		return out, nil
	})
}

// resolveOptional resolves query when it is set.
func resolveOptional(ctx context.Context, r *resolve.Resolver, query string) (string, error) {
	if query == "" {
		return "", nil
	}
	return r.Resolve(ctx, query)
}
