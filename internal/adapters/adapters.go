package adapters

import (
	"fmt"

	"github.com/denchenko/cartdash/internal/adapters/primary/cli"
	httpadapter "github.com/denchenko/cartdash/internal/adapters/primary/http"
	"github.com/denchenko/cartdash/internal/adapters/secondary/cache"
	"github.com/denchenko/cartdash/internal/adapters/secondary/repository/cached"
	"github.com/denchenko/cartdash/internal/adapters/secondary/repository/dummyjson"
	"github.com/denchenko/cartdash/internal/adapters/secondary/session"
	"github.com/denchenko/cartdash/internal/config"
	"github.com/denchenko/cartdash/internal/core/app"
	"github.com/denchenko/cartdash/internal/core/auth"
	"github.com/denchenko/cartdash/internal/format/ascii"
	"github.com/denchenko/cartdash/internal/log"
	"github.com/gin-gonic/gin"
	retryablehttp "github.com/hashicorp/go-retryablehttp"
	"github.com/redis/go-redis/v9"
	do "github.com/samber/do/v2"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var PrimaryPackage = do.Package(
	do.Lazy[*cobra.Command](cli.Command),
	do.Lazy[*ascii.Formatter](NewFormatter),
	do.Lazy[*httpadapter.Server](NewHTTPServer),
)

var SecondaryPackage = do.Package(
	do.Lazy[*retryablehttp.Client](NewHTTPClient),
	do.Lazy[*dummyjson.Repository](NewDummyJSONRepository),
	do.Lazy[app.Remote](NewRemote),
	do.Lazy[cache.Cache](NewCache),
	do.Lazy[app.Repository](NewRepository),
	do.Lazy[auth.Codec](NewSessionCodec),
	do.Lazy[*redis.Client](NewRedisClient),
	do.Lazy[auth.SessionStore](NewSessionStore),
)

// NewHTTPClient creates the retrying client used for the remote service.
func NewHTTPClient(i do.Injector) (*retryablehttp.Client, error) {
	cfg := do.MustInvoke[*config.Config](i)
	logger := do.MustInvoke[*logrus.Logger](i)

	return dummyjson.NewClient(cfg.HTTPTimeout, cfg.HTTPRetries, log.NewLeveledLogger(logger)), nil
}

// NewDummyJSONRepository creates the remote repository instance.
func NewDummyJSONRepository(i do.Injector) (*dummyjson.Repository, error) {
	client := do.MustInvoke[*retryablehttp.Client](i)
	cfg := do.MustInvoke[*config.Config](i)

	return dummyjson.NewRepository(client, cfg.BaseURL, cfg.UsersLimit), nil
}

// NewRemote exposes the remote repository as app.Remote.
func NewRemote(i do.Injector) (app.Remote, error) {
	return do.MustInvoke[*dummyjson.Repository](i), nil
}

// NewCache creates a new cache instance.
func NewCache(i do.Injector) (cache.Cache, error) {
	cfg := do.MustInvoke[*config.Config](i)

	return cache.NewInMemoryCache(cache.WithIgnoreUnknownIDs(cfg.IgnoreUnknownIDs)), nil
}

// NewRepository creates a repository adapter that implements app.Repository.
// It wraps the remote repository with the in-memory cache.
func NewRepository(i do.Injector) (app.Repository, error) {
	remote := do.MustInvoke[app.Remote](i)
	cacheInstance := do.MustInvoke[cache.Cache](i)
	logger := do.MustInvoke[*logrus.Logger](i)

	return cached.NewCachedRepository(remote, cacheInstance, logger), nil
}

// NewSessionCodec signs sessions when a secret is configured and falls back
// to the plain JSON encoding otherwise.
func NewSessionCodec(i do.Injector) (auth.Codec, error) {
	cfg := do.MustInvoke[*config.Config](i)
	if cfg.SessionSecret == "" {
		return session.NewJSONCodec(), nil
	}

	codec, err := session.NewJWTCodec(cfg.SessionSecret, cfg.SessionTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to create session codec: %w", err)
	}

	return codec, nil
}

// NewRedisClient creates the redis client backing the redis session store.
func NewRedisClient(i do.Injector) (*redis.Client, error) {
	cfg := do.MustInvoke[*config.Config](i)

	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}), nil
}

// NewSessionStore picks the session store for the configured backend.
func NewSessionStore(i do.Injector) (auth.SessionStore, error) {
	cfg := do.MustInvoke[*config.Config](i)

	switch cfg.SessionBackend {
	case config.SessionBackendFile:
		return session.NewFileStore(cfg.SessionFile), nil
	case config.SessionBackendRedis:
		return session.NewRedisStore(do.MustInvoke[*redis.Client](i), cfg.RedisPrefix), nil
	case config.SessionBackendMemory:
		return session.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.SessionBackend)
	}
}

// NewFormatter creates the table formatter.
func NewFormatter(_ do.Injector) (*ascii.Formatter, error) {
	formatter, err := ascii.NewFormatter()
	if err != nil {
		return nil, fmt.Errorf("failed to create formatter: %w", err)
	}

	return formatter, nil
}

// NewHTTPServer creates a new HTTP server.
func NewHTTPServer(i do.Injector) (*httpadapter.Server, error) {
	cfg := do.MustInvoke[*config.Config](i)
	if cfg.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	appInstance := do.MustInvoke[*app.App](i)
	gate := do.MustInvoke[*auth.Gate](i)
	logger := do.MustInvoke[*logrus.Logger](i)

	return httpadapter.NewServer(cfg.ListenAddress, appInstance, gate, logger), nil
}
