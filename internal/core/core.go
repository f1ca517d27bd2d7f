package core

import (
	"github.com/denchenko/cartdash/internal/core/app"
	"github.com/denchenko/cartdash/internal/core/auth"
	do "github.com/samber/do/v2"
	"github.com/sirupsen/logrus"
)

var Package = do.Package(
	do.Lazy[*app.App](NewApp),
	do.Lazy[*auth.Gate](NewGate),
)

// NewApp creates a new App instance with dependencies from the injector.
func NewApp(i do.Injector) (*app.App, error) {
	repo := do.MustInvoke[app.Repository](i)
	remote := do.MustInvoke[app.Remote](i)
	logger := do.MustInvoke[*logrus.Logger](i)

	return app.NewApp(repo, remote, logger), nil
}

// NewGate creates the auth gate. Credentials are always checked against
// the remote service, never against the cache.
func NewGate(i do.Injector) (*auth.Gate, error) {
	remote := do.MustInvoke[app.Remote](i)
	store := do.MustInvoke[auth.SessionStore](i)
	codec := do.MustInvoke[auth.Codec](i)
	logger := do.MustInvoke[*logrus.Logger](i)

	return auth.NewGate(remote, store, codec, logger), nil
}
