package log

import (
	"os"

	"github.com/denchenko/cartdash/internal/config"
	do "github.com/samber/do/v2"
	"github.com/sirupsen/logrus"
)

var Package = do.Package(
	do.Lazy[*logrus.Logger](NewInjectedLogger),
)

// NewInjectedLogger creates the process logger on stderr from the configuration (for DI).
func NewInjectedLogger(i do.Injector) (*logrus.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	return NewLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)
}
