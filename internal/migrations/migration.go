// Package migrations holds the numbered deployment steps and the runner that applies them in order.
package migrations

import (
	"context"

	"github.com/rxtech-lab/leasable-nft-deployer/internal/framework"
	"github.com/sirupsen/logrus"
)

// Env is what the runner hands to every migration
type Env struct {
	Network string
	// Accounts are ordered, the first one is the deployer
	Accounts []string
	Deployer framework.Deployer
	Logger   logrus.FieldLogger
}

// Migration is one numbered deployment step
type Migration interface {
	Number() int
	Name() string
	Run(ctx context.Context, env Env) error
}

// EnvStore persists KEY=value pairs relative to a base path
type EnvStore interface {
	SetValue(basePath, key, value string) error
}

func (e Env) logger() logrus.FieldLogger {
	if e.Logger == nil {
		return logrus.StandardLogger()
	}
	return e.Logger
}
