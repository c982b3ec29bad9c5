package api

import (
	"github.com/JaimeStill/typeset/internal/config"
	"github.com/JaimeStill/typeset/internal/infrastructure"
	"github.com/JaimeStill/typeset/pkg/pagination"
	"github.com/JaimeStill/typeset/pkg/toolchain"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination pagination.Config
	Toolchain  toolchain.Config
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Database:  infra.Database,
			Storage:   infra.Storage,
			Engine:    infra.Engine,
		},
		Pagination: cfg.API.Pagination,
		Toolchain:  cfg.Toolchain.Config,
	}
}
