// Package api assembles the API module with all domain systems and route
// registration.
package api

import (
	"net/http"

	"github.com/JaimeStill/typeset/internal/config"
	"github.com/JaimeStill/typeset/internal/infrastructure"
	"github.com/JaimeStill/typeset/pkg/middleware"
	"github.com/JaimeStill/typeset/pkg/module"
	"github.com/JaimeStill/typeset/pkg/openapi"
)

// NewModule creates the API module with all domain handlers and middleware.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(cfg, runtime)

	spec, err := openapi.MarshalJSON(buildSpec(cfg))
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	registerRoutes(mux, domain, cfg, runtime, spec)

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Infrastructure.Logger))

	return m, nil
}
