package api

import (
	"net/http"

	"github.com/JaimeStill/typeset/internal/config"
	"github.com/JaimeStill/typeset/pkg/openapi"
	"github.com/JaimeStill/typeset/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
	runtime *Runtime,
	spec []byte,
) {
	storage := newStorageHandler(
		runtime.Storage,
		runtime.Logger,
		cfg.Storage.MaxListSize,
	)

	routes.Register(
		mux,
		domain.Jobs.Handler(cfg.API.MaxUploadSizeBytes()).Routes(),
		storage.routes(),
	)

	mux.HandleFunc("GET /openapi.json", openapi.ServeSpec(spec))
}
