package api

import (
	"github.com/JaimeStill/typeset/internal/config"
	"github.com/JaimeStill/typeset/internal/jobs"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Jobs jobs.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(cfg *config.Config, runtime *Runtime) *Domain {
	jobsSystem := jobs.New(
		runtime.Database.Connection(),
		runtime.Storage,
		runtime.Engine,
		runtime.Toolchain,
		runtime.Logger,
		runtime.Pagination,
	)

	return &Domain{
		Jobs: jobsSystem,
	}
}
