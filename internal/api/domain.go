package api

import (
	"github.com/JaimeStill/taxon/internal/export"
	"github.com/JaimeStill/taxon/internal/prompts"
	"github.com/JaimeStill/taxon/internal/sessions"
	"github.com/JaimeStill/taxon/internal/table"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Sessions sessions.System
	Prompts  prompts.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	sessionsSystem := sessions.New(
		runtime.Dispatcher,
		table.New(runtime.Pagination),
		export.NewPublisher(runtime.Storage, runtime.Logger),
		runtime.Lifecycle,
		runtime.Logger,
	)

	return &Domain{
		Sessions: sessionsSystem,
		Prompts:  runtime.Prompts,
	}
}
