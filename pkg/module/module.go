// Package module composes the HTTP surface from prefix-mounted modules.
package module

import (
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/JaimeStill/taxon/pkg/middleware"
)

// Module serves everything under a single-level path prefix through its own
// middleware chain. The prefix is stripped before the inner handler runs.
type Module struct {
	prefix string
	inner  http.Handler
	chain  middleware.Chain

	once    sync.Once
	handler http.Handler
}

// New creates a Module for prefix (e.g. "/api"). Panics if the prefix is
// empty, lacks a leading slash, or has more than one segment.
func New(prefix string, inner http.Handler) *Module {
	if err := validatePrefix(prefix); err != nil {
		panic(err)
	}
	return &Module{prefix: prefix, inner: inner}
}

// Use appends middleware. It has no effect once the module has served a request.
func (m *Module) Use(fns ...middleware.Func) {
	m.chain.Use(fns...)
}

// Prefix returns the module's path prefix.
func (m *Module) Prefix() string {
	return m.prefix
}

// Handler returns the inner handler wrapped in the middleware chain.
func (m *Module) Handler() http.Handler {
	m.once.Do(func() {
		m.handler = m.chain.Then(m.inner)
	})
	return m.handler
}

// ServeHTTP strips the module prefix and dispatches to Handler.
func (m *Module) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r := req.Clone(req.Context())
	r.URL.Path = strings.TrimPrefix(req.URL.Path, m.prefix)
	if r.URL.Path == "" {
		r.URL.Path = "/"
	}
	r.URL.RawPath = ""
	m.Handler().ServeHTTP(w, r)
}

func validatePrefix(prefix string) error {
	switch {
	case prefix == "":
		return fmt.Errorf("module prefix cannot be empty")
	case !strings.HasPrefix(prefix, "/"):
		return fmt.Errorf("module prefix must start with /: %s", prefix)
	case strings.Count(prefix, "/") != 1 || prefix == "/":
		return fmt.Errorf("module prefix must be a single-level sub-path: %s", prefix)
	}
	return nil
}
