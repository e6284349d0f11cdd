package module

import (
	"fmt"
	"net/http"
	"slices"
	"strings"
)

// Router dispatches by first path segment to mounted modules. Paths that match
// no module fall through to a ServeMux of top-level handlers such as health checks.
type Router struct {
	modules map[string]*Module
	native  *http.ServeMux
}

// NewRouter creates an empty Router.
func NewRouter() *Router {
	return &Router{
		modules: make(map[string]*Module),
		native:  http.NewServeMux(),
	}
}

// Handle registers a top-level handler for a ServeMux pattern.
func (r *Router) Handle(pattern string, h http.Handler) {
	r.native.Handle(pattern, h)
}

// HandleFunc registers a top-level handler function for a ServeMux pattern.
func (r *Router) HandleFunc(pattern string, fn http.HandlerFunc) {
	r.native.Handle(pattern, fn)
}

// Mount registers m under its prefix. Panics if the prefix is already taken.
func (r *Router) Mount(m *Module) {
	if _, ok := r.modules[m.prefix]; ok {
		panic(fmt.Sprintf("module prefix already mounted: %s", m.prefix))
	}
	r.modules[m.prefix] = m
}

// Prefixes returns the mounted module prefixes in sorted order.
func (r *Router) Prefixes() []string {
	out := make([]string, 0, len(r.modules))
	for p := range r.modules {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}

// ServeHTTP trims a trailing slash and dispatches to the owning module or
// the top-level mux.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if p := req.URL.Path; len(p) > 1 && strings.HasSuffix(p, "/") {
		req.URL.Path = strings.TrimSuffix(p, "/")
	}

	if m, ok := r.modules[firstSegment(req.URL.Path)]; ok {
		m.ServeHTTP(w, req)
		return
	}
	r.native.ServeHTTP(w, req)
}

func firstSegment(path string) string {
	rest := strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		rest = rest[:i]
	}
	return "/" + rest
}
