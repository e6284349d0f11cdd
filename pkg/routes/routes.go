// Package routes declares HTTP routes as prefix groups and registers them on a ServeMux.
package routes

import "net/http"

// Route binds a method and a pattern relative to its group.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
}

// Group collects routes under Prefix. Children extend the prefix.
type Group struct {
	Prefix   string
	Routes   []Route
	Children []Group
}

// Flatten returns every route of groups with its pattern expanded to
// "METHOD /full/path", depth first in declaration order.
func Flatten(groups ...Group) []Route {
	var out []Route
	var walk func(prefix string, g Group)
	walk = func(prefix string, g Group) {
		prefix += g.Prefix
		for _, r := range g.Routes {
			r.Pattern = r.Method + " " + prefix + r.Pattern
			out = append(out, r)
		}
		for _, c := range g.Children {
			walk(prefix, c)
		}
	}

	for _, g := range groups {
		walk("", g)
	}
	return out
}

// Register adds every route of groups to mux and returns the registered
// patterns. ServeMux panics on conflicting patterns.
func Register(mux *http.ServeMux, groups ...Group) []string {
	flat := Flatten(groups...)
	patterns := make([]string, len(flat))
	for i, r := range flat {
		mux.HandleFunc(r.Pattern, r.Handler)
		patterns[i] = r.Pattern
	}
	return patterns
}
