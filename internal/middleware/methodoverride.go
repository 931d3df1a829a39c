package middleware

import (
	"net/http"
)

// methodOverrideField is the form field browsers use to tunnel PUT and
// DELETE through POST forms.
const methodOverrideField = "_method"

// MethodOverride wraps an HTTP handler and rewrites the method of POST
// requests carrying a _method form field or query parameter. It must wrap
// the router (not run inside it) so routing sees the rewritten method.
func MethodOverride(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			if m := overrideMethod(r); m != "" {
				r.Method = m
			}
		}
		next.ServeHTTP(w, r)
	})
}

func overrideMethod(r *http.Request) string {
	m := r.URL.Query().Get(methodOverrideField)
	if m == "" {
		// PostFormValue parses the body; the parsed form stays cached
		// on the request for the downstream handler.
		m = r.PostFormValue(methodOverrideField)
	}

	switch m {
	case http.MethodPut, http.MethodPatch, http.MethodDelete:
		return m
	}
	return ""
}
