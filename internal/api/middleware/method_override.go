package middleware

import (
	"net/http"
	"strings"
)

// overrideHeaders are checked in order; the first non-empty one wins.
var overrideHeaders = []string{
	"X-HTTP-Method",
	"X-HTTP-Method-Override",
	"X-Method-Override",
}

var overridableMethods = map[string]bool{
	http.MethodGet:    true,
	http.MethodPut:    true,
	http.MethodPatch:  true,
	http.MethodDelete: true,
}

// MethodOverride lets clients that can only POST (HTML forms, some mobile
// HTTP stacks) tunnel PUT and DELETE through a header or a _method query
// parameter. It wraps the router because gin picks the route before any
// router middleware runs.
func MethodOverride(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			if method := overrideMethod(r); method != "" {
				r.Method = method
			}
		}
		next.ServeHTTP(w, r)
	})
}

func overrideMethod(r *http.Request) string {
	candidate := ""
	for _, h := range overrideHeaders {
		if v := r.Header.Get(h); v != "" {
			candidate = v
			break
		}
	}
	if candidate == "" {
		candidate = r.URL.Query().Get("_method")
	}

	candidate = strings.ToUpper(strings.TrimSpace(candidate))
	if !overridableMethods[candidate] {
		return ""
	}
	return candidate
}
