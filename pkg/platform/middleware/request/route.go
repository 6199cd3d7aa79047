package request

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// routePattern keeps metric label cardinality bounded by using chi's matched
// pattern instead of the raw path.
func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}
