package server

import (
	"errors"
	"net/http"
)

// authenticate runs the configured authorizers in order. The first provider
// that accepts the request supplies the caller identity; when none is
// configured the request passes through anonymously.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(s.Authorizers) == 0 {
			next.ServeHTTP(w, r)
			return
		}

		for _, authorizer := range s.Authorizers {
			ctx, err := authorizer.Authenticate(r.Context(), r)

			if err != nil {
				continue
			}

			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		writeError(w, http.StatusUnauthorized, errors.New("unauthorized"))
	})
}
