package app

import (
	"errors"
	"net/http"
	"strings"

	"github.com/budgetflow/budgetflow/internal/apperror"
	"github.com/budgetflow/budgetflow/internal/config"
	"github.com/budgetflow/budgetflow/internal/rest"
	"github.com/budgetflow/budgetflow/pkg/user"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// SetupMiddleware wires all HTTP middlewares for the application.
func SetupMiddleware(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Authenticate API requests and put the current user into context
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			path := req.URL.Path
			if !strings.HasPrefix(path, "/api/") || strings.HasPrefix(path, "/api/auth/") {
				next.ServeHTTP(w, req)
				return
			}

			token, ok := bearerToken(req)
			if !ok {
				rest.WriteError(w, apperror.Auth("missing bearer token"))
				return
			}
			claims, err := deps.TokenIssuer.Verify(token)
			if err != nil {
				rest.WriteError(w, err)
				return
			}

			ctx := req.Context()
			u, err := deps.UserService.GetUserByUid(ctx, claims.Subject)
			if err != nil {
				if errors.Is(err, user.ErrUserNotFound) {
					log.Debugf("user not found: %s", claims.Subject)
					rest.WriteError(w, apperror.Auth("unknown user"))
					return
				}
				log.Errorf("failed to get user: %v", err)
				rest.WriteError(w, err)
				return
			}
			ctx = user.WithUser(ctx, u)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
}

func bearerToken(req *http.Request) (string, bool) {
	header := req.Header.Get("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return "", false
	}
	return token, true
}
