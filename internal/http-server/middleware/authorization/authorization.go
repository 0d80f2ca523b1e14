package authorization

import (
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/golang-jwt/jwt/v5"
	"log/slog"
	"net/http"
	resp "sessionstore/internal/lib/api/response"
	jwtlib "sessionstore/internal/lib/jwt"
	"sessionstore/internal/lib/logger/sl"
	"strings"
)

type TokenValidator interface {
	ValidateTokenAndGetClaims(tokenString string) (jwt.MapClaims, error)
}

// New rejects requests without a valid bearer token and puts the token
// claims into the request context for the session handlers.
func New(log *slog.Logger, tokenValidator TokenValidator) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		log := log.With(
			slog.String("component", "middleware/authorization"),
		)

		log.Info("authorization middleware enabled")

		fn := func(w http.ResponseWriter, r *http.Request) {
			log := log.With(
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				log.Info("authorization header is missing")
				unauthorized(w, r, "authorization header is required")
				return
			}

			tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || tokenString == "" {
				log.Info("invalid authorization format")
				unauthorized(w, r, "invalid authorization header format")
				return
			}

			claims, err := tokenValidator.ValidateTokenAndGetClaims(tokenString)
			if err != nil {
				log.Info("token validation failed", sl.Err(err))
				unauthorized(w, r, "invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(jwtlib.ContextWithClaims(r.Context(), claims)))
		}

		return http.HandlerFunc(fn)
	}
}

func unauthorized(w http.ResponseWriter, r *http.Request, msg string) {
	render.Status(r, http.StatusUnauthorized)
	render.JSON(w, r, resp.Error(msg))
}
