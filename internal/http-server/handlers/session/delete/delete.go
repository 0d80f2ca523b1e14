package deletee

import (
	"context"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"log/slog"
	"net/http"
	resp "sessionstore/internal/lib/api/response"
	jwtlib "sessionstore/internal/lib/jwt"
	"sessionstore/internal/lib/logger/sl"
	"sessionstore/internal/storage"
)

//go:generate mockery --name=SessionDeleter --output=./mocks
type SessionDeleter interface {
	DeleteSession(ctx context.Context, id string) error
}

func New(log *slog.Logger, sessionDeleter SessionDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.session.delete.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		claims, err := jwtlib.GetClaimsFromContext(r.Context())
		if err != nil {
			log.Error("failed to get claims from context")
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("failed to get claims"))
			return
		}

		if role, _ := claims["role"].(string); role != jwtlib.RoleAdmin {
			log.Info("delete requires admin role")

			render.Status(r, http.StatusForbidden)
			render.JSON(w, r, resp.Error("access denied"))
			return
		}

		id := chi.URLParam(r, "id")
		if id == "" {
			log.Info("session id is empty")

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Error("invalid request"))
			return
		}

		err = sessionDeleter.DeleteSession(r.Context(), id)
		switch {
		case storage.IsUnavailable(err):
			log.Error("sessions storage unavailable", sl.Err(err))

			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, resp.Error("storage unavailable"))
			return
		case err != nil:
			log.Error("failed to delete session", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("internal server error"))
			return
		}

		log.Info("session deleted", slog.String("session_id", id))

		render.NoContent(w, r)
	}
}
