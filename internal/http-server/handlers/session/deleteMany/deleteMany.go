package deleteMany

import (
	"context"
	"errors"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"log/slog"
	"net/http"
	resp "sessionstore/internal/lib/api/response"
	jwtlib "sessionstore/internal/lib/jwt"
	"sessionstore/internal/lib/logger/sl"
	"sessionstore/internal/storage"
)

type Request struct {
	IDs []string `json:"ids" validate:"dive,required,max=255"`
}

//go:generate mockery --name=SessionsDeleter --output=./mocks
type SessionsDeleter interface {
	DeleteSessions(ctx context.Context, ids []string) error
}

func New(log *slog.Logger, sessionsDeleter SessionsDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.session.deleteMany.New"

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

		var req Request
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("failed to decode request body", sl.Err(err))

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Error("failed to decode request"))
			return
		}

		if err := validator.New().Struct(req); err != nil {
			var validateErr validator.ValidationErrors
			errors.As(err, &validateErr)

			log.Error("invalid request", sl.Err(err))

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Error(resp.ValidationError(validateErr)))
			return
		}

		err = sessionsDeleter.DeleteSessions(r.Context(), req.IDs)
		switch {
		case storage.IsUnavailable(err):
			log.Error("sessions storage unavailable", sl.Err(err))

			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, resp.Error("storage unavailable"))
			return
		case err != nil:
			log.Error("failed to delete sessions", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("internal server error"))
			return
		}

		log.Info("sessions deleted", slog.Int("count", len(req.IDs)))

		render.NoContent(w, r)
	}
}
