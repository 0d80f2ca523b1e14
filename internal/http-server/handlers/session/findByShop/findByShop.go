package findByShop

import (
	"context"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"log/slog"
	"net/http"
	"sessionstore/internal/domain/models"
	resp "sessionstore/internal/lib/api/response"
	jwtlib "sessionstore/internal/lib/jwt"
	"sessionstore/internal/lib/logger/sl"
	"sessionstore/internal/storage"
	"time"
)

type Response struct {
	resp.Response
	Sessions []resp.Session `json:"sessions"`
}

//go:generate mockery --name=SessionFinder --output=./mocks
type SessionFinder interface {
	FindSessionsByShop(ctx context.Context, shop string) ([]models.Session, error)
}

func New(log *slog.Logger, sessionFinder SessionFinder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.session.findByShop.New"

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

		shop := chi.URLParam(r, "shop")
		if shop == "" {
			log.Info("shop is empty")

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Error("invalid request"))
			return
		}

		if !jwtlib.CanAccessShop(claims, shop) {
			log.Info("shop not allowed for token", slog.String("shop", shop))

			render.Status(r, http.StatusForbidden)
			render.JSON(w, r, resp.Error("access denied"))
			return
		}

		sessions, err := sessionFinder.FindSessionsByShop(r.Context(), shop)
		switch {
		case storage.IsUnavailable(err):
			log.Error("sessions storage unavailable", sl.Err(err))

			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, resp.Error("storage unavailable"))
			return
		case err != nil:
			log.Error("failed to find sessions", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("failed to find sessions"))
			return
		}

		// ?scope= keeps only sessions that can serve requests for exactly that scope
		if scope := r.URL.Query().Get("scope"); scope != "" {
			sessions = activeSessions(sessions, scope, time.Now())
		}

		log.Debug("sessions found", slog.String("shop", shop), slog.Int("count", len(sessions)))

		render.JSON(w, r, Response{
			Response: resp.OK(),
			Sessions: resp.SessionsFromModels(sessions),
		})
	}
}

func activeSessions(sessions []models.Session, scope string, now time.Time) []models.Session {
	res := make([]models.Session, 0, len(sessions))
	for _, session := range sessions {
		if session.IsActive(scope, now) {
			res = append(res, session)
		}
	}
	return res
}
