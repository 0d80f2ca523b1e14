package load

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
	"strconv"
)

type Response struct {
	resp.Response
	Session *resp.Session `json:"session,omitempty"`
}

//go:generate mockery --name=SessionLoader --output=./mocks
type SessionLoader interface {
	LoadSession(ctx context.Context, id string) (*models.Session, error)
}

func New(log *slog.Logger, sessionLoader SessionLoader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.session.load.New"

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

		id := chi.URLParam(r, "id")
		if id == "" {
			log.Info("session id is empty")

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Error("invalid request"))
			return
		}

		session, ok := loadSession(w, r, log, sessionLoader, id)
		if !ok {
			return
		}

		// sessions of other shops are reported as missing
		if session == nil || !jwtlib.CanAccessShop(claims, session.Shop) {
			notFound(w, r, log, id)
			return
		}

		renderSession(w, r, *session)
	}
}

// NewByShop loads the offline session of a shop, or the online session of
// one of its users when the route carries {userID}.
func NewByShop(log *slog.Logger, sessionLoader SessionLoader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.session.load.NewByShop"

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

		id := models.OfflineID(shop)
		if rawUserID := chi.URLParam(r, "userID"); rawUserID != "" {
			userID, err := strconv.ParseInt(rawUserID, 10, 64)
			if err != nil {
				log.Info("invalid user id", slog.String("user_id", rawUserID))

				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, resp.Error("invalid user id"))
				return
			}
			id = models.OnlineID(shop, userID)
		}

		session, ok := loadSession(w, r, log, sessionLoader, id)
		if !ok {
			return
		}

		if session == nil {
			notFound(w, r, log, id)
			return
		}

		renderSession(w, r, *session)
	}
}

func loadSession(
	w http.ResponseWriter,
	r *http.Request,
	log *slog.Logger,
	sessionLoader SessionLoader,
	id string,
) (*models.Session, bool) {
	session, err := sessionLoader.LoadSession(r.Context(), id)
	switch {
	case storage.IsUnavailable(err):
		log.Error("sessions storage unavailable", sl.Err(err))

		render.Status(r, http.StatusServiceUnavailable)
		render.JSON(w, r, resp.Error("storage unavailable"))
		return nil, false
	case err != nil:
		log.Error("failed to load session", sl.Err(err))

		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, resp.Error("failed to load session"))
		return nil, false
	}

	return session, true
}

func notFound(w http.ResponseWriter, r *http.Request, log *slog.Logger, id string) {
	log.Info("session not found", slog.String("session_id", id))

	render.Status(r, http.StatusNotFound)
	render.JSON(w, r, resp.Error("session not found"))
}

func renderSession(w http.ResponseWriter, r *http.Request, session models.Session) {
	payload := resp.SessionFromModel(session)

	render.JSON(w, r, Response{
		Response: resp.OK(),
		Session:  &payload,
	})
}
