package save

import (
	"context"
	"errors"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"log/slog"
	"net/http"
	"sessionstore/internal/domain/models"
	resp "sessionstore/internal/lib/api/response"
	jwtlib "sessionstore/internal/lib/jwt"
	"sessionstore/internal/lib/logger/sl"
	"sessionstore/internal/storage"
	"time"
)

type Request struct {
	ID               string `json:"id" validate:"required,max=255"`
	Shop             string `json:"shop" validate:"required,max=255"`
	State            string `json:"state" validate:"max=255"`
	IsOnline         bool   `json:"isOnline"`
	Scope            string `json:"scope,omitempty" validate:"max=255"`
	Expires          int64  `json:"expires,omitempty" validate:"min=0"`
	OnlineAccessInfo string `json:"onlineAccessInfo,omitempty" validate:"max=255"`
	AccessToken      string `json:"accessToken,omitempty" validate:"max=255"`
}

//go:generate mockery --name=SessionSaver --output=./mocks
type SessionSaver interface {
	StoreSession(ctx context.Context, session models.Session) error
}

func New(log *slog.Logger, sessionSaver SessionSaver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.session.save.New"

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

		var req Request
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("failed to decode request body", sl.Err(err))

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Error("failed to decode request"))
			return
		}

		log.Info("request body decoded",
			slog.String("session_id", req.ID),
			slog.String("shop", req.Shop),
		)

		if err := validator.New().Struct(req); err != nil {
			var validateErr validator.ValidationErrors
			errors.As(err, &validateErr)

			log.Error("invalid request", sl.Err(err))

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Error(resp.ValidationError(validateErr)))
			return
		}

		if !jwtlib.CanAccessShop(claims, req.Shop) {
			log.Info("shop is not allowed for token", slog.String("shop", req.Shop))

			render.Status(r, http.StatusForbidden)
			render.JSON(w, r, resp.Error("access denied"))
			return
		}

		session := models.Session{
			ID:               req.ID,
			Shop:             req.Shop,
			State:            req.State,
			IsOnline:         req.IsOnline,
			Scope:            req.Scope,
			OnlineAccessInfo: req.OnlineAccessInfo,
			AccessToken:      req.AccessToken,
		}
		if req.Expires != 0 {
			session.Expires = time.UnixMilli(req.Expires).UTC()
		}

		err = sessionSaver.StoreSession(r.Context(), session)
		switch {
		case errors.Is(err, storage.ErrInvalidSession):
			log.Info("invalid session", sl.Err(err))

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Error("invalid session"))
			return
		case storage.IsUnavailable(err):
			log.Error("sessions storage unavailable", sl.Err(err))

			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, resp.Error("storage unavailable"))
			return
		case err != nil:
			log.Error("failed to store session", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("failed to store session"))
			return
		}

		log.Info("session stored", slog.String("session_id", session.ID))

		render.JSON(w, r, resp.OK())
	}
}
