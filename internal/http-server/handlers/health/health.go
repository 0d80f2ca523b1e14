package health

import (
	"context"
	"github.com/go-chi/render"
	"log/slog"
	"net/http"
	resp "sessionstore/internal/lib/api/response"
	"sessionstore/internal/lib/logger/sl"
	"time"
)

const readyTimeout = time.Second

type ReadinessChecker interface {
	Ready(ctx context.Context) error
}

// New reports 200 once the storage finished its setup and 503 while it is
// still connecting or after setup failed.
func New(log *slog.Logger, checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.health.New"

		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()

		if err := checker.Ready(ctx); err != nil {
			log.Warn("storage is not ready", slog.String("op", op), sl.Err(err))

			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, resp.Error("storage is not ready"))
			return
		}

		render.JSON(w, r, resp.OK())
	}
}
