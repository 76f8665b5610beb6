package httpapi

import (
	"net/http"

	"github.com/openfantasy/dota-fantasy/internal/platform/logging"
)

func NewRouter(
	handler *Handler,
	logger *logging.Logger,
	corsAllowedOrigins []string,
	internalJobToken string,
) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler)
	registerPublicRoutes(mux, handler)
	registerInternalJobRoutes(mux, handler, internalJobToken)

	return RequestTracing(RequestLogging(logger, CORS(corsAllowedOrigins, recoverPanic(logger, mux))))
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.recoverPanic")
		defer span.End()

		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(ctx, "panic recovered", "panic", rec)
				writeInternalError(ctx, w)
			}
		}()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/competitions/{competitionID}/rating", handler.GetCompetitionRating)
	mux.HandleFunc("GET /v1/competitions/{competitionID}/edit-status", handler.GetCompetitionEditStatus)
	mux.HandleFunc("GET /v1/tours/{tourID}/rating", handler.GetTourRating)
	mux.HandleFunc("POST /v1/fantasy/teams/{teamID}/pick-check", handler.CheckPick)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/register-matches", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunRegisterMatchesJob)))
	mux.Handle("POST /v1/internal/jobs/fetch-details", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunFetchDetailsJob)))
	mux.Handle("POST /v1/internal/jobs/rate-matches", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunRateMatchesJob)))
	mux.Handle("POST /v1/internal/jobs/save-to-players", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunSaveToPlayersJob)))
	mux.Handle("POST /v1/internal/jobs/update-fantasy-results", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunUpdateFantasyResultsJob)))
	mux.Handle("POST /v1/internal/ignore-matches", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.IgnoreMatches)))
}
