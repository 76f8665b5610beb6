package httpapi

import (
	"net/http"
)

type leagueIDsJobRequest struct {
	LeagueIDs  []int64 `json:"league_ids" validate:"required,min=1,dive,gt=0"`
	DispatchID string  `json:"dispatch_id,omitempty"`
}

type matchIDsJobRequest struct {
	MatchIDs   []int64 `json:"match_ids" validate:"required,min=1,dive,gt=0"`
	DispatchID string  `json:"dispatch_id,omitempty"`
}

type tourIDsJobRequest struct {
	TourIDs    []int64 `json:"tour_ids" validate:"required,min=1,dive,gt=0"`
	DispatchID string  `json:"dispatch_id,omitempty"`
}

func (h *Handler) RunRegisterMatchesJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunRegisterMatchesJob")
	defer span.End()

	var req leagueIDsJobRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.jobChain.RunRegisterMatches(ctx, req.LeagueIDs)
	if err != nil {
		h.logger.WarnContext(ctx, "register matches job failed", "league_ids", req.LeagueIDs, "dispatch_id", req.DispatchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) RunFetchDetailsJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunFetchDetailsJob")
	defer span.End()

	var req matchIDsJobRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.jobChain.RunFetchDetails(ctx, req.MatchIDs)
	if err != nil {
		h.logger.WarnContext(ctx, "fetch details job failed", "match_ids", req.MatchIDs, "dispatch_id", req.DispatchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) RunRateMatchesJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunRateMatchesJob")
	defer span.End()

	var req matchIDsJobRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.jobChain.RunRateMatches(ctx, req.MatchIDs)
	if err != nil {
		h.logger.WarnContext(ctx, "rate matches job failed", "match_ids", req.MatchIDs, "dispatch_id", req.DispatchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) RunSaveToPlayersJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSaveToPlayersJob")
	defer span.End()

	var req matchIDsJobRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.jobChain.RunSaveToPlayers(ctx, req.MatchIDs)
	if err != nil {
		h.logger.WarnContext(ctx, "save to players job failed", "match_ids", req.MatchIDs, "dispatch_id", req.DispatchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) RunUpdateFantasyResultsJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunUpdateFantasyResultsJob")
	defer span.End()

	var req tourIDsJobRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.jobChain.RunUpdateFantasyResults(ctx, req.TourIDs)
	if err != nil {
		h.logger.WarnContext(ctx, "update fantasy results job failed", "tour_ids", req.TourIDs, "dispatch_id", req.DispatchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) IgnoreMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.IgnoreMatches")
	defer span.End()

	var req matchIDsJobRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.pipeline.IgnoreMatches(ctx, req.MatchIDs)
	if err != nil {
		h.logger.WarnContext(ctx, "ignore matches failed", "match_ids", req.MatchIDs, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}
