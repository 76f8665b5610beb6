package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/openfantasy/dota-fantasy/internal/platform/logging"
	"github.com/openfantasy/dota-fantasy/internal/usecase"
)

type Handler struct {
	jobChain      *usecase.JobChainService
	pipeline      *usecase.PipelineService
	ratingService *usecase.RatingService
	logger        *logging.Logger
	validator     *validator.Validate
}

func NewHandler(
	jobChain *usecase.JobChainService,
	pipeline *usecase.PipelineService,
	ratingService *usecase.RatingService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		jobChain:      jobChain,
		pipeline:      pipeline,
		ratingService: ratingService,
		logger:        logger,
		validator:     validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) GetCompetitionRating(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetCompetitionRating")
	defer span.End()

	competitionID, err := parseIDPathValue(r, "competitionID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	rows, err := h.ratingService.CompetitionRating(ctx, competitionID)
	if err != nil {
		h.logger.WarnContext(ctx, "competition rating failed", "competition_id", competitionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rows)
}

func (h *Handler) GetTourRating(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTourRating")
	defer span.End()

	tourID, err := parseIDPathValue(r, "tourID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	rows, err := h.ratingService.TourRating(ctx, tourID)
	if err != nil {
		h.logger.WarnContext(ctx, "tour rating failed", "tour_id", tourID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rows)
}

func (h *Handler) GetCompetitionEditStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetCompetitionEditStatus")
	defer span.End()

	competitionID, err := parseIDPathValue(r, "competitionID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	status, err := h.ratingService.CompetitionEditStatus(ctx, competitionID)
	if err != nil {
		h.logger.WarnContext(ctx, "competition edit status failed", "competition_id", competitionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, status)
}

type pickCheckRequest struct {
	TourID   int64 `json:"tour_id" validate:"required,gt=0"`
	PlayerID int64 `json:"player_id" validate:"required,gt=0"`
}

type pickCheckResponse struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

func (h *Handler) CheckPick(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CheckPick")
	defer span.End()

	teamID, err := parseIDPathValue(r, "teamID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req pickCheckRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	err = h.ratingService.CheckPick(ctx, teamID, req.TourID, req.PlayerID)
	switch {
	case err == nil:
		writeSuccess(ctx, w, http.StatusOK, pickCheckResponse{Allowed: true})
	case isPickRejection(err):
		writeSuccess(ctx, w, http.StatusOK, pickCheckResponse{Allowed: false, Reason: err.Error()})
	default:
		h.logger.WarnContext(ctx, "pick check failed", "team_id", teamID, "tour_id", req.TourID, "player_id", req.PlayerID, "error", err)
		writeError(ctx, w, err)
	}
}

func isPickRejection(err error) bool {
	mapped := mapError(err)
	return mapped.Reason == "invalidPick"
}

func (h *Handler) decodeAndValidate(r *http.Request, target any) error {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(target); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: request body is required", usecase.ErrInvalidInput)
		}
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	if err := h.validator.Struct(target); err != nil {
		return fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

func parseIDPathValue(r *http.Request, name string) (int64, error) {
	raw := strings.TrimSpace(r.PathValue(name))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", usecase.ErrInvalidInput, name)
	}
	return id, nil
}
