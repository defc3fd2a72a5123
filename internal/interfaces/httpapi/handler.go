package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/arena-streams/internal/domain/match"
	"github.com/riskibarqy/arena-streams/internal/platform/logging"
	"github.com/riskibarqy/arena-streams/internal/usecase"
)

// SiteConfig is the public identity used in page metadata.
type SiteConfig struct {
	URL         string
	Name        string
	AnalyticsID string
}

type Handler struct {
	matchService *usecase.MatchService
	site         SiteConfig
	logger       *logging.Logger
	validator    *validator.Validate
	now          func() time.Time
}

func NewHandler(matchService *usecase.MatchService, site SiteConfig, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	site.URL = strings.TrimRight(site.URL, "/")
	if site.Name == "" {
		site.Name = "ArenaStreams"
	}

	return &Handler{
		matchService: matchService,
		site:         site,
		logger:       logger,
		validator:    validator.New(),
		now:          time.Now,
	}
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

type sportParams struct {
	Sport string `validate:"required,max=64,printascii"`
}

type streamParams struct {
	Source string `validate:"required,max=64,printascii"`
	ID     string `validate:"required,max=256,printascii"`
}

type embedParams struct {
	ID string `validate:"required,max=256,printascii"`
}

type slugParams struct {
	Slug string `validate:"required,max=512"`
}

type healthResponse struct {
	Status    string `json:"status"`
	Timestamp int64  `json:"timestamp"`
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Health")
	defer span.End()

	writeJSON(ctx, w, http.StatusOK, healthResponse{Status: "ok", Timestamp: h.now().UnixMilli()})
}

func (h *Handler) ListSports(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSports")
	defer span.End()

	body, err := h.matchService.ListSports(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list sports failed", "error", err)
		writeError(ctx, w, err, "Failed to fetch sports")
		return
	}

	setCacheControl(w, cacheSports)
	writeRawJSON(ctx, w, http.StatusOK, body)
}

func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatches")
	defer span.End()

	params := sportParams{Sport: r.PathValue("sport")}
	if err := h.validateRequest(ctx, params); err != nil {
		writeError(ctx, w, err, "Failed to fetch matches")
		return
	}

	items, err := h.matchService.ListMatches(ctx, params.Sport)
	if err != nil {
		h.logger.WarnContext(ctx, "list matches failed", "sport", params.Sport, "error", err)
		writeError(ctx, w, err, "Failed to fetch matches")
		return
	}
	if items == nil {
		items = []match.RawMatch{}
	}

	setCacheControl(w, cacheMatches)
	writeJSON(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetStream(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetStream")
	defer span.End()

	params := streamParams{Source: r.PathValue("source"), ID: r.PathValue("id")}
	if err := h.validateRequest(ctx, params); err != nil {
		writeError(ctx, w, err, "Failed to fetch stream")
		return
	}

	body, err := h.matchService.GetStream(ctx, params.Source, params.ID)
	if err != nil {
		h.logger.WarnContext(ctx, "get stream failed", "source", params.Source, "id", params.ID, "error", err)
		writeError(ctx, w, err, "Failed to fetch stream")
		return
	}

	setCacheControl(w, cacheStream)
	writeRawJSON(ctx, w, http.StatusOK, body)
}

func (h *Handler) GetStreamEmbed(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetStreamEmbed")
	defer span.End()

	params := embedParams{ID: r.PathValue("id")}
	if err := h.validateRequest(ctx, params); err != nil {
		writeError(ctx, w, err, "Failed to fetch stream embed")
		return
	}

	body, err := h.matchService.GetStreamEmbed(ctx, params.ID)
	if err != nil {
		h.logger.WarnContext(ctx, "get stream embed failed", "id", params.ID, "error", err)
		writeError(ctx, w, err, "Failed to fetch stream embed")
		return
	}

	setCacheControl(w, cacheStream)
	writeRawJSON(ctx, w, http.StatusOK, body)
}

func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatch")
	defer span.End()

	params := slugParams{Slug: r.PathValue("slug")}
	if err := h.validateRequest(ctx, params); err != nil {
		writeError(ctx, w, err, "Failed to fetch match")
		return
	}

	resolved, err := h.matchService.ResolveBySlug(ctx, params.Slug)
	if err != nil {
		h.logger.InfoContext(ctx, "resolve match failed", "slug", params.Slug, "error", err)
		writeError(ctx, w, err, "Failed to fetch match")
		return
	}

	setCacheControl(w, cacheMatch)
	writeJSON(ctx, w, http.StatusOK, resolved)
}

func (h *Handler) APINotFound(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.APINotFound")
	defer span.End()

	writeJSON(ctx, w, http.StatusNotFound, errorBody{Error: "Not found"})
}
