package rankinghandlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	rankingservice "github.com/Black-And-White-Club/chart-ladders/app/modules/ranking/application"
	rankingdomain "github.com/Black-And-White-Club/chart-ladders/app/modules/ranking/domain"
	"github.com/Black-And-White-Club/chart-ladders/app/observability"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// RankingHandlers implements the Handlers interface over HTTP.
type RankingHandlers struct {
	service rankingservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewRankingHandlers creates a new RankingHandlers instance.
func NewRankingHandlers(
	service rankingservice.Service,
	logger *slog.Logger,
	tracer trace.Tracer,
) Handlers {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("ranking-handlers")
	}
	return &RankingHandlers{
		service: service,
		logger:  logger,
		tracer:  tracer,
	}
}

// startSpan opens the handler span and returns r carrying it.
func (h *RankingHandlers) startSpan(r *http.Request, name string) (*http.Request, trace.Span) {
	ctx, span := h.tracer.Start(r.Context(), "RankingHandlers."+name)
	if rctx := chi.RouteContext(ctx); rctx != nil {
		span.SetAttributes(attribute.String("http.route", rctx.RoutePattern()))
	}
	return r.WithContext(ctx), span
}

var errBadParameter = errors.New("bad parameter")

func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s %q: %w", name, raw, errBadParameter)
	}
	return id, nil
}

// optionalID parses an optional positive id query parameter.
func optionalID(r *http.Request, name string) (*int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, fmt.Errorf("%s %q: %w", name, raw, errBadParameter)
	}
	return &id, nil
}

// idList parses a comma-separated id list such as "1,3".
func idList(r *http.Request, name string) ([]int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("%s %q: %w", name, raw, errBadParameter)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func filterQuery(r *http.Request) (rankingservice.FilterQuery, error) {
	ladderID, err := optionalID(r, "ladder_id")
	if err != nil {
		return rankingservice.FilterQuery{}, err
	}
	return rankingservice.FilterQuery{LadderID: ladderID, Filters: r.URL.Query().Get("filters")}, nil
}

func historyQuery(r *http.Request) (rankingservice.HistoryQuery, error) {
	fq, err := filterQuery(r)
	if err != nil {
		return rankingservice.HistoryQuery{}, err
	}
	playerID, err := optionalID(r, "player_id")
	if err != nil {
		return rankingservice.HistoryQuery{}, err
	}
	return rankingservice.HistoryQuery{
		FilterQuery:  fq,
		PlayerID:     playerID,
		Improvements: r.URL.Query().Get("improvements"),
	}, nil
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadParameter),
		errors.Is(err, rankingdomain.ErrInvalidFilterSpec),
		errors.Is(err, rankingdomain.ErrFilterNotFound),
		errors.Is(err, rankingdomain.ErrNegativeValue),
		errors.Is(err, rankingdomain.ErrInvalidImprovementsOption),
		errors.Is(err, rankingdomain.ErrInvalidRecordSort),
		errors.Is(err, rankingservice.ErrChartsNotShownTogether),
		errors.Is(err, rankingservice.ErrUnboundedRecordList):
		return http.StatusBadRequest
	case errors.Is(err, rankingdomain.ErrChartNotFound),
		errors.Is(err, rankingdomain.ErrChartGroupNotFound),
		errors.Is(err, rankingdomain.ErrChartTypeNotFound),
		errors.Is(err, rankingdomain.ErrLadderNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (h *RankingHandlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		span := trace.SpanFromContext(r.Context())
		span.RecordError(err)
		span.SetStatus(codes.Error, "internal error")
		h.logger.ErrorContext(r.Context(), "Ranking request failed",
			observability.RequestIDAttr(r.Context()),
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
		http.Error(w, http.StatusText(status), status)
		return
	}
	http.Error(w, err.Error(), status)
}

func (h *RankingHandlers) writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to encode response",
			observability.RequestIDAttr(r.Context()),
			slog.Any("error", err),
		)
	}
}
