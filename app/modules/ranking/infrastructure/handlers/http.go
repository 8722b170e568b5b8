package rankinghandlers

import (
	"fmt"
	"net/http"
	"strconv"

	rankingservice "github.com/Black-And-White-Club/chart-ladders/app/modules/ranking/application"
)

func (h *RankingHandlers) HandleChartRanking(w http.ResponseWriter, r *http.Request) {
	r, span := h.startSpan(r, "HandleChartRanking")
	defer span.End()
	ctx := r.Context()
	chartID, err := pathID(r, "chartID")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	q, err := filterQuery(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	ranking, err := h.service.GetChartRanking(ctx, chartID, q)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, ranking)
}

func (h *RankingHandlers) HandleChartOtherRecords(w http.ResponseWriter, r *http.Request) {
	r, span := h.startSpan(r, "HandleChartOtherRecords")
	defer span.End()
	ctx := r.Context()
	chartID, err := pathID(r, "chartID")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	playerIDs, err := idList(r, "player_ids")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	q, err := filterQuery(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	others, err := h.service.GetChartOtherRecords(ctx, chartID, playerIDs, q)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, others)
}

func (h *RankingHandlers) HandleChartHistory(w http.ResponseWriter, r *http.Request) {
	r, span := h.startSpan(r, "HandleChartHistory")
	defer span.End()
	ctx := r.Context()
	chartID, err := pathID(r, "chartID")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	q, err := historyQuery(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	history, err := h.service.GetChartRecordHistory(ctx, chartID, q)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, history)
}

func (h *RankingHandlers) HandleChartHistoryPNG(w http.ResponseWriter, r *http.Request) {
	r, span := h.startSpan(r, "HandleChartHistoryPNG")
	defer span.End()
	ctx := r.Context()
	chartID, err := pathID(r, "chartID")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	q, err := historyQuery(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	png, err := h.service.RenderChartRecordHistory(ctx, chartID, q)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	_, _ = w.Write(png)
}

func (h *RankingHandlers) HandleFormatValue(w http.ResponseWriter, r *http.Request) {
	r, span := h.startSpan(r, "HandleFormatValue")
	defer span.End()
	ctx := r.Context()
	chartTypeID, err := pathID(r, "chartTypeID")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	raw := r.URL.Query().Get("value")
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		h.writeError(w, r, fmt.Errorf("value %q: %w", raw, errBadParameter))
		return
	}

	display, err := h.service.FormatValue(ctx, chartTypeID, value)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, map[string]any{"value": value, "display": display})
}

func (h *RankingHandlers) HandleLadderCharts(w http.ResponseWriter, r *http.Request) {
	r, span := h.startSpan(r, "HandleLadderCharts")
	defer span.End()
	ctx := r.Context()
	ladderID, err := pathID(r, "ladderID")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	charts, err := h.service.GetLadderCharts(ctx, ladderID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, charts)
}

func (h *RankingHandlers) HandleLadderRanking(w http.ResponseWriter, r *http.Request) {
	r, span := h.startSpan(r, "HandleLadderRanking")
	defer span.End()
	ctx := r.Context()
	ladderID, err := pathID(r, "ladderID")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	ranking, err := h.service.GetLadderRanking(ctx, ladderID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, ranking)
}

func (h *RankingHandlers) HandleLadderRankingXLSX(w http.ResponseWriter, r *http.Request) {
	r, span := h.startSpan(r, "HandleLadderRankingXLSX")
	defer span.End()
	ctx := r.Context()
	ladderID, err := pathID(r, "ladderID")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	data, err := h.service.ExportLadderRanking(ctx, ladderID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="ladder-%d.xlsx"`, ladderID))
	_, _ = w.Write(data)
}

func (h *RankingHandlers) HandleSearchPlayers(w http.ResponseWriter, r *http.Request) {
	r, span := h.startSpan(r, "HandleSearchPlayers")
	defer span.End()
	ctx := r.Context()
	players, err := h.service.SearchPlayers(ctx, r.URL.Query().Get("search"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, players)
}

func (h *RankingHandlers) HandleChartGroupRanking(w http.ResponseWriter, r *http.Request) {
	r, span := h.startSpan(r, "HandleChartGroupRanking")
	defer span.End()
	ctx := r.Context()
	groupID, err := pathID(r, "groupID")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	fq, err := filterQuery(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	mainChartID, err := optionalID(r, "main_chart_id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	ranking, err := h.service.GetChartGroupRanking(ctx, groupID, rankingservice.GroupRankingQuery{FilterQuery: fq, MainChartID: mainChartID})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, ranking)
}

func (h *RankingHandlers) HandleChartGroupHierarchy(w http.ResponseWriter, r *http.Request) {
	r, span := h.startSpan(r, "HandleChartGroupHierarchy")
	defer span.End()
	ctx := r.Context()
	groupID, err := pathID(r, "groupID")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	items, err := h.service.GetChartGroupHierarchy(ctx, groupID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, items)
}

func (h *RankingHandlers) HandleListRecords(w http.ResponseWriter, r *http.Request) {
	r, span := h.startSpan(r, "HandleListRecords")
	defer span.End()
	ctx := r.Context()
	fq, err := filterQuery(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	chartID, err := optionalID(r, "chart_id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	playerID, err := optionalID(r, "player_id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	records, err := h.service.ListRecords(ctx, rankingservice.RecordListQuery{
		FilterQuery: fq,
		ChartID:     chartID,
		PlayerID:    playerID,
		Sort:        r.URL.Query().Get("sort"),
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, records)
}
