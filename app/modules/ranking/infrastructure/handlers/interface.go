package rankinghandlers

import "net/http"

// Handlers serves the ranking read API.
type Handlers interface {
	HandleChartRanking(w http.ResponseWriter, r *http.Request)
	HandleChartOtherRecords(w http.ResponseWriter, r *http.Request)
	HandleChartHistory(w http.ResponseWriter, r *http.Request)
	HandleChartHistoryPNG(w http.ResponseWriter, r *http.Request)
	HandleFormatValue(w http.ResponseWriter, r *http.Request)
	HandleChartGroupRanking(w http.ResponseWriter, r *http.Request)
	HandleChartGroupHierarchy(w http.ResponseWriter, r *http.Request)
	HandleListRecords(w http.ResponseWriter, r *http.Request)
	HandleLadderCharts(w http.ResponseWriter, r *http.Request)
	HandleLadderRanking(w http.ResponseWriter, r *http.Request)
	HandleLadderRankingXLSX(w http.ResponseWriter, r *http.Request)
	HandleSearchPlayers(w http.ResponseWriter, r *http.Request)
}
