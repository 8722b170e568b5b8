package rankingservice

import (
	"time"

	rankingdomain "github.com/Black-And-White-Club/chart-ladders/app/modules/ranking/domain"
)

// FilterQuery carries the filter parameters of a chart request.
type FilterQuery struct {
	// LadderID, when set, prepends the ladder's filter spec.
	LadderID *int64
	Filters  string
}

// HistoryQuery carries the parameters of a record history request.
type HistoryQuery struct {
	FilterQuery
	// PlayerID restricts the history to one player; nil gives the chart's
	// overall history.
	PlayerID     *int64
	Improvements string
}

// GroupRankingQuery carries the parameters of a chart group ranking request.
type GroupRankingQuery struct {
	FilterQuery
	// MainChartID picks the chart whose ranking orders the rows; nil means
	// the group's first chart.
	MainChartID *int64
}

// RecordListQuery carries the parameters of a record list request. At least
// one of ChartID and PlayerID is set.
type RecordListQuery struct {
	FilterQuery
	ChartID  *int64
	PlayerID *int64
	// Sort is date_submitted (default), date_achieved or value.
	Sort string
}

// ChartView is a chart as listed by a ladder.
type ChartView struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	ChartGroupID int64  `json:"chart_group_id"`
	ChartTypeID  int64  `json:"chart_type_id"`
}

// AppliedFilter is a filter attached to a record.
type AppliedFilter struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	FilterGroupID int64  `json:"filter_group_id"`
}

// RecordView is a record ready for display.
type RecordView struct {
	Rank         int             `json:"rank,omitempty"`
	ID           int64           `json:"id"`
	PlayerID     int64           `json:"player_id"`
	Username     string          `json:"username"`
	Value        int64           `json:"value"`
	Display      string          `json:"display"`
	DateAchieved time.Time       `json:"date_achieved"`
	Filters      []AppliedFilter `json:"filters"`
}

// ChartRanking is a chart's leaderboard under a filter spec.
type ChartRanking struct {
	ChartID        int64        `json:"chart_id"`
	ChartName      string       `json:"chart_name"`
	OrderAscending bool         `json:"order_ascending"`
	FilterSpec     string       `json:"filter_spec"`
	Records        []RecordView `json:"records"`
}

// OtherChartRecords holds the best records on one other chart of a group.
type OtherChartRecords struct {
	ChartID   int64        `json:"chart_id"`
	ChartName string       `json:"chart_name"`
	Records   []RecordView `json:"records"`
}

// ChartGroupRankingRow pairs a main chart record with the same player's
// records on the group's other charts; a nil entry marks no record.
type ChartGroupRankingRow struct {
	MainRecord   RecordView    `json:"main_record"`
	OtherRecords []*RecordView `json:"other_records"`
}

// ChartGroupRanking ranks a group's charts side by side, ordered by the main
// chart's ranking.
type ChartGroupRanking struct {
	ChartGroupID int64                  `json:"chart_group_id"`
	Name         string                 `json:"name"`
	FilterSpec   string                 `json:"filter_spec"`
	MainChart    *ChartView             `json:"main_chart"`
	OtherCharts  []ChartView            `json:"other_charts"`
	Rows         []ChartGroupRankingRow `json:"rows"`
}

// HierarchyItemView is a chart group with its items, or a chart.
type HierarchyItemView struct {
	Name               string              `json:"name"`
	ChartGroupID       *int64              `json:"chart_group_id,omitempty"`
	ShowChartsTogether *bool               `json:"show_charts_together,omitempty"`
	Items              []HierarchyItemView `json:"items,omitempty"`
	ChartID            *int64              `json:"chart_id,omitempty"`
}

// ListedRecordView is a record of a record list, which may span charts.
type ListedRecordView struct {
	RecordView
	ChartID int64 `json:"chart_id"`
}

// HistoryRecordView is a record history row.
type HistoryRecordView struct {
	RecordView
	IsImprovement bool `json:"is_improvement"`
}

// RecordHistory is a chart's records, latest first.
type RecordHistory struct {
	ChartID        int64               `json:"chart_id"`
	ChartName      string              `json:"chart_name"`
	PlayerID       *int64              `json:"player_id,omitempty"`
	OrderAscending bool                `json:"order_ascending"`
	Improvements   string              `json:"improvements"`
	Records        []HistoryRecordView `json:"records"`

	formatSpec rankingdomain.FormatSpec
}

// LadderCellView is a player's best record on one ladder chart.
type LadderCellView struct {
	ChartID int64  `json:"chart_id"`
	Rank    int    `json:"rank"`
	Value   int64  `json:"value"`
	Display string `json:"display"`
}

// LadderTotalView is a chart tag total; Value and Display are null when the
// total is undefined.
type LadderTotalView struct {
	ChartTagID int64   `json:"chart_tag_id"`
	Name       string  `json:"name"`
	Value      *int64  `json:"value"`
	Display    *string `json:"display"`
}

// LadderEntryView is one row of a ladder ranking.
type LadderEntryView struct {
	Rank       int               `json:"rank"`
	PlayerID   int64             `json:"player_id"`
	Username   string            `json:"username"`
	AF         string            `json:"af"`
	SRPR       string            `json:"srpr"`
	LastActive string            `json:"last_active"`
	Totals     []LadderTotalView `json:"totals"`
	// Cells follows Charts; null marks a chart without a record.
	Cells []*LadderCellView `json:"cells"`
}

// LadderRanking is the full ranking of a ladder.
type LadderRanking struct {
	LadderID   int64             `json:"ladder_id"`
	Name       string            `json:"name"`
	Kind       string            `json:"kind"`
	FilterSpec string            `json:"filter_spec"`
	Charts     []ChartView       `json:"charts"`
	Entries    []LadderEntryView `json:"entries"`
}

// PlayerView is a player search result.
type PlayerView struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}
