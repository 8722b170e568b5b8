package rankingservice

import (
	"context"

	rankingdomain "github.com/Black-And-White-Club/chart-ladders/app/modules/ranking/domain"
)

// Service defines the contract for chart and ladder ranking reads.
//
// Error semantics:
//   - Missing charts, chart types, groups and ladders return the matching
//     rankingdomain not-found sentinel.
//   - Malformed filter specs return rankingdomain.ErrInvalidFilterSpec and
//     unknown filter ids rankingdomain.ErrFilterNotFound.
//   - Anything else is an infrastructure error.
type Service interface {
	// FormatValue renders a raw record value with the chart type's format.
	FormatValue(ctx context.Context, chartTypeID int64, value int64) (string, error)

	// BuildFilterSpec merges the ladder's filter spec (when ladderID is set)
	// with raw, in that order, and parses the result.
	BuildFilterSpec(ctx context.Context, ladderID *int64, raw string) (rankingdomain.FilterSpec, error)

	// --- CHARTS ---

	GetChartRanking(ctx context.Context, chartID int64, q FilterQuery) (*ChartRanking, error)

	// GetChartOtherRecords returns the listed players' best records on the
	// other charts of a group shown together.
	GetChartOtherRecords(ctx context.Context, chartID int64, playerIDs []int64, q FilterQuery) ([]OtherChartRecords, error)

	GetChartRecordHistory(ctx context.Context, chartID int64, q HistoryQuery) (*RecordHistory, error)

	// RenderChartRecordHistory returns the record history as a PNG line chart.
	RenderChartRecordHistory(ctx context.Context, chartID int64, q HistoryQuery) ([]byte, error)

	// --- CHART GROUPS ---

	// GetChartGroupRanking lines up the rankings of the group's charts by the
	// main chart's ranking.
	GetChartGroupRanking(ctx context.Context, groupID int64, q GroupRankingQuery) (*ChartGroupRanking, error)

	GetChartGroupHierarchy(ctx context.Context, groupID int64) ([]HierarchyItemView, error)

	// --- RECORDS ---

	ListRecords(ctx context.Context, q RecordListQuery) ([]ListedRecordView, error)

	// --- LADDERS ---

	GetLadderCharts(ctx context.Context, ladderID int64) ([]ChartView, error)
	GetLadderRanking(ctx context.Context, ladderID int64) (*LadderRanking, error)

	// ExportLadderRanking returns the ladder ranking as an xlsx workbook.
	ExportLadderRanking(ctx context.Context, ladderID int64) ([]byte, error)

	// --- PLAYERS ---

	SearchPlayers(ctx context.Context, arg string) ([]PlayerView, error)
}
