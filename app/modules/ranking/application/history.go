package rankingservice

import (
	"context"
	"fmt"

	rankingdomain "github.com/Black-And-White-Club/chart-ladders/app/modules/ranking/domain"
	rankingdb "github.com/Black-And-White-Club/chart-ladders/app/modules/ranking/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// GetChartRecordHistory lists the chart's filtered records latest first,
// optionally for one player only.
func (s *RankingService) GetChartRecordHistory(ctx context.Context, chartID int64, q HistoryQuery) (*RecordHistory, error) {
	return withTelemetry(s, ctx, "GetChartRecordHistory", idString(chartID), func(ctx context.Context) (*RecordHistory, error) {
		return s.chartRecordHistory(ctx, chartID, q)
	})
}

// RenderChartRecordHistory draws the record history as a PNG.
func (s *RankingService) RenderChartRecordHistory(ctx context.Context, chartID int64, q HistoryQuery) ([]byte, error) {
	return withTelemetry(s, ctx, "RenderChartRecordHistory", idString(chartID), func(ctx context.Context) ([]byte, error) {
		history, err := s.chartRecordHistory(ctx, chartID, q)
		if err != nil {
			return nil, err
		}
		png, err := GenerateRecordHistoryChart(history, s.palette)
		if err != nil {
			return nil, fmt.Errorf("failed to render history chart: %w", err)
		}
		return png, nil
	})
}

func (s *RankingService) chartRecordHistory(ctx context.Context, chartID int64, q HistoryQuery) (*RecordHistory, error) {
	option, err := rankingdomain.ParseImprovementsOption(q.Improvements)
	if err != nil {
		return nil, err
	}
	return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (*RecordHistory, error) {
		return s.getChartRecordHistoryLogic(ctx, db, chartID, q, option)
	})
}

func (s *RankingService) getChartRecordHistoryLogic(ctx context.Context, db bun.IDB, chartID int64, q HistoryQuery, option rankingdomain.ImprovementsOption) (*RecordHistory, error) {
	cc, err := s.loadChartContext(ctx, db, chartID, q.FilterQuery)
	if err != nil {
		return nil, err
	}

	query := rankingdb.RecordQuery{ChartIDs: []int64{chartID}}
	if q.PlayerID != nil {
		query.PlayerIDs = []int64{*q.PlayerID}
	}
	records, err := s.repo.GetRecords(ctx, db, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get records: %w", err)
	}
	filtered, err := rankingdomain.ApplyFilterSpec(records, cc.spec, cc.catalog, &cc.chartType)
	if err != nil {
		return nil, err
	}
	rankingdomain.SortLatestFirst(filtered)

	var history []rankingdomain.HistoryRecord
	switch option {
	case rankingdomain.ImprovementsFilter:
		history = rankingdomain.FilterImprovements(filtered, cc.chartType.OrderAscending)
	default:
		history = rankingdomain.FlagImprovements(filtered, cc.chartType.OrderAscending)
	}

	players, err := s.repo.GetPlayers(ctx, db, playerIDsOf(filtered))
	if err != nil {
		return nil, fmt.Errorf("failed to get players: %w", err)
	}

	views := make([]HistoryRecordView, 0, len(history))
	for _, h := range history {
		v, err := recordView(h.Record, 0, cc.chartType, cc.catalog, players)
		if err != nil {
			return nil, err
		}
		views = append(views, HistoryRecordView{RecordView: v, IsImprovement: h.IsImprovement})
	}

	return &RecordHistory{
		ChartID:        cc.chart.ID,
		ChartName:      cc.chart.Name,
		PlayerID:       q.PlayerID,
		OrderAscending: cc.chartType.OrderAscending,
		Improvements:   string(option),
		Records:        views,
		formatSpec:     cc.chartType.FormatSpec,
	}, nil
}
