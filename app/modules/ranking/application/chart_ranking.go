package rankingservice

import (
	"context"
	"fmt"

	rankingdomain "github.com/Black-And-White-Club/chart-ladders/app/modules/ranking/domain"
	rankingdb "github.com/Black-And-White-Club/chart-ladders/app/modules/ranking/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// FormatValue renders value with the chart type's format spec.
func (s *RankingService) FormatValue(ctx context.Context, chartTypeID int64, value int64) (string, error) {
	return withTelemetry(s, ctx, "FormatValue", idString(chartTypeID), func(ctx context.Context) (string, error) {
		ct, err := s.repo.GetChartType(ctx, nil, chartTypeID)
		if err != nil {
			return "", fmt.Errorf("failed to get chart type: %w", mapNotFound(err, rankingdomain.ErrChartTypeNotFound))
		}
		return ct.FormatSpec.Format(value)
	})
}

// BuildFilterSpec merges the ladder's spec with raw and parses the result.
func (s *RankingService) BuildFilterSpec(ctx context.Context, ladderID *int64, raw string) (rankingdomain.FilterSpec, error) {
	return withTelemetry(s, ctx, "BuildFilterSpec", raw, func(ctx context.Context) (rankingdomain.FilterSpec, error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (rankingdomain.FilterSpec, error) {
			return s.buildFilterSpec(ctx, db, ladderID, raw)
		})
	})
}

func (s *RankingService) buildFilterSpec(ctx context.Context, db bun.IDB, ladderID *int64, raw string) (rankingdomain.FilterSpec, error) {
	merged := raw
	if ladderID != nil {
		ladder, err := s.repo.GetLadder(ctx, db, *ladderID)
		if err != nil {
			return rankingdomain.FilterSpec{}, fmt.Errorf("failed to get ladder: %w", mapNotFound(err, rankingdomain.ErrLadderNotFound))
		}
		merged = rankingdomain.MergeFilterSpecs(ladder.FilterSpec, raw)
	}
	return rankingdomain.ParseFilterSpec(merged)
}

// chartContext is what every chart read needs before touching records.
type chartContext struct {
	chart     rankingdomain.Chart
	chartType rankingdomain.ChartType
	catalog   *rankingdomain.Catalog
	spec      rankingdomain.FilterSpec
}

func (s *RankingService) loadChartContext(ctx context.Context, db bun.IDB, chartID int64, q FilterQuery) (chartContext, error) {
	chart, err := s.repo.GetChart(ctx, db, chartID)
	if err != nil {
		return chartContext{}, fmt.Errorf("failed to get chart: %w", mapNotFound(err, rankingdomain.ErrChartNotFound))
	}
	ct, err := s.repo.GetChartType(ctx, db, chart.ChartTypeID)
	if err != nil {
		return chartContext{}, fmt.Errorf("failed to get chart type: %w", mapNotFound(err, rankingdomain.ErrChartTypeNotFound))
	}
	spec, err := s.buildFilterSpec(ctx, db, q.LadderID, q.Filters)
	if err != nil {
		return chartContext{}, err
	}
	catalog, err := s.repo.GetFilterCatalog(ctx, db, ct.GameID)
	if err != nil {
		return chartContext{}, fmt.Errorf("failed to get filter catalog: %w", err)
	}
	return chartContext{chart: chart, chartType: ct, catalog: catalog, spec: spec}, nil
}

// recordView formats r for display. Unknown filter ids are left out.
func recordView(r rankingdomain.Record, rank int, ct rankingdomain.ChartType, catalog rankingdomain.FilterCatalog, players map[int64]rankingdomain.Player) (RecordView, error) {
	display, err := ct.FormatSpec.Format(r.Value)
	if err != nil {
		return RecordView{}, fmt.Errorf("record %d: %w", r.ID, err)
	}
	filters := make([]AppliedFilter, 0, len(r.FilterIDs))
	for _, id := range r.FilterIDs {
		f, err := catalog.Filter(id)
		if err != nil {
			continue
		}
		filters = append(filters, AppliedFilter{ID: f.ID, Name: f.Name, FilterGroupID: f.FilterGroupID})
	}
	return RecordView{
		Rank:         rank,
		ID:           r.ID,
		PlayerID:     r.PlayerID,
		Username:     players[r.PlayerID].Username,
		Value:        r.Value,
		Display:      display,
		DateAchieved: r.DateAchieved,
		Filters:      filters,
	}, nil
}

func playerIDsOf(records []rankingdomain.Record) []int64 {
	ids := make([]int64, len(records))
	for i, r := range records {
		ids[i] = r.PlayerID
	}
	return uniqueIDs(ids)
}

// uniqueIDs drops repeated ids, keeping first occurrences in order.
func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// GetChartRanking ranks the chart's records under the requested filters.
func (s *RankingService) GetChartRanking(ctx context.Context, chartID int64, q FilterQuery) (*ChartRanking, error) {
	return withTelemetry(s, ctx, "GetChartRanking", idString(chartID), func(ctx context.Context) (*ChartRanking, error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (*ChartRanking, error) {
			return s.getChartRankingLogic(ctx, db, chartID, q)
		})
	})
}

func (s *RankingService) getChartRankingLogic(ctx context.Context, db bun.IDB, chartID int64, q FilterQuery) (*ChartRanking, error) {
	cc, err := s.loadChartContext(ctx, db, chartID, q)
	if err != nil {
		return nil, err
	}

	records, err := s.repo.GetRecords(ctx, db, rankingdb.RecordQuery{ChartIDs: []int64{chartID}})
	if err != nil {
		return nil, fmt.Errorf("failed to get records: %w", err)
	}
	filtered, err := rankingdomain.ApplyFilterSpec(records, cc.spec, cc.catalog, &cc.chartType)
	if err != nil {
		return nil, err
	}
	rankingdomain.SortByValue(filtered, cc.chartType.OrderAscending)
	ranked := rankingdomain.MakeRecordRanking(filtered)
	if s.metrics != nil {
		s.metrics.RecordRecordsRanked(ctx, "GetChartRanking", len(filtered))
	}

	players, err := s.repo.GetPlayers(ctx, db, playerIDsOf(filtered))
	if err != nil {
		return nil, fmt.Errorf("failed to get players: %w", err)
	}

	views := make([]RecordView, 0, len(ranked))
	for _, rr := range ranked {
		v, err := recordView(rr.Record, rr.Rank, cc.chartType, cc.catalog, players)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}

	return &ChartRanking{
		ChartID:        cc.chart.ID,
		ChartName:      cc.chart.Name,
		OrderAscending: cc.chartType.OrderAscending,
		FilterSpec:     cc.spec.String(),
		Records:        views,
	}, nil
}

// GetChartOtherRecords returns, for every other chart of the chart's group,
// the best filtered record of each listed player, in playerIDs order.
func (s *RankingService) GetChartOtherRecords(ctx context.Context, chartID int64, playerIDs []int64, q FilterQuery) ([]OtherChartRecords, error) {
	return withTelemetry(s, ctx, "GetChartOtherRecords", idString(chartID), func(ctx context.Context) ([]OtherChartRecords, error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) ([]OtherChartRecords, error) {
			return s.getChartOtherRecordsLogic(ctx, db, chartID, playerIDs, q)
		})
	})
}

func (s *RankingService) getChartOtherRecordsLogic(ctx context.Context, db bun.IDB, chartID int64, playerIDs []int64, q FilterQuery) ([]OtherChartRecords, error) {
	cc, err := s.loadChartContext(ctx, db, chartID, q)
	if err != nil {
		return nil, err
	}
	playerIDs = uniqueIDs(playerIDs)
	group, err := s.repo.GetChartGroup(ctx, db, cc.chart.ChartGroupID)
	if err != nil {
		return nil, fmt.Errorf("failed to get chart group: %w", mapNotFound(err, rankingdomain.ErrChartGroupNotFound))
	}
	if !group.ShowChartsTogether {
		return nil, fmt.Errorf("group %d: %w", group.ID, ErrChartsNotShownTogether)
	}

	groupCharts, err := s.repo.GetChartsInGroup(ctx, db, group.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get group charts: %w", err)
	}
	others := make([]rankingdomain.Chart, 0, len(groupCharts))
	otherIDs := make([]int64, 0, len(groupCharts))
	for _, c := range groupCharts {
		if c.ID == chartID {
			continue
		}
		others = append(others, c)
		otherIDs = append(otherIDs, c.ID)
	}

	out := make([]OtherChartRecords, 0, len(others))
	if len(others) == 0 {
		return out, nil
	}

	byChart := make(map[int64][]rankingdomain.Record, len(others))
	if len(playerIDs) > 0 {
		records, err := s.repo.GetRecords(ctx, db, rankingdb.RecordQuery{ChartIDs: otherIDs, PlayerIDs: playerIDs})
		if err != nil {
			return nil, fmt.Errorf("failed to get records: %w", err)
		}
		for _, r := range records {
			byChart[r.ChartID] = append(byChart[r.ChartID], r)
		}
	}

	chartTypes, err := s.repo.GetChartTypes(ctx, db, cc.chartType.GameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get chart types: %w", err)
	}
	players, err := s.repo.GetPlayers(ctx, db, playerIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get players: %w", err)
	}

	for _, c := range others {
		ct, ok := chartTypes[c.ChartTypeID]
		if !ok {
			return nil, fmt.Errorf("chart %d type %d: %w", c.ID, c.ChartTypeID, rankingdomain.ErrChartTypeNotFound)
		}
		filtered, err := rankingdomain.ApplyFilterSpec(byChart[c.ID], cc.spec, cc.catalog, &ct)
		if err != nil {
			return nil, err
		}
		rankingdomain.SortByValue(filtered, ct.OrderAscending)

		best := make(map[int64]rankingdomain.Record, len(playerIDs))
		for _, rr := range rankingdomain.MakeRecordRanking(filtered) {
			best[rr.PlayerID] = rr.Record
		}

		views := make([]RecordView, 0, len(best))
		for _, pid := range playerIDs {
			r, ok := best[pid]
			if !ok {
				continue
			}
			v, err := recordView(r, 0, ct, cc.catalog, players)
			if err != nil {
				return nil, err
			}
			views = append(views, v)
		}
		out = append(out, OtherChartRecords{ChartID: c.ID, ChartName: c.Name, Records: views})
	}
	return out, nil
}
