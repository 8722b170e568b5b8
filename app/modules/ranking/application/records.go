package rankingservice

import (
	"context"
	"fmt"

	rankingdomain "github.com/Black-And-White-Club/chart-ladders/app/modules/ranking/domain"
	rankingdb "github.com/Black-And-White-Club/chart-ladders/app/modules/ranking/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// ListRecords lists every filtered record of a chart, a player or both, in
// the requested order. Filters are applied as written; no chart type scoping.
func (s *RankingService) ListRecords(ctx context.Context, q RecordListQuery) ([]ListedRecordView, error) {
	return withTelemetry(s, ctx, "ListRecords", q.Sort, func(ctx context.Context) ([]ListedRecordView, error) {
		sortBy, err := rankingdomain.ParseRecordSort(q.Sort)
		if err != nil {
			return nil, err
		}
		if q.ChartID == nil && q.PlayerID == nil {
			return nil, ErrUnboundedRecordList
		}
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) ([]ListedRecordView, error) {
			return s.listRecordsLogic(ctx, db, q, sortBy)
		})
	})
}

func (s *RankingService) listRecordsLogic(ctx context.Context, db bun.IDB, q RecordListQuery, sortBy rankingdomain.RecordSort) ([]ListedRecordView, error) {
	spec, err := s.buildFilterSpec(ctx, db, q.LadderID, q.Filters)
	if err != nil {
		return nil, err
	}

	var query rankingdb.RecordQuery
	if q.ChartID != nil {
		if _, err := s.repo.GetChart(ctx, db, *q.ChartID); err != nil {
			return nil, fmt.Errorf("failed to get chart: %w", mapNotFound(err, rankingdomain.ErrChartNotFound))
		}
		query.ChartIDs = []int64{*q.ChartID}
	}
	if q.PlayerID != nil {
		query.PlayerIDs = []int64{*q.PlayerID}
	}
	records, err := s.repo.GetRecords(ctx, db, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get records: %w", err)
	}

	chartIDs := make([]int64, 0, len(records)+1)
	if q.ChartID != nil {
		chartIDs = append(chartIDs, *q.ChartID)
	}
	for _, r := range records {
		chartIDs = append(chartIDs, r.ChartID)
	}
	charts, chartTypes, catalog, err := s.loadRecordCharts(ctx, db, uniqueIDs(chartIDs))
	if err != nil {
		return nil, err
	}

	out := []ListedRecordView{}
	if len(records) == 0 {
		return out, nil
	}
	filtered, err := rankingdomain.ApplyFilterSpec(records, spec, catalog, nil)
	if err != nil {
		return nil, err
	}

	// A value sort across charts takes the direction of the listed chart, or
	// else of the first record's chart.
	ascending := true
	switch {
	case q.ChartID != nil:
		ascending = chartTypes[charts[*q.ChartID].ChartTypeID].OrderAscending
	case len(filtered) > 0:
		ascending = chartTypes[charts[filtered[0].ChartID].ChartTypeID].OrderAscending
	}
	rankingdomain.SortRecords(filtered, sortBy, ascending)

	players, err := s.repo.GetPlayers(ctx, db, playerIDsOf(filtered))
	if err != nil {
		return nil, fmt.Errorf("failed to get players: %w", err)
	}
	for _, r := range filtered {
		ct := chartTypes[charts[r.ChartID].ChartTypeID]
		v, err := recordView(r, 0, ct, catalog, players)
		if err != nil {
			return nil, err
		}
		out = append(out, ListedRecordView{RecordView: v, ChartID: r.ChartID})
	}
	return out, nil
}

// loadRecordCharts resolves the charts, chart types and merged filter catalog
// of records that may span games.
func (s *RankingService) loadRecordCharts(ctx context.Context, db bun.IDB, chartIDs []int64) (map[int64]rankingdomain.Chart, map[int64]rankingdomain.ChartType, *rankingdomain.Catalog, error) {
	loaded, err := s.repo.GetCharts(ctx, db, chartIDs)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to get charts: %w", err)
	}
	charts := make(map[int64]rankingdomain.Chart, len(loaded))
	for _, c := range loaded {
		charts[c.ID] = c
	}

	chartTypes := make(map[int64]rankingdomain.ChartType)
	var catalogs []*rankingdomain.Catalog
	seenGames := make(map[int64]bool)
	for _, id := range chartIDs {
		c, ok := charts[id]
		if !ok {
			return nil, nil, nil, fmt.Errorf("chart %d: %w", id, rankingdomain.ErrChartNotFound)
		}
		if _, ok := chartTypes[c.ChartTypeID]; ok {
			continue
		}
		ct, err := s.repo.GetChartType(ctx, db, c.ChartTypeID)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to get chart type: %w", mapNotFound(err, rankingdomain.ErrChartTypeNotFound))
		}
		chartTypes[ct.ID] = ct
		if seenGames[ct.GameID] {
			continue
		}
		seenGames[ct.GameID] = true
		catalog, err := s.repo.GetFilterCatalog(ctx, db, ct.GameID)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to get filter catalog: %w", err)
		}
		catalogs = append(catalogs, catalog)
	}
	return charts, chartTypes, rankingdomain.MergeCatalogs(catalogs...), nil
}
