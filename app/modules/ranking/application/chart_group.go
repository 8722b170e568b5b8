package rankingservice

import (
	"context"
	"fmt"
	"slices"

	rankingdomain "github.com/Black-And-White-Club/chart-ladders/app/modules/ranking/domain"
	rankingdb "github.com/Black-And-White-Club/chart-ladders/app/modules/ranking/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// GetChartGroupHierarchy returns the nested groups and charts under a group.
func (s *RankingService) GetChartGroupHierarchy(ctx context.Context, groupID int64) ([]HierarchyItemView, error) {
	return withTelemetry(s, ctx, "GetChartGroupHierarchy", idString(groupID), func(ctx context.Context) ([]HierarchyItemView, error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) ([]HierarchyItemView, error) {
			group, err := s.getChartGroup(ctx, db, groupID)
			if err != nil {
				return nil, err
			}
			groups, charts, err := s.repo.GetGameHierarchy(ctx, db, group.GameID)
			if err != nil {
				return nil, fmt.Errorf("failed to get game hierarchy: %w", err)
			}
			nodes, err := rankingdomain.NewHierarchy(groups, charts).Tree(group.ID)
			if err != nil {
				return nil, err
			}
			return hierarchyViews(nodes), nil
		})
	})
}

func (s *RankingService) getChartGroup(ctx context.Context, db bun.IDB, groupID int64) (rankingdomain.ChartGroup, error) {
	group, err := s.repo.GetChartGroup(ctx, db, groupID)
	if err != nil {
		return rankingdomain.ChartGroup{}, fmt.Errorf("failed to get chart group: %w", mapNotFound(err, rankingdomain.ErrChartGroupNotFound))
	}
	return group, nil
}

func hierarchyViews(nodes []rankingdomain.HierarchyNode) []HierarchyItemView {
	out := make([]HierarchyItemView, 0, len(nodes))
	for _, n := range nodes {
		if n.Chart != nil {
			out = append(out, HierarchyItemView{Name: n.Chart.Name, ChartID: &n.Chart.ID})
			continue
		}
		out = append(out, HierarchyItemView{
			Name:               n.Group.Name,
			ChartGroupID:       &n.Group.ID,
			ShowChartsTogether: &n.Group.ShowChartsTogether,
			Items:              hierarchyViews(n.Items),
		})
	}
	return out
}

// GetChartGroupRanking ranks every chart directly in the group under the
// requested filters and lines up each main chart record with the same
// player's records on the other charts.
func (s *RankingService) GetChartGroupRanking(ctx context.Context, groupID int64, q GroupRankingQuery) (*ChartGroupRanking, error) {
	return withTelemetry(s, ctx, "GetChartGroupRanking", idString(groupID), func(ctx context.Context) (*ChartGroupRanking, error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (*ChartGroupRanking, error) {
			return s.getChartGroupRankingLogic(ctx, db, groupID, q)
		})
	})
}

func (s *RankingService) getChartGroupRankingLogic(ctx context.Context, db bun.IDB, groupID int64, q GroupRankingQuery) (*ChartGroupRanking, error) {
	group, err := s.getChartGroup(ctx, db, groupID)
	if err != nil {
		return nil, err
	}
	spec, err := s.buildFilterSpec(ctx, db, q.LadderID, q.Filters)
	if err != nil {
		return nil, err
	}
	charts, err := s.repo.GetChartsInGroup(ctx, db, group.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get group charts: %w", err)
	}

	mainIdx := 0
	if q.MainChartID != nil {
		mainIdx = slices.IndexFunc(charts, func(c rankingdomain.Chart) bool { return c.ID == *q.MainChartID })
		if mainIdx < 0 {
			return nil, fmt.Errorf("chart %d in group %d: %w", *q.MainChartID, group.ID, rankingdomain.ErrChartNotFound)
		}
	}

	out := &ChartGroupRanking{
		ChartGroupID: group.ID,
		Name:         group.Name,
		FilterSpec:   spec.String(),
		OtherCharts:  []ChartView{},
		Rows:         []ChartGroupRankingRow{},
	}
	if len(charts) == 0 {
		return out, nil
	}

	chartTypes, err := s.repo.GetChartTypes(ctx, db, group.GameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get chart types: %w", err)
	}
	catalog, err := s.repo.GetFilterCatalog(ctx, db, group.GameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get filter catalog: %w", err)
	}

	ids := make([]int64, len(charts))
	for i, c := range charts {
		ids[i] = c.ID
	}
	records, err := s.repo.GetRecords(ctx, db, rankingdb.RecordQuery{ChartIDs: ids})
	if err != nil {
		return nil, fmt.Errorf("failed to get records: %w", err)
	}
	byChart := make(map[int64][]rankingdomain.Record, len(charts))
	for _, r := range records {
		byChart[r.ChartID] = append(byChart[r.ChartID], r)
	}

	types := make([]rankingdomain.ChartType, len(charts))
	rankings := make([][]rankingdomain.RankedRecord, len(charts))
	ranked := 0
	for i, c := range charts {
		ct, ok := chartTypes[c.ChartTypeID]
		if !ok {
			return nil, fmt.Errorf("chart %d type %d: %w", c.ID, c.ChartTypeID, rankingdomain.ErrChartTypeNotFound)
		}
		filtered, err := rankingdomain.ApplyFilterSpec(byChart[c.ID], spec, catalog, &ct)
		if err != nil {
			return nil, err
		}
		rankingdomain.SortByValue(filtered, ct.OrderAscending)
		types[i] = ct
		rankings[i] = rankingdomain.MakeRecordRanking(filtered)
		ranked += len(filtered)
	}
	if s.metrics != nil {
		s.metrics.RecordRecordsRanked(ctx, "GetChartGroupRanking", ranked)
	}

	mainRanking := rankings[mainIdx]
	mainPlayers := make([]int64, len(mainRanking))
	for i, rr := range mainRanking {
		mainPlayers[i] = rr.PlayerID
	}
	players, err := s.repo.GetPlayers(ctx, db, mainPlayers)
	if err != nil {
		return nil, fmt.Errorf("failed to get players: %w", err)
	}

	// Other charts keep group order; each maps a player to their ranked record.
	var others []map[int64]rankingdomain.RankedRecord
	var otherTypes []rankingdomain.ChartType
	for i, c := range charts {
		if i == mainIdx {
			mainChart := chartViews([]rankingdomain.Chart{c})[0]
			out.MainChart = &mainChart
			continue
		}
		out.OtherCharts = append(out.OtherCharts, chartViews([]rankingdomain.Chart{c})[0])
		best := make(map[int64]rankingdomain.RankedRecord, len(rankings[i]))
		for _, rr := range rankings[i] {
			best[rr.PlayerID] = rr
		}
		others = append(others, best)
		otherTypes = append(otherTypes, types[i])
	}

	for _, rr := range mainRanking {
		mainRecord, err := recordView(rr.Record, rr.Rank, types[mainIdx], catalog, players)
		if err != nil {
			return nil, err
		}
		row := ChartGroupRankingRow{MainRecord: mainRecord, OtherRecords: make([]*RecordView, len(others))}
		for j, best := range others {
			other, ok := best[rr.PlayerID]
			if !ok {
				continue
			}
			v, err := recordView(other.Record, other.Rank, otherTypes[j], catalog, players)
			if err != nil {
				return nil, err
			}
			row.OtherRecords[j] = &v
		}
		out.Rows = append(out.Rows, row)
	}
	return out, nil
}
