package rankingservice

import (
	"context"
	"fmt"

	rankingdomain "github.com/Black-And-White-Club/chart-ladders/app/modules/ranking/domain"
	rankingdb "github.com/Black-And-White-Club/chart-ladders/app/modules/ranking/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// GetLadderCharts returns the flattened chart list of the ladder's group.
func (s *RankingService) GetLadderCharts(ctx context.Context, ladderID int64) ([]ChartView, error) {
	return withTelemetry(s, ctx, "GetLadderCharts", idString(ladderID), func(ctx context.Context) ([]ChartView, error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) ([]ChartView, error) {
			ladder, err := s.getLadder(ctx, db, ladderID)
			if err != nil {
				return nil, err
			}
			charts, err := s.ladderCharts(ctx, db, ladder)
			if err != nil {
				return nil, err
			}
			return chartViews(charts), nil
		})
	})
}

// GetLadderRanking computes the ladder's AF/SRPR ranking.
func (s *RankingService) GetLadderRanking(ctx context.Context, ladderID int64) (*LadderRanking, error) {
	return withTelemetry(s, ctx, "GetLadderRanking", idString(ladderID), func(ctx context.Context) (*LadderRanking, error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (*LadderRanking, error) {
			return s.getLadderRankingLogic(ctx, db, ladderID)
		})
	})
}

func (s *RankingService) getLadder(ctx context.Context, db bun.IDB, ladderID int64) (rankingdomain.Ladder, error) {
	ladder, err := s.repo.GetLadder(ctx, db, ladderID)
	if err != nil {
		return rankingdomain.Ladder{}, fmt.Errorf("failed to get ladder: %w", mapNotFound(err, rankingdomain.ErrLadderNotFound))
	}
	return ladder, nil
}

// ladderCharts loads the game's hierarchy once and flattens the ladder's group.
func (s *RankingService) ladderCharts(ctx context.Context, db bun.IDB, ladder rankingdomain.Ladder) ([]rankingdomain.Chart, error) {
	groups, charts, err := s.repo.GetGameHierarchy(ctx, db, ladder.GameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game hierarchy: %w", err)
	}
	flat, err := rankingdomain.NewHierarchy(groups, charts).Flatten(ladder.ChartGroupID)
	if err != nil {
		return nil, fmt.Errorf("ladder %d: %w", ladder.ID, err)
	}
	return flat, nil
}

func chartViews(charts []rankingdomain.Chart) []ChartView {
	out := make([]ChartView, len(charts))
	for i, c := range charts {
		out[i] = ChartView{ID: c.ID, Name: c.Name, ChartGroupID: c.ChartGroupID, ChartTypeID: c.ChartTypeID}
	}
	return out
}

func (s *RankingService) getLadderRankingLogic(ctx context.Context, db bun.IDB, ladderID int64) (*LadderRanking, error) {
	ladder, err := s.getLadder(ctx, db, ladderID)
	if err != nil {
		return nil, err
	}
	spec, err := rankingdomain.ParseFilterSpec(ladder.FilterSpec)
	if err != nil {
		return nil, fmt.Errorf("ladder %d: %w", ladder.ID, err)
	}
	charts, err := s.ladderCharts(ctx, db, ladder)
	if err != nil {
		return nil, err
	}

	chartTypes, err := s.repo.GetChartTypes(ctx, db, ladder.GameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get chart types: %w", err)
	}
	catalog, err := s.repo.GetFilterCatalog(ctx, db, ladder.GameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get filter catalog: %w", err)
	}
	tags, err := s.repo.GetChartTags(ctx, db, ladder.GameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get chart tags: %w", err)
	}
	weights, err := s.repo.GetLadderChartTags(ctx, db, ladder.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get ladder weights: %w", err)
	}

	chartIDs := make([]int64, len(charts))
	for i, c := range charts {
		chartIDs[i] = c.ID
	}
	records, err := s.repo.GetRecords(ctx, db, rankingdb.RecordQuery{ChartIDs: chartIDs})
	if err != nil {
		return nil, fmt.Errorf("failed to get records: %w", err)
	}
	byChart := make(map[int64][]rankingdomain.Record, len(charts))
	for _, r := range records {
		byChart[r.ChartID] = append(byChart[r.ChartID], r)
	}
	if s.metrics != nil {
		s.metrics.RecordRecordsRanked(ctx, "GetLadderRanking", len(records))
	}

	players, err := s.repo.GetPlayers(ctx, db, playerIDsOf(records))
	if err != nil {
		return nil, fmt.Errorf("failed to get players: %w", err)
	}

	entries, err := rankingdomain.ComputeLadderRanking(rankingdomain.LadderInput{
		Charts:     charts,
		ChartTypes: chartTypes,
		ChartTags:  tags,
		Weights:    weights,
		Records:    byChart,
		Players:    players,
		Spec:       spec,
		Catalog:    catalog,
	})
	if err != nil {
		return nil, fmt.Errorf("ladder %d: %w", ladder.ID, err)
	}

	return &LadderRanking{
		LadderID:   ladder.ID,
		Name:       ladder.Name,
		Kind:       string(ladder.Kind),
		FilterSpec: spec.String(),
		Charts:     chartViews(charts),
		Entries:    ladderEntryViews(entries),
	}, nil
}

func ladderEntryViews(entries []rankingdomain.LadderEntry) []LadderEntryView {
	out := make([]LadderEntryView, len(entries))
	for i, e := range entries {
		totals := make([]LadderTotalView, len(e.Totals))
		for j, t := range e.Totals {
			totals[j] = LadderTotalView{ChartTagID: t.ChartTagID, Name: t.Name, Value: t.Value, Display: t.Display}
		}
		cells := make([]*LadderCellView, len(e.Cells))
		for j, c := range e.Cells {
			if c == nil {
				continue
			}
			cells[j] = &LadderCellView{ChartID: c.ChartID, Rank: c.Rank, Value: c.Value, Display: c.Display}
		}
		out[i] = LadderEntryView{
			Rank:       e.Rank,
			PlayerID:   e.PlayerID,
			Username:   e.Username,
			AF:         e.AFDisplay,
			SRPR:       e.SRPRDisplay,
			LastActive: e.LastActiveDisplay,
			Totals:     totals,
			Cells:      cells,
		}
	}
	return out
}
