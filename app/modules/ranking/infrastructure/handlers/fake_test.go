package rankinghandlers

import (
	"context"

	rankingservice "github.com/Black-And-White-Club/chart-ladders/app/modules/ranking/application"
	rankingdomain "github.com/Black-And-White-Club/chart-ladders/app/modules/ranking/domain"
)

// FakeService is a programmable rankingservice.Service.
type FakeService struct {
	trace []string

	FormatValueFunc              func(ctx context.Context, chartTypeID int64, value int64) (string, error)
	BuildFilterSpecFunc          func(ctx context.Context, ladderID *int64, raw string) (rankingdomain.FilterSpec, error)
	GetChartRankingFunc          func(ctx context.Context, chartID int64, q rankingservice.FilterQuery) (*rankingservice.ChartRanking, error)
	GetChartOtherRecordsFunc     func(ctx context.Context, chartID int64, playerIDs []int64, q rankingservice.FilterQuery) ([]rankingservice.OtherChartRecords, error)
	GetChartRecordHistoryFunc    func(ctx context.Context, chartID int64, q rankingservice.HistoryQuery) (*rankingservice.RecordHistory, error)
	RenderChartRecordHistoryFunc func(ctx context.Context, chartID int64, q rankingservice.HistoryQuery) ([]byte, error)
	GetChartGroupRankingFunc     func(ctx context.Context, groupID int64, q rankingservice.GroupRankingQuery) (*rankingservice.ChartGroupRanking, error)
	GetChartGroupHierarchyFunc   func(ctx context.Context, groupID int64) ([]rankingservice.HierarchyItemView, error)
	ListRecordsFunc              func(ctx context.Context, q rankingservice.RecordListQuery) ([]rankingservice.ListedRecordView, error)
	GetLadderChartsFunc          func(ctx context.Context, ladderID int64) ([]rankingservice.ChartView, error)
	GetLadderRankingFunc         func(ctx context.Context, ladderID int64) (*rankingservice.LadderRanking, error)
	ExportLadderRankingFunc      func(ctx context.Context, ladderID int64) ([]byte, error)
	SearchPlayersFunc            func(ctx context.Context, arg string) ([]rankingservice.PlayerView, error)
}

func NewFakeService() *FakeService {
	return &FakeService{trace: []string{}}
}

func (f *FakeService) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeService) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeService) FormatValue(ctx context.Context, chartTypeID int64, value int64) (string, error) {
	f.record("FormatValue")
	if f.FormatValueFunc != nil {
		return f.FormatValueFunc(ctx, chartTypeID, value)
	}
	return "", nil
}

func (f *FakeService) BuildFilterSpec(ctx context.Context, ladderID *int64, raw string) (rankingdomain.FilterSpec, error) {
	f.record("BuildFilterSpec")
	if f.BuildFilterSpecFunc != nil {
		return f.BuildFilterSpecFunc(ctx, ladderID, raw)
	}
	return rankingdomain.FilterSpec{}, nil
}

func (f *FakeService) GetChartRanking(ctx context.Context, chartID int64, q rankingservice.FilterQuery) (*rankingservice.ChartRanking, error) {
	f.record("GetChartRanking")
	if f.GetChartRankingFunc != nil {
		return f.GetChartRankingFunc(ctx, chartID, q)
	}
	return &rankingservice.ChartRanking{ChartID: chartID}, nil
}

func (f *FakeService) GetChartOtherRecords(ctx context.Context, chartID int64, playerIDs []int64, q rankingservice.FilterQuery) ([]rankingservice.OtherChartRecords, error) {
	f.record("GetChartOtherRecords")
	if f.GetChartOtherRecordsFunc != nil {
		return f.GetChartOtherRecordsFunc(ctx, chartID, playerIDs, q)
	}
	return []rankingservice.OtherChartRecords{}, nil
}

func (f *FakeService) GetChartRecordHistory(ctx context.Context, chartID int64, q rankingservice.HistoryQuery) (*rankingservice.RecordHistory, error) {
	f.record("GetChartRecordHistory")
	if f.GetChartRecordHistoryFunc != nil {
		return f.GetChartRecordHistoryFunc(ctx, chartID, q)
	}
	return &rankingservice.RecordHistory{ChartID: chartID}, nil
}

func (f *FakeService) RenderChartRecordHistory(ctx context.Context, chartID int64, q rankingservice.HistoryQuery) ([]byte, error) {
	f.record("RenderChartRecordHistory")
	if f.RenderChartRecordHistoryFunc != nil {
		return f.RenderChartRecordHistoryFunc(ctx, chartID, q)
	}
	return nil, nil
}

func (f *FakeService) GetChartGroupRanking(ctx context.Context, groupID int64, q rankingservice.GroupRankingQuery) (*rankingservice.ChartGroupRanking, error) {
	f.record("GetChartGroupRanking")
	if f.GetChartGroupRankingFunc != nil {
		return f.GetChartGroupRankingFunc(ctx, groupID, q)
	}
	return &rankingservice.ChartGroupRanking{ChartGroupID: groupID}, nil
}

func (f *FakeService) GetChartGroupHierarchy(ctx context.Context, groupID int64) ([]rankingservice.HierarchyItemView, error) {
	f.record("GetChartGroupHierarchy")
	if f.GetChartGroupHierarchyFunc != nil {
		return f.GetChartGroupHierarchyFunc(ctx, groupID)
	}
	return []rankingservice.HierarchyItemView{}, nil
}

func (f *FakeService) ListRecords(ctx context.Context, q rankingservice.RecordListQuery) ([]rankingservice.ListedRecordView, error) {
	f.record("ListRecords")
	if f.ListRecordsFunc != nil {
		return f.ListRecordsFunc(ctx, q)
	}
	return []rankingservice.ListedRecordView{}, nil
}

func (f *FakeService) GetLadderCharts(ctx context.Context, ladderID int64) ([]rankingservice.ChartView, error) {
	f.record("GetLadderCharts")
	if f.GetLadderChartsFunc != nil {
		return f.GetLadderChartsFunc(ctx, ladderID)
	}
	return []rankingservice.ChartView{}, nil
}

func (f *FakeService) GetLadderRanking(ctx context.Context, ladderID int64) (*rankingservice.LadderRanking, error) {
	f.record("GetLadderRanking")
	if f.GetLadderRankingFunc != nil {
		return f.GetLadderRankingFunc(ctx, ladderID)
	}
	return &rankingservice.LadderRanking{LadderID: ladderID}, nil
}

func (f *FakeService) ExportLadderRanking(ctx context.Context, ladderID int64) ([]byte, error) {
	f.record("ExportLadderRanking")
	if f.ExportLadderRankingFunc != nil {
		return f.ExportLadderRankingFunc(ctx, ladderID)
	}
	return nil, nil
}

func (f *FakeService) SearchPlayers(ctx context.Context, arg string) ([]rankingservice.PlayerView, error) {
	f.record("SearchPlayers")
	if f.SearchPlayersFunc != nil {
		return f.SearchPlayersFunc(ctx, arg)
	}
	return []rankingservice.PlayerView{}, nil
}

var _ rankingservice.Service = (*FakeService)(nil)
