package rankingservice

import (
	"context"
	"slices"
	"strings"
	"time"

	rankingdomain "github.com/Black-And-White-Club/chart-ladders/app/modules/ranking/domain"
	rankingdb "github.com/Black-And-White-Club/chart-ladders/app/modules/ranking/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// ------------------------
// Fixture
// ------------------------

// rankingFixture is an in-memory game the fake repository serves by default.
type rankingFixture struct {
	groups       []rankingdomain.ChartGroup
	charts       []rankingdomain.Chart
	chartTypes   []rankingdomain.ChartType
	filterGroups []rankingdomain.FilterGroup
	filters      []rankingdomain.Filter
	implications []rankingdomain.FilterImplication
	tags         []rankingdomain.ChartTag
	ladders      []rankingdomain.Ladder
	weights      []rankingdomain.LadderChartTag
	players      []rankingdomain.Player
	records      []rankingdomain.Record
}

var fixtureDay0 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func fixtureDay(n int) time.Time { return fixtureDay0.AddDate(0, 0, n) }

func int64Ptr(v int64) *int64 { return &v }

// newRankingFixture builds one game: a "Grand Prix" group holding "Mute City"
// (time and speed charts, shown together) and "Big Blue" (one time chart).
func newRankingFixture() *rankingFixture {
	return &rankingFixture{
		groups: []rankingdomain.ChartGroup{
			{ID: 1, GameID: 1, Name: "Grand Prix", OrderInParent: 1},
			{ID: 2, GameID: 1, Name: "Mute City", ParentID: int64Ptr(1), OrderInParent: 1, ShowChartsTogether: true},
			{ID: 3, GameID: 1, Name: "Big Blue", ParentID: int64Ptr(1), OrderInParent: 2},
		},
		charts: []rankingdomain.Chart{
			{ID: 101, ChartGroupID: 2, ChartTypeID: 1, Name: "Mute City course", OrderInGroup: 1},
			{ID: 102, ChartGroupID: 2, ChartTypeID: 2, Name: "Mute City speed", OrderInGroup: 2},
			{ID: 103, ChartGroupID: 3, ChartTypeID: 1, Name: "Big Blue course", OrderInGroup: 1},
		},
		chartTypes: []rankingdomain.ChartType{
			{
				ID: 1, GameID: 1, Name: "Course time",
				FormatSpec: rankingdomain.FormatSpec{
					{Multiplier: 60, Suffix: "'"},
					{Multiplier: 1000, Suffix: `"`, Digits: 2},
					{Digits: 3},
				},
				OrderAscending: true,
				FilterGroupIDs: []int64{1, 2},
			},
			{
				ID: 2, GameID: 1, Name: "Top speed",
				FormatSpec:     rankingdomain.FormatSpec{{Suffix: " km/h"}},
				FilterGroupIDs: []int64{1},
			},
		},
		filterGroups: []rankingdomain.FilterGroup{
			{ID: 1, GameID: 1, Name: "Machine", Kind: rankingdomain.FilterGroupKindSelect, OrderInGame: 1},
			{ID: 2, GameID: 1, Name: "Setting", Kind: rankingdomain.FilterGroupKindNumeric, OrderInGame: 2},
		},
		filters: []rankingdomain.Filter{
			{ID: 1, FilterGroupID: 1, Name: "Blue Falcon", UsageType: rankingdomain.FilterUsageChoosable},
			{ID: 2, FilterGroupID: 1, Name: "Golden Fox", UsageType: rankingdomain.FilterUsageChoosable},
			{ID: 10, FilterGroupID: 2, Name: "0%", UsageType: rankingdomain.FilterUsageChoosable, NumericValue: int64Ptr(0)},
			{ID: 12, FilterGroupID: 2, Name: "100%", UsageType: rankingdomain.FilterUsageChoosable, NumericValue: int64Ptr(100)},
		},
		tags: []rankingdomain.ChartTag{
			{ID: 1, GameID: 1, Name: "Course", PrimaryChartTypeID: 1, ChartIDs: []int64{101, 103}},
		},
		ladders: []rankingdomain.Ladder{
			{ID: 1, GameID: 1, Name: "Main", ChartGroupID: 1, Kind: rankingdomain.LadderKindMain, OrderInGameAndKind: 1},
			{ID: 2, GameID: 1, Name: "Blue Falcon", ChartGroupID: 1, Kind: rankingdomain.LadderKindSide, OrderInGameAndKind: 1, FilterSpec: "1"},
		},
		players: []rankingdomain.Player{
			{ID: 1, Username: "alice"},
			{ID: 2, Username: "bob"},
			{ID: 3, Username: "carol"},
		},
		records: []rankingdomain.Record{
			{ID: 1, ChartID: 101, PlayerID: 1, Value: 83456, DateAchieved: fixtureDay(0), DateCreated: fixtureDay(6), FilterIDs: []int64{1, 10}},
			{ID: 2, ChartID: 101, PlayerID: 2, Value: 84000, DateAchieved: fixtureDay(1), FilterIDs: []int64{2, 12}},
			{ID: 3, ChartID: 101, PlayerID: 1, Value: 83000, DateAchieved: fixtureDay(2), FilterIDs: []int64{1, 12}},
			{ID: 4, ChartID: 101, PlayerID: 3, Value: 83456, DateAchieved: fixtureDay(3), FilterIDs: []int64{2, 10}},
			{ID: 5, ChartID: 102, PlayerID: 1, Value: 450, DateAchieved: fixtureDay(0), FilterIDs: []int64{1}},
			{ID: 6, ChartID: 102, PlayerID: 2, Value: 480, DateAchieved: fixtureDay(1), FilterIDs: []int64{2}},
			{ID: 7, ChartID: 103, PlayerID: 2, Value: 90000, DateAchieved: fixtureDay(2), FilterIDs: []int64{2, 10}},
		},
	}
}

// ------------------------
// Fake Ranking Repo
// ------------------------

type FakeRankingRepo struct {
	trace   []string
	fixture *rankingFixture

	GetChartFunc           func(ctx context.Context, db bun.IDB, chartID int64) (rankingdomain.Chart, error)
	GetLadderFunc          func(ctx context.Context, db bun.IDB, ladderID int64) (rankingdomain.Ladder, error)
	GetChartTypeFunc       func(ctx context.Context, db bun.IDB, chartTypeID int64) (rankingdomain.ChartType, error)
	GetGameHierarchyFunc   func(ctx context.Context, db bun.IDB, gameID int64) ([]rankingdomain.ChartGroup, []rankingdomain.Chart, error)
	GetRecordsFunc         func(ctx context.Context, db bun.IDB, q rankingdb.RecordQuery) ([]rankingdomain.Record, error)
	GetLadderChartTagsFunc func(ctx context.Context, db bun.IDB, ladderID int64) ([]rankingdomain.LadderChartTag, error)
	SearchPlayersFunc      func(ctx context.Context, db bun.IDB, arg string, terms []string, limit int) ([]rankingdomain.Player, error)
}

func NewFakeRankingRepo(fixture *rankingFixture) *FakeRankingRepo {
	if fixture == nil {
		fixture = &rankingFixture{}
	}
	return &FakeRankingRepo{
		trace:   []string{},
		fixture: fixture,
	}
}

func (f *FakeRankingRepo) record(step string) {
	f.trace = append(f.trace, step)
}

// --- Repository Interface Implementation ---

func (f *FakeRankingRepo) GetChart(ctx context.Context, db bun.IDB, chartID int64) (rankingdomain.Chart, error) {
	f.record("GetChart")
	if f.GetChartFunc != nil {
		return f.GetChartFunc(ctx, db, chartID)
	}
	for _, c := range f.fixture.charts {
		if c.ID == chartID {
			return c, nil
		}
	}
	return rankingdomain.Chart{}, rankingdb.ErrNotFound
}

func (f *FakeRankingRepo) GetChartGroup(ctx context.Context, db bun.IDB, groupID int64) (rankingdomain.ChartGroup, error) {
	f.record("GetChartGroup")
	for _, g := range f.fixture.groups {
		if g.ID == groupID {
			return g, nil
		}
	}
	return rankingdomain.ChartGroup{}, rankingdb.ErrNotFound
}

func (f *FakeRankingRepo) GetLadder(ctx context.Context, db bun.IDB, ladderID int64) (rankingdomain.Ladder, error) {
	f.record("GetLadder")
	if f.GetLadderFunc != nil {
		return f.GetLadderFunc(ctx, db, ladderID)
	}
	for _, l := range f.fixture.ladders {
		if l.ID == ladderID {
			return l, nil
		}
	}
	return rankingdomain.Ladder{}, rankingdb.ErrNotFound
}

func (f *FakeRankingRepo) GetChartType(ctx context.Context, db bun.IDB, chartTypeID int64) (rankingdomain.ChartType, error) {
	f.record("GetChartType")
	if f.GetChartTypeFunc != nil {
		return f.GetChartTypeFunc(ctx, db, chartTypeID)
	}
	for _, ct := range f.fixture.chartTypes {
		if ct.ID == chartTypeID {
			return ct, nil
		}
	}
	return rankingdomain.ChartType{}, rankingdb.ErrNotFound
}

func (f *FakeRankingRepo) GetChartTypes(ctx context.Context, db bun.IDB, gameID int64) (map[int64]rankingdomain.ChartType, error) {
	f.record("GetChartTypes")
	out := make(map[int64]rankingdomain.ChartType)
	for _, ct := range f.fixture.chartTypes {
		if ct.GameID == gameID {
			out[ct.ID] = ct
		}
	}
	return out, nil
}

func (f *FakeRankingRepo) GetGameHierarchy(ctx context.Context, db bun.IDB, gameID int64) ([]rankingdomain.ChartGroup, []rankingdomain.Chart, error) {
	f.record("GetGameHierarchy")
	if f.GetGameHierarchyFunc != nil {
		return f.GetGameHierarchyFunc(ctx, db, gameID)
	}
	return slices.Clone(f.fixture.groups), slices.Clone(f.fixture.charts), nil
}

func (f *FakeRankingRepo) GetCharts(ctx context.Context, db bun.IDB, chartIDs []int64) ([]rankingdomain.Chart, error) {
	f.record("GetCharts")
	out := []rankingdomain.Chart{}
	for _, c := range f.fixture.charts {
		if slices.Contains(chartIDs, c.ID) {
			out = append(out, c)
		}
	}
	slices.SortFunc(out, func(a, b rankingdomain.Chart) int { return int(a.ID - b.ID) })
	return out, nil
}

func (f *FakeRankingRepo) GetChartsInGroup(ctx context.Context, db bun.IDB, groupID int64) ([]rankingdomain.Chart, error) {
	f.record("GetChartsInGroup")
	var out []rankingdomain.Chart
	for _, c := range f.fixture.charts {
		if c.ChartGroupID == groupID {
			out = append(out, c)
		}
	}
	slices.SortFunc(out, func(a, b rankingdomain.Chart) int { return a.OrderInGroup - b.OrderInGroup })
	return out, nil
}

func (f *FakeRankingRepo) GetChildGroups(ctx context.Context, db bun.IDB, groupID int64) ([]rankingdomain.ChartGroup, error) {
	f.record("GetChildGroups")
	var out []rankingdomain.ChartGroup
	for _, g := range f.fixture.groups {
		if g.ParentID != nil && *g.ParentID == groupID {
			out = append(out, g)
		}
	}
	slices.SortFunc(out, func(a, b rankingdomain.ChartGroup) int { return a.OrderInParent - b.OrderInParent })
	return out, nil
}

func (f *FakeRankingRepo) GetFilterCatalog(ctx context.Context, db bun.IDB, gameID int64) (*rankingdomain.Catalog, error) {
	f.record("GetFilterCatalog")
	return rankingdomain.NewCatalog(f.fixture.filterGroups, f.fixture.filters, f.fixture.implications), nil
}

func (f *FakeRankingRepo) GetChartTags(ctx context.Context, db bun.IDB, gameID int64) ([]rankingdomain.ChartTag, error) {
	f.record("GetChartTags")
	return slices.Clone(f.fixture.tags), nil
}

func (f *FakeRankingRepo) GetLadderChartTags(ctx context.Context, db bun.IDB, ladderID int64) ([]rankingdomain.LadderChartTag, error) {
	f.record("GetLadderChartTags")
	if f.GetLadderChartTagsFunc != nil {
		return f.GetLadderChartTagsFunc(ctx, db, ladderID)
	}
	var out []rankingdomain.LadderChartTag
	for _, w := range f.fixture.weights {
		if w.LadderID == ladderID {
			out = append(out, w)
		}
	}
	return out, nil
}

func (f *FakeRankingRepo) GetRecords(ctx context.Context, db bun.IDB, q rankingdb.RecordQuery) ([]rankingdomain.Record, error) {
	f.record("GetRecords")
	if f.GetRecordsFunc != nil {
		return f.GetRecordsFunc(ctx, db, q)
	}
	out := []rankingdomain.Record{}
	if len(q.ChartIDs) == 0 && len(q.PlayerIDs) == 0 {
		return out, nil
	}
	for _, r := range f.fixture.records {
		if len(q.ChartIDs) > 0 && !slices.Contains(q.ChartIDs, r.ChartID) {
			continue
		}
		if len(q.PlayerIDs) > 0 && !slices.Contains(q.PlayerIDs, r.PlayerID) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *FakeRankingRepo) GetPlayers(ctx context.Context, db bun.IDB, playerIDs []int64) (map[int64]rankingdomain.Player, error) {
	f.record("GetPlayers")
	out := make(map[int64]rankingdomain.Player)
	for _, p := range f.fixture.players {
		if slices.Contains(playerIDs, p.ID) {
			out[p.ID] = p
		}
	}
	return out, nil
}

func (f *FakeRankingRepo) SearchPlayers(ctx context.Context, db bun.IDB, arg string, terms []string, limit int) ([]rankingdomain.Player, error) {
	f.record("SearchPlayers")
	if f.SearchPlayersFunc != nil {
		return f.SearchPlayersFunc(ctx, db, arg, terms, limit)
	}
	var out []rankingdomain.Player
	for _, p := range f.fixture.players {
		name := strings.ToLower(p.Username)
		match := true
		for _, t := range terms {
			if !strings.Contains(name, strings.ToLower(t)) {
				match = false
				break
			}
		}
		if match {
			out = append(out, p)
		}
	}
	return out, nil
}

// --- Accessors for assertions ---

func (f *FakeRankingRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

// Ensure the fake actually satisfies the interface
var _ rankingdb.Repository = (*FakeRankingRepo)(nil)
