package rankingservice

import (
	"context"
	"testing"

	rankingdomain "github.com/Black-And-White-Club/chart-ladders/app/modules/ranking/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

type ladderRow struct {
	Rank       int
	Username   string
	AF         string
	SRPR       string
	LastActive string
}

func ladderRows(entries []LadderEntryView) []ladderRow {
	out := make([]ladderRow, len(entries))
	for i, e := range entries {
		out[i] = ladderRow{e.Rank, e.Username, e.AF, e.SRPR, e.LastActive}
	}
	return out
}

func strPtr(s string) *string { return &s }

func TestGetLadderCharts(t *testing.T) {
	svc := newTestService(NewFakeRankingRepo(newRankingFixture()))

	got, err := svc.GetLadderCharts(context.Background(), 1)
	require.NoError(t, err)

	ids := make([]int64, len(got))
	for i, c := range got {
		ids[i] = c.ID
	}
	assert.Equal(t, []int64{101, 102, 103}, ids)

	_, err = svc.GetLadderCharts(context.Background(), 99)
	assert.ErrorIs(t, err, rankingdomain.ErrLadderNotFound)
}

func TestGetLadderRanking(t *testing.T) {
	svc := newTestService(NewFakeRankingRepo(newRankingFixture()))

	got, err := svc.GetLadderRanking(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, "Main", got.Name)
	assert.Equal(t, "main", got.Kind)
	assert.Len(t, got.Charts, 3)
	assert.Equal(t, []ladderRow{
		{1, "alice", "1.667", "64.583%", "2024-03-03"},
		{1, "bob", "1.667", "99.603%", "2024-03-03"},
		{3, "carol", "2.333", "33.151%", "2024-03-04"},
	}, ladderRows(got.Entries))

	alice := got.Entries[0]
	assert.Equal(t, []*LadderCellView{
		{ChartID: 101, Rank: 1, Value: 83000, Display: `1'23"000`},
		{ChartID: 102, Rank: 2, Value: 450, Display: "450 km/h"},
		nil,
	}, alice.Cells)

	// Course is ascending, so a missing chart voids the total.
	assert.Equal(t, []LadderTotalView{{ChartTagID: 1, Name: "Course total"}}, alice.Totals)

	bob := got.Entries[1]
	require.Len(t, bob.Totals, 1)
	assert.Equal(t, int64(174000), *bob.Totals[0].Value)
	assert.Equal(t, strPtr(`2'54"000`), bob.Totals[0].Display)
}

func TestGetLadderRankingUsesLadderFilterSpec(t *testing.T) {
	svc := newTestService(NewFakeRankingRepo(newRankingFixture()))

	got, err := svc.GetLadderRanking(context.Background(), 2)
	require.NoError(t, err)

	assert.Equal(t, "1", got.FilterSpec)
	// Big Blue has no Blue Falcon record, so its penalty rank is 1.
	assert.Equal(t, []ladderRow{{1, "alice", "1.000", "66.667%", "2024-03-03"}}, ladderRows(got.Entries))
}

func TestGetLadderRankingWeights(t *testing.T) {
	tests := []struct {
		name    string
		weight  string
		want    []ladderRow
		wantErr error
	}{
		{
			name:   "half weight on course charts",
			weight: "0.5",
			want: []ladderRow{
				{1, "alice", "1.500", "50.000%", "2024-03-03"},
				{2, "bob", "2.000", "99.405%", "2024-03-03"},
				{2, "carol", "2.000", "49.727%", "2024-03-04"},
			},
		},
		{
			name:   "zero total weight",
			weight: "0",
			want:   []ladderRow{},
		},
		{
			name:    "weight above one",
			weight:  "1.5",
			wantErr: rankingdomain.ErrInvalidWeight,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewFakeRankingRepo(newRankingFixture())
			repo.GetLadderChartTagsFunc = func(ctx context.Context, db bun.IDB, ladderID int64) ([]rankingdomain.LadderChartTag, error) {
				return []rankingdomain.LadderChartTag{
					{LadderID: ladderID, ChartTagID: 1, Weight: decimal.RequireFromString(tt.weight)},
				}, nil
			}
			svc := newTestService(repo)

			got, err := svc.GetLadderRanking(context.Background(), 1)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, ladderRows(got.Entries))
		})
	}
}

func TestGetLadderRankingInconsistentHierarchy(t *testing.T) {
	fixture := newRankingFixture()
	fixture.charts = append(fixture.charts, rankingdomain.Chart{ID: 104, ChartGroupID: 1, ChartTypeID: 1, Name: "Loose chart", OrderInGroup: 1})
	svc := newTestService(NewFakeRankingRepo(fixture))

	_, err := svc.GetLadderRanking(context.Background(), 1)
	assert.ErrorIs(t, err, rankingdomain.ErrInconsistentHierarchy)
}
