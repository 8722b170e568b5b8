package rankingservice

import (
	"bytes"
	"context"
	"testing"

	rankingdomain "github.com/Black-And-White-Club/chart-ladders/app/modules/ranking/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func TestGetChartRecordHistory(t *testing.T) {
	tests := []struct {
		name      string
		query     HistoryQuery
		wantIDs   []int64
		wantFlags []bool
		wantErr   error
	}{
		{
			name:      "flag mode is the default",
			wantIDs:   []int64{4, 3, 2, 1},
			wantFlags: []bool{false, true, false, true},
		},
		{
			name:      "filter mode keeps record progression",
			query:     HistoryQuery{Improvements: "filter"},
			wantIDs:   []int64{3, 1},
			wantFlags: []bool{true, true},
		},
		{
			name:      "one player",
			query:     HistoryQuery{PlayerID: int64Ptr(2)},
			wantIDs:   []int64{2},
			wantFlags: []bool{true},
		},
		{
			name:      "filters apply before flagging",
			query:     HistoryQuery{FilterQuery: FilterQuery{Filters: "2"}},
			wantIDs:   []int64{4, 2},
			wantFlags: []bool{true, true},
		},
		{
			name:    "unknown improvements option",
			query:   HistoryQuery{Improvements: "all"},
			wantErr: rankingdomain.ErrInvalidImprovementsOption,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewFakeRankingRepo(newRankingFixture())
			svc := newTestService(repo)

			got, err := svc.GetChartRecordHistory(context.Background(), 101, tt.query)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, repo.Trace())
				return
			}
			require.NoError(t, err)

			var ids []int64
			var flags []bool
			for _, r := range got.Records {
				ids = append(ids, r.ID)
				flags = append(flags, r.IsImprovement)
			}
			assert.Equal(t, tt.wantIDs, ids)
			assert.Equal(t, tt.wantFlags, flags)
		})
	}
}

func TestRenderChartRecordHistory(t *testing.T) {
	svc := newTestService(NewFakeRankingRepo(newRankingFixture()))

	png, err := svc.RenderChartRecordHistory(context.Background(), 101, HistoryQuery{})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, pngMagic))

	absent := int64(999)
	png, err = svc.RenderChartRecordHistory(context.Background(), 101, HistoryQuery{PlayerID: &absent})
	require.NoError(t, err, "a player without records still renders a placeholder")
	assert.True(t, bytes.HasPrefix(png, pngMagic))

	_, err = svc.RenderChartRecordHistory(context.Background(), 999, HistoryQuery{})
	assert.ErrorIs(t, err, rankingdomain.ErrChartNotFound)
}

func TestGenerateRecordHistoryChart(t *testing.T) {
	tests := []struct {
		name    string
		history *RecordHistory
	}{
		{name: "nil history", history: nil},
		{name: "no records", history: &RecordHistory{ChartName: "Empty"}},
		{
			name: "single record",
			history: &RecordHistory{
				ChartName:      "Mute City course",
				OrderAscending: true,
				Records: []HistoryRecordView{
					{RecordView: RecordView{ID: 1, Value: 83456, DateAchieved: fixtureDay(0)}, IsImprovement: true},
				},
				formatSpec: rankingdomain.FormatSpec{{Multiplier: 60, Suffix: "'"}, {Multiplier: 1000, Suffix: `"`, Digits: 2}, {Digits: 3}},
			},
		},
		{
			name: "progression",
			history: &RecordHistory{
				ChartName: "Mute City speed",
				Records: []HistoryRecordView{
					{RecordView: RecordView{ID: 2, Value: 480, DateAchieved: fixtureDay(4)}, IsImprovement: true},
					{RecordView: RecordView{ID: 1, Value: 450, DateAchieved: fixtureDay(0)}, IsImprovement: true},
				},
				formatSpec: rankingdomain.FormatSpec{{Suffix: " km/h"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			png, err := GenerateRecordHistoryChart(tt.history, DefaultChartPalette)
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(png, pngMagic))
		})
	}
}
