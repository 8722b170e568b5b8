package rankingdomain

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
)

const (
	typeCourseTime = int64(1)
	typeTopSpeed   = int64(2)
)

func ladderChartTypes() map[int64]ChartType {
	return map[int64]ChartType{
		typeCourseTime: {ID: typeCourseTime, Name: "Course Time", FormatSpec: FormatSpec{{}}, OrderAscending: true, FilterGroupIDs: []int64{groupMachine, groupSetting}},
		typeTopSpeed:   {ID: typeTopSpeed, Name: "Top Speed", FormatSpec: FormatSpec{{Suffix: " km/h"}}, OrderAscending: false, FilterGroupIDs: []int64{groupMachine}},
	}
}

func rec(id, chartID, playerID, value int64, day int, filters ...int64) Record {
	return Record{ID: id, ChartID: chartID, PlayerID: playerID, Value: value, DateAchieved: daysLater(day), FilterIDs: filters}
}

func entryByPlayer(t *testing.T, entries []LadderEntry, playerID int64) LadderEntry {
	t.Helper()
	for _, e := range entries {
		if e.PlayerID == playerID {
			return e
		}
	}
	t.Fatalf("player %d missing from ladder", playerID)
	return LadderEntry{}
}

func TestComputeLadderRankingUnweighted(t *testing.T) {
	in := LadderInput{
		Charts: []Chart{
			{ID: 1, ChartTypeID: typeCourseTime},
			{ID: 2, ChartTypeID: typeTopSpeed},
		},
		ChartTypes: ladderChartTypes(),
		Records: map[int64][]Record{
			1: {rec(1, 1, 1, 100, 0), rec(2, 1, 2, 200, 1)},
			2: {rec(3, 2, 1, 50, 2), rec(4, 2, 2, 10, 3)},
		},
		Players: map[int64]Player{1: {ID: 1, Username: "falcon"}, 2: {ID: 2, Username: "fox"}},
		Catalog: testCatalog(),
	}

	entries, err := ComputeLadderRanking(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	first, second := entries[0], entries[1]
	if first.PlayerID != 1 || first.Rank != 1 || first.AFDisplay != "1.000" || first.Username != "falcon" {
		t.Fatalf("unexpected first entry: %+v", first)
	}
	if second.PlayerID != 2 || second.Rank != 2 || second.AFDisplay != "2.000" {
		t.Fatalf("unexpected second entry: %+v", second)
	}
	if first.SRPRDisplay != "100.000%" || second.SRPRDisplay != "35.000%" {
		t.Fatalf("unexpected SRPR: %s, %s", first.SRPRDisplay, second.SRPRDisplay)
	}
	if !first.AF.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("AF = %s, want 1", first.AF)
	}
	if first.LastActiveDisplay != "2024-03-03" || second.LastActiveDisplay != "2024-03-04" {
		t.Fatalf("unexpected last active: %s, %s", first.LastActiveDisplay, second.LastActiveDisplay)
	}
	if first.Cells[1] == nil || first.Cells[1].Display != "50 km/h" || first.Cells[1].Rank != 1 {
		t.Fatalf("unexpected cell: %+v", first.Cells[1])
	}
}

func TestComputeLadderRankingUnrankedPenalty(t *testing.T) {
	in := LadderInput{
		Charts: []Chart{
			{ID: 1, ChartTypeID: typeCourseTime},
			{ID: 2, ChartTypeID: typeCourseTime},
		},
		ChartTypes: ladderChartTypes(),
		Records: map[int64][]Record{
			1: {rec(1, 1, 1, 100, 0), rec(2, 1, 2, 110, 0), rec(3, 1, 3, 120, 0)},
			2: {rec(4, 2, 4, 90, 0)},
		},
		Catalog: testCatalog(),
	}

	entries, err := ComputeLadderRanking(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Player 4 has no record among the 3 on chart 1: penalty rank 4, then
	// rank 1 on chart 2.
	p4 := entryByPlayer(t, entries, 4)
	if p4.AFDisplay != "2.500" {
		t.Fatalf("player 4 AF = %s, want 2.500", p4.AFDisplay)
	}
	if p4.Cells[0] != nil {
		t.Fatalf("expected no cell on chart 1, got %+v", p4.Cells[0])
	}

	// Players 1 to 3 get penalty rank 2 on chart 2.
	p1 := entryByPlayer(t, entries, 1)
	if p1.AFDisplay != "1.500" || p1.Rank != 1 {
		t.Fatalf("unexpected player 1 entry: %+v", p1)
	}
	p3 := entryByPlayer(t, entries, 3)
	if p3.AFDisplay != "2.500" || p3.Rank != p4.Rank || p3.Rank != 3 {
		t.Fatalf("expected players 3 and 4 tied at rank 3, got %d and %d", p3.Rank, p4.Rank)
	}
	if p4.SRPRDisplay != "50.000%" {
		t.Fatalf("player 4 SRPR = %s, want 50.000%%", p4.SRPRDisplay)
	}
}

func TestComputeLadderRankingEmptyChartPenaltyIsOne(t *testing.T) {
	in := LadderInput{
		Charts: []Chart{
			{ID: 1, ChartTypeID: typeCourseTime},
			{ID: 2, ChartTypeID: typeCourseTime},
		},
		ChartTypes: ladderChartTypes(),
		Records:    map[int64][]Record{1: {rec(1, 1, 1, 100, 0)}},
		Catalog:    testCatalog(),
	}

	entries, err := ComputeLadderRanking(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 || entries[0].AFDisplay != "1.000" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}

func weightedLadderInput() LadderInput {
	return LadderInput{
		Charts: []Chart{
			{ID: 1, ChartTypeID: typeCourseTime},
			{ID: 2, ChartTypeID: typeTopSpeed},
			{ID: 3, ChartTypeID: typeCourseTime},
		},
		ChartTypes: ladderChartTypes(),
		ChartTags: []ChartTag{
			{ID: 1, Name: "Course", PrimaryChartTypeID: typeCourseTime, ChartIDs: []int64{1, 3}},
			{ID: 2, Name: "Speed", TotalName: "Speed sum", PrimaryChartTypeID: typeTopSpeed, ChartIDs: []int64{2}},
			{ID: 3, Name: "Featured", PrimaryChartTypeID: typeCourseTime, ChartIDs: []int64{1, 2}},
		},
		Weights: []LadderChartTag{
			{LadderID: 1, ChartTagID: 3, Weight: decimal.RequireFromString("0.5")},
			{LadderID: 1, ChartTagID: 2, Weight: decimal.RequireFromString("0.25")},
		},
		Records: map[int64][]Record{
			1: {rec(1, 1, 1, 100, 0), rec(2, 1, 2, 200, 0)},
			2: {rec(3, 2, 1, 10, 0), rec(4, 2, 2, 50, 0)},
			3: {rec(5, 3, 3, 5, 0)},
		},
		Catalog: testCatalog(),
	}
}

func TestChartWeight(t *testing.T) {
	in := weightedLadderInput()
	tests := []struct {
		chartID int64
		weights []LadderChartTag
		want    string
	}{
		{chartID: 1, weights: in.Weights, want: "0.5"},
		{chartID: 2, weights: in.Weights, want: "0.25"},
		{chartID: 3, weights: in.Weights, want: "0"},
		{chartID: 3, weights: nil, want: "1"},
	}
	for _, tt := range tests {
		got := ChartWeight(tt.chartID, in.ChartTags, tt.weights)
		if !got.Equal(decimal.RequireFromString(tt.want)) {
			t.Fatalf("ChartWeight(%d) = %s, want %s", tt.chartID, got, tt.want)
		}
	}
}

func TestComputeLadderRankingWeighted(t *testing.T) {
	entries, err := ComputeLadderRanking(weightedLadderInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got []string
	for _, e := range entries {
		got = append(got, e.AFDisplay+" "+e.SRPRDisplay)
	}
	want := []string{
		"1.333 73.333%",
		"1.667 66.667%",
		"3.000 0.000%",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("AF/SRPR mismatch (-want +got):\n%s", diff)
	}
	if entries[0].PlayerID != 1 || entries[2].PlayerID != 3 {
		t.Fatalf("unexpected order: %d, %d, %d", entries[0].PlayerID, entries[1].PlayerID, entries[2].PlayerID)
	}
}

func TestComputeLadderRankingTotals(t *testing.T) {
	entries, err := ComputeLadderRanking(weightedLadderInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	type total struct {
		Name    string
		Display string
	}
	render := func(e LadderEntry) []total {
		out := make([]total, len(e.Totals))
		for i, tot := range e.Totals {
			out[i] = total{Name: tot.Name, Display: "none"}
			if tot.Display != nil {
				out[i].Display = *tot.Display
			}
		}
		return out
	}

	p1 := entryByPlayer(t, entries, 1)
	want := []total{
		{Name: "Course total", Display: "none"},
		{Name: "Featured total", Display: "110"},
		{Name: "Speed sum", Display: "10 km/h"},
	}
	if diff := cmp.Diff(want, render(p1)); diff != "" {
		t.Fatalf("player 1 totals mismatch (-want +got):\n%s", diff)
	}

	p3 := entryByPlayer(t, entries, 3)
	want = []total{
		{Name: "Course total", Display: "none"},
		{Name: "Featured total", Display: "none"},
		{Name: "Speed sum", Display: "0 km/h"},
	}
	if diff := cmp.Diff(want, render(p3)); diff != "" {
		t.Fatalf("player 3 totals mismatch (-want +got):\n%s", diff)
	}
}

func TestComputeLadderRankingZeroWeightIsEmpty(t *testing.T) {
	in := weightedLadderInput()
	in.Weights = []LadderChartTag{{LadderID: 1, ChartTagID: 99, Weight: decimal.RequireFromString("1")}}

	entries, err := ComputeLadderRanking(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no entries, got %d", len(entries))
	}
}

func TestComputeLadderRankingAppliesScopedSpec(t *testing.T) {
	in := LadderInput{
		Charts: []Chart{
			{ID: 1, ChartTypeID: typeCourseTime},
			{ID: 2, ChartTypeID: typeTopSpeed},
		},
		ChartTypes: ladderChartTypes(),
		Records: map[int64][]Record{
			1: {
				rec(1, 1, 1, 100, 0, filterBlueFalcon, filterSetting0),
				rec(2, 1, 1, 90, 5, filterBlueFalcon, filterSetting100),
				rec(3, 1, 2, 95, 1, filterGoldenFox, filterSetting100),
			},
			2: {rec(4, 2, 2, 400, 2, filterGoldenFox)},
		},
		Catalog: testCatalog(),
	}
	// The setting filter does not apply to top speed charts.
	spec, err := ParseFilterSpec("10le")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	in.Spec = spec

	entries, err := ComputeLadderRanking(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	p1 := entryByPlayer(t, entries, 1)
	if p1.Cells[0] == nil || p1.Cells[0].Value != 100 {
		t.Fatalf("expected the 0%% setting record, got %+v", p1.Cells[0])
	}
	if p1.LastActiveDisplay != "2024-03-01" {
		t.Fatalf("last active should only consider filtered records, got %s", p1.LastActiveDisplay)
	}
	p2 := entryByPlayer(t, entries, 2)
	if p2.Cells[0] != nil || p2.Cells[1] == nil {
		t.Fatalf("unexpected player 2 cells: %+v", p2.Cells)
	}
}

func TestComputeLadderRankingValidation(t *testing.T) {
	in := weightedLadderInput()
	in.Weights = []LadderChartTag{{ChartTagID: 1, Weight: decimal.RequireFromString("1.5")}}
	if _, err := ComputeLadderRanking(in); err == nil {
		t.Fatalf("expected weight validation error")
	}

	in = weightedLadderInput()
	delete(in.ChartTypes, typeTopSpeed)
	if _, err := ComputeLadderRanking(in); err == nil {
		t.Fatalf("expected missing chart type error")
	}
}
