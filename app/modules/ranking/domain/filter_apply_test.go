package rankingdomain

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func filterTestRecords() []Record {
	return []Record{
		{ID: 1, PlayerID: 1, Value: 100, FilterIDs: []int64{filterBlueFalcon, filterSetting100}},
		{ID: 2, PlayerID: 2, Value: 110, FilterIDs: []int64{filterGoldenFox, filterSetting0}},
		{ID: 3, PlayerID: 3, Value: 120, FilterIDs: []int64{filterCustomCombo, filterSetting50}},
		{ID: 4, PlayerID: 4, Value: 130, FilterIDs: []int64{filterSuperCustom}},
		{ID: 5, PlayerID: 5, Value: 140},
		{ID: 6, PlayerID: 6, Value: 150, FilterIDs: []int64{filterBlueFalcon, filterSkipsYes}},
	}
}

func recordIDs(records []Record) []int64 {
	ids := make([]int64, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.ID)
	}
	return ids
}

func TestApplyFilterSpec(t *testing.T) {
	courseTime := &ChartType{ID: 1, FilterGroupIDs: []int64{groupMachine, groupSetting}}

	tests := []struct {
		name      string
		spec      string
		chartType *ChartType
		want      []int64
		wantErr   error
	}{
		{name: "empty spec keeps everything", spec: "", want: []int64{1, 2, 3, 4, 5, 6}},
		{name: "choosable is", spec: "1", want: []int64{1, 6}},
		{name: "choosable is not needs a filter of the group", spec: "1n", want: []int64{2, 3, 4}},
		{name: "implied is follows implications transitively", spec: "3", want: []int64{3, 4}},
		{name: "implied is not", spec: "3n", want: []int64{1, 2, 6}},
		{name: "numeric greater or equal", spec: "11ge", want: []int64{1, 3}},
		{name: "numeric less or equal", spec: "11le", want: []int64{2, 3}},
		{name: "items are combined with and", spec: "1-12", want: []int64{1}},
		{name: "order of items does not matter", spec: "12-1", want: []int64{1}},
		{name: "no match", spec: "1-2", want: []int64{}},
		{name: "inapplicable group applies without chart type", spec: "20", want: []int64{6}},
		{name: "inapplicable group is skipped for chart type", spec: "20", chartType: courseTime, want: []int64{1, 2, 3, 4, 5, 6}},
		{name: "applicable items still apply with chart type", spec: "20-1n", chartType: courseTime, want: []int64{2, 3, 4}},
		{name: "unknown filter", spec: "999", wantErr: ErrFilterNotFound},
		{name: "threshold on filter without numeric value", spec: "1ge", wantErr: ErrInvalidFilterSpec},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := ParseFilterSpec(tt.spec)
			if err != nil {
				t.Fatalf("unexpected parse error: %v", err)
			}
			input := filterTestRecords()

			got, err := ApplyFilterSpec(input, spec, testCatalog(), tt.chartType)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, recordIDs(got)); diff != "" {
				t.Fatalf("record ids mismatch (-want +got):\n%s", diff)
			}
			if len(input) != 6 {
				t.Fatalf("input was modified")
			}
		})
	}
}

func TestScopeToChartTypeLeavesSpecUntouched(t *testing.T) {
	spec, _ := ParseFilterSpec("20-1-21")
	speed := ChartType{ID: 2, FilterGroupIDs: []int64{groupMachine}}

	scoped, err := ScopeToChartType(spec, testCatalog(), speed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if scoped.String() != "1" {
		t.Fatalf("scoped = %q, want %q", scoped.String(), "1")
	}
	if spec.String() != "20-1-21" {
		t.Fatalf("original spec changed to %q", spec.String())
	}
}
