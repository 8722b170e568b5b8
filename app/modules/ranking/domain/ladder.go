package rankingdomain

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// ratioPrecision is the number of decimal places kept by SRPR divisions.
const ratioPrecision = 16

var hundred = decimal.NewFromInt(100)

// LadderInput is everything ComputeLadderRanking needs, loaded up front.
type LadderInput struct {
	// Charts is the flattened chart list of the ladder's chart group.
	Charts []Chart
	// ChartTypes must hold the type of every chart and the primary type of
	// every chart tag touching Charts.
	ChartTypes map[int64]ChartType
	// ChartTags are the game's chart tags.
	ChartTags []ChartTag
	Weights   []LadderChartTag
	// Records holds every record of each chart, keyed by chart id.
	Records map[int64][]Record
	Players map[int64]Player
	Spec    FilterSpec
	Catalog FilterCatalog
}

// LadderCell is a player's best record on one ladder chart.
type LadderCell struct {
	ChartID int64
	Rank    int
	Value   int64
	Display string
}

// LadderTotal is a player's summed value over the charts of a tag. Value and
// Display are nil when the total is undefined.
type LadderTotal struct {
	ChartTagID int64
	Name       string
	Value      *int64
	Display    *string
}

// LadderEntry is one player's row of a ladder ranking.
type LadderEntry struct {
	Rank              int
	PlayerID          int64
	Username          string
	AF                decimal.Decimal
	AFDisplay         string
	SRPR              decimal.Decimal
	SRPRDisplay       string
	LastActive        time.Time
	LastActiveDisplay string
	Totals            []LadderTotal
	// Cells follows the order of LadderInput.Charts; nil means no record.
	Cells []*LadderCell

	weightedRankSum decimal.Decimal
}

type ladderChart struct {
	chart       Chart
	chartType   ChartType
	weight      decimal.Decimal
	recordCount int
	srValue     int64
	byPlayer    map[int64]RankedRecord
}

// ChartWeight returns a chart's weight within a ladder: 1 when the ladder has
// no weights at all, otherwise the lowest weight among the chart's weighted
// tags, or 0 when none of its tags are weighted.
func ChartWeight(chartID int64, tags []ChartTag, weights []LadderChartTag) decimal.Decimal {
	if len(weights) == 0 {
		return decimal.NewFromInt(1)
	}
	tagged := make(map[int64]bool)
	for _, t := range tags {
		if slices.Contains(t.ChartIDs, chartID) {
			tagged[t.ID] = true
		}
	}
	var (
		weight decimal.Decimal
		found  bool
	)
	for _, w := range weights {
		if !tagged[w.ChartTagID] {
			continue
		}
		if !found || w.Weight.LessThan(weight) {
			weight = w.Weight
			found = true
		}
	}
	if !found {
		return decimal.Zero
	}
	return weight
}

// ComputeLadderRanking ranks every player with at least one filtered record
// on the ladder's charts by Average Finish, and computes their SRPR and
// chart tag totals. A ladder whose chart weights sum to zero has no entries.
func ComputeLadderRanking(in LadderInput) ([]LadderEntry, error) {
	for _, w := range in.Weights {
		if err := w.Validate(); err != nil {
			return nil, err
		}
	}

	charts := make([]ladderChart, 0, len(in.Charts))
	totalWeight := decimal.Zero
	lastActive := make(map[int64]time.Time)
	var playerOrder []int64

	for _, c := range in.Charts {
		ct, ok := in.ChartTypes[c.ChartTypeID]
		if !ok {
			return nil, fmt.Errorf("chart %d type %d: %w", c.ID, c.ChartTypeID, ErrChartTypeNotFound)
		}

		records, err := ApplyFilterSpec(in.Records[c.ID], in.Spec, in.Catalog, &ct)
		if err != nil {
			return nil, fmt.Errorf("chart %d: %w", c.ID, err)
		}
		for _, r := range records {
			prev, seen := lastActive[r.PlayerID]
			if !seen {
				playerOrder = append(playerOrder, r.PlayerID)
			}
			if !seen || r.DateAchieved.After(prev) {
				lastActive[r.PlayerID] = r.DateAchieved
			}
		}

		SortByValue(records, ct.OrderAscending)
		ranking := MakeRecordRanking(records)

		lc := ladderChart{
			chart:       c,
			chartType:   ct,
			weight:      ChartWeight(c.ID, in.ChartTags, in.Weights),
			recordCount: len(ranking),
			byPlayer:    make(map[int64]RankedRecord, len(ranking)),
		}
		if len(ranking) > 0 {
			lc.srValue = ranking[0].Value
		}
		for _, rr := range ranking {
			lc.byPlayer[rr.PlayerID] = rr
		}
		totalWeight = totalWeight.Add(lc.weight)
		charts = append(charts, lc)
	}

	if totalWeight.IsZero() {
		return []LadderEntry{}, nil
	}

	tags, err := ladderTags(in)
	if err != nil {
		return nil, err
	}

	entries := make([]LadderEntry, 0, len(playerOrder))
	for _, playerID := range playerOrder {
		entry, err := ladderEntry(playerID, charts, tags, totalWeight)
		if err != nil {
			return nil, err
		}
		entry.Username = in.Players[playerID].Username
		entry.LastActive = lastActive[playerID]
		entry.LastActiveDisplay = entry.LastActive.Format(time.DateOnly)
		entries = append(entries, entry)
	}

	slices.SortStableFunc(entries, func(a, b LadderEntry) int {
		return cmp.Or(a.weightedRankSum.Cmp(b.weightedRankSum), cmp.Compare(a.PlayerID, b.PlayerID))
	})
	ranks := CompetitionRanks(entries, func(prev, cur LadderEntry) bool {
		return prev.weightedRankSum.Equal(cur.weightedRankSum)
	})
	for i := range entries {
		entries[i].Rank = ranks[i]
	}
	return entries, nil
}

type ladderTag struct {
	tag       ChartTag
	chartType ChartType
	charts    map[int64]bool
}

// ladderTags returns the chart tags touching the ladder's charts, in order of
// first appearance along the chart list.
func ladderTags(in LadderInput) ([]ladderTag, error) {
	seen := make(map[int64]bool)
	var out []ladderTag
	for _, c := range in.Charts {
		for _, t := range in.ChartTags {
			if seen[t.ID] || !slices.Contains(t.ChartIDs, c.ID) {
				continue
			}
			seen[t.ID] = true
			ct, ok := in.ChartTypes[t.PrimaryChartTypeID]
			if !ok {
				return nil, fmt.Errorf("chart tag %d primary type %d: %w", t.ID, t.PrimaryChartTypeID, ErrChartTypeNotFound)
			}
			lt := ladderTag{tag: t, chartType: ct, charts: make(map[int64]bool, len(t.ChartIDs))}
			for _, id := range t.ChartIDs {
				lt.charts[id] = true
			}
			out = append(out, lt)
		}
	}
	return out, nil
}

func ladderEntry(playerID int64, charts []ladderChart, tags []ladderTag, totalWeight decimal.Decimal) (LadderEntry, error) {
	entry := LadderEntry{
		PlayerID: playerID,
		Cells:    make([]*LadderCell, len(charts)),
	}

	rankSum := decimal.Zero
	ratioSum := decimal.Zero
	for i, lc := range charts {
		rr, ok := lc.byPlayer[playerID]
		if !ok {
			// Unranked players sit just below the chart's last record.
			penalty := decimal.NewFromInt(int64(lc.recordCount + 1))
			rankSum = rankSum.Add(lc.weight.Mul(penalty))
			continue
		}

		display, err := lc.chartType.FormatSpec.Format(rr.Value)
		if err != nil {
			return LadderEntry{}, fmt.Errorf("chart %d record %d: %w", lc.chart.ID, rr.ID, err)
		}
		entry.Cells[i] = &LadderCell{ChartID: lc.chart.ID, Rank: rr.Rank, Value: rr.Value, Display: display}

		rankSum = rankSum.Add(lc.weight.Mul(decimal.NewFromInt(int64(rr.Rank))))
		ratioSum = ratioSum.Add(lc.weight.Mul(recordRatio(lc.srValue, rr.Value, lc.chartType.OrderAscending)))
	}

	entry.weightedRankSum = rankSum
	entry.AF = rankSum.DivRound(totalWeight, ratioPrecision)
	entry.AFDisplay = entry.AF.StringFixed(3)
	entry.SRPR = hundred.Mul(ratioSum).DivRound(totalWeight, ratioPrecision)
	entry.SRPRDisplay = entry.SRPR.StringFixed(3) + "%"

	for _, lt := range tags {
		total, err := tagTotal(lt, charts, entry.Cells)
		if err != nil {
			return LadderEntry{}, err
		}
		entry.Totals = append(entry.Totals, total)
	}
	return entry, nil
}

// recordRatio is the share of the chart record a value achieves, 1 meaning it
// ties the record.
func recordRatio(srValue, value int64, ascending bool) decimal.Decimal {
	num, den := srValue, value
	if !ascending {
		num, den = value, srValue
	}
	if den == 0 {
		return decimal.NewFromInt(1)
	}
	return decimal.NewFromInt(num).DivRound(decimal.NewFromInt(den), ratioPrecision)
}

// tagTotal sums the player's values over the tag's charts. A missing record
// voids an ascending total and is skipped in a descending one.
func tagTotal(lt ladderTag, charts []ladderChart, cells []*LadderCell) (LadderTotal, error) {
	total := LadderTotal{ChartTagID: lt.tag.ID, Name: lt.tag.DisplayTotalName()}

	var sum int64
	for i, lc := range charts {
		if !lt.charts[lc.chart.ID] {
			continue
		}
		if cells[i] == nil {
			if lt.chartType.OrderAscending {
				return total, nil
			}
			continue
		}
		sum += cells[i].Value
	}

	display, err := lt.chartType.FormatSpec.Format(sum)
	if err != nil {
		return LadderTotal{}, fmt.Errorf("chart tag %d total: %w", lt.tag.ID, err)
	}
	total.Value = &sum
	total.Display = &display
	return total, nil
}
