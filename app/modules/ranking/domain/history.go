package rankingdomain

import (
	"cmp"
	"fmt"
	"slices"
)

// ImprovementsOption selects how a record history treats improvements.
type ImprovementsOption string

const (
	// ImprovementsFlag marks each record as an improvement or not.
	ImprovementsFlag ImprovementsOption = "flag"
	// ImprovementsFilter keeps only improvements, giving a PB or WR history.
	ImprovementsFilter ImprovementsOption = "filter"
)

// ParseImprovementsOption defaults to ImprovementsFlag when raw is empty.
func ParseImprovementsOption(raw string) (ImprovementsOption, error) {
	switch o := ImprovementsOption(raw); o {
	case "":
		return ImprovementsFlag, nil
	case ImprovementsFlag, ImprovementsFilter:
		return o, nil
	}
	return "", fmt.Errorf("%q: %w", raw, ErrInvalidImprovementsOption)
}

// HistoryRecord is a record in a chart's history.
type HistoryRecord struct {
	Record
	IsImprovement bool
}

// SortLatestFirst orders records by DateAchieved descending, then id
// descending.
func SortLatestFirst(records []Record) {
	slices.SortStableFunc(records, func(a, b Record) int {
		return cmp.Or(b.DateAchieved.Compare(a.DateAchieved), cmp.Compare(b.ID, a.ID))
	})
}

// FlagImprovements walks latest-first records from the earliest one and marks
// each record that beats every record before it. Ties are not improvements.
func FlagImprovements(latestFirst []Record, ascending bool) []HistoryRecord {
	out := make([]HistoryRecord, len(latestFirst))
	var (
		best    int64
		hasBest bool
	)
	for i := len(latestFirst) - 1; i >= 0; i-- {
		r := latestFirst[i]
		improved := !hasBest || IsBetter(r.Value, best, ascending)
		if improved {
			best, hasBest = r.Value, true
		}
		out[i] = HistoryRecord{Record: r, IsImprovement: improved}
	}
	return out
}

// FilterImprovements keeps only the improvements of FlagImprovements, still
// latest first.
func FilterImprovements(latestFirst []Record, ascending bool) []HistoryRecord {
	flagged := FlagImprovements(latestFirst, ascending)
	out := make([]HistoryRecord, 0, len(flagged))
	for _, r := range flagged {
		if r.IsImprovement {
			out = append(out, r)
		}
	}
	return out
}
