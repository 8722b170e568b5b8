package rankingdomain

import (
	"cmp"
	"fmt"
	"slices"
)

// RecordSort is the closed set of record list orders.
type RecordSort string

const (
	// RecordSortDateSubmitted lists the latest submissions first.
	RecordSortDateSubmitted RecordSort = "date_submitted"
	// RecordSortDateAchieved lists the latest achievements first.
	RecordSortDateAchieved RecordSort = "date_achieved"
	// RecordSortValue lists the best values first.
	RecordSortValue RecordSort = "value"
)

// ParseRecordSort defaults to RecordSortDateSubmitted when raw is empty.
func ParseRecordSort(raw string) (RecordSort, error) {
	switch s := RecordSort(raw); s {
	case "":
		return RecordSortDateSubmitted, nil
	case RecordSortDateSubmitted, RecordSortDateAchieved, RecordSortValue:
		return s, nil
	}
	return "", fmt.Errorf("%q: %w", raw, ErrInvalidRecordSort)
}

// SortLatestSubmitted orders records by DateCreated descending, then id
// descending.
func SortLatestSubmitted(records []Record) {
	slices.SortStableFunc(records, func(a, b Record) int {
		return cmp.Or(b.DateCreated.Compare(a.DateCreated), cmp.Compare(b.ID, a.ID))
	})
}

// SortRecords orders records in place. ascending only matters for
// RecordSortValue, where records of several charts are compared by value as
// if they shared one chart type.
func SortRecords(records []Record, by RecordSort, ascending bool) {
	switch by {
	case RecordSortDateAchieved:
		SortLatestFirst(records)
	case RecordSortValue:
		SortByValue(records, ascending)
	default:
		SortLatestSubmitted(records)
	}
}
