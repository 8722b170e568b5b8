package rankingdomain

import (
	"cmp"
	"slices"
)

// SortByValue sorts records best-first in place: by value in the chart
// type's direction, then earliest DateAchieved, then lowest id. Records from
// several charts can be sorted together as long as they share a direction.
func SortByValue(records []Record, ascending bool) {
	slices.SortStableFunc(records, func(a, b Record) int {
		c := cmp.Compare(a.Value, b.Value)
		if !ascending {
			c = -c
		}
		if c != 0 {
			return c
		}
		if c := a.DateAchieved.Compare(b.DateAchieved); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

// IsBetter reports whether value beats best in the given direction. Ties are
// not better.
func IsBetter(value, best int64, ascending bool) bool {
	if ascending {
		return value < best
	}
	return value > best
}

// MakeRecordRanking keeps each player's first record of the best-first
// sorted input and assigns competition ranks (1, 2, 2, 4) by value.
func MakeRecordRanking(sorted []Record) []RankedRecord {
	seen := make(map[int64]struct{}, len(sorted))
	ranking := make([]RankedRecord, 0, len(sorted))

	for _, r := range sorted {
		if _, ok := seen[r.PlayerID]; ok {
			continue
		}
		seen[r.PlayerID] = struct{}{}

		rank := len(ranking) + 1
		if n := len(ranking); n > 0 && ranking[n-1].Value == r.Value {
			rank = ranking[n-1].Rank
		}
		ranking = append(ranking, RankedRecord{Record: r, Rank: rank})
	}
	return ranking
}

// CompetitionRanks assigns 1-based competition ranks to items already in
// ranking order. tied reports whether cur shares prev's rank.
func CompetitionRanks[T any](items []T, tied func(prev, cur T) bool) []int {
	ranks := make([]int, len(items))
	for i, item := range items {
		if i > 0 && tied(items[i-1], item) {
			ranks[i] = ranks[i-1]
			continue
		}
		ranks[i] = i + 1
	}
	return ranks
}
