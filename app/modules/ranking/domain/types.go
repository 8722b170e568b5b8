package rankingdomain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Game is the root of the chart hierarchy.
type Game struct {
	ID        int64
	Name      string
	ShortCode string
}

// ChartGroup is a node in a game's chart hierarchy. A nil ParentID marks a
// top-level group.
type ChartGroup struct {
	ID                 int64
	GameID             int64
	Name               string
	ParentID           *int64
	OrderInParent      int
	ShowChartsTogether bool
}

// Chart is a single leaderboard.
type Chart struct {
	ID           int64
	ChartGroupID int64
	ChartTypeID  int64
	Name         string
	OrderInGroup int
}

// ChartType is the formatting and sort direction shared by charts.
type ChartType struct {
	ID             int64
	GameID         int64
	Name           string
	FormatSpec     FormatSpec
	OrderAscending bool
	// FilterGroupIDs lists the applicable filter groups in their configured order.
	FilterGroupIDs []int64
}

// HasFilterGroup reports whether the filter group applies to this chart type.
func (ct ChartType) HasFilterGroup(groupID int64) bool {
	for _, id := range ct.FilterGroupIDs {
		if id == groupID {
			return true
		}
	}
	return false
}

// FilterGroupKind is the closed set of filter group kinds.
type FilterGroupKind string

const (
	FilterGroupKindSelect  FilterGroupKind = "select"
	FilterGroupKindNumeric FilterGroupKind = "numeric"
)

// FilterGroup groups related filters, e.g. "Machine" or "Settings".
type FilterGroup struct {
	ID            int64
	GameID        int64
	Name          string
	Description   string
	Kind          FilterGroupKind
	ShowByDefault bool
	OrderInGame   int
}

// FilterUsageType says whether a filter is picked directly or inferred.
type FilterUsageType string

const (
	FilterUsageChoosable FilterUsageType = "choosable"
	FilterUsageImplied   FilterUsageType = "implied"
)

// Filter describes one condition a run was performed under.
type Filter struct {
	ID            int64
	FilterGroupID int64
	Name          string
	UsageType     FilterUsageType
	// NumericValue is only meaningful in numeric filter groups.
	NumericValue *int64
}

// FilterImplication is a directed edge: records with From also count as To.
type FilterImplication struct {
	FromFilterID int64
	ToFilterID   int64
}

// ChartTag groups charts for totals and ladder weighting.
type ChartTag struct {
	ID                 int64
	GameID             int64
	Name               string
	TotalName          string
	PrimaryChartTypeID int64
	ChartIDs           []int64
}

// DisplayTotalName returns the total name, defaulting to "<name> total".
func (t ChartTag) DisplayTotalName() string {
	if t.TotalName != "" {
		return t.TotalName
	}
	return t.Name + " total"
}

// LadderKind separates main ladders from side ladders.
type LadderKind string

const (
	LadderKindMain LadderKind = "main"
	LadderKindSide LadderKind = "side"
)

// Ladder is a composite ranking over a chart group's hierarchy.
type Ladder struct {
	ID                 int64
	GameID             int64
	Name               string
	ChartGroupID       int64
	Kind               LadderKind
	OrderInGameAndKind int
	FilterSpec         string
}

// LadderChartTag weights a chart tag's charts within a ladder.
type LadderChartTag struct {
	LadderID   int64
	ChartTagID int64
	Weight     decimal.Decimal
}

var weightCeiling = decimal.NewFromInt(1)

// Validate checks the 0 <= weight <= 1 invariant.
func (lct LadderChartTag) Validate() error {
	if lct.Weight.IsNegative() || lct.Weight.GreaterThan(weightCeiling) {
		return fmt.Errorf("chart tag %d weight %s: %w", lct.ChartTagID, lct.Weight, ErrInvalidWeight)
	}
	return nil
}

// Player submits records.
type Player struct {
	ID       int64
	Username string
}

// Record is one submitted run on a chart.
type Record struct {
	ID           int64
	ChartID      int64
	PlayerID     int64
	Value        int64
	DateAchieved time.Time
	DateCreated  time.Time
	FilterIDs    []int64
}

// HasFilter reports whether the filter was applied to the record.
func (r Record) HasFilter(filterID int64) bool {
	for _, id := range r.FilterIDs {
		if id == filterID {
			return true
		}
	}
	return false
}

// RankedRecord is a player's best record on a chart with its competition rank.
type RankedRecord struct {
	Record
	Rank int
}
