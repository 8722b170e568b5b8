package rankingdb

import (
	"time"

	rankingdomain "github.com/Black-And-White-Club/chart-ladders/app/modules/ranking/domain"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// Game is the root of a chart hierarchy.
type Game struct {
	bun.BaseModel `bun:"table:games,alias:gm"`

	ID        int64  `bun:"id,pk,autoincrement"`
	Name      string `bun:"name,notnull"`
	ShortCode string `bun:"short_code,notnull,unique"`
}

// ChartGroup is a node of the chart hierarchy.
type ChartGroup struct {
	bun.BaseModel `bun:"table:chart_groups,alias:cg"`

	ID                 int64  `bun:"id,pk,autoincrement"`
	GameID             int64  `bun:"game_id,notnull"`
	Name               string `bun:"name,notnull"`
	ParentID           *int64 `bun:"parent_id"`
	OrderInParent      int    `bun:"order_in_parent,notnull"`
	ShowChartsTogether bool   `bun:"show_charts_together,notnull,default:false"`
}

func (m *ChartGroup) toDomain() rankingdomain.ChartGroup {
	return rankingdomain.ChartGroup{
		ID:                 m.ID,
		GameID:             m.GameID,
		Name:               m.Name,
		ParentID:           m.ParentID,
		OrderInParent:      m.OrderInParent,
		ShowChartsTogether: m.ShowChartsTogether,
	}
}

// Chart is a single leaderboard.
type Chart struct {
	bun.BaseModel `bun:"table:charts,alias:ch"`

	ID           int64  `bun:"id,pk,autoincrement"`
	ChartGroupID int64  `bun:"chart_group_id,notnull"`
	ChartTypeID  int64  `bun:"chart_type_id,notnull"`
	Name         string `bun:"name,notnull"`
	OrderInGroup int    `bun:"order_in_group,notnull"`
}

func (m *Chart) toDomain() rankingdomain.Chart {
	return rankingdomain.Chart{
		ID:           m.ID,
		ChartGroupID: m.ChartGroupID,
		ChartTypeID:  m.ChartTypeID,
		Name:         m.Name,
		OrderInGroup: m.OrderInGroup,
	}
}

// ChartType holds a chart's value format and sort direction.
type ChartType struct {
	bun.BaseModel `bun:"table:chart_types,alias:ct"`

	ID             int64                    `bun:"id,pk,autoincrement"`
	GameID         int64                    `bun:"game_id,notnull"`
	Name           string                   `bun:"name,notnull"`
	FormatSpec     rankingdomain.FormatSpec `bun:"format_spec,type:jsonb,notnull"`
	OrderAscending bool                     `bun:"order_ascending,notnull"`
}

func (m *ChartType) toDomain(filterGroupIDs []int64) rankingdomain.ChartType {
	return rankingdomain.ChartType{
		ID:             m.ID,
		GameID:         m.GameID,
		Name:           m.Name,
		FormatSpec:     m.FormatSpec,
		OrderAscending: m.OrderAscending,
		FilterGroupIDs: filterGroupIDs,
	}
}

// ChartTypeFilterGroup is the ordered join between chart types and filter groups.
type ChartTypeFilterGroup struct {
	bun.BaseModel `bun:"table:chart_type_filter_groups,alias:ctfg"`

	ID               int64 `bun:"id,pk,autoincrement"`
	ChartTypeID      int64 `bun:"chart_type_id,notnull"`
	FilterGroupID    int64 `bun:"filter_group_id,notnull"`
	OrderInChartType int   `bun:"order_in_chart_type,notnull"`
}

// FilterGroup groups related filters.
type FilterGroup struct {
	bun.BaseModel `bun:"table:filter_groups,alias:fg"`

	ID            int64  `bun:"id,pk,autoincrement"`
	GameID        int64  `bun:"game_id,notnull"`
	Name          string `bun:"name,notnull"`
	Description   string `bun:"description,notnull,default:''"`
	Kind          string `bun:"kind,notnull"`
	ShowByDefault bool   `bun:"show_by_default,notnull,default:true"`
	OrderInGame   int    `bun:"order_in_game,notnull"`
}

func (m *FilterGroup) toDomain() rankingdomain.FilterGroup {
	return rankingdomain.FilterGroup{
		ID:            m.ID,
		GameID:        m.GameID,
		Name:          m.Name,
		Description:   m.Description,
		Kind:          rankingdomain.FilterGroupKind(m.Kind),
		ShowByDefault: m.ShowByDefault,
		OrderInGame:   m.OrderInGame,
	}
}

// Filter is one selectable or implied condition.
type Filter struct {
	bun.BaseModel `bun:"table:filters,alias:f"`

	ID            int64  `bun:"id,pk,autoincrement"`
	FilterGroupID int64  `bun:"filter_group_id,notnull"`
	Name          string `bun:"name,notnull"`
	UsageType     string `bun:"usage_type,notnull"`
	NumericValue  *int64 `bun:"numeric_value"`
}

func (m *Filter) toDomain() rankingdomain.Filter {
	return rankingdomain.Filter{
		ID:            m.ID,
		FilterGroupID: m.FilterGroupID,
		Name:          m.Name,
		UsageType:     rankingdomain.FilterUsageType(m.UsageType),
		NumericValue:  m.NumericValue,
	}
}

// FilterImplication is a directed edge of the implication graph.
type FilterImplication struct {
	bun.BaseModel `bun:"table:filter_implications,alias:fi"`

	FromFilterID int64 `bun:"from_filter_id,pk"`
	ToFilterID   int64 `bun:"to_filter_id,pk"`
}

// ChartTag groups charts for totals and ladder weights.
type ChartTag struct {
	bun.BaseModel `bun:"table:chart_tags,alias:tag"`

	ID                 int64  `bun:"id,pk,autoincrement"`
	GameID             int64  `bun:"game_id,notnull"`
	Name               string `bun:"name,notnull"`
	TotalName          string `bun:"total_name,notnull,default:''"`
	PrimaryChartTypeID int64  `bun:"primary_chart_type_id,notnull"`
}

// ChartTagChart links a chart tag to one chart.
type ChartTagChart struct {
	bun.BaseModel `bun:"table:chart_tag_charts,alias:tc"`

	ChartTagID int64 `bun:"chart_tag_id,pk"`
	ChartID    int64 `bun:"chart_id,pk"`
}

// Ladder is a composite ranking over a chart group.
type Ladder struct {
	bun.BaseModel `bun:"table:ladders,alias:ld"`

	ID                 int64  `bun:"id,pk,autoincrement"`
	GameID             int64  `bun:"game_id,notnull"`
	Name               string `bun:"name,notnull"`
	ChartGroupID       int64  `bun:"chart_group_id,notnull"`
	Kind               string `bun:"kind,notnull"`
	OrderInGameAndKind int    `bun:"order_in_game_and_kind,notnull"`
	FilterSpec         string `bun:"filter_spec,notnull,default:''"`
}

func (m *Ladder) toDomain() rankingdomain.Ladder {
	return rankingdomain.Ladder{
		ID:                 m.ID,
		GameID:             m.GameID,
		Name:               m.Name,
		ChartGroupID:       m.ChartGroupID,
		Kind:               rankingdomain.LadderKind(m.Kind),
		OrderInGameAndKind: m.OrderInGameAndKind,
		FilterSpec:         m.FilterSpec,
	}
}

// LadderChartTag weights a chart tag within a ladder.
type LadderChartTag struct {
	bun.BaseModel `bun:"table:ladder_chart_tags,alias:lct"`

	ID         int64           `bun:"id,pk,autoincrement"`
	LadderID   int64           `bun:"ladder_id,notnull"`
	ChartTagID int64           `bun:"chart_tag_id,notnull"`
	Weight     decimal.Decimal `bun:"weight,type:numeric(4,3),notnull"`
}

// Player submits records.
type Player struct {
	bun.BaseModel `bun:"table:players,alias:p"`

	ID       int64  `bun:"id,pk,autoincrement"`
	Username string `bun:"username,notnull,unique"`
}

// Record is a submitted run.
type Record struct {
	bun.BaseModel `bun:"table:records,alias:r"`

	ID           int64     `bun:"id,pk,autoincrement"`
	ChartID      int64     `bun:"chart_id,notnull"`
	PlayerID     int64     `bun:"player_id,notnull"`
	Value        int64     `bun:"value,notnull"`
	DateAchieved time.Time `bun:"date_achieved,notnull"`
	DateCreated  time.Time `bun:"date_created,nullzero,notnull,default:current_timestamp"`
}

// RecordFilter is one filter applied to a record.
type RecordFilter struct {
	bun.BaseModel `bun:"table:record_filters,alias:rf"`

	RecordID int64 `bun:"record_id,pk"`
	FilterID int64 `bun:"filter_id,pk"`
}
