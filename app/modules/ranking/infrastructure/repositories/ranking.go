package rankingdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	rankingdomain "github.com/Black-And-White-Club/chart-ladders/app/modules/ranking/domain"
	"github.com/uptrace/bun"
)

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new ranking repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

// resolveDB returns the provided db handle, falling back to the repository's
// default connection if db is nil.
func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

func (r *Impl) GetChart(ctx context.Context, db bun.IDB, chartID int64) (rankingdomain.Chart, error) {
	db = r.resolveDB(db)
	chart := new(Chart)
	err := db.NewSelect().Model(chart).Where("ch.id = ?", chartID).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return rankingdomain.Chart{}, fmt.Errorf("chart %d: %w", chartID, ErrNotFound)
		}
		return rankingdomain.Chart{}, fmt.Errorf("rankingdb.GetChart: %w", err)
	}
	return chart.toDomain(), nil
}

func (r *Impl) GetChartGroup(ctx context.Context, db bun.IDB, groupID int64) (rankingdomain.ChartGroup, error) {
	db = r.resolveDB(db)
	group := new(ChartGroup)
	err := db.NewSelect().Model(group).Where("cg.id = ?", groupID).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return rankingdomain.ChartGroup{}, fmt.Errorf("chart group %d: %w", groupID, ErrNotFound)
		}
		return rankingdomain.ChartGroup{}, fmt.Errorf("rankingdb.GetChartGroup: %w", err)
	}
	return group.toDomain(), nil
}

func (r *Impl) GetLadder(ctx context.Context, db bun.IDB, ladderID int64) (rankingdomain.Ladder, error) {
	db = r.resolveDB(db)
	ladder := new(Ladder)
	err := db.NewSelect().Model(ladder).Where("ld.id = ?", ladderID).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return rankingdomain.Ladder{}, fmt.Errorf("ladder %d: %w", ladderID, ErrNotFound)
		}
		return rankingdomain.Ladder{}, fmt.Errorf("rankingdb.GetLadder: %w", err)
	}
	return ladder.toDomain(), nil
}

func (r *Impl) GetChartType(ctx context.Context, db bun.IDB, chartTypeID int64) (rankingdomain.ChartType, error) {
	db = r.resolveDB(db)
	chartType := new(ChartType)
	err := db.NewSelect().Model(chartType).Where("ct.id = ?", chartTypeID).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return rankingdomain.ChartType{}, fmt.Errorf("chart type %d: %w", chartTypeID, ErrNotFound)
		}
		return rankingdomain.ChartType{}, fmt.Errorf("rankingdb.GetChartType: %w", err)
	}

	groupIDs, err := r.chartTypeFilterGroups(ctx, db, []int64{chartTypeID})
	if err != nil {
		return rankingdomain.ChartType{}, fmt.Errorf("rankingdb.GetChartType: %w", err)
	}
	return chartType.toDomain(groupIDs[chartTypeID]), nil
}

func (r *Impl) GetChartTypes(ctx context.Context, db bun.IDB, gameID int64) (map[int64]rankingdomain.ChartType, error) {
	db = r.resolveDB(db)
	var chartTypes []ChartType
	if err := db.NewSelect().Model(&chartTypes).Where("ct.game_id = ?", gameID).Scan(ctx); err != nil {
		return nil, fmt.Errorf("rankingdb.GetChartTypes: %w", err)
	}

	ids := make([]int64, len(chartTypes))
	for i := range chartTypes {
		ids[i] = chartTypes[i].ID
	}
	groupIDs, err := r.chartTypeFilterGroups(ctx, db, ids)
	if err != nil {
		return nil, fmt.Errorf("rankingdb.GetChartTypes: %w", err)
	}

	out := make(map[int64]rankingdomain.ChartType, len(chartTypes))
	for i := range chartTypes {
		ct := &chartTypes[i]
		out[ct.ID] = ct.toDomain(groupIDs[ct.ID])
	}
	return out, nil
}

// chartTypeFilterGroups returns the ordered filter group ids of each chart type.
func (r *Impl) chartTypeFilterGroups(ctx context.Context, db bun.IDB, chartTypeIDs []int64) (map[int64][]int64, error) {
	out := make(map[int64][]int64, len(chartTypeIDs))
	if len(chartTypeIDs) == 0 {
		return out, nil
	}
	var links []ChartTypeFilterGroup
	err := db.NewSelect().
		Model(&links).
		Where("ctfg.chart_type_id IN (?)", bun.In(chartTypeIDs)).
		OrderExpr("ctfg.chart_type_id ASC, ctfg.order_in_chart_type ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	for _, l := range links {
		out[l.ChartTypeID] = append(out[l.ChartTypeID], l.FilterGroupID)
	}
	return out, nil
}

func (r *Impl) GetGameHierarchy(ctx context.Context, db bun.IDB, gameID int64) ([]rankingdomain.ChartGroup, []rankingdomain.Chart, error) {
	db = r.resolveDB(db)

	var groups []ChartGroup
	if err := db.NewSelect().Model(&groups).Where("cg.game_id = ?", gameID).Scan(ctx); err != nil {
		return nil, nil, fmt.Errorf("rankingdb.GetGameHierarchy: %w", err)
	}

	var charts []Chart
	err := db.NewSelect().
		Model(&charts).
		Join("JOIN chart_groups AS cg ON cg.id = ch.chart_group_id").
		Where("cg.game_id = ?", gameID).
		Scan(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("rankingdb.GetGameHierarchy: %w", err)
	}

	outGroups := make([]rankingdomain.ChartGroup, len(groups))
	for i := range groups {
		outGroups[i] = groups[i].toDomain()
	}
	outCharts := make([]rankingdomain.Chart, len(charts))
	for i := range charts {
		outCharts[i] = charts[i].toDomain()
	}
	return outGroups, outCharts, nil
}

func (r *Impl) GetCharts(ctx context.Context, db bun.IDB, chartIDs []int64) ([]rankingdomain.Chart, error) {
	db = r.resolveDB(db)
	if len(chartIDs) == 0 {
		return []rankingdomain.Chart{}, nil
	}
	var charts []Chart
	err := db.NewSelect().
		Model(&charts).
		Where("ch.id IN (?)", bun.In(chartIDs)).
		OrderExpr("ch.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("rankingdb.GetCharts: %w", err)
	}
	out := make([]rankingdomain.Chart, len(charts))
	for i := range charts {
		out[i] = charts[i].toDomain()
	}
	return out, nil
}

func (r *Impl) GetChartsInGroup(ctx context.Context, db bun.IDB, groupID int64) ([]rankingdomain.Chart, error) {
	db = r.resolveDB(db)
	var charts []Chart
	err := db.NewSelect().
		Model(&charts).
		Where("ch.chart_group_id = ?", groupID).
		OrderExpr("ch.order_in_group ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("rankingdb.GetChartsInGroup: %w", err)
	}
	out := make([]rankingdomain.Chart, len(charts))
	for i := range charts {
		out[i] = charts[i].toDomain()
	}
	return out, nil
}

func (r *Impl) GetChildGroups(ctx context.Context, db bun.IDB, groupID int64) ([]rankingdomain.ChartGroup, error) {
	db = r.resolveDB(db)
	var groups []ChartGroup
	err := db.NewSelect().
		Model(&groups).
		Where("cg.parent_id = ?", groupID).
		OrderExpr("cg.order_in_parent ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("rankingdb.GetChildGroups: %w", err)
	}
	out := make([]rankingdomain.ChartGroup, len(groups))
	for i := range groups {
		out[i] = groups[i].toDomain()
	}
	return out, nil
}

func (r *Impl) GetFilterCatalog(ctx context.Context, db bun.IDB, gameID int64) (*rankingdomain.Catalog, error) {
	db = r.resolveDB(db)

	var groups []FilterGroup
	if err := db.NewSelect().Model(&groups).Where("fg.game_id = ?", gameID).Scan(ctx); err != nil {
		return nil, fmt.Errorf("rankingdb.GetFilterCatalog: %w", err)
	}

	var filters []Filter
	err := db.NewSelect().
		Model(&filters).
		Join("JOIN filter_groups AS fg ON fg.id = f.filter_group_id").
		Where("fg.game_id = ?", gameID).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("rankingdb.GetFilterCatalog: %w", err)
	}

	var edges []FilterImplication
	err = db.NewSelect().
		Model(&edges).
		Join("JOIN filters AS f ON f.id = fi.to_filter_id").
		Join("JOIN filter_groups AS fg ON fg.id = f.filter_group_id").
		Where("fg.game_id = ?", gameID).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("rankingdb.GetFilterCatalog: %w", err)
	}

	domainGroups := make([]rankingdomain.FilterGroup, len(groups))
	for i := range groups {
		domainGroups[i] = groups[i].toDomain()
	}
	domainFilters := make([]rankingdomain.Filter, len(filters))
	for i := range filters {
		domainFilters[i] = filters[i].toDomain()
	}
	domainEdges := make([]rankingdomain.FilterImplication, len(edges))
	for i, e := range edges {
		domainEdges[i] = rankingdomain.FilterImplication{FromFilterID: e.FromFilterID, ToFilterID: e.ToFilterID}
	}
	return rankingdomain.NewCatalog(domainGroups, domainFilters, domainEdges), nil
}

func (r *Impl) GetChartTags(ctx context.Context, db bun.IDB, gameID int64) ([]rankingdomain.ChartTag, error) {
	db = r.resolveDB(db)

	var tags []ChartTag
	err := db.NewSelect().
		Model(&tags).
		Where("tag.game_id = ?", gameID).
		OrderExpr("tag.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("rankingdb.GetChartTags: %w", err)
	}
	if len(tags) == 0 {
		return []rankingdomain.ChartTag{}, nil
	}

	ids := make([]int64, len(tags))
	for i := range tags {
		ids[i] = tags[i].ID
	}
	var links []ChartTagChart
	err = db.NewSelect().
		Model(&links).
		Where("tc.chart_tag_id IN (?)", bun.In(ids)).
		OrderExpr("tc.chart_tag_id ASC, tc.chart_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("rankingdb.GetChartTags: %w", err)
	}
	chartIDs := make(map[int64][]int64, len(tags))
	for _, l := range links {
		chartIDs[l.ChartTagID] = append(chartIDs[l.ChartTagID], l.ChartID)
	}

	out := make([]rankingdomain.ChartTag, len(tags))
	for i, t := range tags {
		out[i] = rankingdomain.ChartTag{
			ID:                 t.ID,
			GameID:             t.GameID,
			Name:               t.Name,
			TotalName:          t.TotalName,
			PrimaryChartTypeID: t.PrimaryChartTypeID,
			ChartIDs:           chartIDs[t.ID],
		}
	}
	return out, nil
}

func (r *Impl) GetLadderChartTags(ctx context.Context, db bun.IDB, ladderID int64) ([]rankingdomain.LadderChartTag, error) {
	db = r.resolveDB(db)
	var rows []LadderChartTag
	err := db.NewSelect().
		Model(&rows).
		Where("lct.ladder_id = ?", ladderID).
		OrderExpr("lct.chart_tag_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("rankingdb.GetLadderChartTags: %w", err)
	}
	out := make([]rankingdomain.LadderChartTag, len(rows))
	for i, row := range rows {
		out[i] = rankingdomain.LadderChartTag{LadderID: row.LadderID, ChartTagID: row.ChartTagID, Weight: row.Weight}
	}
	return out, nil
}

func (r *Impl) GetRecords(ctx context.Context, db bun.IDB, q RecordQuery) ([]rankingdomain.Record, error) {
	db = r.resolveDB(db)
	if len(q.ChartIDs) == 0 && len(q.PlayerIDs) == 0 {
		return []rankingdomain.Record{}, nil
	}

	var records []Record
	query := db.NewSelect().Model(&records)
	if len(q.ChartIDs) > 0 {
		query = query.Where("r.chart_id IN (?)", bun.In(q.ChartIDs))
	}
	if len(q.PlayerIDs) > 0 {
		query = query.Where("r.player_id IN (?)", bun.In(q.PlayerIDs))
	}
	if err := query.OrderExpr("r.id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("rankingdb.GetRecords: %w", err)
	}
	if len(records) == 0 {
		return []rankingdomain.Record{}, nil
	}

	ids := make([]int64, len(records))
	for i := range records {
		ids[i] = records[i].ID
	}
	var applied []RecordFilter
	err := db.NewSelect().
		Model(&applied).
		Where("rf.record_id IN (?)", bun.In(ids)).
		OrderExpr("rf.record_id ASC, rf.filter_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("rankingdb.GetRecords: %w", err)
	}
	filterIDs := make(map[int64][]int64, len(records))
	for _, a := range applied {
		filterIDs[a.RecordID] = append(filterIDs[a.RecordID], a.FilterID)
	}

	out := make([]rankingdomain.Record, len(records))
	for i, rec := range records {
		out[i] = rankingdomain.Record{
			ID:           rec.ID,
			ChartID:      rec.ChartID,
			PlayerID:     rec.PlayerID,
			Value:        rec.Value,
			DateAchieved: rec.DateAchieved,
			DateCreated:  rec.DateCreated,
			FilterIDs:    filterIDs[rec.ID],
		}
	}
	return out, nil
}

func (r *Impl) GetPlayers(ctx context.Context, db bun.IDB, playerIDs []int64) (map[int64]rankingdomain.Player, error) {
	db = r.resolveDB(db)
	out := make(map[int64]rankingdomain.Player, len(playerIDs))
	if len(playerIDs) == 0 {
		return out, nil
	}
	var players []Player
	if err := db.NewSelect().Model(&players).Where("p.id IN (?)", bun.In(playerIDs)).Scan(ctx); err != nil {
		return nil, fmt.Errorf("rankingdb.GetPlayers: %w", err)
	}
	for _, p := range players {
		out[p.ID] = rankingdomain.Player{ID: p.ID, Username: p.Username}
	}
	return out, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *Impl) SearchPlayers(ctx context.Context, db bun.IDB, arg string, terms []string, limit int) ([]rankingdomain.Player, error) {
	db = r.resolveDB(db)
	var players []Player
	q := db.NewSelect().Model(&players)
	for _, term := range terms {
		q = q.Where("p.username ILIKE ?", "%"+likeEscaper.Replace(term)+"%")
	}
	q = q.OrderExpr("lower(p.username) = lower(?) DESC", arg).OrderExpr("p.username ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("rankingdb.SearchPlayers: %w", err)
	}
	out := make([]rankingdomain.Player, len(players))
	for i, p := range players {
		out[i] = rankingdomain.Player{ID: p.ID, Username: p.Username}
	}
	return out, nil
}
