package rankingdb

import (
	"context"

	rankingdomain "github.com/Black-And-White-Club/chart-ladders/app/modules/ranking/domain"
	"github.com/uptrace/bun"
)

// RecordQuery selects records by chart and player. An empty list does not
// restrict; when both are empty nothing matches.
type RecordQuery struct {
	ChartIDs  []int64
	PlayerIDs []int64
}

// Repository defines the read contract for charts, filters, ladders and
// records. Every method accepts a bun.IDB so callers can share one
// transaction; a nil db uses the repository's own connection.
//
// Error semantics:
//   - ErrNotFound: the requested row does not exist
//   - Other errors: infrastructure failures (DB connection, query errors)
type Repository interface {
	GetChart(ctx context.Context, db bun.IDB, chartID int64) (rankingdomain.Chart, error)
	GetChartGroup(ctx context.Context, db bun.IDB, groupID int64) (rankingdomain.ChartGroup, error)
	GetLadder(ctx context.Context, db bun.IDB, ladderID int64) (rankingdomain.Ladder, error)

	// GetChartType returns a chart type with its filter groups in order.
	GetChartType(ctx context.Context, db bun.IDB, chartTypeID int64) (rankingdomain.ChartType, error)

	// GetChartTypes returns every chart type of a game keyed by id.
	GetChartTypes(ctx context.Context, db bun.IDB, gameID int64) (map[int64]rankingdomain.ChartType, error)

	// GetGameHierarchy bulk-loads every chart group and chart of a game.
	GetGameHierarchy(ctx context.Context, db bun.IDB, gameID int64) ([]rankingdomain.ChartGroup, []rankingdomain.Chart, error)

	// GetCharts returns the listed charts ordered by id; unknown ids are
	// skipped.
	GetCharts(ctx context.Context, db bun.IDB, chartIDs []int64) ([]rankingdomain.Chart, error)

	// GetChartsInGroup returns a group's charts ordered by order_in_group.
	GetChartsInGroup(ctx context.Context, db bun.IDB, groupID int64) ([]rankingdomain.Chart, error)

	// GetChildGroups returns a group's subgroups ordered by order_in_parent.
	GetChildGroups(ctx context.Context, db bun.IDB, groupID int64) ([]rankingdomain.ChartGroup, error)

	// GetFilterCatalog loads a game's filter groups, filters and implication
	// edges in one go.
	GetFilterCatalog(ctx context.Context, db bun.IDB, gameID int64) (*rankingdomain.Catalog, error)

	// GetChartTags returns a game's chart tags with their chart ids.
	GetChartTags(ctx context.Context, db bun.IDB, gameID int64) ([]rankingdomain.ChartTag, error)

	GetLadderChartTags(ctx context.Context, db bun.IDB, ladderID int64) ([]rankingdomain.LadderChartTag, error)

	// GetRecords returns matching records with their applied filter ids.
	GetRecords(ctx context.Context, db bun.IDB, q RecordQuery) ([]rankingdomain.Record, error)

	GetPlayers(ctx context.Context, db bun.IDB, playerIDs []int64) (map[int64]rankingdomain.Player, error)

	// SearchPlayers matches usernames containing every term, case-insensitively.
	// An exact match of arg sorts first, then usernames alphabetically.
	SearchPlayers(ctx context.Context, db bun.IDB, arg string, terms []string, limit int) ([]rankingdomain.Player, error)
}
