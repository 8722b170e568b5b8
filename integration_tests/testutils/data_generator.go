//go:build integration

package testutils

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"

	rankingdomain "github.com/Black-And-White-Club/chart-ladders/app/modules/ranking/domain"
	rankingdb "github.com/Black-And-White-Club/chart-ladders/app/modules/ranking/infrastructure/repositories"
)

// TestDataGenerator produces usernames and dates for seeded fixtures.
type TestDataGenerator struct {
	faker *gofakeit.Faker
	seed  int64
}

// NewTestDataGenerator creates a generator with an optional fixed seed.
func NewTestDataGenerator(seed ...int64) *TestDataGenerator {
	s := time.Now().UnixNano()
	if len(seed) > 0 {
		s = seed[0]
	}
	return &TestDataGenerator{faker: gofakeit.New(uint64(s)), seed: s}
}

// Username returns a unique-looking username that fits the players column.
func (g *TestDataGenerator) Username(i int) string {
	name := strings.ToLower(g.faker.Username())
	if len(name) > 20 {
		name = name[:20]
	}
	return fmt.Sprintf("%s%d", name, i)
}

// DateAchieved returns a day in the past, older for larger daysAgo.
func (g *TestDataGenerator) DateAchieved(daysAgo int) time.Time {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return base.AddDate(0, 0, -daysAgo).Add(time.Duration(g.faker.Number(0, 3600)) * time.Second)
}

// RankingFixture holds the ids of a seeded game.
//
// Layout: one root group shown together with charts A and B, a "Time" chart
// type (ascending) with a "Machine" select filter group, a "Course" tag on
// both charts and a main ladder weighting it 1.
type RankingFixture struct {
	GameID      int64
	GroupID     int64
	ChartTypeID int64
	ChartA      int64
	ChartB      int64
	MachineFG   int64
	BlueFalcon  int64
	GoldenFox   int64
	TagID       int64
	LadderID    int64
	Players     []rankingdb.Player
}

// RecordSeed describes one record to insert.
type RecordSeed struct {
	Chart   int64
	Player  int
	Value   int64
	DaysAgo int
	Filters []int64
}

func insert(ctx context.Context, db bun.IDB, model any) error {
	if _, err := db.NewInsert().Model(model).Returning("*").Exec(ctx); err != nil {
		return fmt.Errorf("insert %T: %w", model, err)
	}
	return nil
}

// SeedRankingFixture inserts the fixture game with playerCount players.
func SeedRankingFixture(ctx context.Context, db bun.IDB, gen *TestDataGenerator, playerCount int) (*RankingFixture, error) {
	fx := &RankingFixture{}

	game := &rankingdb.Game{Name: "Test Racer", ShortCode: "tr"}
	if err := insert(ctx, db, game); err != nil {
		return nil, err
	}
	fx.GameID = game.ID

	group := &rankingdb.ChartGroup{GameID: game.ID, Name: "Grand Prix", OrderInParent: 1, ShowChartsTogether: true}
	if err := insert(ctx, db, group); err != nil {
		return nil, err
	}
	fx.GroupID = group.ID

	chartType := &rankingdb.ChartType{
		GameID:         game.ID,
		Name:           "Time",
		FormatSpec:     rankingdomain.FormatSpec{{Suffix: "."}, {Multiplier: 1000, Digits: 3}},
		OrderAscending: true,
	}
	if err := insert(ctx, db, chartType); err != nil {
		return nil, err
	}
	fx.ChartTypeID = chartType.ID

	for i, target := range []*int64{&fx.ChartA, &fx.ChartB} {
		chart := &rankingdb.Chart{
			ChartGroupID: group.ID,
			ChartTypeID:  chartType.ID,
			Name:         fmt.Sprintf("Course %c", 'A'+i),
			OrderInGroup: i + 1,
		}
		if err := insert(ctx, db, chart); err != nil {
			return nil, err
		}
		*target = chart.ID
	}

	machine := &rankingdb.FilterGroup{
		GameID:        game.ID,
		Name:          "Machine",
		Kind:          string(rankingdomain.FilterGroupKindSelect),
		ShowByDefault: true,
		OrderInGame:   1,
	}
	if err := insert(ctx, db, machine); err != nil {
		return nil, err
	}
	fx.MachineFG = machine.ID

	if err := insert(ctx, db, &rankingdb.ChartTypeFilterGroup{
		ChartTypeID: chartType.ID, FilterGroupID: machine.ID, OrderInChartType: 1,
	}); err != nil {
		return nil, err
	}

	for _, f := range []struct {
		name   string
		target *int64
	}{{"Blue Falcon", &fx.BlueFalcon}, {"Golden Fox", &fx.GoldenFox}} {
		filter := &rankingdb.Filter{
			FilterGroupID: machine.ID,
			Name:          f.name,
			UsageType:     string(rankingdomain.FilterUsageChoosable),
		}
		if err := insert(ctx, db, filter); err != nil {
			return nil, err
		}
		*f.target = filter.ID
	}

	tag := &rankingdb.ChartTag{GameID: game.ID, Name: "Course", PrimaryChartTypeID: chartType.ID}
	if err := insert(ctx, db, tag); err != nil {
		return nil, err
	}
	fx.TagID = tag.ID
	for _, chartID := range []int64{fx.ChartA, fx.ChartB} {
		if err := insert(ctx, db, &rankingdb.ChartTagChart{ChartTagID: tag.ID, ChartID: chartID}); err != nil {
			return nil, err
		}
	}

	ladder := &rankingdb.Ladder{
		GameID:             game.ID,
		Name:               "Main",
		ChartGroupID:       group.ID,
		Kind:               string(rankingdomain.LadderKindMain),
		OrderInGameAndKind: 1,
	}
	if err := insert(ctx, db, ladder); err != nil {
		return nil, err
	}
	fx.LadderID = ladder.ID

	if err := insert(ctx, db, &rankingdb.LadderChartTag{
		LadderID: ladder.ID, ChartTagID: tag.ID, Weight: decimal.NewFromInt(1),
	}); err != nil {
		return nil, err
	}

	for i := 0; i < playerCount; i++ {
		player := &rankingdb.Player{Username: gen.Username(i)}
		if err := insert(ctx, db, player); err != nil {
			return nil, err
		}
		fx.Players = append(fx.Players, *player)
	}

	return fx, nil
}

// SeedRecords inserts records for the fixture's players.
func SeedRecords(ctx context.Context, db bun.IDB, gen *TestDataGenerator, fx *RankingFixture, seeds []RecordSeed) ([]int64, error) {
	ids := make([]int64, 0, len(seeds))
	for _, seed := range seeds {
		if seed.Player < 0 || seed.Player >= len(fx.Players) {
			return nil, fmt.Errorf("record seed player %d out of range", seed.Player)
		}
		record := &rankingdb.Record{
			ChartID:      seed.Chart,
			PlayerID:     fx.Players[seed.Player].ID,
			Value:        seed.Value,
			DateAchieved: gen.DateAchieved(seed.DaysAgo),
		}
		if err := insert(ctx, db, record); err != nil {
			return nil, err
		}
		for _, filterID := range seed.Filters {
			if err := insert(ctx, db, &rankingdb.RecordFilter{RecordID: record.ID, FilterID: filterID}); err != nil {
				return nil, err
			}
		}
		ids = append(ids, record.ID)
	}
	return ids, nil
}
