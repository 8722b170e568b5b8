//go:build integration

package rankingintegrationtests

import (
	"context"
	"io"
	"log"
	"log/slog"
	"sync"
	"testing"

	"go.opentelemetry.io/otel/trace/noop"

	rankingservice "github.com/Black-And-White-Club/chart-ladders/app/modules/ranking/application"
	rankingmetrics "github.com/Black-And-White-Club/chart-ladders/app/modules/ranking/infrastructure/metrics"
	rankingdb "github.com/Black-And-White-Club/chart-ladders/app/modules/ranking/infrastructure/repositories"
	"github.com/Black-And-White-Club/chart-ladders/integration_tests/testutils"
)

var (
	testEnv     *testutils.TestEnvironment
	testEnvOnce sync.Once
	testEnvErr  error
)

// TestDeps bundles what a ranking integration test needs.
type TestDeps struct {
	Ctx     context.Context
	Repo    rankingdb.Repository
	Service rankingservice.Service
	Fixture *testutils.RankingFixture
	Gen     *testutils.TestDataGenerator
	Env     *testutils.TestEnvironment
}

// GetTestEnv returns the shared environment, starting it on first use.
func GetTestEnv(t *testing.T) *testutils.TestEnvironment {
	t.Helper()

	testEnvOnce.Do(func() {
		log.Println("Initializing ranking test environment...")
		testEnv, testEnvErr = testutils.NewTestEnvironment(t)
	})
	if testEnvErr != nil {
		t.Fatalf("Ranking test environment initialization failed: %v", testEnvErr)
	}
	return testEnv
}

// SetupRankingDeps resets the database and seeds a fixture with playerCount
// players.
func SetupRankingDeps(t *testing.T, playerCount int) TestDeps {
	t.Helper()
	env := GetTestEnv(t)
	ctx := env.Ctx

	if err := env.Reset(ctx); err != nil {
		t.Fatalf("failed to reset database: %v", err)
	}

	gen := testutils.NewTestDataGenerator(42)
	fx, err := testutils.SeedRankingFixture(ctx, env.DB, gen, playerCount)
	if err != nil {
		t.Fatalf("failed to seed fixture: %v", err)
	}

	repo := rankingdb.NewRepository(env.DB)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := rankingservice.NewRankingService(repo, logger, rankingmetrics.NewNoop(), noop.NewTracerProvider().Tracer("test"), env.DB)

	return TestDeps{Ctx: ctx, Repo: repo, Service: service, Fixture: fx, Gen: gen, Env: env}
}

// SeedRecords inserts records or fails the test.
func (d TestDeps) SeedRecords(t *testing.T, seeds []testutils.RecordSeed) []int64 {
	t.Helper()
	ids, err := testutils.SeedRecords(d.Ctx, d.Env.DB, d.Gen, d.Fixture, seeds)
	if err != nil {
		t.Fatalf("failed to seed records: %v", err)
	}
	return ids
}
