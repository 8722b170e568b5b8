package rankingmetrics

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewPrometheusMetrics(reg, "test")
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordOperationAttempt(ctx, "GetLadderRanking", "RankingService")
	m.RecordOperationAttempt(ctx, "GetLadderRanking", "RankingService")
	m.RecordOperationSuccess(ctx, "GetLadderRanking", "RankingService")
	m.RecordOperationFailure(ctx, "GetLadderRanking", "RankingService")
	m.RecordOperationDuration(ctx, "GetLadderRanking", "RankingService", 20*time.Millisecond)
	m.RecordRecordsRanked(ctx, "GetChartRanking", 7)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.attempts.WithLabelValues("GetLadderRanking", "RankingService")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.successes.WithLabelValues("GetLadderRanking", "RankingService")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.failures.WithLabelValues("GetLadderRanking", "RankingService")))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.recordsRanked.WithLabelValues("GetChartRanking")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.duration))
}

func TestNewPrometheusMetricsDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewPrometheusMetrics(reg, "test")
	require.NoError(t, err)

	_, err = NewPrometheusMetrics(reg, "test")
	assert.Error(t, err)
}
