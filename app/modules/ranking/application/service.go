package rankingservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	rankingdomain "github.com/Black-And-White-Club/chart-ladders/app/modules/ranking/domain"
	rankingmetrics "github.com/Black-And-White-Club/chart-ladders/app/modules/ranking/infrastructure/metrics"
	rankingdb "github.com/Black-And-White-Club/chart-ladders/app/modules/ranking/infrastructure/repositories"
	"github.com/Black-And-White-Club/chart-ladders/app/observability"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "RankingService"

// RankingService implements the Service interface.
type RankingService struct {
	repo    rankingdb.Repository
	logger  *slog.Logger
	metrics rankingmetrics.Metrics
	tracer  trace.Tracer
	db      *bun.DB
	palette ChartPalette
}

// NewRankingService creates a new RankingService.
func NewRankingService(
	repo rankingdb.Repository,
	logger *slog.Logger,
	metrics rankingmetrics.Metrics,
	tracer trace.Tracer,
	db *bun.DB,
) *RankingService {
	if logger == nil {
		logger = slog.Default()
	}
	return &RankingService{
		repo:    repo,
		logger:  logger,
		metrics: metrics,
		tracer:  tracer,
		db:      db,
		palette: DefaultChartPalette,
	}
}

// mapNotFound turns the repository's ErrNotFound into the given domain
// sentinel and leaves other errors untouched.
func mapNotFound(err error, sentinel error) error {
	if errors.Is(err, rankingdb.ErrNotFound) {
		return fmt.Errorf("%w: %v", sentinel, err)
	}
	return err
}

// isRequestFailure reports whether err is caused by the request rather than
// the infrastructure.
func isRequestFailure(err error) bool {
	for _, target := range []error{
		rankingdomain.ErrInvalidFilterSpec,
		rankingdomain.ErrFilterNotFound,
		rankingdomain.ErrFilterGroupNotFound,
		rankingdomain.ErrChartNotFound,
		rankingdomain.ErrChartGroupNotFound,
		rankingdomain.ErrChartTypeNotFound,
		rankingdomain.ErrLadderNotFound,
		rankingdomain.ErrNegativeValue,
		rankingdomain.ErrInvalidImprovementsOption,
		rankingdomain.ErrInvalidRecordSort,
		ErrChartsNotShownTogether,
		ErrUnboundedRecordList,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// -----------------------------------------------------------------------------
// Generic Helpers (Defined as functions because methods cannot have type params)
// -----------------------------------------------------------------------------

// operationFunc is the generic signature for service operation functions.
type operationFunc[T any] func(ctx context.Context) (T, error)

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
func withTelemetry[T any](
	s *RankingService,
	ctx context.Context,
	operationName string,
	identifier string,
	op operationFunc[T],
) (result T, err error) {
	var span trace.Span
	if s.tracer != nil {
		ctx, span = s.tracer.Start(ctx, operationName, trace.WithAttributes(
			attribute.String("operation", operationName),
			attribute.String("identifier", identifier),
		))
	} else {
		span = trace.SpanFromContext(ctx)
	}
	defer span.End()

	if s.metrics != nil {
		s.metrics.RecordOperationAttempt(ctx, operationName, serviceName)
	}

	startTime := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.RecordOperationDuration(ctx, operationName, serviceName, time.Since(startTime))
		}
	}()

	s.logger.DebugContext(ctx, "Operation triggered",
		observability.RequestIDAttr(ctx),
		slog.String("operation", operationName),
		slog.String("identifier", identifier),
	)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				observability.RequestIDAttr(ctx),
				slog.String("identifier", identifier),
				slog.Any("error", err),
			)
			if s.metrics != nil {
				s.metrics.RecordOperationFailure(ctx, operationName, serviceName)
			}
			span.RecordError(err)
			var zero T
			result = zero
		}
	}()

	result, err = op(ctx)
	if err != nil {
		wrappedErr := fmt.Errorf("%s: %w", operationName, err)

		// Request errors log at Warn and count as handled.
		if isRequestFailure(err) {
			s.logger.WarnContext(ctx, "Operation rejected request",
				observability.RequestIDAttr(ctx),
				slog.String("operation", operationName),
				slog.String("identifier", identifier),
				slog.Any("error", wrappedErr),
			)
			if s.metrics != nil {
				s.metrics.RecordOperationSuccess(ctx, operationName, serviceName)
			}
			return result, wrappedErr
		}

		s.logger.ErrorContext(ctx, "Operation failed with error",
			observability.RequestIDAttr(ctx),
			slog.String("operation", operationName),
			slog.String("identifier", identifier),
			slog.Any("error", wrappedErr),
		)
		if s.metrics != nil {
			s.metrics.RecordOperationFailure(ctx, operationName, serviceName)
		}
		span.RecordError(wrappedErr)
		return result, wrappedErr
	}

	s.logger.DebugContext(ctx, "Operation completed successfully",
		observability.RequestIDAttr(ctx),
		slog.String("operation", operationName),
		slog.String("identifier", identifier),
	)
	if s.metrics != nil {
		s.metrics.RecordOperationSuccess(ctx, operationName, serviceName)
	}
	return result, nil
}

// runInTx runs fn inside a read-only repeatable-read transaction so that every
// query of a request sees the same snapshot.
func runInTx[T any](
	s *RankingService,
	ctx context.Context,
	fn func(ctx context.Context, db bun.IDB) (T, error),
) (T, error) {
	if s.db == nil {
		return fn(ctx, nil)
	}

	var result T
	err := s.db.RunInTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}, func(ctx context.Context, tx bun.Tx) error {
		var txErr error
		result, txErr = fn(ctx, tx)
		return txErr
	})
	return result, err
}

func idString(id int64) string {
	return strconv.FormatInt(id, 10)
}
