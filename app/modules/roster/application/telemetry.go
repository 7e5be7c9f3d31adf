package rosterservice

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Black-And-White-Club/volley-analyst/pkg/attr"
	"github.com/Black-And-White-Club/volley-analyst/pkg/results"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "RosterService"

type operationFunc[S any, F any] func(ctx context.Context) (results.OperationResult[S, F], error)

// withTelemetry traces and times a roster operation and turns a panic into an error.
func withTelemetry[S any, F any](
	s *RosterService,
	ctx context.Context,
	operationName string,
	team string,
	op operationFunc[S, F],
) (result results.OperationResult[S, F], err error) {
	span := trace.SpanFromContext(ctx)
	if s.tracer != nil {
		ctx, span = s.tracer.Start(ctx, serviceName+"."+operationName,
			trace.WithAttributes(attribute.String("roster.team", team)))
	}
	defer span.End()

	logAttrs := []any{
		attr.ExtractCorrelationID(ctx),
		attr.String("operation", operationName),
		attr.String("team", team),
	}
	fail := func(e error) {
		s.metrics.RecordOperationFailure(ctx, operationName, serviceName)
		span.RecordError(e)
		s.logger.ErrorContext(ctx, "Roster operation failed", append(logAttrs, attr.Error(e))...)
	}

	s.metrics.RecordOperationAttempt(ctx, operationName, serviceName)
	start := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(ctx, operationName, serviceName, time.Since(start))
	}()
	s.logger.DebugContext(ctx, "Roster operation started", logAttrs...)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			result = results.OperationResult[S, F]{}
			fail(err)
		}
	}()

	if result, err = op(ctx); err != nil {
		err = fmt.Errorf("%s: %w", operationName, err)
		fail(err)
		return result, err
	}
	if result.IsFailure() {
		s.logger.WarnContext(ctx, "Roster operation rejected", append(logAttrs, attr.Any("failure", *result.Failure))...)
	}
	s.metrics.RecordOperationSuccess(ctx, operationName, serviceName)
	return result, nil
}

// runInTx runs fn inside a transaction when a database is configured.
func runInTx[S any, F any](
	s *RosterService,
	ctx context.Context,
	fn func(ctx context.Context, db bun.IDB) (results.OperationResult[S, F], error),
) (results.OperationResult[S, F], error) {
	if s.db == nil {
		return fn(ctx, nil)
	}

	var result results.OperationResult[S, F]
	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var txErr error
		result, txErr = fn(ctx, tx)
		return txErr
	})
	return result, err
}

func unwrap[S any](result results.OperationResult[S, error], err error) (S, error) {
	var zero S
	if err != nil {
		return zero, err
	}
	if result.IsFailure() {
		return zero, *result.Failure
	}
	return *result.Success, nil
}
