package readiness

import (
	"context"
	"fmt"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/sapling/pkg/criteria"
	"github.com/Ramsey-B/sapling/pkg/metrics"
	"github.com/Ramsey-B/sapling/pkg/models"
	"github.com/Ramsey-B/sapling/pkg/tracing"
)

// EntitySource lists the entities of one kind, optionally narrowed by conditions.
type EntitySource interface {
	List(ctx context.Context, kind models.EntityKind, conditions ...criteria.Condition) ([]models.Entity, error)
}

// Service runs readiness queries against a fresh snapshot of the store.
type Service struct {
	entities EntitySource
	engine   *Engine
	logger   ectologger.Logger
}

func NewService(entities EntitySource, engine *Engine, logger ectologger.Logger) *Service {
	return &Service{
		entities: entities,
		engine:   engine,
		logger:   logger,
	}
}

func (s *Service) Snapshot(ctx context.Context) (Snapshot, error) {
	ctx, span := tracing.StartSpan(ctx, "ReadinessService.Snapshot")
	defer span.End()

	pfs, err := s.entities.List(ctx, models.KindProductFeature)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to load product features: %w", err)
	}
	caps, err := s.entities.List(ctx, models.KindCapability)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to load capabilities: %w", err)
	}
	return Snapshot{ProductFeatures: pfs, Capabilities: caps}, nil
}

// ApplyReadinessQuery validates q, loads the current entities and runs the
// query over them.
func (s *Service) ApplyReadinessQuery(ctx context.Context, q Query) (*Result, error) {
	ctx, span := tracing.StartSpan(ctx, "ReadinessService.ApplyReadinessQuery")
	defer span.End()

	start := time.Now()
	mode := string(q.Mode)

	if err := q.Validate(); err != nil {
		s.logger.WithContext(ctx).WithError(err).Warn("rejected readiness query")
		metrics.RecordReadinessQuery(mode, "rejected", time.Since(start).Seconds())
		return nil, err
	}

	snapshot, err := s.Snapshot(ctx)
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).Error("failed to load readiness snapshot")
		tracing.RecordError(ctx, err)
		metrics.RecordReadinessQuery(mode, "failed", time.Since(start).Seconds())
		return nil, err
	}

	result, err := s.engine.Run(ctx, q, snapshot)
	if err != nil {
		metrics.RecordReadinessQuery(mode, "failed", time.Since(start).Seconds())
		return nil, err
	}

	metrics.RecordReadinessQuery(mode, "ok", time.Since(start).Seconds())
	recordRows(string(models.KindProductFeature), result.ProductFeatures)
	recordRows(string(models.KindCapability), result.Capabilities)

	logger := s.logger.WithContext(ctx).WithFields(map[string]any{
		"mode":             q.Mode,
		"product_features": len(result.ProductFeatures),
		"capabilities":     len(result.Capabilities),
		"error_rows":       result.ErrorCount(),
	})
	if result.ErrorCount() > 0 {
		logger.Warn("readiness query completed with record errors")
	} else {
		logger.Info("readiness query completed")
	}

	return result, nil
}

func recordRows(kind string, rows []Row) {
	failed := 0
	for _, row := range rows {
		if row.Failed() {
			failed++
		}
	}
	metrics.RecordReadinessRows(kind, len(rows)-failed, failed)
}
