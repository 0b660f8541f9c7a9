// Package readiness answers readiness queries over product features and
// capabilities: which TRL each one had reached on a date, or when each one
// reaches a given TRL.
package readiness

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/Ramsey-B/sapling/pkg/criteria"
	"github.com/Ramsey-B/sapling/pkg/models"
	"github.com/Ramsey-B/sapling/pkg/tracing"
	"github.com/Ramsey-B/sapling/pkg/trl"
	"go.opentelemetry.io/otel/attribute"
)

const DefaultDescriptionMaxLen = 80

type Engine struct {
	builder           *criteria.Builder
	descriptionMaxLen int
	achievedAt        func(trl.Milestones, time.Time) (trl.Level, error)
}

type EngineOption func(*Engine)

func WithDescriptionMaxLen(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.descriptionMaxLen = n
		}
	}
}

func NewEngine(builder *criteria.Builder, opts ...EngineOption) *Engine {
	if builder == nil {
		builder = criteria.NewBuilder(nil)
	}
	e := &Engine{
		builder:           builder,
		descriptionMaxLen: DefaultDescriptionMaxLen,
		achievedAt:        trl.AchievedAt,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run filters both collections and resolves one row per surviving record,
// keeping label order. A record that cannot be resolved yields an ERROR row
// and does not affect the others. Distributions are only set in date mode.
func (e *Engine) Run(ctx context.Context, q Query, snapshot Snapshot) (*Result, error) {
	ctx, span := tracing.StartSpan(ctx, "ReadinessEngine.Run")
	defer span.End()

	p, err := q.parse()
	if err != nil {
		tracing.RecordError(ctx, err)
		return nil, err
	}

	pfs := e.builder.Apply(q.Filters.WithoutSwimlane(), snapshot.ProductFeatures)
	caps := e.builder.Apply(q.Filters, snapshot.Capabilities)

	result := &Result{Query: q}
	var pfDist, capDist Distribution
	result.ProductFeatures, pfDist = e.resolveAll(p, pfs)
	result.Capabilities, capDist = e.resolveAll(p, caps)

	if p.mode == ModeByDate {
		result.PFDistribution = &pfDist
		result.CapDistribution = &capDist
	}

	tracing.SetAttributes(ctx,
		attribute.String("readiness.mode", string(p.mode)),
		attribute.Int("readiness.product_features", len(result.ProductFeatures)),
		attribute.Int("readiness.capabilities", len(result.Capabilities)),
	)
	return result, nil
}

func (e *Engine) resolveAll(p parsed, entities []models.Entity) ([]Row, Distribution) {
	rows := make([]Row, 0, len(entities))
	dist := NewDistribution()
	for _, entity := range entities {
		row, level := e.resolve(p, entity)
		rows = append(rows, row)
		dist[level]++
	}
	return rows, dist
}

// resolve computes one row. level is the state the row counts under; failed
// rows count under whatever their valid milestones support.
func (e *Engine) resolve(p parsed, entity models.Entity) (row Row, level trl.Level) {
	defer func() {
		if r := recover(); r != nil {
			row = e.errorRow(entity, fmt.Sprintf("corrupt record: %v", r))
			level = trl.NotStarted
		}
	}()

	row = Row{
		Label:       entity.Label,
		Name:        entity.Name,
		Description: truncate(models.StringValue(entity.Details), e.descriptionMaxLen),
		Required:    entity.Required(),
		Warnings:    trl.CheckOrder(entity.Milestones()),
	}

	switch p.mode {
	case ModeByDate:
		var err error
		level, err = e.achievedAt(entity.Milestones(), p.at)
		if err != nil {
			return e.markFailed(row, err), level
		}
		row.Value = level.String()
	case ModeByTRL:
		date, ok, err := trl.DateFor(entity.Milestones(), p.level)
		if err != nil {
			return e.markFailed(row, err), trl.NotStarted
		}
		if !ok {
			row.Value = trl.NotPlanned
			break
		}
		if _, err := trl.ParseDate(date); err != nil {
			return e.markFailed(row, &trl.MilestoneError{Invalid: map[trl.Level]string{p.level: date}}), trl.NotStarted
		}
		row.Value = date
	}
	return row, level
}

func (e *Engine) markFailed(row Row, err error) Row {
	row.Value = ErrorValue
	row.Error = err.Error()
	return row
}

func (e *Engine) errorRow(entity models.Entity, reason string) Row {
	return Row{
		Label: entity.Label,
		Name:  entity.Name,
		Value: ErrorValue,
		Error: reason,
	}
}

func truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}
