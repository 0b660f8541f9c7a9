package readiness

import (
	"context"
	"errors"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/sapling/pkg/criteria"
	"github.com/Ramsey-B/sapling/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	entities map[models.EntityKind][]models.Entity
	err      error
	calls    int
}

func (f *fakeSource) List(ctx context.Context, kind models.EntityKind, conditions ...criteria.Condition) ([]models.Entity, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.entities[kind], nil
}

func testLogger(messages *[]ectologger.EctoLogMessage) ectologger.Logger {
	return ectologger.NewEctoLogger(func(msg ectologger.EctoLogMessage) {
		if messages != nil {
			*messages = append(*messages, msg)
		}
	})
}

func TestApplyReadinessQuery(t *testing.T) {
	source := &fakeSource{entities: map[models.EntityKind][]models.Entity{
		models.KindProductFeature: {feature("PF-2", "2024-01-01", "", ""), feature("PF-1", "bad", "", "")},
		models.KindCapability:     {feature("CAP-1", "2024-01-01", "2024-02-01", "")},
	}}
	var messages []ectologger.EctoLogMessage
	svc := NewService(source, NewEngine(nil), testLogger(&messages))

	result, err := svc.ApplyReadinessQuery(context.Background(), Query{Mode: ModeByDate, Date: "2024-03-01"})
	require.NoError(t, err)
	assert.Equal(t, []string{"PF-1", "PF-2"}, rowLabels(result.ProductFeatures))
	assert.Equal(t, []string{ErrorValue, "TRL 3"}, values(result.ProductFeatures))
	assert.Equal(t, []string{"TRL 6"}, values(result.Capabilities))
	assert.Equal(t, 2, source.calls)

	require.NotEmpty(t, messages)
	last := messages[len(messages)-1]
	assert.Equal(t, "readiness query completed with record errors", last.Message)
	assert.Equal(t, 1, last.Fields["error_rows"])

	t.Run("each call reloads the store", func(t *testing.T) {
		source.entities[models.KindCapability] = nil
		result, err := svc.ApplyReadinessQuery(context.Background(), Query{Mode: ModeByTRL, Level: "TRL 3"})
		require.NoError(t, err)
		assert.Empty(t, result.Capabilities)
		assert.Equal(t, 4, source.calls)
	})
}

func TestApplyReadinessQueryErrors(t *testing.T) {
	t.Run("invalid input does not touch the store", func(t *testing.T) {
		source := &fakeSource{}
		svc := NewService(source, NewEngine(nil), testLogger(nil))

		_, err := svc.ApplyReadinessQuery(context.Background(), Query{Mode: ModeByDate})
		require.Error(t, err)
		assert.Equal(t, 0, source.calls)
	})

	t.Run("store failure", func(t *testing.T) {
		source := &fakeSource{err: errors.New("disk I/O error")}
		svc := NewService(source, NewEngine(nil), testLogger(nil))

		_, err := svc.ApplyReadinessQuery(context.Background(), Query{Mode: ModeByDate, Date: "2024-01-01"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "disk I/O error")
	})
}
