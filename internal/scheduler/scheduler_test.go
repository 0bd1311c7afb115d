package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/noah-isme/cavy-ledger/internal/dto"
)

type countingGenerator struct {
	calls int32
}

func (g *countingGenerator) Generate(context.Context) (*dto.GenerateNotificationsResult, error) {
	atomic.AddInt32(&g.calls, 1)
	return &dto.GenerateNotificationsResult{Generated: 2}, nil
}

func TestNewSchedulerRejectsInvalidSchedule(t *testing.T) {
	_, err := NewScheduler("every morning", &countingGenerator{}, nil)
	require.Error(t, err)
}

func TestNewSchedulerRequiresGenerator(t *testing.T) {
	_, err := NewScheduler("0 6 * * *", nil, nil)
	require.Error(t, err)
}

func TestTriggerRunsGeneration(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	gen := &countingGenerator{}
	s, err := NewScheduler("0 6 * * *", gen, zap.New(core))
	require.NoError(t, err)
	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	s.Trigger()

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&gen.calls) == 1 }, time.Second, 10*time.Millisecond)
	assert.Eventually(t, func() bool {
		return logs.FilterMessage("scheduled notifications generated").Len() == 1
	}, time.Second, 10*time.Millisecond)
}
