package scheduler

import (
	"errors"
	"sync/atomic"
	"testing"

	"domain-portfolio/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSweeper struct {
	calls atomic.Int32
	err   error
}

func (c *countingSweeper) CheckAllDomains() (services.SweepResult, error) {
	c.calls.Add(1)
	return services.SweepResult{Checked: 1}, c.err
}

func TestStart_RejectsInvalidSpec(t *testing.T) {
	s := NewScheduler(&countingSweeper{})
	require.Error(t, s.Start("not a cron spec"))
}

func TestStartStop(t *testing.T) {
	s := NewScheduler(&countingSweeper{})
	require.NoError(t, s.Start("@every 1h"))
	assert.Len(t, s.cron.Entries(), 1)
	s.Stop()
}

func TestRunSweep(t *testing.T) {
	sweeper := &countingSweeper{}
	s := NewScheduler(sweeper)

	s.runSweep()
	sweeper.err = errors.New("boom")
	s.runSweep()

	assert.Equal(t, int32(2), sweeper.calls.Load())
}
