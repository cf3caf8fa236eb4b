package scheduler

import (
	"bytes"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingJob struct {
	runs atomic.Int32
	err  error
}

func (j *countingJob) Name() string { return "counting_job" }

func (j *countingJob) Run() error {
	j.runs.Add(1)
	return j.err
}

func TestAddJob_InvalidSchedule(t *testing.T) {
	s := New(zerolog.Nop())

	err := s.AddJob("every now and then", &countingJob{})

	assert.Error(t, err)
	assert.Equal(t, 0, len(s.cron.Entries()))
}

func TestAddJob_RunsOnSchedule(t *testing.T) {
	s := New(zerolog.Nop())
	job := &countingJob{}

	require.NoError(t, s.AddJob("@every 1s", job))
	assert.Equal(t, 1, len(s.cron.Entries()))

	s.Start()
	defer s.Stop()

	assert.Eventually(t, func() bool { return job.runs.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
}

func TestRunNow(t *testing.T) {
	s := New(zerolog.Nop())
	boom := errors.New("boom")
	job := &countingJob{err: boom}

	err := s.RunNow(job)

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int32(1), job.runs.Load())
}

func TestRun_LogsFailures(t *testing.T) {
	var buf bytes.Buffer
	s := New(zerolog.New(&buf))

	s.run(&countingJob{err: errors.New("database unavailable")})

	assert.Contains(t, buf.String(), `"job":"counting_job"`)
	assert.Contains(t, buf.String(), "Job failed")
	assert.Contains(t, buf.String(), "database unavailable")
}
