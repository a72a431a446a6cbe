package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCronService_StartSchedulesJobs(t *testing.T) {
	svc := NewCronService(CronJobs{}, quietLogger(), "")

	status := svc.GetJobStatus()
	assert.Equal(t, false, status["running"])

	require.NoError(t, svc.Start())
	defer svc.Stop()

	status = svc.GetJobStatus()
	assert.Equal(t, true, status["running"])
	assert.Equal(t, 5, status["job_count"])
}

func TestCronService_InvalidSpec(t *testing.T) {
	svc := NewCronService(CronJobs{}, quietLogger(), "every hour")

	err := svc.Start()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refresh staff directory")
}

func TestCronService_WrapBoundsContext(t *testing.T) {
	svc := NewCronService(CronJobs{}, quietLogger(), "")

	var deadline time.Time
	var hasDeadline bool
	svc.wrap("ok", func(ctx context.Context) error {
		deadline, hasDeadline = ctx.Deadline()
		return nil
	})()

	assert.True(t, hasDeadline)
	assert.WithinDuration(t, time.Now().Add(jobTimeout), deadline, 5*time.Second)

	assert.NotPanics(t, svc.wrap("fails", func(context.Context) error {
		return errors.New("boom")
	}))
}
