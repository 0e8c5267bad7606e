package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleServicePeriod(t *testing.T) {
	db := newTestDB(t)
	svc := NewScheduleService(db)
	ctx := context.Background()

	branch := seedBranch(t, db, "Centro", "CENTRO")
	scope := Scope{BranchID: &branch.ID}
	start := time.Date(2025, time.June, 2, 14, 0, 0, 0, time.UTC)

	_, err := svc.Create(ctx, scope, &CreateScheduleRequest{
		Title: "Visit", Type: "visit", StartTime: start, EndTime: start,
	})
	assert.True(t, errors.Is(err, ErrValidation))

	schedule, err := svc.Create(ctx, scope, &CreateScheduleRequest{
		Title: "Visit", Type: "visit", StartTime: start, EndTime: start.Add(time.Hour),
	})
	require.NoError(t, err)
	assert.EqualValues(t, "scheduled", schedule.Status)

	early := start.Add(-time.Hour)
	_, err = svc.Update(ctx, scope, schedule.ID, &UpdateScheduleRequest{EndTime: &early})
	assert.True(t, errors.Is(err, ErrValidation))

	later := start.Add(2 * time.Hour)
	updated, err := svc.Update(ctx, scope, schedule.ID, &UpdateScheduleRequest{EndTime: &later})
	require.NoError(t, err)
	assert.True(t, updated.EndTime.Equal(later))
}
