// file: internals/features/sessions/session/dto/class_session_dto_test.go
package dto

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestScheduleRequest_ToModel_Defaults(t *testing.T) {
	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	req := ScheduleClassSessionRequest{
		ClassSessionSubscriptionID:   uuid.New(),
		ClassSessionScheduledStartAt: start,
		ClassSessionScheduledEndAt:   start.Add(time.Hour),
	}

	mdl := req.ToModel()

	assert.Equal(t, "scheduled", mdl.ClassSessionStatus)
	// default: sesi memotong kredit kecuali caller bilang tidak
	assert.True(t, mdl.ClassSessionCountsTowardSubscription)
}

func TestScheduleRequest_ToModel_TrialSession(t *testing.T) {
	counts := false
	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	req := ScheduleClassSessionRequest{
		ClassSessionSubscriptionID:           uuid.New(),
		ClassSessionScheduledStartAt:         start,
		ClassSessionScheduledEndAt:           start.Add(time.Hour),
		ClassSessionCountsTowardSubscription: &counts,
	}

	assert.False(t, req.ToModel().ClassSessionCountsTowardSubscription)
}
