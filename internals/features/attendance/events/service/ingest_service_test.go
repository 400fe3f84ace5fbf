// file: internals/features/attendance/events/service/ingest_service_test.go
package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tutorku_backend/internals/features/attendance/events/model"
)

// Nol baris dari OnConflict DoNothing berarti provider_event_id sudah pernah
// masuk — duplikat tidak membawa event baru.
func TestNewIngestResult_DuplicateOnZeroRows(t *testing.T) {
	ev := &model.AttendanceEventModel{AttendanceEventID: uuid.New()}

	dup := newIngestResult(0, ev)
	assert.True(t, dup.Duplicate)
	assert.Nil(t, dup.Event)

	fresh := newIngestResult(1, ev)
	assert.False(t, fresh.Duplicate)
	require.NotNil(t, fresh.Event)
	assert.Equal(t, ev.AttendanceEventID, fresh.Event.AttendanceEventID)
}
