// file: internals/features/attendance/events/dto/attendance_event_dto_test.go
package dto

import (
	"encoding/json"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var validate = validator.New()

// Payload provider memakai field event_type — harus lolos bind + validasi
// tanpa diubah gateway.
func TestMeetingEventWebhookRequest_BindsProviderPayload(t *testing.T) {
	payload := []byte(`{
		"session_id": "0d4e8f1a-2b3c-4d5e-8f6a-7b8c9d0e1f2a",
		"participant_id": "1a2b3c4d-5e6f-4a8b-9c0d-1e2f3a4b5c6d",
		"provider_event_id": "zoom-evt-001",
		"event_type": "joined",
		"occurred_at": "2026-03-10T09:00:00Z"
	}`)

	var req MeetingEventWebhookRequest
	require.NoError(t, json.Unmarshal(payload, &req))
	require.NoError(t, validate.Struct(&req))

	assert.Equal(t, "joined", req.Kind)
	assert.Equal(t, "zoom-evt-001", req.ProviderEventID)

	m := req.ToModel()
	assert.Equal(t, req.SessionID, m.AttendanceEventSessionID)
	assert.Equal(t, "joined", m.AttendanceEventKind)
}

// event_type di luar domain ditolak validator.
func TestMeetingEventWebhookRequest_RejectsUnknownEventType(t *testing.T) {
	payload := []byte(`{
		"session_id": "0d4e8f1a-2b3c-4d5e-8f6a-7b8c9d0e1f2a",
		"participant_id": "1a2b3c4d-5e6f-4a8b-9c0d-1e2f3a4b5c6d",
		"provider_event_id": "zoom-evt-002",
		"event_type": "hand_raised",
		"occurred_at": "2026-03-10T09:00:00Z"
	}`)

	var req MeetingEventWebhookRequest
	require.NoError(t, json.Unmarshal(payload, &req))
	assert.Error(t, validate.Struct(&req))
}
