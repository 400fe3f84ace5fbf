// file: internals/features/sessions/session/service/session_scheduler_service_test.go
package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tutorku_backend/internals/constants"
)

func boolPtr(v bool) *bool { return &v }

func TestCancellationCounts(t *testing.T) {
	// teacher & system tidak pernah memotong kredit, apa pun override-nya
	assert.False(t, CancellationCounts(constants.CancelledByTeacher, nil))
	assert.False(t, CancellationCounts(constants.CancelledByTeacher, boolPtr(true)))
	assert.False(t, CancellationCounts(constants.CancelledBySystem, boolPtr(true)))

	// student tanpa override ikut default kebijakan
	assert.Equal(t, constants.DefaultStudentCancellationCounts,
		CancellationCounts(constants.CancelledByStudent, nil))

	// student dengan override ikut keputusan caller
	assert.True(t, CancellationCounts(constants.CancelledByStudent, boolPtr(true)))
	assert.False(t, CancellationCounts(constants.CancelledByStudent, boolPtr(false)))
}
