// file: internals/features/attendance/records/service/aggregator_service_test.go
package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tutorku_backend/internals/constants"
	eventModel "tutorku_backend/internals/features/attendance/events/model"
)

var (
	sessStart = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	sessEnd   = sessStart.Add(60 * time.Minute) // sesi 60 menit
)

func ev(kind string, at time.Time) eventModel.AttendanceEventModel {
	return eventModel.AttendanceEventModel{
		AttendanceEventID:         uuid.New(),
		AttendanceEventKind:       kind,
		AttendanceEventOccurredAt: at,
	}
}

func TestReduce_NoEvents_Absent(t *testing.T) {
	res := Reduce(nil, sessStart, sessEnd, nil, true)

	assert.Equal(t, constants.AttendanceStatusAbsent, res.Status)
	assert.Equal(t, 0, res.DurationSeconds)
	assert.Zero(t, res.Percentage)
	assert.Nil(t, res.FirstJoinAt)
}

func TestReduce_FullAttendance(t *testing.T) {
	events := []eventModel.AttendanceEventModel{
		ev(constants.EventKindJoined, sessStart),
		ev(constants.EventKindLeft, sessEnd),
	}
	res := Reduce(events, sessStart, sessEnd, nil, true)

	assert.Equal(t, constants.AttendanceStatusAttended, res.Status)
	assert.Equal(t, 3600, res.DurationSeconds)
	assert.InDelta(t, 100.0, res.Percentage, 0.01)
}

// Hadir 20 menit dari sesi 60 menit → 33.3%, masuk tepat waktu tapi
// tidak cukup lama → left.
func TestReduce_TwentyOfSixtyMinutes_Left(t *testing.T) {
	events := []eventModel.AttendanceEventModel{
		ev(constants.EventKindJoined, sessStart),
		ev(constants.EventKindLeft, sessStart.Add(20*time.Minute)),
	}
	res := Reduce(events, sessStart, sessEnd, nil, true)

	assert.InDelta(t, 33.33, res.Percentage, 0.01)
	assert.Equal(t, constants.AttendanceStatusLeft, res.Status)
}

// Join lewat toleransi 15 menit tapi kehadiran masih di atas minimum → late.
func TestReduce_LateJoin_Late(t *testing.T) {
	events := []eventModel.AttendanceEventModel{
		ev(constants.EventKindJoined, sessStart.Add(20*time.Minute)),
		ev(constants.EventKindLeft, sessEnd),
	}
	res := Reduce(events, sessStart, sessEnd, nil, true)

	assert.InDelta(t, 66.67, res.Percentage, 0.01)
	assert.Equal(t, constants.AttendanceStatusLate, res.Status)
}

// Join sebelum jadwal tidak menambah durasi — dihitung mulai scheduled_start.
func TestReduce_EarlyJoinClampedToScheduledStart(t *testing.T) {
	events := []eventModel.AttendanceEventModel{
		ev(constants.EventKindJoined, sessStart.Add(-30*time.Minute)),
		ev(constants.EventKindLeft, sessStart.Add(30*time.Minute)),
	}
	res := Reduce(events, sessStart, sessEnd, nil, true)

	assert.Equal(t, 1800, res.DurationSeconds)
	require.NotNil(t, res.FirstJoinAt)
	assert.True(t, res.FirstJoinAt.Equal(sessStart))
}

// Putus sambung ≤ 120 detik dianggap satu cycle utuh (gap ikut dihitung hadir).
func TestReduce_ReconnectWithinThresholdMerges(t *testing.T) {
	events := []eventModel.AttendanceEventModel{
		ev(constants.EventKindJoined, sessStart),
		ev(constants.EventKindLeft, sessStart.Add(30*time.Minute)),
		ev(constants.EventKindReconnect, sessStart.Add(30*time.Minute).Add(90*time.Second)),
		ev(constants.EventKindLeft, sessEnd),
	}
	res := Reduce(events, sessStart, sessEnd, nil, true)

	require.Len(t, res.Cycles, 1)
	assert.Equal(t, 3600, res.DurationSeconds)
	assert.Equal(t, constants.AttendanceStatusAttended, res.Status)
}

// Putus lebih dari ambang reconnect → dua cycle terpisah, gap tidak dihitung.
func TestReduce_ReconnectPastThresholdSplits(t *testing.T) {
	events := []eventModel.AttendanceEventModel{
		ev(constants.EventKindJoined, sessStart),
		ev(constants.EventKindLeft, sessStart.Add(20*time.Minute)),
		ev(constants.EventKindJoined, sessStart.Add(25*time.Minute)),
		ev(constants.EventKindLeft, sessEnd),
	}
	res := Reduce(events, sessStart, sessEnd, nil, true)

	require.Len(t, res.Cycles, 2)
	assert.Equal(t, (20+35)*60, res.DurationSeconds)
}

// Leave tanpa join pasangan jadi cycle durasi nol, reduksi tetap jalan.
func TestReduce_OrphanLeave_ZeroDurationCycle(t *testing.T) {
	events := []eventModel.AttendanceEventModel{
		ev(constants.EventKindLeft, sessStart.Add(5*time.Minute)),
		ev(constants.EventKindJoined, sessStart.Add(10*time.Minute)),
		ev(constants.EventKindLeft, sessEnd),
	}
	res := Reduce(events, sessStart, sessEnd, nil, true)

	require.Len(t, res.Cycles, 2)
	assert.Equal(t, res.Cycles[0].Join, res.Cycles[0].Leave)
	assert.Equal(t, 50*60, res.DurationSeconds)
}

// Hanya leave yatim, nol menit hadir — verdict harus absent walau cycle
// nol-durasi mengisi FirstJoinAt.
func TestReduce_OrphanLeaveOnly_Absent(t *testing.T) {
	events := []eventModel.AttendanceEventModel{
		ev(constants.EventKindLeft, sessStart.Add(5*time.Minute)),
	}
	res := Reduce(events, sessStart, sessEnd, nil, true)

	require.Len(t, res.Cycles, 1)
	assert.Equal(t, 0, res.DurationSeconds)
	assert.Equal(t, constants.AttendanceStatusAbsent, res.Status)
}

// Peserta tidak pernah leave → cycle ditutup di akhir efektif sesi.
func TestReduce_OpenCycleClosedAtEffectiveEnd(t *testing.T) {
	events := []eventModel.AttendanceEventModel{
		ev(constants.EventKindJoined, sessStart),
	}
	res := Reduce(events, sessStart, sessEnd, nil, true)

	require.Len(t, res.Cycles, 1)
	assert.Equal(t, 3600, res.DurationSeconds)
	assert.Equal(t, constants.AttendanceStatusAttended, res.Status)
}

// Selama sesi masih jalan (bukan finalisasi) cycle menggantung dibiarkan —
// hasilnya provisional: peserta yang masih di ruangan belum dihitung.
func TestReduce_OpenCycleIgnoredDuringLiveRecompute(t *testing.T) {
	events := []eventModel.AttendanceEventModel{
		ev(constants.EventKindJoined, sessStart),
	}
	res := Reduce(events, sessStart, sessEnd, nil, false)

	assert.Empty(t, res.Cycles)
	assert.Equal(t, 0, res.DurationSeconds)
	assert.Nil(t, res.FirstJoinAt)
	assert.Equal(t, constants.AttendanceStatusAbsent, res.Status)
}

// actual_end lewat jadwal memanjangkan akhir efektif, tapi persentase
// tetap dihitung terhadap durasi terjadwal dan di-clamp ke 100.
func TestReduce_ActualEndExtendsEffectiveEnd_PercentageClamped(t *testing.T) {
	actualEnd := sessEnd.Add(30 * time.Minute)
	events := []eventModel.AttendanceEventModel{
		ev(constants.EventKindJoined, sessStart),
		ev(constants.EventKindLeft, actualEnd),
	}
	res := Reduce(events, sessStart, sessEnd, &actualEnd, true)

	assert.Equal(t, 5400, res.DurationSeconds)
	assert.InDelta(t, 100.0, res.Percentage, 0.001)
}

// Event tidak urut kedatangan — hasil reduksi tetap sama karena
// diurutkan ulang by occurred_at.
func TestReduce_OutOfOrderEvents_Deterministic(t *testing.T) {
	events := []eventModel.AttendanceEventModel{
		ev(constants.EventKindLeft, sessEnd),
		ev(constants.EventKindJoined, sessStart),
	}
	res := Reduce(events, sessStart, sessEnd, nil, true)

	require.Len(t, res.Cycles, 1)
	assert.Equal(t, 3600, res.DurationSeconds)
}

// Double join saat cycle masih terbuka diabaikan.
func TestReduce_DoubleJoinIgnored(t *testing.T) {
	events := []eventModel.AttendanceEventModel{
		ev(constants.EventKindJoined, sessStart),
		ev(constants.EventKindJoined, sessStart.Add(5*time.Minute)),
		ev(constants.EventKindLeft, sessStart.Add(30*time.Minute)),
	}
	res := Reduce(events, sessStart, sessEnd, nil, true)

	require.Len(t, res.Cycles, 1)
	assert.Equal(t, 1800, res.DurationSeconds)
}

func TestDeriveStatus(t *testing.T) {
	onTime := sessStart.Add(5 * time.Minute)
	late := sessStart.Add(16 * time.Minute)

	assert.Equal(t, constants.AttendanceStatusAbsent, DeriveStatus(0, nil, sessStart))
	assert.Equal(t, constants.AttendanceStatusAttended, DeriveStatus(95, &onTime, sessStart))
	assert.Equal(t, constants.AttendanceStatusLate, DeriveStatus(60, &late, sessStart))
	assert.Equal(t, constants.AttendanceStatusLeft, DeriveStatus(60, &onTime, sessStart))
	assert.Equal(t, constants.AttendanceStatusLeft, DeriveStatus(10, &late, sessStart))
}

// Record final tidak dihitung ulang di jalur live; finalisasi dan record
// hasil evaluasi manual tetap jalan.
func TestSkipRecompute(t *testing.T) {
	// belum ada record → selalu hitung
	assert.False(t, skipRecompute(false, false, false, false))

	// final + live → skip
	assert.True(t, skipRecompute(true, true, false, false))

	// final + finalisasi ulang (retry completion) → jalan
	assert.False(t, skipRecompute(true, true, false, true))

	// final + evaluasi manual → jalan (metrik masih perlu refresh)
	assert.False(t, skipRecompute(true, true, true, false))

	// belum final → jalan
	assert.False(t, skipRecompute(true, false, false, false))
}

// Verdict beku: kolom status/percentage/is_calculated tidak ikut di-upsert.
func TestRecomputeUpdateColumns_FrozenVerdict(t *testing.T) {
	frozen := recomputeUpdateColumns(true)
	assert.NotContains(t, frozen, "attendance_record_status")
	assert.NotContains(t, frozen, "attendance_record_percentage")
	assert.NotContains(t, frozen, "attendance_record_is_calculated")
	assert.Contains(t, frozen, "attendance_record_duration_seconds")
	assert.Contains(t, frozen, "attendance_record_join_leave_cycles")

	open := recomputeUpdateColumns(false)
	assert.Contains(t, open, "attendance_record_status")
	assert.Contains(t, open, "attendance_record_percentage")
	assert.Contains(t, open, "attendance_record_is_calculated")
}
