// file: internals/features/attendance/records/service/aggregator_service.go
package service

import (
	"encoding/json"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tutorku_backend/internals/constants"
	eventModel "tutorku_backend/internals/features/attendance/events/model"
	"tutorku_backend/internals/features/attendance/records/model"
	sessModel "tutorku_backend/internals/features/sessions/session/model"
)

/* =========================================================
 * ATTENDANCE AGGREGATOR
 *
 * Mereduksi event log jadi satu baris meeting_attendances per
 * (session, participant). Reduksi full-replay dari event log
 * setiap kali dipanggil — deterministik, urutan kedatangan
 * webhook tidak berpengaruh ke hasil akhir.
 * ========================================================= */

type AggregatorService struct {
	DB *gorm.DB
}

func NewAggregatorService(db *gorm.DB) *AggregatorService {
	return &AggregatorService{DB: db}
}

// Serialisasi recompute per (session, participant) — webhook provider sering
// burst untuk peserta yang sama. Registry global supaya semua instance
// (HTTP path maupun sweep) memakai lock yang sama.
var (
	lockMu   sync.Mutex
	keyLocks = make(map[string]*sync.Mutex)
)

func (s *AggregatorService) keyLock(sessionID, participantID uuid.UUID) *sync.Mutex {
	lockMu.Lock()
	defer lockMu.Unlock()
	key := sessionID.String() + "|" + participantID.String()
	l, ok := keyLocks[key]
	if !ok {
		l = &sync.Mutex{}
		keyLocks[key] = l
	}
	return l
}

// Satu pasangan join/leave hasil reduksi
type JoinLeaveCycle struct {
	Join  time.Time `json:"join"`
	Leave time.Time `json:"leave"`
}

// Hasil reduksi murni, belum menyentuh DB
type ReductionResult struct {
	Cycles          []JoinLeaveCycle
	FirstJoinAt     *time.Time
	LastLeaveAt     *time.Time
	DurationSeconds int
	Percentage      float64
	Status          string
}

// ReduceCycles menjalankan reduksi event→cycles untuk satu peserta.
// Aturan:
//   - event diurutkan occurred_at; joined/reconnect membuka cycle,
//     left/aborted menutup
//   - join sebelum jadwal dihitung mulai scheduled_start (clamp)
//   - leave tanpa join pasangan = cycle durasi nol (log WARN di caller)
//   - join baru ≤ reconnectThreshold sejak leave terakhir di-merge ke
//     cycle sebelumnya (gap dianggap hadir)
//   - cycle yang masih terbuka ditutup di effectiveEnd saat closeOpen
//     (finalisasi); selama sesi masih jalan cycle terbuka diabaikan dulu
func ReduceCycles(events []eventModel.AttendanceEventModel, scheduledStart, effectiveEnd time.Time, reconnectThreshold time.Duration, closeOpen bool) ([]JoinLeaveCycle, []uuid.UUID) {
	sorted := make([]eventModel.AttendanceEventModel, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].AttendanceEventOccurredAt.Before(sorted[j].AttendanceEventOccurredAt)
	})

	var cycles []JoinLeaveCycle
	var orphanLeaves []uuid.UUID
	var openJoin *time.Time

	for _, ev := range sorted {
		at := ev.AttendanceEventOccurredAt

		switch ev.AttendanceEventKind {
		case constants.EventKindJoined, constants.EventKindReconnect:
			if openJoin != nil {
				continue // double join — cycle sudah terbuka
			}
			joinAt := at
			if joinAt.Before(scheduledStart) {
				joinAt = scheduledStart
			}
			// merge kalau jeda sejak leave terakhir masih di ambang reconnect
			if n := len(cycles); n > 0 && at.Sub(cycles[n-1].Leave) <= reconnectThreshold {
				reopened := cycles[n-1].Join
				cycles = cycles[:n-1]
				openJoin = &reopened
			} else {
				openJoin = &joinAt
			}

		case constants.EventKindLeft, constants.EventKindAborted:
			if openJoin == nil {
				// leave yatim — catat cycle durasi nol biar audit trail utuh
				orphanLeaves = append(orphanLeaves, ev.AttendanceEventID)
				leaveAt := at
				if leaveAt.Before(scheduledStart) {
					leaveAt = scheduledStart
				}
				cycles = append(cycles, JoinLeaveCycle{Join: leaveAt, Leave: leaveAt})
				continue
			}
			leaveAt := at
			if leaveAt.After(effectiveEnd) {
				leaveAt = effectiveEnd
			}
			if leaveAt.Before(*openJoin) {
				leaveAt = *openJoin
			}
			cycles = append(cycles, JoinLeaveCycle{Join: *openJoin, Leave: leaveAt})
			openJoin = nil
		}
	}

	// cycle terbuka: peserta tidak pernah leave, tutup di akhir efektif
	if openJoin != nil && closeOpen {
		leaveAt := effectiveEnd
		if leaveAt.Before(*openJoin) {
			leaveAt = *openJoin
		}
		cycles = append(cycles, JoinLeaveCycle{Join: *openJoin, Leave: leaveAt})
	}

	return cycles, orphanLeaves
}

// Reduce menghitung durasi, persentase, dan verdict dari event log satu
// peserta. closeOpen=true saat finalisasi (cycle menggantung ditutup di akhir
// efektif); false selama sesi masih jalan — hasilnya provisional.
func Reduce(events []eventModel.AttendanceEventModel, scheduledStart, scheduledEnd time.Time, actualEnd *time.Time, closeOpen bool) ReductionResult {
	effectiveEnd := scheduledEnd
	if actualEnd != nil && actualEnd.After(scheduledEnd) {
		effectiveEnd = *actualEnd
	}

	cycles, orphans := ReduceCycles(events, scheduledStart, effectiveEnd,
		time.Duration(constants.DefaultReconnectThresholdSeconds)*time.Second, closeOpen)
	for _, id := range orphans {
		log.Printf("[WARN] Leave tanpa join untuk event %s — dicatat sebagai cycle durasi nol", id)
	}

	var res ReductionResult
	res.Cycles = cycles

	totalSeconds := 0
	for _, c := range cycles {
		totalSeconds += int(c.Leave.Sub(c.Join).Seconds())
	}
	res.DurationSeconds = totalSeconds

	if len(cycles) > 0 {
		first := cycles[0].Join
		last := cycles[len(cycles)-1].Leave
		res.FirstJoinAt = &first
		res.LastLeaveAt = &last
	}

	scheduledSeconds := scheduledEnd.Sub(scheduledStart).Seconds()
	if scheduledSeconds > 0 {
		res.Percentage = float64(totalSeconds) / scheduledSeconds * 100
	}
	if res.Percentage < 0 {
		res.Percentage = 0
	}
	if res.Percentage > 100 {
		res.Percentage = 100
	}

	// Nol menit hadir = absent, termasuk kalau satu-satunya cycle berasal
	// dari leave yatim (FirstJoinAt terisi tapi durasinya nol)
	if totalSeconds == 0 {
		res.Status = constants.AttendanceStatusAbsent
	} else {
		res.Status = DeriveStatus(res.Percentage, res.FirstJoinAt, scheduledStart)
	}
	return res
}

// DeriveStatus: absent kalau tidak pernah join; hadir penuh ≥ ambang penuh;
// late kalau join pertama lewat toleransi tapi kehadiran masih layak;
// sisanya left (sempat masuk tapi kurang).
func DeriveStatus(percentage float64, firstJoinAt *time.Time, scheduledStart time.Time) string {
	if firstJoinAt == nil {
		return constants.AttendanceStatusAbsent
	}
	lateDeadline := scheduledStart.Add(time.Duration(constants.DefaultLateGraceMinutes) * time.Minute)
	isLate := firstJoinAt.After(lateDeadline)

	switch {
	case !isLate && percentage >= constants.DefaultFullAttendanceThreshold:
		return constants.AttendanceStatusAttended
	case isLate && percentage >= constants.DefaultMinimumAttendanceThreshold:
		return constants.AttendanceStatusLate
	default:
		return constants.AttendanceStatusLeft
	}
}

// Recompute mereplay event log satu peserta dan meng-upsert baris
// meeting_attendances. Record yang frozen (is_calculated atau hasil
// evaluasi manual) tidak disentuh.
func (s *AggregatorService) Recompute(tx *gorm.DB, sessionID, participantID uuid.UUID) error {
	l := s.keyLock(sessionID, participantID)
	l.Lock()
	defer l.Unlock()

	return s.recomputeLocked(tx, sessionID, participantID, false)
}

// skipRecompute: record yang sudah final (is_calculated) tidak dihitung ulang
// di jalur live. Finalisasi (retry pipeline completion) dan record hasil
// evaluasi manual (metriknya tetap perlu disegarkan) selalu jalan.
func skipRecompute(found, isCalculated, manuallyEvaluated, finalizing bool) bool {
	return found && isCalculated && !finalizing && !manuallyEvaluated
}

// recomputeUpdateColumns: verdict beku (evaluasi manual) → hanya kolom metrik
// (cycles, durasi, first/last) yang ikut di-upsert; status, percentage, dan
// flag kalkulasi tidak disentuh.
func recomputeUpdateColumns(verdictFrozen bool) []string {
	cols := []string{
		"attendance_record_first_join_at",
		"attendance_record_last_leave_at",
		"attendance_record_join_leave_cycles",
		"attendance_record_duration_seconds",
	}
	if !verdictFrozen {
		cols = append(cols,
			"attendance_record_percentage",
			"attendance_record_status",
			"attendance_record_is_calculated",
		)
	}
	return cols
}

func (s *AggregatorService) recomputeLocked(tx *gorm.DB, sessionID, participantID uuid.UUID, finalizing bool) error {
	var existing model.AttendanceRecordModel
	found := true
	if err := tx.
		Where("attendance_record_session_id = ? AND attendance_record_participant_id = ?", sessionID, participantID).
		First(&existing).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		found = false
	}
	if skipRecompute(found, existing.AttendanceRecordIsCalculated, existing.AttendanceRecordManuallyEvaluated, finalizing) {
		return nil // sudah final, event telat tidak menggeser apa-apa
	}

	var sess sessModel.ClassSessionModel
	if err := tx.Where("class_session_id = ?", sessionID).First(&sess).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "Sesi tidak ditemukan")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	var events []eventModel.AttendanceEventModel
	if err := tx.
		Where("attendance_event_session_id = ? AND attendance_event_participant_id = ?", sessionID, participantID).
		Order("attendance_event_occurred_at ASC").
		Find(&events).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	res := Reduce(events, sess.ClassSessionScheduledStartAt, sess.ClassSessionScheduledEndAt, sess.ClassSessionActualEndAt, finalizing)

	cyclesJSON, err := json.Marshal(res.Cycles)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	record := model.AttendanceRecordModel{
		AttendanceRecordSessionID:       sessionID,
		AttendanceRecordParticipantID:   participantID,
		AttendanceRecordFirstJoinAt:     res.FirstJoinAt,
		AttendanceRecordLastLeaveAt:     res.LastLeaveAt,
		AttendanceRecordJoinLeaveCycles: datatypes.JSON(cyclesJSON),
		AttendanceRecordDurationSeconds: res.DurationSeconds,
		AttendanceRecordPercentage:      res.Percentage,
		AttendanceRecordStatus:          res.Status,
		AttendanceRecordIsCalculated:    finalizing,
	}

	updateCols := recomputeUpdateColumns(found && existing.AttendanceRecordManuallyEvaluated)

	if err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "attendance_record_session_id"},
			{Name: "attendance_record_participant_id"},
		},
		DoUpdates: clause.AssignmentColumns(updateCols),
	}).Create(&record).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal menyimpan rekap kehadiran")
	}
	return nil
}

// FinalizeSession menghitung ulang semua peserta yang punya event di sesi
// ini lalu mengunci hasilnya (is_calculated). Dipanggil dari pipeline
// completion — idempotent; verdict hasil evaluasi manual tidak ditimpa.
func (s *AggregatorService) FinalizeSession(tx *gorm.DB, sess *sessModel.ClassSessionModel) error {
	var participantIDs []uuid.UUID
	if err := tx.Model(&eventModel.AttendanceEventModel{}).
		Where("attendance_event_session_id = ?", sess.ClassSessionID).
		Distinct("attendance_event_participant_id").
		Pluck("attendance_event_participant_id", &participantIDs).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	for _, pid := range participantIDs {
		l := s.keyLock(sess.ClassSessionID, pid)
		l.Lock()
		err := s.recomputeLocked(tx, sess.ClassSessionID, pid, true)
		l.Unlock()
		if err != nil {
			return err
		}
	}
	return nil
}

// ManualOverride menimpa verdict (dan opsional percentage) satu record lalu
// membekukannya dari recompute otomatis berikutnya.
func (s *AggregatorService) ManualOverride(sessionID, participantID, evaluatorID uuid.UUID, status string, percentage *float64, note *string) (*model.AttendanceRecordModel, error) {
	l := s.keyLock(sessionID, participantID)
	l.Lock()
	defer l.Unlock()

	var out *model.AttendanceRecordModel
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		record := model.AttendanceRecordModel{
			AttendanceRecordSessionID:         sessionID,
			AttendanceRecordParticipantID:     participantID,
			AttendanceRecordStatus:            status,
			AttendanceRecordManuallyEvaluated: true,
			AttendanceRecordEvaluatedBy:       &evaluatorID,
			AttendanceRecordEvaluatedAt:       &now,
			AttendanceRecordNote:              note,
		}
		overrideCols := []string{
			"attendance_record_status",
			"attendance_record_manually_evaluated",
			"attendance_record_evaluated_by",
			"attendance_record_evaluated_at",
			"attendance_record_note",
		}
		if percentage != nil {
			record.AttendanceRecordPercentage = *percentage
			overrideCols = append(overrideCols, "attendance_record_percentage")
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "attendance_record_session_id"},
				{Name: "attendance_record_participant_id"},
			},
			DoUpdates: clause.AssignmentColumns(overrideCols),
		}).Create(&record).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal menyimpan evaluasi manual")
		}

		if err := tx.
			Where("attendance_record_session_id = ? AND attendance_record_participant_id = ?", sessionID, participantID).
			First(&record).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		out = &record
		return nil
	})
	return out, err
}
