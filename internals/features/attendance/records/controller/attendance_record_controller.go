// file: internals/features/attendance/records/controller/attendance_record_controller.go
package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"tutorku_backend/internals/features/attendance/records/dto"
	"tutorku_backend/internals/features/attendance/records/model"
	"tutorku_backend/internals/features/attendance/records/service"
	helper "tutorku_backend/internals/helpers"
)

type AttendanceRecordController struct {
	DB         *gorm.DB
	Aggregator *service.AggregatorService
}

func NewAttendanceRecordController(db *gorm.DB, agg *service.AggregatorService) *AttendanceRecordController {
	return &AttendanceRecordController{DB: db, Aggregator: agg}
}

var validate = validator.New()

// GET /api/a/sessions/:session_id/attendance — rekap semua peserta satu sesi
func (ctrl *AttendanceRecordController) ListSessionAttendance(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("session_id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "session_id tidak valid")
	}

	var records []model.AttendanceRecordModel
	if err := ctrl.DB.
		Where("attendance_record_session_id = ?", sessionID).
		Order("attendance_record_created_at ASC").
		Find(&records).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal mengambil rekap kehadiran")
	}

	out := make([]*dto.AttendanceRecordResponse, 0, len(records))
	for i := range records {
		out = append(out, dto.NewAttendanceRecordResponse(&records[i]))
	}
	return helper.Success(c, "Rekap kehadiran sesi", out)
}

// GET /api/u/sessions/:session_id/attendance/:participant_id — rekap satu peserta
func (ctrl *AttendanceRecordController) GetAttendance(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("session_id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "session_id tidak valid")
	}
	participantID, err := uuid.Parse(c.Params("participant_id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "participant_id tidak valid")
	}

	var record model.AttendanceRecordModel
	if err := ctrl.DB.
		Where("attendance_record_session_id = ? AND attendance_record_participant_id = ?", sessionID, participantID).
		First(&record).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return helper.Error(c, fiber.StatusNotFound, "Rekap kehadiran tidak ditemukan")
		}
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal mengambil rekap kehadiran")
	}
	return helper.Success(c, "Rekap kehadiran", dto.NewAttendanceRecordResponse(&record))
}

// GET /api/a/sessions/:session_id/attendance/stats — agregat untuk reporting
func (ctrl *AttendanceRecordController) GetSessionStats(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("session_id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "session_id tidak valid")
	}

	var records []model.AttendanceRecordModel
	if err := ctrl.DB.
		Where("attendance_record_session_id = ?", sessionID).
		Find(&records).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal mengambil rekap kehadiran")
	}

	stats := dto.SessionAttendanceStatsResponse{
		SessionID:         sessionID,
		TotalParticipants: int64(len(records)),
		CountsByStatus:    map[string]int{},
	}
	var sumPct, sumDur float64
	for _, r := range records {
		stats.CountsByStatus[r.AttendanceRecordStatus]++
		sumPct += r.AttendanceRecordPercentage
		sumDur += float64(r.AttendanceRecordDurationSeconds)
	}
	if n := len(records); n > 0 {
		stats.AveragePercentage = sumPct / float64(n)
		stats.AverageDurationSec = sumDur / float64(n)
	}
	return helper.Success(c, "Statistik kehadiran sesi", stats)
}

// POST /api/a/sessions/:session_id/attendance/recompute — paksa replay event log
func (ctrl *AttendanceRecordController) RecomputeSession(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("session_id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "session_id tidak valid")
	}

	var participantIDs []uuid.UUID
	if err := ctrl.DB.
		Table("meeting_attendance_events").
		Where("attendance_event_session_id = ?", sessionID).
		Distinct("attendance_event_participant_id").
		Pluck("attendance_event_participant_id", &participantIDs).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal membaca event log")
	}

	for _, pid := range participantIDs {
		if err := ctrl.Aggregator.Recompute(ctrl.DB, sessionID, pid); err != nil {
			return helper.FromFiberError(c, err)
		}
	}
	return helper.Success(c, "Recompute selesai", fiber.Map{"participants": len(participantIDs)})
}

// PUT /api/a/sessions/:session_id/attendance/:participant_id — override manual,
// membekukan record dari recompute otomatis
func (ctrl *AttendanceRecordController) ManualEvaluate(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("session_id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "session_id tidak valid")
	}
	participantID, err := uuid.Parse(c.Params("participant_id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "participant_id tidak valid")
	}

	var body dto.ManualEvaluationRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := validate.Struct(body); err != nil {
		return helper.ValidationError(c, err)
	}

	evaluatorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	record, err := ctrl.Aggregator.ManualOverride(sessionID, participantID, evaluatorID, body.Status, body.Percentage, body.Note)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "Evaluasi manual tersimpan", dto.NewAttendanceRecordResponse(record))
}
