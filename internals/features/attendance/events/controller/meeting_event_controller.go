// file: internals/features/attendance/events/controller/meeting_event_controller.go
package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"tutorku_backend/internals/features/attendance/events/dto"
	"tutorku_backend/internals/features/attendance/events/model"
	"tutorku_backend/internals/features/attendance/events/service"
	recordsvc "tutorku_backend/internals/features/attendance/records/service"
	helper "tutorku_backend/internals/helpers"
)

type MeetingEventController struct {
	DB     *gorm.DB
	Ingest *service.IngestService
}

func NewMeetingEventController(db *gorm.DB, agg *recordsvc.AggregatorService) *MeetingEventController {
	return &MeetingEventController{
		DB:     db,
		Ingest: service.NewIngestService(db, agg),
	}
}

var validate = validator.New()

// POST /api/webhooks/meeting-events
func (ctrl *MeetingEventController) HandleMeetingEvent(c *fiber.Ctx) error {
	var body dto.MeetingEventWebhookRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := validate.Struct(body); err != nil {
		return helper.ValidationError(c, err)
	}

	res, err := ctrl.Ingest.Ingest(body.ToModel())
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	if res.Duplicate {
		// Tetap 200 biar provider berhenti retry
		return helper.Success(c, "Event sudah pernah diterima", fiber.Map{"duplicate": true})
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Event kehadiran diterima", dto.NewAttendanceEventResponse(res.Event))
}

// GET /api/a/attendance-events/:session_id — audit trail per sesi
func (ctrl *MeetingEventController) ListSessionEvents(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("session_id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "session_id tidak valid")
	}

	var events []model.AttendanceEventModel
	if err := ctrl.DB.
		Where("attendance_event_session_id = ?", sessionID).
		Order("attendance_event_occurred_at ASC").
		Find(&events).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal mengambil event")
	}

	out := make([]*dto.AttendanceEventResponse, 0, len(events))
	for i := range events {
		out = append(out, dto.NewAttendanceEventResponse(&events[i]))
	}
	return helper.Success(c, "Daftar event kehadiran", out)
}
