// file: internals/features/sessions/session/controller/class_session_controller.go
package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"tutorku_backend/internals/constants"
	"tutorku_backend/internals/features/sessions/session/dto"
	"tutorku_backend/internals/features/sessions/session/model"
	"tutorku_backend/internals/features/sessions/session/service"
	helper "tutorku_backend/internals/helpers"
)

type ClassSessionController struct {
	DB        *gorm.DB
	Scheduler *service.SchedulerService
}

func NewClassSessionController(db *gorm.DB, sched *service.SchedulerService) *ClassSessionController {
	return &ClassSessionController{DB: db, Scheduler: sched}
}

var validate = validator.New()

/* ===================== SCHEDULE ===================== */
// POST /api/a/sessions
func (ctrl *ClassSessionController) ScheduleSession(c *fiber.Ctx) error {
	var body dto.ScheduleClassSessionRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := validate.Struct(body); err != nil {
		return helper.ValidationError(c, err)
	}

	sess, err := ctrl.Scheduler.Schedule(body.ToModel())
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Sesi berhasil dijadwalkan", dto.NewClassSessionResponse(*sess))
}

/* ===================== LIFECYCLE ===================== */
// POST /api/a/sessions/:id/start
func (ctrl *ClassSessionController) StartSession(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID sesi tidak valid")
	}

	sess, err := ctrl.Scheduler.Start(sessionID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "Sesi dimulai", dto.NewClassSessionResponse(*sess))
}

// POST /api/a/sessions/:id/complete
func (ctrl *ClassSessionController) CompleteSession(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID sesi tidak valid")
	}

	var body dto.CompleteClassSessionRequest
	if err := c.BodyParser(&body); err != nil && err != fiber.ErrUnprocessableEntity {
		return helper.Error(c, fiber.StatusBadRequest, "Payload tidak valid")
	}

	sess, consume, err := ctrl.Scheduler.Complete(sessionID, body.ClassSessionActualEndAt, constants.CompletedByOperator)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	payload := fiber.Map{"session": dto.NewClassSessionResponse(*sess)}
	if consume != nil {
		payload["credit"] = consume
	}
	return helper.Success(c, "Sesi selesai", payload)
}

// POST /api/a/sessions/:id/cancel
func (ctrl *ClassSessionController) CancelSession(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID sesi tidak valid")
	}

	var body dto.CancelClassSessionRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := validate.Struct(body); err != nil {
		return helper.ValidationError(c, err)
	}

	sess, err := ctrl.Scheduler.Cancel(sessionID, body.ClassSessionCancelledBy, body.ClassSessionCancelReason, body.ClassSessionStudentCancellationCounts)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "Sesi dibatalkan", dto.NewClassSessionResponse(*sess))
}

// POST /api/a/sessions/:id/reschedule
func (ctrl *ClassSessionController) RescheduleSession(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID sesi tidak valid")
	}

	var body dto.RescheduleClassSessionRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := validate.Struct(body); err != nil {
		return helper.ValidationError(c, err)
	}

	replacement, err := ctrl.Scheduler.Reschedule(sessionID, body.ClassSessionScheduledStartAt, body.ClassSessionScheduledEndAt)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Sesi dijadwalkan ulang", dto.NewClassSessionResponse(*replacement))
}

/* ===================== READ ===================== */
// GET /api/u/sessions/:id
func (ctrl *ClassSessionController) GetSession(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID sesi tidak valid")
	}

	var sess model.ClassSessionModel
	if err := ctrl.DB.Where("class_session_id = ?", sessionID).First(&sess).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return helper.Error(c, fiber.StatusNotFound, "Sesi tidak ditemukan")
		}
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal mengambil sesi")
	}
	return helper.Success(c, "Detail sesi", dto.NewClassSessionResponse(sess))
}

// GET /api/a/sessions?subscription_id=&status=&page=&limit=
func (ctrl *ClassSessionController) ListSessions(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)

	q := ctrl.DB.Model(&model.ClassSessionModel{})
	if raw := c.Query("subscription_id"); raw != "" {
		subID, err := uuid.Parse(raw)
		if err != nil {
			return helper.Error(c, fiber.StatusBadRequest, "subscription_id tidak valid")
		}
		q = q.Where("class_session_subscription_id = ?", subID)
	}
	if status := c.Query("status"); status != "" {
		q = q.Where("class_session_status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal menghitung sesi")
	}

	var sessions []model.ClassSessionModel
	if err := q.
		Order("class_session_scheduled_start_at DESC").
		Offset(paging.Offset).
		Limit(paging.Limit).
		Find(&sessions).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal mengambil daftar sesi")
	}

	out := make([]dto.ClassSessionResponse, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, dto.NewClassSessionResponse(s))
	}
	return helper.SuccessWithPagination(c, "Daftar sesi", out, helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage))
}
