// file: internals/features/subscriptions/subscription/controller/student_subscription_controller.go
package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"tutorku_backend/internals/features/subscriptions/subscription/dto"
	"tutorku_backend/internals/features/subscriptions/subscription/model"
	"tutorku_backend/internals/features/subscriptions/subscription/service"
	helper "tutorku_backend/internals/helpers"
)

type StudentSubscriptionController struct {
	DB     *gorm.DB
	Ledger *service.LedgerService
}

func NewStudentSubscriptionController(db *gorm.DB) *StudentSubscriptionController {
	return &StudentSubscriptionController{
		DB:     db,
		Ledger: service.NewLedgerService(db),
	}
}

/* ===================== CREATE (pending) ===================== */
// POST /api/a/subscriptions
func (ctrl *StudentSubscriptionController) CreateSubscription(c *fiber.Ctx) error {
	var req dto.CreateStudentSubscriptionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Payload tidak valid")
	}

	v := validator.New()
	if err := v.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	mdl := req.ToModel()
	if err := ctrl.DB.Create(&mdl).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal membuat langganan")
	}

	return helper.SuccessWithCode(c, fiber.StatusCreated, "Langganan dibuat (menunggu pembayaran)", dto.NewStudentSubscriptionResponse(mdl))
}

/* ===================== PAUSE ===================== */
// POST /api/a/subscriptions/:id/pause
func (ctrl *StudentSubscriptionController) PauseSubscription(c *fiber.Ctx) error {
	subID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID langganan tidak valid")
	}

	var req dto.PauseStudentSubscriptionRequest
	if err := c.BodyParser(&req); err != nil && !errors.Is(err, fiber.ErrUnprocessableEntity) {
		req = dto.PauseStudentSubscriptionRequest{} // body opsional
	}

	sub, err := ctrl.Ledger.Pause(subID, req.StudentSubscriptionPauseReason)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "Langganan di-pause", dto.NewStudentSubscriptionResponse(*sub))
}

/* ===================== RESUME ===================== */
// POST /api/a/subscriptions/:id/resume
func (ctrl *StudentSubscriptionController) ResumeSubscription(c *fiber.Ctx) error {
	subID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID langganan tidak valid")
	}

	sub, err := ctrl.Ledger.Resume(subID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "Langganan dilanjutkan", dto.NewStudentSubscriptionResponse(*sub))
}

/* ===================== CANCEL ===================== */
// POST /api/a/subscriptions/:id/cancel
func (ctrl *StudentSubscriptionController) CancelSubscription(c *fiber.Ctx) error {
	subID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID langganan tidak valid")
	}

	var req dto.CancelStudentSubscriptionRequest
	_ = c.BodyParser(&req) // body opsional

	sub, err := ctrl.Ledger.Cancel(subID, req.StudentSubscriptionCancellationReason)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "Langganan dibatalkan", dto.NewStudentSubscriptionResponse(*sub))
}

/* ===================== DETAIL & SNAPSHOT ===================== */
// GET /api/u/subscriptions/:id
func (ctrl *StudentSubscriptionController) GetSubscription(c *fiber.Ctx) error {
	subID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID langganan tidak valid")
	}

	var mdl model.StudentSubscriptionModel
	if err := ctrl.DB.Where("student_subscription_id = ?", subID).First(&mdl).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "Langganan tidak ditemukan")
		}
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.Success(c, "OK", dto.NewStudentSubscriptionResponse(mdl))
}

// GET /api/u/subscriptions/:id/credit
func (ctrl *StudentSubscriptionController) GetCreditSnapshot(c *fiber.Ctx) error {
	subID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID langganan tidak valid")
	}

	var mdl model.StudentSubscriptionModel
	if err := ctrl.DB.Where("student_subscription_id = ?", subID).First(&mdl).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "Langganan tidak ditemukan")
		}
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.Success(c, "OK", dto.NewCreditSnapshotResponse(mdl))
}

/* ===================== LIST ===================== */
// GET /api/a/subscriptions?student_id=&status=&page=&limit=
func (ctrl *StudentSubscriptionController) ListSubscriptions(c *fiber.Ctx) error {
	var req dto.FilterStudentSubscriptionRequest
	if err := c.QueryParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Query tidak valid")
	}
	v := validator.New()
	if err := v.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	paging := helper.ResolvePaging(c, 20, 200)

	q := ctrl.DB.Model(&model.StudentSubscriptionModel{})
	if req.StudentID != nil {
		q = q.Where("student_subscription_student_id = ?", *req.StudentID)
	}
	if req.Status != nil {
		q = q.Where("student_subscription_status = ?", *req.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	var rows []model.StudentSubscriptionModel
	if err := q.
		Order("student_subscription_created_at DESC").
		Offset(paging.Offset).Limit(paging.Limit).
		Find(&rows).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	items := make([]dto.StudentSubscriptionResponse, 0, len(rows))
	for _, r := range rows {
		items = append(items, dto.NewStudentSubscriptionResponse(r))
	}

	p := helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage)
	p.Count = len(items)
	return helper.SuccessWithPagination(c, "OK", items, p)
}
