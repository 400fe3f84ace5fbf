// file: internals/features/attendance/events/service/ingest_service.go
package service

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tutorku_backend/internals/features/attendance/events/model"
	recordsvc "tutorku_backend/internals/features/attendance/records/service"
)

/* =========================================================
 * EVENT INGEST
 *
 * Pintu masuk webhook provider meeting. Append-only dengan
 * dedup di level DB: OnConflict DoNothing pada
 * (session, participant, provider_event_id). Duplikat tetap
 * dijawab 2xx supaya provider berhenti retry.
 * ========================================================= */

type IngestService struct {
	DB         *gorm.DB
	Aggregator *recordsvc.AggregatorService
}

func NewIngestService(db *gorm.DB, agg *recordsvc.AggregatorService) *IngestService {
	return &IngestService{DB: db, Aggregator: agg}
}

type IngestResult struct {
	Duplicate bool
	Event     *model.AttendanceEventModel
}

// newIngestResult menerjemahkan hasil insert OnConflict DoNothing:
// nol baris berarti provider_event_id ini sudah pernah masuk — duplikat,
// event lama yang berlaku.
func newIngestResult(rowsAffected int64, ev *model.AttendanceEventModel) *IngestResult {
	if rowsAffected == 0 {
		return &IngestResult{Duplicate: true}
	}
	return &IngestResult{Event: ev}
}

// Ingest menyimpan satu event lalu langsung recompute peserta terkait.
// Recompute yang gagal (mis. sesi belum dikenal) tidak menggagalkan ingest —
// event sudah tersimpan, verdict final dihitung ulang saat sesi complete.
func (s *IngestService) Ingest(ev *model.AttendanceEventModel) (*IngestResult, error) {
	res := s.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "attendance_event_session_id"},
			{Name: "attendance_event_participant_id"},
			{Name: "attendance_event_provider_event_id"},
		},
		DoNothing: true,
	}).Create(ev)
	if res.Error != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal menyimpan event kehadiran")
	}

	out := newIngestResult(res.RowsAffected, ev)
	if out.Duplicate {
		log.Printf("[INFO] Event duplikat %s/%s/%s — diabaikan",
			ev.AttendanceEventSessionID, ev.AttendanceEventParticipantID, ev.AttendanceEventProviderEventID)
		return out, nil
	}

	if err := s.Aggregator.Recompute(s.DB, ev.AttendanceEventSessionID, ev.AttendanceEventParticipantID); err != nil {
		log.Printf("[WARN] Recompute kehadiran %s/%s gagal: %v",
			ev.AttendanceEventSessionID, ev.AttendanceEventParticipantID, err)
	}

	return out, nil
}
