package record

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/swasthyaid/health-api/internal/model"
	"github.com/swasthyaid/health-api/internal/repository"
	"github.com/swasthyaid/health-api/internal/storage"
	"github.com/swasthyaid/health-api/pkg/auth"
	apperrors "github.com/swasthyaid/health-api/pkg/errors"
	"github.com/swasthyaid/health-api/pkg/metrics"
)

const dateLayout = "2006-01-02"

// UploadedFile carries the bytes and metadata of a document submitted with a
// record.
type UploadedFile struct {
	Name        string
	ContentType string
	Size        int64
	Data        []byte
}

type Service struct {
	workerRepo repository.WorkerRepository
	doctorRepo repository.DoctorRepository
	recordRepo repository.RecordRepository
	store      storage.Store
	metrics    *metrics.Metrics
}

func NewService(workerRepo repository.WorkerRepository, doctorRepo repository.DoctorRepository,
	recordRepo repository.RecordRepository, store storage.Store, m *metrics.Metrics) *Service {
	return &Service{
		workerRepo: workerRepo,
		doctorRepo: doctorRepo,
		recordRepo: recordRepo,
		store:      store,
		metrics:    m,
	}
}

// AddRecord creates a clinical encounter for the worker, together with the
// optional follow-up appointment and uploaded document, and queues the
// dashboard sync event. All rows commit in one transaction; a failed blob
// upload rolls everything back.
func (s *Service) AddRecord(ctx context.Context, principal *auth.Principal, healthID string,
	req *model.CreateRecordRequest, file *UploadedFile) (*model.CreateRecordResponse, error) {

	if req.Diagnosis == "" {
		return nil, apperrors.BadRequest("diagnosis is required", nil)
	}

	worker, err := s.workerRepo.GetByHealthID(ctx, healthID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("worker", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get worker: %w", err)
	}

	doctor, err := s.doctorRepo.GetByDoctorID(ctx, principal.PublicID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.Unauthorized("doctor identity not recognized", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}

	visitDate := time.Now()
	if req.VisitDate != "" {
		visitDate, err = time.Parse(dateLayout, req.VisitDate)
		if err != nil {
			return nil, apperrors.BadRequest("visit date must be in YYYY-MM-DD format", err)
		}
	}

	var nextAppointment *time.Time
	if req.NextAppointmentDate != "" {
		parsed, err := time.Parse(dateLayout, req.NextAppointmentDate)
		if err != nil {
			return nil, apperrors.BadRequest("next appointment date must be in YYYY-MM-DD format", err)
		}
		nextAppointment = &parsed
	}

	// Doctor identity is a point-in-time snapshot, not a live reference.
	rec := &model.MedicalRecord{
		ID:                  uuid.New(),
		WorkerID:            worker.ID,
		DoctorName:          doctor.Name,
		HospitalName:        doctor.HospitalName,
		DoctorType:          string(doctor.DoctorType),
		Diagnosis:           req.Diagnosis,
		Prescription:        req.Prescription,
		Notes:               req.Notes,
		SuggestedTests:      req.SuggestedTests,
		TestByWorker:        req.TestByWorker,
		VisitDate:           visitDate,
		NextAppointmentDate: nextAppointment,
	}

	var appointment *model.Appointment
	if nextAppointment != nil {
		var notes *string
		if req.Notes != "" {
			notes = &req.Notes
		}
		appointment = &model.Appointment{
			ID:              uuid.New(),
			WorkerID:        worker.ID,
			DoctorName:      doctor.Name,
			AppointmentDate: *nextAppointment,
			Status:          model.AppointmentStatusScheduled,
			Purpose:         req.Diagnosis,
			Notes:           notes,
		}
	}

	var document *model.MedicalDocument
	var upload func() error
	if file != nil {
		document = &model.MedicalDocument{
			ID:              uuid.New(),
			WorkerID:        worker.ID,
			MedicalRecordID: &rec.ID,
			FileName:        file.Name,
			FileType:        file.ContentType,
			FileSize:        file.Size,
			UploadedBy:      doctor.Name,
		}
		upload = func() error {
			path, err := s.store.Save(worker.HealthID, file.Name, file.Data)
			if err != nil {
				return err
			}
			document.FilePath = path
			return nil
		}
	}

	district := ""
	if worker.District != nil {
		district = *worker.District
	}
	payload, err := json.Marshal(model.RecordCreatedEvent{
		RecordID: rec.ID,
		WorkerID: worker.ID,
		District: district,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal sync event: %w", err)
	}
	event := &model.OutboxEvent{
		EventType: model.EventRecordCreated,
		Payload:   payload,
	}

	if err := s.recordRepo.CreateLinked(ctx, rec, appointment, document, event, upload); err != nil {
		return nil, fmt.Errorf("failed to add medical record: %w", err)
	}

	s.metrics.RecordsCreated.Inc()

	return &model.CreateRecordResponse{
		Record:      rec,
		Appointment: appointment,
		Document:    document,
	}, nil
}
