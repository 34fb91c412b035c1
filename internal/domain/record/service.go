package record

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dentalclinic/records/internal/domain/patient"
)

// PatientNotFoundError is returned when a record operation references a
// patient id with no matching document.
type PatientNotFoundError struct {
	PatientID string
}

func (e *PatientNotFoundError) Error() string {
	return fmt.Sprintf("referenced patient %s does not exist", e.PatientID)
}

// PatientGetter is the document-store view the record service needs for the
// cross-store reference check and the details join.
type PatientGetter interface {
	GetByID(ctx context.Context, id string) (*patient.Patient, error)
}

// PatientSummary is the patient slice of the combined details view.
type PatientSummary struct {
	ID          string `json:"id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
}

// RecordDetails combines a patient summary with that patient's records,
// assembled in application memory from two independent fetches.
type RecordDetails struct {
	Patient PatientSummary   `json:"patient"`
	Records []*PatientRecord `json:"records"`
}

// Service owns the only real logic in the system: the cross-store
// referential-integrity check at record creation. Everything else is a
// direct pass-through to the relational repository.
type Service struct {
	repo     RecordRepository
	patients PatientGetter
	now      func() time.Time
}

func NewService(repo RecordRepository, patients PatientGetter) *Service {
	return &Service{
		repo:     repo,
		patients: patients,
		now:      time.Now,
	}
}

// CreateRecord persists a new clinical record after verifying the referenced
// patient exists. The caller-supplied id is ignored; the store assigns one.
// The record date is normalized to UTC, defaulting to the current time when
// unset. A patient deleted between the existence check and the insert leaves
// an orphaned record; the gap is accepted rather than closed with a lock.
func (s *Service) CreateRecord(ctx context.Context, r *PatientRecord) (*PatientRecord, error) {
	if _, err := s.patients.GetByID(ctx, r.PatientID); err != nil {
		if errors.Is(err, patient.ErrNotFound) {
			return nil, &PatientNotFoundError{PatientID: r.PatientID}
		}
		return nil, fmt.Errorf("check patient %s: %w", r.PatientID, err)
	}

	r.ID = 0
	if r.RecordDate.IsZero() {
		r.RecordDate = s.now()
	}
	r.RecordDate = r.RecordDate.UTC()
	r.ClampFields()

	if err := s.repo.Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *Service) GetRecord(ctx context.Context, id int) (*PatientRecord, error) {
	return s.repo.GetByID(ctx, id)
}

// ListRecordsForPatient returns all records for the patient, most recent
// visit first. It is a pure filter over the relational store: an unknown
// patient id yields an empty slice, not an error.
func (s *Service) ListRecordsForPatient(ctx context.Context, patientID string) ([]*PatientRecord, error) {
	return s.repo.ListByPatient(ctx, patientID)
}

// UpdateRecord replaces the mutable fields of an existing record. The record
// must already exist; id and patient_id are immutable. Patient existence is
// checked at creation only, not here.
func (s *Service) UpdateRecord(ctx context.Context, r *PatientRecord) (*PatientRecord, error) {
	existing, err := s.repo.GetByID(ctx, r.ID)
	if err != nil {
		return nil, err
	}

	r.PatientID = existing.PatientID
	if r.RecordDate.IsZero() {
		r.RecordDate = existing.RecordDate
	}
	r.RecordDate = r.RecordDate.UTC()
	r.ClampFields()

	// The repository fills UpdatedAt with the persisted timestamp.
	if err := s.repo.Update(ctx, r); err != nil {
		return nil, err
	}
	r.CreatedAt = existing.CreatedAt
	return r, nil
}

// DeleteRecord removes the record by id. Deleting an absent id is not an
// error; the bool reports whether anything was removed.
func (s *Service) DeleteRecord(ctx context.Context, id int) (bool, error) {
	return s.repo.Delete(ctx, id)
}

// GetPatientRecordDetails fetches the patient and the patient's records
// independently and combines them in memory; the two stores cannot be
// joined. A missing patient yields a PatientNotFoundError even when orphaned
// records exist for the id.
func (s *Service) GetPatientRecordDetails(ctx context.Context, patientID string) (*RecordDetails, error) {
	p, err := s.patients.GetByID(ctx, patientID)
	if err != nil {
		if errors.Is(err, patient.ErrNotFound) {
			return nil, &PatientNotFoundError{PatientID: patientID}
		}
		return nil, fmt.Errorf("fetch patient %s: %w", patientID, err)
	}

	records, err := s.repo.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}

	return &RecordDetails{
		Patient: PatientSummary{
			ID:          p.ID,
			FirstName:   p.FirstName,
			LastName:    p.LastName,
			Email:       p.Email,
			PhoneNumber: p.PhoneNumber,
		},
		Records: records,
	}, nil
}
