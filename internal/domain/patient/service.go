package patient

import (
	"context"
)

// Service exposes patient CRUD over the document store. Patient operations
// bypass the record service entirely; the only cross-store behavior (the
// reference check at record creation) lives on the record side.
type Service struct {
	repo PatientRepository
}

func NewService(repo PatientRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreatePatient(ctx context.Context, p *Patient) error {
	return s.repo.Create(ctx, p)
}

func (s *Service) GetPatient(ctx context.Context, id string) (*Patient, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetAllPatients(ctx context.Context) ([]*Patient, error) {
	return s.repo.GetAll(ctx)
}

func (s *Service) SearchPatients(ctx context.Context, q string) ([]*Patient, error) {
	return s.repo.Search(ctx, q)
}

func (s *Service) UpdatePatient(ctx context.Context, p *Patient) error {
	return s.repo.Update(ctx, p)
}

// DeletePatient removes the patient by id. Existing records referencing the
// patient are left untouched; the resulting orphans are an accepted
// inconsistency.
func (s *Service) DeletePatient(ctx context.Context, id string) (bool, error) {
	return s.repo.Delete(ctx, id)
}
