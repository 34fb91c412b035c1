package patient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dentalclinic/records/internal/platform/docstore"
)

const patientBucket = "patients"

type patientRepoBolt struct {
	store *docstore.Store
}

// NewPatientRepoBolt builds a repository over the embedded document store,
// creating the patients bucket when absent.
func NewPatientRepoBolt(store *docstore.Store) (PatientRepository, error) {
	if err := store.EnsureBucket(patientBucket); err != nil {
		return nil, fmt.Errorf("ensure patient bucket: %w", err)
	}
	return &patientRepoBolt{store: store}, nil
}

func (r *patientRepoBolt) Create(_ context.Context, p *Patient) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	var existing Patient
	err := r.store.Get(patientBucket, p.ID, &existing)
	if err == nil {
		return ErrDuplicateID
	}
	if !errors.Is(err, docstore.ErrKeyNotFound) {
		return err
	}
	return r.store.Put(patientBucket, p.ID, p)
}

func (r *patientRepoBolt) GetByID(_ context.Context, id string) (*Patient, error) {
	var p Patient
	if err := r.store.Get(patientBucket, id, &p); err != nil {
		if errors.Is(err, docstore.ErrKeyNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *patientRepoBolt) GetAll(_ context.Context) ([]*Patient, error) {
	var patients []*Patient
	err := r.store.ForEach(patientBucket, func(key string, value []byte) error {
		var p Patient
		if err := json.Unmarshal(value, &p); err != nil {
			return fmt.Errorf("decode patient %s: %w", key, err)
		}
		patients = append(patients, &p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return patients, nil
}

func (r *patientRepoBolt) Search(ctx context.Context, q string) ([]*Patient, error) {
	// An id lookup wins over a name scan; ids are uuids and never collide
	// with name substrings in practice.
	if p, err := r.GetByID(ctx, q); err == nil {
		return []*Patient{p}, nil
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	all, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	matches := make([]*Patient, 0)
	for _, p := range all {
		if p.MatchesName(q) {
			matches = append(matches, p)
		}
	}
	return matches, nil
}

func (r *patientRepoBolt) Update(ctx context.Context, p *Patient) error {
	if _, err := r.GetByID(ctx, p.ID); err != nil {
		return err
	}
	return r.store.Put(patientBucket, p.ID, p)
}

func (r *patientRepoBolt) Delete(_ context.Context, id string) (bool, error) {
	return r.store.Delete(patientBucket, id)
}

func (r *patientRepoBolt) Count(_ context.Context) (int, error) {
	return r.store.Count(patientBucket)
}
