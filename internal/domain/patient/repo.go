package patient

import (
	"context"
	"errors"
)

// ErrNotFound signals that no patient exists under the requested id.
var ErrNotFound = errors.New("patient not found")

// ErrDuplicateID signals a create targeting an id that is already taken.
var ErrDuplicateID = errors.New("patient id already exists")

type PatientRepository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id string) (*Patient, error)
	GetAll(ctx context.Context) ([]*Patient, error)
	// Search matches an exact id or a case-insensitive name substring.
	Search(ctx context.Context, q string) ([]*Patient, error)
	Update(ctx context.Context, p *Patient) error
	Delete(ctx context.Context, id string) (bool, error)
	Count(ctx context.Context) (int, error)
}
