package record

import (
	"context"
	"errors"
)

// ErrNotFound signals that no record exists under the requested id.
var ErrNotFound = errors.New("record not found")

type RecordRepository interface {
	// Create inserts the record and fills its store-assigned id and
	// timestamps.
	Create(ctx context.Context, r *PatientRecord) error
	// CreateBatch inserts all records in one round trip; it fails as a unit.
	CreateBatch(ctx context.Context, records []*PatientRecord) error
	GetByID(ctx context.Context, id int) (*PatientRecord, error)
	// ListByPatient returns the patient's records ordered by record_date
	// descending. It does not check that the patient exists.
	ListByPatient(ctx context.Context, patientID string) ([]*PatientRecord, error)
	Update(ctx context.Context, r *PatientRecord) error
	Delete(ctx context.Context, id int) (bool, error)
	Count(ctx context.Context) (int, error)
}
