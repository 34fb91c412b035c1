package record

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type recordRepoPG struct {
	pool *pgxpool.Pool
}

func NewRecordRepoPG(pool *pgxpool.Pool) RecordRepository {
	return &recordRepoPG{pool: pool}
}

const recCols = `id, patient_id, record_date, record_type, description,
	treatment, diagnosis, prescription, notes, dentist_name,
	created_at, updated_at`

func (r *recordRepoPG) scanRow(row pgx.Row) (*PatientRecord, error) {
	var rec PatientRecord
	err := row.Scan(&rec.ID, &rec.PatientID, &rec.RecordDate, &rec.RecordType,
		&rec.Description, &rec.Treatment, &rec.Diagnosis, &rec.Prescription,
		&rec.Notes, &rec.DentistName, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, err
	}
	// pgx returns TIMESTAMPTZ in the session zone; the canonical form is UTC.
	rec.RecordDate = rec.RecordDate.UTC()
	return &rec, nil
}

const insertRecordSQL = `
	INSERT INTO patient_records (patient_id, record_date, record_type,
		description, treatment, diagnosis, prescription, notes, dentist_name)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	RETURNING id, created_at, updated_at`

func (r *recordRepoPG) Create(ctx context.Context, rec *PatientRecord) error {
	err := r.pool.QueryRow(ctx, insertRecordSQL,
		rec.PatientID, rec.RecordDate, rec.RecordType, rec.Description,
		rec.Treatment, rec.Diagnosis, rec.Prescription, rec.Notes,
		rec.DentistName,
	).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert record: %w", err)
	}
	return nil
}

func (r *recordRepoPG) CreateBatch(ctx context.Context, records []*PatientRecord) error {
	if len(records) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, rec := range records {
		batch.Queue(insertRecordSQL,
			rec.PatientID, rec.RecordDate, rec.RecordType, rec.Description,
			rec.Treatment, rec.Diagnosis, rec.Prescription, rec.Notes,
			rec.DentistName)
	}
	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()
	for _, rec := range records {
		if err := results.QueryRow().Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return fmt.Errorf("batch insert record: %w", err)
		}
	}
	return nil
}

func (r *recordRepoPG) GetByID(ctx context.Context, id int) (*PatientRecord, error) {
	rec, err := r.scanRow(r.pool.QueryRow(ctx,
		`SELECT `+recCols+` FROM patient_records WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get record %d: %w", id, err)
	}
	return rec, nil
}

func (r *recordRepoPG) ListByPatient(ctx context.Context, patientID string) ([]*PatientRecord, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+recCols+` FROM patient_records
		 WHERE patient_id = $1 ORDER BY record_date DESC`, patientID)
	if err != nil {
		return nil, fmt.Errorf("list records for patient %s: %w", patientID, err)
	}
	defer rows.Close()

	records := make([]*PatientRecord, 0)
	for rows.Next() {
		rec, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *recordRepoPG) Update(ctx context.Context, rec *PatientRecord) error {
	// updated_at is assigned by the store; scan it back so callers return
	// the timestamp that was actually persisted.
	err := r.pool.QueryRow(ctx, `
		UPDATE patient_records SET record_date=$2, record_type=$3,
			description=$4, treatment=$5, diagnosis=$6, prescription=$7,
			notes=$8, dentist_name=$9, updated_at=NOW()
		WHERE id = $1
		RETURNING updated_at`,
		rec.ID, rec.RecordDate, rec.RecordType, rec.Description,
		rec.Treatment, rec.Diagnosis, rec.Prescription, rec.Notes,
		rec.DentistName).Scan(&rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("update record %d: %w", rec.ID, err)
	}
	return nil
}

func (r *recordRepoPG) Delete(ctx context.Context, id int) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM patient_records WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete record %d: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *recordRepoPG) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM patient_records`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return n, nil
}
