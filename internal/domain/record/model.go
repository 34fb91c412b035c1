package record

import (
	"time"
)

// Column widths enforced both by the patient_records schema and by
// ClampFields before persistence.
const (
	MaxRecordTypeLen   = 50
	MaxDescriptionLen  = 1000
	MaxTreatmentLen    = 1000
	MaxDiagnosisLen    = 1000
	MaxPrescriptionLen = 500
	MaxNotesLen        = 2000
	MaxDentistNameLen  = 100
)

// PatientRecord maps to the patient_records table. PatientID references a
// patient in the document store; the two stores are physically separate, so
// the reference is checked by the record service at creation time rather
// than by a foreign key.
type PatientRecord struct {
	ID           int       `db:"id" json:"id"`
	PatientID    string    `db:"patient_id" json:"patient_id"`
	RecordDate   time.Time `db:"record_date" json:"record_date"`
	RecordType   string    `db:"record_type" json:"record_type"`
	Description  string    `db:"description" json:"description"`
	Treatment    string    `db:"treatment" json:"treatment"`
	Diagnosis    string    `db:"diagnosis" json:"diagnosis"`
	Prescription string    `db:"prescription" json:"prescription"`
	Notes        string    `db:"notes" json:"notes"`
	DentistName  string    `db:"dentist_name" json:"dentist_name"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// ClampFields truncates free-text fields to their column widths. Overflow is
// truncated rather than rejected so bulk inserts keep going.
func (r *PatientRecord) ClampFields() {
	r.RecordType = truncate(r.RecordType, MaxRecordTypeLen)
	r.Description = truncate(r.Description, MaxDescriptionLen)
	r.Treatment = truncate(r.Treatment, MaxTreatmentLen)
	r.Diagnosis = truncate(r.Diagnosis, MaxDiagnosisLen)
	r.Prescription = truncate(r.Prescription, MaxPrescriptionLen)
	r.Notes = truncate(r.Notes, MaxNotesLen)
	r.DentistName = truncate(r.DentistName, MaxDentistNameLen)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	// Cut on a rune boundary so a multi-byte character is never split.
	runes := []rune(s)
	for len(string(runes)) > max {
		runes = runes[:len(runes)-1]
	}
	return string(runes)
}
