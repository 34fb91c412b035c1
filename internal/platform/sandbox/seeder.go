// Package sandbox provides synthetic sample-data generation for first
// startup against empty stores. It produces reproducible, plausible dental
// patients and visit records suitable for developer on-boarding and demos.
package sandbox

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dentalclinic/records/internal/domain/patient"
	"github.com/dentalclinic/records/internal/domain/record"
)

// ---------------------------------------------------------------------------
// Configuration
// ---------------------------------------------------------------------------

// SeedConfig controls the volume and shape of generated synthetic data.
type SeedConfig struct {
	PatientCount         int   `json:"patientCount"`
	MinRecordsPerPatient int   `json:"minRecordsPerPatient"`
	MaxRecordsPerPatient int   `json:"maxRecordsPerPatient"`
	RecordBatchSize      int   `json:"recordBatchSize"`
	Seed                 int64 `json:"seed"`
}

// DefaultSeedConfig returns a SeedConfig with the stock bootstrap volumes.
func DefaultSeedConfig() SeedConfig {
	return SeedConfig{
		PatientCount:         50,
		MinRecordsPerPatient: 1,
		MaxRecordsPerPatient: 3,
		RecordBatchSize:      10,
	}
}

// SeedResult summarizes the output of a seed run.
type SeedResult struct {
	PatientsCreated int           `json:"patients_created"`
	PatientsSkipped bool          `json:"patients_skipped"`
	RecordsCreated  int           `json:"records_created"`
	RecordsFailed   int           `json:"records_failed"`
	RecordsSkipped  bool          `json:"records_skipped"`
	Duration        time.Duration `json:"duration"`
}

// ---------------------------------------------------------------------------
// Vocabulary pools
// ---------------------------------------------------------------------------

var (
	firstNames = []string{
		"James", "Mary", "Robert", "Patricia", "John", "Jennifer", "Michael",
		"Linda", "David", "Elizabeth", "William", "Barbara", "Richard",
		"Susan", "Joseph", "Jessica", "Thomas", "Sarah", "Christopher",
		"Karen", "Daniel", "Lisa", "Matthew", "Nancy", "Anthony", "Betty",
		"Mark", "Sandra", "Steven", "Ashley", "Andrew", "Emily", "Joshua",
		"Kimberly", "Kevin", "Donna", "Brian", "Michelle", "George", "Carol",
	}
	lastNames = []string{
		"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia",
		"Miller", "Davis", "Rodriguez", "Martinez", "Hernandez", "Lopez",
		"Gonzalez", "Wilson", "Anderson", "Thomas", "Taylor", "Moore",
		"Jackson", "Martin", "Lee", "Perez", "Thompson", "White", "Harris",
		"Nguyen", "Clark", "Ramirez", "Lewis", "Robinson",
	}
	streets = []string{
		"123 Main St", "456 Oak Ave", "789 Elm St", "321 Pine Rd",
		"654 Maple Dr", "987 Cedar Ln", "147 Birch Blvd", "258 Walnut Way",
		"369 Cherry Ct", "741 Spruce Pl",
	}
	cities = []string{
		"New York", "Los Angeles", "Chicago", "Houston", "Phoenix",
		"Philadelphia", "San Antonio", "San Diego", "Dallas", "Austin",
	}
	patientNotes = []string{
		"Prefers morning appointments",
		"Anxious patient, needs extra time",
		"Allergic to latex",
		"Sensitive teeth, use gentle cleaning",
		"Prefers text message reminders",
		"No known allergies",
	}

	recordTypes = []string{
		"Checkup", "Cleaning", "Filling", "Root Canal", "Extraction",
		"Crown", "Whitening", "Orthodontic Adjustment",
	}
	dentistNames = []string{
		"Dr. Sarah Chen", "Dr. Miguel Alvarez", "Dr. Priya Patel",
		"Dr. James Okafor", "Dr. Emily Larsen",
	}
	treatments = []string{
		"Routine scale and polish",
		"Composite filling, single surface",
		"Fluoride varnish application",
		"Root canal therapy, first stage",
		"Simple extraction under local anesthetic",
		"Crown preparation and temporary fit",
	}
	prescriptions = []string{
		"Amoxicillin 500mg, 3x daily for 7 days",
		"Ibuprofen 400mg as needed for pain",
		"Chlorhexidine mouthwash, 2x daily",
		"None",
	}
	// Diagnosis phrasing cycles by record index so dumps read naturally
	// instead of repeating one fixed sentence.
	diagnosisPhrasings = []string{
		"Mild gingivitis, localized to lower anterior region",
		"Early enamel caries on occlusal surface",
		"Healthy dentition, no active disease",
	}
)

// ---------------------------------------------------------------------------
// DataGenerator
// ---------------------------------------------------------------------------

// DataGenerator produces deterministic synthetic patients and records.
type DataGenerator struct {
	rng *rand.Rand
	now time.Time
}

// NewDataGenerator returns a generator seeded for reproducibility. If seed is
// 0 a time-based seed is chosen.
func NewDataGenerator(seed int64) *DataGenerator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &DataGenerator{
		rng: rand.New(rand.NewSource(seed)),
		now: time.Now().UTC(),
	}
}

func (g *DataGenerator) pick(pool []string) string {
	return pool[g.rng.Intn(len(pool))]
}

func (g *DataGenerator) randomPhone() string {
	return fmt.Sprintf("(%03d) %03d-%04d",
		200+g.rng.Intn(800),
		200+g.rng.Intn(800),
		g.rng.Intn(10000),
	)
}

// randomBirthDate yields a date of birth for an 18 to 90 year old.
func (g *DataGenerator) randomBirthDate() time.Time {
	age := 18 + g.rng.Intn(73)
	return g.now.AddDate(-age, 0, -g.rng.Intn(365))
}

// GeneratePatient produces a synthetic patient with a fresh identifier.
func (g *DataGenerator) GeneratePatient() *patient.Patient {
	first := g.pick(firstNames)
	last := g.pick(lastNames)

	p := &patient.Patient{
		ID:              uuid.New().String(),
		FirstName:       first,
		LastName:        last,
		Email:           fmt.Sprintf("%s.%s%d@example.com", first, last, g.rng.Intn(100)),
		PhoneNumber:     g.randomPhone(),
		Address:         fmt.Sprintf("%s, %s", g.pick(streets), g.pick(cities)),
		DateOfBirth:     g.randomBirthDate(),
		LastAppointment: g.now.AddDate(0, 0, -(1 + g.rng.Intn(365))),
		Notes:           g.pick(patientNotes),
	}
	// Roughly half the patients have a future appointment on the books.
	if g.rng.Intn(2) == 0 {
		next := g.now.AddDate(0, 0, 1+g.rng.Intn(90))
		p.NextAppointment = &next
	}
	return p
}

// GenerateRecord produces a synthetic visit record for the patient. idx
// selects the diagnosis phrasing (idx modulo 3).
func (g *DataGenerator) GenerateRecord(patientID string, idx int) *record.PatientRecord {
	daysBack := 1 + g.rng.Intn(3*365)
	visit := g.now.AddDate(0, 0, -daysBack)

	r := &record.PatientRecord{
		PatientID:    patientID,
		RecordDate:   visit,
		RecordType:   g.pick(recordTypes),
		Description:  fmt.Sprintf("%s visit on %s", g.pick(recordTypes), visit.Format("2006-01-02")),
		Treatment:    g.pick(treatments),
		Diagnosis:    diagnosisPhrasings[idx%len(diagnosisPhrasings)],
		Prescription: g.pick(prescriptions),
		Notes:        "Patient tolerated procedure well",
		DentistName:  g.pick(dentistNames),
	}
	r.ClampFields()
	return r
}

// ---------------------------------------------------------------------------
// Seeder — orchestrates the bootstrap
// ---------------------------------------------------------------------------

// PatientStore is the slice of the patient repository the seeder needs.
type PatientStore interface {
	Create(ctx context.Context, p *patient.Patient) error
	GetAll(ctx context.Context) ([]*patient.Patient, error)
	Count(ctx context.Context) (int, error)
}

// RecordStore is the slice of the record repository the seeder needs.
type RecordStore interface {
	Create(ctx context.Context, r *record.PatientRecord) error
	CreateBatch(ctx context.Context, records []*record.PatientRecord) error
	Count(ctx context.Context) (int, error)
}

// Seeder populates empty stores with synthetic data. Each store is gated by
// its own emptiness check, so a half-seeded deployment never gets a partial
// merge on restart.
type Seeder struct {
	generator *DataGenerator
	config    SeedConfig
	patients  PatientStore
	records   RecordStore
	logger    zerolog.Logger
}

// NewSeeder creates a Seeder over the two stores.
func NewSeeder(config SeedConfig, patients PatientStore, records RecordStore, logger zerolog.Logger) *Seeder {
	return &Seeder{
		generator: NewDataGenerator(config.Seed),
		config:    config,
		patients:  patients,
		records:   records,
		logger:    logger,
	}
}

// Run executes the bootstrap. Individual insert failures are logged and
// counted, never propagated; the returned error covers only store access
// failures that make seeding impossible to attempt.
func (s *Seeder) Run(ctx context.Context) (*SeedResult, error) {
	start := time.Now()
	result := &SeedResult{}

	if err := s.seedPatients(ctx, result); err != nil {
		return result, err
	}
	if err := s.seedRecords(ctx, result); err != nil {
		return result, err
	}

	result.Duration = time.Since(start)
	s.logger.Info().
		Int("patients_created", result.PatientsCreated).
		Int("records_created", result.RecordsCreated).
		Int("records_failed", result.RecordsFailed).
		Dur("duration", result.Duration).
		Msg("sample-data bootstrap finished")
	return result, nil
}

func (s *Seeder) seedPatients(ctx context.Context, result *SeedResult) error {
	count, err := s.patients.Count(ctx)
	if err != nil {
		return fmt.Errorf("count patients: %w", err)
	}
	if count > 0 {
		result.PatientsSkipped = true
		s.logger.Info().Int("existing", count).Msg("patient store not empty, skipping patient bootstrap")
		return nil
	}

	for i := 0; i < s.config.PatientCount; i++ {
		p := s.generator.GeneratePatient()
		if err := s.patients.Create(ctx, p); err != nil {
			s.logger.Warn().Err(err).Str("patient_id", p.ID).Msg("seed patient insert failed")
			continue
		}
		result.PatientsCreated++
	}
	return nil
}

func (s *Seeder) seedRecords(ctx context.Context, result *SeedResult) error {
	count, err := s.records.Count(ctx)
	if err != nil {
		return fmt.Errorf("count records: %w", err)
	}
	if count > 0 {
		result.RecordsSkipped = true
		s.logger.Info().Int("existing", count).Msg("record store not empty, skipping record bootstrap")
		return nil
	}

	// Records reference patients, so read them back from the document store
	// rather than trusting the patient pass above succeeded.
	patients, err := s.patients.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("load patients for record bootstrap: %w", err)
	}

	spread := s.config.MaxRecordsPerPatient - s.config.MinRecordsPerPatient + 1
	batch := make([]*record.PatientRecord, 0, s.config.RecordBatchSize)
	idx := 0
	for _, p := range patients {
		n := s.config.MinRecordsPerPatient + s.generator.rng.Intn(spread)
		for j := 0; j < n; j++ {
			batch = append(batch, s.generator.GenerateRecord(p.ID, idx))
			idx++
			if len(batch) >= s.config.RecordBatchSize {
				s.flushBatch(ctx, batch, result)
				batch = batch[:0]
			}
		}
	}
	if len(batch) > 0 {
		s.flushBatch(ctx, batch, result)
	}
	return nil
}

// flushBatch inserts the batch in one shot, falling back to per-record
// inserts when the batch fails so one bad record cannot sink its peers.
func (s *Seeder) flushBatch(ctx context.Context, batch []*record.PatientRecord, result *SeedResult) {
	err := s.records.CreateBatch(ctx, batch)
	if err == nil {
		result.RecordsCreated += len(batch)
		return
	}
	s.logger.Warn().Err(err).Int("size", len(batch)).Msg("batch insert failed, retrying records individually")

	for _, r := range batch {
		if err := s.records.Create(ctx, r); err != nil {
			result.RecordsFailed++
			s.logger.Warn().Err(err).Str("patient_id", r.PatientID).Msg("seed record insert failed")
			continue
		}
		result.RecordsCreated++
	}
}
