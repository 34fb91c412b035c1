package patient

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/dentalclinic/records/internal/platform/docstore"
)

func newTestRepo(t *testing.T) PatientRepository {
	t.Helper()
	store, err := docstore.Open(filepath.Join(t.TempDir(), "patients.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	repo, err := NewPatientRepoBolt(store)
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}
	return repo
}

func testPatient(first, last string) *Patient {
	return &Patient{
		FirstName:       first,
		LastName:        last,
		Email:           first + "@example.com",
		PhoneNumber:     "(555) 010-0000",
		Address:         "123 Main St",
		DateOfBirth:     time.Date(1985, 6, 12, 0, 0, 0, 0, time.UTC),
		LastAppointment: time.Now().UTC().Add(-30 * 24 * time.Hour),
		Notes:           "regular checkup",
	}
}

func TestRepo_CreateGeneratesID(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	p := testPatient("Alice", "Nguyen")
	if err := repo.Create(ctx, p); err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.ID == "" {
		t.Fatal("expected generated id")
	}

	got, err := repo.GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.FirstName != "Alice" || got.LastName != "Nguyen" {
		t.Errorf("unexpected patient: %+v", got)
	}
}

func TestRepo_CreateRejectsDuplicateID(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	p := testPatient("Alice", "Nguyen")
	if err := repo.Create(ctx, p); err != nil {
		t.Fatalf("create: %v", err)
	}

	dup := testPatient("Bob", "Nguyen")
	dup.ID = p.ID
	if err := repo.Create(ctx, dup); !errors.Is(err, ErrDuplicateID) {
		t.Errorf("expected ErrDuplicateID, got %v", err)
	}
}

func TestRepo_GetMissing(t *testing.T) {
	repo := newTestRepo(t)
	if _, err := repo.GetByID(context.Background(), "no-such-id"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRepo_SearchByID(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	p := testPatient("Alice", "Nguyen")
	repo.Create(ctx, p)
	repo.Create(ctx, testPatient("Bob", "Smith"))

	results, err := repo.Search(ctx, p.ID)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 1 || results[0].ID != p.ID {
		t.Errorf("expected exactly the patient with id %s, got %v", p.ID, results)
	}
}

func TestRepo_SearchByNameSubstring(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	repo.Create(ctx, testPatient("Alice", "Nguyen"))
	repo.Create(ctx, testPatient("Alicia", "Smith"))
	repo.Create(ctx, testPatient("Bob", "Jones"))

	results, err := repo.Search(ctx, "aLiC")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("expected 2 case-insensitive matches, got %d", len(results))
	}
}

func TestRepo_SearchFullName(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	repo.Create(ctx, testPatient("Alice", "Nguyen"))

	// Substring spanning the first/last name boundary only matches via the
	// concatenated full name.
	results, err := repo.Search(ctx, "ce Ngu")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("expected full-name match, got %d results", len(results))
	}
}

func TestRepo_SearchNoMatches(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	repo.Create(ctx, testPatient("Alice", "Nguyen"))

	results, err := repo.Search(ctx, "zzz")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected empty result, got %d", len(results))
	}
}

func TestRepo_Update(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	p := testPatient("Alice", "Nguyen")
	repo.Create(ctx, p)

	p.Notes = "sensitive to cold"
	if err := repo.Update(ctx, p); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ := repo.GetByID(ctx, p.ID)
	if got.Notes != "sensitive to cold" {
		t.Errorf("expected updated notes, got %q", got.Notes)
	}
}

func TestRepo_UpdateMissing(t *testing.T) {
	repo := newTestRepo(t)
	p := testPatient("Alice", "Nguyen")
	p.ID = "no-such-id"
	if err := repo.Update(context.Background(), p); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRepo_DeleteAndCount(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	p := testPatient("Alice", "Nguyen")
	repo.Create(ctx, p)

	if n, _ := repo.Count(ctx); n != 1 {
		t.Fatalf("expected count 1, got %d", n)
	}

	found, err := repo.Delete(ctx, p.ID)
	if err != nil || !found {
		t.Fatalf("expected delete to find patient, found=%v err=%v", found, err)
	}

	found, err = repo.Delete(ctx, p.ID)
	if err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if found {
		t.Error("expected found=false on second delete")
	}
	if n, _ := repo.Count(ctx); n != 0 {
		t.Errorf("expected count 0, got %d", n)
	}
}
