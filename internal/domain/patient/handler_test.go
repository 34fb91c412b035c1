package patient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// =========== Mock Repository ===========

type mockPatientRepo struct {
	store map[string]*Patient
}

func newMockPatientRepo() *mockPatientRepo {
	return &mockPatientRepo{store: make(map[string]*Patient)}
}

func (m *mockPatientRepo) Create(_ context.Context, p *Patient) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if _, ok := m.store[p.ID]; ok {
		return ErrDuplicateID
	}
	m.store[p.ID] = p
	return nil
}

func (m *mockPatientRepo) GetByID(_ context.Context, id string) (*Patient, error) {
	p, ok := m.store[id]
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}

func (m *mockPatientRepo) GetAll(_ context.Context) ([]*Patient, error) {
	var result []*Patient
	for _, p := range m.store {
		result = append(result, p)
	}
	return result, nil
}

func (m *mockPatientRepo) Search(_ context.Context, q string) ([]*Patient, error) {
	if p, ok := m.store[q]; ok {
		return []*Patient{p}, nil
	}
	result := make([]*Patient, 0)
	for _, p := range m.store {
		if p.MatchesName(q) {
			result = append(result, p)
		}
	}
	return result, nil
}

func (m *mockPatientRepo) Update(_ context.Context, p *Patient) error {
	if _, ok := m.store[p.ID]; !ok {
		return ErrNotFound
	}
	m.store[p.ID] = p
	return nil
}

func (m *mockPatientRepo) Delete(_ context.Context, id string) (bool, error) {
	if _, ok := m.store[id]; !ok {
		return false, nil
	}
	delete(m.store, id)
	return true, nil
}

func (m *mockPatientRepo) Count(_ context.Context) (int, error) {
	return len(m.store), nil
}

func newTestHandler() (*Handler, *mockPatientRepo, *echo.Echo) {
	repo := newMockPatientRepo()
	h := NewHandler(NewService(repo))
	return h, repo, echo.New()
}

// =========== Tests ===========

func TestHandler_CreatePatient(t *testing.T) {
	h, _, e := newTestHandler()
	body := `{"first_name":"Alice","last_name":"Nguyen","email":"alice@example.com"}`
	req := httptest.NewRequest(http.MethodPost, "/patients", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.CreatePatient(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}
	if rec.Header().Get("Location") == "" {
		t.Error("expected Location header")
	}

	var created Patient
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if created.ID == "" {
		t.Error("expected generated id in response")
	}
}

func TestHandler_GetPatient_NotFound(t *testing.T) {
	h, _, e := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(uuid.New().String())

	err := h.GetPatient(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusNotFound {
		t.Errorf("expected 404 HTTPError, got %v", err)
	}
}

func TestHandler_SearchPatients_MissingQuery(t *testing.T) {
	h, _, e := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/patients/search", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.SearchPatients(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Errorf("expected 400 HTTPError, got %v", err)
	}
}

func TestHandler_SearchPatients(t *testing.T) {
	h, repo, e := newTestHandler()
	repo.Create(context.Background(), &Patient{FirstName: "Alice", LastName: "Nguyen"})
	repo.Create(context.Background(), &Patient{FirstName: "Bob", LastName: "Smith"})

	req := httptest.NewRequest(http.MethodGet, "/patients/search?q=ali", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.SearchPatients(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var results []*Patient
	if err := json.Unmarshal(rec.Body.Bytes(), &results); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(results) != 1 || results[0].FirstName != "Alice" {
		t.Errorf("expected single Alice match, got %v", results)
	}
}

func TestHandler_UpdatePatient_IDMismatch(t *testing.T) {
	h, repo, e := newTestHandler()
	p := &Patient{FirstName: "Alice", LastName: "Nguyen"}
	repo.Create(context.Background(), p)

	body := `{"id":"` + uuid.New().String() + `","first_name":"Alice"}`
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(p.ID)

	err := h.UpdatePatient(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Errorf("expected 400 HTTPError, got %v", err)
	}
}

func TestHandler_UpdatePatient(t *testing.T) {
	h, repo, e := newTestHandler()
	p := &Patient{FirstName: "Alice", LastName: "Nguyen"}
	repo.Create(context.Background(), p)

	body := `{"first_name":"Alice","last_name":"Tran"}`
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(p.ID)

	if err := h.UpdatePatient(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	got, _ := repo.GetByID(context.Background(), p.ID)
	if got.LastName != "Tran" {
		t.Errorf("expected updated last name, got %q", got.LastName)
	}
}

func TestHandler_DeletePatient(t *testing.T) {
	h, repo, e := newTestHandler()
	p := &Patient{FirstName: "Alice", LastName: "Nguyen"}
	repo.Create(context.Background(), p)

	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(p.ID)

	if err := h.DeletePatient(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
}

func TestHandler_DeletePatient_NotFound(t *testing.T) {
	h, _, e := newTestHandler()
	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(uuid.New().String())

	err := h.DeletePatient(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusNotFound {
		t.Errorf("expected 404 HTTPError, got %v", err)
	}
}
