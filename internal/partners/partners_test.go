package partners

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/rentaldesk/internal/document"
	"github.com/odyssey-erp/rentaldesk/internal/masterdata/shared"
	rootshared "github.com/odyssey-erp/rentaldesk/internal/shared"
)

// ============================================================================
// MOCKS
// ============================================================================

type memoryRepo struct {
	rows map[int64]Contract
}

func newMemoryRepo() *memoryRepo { return &memoryRepo{rows: map[int64]Contract{}} }

func (m *memoryRepo) List(context.Context, string, ListFilters) ([]Contract, int, error) {
	var out []Contract
	for _, c := range m.rows {
		out = append(out, c)
	}
	return out, len(out), nil
}

func (m *memoryRepo) Get(_ context.Context, _ string, id int64) (Contract, error) {
	c, ok := m.rows[id]
	if !ok {
		return Contract{}, shared.ErrNotFound
	}
	return c, nil
}

func (m *memoryRepo) Create(_ context.Context, _ string, c Contract) (Contract, error) {
	c.ID = int64(len(m.rows) + 1)
	c.Number = fmt.Sprintf("PC-2024-%04d", c.ID)
	m.rows[c.ID] = c
	return c, nil
}

func (m *memoryRepo) Update(_ context.Context, _ string, id int64, c Contract) (Contract, error) {
	old, ok := m.rows[id]
	if !ok {
		return Contract{}, shared.ErrNotFound
	}
	c.ID, c.Number = id, old.Number
	m.rows[id] = c
	return c, nil
}

func (m *memoryRepo) Delete(_ context.Context, _ string, id int64) error {
	if _, ok := m.rows[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *memoryRepo) ExpireOverdue(_ context.Context, today time.Time) (int64, error) {
	var n int64
	for id, c := range m.rows {
		if c.Status == StatusActive && c.EndDate.Before(today) {
			c.Status = StatusExpired
			m.rows[id] = c
			n++
		}
	}
	return n, nil
}

type recordingAuditor struct {
	actions []string
}

func (a *recordingAuditor) Record(_ context.Context, log rootshared.AuditLog) error {
	a.actions = append(a.actions, log.Action)
	return nil
}

type stubResponder struct {
	served []document.Document
}

func (s *stubResponder) Preview(w http.ResponseWriter, _ *http.Request, doc document.Document) error {
	s.served = append(s.served, doc)
	w.WriteHeader(http.StatusOK)
	return nil
}

func (s *stubResponder) PDF(w http.ResponseWriter, _ *http.Request, doc document.Document) error {
	s.served = append(s.served, doc)
	w.Header().Set("Content-Type", "application/pdf")
	w.WriteHeader(http.StatusOK)
	return nil
}

func (s *stubResponder) Merge(w http.ResponseWriter, _ *http.Request, _ document.Document) error {
	w.WriteHeader(http.StatusServiceUnavailable)
	return assert.AnError
}

func newService(repo Repository, audit Auditor) *Service {
	return NewService(Deps{
		Repo:    repo,
		Builder: document.NewBuilder(document.NewFormatter("DA")),
		Audit:   audit,
		Region:  "DZ",
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		Now:     func() time.Time { return time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC) },
	})
}

func ownerCtx() context.Context {
	return rootshared.ContextWithOwner(context.Background(), "agency-1")
}

func insurerInput() Input {
	return Input{
		PartnerName:     "Atlas Assurances",
		ContactPerson:   "Nadia Ouali",
		Phone:           "0661 22 33 44",
		PartnershipType: TypeInsurer,
		Object:          "Fleet insurance for passenger vehicles.",
		StartDate:       "2024-01-01",
		EndDate:         "2024-12-31",
		Amount:          decimal.NewFromInt(1200000),
	}
}

// ============================================================================
// SERVICE
// ============================================================================

func TestCreateNormalisesAndDefaults(t *testing.T) {
	audit := &recordingAuditor{}
	svc := newService(newMemoryRepo(), audit)

	c, err := svc.Create(ownerCtx(), insurerInput(), "")
	require.NoError(t, err)
	assert.Equal(t, "PC-2024-0001", c.Number)
	assert.Equal(t, "+213661223344", c.Phone)
	assert.Equal(t, StatusActive, c.Status)
	assert.Equal(t, []string{rootshared.ActionCreate}, audit.actions)
}

func TestCreateValidation(t *testing.T) {
	svc := newService(newMemoryRepo(), nil)
	cases := map[string]func(*Input){
		"missing name":     func(in *Input) { in.PartnerName = " " },
		"unknown type":     func(in *Input) { in.PartnershipType = "reseller" },
		"end before start": func(in *Input) { in.EndDate = "2023-12-31" },
		"negative amount":  func(in *Input) { in.Amount = decimal.NewFromInt(-5) },
		"sub-cent amount":  func(in *Input) { in.Amount = decimal.RequireFromString("1200.005") },
		"bad phone":        func(in *Input) { in.Phone = "12" },
		"unknown status":   func(in *Input) { in.Status = "archived" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := insurerInput()
			mutate(&in)
			_, err := svc.Create(ownerCtx(), in, "")
			assert.ErrorIs(t, err, shared.ErrValidation)
		})
	}
}

func TestExpireOverdue(t *testing.T) {
	repo := newMemoryRepo()
	svc := newService(repo, nil)

	ended := insurerInput()
	ended.EndDate = "2024-05-31"
	_, err := svc.Create(ownerCtx(), ended, "")
	require.NoError(t, err)

	endsToday := insurerInput()
	endsToday.EndDate = "2024-06-01"
	_, err = svc.Create(ownerCtx(), endsToday, "")
	require.NoError(t, err)

	suspended := insurerInput()
	suspended.EndDate = "2024-02-01"
	suspended.Status = StatusSuspended
	_, err = svc.Create(ownerCtx(), suspended, "")
	require.NoError(t, err)

	n, err := svc.ExpireOverdue(context.Background(), time.Date(2024, 6, 1, 23, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, StatusExpired, repo.rows[1].Status)
	assert.Equal(t, StatusActive, repo.rows[2].Status)
	assert.Equal(t, StatusSuspended, repo.rows[3].Status)
}

func TestDocumentUsesLabels(t *testing.T) {
	svc := newService(newMemoryRepo(), nil)
	in := insurerInput()
	in.SpecialConditions = "Replacement vehicle within 48 hours."
	c, err := svc.Create(ownerCtx(), in, "")
	require.NoError(t, err)

	s, err := svc.Subject(ownerCtx(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Insurer", s.PartnershipType)
	assert.Equal(t, "Active", s.Status)

	doc, err := svc.Document(ownerCtx(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, document.KindPartner, doc.Kind)
	assert.Equal(t, "partner-contract-PC-2024-0001.pdf", doc.FileName)
	_, ok := doc.Block("special-conditions")
	assert.True(t, ok)
	_, ok = doc.Block("article-6")
	assert.True(t, ok)
}

func TestTypeLabels(t *testing.T) {
	assert.Equal(t, "Corporate client", TypeCorporateClient.Label())
	assert.Equal(t, "Commercial partner", TypeCommercialPartner.Label())
	assert.Equal(t, "Subcontractor", TypeSubcontractor.Label())
	assert.Equal(t, "Completed", StatusCompleted.Label())
}

// ============================================================================
// HANDLER
// ============================================================================

func newRouter(svc *Service, docs DocumentResponder) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(rootshared.ContextWithOwner(r.Context(), "agency-1")))
		})
	})
	r.Route("/partners", NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), svc, docs).MountRoutes)
	return r
}

func TestHandlerDocumentsAreAudited(t *testing.T) {
	audit := &recordingAuditor{}
	svc := newService(newMemoryRepo(), audit)
	docs := &stubResponder{}
	router := newRouter(svc, docs)

	body := `{"partner_name":"Garage Central","partnership_type":"maintenance","object":"Servicing","start_date":"2024-01-01","end_date":"2024-06-30","amount":"90000"}`
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/partners/", strings.NewReader(body)))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.Equal(t, "/partners/1", rr.Header().Get("Location"))

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/partners/1/pdf", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, docs.served, 1)
	assert.Equal(t, "PC-2024-0001", docs.served[0].Number)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/partners/1/pdf/merge", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)

	assert.Equal(t, []string{rootshared.ActionCreate, rootshared.ActionExport}, audit.actions)
}

func TestHandlerUnknownContract(t *testing.T) {
	router := newRouter(newService(newMemoryRepo(), nil), &stubResponder{})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/partners/9/preview", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/partners/x", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
