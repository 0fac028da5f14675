package rentals

import (
	"context"
	"encoding/json"
	"errors"
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
	"github.com/odyssey-erp/rentaldesk/internal/document/render"
	"github.com/odyssey-erp/rentaldesk/internal/masterdata/clients"
	"github.com/odyssey-erp/rentaldesk/internal/masterdata/drivers"
	"github.com/odyssey-erp/rentaldesk/internal/masterdata/shared"
	"github.com/odyssey-erp/rentaldesk/internal/masterdata/vehicles"
	"github.com/odyssey-erp/rentaldesk/internal/pricing"
	rootshared "github.com/odyssey-erp/rentaldesk/internal/shared"
	"github.com/odyssey-erp/rentaldesk/report"
)

// ============================================================================
// MOCKS
// ============================================================================

type memoryRepo struct {
	rows    map[int64]Contract
	failNew error
}

func newMemoryRepo() *memoryRepo { return &memoryRepo{rows: map[int64]Contract{}} }

func (m *memoryRepo) List(context.Context, string, ListFilters) ([]Summary, int, error) {
	var out []Summary
	for _, c := range m.rows {
		out = append(out, Summary{Contract: c})
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
	if m.failNew != nil {
		return Contract{}, m.failNew
	}
	c.ID = int64(len(m.rows) + 1)
	c.Number = fmt.Sprintf("CT-2024-%04d", c.ID)
	m.rows[c.ID] = c
	return c, nil
}

func (m *memoryRepo) Update(_ context.Context, _ string, id int64, c Contract) (Contract, error) {
	old, ok := m.rows[id]
	if !ok {
		return Contract{}, shared.ErrNotFound
	}
	c.ID, c.Number, c.CreatedAt = id, old.Number, old.CreatedAt
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

type vehicleLookup map[int64]vehicles.Vehicle

func (l vehicleLookup) Get(_ context.Context, id int64) (vehicles.Vehicle, error) {
	v, ok := l[id]
	if !ok {
		return vehicles.Vehicle{}, shared.ErrNotFound
	}
	return v, nil
}

type clientLookup map[int64]clients.Client

func (l clientLookup) Get(_ context.Context, id int64) (clients.Client, error) {
	c, ok := l[id]
	if !ok {
		return clients.Client{}, shared.ErrNotFound
	}
	return c, nil
}

type driverLookup map[int64]drivers.Driver

func (l driverLookup) Get(_ context.Context, id int64) (drivers.Driver, error) {
	d, ok := l[id]
	if !ok {
		return drivers.Driver{}, shared.ErrNotFound
	}
	return d, nil
}

type recordingAuditor struct {
	actions []string
}

func (a *recordingAuditor) Record(_ context.Context, log rootshared.AuditLog) error {
	a.actions = append(a.actions, log.Action)
	return nil
}

type memoryIdempotency struct {
	keys map[string]bool
}

func (m *memoryIdempotency) CheckAndInsert(_ context.Context, owner, key, module string) error {
	k := owner + "|" + key + "|" + module
	if m.keys[k] {
		return rootshared.ErrIdempotencyConflict
	}
	m.keys[k] = true
	return nil
}

func (m *memoryIdempotency) Delete(_ context.Context, owner, key, module string) error {
	delete(m.keys, owner+"|"+key+"|"+module)
	return nil
}

type fakeConverter struct{}

func (fakeConverter) ConvertHTML(context.Context, string, report.PageOptions) ([]byte, error) {
	return []byte("%PDF-1.7 contract"), nil
}

func (fakeConverter) Merge(context.Context, ...report.File) ([]byte, error) {
	return []byte("%PDF-1.7 merged"), nil
}

// ============================================================================
// FIXTURES
// ============================================================================

type fixture struct {
	svc   *Service
	repo  *memoryRepo
	audit *recordingAuditor
	idem  *memoryIdempotency
}

func newFixture() fixture {
	repo := newMemoryRepo()
	audit := &recordingAuditor{}
	idem := &memoryIdempotency{keys: map[string]bool{}}
	svc := NewService(Deps{
		Repo:        repo,
		Vehicles:    vehicleLookup{1: {ID: 1, Make: "Renault", Model: "Clio", Plate: "12345-122-16", DailyRate: decimal.NewFromInt(6500)}},
		Clients:     clientLookup{1: {ID: 1, FirstName: "Amine", LastName: "Benali", Phone: "+213550123456"}},
		Drivers:     driverLookup{1: {ID: 1, FirstName: "Karim", LastName: "Saidi", LicenseNumber: "B-5512"}},
		Builder:     document.NewBuilder(document.NewFormatter("DA")),
		Audit:       audit,
		Idempotency: idem,
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		Now:         func() time.Time { return time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC) },
	})
	return fixture{svc: svc, repo: repo, audit: audit, idem: idem}
}

func ownerCtx() context.Context {
	return rootshared.ContextWithOwner(context.Background(), "agency-1")
}

func baseInput() Input {
	return Input{
		ClientID:      1,
		VehicleID:     1,
		StartDate:     "2024-06-06",
		EndDate:       "2024-06-13",
		PickupTime:    "09:00",
		DiscountKind:  "percentage",
		DiscountValue: decimal.NewFromInt(10),
		Deposit:       decimal.NewFromInt(50000),
	}
}

// ============================================================================
// SERVICE
// ============================================================================

// storedCopy mimics NUMERIC(14,2) columns on the way into Postgres.
func storedCopy(c Contract) Contract {
	c.DailyRate = c.DailyRate.Round(pricing.MoneyPlaces)
	c.DiscountValue = c.DiscountValue.Round(pricing.MoneyPlaces)
	c.Subtotal = c.Subtotal.Round(pricing.MoneyPlaces)
	c.DiscountAmount = c.DiscountAmount.Round(pricing.MoneyPlaces)
	c.Total = c.Total.Round(pricing.MoneyPlaces)
	c.Deposit = c.Deposit.Round(pricing.MoneyPlaces)
	return c
}

func TestCreateRejectsSubCentAmounts(t *testing.T) {
	f := newFixture()
	cases := map[string]func(*Input){
		"daily rate": func(in *Input) { r := decimal.RequireFromString("100.005"); in.DailyRate = &r },
		"discount":   func(in *Input) { in.DiscountKind, in.DiscountValue = "fixed", decimal.RequireFromString("10.001") },
		"deposit":    func(in *Input) { in.Deposit = decimal.RequireFromString("0.125") },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := baseInput()
			mutate(&in)
			_, err := f.svc.Create(ownerCtx(), in, "")
			assert.ErrorIs(t, err, shared.ErrValidation)
		})
	}

	rate := decimal.RequireFromString("100.005")
	_, err := f.svc.Quote(ownerCtx(), QuoteInput{StartDate: "2024-06-06", EndDate: "2024-06-13", DailyRate: &rate})
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestStoredPricingRecomputes(t *testing.T) {
	f := newFixture()
	in := baseInput()
	rate := decimal.RequireFromString("333.33")
	in.DailyRate = &rate
	in.DiscountValue = decimal.RequireFromString("12.5")

	c, err := f.svc.Create(ownerCtx(), in, "")
	require.NoError(t, err)

	stored := storedCopy(c)
	assert.True(t, stored.Subtotal.Equal(c.Subtotal), c.Subtotal.String())
	assert.True(t, stored.DiscountAmount.Equal(c.DiscountAmount), c.DiscountAmount.String())
	assert.True(t, stored.Total.Equal(c.Total), c.Total.String())

	again := pricing.Quote(stored.PricingInput())
	assert.Equal(t, stored.Days, again.Days)
	assert.True(t, again.Subtotal.Equal(stored.Subtotal))
	assert.True(t, again.Discount.Equal(stored.DiscountAmount))
	assert.True(t, again.Total.Equal(stored.Total))
}

func TestCreateComputesPricingFromVehicleSnapshot(t *testing.T) {
	f := newFixture()

	c, err := f.svc.Create(ownerCtx(), baseInput(), "")
	require.NoError(t, err)

	assert.Equal(t, 7, c.Days)
	assert.True(t, c.DailyRate.Equal(decimal.NewFromInt(6500)))
	assert.True(t, c.Subtotal.Equal(decimal.NewFromInt(45500)))
	assert.True(t, c.DiscountAmount.Equal(decimal.NewFromInt(4550)))
	assert.True(t, c.Total.Equal(decimal.NewFromInt(40950)))
	assert.Equal(t, StatusActive, c.Status)
	assert.Equal(t, []string{rootshared.ActionCreate}, f.audit.actions)

	again := pricing.Quote(c.PricingInput())
	assert.Equal(t, c.Days, again.Days)
	assert.True(t, c.Subtotal.Equal(again.Subtotal))
	assert.True(t, c.Total.Equal(again.Total))
}

func TestCreateFixedDiscountAboveSubtotalFloorsTotal(t *testing.T) {
	f := newFixture()
	in := baseInput()
	in.DiscountKind = "montant"
	in.DiscountValue = decimal.NewFromInt(100000)

	c, err := f.svc.Create(ownerCtx(), in, "")
	require.NoError(t, err)
	assert.Equal(t, pricing.DiscountFixed, c.DiscountKind)
	assert.True(t, c.DiscountAmount.Equal(decimal.NewFromInt(100000)))
	assert.True(t, c.Total.IsZero())
}

func TestCreateValidation(t *testing.T) {
	f := newFixture()
	cases := map[string]func(*Input){
		"end before start":    func(in *Input) { in.EndDate = "2024-06-01" },
		"bad date":            func(in *Input) { in.StartDate = "06/06/2024" },
		"bad time":            func(in *Input) { in.PickupTime = "9h" },
		"unknown discount":    func(in *Input) { in.DiscountKind = "loyalty" },
		"percentage over 100": func(in *Input) { in.DiscountValue = decimal.NewFromInt(120) },
		"driver missing":      func(in *Input) { in.WithDriver = true },
		"unknown client":      func(in *Input) { in.ClientID = 9 },
		"unknown vehicle":     func(in *Input) { in.VehicleID = 9 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := baseInput()
			mutate(&in)
			_, err := f.svc.Create(ownerCtx(), in, "")
			assert.ErrorIs(t, err, shared.ErrValidation)
		})
	}
	assert.Empty(t, f.repo.rows)
}

func TestCreateSameDayRentalHasZeroDays(t *testing.T) {
	f := newFixture()
	in := baseInput()
	in.EndDate = in.StartDate

	c, err := f.svc.Create(ownerCtx(), in, "")
	require.NoError(t, err)
	assert.Equal(t, 0, c.Days)
	assert.True(t, c.Total.IsZero())
}

func TestCreateDropsDriverWithoutChauffeur(t *testing.T) {
	f := newFixture()
	in := baseInput()
	driverID := int64(1)
	in.DriverID = &driverID

	c, err := f.svc.Create(ownerCtx(), in, "")
	require.NoError(t, err)
	assert.Nil(t, c.DriverID)

	in.WithDriver = true
	c, err = f.svc.Create(ownerCtx(), in, "")
	require.NoError(t, err)
	require.NotNil(t, c.DriverID)
}

func TestCreateIdempotency(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Create(ownerCtx(), baseInput(), "key-1")
	require.NoError(t, err)

	_, err = f.svc.Create(ownerCtx(), baseInput(), "key-1")
	assert.ErrorIs(t, err, rootshared.ErrIdempotencyConflict)
	assert.Len(t, f.repo.rows, 1)

	f.repo.failNew = errors.New("connection reset")
	_, err = f.svc.Create(ownerCtx(), baseInput(), "key-2")
	require.Error(t, err)
	assert.NotContains(t, f.idem.keys, "agency-1|key-2|rentals")
}

func TestUpdateKeepsRateSnapshot(t *testing.T) {
	f := newFixture()
	c, err := f.svc.Create(ownerCtx(), baseInput(), "")
	require.NoError(t, err)

	stored := f.repo.rows[c.ID]
	stored.DailyRate = decimal.NewFromInt(6000)
	f.repo.rows[c.ID] = stored

	in := baseInput()
	in.EndDate = "2024-06-08"
	updated, err := f.svc.Update(ownerCtx(), c.ID, in)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Days)
	assert.True(t, updated.DailyRate.Equal(decimal.NewFromInt(6000)))
	assert.True(t, updated.Subtotal.Equal(decimal.NewFromInt(12000)))
	assert.Equal(t, c.Number, updated.Number)
}

func TestDeleteMissingContract(t *testing.T) {
	f := newFixture()
	assert.ErrorIs(t, f.svc.Delete(ownerCtx(), 42), shared.ErrNotFound)
	assert.Empty(t, f.audit.actions)
}

func TestSubjectResolvesRelatedRecords(t *testing.T) {
	f := newFixture()
	in := baseInput()
	in.WithDriver = true
	driverID := int64(1)
	in.DriverID = &driverID
	c, err := f.svc.Create(ownerCtx(), in, "")
	require.NoError(t, err)

	s, err := f.svc.Subject(ownerCtx(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Amine Benali", s.Client.Name)
	assert.Equal(t, "12345-122-16", s.Vehicle.Plate)
	require.NotNil(t, s.Driver)
	assert.Equal(t, "Karim Saidi", s.Driver.Name)
	assert.Equal(t, "Active", s.Status)

	doc, err := f.svc.Document(ownerCtx(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, document.KindRental, doc.Kind)
	_, ok := doc.Block("driver")
	assert.True(t, ok)
}

// ============================================================================
// HANDLER
// ============================================================================

func newRouter(t *testing.T, f fixture) http.Handler {
	t.Helper()
	layout, err := render.NewHTMLLayout(nil)
	require.NoError(t, err)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	responder := render.NewResponder(render.NewPreviewRenderer(layout, nil), render.NewExportRenderer(layout, fakeConverter{}, nil), nil, logger)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(rootshared.ContextWithOwner(r.Context(), "agency-1")))
		})
	})
	r.Route("/rentals", NewHandler(logger, f.svc, responder).MountRoutes)
	return r
}

func TestHandlerCreateAndDocuments(t *testing.T) {
	f := newFixture()
	router := newRouter(t, f)

	body, err := json.Marshal(baseInput())
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/rentals/", strings.NewReader(string(body)))
	req.Header.Set(rootshared.IdempotencyHeader, "abc")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.Equal(t, "/rentals/1", rr.Header().Get("Location"))

	req = httptest.NewRequest(http.MethodPost, "/rentals/", strings.NewReader(string(body)))
	req.Header.Set(rootshared.IdempotencyHeader, "abc")
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/rentals/1/preview", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rr.Body.String(), "Amine Benali")

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/rentals/1/pdf", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/pdf", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "contract-CT-2024-0001.pdf")

	assert.Equal(t, []string{rootshared.ActionCreate, rootshared.ActionPreview, rootshared.ActionExport}, f.audit.actions)
}

func TestHandlerQuote(t *testing.T) {
	router := newRouter(t, newFixture())

	rr := httptest.NewRecorder()
	body := `{"start_date":"2024-06-06","end_date":"2024-06-09","daily_rate":"8000","discount_kind":"fixed","discount_value":"1000"}`
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/rentals/quote", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var quote pricing.Breakdown
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &quote))
	assert.Equal(t, 3, quote.Days)
	assert.True(t, quote.Total.Equal(decimal.NewFromInt(23000)))
}

func TestHandlerDocumentNotFound(t *testing.T) {
	router := newRouter(t, newFixture())

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/rentals/5/pdf", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
