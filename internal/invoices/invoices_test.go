package invoices

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/odyssey-erp/rentaldesk/internal/pricing"
	rootshared "github.com/odyssey-erp/rentaldesk/internal/shared"
)

type stubRepo struct {
	sources []Source
	owner   string
	filters Filters
}

func (s *stubRepo) Sources(_ context.Context, owner string, filters Filters) ([]Source, error) {
	s.owner, s.filters = owner, filters
	return s.sources, nil
}

func day(d int) time.Time { return time.Date(2024, 5, d, 0, 0, 0, 0, time.UTC) }

func sampleSources() []Source {
	return []Source{
		{
			ContractID: 1, ContractNumber: "CT-2024-0001", ClientName: "Amine Benali",
			VehicleLabel: "Renault Clio", VehiclePlate: "12345-122-16",
			StartDate: day(1), EndDate: day(4), DailyRate: decimal.NewFromInt(3333),
			DiscountKind: pricing.DiscountPercentage, DiscountValue: decimal.NewFromInt(15),
			Deposit: decimal.NewFromInt(20000), Status: "completed",
		},
		{
			ContractID: 2, ContractNumber: "CT-2024-0002", ClientName: "Sara Khelifi",
			VehicleLabel: "Dacia Logan", VehiclePlate: "00123-118-16",
			StartDate: day(10), EndDate: day(13), DailyRate: decimal.NewFromInt(3333),
			DiscountKind: pricing.DiscountFixed, DiscountValue: decimal.NewFromInt(100000),
			Status: "active",
		},
	}
}

func ownerCtx() context.Context {
	return rootshared.ContextWithOwner(context.Background(), "agency-1")
}

func TestListUsesDisplayRules(t *testing.T) {
	repo := &stubRepo{sources: sampleSources()}
	listing, err := NewService(repo).List(ownerCtx(), Filters{Status: "active"})
	require.NoError(t, err)
	assert.Equal(t, "agency-1", repo.owner)
	assert.Equal(t, "active", repo.filters.Status)

	require.Len(t, listing.Rows, 2)
	first := listing.Rows[0]
	assert.Equal(t, "INV-CT-2024-0001", first.Number)
	assert.Equal(t, "Renault Clio (12345-122-16)", first.Vehicle)
	assert.Equal(t, 3, first.Days)
	assert.True(t, first.Subtotal.Equal(decimal.NewFromInt(9999)))
	assert.True(t, first.Discount.Equal(decimal.NewFromInt(1500)), first.Discount.String())
	assert.True(t, first.Total.Equal(decimal.NewFromInt(8499)))

	second := listing.Rows[1]
	assert.True(t, second.Discount.Equal(second.Subtotal), "fixed discount is capped at the subtotal")
	assert.True(t, second.Total.IsZero())

	assert.Equal(t, 2, listing.Totals.Count)
	assert.True(t, listing.Totals.Subtotal.Equal(decimal.NewFromInt(19998)))
	assert.True(t, listing.Totals.Total.Equal(decimal.NewFromInt(8499)))
}

func TestListEmpty(t *testing.T) {
	listing, err := NewService(&stubRepo{}).List(ownerCtx(), Filters{})
	require.NoError(t, err)
	assert.NotNil(t, listing.Rows)
	assert.Zero(t, listing.Totals.Count)
	assert.True(t, listing.Totals.Total.IsZero())
}

func TestListRequiresOwner(t *testing.T) {
	_, err := NewService(&stubRepo{}).List(context.Background(), Filters{})
	assert.Error(t, err)
}

func TestExportXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewService(&stubRepo{sources: sampleSources()}).ExportXLSX(ownerCtx(), Filters{}, &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, exportColumns, rows[0])
	assert.Equal(t, "INV-CT-2024-0001", rows[1][0])
	assert.Equal(t, "2024-05-01", rows[1][4])
	assert.Equal(t, "Total", rows[3][0])

	total, err := f.GetCellValue(sheetName, "K4", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "8499", total)
}

func TestHandlerExport(t *testing.T) {
	h := NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), NewService(&stubRepo{sources: sampleSources()}))
	h.now = func() time.Time { return day(31) }

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(ownerCtx()))
		})
	})
	r.Route("/invoices", h.MountRoutes)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/invoices/export.xlsx?from=2024-05-01", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, xlsxContentType, rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "invoices-20240531.xlsx")

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/invoices/", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"count":2`)
}
