package invoices

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/odyssey-erp/rentaldesk/internal/pricing"
	rootshared "github.com/odyssey-erp/rentaldesk/internal/shared"
)

const sheetName = "Invoices"

var exportColumns = []string{
	"Invoice", "Contract", "Client", "Vehicle", "Start", "End", "Days",
	"Daily rate", "Subtotal", "Discount", "Total", "Deposit", "Status",
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List recomputes every invoice with pricing.DisplayQuote.
func (s *Service) List(ctx context.Context, filters Filters) (Listing, error) {
	owner, err := rootshared.RequireOwner(ctx)
	if err != nil {
		return Listing{}, err
	}
	sources, err := s.repo.Sources(ctx, owner, filters)
	if err != nil {
		return Listing{}, fmt.Errorf("load invoice sources: %w", err)
	}
	return buildListing(sources), nil
}

func buildListing(sources []Source) Listing {
	listing := Listing{Rows: make([]Row, 0, len(sources))}
	totals := Totals{Subtotal: decimal.Zero, Discount: decimal.Zero, Total: decimal.Zero}
	for _, src := range sources {
		q := pricing.DisplayQuote(pricing.Input{
			Start:         src.StartDate,
			End:           src.EndDate,
			DailyRate:     src.DailyRate,
			DiscountKind:  src.DiscountKind,
			DiscountValue: src.DiscountValue,
		})
		listing.Rows = append(listing.Rows, Row{
			Number:         "INV-" + src.ContractNumber,
			ContractID:     src.ContractID,
			ContractNumber: src.ContractNumber,
			ClientName:     strings.TrimSpace(src.ClientName),
			Vehicle:        strings.TrimSpace(src.VehicleLabel + " (" + src.VehiclePlate + ")"),
			Start:          src.StartDate,
			End:            src.EndDate,
			Days:           q.Days,
			DailyRate:      q.DailyRate,
			Subtotal:       q.Subtotal,
			DiscountKind:   q.DiscountKind,
			Discount:       q.Discount,
			Total:          q.Total,
			Deposit:        src.Deposit,
			Status:         src.Status,
		})
		totals.Count++
		totals.Subtotal = totals.Subtotal.Add(q.Subtotal)
		totals.Discount = totals.Discount.Add(q.Discount)
		totals.Total = totals.Total.Add(q.Total)
	}
	listing.Totals = totals
	return listing
}

// ExportXLSX writes the listing as a single sheet workbook.
func (s *Service) ExportXLSX(ctx context.Context, filters Filters, w io.Writer) error {
	listing, err := s.List(ctx, filters)
	if err != nil {
		return err
	}
	return writeWorkbook(listing, w)
}

func writeWorkbook(listing Listing, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return err
	}

	header := make([]any, len(exportColumns))
	for i, c := range exportColumns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return err
	}
	if err := f.SetRowStyle(sheetName, 1, 1, bold); err != nil {
		return err
	}

	for i, row := range listing.Rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		values := []any{
			row.Number,
			row.ContractNumber,
			row.ClientName,
			row.Vehicle,
			row.Start.Format(time.DateOnly),
			row.End.Format(time.DateOnly),
			row.Days,
			row.DailyRate.InexactFloat64(),
			row.Subtotal.InexactFloat64(),
			row.Discount.InexactFloat64(),
			row.Total.InexactFloat64(),
			row.Deposit.InexactFloat64(),
			row.Status,
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return err
		}
	}

	last := len(listing.Rows) + 2
	totalCell, _ := excelize.CoordinatesToCellName(1, last)
	totals := []any{"Total", listing.Totals.Count, nil, nil, nil, nil, nil, nil,
		listing.Totals.Subtotal.InexactFloat64(),
		listing.Totals.Discount.InexactFloat64(),
		listing.Totals.Total.InexactFloat64(),
	}
	if err := f.SetSheetRow(sheetName, totalCell, &totals); err != nil {
		return err
	}
	if err := f.SetRowStyle(sheetName, last, last, bold); err != nil {
		return err
	}
	if len(listing.Rows) > 0 {
		if err := f.SetCellStyle(sheetName, "H2", fmt.Sprintf("L%d", last-1), money); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(sheetName, "A", "D", 22); err != nil {
		return err
	}
	return f.Write(w)
}
