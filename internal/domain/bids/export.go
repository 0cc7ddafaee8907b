package bids

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/FACorreiaa/bid-ledger/internal/domain/extraction"
)

// exportRow is the flat CSV/XLSX shape of one bid item. Amounts are
// rendered back into the document locale so exports match the source
// documents reviewers hold next to them.
type exportRow struct {
	ItemNumber   int    `csv:"item_number"`
	CPVCode      string `csv:"cpv_code"`
	Name         string `csv:"name"`
	Unit         string `csv:"unit"`
	Quantity     string `csv:"quantity"`
	UnitPrice    string `csv:"unit_price"`
	TotalPrice   string `csv:"total_price"`
	VATAmount    string `csv:"vat_amount"`
	TotalWithVAT string `csv:"total_with_vat"`
	LotNumber    string `csv:"lot_number"`
}

func toExportRows(bid *Bid) []exportRow {
	rows := make([]exportRow, 0, len(bid.Items))
	for _, item := range bid.Items {
		rows = append(rows, exportRow{
			ItemNumber:   item.ItemNumber,
			CPVCode:      item.CPVCode,
			Name:         item.Name,
			Unit:         deref(item.Unit),
			Quantity:     fmtAmount(item.Quantity),
			UnitPrice:    fmtAmount(item.UnitPrice),
			TotalPrice:   fmtAmount(item.TotalPrice),
			VATAmount:    fmtAmount(item.VATAmount),
			TotalWithVAT: fmtAmount(item.TotalWithVAT),
			LotNumber:    deref(item.LotNumber),
		})
	}
	return rows
}

// ExportCSV writes the bid's item table as CSV.
func ExportCSV(w io.Writer, bid *Bid) error {
	if err := gocsv.Marshal(toExportRows(bid), w); err != nil {
		return fmt.Errorf("failed to write csv export: %w", err)
	}
	return nil
}

// ExportXLSX builds a single-sheet workbook with the bid's item table.
func ExportXLSX(bid *Bid) (*excelize.File, error) {
	f := excelize.NewFile()
	const sheet = "Bid Items"

	idx, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to drop default sheet: %w", err)
	}

	headers := []string{
		"#", "CPV code", "Name", "Unit",
		"Quantity", "Unit price", "Total", "VAT", "Total with VAT", "Lot",
	}
	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	for i, row := range toExportRows(bid) {
		values := []any{
			row.ItemNumber, row.CPVCode, row.Name, row.Unit,
			row.Quantity, row.UnitPrice, row.TotalPrice, row.VATAmount,
			row.TotalWithVAT, row.LotNumber,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, fmt.Errorf("failed to write row %d: %w", i+1, err)
			}
		}
	}

	return f, nil
}

func fmtAmount(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return extraction.FormatAmount(*d)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
