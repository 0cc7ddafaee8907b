package bids

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/bid-ledger/internal/domain/extraction"
)

func exportFixtureBid() *Bid {
	return &Bid{
		ID:         uuid.New(),
		DocumentID: uuid.New(),
		Items: []extraction.BidItem{
			{
				ItemNumber:   1,
				CPVCode:      "50421200-4",
				Name:         "Николет",
				Unit:         strPtr("Работен час"),
				Quantity:     decPtr("1.00"),
				UnitPrice:    decPtr("2000.00"),
				TotalPrice:   decPtr("2000.00"),
				VATAmount:    decPtr("360.00"),
				TotalWithVAT: decPtr("2360.00"),
			},
			{
				ItemNumber: 2,
				CPVCode:    "33100000",
				Name:       "Апаратура",
			},
		},
	}
}

func TestExportCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ExportCSV(&buf, exportFixtureBid()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)

	assert.Equal(t, "item_number,cpv_code,name,unit,quantity,unit_price,total_price,vat_amount,total_with_vat,lot_number", lines[0])
	assert.Contains(t, lines[1], "50421200-4")
	assert.Contains(t, lines[1], "2.000,00")
	assert.Contains(t, lines[1], "Работен час")

	// Absent fields export as empty cells, never as zeros.
	assert.Contains(t, lines[2], "33100000")
	assert.NotContains(t, lines[2], "0,00")
}

func TestExportXLSX(t *testing.T) {
	f, err := ExportXLSX(exportFixtureBid())
	require.NoError(t, err)
	defer f.Close()

	const sheet = "Bid Items"

	name, err := f.GetCellValue(sheet, "C2")
	require.NoError(t, err)
	assert.Equal(t, "Николет", name)

	unitPrice, err := f.GetCellValue(sheet, "F2")
	require.NoError(t, err)
	assert.Equal(t, "2.000,00", unitPrice)

	emptyQty, err := f.GetCellValue(sheet, "E3")
	require.NoError(t, err)
	assert.Empty(t, emptyQty)
}
