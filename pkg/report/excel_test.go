package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestBuild_WritesSheets(t *testing.T) {
	out, err := Build(
		Sheet{
			Name:    "Ringkasan",
			Title:   "Laporan Penjualan",
			Headers: []string{"Tanggal", "Jumlah Transaksi", "Omzet"},
			Widths:  []float64{15, 18, 18},
			Rows: [][]interface{}{
				{"2026-10-18", 12, 350000.0},
				{"2026-10-19", 8, 120000.0},
			},
		},
		Sheet{
			Name:    "Produk",
			Headers: []string{"Produk", "Terjual"},
			Rows:    [][]interface{}{{"Kopi Susu", 20}},
		},
	)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Ringkasan", "Produk"}, f.GetSheetList())

	title, err := f.GetCellValue("Ringkasan", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Laporan Penjualan", title)

	header, err := f.GetCellValue("Ringkasan", "C3")
	require.NoError(t, err)
	assert.Equal(t, "Omzet", header)

	v, err := f.GetCellValue("Ringkasan", "B5")
	require.NoError(t, err)
	assert.Equal(t, "8", v)

	v, err = f.GetCellValue("Produk", "A2")
	require.NoError(t, err)
	assert.Equal(t, "Kopi Susu", v)
}
