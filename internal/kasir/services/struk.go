package services

import (
	"context"
	"strconv"

	"github.com/c14220110/kasirung-backend/pkg/pdf"
	"github.com/c14220110/kasirung-backend/pkg/utils"
)

// StrukPDF merender struk belanja ukuran kertas thermal.
func (ts *TransaksiService) StrukPDF(ctx context.Context, id int, namaToko string) ([]byte, string, error) {
	t, err := ts.GetTransaksi(ctx, id)
	if err != nil {
		return nil, "", err
	}

	rows := make([][]string, 0, len(t.Items))
	for _, it := range t.Items {
		rows = append(rows, []string{
			it.NamaProduk,
			strconv.Itoa(it.Jumlah) + " x " + utils.FormatRupiah(it.Harga),
			utils.FormatRupiah(it.Subtotal),
		})
	}

	out, err := pdf.Render(pdf.Document{
		Title:    namaToko,
		Subtitle: "Struk Pembelian",
		Fields: []pdf.Field{
			{Label: "No", Value: t.KodeTransaksi},
			{Label: "Tanggal", Value: t.CreatedAt.In(ts.Loc).Format("02-01-2006 15:04")},
			{Label: "Kasir", Value: t.NamaKasir},
		},
		Table: pdf.Table{
			Headers: []string{"Item", "Qty", "Subtotal"},
			Widths:  []float64{3, 3, 2},
			Align:   []string{"L", "L", "R"},
			Rows:    rows,
		},
		Totals: []pdf.Field{
			{Label: "Total", Value: utils.FormatRupiah(t.Total)},
			{Label: "Bayar (" + t.MetodeBayar + ")", Value: utils.FormatRupiah(t.Bayar)},
			{Label: "Kembali", Value: utils.FormatRupiah(t.Kembalian)},
		},
		Footer:  "Terima kasih atas kunjungan Anda",
		Receipt: true,
	})
	if err != nil {
		return nil, "", err
	}
	return out, "struk-" + t.KodeTransaksi + ".pdf", nil
}
