package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/c14220110/kasirung-backend/internal/kasir/models"
	"github.com/c14220110/kasirung-backend/pkg/report"
)

type LaporanService struct {
	DB  *sql.DB
	Loc *time.Location
	now func() time.Time
}

func NewLaporanService(db *sql.DB, loc *time.Location) *LaporanService {
	return &LaporanService{DB: db, Loc: loc, now: time.Now}
}

const rentangTransaksi = "created_at >= ? AND created_at < ?"

func (ls *LaporanService) totalRentang(ctx context.Context, dari, sampai time.Time) (int, decimal.Decimal, error) {
	var (
		n     int
		omzet decimal.Decimal
	)
	err := ls.DB.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(SUM(total), 0) FROM Transaksi WHERE "+rentangTransaksi, dari, sampai).
		Scan(&n, &omzet)
	if err != nil {
		return 0, decimal.Zero, errors.Wrap(err, "gagal menghitung omzet")
	}
	return n, omzet, nil
}

// harian mengembalikan satu baris per hari pada [dari, sampai), termasuk hari tanpa transaksi.
func (ls *LaporanService) harian(ctx context.Context, dari, sampai time.Time) ([]models.PenjualanHarian, error) {
	rows, err := ls.DB.QueryContext(ctx,
		`SELECT DATE_FORMAT(created_at, '%Y-%m-%d'), COUNT(*), COALESCE(SUM(total), 0)
		 FROM Transaksi WHERE `+rentangTransaksi+`
		 GROUP BY DATE_FORMAT(created_at, '%Y-%m-%d')`, dari, sampai)
	if err != nil {
		return nil, errors.Wrap(err, "gagal mengambil penjualan harian")
	}
	defer rows.Close()

	byDay := map[string]models.PenjualanHarian{}
	for rows.Next() {
		var h models.PenjualanHarian
		if err := rows.Scan(&h.Tanggal, &h.JumlahTransaksi, &h.Omzet); err != nil {
			return nil, errors.Wrap(err, "gagal membaca penjualan harian")
		}
		byDay[h.Tanggal] = h
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	list := []models.PenjualanHarian{}
	for d := dari; d.Before(sampai); d = d.AddDate(0, 0, 1) {
		key := d.Format("2006-01-02")
		h, ok := byDay[key]
		if !ok {
			h = models.PenjualanHarian{Tanggal: key, Omzet: decimal.Zero}
		}
		list = append(list, h)
	}
	return list, nil
}

func (ls *LaporanService) produkTerlaris(ctx context.Context, dari, sampai time.Time, limit int) ([]models.ProdukTerlaris, error) {
	rows, err := ls.DB.QueryContext(ctx,
		`SELECT d.id_produk, d.nama_produk, SUM(d.jumlah), SUM(d.subtotal)
		 FROM Detail_Transaksi d
		 JOIN Transaksi t ON t.id_transaksi = d.id_transaksi
		 WHERE t.created_at >= ? AND t.created_at < ?
		 GROUP BY d.id_produk, d.nama_produk
		 ORDER BY SUM(d.jumlah) DESC
		 LIMIT ?`, dari, sampai, limit)
	if err != nil {
		return nil, errors.Wrap(err, "gagal mengambil produk terlaris")
	}
	defer rows.Close()

	list := []models.ProdukTerlaris{}
	for rows.Next() {
		var p models.ProdukTerlaris
		if err := rows.Scan(&p.IDProduk, &p.NamaProduk, &p.Terjual, &p.Omzet); err != nil {
			return nil, errors.Wrap(err, "gagal membaca produk terlaris")
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Ringkasan menyusun laporan penjualan pada rentang [dari, sampai).
func (ls *LaporanService) Ringkasan(ctx context.Context, dari, sampai time.Time) (*models.Laporan, error) {
	lap := &models.Laporan{Dari: dari, Sampai: sampai.AddDate(0, 0, -1), PerMetode: map[string]decimal.Decimal{}}

	var err error
	if lap.JumlahTransaksi, lap.Omzet, err = ls.totalRentang(ctx, dari, sampai); err != nil {
		return nil, err
	}

	if err := ls.DB.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(d.jumlah), 0)
		 FROM Detail_Transaksi d
		 JOIN Transaksi t ON t.id_transaksi = d.id_transaksi
		 WHERE t.created_at >= ? AND t.created_at < ?`, dari, sampai).Scan(&lap.ItemTerjual); err != nil {
		return nil, errors.Wrap(err, "gagal menghitung item terjual")
	}

	rows, err := ls.DB.QueryContext(ctx,
		"SELECT metode_bayar, COALESCE(SUM(total), 0) FROM Transaksi WHERE "+rentangTransaksi+" GROUP BY metode_bayar",
		dari, sampai)
	if err != nil {
		return nil, errors.Wrap(err, "gagal mengambil omzet per metode")
	}
	defer rows.Close()
	for rows.Next() {
		var (
			metode string
			omzet  decimal.Decimal
		)
		if err := rows.Scan(&metode, &omzet); err != nil {
			return nil, errors.Wrap(err, "gagal membaca omzet per metode")
		}
		lap.PerMetode[metode] = omzet
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if lap.Harian, err = ls.harian(ctx, dari, sampai); err != nil {
		return nil, err
	}
	if lap.ProdukTerlaris, err = ls.produkTerlaris(ctx, dari, sampai, 10); err != nil {
		return nil, err
	}
	return lap, nil
}

// ExportXLSX menulis ringkasan harian dan produk terlaris ke workbook.
func (ls *LaporanService) ExportXLSX(ctx context.Context, dari, sampai time.Time) ([]byte, error) {
	lap, err := ls.Ringkasan(ctx, dari, sampai)
	if err != nil {
		return nil, err
	}

	harian := make([][]interface{}, 0, len(lap.Harian)+1)
	for _, h := range lap.Harian {
		harian = append(harian, []interface{}{h.Tanggal, h.JumlahTransaksi, h.Omzet.InexactFloat64()})
	}
	harian = append(harian, []interface{}{"Total", lap.JumlahTransaksi, lap.Omzet.InexactFloat64()})

	produk := make([][]interface{}, 0, len(lap.ProdukTerlaris))
	for i, p := range lap.ProdukTerlaris {
		produk = append(produk, []interface{}{i + 1, p.NamaProduk, p.Terjual, p.Omzet.InexactFloat64()})
	}

	return report.Build(
		report.Sheet{
			Name: "Penjualan Harian",
			Title: fmt.Sprintf("Laporan Penjualan %s s/d %s",
				lap.Dari.Format("02-01-2006"), lap.Sampai.Format("02-01-2006")),
			Headers: []string{"Tanggal", "Jumlah Transaksi", "Omzet"},
			Widths:  []float64{16, 18, 20},
			Rows:    harian,
		},
		report.Sheet{
			Name:    "Produk Terlaris",
			Headers: []string{"No", "Produk", "Terjual", "Omzet"},
			Widths:  []float64{6, 32, 12, 20},
			Rows:    produk,
		},
	)
}

// Dashboard kasir: omzet hari ini dan bulan ini, stok menipis, tren tujuh hari.
func (ls *LaporanService) Dashboard(ctx context.Context) (*models.Dashboard, error) {
	now := ls.now().In(ls.Loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, ls.Loc)
	tomorrow := today.AddDate(0, 0, 1)
	awalBulan := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, ls.Loc)

	d := &models.Dashboard{}
	var err error
	if d.TransaksiHariIni, d.OmzetHariIni, err = ls.totalRentang(ctx, today, tomorrow); err != nil {
		return nil, err
	}
	if _, d.OmzetBulanIni, err = ls.totalRentang(ctx, awalBulan, tomorrow); err != nil {
		return nil, err
	}

	rows, err := ls.DB.QueryContext(ctx, produkSelect+
		" WHERE deleted_at IS NULL AND stok <= stok_minimum ORDER BY stok ASC, nama LIMIT 10")
	if err != nil {
		return nil, errors.Wrap(err, "gagal mengambil produk stok menipis")
	}
	defer rows.Close()
	d.StokMenipis = []models.Produk{}
	for rows.Next() {
		p, err := scanProduk(rows)
		if err != nil {
			return nil, errors.Wrap(err, "gagal membaca produk")
		}
		d.StokMenipis = append(d.StokMenipis, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if d.Tren7Hari, err = ls.harian(ctx, today.AddDate(0, 0, -6), tomorrow); err != nil {
		return nil, err
	}
	if d.ProdukTerlaris, err = ls.produkTerlaris(ctx, awalBulan, tomorrow, 5); err != nil {
		return nil, err
	}
	return d, nil
}
