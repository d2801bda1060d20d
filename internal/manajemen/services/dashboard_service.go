package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/c14220110/kasirung-backend/internal/manajemen/models"
)

type DashboardService struct {
	DB *sql.DB
}

func NewDashboardService(db *sql.DB) *DashboardService {
	return &DashboardService{DB: db}
}

// GetDashboardData merangkum pengguna, penjualan kasir, kos-kosan, dan klinik.
// sampai bersifat eksklusif.
func (svc *DashboardService) GetDashboardData(ctx context.Context, dari, sampai time.Time) (*models.DashboardData, error) {
	d := &models.DashboardData{Dari: dari, Sampai: sampai}

	if err := svc.DB.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(deleted_at IS NULL), 0), COALESCE(SUM(deleted_at IS NOT NULL), 0)
		FROM Pengguna`).Scan(&d.PenggunaAktif, &d.PenggunaNonAktif); err != nil {
		return nil, errors.Wrap(err, "gagal menghitung pengguna")
	}

	rows, err := svc.DB.QueryContext(ctx, `
		SELECT r.nama_role, COUNT(p.id_pengguna)
		FROM Role r
		LEFT JOIN Pengguna p ON p.id_role = r.id_role AND p.deleted_at IS NULL
		WHERE r.deleted_at IS NULL
		GROUP BY r.id_role, r.nama_role
		ORDER BY r.nama_role`)
	if err != nil {
		return nil, errors.Wrap(err, "gagal menghitung pengguna per role")
	}
	defer rows.Close()
	d.PenggunaPerRole = []models.RoleCount{}
	for rows.Next() {
		var rc models.RoleCount
		if err := rows.Scan(&rc.NamaRole, &rc.Count); err != nil {
			return nil, err
		}
		d.PenggunaPerRole = append(d.PenggunaPerRole, rc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := svc.DB.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(total), 0) FROM Transaksi
		WHERE created_at >= ? AND created_at < ?`, dari, sampai).
		Scan(&d.JumlahTransaksi, &d.OmzetKasir); err != nil {
		return nil, errors.Wrap(err, "gagal menghitung omzet kasir")
	}

	if err := svc.DB.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(status = 'terisi'), 0) FROM Kamar`).
		Scan(&d.TotalKamar, &d.KamarTerisi); err != nil {
		return nil, errors.Wrap(err, "gagal menghitung kamar")
	}

	if err := svc.DB.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(jumlah), 0) FROM Tagihan_Kosan
		WHERE status = 'paid' AND dibayar_pada >= ? AND dibayar_pada < ?`, dari, sampai).
		Scan(&d.PendapatanKosan); err != nil {
		return nil, errors.Wrap(err, "gagal menghitung pendapatan kos")
	}

	if err := svc.DB.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM Konsultasi
		WHERE status <> 'batal' AND tanggal >= ? AND tanggal < ?`, dari, sampai).
		Scan(&d.KunjunganKlinik); err != nil {
		return nil, errors.Wrap(err, "gagal menghitung kunjungan klinik")
	}

	if err := svc.DB.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(total), 0) FROM Tagihan_Klinik
		WHERE status = 'paid' AND dibayar_pada >= ? AND dibayar_pada < ?`, dari, sampai).
		Scan(&d.PendapatanKlinik); err != nil {
		return nil, errors.Wrap(err, "gagal menghitung pendapatan klinik")
	}

	d.PendapatanTotal = d.OmzetKasir.Add(d.PendapatanKosan).Add(d.PendapatanKlinik)

	harian, err := svc.pendapatanHarian(ctx, dari, sampai)
	if err != nil {
		return nil, err
	}
	d.PendapatanHarian = harian
	return d, nil
}

// pendapatanHarian menggabungkan ketiga sumber pendapatan per hari. Hari tanpa pendapatan
// tetap muncul dengan jumlah 0 agar grafik tidak bolong.
func (svc *DashboardService) pendapatanHarian(ctx context.Context, dari, sampai time.Time) ([]models.TimeAmount, error) {
	rows, err := svc.DB.QueryContext(ctx, `
		SELECT DATE_FORMAT(t, '%Y-%m-%d') AS hari, SUM(jumlah) FROM (
			SELECT created_at AS t, total AS jumlah FROM Transaksi
			WHERE created_at >= ? AND created_at < ?
			UNION ALL
			SELECT dibayar_pada, jumlah FROM Tagihan_Kosan
			WHERE status = 'paid' AND dibayar_pada >= ? AND dibayar_pada < ?
			UNION ALL
			SELECT dibayar_pada, total FROM Tagihan_Klinik
			WHERE status = 'paid' AND dibayar_pada >= ? AND dibayar_pada < ?
		) p
		GROUP BY hari
		ORDER BY hari`, dari, sampai, dari, sampai, dari, sampai)
	if err != nil {
		return nil, errors.Wrap(err, "gagal menghitung pendapatan harian")
	}
	defer rows.Close()

	perHari := map[string]decimal.Decimal{}
	for rows.Next() {
		var (
			hari   string
			jumlah decimal.Decimal
		)
		if err := rows.Scan(&hari, &jumlah); err != nil {
			return nil, err
		}
		perHari[hari] = jumlah
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := []models.TimeAmount{}
	for t := dari; t.Before(sampai); t = t.AddDate(0, 0, 1) {
		label := t.Format("2006-01-02")
		out = append(out, models.TimeAmount{Label: label, Jumlah: perHari[label]})
	}
	return out, nil
}
