package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"

	"github.com/c14220110/kasirung-backend/internal/klinik/models"
)

type DashboardService struct {
	DB *sql.DB
}

func NewDashboardService(db *sql.DB) *DashboardService {
	return &DashboardService{DB: db}
}

// GetDashboardData merangkum aktivitas klinik pada rentang [dari, sampai).
func (ds *DashboardService) GetDashboardData(ctx context.Context, dari, sampai time.Time) (*models.Dashboard, error) {
	d := &models.Dashboard{Dari: dari, Sampai: sampai}

	if err := ds.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM Pasien WHERE created_at >= ? AND created_at < ?", dari, sampai).
		Scan(&d.PasienBaru); err != nil {
		return nil, errors.Wrap(err, "gagal menghitung pasien baru")
	}

	rows, err := ds.DB.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM Konsultasi
		 WHERE tanggal >= ? AND tanggal < ?
		 GROUP BY status ORDER BY status`, dari, sampai)
	if err != nil {
		return nil, errors.Wrap(err, "gagal menghitung konsultasi")
	}
	d.Konsultasi = []models.JumlahStatus{}
	for rows.Next() {
		var js models.JumlahStatus
		if err := rows.Scan(&js.Status, &js.Jumlah); err != nil {
			rows.Close()
			return nil, errors.Wrap(err, "gagal membaca konsultasi")
		}
		d.Konsultasi = append(d.Konsultasi, js)
	}
	rows.Close()

	if err := ds.DB.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(total), 0) FROM Tagihan_Klinik
		 WHERE status = ? AND dibayar_pada >= ? AND dibayar_pada < ?`,
		models.TagihanPaid, dari, sampai).Scan(&d.Pendapatan); err != nil {
		return nil, errors.Wrap(err, "gagal menghitung pendapatan")
	}

	if err := ds.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM Tagihan_Klinik WHERE status = ?", models.TagihanUnpaid).
		Scan(&d.TagihanBelumBayar); err != nil {
		return nil, errors.Wrap(err, "gagal menghitung tagihan belum dibayar")
	}

	if err := ds.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM Obat WHERE deleted_at IS NULL AND stok <= stok_minimum").
		Scan(&d.ObatStokMenipis); err != nil {
		return nil, errors.Wrap(err, "gagal menghitung obat stok menipis")
	}

	rows, err = ds.DB.QueryContext(ctx,
		`SELECT diagnosa, COUNT(*) AS jumlah FROM Konsultasi
		 WHERE status = 'selesai' AND diagnosa IS NOT NULL AND tanggal >= ? AND tanggal < ?
		 GROUP BY diagnosa ORDER BY jumlah DESC, diagnosa LIMIT 5`, dari, sampai)
	if err != nil {
		return nil, errors.Wrap(err, "gagal mengambil diagnosa terbanyak")
	}
	defer rows.Close()
	d.DiagnosaTerbanyak = []models.DiagnosaTerbanyak{}
	for rows.Next() {
		var dt models.DiagnosaTerbanyak
		if err := rows.Scan(&dt.Diagnosa, &dt.Jumlah); err != nil {
			return nil, errors.Wrap(err, "gagal membaca diagnosa")
		}
		d.DiagnosaTerbanyak = append(d.DiagnosaTerbanyak, dt)
	}
	return d, rows.Err()
}
