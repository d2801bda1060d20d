package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"

	"github.com/c14220110/kasirung-backend/internal/kosan/models"
)

type DashboardService struct {
	DB  *sql.DB
	Loc *time.Location
	now func() time.Time
}

func NewDashboardService(db *sql.DB, loc *time.Location) *DashboardService {
	return &DashboardService{DB: db, Loc: loc, now: time.Now}
}

// GetDashboardData merangkum hunian dan tagihan kosan.
func (ds *DashboardService) GetDashboardData(ctx context.Context) (*models.Dashboard, error) {
	now := ds.now().In(ds.Loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, ds.Loc)
	awalBulan := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, ds.Loc)

	d := &models.Dashboard{}
	if err := ds.DB.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(SUM(status = ?), 0) FROM Kamar", models.KamarTerisi).
		Scan(&d.TotalKamar, &d.KamarTerisi); err != nil {
		return nil, errors.Wrap(err, "gagal menghitung kamar")
	}
	d.KamarKosong = d.TotalKamar - d.KamarTerisi
	if d.TotalKamar > 0 {
		d.TingkatHunian = float64(d.KamarTerisi) * 100 / float64(d.TotalKamar)
	}

	if err := ds.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM Penyewa WHERE status = ?", models.PenyewaAktif).Scan(&d.PenyewaAktif); err != nil {
		return nil, errors.Wrap(err, "gagal menghitung penyewa aktif")
	}

	if err := ds.DB.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(jumlah), 0), COALESCE(SUM(jatuh_tempo < ?), 0)
		 FROM Tagihan_Kosan WHERE status = ?`, today, models.TagihanUnpaid).
		Scan(&d.TagihanUnpaid, &d.NominalUnpaid, &d.TagihanTerlambat); err != nil {
		return nil, errors.Wrap(err, "gagal menghitung tagihan belum dibayar")
	}

	if err := ds.DB.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(jumlah), 0) FROM Tagihan_Kosan WHERE status = ? AND dibayar_pada >= ?",
		models.TagihanPaid, awalBulan).Scan(&d.PendapatanBulanIni); err != nil {
		return nil, errors.Wrap(err, "gagal menghitung pendapatan")
	}
	return d, nil
}
