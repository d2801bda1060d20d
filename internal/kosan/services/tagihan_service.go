package services

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/c14220110/kasirung-backend/internal/common/errs"
	"github.com/c14220110/kasirung-backend/internal/kosan/models"
	"github.com/c14220110/kasirung-backend/pkg/pdf"
	"github.com/c14220110/kasirung-backend/pkg/utils"
	"github.com/c14220110/kasirung-backend/ws"
)

// HariJatuhTempo adalah tanggal jatuh tempo tagihan bulanan pada periode tagihan.
const HariJatuhTempo = 10

var errTagihanNotFound = errors.Wrap(errs.ErrNotFound, "Tagihan tidak ditemukan")

type TagihanService struct {
	DB     *sql.DB
	Loc    *time.Location
	Events *ws.Hub
	now    func() time.Time
}

func NewTagihanService(db *sql.DB, loc *time.Location, events *ws.Hub) *TagihanService {
	return &TagihanService{DB: db, Loc: loc, Events: events, now: time.Now}
}

const tagihanSelect = `
	SELECT t.id_tagihan, t.id_penyewa, p.nama, k.nomor_kamar, g.nama, t.periode, t.jumlah,
	       t.jatuh_tempo, t.status, t.dibayar_pada, t.created_at
	FROM Tagihan_Kosan t
	JOIN Penyewa p ON p.id_penyewa = t.id_penyewa
	JOIN Kamar k ON k.id_kamar = p.id_kamar
	JOIN Gedung g ON g.id_gedung = k.id_gedung`

func (ts *TagihanService) today() time.Time {
	now := ts.now().In(ts.Loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, ts.Loc)
}

func (ts *TagihanService) scanTagihan(s rowScanner) (models.Tagihan, error) {
	var (
		t       models.Tagihan
		dibayar sql.NullTime
	)
	err := s.Scan(&t.IDTagihan, &t.IDPenyewa, &t.NamaPenyewa, &t.NomorKamar, &t.NamaGedung, &t.Periode,
		&t.Jumlah, &t.JatuhTempo, &t.Status, &dibayar, &t.CreatedAt)
	if dibayar.Valid {
		t.DibayarPada = &dibayar.Time
	}
	// terlambat tidak disimpan, dihitung dari jatuh tempo
	t.Terlambat = t.Status == models.TagihanUnpaid && t.JatuhTempo.Before(ts.today())
	return t, err
}

func (ts *TagihanService) ListTagihan(ctx context.Context, f models.TagihanFilter, pg utils.Pagination) ([]models.Tagihan, int, error) {
	conditions := []string{}
	params := []interface{}{}
	if f.Status != "" {
		conditions = append(conditions, "t.status = ?")
		params = append(params, f.Status)
	}
	if f.Periode != "" {
		conditions = append(conditions, "t.periode = ?")
		params = append(params, f.Periode)
	}
	if f.IDPenyewa != nil {
		conditions = append(conditions, "t.id_penyewa = ?")
		params = append(params, *f.IDPenyewa)
	}
	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := ts.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM Tagihan_Kosan t"+where, params...).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, "gagal menghitung tagihan")
	}

	rows, err := ts.DB.QueryContext(ctx, tagihanSelect+where+" ORDER BY t.periode DESC, p.nama LIMIT ? OFFSET ?",
		append(params, pg.Limit, pg.Offset())...)
	if err != nil {
		return nil, 0, errors.Wrap(err, "gagal mengambil daftar tagihan")
	}
	defer rows.Close()

	list := []models.Tagihan{}
	for rows.Next() {
		t, err := ts.scanTagihan(rows)
		if err != nil {
			return nil, 0, errors.Wrap(err, "gagal membaca tagihan")
		}
		list = append(list, t)
	}
	return list, total, rows.Err()
}

func (ts *TagihanService) GetTagihan(ctx context.Context, id int) (*models.Tagihan, error) {
	t, err := ts.scanTagihan(ts.DB.QueryRowContext(ctx, tagihanSelect+" WHERE t.id_tagihan = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errTagihanNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "gagal mengambil tagihan")
	}
	return &t, nil
}

// PeriodeSekarang mengembalikan periode berjalan dalam format YYYY-MM.
func (ts *TagihanService) PeriodeSekarang() string {
	return ts.now().In(ts.Loc).Format("2006-01")
}

// GenerateTagihan membuat tagihan periode untuk setiap penyewa aktif yang belum memilikinya.
// Aman dipanggil berulang: penyewa yang sudah ditagih dilewati. Penyewa yang baru masuk
// setelah periode berakhir tidak ditagih.
func (ts *TagihanService) GenerateTagihan(ctx context.Context, periode string) (*models.GenerateResult, error) {
	awal, err := time.ParseInLocation("2006-01", periode, ts.Loc)
	if err != nil {
		return nil, errors.Wrap(errs.ErrInvalidInput, "Format periode harus YYYY-MM")
	}
	akhir := awal.AddDate(0, 1, 0)
	jatuhTempo := time.Date(awal.Year(), awal.Month(), HariJatuhTempo, 0, 0, 0, 0, ts.Loc)

	var eligible int
	if err := ts.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM Penyewa WHERE status = ? AND tanggal_masuk < ?", models.PenyewaAktif, akhir).
		Scan(&eligible); err != nil {
		return nil, errors.Wrap(err, "gagal menghitung penyewa aktif")
	}

	// IGNORE: generate manual dan cron yang berjalan bersamaan bisa sama-sama lolos NOT EXISTS;
	// yang kalah dilewati oleh uq_tagihan_periode, bukan gagal.
	res, err := ts.DB.ExecContext(ctx,
		`INSERT IGNORE INTO Tagihan_Kosan (id_penyewa, periode, jumlah, jatuh_tempo, status)
		 SELECT p.id_penyewa, ?, k.harga_bulanan, ?, ?
		 FROM Penyewa p
		 JOIN Kamar k ON k.id_kamar = p.id_kamar
		 WHERE p.status = ? AND p.tanggal_masuk < ?
		   AND NOT EXISTS (SELECT 1 FROM Tagihan_Kosan t WHERE t.id_penyewa = p.id_penyewa AND t.periode = ?)`,
		periode, jatuhTempo, models.TagihanUnpaid, models.PenyewaAktif, akhir, periode)
	if err != nil {
		return nil, errors.Wrap(err, "gagal membuat tagihan")
	}
	dibuat, err := res.RowsAffected()
	if err != nil {
		return nil, errors.Wrap(err, "gagal membaca jumlah tagihan")
	}

	result := &models.GenerateResult{Periode: periode, Dibuat: int(dibuat), Dilewati: eligible - int(dibuat)}
	if result.Dilewati < 0 {
		result.Dilewati = 0
	}
	if dibuat > 0 {
		ts.Events.Publish(ws.EventTagihanDibuat, result)
	}
	return result, nil
}

// BayarTagihan menandai tagihan lunas; tagihan yang sudah lunas ditolak.
func (ts *TagihanService) BayarTagihan(ctx context.Context, id int) (*models.Tagihan, error) {
	tx, err := ts.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "gagal memulai transaksi")
	}
	defer tx.Rollback()

	var status string
	err = tx.QueryRowContext(ctx, "SELECT status FROM Tagihan_Kosan WHERE id_tagihan = ? FOR UPDATE", id).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errTagihanNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "gagal mengunci tagihan")
	}
	if status == models.TagihanPaid {
		return nil, errors.Wrap(errs.ErrConflict, "Tagihan sudah dibayar")
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE Tagihan_Kosan SET status = ?, dibayar_pada = ? WHERE id_tagihan = ?",
		models.TagihanPaid, ts.now(), id); err != nil {
		return nil, errors.Wrap(err, "gagal memperbarui tagihan")
	}
	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "gagal menyimpan pembayaran")
	}

	t, err := ts.GetTagihan(ctx, id)
	if err != nil {
		return nil, err
	}
	ts.Events.Publish(ws.EventTagihanDibayar, map[string]interface{}{
		"modul": "kosan", "id_tagihan": t.IDTagihan, "periode": t.Periode, "jumlah": t.Jumlah,
	})
	return t, nil
}

// InvoicePDF merender invoice sewa kamar ukuran A4.
func (ts *TagihanService) InvoicePDF(ctx context.Context, id int, namaUsaha string) ([]byte, string, error) {
	t, err := ts.GetTagihan(ctx, id)
	if err != nil {
		return nil, "", err
	}

	status := "BELUM DIBAYAR"
	if t.Status == models.TagihanPaid {
		status = "LUNAS"
		if t.DibayarPada != nil {
			status += " (" + t.DibayarPada.In(ts.Loc).Format("02-01-2006 15:04") + ")"
		}
	}

	out, err := pdf.Render(pdf.Document{
		Title:    "INVOICE SEWA KAMAR",
		Subtitle: namaUsaha,
		Fields: []pdf.Field{
			{Label: "Penyewa", Value: t.NamaPenyewa},
			{Label: "Kamar", Value: t.NomorKamar + " - " + t.NamaGedung},
			{Label: "Periode", Value: t.Periode},
			{Label: "Jatuh Tempo", Value: t.JatuhTempo.Format("02-01-2006")},
			{Label: "Status", Value: status},
		},
		Table: pdf.Table{
			Headers: []string{"Keterangan", "Jumlah"},
			Widths:  []float64{3, 1},
			Align:   []string{"L", "R"},
			Rows:    [][]string{{"Sewa kamar periode " + t.Periode, utils.FormatRupiah(t.Jumlah)}},
		},
		Totals: []pdf.Field{{Label: "Total", Value: utils.FormatRupiah(t.Jumlah)}},
		Footer: "Pembayaran setelah tanggal jatuh tempo dianggap terlambat.",
	})
	if err != nil {
		return nil, "", err
	}
	return out, "invoice-kosan-" + t.Periode + "-" + utils.Slug(t.NamaPenyewa) + ".pdf", nil
}
