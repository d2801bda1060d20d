package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/c14220110/kasirung-backend/internal/common/errs"
	"github.com/c14220110/kasirung-backend/internal/klinik/models"
	"github.com/c14220110/kasirung-backend/pkg/pdf"
	"github.com/c14220110/kasirung-backend/pkg/utils"
	"github.com/c14220110/kasirung-backend/ws"
)

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
	SELECT t.id_tagihan, t.no_tagihan, t.id_konsultasi, p.nama, p.no_rm, tm.nama, t.total_konsultasi, t.total_obat,
	       t.total, t.status, t.metode_bayar, t.dibayar_pada, t.created_at
	FROM Tagihan_Klinik t
	JOIN Konsultasi k ON k.id_konsultasi = t.id_konsultasi
	JOIN Pasien p ON p.id_pasien = k.id_pasien
	JOIN Tenaga_Medis tm ON tm.id_tenaga_medis = k.id_tenaga_medis`

func scanTagihan(s rowScanner) (models.Tagihan, error) {
	var (
		t       models.Tagihan
		metode  sql.NullString
		dibayar sql.NullTime
	)
	err := s.Scan(&t.IDTagihan, &t.NoTagihan, &t.IDKonsultasi, &t.NamaPasien, &t.NoRM, &t.NamaTenagaMedis,
		&t.TotalKonsultasi, &t.TotalObat, &t.Total, &t.Status, &metode, &dibayar, &t.CreatedAt)
	t.MetodeBayar = nullString(metode)
	if dibayar.Valid {
		t.DibayarPada = &dibayar.Time
	}
	return t, err
}

// ListTagihan mengambil tagihan yang dibuat pada rentang [Dari, Sampai).
func (ts *TagihanService) ListTagihan(ctx context.Context, f models.TagihanFilter, pg utils.Pagination) ([]models.Tagihan, int, error) {
	where := " WHERE t.created_at >= ? AND t.created_at < ?"
	params := []interface{}{f.Dari, f.Sampai}
	if f.Status != "" {
		where += " AND t.status = ?"
		params = append(params, f.Status)
	}

	var total int
	if err := ts.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM Tagihan_Klinik t"+where, params...).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, "gagal menghitung tagihan")
	}

	rows, err := ts.DB.QueryContext(ctx, tagihanSelect+where+" ORDER BY t.created_at DESC, t.id_tagihan DESC LIMIT ? OFFSET ?",
		append(params, pg.Limit, pg.Offset())...)
	if err != nil {
		return nil, 0, errors.Wrap(err, "gagal mengambil daftar tagihan")
	}
	defer rows.Close()

	list := []models.Tagihan{}
	for rows.Next() {
		t, err := scanTagihan(rows)
		if err != nil {
			return nil, 0, errors.Wrap(err, "gagal membaca tagihan")
		}
		list = append(list, t)
	}
	return list, total, rows.Err()
}

func (ts *TagihanService) GetTagihan(ctx context.Context, id int) (*models.Tagihan, error) {
	t, err := scanTagihan(ts.DB.QueryRowContext(ctx, tagihanSelect+" WHERE t.id_tagihan = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errTagihanNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "gagal mengambil tagihan")
	}
	if t.Resep, err = listResep(ctx, ts.DB, t.IDKonsultasi); err != nil {
		return nil, err
	}
	return &t, nil
}

// BayarTagihan mencatat pembayaran; tagihan yang sudah lunas ditolak.
func (ts *TagihanService) BayarTagihan(ctx context.Context, id int, req models.BayarRequest) (*models.Tagihan, error) {
	tx, err := ts.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "gagal memulai transaksi")
	}
	defer tx.Rollback()

	var status string
	err = tx.QueryRowContext(ctx, "SELECT status FROM Tagihan_Klinik WHERE id_tagihan = ? FOR UPDATE", id).Scan(&status)
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
		"UPDATE Tagihan_Klinik SET status = ?, metode_bayar = ?, dibayar_pada = ? WHERE id_tagihan = ?",
		models.TagihanPaid, req.MetodeBayar, ts.now(), id); err != nil {
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
		"modul": "klinik", "id_tagihan": t.IDTagihan, "no_tagihan": t.NoTagihan, "total": t.Total,
	})
	return t, nil
}

// InvoicePDF merender rincian biaya konsultasi dan obat ukuran A4.
func (ts *TagihanService) InvoicePDF(ctx context.Context, id int, namaKlinik string) ([]byte, string, error) {
	t, err := ts.GetTagihan(ctx, id)
	if err != nil {
		return nil, "", err
	}

	status := "BELUM DIBAYAR"
	if t.Status == models.TagihanPaid {
		status = "LUNAS"
		if t.MetodeBayar != nil {
			status += " - " + *t.MetodeBayar
		}
	}

	rows := [][]string{{"Jasa konsultasi " + t.NamaTenagaMedis, "1", utils.FormatRupiah(t.TotalKonsultasi), utils.FormatRupiah(t.TotalKonsultasi)}}
	for _, r := range t.Resep {
		rows = append(rows, []string{
			r.NamaObat + " (" + r.AturanPakai + ")",
			fmt.Sprintf("%d %s", r.Jumlah, r.Satuan),
			utils.FormatRupiah(r.Harga),
			utils.FormatRupiah(r.Subtotal),
		})
	}

	out, err := pdf.Render(pdf.Document{
		Title:    "TAGIHAN PASIEN",
		Subtitle: namaKlinik,
		Fields: []pdf.Field{
			{Label: "No. Tagihan", Value: t.NoTagihan},
			{Label: "Tanggal", Value: t.CreatedAt.In(ts.Loc).Format("02-01-2006 15:04")},
			{Label: "Pasien", Value: t.NamaPasien + " (" + t.NoRM + ")"},
			{Label: "Dokter", Value: t.NamaTenagaMedis},
			{Label: "Status", Value: status},
		},
		Table: pdf.Table{
			Headers: []string{"Keterangan", "Jumlah", "Harga", "Subtotal"},
			Widths:  []float64{4, 1.2, 1.6, 1.6},
			Align:   []string{"L", "C", "R", "R"},
			Rows:    rows,
		},
		Totals: []pdf.Field{
			{Label: "Konsultasi", Value: utils.FormatRupiah(t.TotalKonsultasi)},
			{Label: "Obat", Value: utils.FormatRupiah(t.TotalObat)},
			{Label: "Total", Value: utils.FormatRupiah(t.Total)},
		},
		Footer: "Semoga lekas sembuh.",
	})
	if err != nil {
		return nil, "", err
	}
	return out, "tagihan-" + t.NoTagihan + ".pdf", nil
}
