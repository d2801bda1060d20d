package services

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/c14220110/kasirung-backend/internal/common/errs"
	"github.com/c14220110/kasirung-backend/internal/kosan/models"
	"github.com/c14220110/kasirung-backend/pkg/utils"
)

var errPenyewaNotFound = errors.Wrap(errs.ErrNotFound, "Penyewa tidak ditemukan")

type PenyewaService struct {
	DB      *sql.DB
	Loc     *time.Location
	Tagihan *TagihanService
	now     func() time.Time
}

func NewPenyewaService(db *sql.DB, loc *time.Location, tagihan *TagihanService) *PenyewaService {
	return &PenyewaService{DB: db, Loc: loc, Tagihan: tagihan, now: time.Now}
}

const penyewaSelect = `
	SELECT p.id_penyewa, p.id_kamar, k.nomor_kamar, g.nama, p.nama, p.nik, p.no_telp,
	       p.tanggal_masuk, p.tanggal_keluar, p.status, p.created_at
	FROM Penyewa p
	JOIN Kamar k ON k.id_kamar = p.id_kamar
	JOIN Gedung g ON g.id_gedung = k.id_gedung`

func scanPenyewa(s rowScanner) (models.Penyewa, error) {
	var (
		p      models.Penyewa
		keluar sql.NullTime
	)
	err := s.Scan(&p.IDPenyewa, &p.IDKamar, &p.NomorKamar, &p.NamaGedung, &p.Nama, &p.NIK, &p.NoTelp,
		&p.TanggalMasuk, &keluar, &p.Status, &p.CreatedAt)
	if keluar.Valid {
		p.TanggalKeluar = &keluar.Time
	}
	return p, err
}

func (ps *PenyewaService) ListPenyewa(ctx context.Context, f models.PenyewaFilter, pg utils.Pagination) ([]models.Penyewa, int, error) {
	conditions := []string{}
	params := []interface{}{}
	if f.Search != "" {
		conditions = append(conditions, "(LOWER(p.nama) LIKE ? OR p.nik LIKE ? OR p.no_telp LIKE ?)")
		like := "%" + strings.ToLower(f.Search) + "%"
		params = append(params, like, like, like)
	}
	if f.Status != "" {
		conditions = append(conditions, "p.status = ?")
		params = append(params, f.Status)
	}
	if f.IDGedung != nil {
		conditions = append(conditions, "k.id_gedung = ?")
		params = append(params, *f.IDGedung)
	}
	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := ps.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM Penyewa p JOIN Kamar k ON k.id_kamar = p.id_kamar"+where, params...).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, "gagal menghitung penyewa")
	}

	rows, err := ps.DB.QueryContext(ctx, penyewaSelect+where+" ORDER BY p.status, p.nama LIMIT ? OFFSET ?",
		append(params, pg.Limit, pg.Offset())...)
	if err != nil {
		return nil, 0, errors.Wrap(err, "gagal mengambil daftar penyewa")
	}
	defer rows.Close()

	list := []models.Penyewa{}
	for rows.Next() {
		p, err := scanPenyewa(rows)
		if err != nil {
			return nil, 0, errors.Wrap(err, "gagal membaca penyewa")
		}
		list = append(list, p)
	}
	return list, total, rows.Err()
}

func (ps *PenyewaService) getPenyewa(ctx context.Context, id int) (*models.Penyewa, error) {
	p, err := scanPenyewa(ps.DB.QueryRowContext(ctx, penyewaSelect+" WHERE p.id_penyewa = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errPenyewaNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "gagal mengambil penyewa")
	}
	return &p, nil
}

// GetPenyewa menyertakan riwayat tagihan penyewa.
func (ps *PenyewaService) GetPenyewa(ctx context.Context, id int) (*models.Penyewa, error) {
	p, err := ps.getPenyewa(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Tagihan, _, err = ps.Tagihan.ListTagihan(ctx, models.TagihanFilter{IDPenyewa: &id}, utils.Pagination{Page: 1, Limit: utils.MaxLimit})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (ps *PenyewaService) parseTanggal(s string) (time.Time, error) {
	if s == "" {
		now := ps.now().In(ps.Loc)
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, ps.Loc), nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, ps.Loc)
	if err != nil {
		return time.Time{}, errors.Wrap(errs.ErrInvalidInput, "Format tanggal harus YYYY-MM-DD")
	}
	return t, nil
}

// CheckIn mendaftarkan penyewa ke kamar kosong dan menandai kamar terisi dalam satu transaksi.
func (ps *PenyewaService) CheckIn(ctx context.Context, req models.CheckInRequest) (*models.Penyewa, error) {
	masuk, err := ps.parseTanggal(req.TanggalMasuk)
	if err != nil {
		return nil, err
	}

	tx, err := ps.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "gagal memulai transaksi")
	}
	defer tx.Rollback()

	var status string
	err = tx.QueryRowContext(ctx, "SELECT status FROM Kamar WHERE id_kamar = ? FOR UPDATE", req.IDKamar).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errKamarNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "gagal mengunci kamar")
	}
	if status != models.KamarKosong {
		return nil, errors.Wrap(errs.ErrConflict, "Kamar sudah terisi")
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO Penyewa (id_kamar, nama, nik, no_telp, tanggal_masuk, status)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		req.IDKamar, strings.TrimSpace(req.Nama), req.NIK, strings.TrimSpace(req.NoTelp), masuk, models.PenyewaAktif)
	if err != nil {
		return nil, errors.Wrap(err, "gagal menyimpan penyewa")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, errors.Wrap(err, "gagal membaca id penyewa")
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE Kamar SET status = ?, updated_at = NOW() WHERE id_kamar = ?", models.KamarTerisi, req.IDKamar); err != nil {
		return nil, errors.Wrap(err, "gagal memperbarui status kamar")
	}
	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "gagal menyimpan check-in")
	}
	return ps.getPenyewa(ctx, int(id))
}

func (ps *PenyewaService) UpdatePenyewa(ctx context.Context, id int, req models.UpdatePenyewaRequest) (*models.Penyewa, error) {
	if _, err := ps.getPenyewa(ctx, id); err != nil {
		return nil, err
	}
	if _, err := ps.DB.ExecContext(ctx,
		"UPDATE Penyewa SET nama = ?, nik = ?, no_telp = ?, updated_at = NOW() WHERE id_penyewa = ?",
		strings.TrimSpace(req.Nama), req.NIK, strings.TrimSpace(req.NoTelp), id); err != nil {
		return nil, errors.Wrap(err, "gagal memperbarui penyewa")
	}
	return ps.getPenyewa(ctx, id)
}

// CheckOut menandai penyewa keluar dan mengosongkan kamarnya.
func (ps *PenyewaService) CheckOut(ctx context.Context, id int, req models.CheckOutRequest) (*models.Penyewa, error) {
	keluar, err := ps.parseTanggal(req.TanggalKeluar)
	if err != nil {
		return nil, err
	}

	tx, err := ps.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "gagal memulai transaksi")
	}
	defer tx.Rollback()

	var (
		idKamar int
		status  string
		masuk   time.Time
	)
	err = tx.QueryRowContext(ctx,
		"SELECT id_kamar, status, tanggal_masuk FROM Penyewa WHERE id_penyewa = ? FOR UPDATE", id).
		Scan(&idKamar, &status, &masuk)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errPenyewaNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "gagal mengunci penyewa")
	}
	if status == models.PenyewaKeluar {
		return nil, errors.Wrap(errs.ErrConflict, "Penyewa sudah check-out")
	}
	if keluar.Before(masuk) {
		return nil, errors.Wrap(errs.ErrInvalidInput, "Tanggal keluar tidak boleh sebelum tanggal masuk")
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE Penyewa SET status = ?, tanggal_keluar = ?, updated_at = NOW() WHERE id_penyewa = ?",
		models.PenyewaKeluar, keluar, id); err != nil {
		return nil, errors.Wrap(err, "gagal memperbarui penyewa")
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE Kamar SET status = ?, updated_at = NOW() WHERE id_kamar = ?", models.KamarKosong, idKamar); err != nil {
		return nil, errors.Wrap(err, "gagal memperbarui status kamar")
	}
	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "gagal menyimpan check-out")
	}
	return ps.getPenyewa(ctx, id)
}

// DeletePenyewa menghapus data penyewa beserta tagihan yang belum dibayar. Penyewa yang
// punya tagihan lunas dipertahankan sebagai arsip pembayaran.
func (ps *PenyewaService) DeletePenyewa(ctx context.Context, id int) error {
	tx, err := ps.DB.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "gagal memulai transaksi")
	}
	defer tx.Rollback()

	var (
		idKamar int
		status  string
	)
	err = tx.QueryRowContext(ctx,
		"SELECT id_kamar, status FROM Penyewa WHERE id_penyewa = ? FOR UPDATE", id).Scan(&idKamar, &status)
	if errors.Is(err, sql.ErrNoRows) {
		return errPenyewaNotFound
	}
	if err != nil {
		return errors.Wrap(err, "gagal mengunci penyewa")
	}

	var lunas int
	if err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM Tagihan_Kosan WHERE id_penyewa = ? AND status = ?", id, models.TagihanPaid).
		Scan(&lunas); err != nil {
		return errors.Wrap(err, "gagal memeriksa tagihan penyewa")
	}
	if lunas > 0 {
		return errors.Wrap(errs.ErrConflict, "Penyewa memiliki tagihan yang sudah dibayar")
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM Penyewa WHERE id_penyewa = ?", id); err != nil {
		return errors.Wrap(err, "gagal menghapus penyewa")
	}
	if status == models.PenyewaAktif {
		if _, err := tx.ExecContext(ctx,
			"UPDATE Kamar SET status = ?, updated_at = NOW() WHERE id_kamar = ?", models.KamarKosong, idKamar); err != nil {
			return errors.Wrap(err, "gagal memperbarui status kamar")
		}
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "gagal menghapus penyewa")
	}
	return nil
}
