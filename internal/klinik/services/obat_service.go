package services

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/c14220110/kasirung-backend/internal/common/errs"
	"github.com/c14220110/kasirung-backend/internal/klinik/models"
	"github.com/c14220110/kasirung-backend/pkg/storage/mariadb"
	"github.com/c14220110/kasirung-backend/pkg/utils"
	"github.com/c14220110/kasirung-backend/ws"
)

var (
	errObatNotFound = errors.Wrap(errs.ErrNotFound, "Obat tidak ditemukan")
	errKodeObat     = errors.Wrap(errs.ErrConflict, "Kode obat sudah digunakan")
)

type ObatService struct {
	DB     *sql.DB
	Events *ws.Hub
	now    func() time.Time
}

func NewObatService(db *sql.DB, events *ws.Hub) *ObatService {
	return &ObatService{DB: db, Events: events, now: time.Now}
}

const obatSelect = `
	SELECT id_obat, kode, nama, satuan, harga, stok, stok_minimum, created_at
	FROM Obat`

func scanObat(s rowScanner) (models.Obat, error) {
	var o models.Obat
	err := s.Scan(&o.IDObat, &o.Kode, &o.Nama, &o.Satuan, &o.Harga, &o.Stok, &o.StokMinimum, &o.CreatedAt)
	o.StokMenipis = o.Stok <= o.StokMinimum
	return o, err
}

func (s *ObatService) ListObat(ctx context.Context, f models.ObatFilter, pg utils.Pagination) ([]models.Obat, int, error) {
	conditions := []string{"deleted_at IS NULL"}
	params := []interface{}{}
	if f.Search != "" {
		conditions = append(conditions, "(LOWER(nama) LIKE ? OR LOWER(kode) LIKE ?)")
		like := "%" + strings.ToLower(f.Search) + "%"
		params = append(params, like, like)
	}
	if f.StokMenipis {
		conditions = append(conditions, "stok <= stok_minimum")
	}
	where := " WHERE " + strings.Join(conditions, " AND ")

	var total int
	if err := s.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM Obat"+where, params...).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, "gagal menghitung obat")
	}

	rows, err := s.DB.QueryContext(ctx, obatSelect+where+" ORDER BY nama LIMIT ? OFFSET ?",
		append(params, pg.Limit, pg.Offset())...)
	if err != nil {
		return nil, 0, errors.Wrap(err, "gagal mengambil daftar obat")
	}
	defer rows.Close()

	list := []models.Obat{}
	for rows.Next() {
		o, err := scanObat(rows)
		if err != nil {
			return nil, 0, errors.Wrap(err, "gagal membaca obat")
		}
		list = append(list, o)
	}
	return list, total, rows.Err()
}

func (s *ObatService) GetObat(ctx context.Context, id int) (*models.Obat, error) {
	o, err := scanObat(s.DB.QueryRowContext(ctx, obatSelect+" WHERE id_obat = ? AND deleted_at IS NULL", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errObatNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "gagal mengambil obat")
	}
	return &o, nil
}

// CreateObat membuat obat dengan stok awal nol; stok masuk dicatat lewat mutasi.
func (s *ObatService) CreateObat(ctx context.Context, req models.ObatRequest) (*models.Obat, error) {
	res, err := s.DB.ExecContext(ctx,
		"INSERT INTO Obat (kode, nama, satuan, harga, stok, stok_minimum) VALUES (?, ?, ?, ?, 0, ?)",
		strings.TrimSpace(req.Kode), strings.TrimSpace(req.Nama), strings.TrimSpace(req.Satuan), req.Harga, req.StokMinimum)
	if mariadb.IsDuplicateEntry(err) {
		return nil, errKodeObat
	}
	if err != nil {
		return nil, errors.Wrap(err, "gagal menambah obat")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, errors.Wrap(err, "gagal membaca id obat")
	}
	return s.GetObat(ctx, int(id))
}

func (s *ObatService) UpdateObat(ctx context.Context, id int, req models.ObatRequest) (*models.Obat, error) {
	if _, err := s.GetObat(ctx, id); err != nil {
		return nil, err
	}
	_, err := s.DB.ExecContext(ctx,
		`UPDATE Obat SET kode = ?, nama = ?, satuan = ?, harga = ?, stok_minimum = ?, updated_at = NOW()
		 WHERE id_obat = ?`,
		strings.TrimSpace(req.Kode), strings.TrimSpace(req.Nama), strings.TrimSpace(req.Satuan), req.Harga, req.StokMinimum, id)
	if mariadb.IsDuplicateEntry(err) {
		return nil, errKodeObat
	}
	if err != nil {
		return nil, errors.Wrap(err, "gagal memperbarui obat")
	}
	return s.GetObat(ctx, id)
}

// DeleteObat hanya menandai deleted_at; resep dan mutasi lama tetap merujuk obat ini.
func (s *ObatService) DeleteObat(ctx context.Context, id int) error {
	res, err := s.DB.ExecContext(ctx,
		"UPDATE Obat SET deleted_at = NOW() WHERE id_obat = ? AND deleted_at IS NULL", id)
	if err != nil {
		return errors.Wrap(err, "gagal menghapus obat")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errObatNotFound
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func insertMutasi(ctx context.Context, tx execer, m models.MutasiStok) error {
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO Mutasi_Stok (id_obat, tipe, jumlah, stok_awal, stok_akhir, keterangan, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.IDObat, m.Tipe, m.Jumlah, m.StokAwal, m.StokAkhir, m.Keterangan, m.CreatedAt); err != nil {
		return errors.Wrap(err, "gagal mencatat mutasi stok")
	}
	return nil
}

// MutasiStok mencatat obat masuk (restock) atau keluar manual beserta stok sebelum dan
// sesudahnya. Stok keluar tidak boleh melebihi stok tersedia.
func (s *ObatService) MutasiStok(ctx context.Context, id int, req models.MutasiRequest) (*models.Obat, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "gagal memulai transaksi")
	}
	defer tx.Rollback()

	var (
		nama          string
		stok, minimum int
	)
	err = tx.QueryRowContext(ctx,
		"SELECT nama, stok, stok_minimum FROM Obat WHERE id_obat = ? AND deleted_at IS NULL FOR UPDATE", id).
		Scan(&nama, &stok, &minimum)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errObatNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "gagal mengunci obat")
	}

	baru := stok + req.Jumlah
	if req.Tipe == models.MutasiKeluar {
		baru = stok - req.Jumlah
		if baru < 0 {
			return nil, errors.Wrapf(errs.ErrConflict, "Stok %s tidak mencukupi (tersisa %d)", nama, stok)
		}
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE Obat SET stok = ?, updated_at = NOW() WHERE id_obat = ?", baru, id); err != nil {
		return nil, errors.Wrap(err, "gagal memperbarui stok obat")
	}
	if err := insertMutasi(ctx, tx, models.MutasiStok{
		IDObat: id, Tipe: req.Tipe, Jumlah: req.Jumlah, StokAwal: stok, StokAkhir: baru,
		Keterangan: emptyToNil(req.Keterangan), CreatedAt: s.now(),
	}); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "gagal menyimpan mutasi stok")
	}

	log.Info().Int("id_obat", id).Str("tipe", req.Tipe).Int("stok_awal", stok).Int("stok_akhir", baru).
		Msg("Mutasi stok obat")
	if baru <= minimum {
		s.Events.Publish(ws.EventStokMenipis, map[string]interface{}{
			"modul": "klinik", "id_obat": id, "nama": nama, "stok": baru,
		})
	}
	return s.GetObat(ctx, id)
}

// RiwayatMutasi mengembalikan mutasi stok satu obat, terbaru lebih dulu.
func (s *ObatService) RiwayatMutasi(ctx context.Context, id int, pg utils.Pagination) ([]models.MutasiStok, int, error) {
	if _, err := s.GetObat(ctx, id); err != nil {
		return nil, 0, err
	}
	var total int
	if err := s.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM Mutasi_Stok WHERE id_obat = ?", id).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, "gagal menghitung mutasi stok")
	}
	rows, err := s.DB.QueryContext(ctx,
		`SELECT id_mutasi, id_obat, tipe, jumlah, stok_awal, stok_akhir, keterangan, created_at
		 FROM Mutasi_Stok WHERE id_obat = ?
		 ORDER BY created_at DESC, id_mutasi DESC LIMIT ? OFFSET ?`,
		id, pg.Limit, pg.Offset())
	if err != nil {
		return nil, 0, errors.Wrap(err, "gagal mengambil mutasi stok")
	}
	defer rows.Close()

	list := []models.MutasiStok{}
	for rows.Next() {
		var (
			m   models.MutasiStok
			ket sql.NullString
		)
		if err := rows.Scan(&m.IDMutasi, &m.IDObat, &m.Tipe, &m.Jumlah, &m.StokAwal, &m.StokAkhir, &ket, &m.CreatedAt); err != nil {
			return nil, 0, errors.Wrap(err, "gagal membaca mutasi stok")
		}
		m.Keterangan = nullString(ket)
		list = append(list, m)
	}
	return list, total, rows.Err()
}
