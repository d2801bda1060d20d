package services

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/c14220110/kasirung-backend/internal/common/errs"
	"github.com/c14220110/kasirung-backend/internal/common/sequence"
	"github.com/c14220110/kasirung-backend/internal/klinik/models"
	"github.com/c14220110/kasirung-backend/pkg/storage/mariadb"
	"github.com/c14220110/kasirung-backend/pkg/utils"
)

var (
	errPasienNotFound = errors.Wrap(errs.ErrNotFound, "Pasien tidak ditemukan")
	errNIKTerdaftar   = errors.Wrap(errs.ErrConflict, "NIK sudah terdaftar")
)

type rowScanner interface {
	Scan(dest ...interface{}) error
}

type PasienService struct {
	DB  *sql.DB
	Loc *time.Location
	now func() time.Time
}

func NewPasienService(db *sql.DB, loc *time.Location) *PasienService {
	return &PasienService{DB: db, Loc: loc, now: time.Now}
}

const pasienSelect = `
	SELECT id_pasien, no_rm, nama, nik, tanggal_lahir, jenis_kelamin, alamat, no_telp, golongan_darah, created_at
	FROM Pasien`

func scanPasien(s rowScanner) (models.Pasien, error) {
	var (
		p                           models.Pasien
		nik, alamat, telp, golDarah sql.NullString
	)
	err := s.Scan(&p.IDPasien, &p.NoRM, &p.Nama, &nik, &p.TanggalLahir, &p.JenisKelamin, &alamat, &telp, &golDarah, &p.CreatedAt)
	p.NIK = nullString(nik)
	p.Alamat = nullString(alamat)
	p.NoTelp = nullString(telp)
	p.GolonganDarah = nullString(golDarah)
	return p, err
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}

// emptyToNil membuat NIK kosong disimpan sebagai NULL agar tidak bentrok dengan unique key.
func emptyToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

// ListPasien mencari pasien berdasarkan nama, nomor rekam medis, atau NIK tanpa
// membedakan huruf besar kecil.
func (ps *PasienService) ListPasien(ctx context.Context, search string, pg utils.Pagination) ([]models.Pasien, int, error) {
	where := ""
	params := []interface{}{}
	if search != "" {
		where = " WHERE LOWER(nama) LIKE ? OR LOWER(no_rm) LIKE ? OR nik LIKE ?"
		like := "%" + strings.ToLower(search) + "%"
		params = append(params, like, like, like)
	}

	var total int
	if err := ps.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM Pasien"+where, params...).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, "gagal menghitung pasien")
	}

	rows, err := ps.DB.QueryContext(ctx, pasienSelect+where+" ORDER BY created_at DESC, id_pasien DESC LIMIT ? OFFSET ?",
		append(params, pg.Limit, pg.Offset())...)
	if err != nil {
		return nil, 0, errors.Wrap(err, "gagal mengambil daftar pasien")
	}
	defer rows.Close()

	list := []models.Pasien{}
	for rows.Next() {
		p, err := scanPasien(rows)
		if err != nil {
			return nil, 0, errors.Wrap(err, "gagal membaca pasien")
		}
		list = append(list, p)
	}
	return list, total, rows.Err()
}

func (ps *PasienService) getPasien(ctx context.Context, id int) (*models.Pasien, error) {
	p, err := scanPasien(ps.DB.QueryRowContext(ctx, pasienSelect+" WHERE id_pasien = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errPasienNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "gagal mengambil pasien")
	}
	return &p, nil
}

// GetPasien menyertakan riwayat konsultasi pasien, terbaru lebih dulu.
func (ps *PasienService) GetPasien(ctx context.Context, id int) (*models.Pasien, error) {
	p, err := ps.getPasien(ctx, id)
	if err != nil {
		return nil, err
	}
	rows, err := ps.DB.QueryContext(ctx, konsultasiSelect+" WHERE k.id_pasien = ? ORDER BY k.tanggal DESC", id)
	if err != nil {
		return nil, errors.Wrap(err, "gagal mengambil riwayat konsultasi")
	}
	defer rows.Close()

	p.Riwayat = []models.Konsultasi{}
	for rows.Next() {
		k, err := scanKonsultasi(rows)
		if err != nil {
			return nil, errors.Wrap(err, "gagal membaca riwayat konsultasi")
		}
		p.Riwayat = append(p.Riwayat, k)
	}
	return p, rows.Err()
}

func (ps *PasienService) parseTanggalLahir(s string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", s, ps.Loc)
	if err != nil {
		return time.Time{}, errors.Wrap(errs.ErrInvalidInput, "Format tanggal lahir harus YYYY-MM-DD")
	}
	if t.After(ps.now()) {
		return time.Time{}, errors.Wrap(errs.ErrInvalidInput, "Tanggal lahir tidak boleh di masa depan")
	}
	return t, nil
}

// CreatePasien mendaftarkan pasien baru. Nomor rekam medis diambil dari nomor urut tahunan
// yang dikunci di dalam transaksi yang sama dengan INSERT pasien.
func (ps *PasienService) CreatePasien(ctx context.Context, req models.PasienRequest) (*models.Pasien, error) {
	lahir, err := ps.parseTanggalLahir(req.TanggalLahir)
	if err != nil {
		return nil, err
	}
	year := ps.now().In(ps.Loc).Year()

	tx, err := ps.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "gagal memulai transaksi")
	}
	defer tx.Rollback()

	seq, err := sequence.Next(ctx, tx, sequence.RekamMedis, strconv.Itoa(year))
	if err != nil {
		return nil, err
	}
	noRM := sequence.FormatRM(year, seq)

	res, err := tx.ExecContext(ctx,
		`INSERT INTO Pasien (no_rm, nama, nik, tanggal_lahir, jenis_kelamin, alamat, no_telp, golongan_darah)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		noRM, strings.TrimSpace(req.Nama), emptyToNil(req.NIK), lahir, req.JenisKelamin,
		emptyToNil(req.Alamat), emptyToNil(req.NoTelp), emptyToNil(req.GolonganDarah))
	if mariadb.IsDuplicateEntry(err) {
		return nil, errNIKTerdaftar
	}
	if err != nil {
		return nil, errors.Wrap(err, "gagal menyimpan pasien")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, errors.Wrap(err, "gagal membaca id pasien")
	}
	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "gagal menyimpan pasien")
	}
	return ps.getPasien(ctx, int(id))
}

// UpdatePasien tidak pernah mengubah nomor rekam medis.
func (ps *PasienService) UpdatePasien(ctx context.Context, id int, req models.PasienRequest) (*models.Pasien, error) {
	lahir, err := ps.parseTanggalLahir(req.TanggalLahir)
	if err != nil {
		return nil, err
	}
	if _, err := ps.getPasien(ctx, id); err != nil {
		return nil, err
	}
	_, err = ps.DB.ExecContext(ctx,
		`UPDATE Pasien SET nama = ?, nik = ?, tanggal_lahir = ?, jenis_kelamin = ?, alamat = ?, no_telp = ?,
		        golongan_darah = ?, updated_at = NOW()
		 WHERE id_pasien = ?`,
		strings.TrimSpace(req.Nama), emptyToNil(req.NIK), lahir, req.JenisKelamin,
		emptyToNil(req.Alamat), emptyToNil(req.NoTelp), emptyToNil(req.GolonganDarah), id)
	if mariadb.IsDuplicateEntry(err) {
		return nil, errNIKTerdaftar
	}
	if err != nil {
		return nil, errors.Wrap(err, "gagal memperbarui pasien")
	}
	return ps.getPasien(ctx, id)
}

// DeletePasien ditolak bila pasien sudah pernah berkonsultasi.
func (ps *PasienService) DeletePasien(ctx context.Context, id int) error {
	if _, err := ps.getPasien(ctx, id); err != nil {
		return err
	}
	var n int
	if err := ps.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM Konsultasi WHERE id_pasien = ?", id).Scan(&n); err != nil {
		return errors.Wrap(err, "gagal memeriksa riwayat pasien")
	}
	if n > 0 {
		return errors.Wrap(errs.ErrConflict, "Pasien memiliki riwayat konsultasi dan tidak dapat dihapus")
	}
	_, err := ps.DB.ExecContext(ctx, "DELETE FROM Pasien WHERE id_pasien = ?", id)
	if mariadb.IsForeignKeyViolation(err) {
		return errors.Wrap(errs.ErrConflict, "Pasien memiliki riwayat konsultasi dan tidak dapat dihapus")
	}
	if err != nil {
		return errors.Wrap(err, "gagal menghapus pasien")
	}
	return nil
}
