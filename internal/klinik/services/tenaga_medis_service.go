package services

import (
	"context"
	"database/sql"
	"strings"

	"github.com/pkg/errors"

	"github.com/c14220110/kasirung-backend/internal/common/errs"
	"github.com/c14220110/kasirung-backend/internal/klinik/models"
	"github.com/c14220110/kasirung-backend/pkg/storage/mariadb"
)

var errTenagaMedisNotFound = errors.Wrap(errs.ErrNotFound, "Tenaga medis tidak ditemukan")

type TenagaMedisService struct {
	DB *sql.DB
}

func NewTenagaMedisService(db *sql.DB) *TenagaMedisService {
	return &TenagaMedisService{DB: db}
}

const tenagaMedisSelect = `
	SELECT id_tenaga_medis, nama, profesi, spesialisasi, no_str, no_telp, tarif, aktif, created_at
	FROM Tenaga_Medis`

func scanTenagaMedis(s rowScanner) (models.TenagaMedis, error) {
	var (
		tm                  models.TenagaMedis
		spesialis, str, tlp sql.NullString
	)
	err := s.Scan(&tm.IDTenagaMedis, &tm.Nama, &tm.Profesi, &spesialis, &str, &tlp, &tm.Tarif, &tm.Aktif, &tm.CreatedAt)
	tm.Spesialisasi = nullString(spesialis)
	tm.NoSTR = nullString(str)
	tm.NoTelp = nullString(tlp)
	return tm, err
}

func (ts *TenagaMedisService) ListTenagaMedis(ctx context.Context, f models.TenagaMedisFilter) ([]models.TenagaMedis, error) {
	conditions := []string{}
	params := []interface{}{}
	if f.Profesi != "" {
		conditions = append(conditions, "profesi = ?")
		params = append(params, f.Profesi)
	}
	if f.Aktif != nil {
		conditions = append(conditions, "aktif = ?")
		params = append(params, *f.Aktif)
	}
	query := tenagaMedisSelect
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY nama"

	rows, err := ts.DB.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, errors.Wrap(err, "gagal mengambil daftar tenaga medis")
	}
	defer rows.Close()

	list := []models.TenagaMedis{}
	for rows.Next() {
		tm, err := scanTenagaMedis(rows)
		if err != nil {
			return nil, errors.Wrap(err, "gagal membaca tenaga medis")
		}
		list = append(list, tm)
	}
	return list, rows.Err()
}

func (ts *TenagaMedisService) GetTenagaMedis(ctx context.Context, id int) (*models.TenagaMedis, error) {
	tm, err := scanTenagaMedis(ts.DB.QueryRowContext(ctx, tenagaMedisSelect+" WHERE id_tenaga_medis = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errTenagaMedisNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "gagal mengambil tenaga medis")
	}
	return &tm, nil
}

func aktifOrDefault(a *bool) bool {
	return a == nil || *a
}

func (ts *TenagaMedisService) CreateTenagaMedis(ctx context.Context, req models.TenagaMedisRequest) (*models.TenagaMedis, error) {
	res, err := ts.DB.ExecContext(ctx,
		`INSERT INTO Tenaga_Medis (nama, profesi, spesialisasi, no_str, no_telp, tarif, aktif)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		strings.TrimSpace(req.Nama), req.Profesi, emptyToNil(req.Spesialisasi), emptyToNil(req.NoSTR),
		emptyToNil(req.NoTelp), req.Tarif, aktifOrDefault(req.Aktif))
	if err != nil {
		return nil, errors.Wrap(err, "gagal menambah tenaga medis")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, errors.Wrap(err, "gagal membaca id tenaga medis")
	}
	return ts.GetTenagaMedis(ctx, int(id))
}

func (ts *TenagaMedisService) UpdateTenagaMedis(ctx context.Context, id int, req models.TenagaMedisRequest) (*models.TenagaMedis, error) {
	if _, err := ts.GetTenagaMedis(ctx, id); err != nil {
		return nil, err
	}
	if _, err := ts.DB.ExecContext(ctx,
		`UPDATE Tenaga_Medis SET nama = ?, profesi = ?, spesialisasi = ?, no_str = ?, no_telp = ?, tarif = ?,
		        aktif = ?, updated_at = NOW()
		 WHERE id_tenaga_medis = ?`,
		strings.TrimSpace(req.Nama), req.Profesi, emptyToNil(req.Spesialisasi), emptyToNil(req.NoSTR),
		emptyToNil(req.NoTelp), req.Tarif, aktifOrDefault(req.Aktif), id); err != nil {
		return nil, errors.Wrap(err, "gagal memperbarui tenaga medis")
	}
	return ts.GetTenagaMedis(ctx, id)
}

// DeleteTenagaMedis ditolak bila tenaga medis sudah tercatat di konsultasi; nonaktifkan saja.
func (ts *TenagaMedisService) DeleteTenagaMedis(ctx context.Context, id int) error {
	if _, err := ts.GetTenagaMedis(ctx, id); err != nil {
		return err
	}
	var n int
	if err := ts.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM Konsultasi WHERE id_tenaga_medis = ?", id).Scan(&n); err != nil {
		return errors.Wrap(err, "gagal memeriksa konsultasi tenaga medis")
	}
	if n > 0 {
		return errors.Wrap(errs.ErrConflict, "Tenaga medis sudah menangani konsultasi, nonaktifkan saja")
	}
	_, err := ts.DB.ExecContext(ctx, "DELETE FROM Tenaga_Medis WHERE id_tenaga_medis = ?", id)
	if mariadb.IsForeignKeyViolation(err) {
		return errors.Wrap(errs.ErrConflict, "Tenaga medis sudah menangani konsultasi, nonaktifkan saja")
	}
	if err != nil {
		return errors.Wrap(err, "gagal menghapus tenaga medis")
	}
	return nil
}
