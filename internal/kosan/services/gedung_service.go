package services

import (
	"context"
	"database/sql"
	"strings"

	"github.com/pkg/errors"

	"github.com/c14220110/kasirung-backend/internal/common/errs"
	"github.com/c14220110/kasirung-backend/internal/kosan/models"
	"github.com/c14220110/kasirung-backend/pkg/storage/mariadb"
)

var errGedungNotFound = errors.Wrap(errs.ErrNotFound, "Gedung tidak ditemukan")

type GedungService struct {
	DB *sql.DB
}

func NewGedungService(db *sql.DB) *GedungService {
	return &GedungService{DB: db}
}

const gedungSelect = `
	SELECT g.id_gedung, g.nama, g.alamat, g.keterangan, g.created_at,
	       COUNT(k.id_kamar), COALESCE(SUM(k.status = 'terisi'), 0)
	FROM Gedung g
	LEFT JOIN Kamar k ON k.id_gedung = g.id_gedung`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanGedung(s rowScanner) (models.Gedung, error) {
	var (
		g          models.Gedung
		keterangan sql.NullString
	)
	err := s.Scan(&g.IDGedung, &g.Nama, &g.Alamat, &keterangan, &g.CreatedAt, &g.JumlahKamar, &g.KamarTerisi)
	if keterangan.Valid {
		g.Keterangan = &keterangan.String
	}
	return g, err
}

func (gs *GedungService) ListGedung(ctx context.Context, search string) ([]models.Gedung, error) {
	query := gedungSelect
	params := []interface{}{}
	if search != "" {
		query += " WHERE LOWER(g.nama) LIKE ? OR LOWER(g.alamat) LIKE ?"
		like := "%" + strings.ToLower(search) + "%"
		params = append(params, like, like)
	}
	query += " GROUP BY g.id_gedung, g.nama, g.alamat, g.keterangan, g.created_at ORDER BY g.nama"

	rows, err := gs.DB.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, errors.Wrap(err, "gagal mengambil daftar gedung")
	}
	defer rows.Close()

	list := []models.Gedung{}
	for rows.Next() {
		g, err := scanGedung(rows)
		if err != nil {
			return nil, errors.Wrap(err, "gagal membaca gedung")
		}
		list = append(list, g)
	}
	return list, rows.Err()
}

func (gs *GedungService) GetGedung(ctx context.Context, id int) (*models.Gedung, error) {
	g, err := scanGedung(gs.DB.QueryRowContext(ctx,
		gedungSelect+" WHERE g.id_gedung = ? GROUP BY g.id_gedung, g.nama, g.alamat, g.keterangan, g.created_at", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errGedungNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "gagal mengambil gedung")
	}
	return &g, nil
}

func (gs *GedungService) CreateGedung(ctx context.Context, req models.GedungRequest) (*models.Gedung, error) {
	res, err := gs.DB.ExecContext(ctx,
		"INSERT INTO Gedung (nama, alamat, keterangan) VALUES (?, ?, ?)",
		strings.TrimSpace(req.Nama), strings.TrimSpace(req.Alamat), req.Keterangan)
	if err != nil {
		return nil, errors.Wrap(err, "gagal menambah gedung")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, errors.Wrap(err, "gagal membaca id gedung")
	}
	return gs.GetGedung(ctx, int(id))
}

func (gs *GedungService) UpdateGedung(ctx context.Context, id int, req models.GedungRequest) (*models.Gedung, error) {
	if _, err := gs.GetGedung(ctx, id); err != nil {
		return nil, err
	}
	if _, err := gs.DB.ExecContext(ctx,
		"UPDATE Gedung SET nama = ?, alamat = ?, keterangan = ?, updated_at = NOW() WHERE id_gedung = ?",
		strings.TrimSpace(req.Nama), strings.TrimSpace(req.Alamat), req.Keterangan, id); err != nil {
		return nil, errors.Wrap(err, "gagal memperbarui gedung")
	}
	return gs.GetGedung(ctx, id)
}

// DeleteGedung hanya diizinkan bila gedung tidak memiliki kamar.
func (gs *GedungService) DeleteGedung(ctx context.Context, id int) error {
	g, err := gs.GetGedung(ctx, id)
	if err != nil {
		return err
	}
	if g.JumlahKamar > 0 {
		return errors.Wrapf(errs.ErrConflict, "Gedung masih memiliki %d kamar", g.JumlahKamar)
	}
	_, err = gs.DB.ExecContext(ctx, "DELETE FROM Gedung WHERE id_gedung = ?", id)
	if mariadb.IsForeignKeyViolation(err) {
		return errors.Wrap(errs.ErrConflict, "Gedung masih memiliki kamar")
	}
	if err != nil {
		return errors.Wrap(err, "gagal menghapus gedung")
	}
	return nil
}
