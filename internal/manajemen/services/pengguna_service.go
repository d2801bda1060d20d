package services

import (
	"context"
	"database/sql"
	"strings"

	"github.com/pkg/errors"

	authServices "github.com/c14220110/kasirung-backend/internal/auth/services"
	"github.com/c14220110/kasirung-backend/internal/common/errs"
	"github.com/c14220110/kasirung-backend/internal/manajemen/models"
	"github.com/c14220110/kasirung-backend/pkg/session"
	"github.com/c14220110/kasirung-backend/pkg/storage/mariadb"
	"github.com/c14220110/kasirung-backend/pkg/utils"
)

type PenggunaService struct {
	DB *sql.DB
	// Sessions boleh nil (perintah CLI); tanpa store tidak ada sesi yang dicabut.
	Sessions *session.Store
}

func NewPenggunaService(db *sql.DB, sessions *session.Store) *PenggunaService {
	return &PenggunaService{DB: db, Sessions: sessions}
}

const penggunaSelect = `
	SELECT p.id_pengguna, p.nama, p.username, p.id_role, r.nama_role,
	       p.created_at, p.updated_at, p.deleted_at
	FROM Pengguna p
	JOIN Role r ON r.id_role = p.id_role`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPengguna(s rowScanner) (models.Pengguna, error) {
	var (
		p         models.Pengguna
		deletedAt sql.NullTime
	)
	err := s.Scan(&p.IDPengguna, &p.Nama, &p.Username, &p.IDRole, &p.NamaRole,
		&p.CreatedAt, &p.UpdatedAt, &deletedAt)
	p.Status = "aktif"
	if deletedAt.Valid {
		p.Status = "nonaktif"
		p.DeletedAt = &deletedAt.Time
	}
	return p, err
}

// ListPengguna mencari berdasarkan nama atau username (tidak peka huruf besar).
func (ps *PenggunaService) ListPengguna(ctx context.Context, f models.PenggunaFilter, pg utils.Pagination) ([]models.Pengguna, int, error) {
	conditions := []string{}
	params := []interface{}{}
	if f.Search != "" {
		conditions = append(conditions, "(LOWER(p.nama) LIKE ? OR LOWER(p.username) LIKE ?)")
		like := "%" + strings.ToLower(f.Search) + "%"
		params = append(params, like, like)
	}
	if f.IDRole != nil {
		conditions = append(conditions, "p.id_role = ?")
		params = append(params, *f.IDRole)
	}
	switch strings.ToLower(f.Status) {
	case "aktif":
		conditions = append(conditions, "p.deleted_at IS NULL")
	case "nonaktif":
		conditions = append(conditions, "p.deleted_at IS NOT NULL")
	}
	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := ps.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM Pengguna p JOIN Role r ON r.id_role = p.id_role"+where, params...).
		Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, "gagal menghitung pengguna")
	}

	rows, err := ps.DB.QueryContext(ctx,
		penggunaSelect+where+" ORDER BY p.nama LIMIT ? OFFSET ?",
		append(params, pg.Limit, pg.Offset())...)
	if err != nil {
		return nil, 0, errors.Wrap(err, "gagal mengambil daftar pengguna")
	}
	defer rows.Close()

	list := []models.Pengguna{}
	for rows.Next() {
		p, err := scanPengguna(rows)
		if err != nil {
			return nil, 0, errors.Wrap(err, "gagal membaca pengguna")
		}
		list = append(list, p)
	}
	return list, total, rows.Err()
}

func (ps *PenggunaService) GetPengguna(ctx context.Context, id int) (*models.Pengguna, error) {
	p, err := scanPengguna(ps.DB.QueryRowContext(ctx, penggunaSelect+" WHERE p.id_pengguna = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Wrap(errs.ErrNotFound, "Pengguna tidak ditemukan")
	}
	if err != nil {
		return nil, errors.Wrap(err, "gagal mengambil pengguna")
	}
	return &p, nil
}

func (ps *PenggunaService) ensureRoleAktif(ctx context.Context, idRole int) error {
	var n int
	err := ps.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM Role WHERE id_role = ? AND deleted_at IS NULL", idRole).Scan(&n)
	if err != nil {
		return errors.Wrap(err, "gagal memeriksa role")
	}
	if n == 0 {
		return errors.Wrap(errs.ErrInvalidInput, "Role tidak ditemukan atau nonaktif")
	}
	return nil
}

func (ps *PenggunaService) CreatePengguna(ctx context.Context, req models.CreatePenggunaRequest) (*models.Pengguna, error) {
	if err := ps.ensureRoleAktif(ctx, req.IDRole); err != nil {
		return nil, err
	}
	hash, err := authServices.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	res, err := ps.DB.ExecContext(ctx,
		"INSERT INTO Pengguna (nama, username, password, id_role) VALUES (?, ?, ?, ?)",
		strings.TrimSpace(req.Nama), strings.TrimSpace(req.Username), hash, req.IDRole)
	if mariadb.IsDuplicateEntry(err) {
		return nil, errors.Wrap(errs.ErrConflict, "Username sudah digunakan")
	}
	if err != nil {
		return nil, errors.Wrap(err, "gagal menambah pengguna")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, errors.Wrap(err, "gagal membaca id pengguna")
	}
	return ps.GetPengguna(ctx, int(id))
}

func (ps *PenggunaService) UpdatePengguna(ctx context.Context, id int, req models.UpdatePenggunaRequest) (*models.Pengguna, error) {
	if _, err := ps.GetPengguna(ctx, id); err != nil {
		return nil, err
	}
	if err := ps.ensureRoleAktif(ctx, req.IDRole); err != nil {
		return nil, err
	}

	query := "UPDATE Pengguna SET nama = ?, username = ?, id_role = ?, updated_at = NOW()"
	params := []interface{}{strings.TrimSpace(req.Nama), strings.TrimSpace(req.Username), req.IDRole}
	if req.Password != "" {
		hash, err := authServices.HashPassword(req.Password)
		if err != nil {
			return nil, err
		}
		query += ", password = ?"
		params = append(params, hash)
	}
	query += " WHERE id_pengguna = ?"
	params = append(params, id)

	_, err := ps.DB.ExecContext(ctx, query, params...)
	if mariadb.IsDuplicateEntry(err) {
		return nil, errors.Wrap(errs.ErrConflict, "Username sudah digunakan")
	}
	if err != nil {
		return nil, errors.Wrap(err, "gagal memperbarui pengguna")
	}
	return ps.GetPengguna(ctx, id)
}

// SoftDeletePengguna menonaktifkan akun dan mencabut semua sesinya sehingga token yang
// sudah beredar langsung ditolak.
func (ps *PenggunaService) SoftDeletePengguna(ctx context.Context, id, actorID int) error {
	if id == actorID {
		return errors.Wrap(errs.ErrInvalidInput, "Tidak dapat menonaktifkan akun sendiri")
	}
	if _, err := ps.GetPengguna(ctx, id); err != nil {
		return err
	}
	if _, err := ps.DB.ExecContext(ctx,
		"UPDATE Pengguna SET deleted_at = NOW() WHERE id_pengguna = ? AND deleted_at IS NULL", id); err != nil {
		return errors.Wrap(err, "gagal menonaktifkan pengguna")
	}
	if ps.Sessions != nil {
		return ps.Sessions.DeleteByPengguna(ctx, id)
	}
	return nil
}

func (ps *PenggunaService) ActivatePengguna(ctx context.Context, id int) error {
	if _, err := ps.GetPengguna(ctx, id); err != nil {
		return err
	}
	if _, err := ps.DB.ExecContext(ctx,
		"UPDATE Pengguna SET deleted_at = NULL, updated_at = NOW() WHERE id_pengguna = ?", id); err != nil {
		return errors.Wrap(err, "gagal mengaktifkan pengguna")
	}
	return nil
}

// SeedAdmin membuat role admin bila belum ada lalu akun admin. Dipanggil dari CLI.
func (ps *PenggunaService) SeedAdmin(ctx context.Context, username, password, nama string) (*models.Pengguna, error) {
	if _, err := ps.DB.ExecContext(ctx,
		"INSERT INTO Role (nama_role) VALUES (?) ON DUPLICATE KEY UPDATE deleted_at = NULL", roleAdmin); err != nil {
		return nil, errors.Wrap(err, "gagal menyiapkan role admin")
	}
	var idRole int
	if err := ps.DB.QueryRowContext(ctx,
		"SELECT id_role FROM Role WHERE nama_role = ?", roleAdmin).Scan(&idRole); err != nil {
		return nil, errors.Wrap(err, "gagal mengambil role admin")
	}
	return ps.CreatePengguna(ctx, models.CreatePenggunaRequest{
		Nama:     nama,
		Username: username,
		Password: password,
		IDRole:   idRole,
	})
}
