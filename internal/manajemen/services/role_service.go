package services

import (
	"context"
	"database/sql"
	"strings"

	"github.com/pkg/errors"

	"github.com/c14220110/kasirung-backend/internal/common/errs"
	"github.com/c14220110/kasirung-backend/internal/manajemen/models"
	"github.com/c14220110/kasirung-backend/pkg/session"
	"github.com/c14220110/kasirung-backend/pkg/storage/mariadb"
)

const roleAdmin = "admin"

type RoleService struct {
	DB       *sql.DB
	Sessions *session.Store
}

func NewRoleService(db *sql.DB, sessions *session.Store) *RoleService {
	return &RoleService{DB: db, Sessions: sessions}
}

// GetRoleList mengambil daftar role dengan filter opsional status ("aktif" / "nonaktif").
// Status lain atau kosong mengembalikan semua role.
func (rs *RoleService) GetRoleList(ctx context.Context, statusFilter string) ([]models.Role, error) {
	query := "SELECT id_role, nama_role, created_at, deleted_at FROM Role"
	switch strings.ToLower(statusFilter) {
	case "aktif":
		query += " WHERE deleted_at IS NULL"
	case "nonaktif":
		query += " WHERE deleted_at IS NOT NULL"
	}
	query += " ORDER BY id_role"

	rows, err := rs.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "gagal mengambil daftar role")
	}
	defer rows.Close()

	list := []models.Role{}
	for rows.Next() {
		var (
			r         models.Role
			deletedAt sql.NullTime
		)
		if err := rows.Scan(&r.IDRole, &r.NamaRole, &r.CreatedAt, &deletedAt); err != nil {
			return nil, errors.Wrap(err, "gagal membaca role")
		}
		r.Status = "aktif"
		if deletedAt.Valid {
			r.Status = "nonaktif"
			r.DeletedAt = &deletedAt.Time
		}
		list = append(list, r)
	}
	return list, rows.Err()
}

func (rs *RoleService) GetRole(ctx context.Context, idRole int) (*models.Role, error) {
	var (
		r         models.Role
		deletedAt sql.NullTime
	)
	err := rs.DB.QueryRowContext(ctx,
		"SELECT id_role, nama_role, created_at, deleted_at FROM Role WHERE id_role = ?", idRole).
		Scan(&r.IDRole, &r.NamaRole, &r.CreatedAt, &deletedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Wrap(errs.ErrNotFound, "Role tidak ditemukan")
	}
	if err != nil {
		return nil, errors.Wrap(err, "gagal mengambil role")
	}
	r.Status = "aktif"
	if deletedAt.Valid {
		r.Status = "nonaktif"
		r.DeletedAt = &deletedAt.Time
	}
	return &r, nil
}

// AddRole memasukkan role baru; nama role unik.
func (rs *RoleService) AddRole(ctx context.Context, namaRole string) (*models.Role, error) {
	namaRole = strings.TrimSpace(namaRole)
	res, err := rs.DB.ExecContext(ctx, "INSERT INTO Role (nama_role) VALUES (?)", namaRole)
	if mariadb.IsDuplicateEntry(err) {
		return nil, errors.Wrap(errs.ErrConflict, "Nama role sudah digunakan")
	}
	if err != nil {
		return nil, errors.Wrap(err, "gagal menambah role")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, errors.Wrap(err, "gagal membaca id role")
	}
	return rs.GetRole(ctx, int(id))
}

func (rs *RoleService) UpdateRole(ctx context.Context, idRole int, namaRole string) (*models.Role, error) {
	current, err := rs.GetRole(ctx, idRole)
	if err != nil {
		return nil, err
	}
	if current.NamaRole == roleAdmin {
		return nil, errors.Wrap(errs.ErrInvalidInput, "Role admin tidak dapat diubah")
	}
	_, err = rs.DB.ExecContext(ctx,
		"UPDATE Role SET nama_role = ?, updated_at = NOW() WHERE id_role = ?", strings.TrimSpace(namaRole), idRole)
	if mariadb.IsDuplicateEntry(err) {
		return nil, errors.Wrap(errs.ErrConflict, "Nama role sudah digunakan")
	}
	if err != nil {
		return nil, errors.Wrap(err, "gagal memperbarui role")
	}
	return rs.GetRole(ctx, idRole)
}

// SoftDeleteRole menonaktifkan role. Pengguna dengan role nonaktif tidak dapat login dan
// sesi yang masih berjalan dicabut.
func (rs *RoleService) SoftDeleteRole(ctx context.Context, idRole int) error {
	current, err := rs.GetRole(ctx, idRole)
	if err != nil {
		return err
	}
	if current.NamaRole == roleAdmin {
		return errors.Wrap(errs.ErrInvalidInput, "Role admin tidak dapat dinonaktifkan")
	}
	if current.DeletedAt != nil {
		return nil
	}
	if _, err := rs.DB.ExecContext(ctx, "UPDATE Role SET deleted_at = NOW() WHERE id_role = ?", idRole); err != nil {
		return errors.Wrap(err, "gagal menonaktifkan role")
	}
	if rs.Sessions == nil {
		return nil
	}

	rows, err := rs.DB.QueryContext(ctx, "SELECT id_pengguna FROM Pengguna WHERE id_role = ?", idRole)
	if err != nil {
		return errors.Wrap(err, "gagal mengambil pengguna role")
	}
	defer rows.Close()
	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return errors.Wrap(err, "gagal membaca pengguna role")
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	return rs.Sessions.DeleteByPengguna(ctx, ids...)
}

func (rs *RoleService) ActivateRole(ctx context.Context, idRole int) error {
	if _, err := rs.GetRole(ctx, idRole); err != nil {
		return err
	}
	if _, err := rs.DB.ExecContext(ctx,
		"UPDATE Role SET deleted_at = NULL, updated_at = NOW() WHERE id_role = ?", idRole); err != nil {
		return errors.Wrap(err, "gagal mengaktifkan role")
	}
	return nil
}
