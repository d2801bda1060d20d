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

var errKamarNotFound = errors.Wrap(errs.ErrNotFound, "Kamar tidak ditemukan")

type KamarService struct {
	DB *sql.DB
}

func NewKamarService(db *sql.DB) *KamarService {
	return &KamarService{DB: db}
}

const kamarSelect = `
	SELECT k.id_kamar, k.id_gedung, g.nama, k.nomor_kamar, k.harga_bulanan, k.fasilitas, k.status, k.created_at
	FROM Kamar k
	JOIN Gedung g ON g.id_gedung = k.id_gedung`

func scanKamar(s rowScanner) (models.Kamar, error) {
	var (
		k         models.Kamar
		fasilitas sql.NullString
	)
	err := s.Scan(&k.IDKamar, &k.IDGedung, &k.NamaGedung, &k.NomorKamar, &k.HargaBulanan, &fasilitas, &k.Status, &k.CreatedAt)
	if fasilitas.Valid {
		k.Fasilitas = &fasilitas.String
	}
	return k, err
}

func (ks *KamarService) ListKamar(ctx context.Context, f models.KamarFilter) ([]models.Kamar, error) {
	conditions := []string{}
	params := []interface{}{}
	if f.IDGedung != nil {
		conditions = append(conditions, "k.id_gedung = ?")
		params = append(params, *f.IDGedung)
	}
	if f.Status != "" {
		conditions = append(conditions, "k.status = ?")
		params = append(params, f.Status)
	}
	query := kamarSelect
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY g.nama, k.nomor_kamar"

	rows, err := ks.DB.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, errors.Wrap(err, "gagal mengambil daftar kamar")
	}
	defer rows.Close()

	list := []models.Kamar{}
	for rows.Next() {
		k, err := scanKamar(rows)
		if err != nil {
			return nil, errors.Wrap(err, "gagal membaca kamar")
		}
		list = append(list, k)
	}
	return list, rows.Err()
}

func (ks *KamarService) GetKamar(ctx context.Context, id int) (*models.Kamar, error) {
	k, err := scanKamar(ks.DB.QueryRowContext(ctx, kamarSelect+" WHERE k.id_kamar = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errKamarNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "gagal mengambil kamar")
	}
	return &k, nil
}

func (ks *KamarService) ensureGedung(ctx context.Context, idGedung int) error {
	var n int
	if err := ks.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM Gedung WHERE id_gedung = ?", idGedung).Scan(&n); err != nil {
		return errors.Wrap(err, "gagal memeriksa gedung")
	}
	if n == 0 {
		return errGedungNotFound
	}
	return nil
}

// CreateKamar selalu membuat kamar berstatus kosong. Nomor kamar unik per gedung.
func (ks *KamarService) CreateKamar(ctx context.Context, req models.KamarRequest) (*models.Kamar, error) {
	if err := ks.ensureGedung(ctx, req.IDGedung); err != nil {
		return nil, err
	}
	res, err := ks.DB.ExecContext(ctx,
		"INSERT INTO Kamar (id_gedung, nomor_kamar, harga_bulanan, fasilitas, status) VALUES (?, ?, ?, ?, ?)",
		req.IDGedung, strings.TrimSpace(req.NomorKamar), req.HargaBulanan, req.Fasilitas, models.KamarKosong)
	if mariadb.IsDuplicateEntry(err) {
		return nil, errors.Wrap(errs.ErrConflict, "Nomor kamar sudah ada di gedung ini")
	}
	if err != nil {
		return nil, errors.Wrap(err, "gagal menambah kamar")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, errors.Wrap(err, "gagal membaca id kamar")
	}
	return ks.GetKamar(ctx, int(id))
}

// UpdateKamar tidak mengubah status; status hanya berubah lewat check-in dan check-out.
func (ks *KamarService) UpdateKamar(ctx context.Context, id int, req models.KamarRequest) (*models.Kamar, error) {
	if _, err := ks.GetKamar(ctx, id); err != nil {
		return nil, err
	}
	if err := ks.ensureGedung(ctx, req.IDGedung); err != nil {
		return nil, err
	}
	_, err := ks.DB.ExecContext(ctx,
		`UPDATE Kamar SET id_gedung = ?, nomor_kamar = ?, harga_bulanan = ?, fasilitas = ?, updated_at = NOW()
		 WHERE id_kamar = ?`,
		req.IDGedung, strings.TrimSpace(req.NomorKamar), req.HargaBulanan, req.Fasilitas, id)
	if mariadb.IsDuplicateEntry(err) {
		return nil, errors.Wrap(errs.ErrConflict, "Nomor kamar sudah ada di gedung ini")
	}
	if err != nil {
		return nil, errors.Wrap(err, "gagal memperbarui kamar")
	}
	return ks.GetKamar(ctx, id)
}

// DeleteKamar ditolak bila kamar masih dihuni penyewa aktif.
func (ks *KamarService) DeleteKamar(ctx context.Context, id int) error {
	if _, err := ks.GetKamar(ctx, id); err != nil {
		return err
	}
	var aktif int
	if err := ks.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM Penyewa WHERE id_kamar = ? AND status = ?", id, models.PenyewaAktif).Scan(&aktif); err != nil {
		return errors.Wrap(err, "gagal memeriksa penyewa kamar")
	}
	if aktif > 0 {
		return errors.Wrap(errs.ErrConflict, "Kamar masih ditempati penyewa aktif")
	}

	_, err := ks.DB.ExecContext(ctx, "DELETE FROM Kamar WHERE id_kamar = ?", id)
	if mariadb.IsForeignKeyViolation(err) {
		return errors.Wrap(errs.ErrConflict, "Kamar memiliki riwayat penyewa dan tidak dapat dihapus")
	}
	if err != nil {
		return errors.Wrap(err, "gagal menghapus kamar")
	}
	return nil
}
