package services

import (
	"context"
	"database/sql"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/c14220110/kasirung-backend/internal/common/errs"
	"github.com/c14220110/kasirung-backend/internal/kasir/models"
	"github.com/c14220110/kasirung-backend/pkg/storage/mariadb"
	"github.com/c14220110/kasirung-backend/pkg/utils"
	"github.com/c14220110/kasirung-backend/ws"
)

var errProdukNotFound = errors.Wrap(errs.ErrNotFound, "Produk tidak ditemukan")

type ProdukService struct {
	DB     *sql.DB
	Events *ws.Hub
}

func NewProdukService(db *sql.DB, events *ws.Hub) *ProdukService {
	return &ProdukService{DB: db, Events: events}
}

const produkSelect = `
	SELECT id_produk, kode, nama, kategori, harga, stok, stok_minimum, created_at, updated_at
	FROM Produk`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduk(s rowScanner) (models.Produk, error) {
	var p models.Produk
	err := s.Scan(&p.IDProduk, &p.Kode, &p.Nama, &p.Kategori, &p.Harga, &p.Stok,
		&p.StokMinimum, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (ps *ProdukService) ListProduk(ctx context.Context, f models.ProdukFilter, pg utils.Pagination) ([]models.Produk, int, error) {
	conditions := []string{"deleted_at IS NULL"}
	params := []interface{}{}
	if f.Search != "" {
		conditions = append(conditions, "(LOWER(nama) LIKE ? OR LOWER(kode) LIKE ?)")
		like := "%" + strings.ToLower(f.Search) + "%"
		params = append(params, like, like)
	}
	if f.Kategori != "" {
		conditions = append(conditions, "kategori = ?")
		params = append(params, f.Kategori)
	}
	if f.StokMenipis {
		conditions = append(conditions, "stok <= stok_minimum")
	}
	where := " WHERE " + strings.Join(conditions, " AND ")

	var total int
	if err := ps.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM Produk"+where, params...).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, "gagal menghitung produk")
	}

	rows, err := ps.DB.QueryContext(ctx, produkSelect+where+" ORDER BY nama LIMIT ? OFFSET ?",
		append(params, pg.Limit, pg.Offset())...)
	if err != nil {
		return nil, 0, errors.Wrap(err, "gagal mengambil daftar produk")
	}
	defer rows.Close()

	list := []models.Produk{}
	for rows.Next() {
		p, err := scanProduk(rows)
		if err != nil {
			return nil, 0, errors.Wrap(err, "gagal membaca produk")
		}
		list = append(list, p)
	}
	return list, total, rows.Err()
}

func (ps *ProdukService) GetProduk(ctx context.Context, id int) (*models.Produk, error) {
	p, err := scanProduk(ps.DB.QueryRowContext(ctx, produkSelect+" WHERE id_produk = ? AND deleted_at IS NULL", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errProdukNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "gagal mengambil produk")
	}
	return &p, nil
}

func kategoriOrDefault(k string) string {
	if k = strings.TrimSpace(k); k == "" {
		return "umum"
	}
	return k
}

func (ps *ProdukService) CreateProduk(ctx context.Context, req models.ProdukRequest) (*models.Produk, error) {
	res, err := ps.DB.ExecContext(ctx,
		"INSERT INTO Produk (kode, nama, kategori, harga, stok, stok_minimum) VALUES (?, ?, ?, ?, ?, ?)",
		strings.TrimSpace(req.Kode), strings.TrimSpace(req.Nama), kategoriOrDefault(req.Kategori),
		req.Harga, req.Stok, req.StokMinimum)
	if mariadb.IsDuplicateEntry(err) {
		return nil, errors.Wrap(errs.ErrConflict, "Kode produk sudah digunakan")
	}
	if err != nil {
		return nil, errors.Wrap(err, "gagal menambah produk")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, errors.Wrap(err, "gagal membaca id produk")
	}
	return ps.GetProduk(ctx, int(id))
}

// UpdateProduk tidak mengubah stok; perubahan stok lewat AdjustStok atau transaksi.
func (ps *ProdukService) UpdateProduk(ctx context.Context, id int, req models.ProdukRequest) (*models.Produk, error) {
	if _, err := ps.GetProduk(ctx, id); err != nil {
		return nil, err
	}
	_, err := ps.DB.ExecContext(ctx,
		`UPDATE Produk SET kode = ?, nama = ?, kategori = ?, harga = ?, stok_minimum = ?, updated_at = NOW()
		 WHERE id_produk = ?`,
		strings.TrimSpace(req.Kode), strings.TrimSpace(req.Nama), kategoriOrDefault(req.Kategori),
		req.Harga, req.StokMinimum, id)
	if mariadb.IsDuplicateEntry(err) {
		return nil, errors.Wrap(errs.ErrConflict, "Kode produk sudah digunakan")
	}
	if err != nil {
		return nil, errors.Wrap(err, "gagal memperbarui produk")
	}
	return ps.GetProduk(ctx, id)
}

// DeleteProduk melakukan soft delete agar riwayat transaksi tetap utuh.
func (ps *ProdukService) DeleteProduk(ctx context.Context, id int) error {
	res, err := ps.DB.ExecContext(ctx,
		"UPDATE Produk SET deleted_at = NOW() WHERE id_produk = ? AND deleted_at IS NULL", id)
	if err != nil {
		return errors.Wrap(err, "gagal menghapus produk")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errProdukNotFound
	}
	return nil
}

// AdjustStok menambah atau mengurangi stok dengan mengunci baris produk; stok tidak boleh negatif.
func (ps *ProdukService) AdjustStok(ctx context.Context, id int, req models.StokRequest) (*models.Produk, error) {
	tx, err := ps.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "gagal memulai transaksi")
	}
	defer tx.Rollback()

	var stok, minimum int
	var nama string
	err = tx.QueryRowContext(ctx,
		"SELECT nama, stok, stok_minimum FROM Produk WHERE id_produk = ? AND deleted_at IS NULL FOR UPDATE", id).
		Scan(&nama, &stok, &minimum)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errProdukNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "gagal mengunci produk")
	}

	baru := stok + req.Jumlah
	if baru < 0 {
		return nil, errors.Wrapf(errs.ErrConflict, "Stok %s tidak mencukupi (tersisa %d)", nama, stok)
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE Produk SET stok = ?, updated_at = NOW() WHERE id_produk = ?", baru, id); err != nil {
		return nil, errors.Wrap(err, "gagal memperbarui stok")
	}
	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "gagal menyimpan stok")
	}

	log.Info().Int("id_produk", id).Int("stok_awal", stok).Int("stok_akhir", baru).
		Str("keterangan", req.Keterangan).Msg("Stok produk disesuaikan")

	if baru <= minimum {
		ps.Events.Publish(ws.EventStokMenipis, map[string]interface{}{
			"modul": "kasir", "id_produk": id, "nama": nama, "stok": baru,
		})
	}
	return ps.GetProduk(ctx, id)
}
