package services

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/c14220110/kasirung-backend/internal/common/errs"
	"github.com/c14220110/kasirung-backend/internal/common/sequence"
	"github.com/c14220110/kasirung-backend/internal/kasir/models"
	"github.com/c14220110/kasirung-backend/pkg/utils"
	"github.com/c14220110/kasirung-backend/ws"
)

type TransaksiService struct {
	DB     *sql.DB
	Loc    *time.Location
	Events *ws.Hub
	now    func() time.Time
}

func NewTransaksiService(db *sql.DB, loc *time.Location, events *ws.Hub) *TransaksiService {
	return &TransaksiService{DB: db, Loc: loc, Events: events, now: time.Now}
}

type lockedProduk struct {
	id      int
	nama    string
	harga   decimal.Decimal
	stok    int
	minimum int
	jumlah  int
}

// menipis mengembalikan produk yang sisa stoknya setelah penjualan sudah di bawah atau
// sama dengan stok minimum.
func menipis(locked []lockedProduk) []lockedProduk {
	var out []lockedProduk
	for _, p := range locked {
		if p.stok-p.jumlah <= p.minimum {
			out = append(out, p)
		}
	}
	return out
}

// mergeItems menggabungkan produk yang sama dan mengurutkan berdasarkan id agar urutan
// penguncian baris selalu sama di semua transaksi.
func mergeItems(items []models.ItemRequest) []models.ItemRequest {
	qty := map[int]int{}
	for _, it := range items {
		qty[it.IDProduk] += it.Jumlah
	}
	merged := make([]models.ItemRequest, 0, len(qty))
	for id, j := range qty {
		merged = append(merged, models.ItemRequest{IDProduk: id, Jumlah: j})
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].IDProduk < merged[j].IDProduk })
	return merged
}

// CreateTransaksi mencatat penjualan dalam satu transaksi database: baris produk dikunci,
// stok diperiksa dan dikurangi, lalu kode transaksi diambil dari nomor urut harian.
// Bila satu item gagal tidak ada yang tersimpan.
func (ts *TransaksiService) CreateTransaksi(ctx context.Context, idPengguna int, req models.TransaksiRequest) (*models.Transaksi, error) {
	items := mergeItems(req.Items)
	now := ts.now().In(ts.Loc)

	tx, err := ts.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "gagal memulai transaksi")
	}
	defer tx.Rollback()

	locked := make([]lockedProduk, 0, len(items))
	total := decimal.Zero
	for _, it := range items {
		var p lockedProduk
		err := tx.QueryRowContext(ctx,
			"SELECT id_produk, nama, harga, stok, stok_minimum FROM Produk WHERE id_produk = ? AND deleted_at IS NULL FOR UPDATE",
			it.IDProduk).Scan(&p.id, &p.nama, &p.harga, &p.stok, &p.minimum)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrapf(errs.ErrNotFound, "Produk dengan id %d tidak ditemukan", it.IDProduk)
		}
		if err != nil {
			return nil, errors.Wrap(err, "gagal mengunci produk")
		}
		if p.stok < it.Jumlah {
			return nil, errors.Wrapf(errs.ErrConflict, "Stok %s tidak mencukupi (tersisa %d)", p.nama, p.stok)
		}
		p.jumlah = it.Jumlah
		locked = append(locked, p)
		total = total.Add(p.harga.Mul(decimal.NewFromInt(int64(it.Jumlah))))
	}

	bayar := req.Bayar
	if req.MetodeBayar == models.MetodeTunai {
		if bayar.LessThan(total) {
			return nil, errors.Wrap(errs.ErrInvalidInput, "Jumlah bayar kurang dari total belanja")
		}
	} else {
		// pembayaran non-tunai selalu pas
		bayar = total
	}
	kembalian := bayar.Sub(total)

	for _, p := range locked {
		if _, err := tx.ExecContext(ctx,
			"UPDATE Produk SET stok = stok - ?, updated_at = NOW() WHERE id_produk = ?", p.jumlah, p.id); err != nil {
			return nil, errors.Wrap(err, "gagal mengurangi stok")
		}
	}

	seq, err := sequence.Next(ctx, tx, sequence.Transaksi, now.Format("20060102"))
	if err != nil {
		return nil, err
	}
	kode := sequence.FormatKodeTransaksi(now, seq)

	res, err := tx.ExecContext(ctx,
		`INSERT INTO Transaksi (kode_transaksi, id_pengguna, total, bayar, kembalian, metode_bayar, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		kode, idPengguna, total, bayar, kembalian, req.MetodeBayar, now)
	if err != nil {
		return nil, errors.Wrap(err, "gagal menyimpan transaksi")
	}
	idTransaksi, err := res.LastInsertId()
	if err != nil {
		return nil, errors.Wrap(err, "gagal membaca id transaksi")
	}

	trx := &models.Transaksi{
		IDTransaksi:   int(idTransaksi),
		KodeTransaksi: kode,
		IDPengguna:    idPengguna,
		Total:         total,
		Bayar:         bayar,
		Kembalian:     kembalian,
		MetodeBayar:   req.MetodeBayar,
		CreatedAt:     now,
	}
	for _, p := range locked {
		subtotal := p.harga.Mul(decimal.NewFromInt(int64(p.jumlah)))
		res, err := tx.ExecContext(ctx,
			`INSERT INTO Detail_Transaksi (id_transaksi, id_produk, nama_produk, harga, jumlah, subtotal)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			idTransaksi, p.id, p.nama, p.harga, p.jumlah, subtotal)
		if err != nil {
			return nil, errors.Wrap(err, "gagal menyimpan detail transaksi")
		}
		idDetail, err := res.LastInsertId()
		if err != nil {
			return nil, errors.Wrap(err, "gagal membaca id detail transaksi")
		}
		trx.Items = append(trx.Items, models.DetailTransaksi{
			IDDetail:   int(idDetail),
			IDProduk:   p.id,
			NamaProduk: p.nama,
			Harga:      p.harga,
			Jumlah:     p.jumlah,
			Subtotal:   subtotal,
		})
		trx.JumlahItem += p.jumlah
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "gagal menyimpan transaksi")
	}

	ts.Events.Publish(ws.EventTransaksiBaru, map[string]interface{}{
		"id_transaksi":   trx.IDTransaksi,
		"kode_transaksi": trx.KodeTransaksi,
		"total":          trx.Total,
		"metode_bayar":   trx.MetodeBayar,
	})
	for _, p := range menipis(locked) {
		ts.Events.Publish(ws.EventStokMenipis, map[string]interface{}{
			"modul": "kasir", "id_produk": p.id, "nama": p.nama, "stok": p.stok - p.jumlah,
		})
	}
	return trx, nil
}

const transaksiSelect = `
	SELECT t.id_transaksi, t.kode_transaksi, t.id_pengguna, p.nama, t.total, t.bayar, t.kembalian,
	       t.metode_bayar, t.created_at,
	       (SELECT COALESCE(SUM(d.jumlah), 0) FROM Detail_Transaksi d WHERE d.id_transaksi = t.id_transaksi)
	FROM Transaksi t
	JOIN Pengguna p ON p.id_pengguna = t.id_pengguna`

func scanTransaksi(s rowScanner) (models.Transaksi, error) {
	var t models.Transaksi
	err := s.Scan(&t.IDTransaksi, &t.KodeTransaksi, &t.IDPengguna, &t.NamaKasir, &t.Total, &t.Bayar,
		&t.Kembalian, &t.MetodeBayar, &t.CreatedAt, &t.JumlahItem)
	return t, err
}

// ListTransaksi mengambil transaksi pada rentang [dari, sampai) terbaru lebih dulu.
func (ts *TransaksiService) ListTransaksi(ctx context.Context, dari, sampai time.Time, metode string, pg utils.Pagination) ([]models.Transaksi, int, error) {
	where := " WHERE t.created_at >= ? AND t.created_at < ?"
	params := []interface{}{dari, sampai}
	if metode != "" {
		where += " AND t.metode_bayar = ?"
		params = append(params, metode)
	}

	var total int
	if err := ts.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM Transaksi t"+where, params...).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, "gagal menghitung transaksi")
	}

	rows, err := ts.DB.QueryContext(ctx, transaksiSelect+where+" ORDER BY t.created_at DESC, t.id_transaksi DESC LIMIT ? OFFSET ?",
		append(params, pg.Limit, pg.Offset())...)
	if err != nil {
		return nil, 0, errors.Wrap(err, "gagal mengambil daftar transaksi")
	}
	defer rows.Close()

	list := []models.Transaksi{}
	for rows.Next() {
		t, err := scanTransaksi(rows)
		if err != nil {
			return nil, 0, errors.Wrap(err, "gagal membaca transaksi")
		}
		list = append(list, t)
	}
	return list, total, rows.Err()
}

func (ts *TransaksiService) GetTransaksi(ctx context.Context, id int) (*models.Transaksi, error) {
	t, err := scanTransaksi(ts.DB.QueryRowContext(ctx, transaksiSelect+" WHERE t.id_transaksi = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Wrap(errs.ErrNotFound, "Transaksi tidak ditemukan")
	}
	if err != nil {
		return nil, errors.Wrap(err, "gagal mengambil transaksi")
	}

	rows, err := ts.DB.QueryContext(ctx,
		`SELECT id_detail, id_produk, nama_produk, harga, jumlah, subtotal
		 FROM Detail_Transaksi WHERE id_transaksi = ? ORDER BY id_detail`, id)
	if err != nil {
		return nil, errors.Wrap(err, "gagal mengambil detail transaksi")
	}
	defer rows.Close()

	t.Items = []models.DetailTransaksi{}
	for rows.Next() {
		var d models.DetailTransaksi
		if err := rows.Scan(&d.IDDetail, &d.IDProduk, &d.NamaProduk, &d.Harga, &d.Jumlah, &d.Subtotal); err != nil {
			return nil, errors.Wrap(err, "gagal membaca detail transaksi")
		}
		t.Items = append(t.Items, d)
	}
	return &t, rows.Err()
}
