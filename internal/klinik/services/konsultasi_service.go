package services

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/c14220110/kasirung-backend/internal/common/errs"
	"github.com/c14220110/kasirung-backend/internal/common/sequence"
	"github.com/c14220110/kasirung-backend/internal/klinik/models"
	"github.com/c14220110/kasirung-backend/pkg/storage/mariadb"
	"github.com/c14220110/kasirung-backend/ws"
)

var errKonsultasiNotFound = errors.Wrap(errs.ErrNotFound, "Konsultasi tidak ditemukan")

type KonsultasiService struct {
	DB     *sql.DB
	Loc    *time.Location
	Events *ws.Hub
	now    func() time.Time
}

func NewKonsultasiService(db *sql.DB, loc *time.Location, events *ws.Hub) *KonsultasiService {
	return &KonsultasiService{DB: db, Loc: loc, Events: events, now: time.Now}
}

const konsultasiSelect = `
	SELECT k.id_konsultasi, k.id_pasien, p.nama, p.no_rm, k.id_tenaga_medis, tm.nama, k.tanggal, k.keluhan,
	       k.diagnosa, k.tindakan, k.biaya_konsultasi, k.status
	FROM Konsultasi k
	JOIN Pasien p ON p.id_pasien = k.id_pasien
	JOIN Tenaga_Medis tm ON tm.id_tenaga_medis = k.id_tenaga_medis`

func scanKonsultasi(s rowScanner) (models.Konsultasi, error) {
	var (
		k                  models.Konsultasi
		diagnosa, tindakan sql.NullString
	)
	err := s.Scan(&k.IDKonsultasi, &k.IDPasien, &k.NamaPasien, &k.NoRM, &k.IDTenagaMedis, &k.NamaTenagaMedis,
		&k.Tanggal, &k.Keluhan, &diagnosa, &tindakan, &k.BiayaKonsultasi, &k.Status)
	k.Diagnosa = nullString(diagnosa)
	k.Tindakan = nullString(tindakan)
	return k, err
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

func listResep(ctx context.Context, q queryer, idKonsultasi int) ([]models.Resep, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT r.id_resep, r.id_obat, o.nama, o.satuan, r.jumlah, r.aturan_pakai, r.harga, r.subtotal
		 FROM Resep r
		 JOIN Obat o ON o.id_obat = r.id_obat
		 WHERE r.id_konsultasi = ?
		 ORDER BY r.id_resep`, idKonsultasi)
	if err != nil {
		return nil, errors.Wrap(err, "gagal mengambil resep")
	}
	defer rows.Close()

	list := []models.Resep{}
	for rows.Next() {
		var r models.Resep
		if err := rows.Scan(&r.IDResep, &r.IDObat, &r.NamaObat, &r.Satuan, &r.Jumlah, &r.AturanPakai, &r.Harga, &r.Subtotal); err != nil {
			return nil, errors.Wrap(err, "gagal membaca resep")
		}
		list = append(list, r)
	}
	return list, rows.Err()
}

func (ks *KonsultasiService) today() (time.Time, time.Time) {
	now := ks.now().In(ks.Loc)
	awal := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, ks.Loc)
	return awal, awal.AddDate(0, 0, 1)
}

// Daftar mendaftarkan pasien ke antrian dokter hari ini. Biaya konsultasi awal diambil dari
// tarif dokter.
func (ks *KonsultasiService) Daftar(ctx context.Context, req models.KonsultasiRequest) (*models.Konsultasi, error) {
	var n int
	if err := ks.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM Pasien WHERE id_pasien = ?", req.IDPasien).Scan(&n); err != nil {
		return nil, errors.Wrap(err, "gagal memeriksa pasien")
	}
	if n == 0 {
		return nil, errPasienNotFound
	}

	var (
		profesi string
		aktif   bool
		tarif   decimal.Decimal
	)
	err := ks.DB.QueryRowContext(ctx,
		"SELECT profesi, aktif, tarif FROM Tenaga_Medis WHERE id_tenaga_medis = ?", req.IDTenagaMedis).
		Scan(&profesi, &aktif, &tarif)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errTenagaMedisNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "gagal memeriksa tenaga medis")
	}
	if profesi != models.ProfesiDokter || !aktif {
		return nil, errors.Wrap(errs.ErrInvalidInput, "Konsultasi hanya dapat didaftarkan ke dokter yang aktif")
	}

	res, err := ks.DB.ExecContext(ctx,
		`INSERT INTO Konsultasi (id_pasien, id_tenaga_medis, tanggal, keluhan, biaya_konsultasi, status)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		req.IDPasien, req.IDTenagaMedis, ks.now(), strings.TrimSpace(req.Keluhan), tarif, models.StatusMenunggu)
	if err != nil {
		return nil, errors.Wrap(err, "gagal mendaftarkan konsultasi")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, errors.Wrap(err, "gagal membaca id konsultasi")
	}
	k, err := ks.getKonsultasi(ctx, int(id))
	if err != nil {
		return nil, err
	}
	ks.publishAntrian(k)
	return k, nil
}

// Antrian mengembalikan konsultasi hari ini sesuai urutan kedatangan.
func (ks *KonsultasiService) Antrian(ctx context.Context, f models.AntrianFilter) ([]models.Konsultasi, error) {
	awal, akhir := ks.today()
	where := " WHERE k.tanggal >= ? AND k.tanggal < ?"
	params := []interface{}{awal, akhir}
	if f.IDTenagaMedis != nil {
		where += " AND k.id_tenaga_medis = ?"
		params = append(params, *f.IDTenagaMedis)
	}
	if f.Status != "" {
		where += " AND k.status = ?"
		params = append(params, f.Status)
	}

	rows, err := ks.DB.QueryContext(ctx, konsultasiSelect+where+" ORDER BY k.tanggal, k.id_konsultasi", params...)
	if err != nil {
		return nil, errors.Wrap(err, "gagal mengambil antrian")
	}
	defer rows.Close()

	list := []models.Konsultasi{}
	for rows.Next() {
		k, err := scanKonsultasi(rows)
		if err != nil {
			return nil, errors.Wrap(err, "gagal membaca antrian")
		}
		list = append(list, k)
	}
	return list, rows.Err()
}

func (ks *KonsultasiService) getKonsultasi(ctx context.Context, id int) (*models.Konsultasi, error) {
	k, err := scanKonsultasi(ks.DB.QueryRowContext(ctx, konsultasiSelect+" WHERE k.id_konsultasi = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errKonsultasiNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "gagal mengambil konsultasi")
	}
	return &k, nil
}

// GetKonsultasi menyertakan resep dan tagihan bila konsultasi sudah selesai.
func (ks *KonsultasiService) GetKonsultasi(ctx context.Context, id int) (*models.Konsultasi, error) {
	k, err := ks.getKonsultasi(ctx, id)
	if err != nil {
		return nil, err
	}
	if k.Resep, err = listResep(ctx, ks.DB, id); err != nil {
		return nil, err
	}
	t, err := scanTagihan(ks.DB.QueryRowContext(ctx, tagihanSelect+" WHERE t.id_konsultasi = ?", id))
	switch {
	case err == nil:
		k.Tagihan = &t
	case !errors.Is(err, sql.ErrNoRows):
		return nil, errors.Wrap(err, "gagal mengambil tagihan konsultasi")
	}
	return k, nil
}

func (ks *KonsultasiService) publishAntrian(k *models.Konsultasi) {
	ks.Events.Publish(ws.EventAntrianUpdate, map[string]interface{}{
		"id_konsultasi":   k.IDKonsultasi,
		"id_tenaga_medis": k.IDTenagaMedis,
		"nama_pasien":     k.NamaPasien,
		"status":          k.Status,
	})
}

type lockQueryer interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func lockStatus(ctx context.Context, tx lockQueryer, id int) (string, error) {
	var status string
	err := tx.QueryRowContext(ctx, "SELECT status FROM Konsultasi WHERE id_konsultasi = ? FOR UPDATE", id).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return "", errKonsultasiNotFound
	}
	if err != nil {
		return "", errors.Wrap(err, "gagal mengunci konsultasi")
	}
	return status, nil
}

// ubahStatus memindahkan konsultasi ke status baru bila status saat ini ada di daftar asal.
func (ks *KonsultasiService) ubahStatus(ctx context.Context, id int, baru string, asal ...string) (*models.Konsultasi, error) {
	tx, err := ks.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "gagal memulai transaksi")
	}
	defer tx.Rollback()

	status, err := lockStatus(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if !contains(asal, status) {
		return nil, errors.Wrapf(errs.ErrConflict, "Konsultasi berstatus %s tidak dapat diubah menjadi %s", status, baru)
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE Konsultasi SET status = ?, updated_at = NOW() WHERE id_konsultasi = ?", baru, id); err != nil {
		return nil, errors.Wrap(err, "gagal memperbarui status konsultasi")
	}
	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "gagal menyimpan status konsultasi")
	}

	k, err := ks.getKonsultasi(ctx, id)
	if err != nil {
		return nil, err
	}
	ks.publishAntrian(k)
	return k, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Periksa memanggil pasien dari antrian.
func (ks *KonsultasiService) Periksa(ctx context.Context, id int) (*models.Konsultasi, error) {
	return ks.ubahStatus(ctx, id, models.StatusDiperiksa, models.StatusMenunggu)
}

func (ks *KonsultasiService) Batal(ctx context.Context, id int) (*models.Konsultasi, error) {
	return ks.ubahStatus(ctx, id, models.StatusBatal, models.StatusMenunggu, models.StatusDiperiksa)
}

type lockedObat struct {
	id     int
	nama   string
	harga  decimal.Decimal
	stok   int
	min    int
	jumlah int
}

// Selesai menutup konsultasi dalam satu transaksi database: obat diresepkan dikunci dan
// dikurangi stoknya dengan catatan mutasi, resep disimpan, lalu satu tagihan dibuat.
// Bila stok salah satu obat kurang tidak ada yang tersimpan.
func (ks *KonsultasiService) Selesai(ctx context.Context, id int, req models.SelesaiRequest) (*models.Konsultasi, error) {
	now := ks.now().In(ks.Loc)

	tx, err := ks.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "gagal memulai transaksi")
	}
	defer tx.Rollback()

	var (
		status string
		biaya  decimal.Decimal
	)
	err = tx.QueryRowContext(ctx,
		"SELECT status, biaya_konsultasi FROM Konsultasi WHERE id_konsultasi = ? FOR UPDATE", id).Scan(&status, &biaya)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errKonsultasiNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "gagal mengunci konsultasi")
	}
	if status != models.StatusMenunggu && status != models.StatusDiperiksa {
		return nil, errors.Wrapf(errs.ErrConflict, "Konsultasi berstatus %s tidak dapat diselesaikan", status)
	}
	if req.BiayaKonsultasi != nil {
		biaya = *req.BiayaKonsultasi
	}

	// kebutuhan per obat dijumlahkan dan dikunci berurutan id agar tidak deadlock
	kebutuhan := map[int]int{}
	for _, r := range req.Resep {
		kebutuhan[r.IDObat] += r.Jumlah
	}
	ids := make([]int, 0, len(kebutuhan))
	for idObat := range kebutuhan {
		ids = append(ids, idObat)
	}
	sort.Ints(ids)

	locked := make(map[int]*lockedObat, len(ids))
	for _, idObat := range ids {
		o := &lockedObat{jumlah: kebutuhan[idObat]}
		err := tx.QueryRowContext(ctx,
			"SELECT id_obat, nama, harga, stok, stok_minimum FROM Obat WHERE id_obat = ? AND deleted_at IS NULL FOR UPDATE",
			idObat).Scan(&o.id, &o.nama, &o.harga, &o.stok, &o.min)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrapf(errs.ErrNotFound, "Obat dengan id %d tidak ditemukan", idObat)
		}
		if err != nil {
			return nil, errors.Wrap(err, "gagal mengunci obat")
		}
		if o.stok < o.jumlah {
			return nil, errors.Wrapf(errs.ErrConflict, "Stok %s tidak mencukupi (tersisa %d)", o.nama, o.stok)
		}
		locked[idObat] = o
	}

	keterangan := fmt.Sprintf("Resep konsultasi #%d", id)
	for _, idObat := range ids {
		o := locked[idObat]
		sisa := o.stok - o.jumlah
		if _, err := tx.ExecContext(ctx,
			"UPDATE Obat SET stok = ?, updated_at = NOW() WHERE id_obat = ?", sisa, o.id); err != nil {
			return nil, errors.Wrap(err, "gagal mengurangi stok obat")
		}
		if err := insertMutasi(ctx, tx, models.MutasiStok{
			IDObat: o.id, Tipe: models.MutasiKeluar, Jumlah: o.jumlah, StokAwal: o.stok, StokAkhir: sisa,
			Keterangan: &keterangan, CreatedAt: now,
		}); err != nil {
			return nil, err
		}
	}

	totalObat := decimal.Zero
	for _, r := range req.Resep {
		o := locked[r.IDObat]
		subtotal := o.harga.Mul(decimal.NewFromInt(int64(r.Jumlah)))
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO Resep (id_konsultasi, id_obat, jumlah, aturan_pakai, harga, subtotal)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			id, r.IDObat, r.Jumlah, strings.TrimSpace(r.AturanPakai), o.harga, subtotal); err != nil {
			return nil, errors.Wrap(err, "gagal menyimpan resep")
		}
		totalObat = totalObat.Add(subtotal)
	}

	seq, err := sequence.Next(ctx, tx, sequence.TagihanKlinik, now.Format("200601"))
	if err != nil {
		return nil, err
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO Tagihan_Klinik (no_tagihan, id_konsultasi, total_konsultasi, total_obat, total, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sequence.FormatNoTagihan(now, seq), id, biaya, totalObat, biaya.Add(totalObat), models.TagihanUnpaid, now)
	if mariadb.IsDuplicateEntry(err) {
		return nil, errors.Wrap(errs.ErrConflict, "Tagihan konsultasi sudah dibuat")
	}
	if err != nil {
		return nil, errors.Wrap(err, "gagal membuat tagihan")
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE Konsultasi SET diagnosa = ?, tindakan = ?, biaya_konsultasi = ?, status = ?, updated_at = NOW()
		 WHERE id_konsultasi = ?`,
		strings.TrimSpace(req.Diagnosa), emptyToNil(req.Tindakan), biaya, models.StatusSelesai, id); err != nil {
		return nil, errors.Wrap(err, "gagal memperbarui konsultasi")
	}
	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "gagal menyimpan konsultasi")
	}

	for _, idObat := range ids {
		if o := locked[idObat]; o.stok-o.jumlah <= o.min {
			ks.Events.Publish(ws.EventStokMenipis, map[string]interface{}{
				"modul": "klinik", "id_obat": o.id, "nama": o.nama, "stok": o.stok - o.jumlah,
			})
		}
	}

	k, err := ks.GetKonsultasi(ctx, id)
	if err != nil {
		return nil, err
	}
	ks.publishAntrian(k)
	return k, nil
}
