// Package sequence membagikan nomor urut (nomor rekam medis, kode transaksi, nomor tagihan)
// dari tabel Sequence_Nomor. Baris penghitung dikunci dengan SELECT ... FOR UPDATE sehingga
// dua transaksi yang berjalan bersamaan tidak pernah mendapat nilai yang sama.
package sequence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pkg/errors"
)

const (
	RekamMedis    = "rekam_medis"
	Transaksi     = "transaksi"
	TagihanKlinik = "tagihan_klinik"
)

// Tx adalah bagian dari *sql.Tx yang dibutuhkan Next.
type Tx interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Next menaikkan penghitung (nama, kunci) dan mengembalikan nilai barunya. Harus dipanggil
// di dalam transaksi; kunci baris dilepas saat transaksi pemanggil commit atau rollback.
func Next(ctx context.Context, tx Tx, nama, kunci string) (int, error) {
	if _, err := tx.ExecContext(ctx,
		"INSERT IGNORE INTO Sequence_Nomor (nama, kunci, nilai) VALUES (?, ?, 0)",
		nama, kunci,
	); err != nil {
		return 0, errors.Wrap(err, "gagal menyiapkan nomor urut")
	}

	var nilai int
	if err := tx.QueryRowContext(ctx,
		"SELECT nilai FROM Sequence_Nomor WHERE nama = ? AND kunci = ? FOR UPDATE",
		nama, kunci,
	).Scan(&nilai); err != nil {
		return 0, errors.Wrap(err, "gagal mengunci nomor urut")
	}

	nilai++
	if _, err := tx.ExecContext(ctx,
		"UPDATE Sequence_Nomor SET nilai = ? WHERE nama = ? AND kunci = ?",
		nilai, nama, kunci,
	); err != nil {
		return 0, errors.Wrap(err, "gagal memperbarui nomor urut")
	}
	return nilai, nil
}

// FormatRM menghasilkan nomor rekam medis MR<tahun><urut 4 digit>. Urutan di atas 9999
// tetap ditulis utuh sehingga nomor tetap unik.
func FormatRM(year, seq int) string {
	return fmt.Sprintf("MR%d%04d", year, seq)
}

// FormatKodeTransaksi menghasilkan TRX<yyyymmdd><urut 4 digit>.
func FormatKodeTransaksi(t time.Time, seq int) string {
	return fmt.Sprintf("TRX%s%04d", t.Format("20060102"), seq)
}

// FormatNoTagihan menghasilkan INV<yyyymm><urut 4 digit>.
func FormatNoTagihan(t time.Time, seq int) string {
	return fmt.Sprintf("INV%s%04d", t.Format("200601"), seq)
}
