package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatRupiah menulis nominal dengan pemisah ribuan titik, contoh "Rp 1.250.000".
// Pecahan sen dibulatkan karena transaksi rupiah tidak memakai sen.
func FormatRupiah(d decimal.Decimal) string {
	s := d.Round(0).StringFixed(0)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	var b strings.Builder
	pre := len(s) % 3
	if pre > 0 {
		b.WriteString(s[:pre])
	}
	for i := pre; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s[i : i+3])
	}
	if neg {
		return "-Rp " + b.String()
	}
	return "Rp " + b.String()
}
