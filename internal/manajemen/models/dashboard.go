package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DashboardData adalah ringkasan lintas modul untuk admin.
type DashboardData struct {
	Dari   time.Time `json:"dari"`
	Sampai time.Time `json:"sampai"`

	PenggunaAktif    int         `json:"pengguna_aktif"`
	PenggunaNonAktif int         `json:"pengguna_non_aktif"`
	PenggunaPerRole  []RoleCount `json:"pengguna_per_role"`

	JumlahTransaksi int             `json:"jumlah_transaksi"`
	OmzetKasir      decimal.Decimal `json:"omzet_kasir"`

	TotalKamar       int             `json:"total_kamar"`
	KamarTerisi      int             `json:"kamar_terisi"`
	PendapatanKosan  decimal.Decimal `json:"pendapatan_kosan"`
	KunjunganKlinik  int             `json:"kunjungan_klinik"`
	PendapatanKlinik decimal.Decimal `json:"pendapatan_klinik"`
	PendapatanTotal  decimal.Decimal `json:"pendapatan_total"`
	PendapatanHarian []TimeAmount    `json:"pendapatan_harian"`
}

type RoleCount struct {
	NamaRole string `json:"nama_role"`
	Count    int    `json:"count"`
}

// TimeAmount adalah pendapatan gabungan satu hari, Label berformat YYYY-MM-DD.
type TimeAmount struct {
	Label  string          `json:"label"`
	Jumlah decimal.Decimal `json:"jumlah"`
}
