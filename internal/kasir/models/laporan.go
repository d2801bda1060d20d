package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ProdukTerlaris struct {
	IDProduk   int             `json:"id_produk"`
	NamaProduk string          `json:"nama_produk"`
	Terjual    int             `json:"terjual"`
	Omzet      decimal.Decimal `json:"omzet"`
}

type PenjualanHarian struct {
	Tanggal         string          `json:"tanggal"`
	JumlahTransaksi int             `json:"jumlah_transaksi"`
	Omzet           decimal.Decimal `json:"omzet"`
}

type Laporan struct {
	Dari            time.Time                  `json:"dari"`
	Sampai          time.Time                  `json:"sampai"`
	JumlahTransaksi int                        `json:"jumlah_transaksi"`
	Omzet           decimal.Decimal            `json:"omzet"`
	ItemTerjual     int                        `json:"item_terjual"`
	PerMetode       map[string]decimal.Decimal `json:"per_metode"`
	Harian          []PenjualanHarian          `json:"harian"`
	ProdukTerlaris  []ProdukTerlaris           `json:"produk_terlaris"`
}

type Dashboard struct {
	OmzetHariIni     decimal.Decimal   `json:"omzet_hari_ini"`
	TransaksiHariIni int               `json:"transaksi_hari_ini"`
	OmzetBulanIni    decimal.Decimal   `json:"omzet_bulan_ini"`
	StokMenipis      []Produk          `json:"stok_menipis"`
	Tren7Hari        []PenjualanHarian `json:"tren_7_hari"`
	ProdukTerlaris   []ProdukTerlaris  `json:"produk_terlaris"`
}
