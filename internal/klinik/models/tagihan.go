package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TagihanUnpaid = "unpaid"
	TagihanPaid   = "paid"
)

type Tagihan struct {
	IDTagihan       int             `json:"id_tagihan"`
	NoTagihan       string          `json:"no_tagihan"`
	IDKonsultasi    int             `json:"id_konsultasi"`
	NamaPasien      string          `json:"nama_pasien"`
	NoRM            string          `json:"no_rm"`
	NamaTenagaMedis string          `json:"nama_tenaga_medis"`
	TotalKonsultasi decimal.Decimal `json:"total_konsultasi"`
	TotalObat       decimal.Decimal `json:"total_obat"`
	Total           decimal.Decimal `json:"total"`
	Status          string          `json:"status"`
	MetodeBayar     *string         `json:"metode_bayar"`
	DibayarPada     *time.Time      `json:"dibayar_pada"`
	CreatedAt       time.Time       `json:"created_at"`
	Resep           []Resep         `json:"resep,omitempty"`
}

type TagihanFilter struct {
	Status string
	Dari   time.Time
	Sampai time.Time
}

type BayarRequest struct {
	MetodeBayar string `json:"metode_bayar" validate:"required,oneof=tunai qris transfer debit bpjs"`
}

type JumlahStatus struct {
	Status string `json:"status"`
	Jumlah int    `json:"jumlah"`
}

type DiagnosaTerbanyak struct {
	Diagnosa string `json:"diagnosa"`
	Jumlah   int    `json:"jumlah"`
}

type Dashboard struct {
	Dari              time.Time           `json:"dari"`
	Sampai            time.Time           `json:"sampai"`
	PasienBaru        int                 `json:"pasien_baru"`
	Konsultasi        []JumlahStatus      `json:"konsultasi"`
	Pendapatan        decimal.Decimal     `json:"pendapatan"`
	TagihanBelumBayar int                 `json:"tagihan_belum_bayar"`
	ObatStokMenipis   int                 `json:"obat_stok_menipis"`
	DiagnosaTerbanyak []DiagnosaTerbanyak `json:"diagnosa_terbanyak"`
}
