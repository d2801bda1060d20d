package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	KamarKosong   = "kosong"
	KamarTerisi   = "terisi"
	PenyewaAktif  = "aktif"
	PenyewaKeluar = "keluar"
	TagihanUnpaid = "unpaid"
	TagihanPaid   = "paid"
)

type Gedung struct {
	IDGedung    int       `json:"id_gedung"`
	Nama        string    `json:"nama"`
	Alamat      string    `json:"alamat"`
	Keterangan  *string   `json:"keterangan"`
	JumlahKamar int       `json:"jumlah_kamar"`
	KamarTerisi int       `json:"kamar_terisi"`
	CreatedAt   time.Time `json:"created_at"`
}

type GedungRequest struct {
	Nama       string  `json:"nama" validate:"required,max=100"`
	Alamat     string  `json:"alamat" validate:"required,max=255"`
	Keterangan *string `json:"keterangan"`
}

type Kamar struct {
	IDKamar      int             `json:"id_kamar"`
	IDGedung     int             `json:"id_gedung"`
	NamaGedung   string          `json:"nama_gedung"`
	NomorKamar   string          `json:"nomor_kamar"`
	HargaBulanan decimal.Decimal `json:"harga_bulanan"`
	Fasilitas    *string         `json:"fasilitas"`
	Status       string          `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
}

type KamarFilter struct {
	IDGedung *int
	Status   string
}

type KamarRequest struct {
	IDGedung     int             `json:"id_gedung" validate:"required,gt=0"`
	NomorKamar   string          `json:"nomor_kamar" validate:"required,max=20"`
	HargaBulanan decimal.Decimal `json:"harga_bulanan" validate:"gt=0"`
	Fasilitas    *string         `json:"fasilitas"`
}

type Penyewa struct {
	IDPenyewa     int        `json:"id_penyewa"`
	IDKamar       int        `json:"id_kamar"`
	NomorKamar    string     `json:"nomor_kamar"`
	NamaGedung    string     `json:"nama_gedung"`
	Nama          string     `json:"nama"`
	NIK           string     `json:"nik"`
	NoTelp        string     `json:"no_telp"`
	TanggalMasuk  time.Time  `json:"tanggal_masuk"`
	TanggalKeluar *time.Time `json:"tanggal_keluar"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	Tagihan       []Tagihan  `json:"tagihan,omitempty"`
}

type PenyewaFilter struct {
	Search   string
	Status   string
	IDGedung *int
}

type CheckInRequest struct {
	IDKamar      int    `json:"id_kamar" validate:"required,gt=0"`
	Nama         string `json:"nama" validate:"required,max=100"`
	NIK          string `json:"nik" validate:"required,numeric,len=16"`
	NoTelp       string `json:"no_telp" validate:"required,max=20"`
	TanggalMasuk string `json:"tanggal_masuk" validate:"required,datetime=2006-01-02"`
}

type UpdatePenyewaRequest struct {
	Nama   string `json:"nama" validate:"required,max=100"`
	NIK    string `json:"nik" validate:"required,numeric,len=16"`
	NoTelp string `json:"no_telp" validate:"required,max=20"`
}

type CheckOutRequest struct {
	// kosong berarti hari ini
	TanggalKeluar string `json:"tanggal_keluar" validate:"omitempty,datetime=2006-01-02"`
}

type Tagihan struct {
	IDTagihan   int             `json:"id_tagihan"`
	IDPenyewa   int             `json:"id_penyewa"`
	NamaPenyewa string          `json:"nama_penyewa,omitempty"`
	NomorKamar  string          `json:"nomor_kamar,omitempty"`
	NamaGedung  string          `json:"nama_gedung,omitempty"`
	Periode     string          `json:"periode"`
	Jumlah      decimal.Decimal `json:"jumlah"`
	JatuhTempo  time.Time       `json:"jatuh_tempo"`
	Status      string          `json:"status"`
	Terlambat   bool            `json:"terlambat"`
	DibayarPada *time.Time      `json:"dibayar_pada"`
	CreatedAt   time.Time       `json:"created_at"`
}

type TagihanFilter struct {
	Status    string
	Periode   string
	IDPenyewa *int
}

type GenerateTagihanRequest struct {
	Periode string `json:"periode" validate:"required,datetime=2006-01"`
}

type GenerateResult struct {
	Periode  string `json:"periode"`
	Dibuat   int    `json:"dibuat"`
	Dilewati int    `json:"dilewati"`
}

type Dashboard struct {
	TotalKamar         int             `json:"total_kamar"`
	KamarTerisi        int             `json:"kamar_terisi"`
	KamarKosong        int             `json:"kamar_kosong"`
	TingkatHunian      float64         `json:"tingkat_hunian"`
	PenyewaAktif       int             `json:"penyewa_aktif"`
	TagihanUnpaid      int             `json:"tagihan_unpaid"`
	NominalUnpaid      decimal.Decimal `json:"nominal_unpaid"`
	TagihanTerlambat   int             `json:"tagihan_terlambat"`
	PendapatanBulanIni decimal.Decimal `json:"pendapatan_bulan_ini"`
}
