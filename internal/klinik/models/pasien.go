package models

import "time"

type Pasien struct {
	IDPasien      int          `json:"id_pasien"`
	NoRM          string       `json:"no_rm"`
	Nama          string       `json:"nama"`
	NIK           *string      `json:"nik"`
	TanggalLahir  time.Time    `json:"tanggal_lahir"`
	JenisKelamin  string       `json:"jenis_kelamin"`
	Alamat        *string      `json:"alamat"`
	NoTelp        *string      `json:"no_telp"`
	GolonganDarah *string      `json:"golongan_darah"`
	CreatedAt     time.Time    `json:"created_at"`
	Riwayat       []Konsultasi `json:"riwayat,omitempty"`
}

// PasienRequest dipakai untuk pendaftaran maupun perubahan data pasien.
// no_rm tidak pernah dikirim klien.
type PasienRequest struct {
	Nama          string  `json:"nama" validate:"required,max=100"`
	NIK           *string `json:"nik" validate:"omitempty,numeric,len=16"`
	TanggalLahir  string  `json:"tanggal_lahir" validate:"required,datetime=2006-01-02"`
	JenisKelamin  string  `json:"jenis_kelamin" validate:"required,oneof=L P"`
	Alamat        *string `json:"alamat" validate:"omitempty,max=255"`
	NoTelp        *string `json:"no_telp" validate:"omitempty,max=20"`
	GolonganDarah *string `json:"golongan_darah" validate:"omitempty,oneof=A B AB O A+ A- B+ B- AB+ AB- O+ O-"`
}
