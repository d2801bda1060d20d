package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/c14220110/kasirung-backend/internal/klinik/controllers"
)

type Controllers struct {
	Pasien      *controllers.PasienController
	TenagaMedis *controllers.TenagaMedisController
	Obat        *controllers.ObatController
	Konsultasi  *controllers.KonsultasiController
	Tagihan     *controllers.TagihanController
}

// RegisterKlinikRoutes memasang /api/klinik; grup sudah dilindungi sesi dan role staf klinik.
func RegisterKlinikRoutes(g *echo.Group, c Controllers) {
	pasien := g.Group("/pasien")
	pasien.GET("", c.Pasien.ListPasien)
	pasien.POST("", c.Pasien.CreatePasien)
	pasien.GET("/:id", c.Pasien.GetPasien)
	pasien.PUT("/:id", c.Pasien.UpdatePasien)
	pasien.PATCH("/:id", c.Pasien.UpdatePasien)
	pasien.DELETE("/:id", c.Pasien.DeletePasien)

	tm := g.Group("/tenaga-medis")
	tm.GET("", c.TenagaMedis.ListTenagaMedis)
	tm.POST("", c.TenagaMedis.CreateTenagaMedis)
	tm.GET("/:id", c.TenagaMedis.GetTenagaMedis)
	tm.PUT("/:id", c.TenagaMedis.UpdateTenagaMedis)
	tm.PATCH("/:id", c.TenagaMedis.UpdateTenagaMedis)
	tm.DELETE("/:id", c.TenagaMedis.DeleteTenagaMedis)

	obat := g.Group("/obat")
	obat.GET("", c.Obat.ListObat)
	obat.POST("", c.Obat.CreateObat)
	obat.GET("/:id", c.Obat.GetObat)
	obat.PUT("/:id", c.Obat.UpdateObat)
	obat.PATCH("/:id", c.Obat.UpdateObat)
	obat.DELETE("/:id", c.Obat.DeleteObat)
	obat.POST("/:id/mutasi", c.Obat.MutasiStok)
	obat.GET("/:id/mutasi", c.Obat.RiwayatMutasi)

	konsultasi := g.Group("/konsultasi")
	konsultasi.POST("", c.Konsultasi.Daftar)
	konsultasi.GET("/antrian", c.Konsultasi.Antrian)
	konsultasi.GET("/:id", c.Konsultasi.GetKonsultasi)
	konsultasi.PUT("/:id/periksa", c.Konsultasi.Periksa)
	konsultasi.PUT("/:id/batal", c.Konsultasi.Batal)
	konsultasi.PUT("/:id/selesai", c.Konsultasi.Selesai)

	tagihan := g.Group("/tagihan")
	tagihan.GET("", c.Tagihan.ListTagihan)
	tagihan.GET("/:id", c.Tagihan.GetTagihan)
	tagihan.POST("/:id/bayar", c.Tagihan.BayarTagihan)
	tagihan.GET("/:id/invoice", c.Tagihan.InvoicePDF)

	g.GET("/dashboard", c.Tagihan.GetDashboard)
}
