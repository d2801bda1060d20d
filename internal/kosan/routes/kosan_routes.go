package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/c14220110/kasirung-backend/internal/kosan/controllers"
)

type Controllers struct {
	Gedung  *controllers.GedungController
	Kamar   *controllers.KamarController
	Penyewa *controllers.PenyewaController
	Tagihan *controllers.TagihanController
}

// RegisterKosanRoutes memasang /api/kosan; grup sudah dilindungi sesi dan role pengelola kosan.
func RegisterKosanRoutes(g *echo.Group, c Controllers) {
	gedung := g.Group("/gedung")
	gedung.GET("", c.Gedung.ListGedung)
	gedung.POST("", c.Gedung.CreateGedung)
	gedung.GET("/:id", c.Gedung.GetGedung)
	gedung.PUT("/:id", c.Gedung.UpdateGedung)
	gedung.PATCH("/:id", c.Gedung.UpdateGedung)
	gedung.DELETE("/:id", c.Gedung.DeleteGedung)

	kamar := g.Group("/kamar")
	kamar.GET("", c.Kamar.ListKamar)
	kamar.POST("", c.Kamar.CreateKamar)
	kamar.GET("/:id", c.Kamar.GetKamar)
	kamar.PUT("/:id", c.Kamar.UpdateKamar)
	kamar.PATCH("/:id", c.Kamar.UpdateKamar)
	kamar.DELETE("/:id", c.Kamar.DeleteKamar)

	penyewa := g.Group("/penyewa")
	penyewa.GET("", c.Penyewa.ListPenyewa)
	penyewa.POST("", c.Penyewa.CheckIn)
	penyewa.GET("/:id", c.Penyewa.GetPenyewa)
	penyewa.PUT("/:id", c.Penyewa.UpdatePenyewa)
	penyewa.PATCH("/:id", c.Penyewa.UpdatePenyewa)
	penyewa.POST("/:id/keluar", c.Penyewa.CheckOut)
	penyewa.DELETE("/:id", c.Penyewa.DeletePenyewa)

	tagihan := g.Group("/tagihan")
	tagihan.GET("", c.Tagihan.ListTagihan)
	tagihan.POST("/generate", c.Tagihan.GenerateTagihan)
	tagihan.GET("/:id", c.Tagihan.GetTagihan)
	tagihan.POST("/:id/bayar", c.Tagihan.BayarTagihan)
	tagihan.GET("/:id/invoice", c.Tagihan.InvoicePDF)

	g.GET("/dashboard", c.Tagihan.GetDashboard)
}
