package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/c14220110/kasirung-backend/internal/kasir/controllers"
)

// RegisterKasirRoutes memasang /api/kasir; grup sudah dilindungi sesi dan role kasir.
func RegisterKasirRoutes(g *echo.Group, pc *controllers.ProdukController, tc *controllers.TransaksiController) {
	produk := g.Group("/produk")
	produk.GET("", pc.ListProduk)
	produk.POST("", pc.CreateProduk)
	produk.GET("/:id", pc.GetProduk)
	produk.PUT("/:id", pc.UpdateProduk)
	produk.PATCH("/:id", pc.UpdateProduk)
	produk.DELETE("/:id", pc.DeleteProduk)
	produk.POST("/:id/stok", pc.AdjustStok)

	trx := g.Group("/transaksi")
	trx.GET("", tc.ListTransaksi)
	trx.POST("", tc.CreateTransaksi)
	trx.GET("/:id", tc.GetTransaksi)
	trx.GET("/:id/struk", tc.Struk)

	g.GET("/laporan", tc.Laporan)
	g.GET("/laporan/export", tc.LaporanExport)
	g.GET("/dashboard", tc.Dashboard)
}
