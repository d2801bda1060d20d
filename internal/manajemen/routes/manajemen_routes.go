package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/c14220110/kasirung-backend/internal/manajemen/controllers"
)

// RegisterManajemenRoutes memasang /api/manajemen; grup sudah dilindungi sesi dan role admin.
func RegisterManajemenRoutes(g *echo.Group, rc *controllers.RoleController, pc *controllers.PenggunaController, dc *controllers.DashboardController) {
	g.GET("/dashboard", dc.GetDashboard)

	role := g.Group("/role")
	role.GET("", rc.GetRoleListHandler)
	role.POST("", rc.AddRoleHandler)
	role.PUT("/:id", rc.UpdateRoleHandler)
	role.PATCH("/:id", rc.UpdateRoleHandler)
	role.PUT("/:id/nonaktifkan", rc.SoftDeleteRoleHandler)
	role.PUT("/:id/aktifkan", rc.ActivateRoleHandler)

	pengguna := g.Group("/pengguna")
	pengguna.GET("", pc.ListPengguna)
	pengguna.POST("", pc.CreatePengguna)
	pengguna.GET("/:id", pc.GetPengguna)
	pengguna.PUT("/:id", pc.UpdatePengguna)
	pengguna.PATCH("/:id", pc.UpdatePengguna)
	pengguna.DELETE("/:id", pc.SoftDeletePengguna)
	pengguna.PUT("/:id/aktifkan", pc.ActivatePengguna)
}
