package controllers

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/c14220110/kasirung-backend/internal/common/errs"
	"github.com/c14220110/kasirung-backend/internal/common/response"
	"github.com/c14220110/kasirung-backend/internal/manajemen/services"
	"github.com/c14220110/kasirung-backend/pkg/utils"
)

type DashboardController struct {
	Service *services.DashboardService
	Loc     *time.Location
}

func NewDashboardController(service *services.DashboardService, loc *time.Location) *DashboardController {
	return &DashboardController{Service: service, Loc: loc}
}

// GetDashboard menangani GET /api/manajemen/dashboard?dari=&sampai= (default 7 hari terakhir).
func (dc *DashboardController) GetDashboard(c echo.Context) error {
	dari, sampai, ok := utils.DateRange(c, dc.Loc, 7)
	if !ok {
		return errs.BadRequest("Rentang tanggal tidak valid, gunakan format YYYY-MM-DD")
	}
	if sampai.Sub(dari) > 366*24*time.Hour {
		return errs.BadRequest("Rentang tanggal maksimal satu tahun")
	}
	d, err := dc.Service.GetDashboardData(c.Request().Context(), dari, sampai)
	if err != nil {
		return err
	}
	return response.OK(c, d)
}
