package controllers

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/c14220110/kasirung-backend/internal/common/errs"
	"github.com/c14220110/kasirung-backend/internal/common/response"
	"github.com/c14220110/kasirung-backend/internal/common/validation"
	"github.com/c14220110/kasirung-backend/internal/klinik/models"
	"github.com/c14220110/kasirung-backend/internal/klinik/services"
	"github.com/c14220110/kasirung-backend/pkg/utils"
)

type TagihanController struct {
	Service    *services.TagihanService
	Dashboard  *services.DashboardService
	Loc        *time.Location
	NamaKlinik string
}

func NewTagihanController(service *services.TagihanService, dashboard *services.DashboardService, loc *time.Location, namaKlinik string) *TagihanController {
	return &TagihanController{Service: service, Dashboard: dashboard, Loc: loc, NamaKlinik: namaKlinik}
}

func (tc *TagihanController) ListTagihan(c echo.Context) error {
	dari, sampai, ok := utils.DateRange(c, tc.Loc, 30)
	if !ok {
		return errs.BadRequest("Rentang tanggal tidak valid, gunakan format YYYY-MM-DD")
	}
	pg := utils.ParsePagination(c)
	list, total, err := tc.Service.ListTagihan(c.Request().Context(), models.TagihanFilter{
		Status: c.QueryParam("status"),
		Dari:   dari,
		Sampai: sampai,
	}, pg)
	if err != nil {
		return err
	}
	return response.Paginated(c, list, pg.Page, pg.Limit, total)
}

func (tc *TagihanController) GetTagihan(c echo.Context) error {
	id, err := pathID(c, "id_tagihan")
	if err != nil {
		return err
	}
	t, err := tc.Service.GetTagihan(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return response.OK(c, t)
}

func (tc *TagihanController) BayarTagihan(c echo.Context) error {
	id, err := pathID(c, "id_tagihan")
	if err != nil {
		return err
	}
	var req models.BayarRequest
	if err := validation.BindAndValidate(c, &req); err != nil {
		return err
	}
	t, err := tc.Service.BayarTagihan(c.Request().Context(), id, req)
	if err != nil {
		return err
	}
	return response.OKMessage(c, "Pembayaran berhasil dicatat", t)
}

func (tc *TagihanController) InvoicePDF(c echo.Context) error {
	id, err := pathID(c, "id_tagihan")
	if err != nil {
		return err
	}
	body, filename, err := tc.Service.InvoicePDF(c.Request().Context(), id, tc.NamaKlinik)
	if err != nil {
		return err
	}
	return response.Attachment(c, response.ContentTypePDF, filename, body)
}

func (tc *TagihanController) GetDashboard(c echo.Context) error {
	dari, sampai, ok := utils.DateRange(c, tc.Loc, 30)
	if !ok {
		return errs.BadRequest("Rentang tanggal tidak valid, gunakan format YYYY-MM-DD")
	}
	d, err := tc.Dashboard.GetDashboardData(c.Request().Context(), dari, sampai)
	if err != nil {
		return err
	}
	return response.OK(c, d)
}
