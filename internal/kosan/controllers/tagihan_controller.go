package controllers

import (
	"github.com/labstack/echo/v4"

	"github.com/c14220110/kasirung-backend/internal/common/errs"
	"github.com/c14220110/kasirung-backend/internal/common/response"
	"github.com/c14220110/kasirung-backend/internal/common/validation"
	"github.com/c14220110/kasirung-backend/internal/kosan/models"
	"github.com/c14220110/kasirung-backend/internal/kosan/services"
	"github.com/c14220110/kasirung-backend/pkg/utils"
)

type TagihanController struct {
	Service   *services.TagihanService
	Dashboard *services.DashboardService
	NamaUsaha string
}

func NewTagihanController(service *services.TagihanService, dashboard *services.DashboardService, namaUsaha string) *TagihanController {
	return &TagihanController{Service: service, Dashboard: dashboard, NamaUsaha: namaUsaha}
}

// ListTagihan menangani GET /api/kosan/tagihan?status=&periode=YYYY-MM&id_penyewa=.
func (tc *TagihanController) ListTagihan(c echo.Context) error {
	idPenyewa, ok := utils.ParseOptionalInt(c, "id_penyewa")
	if !ok {
		return errs.BadRequest("id_penyewa harus berupa angka")
	}
	pg := utils.ParsePagination(c)
	list, total, err := tc.Service.ListTagihan(c.Request().Context(), models.TagihanFilter{
		Status:    c.QueryParam("status"),
		Periode:   c.QueryParam("periode"),
		IDPenyewa: idPenyewa,
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

func (tc *TagihanController) GenerateTagihan(c echo.Context) error {
	var req models.GenerateTagihanRequest
	if err := validation.BindAndValidate(c, &req); err != nil {
		return err
	}
	res, err := tc.Service.GenerateTagihan(c.Request().Context(), req.Periode)
	if err != nil {
		return err
	}
	return response.OKMessage(c, "Tagihan berhasil dibuat", res)
}

func (tc *TagihanController) BayarTagihan(c echo.Context) error {
	id, err := pathID(c, "id_tagihan")
	if err != nil {
		return err
	}
	t, err := tc.Service.BayarTagihan(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return response.OKMessage(c, "Tagihan berhasil dibayar", t)
}

func (tc *TagihanController) InvoicePDF(c echo.Context) error {
	id, err := pathID(c, "id_tagihan")
	if err != nil {
		return err
	}
	body, filename, err := tc.Service.InvoicePDF(c.Request().Context(), id, tc.NamaUsaha)
	if err != nil {
		return err
	}
	return response.Attachment(c, response.ContentTypePDF, filename, body)
}

func (tc *TagihanController) GetDashboard(c echo.Context) error {
	d, err := tc.Dashboard.GetDashboardData(c.Request().Context())
	if err != nil {
		return err
	}
	return response.OK(c, d)
}
