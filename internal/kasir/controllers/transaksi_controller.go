package controllers

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/c14220110/kasirung-backend/internal/common/errs"
	"github.com/c14220110/kasirung-backend/internal/common/middlewares"
	"github.com/c14220110/kasirung-backend/internal/common/response"
	"github.com/c14220110/kasirung-backend/internal/common/validation"
	"github.com/c14220110/kasirung-backend/internal/kasir/models"
	"github.com/c14220110/kasirung-backend/internal/kasir/services"
	"github.com/c14220110/kasirung-backend/pkg/utils"
)

type TransaksiController struct {
	Service        *services.TransaksiService
	LaporanService *services.LaporanService
	Loc            *time.Location
	NamaToko       string
}

func NewTransaksiController(service *services.TransaksiService, laporan *services.LaporanService, loc *time.Location, namaToko string) *TransaksiController {
	return &TransaksiController{Service: service, LaporanService: laporan, Loc: loc, NamaToko: namaToko}
}

func (tc *TransaksiController) CreateTransaksi(c echo.Context) error {
	var req models.TransaksiRequest
	if err := validation.BindAndValidate(c, &req); err != nil {
		return err
	}
	trx, err := tc.Service.CreateTransaksi(c.Request().Context(), middlewares.GetClaims(c).IDPengguna, req)
	if err != nil {
		return err
	}
	return response.Created(c, "Transaksi berhasil disimpan", trx)
}

// ListTransaksi menangani GET /api/kasir/transaksi?dari=&sampai=&metode_bayar=; default hari ini.
func (tc *TransaksiController) ListTransaksi(c echo.Context) error {
	dari, sampai, ok := utils.DateRange(c, tc.Loc, 1)
	if !ok {
		return errs.BadRequest("Rentang tanggal tidak valid, gunakan format YYYY-MM-DD")
	}
	pg := utils.ParsePagination(c)
	list, total, err := tc.Service.ListTransaksi(c.Request().Context(), dari, sampai, c.QueryParam("metode_bayar"), pg)
	if err != nil {
		return err
	}
	return response.Paginated(c, list, pg.Page, pg.Limit, total)
}

func (tc *TransaksiController) GetTransaksi(c echo.Context) error {
	id, err := pathID(c, "id_transaksi")
	if err != nil {
		return err
	}
	trx, err := tc.Service.GetTransaksi(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return response.OK(c, trx)
}

func (tc *TransaksiController) Struk(c echo.Context) error {
	id, err := pathID(c, "id_transaksi")
	if err != nil {
		return err
	}
	body, filename, err := tc.Service.StrukPDF(c.Request().Context(), id, tc.NamaToko)
	if err != nil {
		return err
	}
	return response.Attachment(c, response.ContentTypePDF, filename, body)
}

// Laporan menangani GET /api/kasir/laporan?dari=&sampai=; default 30 hari terakhir.
func (tc *TransaksiController) Laporan(c echo.Context) error {
	dari, sampai, ok := utils.DateRange(c, tc.Loc, 30)
	if !ok {
		return errs.BadRequest("Rentang tanggal tidak valid, gunakan format YYYY-MM-DD")
	}
	lap, err := tc.LaporanService.Ringkasan(c.Request().Context(), dari, sampai)
	if err != nil {
		return err
	}
	return response.OK(c, lap)
}

func (tc *TransaksiController) LaporanExport(c echo.Context) error {
	dari, sampai, ok := utils.DateRange(c, tc.Loc, 30)
	if !ok {
		return errs.BadRequest("Rentang tanggal tidak valid, gunakan format YYYY-MM-DD")
	}
	body, err := tc.LaporanService.ExportXLSX(c.Request().Context(), dari, sampai)
	if err != nil {
		return err
	}
	filename := "laporan-penjualan-" + dari.Format("20060102") + "-" + sampai.AddDate(0, 0, -1).Format("20060102") + ".xlsx"
	return response.Attachment(c, response.ContentTypeXLSX, filename, body)
}

func (tc *TransaksiController) Dashboard(c echo.Context) error {
	d, err := tc.LaporanService.Dashboard(c.Request().Context())
	if err != nil {
		return err
	}
	return response.OK(c, d)
}
