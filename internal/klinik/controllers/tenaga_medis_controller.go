package controllers

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/c14220110/kasirung-backend/internal/common/errs"
	"github.com/c14220110/kasirung-backend/internal/common/response"
	"github.com/c14220110/kasirung-backend/internal/common/validation"
	"github.com/c14220110/kasirung-backend/internal/klinik/models"
	"github.com/c14220110/kasirung-backend/internal/klinik/services"
)

type TenagaMedisController struct {
	Service *services.TenagaMedisService
}

func NewTenagaMedisController(service *services.TenagaMedisService) *TenagaMedisController {
	return &TenagaMedisController{Service: service}
}

func (tc *TenagaMedisController) ListTenagaMedis(c echo.Context) error {
	f := models.TenagaMedisFilter{Profesi: c.QueryParam("profesi")}
	if s := c.QueryParam("aktif"); s != "" {
		aktif, err := strconv.ParseBool(s)
		if err != nil {
			return errs.BadRequest("aktif harus bernilai true atau false")
		}
		f.Aktif = &aktif
	}
	list, err := tc.Service.ListTenagaMedis(c.Request().Context(), f)
	if err != nil {
		return err
	}
	return response.OK(c, list)
}

func (tc *TenagaMedisController) GetTenagaMedis(c echo.Context) error {
	id, err := pathID(c, "id_tenaga_medis")
	if err != nil {
		return err
	}
	tm, err := tc.Service.GetTenagaMedis(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return response.OK(c, tm)
}

func (tc *TenagaMedisController) CreateTenagaMedis(c echo.Context) error {
	var req models.TenagaMedisRequest
	if err := validation.BindAndValidate(c, &req); err != nil {
		return err
	}
	tm, err := tc.Service.CreateTenagaMedis(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return response.Created(c, "Tenaga medis berhasil ditambahkan", tm)
}

func (tc *TenagaMedisController) UpdateTenagaMedis(c echo.Context) error {
	id, err := pathID(c, "id_tenaga_medis")
	if err != nil {
		return err
	}
	var req models.TenagaMedisRequest
	if err := validation.BindAndValidate(c, &req); err != nil {
		return err
	}
	tm, err := tc.Service.UpdateTenagaMedis(c.Request().Context(), id, req)
	if err != nil {
		return err
	}
	return response.OKMessage(c, "Tenaga medis berhasil diperbarui", tm)
}

func (tc *TenagaMedisController) DeleteTenagaMedis(c echo.Context) error {
	id, err := pathID(c, "id_tenaga_medis")
	if err != nil {
		return err
	}
	if err := tc.Service.DeleteTenagaMedis(c.Request().Context(), id); err != nil {
		return err
	}
	return response.OKMessage(c, "Tenaga medis berhasil dihapus", nil)
}
