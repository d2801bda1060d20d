package controllers

import (
	"github.com/labstack/echo/v4"

	"github.com/c14220110/kasirung-backend/internal/common/response"
	"github.com/c14220110/kasirung-backend/internal/common/validation"
	"github.com/c14220110/kasirung-backend/internal/klinik/models"
	"github.com/c14220110/kasirung-backend/internal/klinik/services"
	"github.com/c14220110/kasirung-backend/pkg/utils"
)

type ObatController struct {
	Service *services.ObatService
}

func NewObatController(service *services.ObatService) *ObatController {
	return &ObatController{Service: service}
}

func (oc *ObatController) ListObat(c echo.Context) error {
	pg := utils.ParsePagination(c)
	list, total, err := oc.Service.ListObat(c.Request().Context(), models.ObatFilter{
		Search:      c.QueryParam("search"),
		StokMenipis: c.QueryParam("stok_menipis") == "true",
	}, pg)
	if err != nil {
		return err
	}
	return response.Paginated(c, list, pg.Page, pg.Limit, total)
}

func (oc *ObatController) GetObat(c echo.Context) error {
	id, err := pathID(c, "id_obat")
	if err != nil {
		return err
	}
	o, err := oc.Service.GetObat(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return response.OK(c, o)
}

func (oc *ObatController) CreateObat(c echo.Context) error {
	var req models.ObatRequest
	if err := validation.BindAndValidate(c, &req); err != nil {
		return err
	}
	o, err := oc.Service.CreateObat(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return response.Created(c, "Obat berhasil ditambahkan", o)
}

func (oc *ObatController) UpdateObat(c echo.Context) error {
	id, err := pathID(c, "id_obat")
	if err != nil {
		return err
	}
	var req models.ObatRequest
	if err := validation.BindAndValidate(c, &req); err != nil {
		return err
	}
	o, err := oc.Service.UpdateObat(c.Request().Context(), id, req)
	if err != nil {
		return err
	}
	return response.OKMessage(c, "Obat berhasil diperbarui", o)
}

func (oc *ObatController) DeleteObat(c echo.Context) error {
	id, err := pathID(c, "id_obat")
	if err != nil {
		return err
	}
	if err := oc.Service.DeleteObat(c.Request().Context(), id); err != nil {
		return err
	}
	return response.OKMessage(c, "Obat berhasil dihapus", nil)
}

func (oc *ObatController) MutasiStok(c echo.Context) error {
	id, err := pathID(c, "id_obat")
	if err != nil {
		return err
	}
	var req models.MutasiRequest
	if err := validation.BindAndValidate(c, &req); err != nil {
		return err
	}
	o, err := oc.Service.MutasiStok(c.Request().Context(), id, req)
	if err != nil {
		return err
	}
	return response.OKMessage(c, "Stok obat berhasil diperbarui", o)
}

func (oc *ObatController) RiwayatMutasi(c echo.Context) error {
	id, err := pathID(c, "id_obat")
	if err != nil {
		return err
	}
	pg := utils.ParsePagination(c)
	list, total, err := oc.Service.RiwayatMutasi(c.Request().Context(), id, pg)
	if err != nil {
		return err
	}
	return response.Paginated(c, list, pg.Page, pg.Limit, total)
}
