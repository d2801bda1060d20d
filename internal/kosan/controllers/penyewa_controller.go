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

type PenyewaController struct {
	Service *services.PenyewaService
}

func NewPenyewaController(service *services.PenyewaService) *PenyewaController {
	return &PenyewaController{Service: service}
}

func (pc *PenyewaController) ListPenyewa(c echo.Context) error {
	idGedung, ok := utils.ParseOptionalInt(c, "id_gedung")
	if !ok {
		return errs.BadRequest("id_gedung harus berupa angka")
	}
	pg := utils.ParsePagination(c)
	list, total, err := pc.Service.ListPenyewa(c.Request().Context(), models.PenyewaFilter{
		Search:   c.QueryParam("search"),
		Status:   c.QueryParam("status"),
		IDGedung: idGedung,
	}, pg)
	if err != nil {
		return err
	}
	return response.Paginated(c, list, pg.Page, pg.Limit, total)
}

func (pc *PenyewaController) GetPenyewa(c echo.Context) error {
	id, err := pathID(c, "id_penyewa")
	if err != nil {
		return err
	}
	p, err := pc.Service.GetPenyewa(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return response.OK(c, p)
}

func (pc *PenyewaController) CheckIn(c echo.Context) error {
	var req models.CheckInRequest
	if err := validation.BindAndValidate(c, &req); err != nil {
		return err
	}
	p, err := pc.Service.CheckIn(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return response.Created(c, "Penyewa berhasil check-in", p)
}

func (pc *PenyewaController) UpdatePenyewa(c echo.Context) error {
	id, err := pathID(c, "id_penyewa")
	if err != nil {
		return err
	}
	var req models.UpdatePenyewaRequest
	if err := validation.BindAndValidate(c, &req); err != nil {
		return err
	}
	p, err := pc.Service.UpdatePenyewa(c.Request().Context(), id, req)
	if err != nil {
		return err
	}
	return response.OKMessage(c, "Data penyewa berhasil diperbarui", p)
}

func (pc *PenyewaController) CheckOut(c echo.Context) error {
	id, err := pathID(c, "id_penyewa")
	if err != nil {
		return err
	}
	var req models.CheckOutRequest
	// body boleh kosong
	if c.Request().ContentLength > 0 {
		if err := validation.BindAndValidate(c, &req); err != nil {
			return err
		}
	}
	p, err := pc.Service.CheckOut(c.Request().Context(), id, req)
	if err != nil {
		return err
	}
	return response.OKMessage(c, "Penyewa berhasil check-out", p)
}

func (pc *PenyewaController) DeletePenyewa(c echo.Context) error {
	id, err := pathID(c, "id_penyewa")
	if err != nil {
		return err
	}
	if err := pc.Service.DeletePenyewa(c.Request().Context(), id); err != nil {
		return err
	}
	return response.OKMessage(c, "Penyewa berhasil dihapus", nil)
}
