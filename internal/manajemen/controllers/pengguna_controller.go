package controllers

import (
	"github.com/labstack/echo/v4"

	"github.com/c14220110/kasirung-backend/internal/common/errs"
	"github.com/c14220110/kasirung-backend/internal/common/middlewares"
	"github.com/c14220110/kasirung-backend/internal/common/response"
	"github.com/c14220110/kasirung-backend/internal/common/validation"
	"github.com/c14220110/kasirung-backend/internal/manajemen/models"
	"github.com/c14220110/kasirung-backend/internal/manajemen/services"
	"github.com/c14220110/kasirung-backend/pkg/utils"
)

type PenggunaController struct {
	Service *services.PenggunaService
}

func NewPenggunaController(service *services.PenggunaService) *PenggunaController {
	return &PenggunaController{Service: service}
}

func idPengguna(c echo.Context) (int, error) {
	id, ok := utils.ParseID(c, "id")
	if !ok {
		return 0, errs.BadRequest("id_pengguna harus berupa angka")
	}
	return id, nil
}

// ListPengguna menangani GET /api/manajemen/pengguna?search=&id_role=&status=&page=&limit=.
func (pc *PenggunaController) ListPengguna(c echo.Context) error {
	idRole, ok := utils.ParseOptionalInt(c, "id_role")
	if !ok {
		return errs.BadRequest("id_role harus berupa angka")
	}
	pg := utils.ParsePagination(c)
	list, total, err := pc.Service.ListPengguna(c.Request().Context(), models.PenggunaFilter{
		Search: c.QueryParam("search"),
		IDRole: idRole,
		Status: c.QueryParam("status"),
	}, pg)
	if err != nil {
		return err
	}
	return response.Paginated(c, list, pg.Page, pg.Limit, total)
}

func (pc *PenggunaController) GetPengguna(c echo.Context) error {
	id, err := idPengguna(c)
	if err != nil {
		return err
	}
	p, err := pc.Service.GetPengguna(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return response.OK(c, p)
}

func (pc *PenggunaController) CreatePengguna(c echo.Context) error {
	var req models.CreatePenggunaRequest
	if err := validation.BindAndValidate(c, &req); err != nil {
		return err
	}
	p, err := pc.Service.CreatePengguna(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return response.Created(c, "Pengguna berhasil ditambahkan", p)
}

func (pc *PenggunaController) UpdatePengguna(c echo.Context) error {
	id, err := idPengguna(c)
	if err != nil {
		return err
	}
	var req models.UpdatePenggunaRequest
	if err := validation.BindAndValidate(c, &req); err != nil {
		return err
	}
	p, err := pc.Service.UpdatePengguna(c.Request().Context(), id, req)
	if err != nil {
		return err
	}
	return response.OKMessage(c, "Pengguna berhasil diperbarui", p)
}

func (pc *PenggunaController) SoftDeletePengguna(c echo.Context) error {
	id, err := idPengguna(c)
	if err != nil {
		return err
	}
	actor := middlewares.GetClaims(c).IDPengguna
	if err := pc.Service.SoftDeletePengguna(c.Request().Context(), id, actor); err != nil {
		return err
	}
	return response.OKMessage(c, "Pengguna berhasil dinonaktifkan", nil)
}

func (pc *PenggunaController) ActivatePengguna(c echo.Context) error {
	id, err := idPengguna(c)
	if err != nil {
		return err
	}
	if err := pc.Service.ActivatePengguna(c.Request().Context(), id); err != nil {
		return err
	}
	return response.OKMessage(c, "Pengguna berhasil diaktifkan", nil)
}
