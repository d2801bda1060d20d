package controllers

import (
	"github.com/labstack/echo/v4"

	"github.com/c14220110/kasirung-backend/internal/common/errs"
	"github.com/c14220110/kasirung-backend/internal/common/response"
	"github.com/c14220110/kasirung-backend/internal/common/validation"
	"github.com/c14220110/kasirung-backend/internal/klinik/models"
	"github.com/c14220110/kasirung-backend/internal/klinik/services"
	"github.com/c14220110/kasirung-backend/pkg/utils"
)

func pathID(c echo.Context, label string) (int, error) {
	id, ok := utils.ParseID(c, "id")
	if !ok {
		return 0, errs.BadRequest(label + " harus berupa angka")
	}
	return id, nil
}

type PasienController struct {
	Service *services.PasienService
}

func NewPasienController(service *services.PasienService) *PasienController {
	return &PasienController{Service: service}
}

// ListPasien mendukung ?search= atas nama, no_rm, atau NIK.
func (pc *PasienController) ListPasien(c echo.Context) error {
	pg := utils.ParsePagination(c)
	list, total, err := pc.Service.ListPasien(c.Request().Context(), c.QueryParam("search"), pg)
	if err != nil {
		return err
	}
	return response.Paginated(c, list, pg.Page, pg.Limit, total)
}

func (pc *PasienController) GetPasien(c echo.Context) error {
	id, err := pathID(c, "id_pasien")
	if err != nil {
		return err
	}
	p, err := pc.Service.GetPasien(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return response.OK(c, p)
}

func (pc *PasienController) CreatePasien(c echo.Context) error {
	var req models.PasienRequest
	if err := validation.BindAndValidate(c, &req); err != nil {
		return err
	}
	p, err := pc.Service.CreatePasien(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return response.Created(c, "Pasien berhasil didaftarkan", p)
}

func (pc *PasienController) UpdatePasien(c echo.Context) error {
	id, err := pathID(c, "id_pasien")
	if err != nil {
		return err
	}
	var req models.PasienRequest
	if err := validation.BindAndValidate(c, &req); err != nil {
		return err
	}
	p, err := pc.Service.UpdatePasien(c.Request().Context(), id, req)
	if err != nil {
		return err
	}
	return response.OKMessage(c, "Data pasien berhasil diperbarui", p)
}

func (pc *PasienController) DeletePasien(c echo.Context) error {
	id, err := pathID(c, "id_pasien")
	if err != nil {
		return err
	}
	if err := pc.Service.DeletePasien(c.Request().Context(), id); err != nil {
		return err
	}
	return response.OKMessage(c, "Pasien berhasil dihapus", nil)
}
