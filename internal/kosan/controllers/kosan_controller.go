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

func pathID(c echo.Context, label string) (int, error) {
	id, ok := utils.ParseID(c, "id")
	if !ok {
		return 0, errs.BadRequest(label + " harus berupa angka")
	}
	return id, nil
}

type GedungController struct {
	Service *services.GedungService
}

func NewGedungController(service *services.GedungService) *GedungController {
	return &GedungController{Service: service}
}

func (gc *GedungController) ListGedung(c echo.Context) error {
	list, err := gc.Service.ListGedung(c.Request().Context(), c.QueryParam("search"))
	if err != nil {
		return err
	}
	return response.OK(c, list)
}

func (gc *GedungController) GetGedung(c echo.Context) error {
	id, err := pathID(c, "id_gedung")
	if err != nil {
		return err
	}
	g, err := gc.Service.GetGedung(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return response.OK(c, g)
}

func (gc *GedungController) CreateGedung(c echo.Context) error {
	var req models.GedungRequest
	if err := validation.BindAndValidate(c, &req); err != nil {
		return err
	}
	g, err := gc.Service.CreateGedung(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return response.Created(c, "Gedung berhasil ditambahkan", g)
}

func (gc *GedungController) UpdateGedung(c echo.Context) error {
	id, err := pathID(c, "id_gedung")
	if err != nil {
		return err
	}
	var req models.GedungRequest
	if err := validation.BindAndValidate(c, &req); err != nil {
		return err
	}
	g, err := gc.Service.UpdateGedung(c.Request().Context(), id, req)
	if err != nil {
		return err
	}
	return response.OKMessage(c, "Gedung berhasil diperbarui", g)
}

func (gc *GedungController) DeleteGedung(c echo.Context) error {
	id, err := pathID(c, "id_gedung")
	if err != nil {
		return err
	}
	if err := gc.Service.DeleteGedung(c.Request().Context(), id); err != nil {
		return err
	}
	return response.OKMessage(c, "Gedung berhasil dihapus", nil)
}

type KamarController struct {
	Service *services.KamarService
}

func NewKamarController(service *services.KamarService) *KamarController {
	return &KamarController{Service: service}
}

// ListKamar menangani GET /api/kosan/kamar?id_gedung=&status=kosong|terisi.
func (kc *KamarController) ListKamar(c echo.Context) error {
	idGedung, ok := utils.ParseOptionalInt(c, "id_gedung")
	if !ok {
		return errs.BadRequest("id_gedung harus berupa angka")
	}
	status := c.QueryParam("status")
	if status != "" && status != models.KamarKosong && status != models.KamarTerisi {
		return errs.BadRequest("status harus kosong atau terisi")
	}
	list, err := kc.Service.ListKamar(c.Request().Context(), models.KamarFilter{IDGedung: idGedung, Status: status})
	if err != nil {
		return err
	}
	return response.OK(c, list)
}

func (kc *KamarController) GetKamar(c echo.Context) error {
	id, err := pathID(c, "id_kamar")
	if err != nil {
		return err
	}
	k, err := kc.Service.GetKamar(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return response.OK(c, k)
}

func (kc *KamarController) CreateKamar(c echo.Context) error {
	var req models.KamarRequest
	if err := validation.BindAndValidate(c, &req); err != nil {
		return err
	}
	k, err := kc.Service.CreateKamar(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return response.Created(c, "Kamar berhasil ditambahkan", k)
}

func (kc *KamarController) UpdateKamar(c echo.Context) error {
	id, err := pathID(c, "id_kamar")
	if err != nil {
		return err
	}
	var req models.KamarRequest
	if err := validation.BindAndValidate(c, &req); err != nil {
		return err
	}
	k, err := kc.Service.UpdateKamar(c.Request().Context(), id, req)
	if err != nil {
		return err
	}
	return response.OKMessage(c, "Kamar berhasil diperbarui", k)
}

func (kc *KamarController) DeleteKamar(c echo.Context) error {
	id, err := pathID(c, "id_kamar")
	if err != nil {
		return err
	}
	if err := kc.Service.DeleteKamar(c.Request().Context(), id); err != nil {
		return err
	}
	return response.OKMessage(c, "Kamar berhasil dihapus", nil)
}
