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

type KonsultasiController struct {
	Service *services.KonsultasiService
}

func NewKonsultasiController(service *services.KonsultasiService) *KonsultasiController {
	return &KonsultasiController{Service: service}
}

func (kc *KonsultasiController) Daftar(c echo.Context) error {
	var req models.KonsultasiRequest
	if err := validation.BindAndValidate(c, &req); err != nil {
		return err
	}
	k, err := kc.Service.Daftar(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return response.Created(c, "Pasien berhasil masuk antrian", k)
}

func (kc *KonsultasiController) Antrian(c echo.Context) error {
	idTenagaMedis, ok := utils.ParseOptionalInt(c, "id_tenaga_medis")
	if !ok {
		return errs.BadRequest("id_tenaga_medis harus berupa angka")
	}
	list, err := kc.Service.Antrian(c.Request().Context(), models.AntrianFilter{
		IDTenagaMedis: idTenagaMedis,
		Status:        c.QueryParam("status"),
	})
	if err != nil {
		return err
	}
	return response.OK(c, list)
}

func (kc *KonsultasiController) GetKonsultasi(c echo.Context) error {
	id, err := pathID(c, "id_konsultasi")
	if err != nil {
		return err
	}
	k, err := kc.Service.GetKonsultasi(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return response.OK(c, k)
}

func (kc *KonsultasiController) Periksa(c echo.Context) error {
	id, err := pathID(c, "id_konsultasi")
	if err != nil {
		return err
	}
	k, err := kc.Service.Periksa(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return response.OKMessage(c, "Pasien sedang diperiksa", k)
}

func (kc *KonsultasiController) Batal(c echo.Context) error {
	id, err := pathID(c, "id_konsultasi")
	if err != nil {
		return err
	}
	k, err := kc.Service.Batal(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return response.OKMessage(c, "Konsultasi dibatalkan", k)
}

func (kc *KonsultasiController) Selesai(c echo.Context) error {
	id, err := pathID(c, "id_konsultasi")
	if err != nil {
		return err
	}
	var req models.SelesaiRequest
	if err := validation.BindAndValidate(c, &req); err != nil {
		return err
	}
	k, err := kc.Service.Selesai(c.Request().Context(), id, req)
	if err != nil {
		return err
	}
	return response.OKMessage(c, "Konsultasi selesai, tagihan telah dibuat", k)
}
