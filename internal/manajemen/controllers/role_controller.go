package controllers

import (
	"github.com/labstack/echo/v4"

	"github.com/c14220110/kasirung-backend/internal/common/errs"
	"github.com/c14220110/kasirung-backend/internal/common/response"
	"github.com/c14220110/kasirung-backend/internal/common/validation"
	"github.com/c14220110/kasirung-backend/internal/manajemen/models"
	"github.com/c14220110/kasirung-backend/internal/manajemen/services"
	"github.com/c14220110/kasirung-backend/pkg/utils"
)

type RoleController struct {
	Service *services.RoleService
}

func NewRoleController(service *services.RoleService) *RoleController {
	return &RoleController{Service: service}
}

func idRole(c echo.Context) (int, error) {
	id, ok := utils.ParseID(c, "id")
	if !ok {
		return 0, errs.BadRequest("id_role harus berupa angka")
	}
	return id, nil
}

// GetRoleListHandler menangani GET /api/manajemen/role?status=aktif|nonaktif.
func (rc *RoleController) GetRoleListHandler(c echo.Context) error {
	list, err := rc.Service.GetRoleList(c.Request().Context(), c.QueryParam("status"))
	if err != nil {
		return err
	}
	return response.OK(c, list)
}

func (rc *RoleController) AddRoleHandler(c echo.Context) error {
	var req models.RoleRequest
	if err := validation.BindAndValidate(c, &req); err != nil {
		return err
	}
	role, err := rc.Service.AddRole(c.Request().Context(), req.NamaRole)
	if err != nil {
		return err
	}
	return response.Created(c, "Role berhasil ditambahkan", role)
}

func (rc *RoleController) UpdateRoleHandler(c echo.Context) error {
	id, err := idRole(c)
	if err != nil {
		return err
	}
	var req models.RoleRequest
	if err := validation.BindAndValidate(c, &req); err != nil {
		return err
	}
	role, err := rc.Service.UpdateRole(c.Request().Context(), id, req.NamaRole)
	if err != nil {
		return err
	}
	return response.OKMessage(c, "Role berhasil diperbarui", role)
}

func (rc *RoleController) SoftDeleteRoleHandler(c echo.Context) error {
	id, err := idRole(c)
	if err != nil {
		return err
	}
	if err := rc.Service.SoftDeleteRole(c.Request().Context(), id); err != nil {
		return err
	}
	return response.OKMessage(c, "Role berhasil dinonaktifkan", nil)
}

func (rc *RoleController) ActivateRoleHandler(c echo.Context) error {
	id, err := idRole(c)
	if err != nil {
		return err
	}
	if err := rc.Service.ActivateRole(c.Request().Context(), id); err != nil {
		return err
	}
	return response.OKMessage(c, "Role berhasil diaktifkan", nil)
}
