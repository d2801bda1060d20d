package controllers

import (
	"github.com/labstack/echo/v4"

	"github.com/c14220110/kasirung-backend/internal/common/errs"
	"github.com/c14220110/kasirung-backend/internal/common/response"
	"github.com/c14220110/kasirung-backend/internal/common/validation"
	"github.com/c14220110/kasirung-backend/internal/kasir/models"
	"github.com/c14220110/kasirung-backend/internal/kasir/services"
	"github.com/c14220110/kasirung-backend/pkg/utils"
)

type ProdukController struct {
	Service *services.ProdukService
}

func NewProdukController(service *services.ProdukService) *ProdukController {
	return &ProdukController{Service: service}
}

func pathID(c echo.Context, label string) (int, error) {
	id, ok := utils.ParseID(c, "id")
	if !ok {
		return 0, errs.BadRequest(label + " harus berupa angka")
	}
	return id, nil
}

// ListProduk menangani GET /api/kasir/produk?search=&kategori=&stok_menipis=true.
func (pc *ProdukController) ListProduk(c echo.Context) error {
	pg := utils.ParsePagination(c)
	list, total, err := pc.Service.ListProduk(c.Request().Context(), models.ProdukFilter{
		Search:      c.QueryParam("search"),
		Kategori:    c.QueryParam("kategori"),
		StokMenipis: c.QueryParam("stok_menipis") == "true",
	}, pg)
	if err != nil {
		return err
	}
	return response.Paginated(c, list, pg.Page, pg.Limit, total)
}

func (pc *ProdukController) GetProduk(c echo.Context) error {
	id, err := pathID(c, "id_produk")
	if err != nil {
		return err
	}
	p, err := pc.Service.GetProduk(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return response.OK(c, p)
}

func (pc *ProdukController) CreateProduk(c echo.Context) error {
	var req models.ProdukRequest
	if err := validation.BindAndValidate(c, &req); err != nil {
		return err
	}
	p, err := pc.Service.CreateProduk(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return response.Created(c, "Produk berhasil ditambahkan", p)
}

func (pc *ProdukController) UpdateProduk(c echo.Context) error {
	id, err := pathID(c, "id_produk")
	if err != nil {
		return err
	}
	var req models.ProdukRequest
	if err := validation.BindAndValidate(c, &req); err != nil {
		return err
	}
	p, err := pc.Service.UpdateProduk(c.Request().Context(), id, req)
	if err != nil {
		return err
	}
	return response.OKMessage(c, "Produk berhasil diperbarui", p)
}

func (pc *ProdukController) DeleteProduk(c echo.Context) error {
	id, err := pathID(c, "id_produk")
	if err != nil {
		return err
	}
	if err := pc.Service.DeleteProduk(c.Request().Context(), id); err != nil {
		return err
	}
	return response.OKMessage(c, "Produk berhasil dihapus", nil)
}

func (pc *ProdukController) AdjustStok(c echo.Context) error {
	id, err := pathID(c, "id_produk")
	if err != nil {
		return err
	}
	var req models.StokRequest
	if err := validation.BindAndValidate(c, &req); err != nil {
		return err
	}
	p, err := pc.Service.AdjustStok(c.Request().Context(), id, req)
	if err != nil {
		return err
	}
	return response.OKMessage(c, "Stok berhasil diperbarui", p)
}
