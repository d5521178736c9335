package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/indrhi/suministros-api/internal/application/dto"
	"github.com/indrhi/suministros-api/internal/application/usecase"
)

// ArticleHandler catálogo de artículos.
type ArticleHandler struct {
	uc *usecase.ArticleUseCase
}

// NewArticleHandler construye el handler.
func NewArticleHandler(uc *usecase.ArticleUseCase) *ArticleHandler {
	return &ArticleHandler{uc: uc}
}

// List godoc
// @Summary      Listar artículos activos
// @Tags         articulos
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ListResponse[dto.ArticleResponse]
// @Router       /api/articulos [get]
func (h *ArticleHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewList(out))
}

// LowStock godoc
// @Summary      Artículos con existencia en o por debajo del mínimo
// @Tags         articulos
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ListResponse[dto.ArticleResponse]
// @Router       /api/articulos/bajo-stock [get]
func (h *ArticleHandler) LowStock(c *fiber.Ctx) error {
	out, err := h.uc.LowStock(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewList(out))
}

// GetByID godoc
// @Summary      Obtener artículo
// @Tags         articulos
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del artículo"
// @Success      200  {object}  dto.ArticleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/articulos/{id} [get]
func (h *ArticleHandler) GetByID(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	out, err := h.uc.GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear artículo
// @Tags         articulos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateArticleRequest  true  "Datos del artículo"
// @Success      201   {object}  dto.ArticleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/articulos [post]
func (h *ArticleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateArticleRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar artículo (no modifica existencia)
// @Tags         articulos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID del artículo"
// @Param        body  body  dto.UpdateArticleRequest  true  "Campos a cambiar"
// @Success      200   {object}  dto.ArticleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/articulos/{id} [put]
func (h *ArticleHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateArticleRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	id, err := idParam(c)
	if err != nil {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Dar de baja artículo
// @Tags         articulos
// @Security     Bearer
// @Param        id   path  string  true  "ID del artículo"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/articulos/{id} [delete]
func (h *ArticleHandler) Delete(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	if err := h.uc.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
