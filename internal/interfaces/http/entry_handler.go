package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/indrhi/suministros-api/internal/application/dto"
	"github.com/indrhi/suministros-api/internal/application/intake"
)

// EntryHandler entradas de mercancía.
type EntryHandler struct {
	uc *intake.UseCase
}

// NewEntryHandler construye el handler.
func NewEntryHandler(uc *intake.UseCase) *EntryHandler {
	return &EntryHandler{uc: uc}
}

// List godoc
// @Summary      Listar entradas de mercancía
// @Tags         entradas
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ListResponse[dto.EntryResponse]
// @Router       /api/entradas-mercancia [get]
func (h *EntryHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewList(out))
}

// GetByID godoc
// @Summary      Obtener entrada
// @Tags         entradas
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la entrada"
// @Success      200  {object}  dto.EntryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/entradas-mercancia/{id} [get]
func (h *EntryHandler) GetByID(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	out, err := h.uc.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// NextOrder godoc
// @Summary      Siguiente número de orden libre del año
// @Tags         entradas
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.NextOrderResponse
// @Router       /api/entradas-mercancia/siguiente-orden [get]
func (h *EntryHandler) NextOrder(c *fiber.Ctx) error {
	out, err := h.uc.NextOrderDigits(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Registrar entrada de mercancía
// @Description  Suma las cantidades a la existencia de cada artículo en una sola transacción.
// @Tags         entradas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateEntryRequest  true  "Orden, suplidor y artículos"
// @Success      201   {object}  dto.EntryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/entradas-mercancia [post]
func (h *EntryHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateEntryRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Register(c.UserContext(), GetSession(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Delete godoc
// @Summary      Revertir entrada de mercancía
// @Tags         entradas
// @Security     Bearer
// @Param        id   path  string  true  "ID de la entrada"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/entradas-mercancia/{id} [delete]
func (h *EntryHandler) Delete(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	if err := h.uc.Delete(c.UserContext(), GetSession(c), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
