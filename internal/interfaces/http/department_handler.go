package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/indrhi/suministros-api/internal/application/dto"
	"github.com/indrhi/suministros-api/internal/application/usecase"
)

// DepartmentHandler departamentos.
type DepartmentHandler struct {
	uc *usecase.DepartmentUseCase
}

// NewDepartmentHandler construye el handler.
func NewDepartmentHandler(uc *usecase.DepartmentUseCase) *DepartmentHandler {
	return &DepartmentHandler{uc: uc}
}

// List godoc
// @Summary      Listar departamentos activos
// @Tags         departamentos
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ListResponse[dto.DepartmentResponse]
// @Router       /api/departamentos [get]
func (h *DepartmentHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewList(out))
}

// GetByID godoc
// @Summary      Obtener departamento
// @Tags         departamentos
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del departamento"
// @Success      200  {object}  dto.DepartmentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/departamentos/{id} [get]
func (h *DepartmentHandler) GetByID(c *fiber.Ctx) error {
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
// @Summary      Crear departamento
// @Tags         departamentos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateDepartmentRequest  true  "Código y nombre"
// @Success      201   {object}  dto.DepartmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/departamentos [post]
func (h *DepartmentHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateDepartmentRequest
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
// @Summary      Actualizar departamento
// @Tags         departamentos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                       true  "ID del departamento"
// @Param        body  body  dto.UpdateDepartmentRequest  true  "Campos a cambiar"
// @Success      200   {object}  dto.DepartmentResponse
// @Router       /api/departamentos/{id} [put]
func (h *DepartmentHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateDepartmentRequest
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
// @Summary      Dar de baja departamento
// @Tags         departamentos
// @Security     Bearer
// @Param        id   path  string  true  "ID del departamento"
// @Success      204
// @Router       /api/departamentos/{id} [delete]
func (h *DepartmentHandler) Delete(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	if err := h.uc.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
