package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/indrhi/suministros-api/internal/application/auth"
	"github.com/indrhi/suministros-api/internal/application/dto"
	"github.com/indrhi/suministros-api/internal/application/usecase"
)

// UserHandler login y administración de usuarios.
type UserHandler struct {
	users *usecase.UserUseCase
	auth  *auth.AuthUseCase
}

// NewUserHandler construye el handler.
func NewUserHandler(users *usecase.UserUseCase, authUC *auth.AuthUseCase) *UserHandler {
	return &UserHandler{users: users, auth: authUC}
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         usuarios
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/usuarios/login [post]
func (h *UserHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.auth.Login(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar usuarios activos
// @Tags         usuarios
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ListResponse[dto.UserResponse]
// @Router       /api/usuarios [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	out, err := h.users.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewList(out))
}

// Create godoc
// @Summary      Crear usuario
// @Tags         usuarios
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateUserRequest  true  "Datos del usuario"
// @Success      201   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/usuarios [post]
func (h *UserHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateUserRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.users.Create(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar usuario
// @Tags         usuarios
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID del usuario"
// @Param        body  body  dto.UpdateUserRequest  true  "Campos a cambiar"
// @Success      200   {object}  dto.UserResponse
// @Router       /api/usuarios/{id} [put]
func (h *UserHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateUserRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	id, err := idParam(c)
	if err != nil {
		return err
	}
	out, err := h.users.Update(c.UserContext(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// ChangePassword godoc
// @Summary      Cambiar contraseña de un usuario
// @Tags         usuarios
// @Security     Bearer
// @Accept       json
// @Param        id    path  string                     true  "ID del usuario"
// @Param        body  body  dto.ChangePasswordRequest  true  "Nueva contraseña"
// @Success      204
// @Router       /api/usuarios/{id}/password [put]
func (h *UserHandler) ChangePassword(c *fiber.Ctx) error {
	var in dto.ChangePasswordRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	id, err := idParam(c)
	if err != nil {
		return err
	}
	if err := h.users.ChangePassword(c.UserContext(), id, in.Password); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Delete godoc
// @Summary      Dar de baja usuario
// @Tags         usuarios
// @Security     Bearer
// @Param        id   path  string  true  "ID del usuario"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/usuarios/{id} [delete]
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	if err := h.users.Delete(c.UserContext(), GetSession(c), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
