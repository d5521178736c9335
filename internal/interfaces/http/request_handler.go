package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/indrhi/suministros-api/internal/application/dto"
	"github.com/indrhi/suministros-api/internal/application/lifecycle"
	"github.com/indrhi/suministros-api/internal/domain/entity"
)

// RequestHandler solicitudes: creación, autorización, gestión y despacho.
type RequestHandler struct {
	uc *lifecycle.UseCase
}

// NewRequestHandler construye el handler.
func NewRequestHandler(uc *lifecycle.UseCase) *RequestHandler {
	return &RequestHandler{uc: uc}
}

// List godoc
// @Summary      Listar solicitudes
// @Description  Un usuario de departamento solo ve las de su departamento.
// @Tags         solicitudes
// @Security     Bearer
// @Produce      json
// @Param        estado           query  string  false  "Filtrar por estado"
// @Param        departamento_id  query  string  false  "Filtrar por departamento"
// @Success      200  {object}  dto.ListResponse[dto.RequestResponse]
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/solicitudes [get]
func (h *RequestHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), GetSession(c), c.Query("estado"), c.Query("departamento_id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewList(out))
}

// GetByID godoc
// @Summary      Obtener solicitud
// @Tags         solicitudes
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.RequestResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/solicitudes/{id} [get]
func (h *RequestHandler) GetByID(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	out, err := h.uc.Get(c.UserContext(), GetSession(c), id)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// History godoc
// @Summary      Historial de estados de una solicitud
// @Tags         solicitudes
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.ListResponse[dto.StatusChangeResponse]
// @Router       /api/solicitudes/{id}/historial [get]
func (h *RequestHandler) History(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	out, err := h.uc.History(c.UserContext(), GetSession(c), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewList(out))
}

// Create godoc
// @Summary      Crear solicitud (queda Pendiente)
// @Tags         solicitudes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateRequestRequest  true  "Departamento y artículos"
// @Success      201   {object}  dto.RequestResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/solicitudes [post]
func (h *RequestHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateRequestRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), GetSession(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Submit godoc
// @Summary      Enviar a autorización
// @Tags         solicitudes
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.RequestResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/solicitudes/{id}/enviar [post]
func (h *RequestHandler) Submit(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	out, err := h.uc.Submit(c.UserContext(), GetSession(c), id)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar solicitud pendiente
// @Tags         solicitudes
// @Security     Bearer
// @Param        id   path  string  true  "ID de la solicitud"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/solicitudes/{id} [delete]
func (h *RequestHandler) Delete(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	if err := h.uc.Delete(c.UserContext(), GetSession(c), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Queue devuelve un handler que lista las solicitudes en el estado dado.
//
// @Summary      Colas por estado
// @Description  autorizar-solicitudes: En Autorización; solicitudes-aprobadas: Aprobada; solicitudes-gestionadas: En Gestión; solicitudes-despachadas: Despachada.
// @Tags         flujo
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ListResponse[dto.RequestResponse]
// @Router       /api/autorizar-solicitudes [get]
func (h *RequestHandler) Queue(status entity.RequestStatus) fiber.Handler {
	return func(c *fiber.Ctx) error {
		out, err := h.uc.Queue(c.UserContext(), GetSession(c), status)
		if err != nil {
			return err
		}
		return c.JSON(dto.NewList(out))
	}
}

// Approve godoc
// @Summary      Aprobar solicitud
// @Tags         flujo
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.RequestResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/autorizar-solicitudes/{id}/aprobar [post]
func (h *RequestHandler) Approve(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	out, err := h.uc.Approve(c.UserContext(), GetSession(c), id)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Reject godoc
// @Summary      Rechazar solicitud
// @Tags         flujo
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string             true   "ID de la solicitud"
// @Param        body  body  dto.RejectRequest  false  "Motivo"
// @Success      200   {object}  dto.RequestResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/autorizar-solicitudes/{id}/rechazar [post]
func (h *RequestHandler) Reject(c *fiber.Ctx) error {
	var in dto.RejectRequest
	if len(c.Body()) > 0 {
		if err := parseBody(c, &in); err != nil {
			return err
		}
	}
	id, err := idParam(c)
	if err != nil {
		return err
	}
	out, err := h.uc.Reject(c.UserContext(), GetSession(c), id, in.Reason)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// ApproveBatch godoc
// @Summary      Aprobar varias solicitudes
// @Description  Cada id se procesa por separado; la respuesta informa el resultado de cada uno.
// @Tags         flujo
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BatchRequest  true  "IDs"
// @Success      200   {object}  dto.BatchResponse
// @Router       /api/autorizar-solicitudes/aprobar [post]
func (h *RequestHandler) ApproveBatch(c *fiber.Ctx) error {
	var in dto.BatchRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	return c.JSON(h.uc.ApproveBatch(c.UserContext(), GetSession(c), in.IDs))
}

// RejectBatch godoc
// @Summary      Rechazar varias solicitudes
// @Tags         flujo
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BatchRequest  true  "IDs y motivo"
// @Success      200   {object}  dto.BatchResponse
// @Router       /api/autorizar-solicitudes/rechazar [post]
func (h *RequestHandler) RejectBatch(c *fiber.Ctx) error {
	var in dto.BatchRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	return c.JSON(h.uc.RejectBatch(c.UserContext(), GetSession(c), in.IDs, in.Reason))
}

// Assign godoc
// @Summary      Asignar cantidades (Aprobada -> En Gestión)
// @Tags         flujo
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                       true  "ID de la solicitud"
// @Param        body  body  dto.AssignQuantitiesRequest  true  "Cantidades por artículo"
// @Success      200   {object}  dto.RequestResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/solicitudes-aprobadas/{id}/gestionar [post]
func (h *RequestHandler) Assign(c *fiber.Ctx) error {
	var in dto.AssignQuantitiesRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	id, err := idParam(c)
	if err != nil {
		return err
	}
	out, err := h.uc.AssignQuantities(c.UserContext(), GetSession(c), id, in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Dispatch godoc
// @Summary      Despachar solicitud (En Gestión -> Despachada)
// @Tags         flujo
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.RequestResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/solicitudes-gestionadas/{id}/despachar [post]
func (h *RequestHandler) Dispatch(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	out, err := h.uc.Dispatch(c.UserContext(), GetSession(c), id)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// DispatchNote godoc
// @Summary      Conduce de despacho en PDF
// @Tags         flujo
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la solicitud"
// @Success      200  {file}  binary
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/solicitudes-despachadas/{id}/conduce [get]
func (h *RequestHandler) DispatchNote(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	pdf, filename, err := h.uc.DispatchNote(c.UserContext(), GetSession(c), id)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(pdf)
}
