package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Consola-api/internal/application/dto"
	"github.com/jhoicas/Consola-api/internal/application/provisioning"
)

// UserHandler maneja las peticiones HTTP de provisioning de usuarios.
type UserHandler struct {
	uc *provisioning.UseCase
}

// NewUserHandler construye el handler inyectando el caso de uso.
func NewUserHandler(uc *provisioning.UseCase) *UserHandler {
	return &UserHandler{uc: uc}
}

// Add godoc
// @Summary      Provisionar usuario en una organización
// @Description  La escritura se confirma antes del despacho de bienvenida:
// @Description  la respuesta 201 incluye el tri-estado de notificación aunque
// @Description  ambos canales hayan fallado (éxito parcial).
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "ID de la organización"
// @Param        body  body  dto.AddUserRequest  true  "Perfil del usuario"
// @Success      201   {object}  dto.AddUserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/tenants/{id}/users [post]
func (h *UserHandler) Add(c *fiber.Ctx) error {
	var in dto.AddUserRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.AddUser(c.Context(), c.Params("id"), in)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar usuarios de una organización
// @Tags         users
// @Produce      json
// @Param        id      path   string  true   "ID de la organización"
// @Param        limit   query  int     false  "Límite"   default(20)
// @Param        offset  query  int     false  "Offset"   default(0)
// @Success      200     {object}  dto.UserListResponse
// @Router       /api/tenants/{id}/users [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	page := dto.PageRequest{
		Limit:  c.QueryInt("limit", 20),
		Offset: c.QueryInt("offset", 0),
	}
	out, err := h.uc.ListUsers(c.Context(), c.Params("id"), page)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar usuario (borrado duro)
// @Tags         users
// @Produce      json
// @Param        id      path  string  true  "ID de la organización"
// @Param        userId  path  string  true  "ID del usuario"
// @Success      204     "Sin contenido"
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/tenants/{id}/users/{userId} [delete]
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.DeleteUser(c.Context(), c.Params("id"), c.Params("userId")); err != nil {
		return domainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
