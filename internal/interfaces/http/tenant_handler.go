package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Consola-api/internal/application/dto"
	"github.com/jhoicas/Consola-api/internal/application/entitlement"
	"github.com/jhoicas/Consola-api/internal/application/provisioning"
)

// TenantHandler maneja las peticiones HTTP para organizaciones y su entitlement.
type TenantHandler struct {
	entitlement  *entitlement.UseCase
	provisioning *provisioning.UseCase
}

// NewTenantHandler construye el handler inyectando los casos de uso.
func NewTenantHandler(ent *entitlement.UseCase, prov *provisioning.UseCase) *TenantHandler {
	return &TenantHandler{entitlement: ent, provisioning: prov}
}

// Create godoc
// @Summary      Alta de organización (trial de 7 días)
// @Tags         tenants
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTenantRequest  true  "Datos de la organización"
// @Success      201   {object}  dto.TenantResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/tenants [post]
func (h *TenantHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateTenantRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.entitlement.CreateTenant(c.Context(), in)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener organización por ID (con estado de plan derivado)
// @Tags         tenants
// @Produce      json
// @Param        id   path  string  true  "ID de la organización"
// @Success      200  {object}  dto.TenantResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/tenants/{id} [get]
func (h *TenantHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.entitlement.GetTenant(c.Context(), c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar organizaciones
// @Tags         tenants
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {object}  dto.TenantListResponse
// @Router       /api/tenants [get]
func (h *TenantHandler) List(c *fiber.Ctx) error {
	page := dto.PageRequest{
		Limit:  c.QueryInt("limit", 20),
		Offset: c.QueryInt("offset", 0),
	}
	out, err := h.entitlement.ListTenants(c.Context(), page)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar organización en cascada (usuarios + tenant, atómico)
// @Tags         tenants
// @Produce      json
// @Param        id   path  string  true  "ID de la organización"
// @Success      200  {object}  dto.DeleteTenantResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/tenants/{id} [delete]
func (h *TenantHandler) Delete(c *fiber.Ctx) error {
	out, err := h.provisioning.DeleteTenant(c.Context(), c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// ExtendTrial godoc
// @Summary      Extender el trial N días sobre el vencimiento almacenado
// @Tags         entitlement
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID de la organización"
// @Param        body  body  dto.ExtendTrialRequest  true  "Días a extender"
// @Success      200   {object}  dto.TenantResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/tenants/{id}/trial/extend [post]
func (h *TenantHandler) ExtendTrial(c *fiber.Ctx) error {
	var in dto.ExtendTrialRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.entitlement.ExtendTrial(c.Context(), c.Params("id"), in.Days)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// RevokeTrial godoc
// @Summary      Revocar el trial (vence ahora)
// @Tags         entitlement
// @Produce      json
// @Param        id  path  string  true  "ID de la organización"
// @Success      200 {object}  dto.TenantResponse
// @Router       /api/tenants/{id}/trial/revoke [post]
func (h *TenantHandler) RevokeTrial(c *fiber.Ctx) error {
	out, err := h.entitlement.RevokeTrial(c.Context(), c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// RenewSubscription godoc
// @Summary      Renovar suscripción N días (marca Pro incondicionalmente)
// @Tags         entitlement
// @Accept       json
// @Produce      json
// @Param        id    path  string                        true  "ID de la organización"
// @Param        body  body  dto.RenewSubscriptionRequest  true  "Días y plan"
// @Success      200   {object}  dto.TenantResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/tenants/{id}/subscription/renew [post]
func (h *TenantHandler) RenewSubscription(c *fiber.Ctx) error {
	var in dto.RenewSubscriptionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.entitlement.RenewSubscription(c.Context(), c.Params("id"), in)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// SetCredits godoc
// @Summary      Fijar créditos (sobreescribe, no suma)
// @Tags         entitlement
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID de la organización"
// @Param        body  body  dto.SetCreditsRequest  true  "Créditos"
// @Success      200   {object}  dto.TenantResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/tenants/{id}/credits [put]
func (h *TenantHandler) SetCredits(c *fiber.Ctx) error {
	var in dto.SetCreditsRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.entitlement.SetCredits(c.Context(), c.Params("id"), in.Credits)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// SetSubscribedUsers godoc
// @Summary      Fijar cantidad de usuarios contratados
// @Tags         entitlement
// @Accept       json
// @Produce      json
// @Param        id    path  string                         true  "ID de la organización"
// @Param        body  body  dto.SetSubscribedUsersRequest  true  "Cantidad"
// @Success      200   {object}  dto.TenantResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/tenants/{id}/subscribed-users [put]
func (h *TenantHandler) SetSubscribedUsers(c *fiber.Ctx) error {
	var in dto.SetSubscribedUsersRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.entitlement.UpdateSubscribedUserCount(c.Context(), c.Params("id"), in.Count)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}
