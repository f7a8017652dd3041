package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateTenantRequest entrada para el alta de una organización (signup).
type CreateTenantRequest struct {
	CompanyName string `json:"company_name" validate:"required,min=1,max=200"`
	Industry    string `json:"industry" validate:"required"`
	TeamSize    string `json:"team_size" validate:"required"`
}

// ExtendTrialRequest entrada para extender el trial.
type ExtendTrialRequest struct {
	Days int `json:"days" validate:"required,min=1"`
}

// RenewSubscriptionRequest entrada para renovar la suscripción.
// Plan y Amount son opcionales: si vienen, se actualiza el plan contratado.
type RenewSubscriptionRequest struct {
	Days   int              `json:"days" validate:"required,min=1"`
	Plan   *string          `json:"plan"`
	Amount *decimal.Decimal `json:"amount"`
}

// SetCreditsRequest entrada para fijar los créditos de un tenant.
// El valor sobreescribe el saldo almacenado, no lo incrementa.
type SetCreditsRequest struct {
	Credits int `json:"credits" validate:"min=0"`
}

// SetSubscribedUsersRequest entrada para fijar la cantidad de usuarios contratados.
type SetSubscribedUsersRequest struct {
	Count int `json:"count" validate:"min=0"`
}

// TenantResponse salida de una organización con su estado de plan derivado.
type TenantResponse struct {
	ID                  string          `json:"id"`
	CompanyName         string          `json:"company_name"`
	Industry            string          `json:"industry"`
	TeamSize            string          `json:"team_size"`
	Credits             int             `json:"credits"`
	SubscribedPlan      *string         `json:"subscribed_plan,omitempty"`
	SubscribedAmount    decimal.Decimal `json:"subscribed_amount"`
	SubscribedUserCount int             `json:"subscribed_user_count"`
	TrialExpires        time.Time       `json:"trial_expires"`
	SubscriptionExpires *time.Time      `json:"subscription_expires,omitempty"`
	IsPro               bool            `json:"is_pro"`
	PlanStatus          string          `json:"plan_status"` // derivado, nunca persistido
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// TenantListResponse lista paginada de organizaciones.
type TenantListResponse struct {
	Items []TenantResponse `json:"items"`
	Page  PageResponse     `json:"page"`
}
