package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Industrias válidas para Tenant (deben coincidir con el CHECK de la tabla tenants).
const (
	IndustryTechnology    = "technology"
	IndustryHealthcare    = "healthcare"
	IndustryFinance       = "finance"
	IndustryRetail        = "retail"
	IndustryEducation     = "education"
	IndustryManufacturing = "manufacturing"
	IndustryOther         = "other"
)

// Rangos de tamaño de equipo válidos para Tenant.
const (
	TeamSize1to10    = "1-10"
	TeamSize11to50   = "11-50"
	TeamSize51to200  = "51-200"
	TeamSize201to500 = "201-500"
	TeamSize500Plus  = "500+"
)

// TrialDays duración del trial otorgado en el alta de un tenant.
const TrialDays = 7

// Tenant representa una organización/workspace cliente de la plataforma,
// con su estado de entitlement (trial, suscripción, créditos).
//
// Invariante: IsPro=true implica SubscriptionExpires != nil. Una suscripción
// vencida con IsPro=true es un estado válido (plan pago caducado).
type Tenant struct {
	ID                  string
	CompanyName         string
	Industry            string // ver constantes Industry*
	TeamSize            string // ver constantes TeamSize*
	Credits             int    // siempre >= 0; se sobreescribe, nunca se acumula
	SubscribedPlan      *string
	SubscribedAmount    decimal.Decimal // valor mensual del plan contratado (0 si no aplica)
	SubscribedUserCount int
	TrialExpires        time.Time // fijado en el alta: creación + TrialDays
	SubscriptionExpires *time.Time
	IsPro               bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// ValidIndustry informa si el valor pertenece al enum cerrado de industrias.
func ValidIndustry(s string) bool {
	switch s {
	case IndustryTechnology, IndustryHealthcare, IndustryFinance, IndustryRetail,
		IndustryEducation, IndustryManufacturing, IndustryOther:
		return true
	}
	return false
}

// ValidTeamSize informa si el valor pertenece al enum cerrado de tamaños de equipo.
func ValidTeamSize(s string) bool {
	switch s {
	case TeamSize1to10, TeamSize11to50, TeamSize51to200, TeamSize201to500, TeamSize500Plus:
		return true
	}
	return false
}
