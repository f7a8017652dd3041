package entity

import "time"

// PlanStatus estado derivado del plan de un tenant. Nunca se persiste;
// se recalcula a partir de IsPro y las fechas de vencimiento.
type PlanStatus string

const (
	PlanTrialActive       PlanStatus = "trial_active"
	PlanTrialExpired      PlanStatus = "trial_expired"
	PlanSubscribedActive  PlanStatus = "subscribed_active"
	PlanSubscribedExpired PlanStatus = "subscribed_expired"
)

// DerivePlanStatus calcula el estado del plan en el instante dado:
//
//	!IsPro && TrialExpires > now  → trial_active
//	!IsPro && TrialExpires <= now → trial_expired
//	IsPro && SubscriptionExpires > now  → subscribed_active
//	IsPro && SubscriptionExpires <= now → subscribed_expired
//
// Un tenant IsPro sin SubscriptionExpires viola el invariante de datos;
// se reporta como subscribed_expired en lugar de entrar en pánico.
func DerivePlanStatus(t *Tenant, now time.Time) PlanStatus {
	if !t.IsPro {
		if t.TrialExpires.After(now) {
			return PlanTrialActive
		}
		return PlanTrialExpired
	}
	if t.SubscriptionExpires != nil && t.SubscriptionExpires.After(now) {
		return PlanSubscribedActive
	}
	return PlanSubscribedExpired
}
