package dto

// ChannelResult resultado del intento de entrega por un canal.
type ChannelResult struct {
	OK     bool   `json:"ok"`
	Reason string `json:"reason,omitempty"` // presente solo si OK es false
}

// NotificationResult resultado tri-estado del despacho dual-canal.
// OverallSuccess es true solo si todos los canales intentados tuvieron éxito.
// Un fallo aquí nunca revierte la operación de negocio que lo disparó.
type NotificationResult struct {
	Email          ChannelResult `json:"email"`
	Webhook        ChannelResult `json:"webhook"`
	OverallSuccess bool          `json:"overall_success"`
}
