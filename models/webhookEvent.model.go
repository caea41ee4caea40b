package models

import (
	"time"

	"gorm.io/datatypes"
)

// WebhookEvent stores processed provider events for deduplication. The
// unique (provider, event_id) index lets redelivered events be acknowledged
// without reprocessing.
type WebhookEvent struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Provider    string         `json:"provider" gorm:"uniqueIndex:ux_webhook_events_provider_event;not null"`
	EventID     string         `json:"event_id" gorm:"uniqueIndex:ux_webhook_events_provider_event;not null"`
	EventType   string         `json:"event_type" gorm:"index"`
	Payload     datatypes.JSON `json:"payload"`
	ProcessedAt time.Time      `json:"processed_at"`
}
