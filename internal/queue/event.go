// Package queue defines message payloads exchanged over the message broker.
package queue

// AlertRaisedEvent is published when a device raises an alert.  It
// carries enough information for downstream consumers to log or notify
// without querying the primary database.
type AlertRaisedEvent struct {
	AlertID   uint64 `json:"alert_id"`
	DeviceID  uint64 `json:"device_id"`
	Level     string `json:"level"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}
