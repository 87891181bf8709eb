package model

import "time"

// SensorReading is a single telemetry sample.  Readings are telemetry, not
// master data: by default they are hard-deleted rather than deactivated
// (see TELEMETRY_HARD_DELETE).
type SensorReading struct {
	Base
	SensorID  uint64    // sensor_reading.sensor_id
	Timestamp time.Time // sensor_reading.timestamp
	Value     float64   // sensor_reading.value
}
