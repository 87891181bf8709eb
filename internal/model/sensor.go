package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Sensor is a measuring unit attached to a device.
type Sensor struct {
	Base
	DeviceID          uint64     // sensor.device_id
	Type              SensorType // sensor.type
	UnitOfMeasurement string     // sensor.unit_of_measurement
	Status            string     // sensor.status
}

// SensorType enumerates the supported sensor kinds.  Ordinals are part of
// the wire contract: 0=Temperature, 1=Humidity, 2=Light, 3=Rain, 4=pH,
// 5=Nutrients.
type SensorType uint8

const (
	SensorTemperature SensorType = iota
	SensorHumidity
	SensorLight
	SensorRain
	SensorPH
	SensorNutrients
)

var sensorTypeNames = [...]string{"Temperature", "Humidity", "Light", "Rain", "pH", "Nutrients"}

func (t SensorType) Valid() bool { return int(t) < len(sensorTypeNames) }

func (t SensorType) String() string {
	if t.Valid() {
		return sensorTypeNames[t]
	}
	return fmt.Sprintf("SensorType(%d)", uint8(t))
}

// ParseSensorType resolves a sensor type name case-insensitively.
func ParseSensorType(s string) (SensorType, error) {
	for i, n := range sensorTypeNames {
		if strings.EqualFold(n, s) {
			return SensorType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown sensor type %q", s)
}

func (t SensorType) MarshalJSON() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid sensor type ordinal %d", uint8(t))
	}
	return json.Marshal(t.String())
}

// UnmarshalJSON accepts either the type name or its ordinal.
func (t *SensorType) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		v, perr := ParseSensorType(s)
		if perr != nil {
			return perr
		}
		*t = v
		return nil
	}
	var n uint8
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("sensor type must be a name or an ordinal")
	}
	if !SensorType(n).Valid() {
		return fmt.Errorf("sensor type ordinal %d out of range", n)
	}
	*t = SensorType(n)
	return nil
}
