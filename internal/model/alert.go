package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Alert is a notification raised by a device.  Like readings, alerts are
// telemetry and default to hard deletion.
type Alert struct {
	Base
	DeviceID  uint64     // alert.device_id
	Message   string     // alert.message
	Level     AlertLevel // alert.level
	Timestamp time.Time  // alert.timestamp
}

// AlertLevel enumerates alert severities.  Ordinals are part of the wire
// contract: 0=Info, 1=Warning, 2=Critical.
type AlertLevel uint8

const (
	AlertInfo AlertLevel = iota
	AlertWarning
	AlertCritical
)

var alertLevelNames = [...]string{"Info", "Warning", "Critical"}

func (l AlertLevel) Valid() bool { return int(l) < len(alertLevelNames) }

func (l AlertLevel) String() string {
	if l.Valid() {
		return alertLevelNames[l]
	}
	return fmt.Sprintf("AlertLevel(%d)", uint8(l))
}

// ParseAlertLevel resolves a level name case-insensitively.
func ParseAlertLevel(s string) (AlertLevel, error) {
	for i, n := range alertLevelNames {
		if strings.EqualFold(n, s) {
			return AlertLevel(i), nil
		}
	}
	return 0, fmt.Errorf("unknown alert level %q", s)
}

func (l AlertLevel) MarshalJSON() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("invalid alert level ordinal %d", uint8(l))
	}
	return json.Marshal(l.String())
}

// UnmarshalJSON accepts either the level name or its ordinal.
func (l *AlertLevel) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		v, perr := ParseAlertLevel(s)
		if perr != nil {
			return perr
		}
		*l = v
		return nil
	}
	var n uint8
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("alert level must be a name or an ordinal")
	}
	if !AlertLevel(n).Valid() {
		return fmt.Errorf("alert level ordinal %d out of range", n)
	}
	*l = AlertLevel(n)
	return nil
}
