package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/agrovia/agrocontrol/internal/model"
	"github.com/agrovia/agrocontrol/internal/repository"
)

// DeviceCommandService owns the write path for devices and the telemetry
// records hanging off them (sensors, readings, alerts).
type DeviceCommandService struct {
	devices  *repository.DeviceRepo
	crops    *repository.CropRepo
	sensors  *repository.SensorRepo
	readings *repository.ReadingRepo
	alerts   *repository.AlertRepo
	// hardDelete controls whether deleting a reading or alert removes the
	// row or merely deactivates it (TELEMETRY_HARD_DELETE).
	hardDelete bool
}

// NewDeviceCommandService wires the service with the device family
// repositories and the crop repository used for parent checks.
func NewDeviceCommandService(devices *repository.DeviceRepo, crops *repository.CropRepo,
	sensors *repository.SensorRepo, readings *repository.ReadingRepo,
	alerts *repository.AlertRepo, hardDelete bool) *DeviceCommandService {
	return &DeviceCommandService{
		devices:    devices,
		crops:      crops,
		sensors:    sensors,
		readings:   readings,
		alerts:     alerts,
		hardDelete: hardDelete,
	}
}

// ---- devices ----

// CreateDeviceCommand is the device creation payload.
type CreateDeviceCommand struct {
	CropID uint64 `json:"crop_id"`
	Name   string `json:"name"`
}

func (c *CreateDeviceCommand) Validate() *ValidationError {
	v := newValidation()
	if c.CropID == 0 {
		v.add("crop_id", "is required")
	}
	if !lenBetween(strings.TrimSpace(c.Name), 2, 100) {
		v.add("name", "must be between 2 and 100 characters")
	}
	if v.ok() {
		return nil
	}
	return v
}

// CreateDevice persists a device after confirming the crop exists.  The
// crop may hold at most one active device; the unique index on
// (crop_id, is_active) backstops the pre-check under concurrency.
func (s *DeviceCommandService) CreateDevice(ctx context.Context, cmd CreateDeviceCommand) (uint64, error) {
	if verr := cmd.Validate(); verr != nil {
		return 0, verr
	}
	if _, err := s.crops.GetByID(ctx, cmd.CropID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, fmt.Errorf("crop %d: %w", cmd.CropID, ErrParentNotFound)
		}
		return 0, err
	}
	if _, err := s.devices.GetByCropID(ctx, cmd.CropID); err == nil {
		return 0, fmt.Errorf("crop %d device: %w", cmd.CropID, repository.ErrDuplicate)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return 0, err
	}
	d := &model.Device{CropID: cmd.CropID, Name: strings.TrimSpace(cmd.Name)}
	return s.devices.Save(ctx, d)
}

// UpdateDeviceCommand replaces every mutable device column.
type UpdateDeviceCommand struct {
	Name string `json:"name"`
}

func (c *UpdateDeviceCommand) Validate() *ValidationError {
	v := newValidation()
	if !lenBetween(strings.TrimSpace(c.Name), 2, 100) {
		v.add("name", "must be between 2 and 100 characters")
	}
	if v.ok() {
		return nil
	}
	return v
}

// UpdateDevice overwrites an active device in place.
func (s *DeviceCommandService) UpdateDevice(ctx context.Context, id uint64, cmd UpdateDeviceCommand) error {
	if verr := cmd.Validate(); verr != nil {
		return verr
	}
	if _, err := s.devices.GetByID(ctx, id); err != nil {
		return err
	}
	d := &model.Device{Base: model.Base{ID: id}, Name: strings.TrimSpace(cmd.Name)}
	return s.devices.Update(ctx, d)
}

// DeleteDevice deactivates a device, freeing its crop's slot.
func (s *DeviceCommandService) DeleteDevice(ctx context.Context, id uint64) error {
	return s.devices.Delete(ctx, id)
}

// ---- sensors ----

// CreateSensorCommand is the sensor creation payload.
type CreateSensorCommand struct {
	DeviceID          uint64           `json:"device_id"`
	Type              model.SensorType `json:"type"`
	UnitOfMeasurement string           `json:"unit_of_measurement"`
	Status            string           `json:"status"`
}

func (c *CreateSensorCommand) Validate() *ValidationError {
	v := newValidation()
	if c.DeviceID == 0 {
		v.add("device_id", "is required")
	}
	if !c.Type.Valid() {
		v.add("type", "must be a known sensor type")
	}
	if !lenBetween(strings.TrimSpace(c.UnitOfMeasurement), 1, 20) {
		v.add("unit_of_measurement", "must be between 1 and 20 characters")
	}
	if !lenBetween(strings.TrimSpace(c.Status), 3, 20) {
		v.add("status", "must be between 3 and 20 characters")
	}
	if v.ok() {
		return nil
	}
	return v
}

// CreateSensor persists a sensor for an active device.
func (s *DeviceCommandService) CreateSensor(ctx context.Context, cmd CreateSensorCommand) (uint64, error) {
	if verr := cmd.Validate(); verr != nil {
		return 0, verr
	}
	if _, err := s.devices.GetByID(ctx, cmd.DeviceID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, fmt.Errorf("device %d: %w", cmd.DeviceID, ErrParentNotFound)
		}
		return 0, err
	}
	sn := &model.Sensor{
		DeviceID:          cmd.DeviceID,
		Type:              cmd.Type,
		UnitOfMeasurement: strings.TrimSpace(cmd.UnitOfMeasurement),
		Status:            strings.TrimSpace(cmd.Status),
	}
	return s.sensors.Save(ctx, sn)
}

// UpdateSensorCommand replaces every mutable sensor column.
type UpdateSensorCommand struct {
	Type              model.SensorType `json:"type"`
	UnitOfMeasurement string           `json:"unit_of_measurement"`
	Status            string           `json:"status"`
}

func (c *UpdateSensorCommand) Validate() *ValidationError {
	cc := CreateSensorCommand{DeviceID: 1, Type: c.Type,
		UnitOfMeasurement: c.UnitOfMeasurement, Status: c.Status}
	return cc.Validate()
}

// UpdateSensor overwrites an active sensor in place.
func (s *DeviceCommandService) UpdateSensor(ctx context.Context, id uint64, cmd UpdateSensorCommand) error {
	if verr := cmd.Validate(); verr != nil {
		return verr
	}
	if _, err := s.sensors.GetByID(ctx, id); err != nil {
		return err
	}
	sn := &model.Sensor{
		Base:              model.Base{ID: id},
		Type:              cmd.Type,
		UnitOfMeasurement: strings.TrimSpace(cmd.UnitOfMeasurement),
		Status:            strings.TrimSpace(cmd.Status),
	}
	return s.sensors.Update(ctx, sn)
}

// DeleteSensor deactivates a sensor.
func (s *DeviceCommandService) DeleteSensor(ctx context.Context, id uint64) error {
	return s.sensors.Delete(ctx, id)
}

// ---- readings ----

// CreateReadingCommand is the telemetry sample payload.
type CreateReadingCommand struct {
	SensorID  uint64    `json:"sensor_id"`
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

func (c *CreateReadingCommand) Validate() *ValidationError {
	v := newValidation()
	if c.SensorID == 0 {
		v.add("sensor_id", "is required")
	}
	if c.Timestamp.IsZero() {
		v.add("timestamp", "is required")
	}
	if v.ok() {
		return nil
	}
	return v
}

// CreateReading persists a sample for an active sensor.
func (s *DeviceCommandService) CreateReading(ctx context.Context, cmd CreateReadingCommand) (uint64, error) {
	if verr := cmd.Validate(); verr != nil {
		return 0, verr
	}
	if _, err := s.sensors.GetByID(ctx, cmd.SensorID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, fmt.Errorf("sensor %d: %w", cmd.SensorID, ErrParentNotFound)
		}
		return 0, err
	}
	sr := &model.SensorReading{SensorID: cmd.SensorID, Timestamp: cmd.Timestamp, Value: cmd.Value}
	return s.readings.Save(ctx, sr)
}

// UpdateReadingCommand replaces every mutable reading column.
type UpdateReadingCommand struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

func (c *UpdateReadingCommand) Validate() *ValidationError {
	cc := CreateReadingCommand{SensorID: 1, Timestamp: c.Timestamp, Value: c.Value}
	return cc.Validate()
}

// UpdateReading overwrites a reading in place.
func (s *DeviceCommandService) UpdateReading(ctx context.Context, id uint64, cmd UpdateReadingCommand) error {
	if verr := cmd.Validate(); verr != nil {
		return verr
	}
	if _, err := s.readings.GetByID(ctx, id); err != nil {
		return err
	}
	sr := &model.SensorReading{Base: model.Base{ID: id}, Timestamp: cmd.Timestamp, Value: cmd.Value}
	return s.readings.Update(ctx, sr)
}

// DeleteReading removes a reading.  Telemetry rows are dropped outright
// unless hard deletion is disabled, in which case they are deactivated
// like master data.
func (s *DeviceCommandService) DeleteReading(ctx context.Context, id uint64) error {
	if s.hardDelete {
		return s.readings.Delete(ctx, id)
	}
	return s.readings.Deactivate(ctx, id)
}

// ---- alerts ----

// CreateAlertCommand is the alert payload.
type CreateAlertCommand struct {
	DeviceID  uint64           `json:"device_id"`
	Message   string           `json:"message"`
	Level     model.AlertLevel `json:"level"`
	Timestamp time.Time        `json:"timestamp"`
}

func (c *CreateAlertCommand) Validate() *ValidationError {
	v := newValidation()
	if c.DeviceID == 0 {
		v.add("device_id", "is required")
	}
	if strings.TrimSpace(c.Message) == "" {
		v.add("message", "is required")
	}
	if !c.Level.Valid() {
		v.add("level", "must be Info, Warning or Critical")
	}
	if c.Timestamp.IsZero() {
		v.add("timestamp", "is required")
	}
	if v.ok() {
		return nil
	}
	return v
}

// CreateAlert persists an alert for an active device and returns the
// stored record so callers can fan it out.
func (s *DeviceCommandService) CreateAlert(ctx context.Context, cmd CreateAlertCommand) (*model.Alert, error) {
	if verr := cmd.Validate(); verr != nil {
		return nil, verr
	}
	if _, err := s.devices.GetByID(ctx, cmd.DeviceID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("device %d: %w", cmd.DeviceID, ErrParentNotFound)
		}
		return nil, err
	}
	a := &model.Alert{
		DeviceID:  cmd.DeviceID,
		Message:   strings.TrimSpace(cmd.Message),
		Level:     cmd.Level,
		Timestamp: cmd.Timestamp,
	}
	id, err := s.alerts.Save(ctx, a)
	if err != nil {
		return nil, err
	}
	a.ID = id
	return a, nil
}

// UpdateAlertCommand replaces every mutable alert column.
type UpdateAlertCommand struct {
	Message   string           `json:"message"`
	Level     model.AlertLevel `json:"level"`
	Timestamp time.Time        `json:"timestamp"`
}

func (c *UpdateAlertCommand) Validate() *ValidationError {
	cc := CreateAlertCommand{DeviceID: 1, Message: c.Message, Level: c.Level, Timestamp: c.Timestamp}
	return cc.Validate()
}

// UpdateAlert overwrites an alert in place.
func (s *DeviceCommandService) UpdateAlert(ctx context.Context, id uint64, cmd UpdateAlertCommand) error {
	if verr := cmd.Validate(); verr != nil {
		return verr
	}
	if _, err := s.alerts.GetByID(ctx, id); err != nil {
		return err
	}
	a := &model.Alert{
		Base:      model.Base{ID: id},
		Message:   strings.TrimSpace(cmd.Message),
		Level:     cmd.Level,
		Timestamp: cmd.Timestamp,
	}
	return s.alerts.Update(ctx, a)
}

// DeleteAlert removes an alert, honouring the same telemetry deletion
// policy as readings.
func (s *DeviceCommandService) DeleteAlert(ctx context.Context, id uint64) error {
	if s.hardDelete {
		return s.alerts.Delete(ctx, id)
	}
	return s.alerts.Deactivate(ctx, id)
}
