package service

import (
	"context"
	"time"

	"github.com/agrovia/agrocontrol/internal/model"
	"github.com/agrovia/agrocontrol/internal/repository"
)

// DeviceView is the response shape for devices.
type DeviceView struct {
	ID         uint64    `json:"id"`
	CropID     uint64    `json:"crop_id"`
	Name       string    `json:"name"`
	CreateDate time.Time `json:"create_date"`
}

// SensorView is the response shape for sensors.  The type is rendered as
// its name through the SensorType JSON codec.
type SensorView struct {
	ID                uint64           `json:"id"`
	DeviceID          uint64           `json:"device_id"`
	Type              model.SensorType `json:"type"`
	UnitOfMeasurement string           `json:"unit_of_measurement"`
	Status            string           `json:"status"`
	CreateDate        time.Time        `json:"create_date"`
}

// ReadingView is the response shape for telemetry samples.
type ReadingView struct {
	ID        uint64    `json:"id"`
	SensorID  uint64    `json:"sensor_id"`
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

// AlertView is the response shape for alerts.
type AlertView struct {
	ID        uint64           `json:"id"`
	DeviceID  uint64           `json:"device_id"`
	Message   string           `json:"message"`
	Level     model.AlertLevel `json:"level"`
	Timestamp time.Time        `json:"timestamp"`
}

func toDeviceView(d *model.Device) DeviceView {
	return DeviceView{ID: d.ID, CropID: d.CropID, Name: d.Name, CreateDate: d.CreateDate}
}

func toSensorView(s *model.Sensor) SensorView {
	return SensorView{ID: s.ID, DeviceID: s.DeviceID, Type: s.Type,
		UnitOfMeasurement: s.UnitOfMeasurement, Status: s.Status, CreateDate: s.CreateDate}
}

func toReadingView(r *model.SensorReading) ReadingView {
	return ReadingView{ID: r.ID, SensorID: r.SensorID, Timestamp: r.Timestamp, Value: r.Value}
}

func toAlertView(a *model.Alert) AlertView {
	return AlertView{ID: a.ID, DeviceID: a.DeviceID, Message: a.Message,
		Level: a.Level, Timestamp: a.Timestamp}
}

// DeviceQueryService owns the read path for devices, sensors, readings
// and alerts.
type DeviceQueryService struct {
	devices  *repository.DeviceRepo
	sensors  *repository.SensorRepo
	readings *repository.ReadingRepo
	alerts   *repository.AlertRepo
}

// NewDeviceQueryService wires the service with the device family
// repositories.
func NewDeviceQueryService(devices *repository.DeviceRepo, sensors *repository.SensorRepo,
	readings *repository.ReadingRepo, alerts *repository.AlertRepo) *DeviceQueryService {
	return &DeviceQueryService{devices: devices, sensors: sensors, readings: readings, alerts: alerts}
}

// GetAllDevices returns every active device.
func (s *DeviceQueryService) GetAllDevices(ctx context.Context) ([]DeviceView, error) {
	list, err := s.devices.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]DeviceView, 0, len(list))
	for _, d := range list {
		out = append(out, toDeviceView(d))
	}
	return out, nil
}

// GetDeviceByID returns an active device by id.
func (s *DeviceQueryService) GetDeviceByID(ctx context.Context, id uint64) (*DeviceView, error) {
	d, err := s.devices.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	v := toDeviceView(d)
	return &v, nil
}

// GetDeviceByCropID returns the crop's active device.
func (s *DeviceQueryService) GetDeviceByCropID(ctx context.Context, cropID uint64) (*DeviceView, error) {
	d, err := s.devices.GetByCropID(ctx, cropID)
	if err != nil {
		return nil, err
	}
	v := toDeviceView(d)
	return &v, nil
}

// GetAllSensors returns every active sensor.
func (s *DeviceQueryService) GetAllSensors(ctx context.Context) ([]SensorView, error) {
	list, err := s.sensors.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]SensorView, 0, len(list))
	for _, sn := range list {
		out = append(out, toSensorView(sn))
	}
	return out, nil
}

// GetSensorByID returns an active sensor by id.
func (s *DeviceQueryService) GetSensorByID(ctx context.Context, id uint64) (*SensorView, error) {
	sn, err := s.sensors.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	v := toSensorView(sn)
	return &v, nil
}

// GetSensorsByDeviceID returns the active sensors attached to a device.
func (s *DeviceQueryService) GetSensorsByDeviceID(ctx context.Context, deviceID uint64) ([]SensorView, error) {
	list, err := s.sensors.GetByDeviceID(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	out := make([]SensorView, 0, len(list))
	for _, sn := range list {
		out = append(out, toSensorView(sn))
	}
	return out, nil
}

// GetReadingByID returns a telemetry sample by id.
func (s *DeviceQueryService) GetReadingByID(ctx context.Context, id uint64) (*ReadingView, error) {
	r, err := s.readings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	v := toReadingView(r)
	return &v, nil
}

// GetReadingsBySensorID returns a sensor's samples, newest first.
func (s *DeviceQueryService) GetReadingsBySensorID(ctx context.Context, sensorID uint64) ([]ReadingView, error) {
	list, err := s.readings.GetBySensorID(ctx, sensorID)
	if err != nil {
		return nil, err
	}
	out := make([]ReadingView, 0, len(list))
	for _, r := range list {
		out = append(out, toReadingView(r))
	}
	return out, nil
}

// GetAllAlerts returns every alert, newest first.
func (s *DeviceQueryService) GetAllAlerts(ctx context.Context) ([]AlertView, error) {
	list, err := s.alerts.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]AlertView, 0, len(list))
	for _, a := range list {
		out = append(out, toAlertView(a))
	}
	return out, nil
}

// GetAlertByID returns an alert by id.
func (s *DeviceQueryService) GetAlertByID(ctx context.Context, id uint64) (*AlertView, error) {
	a, err := s.alerts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	v := toAlertView(a)
	return &v, nil
}

// GetAlertsByDeviceID returns a device's alerts, newest first.
func (s *DeviceQueryService) GetAlertsByDeviceID(ctx context.Context, deviceID uint64) ([]AlertView, error) {
	list, err := s.alerts.GetByDeviceID(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	out := make([]AlertView, 0, len(list))
	for _, a := range list {
		out = append(out, toAlertView(a))
	}
	return out, nil
}
