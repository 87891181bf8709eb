package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/agrovia/agrocontrol/internal/service"
)

// SensorHandler serves the sensor CRUD endpoints.
type SensorHandler struct {
	Command *service.DeviceCommandService
	Query   *service.DeviceQueryService
}

func NewSensorHandler(cmd *service.DeviceCommandService, q *service.DeviceQueryService) *SensorHandler {
	return &SensorHandler{Command: cmd, Query: q}
}

func (h *SensorHandler) Create(c echo.Context) error {
	var cmd service.CreateSensorCommand
	if err := c.Bind(&cmd); err != nil {
		return badBody(c)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	id, err := h.Command.CreateSensor(ctx, cmd)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

func (h *SensorHandler) GetAll(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	sensors, err := h.Query.GetAllSensors(ctx)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, sensors)
}

func (h *SensorHandler) GetByID(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badID(c)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	s, err := h.Query.GetSensorByID(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, s)
}

func (h *SensorHandler) GetByDevice(c echo.Context) error {
	deviceID, err := pathID(c, "deviceId")
	if err != nil {
		return badID(c)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	sensors, err := h.Query.GetSensorsByDeviceID(ctx, deviceID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, sensors)
}

func (h *SensorHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badID(c)
	}
	var cmd service.UpdateSensorCommand
	if err := c.Bind(&cmd); err != nil {
		return badBody(c)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Command.UpdateSensor(ctx, id, cmd); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"updated": id})
}

func (h *SensorHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badID(c)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Command.DeleteSensor(ctx, id); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": id})
}
