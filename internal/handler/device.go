package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/agrovia/agrocontrol/internal/service"
)

// DeviceHandler serves the device CRUD endpoints.
type DeviceHandler struct {
	Command *service.DeviceCommandService
	Query   *service.DeviceQueryService
}

func NewDeviceHandler(cmd *service.DeviceCommandService, q *service.DeviceQueryService) *DeviceHandler {
	return &DeviceHandler{Command: cmd, Query: q}
}

func (h *DeviceHandler) Create(c echo.Context) error {
	var cmd service.CreateDeviceCommand
	if err := c.Bind(&cmd); err != nil {
		return badBody(c)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	id, err := h.Command.CreateDevice(ctx, cmd)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

func (h *DeviceHandler) GetAll(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	devices, err := h.Query.GetAllDevices(ctx)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, devices)
}

func (h *DeviceHandler) GetByID(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badID(c)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	d, err := h.Query.GetDeviceByID(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, d)
}

func (h *DeviceHandler) GetByCrop(c echo.Context) error {
	cropID, err := pathID(c, "cropId")
	if err != nil {
		return badID(c)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	d, err := h.Query.GetDeviceByCropID(ctx, cropID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, d)
}

func (h *DeviceHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badID(c)
	}
	var cmd service.UpdateDeviceCommand
	if err := c.Bind(&cmd); err != nil {
		return badBody(c)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Command.UpdateDevice(ctx, id, cmd); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"updated": id})
}

func (h *DeviceHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badID(c)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Command.DeleteDevice(ctx, id); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": id})
}
