package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/agrovia/agrocontrol/internal/service"
)

// ReadingHandler serves the telemetry sample endpoints.
type ReadingHandler struct {
	Command *service.DeviceCommandService
	Query   *service.DeviceQueryService
}

func NewReadingHandler(cmd *service.DeviceCommandService, q *service.DeviceQueryService) *ReadingHandler {
	return &ReadingHandler{Command: cmd, Query: q}
}

func (h *ReadingHandler) Create(c echo.Context) error {
	var cmd service.CreateReadingCommand
	if err := c.Bind(&cmd); err != nil {
		return badBody(c)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	id, err := h.Command.CreateReading(ctx, cmd)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

func (h *ReadingHandler) GetByID(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badID(c)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	r, err := h.Query.GetReadingByID(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, r)
}

func (h *ReadingHandler) GetBySensor(c echo.Context) error {
	sensorID, err := pathID(c, "sensorId")
	if err != nil {
		return badID(c)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	readings, err := h.Query.GetReadingsBySensorID(ctx, sensorID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, readings)
}

func (h *ReadingHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badID(c)
	}
	var cmd service.UpdateReadingCommand
	if err := c.Bind(&cmd); err != nil {
		return badBody(c)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Command.UpdateReading(ctx, id, cmd); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"updated": id})
}

func (h *ReadingHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badID(c)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Command.DeleteReading(ctx, id); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": id})
}
