package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/agrovia/agrocontrol/internal/queue"
	"github.com/agrovia/agrocontrol/internal/service"
)

// AlertHandler serves the alert endpoints.  Creating an alert also fans
// the event out over the broker; publish failures are logged by the
// publisher and never fail the request.
type AlertHandler struct {
	Command   *service.DeviceCommandService
	Query     *service.DeviceQueryService
	Publisher *queue.Publisher
}

func NewAlertHandler(cmd *service.DeviceCommandService, q *service.DeviceQueryService,
	pub *queue.Publisher) *AlertHandler {
	return &AlertHandler{Command: cmd, Query: q, Publisher: pub}
}

func (h *AlertHandler) Create(c echo.Context) error {
	var cmd service.CreateAlertCommand
	if err := c.Bind(&cmd); err != nil {
		return badBody(c)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	a, err := h.Command.CreateAlert(ctx, cmd)
	if err != nil {
		return fail(c, err)
	}

	go func(ev queue.AlertRaisedEvent) {
		pubCtx, pubCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer pubCancel()
		_ = h.Publisher.PublishAlertRaised(pubCtx, ev)
	}(queue.AlertRaisedEvent{
		AlertID:   a.ID,
		DeviceID:  a.DeviceID,
		Level:     a.Level.String(),
		Message:   a.Message,
		Timestamp: a.Timestamp.UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusCreated, echo.Map{"id": a.ID})
}

func (h *AlertHandler) GetAll(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	alerts, err := h.Query.GetAllAlerts(ctx)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, alerts)
}

func (h *AlertHandler) GetByID(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badID(c)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	a, err := h.Query.GetAlertByID(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *AlertHandler) GetByDevice(c echo.Context) error {
	deviceID, err := pathID(c, "deviceId")
	if err != nil {
		return badID(c)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	alerts, err := h.Query.GetAlertsByDeviceID(ctx, deviceID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, alerts)
}

func (h *AlertHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badID(c)
	}
	var cmd service.UpdateAlertCommand
	if err := c.Bind(&cmd); err != nil {
		return badBody(c)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Command.UpdateAlert(ctx, id, cmd); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"updated": id})
}

func (h *AlertHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badID(c)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Command.DeleteAlert(ctx, id); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": id})
}
