package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/agrovia/agrocontrol/internal/middleware"
	"github.com/agrovia/agrocontrol/internal/service"
)

// SubscriptionHandler serves the subscription CRUD endpoints.  Like
// fields, ownership is stamped from the authenticated identity.
type SubscriptionHandler struct {
	Command *service.SubscriptionCommandService
	Query   *service.SubscriptionQueryService
}

func NewSubscriptionHandler(cmd *service.SubscriptionCommandService, q *service.SubscriptionQueryService) *SubscriptionHandler {
	return &SubscriptionHandler{Command: cmd, Query: q}
}

func (h *SubscriptionHandler) Create(c echo.Context) error {
	var cmd service.CreateSubscriptionCommand
	if err := c.Bind(&cmd); err != nil {
		return badBody(c)
	}
	u := middleware.CurrentUser(c)
	if u == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	cmd.UserID = u.ID

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	id, err := h.Command.CreateSubscription(ctx, cmd)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

func (h *SubscriptionHandler) GetAll(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	subs, err := h.Query.GetAllSubscriptions(ctx)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, subs)
}

func (h *SubscriptionHandler) GetByID(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badID(c)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	sub, err := h.Query.GetSubscriptionByID(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, sub)
}

func (h *SubscriptionHandler) GetByUser(c echo.Context) error {
	userID, err := pathID(c, "userId")
	if err != nil {
		return badID(c)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	sub, err := h.Query.GetSubscriptionByUserID(ctx, userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, sub)
}

func (h *SubscriptionHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badID(c)
	}
	var cmd service.UpdateSubscriptionCommand
	if err := c.Bind(&cmd); err != nil {
		return badBody(c)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Command.UpdateSubscription(ctx, id, cmd); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"updated": id})
}

func (h *SubscriptionHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badID(c)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Command.DeleteSubscription(ctx, id); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": id})
}
