package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/agrovia/agrocontrol/internal/middleware"
	"github.com/agrovia/agrocontrol/internal/service"
)

// FieldHandler serves the field CRUD endpoints.  Field ownership is
// stamped from the authenticated identity, never taken from the body.
type FieldHandler struct {
	Command *service.FieldCommandService
	Query   *service.FieldQueryService
}

func NewFieldHandler(cmd *service.FieldCommandService, q *service.FieldQueryService) *FieldHandler {
	return &FieldHandler{Command: cmd, Query: q}
}

func (h *FieldHandler) Create(c echo.Context) error {
	var cmd service.CreateFieldCommand
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

	id, err := h.Command.CreateField(ctx, cmd)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

func (h *FieldHandler) GetAll(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	fields, err := h.Query.GetAllFields(ctx)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, fields)
}

func (h *FieldHandler) GetByID(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badID(c)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	f, err := h.Query.GetFieldByID(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, f)
}

func (h *FieldHandler) GetByName(c echo.Context) error {
	name := strings.TrimSpace(c.Param("name"))
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid name"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	f, err := h.Query.GetFieldByName(ctx, name)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, f)
}

func (h *FieldHandler) GetByUser(c echo.Context) error {
	userID, err := pathID(c, "userId")
	if err != nil {
		return badID(c)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	fields, err := h.Query.GetFieldsByUserID(ctx, userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, fields)
}

func (h *FieldHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badID(c)
	}
	var cmd service.UpdateFieldCommand
	if err := c.Bind(&cmd); err != nil {
		return badBody(c)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Command.UpdateField(ctx, id, cmd); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"updated": id})
}

func (h *FieldHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badID(c)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Command.DeleteField(ctx, id); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": id})
}
