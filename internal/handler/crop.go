package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/agrovia/agrocontrol/internal/service"
)

// CropHandler serves crops plus their nested recommendation and history
// endpoints.
type CropHandler struct {
	Command *service.CropCommandService
	Query   *service.CropQueryService
}

func NewCropHandler(cmd *service.CropCommandService, q *service.CropQueryService) *CropHandler {
	return &CropHandler{Command: cmd, Query: q}
}

// ---- crops ----

func (h *CropHandler) Create(c echo.Context) error {
	var cmd service.CreateCropCommand
	if err := c.Bind(&cmd); err != nil {
		return badBody(c)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	id, err := h.Command.CreateCrop(ctx, cmd)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

func (h *CropHandler) GetAll(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	crops, err := h.Query.GetAllCrops(ctx)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, crops)
}

func (h *CropHandler) GetByID(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badID(c)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	crop, err := h.Query.GetCropByID(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, crop)
}

func (h *CropHandler) GetByField(c echo.Context) error {
	fieldID, err := pathID(c, "fieldId")
	if err != nil {
		return badID(c)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	crops, err := h.Query.GetCropsByFieldID(ctx, fieldID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, crops)
}

func (h *CropHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badID(c)
	}
	var cmd service.UpdateCropCommand
	if err := c.Bind(&cmd); err != nil {
		return badBody(c)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Command.UpdateCrop(ctx, id, cmd); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"updated": id})
}

func (h *CropHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badID(c)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Command.DeleteCrop(ctx, id); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": id})
}

// ---- recommendations ----

func (h *CropHandler) CreateRecommendation(c echo.Context) error {
	cropID, err := pathID(c, "cropId")
	if err != nil {
		return badID(c)
	}
	var cmd service.CreateRecommendationCommand
	if err := c.Bind(&cmd); err != nil {
		return badBody(c)
	}
	cmd.CropID = cropID

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	id, err := h.Command.CreateRecommendation(ctx, cmd)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

func (h *CropHandler) GetRecommendationByID(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badID(c)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	rec, err := h.Query.GetRecommendationByID(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, rec)
}

func (h *CropHandler) GetRecommendationsByCrop(c echo.Context) error {
	cropID, err := pathID(c, "cropId")
	if err != nil {
		return badID(c)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	recs, err := h.Query.GetRecommendationsByCropID(ctx, cropID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, recs)
}

func (h *CropHandler) UpdateRecommendation(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badID(c)
	}
	var cmd service.UpdateRecommendationCommand
	if err := c.Bind(&cmd); err != nil {
		return badBody(c)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Command.UpdateRecommendation(ctx, id, cmd); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"updated": id})
}

func (h *CropHandler) DeleteRecommendation(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badID(c)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Command.DeleteRecommendation(ctx, id); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": id})
}

// ---- history ----

func (h *CropHandler) CreateHistory(c echo.Context) error {
	cropID, err := pathID(c, "cropId")
	if err != nil {
		return badID(c)
	}
	var cmd service.CreateHistoryCommand
	if err := c.Bind(&cmd); err != nil {
		return badBody(c)
	}
	cmd.CropID = cropID

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	id, err := h.Command.CreateHistory(ctx, cmd)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

func (h *CropHandler) GetHistoryByCrop(c echo.Context) error {
	cropID, err := pathID(c, "cropId")
	if err != nil {
		return badID(c)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	records, err := h.Query.GetHistoryByCropID(ctx, cropID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, records)
}

func (h *CropHandler) UpdateHistory(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badID(c)
	}
	var cmd service.UpdateHistoryCommand
	if err := c.Bind(&cmd); err != nil {
		return badBody(c)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Command.UpdateHistory(ctx, id, cmd); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"updated": id})
}

func (h *CropHandler) DeleteHistory(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badID(c)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Command.DeleteHistory(ctx, id); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": id})
}
