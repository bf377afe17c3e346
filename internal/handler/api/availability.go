package api

import (
	"errors"
	"net/http"
	"time"

	resdto "resihub/internal/handler/dto/response"
	"resihub/internal/handler/httperr"
	"resihub/internal/infra"
	"resihub/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AvailabilityHandler struct {
	q queries.AvailabilityQueries
}

func NewAvailabilityHandler(q queries.AvailabilityQueries) *AvailabilityHandler {
	return &AvailabilityHandler{q: q}
}

// @Summary Amenity availability
// @Description Daily slot grid with remaining capacity per window
// @Tags amenities
// @Produce json
// @Security BearerAuth
// @Param id path string true "Amenity ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} resdto.AvailabilityResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /amenities/{id}/availability [get]
func (h *AvailabilityHandler) DayGrid(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}
	date, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid date, expected YYYY-MM-DD", nil)
		return
	}

	slots, err := h.q.DayGrid(c.Request.Context(), id, date)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) || errors.Is(err, queries.ErrAmenityNotBookable) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "Amenity not found", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to load availability", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromSlotViews(id, date, slots))
}
