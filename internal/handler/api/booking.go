package api

import (
	"errors"
	"net/http"
	"strconv"

	reqdto "resihub/internal/handler/dto/request"
	resdto "resihub/internal/handler/dto/response"
	"resihub/internal/handler/httperr"
	"resihub/internal/handler/middleware"
	"resihub/internal/infra"
	"resihub/internal/pkg/errs"
	"resihub/internal/usecase/commands"
	"resihub/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BookingHandler struct {
	reservations commands.ReservationCommands
	lifecycle    commands.LifecycleCommands
	q            queries.BookingQueries
}

func NewBookingHandler(reservations commands.ReservationCommands, lifecycle commands.LifecycleCommands, q queries.BookingQueries) *BookingHandler {
	return &BookingHandler{reservations: reservations, lifecycle: lifecycle, q: q}
}

// @Summary Create booking
// @Description Reserve amenity slot windows and open a payment hold
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateBookingRequest true "Booking request"
// @Success 201 {object} resdto.BookingResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /bookings [post]
func (h *BookingHandler) Create(c *gin.Context) {
	residentID, ok := middleware.GetResidentID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errs.New("missing resident context"), "Unauthorized", nil)
		return
	}

	var req reqdto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}
	cmd, err := req.ToCommand()
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid booking date", nil)
		return
	}

	result, err := h.reservations.Reserve(c.Request.Context(), cmd, residentID)
	if err != nil {
		var slotErr *commands.SlotUnavailableError
		switch {
		case errors.As(err, &slotErr):
			httperr.AbortWithError(c, http.StatusConflict, err, "Slot window has no remaining capacity", gin.H{
				"start": slotErr.Start,
				"end":   slotErr.End,
			})
		case errors.Is(err, commands.ErrResidentNotFound), errors.Is(err, commands.ErrResidentInactive):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Resident not found", nil)
		case errors.Is(err, commands.ErrAmenityNotFound), errors.Is(err, commands.ErrAmenityInactive):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Amenity not found", nil)
		case errors.Is(err, commands.ErrDomainValidation):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid booking windows", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	view, err := h.q.GetByID(c.Request.Context(), residentID, result.BookingID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to load booking", nil)
		return
	}
	c.JSON(http.StatusCreated, resdto.FromBookingView(view))
}

// @Summary List bookings
// @Description List the caller's bookings, newest first
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Max rows" default(50)
// @Success 200 {array} resdto.BookingListResponse
// @Failure 401 {object} map[string]string
// @Router /bookings [get]
func (h *BookingHandler) List(c *gin.Context) {
	residentID, ok := middleware.GetResidentID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errs.New("missing resident context"), "Unauthorized", nil)
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	items, err := h.q.ListByResident(c.Request.Context(), residentID, limit)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to list bookings", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromBookingListItems(items))
}

// @Summary Get booking
// @Description Get one of the caller's bookings by ID
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /bookings/{id} [get]
func (h *BookingHandler) Get(c *gin.Context) {
	residentID, ok := middleware.GetResidentID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errs.New("missing resident context"), "Unauthorized", nil)
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}

	view, err := h.q.GetByID(c.Request.Context(), residentID, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) || errors.Is(err, queries.ErrBookingNotVisible) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "Booking not found", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to load booking", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}

// @Summary Pay booking directly
// @Description Settle a pending booking without a gateway round-trip
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /bookings/{id}/pay [post]
func (h *BookingHandler) Pay(c *gin.Context) {
	residentID, ok := middleware.GetResidentID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errs.New("missing resident context"), "Unauthorized", nil)
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}

	if err := h.lifecycle.MarkPaid(c.Request.Context(), id, residentID); err != nil {
		switch {
		case errors.Is(err, commands.ErrBookingNotFound), errors.Is(err, commands.ErrBookingNotOwned):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Booking not found", nil)
		case errors.Is(err, commands.ErrBookingExpired):
			httperr.AbortWithError(c, http.StatusConflict, err, "Payment window expired", nil)
		case errors.Is(err, commands.ErrBookingNotPending):
			httperr.AbortWithError(c, http.StatusConflict, err, "Booking is not awaiting payment", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	view, err := h.q.GetByID(c.Request.Context(), residentID, id)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to load booking", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}
