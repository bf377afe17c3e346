package api

import (
	"errors"
	"net/http"

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

type PaymentHandler struct {
	cmds commands.PaymentCommands
	q    queries.PaymentQueries
}

func NewPaymentHandler(cmds commands.PaymentCommands, q queries.PaymentQueries) *PaymentHandler {
	return &PaymentHandler{cmds: cmds, q: q}
}

// @Summary Create payment
// @Description Open a payment attempt and get the gateway redirect URL
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreatePaymentRequest true "Payment request"
// @Success 201 {object} resdto.CreatePaymentResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /payments [post]
func (h *PaymentHandler) Create(c *gin.Context) {
	payerID, ok := middleware.GetResidentID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errs.New("missing resident context"), "Unauthorized", nil)
		return
	}

	var req reqdto.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}
	cmd, err := req.ToCommand()
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid payment target", nil)
		return
	}

	result, err := h.cmds.CreatePayment(c.Request.Context(), cmd, payerID)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrUnsupportedGateway):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Unsupported payment gateway", nil)
		case errors.Is(err, commands.ErrTargetNotFound), errors.Is(err, commands.ErrTargetNotOwned):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Payment target not found", nil)
		case errors.Is(err, commands.ErrAlreadyPaid):
			httperr.AbortWithError(c, http.StatusConflict, err, "Target already paid", nil)
		case errors.Is(err, commands.ErrTargetNotPayable):
			httperr.AbortWithError(c, http.StatusConflict, err, "Target is not payable", nil)
		case errors.Is(err, commands.ErrGatewayUnavailable):
			httperr.AbortWithError(c, http.StatusBadGateway, err, "Payment gateway unavailable", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}
	c.JSON(http.StatusCreated, resdto.FromCreatePaymentResult(result))
}

// @Summary Get payment
// @Description Get one of the caller's payment transactions by ID
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Success 200 {object} resdto.PaymentResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /payments/{id} [get]
func (h *PaymentHandler) Get(c *gin.Context) {
	payerID, ok := middleware.GetResidentID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errs.New("missing resident context"), "Unauthorized", nil)
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}

	view, err := h.q.GetByID(c.Request.Context(), payerID, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) || errors.Is(err, queries.ErrPaymentNotVisible) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "Payment not found", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to load payment", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromPaymentView(view))
}
