package api

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"resihub/internal/domain/payment"
	"resihub/internal/handler/httperr"
	"resihub/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type WebhookHandler struct {
	cmds commands.PaymentCommands
}

func NewWebhookHandler(cmds commands.PaymentCommands) *WebhookHandler {
	return &WebhookHandler{cmds: cmds}
}

// @Summary MoMo IPN
// @Description Receive a MoMo payment notification
// @Tags webhooks
// @Accept json
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string
// @Router /payments/webhook/momo [post]
func (h *WebhookHandler) MoMo(c *gin.Context) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid IPN body", nil)
		return
	}
	payload := stringifyPayload(body)

	err := h.cmds.HandleWebhook(c.Request.Context(), payment.GatewayMoMo, payload)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrSignatureInvalid):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Signature verification failed", nil)
		case errors.Is(err, commands.ErrTransactionNotFound):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Unknown order reference", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary VNPay IPN
// @Description Receive a VNPay payment notification
// @Tags webhooks
// @Produce json
// @Success 200 {object} map[string]string
// @Router /payments/webhook/vnpay [get]
func (h *WebhookHandler) VNPay(c *gin.Context) {
	payload := make(map[string]string)
	for k, vs := range c.Request.URL.Query() {
		if len(vs) > 0 {
			payload[k] = vs[0]
		}
	}

	// VNPay expects HTTP 200 with an RspCode for every outcome; non-00
	// codes tell it to redeliver.
	err := h.cmds.HandleWebhook(c.Request.Context(), payment.GatewayVNPay, payload)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"RspCode": "00", "Message": "Confirm Success"})
	case errors.Is(err, commands.ErrSignatureInvalid):
		c.JSON(http.StatusOK, gin.H{"RspCode": "97", "Message": "Invalid Checksum"})
	case errors.Is(err, commands.ErrTransactionNotFound):
		c.JSON(http.StatusOK, gin.H{"RspCode": "01", "Message": "Order not Found"})
	default:
		slog.Error("vnpay webhook processing failed", "error", err.Error())
		c.JSON(http.StatusOK, gin.H{"RspCode": "99", "Message": "Unknown error"})
	}
}

// stringifyPayload flattens a decoded JSON body into the string map the
// signature is verified over. Integral numbers must not pick up a decimal
// point, the provider signed them without one.
func stringifyPayload(body map[string]any) map[string]string {
	out := make(map[string]string, len(body))
	for k, v := range body {
		switch val := v.(type) {
		case string:
			out[k] = val
		case float64:
			if val == math.Trunc(val) {
				out[k] = strconv.FormatInt(int64(val), 10)
			} else {
				out[k] = strconv.FormatFloat(val, 'f', -1, 64)
			}
		case bool:
			out[k] = strconv.FormatBool(val)
		case nil:
			out[k] = ""
		default:
			out[k] = fmt.Sprintf("%v", val)
		}
	}
	return out
}
