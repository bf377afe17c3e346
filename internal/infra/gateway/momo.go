package gateway

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"resihub/internal/domain/payment"
	"resihub/internal/pkg/config"
	"resihub/internal/pkg/errs"

	"github.com/google/uuid"
)

// MoMo integrates the MoMo e-wallet: create-payment is a signed JSON POST
// to the partner API, confirmation arrives as an IPN POST with a JSON body.
type MoMo struct {
	cfg    config.MoMoConfig
	client *http.Client
}

func NewMoMo(cfg config.MoMoConfig) *MoMo {
	return &MoMo{
		cfg:    cfg,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

func (m *MoMo) Kind() payment.GatewayKind {
	return payment.GatewayMoMo
}

func (m *MoMo) Available() bool {
	return m.cfg.PartnerCode != "" && m.cfg.AccessKey != "" && m.cfg.SecretKey != ""
}

type momoCreateRequest struct {
	PartnerCode string `json:"partnerCode"`
	AccessKey   string `json:"accessKey"`
	RequestID   string `json:"requestId"`
	Amount      int64  `json:"amount"`
	OrderID     string `json:"orderId"`
	OrderInfo   string `json:"orderInfo"`
	RedirectURL string `json:"redirectUrl"`
	IpnURL      string `json:"ipnUrl"`
	ExtraData   string `json:"extraData"`
	RequestType string `json:"requestType"`
	Signature   string `json:"signature"`
	Lang        string `json:"lang"`
}

type momoCreateResponse struct {
	ResultCode int    `json:"resultCode"`
	Message    string `json:"message"`
	PayURL     string `json:"payUrl"`
}

func (m *MoMo) CreatePayment(ctx context.Context, in CreatePaymentInput) (string, error) {
	if !m.Available() {
		return "", ErrUnavailable
	}

	req := momoCreateRequest{
		PartnerCode: m.cfg.PartnerCode,
		AccessKey:   m.cfg.AccessKey,
		RequestID:   uuid.NewString(),
		Amount:      in.Amount,
		OrderID:     in.TxnRef,
		OrderInfo:   in.OrderInfo,
		RedirectURL: m.cfg.RedirectURL,
		IpnURL:      m.cfg.IpnURL,
		ExtraData:   "",
		RequestType: "captureWallet",
		Lang:        "vi",
	}
	raw := fmt.Sprintf(
		"accessKey=%s&amount=%d&extraData=%s&ipnUrl=%s&orderId=%s&orderInfo=%s&partnerCode=%s&redirectUrl=%s&requestId=%s&requestType=%s",
		req.AccessKey, req.Amount, req.ExtraData, req.IpnURL, req.OrderID,
		req.OrderInfo, req.PartnerCode, req.RedirectURL, req.RequestID, req.RequestType,
	)
	req.Signature = m.sign(raw)

	body, err := json.Marshal(req)
	if err != nil {
		return "", errs.Wrap(err, "failed to encode momo create request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, m.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", errs.Wrap(err, "failed to build momo create request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(httpReq)
	if err != nil {
		return "", errs.Mark(errs.Wrap(err, "momo create-payment call failed"), ErrUnavailable)
	}
	defer resp.Body.Close()

	var out momoCreateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", errs.Mark(errs.Wrap(err, "failed to decode momo create response"), ErrUnavailable)
	}
	if out.ResultCode != 0 || out.PayURL == "" {
		return "", errs.Mark(errs.New(fmt.Sprintf("momo declined create-payment: code=%d message=%s", out.ResultCode, out.Message)), ErrGatewayRejected)
	}
	return out.PayURL, nil
}

// momoIpnFields is the fixed key order the IPN signature is computed over.
var momoIpnFields = []string{
	"amount", "extraData", "message", "orderId", "orderInfo", "orderType",
	"partnerCode", "payType", "requestId", "responseTime", "resultCode", "transId",
}

func (m *MoMo) VerifySignature(payload map[string]string) bool {
	got := payload["signature"]
	if got == "" {
		return false
	}
	raw := "accessKey=" + m.cfg.AccessKey
	for _, k := range momoIpnFields {
		raw += "&" + k + "=" + payload[k]
	}
	want := m.sign(raw)
	return hmac.Equal([]byte(got), []byte(want))
}

func (m *MoMo) ParseResult(payload map[string]string) WebhookResult {
	paidAt := time.Time{}
	if ms, err := strconv.ParseInt(payload["responseTime"], 10, 64); err == nil && ms > 0 {
		paidAt = time.UnixMilli(ms).UTC()
	}
	return WebhookResult{
		OrderRef:      payload["orderId"],
		TransactionID: payload["transId"],
		ResponseCode:  payload["resultCode"],
		Succeeded:     payload["resultCode"] == "0",
		PaidAt:        paidAt,
	}
}

func (m *MoMo) sign(raw string) string {
	mac := hmac.New(sha256.New, []byte(m.cfg.SecretKey))
	mac.Write([]byte(raw))
	return hex.EncodeToString(mac.Sum(nil))
}
