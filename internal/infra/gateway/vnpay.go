package gateway

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"resihub/internal/domain/payment"
	"resihub/internal/pkg/clock"
	"resihub/internal/pkg/config"
)

const vnpDateLayout = "20060102150405"

// VNPay integrates the VNPay card/bank gateway: create-payment builds a
// signed redirect URL locally with no API round-trip, confirmation arrives
// as an IPN GET whose query string carries the signature.
type VNPay struct {
	cfg config.VNPayConfig
	clk clock.Clock
	loc *time.Location
}

func NewVNPay(cfg config.VNPayConfig, clk clock.Clock) *VNPay {
	loc, err := time.LoadLocation("Asia/Ho_Chi_Minh")
	if err != nil {
		loc = time.FixedZone("ICT", 7*60*60)
	}
	return &VNPay{cfg: cfg, clk: clk, loc: loc}
}

func (v *VNPay) Kind() payment.GatewayKind {
	return payment.GatewayVNPay
}

func (v *VNPay) Available() bool {
	return v.cfg.TmnCode != "" && v.cfg.HashSecret != ""
}

func (v *VNPay) CreatePayment(_ context.Context, in CreatePaymentInput) (string, error) {
	if !v.Available() {
		return "", ErrUnavailable
	}

	now := v.clk.Now().In(v.loc)
	params := map[string]string{
		"vnp_Version":    "2.1.0",
		"vnp_Command":    "pay",
		"vnp_TmnCode":    v.cfg.TmnCode,
		"vnp_Amount":     strconv.FormatInt(in.Amount*100, 10),
		"vnp_CurrCode":   payment.DefaultCurrency,
		"vnp_TxnRef":     in.TxnRef,
		"vnp_OrderInfo":  in.OrderInfo,
		"vnp_OrderType":  "other",
		"vnp_Locale":     "vn",
		"vnp_ReturnUrl":  v.cfg.ReturnURL,
		"vnp_IpAddr":     "127.0.0.1",
		"vnp_CreateDate": now.Format(vnpDateLayout),
		"vnp_ExpireDate": now.Add(payment.URLTTL).Format(vnpDateLayout),
	}

	query := encodeSorted(params)
	signed := query + "&vnp_SecureHash=" + v.sign(query)
	return v.cfg.PayURL + "?" + signed, nil
}

func (v *VNPay) VerifySignature(payload map[string]string) bool {
	got := payload["vnp_SecureHash"]
	if got == "" {
		return false
	}
	data := make(map[string]string, len(payload))
	for k, val := range payload {
		if k == "vnp_SecureHash" || k == "vnp_SecureHashType" {
			continue
		}
		data[k] = val
	}
	want := v.sign(joinSorted(data))
	return hmac.Equal([]byte(strings.ToLower(got)), []byte(want))
}

func (v *VNPay) ParseResult(payload map[string]string) WebhookResult {
	paidAt := time.Time{}
	if t, err := time.ParseInLocation(vnpDateLayout, payload["vnp_PayDate"], v.loc); err == nil {
		paidAt = t.UTC()
	}
	return WebhookResult{
		OrderRef:      payload["vnp_TxnRef"],
		TransactionID: payload["vnp_TransactionNo"],
		ResponseCode:  payload["vnp_ResponseCode"],
		Succeeded:     payload["vnp_ResponseCode"] == "00",
		PaidAt:        paidAt,
	}
}

func (v *VNPay) sign(data string) string {
	mac := hmac.New(sha512.New, []byte(v.cfg.HashSecret))
	mac.Write([]byte(data))
	return hex.EncodeToString(mac.Sum(nil))
}

// joinSorted builds the signing string: keys sorted ascending, joined as
// key=value&..., values exactly as received.
func joinSorted(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(params[k])
	}
	return b.String()
}

// encodeSorted builds the redirect query string. VNPay signs the encoded
// form, so the same encoding must be used for both the query and the hash.
func encodeSorted(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(params[k]))
	}
	return b.String()
}
