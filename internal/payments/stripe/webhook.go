package stripe

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/BruksfildServices01/home-services-api/internal/payments"
)

// Janela aceita entre o timestamp assinado e o relógio local.
const signatureTolerance = 5 * time.Minute

// VerifySignature valida o header Stripe-Signature (t=..,v1=..) contra
// o corpo cru da requisição. Qualquer divergência rejeita o evento
// inteiro antes de confiar em um byte do payload.
func VerifySignature(payload []byte, sigHeader, secret string, now time.Time) error {
	sigHeader = strings.TrimSpace(sigHeader)
	if sigHeader == "" || secret == "" {
		return payments.ErrInvalidSignature
	}

	timestamp, signatures, err := parseSignatureHeader(sigHeader)
	if err != nil {
		return payments.ErrInvalidSignature
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return payments.ErrInvalidSignature
	}
	issued := time.Unix(ts, 0)
	if now.Sub(issued) > signatureTolerance || issued.Sub(now) > signatureTolerance {
		return payments.ErrInvalidSignature
	}

	signedPayload := fmt.Sprintf("%s.%s", timestamp, string(payload))
	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write([]byte(signedPayload))
	expected := hex.EncodeToString(mac.Sum(nil))

	for _, signature := range signatures {
		if hmac.Equal([]byte(signature), []byte(expected)) {
			return nil
		}
	}

	return payments.ErrInvalidSignature
}

func parseSignatureHeader(header string) (string, []string, error) {
	var timestamp string
	var signatures []string

	for _, part := range strings.Split(header, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "t":
			timestamp = kv[1]
		case "v1":
			signatures = append(signatures, kv[1])
		}
	}

	if timestamp == "" || len(signatures) == 0 {
		return "", nil, payments.ErrInvalidSignature
	}
	return timestamp, signatures, nil
}

// ===============================
// Parse do evento
// ===============================

type webhookEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

type intentObject struct {
	ID       string            `json:"id"`
	Metadata map[string]string `json:"metadata"`
}

type accountObject struct {
	ID               string `json:"id"`
	ChargesEnabled   bool   `json:"charges_enabled"`
	PayoutsEnabled   bool   `json:"payouts_enabled"`
	DetailsSubmitted bool   `json:"details_submitted"`
}

// ParseEvent extrai o evento canônico. Tipos que não tratamos voltam
// com os campos crus mesmo assim: quem decide ignorar é o reconciler,
// confirmando o recebimento para o provedor não reentregar eternamente.
func ParseEvent(payload []byte) (*payments.Event, error) {
	var ev webhookEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return nil, payments.ErrInvalidPayload
	}
	if strings.TrimSpace(ev.ID) == "" || strings.TrimSpace(ev.Type) == "" {
		return nil, payments.ErrInvalidPayload
	}

	out := &payments.Event{
		ID:   ev.ID,
		Type: ev.Type,
		Raw:  payload,
	}

	switch ev.Type {
	case payments.EventPaymentSucceeded, payments.EventPaymentFailed:
		var obj intentObject
		if err := json.Unmarshal(ev.Data.Object, &obj); err != nil {
			return nil, payments.ErrInvalidPayload
		}
		if obj.ID == "" {
			return nil, payments.ErrInvalidPayload
		}
		out.PaymentRef = obj.ID
		out.Metadata = obj.Metadata

	case payments.EventAccountUpdated:
		var obj accountObject
		if err := json.Unmarshal(ev.Data.Object, &obj); err != nil {
			return nil, payments.ErrInvalidPayload
		}
		if obj.ID == "" {
			return nil, payments.ErrInvalidPayload
		}
		out.Account = &payments.AccountUpdate{
			AccountID:        obj.ID,
			ChargesEnabled:   obj.ChargesEnabled,
			PayoutsEnabled:   obj.PayoutsEnabled,
			DetailsSubmitted: obj.DetailsSubmitted,
		}
	}

	return out, nil
}
