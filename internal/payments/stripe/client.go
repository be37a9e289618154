package stripe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/BruksfildServices01/home-services-api/internal/payments"
)

const apiBase = "https://api.stripe.com"

// Timeout curto e explícito: timeout NUNCA vira "assume que deu certo".
const requestTimeout = 8 * time.Second

type Client struct {
	secretKey string
	baseURL   string
	http      *http.Client
}

func NewClient(secretKey string) *Client {
	return &Client{
		secretKey: strings.TrimSpace(secretKey),
		baseURL:   apiBase,
		http:      &http.Client{Timeout: requestTimeout},
	}
}

// NewClientWithBaseURL existe para os testes apontarem num httptest.Server.
func NewClientWithBaseURL(secretKey, baseURL string) *Client {
	c := NewClient(secretKey)
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

type errorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// CreateIntent cria a payment intent com o split da plataforma:
// application_fee_amount fica com o marketplace, o resto vai via
// transfer_data[destination] para a conta conectada do prestador.
func (c *Client) CreateIntent(ctx context.Context, in payments.CreateIntentInput) (*payments.Intent, error) {
	if c.secretKey == "" {
		return nil, &payments.ProviderError{Op: "create_intent", Err: errors.New("missing secret key")}
	}

	values := url.Values{}
	values.Set("amount", strconv.FormatInt(in.AmountCents, 10))
	values.Set("currency", strings.ToLower(in.Currency))
	values.Set("application_fee_amount", strconv.FormatInt(in.ApplicationFeeCents, 10))
	values.Set("transfer_data[destination]", in.DestinationAccount)
	values.Set("automatic_payment_methods[enabled]", "true")
	for k, v := range in.Metadata {
		values.Set(fmt.Sprintf("metadata[%s]", k), v)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/v1/payment_intents",
		strings.NewReader(values.Encode()),
	)
	if err != nil {
		return nil, &payments.ProviderError{Op: "create_intent", Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if in.IdempotencyKey != "" {
		req.Header.Set("Idempotency-Key", in.IdempotencyKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &payments.ProviderError{
			Op:      "create_intent",
			Timeout: isTimeout(err),
			Err:     err,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var apiErr errorResponse
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		msg := apiErr.Error.Message
		if msg == "" {
			msg = resp.Status
		}
		return nil, &payments.ProviderError{
			Op:  "create_intent",
			Err: fmt.Errorf("stripe %d: %s", resp.StatusCode, msg),
		}
	}

	var intent payments.Intent
	if err := json.NewDecoder(resp.Body).Decode(&intent); err != nil {
		return nil, &payments.ProviderError{Op: "create_intent", Err: err}
	}
	if intent.ID == "" || intent.ClientSecret == "" {
		return nil, &payments.ProviderError{Op: "create_intent", Err: errors.New("incomplete intent response")}
	}

	return &intent, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

var _ payments.Provider = (*Client)(nil)
