package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Config carries everything the client needs; credentials are injected here
// and never read from ambient state inside request handling.
type Config struct {
	Name        string // gateway identifier recorded on orders
	BaseURL     string
	SecretKey   string
	CallbackURL string
}

type InitializeResult struct {
	RedirectURL string
	Reference   string
}

type VerifyCustomer struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
}

type VerifyResult struct {
	Status      string // gateway's own status string, e.g. "success"
	AmountMinor int64
	Customer    VerifyCustomer
}

type Client interface {
	Name() string
	Initialize(ctx context.Context, amountMinor int64, email string, metadata map[string]string) (*InitializeResult, error)
	Verify(ctx context.Context, reference string) (*VerifyResult, error)
}

// Error is returned for any non-success HTTP response or transport failure
// from the gateway. Message carries the gateway's own error body when one
// was available.
type Error struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("gateway %s failed with status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("gateway %s failed with status %d: %s", e.Op, e.StatusCode, e.Message)
}

// ToMinor converts a major-unit amount to the gateway's minor currency
// units. FromMinor is its exact inverse; amounts cross the gateway boundary
// only through these two.
func ToMinor(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).IntPart()
}

func FromMinor(amountMinor int64) decimal.Decimal {
	return decimal.New(amountMinor, -2)
}

func NewClient(cfg Config, httpClient *http.Client) Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &client{cfg: cfg, http: httpClient}
}

type client struct {
	cfg  Config
	http *http.Client
}

func (c *client) Name() string {
	return c.cfg.Name
}

type initializeRequest struct {
	Email       string            `json:"email"`
	Amount      int64             `json:"amount"`
	CallbackURL string            `json:"callback_url"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

type initializeResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		AuthorizationURL string `json:"authorization_url"`
		AccessCode       string `json:"access_code"`
		Reference        string `json:"reference"`
	} `json:"data"`
}

func (c *client) Initialize(ctx context.Context, amountMinor int64, email string, metadata map[string]string) (*InitializeResult, error) {
	payload := initializeRequest{
		Email:       email,
		Amount:      amountMinor,
		CallbackURL: c.cfg.CallbackURL,
		Metadata:    metadata,
	}

	var resp initializeResponse
	if err := c.call(ctx, http.MethodPost, "/transaction/initialize", &payload, &resp, "initialize"); err != nil {
		return nil, err
	}

	return &InitializeResult{
		RedirectURL: resp.Data.AuthorizationURL,
		Reference:   resp.Data.Reference,
	}, nil
}

type verifyResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Status   string `json:"status"`
		Amount   int64  `json:"amount"`
		Customer struct {
			FirstName string `json:"first_name"`
			LastName  string `json:"last_name"`
			Email     string `json:"email"`
			Phone     string `json:"phone"`
		} `json:"customer"`
	} `json:"data"`
}

func (c *client) Verify(ctx context.Context, reference string) (*VerifyResult, error) {
	var resp verifyResponse
	if err := c.call(ctx, http.MethodGet, "/transaction/verify/"+reference, nil, &resp, "verify"); err != nil {
		return nil, err
	}

	return &VerifyResult{
		Status:      resp.Data.Status,
		AmountMinor: resp.Data.Amount,
		Customer: VerifyCustomer{
			FirstName: resp.Data.Customer.FirstName,
			LastName:  resp.Data.Customer.LastName,
			Email:     resp.Data.Customer.Email,
			Phone:     resp.Data.Customer.Phone,
		},
	}, nil
}

func (c *client) call(ctx context.Context, method, path string, payload, result interface{}, op string) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return errors.Wrapf(err, "encode gateway %s request", op)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, body)
	if err != nil {
		return errors.Wrapf(err, "build gateway %s request", op)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.SecretKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Op: op, Message: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Op: op, StatusCode: resp.StatusCode, Message: err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{Op: op, StatusCode: resp.StatusCode, Message: gatewayMessage(raw)}
	}

	if err := json.Unmarshal(raw, result); err != nil {
		return &Error{Op: op, StatusCode: resp.StatusCode, Message: "malformed gateway response"}
	}
	return nil
}

// gatewayMessage pulls the human-readable message out of a gateway error
// body, falling back to the raw body.
func gatewayMessage(raw []byte) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && body.Message != "" {
		return body.Message
	}
	return string(raw)
}
