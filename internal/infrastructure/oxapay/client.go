package oxapay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/LavaJover/shvark-deposit-service/internal/domain"
)

const resultOK = 100

// Client is a thin wrapper around the OxaPay Merchant API.
type Client struct {
	merchantKey string
	apiURL      string
	callbackURL string
	httpClient  *http.Client
}

func NewClient(merchantKey, apiURL, callbackURL string) *Client {
	return &Client{
		merchantKey: merchantKey,
		apiURL:      apiURL,
		callbackURL: callbackURL,
		httpClient: &http.Client{
			Timeout: 20 * time.Second,
		},
	}
}

type invoiceRequest struct {
	Merchant    string  `json:"merchant"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	OrderID     string  `json:"orderId"`
	CallbackURL string  `json:"callbackUrl"`
	Description string  `json:"description"`
}

type invoiceResponse struct {
	Result  int    `json:"result"`
	Message string `json:"message"`
	TrackID string `json:"trackId"`
	PayLink string `json:"payLink"`
	PayURL  string `json:"payUrl"`
}

// CreateInvoice requests a payment invoice and returns the pay link the user
// should be sent to. amountUSD is the invoice value; currency is the coin the
// user will pay in and later be credited in.
func (c *Client) CreateInvoice(ctx context.Context, amountUSD float64, currency, orderID string) (string, error) {
	requestBodyBytes, err := json.Marshal(invoiceRequest{
		Merchant:    c.merchantKey,
		Amount:      amountUSD,
		Currency:    currency,
		OrderID:     orderID,
		CallbackURL: c.callbackURL,
		Description: "Casino Deposit",
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewBuffer(requestBodyBytes))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	response, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer response.Body.Close()
	responseBodyBytes, err := io.ReadAll(response.Body)
	if err != nil {
		return "", err
	}

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return "", fmt.Errorf("%w: invoice request returned HTTP %d", domain.ErrInvoiceFailed, response.StatusCode)
	}

	var invoice invoiceResponse
	if err := json.Unmarshal(responseBodyBytes, &invoice); err != nil {
		return "", err
	}
	if invoice.Result != resultOK {
		return "", fmt.Errorf("%w: result=%d message=%s", domain.ErrInvoiceFailed, invoice.Result, invoice.Message)
	}

	payLink := invoice.PayLink
	if payLink == "" {
		payLink = invoice.PayURL
	}
	if payLink == "" {
		return "", fmt.Errorf("%w: no pay link in response", domain.ErrInvoiceFailed)
	}
	return payLink, nil
}
